package views

import (
	"sync"
	"time"
)

// DefaultNotificationTTL is how long a notification stays visible.
const DefaultNotificationTTL = 3 * time.Second

type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
	LevelInfo    Level = "info"
)

type Notification struct {
	Level     Level
	Message   string
	CreatedAt time.Time
}

// Notifier receives the transient, user-facing outcome of a view action.
type Notifier interface {
	Notify(level Level, message string)
}

// Notifications keeps recent notifications and drops them after a TTL.
type Notifications struct {
	mu       sync.Mutex
	items    []Notification
	ttl      time.Duration
	nowFunc  func() time.Time
	listener func(Notification)
}

var _ Notifier = (*Notifications)(nil)

type NotificationsOption func(*Notifications)

func WithTTL(ttl time.Duration) NotificationsOption {
	return func(n *Notifications) {
		n.ttl = ttl
	}
}

// WithListener is called synchronously for every notification, e.g. to print it.
func WithListener(fn func(Notification)) NotificationsOption {
	return func(n *Notifications) {
		n.listener = fn
	}
}

func WithClock(now func() time.Time) NotificationsOption {
	return func(n *Notifications) {
		n.nowFunc = now
	}
}

func NewNotifications(options ...NotificationsOption) *Notifications {
	n := &Notifications{
		ttl:     DefaultNotificationTTL,
		nowFunc: time.Now,
	}
	for _, opt := range options {
		opt(n)
	}
	return n
}

func (n *Notifications) Notify(level Level, message string) {
	if message == "" {
		return
	}
	note := Notification{Level: level, Message: message, CreatedAt: n.nowFunc()}

	n.mu.Lock()
	n.pruneLocked()
	n.items = append(n.items, note)
	listener := n.listener
	n.mu.Unlock()

	if listener != nil {
		listener(note)
	}
}

// Active returns the notifications that have not yet been dismissed.
func (n *Notifications) Active() []Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.pruneLocked()
	return append([]Notification(nil), n.items...)
}

// Last returns the most recent active notification.
func (n *Notifications) Last() (Notification, bool) {
	active := n.Active()
	if len(active) == 0 {
		return Notification{}, false
	}
	return active[len(active)-1], true
}

func (n *Notifications) pruneLocked() {
	now := n.nowFunc()
	kept := n.items[:0]
	for _, item := range n.items {
		if now.Sub(item.CreatedAt) < n.ttl {
			kept = append(kept, item)
		}
	}
	n.items = kept
}
