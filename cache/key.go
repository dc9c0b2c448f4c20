package cache

import (
	"net/url"
	"strings"
)

// Key identifies a cache entry: a resource name and its ordered parameters.
type Key struct {
	Resource string
	Params   []string
}

func NewKey(resource string, params ...string) Key {
	return Key{Resource: resource, Params: params}
}

// String is the canonical form of the key. Parameters are escaped so that
// distinct keys never share a string.
func (k Key) String() string {
	var b strings.Builder
	b.WriteString(url.PathEscape(k.Resource))
	for _, p := range k.Params {
		b.WriteByte('/')
		b.WriteString(url.PathEscape(p))
	}
	return b.String()
}
