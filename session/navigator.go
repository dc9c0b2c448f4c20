package session

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"

	"github.com/rs/zerolog/log"
)

// Navigator performs the navigation side effects of login and logout.
type Navigator interface {
	Navigate(ctx context.Context, target string) error
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(ctx context.Context, target string) error

func (f NavigatorFunc) Navigate(ctx context.Context, target string) error {
	return f(ctx, target)
}

// BrowserNavigator opens absolute URLs in the system browser and prints them
// so the user can copy them when no browser is available.
type BrowserNavigator struct {
	Print func(target string)
}

func (b BrowserNavigator) Navigate(ctx context.Context, target string) error {
	if b.Print != nil {
		b.Print(target)
	}

	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.CommandContext(ctx, "open", target)
	case "windows":
		cmd = exec.CommandContext(ctx, "rundll32", "url.dll,FileProtocolHandler", target)
	default:
		cmd = exec.CommandContext(ctx, "xdg-open", target)
	}
	if err := cmd.Start(); err != nil {
		log.Debug().Err(err).Msg("could not open browser")
		return fmt.Errorf("open browser: %w", err)
	}
	return nil
}
