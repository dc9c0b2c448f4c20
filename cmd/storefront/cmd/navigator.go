package cmd

import (
	"context"
	"strings"

	"github.com/jrsteele09/go-storefront/session"
	"github.com/jrsteele09/go-storefront/views"
	"github.com/pterm/pterm"
	"github.com/rs/zerolog/log"
)

// terminalNavigator opens external URLs in the browser and turns in-app
// route changes into hints on the terminal.
type terminalNavigator struct {
	browser      session.Navigator
	loggedOutURL string
}

var _ session.Navigator = (*terminalNavigator)(nil)

func newTerminalNavigator(loggedOutURL string) *terminalNavigator {
	return &terminalNavigator{
		browser: session.BrowserNavigator{Print: func(target string) {
			pterm.Info.Printfln("Opening %s", target)
		}},
		loggedOutURL: loggedOutURL,
	}
}

func (n *terminalNavigator) Navigate(ctx context.Context, target string) error {
	switch {
	case target == "":
		return nil
	case target == n.loggedOutURL:
		pterm.Success.Println("Logged out")
		return nil
	case strings.HasPrefix(target, "http://"), strings.HasPrefix(target, "https://"):
		if err := n.browser.Navigate(ctx, target); err != nil {
			// the URL has been printed, the user can open it by hand
			log.Debug().Err(err).Msg("Browser not opened")
		}
		return nil
	case target == views.RouteLogin:
		pterm.Warning.Println("Your session has ended. Run `storefront login` to sign in again.")
		return nil
	default:
		pterm.Info.Printfln("-> %s", target)
		return nil
	}
}
