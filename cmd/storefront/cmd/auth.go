package cmd

import (
	"strings"
	"time"

	"github.com/jrsteele09/go-storefront/views"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in through the identity provider",
	Long: `Opens the identity provider's login page in the browser and waits for the
redirect back to the local callback address.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if app.session.IsAuthenticated() {
			pterm.Info.Printfln("Already logged in as %s", app.session.Subject())
			return nil
		}
		if err := app.Login(cmd.Context(), views.RouteProducts); err != nil {
			return err
		}
		pterm.Success.Printfln("Logged in as %s", app.session.Subject())
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Log out and forget the stored session",
	RunE: func(cmd *cobra.Command, args []string) error {
		return app.Logout(cmd.Context())
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display authentication status",
	RunE: func(cmd *cobra.Command, args []string) error {
		s := app.session.Snapshot()
		if s == nil || !app.session.IsAuthenticated() {
			pterm.Warning.Println("Not logged in")
			return nil
		}

		pterm.DefaultSection.Println("Authentication Status")
		expires := "never"
		if !s.ExpiresAt.IsZero() {
			expires = s.ExpiresAt.Format(time.RFC1123)
		}
		renderTable(pterm.TableData{
			{"FIELD", "VALUE"},
			{"Subject", s.Subject},
			{"Email", s.Email},
			{"Roles", strings.Join(s.Roles, ", ")},
			{"Admin", boolText(app.session.IsAdmin())},
			{"Expires", expires},
		})
		return nil
	},
}

func boolText(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
