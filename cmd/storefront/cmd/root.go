package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/common-nighthawk/go-figure"
	"github.com/jrsteele09/go-storefront/internal/config"
	"github.com/jrsteele09/go-storefront/internal/errors"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var (
	nonInteractive bool
	configPath     string

	app *App
)

var rootCmd = &cobra.Command{
	Use:   "storefront",
	Short: "Storefront CLI - shop the catalog and manage inventory",
	Long: `storefront is a terminal client for the e-commerce services. Use it to browse
products, manage your cart, check out and review orders, and, as an admin,
manage inventory products and categories.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if os.Getenv("STOREFRONT_NON_INTERACTIVE") == "1" {
			nonInteractive = true
		}

		cfg := config.NewWithFile(config.LoadFile(configPath))
		setupLogging(cfg.GetLogLevel(), cfg.GetEnv())

		a, err := NewApp(cmd.Context(), cfg, nonInteractive)
		if err != nil {
			return err
		}
		app = a
		go app.session.WatchExpiry(cmd.Context())
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		displayAppname(app.config.GetAppName())
		return cmd.Help()
	},
}

// Execute runs the root command
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		var shown *reportedError
		if !errors.As(err, &shown) {
			pterm.Error.Println(err)
		}
		return err
	}
	return nil
}

// reportedError marks an error the views have already shown as a notification.
type reportedError struct {
	err error
}

func (e *reportedError) Error() string { return e.err.Error() }
func (e *reportedError) Unwrap() error { return e.err }

func reported(err error) error {
	if err == nil {
		return nil
	}
	return &reportedError{err: err}
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&nonInteractive, "non-interactive", false, "Never open a browser to log in (also set via STOREFRONT_NON_INTERACTIVE=1)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultFilePath(), "Path to the YAML config file")
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(productsCmd)
	rootCmd.AddCommand(cartCmd)
	rootCmd.AddCommand(ordersCmd)
	rootCmd.AddCommand(inventoryCmd)
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
