package cmd

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var inventoryCmd = &cobra.Command{
	Use:   "inventory",
	Short: "Inventory service accounts, products and categories",
}

var (
	accountEmail    string
	accountPassword string
)

var inventoryRegisterCmd = &cobra.Command{
	Use:   "register",
	Short: "Create an inventory account",
	RunE: func(cmd *cobra.Command, args []string) error {
		password, err := passwordValue(accountPassword)
		if err != nil {
			return err
		}
		return reported(app.inventoryAuthView.Register(cmd.Context(), accountEmail, password))
	},
}

var inventoryLoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in with an inventory account",
	RunE: func(cmd *cobra.Command, args []string) error {
		password, err := passwordValue(accountPassword)
		if err != nil {
			return err
		}
		return reported(app.inventoryAuthView.Login(cmd.Context(), accountEmail, password))
	},
}

var inventoryVerifyCmd = &cobra.Command{
	Use:   "verify <token>",
	Short: "Verify an email address with the token from the verification email",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return reported(app.inventoryAuthView.VerifyEmail(cmd.Context(), args[0]))
	},
}

var inventoryForgotCmd = &cobra.Command{
	Use:   "forgot",
	Short: "Request a password reset email",
	RunE: func(cmd *cobra.Command, args []string) error {
		return reported(app.inventoryAuthView.RequestPasswordReset(cmd.Context(), accountEmail))
	},
}

var inventoryResetCmd = &cobra.Command{
	Use:   "reset <token>",
	Short: "Set a new password with the token from the reset email",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		password, err := passwordValue(accountPassword)
		if err != nil {
			return err
		}
		return reported(app.inventoryAuthView.ResetPassword(cmd.Context(), args[0], password))
	},
}

// passwordValue returns flag, or prompts for the password when it is empty.
func passwordValue(flag string) (string, error) {
	if flag != "" {
		return flag, nil
	}
	if nonInteractive {
		return "", fmt.Errorf("--password is required in non-interactive mode")
	}
	return pterm.DefaultInteractiveTextInput.WithMask("*").Show("Password")
}

// confirm asks before a destructive action unless assumeYes is set.
func confirm(assumeYes bool, question string) (bool, error) {
	if assumeYes {
		return true, nil
	}
	if nonInteractive {
		return false, fmt.Errorf("--yes is required in non-interactive mode")
	}
	return pterm.DefaultInteractiveConfirm.Show(question)
}

func init() {
	for _, c := range []*cobra.Command{inventoryRegisterCmd, inventoryLoginCmd, inventoryForgotCmd} {
		c.Flags().StringVar(&accountEmail, "email", "", "Account email address")
		_ = c.MarkFlagRequired("email")
	}
	for _, c := range []*cobra.Command{inventoryRegisterCmd, inventoryLoginCmd, inventoryResetCmd} {
		c.Flags().StringVar(&accountPassword, "password", "", "Account password (prompted for when omitted)")
	}

	inventoryCmd.AddCommand(inventoryRegisterCmd)
	inventoryCmd.AddCommand(inventoryLoginCmd)
	inventoryCmd.AddCommand(inventoryVerifyCmd)
	inventoryCmd.AddCommand(inventoryForgotCmd)
	inventoryCmd.AddCommand(inventoryResetCmd)
	inventoryCmd.AddCommand(inventoryProductsCmd)
	inventoryCmd.AddCommand(inventoryCategoriesCmd)
}
