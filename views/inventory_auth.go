package views

import (
	"context"
	"net/mail"

	"github.com/jrsteele09/go-storefront/gateway"
)

const minPasswordLength = 8

// InventoryAuthView covers the inventory app's password login, registration,
// email verification and password reset forms.
type InventoryAuthView struct {
	deps Deps
}

func NewInventoryAuthView(deps Deps) *InventoryAuthView {
	return &InventoryAuthView{deps: deps}
}

func (v *InventoryAuthView) Register(ctx context.Context, email, password string) error {
	if err := v.validate(email, password); err != nil {
		return err
	}
	if err := v.deps.Inventory.Register(ctx, gateway.Credentials{Email: email, Password: password}); err != nil {
		return v.deps.fail(err, "Registration failed")
	}
	v.deps.success("Registration successful, check your email to verify your account")
	v.deps.navigate(ctx, RouteLogin)
	return nil
}

// Login exchanges credentials for a bearer token and signs the session in with it.
func (v *InventoryAuthView) Login(ctx context.Context, email, password string) error {
	if err := v.validate(email, password); err != nil {
		return err
	}
	token, err := v.deps.Inventory.Login(ctx, gateway.Credentials{Email: email, Password: password})
	if err != nil {
		return v.deps.fail(err, "An error occurred")
	}
	if err := v.deps.Session.SignIn(ctx, token); err != nil {
		return v.deps.fail(err, "An error occurred")
	}
	v.deps.success("Logged in successfully")
	v.deps.navigate(ctx, RouteProducts)
	return nil
}

func (v *InventoryAuthView) VerifyEmail(ctx context.Context, token string) error {
	if token == "" {
		return v.deps.fail(&InputError{Message: "Verification token is required"}, "")
	}
	if err := v.deps.Inventory.VerifyEmail(ctx, token); err != nil {
		return v.deps.fail(err, "Failed to verify email")
	}
	v.deps.success("Email verified successfully")
	v.deps.navigate(ctx, RouteLogin)
	return nil
}

func (v *InventoryAuthView) RequestPasswordReset(ctx context.Context, email string) error {
	if err := validateEmail(email); err != nil {
		return v.deps.fail(err, "")
	}
	if err := v.deps.Inventory.RequestPasswordReset(ctx, email); err != nil {
		return v.deps.fail(err, "Failed to request password reset")
	}
	v.deps.success("Password reset email sent")
	return nil
}

func (v *InventoryAuthView) ResetPassword(ctx context.Context, token, newPassword string) error {
	if token == "" {
		return v.deps.fail(&InputError{Message: "Reset token is required"}, "")
	}
	if err := validatePassword(newPassword); err != nil {
		return v.deps.fail(err, "")
	}
	if err := v.deps.Inventory.ResetPassword(ctx, token, newPassword); err != nil {
		return v.deps.fail(err, "Failed to reset password")
	}
	v.deps.success("Password reset successfully")
	v.deps.navigate(ctx, RouteLogin)
	return nil
}

func (v *InventoryAuthView) validate(email, password string) error {
	if err := validateEmail(email); err != nil {
		return v.deps.fail(err, "")
	}
	if err := validatePassword(password); err != nil {
		return v.deps.fail(err, "")
	}
	return nil
}

func validateEmail(email string) error {
	if _, err := mail.ParseAddress(email); err != nil {
		return &InputError{Message: "Invalid email address"}
	}
	return nil
}

func validatePassword(password string) error {
	if len(password) < minPasswordLength {
		return &InputError{Message: "Password must be at least 8 characters"}
	}
	return nil
}
