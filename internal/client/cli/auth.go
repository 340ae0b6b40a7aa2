package cli

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/gatherly/internal/client/client"
	"github.com/dmitrijs2005/gatherly/internal/cryptox"
	"github.com/spf13/cobra"
)

// getPassword is replaced in tests.
var getPassword = promptPassword

func (a *App) loginCommand() *cobra.Command {
	var email string
	cmd := &cobra.Command{
		Use:     "login",
		GroupID: "account",
		Short:   "Sign in and store the session in the OS keyring",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.Login(cmd.Context(), email)
		},
	}
	cmd.Flags().StringVarP(&email, "email", "e", "", "account e-mail (prompted when empty)")
	return cmd
}

func (a *App) registerCommand() *cobra.Command {
	var email string
	cmd := &cobra.Command{
		Use:     "register",
		GroupID: "account",
		Short:   "Create an account",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.Register(cmd.Context(), email)
		},
	}
	cmd.Flags().StringVarP(&email, "email", "e", "", "account e-mail (prompted when empty)")
	return cmd
}

func (a *App) logoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "logout",
		GroupID: "account",
		Short:   "Forget the stored session",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.auth.Logout(cmd.Context()); err != nil {
				return err
			}
			a.printf("%s\n", okStyle.Render("Signed out"))
			return nil
		},
	}
}

func (a *App) credentials(email string) (string, []byte, error) {
	if email == "" {
		var err error
		email, err = promptLine(a.in, a.out, "Email")
		if err != nil {
			return "", nil, err
		}
	}
	if email == "" {
		return "", nil, errors.New("email is required")
	}
	password, err := getPassword(a.out)
	if err != nil {
		return "", nil, err
	}
	return email, password, nil
}

// Login signs in and, on success, pulls the profile once so it is
// available offline.
func (a *App) Login(ctx context.Context, email string) error {
	email, password, err := a.credentials(email)
	if err != nil {
		return err
	}
	defer cryptox.Wipe(password)

	if err := a.auth.Login(ctx, email, password); err != nil {
		if errors.Is(err, client.ErrUnavailable) {
			a.printf("%s\n", warnStyle.Render("Server unavailable, try again when online"))
		}
		return err
	}
	a.printf("%s %s\n", okStyle.Render("Signed in as"), email)
	a.syncProfile(ctx)
	return nil
}

// Register creates the account. The backend may sign the user in directly.
func (a *App) Register(ctx context.Context, email string) error {
	email, password, err := a.credentials(email)
	if err != nil {
		return err
	}
	defer cryptox.Wipe(password)

	if err := a.auth.Register(ctx, email, password); err != nil {
		return err
	}
	a.printf("%s %s\n", okStyle.Render("Account created for"), email)
	return nil
}

func (a *App) syncProfile(ctx context.Context) {
	if a.profile == nil {
		return
	}
	if _, err := a.profile.Sync(ctx); err != nil {
		a.log.Warn(ctx, "profile sync after login failed", "error", err)
	}
}
