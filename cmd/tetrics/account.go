package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-tetrics/internal/auth"
)

var (
	flagEmail    string
	flagNickname string
	flagCode     string
)

var accountCmd = &cobra.Command{
	Use:   "account",
	Short: "Manage your player account",
	Long: `Create an account and sign in so your scores are linked to you.

Accounts live in the local database, or on the backend given with --api.
With --api, signing in keeps a session in ~/.tetrics/session for later
commands.

Examples:
  tetrics account signup --email ana@example.com --nickname Ana
  tetrics account confirm --email ana@example.com --code 123456
  tetrics --api http://localhost:5175 account signin --email ana@example.com
  tetrics account whoami`,
}

var signupCmd = &cobra.Command{
	Use:   "signup",
	Short: "Create an account",
	RunE: func(_ *cobra.Command, _ []string) error {
		return withBackend(func(ctx context.Context, b *backend) error {
			password, err := readSecret("Password: ")
			if err != nil {
				return err
			}
			res, err := b.auth.SignUp(ctx, auth.SignUpInput{
				Email:    flagEmail,
				Password: password,
				Nickname: flagNickname,
			})
			if err != nil {
				return err
			}
			fmt.Printf("Account created for %s.\n", flagEmail)
			fmt.Printf("Confirmation code: %s\n", res.Code)
			fmt.Printf("Run 'tetrics account confirm --email %s --code %s' to activate it.\n", flagEmail, res.Code)
			return nil
		})
	},
}

var confirmCmd = &cobra.Command{
	Use:   "confirm",
	Short: "Confirm an account with its code",
	RunE: func(_ *cobra.Command, _ []string) error {
		return withBackend(func(ctx context.Context, b *backend) error {
			if err := b.auth.ConfirmSignUp(ctx, flagEmail, flagCode); err != nil {
				return err
			}
			fmt.Println("Account confirmed. You can sign in now.")
			return nil
		})
	},
}

var resendCmd = &cobra.Command{
	Use:   "resend",
	Short: "Issue a new confirmation code (local accounts only)",
	RunE: func(_ *cobra.Command, _ []string) error {
		return withBackend(func(ctx context.Context, b *backend) error {
			if b.accounts == nil {
				return errors.New("resend is only available for local accounts")
			}
			code, err := b.accounts.ResendCode(ctx, flagEmail)
			if err != nil {
				return err
			}
			fmt.Printf("New confirmation code: %s\n", code)
			return nil
		})
	},
}

var signinCmd = &cobra.Command{
	Use:   "signin",
	Short: "Sign in",
	RunE: func(_ *cobra.Command, _ []string) error {
		return withBackend(func(ctx context.Context, b *backend) error {
			player, err := resolvePlayer(ctx, b, flagEmail, "")
			if err != nil {
				return err
			}
			fmt.Printf("Signed in as %s.\n", player.Name)
			if b.client == nil {
				fmt.Println("Local sessions last for one command; use --login with play or menu.")
			}
			return nil
		})
	},
}

var signoutCmd = &cobra.Command{
	Use:   "signout",
	Short: "Sign out and forget the saved session",
	RunE: func(_ *cobra.Command, _ []string) error {
		return withBackend(func(ctx context.Context, b *backend) error {
			if err := b.auth.SignOut(ctx); err != nil {
				return err
			}
			if err := clearSessionToken(); err != nil {
				return err
			}
			fmt.Println("Signed out.")
			return nil
		})
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in player",
	RunE: func(_ *cobra.Command, _ []string) error {
		return withBackend(func(ctx context.Context, b *backend) error {
			u, err := b.auth.CurrentUser(ctx)
			if errors.Is(err, auth.ErrNotSignedIn) {
				fmt.Printf("Not signed in. Scores are saved as %s.\n", auth.GuestName)
				return nil
			}
			if err != nil {
				return err
			}
			fmt.Printf("%s <%s>\n", auth.DisplayName(ctx, b.auth), u.Email)
			return nil
		})
	},
}

func init() {
	for _, c := range []*cobra.Command{signupCmd, confirmCmd, resendCmd, signinCmd} {
		c.Flags().StringVar(&flagEmail, "email", "", "Account email")
		//nolint:errcheck // flag is defined above
		c.MarkFlagRequired("email")
	}
	signupCmd.Flags().StringVar(&flagNickname, "nickname", "", "Name shown on the leaderboard")
	confirmCmd.Flags().StringVar(&flagCode, "code", "", "Confirmation code")
	//nolint:errcheck // flag is defined above
	confirmCmd.MarkFlagRequired("code")

	accountCmd.AddCommand(signupCmd, confirmCmd, resendCmd, signinCmd, signoutCmd, whoamiCmd)
}

func withBackend(fn func(ctx context.Context, b *backend) error) error {
	logger, _ := newLogger("tetrics", false)
	b, err := openBackend(logger)
	if err != nil {
		return err
	}
	defer b.Close()
	return fn(context.Background(), b)
}
