package cmd

import (
	"fmt"

	"github.com/bnema/bizweb-cli/internal/domain"
	"github.com/bnema/bizweb-cli/internal/ports"
	"github.com/spf13/cobra"
)

func newLoginCmd(a *app) *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in with email and password",
		RunE: func(cmd *cobra.Command, _ []string) error {
			p := newPrompter(cmd)

			resolvedEmail, err := p.valueOrPrompt(email, "Email")
			if err != nil {
				return err
			}
			password, err := p.Secret("Password")
			if err != nil {
				return err
			}

			session, err := a.authService().Login(cmd.Context(), resolvedEmail, password)
			if err != nil {
				return err
			}

			announceSignIn(a, session, false)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Account email (prompted when empty)")
	cmd.AddCommand(newGoogleCmd(a, false))

	return cmd
}

// newGoogleCmd is shared by "login google" and "register google".
func newGoogleCmd(a *app, isRegistration bool) *cobra.Command {
	var device bool

	short := "Log in with your Google account"
	if isRegistration {
		short = "Create an account with your Google account"
	}

	cmd := &cobra.Command{
		Use:   "google",
		Short: short,
		RunE: func(cmd *cobra.Command, _ []string) error {
			auth, err := a.withGoogle(cmd.ErrOrStderr(), device)
			if err != nil {
				return err
			}

			var session domain.Session
			if isRegistration {
				session, err = auth.RegisterWithThirdParty(cmd.Context(), domain.ProviderGoogle)
			} else {
				session, err = auth.LoginWithThirdParty(cmd.Context(), domain.ProviderGoogle)
			}
			if err != nil {
				return err
			}

			announceSignIn(a, session, isRegistration)
			return nil
		},
	}

	cmd.Flags().BoolVar(&device, "device", false, "Use a device code instead of a local browser redirect")

	return cmd
}

func announceSignIn(a *app, session domain.Session, registered bool) {
	message := fmt.Sprintf("Welcome back, %s!", session.User.DisplayName())
	if registered {
		message = fmt.Sprintf("Account created. Welcome, %s!", session.User.DisplayName())
	}
	a.notifier.Notify(ports.Notification{Level: ports.NotificationSuccess, Message: message})
	a.notifier.Notify(ports.Notification{Level: ports.NotificationInfo, Message: `Run "bw dashboard" to see your account.`})
}
