package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/bnema/bizweb-cli/internal/ports"
	"github.com/spf13/cobra"
)

func newProfileCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "profile",
		Short: "Show the signed-in user",
		RunE: func(cmd *cobra.Command, _ []string) error {
			user, err := a.dashboard.Profile(cmd.Context())
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			_, _ = fmt.Fprintf(w, "NAME\t%s\n", user.DisplayName())
			_, _ = fmt.Fprintf(w, "EMAIL\t%s\n", valueOrDash(user.Email))
			_, _ = fmt.Fprintf(w, "MOBILE\t%s\n", valueOrDash(user.Mobile))
			_, _ = fmt.Fprintf(w, "ID\t%s\n", valueOrDash(user.ID))
			if user.IsAdmin {
				_, _ = fmt.Fprintln(w, "ROLE\tadmin")
			}
			return w.Flush()
		},
	}
}

func newLogoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.authService().Logout(cmd.Context()); err != nil {
				return err
			}
			a.notifier.Notify(ports.Notification{Level: ports.NotificationSuccess, Message: "Logged out."})
			return nil
		},
	}
}

func newResendVerificationCmd(a *app) *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:   "resend-verification",
		Short: "Send the account verification email again",
		RunE: func(cmd *cobra.Command, _ []string) error {
			resolved, err := newPrompter(cmd).valueOrPrompt(email, "Email")
			if err != nil {
				return err
			}

			result, err := a.authService().ResendVerification(cmd.Context(), resolved)
			if err != nil {
				return err
			}

			message := result.Message
			if message == "" {
				message = "Verification email sent to " + resolved + "."
			}
			a.notifier.Notify(ports.Notification{Level: ports.NotificationSuccess, Message: message})
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Account email (prompted when empty)")

	return cmd
}

func valueOrDash(v string) string {
	if v == "" {
		return "-"
	}
	return v
}
