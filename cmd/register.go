package cmd

import (
	"fmt"
	"strings"

	"github.com/bnema/bizweb-cli/internal/domain"
	"github.com/bnema/bizweb-cli/internal/ports"
	"github.com/spf13/cobra"
)

type registerFlags struct {
	name        string
	mobile      string
	email       string
	acceptTerms bool
}

func newRegisterCmd(a *app) *cobra.Command {
	var flags registerFlags

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create a BizWeb account",
		RunE: func(cmd *cobra.Command, _ []string) error {
			form, err := readRegistrationForm(newPrompter(cmd), flags)
			if err != nil {
				return err
			}

			session, err := a.authService().Register(cmd.Context(), form)
			if err != nil {
				return err
			}

			announceSignIn(a, session, true)
			a.notifier.Notify(ports.Notification{
				Level:   ports.NotificationInfo,
				Message: fmt.Sprintf(`Check %s for a verification email. Run "bw resend-verification" if it does not arrive.`, form.Email),
			})
			return nil
		},
	}

	cmd.Flags().StringVar(&flags.name, "name", "", "Full name (prompted when empty)")
	cmd.Flags().StringVar(&flags.mobile, "mobile", "", "Mobile number (prompted when empty)")
	cmd.Flags().StringVar(&flags.email, "email", "", "Email (prompted when empty)")
	cmd.Flags().BoolVar(&flags.acceptTerms, "accept-terms", false, "Accept the terms of service without prompting")
	cmd.AddCommand(newGoogleCmd(a, true))

	return cmd
}

func readRegistrationForm(p *prompter, flags registerFlags) (domain.RegistrationForm, error) {
	var (
		form domain.RegistrationForm
		err  error
	)

	if form.Name, err = p.valueOrPrompt(flags.name, "Name"); err != nil {
		return form, err
	}
	if form.Mobile, err = p.valueOrPrompt(flags.mobile, "Mobile number"); err != nil {
		return form, err
	}
	if form.Email, err = p.valueOrPrompt(flags.email, "Email"); err != nil {
		return form, err
	}
	if form.Password, err = p.Secret("Password"); err != nil {
		return form, err
	}

	strength := domain.PasswordStrengthFor(domain.PasswordStrengthScore(form.Password))
	_, _ = fmt.Fprintf(p.out, "Password strength: %s %s\n", strengthMeter(strength.Percent), strength.Label)

	if form.ConfirmPassword, err = p.Secret("Confirm password"); err != nil {
		return form, err
	}

	form.TermsAccepted = flags.acceptTerms
	if !form.TermsAccepted {
		if form.TermsAccepted, err = p.Confirm("Accept the terms of service?"); err != nil {
			return form, err
		}
	}

	return form, nil
}

func strengthMeter(percent float64) string {
	const width = 12
	filled := int(percent / 100 * width)
	filled = min(max(filled, 0), width)
	return "[" + strings.Repeat("#", filled) + strings.Repeat(".", width-filled) + "]"
}
