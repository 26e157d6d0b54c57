package cmd

import (
	"errors"
	"fmt"
	"io"

	"github.com/bnema/bizweb-cli/internal/domain"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

func Execute() error {
	return execute(newRootCmd())
}

func execute(root *cobra.Command) error {
	err := root.Execute()
	if err != nil {
		reportError(root.ErrOrStderr(), err)
	}
	return err
}

func newRootCmd() *cobra.Command {
	a := &app{}
	var (
		configFile string
		logLevel   string
	)

	rootCmd := &cobra.Command{
		Use:           "bw",
		Short:         "BizWeb account CLI (bw): sign in and view your dashboard",
		Long:          "bw is the terminal client for your BizWeb account: log in or register, then check your plan, credits, usage and transactions.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			wired, err := wireApp(wireOptions{
				configFile: configFile,
				logLevel:   logLevel,
				stderr:     cmd.ErrOrStderr(),
			})
			if err != nil {
				return err
			}
			*a = *wired
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runLanding(cmd, a)
		},
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Config file (default ~/.bizweb/config.toml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn or error")

	rootCmd.AddCommand(
		newVersionCmd(),
		newLoginCmd(a),
		newRegisterCmd(a),
		newResendVerificationCmd(a),
		newDashboardCmd(a),
		newProfileCmd(a),
		newLogoutCmd(a),
	)

	return rootCmd
}

// runLanding is the entry page: it greets a signed-in user or points to the
// auth commands.
func runLanding(cmd *cobra.Command, a *app) error {
	out := cmd.OutOrStdout()
	title := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	hint := hintStyle()

	_, _ = fmt.Fprintln(out, title.Render("BizWeb"))
	_, _ = fmt.Fprintln(out, "Build your business presence: logos, AI chat and more.")

	session, err := a.sessions.Current(cmd.Context())
	switch {
	case err == nil && !a.sessions.Expired(session):
		_, _ = fmt.Fprintf(out, "Signed in as %s.\n", session.User.DisplayName())
		_, _ = fmt.Fprintln(out, hint.Render(`Run "bw dashboard" to see your account.`))
	case err == nil, errors.Is(err, domain.ErrSessionNotFound):
		_, _ = fmt.Fprintln(out, hint.Render(`Run "bw login" to sign in or "bw register" to create an account.`))
	default:
		return err
	}

	return nil
}

func hintStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
}

// reportError prints one line for a failed command. Domain failures are
// shown through their user-facing message. A redirect to login is only a
// hint, since the cause was already notified.
func reportError(w io.Writer, err error) {
	if errors.Is(err, domain.ErrLoginRequired) {
		_, _ = fmt.Fprintln(w, hintStyle().Render(`Run "bw login" to sign in.`))
		return
	}

	style := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("203"))
	if isDomainError(err) {
		_, _ = fmt.Fprintln(w, style.Render(domain.UserMessage(err)))
		return
	}

	_, _ = fmt.Fprintln(w, style.Render("Error: "+err.Error()))
}

func isDomainError(err error) bool {
	var (
		validationErr *domain.ValidationError
		authErr       *domain.AuthError
		timeoutErr    *domain.TimeoutError
		fetchErr      *domain.FetchError
	)
	return errors.As(err, &validationErr) ||
		errors.As(err, &authErr) ||
		errors.As(err, &timeoutErr) ||
		errors.As(err, &fetchErr) ||
		errors.Is(err, domain.ErrOperationInFlight)
}
