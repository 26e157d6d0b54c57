package cmd

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/bnema/bizweb-cli/internal/adapters/api"
	authadapter "github.com/bnema/bizweb-cli/internal/adapters/auth"
	"github.com/bnema/bizweb-cli/internal/adapters/notify"
	dashboardrender "github.com/bnema/bizweb-cli/internal/adapters/render/dashboard"
	tomlrepo "github.com/bnema/bizweb-cli/internal/adapters/repo/toml"
	chainstore "github.com/bnema/bizweb-cli/internal/adapters/secrets/chain"
	filestore "github.com/bnema/bizweb-cli/internal/adapters/secrets/file"
	passstore "github.com/bnema/bizweb-cli/internal/adapters/secrets/pass"
	"github.com/bnema/bizweb-cli/internal/application"
	"github.com/bnema/bizweb-cli/internal/config"
	"github.com/bnema/bizweb-cli/internal/domain"
	"github.com/bnema/bizweb-cli/internal/logging"
	"github.com/bnema/bizweb-cli/internal/ports"
	"go.uber.org/zap"
)

type app struct {
	cfg             *config.Config
	logger          *zap.Logger
	gateway         ports.AccountGateway
	sessions        *application.SessionService
	dashboard       *application.DashboardService
	notifier        *notify.Terminal
	httpClient      *http.Client
	renderDashboard func(application.Dashboard, dashboardrender.RenderOptions) (string, error)
	now             func() time.Time
}

type wireOptions struct {
	configFile string
	logLevel   string
	stderr     io.Writer
}

func wireApp(opts wireOptions) (*app, error) {
	cfg, v, err := config.Load(config.Options{ConfigFile: opts.configFile})
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	level := cfg.Log.Level
	if opts.logLevel != "" {
		level = opts.logLevel
	}
	logger := logging.New(level, opts.stderr)

	repo, err := tomlrepo.NewRepository(v)
	if err != nil {
		return nil, fmt.Errorf("wire session repository: %w", err)
	}

	secretStore, err := newSecretStore(cfg.Secrets, logger)
	if err != nil {
		return nil, fmt.Errorf("wire secret store: %w", err)
	}

	httpClient := api.NewDefaultHTTPClient(cfg.API.Timeout)
	gateway, err := api.NewClient(cfg.API.BaseURL, httpClient, logger.Named("api"))
	if err != nil {
		return nil, fmt.Errorf("wire api client: %w", err)
	}

	clock := ports.SystemClock{}
	notifier := notify.NewTerminal(opts.stderr)
	sessions := application.NewSessionService(repo, secretStore, clock, logger.Named("session"))

	return &app{
		cfg:             cfg,
		logger:          logger,
		gateway:         gateway,
		sessions:        sessions,
		dashboard:       application.NewDashboardService(gateway, sessions, notifier, clock, logger.Named("dashboard")),
		notifier:        notifier,
		httpClient:      httpClient,
		renderDashboard: dashboardrender.Render,
		now:             clock.Now,
	}, nil
}

func newSecretStore(cfg config.SecretsConfig, logger *zap.Logger) (ports.SecretStore, error) {
	switch cfg.Backend {
	case config.SecretsBackendFile:
		return filestore.NewStore(cfg.Dir), nil
	case config.SecretsBackendPass:
		return passstore.NewStore(passstore.WithStoreDir(cfg.PassDir), passstore.WithLogger(logger.Named("pass"))), nil
	default:
		return chainstore.NewPassWithFileFallback(cfg.Dir, cfg.PassDir, logger.Named("secrets"))
	}
}

// authService builds the auth orchestrator. Third-party sign-in is only
// available when an identity provider is passed in.
func (a *app) authService(opts ...application.AuthOption) *application.AuthService {
	base := []application.AuthOption{
		application.WithRegisterTimeout(a.cfg.Auth.RegisterTimeout),
		application.WithAuthLogger(a.logger.Named("auth")),
	}
	return application.NewAuthService(a.gateway, a.sessions, append(base, opts...)...)
}

func (a *app) googleProvider(out io.Writer, device bool) (ports.IdentityProvider, error) {
	google := a.cfg.Google
	return authadapter.NewGoogleProvider(authadapter.GoogleConfig{
		ClientID:      google.ClientID,
		ClientSecret:  google.ClientSecret,
		AuthURL:       google.AuthURL,
		TokenURL:      google.TokenURL,
		DeviceCodeURL: google.DeviceCodeURL,
		ListenAddr:    google.ListenAddr,
		Timeout:       google.Timeout,
		Device:        device,
	}, a.httpClient, func(in authadapter.Instruction) {
		if in.UserCode != "" {
			_, _ = fmt.Fprintf(out, "Visit %s and enter the code %s to continue with Google.\n", in.URL, in.UserCode)
			return
		}
		_, _ = fmt.Fprintf(out, "Open this URL to continue with Google:\n%s\n", in.URL)
	}, a.logger.Named("google"))
}

func (a *app) withGoogle(out io.Writer, device bool) (*application.AuthService, error) {
	provider, err := a.googleProvider(out, device)
	if err != nil {
		return nil, err
	}
	return a.authService(application.WithIdentityProvider(domain.ProviderGoogle, provider)), nil
}
