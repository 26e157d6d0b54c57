package chain

import (
	"context"
	"errors"
	"fmt"

	filestore "github.com/bnema/bizweb-cli/internal/adapters/secrets/file"
	passstore "github.com/bnema/bizweb-cli/internal/adapters/secrets/pass"
	"github.com/bnema/bizweb-cli/internal/domain"
	"github.com/bnema/bizweb-cli/internal/ports"
	"go.uber.org/zap"
)

// Backend is one named secret store in the chain.
type Backend struct {
	Name  string
	Store ports.SecretStore
}

// Store prefers the primary backend and falls back when it fails. A token
// found only in the fallback while the primary is reachable is promoted to
// the primary. Deletes reach both backends so logout leaves nothing behind.
type Store struct {
	primary  Backend
	fallback Backend
	logger   *zap.Logger
}

var _ ports.SecretStore = (*Store)(nil)

var errNilBackend = errors.New("secret backend is nil")

type Option func(*Store)

func WithLogger(logger *zap.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func NewStore(primary, fallback Backend, opts ...Option) (*Store, error) {
	for _, b := range []Backend{primary, fallback} {
		if b.Store == nil {
			return nil, fmt.Errorf("%s: %w", b.Name, errNilBackend)
		}
	}

	s := &Store{primary: primary, fallback: fallback, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// NewPassWithFileFallback chains the pass store (optionally at passDir) in
// front of the file store rooted at fileRoot.
func NewPassWithFileFallback(fileRoot, passDir string, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	return NewStore(
		Backend{Name: "pass", Store: passstore.NewStore(passstore.WithStoreDir(passDir), passstore.WithLogger(logger.Named("pass")))},
		Backend{Name: "file", Store: filestore.NewStore(fileRoot)},
		WithLogger(logger),
	)
}

func (s *Store) Put(ctx context.Context, key string, value string) error {
	err := s.primary.Store.Put(ctx, key, value)
	if err == nil {
		s.dropFallbackCopy(ctx, key)
		return nil
	}
	if isContextErr(err) {
		return err
	}

	s.logger.Debug("secret put failed, using fallback",
		zap.String("backend", s.primary.Name), zap.String("key", key), zap.Error(err))
	if fallbackErr := s.fallback.Store.Put(ctx, key, value); fallbackErr != nil {
		return s.joined("put", err, fallbackErr)
	}
	return nil
}

func (s *Store) Get(ctx context.Context, key string) (string, error) {
	value, err := s.primary.Store.Get(ctx, key)
	if err == nil {
		return value, nil
	}
	if isContextErr(err) {
		return "", err
	}

	value, fallbackErr := s.fallback.Store.Get(ctx, key)
	if fallbackErr != nil {
		return "", s.joined("get", err, fallbackErr)
	}

	if errors.Is(err, domain.ErrSecretNotFound) {
		s.promote(ctx, key, value)
	}
	return value, nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	err := s.primary.Store.Delete(ctx, key)
	if isContextErr(err) {
		return err
	}

	fallbackErr := s.fallback.Store.Delete(ctx, key)
	if err != nil && fallbackErr != nil {
		return s.joined("delete", err, fallbackErr)
	}
	if err != nil {
		s.logger.Debug("secret delete failed", zap.String("backend", s.primary.Name), zap.String("key", key), zap.Error(err))
	}
	if fallbackErr != nil {
		s.logger.Debug("secret delete failed", zap.String("backend", s.fallback.Name), zap.String("key", key), zap.Error(fallbackErr))
	}
	return nil
}

// promote copies a fallback-only secret into the primary backend.
func (s *Store) promote(ctx context.Context, key, value string) {
	if err := s.primary.Store.Put(ctx, key, value); err != nil {
		s.logger.Debug("promote secret", zap.String("backend", s.primary.Name), zap.String("key", key), zap.Error(err))
		return
	}
	s.dropFallbackCopy(ctx, key)
}

// dropFallbackCopy removes a stale fallback copy that would otherwise shadow
// the primary value once the primary becomes unavailable.
func (s *Store) dropFallbackCopy(ctx context.Context, key string) {
	if err := s.fallback.Store.Delete(ctx, key); err != nil {
		s.logger.Debug("drop fallback secret", zap.String("backend", s.fallback.Name), zap.String("key", key), zap.Error(err))
	}
}

func (s *Store) joined(op string, primaryErr, fallbackErr error) error {
	return fmt.Errorf("secret %s: %w", op, errors.Join(
		fmt.Errorf("%s: %w", s.primary.Name, primaryErr),
		fmt.Errorf("%s: %w", s.fallback.Name, fallbackErr),
	))
}

func isContextErr(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
