package pass

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/bnema/bizweb-cli/internal/domain"
	"github.com/bnema/bizweb-cli/internal/ports"
	"go.uber.org/zap"
)

var ErrUnavailable = errors.New("pass command unavailable")

const storeDirEnv = "PASSWORD_STORE_DIR"

type command struct {
	args  []string
	input string
	env   []string
}

type runFunc func(ctx context.Context, c command) (stdout string, stderr string, err error)

// Store keeps secrets in the unix password manager. Only the first line of
// an entry is treated as the secret, as pass itself does.
type Store struct {
	run      runFunc
	storeDir string
	logger   *zap.Logger
}

var _ ports.SecretStore = (*Store)(nil)

type Option func(*Store)

// WithStoreDir points pass at a password store other than ~/.password-store.
func WithStoreDir(dir string) Option {
	return func(s *Store) {
		s.storeDir = strings.TrimSpace(dir)
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func NewStore(opts ...Option) *Store {
	s := &Store{run: runPassCommand, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) Put(ctx context.Context, key string, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if strings.ContainsAny(value, "\r\n") {
		return fmt.Errorf("pass put %q: secret must be a single line", key)
	}

	_, stderr, err := s.exec(ctx, value+"\n", "insert", "-m", "-f", key)
	if err != nil {
		return wrapError("put", key, err, stderr)
	}
	return nil
}

func (s *Store) Get(ctx context.Context, key string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	stdout, stderr, err := s.exec(ctx, "", "show", key)
	if err != nil {
		if notInStore(stderr) {
			return "", fmt.Errorf("pass get %q: %w", key, domain.ErrSecretNotFound)
		}
		return "", wrapError("get", key, err, stderr)
	}

	first, _, _ := strings.Cut(stdout, "\n")
	first = strings.TrimRight(first, "\r")
	if first == "" {
		return "", fmt.Errorf("pass get %q: %w", key, domain.ErrSecretNotFound)
	}
	return first, nil
}

// Delete treats a missing entry as already deleted.
func (s *Store) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	_, stderr, err := s.exec(ctx, "", "rm", "-f", key)
	if err != nil && !notInStore(stderr) {
		return wrapError("delete", key, err, stderr)
	}
	return nil
}

func (s *Store) exec(ctx context.Context, input string, args ...string) (string, string, error) {
	c := command{args: args, input: input}
	if s.storeDir != "" {
		c.env = []string{storeDirEnv + "=" + s.storeDir}
	}

	s.logger.Debug("pass", zap.String("op", args[0]), zap.String("key", args[len(args)-1]))
	return s.run(ctx, c)
}

func notInStore(stderr string) bool {
	return strings.Contains(stderr, "is not in the password store")
}

func runPassCommand(ctx context.Context, c command) (string, string, error) {
	path, err := exec.LookPath("pass")
	if err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return "", "", ErrUnavailable
		}
		return "", "", fmt.Errorf("locate pass: %w", err)
	}

	cmd := exec.CommandContext(ctx, path, c.args...)
	if len(c.env) > 0 {
		cmd.Env = append(os.Environ(), c.env...)
	}
	if c.input != "" {
		cmd.Stdin = strings.NewReader(c.input)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err = cmd.Run()
	return stdout.String(), strings.TrimSpace(stderr.String()), err
}

func wrapError(op string, key string, err error, stderr string) error {
	if stderr == "" {
		return fmt.Errorf("pass %s %q: %w", op, key, err)
	}
	return fmt.Errorf("pass %s %q: %w: %s", op, key, err, stderr)
}
