package pass

import (
	"context"
	"errors"
	"testing"

	"github.com/bnema/bizweb-cli/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sessionKey = "bizweb/session/token"

const notInStoreStderr = "Error: bizweb/session/token is not in the password store."

func storeWith(run runFunc, opts ...Option) *Store {
	s := NewStore(opts...)
	s.run = run
	return s
}

func TestStorePutInsertsSingleLine(t *testing.T) {
	t.Parallel()

	called := false
	store := storeWith(func(ctx context.Context, c command) (string, string, error) {
		called = true
		assert.Equal(t, []string{"insert", "-m", "-f", sessionKey}, c.args)
		assert.Equal(t, "session-token\n", c.input)
		assert.Empty(t, c.env)
		return "", "", nil
	})

	require.NoError(t, store.Put(context.Background(), sessionKey, "session-token"))
	assert.True(t, called)
}

func TestStorePutRejectsMultilineSecret(t *testing.T) {
	t.Parallel()

	store := storeWith(func(ctx context.Context, c command) (string, string, error) {
		t.Fatal("pass must not run for a multiline secret")
		return "", "", nil
	})

	err := store.Put(context.Background(), sessionKey, "a\nb")
	require.Error(t, err)
	assert.ErrorContains(t, err, "single line")
}

func TestStoreWithStoreDirSetsEnvironment(t *testing.T) {
	t.Parallel()

	store := storeWith(func(ctx context.Context, c command) (string, string, error) {
		assert.Equal(t, []string{"PASSWORD_STORE_DIR=/tmp/bizweb-store"}, c.env)
		return "token\n", "", nil
	}, WithStoreDir(" /tmp/bizweb-store "))

	_, err := store.Get(context.Background(), sessionKey)
	require.NoError(t, err)
}

func TestStoreGetReturnsFirstLine(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name   string
		stdout string
		want   string
	}{
		{name: "trailing newline", stdout: "session-token\n", want: "session-token"},
		{name: "crlf", stdout: "session-token\r\n", want: "session-token"},
		{name: "extra lines", stdout: "session-token\nurl: https://bizweb.example\n", want: "session-token"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			store := storeWith(func(ctx context.Context, c command) (string, string, error) {
				assert.Equal(t, []string{"show", sessionKey}, c.args)
				assert.Empty(t, c.input)
				return tc.stdout, "", nil
			})

			got, err := store.Get(context.Background(), sessionKey)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestStoreGetMissingOrEmptyEntryReportsNotFound(t *testing.T) {
	t.Parallel()

	missing := storeWith(func(ctx context.Context, c command) (string, string, error) {
		return "", notInStoreStderr, errors.New("exit status 1")
	})
	_, err := missing.Get(context.Background(), sessionKey)
	require.ErrorIs(t, err, domain.ErrSecretNotFound)

	empty := storeWith(func(ctx context.Context, c command) (string, string, error) {
		return "\n", "", nil
	})
	_, err = empty.Get(context.Background(), sessionKey)
	require.ErrorIs(t, err, domain.ErrSecretNotFound)
}

func TestStoreDeleteUsesPassRemoveAndIgnoresMissing(t *testing.T) {
	t.Parallel()

	store := storeWith(func(ctx context.Context, c command) (string, string, error) {
		assert.Equal(t, []string{"rm", "-f", sessionKey}, c.args)
		return "", notInStoreStderr, errors.New("exit status 1")
	})

	require.NoError(t, store.Delete(context.Background(), sessionKey))
}

func TestStoreGetReturnsClearError(t *testing.T) {
	t.Parallel()

	store := storeWith(func(ctx context.Context, c command) (string, string, error) {
		return "", "gpg: decryption failed: No secret key", errors.New("exit status 2")
	})

	_, err := store.Get(context.Background(), sessionKey)
	require.Error(t, err)
	assert.ErrorContains(t, err, "pass get")
	assert.ErrorContains(t, err, sessionKey)
	assert.ErrorContains(t, err, "No secret key")
	assert.NotErrorIs(t, err, domain.ErrSecretNotFound)
}

func TestStoreCanceledContextSkipsCommand(t *testing.T) {
	t.Parallel()

	store := storeWith(func(ctx context.Context, c command) (string, string, error) {
		t.Fatal("pass must not run with a cancelled context")
		return "", "", nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.ErrorIs(t, store.Put(ctx, sessionKey, "v"), context.Canceled)
	_, err := store.Get(ctx, sessionKey)
	require.ErrorIs(t, err, context.Canceled)
}
