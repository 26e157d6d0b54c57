package chain

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/bnema/bizweb-cli/internal/domain"
	portmocks "github.com/bnema/bizweb-cli/internal/ports/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const sessionKey = "bizweb/session/token"

func newTestStore(t *testing.T) (*Store, *portmocks.MockSecretStore, *portmocks.MockSecretStore) {
	t.Helper()

	primary := portmocks.NewMockSecretStore(t)
	fallback := portmocks.NewMockSecretStore(t)
	store, err := NewStore(Backend{Name: "pass", Store: primary}, Backend{Name: "file", Store: fallback})
	require.NoError(t, err)
	return store, primary, fallback
}

func TestStoreGetUsesPrimaryWhenItSucceeds(t *testing.T) {
	t.Parallel()

	store, primary, _ := newTestStore(t)
	primary.EXPECT().Get(mock.Anything, sessionKey).Return("from-pass", nil).Once()

	value, err := store.Get(context.Background(), sessionKey)
	require.NoError(t, err)
	assert.Equal(t, "from-pass", value)
}

func TestStoreGetFallsBackWithoutPromotingWhenPrimaryBroken(t *testing.T) {
	t.Parallel()

	store, primary, fallback := newTestStore(t)
	primary.EXPECT().Get(mock.Anything, sessionKey).Return("", errors.New("pass unavailable")).Once()
	fallback.EXPECT().Get(mock.Anything, sessionKey).Return("from-file", nil).Once()

	value, err := store.Get(context.Background(), sessionKey)
	require.NoError(t, err)
	assert.Equal(t, "from-file", value)
	primary.AssertNotCalled(t, "Put", mock.Anything, mock.Anything, mock.Anything)
}

func TestStoreGetPromotesFallbackOnlySecret(t *testing.T) {
	t.Parallel()

	store, primary, fallback := newTestStore(t)
	primary.EXPECT().Get(mock.Anything, sessionKey).Return("", fmt.Errorf("pass get: %w", domain.ErrSecretNotFound)).Once()
	fallback.EXPECT().Get(mock.Anything, sessionKey).Return("from-file", nil).Once()
	primary.EXPECT().Put(mock.Anything, sessionKey, "from-file").Return(nil).Once()
	fallback.EXPECT().Delete(mock.Anything, sessionKey).Return(nil).Once()

	value, err := store.Get(context.Background(), sessionKey)
	require.NoError(t, err)
	assert.Equal(t, "from-file", value)
}

func TestStoreGetKeepsFallbackCopyWhenPromotionFails(t *testing.T) {
	t.Parallel()

	store, primary, fallback := newTestStore(t)
	primary.EXPECT().Get(mock.Anything, sessionKey).Return("", domain.ErrSecretNotFound).Once()
	fallback.EXPECT().Get(mock.Anything, sessionKey).Return("from-file", nil).Once()
	primary.EXPECT().Put(mock.Anything, sessionKey, "from-file").Return(errors.New("gpg locked")).Once()

	value, err := store.Get(context.Background(), sessionKey)
	require.NoError(t, err)
	assert.Equal(t, "from-file", value)
	fallback.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestStoreGetJoinsErrorsWhenBothBackendsFail(t *testing.T) {
	t.Parallel()

	store, primary, fallback := newTestStore(t)
	primary.EXPECT().Get(mock.Anything, sessionKey).Return("", errors.New("pass failed")).Once()
	fallback.EXPECT().Get(mock.Anything, sessionKey).Return("", domain.ErrSecretNotFound).Once()

	_, err := store.Get(context.Background(), sessionKey)
	require.Error(t, err)
	assert.ErrorContains(t, err, "pass: pass failed")
	assert.ErrorContains(t, err, "file: ")
	assert.ErrorIs(t, err, domain.ErrSecretNotFound)
}

func TestStorePutFallsBackWhenPrimaryFails(t *testing.T) {
	t.Parallel()

	store, primary, fallback := newTestStore(t)
	primary.EXPECT().Put(mock.Anything, sessionKey, "secret").Return(errors.New("pass failed")).Once()
	fallback.EXPECT().Put(mock.Anything, sessionKey, "secret").Return(nil).Once()

	require.NoError(t, store.Put(context.Background(), sessionKey, "secret"))
}

func TestStorePutOnPrimaryDropsStaleFallbackCopy(t *testing.T) {
	t.Parallel()

	store, primary, fallback := newTestStore(t)
	primary.EXPECT().Put(mock.Anything, sessionKey, "secret").Return(nil).Once()
	fallback.EXPECT().Delete(mock.Anything, sessionKey).Return(errors.New("read-only")).Once()

	require.NoError(t, store.Put(context.Background(), sessionKey, "secret"))
	fallback.AssertNotCalled(t, "Put", mock.Anything, mock.Anything, mock.Anything)
}

func TestStoreDelete(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name        string
		primaryErr  error
		fallbackErr error
		wantErr     []string
	}{
		{name: "both succeed"},
		{name: "primary fails", primaryErr: errors.New("pass failed")},
		{name: "fallback fails", fallbackErr: errors.New("file failed")},
		{
			name:        "both fail",
			primaryErr:  errors.New("pass failed"),
			fallbackErr: errors.New("file failed"),
			wantErr:     []string{"pass failed", "file failed"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			store, primary, fallback := newTestStore(t)
			primary.EXPECT().Delete(mock.Anything, sessionKey).Return(tc.primaryErr).Once()
			fallback.EXPECT().Delete(mock.Anything, sessionKey).Return(tc.fallbackErr).Once()

			err := store.Delete(context.Background(), sessionKey)
			if len(tc.wantErr) == 0 {
				require.NoError(t, err)
				return
			}
			for _, want := range tc.wantErr {
				assert.ErrorContains(t, err, want)
			}
		})
	}
}

func TestStoreDoesNotFallbackOnContextError(t *testing.T) {
	t.Parallel()

	store, primary, _ := newTestStore(t)
	primary.EXPECT().Get(mock.Anything, sessionKey).Return("", context.Canceled).Once()
	primary.EXPECT().Put(mock.Anything, sessionKey, "v").Return(context.DeadlineExceeded).Once()

	_, err := store.Get(context.Background(), sessionKey)
	require.ErrorIs(t, err, context.Canceled)
	require.ErrorIs(t, store.Put(context.Background(), sessionKey, "v"), context.DeadlineExceeded)
}

func TestNewStoreRejectsNilBackends(t *testing.T) {
	t.Parallel()

	_, err := NewStore(Backend{Name: "pass"}, Backend{Name: "file", Store: portmocks.NewMockSecretStore(t)})
	require.ErrorIs(t, err, errNilBackend)
	assert.ErrorContains(t, err, "pass")

	_, err = NewStore(Backend{Name: "pass", Store: portmocks.NewMockSecretStore(t)}, Backend{Name: "file"})
	require.ErrorIs(t, err, errNilBackend)
	assert.ErrorContains(t, err, "file")
}
