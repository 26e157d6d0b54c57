package e2e

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSmokeFlow(t *testing.T) {
	api := newFakeAPI(t)
	home := t.TempDir()
	binaryPath := buildBinary(t)
	require.NoError(t, writeConfigFixture(home, api.URL))

	_, stderr, err := runBW(t, binaryPath, home, "Str0ngPass!\n", "login", "--email", "ada@example.com")
	require.NoError(t, err, "stderr: %s", stderr)
	assert.Contains(t, stderr, "Welcome back, Ada Lovelace!")

	stdout, stderr, err := runBW(t, binaryPath, home, "", "dashboard")
	require.NoError(t, err, "stderr: %s", stderr)
	assert.Contains(t, stdout, "Credits: 42")
	assert.Contains(t, stdout, "No active plan.")

	_, stderr, err = runBW(t, binaryPath, home, "", "logout")
	require.NoError(t, err, "stderr: %s", stderr)

	_, stderr, err = runBW(t, binaryPath, home, "", "dashboard")
	require.Error(t, err)
	assert.Contains(t, stderr, "bw login")
}

func TestSmokeRegistrationRejectedLocally(t *testing.T) {
	api := newFakeAPI(t)
	home := t.TempDir()
	binaryPath := buildBinary(t)
	require.NoError(t, writeConfigFixture(home, api.URL))

	_, stderr, err := runBW(t, binaryPath, home, "Str0ngPass!\nMismatch1!\n",
		"register", "--name", "Ada", "--mobile", "555-0100", "--email", "ada@example.com", "--accept-terms")
	require.Error(t, err)
	assert.Contains(t, stderr, "Passwords do not match")
}

func newFakeAPI(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("POST /userlogin", func(w http.ResponseWriter, r *http.Request) {
		_, _ = fmt.Fprint(w, `{"token":"smoke-token","user":{"_id":"u1","name":"Ada Lovelace","email":"ada@example.com"}}`)
	})
	mux.HandleFunc("POST /userregister", func(w http.ResponseWriter, r *http.Request) {
		t.Error("register endpoint must not be called")
		w.WriteHeader(http.StatusInternalServerError)
	})
	mux.HandleFunc("GET /userdashboard", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer smoke-token" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = fmt.Fprint(w, `{"fullName":"Ada Lovelace","email":"ada@example.com","credits":42,"active_plan":null,"usage_stats":{},"transactions":[]}`)
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func buildBinary(t *testing.T) string {
	t.Helper()

	binaryPath := filepath.Join(t.TempDir(), "bw-e2e")
	cmd := exec.Command("go", "build", "-o", binaryPath, "./cmd/bw")
	cmd.Dir = repoRoot(t)

	output, err := cmd.CombinedOutput()
	require.NoError(t, err, "build bw binary: %s", string(output))
	return binaryPath
}

func runBW(t *testing.T, binaryPath, home, stdin string, args ...string) (string, string, error) {
	t.Helper()

	cmd := exec.Command(binaryPath, args...)
	cmd.Env = append(os.Environ(), "HOME="+home)
	cmd.Dir = home
	cmd.Stdin = strings.NewReader(stdin)

	var stdout bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	return stdout.String(), stderr.String(), err
}

func repoRoot(t *testing.T) string {
	t.Helper()

	wd, err := os.Getwd()
	require.NoError(t, err)
	return filepath.Clean(filepath.Join(wd, "..", ".."))
}

func writeConfigFixture(home, apiURL string) error {
	configDir := filepath.Join(home, ".bizweb")
	if err := os.MkdirAll(configDir, 0o700); err != nil {
		return err
	}

	config := fmt.Sprintf(`[api]
base_url = %q

[secrets]
backend = "file"

[log]
level = "error"
`, apiURL)

	return os.WriteFile(filepath.Join(configDir, "config.toml"), []byte(config), 0o600)
}
