package cmd

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	scriptsource "github.com/telkin/studio-bootstrap/internal/adapters/script"
	"github.com/telkin/studio-bootstrap/internal/adapters/studio"
	"github.com/telkin/studio-bootstrap/internal/application"
	"github.com/telkin/studio-bootstrap/internal/domain"
	"github.com/telkin/studio-bootstrap/internal/ports"
)

type fakeControlPlane struct {
	domainIDs    []string
	presignedURL string
	listCalls    int
}

func (f *fakeControlPlane) ListDomainIDs(context.Context) ([]string, error) {
	f.listCalls++
	return f.domainIDs, nil
}

func (f *fakeControlPlane) PresignedDomainURL(context.Context, string, string) (string, error) {
	return f.presignedURL, nil
}

type scriptedConn struct {
	inbound []domain.Message
	sent    []domain.Message
	closes  int
}

func (c *scriptedConn) Read(ctx context.Context) (domain.Message, error) {
	if len(c.inbound) == 0 {
		<-ctx.Done()
		return domain.Message{}, ctx.Err()
	}
	msg := c.inbound[0]
	c.inbound = c.inbound[1:]
	return msg, nil
}

func (c *scriptedConn) Send(_ context.Context, msg domain.Message) error {
	c.sent = append(c.sent, msg)
	return nil
}

func (c *scriptedConn) Close() error {
	c.closes++
	return nil
}

type scriptedDialer struct {
	conn   *scriptedConn
	gotURL string
}

func (d *scriptedDialer) Dial(_ context.Context, url string, _ http.Header) (ports.StreamConn, error) {
	d.gotURL = url
	return d.conn, nil
}

func newTestApp(t *testing.T, cp *fakeControlPlane, appServer ports.AppServer, dialer ports.StreamDialer, scriptPath string) *app {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	driver := application.NewDriver(dialer, logger)
	scripts := scriptsource.NewFileSource(scriptPath)

	return &app{
		bootstrapper: application.NewBootstrapper(cp, appServer, scripts, driver, logger),
	}
}

func executeCLI(t *testing.T, a *app, stdin string, args ...string) (string, string, error) {
	t.Helper()

	root := newRootCmd(a)
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)

	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func newStudioServer(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/auth", func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: "_xsrf", Value: "xsrf-1", Path: "/"})
	})
	mux.HandleFunc("/jupyter/default/api/terminals", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"name":"1"}`))
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	return server
}

func TestVersionCommand(t *testing.T) {
	stdout, _, err := executeCLI(t, nil, "", "version")
	require.NoError(t, err)
	assert.Equal(t, "dev\n", stdout)
}

func TestResolveCommandPrintsSingleDomain(t *testing.T) {
	cp := &fakeControlPlane{domainIDs: []string{"d-only"}}
	a := newTestApp(t, cp, nil, nil, filepath.Join(t.TempDir(), "missing.toml"))

	stdout, _, err := executeCLI(t, a, "", "resolve")
	require.NoError(t, err)
	assert.Equal(t, "d-only\n", stdout)
}

func TestResolveCommandAmbiguousDomains(t *testing.T) {
	cp := &fakeControlPlane{domainIDs: []string{"d-1", "d-2"}}
	a := newTestApp(t, cp, nil, nil, filepath.Join(t.TempDir(), "missing.toml"))

	_, _, err := executeCLI(t, a, "", "resolve")
	require.ErrorIs(t, err, domain.ErrConfiguration)
}

func TestRunCommandRequiresUserProfile(t *testing.T) {
	cp := &fakeControlPlane{domainIDs: []string{"d-only"}}
	a := newTestApp(t, cp, nil, nil, filepath.Join(t.TempDir(), "missing.toml"))

	_, _, err := executeCLI(t, a, "", "run", "--domain-id", "d-abc")
	require.ErrorIs(t, err, domain.ErrConfiguration)
	assert.Zero(t, cp.listCalls)
}

func TestRunCommandDrivesScriptEndToEnd(t *testing.T) {
	server := newStudioServer(t)

	cp := &fakeControlPlane{presignedURL: server.URL + "/auth?token=t"}
	conn := &scriptedConn{inbound: []domain.Message{
		{Stream: domain.StreamSetup, Payload: "1"},
		{Stream: domain.StreamStdout, Payload: "bash-5.1$ "},
		{Stream: domain.StreamStdout, Payload: "bash-5.1$ "},
		{Stream: domain.StreamStdout, Payload: "bash-5.1$ "},
	}}
	dialer := &scriptedDialer{conn: conn}

	appServer, err := studio.NewClient(nil)
	require.NoError(t, err)

	scriptPath := filepath.Join(t.TempDir(), "script.toml")
	require.NoError(t, os.WriteFile(scriptPath, []byte(`commands = ["one", "two", "three"]`), 0o600))

	a := newTestApp(t, cp, appServer, dialer, scriptPath)

	_, _, err = executeCLI(t, a, "", "run", "--domain-id", "d-abc", "--user-profile", "u1")
	require.NoError(t, err)

	require.Len(t, conn.sent, 3)
	assert.Equal(t, "one\n", conn.sent[0].Payload)
	assert.Equal(t, 1, conn.closes)
	assert.Contains(t, dialer.gotURL, "/jupyter/default/terminals/websocket/1")
}

func TestRunCommandAcceptsEventFromStdin(t *testing.T) {
	server := newStudioServer(t)

	cp := &fakeControlPlane{presignedURL: server.URL + "/auth?token=t"}
	conn := &scriptedConn{inbound: []domain.Message{
		{Stream: domain.StreamSetup, Payload: "1"},
		{Stream: domain.StreamStdout, Payload: "bash-5.1$ "},
	}}
	dialer := &scriptedDialer{conn: conn}

	appServer, err := studio.NewClient(nil)
	require.NoError(t, err)

	scriptPath := filepath.Join(t.TempDir(), "script.toml")
	require.NoError(t, os.WriteFile(scriptPath, []byte(`commands = ["one"]`), 0o600))

	a := newTestApp(t, cp, appServer, dialer, scriptPath)

	event := `{"domainId":"d-abc","userProfileName":"u1"}`
	_, _, err = executeCLI(t, a, event, "run", "--event", "-")
	require.NoError(t, err)
	require.Len(t, conn.sent, 1)
}
