package studio

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/telkin/studio-bootstrap/internal/domain"
	"github.com/telkin/studio-bootstrap/internal/ports"
)

const (
	xsrfCookieName = "_xsrf"
	appAPISuffix   = "/jupyter/default"

	defaultPollInterval = 2 * time.Second
	defaultAppType      = "JupyterServer"
	defaultAppName      = "default"

	maxStatusBytes   = 1 << 16
	maxTerminalBytes = 1 << 20
)

// Client drives the Studio application server over its cookie-based HTTP
// API: login with a presigned URL, wait for the Jupyter app, create a
// terminal. The zero value is not usable; call NewClient.
type Client struct {
	HTTPClient   *http.Client
	Clock        ports.Clock
	Logger       *slog.Logger
	PollInterval time.Duration
	// MaxPolls bounds the readiness loop; zero means poll until the app
	// reaches a terminal status, however long that takes.
	MaxPolls int
	AppType  string
	AppName  string
}

var _ ports.AppServer = (*Client)(nil)

// NewClient builds a Client with a fresh cookie jar.
func NewClient(logger *slog.Logger) (*Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("create cookie jar: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		HTTPClient: &http.Client{Jar: jar},
		Clock:      ports.SystemClock{},
		Logger:     logger,
	}, nil
}

func (c *Client) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.Default()
}

func (c *Client) clock() ports.Clock {
	if c.Clock != nil {
		return c.Clock
	}
	return ports.SystemClock{}
}

func (c *Client) pollInterval() time.Duration {
	if c.PollInterval > 0 {
		return c.PollInterval
	}
	return defaultPollInterval
}

func (c *Client) appType() string {
	if c.AppType != "" {
		return c.AppType
	}
	return defaultAppType
}

func (c *Client) appName() string {
	if c.AppName != "" {
		return c.AppName
	}
	return defaultAppName
}

// Login performs the presigned-URL handshake. The response sets session
// cookies in the jar; the base URLs are derived from the presigned URL by
// dropping the query string and the last path segment.
func (c *Client) Login(ctx context.Context, presignedURL string) (domain.Session, error) {
	base, err := deriveBaseURL(presignedURL)
	if err != nil {
		return domain.Session{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, presignedURL, nil)
	if err != nil {
		return domain.Session{}, fmt.Errorf("%w: create login request: %v", domain.ErrTransport, err)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return domain.Session{}, fmt.Errorf("%w: login request: %v", domain.ErrTransport, err)
	}
	defer func() { _ = resp.Body.Close() }()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxStatusBytes))

	if resp.StatusCode >= http.StatusBadRequest {
		return domain.Session{}, fmt.Errorf("%w: presigned login rejected with status %d", domain.ErrAuth, resp.StatusCode)
	}

	session := domain.Session{BaseURL: base, BaseAPIURL: base + appAPISuffix}
	c.logger().Debug("logged in", "base_api_url", session.BaseAPIURL)
	return session, nil
}

// XSRFToken returns the anti-CSRF cookie value for the session, if the
// login handshake set one. Its absence signals the app is still starting.
func (c *Client) XSRFToken(session domain.Session) (string, bool) {
	u, err := url.Parse(session.BaseURL + "/")
	if err != nil {
		return "", false
	}
	for _, cookie := range c.HTTPClient.Jar.Cookies(u) {
		if cookie.Name == xsrfCookieName {
			return cookie.Value, true
		}
	}
	return "", false
}

// AwaitReady polls the app status endpoint until the Jupyter app reaches a
// terminal state, sleeping one interval before each poll. On InService it
// issues a single priming GET against the app API root.
func (c *Client) AwaitReady(ctx context.Context, session domain.Session) error {
	statusURL := fmt.Sprintf("%s/app?appType=%s&appName=%s", session.BaseURL, c.appType(), c.appName())

	status := domain.AppStatusUnknown
	polls := 0
	for !status.Terminal() {
		if c.MaxPolls > 0 && polls >= c.MaxPolls {
			return fmt.Errorf("%w: app not ready after %d polls", domain.ErrUnavailable, polls)
		}
		if err := c.clock().Sleep(ctx, c.pollInterval()); err != nil {
			return fmt.Errorf("%w: readiness wait: %v", domain.ErrTransport, err)
		}

		text, err := c.getText(ctx, statusURL)
		if err != nil {
			return err
		}
		polls++
		status = domain.ParseAppStatus(strings.TrimSpace(text))
		c.logger().Debug("polled app status", "status", string(status), "polls", polls)
	}

	if status == domain.AppStatusTerminated {
		return fmt.Errorf("%w: app in unusable status %q", domain.ErrUnavailable, status)
	}

	// One GET against the API root kicks off server-side initialization.
	if _, err := c.getText(ctx, session.BaseAPIURL); err != nil {
		return err
	}
	c.logger().Info("app ready")
	return nil
}

// OpenTerminal creates a new interactive terminal on the Jupyter server.
func (c *Client) OpenTerminal(ctx context.Context, session domain.Session) (domain.Terminal, error) {
	token, ok := c.XSRFToken(session)
	if !ok {
		return domain.Terminal{}, fmt.Errorf("%w: session has no %s cookie", domain.ErrAuth, xsrfCookieName)
	}

	endpoint := session.BaseAPIURL + "/api/terminals?" + url.Values{"_xsrf": {token}}.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, nil)
	if err != nil {
		return domain.Terminal{}, fmt.Errorf("%w: create terminal request: %v", domain.ErrTransport, err)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return domain.Terminal{}, fmt.Errorf("%w: terminal request: %v", domain.ErrTransport, err)
	}
	defer func() { _ = resp.Body.Close() }()

	var payload struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxTerminalBytes)).Decode(&payload); err != nil {
		return domain.Terminal{}, fmt.Errorf("%w: decode terminal response: %v", domain.ErrProtocol, err)
	}
	if payload.Name == "" {
		return domain.Terminal{}, fmt.Errorf("%w: terminal response has no name", domain.ErrProtocol)
	}

	c.logger().Info("terminal created", "name", payload.Name)
	return domain.Terminal{Name: payload.Name}, nil
}

// WebsocketURL builds the duplex channel endpoint for a terminal.
func (c *Client) WebsocketURL(session domain.Session, terminal domain.Terminal) string {
	_, rest, _ := strings.Cut(session.BaseAPIURL, "://")
	return "wss://" + rest + "/terminals/websocket/" + terminal.Name
}

// CookieHeader serializes the session cookies for the channel handshake.
func (c *Client) CookieHeader(session domain.Session) string {
	u, err := url.Parse(session.BaseURL + "/")
	if err != nil {
		return ""
	}

	pairs := make([]string, 0, 4)
	for _, cookie := range c.HTTPClient.Jar.Cookies(u) {
		pairs = append(pairs, cookie.Name+"="+cookie.Value)
	}
	return strings.Join(pairs, "; ")
}

func (c *Client) getText(ctx context.Context, rawURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("%w: create request: %v", domain.ErrTransport, err)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: get %s: %v", domain.ErrTransport, rawURL, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxStatusBytes))
	if err != nil {
		return "", fmt.Errorf("%w: read response body: %v", domain.ErrTransport, err)
	}
	return string(body), nil
}

// deriveBaseURL drops the query string and the final path segment of the
// presigned URL. A login URL like https://d-x.studio.region.sagemaker.aws/auth?token=...
// yields https://d-x.studio.region.sagemaker.aws.
func deriveBaseURL(presignedURL string) (string, error) {
	s := presignedURL
	if i := strings.IndexByte(s, '?'); i >= 0 {
		s = s[:i]
	}
	i := strings.LastIndexByte(s, '/')
	if i < 0 {
		return "", fmt.Errorf("%w: presigned URL %q has no path", domain.ErrConfiguration, presignedURL)
	}
	base := s[:i]

	if _, err := url.Parse(base); err != nil || !strings.HasPrefix(base, "http") {
		return "", fmt.Errorf("%w: presigned URL %q is not an absolute http(s) URL", domain.ErrConfiguration, presignedURL)
	}
	return base, nil
}
