package application

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/telkin/studio-bootstrap/internal/domain"
	"github.com/telkin/studio-bootstrap/internal/ports"
)

// Bootstrapper runs the one-time setup sequence for a Studio user profile:
// resolve the domain, log in with a presigned URL, wait for the Jupyter
// app if it is still starting, open a terminal and drive the install
// script through it. One call handles one (domain, user profile) pair,
// start to finish, with no state kept between calls.
type Bootstrapper struct {
	controlPlane ports.ControlPlane
	appServer    ports.AppServer
	scripts      ports.ScriptSource
	driver       *Driver
	logger       *slog.Logger
}

func NewBootstrapper(controlPlane ports.ControlPlane, appServer ports.AppServer, scripts ports.ScriptSource, driver *Driver, logger *slog.Logger) *Bootstrapper {
	if logger == nil {
		logger = slog.Default()
	}

	return &Bootstrapper{
		controlPlane: controlPlane,
		appServer:    appServer,
		scripts:      scripts,
		driver:       driver,
		logger:       logger,
	}
}

// ResolveDomain returns the explicit domain ID untouched when present.
// Otherwise the control plane must report exactly one domain; zero or
// several cannot be disambiguated automatically.
func (b *Bootstrapper) ResolveDomain(ctx context.Context, explicit string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}

	ids, err := b.controlPlane.ListDomainIDs(ctx)
	if err != nil {
		return "", err
	}

	switch len(ids) {
	case 0:
		return "", fmt.Errorf("%w: no Studio domains found in this region", domain.ErrConfiguration)
	case 1:
		return ids[0], nil
	default:
		return "", fmt.Errorf("%w: cannot select a Studio domain automatically: %d found", domain.ErrConfiguration, len(ids))
	}
}

// Run executes the full bootstrap sequence for one request.
func (b *Bootstrapper) Run(ctx context.Context, req domain.RunRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}

	domainID, err := b.ResolveDomain(ctx, req.DomainID)
	if err != nil {
		return err
	}
	logger := b.logger.With("domain", domainID, "user_profile", req.UserProfileName)

	logger.Info("generating presigned URL")
	presignedURL, err := b.controlPlane.PresignedDomainURL(ctx, domainID, req.UserProfileName)
	if err != nil {
		return err
	}

	logger.Info("logging in")
	session, err := b.appServer.Login(ctx, presignedURL)
	if err != nil {
		return err
	}

	// No anti-CSRF cookie after login means the Jupyter app is still
	// starting; wait for it before touching the app API.
	if _, ok := b.appServer.XSRFToken(session); !ok {
		logger.Info("waiting for app start-up")
		if err := b.appServer.AwaitReady(ctx, session); err != nil {
			return err
		}
	}

	logger.Info("creating terminal")
	terminal, err := b.appServer.OpenTerminal(ctx, session)
	if err != nil {
		return err
	}

	script, err := b.scripts.Load(ctx)
	if err != nil {
		return err
	}

	header := http.Header{}
	header.Set("Cookie", b.appServer.CookieHeader(session))

	url := b.appServer.WebsocketURL(session, terminal)
	logger.Info("connecting to terminal channel", "url", url)
	return b.driver.Run(ctx, url, header, script)
}
