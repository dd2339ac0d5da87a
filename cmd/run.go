package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/telkin/studio-bootstrap/internal/domain"
)

func newRunCmd(a *app) *cobra.Command {
	var (
		domainID    string
		userProfile string
		eventPath   string
		verbose     bool
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the setup script in a Studio user profile's terminal",
		Long:  "run obtains a presigned login URL for the user profile, waits for the JupyterServer app if needed, opens a terminal and drives the configured command script through it.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := ensureApp(cmd, a, verbose)
			if err != nil {
				return err
			}

			req := domain.RunRequest{DomainID: domainID, UserProfileName: userProfile}
			if eventPath != "" {
				eventReq, err := readEvent(cmd.InOrStdin(), eventPath)
				if err != nil {
					return err
				}
				// Flags win over event fields.
				if req.DomainID == "" {
					req.DomainID = eventReq.DomainID
				}
				if req.UserProfileName == "" {
					req.UserProfileName = eventReq.UserProfileName
				}
			}
			if req.DomainID == "" {
				req.DomainID = app.defaultDomainID
			}

			return app.bootstrapper.Run(cmd.Context(), req)
		},
	}

	cmd.Flags().StringVar(&domainID, "domain-id", "", "Studio domain ID (default: resolve automatically)")
	cmd.Flags().StringVar(&userProfile, "user-profile", "", "Studio user profile name")
	cmd.Flags().StringVar(&eventPath, "event", "", "Path to a JSON invocation event, or '-' for stdin")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	return cmd
}

// readEvent decodes a JSON invocation event, accepting both PascalCase
// and camelCase property names.
func readEvent(stdin io.Reader, path string) (domain.RunRequest, error) {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return domain.RunRequest{}, fmt.Errorf("read event: %w", err)
	}

	return domain.DecodeRunEvent(data)
}

// ensureApp wires the production graph unless a pre-built app was
// injected (tests).
func ensureApp(cmd *cobra.Command, a *app, verbose bool) (*app, error) {
	if a != nil {
		return a, nil
	}
	return wireApp(cmd.Context(), verbose)
}
