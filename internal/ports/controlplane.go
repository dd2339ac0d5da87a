package ports

import "context"

// ControlPlane is the slice of the SageMaker control-plane API this tool
// consumes. Implementations must not apply retries; failures propagate to
// the caller as-is.
type ControlPlane interface {
	ListDomainIDs(ctx context.Context) ([]string, error)
	PresignedDomainURL(ctx context.Context, domainID, userProfileName string) (string, error)
}
