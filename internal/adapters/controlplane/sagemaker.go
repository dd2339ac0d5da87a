package controlplane

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sagemaker"

	"github.com/telkin/studio-bootstrap/internal/domain"
	"github.com/telkin/studio-bootstrap/internal/ports"
)

// API is the slice of the SageMaker client this adapter calls, split out
// so tests can substitute a double.
type API interface {
	ListDomains(ctx context.Context, params *sagemaker.ListDomainsInput, optFns ...func(*sagemaker.Options)) (*sagemaker.ListDomainsOutput, error)
	CreatePresignedDomainUrl(ctx context.Context, params *sagemaker.CreatePresignedDomainUrlInput, optFns ...func(*sagemaker.Options)) (*sagemaker.CreatePresignedDomainUrlOutput, error)
}

// SageMaker implements ports.ControlPlane against the SageMaker API.
type SageMaker struct {
	api API
}

var _ ports.ControlPlane = (*SageMaker)(nil)

// New builds the adapter from the ambient AWS configuration (environment,
// shared config, instance role).
func New(ctx context.Context) (*SageMaker, error) {
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return &SageMaker{api: sagemaker.NewFromConfig(cfg)}, nil
}

// NewWithAPI wires an explicit API client, used by tests.
func NewWithAPI(api API) *SageMaker {
	return &SageMaker{api: api}
}

func (s *SageMaker) ListDomainIDs(ctx context.Context) ([]string, error) {
	out, err := s.api.ListDomains(ctx, &sagemaker.ListDomainsInput{})
	if err != nil {
		return nil, fmt.Errorf("%w: list domains: %v", domain.ErrTransport, err)
	}

	ids := make([]string, 0, len(out.Domains))
	for _, d := range out.Domains {
		ids = append(ids, aws.ToString(d.DomainId))
	}
	return ids, nil
}

func (s *SageMaker) PresignedDomainURL(ctx context.Context, domainID, userProfileName string) (string, error) {
	out, err := s.api.CreatePresignedDomainUrl(ctx, &sagemaker.CreatePresignedDomainUrlInput{
		DomainId:        aws.String(domainID),
		UserProfileName: aws.String(userProfileName),
	})
	if err != nil {
		return "", fmt.Errorf("%w: create presigned domain url for %s/%s: %v", domain.ErrAuth, domainID, userProfileName, err)
	}

	authorized := aws.ToString(out.AuthorizedUrl)
	if authorized == "" {
		return "", fmt.Errorf("%w: control plane returned empty authorized url", domain.ErrProtocol)
	}
	return authorized, nil
}
