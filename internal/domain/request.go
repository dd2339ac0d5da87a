package domain

import (
	"encoding/json"
	"fmt"
)

// RunRequest identifies which Studio user environment to bootstrap.
// DomainID is optional; an empty value means "resolve it from the control
// plane". UserProfileName is always required.
type RunRequest struct {
	DomainID        string
	UserProfileName string
}

func (r RunRequest) Validate() error {
	if r.UserProfileName == "" {
		return fmt.Errorf("%w: user profile name is required", ErrConfiguration)
	}
	return nil
}

// runEvent mirrors the invocation event shape, which accepts both
// PascalCase and camelCase property names.
type runEvent struct {
	DomainID             string `json:"DomainId"`
	DomainIDCamel        string `json:"domainId"`
	UserProfileName      string `json:"UserProfileName"`
	UserProfileNameCamel string `json:"userProfileName"`
}

// DecodeRunEvent decodes a JSON invocation event without validating it.
// PascalCase fields win when both casings are present.
func DecodeRunEvent(data []byte) (RunRequest, error) {
	var event runEvent
	if err := json.Unmarshal(data, &event); err != nil {
		return RunRequest{}, fmt.Errorf("%w: decode run event: %v", ErrConfiguration, err)
	}

	req := RunRequest{
		DomainID:        event.DomainID,
		UserProfileName: event.UserProfileName,
	}
	if req.DomainID == "" {
		req.DomainID = event.DomainIDCamel
	}
	if req.UserProfileName == "" {
		req.UserProfileName = event.UserProfileNameCamel
	}
	return req, nil
}

// ParseRunRequest decodes and validates a JSON invocation event.
func ParseRunRequest(data []byte) (RunRequest, error) {
	req, err := DecodeRunEvent(data)
	if err != nil {
		return RunRequest{}, err
	}
	return req, req.Validate()
}
