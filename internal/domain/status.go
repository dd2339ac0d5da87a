package domain

// AppStatus is the lifecycle state reported for a Studio app instance.
type AppStatus string

const (
	AppStatusUnknown    AppStatus = "Unknown"
	AppStatusPending    AppStatus = "Pending"
	AppStatusInService  AppStatus = "InService"
	AppStatusTerminated AppStatus = "Terminated"
)

// ParseAppStatus maps the status endpoint's plain-text body onto the enum.
// Anything outside the two terminal states is treated as still starting,
// which matches the front-end polling loop this mirrors.
func ParseAppStatus(text string) AppStatus {
	switch AppStatus(text) {
	case AppStatusInService:
		return AppStatusInService
	case AppStatusTerminated:
		return AppStatusTerminated
	case AppStatusPending:
		return AppStatusPending
	default:
		return AppStatusUnknown
	}
}

// Terminal reports whether the status ends the readiness poll.
func (s AppStatus) Terminal() bool {
	return s == AppStatusInService || s == AppStatusTerminated
}
