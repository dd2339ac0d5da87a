package domain

// Terminal identifies an interactive terminal opened on the Jupyter server.
// The remote resource outlives the run; nothing tears it down.
type Terminal struct {
	Name string
}
