package domain

// Session is the authenticated browsing context for one presigned login.
// Cookies live in the HTTP client's jar; the session carries only the URLs
// derived from the login target. BaseAPIURL is the Jupyter app API root.
type Session struct {
	BaseURL    string
	BaseAPIURL string
}
