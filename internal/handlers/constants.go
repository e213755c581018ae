package handlers

const (
	contentTypeJSON = "application/json"

	// maxBodyBytes caps request bodies
	maxBodyBytes = 1 << 20

	ErrInvalidJSON         = "Invalid JSON body"
	ErrInternalServerError = "Internal server error"
	ErrRateLimited         = "Too many requests, please slow down"
	ErrNotReady            = "Server is starting up"
)
