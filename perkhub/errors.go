package perkhub

import "errors"

// Errors returned by the API handlers
var (
	// Err401NotAuthenticated is returned when the request carries no valid session
	Err401NotAuthenticated = errors.New("not authenticated")

	// Err403NotAuthorized is returned when the session user may not act on the resource
	Err403NotAuthorized = errors.New("not authorized")
)
