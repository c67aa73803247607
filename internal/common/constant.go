package common

const (
	// AuthorizationHeaderName carries the access token on authenticated calls.
	AuthorizationHeaderName = "Authorization"
	// BearerPrefix precedes the access token in the Authorization header.
	BearerPrefix = "Bearer "

	// RefreshTokenBytes is the amount of randomness in a refresh token.
	// The token itself is hex-encoded, so it is twice as long.
	RefreshTokenBytes = 40

	// DefaultRole is assigned to every newly registered user.
	DefaultRole = "user"
)
