package shared

import "fmt"

var (
	// Configuration errors
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Wishlist service errors
	ErrAPIRequest           = fmt.Errorf("API request failed")
	ErrTransport            = fmt.Errorf("request did not complete")
	ErrUnexpectedResponse   = fmt.Errorf("unexpected response")
	ErrApplication          = fmt.Errorf("wishlist service rejected the request")
	ErrServiceUnavailable   = fmt.Errorf("service unavailable")
	ErrMissingWishlistID    = fmt.Errorf("missing wishlist id")
	ErrClipboardUnavailable = fmt.Errorf("clipboard unavailable")

	// Saved link errors
	ErrLinkNotFound = fmt.Errorf("link not found")
	ErrLinkExists   = fmt.Errorf("link already exists")

	// Input validation errors
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
	ErrInvalidFlag     = fmt.Errorf("invalid flag value")
)
