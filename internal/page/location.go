package page

import (
	"fmt"
	"net/url"
	"strings"
	"sync"

	"github.com/desertthunder/wishctl/internal/shared"
)

// Location is the address of the current page. The access token lives in its query string.
type Location struct {
	mu sync.RWMutex
	u  *url.URL
}

// ParseLocation creates a [Location] from an absolute page URL.
func ParseLocation(raw string) (*Location, error) {
	u, err := parsePageURL(raw)
	if err != nil {
		return nil, err
	}
	return &Location{u: u}, nil
}

// Navigate points the location at a new page URL.
func (l *Location) Navigate(raw string) error {
	u, err := parsePageURL(raw)
	if err != nil {
		return err
	}
	l.mu.Lock()
	l.u = u
	l.mu.Unlock()
	return nil
}

// String returns the full page URL, token included.
func (l *Location) String() string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.u.String()
}

// Token returns the token query parameter, or "" when absent.
func (l *Location) Token() string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.u.Query().Get("token")
}

// WishlistID returns the path segment following "wishlist", or "" on pages without one.
func (l *Location) WishlistID() string {
	l.mu.RLock()
	defer l.mu.RUnlock()

	segments := strings.Split(strings.Trim(l.u.Path, "/"), "/")
	for i := len(segments) - 2; i >= 0; i-- {
		if segments[i] == "wishlist" && segments[i+1] != "" {
			return shared.NormalizeID(segments[i+1])
		}
	}
	return ""
}

// ServiceRoot returns scheme, host and any path prefix preceding the "wishlist" segment.
func (l *Location) ServiceRoot() string {
	l.mu.RLock()
	defer l.mu.RUnlock()

	root := url.URL{Scheme: l.u.Scheme, Host: l.u.Host}
	if idx := strings.Index(l.u.Path, "/wishlist"); idx > 0 {
		root.Path = l.u.Path[:idx]
	}
	return root.String()
}

func parsePageURL(raw string) (*url.URL, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: page url: %v", shared.ErrInvalidArgument, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("%w: page url must be absolute: %q", shared.ErrInvalidArgument, raw)
	}
	return u, nil
}
