package models

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// LinkRole records whether a saved link manages or only views a wishlist.
type LinkRole string

const (
	RoleOwner LinkRole = "owner"
	RoleShare LinkRole = "share"
)

// Link is a saved wishlist page URL. The access token lives in the URL's query.
type Link struct {
	id         string
	name       string
	wishlistID string
	url        string
	role       LinkRole
	createdAt  time.Time
}

// NewLink creates a [Link] that has not yet been persisted.
func NewLink(name, wishlistID, rawURL string, role LinkRole) *Link {
	return &Link{
		name:       strings.TrimSpace(name),
		wishlistID: wishlistID,
		url:        strings.TrimSpace(rawURL),
		role:       role,
		createdAt:  time.Now(),
	}
}

// RestoreLink rebuilds a persisted [Link] from stored columns.
func RestoreLink(id, name, wishlistID, rawURL string, role LinkRole, createdAt time.Time) *Link {
	return &Link{id: id, name: name, wishlistID: wishlistID, url: rawURL, role: role, createdAt: createdAt}
}

func (l *Link) ID() string           { return l.id }
func (l *Link) Name() string         { return l.name }
func (l *Link) WishlistID() string   { return l.wishlistID }
func (l *Link) URL() string          { return l.url }
func (l *Link) Role() LinkRole       { return l.role }
func (l *Link) CreatedAt() time.Time { return l.createdAt }
func (l *Link) SetID(id string)      { l.id = id }

// Validate checks the link has a name and an absolute URL.
func (l *Link) Validate() error {
	if l.name == "" {
		return fmt.Errorf("link name is required")
	}
	if l.url == "" {
		return fmt.Errorf("link url is required")
	}
	u, err := url.Parse(l.url)
	if err != nil {
		return fmt.Errorf("link url is invalid: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("link url must be absolute: %s", l.url)
	}
	switch l.role {
	case RoleOwner, RoleShare:
	default:
		return fmt.Errorf("unknown link role: %q", l.role)
	}
	return nil
}

var _ Model = (*Link)(nil)
