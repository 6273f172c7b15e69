// Package repositories implements SQLite persistence for saved wishlist links.
//
// [LinkRepository] implements models.Repository[*models.Link] and adds lookups by the
// user-chosen link name. Names are unique; inserting a duplicate returns [shared.ErrLinkExists]
// and lookups of unknown names or ids return [shared.ErrLinkNotFound].
//
// The schema lives in the shared package's embedded migrations and is applied by
// [shared.OpenLinkStore] before a repository is constructed.
package repositories
