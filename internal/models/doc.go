// Package models defines the client-side views of wishlist service entities.
//
// The package contains two categories of types:
//
// 1. Wire views: flat request bodies and the uniform response envelope
//   - [Result] : The {status, message, id} envelope returned by every mutating endpoint
//   - [WishlistForm], [ItemForm], [MarkRequest], [ShareForm], [RecoverForm] : Request bodies
//   - [Item] : A row of the rendered item list, parsed from the HTML fragment
//
// 2. Persistent entities: database-backed models with lifecycle management
//   - [Link] : A saved wishlist page URL carrying its access token
//
// Persistent entities implement the [Model] interface providing ID, timestamps and validation.
// The [Repository] interface defines standard CRUD operations for database access.
package models
