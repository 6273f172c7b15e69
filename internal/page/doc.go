// Package page implements the wishlist page: an in-memory [Document] standing in for the browser DOM,
// the [Location] carrying the access token, and the [Client] whose handlers issue requests to the
// wishlist service and patch the document with the outcome.
//
// # Handlers
//
// Each handler is an independent request/response cycle. Nothing is cached between calls:
// the token is re-read from the [Location] and form fields are re-read from the [Document]
// on every invocation. Handlers never wait on each other and overlapping calls for the same
// item are not serialized; ordering is the service's concern.
//
// # Failure policy
//
// List refresh, clipboard copy, and transport failures of mark, add, create and recover were
// historically silent. [PolicyBestEffort] keeps them out of the banner and logs a warning;
// [PolicyReport] surfaces them as error banners. Delete and share always report.
//
// # Selectors
//
// Regions of the document are addressed by the selectors the service's page markup uses
// (#msgbox, #modal_msgbox, #wishlist_items, ...), see [Selector].
package page
