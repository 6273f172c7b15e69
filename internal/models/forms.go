package models

// WishlistForm is the body of a wishlist creation request.
type WishlistForm struct {
	Name     string `json:"name"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// ItemForm is the body of an add item request.
type ItemForm struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	URL         string `json:"url"`
}

// MarkRequest is the body of a mark request. Unlike the other mutating
// requests, the token travels in the body rather than the query string.
type MarkRequest struct {
	Gotten bool   `json:"gotten"`
	Token  string `json:"token"`
}

// ShareForm is the body of a share request.
type ShareForm struct {
	Email string `json:"email"`
}

// RecoverForm is the body of a recover request.
type RecoverForm struct {
	Email string `json:"email"`
}

// Item is one row of the rendered item list.
type Item struct {
	ID          string
	Name        string
	Description string
	URL         string
	Gotten      bool
	Disabled    bool // checkbox is locked in the rendered row
}
