// Package model defines the shared data structures for the search service.
package model

// Listing is a normalised job posting sourced from an external job board.
// The JSON shape is the wire contract with the web client; null-ish fields
// are omitted on serialisation and unknown fields are ignored on decode.
type Listing struct {
	ID          string   `json:"id"`
	Title       string   `json:"title,omitempty"`
	CompanyName string   `json:"company_name,omitempty"`
	Location    string   `json:"location,omitempty"`
	Via         string   `json:"via,omitempty"`
	Description string   `json:"description,omitempty"`
	Highlights  []string `json:"job_highlights,omitempty"`
	URL         string   `json:"url,omitempty"`
	Keywords    []string `json:"keywords,omitempty"`
	Favorite    bool     `json:"favorite"`
}

// LoginRequest is the POST /login body.
type LoginRequest struct {
	UserID   string `json:"user_id"`
	Password string `json:"password"`
}

// LoginResponse is the POST /login success body.
type LoginResponse struct {
	Status string `json:"status"`
	UserID string `json:"user_id"`
	Name   string `json:"name"`
}

// RegisterRequest is the POST /register body.
type RegisterRequest struct {
	UserID    string `json:"user_id"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// FavoriteChange toggles one listing's favorite state for a user.
type FavoriteChange struct {
	Item     Listing `json:"item"`
	Favorite bool    `json:"favorite"`
}

// HistoryRequest is the POST /history body.
type HistoryRequest struct {
	UserID   string           `json:"user_id"`
	Favorite []FavoriteChange `json:"favorite"`
}

// Result is the generic {result} envelope used for status and error replies.
type Result struct {
	Result string `json:"result"`
}
