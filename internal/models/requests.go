package models

import "mime/multipart"

// SignupRequest is the payload for POST /signup.
type SignupRequest struct {
	Phone     string `json:"phone"`
	Password  string `json:"password"`
	Name      string `json:"name"`
	Role      string `json:"role"`
	StoreName string `json:"storeName"`
	Town      string `json:"town"`
}

// LoginRequest is the payload for POST /login.
type LoginRequest struct {
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

// SessionResponse is returned by signup and login.
type SessionResponse struct {
	Token     string  `json:"token"`
	Role      Role    `json:"role"`
	Name      string  `json:"name"`
	StoreName *string `json:"storeName"`
}

// ProfileResponse is the body of GET /me.
type ProfileResponse struct {
	ID           string        `json:"id"`
	Role         Role          `json:"role"`
	Name         string        `json:"name"`
	StoreName    *string       `json:"storeName"`
	Town         string        `json:"town"`
	Availability *Availability `json:"availability"`
}

// AvailabilityRequest is the payload for POST /seller/availability.
type AvailabilityRequest struct {
	Status string `json:"status"`
	BackAt string `json:"backAt"`
}

// ProductInput is a parsed multipart product upload.
type ProductInput struct {
	Title        string
	Price        string
	Category     string
	Town         string
	AvailableNow string
	Images       []*multipart.FileHeader
}

// AskRequest is the payload for POST /ai.
type AskRequest struct {
	Question string `json:"question"` // free text from the widget
	Mode     string `json:"mode"`     // "pro", "neon" or anything else
	Role     string `json:"role"`     // optional; defaults to the caller's role
	SellerID string `json:"sellerId"` // optional seller the question is about
}
