// Package dto provides Data Transfer Objects for API requests and responses.
// Every response carries the {success, message?} envelope the API contract
// is built around.
package dto

import (
	"github.com/stashkeep/stashkeep/internal/model"
)

// RegisterRequest represents the request body for registration.
type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginRequest represents the request body for login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// ItemRequest represents the JSON request body for creating or updating
// an item. Multipart requests carry the same fields as form values.
// There is no owner field: ownership comes from the authenticated identity.
type ItemRequest struct {
	Name    string `json:"name"`
	Amount  string `json:"amount"`
	Product string `json:"product,omitempty"`
	Date    string `json:"date,omitempty"`
	Time    string `json:"time,omitempty"`
}

// MessageResponse is the envelope for responses with no payload.
type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// LoginResponse carries an issued token.
type LoginResponse struct {
	Success bool   `json:"success"`
	Token   string `json:"token"`
}

// UserResponse carries the authenticated identity.
type UserResponse struct {
	Success bool            `json:"success"`
	Message string          `json:"message,omitempty"`
	User    *model.Identity `json:"user"`
}

// ItemResponse carries a single item.
type ItemResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Item    *model.Item `json:"item"`
}

// ItemListResponse carries an owner-scoped item list.
// Items is always present, even when empty.
type ItemListResponse struct {
	Success bool          `json:"success"`
	Items   []*model.Item `json:"items"`
}
