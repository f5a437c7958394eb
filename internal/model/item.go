// Package model defines domain entities for the application.
package model

import (
	"time"
)

// Item represents a single record kept by a user.
// Amount and Time are free-form strings; Date is a timestamp that defaults
// to creation time when the client omits it.
type Item struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Amount    string    `json:"amount"`
	Product   string    `json:"product,omitempty"`
	Image     string    `json:"image,omitempty"`
	Date      time.Time `json:"date"`
	Time      string    `json:"time,omitempty"`
	OwnerID   string    `json:"owner"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// OwnedBy reports whether the item belongs to the given user.
func (i *Item) OwnedBy(userID string) bool {
	return i.OwnerID == userID
}

// Item date formats accepted from clients, tried in order.
var itemDateLayouts = []string{
	"02.01.2006",
	"2006-01-02",
	time.RFC3339,
}

// ParseItemDate parses a client-supplied date string.
// The primary format is "dd.mm.yyyy"; ISO dates and RFC3339 timestamps
// are accepted as well. Returns ok=false when nothing matches.
func ParseItemDate(s string) (time.Time, bool) {
	for _, layout := range itemDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
