package models

import "time"

// TicketStatus is the lifecycle state of a ticket.
type TicketStatus string

const (
	StatusOpen       TicketStatus = "open"
	StatusInProgress TicketStatus = "in_progress"
	StatusClosed     TicketStatus = "closed"
)

// User represents a registered user of the helpdesk.
type User struct {
	UserID       string    `json:"user_id"`       // Telegram chat id, stored as string
	Username     string    `json:"username"`      // @nickname, may be empty
	FullName     string    `json:"full_name"`     // Collected during registration
	Cabinet      string    `json:"cabinet"`       // Office/room, free text
	Phone        string    `json:"phone"`         // Contact phone
	RegisteredAt time.Time `json:"registered_at"` // When registration completed
}

// Ticket represents a support request. FullName, Cabinet and Phone are a
// snapshot of the user's profile at creation time and are not re-synced.
type Ticket struct {
	ID        int          `json:"id"`      // Sequential, issued by the repository
	UserID    string       `json:"user_id"` // Owner (foreign key to users)
	FullName  string       `json:"full_name"`
	Cabinet   string       `json:"cabinet"`
	Phone     string       `json:"phone"`
	Problem   string       `json:"problem"` // Free-text description
	Status    TicketStatus `json:"status"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

// Admin represents an entry in the admin allow-list.
type Admin struct {
	UserID    string    `json:"user_id"` // Telegram chat id
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}
