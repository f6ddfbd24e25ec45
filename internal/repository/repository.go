package repository

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/natefinch/atomic"

	"helpdeskbot/internal/models"
)

// ErrNotFound is returned when a record with the requested id does not exist.
var ErrNotFound = errors.New("repository: record not found")

const (
	usersFile   = "users.json"
	ticketsFile = "tickets.json"
	adminsFile  = "admins.json"

	// Seeded into an empty admins collection; the operator replaces it
	// with a real chat id by hand.
	placeholderAdminID = "ADMIN_CHAT_ID"
)

// Repository stores each collection as a JSON array in its own file under
// dir. All read-modify-write cycles run under one mutex, and the ticket id
// sequence is issued under that same lock.
type Repository struct {
	dir string
	mu  sync.Mutex
}

func NewRepository(dir string) (*Repository, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data dir: %w", err)
	}

	r := &Repository{dir: dir}

	if err := r.ensureFile(usersFile, []models.User{}); err != nil {
		return nil, err
	}
	if err := r.ensureFile(ticketsFile, []models.Ticket{}); err != nil {
		return nil, err
	}
	if err := r.ensureFile(adminsFile, []models.Admin{}); err != nil {
		return nil, err
	}

	if err := r.seedAdmins(); err != nil {
		return nil, err
	}
	return r, nil
}

// User methods

func (r *Repository) Users() ([]models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var users []models.User
	if err := r.read(usersFile, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (r *Repository) CreateUser(user models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var users []models.User
	if err := r.read(usersFile, &users); err != nil {
		return err
	}
	users = append(users, user)
	return r.write(usersFile, users)
}

// Ticket methods

func (r *Repository) Tickets() ([]models.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var tickets []models.Ticket
	if err := r.read(ticketsFile, &tickets); err != nil {
		return nil, err
	}
	return tickets, nil
}

// CreateTicket assigns the next id in the sequence and appends the ticket.
// The id is issued under the same lock as the insert, so concurrent creates
// never collide.
func (r *Repository) CreateTicket(ticket models.Ticket) (models.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var tickets []models.Ticket
	if err := r.read(ticketsFile, &tickets); err != nil {
		return models.Ticket{}, err
	}

	maxID := 0
	for _, t := range tickets {
		if t.ID > maxID {
			maxID = t.ID
		}
	}
	ticket.ID = maxID + 1

	tickets = append(tickets, ticket)
	if err := r.write(ticketsFile, tickets); err != nil {
		return models.Ticket{}, err
	}
	return ticket, nil
}

// UpdateTicketStatus sets the status and updated_at of the ticket with the
// given id and returns the updated record.
func (r *Repository) UpdateTicketStatus(ticketID int, status models.TicketStatus, now time.Time) (*models.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var tickets []models.Ticket
	if err := r.read(ticketsFile, &tickets); err != nil {
		return nil, err
	}

	for i := range tickets {
		if tickets[i].ID == ticketID {
			tickets[i].Status = status
			tickets[i].UpdatedAt = now
			if err := r.write(ticketsFile, tickets); err != nil {
				return nil, err
			}
			t := tickets[i]
			return &t, nil
		}
	}
	return nil, ErrNotFound
}

// Admin methods

func (r *Repository) Admins() ([]models.Admin, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var admins []models.Admin
	if err := r.read(adminsFile, &admins); err != nil {
		return nil, err
	}
	return admins, nil
}

// helpers

func (r *Repository) ensureFile(name string, empty any) error {
	path := filepath.Join(r.dir, name)
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("checking %s: %w", name, err)
	}
	return r.write(name, empty)
}

func (r *Repository) seedAdmins() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var admins []models.Admin
	if err := r.read(adminsFile, &admins); err != nil {
		return err
	}
	if len(admins) > 0 {
		return nil
	}

	admins = append(admins, models.Admin{
		UserID:    placeholderAdminID,
		Username:  "admin",
		CreatedAt: time.Now(),
	})
	return r.write(adminsFile, admins)
}

func (r *Repository) read(name string, v any) error {
	data, err := os.ReadFile(filepath.Join(r.dir, name))
	if err != nil {
		return fmt.Errorf("reading %s: %w", name, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decoding %s: %w", name, err)
	}
	return nil
}

func (r *Repository) write(name string, v any) error {
	data, err := json.MarshalIndent(v, "", "    ")
	if err != nil {
		return fmt.Errorf("encoding %s: %w", name, err)
	}
	if err := atomic.WriteFile(filepath.Join(r.dir, name), bytes.NewReader(data)); err != nil {
		return fmt.Errorf("writing %s: %w", name, err)
	}
	return nil
}
