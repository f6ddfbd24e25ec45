package service

import (
	"errors"
	"time"

	"helpdeskbot/internal/models"
	"helpdeskbot/internal/repository"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrTicketNotFound    = errors.New("ticket not found")
	ErrAlreadyRegistered = errors.New("user already registered")
)

type Service struct {
	repo *repository.Repository
}

func NewService(repo *repository.Repository) *Service {
	return &Service{repo: repo}
}

// RegisterUser stores a new user profile. Re-registering an existing
// user id is rejected.
func (s *Service) RegisterUser(userID, username, fullName, cabinet, phone string) (*models.User, error) {
	existing, err := s.GetUser(userID)
	if err != nil && !errors.Is(err, ErrUserNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, ErrAlreadyRegistered
	}

	user := models.User{
		UserID:       userID,
		Username:     username,
		FullName:     fullName,
		Cabinet:      cabinet,
		Phone:        phone,
		RegisteredAt: time.Now(),
	}
	if err := s.repo.CreateUser(user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *Service) GetUser(userID string) (*models.User, error) {
	users, err := s.repo.Users()
	if err != nil {
		return nil, err
	}
	for i := range users {
		if users[i].UserID == userID {
			return &users[i], nil
		}
	}
	return nil, ErrUserNotFound
}

func (s *Service) IsRegistered(userID string) (bool, error) {
	_, err := s.GetUser(userID)
	if errors.Is(err, ErrUserNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// CreateTicket opens a ticket for a registered user, snapshotting the
// user's profile into the ticket.
func (s *Service) CreateTicket(userID, problem string) (*models.Ticket, error) {
	user, err := s.GetUser(userID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	ticket := models.Ticket{
		UserID:    userID,
		FullName:  user.FullName,
		Cabinet:   user.Cabinet,
		Phone:     user.Phone,
		Problem:   problem,
		Status:    models.StatusOpen,
		CreatedAt: now,
		UpdatedAt: now,
	}
	created, err := s.repo.CreateTicket(ticket)
	if err != nil {
		return nil, err
	}
	return &created, nil
}

func (s *Service) GetTicket(ticketID int) (*models.Ticket, error) {
	tickets, err := s.repo.Tickets()
	if err != nil {
		return nil, err
	}
	for i := range tickets {
		if tickets[i].ID == ticketID {
			return &tickets[i], nil
		}
	}
	return nil, ErrTicketNotFound
}

func (s *Service) UserTickets(userID string) ([]models.Ticket, error) {
	tickets, err := s.repo.Tickets()
	if err != nil {
		return nil, err
	}

	var result []models.Ticket
	for _, t := range tickets {
		if t.UserID == userID {
			result = append(result, t)
		}
	}
	return result, nil
}

func (s *Service) AllTickets() ([]models.Ticket, error) {
	return s.repo.Tickets()
}

// TicketsByStatus filters tickets by the given statuses, insertion order.
func (s *Service) TicketsByStatus(statuses ...models.TicketStatus) ([]models.Ticket, error) {
	tickets, err := s.repo.Tickets()
	if err != nil {
		return nil, err
	}

	var result []models.Ticket
	for _, t := range tickets {
		for _, st := range statuses {
			if t.Status == st {
				result = append(result, t)
				break
			}
		}
	}
	return result, nil
}

// SetStatus transitions a ticket and returns the updated record so the
// caller can notify the owner.
func (s *Service) SetStatus(ticketID int, status models.TicketStatus) (*models.Ticket, error) {
	ticket, err := s.repo.UpdateTicketStatus(ticketID, status, time.Now())
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrTicketNotFound
	}
	if err != nil {
		return nil, err
	}
	return ticket, nil
}

func (s *Service) IsAdmin(userID string) (bool, error) {
	admins, err := s.repo.Admins()
	if err != nil {
		return false, err
	}
	for _, a := range admins {
		if a.UserID == userID {
			return true, nil
		}
	}
	return false, nil
}

// AdminIDs returns the chat ids of every admin, for notification fan-out.
func (s *Service) AdminIDs() ([]string, error) {
	admins, err := s.repo.Admins()
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(admins))
	for _, a := range admins {
		ids = append(ids, a.UserID)
	}
	return ids, nil
}
