package repository

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"helpdeskbot/internal/models"
)

func newTestRepo(t *testing.T) (*Repository, string) {
	t.Helper()
	dir := t.TempDir()
	repo, err := NewRepository(dir)
	require.NoError(t, err)
	return repo, dir
}

func TestNewRepositoryCreatesCollections(t *testing.T) {
	repo, dir := newTestRepo(t)

	for _, name := range []string{"users.json", "tickets.json", "admins.json"} {
		_, err := os.Stat(filepath.Join(dir, name))
		assert.NoError(t, err, name)
	}

	users, err := repo.Users()
	require.NoError(t, err)
	assert.Empty(t, users)

	tickets, err := repo.Tickets()
	require.NoError(t, err)
	assert.Empty(t, tickets)
}

func TestNewRepositorySeedsPlaceholderAdmin(t *testing.T) {
	repo, _ := newTestRepo(t)

	admins, err := repo.Admins()
	require.NoError(t, err)
	require.Len(t, admins, 1)
	assert.Equal(t, "ADMIN_CHAT_ID", admins[0].UserID)
	assert.Equal(t, "admin", admins[0].Username)
	assert.False(t, admins[0].CreatedAt.IsZero())
}

func TestNewRepositoryDoesNotReseed(t *testing.T) {
	_, dir := newTestRepo(t)

	// Operator replaced the placeholder by hand.
	admins := []models.Admin{{UserID: "42", Username: "real_admin", CreatedAt: time.Now()}}
	data, err := json.Marshal(admins)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "admins.json"), data, 0o644))

	repo, err := NewRepository(dir)
	require.NoError(t, err)

	got, err := repo.Admins()
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "42", got[0].UserID)
}

func TestCreateUserAndReadBack(t *testing.T) {
	repo, dir := newTestRepo(t)

	user := models.User{
		UserID:       "100",
		Username:     "alice",
		FullName:     "Alice A",
		Cabinet:      "101",
		Phone:        "555-0001",
		RegisteredAt: time.Now(),
	}
	require.NoError(t, repo.CreateUser(user))

	users, err := repo.Users()
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "Alice A", users[0].FullName)

	// The record survives a re-open from the same directory.
	reopened, err := NewRepository(dir)
	require.NoError(t, err)
	users, err = reopened.Users()
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "alice", users[0].Username)
}

func TestCreateTicketSequentialIDs(t *testing.T) {
	repo, _ := newTestRepo(t)

	for i := 1; i <= 3; i++ {
		ticket, err := repo.CreateTicket(models.Ticket{UserID: "100", Status: models.StatusOpen})
		require.NoError(t, err)
		assert.Equal(t, i, ticket.ID)
	}
}

func TestCreateTicketConcurrentIDsAreUnique(t *testing.T) {
	repo, _ := newTestRepo(t)

	const n = 20
	ids := make(chan int, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ticket, err := repo.CreateTicket(models.Ticket{UserID: "100", Status: models.StatusOpen})
			assert.NoError(t, err)
			ids <- ticket.ID
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[int]bool)
	for id := range ids {
		assert.False(t, seen[id], "duplicate id %d", id)
		seen[id] = true
	}
	assert.Len(t, seen, n)
}

func TestUpdateTicketStatus(t *testing.T) {
	repo, _ := newTestRepo(t)

	created, err := repo.CreateTicket(models.Ticket{
		UserID:    "100",
		Status:    models.StatusOpen,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	})
	require.NoError(t, err)

	later := created.UpdatedAt.Add(time.Minute)
	updated, err := repo.UpdateTicketStatus(created.ID, models.StatusInProgress, later)
	require.NoError(t, err)
	assert.Equal(t, models.StatusInProgress, updated.Status)
	assert.Equal(t, later.Unix(), updated.UpdatedAt.Unix())

	tickets, err := repo.Tickets()
	require.NoError(t, err)
	require.Len(t, tickets, 1)
	assert.Equal(t, models.StatusInProgress, tickets[0].Status)
}

func TestUpdateTicketStatusNotFound(t *testing.T) {
	repo, _ := newTestRepo(t)

	_, err := repo.UpdateTicketStatus(77, models.StatusClosed, time.Now())
	assert.ErrorIs(t, err, ErrNotFound)
}
