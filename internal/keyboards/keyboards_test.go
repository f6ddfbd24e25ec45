package keyboards

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMainMenuForUser(t *testing.T) {
	menu := MainMenu(false)

	require.Len(t, menu.Keyboard, 2)
	assert.Equal(t, BtnCreateTicket, menu.Keyboard[0][0].Text)
	assert.Equal(t, BtnMyTickets, menu.Keyboard[1][0].Text)
	assert.True(t, menu.ResizeKeyboard)
}

func TestMainMenuForAdmin(t *testing.T) {
	menu := MainMenu(true)

	require.Len(t, menu.Keyboard, 3)
	assert.Equal(t, BtnAdminPanel, menu.Keyboard[2][0].Text)
}

func TestAdminMenu(t *testing.T) {
	menu := AdminMenu()

	require.Len(t, menu.Keyboard, 4)
	assert.Equal(t, BtnAllTickets, menu.Keyboard[0][0].Text)
	assert.Equal(t, BtnActiveTickets, menu.Keyboard[1][0].Text)
	assert.Equal(t, BtnClosedTickets, menu.Keyboard[2][0].Text)
	assert.Equal(t, BtnBackToMain, menu.Keyboard[3][0].Text)
}

func TestTicketActions(t *testing.T) {
	markup := TicketActions(7)

	require.Len(t, markup.InlineKeyboard, 2)
	require.Len(t, markup.InlineKeyboard[0], 2)
	assert.Equal(t, "process_7", *markup.InlineKeyboard[0][0].CallbackData)
	assert.Equal(t, "close_7", *markup.InlineKeyboard[0][1].CallbackData)
	assert.Equal(t, "reply_7", *markup.InlineKeyboard[1][0].CallbackData)
}
