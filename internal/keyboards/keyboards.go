// Package keyboards builds the reply and inline keyboards shown to users.
// The set of actions is a pure function of the admin flag and the ticket.
package keyboards

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Menu button labels. Incoming messages are dispatched by exact match
// against these.
const (
	BtnCreateTicket  = "📝 Создать заявку"
	BtnMyTickets     = "📋 Мои заявки"
	BtnAdminPanel    = "👑 Админ-панель"
	BtnAllTickets    = "📊 Все заявки"
	BtnActiveTickets = "🔄 Активные заявки"
	BtnClosedTickets = "✅ Закрытые заявки"
	BtnBackToMain    = "🔙 Главное меню"
)

// Callback data prefixes for per-ticket inline actions.
const (
	ActionProcess = "process"
	ActionClose   = "close"
	ActionReply   = "reply"
)

func MainMenu(isAdmin bool) tgbotapi.ReplyKeyboardMarkup {
	rows := [][]tgbotapi.KeyboardButton{
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(BtnCreateTicket)),
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(BtnMyTickets)),
	}
	if isAdmin {
		rows = append(rows, tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(BtnAdminPanel)))
	}
	keyboard := tgbotapi.NewReplyKeyboard(rows...)
	keyboard.ResizeKeyboard = true
	return keyboard
}

func AdminMenu() tgbotapi.ReplyKeyboardMarkup {
	keyboard := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(BtnAllTickets)),
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(BtnActiveTickets)),
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(BtnClosedTickets)),
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(BtnBackToMain)),
	)
	keyboard.ResizeKeyboard = true
	return keyboard
}

func TicketActions(ticketID int) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔄 В работу", fmt.Sprintf("%s_%d", ActionProcess, ticketID)),
			tgbotapi.NewInlineKeyboardButtonData("✅ Закрыть", fmt.Sprintf("%s_%d", ActionClose, ticketID)),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("💬 Ответить", fmt.Sprintf("%s_%d", ActionReply, ticketID)),
		),
	)
}
