// Package notifier pushes ticket events to the relevant chats. Deliveries
// are independent and best-effort: a failed send is logged and swallowed,
// never surfaced to the user whose action triggered it.
package notifier

import (
	"fmt"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	"helpdeskbot/internal/keyboards"
	"helpdeskbot/internal/models"
	"helpdeskbot/internal/service"
)

// Sender is the outbound half of the bot transport. *tgbotapi.BotAPI
// satisfies it.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

type Notifier struct {
	bot Sender
	svc *service.Service
	log zerolog.Logger
}

func New(bot Sender, svc *service.Service, log zerolog.Logger) *Notifier {
	return &Notifier{bot: bot, svc: svc, log: log}
}

// TicketCreated fans a new-ticket summary out to every admin chat. One
// admin's failed delivery does not block the others.
func (n *Notifier) TicketCreated(ticket *models.Ticket) {
	adminIDs, err := n.svc.AdminIDs()
	if err != nil {
		n.log.Error().Err(err).Msg("loading admins for notification")
		return
	}

	text := fmt.Sprintf(
		"🚨 Новая заявка #%d\n\n👤 %s\n🏢 Кабинет: %s\n📱 Телефон: %s\n\n📝 Проблема:\n%s",
		ticket.ID, ticket.FullName, ticket.Cabinet, ticket.Phone, ticket.Problem,
	)

	for _, adminID := range adminIDs {
		chatID, err := strconv.ParseInt(adminID, 10, 64)
		if err != nil {
			// Placeholder admin record, not a real chat id.
			n.log.Warn().Str("admin_id", adminID).Msg("admin id is not a chat id, skipping")
			continue
		}

		msg := tgbotapi.NewMessage(chatID, text)
		msg.ReplyMarkup = keyboards.TicketActions(ticket.ID)
		if _, err := n.bot.Send(msg); err != nil {
			n.log.Error().Err(err).Str("admin_id", adminID).Int("ticket_id", ticket.ID).
				Msg("notifying admin about new ticket")
		}
	}
}

// StatusChanged tells the ticket's owner about a claim or close.
func (n *Notifier) StatusChanged(ticket *models.Ticket) {
	var text string
	switch ticket.Status {
	case models.StatusInProgress:
		text = fmt.Sprintf("ℹ️ Ваша заявка #%d взята в работу.\nСкоро с вами свяжутся.", ticket.ID)
	case models.StatusClosed:
		text = fmt.Sprintf("✅ Ваша заявка #%d закрыта.\nСпасибо за обращение!", ticket.ID)
	default:
		return
	}
	n.sendToUser(ticket.UserID, ticket.ID, text)
}

// Reply forwards an admin's reply text to the ticket's owner.
func (n *Notifier) Reply(ticket *models.Ticket, reply string) {
	text := fmt.Sprintf("📩 Ответ по заявке #%d:\n\n%s", ticket.ID, reply)
	n.sendToUser(ticket.UserID, ticket.ID, text)
}

func (n *Notifier) sendToUser(userID string, ticketID int, text string) {
	chatID, err := strconv.ParseInt(userID, 10, 64)
	if err != nil {
		n.log.Error().Str("user_id", userID).Int("ticket_id", ticketID).Msg("user id is not a chat id")
		return
	}
	if _, err := n.bot.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		n.log.Error().Err(err).Str("user_id", userID).Int("ticket_id", ticketID).
			Msg("notifying user")
	}
}
