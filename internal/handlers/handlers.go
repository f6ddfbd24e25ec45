package handlers

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	"helpdeskbot/internal/keyboards"
	"helpdeskbot/internal/models"
	"helpdeskbot/internal/notifier"
	"helpdeskbot/internal/service"
)

// step tags the stage of the dialogue a chat is currently in.
type step int

const (
	stepFullName step = iota // registration: waiting for the full name
	stepCabinet              // registration: waiting for the cabinet
	stepPhone                // registration: waiting for the phone
	stepProblem              // ticket creation: waiting for the problem text
	stepReply                // admin reply: waiting for the reply text
)

// session is the in-flight dialogue state of one chat. A chat without a
// session is idle. Sessions are not persisted; a restart drops them.
type session struct {
	Step     step
	FullName string
	Cabinet  string
	TicketID int // set for stepReply
}

type BotHandler struct {
	bot      notifier.Sender
	svc      *service.Service
	notify   *notifier.Notifier
	log      zerolog.Logger
	sessions map[int64]*session
}

func NewBotHandler(bot notifier.Sender, svc *service.Service, notify *notifier.Notifier, log zerolog.Logger) *BotHandler {
	return &BotHandler{
		bot:      bot,
		svc:      svc,
		notify:   notify,
		log:      log,
		sessions: make(map[int64]*session),
	}
}

func (h *BotHandler) HandleUpdate(update tgbotapi.Update) {
	if update.Message != nil {
		h.handleMessage(update.Message)
	}
	if update.CallbackQuery != nil {
		h.handleCallbackQuery(update.CallbackQuery)
	}
}

func (h *BotHandler) handleMessage(message *tgbotapi.Message) {
	if message.IsCommand() {
		switch message.Command() {
		case "start":
			h.handleStart(message)
		case "cancel":
			h.handleCancel(message)
		}
		return
	}

	if state, exists := h.sessions[message.From.ID]; exists {
		h.handleStateInput(message, state)
		return
	}

	switch message.Text {
	case keyboards.BtnCreateTicket:
		h.handleCreateTicket(message)
	case keyboards.BtnMyTickets:
		h.handleMyTickets(message)
	case keyboards.BtnAdminPanel:
		h.handleAdminPanel(message)
	case keyboards.BtnAllTickets:
		h.handleTicketList(message, nil)
	case keyboards.BtnActiveTickets:
		h.handleTicketList(message, []models.TicketStatus{models.StatusOpen, models.StatusInProgress})
	case keyboards.BtnClosedTickets:
		h.handleTicketList(message, []models.TicketStatus{models.StatusClosed})
	case keyboards.BtnBackToMain:
		h.sendMainMenu(message)
	default:
		msg := tgbotapi.NewMessage(message.Chat.ID, "Используйте /start для начала работы")
		_, _ = h.bot.Send(msg)
	}
}

// handleStart greets a registered user with the main menu or begins the
// registration dialogue. It also resets any dialogue in flight.
func (h *BotHandler) handleStart(message *tgbotapi.Message) {
	delete(h.sessions, message.From.ID)

	userID := chatKey(message.From.ID)
	registered, err := h.svc.IsRegistered(userID)
	if err != nil {
		h.replyError(message.Chat.ID, err)
		return
	}

	if registered {
		h.sendMainMenu(message)
		return
	}

	h.sessions[message.From.ID] = &session{Step: stepFullName}

	msg := tgbotapi.NewMessage(message.Chat.ID, "📝 Для начала работы пройдите регистрацию.\nВведите ваше ФИО:")
	msg.ReplyMarkup = tgbotapi.NewRemoveKeyboard(false)
	_, _ = h.bot.Send(msg)
}

func (h *BotHandler) handleCancel(message *tgbotapi.Message) {
	delete(h.sessions, message.From.ID)

	msg := tgbotapi.NewMessage(message.Chat.ID, "❌ Действие отменено.")
	msg.ReplyMarkup = keyboards.MainMenu(h.isAdmin(message.From.ID))
	_, _ = h.bot.Send(msg)
}

func (h *BotHandler) handleStateInput(message *tgbotapi.Message, state *session) {
	switch state.Step {
	case stepFullName:
		state.FullName = message.Text
		state.Step = stepCabinet
		_, _ = h.bot.Send(tgbotapi.NewMessage(message.Chat.ID, "🏢 Введите номер кабинета:"))

	case stepCabinet:
		state.Cabinet = message.Text
		state.Step = stepPhone
		_, _ = h.bot.Send(tgbotapi.NewMessage(message.Chat.ID, "📱 Введите ваш номер телефона:"))

	case stepPhone:
		h.finishRegistration(message, state)

	case stepProblem:
		h.finishTicket(message)

	case stepReply:
		h.finishReply(message, state)
	}
}

func (h *BotHandler) finishRegistration(message *tgbotapi.Message, state *session) {
	defer delete(h.sessions, message.From.ID)

	userID := chatKey(message.From.ID)
	user, err := h.svc.RegisterUser(userID, message.From.UserName, state.FullName, state.Cabinet, message.Text)
	if err != nil {
		if errors.Is(err, service.ErrAlreadyRegistered) {
			h.sendMainMenu(message)
			return
		}
		h.replyError(message.Chat.ID, err)
		return
	}

	text := fmt.Sprintf(
		"✅ Регистрация завершена!\n👤 ФИО: %s\n🏢 Кабинет: %s\n📱 Телефон: %s",
		user.FullName, user.Cabinet, user.Phone,
	)
	msg := tgbotapi.NewMessage(message.Chat.ID, text)
	msg.ReplyMarkup = keyboards.MainMenu(h.isAdmin(message.From.ID))
	_, _ = h.bot.Send(msg)
}

func (h *BotHandler) handleCreateTicket(message *tgbotapi.Message) {
	registered, err := h.svc.IsRegistered(chatKey(message.From.ID))
	if err != nil {
		h.replyError(message.Chat.ID, err)
		return
	}
	if !registered {
		_, _ = h.bot.Send(tgbotapi.NewMessage(message.Chat.ID, "📝 Сначала пройдите регистрацию: /start"))
		return
	}

	h.sessions[message.From.ID] = &session{Step: stepProblem}

	msg := tgbotapi.NewMessage(message.Chat.ID, "✍️ Опишите вашу проблему:")
	msg.ReplyMarkup = tgbotapi.NewRemoveKeyboard(false)
	_, _ = h.bot.Send(msg)
}

func (h *BotHandler) finishTicket(message *tgbotapi.Message) {
	defer delete(h.sessions, message.From.ID)

	ticket, err := h.svc.CreateTicket(chatKey(message.From.ID), message.Text)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			msg := tgbotapi.NewMessage(message.Chat.ID, "❌ Ошибка: пользователь не найден!")
			msg.ReplyMarkup = keyboards.MainMenu(false)
			_, _ = h.bot.Send(msg)
			return
		}
		h.replyError(message.Chat.ID, err)
		return
	}

	h.notify.TicketCreated(ticket)

	text := fmt.Sprintf("✅ Заявка #%d создана!\nАдминистратор скоро с вами свяжется.", ticket.ID)
	msg := tgbotapi.NewMessage(message.Chat.ID, text)
	msg.ReplyMarkup = keyboards.MainMenu(h.isAdmin(message.From.ID))
	_, _ = h.bot.Send(msg)
}

func (h *BotHandler) finishReply(message *tgbotapi.Message, state *session) {
	defer delete(h.sessions, message.From.ID)

	ticket, err := h.svc.GetTicket(state.TicketID)
	if err != nil {
		if errors.Is(err, service.ErrTicketNotFound) {
			msg := tgbotapi.NewMessage(message.Chat.ID, "❌ Заявка не найдена!")
			msg.ReplyMarkup = keyboards.AdminMenu()
			_, _ = h.bot.Send(msg)
			return
		}
		h.replyError(message.Chat.ID, err)
		return
	}

	h.notify.Reply(ticket, message.Text)

	msg := tgbotapi.NewMessage(message.Chat.ID, fmt.Sprintf("✅ Ответ по заявке #%d отправлен.", ticket.ID))
	msg.ReplyMarkup = keyboards.AdminMenu()
	_, _ = h.bot.Send(msg)
}

func (h *BotHandler) handleMyTickets(message *tgbotapi.Message) {
	tickets, err := h.svc.UserTickets(chatKey(message.From.ID))
	if err != nil {
		h.replyError(message.Chat.ID, err)
		return
	}

	if len(tickets) == 0 {
		msg := tgbotapi.NewMessage(message.Chat.ID, "📭 У вас нет созданных заявок.")
		msg.ReplyMarkup = keyboards.MainMenu(h.isAdmin(message.From.ID))
		_, _ = h.bot.Send(msg)
		return
	}

	for _, ticket := range tickets {
		text := fmt.Sprintf(
			"%s Заявка #%d\n📌 Статус: %s\n📅 Дата: %s\n\n📝 Описание:\n%s",
			statusIcon(ticket.Status), ticket.ID, statusLabel(ticket.Status),
			ticket.CreatedAt.Format("2006-01-02 15:04:05"), ticket.Problem,
		)
		msg := tgbotapi.NewMessage(message.Chat.ID, text)
		msg.ReplyMarkup = keyboards.MainMenu(h.isAdmin(message.From.ID))
		_, _ = h.bot.Send(msg)
	}
}

func (h *BotHandler) handleAdminPanel(message *tgbotapi.Message) {
	if !h.isAdmin(message.From.ID) {
		msg := tgbotapi.NewMessage(message.Chat.ID, "⛔ У вас нет прав доступа!")
		msg.ReplyMarkup = keyboards.MainMenu(false)
		_, _ = h.bot.Send(msg)
		return
	}

	msg := tgbotapi.NewMessage(message.Chat.ID, "👑 Админ-панель")
	msg.ReplyMarkup = keyboards.AdminMenu()
	_, _ = h.bot.Send(msg)
}

// handleTicketList shows tickets to an admin, one message per ticket with
// the action buttons attached. A nil filter means all tickets.
func (h *BotHandler) handleTicketList(message *tgbotapi.Message, statuses []models.TicketStatus) {
	if !h.isAdmin(message.From.ID) {
		msg := tgbotapi.NewMessage(message.Chat.ID, "⛔ У вас нет прав доступа!")
		msg.ReplyMarkup = keyboards.MainMenu(false)
		_, _ = h.bot.Send(msg)
		return
	}

	var (
		tickets []models.Ticket
		err     error
	)
	if statuses == nil {
		tickets, err = h.svc.AllTickets()
	} else {
		tickets, err = h.svc.TicketsByStatus(statuses...)
	}
	if err != nil {
		h.replyError(message.Chat.ID, err)
		return
	}

	if len(tickets) == 0 {
		msg := tgbotapi.NewMessage(message.Chat.ID, "📭 Нет созданных заявок.")
		msg.ReplyMarkup = keyboards.AdminMenu()
		_, _ = h.bot.Send(msg)
		return
	}

	for _, ticket := range tickets {
		text := fmt.Sprintf(
			"%s Заявка #%d\n👤 %s\n🏢 Кабинет: %s\n📱 Телефон: %s\n📌 Статус: %s\n📅 Дата: %s\n\n📝 Описание:\n%s",
			statusIcon(ticket.Status), ticket.ID, ticket.FullName, ticket.Cabinet, ticket.Phone,
			statusLabel(ticket.Status), ticket.CreatedAt.Format("2006-01-02 15:04:05"), ticket.Problem,
		)
		msg := tgbotapi.NewMessage(message.Chat.ID, text)
		msg.ReplyMarkup = keyboards.TicketActions(ticket.ID)
		_, _ = h.bot.Send(msg)
	}
}

func (h *BotHandler) handleCallbackQuery(query *tgbotapi.CallbackQuery) {
	parts := strings.SplitN(query.Data, "_", 2)
	if len(parts) != 2 {
		h.answerCallback(query, "")
		return
	}
	action := parts[0]
	ticketID, err := strconv.Atoi(parts[1])
	if err != nil {
		h.answerCallback(query, "")
		return
	}

	if !h.isAdmin(query.From.ID) {
		h.answerCallback(query, "⛔ У вас нет прав доступа!")
		return
	}

	switch action {
	case keyboards.ActionProcess:
		h.changeStatus(query, ticketID, models.StatusInProgress)
	case keyboards.ActionClose:
		h.changeStatus(query, ticketID, models.StatusClosed)
	case keyboards.ActionReply:
		h.startReply(query, ticketID)
	default:
		h.answerCallback(query, "")
	}
}

func (h *BotHandler) changeStatus(query *tgbotapi.CallbackQuery, ticketID int, status models.TicketStatus) {
	ticket, err := h.svc.SetStatus(ticketID, status)
	if err != nil {
		if errors.Is(err, service.ErrTicketNotFound) {
			h.answerCallback(query, "❌ Заявка не найдена!")
			return
		}
		h.log.Error().Err(err).Int("ticket_id", ticketID).Msg("changing ticket status")
		h.answerCallback(query, "❌ Ошибка, попробуйте позже")
		return
	}

	h.notify.StatusChanged(ticket)

	var text string
	if status == models.StatusInProgress {
		text = fmt.Sprintf("🔄 Заявка #%d взята в работу.", ticket.ID)
	} else {
		text = fmt.Sprintf("✅ Заявка #%d закрыта.", ticket.ID)
	}

	edit := tgbotapi.NewEditMessageTextAndMarkup(
		query.Message.Chat.ID, query.Message.MessageID, text, keyboards.TicketActions(ticket.ID),
	)
	_, _ = h.bot.Send(edit)
	h.answerCallback(query, "")
}

func (h *BotHandler) startReply(query *tgbotapi.CallbackQuery, ticketID int) {
	if _, err := h.svc.GetTicket(ticketID); err != nil {
		if errors.Is(err, service.ErrTicketNotFound) {
			h.answerCallback(query, "❌ Заявка не найдена!")
			return
		}
		h.log.Error().Err(err).Int("ticket_id", ticketID).Msg("loading ticket for reply")
		h.answerCallback(query, "❌ Ошибка, попробуйте позже")
		return
	}

	h.sessions[query.From.ID] = &session{Step: stepReply, TicketID: ticketID}

	edit := tgbotapi.NewEditMessageText(
		query.Message.Chat.ID, query.Message.MessageID,
		fmt.Sprintf("✍️ Введите ответ для заявки #%d:", ticketID),
	)
	_, _ = h.bot.Send(edit)
	h.answerCallback(query, "")
}

func (h *BotHandler) sendMainMenu(message *tgbotapi.Message) {
	name := message.From.FirstName
	if message.From.LastName != "" {
		name += " " + message.From.LastName
	}

	msg := tgbotapi.NewMessage(message.Chat.ID, fmt.Sprintf("👋 Добро пожаловать, %s!\nВыберите действие:", name))
	msg.ReplyMarkup = keyboards.MainMenu(h.isAdmin(message.From.ID))
	_, _ = h.bot.Send(msg)
}

func (h *BotHandler) replyError(chatID int64, err error) {
	h.log.Error().Err(err).Msg("handling update")
	_, _ = h.bot.Send(tgbotapi.NewMessage(chatID, "❌ Ошибка, попробуйте позже"))
}

func (h *BotHandler) answerCallback(query *tgbotapi.CallbackQuery, text string) {
	callback := tgbotapi.NewCallback(query.ID, text)
	_, _ = h.bot.Request(callback)
}

func (h *BotHandler) isAdmin(fromID int64) bool {
	isAdmin, err := h.svc.IsAdmin(chatKey(fromID))
	if err != nil {
		h.log.Error().Err(err).Msg("checking admin")
		return false
	}
	return isAdmin
}

func statusIcon(status models.TicketStatus) string {
	switch status {
	case models.StatusOpen:
		return "🟢"
	case models.StatusInProgress:
		return "🟡"
	default:
		return "🔴"
	}
}

func statusLabel(status models.TicketStatus) string {
	switch status {
	case models.StatusOpen:
		return "открыта"
	case models.StatusInProgress:
		return "в работе"
	case models.StatusClosed:
		return "закрыта"
	}
	return string(status)
}

func chatKey(id int64) string {
	return strconv.FormatInt(id, 10)
}
