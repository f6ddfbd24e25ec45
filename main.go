package main

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"helpdeskbot/internal/config"
	"helpdeskbot/internal/handlers"
	"helpdeskbot/internal/notifier"
	"helpdeskbot/internal/repository"
	"helpdeskbot/internal/service"
	"helpdeskbot/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log := logger.New(cfg.AppEnv)

	repo, err := repository.NewRepository(cfg.DataDir)
	if err != nil {
		log.Fatal().Err(err).Msg("initializing storage")
	}
	svc := service.NewService(repo)

	bot, err := tgbotapi.NewBotAPI(cfg.Token)
	if err != nil {
		log.Fatal().Err(err).Msg("initializing bot")
	}
	log.Info().Str("username", bot.Self.UserName).Msg("bot authorized")

	notify := notifier.New(bot, svc, log)
	handler := handlers.NewBotHandler(bot, svc, notify, log)

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	u.AllowedUpdates = []string{"message", "callback_query"}

	updates := bot.GetUpdatesChan(u)

	log.Info().Str("data_dir", cfg.DataDir).Msg("bot is running")

	for update := range updates {
		handler.HandleUpdate(update)
	}
}
