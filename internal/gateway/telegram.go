package gateway

import (
	"context"
	"fmt"
	"log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/priya/yatri/internal/agent"
)

type TelegramGateway struct {
	Bot       *tgbotapi.BotAPI
	Assistant *agent.Assistant
}

func NewTelegramGateway(token string, assistant *agent.Assistant) (*TelegramGateway, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}

	log.Printf("Authorized on account %s", bot.Self.UserName)

	return &TelegramGateway{
		Bot:       bot,
		Assistant: assistant,
	}, nil
}

func (tg *TelegramGateway) Start() error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := tg.Bot.GetUpdatesChan(u)

	for update := range updates {
		if update.Message == nil {
			continue
		}

		log.Printf("[%s] %s", update.Message.From.UserName, update.Message.Text)

		// The chat is the session; the sender is the durable identity. In a
		// group these differ, so preferences follow the person.
		chatID := fmt.Sprintf("%d", update.Message.Chat.ID)
		userID := fmt.Sprintf("%d", update.Message.From.ID)

		result := tg.Assistant.ProcessTurn(context.Background(), chatID, userID, update.Message.Text)

		msg := tgbotapi.NewMessage(update.Message.Chat.ID, result.Text)
		if _, err := tg.Bot.Send(msg); err != nil {
			log.Printf("Error sending reply to %s: %v", chatID, err)
		}
	}
	return nil
}

func (tg *TelegramGateway) Send(chatID string, text string) error {
	id := 0
	fmt.Sscanf(chatID, "%d", &id)
	if id == 0 {
		return fmt.Errorf("invalid chat ID: %s", chatID)
	}

	msg := tgbotapi.NewMessage(int64(id), text)
	msg.ParseMode = "Markdown" // Enable markdown for better alerts
	_, err := tg.Bot.Send(msg)
	return err
}

func (tg *TelegramGateway) Stop() error {
	tg.Bot.StopReceivingUpdates()
	return nil
}
