package telegram

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Sender adapts the bot API to the delivery pipeline's outbound contract.
type Sender struct {
	bot *tgbotapi.BotAPI
}

func NewSender(bot *tgbotapi.BotAPI) *Sender {
	return &Sender{bot: bot}
}

func (s *Sender) SendText(chatID int64, text string) error {
	_, err := s.bot.Send(tgbotapi.NewMessage(chatID, text))
	return err
}

func (s *Sender) SendAudio(chatID int64, path string) error {
	_, err := s.bot.Send(tgbotapi.NewAudio(chatID, tgbotapi.FilePath(path)))
	return err
}
