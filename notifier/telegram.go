package notifier

import (
	"fmt"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"olx-notifier/models"
	"olx-notifier/utils"
)

// sender is the single Bot API call Notify needs.
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Telegram delivers one message per new ad to every configured chat.
type Telegram struct {
	bot    sender
	delay  time.Duration
	logger *utils.Logger
}

// New authorizes against the Telegram Bot API with the given token.
// delay is the pause inserted between consecutive sends.
func New(token string, delay time.Duration, logger *utils.Logger) (*Telegram, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram: authorize: %w", err)
	}
	return &Telegram{bot: bot, delay: delay, logger: logger}, nil
}

// Notify sends the batch oldest-first (reverse of fetch order) to each
// chat. A failed send is logged and delivery continues with the next
// message; there is no retry.
func (t *Telegram) Notify(chatIDs []int64, ads []models.NewAd) {
	for _, chat := range chatIDs {
		for i := len(ads) - 1; i >= 0; i-- {
			msg := tgbotapi.NewMessage(chat, MessageText(ads[i]))
			if _, err := t.bot.Send(msg); err != nil {
				t.logger.Error("[telegram] Error during sending message to chat %d: %v", chat, err)
			}
			time.Sleep(t.delay)
		}
	}
}

// MessageText renders the notification body: contact reference and price
// on the first line, the ad URL after a blank line.
func MessageText(ad models.NewAd) string {
	return fmt.Sprintf("%s == %.0f\n\n%s", ad.Contact, ad.Price, ad.URL)
}
