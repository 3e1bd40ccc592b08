package notifier

import (
	"errors"
	"strings"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"olx-notifier/models"
	"olx-notifier/utils"
)

type sentMessage struct {
	chatID int64
	text   string
}

type fakeSender struct {
	sent    []sentMessage
	failOn  string
	failNum int
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	msg, ok := c.(tgbotapi.MessageConfig)
	if !ok {
		return tgbotapi.Message{}, errors.New("unexpected chattable type")
	}
	if f.failOn != "" && strings.Contains(msg.Text, f.failOn) {
		f.failNum++
		return tgbotapi.Message{}, errors.New("telegram is down")
	}
	f.sent = append(f.sent, sentMessage{chatID: msg.ChatID, text: msg.Text})
	return tgbotapi.Message{}, nil
}

func newAd(title string) models.NewAd {
	return models.NewAd{
		Title:   title,
		Price:   5000,
		URL:     "https://www.olx.ua/d/obyavlenie/" + title + ".html",
		Contact: "Ужгород - Сегодня",
		Created: time.Now(),
	}
}

func newTestNotifier(bot sender) *Telegram {
	return &Telegram{bot: bot, delay: 0, logger: utils.NewLogger()}
}

func TestNotifySendsOldestFirst(t *testing.T) {
	bot := &fakeSender{}
	tg := newTestNotifier(bot)

	tg.Notify([]int64{1}, []models.NewAd{newAd("A"), newAd("B"), newAd("C")})

	if len(bot.sent) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(bot.sent))
	}
	for i, want := range []string{"C", "B", "A"} {
		if !strings.Contains(bot.sent[i].text, want+".html") {
			t.Errorf("message %d = %q; want ad %s", i, bot.sent[i].text, want)
		}
	}
}

func TestNotifyDeliversToEveryChat(t *testing.T) {
	bot := &fakeSender{}
	tg := newTestNotifier(bot)

	tg.Notify([]int64{10, 20}, []models.NewAd{newAd("A"), newAd("B")})

	if len(bot.sent) != 4 {
		t.Fatalf("expected 4 messages, got %d", len(bot.sent))
	}
	if bot.sent[0].chatID != 10 || bot.sent[3].chatID != 20 {
		t.Errorf("unexpected chat order: %+v", bot.sent)
	}
}

func TestNotifyContinuesAfterSendError(t *testing.T) {
	bot := &fakeSender{failOn: "B.html"}
	tg := newTestNotifier(bot)

	tg.Notify([]int64{1}, []models.NewAd{newAd("A"), newAd("B"), newAd("C")})

	if bot.failNum != 1 {
		t.Fatalf("expected exactly one failed send, got %d", bot.failNum)
	}
	if len(bot.sent) != 2 {
		t.Fatalf("expected remaining 2 messages to be delivered, got %d", len(bot.sent))
	}
}

func TestMessageText(t *testing.T) {
	text := MessageText(newAd("A"))

	if !strings.Contains(text, "Ужгород - Сегодня == 5000") {
		t.Errorf("missing contact/price line: %q", text)
	}
	if !strings.Contains(text, "\n\nhttps://www.olx.ua/d/obyavlenie/A.html") {
		t.Errorf("url must follow a blank line: %q", text)
	}
}
