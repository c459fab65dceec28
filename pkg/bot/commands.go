package bot

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/metadatax/mediainfobot/pkg/telegram"
)

// handle dispatches one incoming message. Commands work everywhere;
// bare media files are only picked up in private chats so the bot
// stays quiet in groups unless asked.
func (b *Bot) handle(ctx context.Context, message *telegram.Message) {
	switch message.Command(b.me.Username) {
	case "start":
		if message.IsPrivate() {
			b.handleStart(ctx, message)
		}
	case "mediainfo", "mi":
		b.handleMediaInfo(ctx, message)
	default:
		if message.Media() != nil && message.IsPrivate() {
			b.process(ctx, message)
		}
	}
}

func (b *Bot) handleStart(ctx context.Context, message *telegram.Message) {
	keyboard := &telegram.InlineKeyboardMarkup{
		InlineKeyboard: [][]telegram.InlineKeyboardButton{{{
			Text: "➕ Add me in your group",
			URL:  fmt.Sprintf("https://t.me/%s?startgroup=botsync&admin=manage_chat", b.me.Username),
		}}},
	}

	text := fmt.Sprintf(
		"👋 Hi %s!\n\n"+
			"I can analyze media files and provide detailed information.\n\n"+
			"🔹 Send me any media file\n"+
			"🔹 Or reply to a media with /mediainfo or /mi\n",
		message.From.Mention(),
	)

	_, err := b.api.SendMessage(ctx, telegram.SendMessage{
		ChatID:           message.Chat.ID,
		Text:             text,
		ParseMode:        "Markdown",
		ReplyToMessageID: message.MessageID,
		ReplyMarkup:      keyboard,
	})
	if err != nil {
		logrus.Errorf("Failed to send greeting: %v", err)
	}
}

func (b *Bot) handleMediaInfo(ctx context.Context, message *telegram.Message) {
	if message.ReplyToMessage.Media() == nil {
		_, err := b.api.SendMessage(ctx, telegram.SendMessage{
			ChatID:           message.Chat.ID,
			Text:             "❌ _Please reply to a media file with /mediainfo or /mi_",
			ParseMode:        "Markdown",
			ReplyToMessageID: message.MessageID,
		})
		if err != nil {
			logrus.Errorf("Failed to send usage hint: %v", err)
		}

		return
	}

	b.process(ctx, message.ReplyToMessage)
}
