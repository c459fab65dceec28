package telegram

import (
	"strconv"
	"strings"
)

type Update struct {
	UpdateID int64    `json:"update_id"`
	Message  *Message `json:"message"`
}

type User struct {
	ID        int64  `json:"id"`
	IsBot     bool   `json:"is_bot"`
	FirstName string `json:"first_name"`
	Username  string `json:"username"`
}

type Chat struct {
	ID   int64  `json:"id"`
	Type string `json:"type"`
}

type Message struct {
	MessageID      int64     `json:"message_id"`
	From           *User     `json:"from"`
	Chat           Chat      `json:"chat"`
	Text           string    `json:"text"`
	ReplyToMessage *Message  `json:"reply_to_message"`
	Document       *Document `json:"document"`
	Video          *Video    `json:"video"`
	Audio          *Audio    `json:"audio"`
}

type Document struct {
	FileID       string `json:"file_id"`
	FileUniqueID string `json:"file_unique_id"`
	FileName     string `json:"file_name"`
	MimeType     string `json:"mime_type"`
	FileSize     int64  `json:"file_size"`
}

type Video struct {
	FileID       string `json:"file_id"`
	FileUniqueID string `json:"file_unique_id"`
	FileName     string `json:"file_name"`
	MimeType     string `json:"mime_type"`
	FileSize     int64  `json:"file_size"`
	Duration     int    `json:"duration"`
	Width        int    `json:"width"`
	Height       int    `json:"height"`
}

type Audio struct {
	FileID       string `json:"file_id"`
	FileUniqueID string `json:"file_unique_id"`
	FileName     string `json:"file_name"`
	MimeType     string `json:"mime_type"`
	FileSize     int64  `json:"file_size"`
	Duration     int    `json:"duration"`
}

// File is the result of the getFile method. FilePath is valid for
// at least an hour and is used to download the file body.
type File struct {
	FileID       string `json:"file_id"`
	FileUniqueID string `json:"file_unique_id"`
	FileSize     int64  `json:"file_size"`
	FilePath     string `json:"file_path"`
}

type InlineKeyboardButton struct {
	Text string `json:"text"`
	URL  string `json:"url,omitempty"`
}

type InlineKeyboardMarkup struct {
	InlineKeyboard [][]InlineKeyboardButton `json:"inline_keyboard"`
}

// Media is the common view over a message's document, video or audio.
type Media struct {
	Kind         string
	FileID       string
	FileUniqueID string
	FileName     string
	MimeType     string
	FileSize     int64
}

// Media returns the media attached to the message itself, or nil.
func (m *Message) Media() *Media {
	switch {
	case m == nil:
		return nil
	case m.Document != nil:
		return &Media{
			Kind:         "document",
			FileID:       m.Document.FileID,
			FileUniqueID: m.Document.FileUniqueID,
			FileName:     m.Document.FileName,
			MimeType:     m.Document.MimeType,
			FileSize:     m.Document.FileSize,
		}
	case m.Video != nil:
		return &Media{
			Kind:         "video",
			FileID:       m.Video.FileID,
			FileUniqueID: m.Video.FileUniqueID,
			FileName:     m.Video.FileName,
			MimeType:     m.Video.MimeType,
			FileSize:     m.Video.FileSize,
		}
	case m.Audio != nil:
		return &Media{
			Kind:         "audio",
			FileID:       m.Audio.FileID,
			FileUniqueID: m.Audio.FileUniqueID,
			FileName:     m.Audio.FileName,
			MimeType:     m.Audio.MimeType,
			FileSize:     m.Audio.FileSize,
		}
	default:
		return nil
	}
}

// MediaOrReply prefers the media of the replied-to message, falling
// back on the message's own media.
func (m *Message) MediaOrReply() *Media {
	if m == nil {
		return nil
	}

	if media := m.ReplyToMessage.Media(); media != nil {
		return media
	}

	return m.Media()
}

func (m *Message) IsPrivate() bool {
	return m != nil && m.Chat.Type == "private"
}

// Command returns the bot command of the message without the leading
// slash and without a trailing @BotName mention, or "". A command
// mentioning a different bot is not a command for this bot.
func (m *Message) Command(botUsername string) string {
	if m == nil || !strings.HasPrefix(m.Text, "/") {
		return ""
	}

	command := strings.Fields(m.Text)[0][1:]
	if at := strings.IndexByte(command, '@'); at >= 0 {
		// Usernames are case insensitive.
		if !strings.EqualFold(command[at+1:], botUsername) {
			return ""
		}

		command = command[:at]
	}

	return command
}

// Mention renders an inline user mention for Markdown messages.
func (u *User) Mention() string {
	if u == nil {
		return "there"
	}

	name := u.FirstName
	if name == "" {
		name = u.Username
	}

	return "[" + name + "](tg://user?id=" + strconv.FormatInt(u.ID, 10) + ")"
}
