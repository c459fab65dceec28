package bot

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/metadatax/mediainfobot/pkg/mediainfo"
	"github.com/metadatax/mediainfobot/pkg/store"
	"github.com/metadatax/mediainfobot/pkg/telegram"
)

const pageTitle = "Media Info"

// process runs the analysis pipeline for the media attached to
// message: download a sample, run mediainfo, publish the report and
// update the status message at each step.
func (b *Bot) process(ctx context.Context, message *telegram.Message) {
	status, err := b.api.SendMessage(ctx, telegram.SendMessage{
		ChatID:           message.Chat.ID,
		Text:             "⏳ _Processing media info..._",
		ParseMode:        "Markdown",
		ReplyToMessageID: message.MessageID,
	})
	if err != nil {
		logrus.Errorf("Failed to send status message: %v", err)

		return
	}

	// Whatever goes wrong past this point, the user never stays stuck
	// on a stale status message.
	defer func() {
		if r := recover(); r != nil {
			logrus.Errorf("Panic while processing media: %v", r)
			b.edit(
				ctx,
				status,
				"❌ _An error occurred while processing the media!_\nPlease try again later.",
				nil,
			)
		}
	}()

	media := message.Media()
	if media == nil {
		b.edit(ctx, status, "❌ _Please send a media file or reply to one with /mediainfo_", nil)

		return
	}

	// A file already analyzed gets its existing report back without
	// another download and Telegraph round trip.
	if previous, cErr := b.store.LatestReportForFile(media.FileUniqueID); cErr != nil {
		logrus.Errorf("Report lookup failed: %v", cErr)
	} else if previous != nil && previous.TelegraphURL != "" {
		b.finish(ctx, status, media, previous.TelegraphURL)

		return
	}

	pageURL, ok := b.analyze(ctx, status, message, media)
	if !ok {
		return
	}

	b.finish(ctx, status, media, pageURL)
}

// analyze performs the download, mediainfo and publish steps and
// returns the report page URL. On failure it has already edited the
// status message and returns ok=false.
func (b *Bot) analyze(
	ctx context.Context,
	status *telegram.Message,
	message *telegram.Message,
	media *telegram.Media,
) (string, bool) {
	sample, err := os.CreateTemp("", "mediainfo-*")
	if err != nil {
		logrus.Errorf("Failed to create sample file: %v", err)
		b.edit(ctx, status, "❌ _Failed to download media sample!_", nil)

		return "", false
	}

	defer func() {
		if err := os.Remove(sample.Name()); err != nil {
			logrus.Errorf("Failed to remove sample file: %v", err)
		}
	}()

	if err := b.download(ctx, media, sample); err != nil {
		logrus.Errorf("Failed to download sample of %q: %v", media.FileID, err)
		b.edit(ctx, status, "❌ _Failed to download media sample!_", nil)

		return "", false
	}

	b.edit(ctx, status, "🔍 _Analyzing media info..._", nil)

	output, err := b.analyzer.Analyze(ctx, sample.Name())
	if err != nil || strings.TrimSpace(output) == "" {
		if err != nil {
			logrus.Errorf("Analysis of %q failed: %v", media.FileID, err)
		}
		b.edit(ctx, status, "❌ _Failed to analyze media!_", nil)

		return "", false
	}

	b.edit(ctx, status, "📝 _Generating report..._", nil)

	report := mediainfo.Report{
		FileName: media.FileName,
		FileSize: media.FileSize,
		Sections: mediainfo.Parse(output),
	}

	pageURL, err := b.publisher.CreatePage(ctx, pageTitle, report.TelegraphContent())
	if err != nil {
		logrus.Errorf("Failed to publish report for %q: %v", media.FileID, err)
		b.edit(ctx, status, "❌ _Failed to generate report!_", nil)

		return "", false
	}

	b.save(message, media, report, pageURL)

	return pageURL, true
}

func (b *Bot) download(ctx context.Context, media *telegram.Media, sample *os.File) error {
	file, err := b.api.GetFile(ctx, media.FileID)
	if err != nil {
		return err
	}

	if _, err := b.api.DownloadFile(ctx, file.FilePath, sample, b.sampleBytes); err != nil {
		return err
	}

	return sample.Close()
}

// save records the published report. Persistence failures are logged
// and swallowed: the user already has their report.
func (b *Bot) save(
	message *telegram.Message,
	media *telegram.Media,
	report mediainfo.Report,
	pageURL string,
) {
	properties := make([]store.Property, 0)
	for _, section := range report.Sections {
		for _, property := range section.Properties {
			properties = append(properties, store.Property{
				Section: section.Heading,
				Key:     property.Key,
				Value:   property.Value,
			})
		}
	}

	entity := &store.Report{
		FileUniqueID: media.FileUniqueID,
		FileName:     media.FileName,
		FileSize:     media.FileSize,
		MimeType:     media.MimeType,
		MediaType:    media.Kind,
		ChatID:       message.Chat.ID,
		MessageID:    message.MessageID,
		TelegraphURL: pageURL,
		Created:      time.Now().UnixMilli(),
		Properties:   properties,
	}

	if err := b.store.SaveReport(entity); err != nil {
		logrus.Errorf("Failed to persist report for %q: %v", media.FileUniqueID, err)
	}
}

func (b *Bot) finish(
	ctx context.Context,
	status *telegram.Message,
	media *telegram.Media,
	pageURL string,
) {
	name := media.FileName
	if name == "" {
		name = "Unknown"
	}

	text := fmt.Sprintf(
		"📊 *Media Information*\n\n"+
			"📁 *File:* `%s`\n"+
			"💾 *Size:* `%s`\n\n"+
			"👉 *Detailed info:* %s",
		name,
		mediainfo.FormatSize(media.FileSize),
		pageURL,
	)

	keyboard := &telegram.InlineKeyboardMarkup{
		InlineKeyboard: [][]telegram.InlineKeyboardButton{{{
			Text: "📋 Detailed Report",
			URL:  pageURL,
		}}},
	}

	b.edit(ctx, status, text, keyboard)
}

// edit replaces the status message text. Editing to identical content
// is treated as success.
func (b *Bot) edit(
	ctx context.Context,
	status *telegram.Message,
	text string,
	keyboard *telegram.InlineKeyboardMarkup,
) {
	_, err := b.api.EditMessageText(ctx, telegram.EditMessageText{
		ChatID:      status.Chat.ID,
		MessageID:   status.MessageID,
		Text:        text,
		ParseMode:   "Markdown",
		ReplyMarkup: keyboard,
	})
	if err != nil && !telegram.IsNotModified(err) {
		logrus.Errorf("Failed to edit status message: %v", err)
	}
}
