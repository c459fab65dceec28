// Package bot implements the Telegram side of the service: long
// polling for updates, command handling and the media analysis
// pipeline.
package bot

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/metadatax/mediainfobot/pkg/config"
	"github.com/metadatax/mediainfobot/pkg/mediainfo"
	"github.com/metadatax/mediainfobot/pkg/store"
	"github.com/metadatax/mediainfobot/pkg/telegram"
	"github.com/metadatax/mediainfobot/pkg/telegraph"
)

// API is the subset of the Bot API client the bot uses.
type API interface {
	GetMe(ctx context.Context) (*telegram.User, error)
	GetUpdates(ctx context.Context, offset int64, timeout time.Duration) ([]telegram.Update, error)
	SendMessage(ctx context.Context, params telegram.SendMessage) (*telegram.Message, error)
	EditMessageText(ctx context.Context, params telegram.EditMessageText) (*telegram.Message, error)
	GetFile(ctx context.Context, fileID string) (*telegram.File, error)
	DownloadFile(ctx context.Context, filePath string, w io.Writer, limit int64) (int64, error)
}

// Publisher turns report content into a publicly readable page.
type Publisher interface {
	CreatePage(ctx context.Context, title string, content []telegraph.Node) (string, error)
}

type Bot struct {
	api       API
	publisher Publisher
	analyzer  mediainfo.Analyzer
	store     store.ReportStore

	sampleBytes int64
	pollTimeout time.Duration
	workers     int

	me *telegram.User
}

func New(
	api API,
	publisher Publisher,
	analyzer mediainfo.Analyzer,
	reportStore store.ReportStore,
	cfg *config.Config,
) *Bot {
	return &Bot{
		api:         api,
		publisher:   publisher,
		analyzer:    analyzer,
		store:       reportStore,
		sampleBytes: cfg.SampleBytes,
		pollTimeout: cfg.PollTimeout,
		workers:     cfg.Workers,
	}
}

// Run polls for updates until ctx is canceled. Messages are handled
// concurrently by at most the configured number of workers; Run
// returns once every in-flight handler has finished.
func (b *Bot) Run(ctx context.Context) error {
	me, err := b.api.GetMe(ctx)
	if err != nil {
		return err
	}
	b.me = me

	logrus.Infof("Authorized as @%s", me.Username)

	var wg sync.WaitGroup
	sem := make(chan struct{}, b.workers)

	var offset int64

	for ctx.Err() == nil {
		updates, err := b.api.GetUpdates(ctx, offset, b.pollTimeout)
		if err != nil {
			if ctx.Err() != nil {
				break
			}

			logrus.Errorf("Polling for updates failed: %v", err)

			select {
			case <-time.After(3 * time.Second):
			case <-ctx.Done():
			}

			continue
		}

		for _, update := range updates {
			if update.UpdateID >= offset {
				offset = update.UpdateID + 1
			}

			message := update.Message
			if message == nil {
				continue
			}

			sem <- struct{}{}
			wg.Add(1)

			go func() {
				defer wg.Done()
				defer func() { <-sem }()
				defer func() {
					if r := recover(); r != nil {
						logrus.Errorf("Panic while handling message %d: %v", message.MessageID, r)
					}
				}()

				b.handle(ctx, message)
			}()
		}
	}

	wg.Wait()

	return nil
}
