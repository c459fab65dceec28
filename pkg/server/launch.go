package server

import (
	"context"
	"errors"
	"sync"

	"github.com/metadatax/mediainfobot/pkg/bot"
	"github.com/metadatax/mediainfobot/pkg/config"
	"github.com/metadatax/mediainfobot/pkg/mediainfo"
	"github.com/metadatax/mediainfobot/pkg/store"
	"github.com/metadatax/mediainfobot/pkg/store/sql"
	"github.com/metadatax/mediainfobot/pkg/telegram"
	"github.com/metadatax/mediainfobot/pkg/telegraph"
)

// Launch wires the store, the Telegram bot and the HTTP server
// together and runs them until ctx is canceled or either side fails.
func Launch(ctx context.Context, cfg *config.Config) error {
	reportStore, err := sql.NewStore(cfg.StoreURL)
	if err != nil {
		return err
	}

	publisher := telegraph.New(cfg.TelegraphAPIURL, cfg.PageBaseURL, cfg.TelegraphToken)
	publisher.AuthorName = "MetadataInfoBot"
	publisher.AuthorURL = "https://t.me/MetadataXBot"

	b := bot.New(
		telegram.New(cfg.TelegramAPIURL, cfg.BotToken),
		publisher,
		mediainfo.CLIAnalyzer{},
		reportStore,
		cfg,
	)

	return launchBotAndServer(ctx, cfg, b, reportStore)
}

// launchBotAndServer runs both halves; when one stops, the other is
// canceled so the process never keeps limping along half alive.
func launchBotAndServer(
	ctx context.Context,
	cfg *config.Config,
	b *bot.Bot,
	reportStore store.ReportStore,
) error {
	errs := make([]error, 2)

	var wg sync.WaitGroup

	botCtx, botCancel := context.WithCancel(ctx)
	srvCtx, srvCancel := context.WithCancel(ctx)

	wg.Add(1)
	go func() {
		defer wg.Done()

		if err := b.Run(botCtx); err != nil && botCtx.Err() == nil {
			errs[0] = err
		}

		srvCancel()
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()

		if err := launchServer(srvCtx, cfg, reportStore); err != nil && srvCtx.Err() == nil {
			errs[1] = err
		}

		botCancel()
	}()

	wg.Wait()

	return errors.Join(errs...)
}
