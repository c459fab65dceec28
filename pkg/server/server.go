// Package server exposes the HTTP side of the bot: liveness endpoints
// for the hosting platform and a small JSON API over stored reports.
package server

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/sirupsen/logrus"

	"github.com/metadatax/mediainfobot/pkg/config"
	"github.com/metadatax/mediainfobot/pkg/contract"
	"github.com/metadatax/mediainfobot/pkg/store"
)

func launchServer(ctx context.Context, cfg *config.Config, reportStore store.ReportStore) error {
	app, err := newApp(cfg, reportStore)
	if err != nil {
		return err
	}

	go func() {
		<-ctx.Done()

		if err := app.ShutdownWithTimeout(cfg.ShutdownTimeout); err != nil {
			logrus.Errorf("Failed to gracefully shutdown server: %v", err)
		}
	}()

	if err := app.Listen(cfg.Address); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

func newApp(cfg *config.Config, reportStore store.ReportStore) (*fiber.App, error) {
	app := fiber.New(fiber.Config{
		BodyLimit:             1024 * 1024,
		ReadBufferSize:        16384,
		ReadTimeout:           5 * time.Second,
		WriteTimeout:          60 * time.Second,
		IdleTimeout:           120 * time.Second,
		ServerHeader:          "mediainfobot/" + cfg.Version,
		DisableStartupMessage: true,
	})

	app.Use(compress.New())
	app.Use(recover.New(recover.Config{EnableStackTrace: true}))
	app.Use(logger.New(logger.Config{
		Format: "${status} - ${latency} ${method} ${path}\n",
		Output: logrus.StandardLogger().Writer(),
	}))

	apiApp, err := newAPIApp(reportStore)
	if err != nil {
		return nil, err
	}
	app.Mount("/api/v1", apiApp)

	// The hosting platform pings the root to keep the dyno alive.
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("Bot is running!")
	})
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.SendString("OK")
	})
	app.Get("/version", func(c *fiber.Ctx) error {
		return c.SendString(cfg.Version)
	})

	return app, nil
}

func newAPIApp(reportStore store.ReportStore) (*fiber.App, error) {
	app := fiber.New(fiber.Config{
		ErrorHandler: apiErrorHandler,
	})

	parser, err := NewHTTPRequestParser()
	if err != nil {
		return nil, err
	}

	registerReportRoutes(app, parser, &ReportService{store: reportStore})

	return app, nil
}

func apiErrorHandler(c *fiber.Ctx, err error) error {
	var e *contract.Error
	if !errors.As(err, &e) {
		code := contract.ErrorCodeInternalError

		var f *fiber.Error
		if errors.As(err, &f) {
			switch f.Code {
			case fiber.StatusBadRequest:
				code = contract.ErrorCodeBadRequest
			case fiber.StatusServiceUnavailable:
				code = contract.ErrorCodeTemporarilyUnavailable
			case fiber.StatusNotFound:
				code = contract.ErrorCodeEndpointNotFound
			}
		}

		e = contract.NewError(code, err.Error())
	}

	var fn func(format string, args ...any)

	switch e.StatusCode() {
	case fiber.StatusBadRequest:
		fn = logrus.Infof
	case fiber.StatusServiceUnavailable:
		fn = logrus.Warnf
	case fiber.StatusNotFound:
		fn = logrus.Debugf
	default:
		fn = logrus.Errorf
	}

	fn("Error encountered in %s %s: %s", c.Method(), c.Path(), err)

	return c.Status(e.StatusCode()).JSON(e)
}
