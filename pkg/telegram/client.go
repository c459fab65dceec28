// Package telegram is a thin Bot API client covering the handful of
// methods the bot needs: long polling, messaging and file downloads.
package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/pkg/errors"
	"github.com/tidwall/gjson"
)

// BasicClient is a simpler http.Client that only requires a Do method.
type BasicClient interface {
	Do(*http.Request) (*http.Response, error)
}

var _ BasicClient = http.DefaultClient

type Client struct {
	HTTP    BasicClient
	baseURL string
	token   string
}

// New returns a client for the given bot token. baseURL is normally
// https://api.telegram.org but can point at a local Bot API server.
func New(baseURL, token string) *Client {
	return &Client{
		// Long polls are held open server side for up to the poll
		// timeout, so the transport timeout has to exceed it.
		HTTP:    &http.Client{Timeout: 90 * time.Second},
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
	}
}

// APIError is a non-ok Bot API response envelope.
type APIError struct {
	Code        int
	Description string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("telegram: %s (%d)", e.Description, e.Code)
}

// IsNotModified reports whether err is the Bot API complaint about
// editing a message with its current content. Callers treat it as a
// successful no-op.
func IsNotModified(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}

	return strings.Contains(apiErr.Description, "message is not modified")
}

func (c *Client) call(ctx context.Context, method string, params, out any) error {
	body, err := json.Marshal(params)
	if err != nil {
		return errors.Wrapf(err, "marshaling %s params", method)
	}

	var result []byte

	operation := func() error {
		req, err := http.NewRequestWithContext(
			ctx,
			http.MethodPost,
			fmt.Sprintf("%s/bot%s/%s", c.baseURL, c.token, method),
			bytes.NewReader(body),
		)
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.HTTP.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		raw, err := io.ReadAll(resp.Body)
		if err != nil {
			return err
		}

		envelope := gjson.ParseBytes(raw)
		if !envelope.Get("ok").Bool() {
			apiErr := &APIError{
				Code:        int(envelope.Get("error_code").Int()),
				Description: envelope.Get("description").String(),
			}
			// 429 and 5xx are worth retrying, the rest is on us.
			if apiErr.Code == http.StatusTooManyRequests || apiErr.Code >= 500 {
				return apiErr
			}

			return backoff.Permanent(apiErr)
		}

		result = []byte(envelope.Get("result").Raw)

		return nil
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 4), ctx)
	if err := backoff.Retry(operation, policy); err != nil {
		return errors.Wrapf(err, "calling %s", method)
	}

	if out != nil {
		if err := json.Unmarshal(result, out); err != nil {
			return errors.Wrapf(err, "decoding %s result", method)
		}
	}

	return nil
}

func (c *Client) GetMe(ctx context.Context) (*User, error) {
	var user User
	if err := c.call(ctx, "getMe", struct{}{}, &user); err != nil {
		return nil, err
	}

	return &user, nil
}

// GetUpdates long polls for updates past offset.
func (c *Client) GetUpdates(ctx context.Context, offset int64, timeout time.Duration) ([]Update, error) {
	params := struct {
		Offset         int64    `json:"offset"`
		Timeout        int      `json:"timeout"`
		AllowedUpdates []string `json:"allowed_updates"`
	}{
		Offset:         offset,
		Timeout:        int(timeout / time.Second),
		AllowedUpdates: []string{"message"},
	}

	var updates []Update
	if err := c.call(ctx, "getUpdates", params, &updates); err != nil {
		return nil, err
	}

	return updates, nil
}

type SendMessage struct {
	ChatID                int64                 `json:"chat_id"`
	Text                  string                `json:"text"`
	ParseMode             string                `json:"parse_mode,omitempty"`
	ReplyToMessageID      int64                 `json:"reply_to_message_id,omitempty"`
	DisableWebPagePreview bool                  `json:"disable_web_page_preview,omitempty"`
	ReplyMarkup           *InlineKeyboardMarkup `json:"reply_markup,omitempty"`
}

func (c *Client) SendMessage(ctx context.Context, params SendMessage) (*Message, error) {
	var message Message
	if err := c.call(ctx, "sendMessage", params, &message); err != nil {
		return nil, err
	}

	return &message, nil
}

type EditMessageText struct {
	ChatID                int64                 `json:"chat_id"`
	MessageID             int64                 `json:"message_id"`
	Text                  string                `json:"text"`
	ParseMode             string                `json:"parse_mode,omitempty"`
	DisableWebPagePreview bool                  `json:"disable_web_page_preview,omitempty"`
	ReplyMarkup           *InlineKeyboardMarkup `json:"reply_markup,omitempty"`
}

func (c *Client) EditMessageText(ctx context.Context, params EditMessageText) (*Message, error) {
	var message Message
	if err := c.call(ctx, "editMessageText", params, &message); err != nil {
		return nil, err
	}

	return &message, nil
}

func (c *Client) GetFile(ctx context.Context, fileID string) (*File, error) {
	params := struct {
		FileID string `json:"file_id"`
	}{FileID: fileID}

	var file File
	if err := c.call(ctx, "getFile", params, &file); err != nil {
		return nil, err
	}

	return &file, nil
}
