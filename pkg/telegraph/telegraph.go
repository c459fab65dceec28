// Package telegraph publishes media reports as Telegraph pages.
package telegraph

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/pkg/errors"
	"github.com/tidwall/gjson"

	"github.com/metadatax/mediainfobot/pkg/utils"
)

const maxTitleRunes = 128

// Node is a Telegraph DOM node: either a string or an Element.
type Node any

type Element struct {
	Tag      string            `json:"tag"`
	Attrs    map[string]string `json:"attrs,omitempty"`
	Children []Node            `json:"children,omitempty"`
}

// BasicClient is a simpler http.Client that only requires a Do method.
type BasicClient interface {
	Do(*http.Request) (*http.Response, error)
}

type Client struct {
	HTTP        BasicClient
	AccessToken string
	AuthorName  string
	AuthorURL   string

	apiURL  string
	pageURL string
}

// New returns a publishing client. apiURL is normally
// https://api.telegra.ph; pageURL is the mirror pages are read from
// (graph.org for this bot).
func New(apiURL, pageURL, accessToken string) *Client {
	return &Client{
		HTTP:        &http.Client{Timeout: 30 * time.Second},
		AccessToken: accessToken,
		apiURL:      strings.TrimRight(apiURL, "/"),
		pageURL:     strings.TrimRight(pageURL, "/"),
	}
}

// CreatePage publishes content under the given title and returns the
// page URL. The page is fetched back once before the URL is handed
// out; a page that cannot be read is as good as no page.
func (c *Client) CreatePage(ctx context.Context, title string, content []Node) (string, error) {
	params := struct {
		AccessToken string `json:"access_token,omitempty"`
		Title       string `json:"title"`
		AuthorName  string `json:"author_name,omitempty"`
		AuthorURL   string `json:"author_url,omitempty"`
		Content     []Node `json:"content"`
	}{
		AccessToken: c.AccessToken,
		Title:       utils.TruncateRunes(title, maxTitleRunes),
		AuthorName:  c.AuthorName,
		AuthorURL:   c.AuthorURL,
		Content:     content,
	}

	body, err := json.Marshal(params)
	if err != nil {
		return "", errors.Wrap(err, "marshaling page content")
	}

	var path string

	operation := func() error {
		req, err := http.NewRequestWithContext(
			ctx,
			http.MethodPost,
			c.apiURL+"/createPage",
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

		var raw bytes.Buffer
		if _, err := raw.ReadFrom(resp.Body); err != nil {
			return err
		}

		envelope := gjson.ParseBytes(raw.Bytes())
		if !envelope.Get("ok").Bool() {
			return backoff.Permanent(errors.Errorf("telegraph: %s", envelope.Get("error").String()))
		}

		path = envelope.Get("result.path").String()
		if path == "" {
			return backoff.Permanent(errors.New("telegraph: response carries no page path"))
		}

		return nil
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 3), ctx)
	if err := backoff.Retry(operation, policy); err != nil {
		return "", err
	}

	pageURL := c.pageURL + "/" + path
	if err := c.verifyPage(ctx, pageURL); err != nil {
		return "", err
	}

	return pageURL, nil
}

func (c *Client) verifyPage(ctx context.Context, pageURL string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return errors.Wrap(err, "building page check request")
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return errors.Wrap(err, "checking created page")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return errors.Errorf("created page not accessible: %s", resp.Status)
	}

	return nil
}
