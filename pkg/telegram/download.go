package telegram

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/pkg/errors"
)

// DownloadFile streams the body of a file obtained via GetFile into w,
// stopping after at most limit bytes. The bot only ever needs the
// initial portion of a file for analysis, never the whole thing.
func (c *Client) DownloadFile(ctx context.Context, filePath string, w io.Writer, limit int64) (int64, error) {
	if limit <= 0 {
		return 0, errors.New("download limit must be positive")
	}

	url := fmt.Sprintf("%s/file/bot%s/%s", c.baseURL, c.token, filePath)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, errors.Wrap(err, "building file request")
	}
	// A Range header lets the server stop sending early; servers that
	// ignore it are handled by the LimitReader below.
	req.Header.Set("Range", fmt.Sprintf("bytes=0-%d", limit-1))

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return 0, errors.Wrap(err, "downloading file")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusPartialContent {
		return 0, errors.Errorf("file download failed: %s", resp.Status)
	}

	written, err := io.Copy(w, io.LimitReader(resp.Body, limit))
	if err != nil {
		return written, errors.Wrap(err, "writing file sample")
	}

	return written, nil
}
