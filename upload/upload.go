// Package upload forwards a snapshot of the panel to an external gallery
// service.
package upload

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"time"
)

var (
	ErrNoEndpoint = errors.New("upload endpoint not configured")
	ErrStatus     = errors.New("upload rejected")
)

// Client posts uploads to a fixed endpoint.
type Client struct {
	URL  string
	HTTP *http.Client
}

func New(url string) *Client {
	return &Client{URL: url, HTTP: &http.Client{Timeout: 30 * time.Second}}
}

// Upload sends name, the JSON parameter values and the raw grid buffer as a
// multipart form.
func (c *Client) Upload(ctx context.Context, name string, values, buffer []byte) error {
	if c == nil || c.URL == "" {
		return ErrNoEndpoint
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if err := mw.WriteField("name", name); err != nil {
		return err
	}
	if err := writePart(mw, "values", "values.json", "application/json", values); err != nil {
		return err
	}
	if err := writePart(mw, "buffer", "buffer.bin", "application/octet-stream", buffer); err != nil {
		return err
	}
	if err := mw.Close(); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.URL, &body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("upload: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%w: %s: %s", ErrStatus, resp.Status, bytes.TrimSpace(msg))
	}
	return nil
}

func writePart(mw *multipart.Writer, field, filename, contentType string, data []byte) error {
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`, field, filename))
	h.Set("Content-Type", contentType)
	w, err := mw.CreatePart(h)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}
