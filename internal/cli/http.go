package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// client submits tickets to a running server.
type client struct {
	http    *http.Client
	baseURL string
	lang    string
}

func newClient(baseURL, lang string, timeout time.Duration) *client {
	return &client{
		http:    &http.Client{Timeout: timeout},
		baseURL: strings.TrimRight(baseURL, "/"),
		lang:    lang,
	}
}

// reply is a server response body and status.
type reply struct {
	status int
	body   []byte
}

func (c *client) postImage(ctx context.Context, image []byte) (reply, error) {
	return c.post(ctx, "/tickets", http.DetectContentType(image), image)
}

func (c *client) postText(ctx context.Context, text string) (reply, error) {
	body, err := json.Marshal(map[string]string{"text": text})
	if err != nil {
		return reply{}, fmt.Errorf("encode request: %w", err)
	}
	return c.post(ctx, "/tickets/text", "application/json", body)
}

func (c *client) post(ctx context.Context, path, contentType string, body []byte) (reply, error) {
	target := c.baseURL + path
	if c.lang != "" {
		target += "?lang=" + url.QueryEscape(c.lang)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, bytes.NewReader(body))
	if err != nil {
		return reply{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := c.http.Do(req)
	if err != nil {
		return reply{}, fmt.Errorf("post %s: %w", path, err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return reply{}, fmt.Errorf("read response: %w", err)
	}
	return reply{status: resp.StatusCode, body: data}, nil
}
