// Package render calls the remote Markdown rendering service.
package render

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// DefaultURL is the public rendering proxy in front of the GitHub Markdown API.
const DefaultURL = "https://markdown-proxy.skygrid1832.workers.dev/render_markdown"

// MaxResponseSize caps the rendered HTML read from the service (default 10MB).
var MaxResponseSize int64 = 10 << 20

// Sentinel errors for rendering.
var (
	ErrRenderRequest = errors.New("render request failed")
	ErrRenderStatus  = errors.New("render service returned an error status")
)

// request is the JSON body accepted by the service.
type request struct {
	Text string `json:"text"`
}

// RemoteRenderer posts Markdown to the render service and returns HTML.
type RemoteRenderer struct {
	url    string
	client *http.Client
}

// NewRemoteRenderer creates a renderer for url. An empty url means DefaultURL;
// a nil client means http.DefaultClient. Timeouts come from the context.
func NewRemoteRenderer(url string, client *http.Client) *RemoteRenderer {
	if url == "" {
		url = DefaultURL
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &RemoteRenderer{url: url, client: client}
}

// URL returns the endpoint the renderer posts to.
func (r *RemoteRenderer) URL() string {
	return r.url
}

// ToHTML renders GFM content through the service. The response body is
// entity-decoded before it is returned.
func (r *RemoteRenderer) ToHTML(ctx context.Context, content string) (string, error) {
	body, err := json.Marshal(request{Text: content})
	if err != nil {
		return "", fmt.Errorf("%w: encoding request: %v", ErrRenderRequest, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrRenderRequest, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrRenderRequest, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("%w: %d", ErrRenderStatus, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseSize))
	if err != nil {
		return "", fmt.Errorf("%w: reading response: %v", ErrRenderRequest, err)
	}

	return DecodeEntities(string(data)), nil
}

// entityReplacements are applied in order, &amp; first. A double-escaped
// "&amp;lt;" therefore decodes all the way to "<".
var entityReplacements = [][2]string{
	{"&amp;", "&"},
	{"&lt;", "<"},
	{"&gt;", ">"},
	{"&nbsp;", " "},
	{"&quot;", `"`},
	{"&#39;", "'"},
}

// DecodeEntities reverses the entity encoding applied by the service.
// Only the six entities the service emits are decoded.
func DecodeEntities(s string) string {
	if !strings.Contains(s, "&") {
		return s
	}
	for _, r := range entityReplacements {
		s = strings.ReplaceAll(s, r[0], r[1])
	}
	return s
}
