// Package tagging talks to the external auto-tagger service. The service is
// a best-effort enhancement: the document lifecycle swallows every failure
// here and proceeds with empty tags and summary.
package tagging

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// MaxExcerptLength caps the text sent to the tagger so request payloads stay
// bounded no matter how large the extracted document text is.
const MaxExcerptLength = 10000

// MaxAutoTags caps the combined keyword/entity set stored on a document.
const MaxAutoTags = 15

// Result holds what the tagger produced for one document.
type Result struct {
	AutoTags []string
	Summary  string
}

// Client calls the tagging endpoint over HTTP with a hard timeout.
type Client struct {
	url        string
	httpClient *http.Client
}

// NewClient creates a Client for the given endpoint. The timeout bounds the
// whole round trip; the tagger must never block an upload indefinitely.
func NewClient(url string, timeout time.Duration) *Client {
	return &Client{
		url:        url,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type tagRequest struct {
	Text string `json:"text"`
}

// Any response field may be absent; absent means empty.
type tagResponse struct {
	Keywords []string `json:"keywords"`
	Entities []string `json:"entities"`
	Summary  string   `json:"summary"`
}

// Tag sends a bounded excerpt of text to the tagger and returns the
// deduplicated keyword/entity set plus the summary. Non-2xx responses and
// malformed bodies are errors for the caller to log and discard.
func (c *Client) Tag(ctx context.Context, text string) (*Result, error) {
	if len(text) > MaxExcerptLength {
		text = text[:MaxExcerptLength]
	}

	body, err := json.Marshal(tagRequest{Text: text})
	if err != nil {
		return nil, fmt.Errorf("failed to encode tag request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build tag request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tagging service unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("tagging service returned status %d", resp.StatusCode)
	}

	var parsed tagResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to decode tag response: %w", err)
	}

	return &Result{
		AutoTags: dedupe(append(parsed.Keywords, parsed.Entities...), MaxAutoTags),
		Summary:  parsed.Summary,
	}, nil
}

// dedupe keeps the first occurrence of each tag, up to limit.
func dedupe(tags []string, limit int) []string {
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
		if len(out) == limit {
			break
		}
	}
	return out
}
