package docstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"digame/internal/pkg/logx"
)

// HTTPStore talks to a hosted JSON bin: GET returns the document, POST overwrites it.
type HTTPStore struct {
	url    string
	client *http.Client
	logger zerolog.Logger
}

// NewHTTPStore returns a store bound to the bin at url. Requests give up after timeout.
func NewHTTPStore(url string, timeout time.Duration) *HTTPStore {
	return &HTTPStore{
		url:    url,
		client: &http.Client{Timeout: timeout},
		logger: logx.Logger().With().Str("component", "docstore").Str("url", url).Logger(),
	}
}

// URL returns the bin address the store is bound to.
func (s *HTTPStore) URL() string {
	return s.url
}

// Fetch implements Store. A missing bin (404) reads as the empty shell.
func (s *HTTPStore) Fetch(ctx context.Context) (Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return Document{}, fmt.Errorf("build fetch request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return Document{}, fmt.Errorf("fetch document: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		s.logger.Debug().Msg("Bin not found, using empty document.")
		return EmptyDocument(), nil
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Document{}, fmt.Errorf("read document: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Document{}, fmt.Errorf("fetch document: unexpected status %d", resp.StatusCode)
	}

	doc, err := Decode(body)
	if err != nil {
		return Document{}, fmt.Errorf("parse document: %w", err)
	}

	return doc, nil
}

// Overwrite implements Store.
func (s *HTTPStore) Overwrite(ctx context.Context, doc Document) error {
	body, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build overwrite request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("overwrite document: %w", err)
	}
	defer resp.Body.Close()

	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("overwrite document: unexpected status %d", resp.StatusCode)
	}

	s.logger.Debug().Int("bytes", len(body)).Msg("Document overwritten.")
	return nil
}
