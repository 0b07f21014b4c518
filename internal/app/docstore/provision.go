package docstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"digame/internal/pkg/pow"
)

// envelope is the response wrapper of the bin store server.
type envelope[T any] struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    T      `json:"data"`
}

type challenge struct {
	Nonce      string `json:"nonce"`
	Difficulty int    `json:"difficulty"`
}

type proofToken struct {
	Token string `json:"token"`
}

type createdBin struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// CreateBin asks the digame bin server at serverURL for a new bin, solving its proof-of-work
// challenge first, and returns the URL clients should use as their document store.
func CreateBin(ctx context.Context, serverURL string, timeout time.Duration) (string, error) {
	base := strings.TrimRight(serverURL, "/")
	client := &http.Client{Timeout: timeout}

	var ch challenge
	if err := call(ctx, client, http.MethodGet, base+"/pow/challenge", nil, "", &ch); err != nil {
		return "", err
	}

	token := ""
	if ch.Difficulty > 0 {
		counter, err := pow.Solve(ctx, ch.Nonce, ch.Difficulty)
		if err != nil {
			return "", fmt.Errorf("solve challenge: %w", err)
		}

		body, err := json.Marshal(map[string]string{"nonce": ch.Nonce, "counter": counter})
		if err != nil {
			return "", fmt.Errorf("encode proof: %w", err)
		}

		var tok proofToken
		if err := call(ctx, client, http.MethodPost, base+"/pow/verify", body, "", &tok); err != nil {
			return "", err
		}
		token = tok.Token
	}

	var created createdBin
	if err := call(ctx, client, http.MethodPost, base+"/bins", nil, token, &created); err != nil {
		return "", err
	}

	return created.URL, nil
}

func call[T any](ctx context.Context, client *http.Client, method, url string, body []byte, token string, out *T) error {
	req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request %s %s: %w", method, url, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set(pow.TokenHeaderKey, token)
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, url, err)
	}
	defer resp.Body.Close()

	var env envelope[T]
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("%s %s: unexpected response (status %d): %w", method, url, resp.StatusCode, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 || env.Code != 0 {
		return fmt.Errorf("%s %s: %s (code %d, status %d)", method, url, env.Message, env.Code, resp.StatusCode)
	}

	*out = env.Data
	return nil
}
