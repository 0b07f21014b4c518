/*
Package pow implements the proof-of-work gate in front of bin creation.

A client asks for a nonce, searches for a counter whose SHA-256 of nonce+counter starts with
the required number of hex zeros, and trades the proof for a short-lived single-use token.
Creating a bin costs one token.
*/
package pow

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	// TokenHeaderKey is the HTTP header carrying the proof token.
	TokenHeaderKey = "X-PoW-Token"

	// ProofTokenDuration is how long an issued token stays redeemable.
	ProofTokenDuration = 30 * time.Second

	// NonceExpiryDuration is how long a challenge nonce stays solvable.
	NonceExpiryDuration = 5 * time.Minute
)

var (
	ErrInvalidNonce = errors.New("nonce expired or invalid")
	ErrWeakProof    = errors.New("proof does not meet difficulty requirement")
)

// Manager issues challenges and proof tokens. It is safe for concurrent use.
type Manager struct {
	// difficulty is the required number of leading hex zeros.
	difficulty int

	// nonceStore maps active nonces to their expiry.
	nonceStore map[string]time.Time

	// tokenStore maps issued tokens to their expiry.
	tokenStore map[string]time.Time

	now func() time.Time

	mu sync.Mutex
}

// NewManager creates a Manager. Its cleanup goroutine runs until ctx is done.
func NewManager(ctx context.Context, difficulty int) *Manager {
	m := &Manager{
		difficulty: difficulty,
		nonceStore: make(map[string]time.Time),
		tokenStore: make(map[string]time.Time),
		now:        time.Now,
	}

	go m.cleanupExpiredEntries(ctx)

	return m
}

// Difficulty returns the number of leading hex zeros a proof needs.
func (m *Manager) Difficulty() int {
	return m.difficulty
}

// GenerateNonce creates and stores a new challenge nonce.
func (m *Manager) GenerateNonce() string {
	m.mu.Lock()
	defer m.mu.Unlock()

	nonce := uuid.New().String()
	m.nonceStore[nonce] = m.now().Add(NonceExpiryDuration)
	return nonce
}

// ValidateProof checks counter against nonce and, on success, consumes the nonce and
// returns a fresh proof token. A weak proof leaves the nonce solvable.
func (m *Manager) ValidateProof(nonce, counter string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	expiry, ok := m.nonceStore[nonce]
	if !ok {
		return "", ErrInvalidNonce
	}

	if m.now().After(expiry) {
		delete(m.nonceStore, nonce)
		return "", ErrInvalidNonce
	}

	if !Satisfies(nonce, counter, m.difficulty) {
		return "", ErrWeakProof
	}

	delete(m.nonceStore, nonce)

	token := uuid.New().String()
	m.tokenStore[token] = m.now().Add(ProofTokenDuration)
	return token, nil
}

// Redeem consumes the token carried by r. It reports false when the token is missing,
// unknown, expired or already used.
func (m *Manager) Redeem(r *http.Request) bool {
	token := r.Header.Get(TokenHeaderKey)
	if token == "" {
		return false
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	expiry, ok := m.tokenStore[token]
	if !ok {
		return false
	}
	delete(m.tokenStore, token)

	return !m.now().After(expiry)
}

// Satisfies reports whether SHA-256(nonce+counter) starts with difficulty hex zeros.
func Satisfies(nonce, counter string, difficulty int) bool {
	hash := sha256.Sum256([]byte(nonce + counter))
	return strings.HasPrefix(hex.EncodeToString(hash[:]), strings.Repeat("0", difficulty))
}

// Solve searches for a counter satisfying the challenge. It stops with ctx's error when ctx is done.
func Solve(ctx context.Context, nonce string, difficulty int) (string, error) {
	for i := 0; ; i++ {
		if i%4096 == 0 {
			if err := ctx.Err(); err != nil {
				return "", err
			}
		}

		counter := strconv.Itoa(i)
		if Satisfies(nonce, counter, difficulty) {
			return counter, nil
		}
	}
}

func (m *Manager) cleanupExpiredEntries(ctx context.Context) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.sweep()
		case <-ctx.Done():
			return
		}
	}
}

func (m *Manager) sweep() {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()

	for nonce, expiry := range m.nonceStore {
		if now.After(expiry) {
			delete(m.nonceStore, nonce)
		}
	}

	for token, expiry := range m.tokenStore {
		if now.After(expiry) {
			delete(m.tokenStore, token)
		}
	}
}
