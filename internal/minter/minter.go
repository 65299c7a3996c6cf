// Package minter authenticates against the coin-creation service with a
// wallet signature and submits multipart creation requests.
package minter

import (
	"bytes"
	"context"
	"crypto/ed25519"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/mr-tron/base58"
	"github.com/sirupsen/logrus"

	"tweetmint-go/internal/config"
	"tweetmint-go/internal/models"
)

// authChallenge is the fixed sign-in message the creation service
// verifies against the wallet signature.
const authChallenge = "Sign in to pump.fun: I accept the terms of service"

const (
	maxNameLen   = 64
	maxSymbolLen = 10
)

// Minter holds the wallet identity and the service endpoints.
type Minter struct {
	httpClient    *http.Client
	baseURL       string
	vanityAddress string
	privateKey    ed25519.PrivateKey
	address       string
}

// NewMinter derives the wallet from the configured base58 secret key.
// Both the 64-byte keypair form and the 32-byte seed form are accepted.
func NewMinter(cfg *config.MinterConfig) (*Minter, error) {
	raw, err := base58.Decode(cfg.WalletSecretKey)
	if err != nil {
		return nil, fmt.Errorf("failed to decode wallet secret key: %w", err)
	}

	var priv ed25519.PrivateKey
	switch len(raw) {
	case ed25519.PrivateKeySize:
		priv = ed25519.PrivateKey(raw)
	case ed25519.SeedSize:
		priv = ed25519.NewKeyFromSeed(raw)
	default:
		return nil, fmt.Errorf("wallet secret key has unexpected length %d", len(raw))
	}

	address := base58.Encode(priv.Public().(ed25519.PublicKey))
	logrus.Infof("Wallet loaded, address %s", address)

	return &Minter{
		httpClient:    &http.Client{Timeout: 60 * time.Second},
		baseURL:       cfg.BaseURL,
		vanityAddress: cfg.VanityAddress,
		privateKey:    priv,
		address:       address,
	}, nil
}

// Address returns the wallet's public address.
func (m *Minter) Address() string {
	return m.address
}

// Create runs the full creation protocol: authenticate, submit the
// multipart request, parse the mint address. Any step failing yields a
// plain Failure; there is no partial success.
func (m *Minter) Create(ctx context.Context, req models.CoinRequest) models.MintResult {
	token, err := m.authenticate(ctx)
	if err != nil {
		logrus.Errorf("Creation auth failed: %v", err)
		return models.MintResult{Success: false}
	}

	mintAddress, err := m.submitCreate(ctx, token, req)
	if err != nil {
		logrus.Errorf("Coin creation failed: %v", err)
		return models.MintResult{Success: false}
	}

	logrus.Infof("Created coin %s (%s) at %s", req.Name, req.Symbol, mintAddress)
	return models.MintResult{Success: true, MintAddress: mintAddress}
}

// authenticate signs the fixed challenge and exchanges it for a bearer
// token.
func (m *Minter) authenticate(ctx context.Context) (string, error) {
	signature := ed25519.Sign(m.privateKey, []byte(authChallenge))

	payload, err := json.Marshal(map[string]string{
		"walletAddress": m.address,
		"signature":     base58.Encode(signature),
		"message":       authChallenge,
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode auth payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.baseURL+"/auth/verify-signature", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to build auth request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("auth request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("auth request returned %d: %s", resp.StatusCode, string(body))
	}

	var parsed struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("failed to decode auth response: %w", err)
	}
	if parsed.Token == "" {
		return "", fmt.Errorf("auth response missing token")
	}

	return parsed.Token, nil
}

// submitCreate sends the multipart creation request. Name and symbol are
// truncated to the service's limits here, at request-build time.
func (m *Minter) submitCreate(ctx context.Context, token string, coin models.CoinRequest) (string, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("image", "image")
	if err != nil {
		return "", fmt.Errorf("failed to create image form field: %w", err)
	}
	if _, err := part.Write(coin.ImageBytes); err != nil {
		return "", fmt.Errorf("failed to write image bytes: %w", err)
	}

	fields := map[string]string{
		"name":                   truncate(coin.Name, maxNameLen),
		"symbol":                 truncate(coin.Symbol, maxSymbolLen),
		"description":            coin.Description,
		"creatorTwitterUserId":   coin.RequesterID,
		"creatorTwitterUsername": coin.RequesterHandle,
		"vanityAddress":          m.vanityAddress,
	}
	for name, value := range fields {
		if err := writer.WriteField(name, value); err != nil {
			return "", fmt.Errorf("failed to write form field %s: %w", name, err)
		}
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("failed to finalize creation form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.baseURL+"/coin/create", &buf)
	if err != nil {
		return "", fmt.Errorf("failed to build creation request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("creation request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("creation request returned %d: %s", resp.StatusCode, string(body))
	}

	var parsed struct {
		MintAddress string `json:"mintAddress"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("failed to decode creation response: %w", err)
	}
	if parsed.MintAddress == "" {
		return "", fmt.Errorf("creation response missing mint address")
	}

	return parsed.MintAddress, nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
