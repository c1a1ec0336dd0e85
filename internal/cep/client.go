// Package cep looks up Brazilian postal codes (CEP) on a
// ViaCEP-compatible HTTP service.
package cep

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/SaYm0n/Gest-o-de-Ordens-de-Servi-o/internal/numfmt"
)

var (
	// ErrInvalidCEP is returned for input that does not hold exactly
	// eight digits.
	ErrInvalidCEP = errors.New("postal code must have 8 digits")

	// ErrNotFound is returned when the service does not know the code.
	ErrNotFound = errors.New("postal code not found")
)

// Address holds the fields the form merges into the client address.
type Address struct {
	PostalCode   string
	Street       string
	Neighborhood string
	City         string
	State        string
}

// response is the JSON body returned by the service. "erro" is true
// (boolean or string) for unknown codes.
type response struct {
	CEP         string          `json:"cep"`
	Logradouro  string          `json:"logradouro"`
	Complemento string          `json:"complemento"`
	Bairro      string          `json:"bairro"`
	Localidade  string          `json:"localidade"`
	UF          string          `json:"uf"`
	Erro        json.RawMessage `json:"erro"`
}

func (r response) notFound() bool {
	v := strings.Trim(strings.TrimSpace(string(r.Erro)), `"`)
	return strings.EqualFold(v, "true")
}

// Client is a thin HTTP client for the lookup service. It retries with
// exponential backoff on HTTP 429.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	maxRetries int
}

// NewClient creates a lookup client. The token is optional; when set it
// is sent as a Bearer token.
func NewClient(baseURL, token string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		maxRetries: 3,
	}
}

// Lookup returns the address registered for code. Punctuation in code
// is ignored.
func (c *Client) Lookup(ctx context.Context, code string) (Address, error) {
	digits := numfmt.DigitsOnly(code)
	if len(digits) != 8 {
		return Address{}, ErrInvalidCEP
	}

	var r response
	if err := c.get(ctx, "/"+digits+"/json/", &r); err != nil {
		return Address{}, err
	}
	if r.notFound() {
		return Address{}, ErrNotFound
	}

	return Address{
		PostalCode:   digits,
		Street:       r.Logradouro,
		Neighborhood: r.Bairro,
		City:         r.Localidade,
		State:        r.UF,
	}, nil
}

func (c *Client) get(ctx context.Context, path string, result any) error {
	url := c.baseURL + path

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return fmt.Errorf("creating request: %w", err)
		}
		req.Header.Set("Accept", "application/json")
		if c.token != "" {
			req.Header.Set("Authorization", "Bearer "+c.token)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("executing request GET %s: %w", path, err)
		}

		body, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()
		if readErr != nil {
			return fmt.Errorf("reading response body: %w", readErr)
		}

		if resp.StatusCode == http.StatusTooManyRequests {
			wait := retryAfterDuration(resp, attempt)
			lastErr = fmt.Errorf("rate limited (429) on GET %s", path)

			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
				continue
			}
		}

		// The service answers 400 for malformed codes.
		if resp.StatusCode == http.StatusBadRequest {
			return ErrInvalidCEP
		}
		if resp.StatusCode == http.StatusNotFound {
			return ErrNotFound
		}
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return fmt.Errorf("unexpected status %d on GET %s: %s", resp.StatusCode, path, string(body))
		}

		if err := json.Unmarshal(body, result); err != nil {
			return fmt.Errorf("unmarshaling response from GET %s: %w", path, err)
		}
		return nil
	}

	return fmt.Errorf("max retries (%d) exceeded: %w", c.maxRetries, lastErr)
}

// retryAfterDuration reads the Retry-After header and computes a wait
// duration. Falls back to exponential backoff if the header is missing.
func retryAfterDuration(resp *http.Response, attempt int) time.Duration {
	if header := resp.Header.Get("Retry-After"); header != "" {
		if seconds, err := strconv.Atoi(header); err == nil {
			return time.Duration(seconds) * time.Second
		}
	}

	backoff := time.Duration(1<<uint(attempt)) * time.Second
	if backoff > 10*time.Second {
		backoff = 10 * time.Second
	}
	return backoff
}
