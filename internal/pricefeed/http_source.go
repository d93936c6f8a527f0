package pricefeed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"net/url"
	"time"

	"github.com/shopspring/decimal"
)

// APIError represents an error response from the quote provider.
type APIError struct {
	StatusCode int
	Message    string
	Body       []byte
}

func (e *APIError) Error() string {
	return fmt.Sprintf("quote api error %d: %s", e.StatusCode, e.Message)
}

// IsRetryable returns true if the error should trigger a retry.
func (e *APIError) IsRetryable() bool {
	return e.StatusCode >= 500 || e.StatusCode == 429
}

// HTTPQuoteSource fetches quotes from a REST market-data provider.
type HTTPQuoteSource struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *slog.Logger

	maxRetries   int
	retryBackoff time.Duration
}

// SourceOption configures an HTTPQuoteSource.
type SourceOption func(*HTTPQuoteSource)

// NewHTTPQuoteSource creates a new REST quote source.
func NewHTTPQuoteSource(baseURL, apiKey string, opts ...SourceOption) *HTTPQuoteSource {
	s := &HTTPQuoteSource{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger:       slog.Default(),
		maxRetries:   3,
		retryBackoff: time.Second,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(d time.Duration) SourceOption {
	return func(s *HTTPQuoteSource) {
		s.httpClient.Timeout = d
	}
}

// WithRetries sets the retry configuration.
func WithRetries(max int, backoff time.Duration) SourceOption {
	return func(s *HTTPQuoteSource) {
		s.maxRetries = max
		s.retryBackoff = backoff
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) SourceOption {
	return func(s *HTTPQuoteSource) {
		s.logger = logger
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) SourceOption {
	return func(s *HTTPQuoteSource) {
		s.httpClient = hc
	}
}

// quoteResponse is the provider's wire format for a single quote.
type quoteResponse struct {
	Symbol    string    `json:"symbol"`
	Price     string    `json:"price"`
	Timestamp time.Time `json:"timestamp"`
}

// FetchQuote implements QuoteSource.
func (s *HTTPQuoteSource) FetchQuote(ctx context.Context, symbol string) (Quote, error) {
	query := url.Values{}
	query.Set("symbol", symbol)

	body, err := s.doWithRetry(ctx, "/v1/quotes", query)
	if err != nil {
		if apiErr, ok := err.(*APIError); ok && apiErr.StatusCode == http.StatusNotFound {
			return Quote{}, fmt.Errorf("%w: %s", ErrSymbolUnavailable, symbol)
		}
		return Quote{}, err
	}

	var resp quoteResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return Quote{}, fmt.Errorf("decode quote response: %w", err)
	}

	price, err := decimal.NewFromString(resp.Price)
	if err != nil {
		return Quote{}, fmt.Errorf("parse quote price %q: %w", resp.Price, err)
	}

	quotedAt := resp.Timestamp
	if quotedAt.IsZero() {
		quotedAt = time.Now().UTC()
	}

	return Quote{
		Symbol:   symbol,
		Price:    price,
		QuotedAt: quotedAt,
	}, nil
}

// doRequest performs a single GET against the provider.
func (s *HTTPQuoteSource) doRequest(ctx context.Context, path string, query url.Values) ([]byte, error) {
	fullURL := s.baseURL + path
	if len(query) > 0 {
		fullURL += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if s.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.apiKey)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Message:    http.StatusText(resp.StatusCode),
			Body:       body,
		}
	}

	return body, nil
}

// doWithRetry performs a request with exponential backoff retry.
func (s *HTTPQuoteSource) doWithRetry(ctx context.Context, path string, query url.Values) ([]byte, error) {
	var lastErr error
	backoff := s.retryBackoff

	for attempt := 0; attempt <= s.maxRetries; attempt++ {
		if attempt > 0 {
			// Add jitter: backoff * (0.5 to 1.5)
			jitter := backoff/2 + time.Duration(rand.Int64N(int64(backoff)))
			s.logger.Debug("retrying request",
				"attempt", attempt,
				"backoff", jitter,
				"path", path,
			)

			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(jitter):
			}

			backoff *= 2
		}

		body, err := s.doRequest(ctx, path, query)
		if err == nil {
			return body, nil
		}
		lastErr = err

		if apiErr, ok := err.(*APIError); ok && !apiErr.IsRetryable() {
			return nil, err
		}
	}

	return nil, fmt.Errorf("request failed after %d retries: %w", s.maxRetries, lastErr)
}
