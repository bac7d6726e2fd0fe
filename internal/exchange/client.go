// Package exchange converts transaction amounts into a reference currency
// through an exchange-rates HTTP API.
package exchange

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dvloznov/transactions-viewer/internal/domain"
	"github.com/dvloznov/transactions-viewer/internal/logger"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

const defaultTimeout = 10 * time.Second

// ErrConversion is returned when the rate service rejects or fails a conversion.
var ErrConversion = errors.New("error in converting currency")

// Converter converts an amount in the given currency to the reference currency.
type Converter interface {
	Convert(ctx context.Context, amount decimal.Decimal, from string) (decimal.Decimal, error)
}

// Client calls the exchangerates_data "convert" endpoint.
type Client struct {
	httpClient *http.Client
	baseURL    *url.URL
	apiKey     string
	reference  string
	log        zerolog.Logger
}

// Options configure a Client.
type Options struct {
	BaseURL   string
	APIKey    string
	Reference string

	// HTTPClient defaults to a client with a 10 second timeout.
	HTTPClient *http.Client
}

// NewClient creates a conversion client.
func NewClient(log zerolog.Logger, opts Options) (*Client, error) {
	base, err := url.Parse(opts.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("NewClient: parsing base URL %q: %w", opts.BaseURL, err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("NewClient: base URL %q must be absolute", opts.BaseURL)
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	reference := strings.ToUpper(opts.Reference)
	if reference == "" {
		reference = "RUB"
	}

	return &Client{
		httpClient: httpClient,
		baseURL:    base,
		apiKey:     opts.APIKey,
		reference:  reference,
		log:        logger.Component(log, "exchange"),
	}, nil
}

// Reference returns the currency amounts are converted into.
func (c *Client) Reference() string {
	return c.reference
}

type convertResponse struct {
	Success bool             `json:"success"`
	Result  *decimal.Decimal `json:"result"`
	Error   *struct {
		Code string `json:"code"`
		Info string `json:"info"`
	} `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
}

// Convert returns amount expressed in the reference currency. Amounts already
// in the reference currency are returned without a request.
func (c *Client) Convert(ctx context.Context, amount decimal.Decimal, from string) (decimal.Decimal, error) {
	from = strings.ToUpper(strings.TrimSpace(from))
	if from == c.reference {
		return amount, nil
	}

	q := url.Values{}
	q.Add("to", c.reference)
	q.Add("from", from)
	q.Add("amount", amount.String())

	u := *c.baseURL
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return decimal.Zero, fmt.Errorf("Convert: creating request: %w", err)
	}
	req.Header.Set("apikey", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return decimal.Zero, fmt.Errorf("Convert: sending request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return decimal.Zero, fmt.Errorf("Convert: reading response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		c.log.Warn().Int("status", resp.StatusCode).Str("from", from).Msg("conversion request failed")
		return decimal.Zero, fmt.Errorf("Convert: %w: unexpected status %d", ErrConversion, resp.StatusCode)
	}

	var parsed convertResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return decimal.Zero, fmt.Errorf("Convert: %w: decoding response: %v", ErrConversion, err)
	}
	if !parsed.Success || parsed.Result == nil {
		reason := parsed.Message
		if parsed.Error != nil {
			reason = parsed.Error.Info
		}
		c.log.Warn().Str("from", from).Str("reason", reason).Msg("conversion rejected")
		return decimal.Zero, fmt.Errorf("Convert: %w: %s -> %s rejected: %s", ErrConversion, from, c.reference, reason)
	}

	c.log.Debug().
		Str("from", from).
		Str("amount", amount.String()).
		Str("result", parsed.Result.String()).
		Msg("amount converted")
	return *parsed.Result, nil
}

// RecordAmount converts the operation amount of a record using its own currency code.
func RecordAmount(ctx context.Context, conv Converter, rec domain.Record) (decimal.Decimal, error) {
	amount, err := rec.DecimalAmount()
	if err != nil {
		return decimal.Zero, fmt.Errorf("RecordAmount: %w", err)
	}
	code, ok := rec.CurrencyCode()
	if !ok || code == "" || code == domain.NotSpecified {
		return decimal.Zero, fmt.Errorf("RecordAmount: %w: record has no currency code", ErrConversion)
	}
	return conv.Convert(ctx, amount, code)
}
