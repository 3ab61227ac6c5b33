package exchange

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/shopspring/decimal"

	"walletapp/internal/domain/models"
)

// ErrRateUnavailable covers every upstream failure mode: transport errors,
// timeouts, non-2xx statuses and responses missing the requested currency.
// Callers retry the whole transfer; nothing has been mutated at this point.
var ErrRateUnavailable = errors.New("exchange rate unavailable")

// Client resolves conversion rates from an external source speaking
// GET <base>?amount=<amt>&from=<code>&to=<code> -> {"rates": {<code>: <n>}}.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: httpClient,
	}
}

type ratesResponse struct {
	Rates map[string]decimal.Decimal `json:"rates"`
}

// GetRate returns the rate to convert amount from fromCurrency into
// toCurrency. Same-currency conversion is exactly 1 and never goes over the
// network. Otherwise the source returns the converted total and the rate is
// derived as converted / amount.
func (c *Client) GetRate(ctx context.Context, amount models.Money, fromCurrency, toCurrency string) (decimal.Decimal, error) {
	const op = "exchange.Client.GetRate"

	if fromCurrency == toCurrency {
		return decimal.NewFromInt(1), nil
	}

	if amount.IsZero() {
		return decimal.Decimal{}, fmt.Errorf("%s: %w: amount is zero", op, ErrRateUnavailable)
	}

	query := url.Values{}
	query.Set("amount", amount.Amount.String())
	query.Set("from", fromCurrency)
	query.Set("to", toCurrency)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+query.Encode(), nil)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("%s: %w: %w", op, ErrRateUnavailable, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("%s: %w: %w", op, ErrRateUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return decimal.Decimal{}, fmt.Errorf("%s: %w: unexpected status %d", op, ErrRateUnavailable, resp.StatusCode)
	}

	var parsed ratesResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return decimal.Decimal{}, fmt.Errorf("%s: %w: %w", op, ErrRateUnavailable, err)
	}

	converted, ok := parsed.Rates[toCurrency]
	if !ok {
		return decimal.Decimal{}, fmt.Errorf("%s: %w: response missing %s", op, ErrRateUnavailable, toCurrency)
	}

	return converted.Div(amount.Amount), nil
}
