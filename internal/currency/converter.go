// Package currency converts document amounts into the two reference currencies (USD and INR)
// using the Frankfurter exchange-rate API.
package currency

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strings"
	"time"

	"cloud.google.com/go/civil"
	"github.com/dvloznov/finance-docproc/internal/logger"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

const (
	USD = "USD"
	INR = "INR"

	// rupeeSymbol is accepted in place of the INR code.
	rupeeSymbol = "₹"

	// DefaultBaseURL is the public Frankfurter endpoint.
	DefaultBaseURL = "https://api.frankfurter.app"

	// DefaultTimeout bounds a single rate lookup.
	DefaultTimeout = 5 * time.Second
)

// Conversion is the result of converting one amount.
// Degraded is true when rates could not be fetched and both rates were treated as 0.
type Conversion struct {
	AmountUSD float64 `json:"amount_usd"`
	AmountINR float64 `json:"amount_inr"`
	RateDate  string  `json:"rate_date"`
	Degraded  bool    `json:"degraded"`
}

// RateReply is the body returned by GET /latest.
type RateReply struct {
	Amount float64            `json:"amount"`
	Base   string             `json:"base"`
	Date   string             `json:"date"`
	Rates  map[string]float64 `json:"rates"`
}

// Converter fetches exchange rates and converts amounts to USD and INR.
// It holds no per-request state and is safe for concurrent use.
type Converter struct {
	httpClient *http.Client
	baseURL    string
	timeout    time.Duration
	now        func() time.Time // overridable for tests
}

// Option configures a Converter.
type Option func(*Converter)

// WithBaseURL points the converter at a different rate source.
func WithBaseURL(baseURL string) Option {
	return func(c *Converter) { c.baseURL = strings.TrimRight(baseURL, "/") }
}

// WithTimeout sets the per-lookup timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Converter) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithClock replaces the clock used for fallback dates.
func WithClock(now func() time.Time) Option {
	return func(c *Converter) { c.now = now }
}

// NewConverter creates a Converter. A nil httpClient uses http.DefaultClient.
func NewConverter(httpClient *http.Client, opts ...Option) *Converter {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	c := &Converter{
		httpClient: httpClient,
		baseURL:    DefaultBaseURL,
		timeout:    DefaultTimeout,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NormalizeCode trims and upper-cases a currency code and maps the rupee symbol to INR.
func NormalizeCode(code string) string {
	code = strings.TrimSpace(code)
	if code == rupeeSymbol {
		return INR
	}
	return strings.ToUpper(code)
}

// Targets returns the comma-separated target codes to request for a normalized source code.
func Targets(source string) string {
	switch source {
	case USD:
		return INR
	case INR:
		return USD
	default:
		return USD + "," + INR
	}
}

// Convert expresses amount (in sourceCurrency) in USD and INR.
//
// Convert never fails: when the rate source is unreachable or replies with something unusable,
// both rates are treated as 0, RateDate is today's date and Degraded is set.
// Amounts are rounded to 2 decimal places, half away from zero, on the shortest decimal
// representation of the float (so 2.675 rounds to 2.68).
func (c *Converter) Convert(ctx context.Context, amount float64, sourceCurrency string) Conversion {
	log := logger.FromContext(ctx)
	source := NormalizeCode(sourceCurrency)

	reply, err := c.FetchRates(ctx, source, Targets(source))
	degraded := false
	if err != nil {
		log.Warn().
			Err(err).
			Str("currency", source).
			Msg("Exchange rate lookup failed, falling back to zero rates")
		degraded = true
		reply = &RateReply{Rates: map[string]float64{USD: 0, INR: 0}, Date: c.today()}
	} else {
		// The source's own rate is never taken from the reply.
		reply.Rates[source] = 1.0
		if reply.Date == "" {
			reply.Date = c.today()
		}
	}

	rateUSD := rate(&log, reply, USD, source)
	rateINR := rate(&log, reply, INR, source)

	var usd, inr float64
	switch source {
	case USD:
		usd, inr = amount, amount*rateINR
	case INR:
		inr, usd = amount, amount*rateUSD
	default:
		usd, inr = amount*rateUSD, amount*rateINR
	}

	return Conversion{
		AmountUSD: Round2(usd),
		AmountINR: Round2(inr),
		RateDate:  reply.Date,
		Degraded:  degraded,
	}
}

func rate(log *zerolog.Logger, reply *RateReply, code, source string) float64 {
	r, ok := reply.Rates[code]
	if !ok && code != source {
		log.Warn().
			Str("currency", source).
			Str("target", code).
			Msg("Exchange rate missing from reply, using 0")
	}
	return r
}

// FetchRates calls GET {base}/latest?from=source&to=targets within the converter timeout.
func (c *Converter) FetchRates(ctx context.Context, source, targets string) (*RateReply, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	q := url.Values{}
	q.Set("from", source)
	q.Set("to", targets)
	endpoint := c.baseURL + "/latest?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("building rate request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("rate request for %s: %w", source, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("rate request for %s: unexpected status %d", source, resp.StatusCode)
	}

	var reply RateReply
	if err := json.NewDecoder(resp.Body).Decode(&reply); err != nil {
		return nil, fmt.Errorf("decoding rate response for %s: %w", source, err)
	}
	if reply.Rates == nil {
		return nil, fmt.Errorf("rate response for %s: missing rates", source)
	}
	if reply.Date != "" {
		if _, err := civil.ParseDate(reply.Date); err != nil {
			return nil, fmt.Errorf("rate response for %s: invalid date %q: %w", source, reply.Date, err)
		}
	}

	return &reply, nil
}

func (c *Converter) today() string {
	return civil.DateOf(c.now()).String()
}

// Round2 rounds v to 2 decimal places, half away from zero.
func Round2(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}
