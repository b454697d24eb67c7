package apiclient

import (
	"context"
	"net/url"
)

// DefaultFinnhubURL is the Finnhub v1 API root
const DefaultFinnhubURL = "https://finnhub.io/api/v1"

// Finnhub is a client for quotes, company data and market calendars
type Finnhub struct {
	rest  *rest
	token string
}

// NewFinnhub creates a client. An empty baseURL selects DefaultFinnhubURL.
func NewFinnhub(baseURL, token string, options ...Option) *Finnhub {
	if baseURL == "" {
		baseURL = DefaultFinnhubURL
	}
	return &Finnhub{rest: newRest(baseURL, options), token: token}
}

func (f *Finnhub) get(ctx context.Context, path string, params url.Values) Result {
	params.Set("token", f.token)
	return f.rest.get(ctx, path, params)
}

// Quote returns the current price of symbol
func (f *Finnhub) Quote(ctx context.Context, symbol string) Result {
	return f.get(ctx, "/quote", url.Values{"symbol": {symbol}})
}

// CompanyProfile returns the profile of symbol
func (f *Finnhub) CompanyProfile(ctx context.Context, symbol string) Result {
	return f.get(ctx, "/stock/profile2", url.Values{"symbol": {symbol}})
}

// CompanyNews returns news about symbol between two YYYY-MM-DD dates
func (f *Finnhub) CompanyNews(ctx context.Context, symbol, from, to string) Result {
	return f.get(ctx, "/company-news", url.Values{"symbol": {symbol}, "from": {from}, "to": {to}})
}

// MarketNews returns market news of a category. An empty category means "general".
func (f *Finnhub) MarketNews(ctx context.Context, category string) Result {
	if category == "" {
		category = "general"
	}
	return f.get(ctx, "/news", url.Values{"category": {category}})
}

// EarningsCalendar returns earnings releases between two dates
func (f *Finnhub) EarningsCalendar(ctx context.Context, from, to string) Result {
	return f.get(ctx, "/calendar/earnings", url.Values{"from": {from}, "to": {to}})
}

// EconomicCalendar returns economic events between two dates
func (f *Finnhub) EconomicCalendar(ctx context.Context, from, to string) Result {
	return f.get(ctx, "/calendar/economic", url.Values{"from": {from}, "to": {to}})
}
