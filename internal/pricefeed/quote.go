// Package pricefeed periodically fetches quotes for the symbols that have
// pending alerts and publishes each quote as an event for downstream
// evaluation.
package pricefeed

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// ErrSymbolUnavailable is returned by a QuoteSource when it cannot supply
// a quote for the requested symbol.
var ErrSymbolUnavailable = errors.New("no quote available for symbol")

// Quote is one observed price for a symbol.
type Quote struct {
	Symbol   string
	Price    decimal.Decimal
	QuotedAt time.Time
}

// QuoteSource fetches the current quote for a symbol. Implementations wrap
// an exchange or market-data API.
type QuoteSource interface {
	// FetchQuote returns the latest quote for the symbol.
	// Returns ErrSymbolUnavailable when the source does not cover it.
	FetchQuote(ctx context.Context, symbol string) (Quote, error)
}

// QuoteSourceFunc is a function adapter for QuoteSource.
type QuoteSourceFunc func(ctx context.Context, symbol string) (Quote, error)

func (f QuoteSourceFunc) FetchQuote(ctx context.Context, symbol string) (Quote, error) {
	return f(ctx, symbol)
}
