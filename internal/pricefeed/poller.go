package pricefeed

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pricewatch/pricewatch-api/internal/events"
)

// SymbolSource provides the symbols worth polling. In practice this is the
// alert store's set of symbols with at least one pending alert.
type SymbolSource interface {
	PendingSymbols(ctx context.Context) ([]string, error)
}

// Config holds poller configuration.
type Config struct {
	Interval    time.Duration // Poll interval (default: 15s)
	Concurrency int           // Max concurrent quote fetches (default: 4)
	Timeout     time.Duration // Per-fetch timeout (default: 10s)
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Interval:    15 * time.Second,
		Concurrency: 4,
		Timeout:     10 * time.Second,
	}
}

// Poller periodically fetches quotes for the watched symbols and emits a
// quote event for each.
type Poller struct {
	cfg     Config
	source  QuoteSource
	symbols SymbolSource
	emitter events.EventEmitter
	logger  *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates a new Poller.
func New(
	cfg Config,
	source QuoteSource,
	symbols SymbolSource,
	emitter events.EventEmitter,
	logger *slog.Logger,
) *Poller {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultConfig().Interval
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = DefaultConfig().Concurrency
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultConfig().Timeout
	}
	return &Poller{
		cfg:     cfg,
		source:  source,
		symbols: symbols,
		emitter: emitter,
		logger:  logger.With("component", "pricefeed_poller"),
	}
}

// Start begins the polling loop.
func (p *Poller) Start(ctx context.Context) error {
	p.ctx, p.cancel = context.WithCancel(ctx)

	p.wg.Add(1)
	go p.run()

	p.logger.Info("price feed poller started",
		"interval", p.cfg.Interval,
		"concurrency", p.cfg.Concurrency,
	)

	return nil
}

// Stop gracefully shuts down the poller.
func (p *Poller) Stop(ctx context.Context) error {
	if p.cancel != nil {
		p.cancel()
	}

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		p.logger.Info("price feed poller stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// run is the main polling loop.
func (p *Poller) run() {
	defer p.wg.Done()

	ticker := time.NewTicker(p.cfg.Interval)
	defer ticker.Stop()

	// Poll immediately on start.
	p.pollAll()

	for {
		select {
		case <-p.ctx.Done():
			return
		case <-ticker.C:
			p.pollAll()
		}
	}
}

// pollAll fetches quotes for all watched symbols concurrently.
func (p *Poller) pollAll() {
	start := time.Now()

	symbols, err := p.symbols.PendingSymbols(p.ctx)
	if err != nil {
		p.logger.Error("failed to load watched symbols", "err", err)
		return
	}
	if len(symbols) == 0 {
		p.logger.Debug("no symbols with pending alerts")
		return
	}

	// Semaphore for bounded concurrency.
	sem := make(chan struct{}, p.cfg.Concurrency)
	var wg sync.WaitGroup
	var fetched, failures atomic.Int64

	for _, symbol := range symbols {
		wg.Add(1)
		go func(symbol string) {
			defer wg.Done()

			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-p.ctx.Done():
				return
			}

			if err := p.pollSymbol(symbol); err != nil {
				p.logger.Warn("failed to poll symbol",
					"symbol", symbol,
					"err", err,
				)
				failures.Add(1)
				return
			}

			fetched.Add(1)
		}(symbol)
	}

	wg.Wait()

	p.logger.Info("poll cycle complete",
		"symbols", len(symbols),
		"fetched", fetched.Load(),
		"failures", failures.Load(),
		"duration", time.Since(start),
	)
}

// pollSymbol fetches one symbol's quote and emits it as an event.
func (p *Poller) pollSymbol(symbol string) error {
	ctx, cancel := context.WithTimeout(p.ctx, p.cfg.Timeout)
	defer cancel()

	quote, err := p.source.FetchQuote(ctx, symbol)
	if err != nil {
		return err
	}

	event, err := events.NewQuoteEvent(quote.Symbol, quote.Price, quote.QuotedAt)
	if err != nil {
		return err
	}

	return p.emitter.EmitEvent(ctx, event)
}
