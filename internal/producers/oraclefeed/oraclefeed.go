// Package oraclefeed polls an external price source every 6 seconds and
// emits bridgemodel.OraclePrice events, per spec.md §4.4.4. It supports
// both cryptocompare-shaped and coingecko-shaped JSON response bodies,
// the same multi-source parsing the teacher's node.fetchConsensusData
// does ad hoc per-source, generalized here into two typed shapes instead
// of the teacher's map[string]interface{} switch.
package oraclefeed

import (
	"context"
	"fmt"
	"math"
	"math/big"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/obscura-network/bridge-relayer/internal/bridgemodel"
	"github.com/obscura-network/bridge-relayer/internal/httpfetch"
)

const pollInterval = 6 * time.Second

// Shape selects which response body format to decode.
type Shape int

const (
	ShapeCryptocompare Shape = iota
	ShapeCoingecko
)

// Feed polls url for symbol's price and emits scaled OraclePrice events.
type Feed struct {
	http   *httpfetch.Client
	url    string
	symbol string
	coinID string // used only by ShapeCoingecko, the result map's key
	shape  Shape
	out    chan<- bridgemodel.Event
}

// New builds a Feed. coinID is the coingecko id (e.g. "ethereum") and is
// ignored for ShapeCryptocompare.
func New(http *httpfetch.Client, url, symbol, coinID string, shape Shape, out chan<- bridgemodel.Event) *Feed {
	return &Feed{http: http, url: url, symbol: symbol, coinID: coinID, shape: shape, out: out}
}

// Run ticks every 6 seconds until ctx is canceled, emitting one
// OraclePrice per successful fetch. A failed fetch is logged and skipped;
// the next tick retries.
func (f *Feed) Run(ctx context.Context) {
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			f.tick(ctx)
		}
	}
}

func (f *Feed) tick(ctx context.Context) {
	price, err := f.fetchPrice(ctx)
	if err != nil {
		log.Warn().Err(err).Str("symbol", f.symbol).Msg("oraclefeed: fetch failed, retrying next tick")
		return
	}
	scaled := scalePrice(price)
	f.out <- bridgemodel.NewOraclePrice(bridgemodel.NewBlockNumber(0), f.symbol, scaled)
}

func (f *Feed) fetchPrice(ctx context.Context) (float64, error) {
	switch f.shape {
	case ShapeCoingecko:
		var body map[string]map[string]float64
		if err := f.http.Get(ctx, f.url, &body); err != nil {
			return 0, err
		}
		inner, ok := body[f.coinID]
		if !ok {
			return 0, fmt.Errorf("oraclefeed: coingecko response missing id %q", f.coinID)
		}
		price, ok := inner[strings.ToLower(quoteCurrency)]
		if !ok {
			return 0, fmt.Errorf("oraclefeed: coingecko response missing currency %q", quoteCurrency)
		}
		return price, nil
	default:
		var body struct {
			USD float64 `json:"USD"`
		}
		if err := f.http.Get(ctx, f.url, &body); err != nil {
			return 0, err
		}
		if body.USD == 0 {
			return 0, fmt.Errorf("oraclefeed: cryptocompare response missing USD price")
		}
		return body.USD, nil
	}
}

const quoteCurrency = "usd"

// scalePrice implements spec.md §4.4.4's round(price × 10⁹) × 10⁹ fixed
// point conversion: nine significant decimal digits of precision, then
// shifted up to the full 18-decimal convention shared with on-chain
// uint256 token amounts.
func scalePrice(price float64) *big.Int {
	rounded := big.NewInt(int64(math.Round(price * 1e9)))
	return new(big.Int).Mul(rounded, big.NewInt(1e9))
}
