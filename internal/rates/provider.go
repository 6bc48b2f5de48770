// internal/rates/provider.go
package rates

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
)

// Provider looks up the conversion rate from an asset to the settlement
// currency. Rates are always positive; unknown assets fail the lookup.
type Provider interface {
	GetRate(ctx context.Context, assetCode string) (decimal.Decimal, error)
}

// StaticProvider serves rates from a fixed in-memory table. It stands in
// for the platform's market-data service behind the same interface.
type StaticProvider struct {
	rates map[string]decimal.Decimal
}

// NewStaticProvider creates a StaticProvider with the default rate table
// for the supported asset set.
func NewStaticProvider() *StaticProvider {
	return &StaticProvider{
		rates: map[string]decimal.Decimal{
			"BTC":  decimal.NewFromInt(60000),
			"ETH":  decimal.NewFromInt(3000),
			"SOL":  decimal.NewFromInt(150),
			"XRP":  decimal.NewFromFloat(0.55),
			"USDT": decimal.NewFromInt(1),
			"USDC": decimal.NewFromInt(1),
			"USD":  decimal.NewFromInt(1),
		},
	}
}

// NewStaticProviderWithRates creates a StaticProvider with a caller-supplied
// table. Useful for tests and for environments that pin rates.
func NewStaticProviderWithRates(rates map[string]decimal.Decimal) *StaticProvider {
	copied := make(map[string]decimal.Decimal, len(rates))
	for code, rate := range rates {
		copied[code] = rate
	}
	return &StaticProvider{rates: copied}
}

// GetRate returns the rate-to-settlement-currency for the given asset code.
func (p *StaticProvider) GetRate(_ context.Context, assetCode string) (decimal.Decimal, error) {
	rate, ok := p.rates[assetCode]
	if !ok {
		return decimal.Zero, fmt.Errorf("no rate for asset %q", assetCode)
	}
	return rate, nil
}

// Supported reports whether the provider knows the given asset code.
func (p *StaticProvider) Supported(assetCode string) bool {
	_, ok := p.rates[assetCode]
	return ok
}

// SupportedAssets returns the asset codes the provider can convert.
func (p *StaticProvider) SupportedAssets() []string {
	codes := make([]string, 0, len(p.rates))
	for code := range p.rates {
		codes = append(codes, code)
	}
	return codes
}
