// Package snapshot fetches the provider's top exchanges for BTC/USD and
// normalizes them into the view model consumed by presentation.
package snapshot

import (
	"encoding/json"
)

const (
	// FromSymbol is the asset being quoted.
	FromSymbol = "BTC"
	// ToSymbol is the quote currency.
	ToSymbol = "USD"
	// TopN is how many ranked exchanges a Snapshot keeps.
	TopN = 3
)

// ExchangeQuote is the normalized unit of a Snapshot.
type ExchangeQuote struct {
	Market       string  `json:"market" validate:"required"`
	Price        float64 `json:"price" validate:"gte=0"`
	Volume24Hour float64 `json:"volume24hour" validate:"gte=0"`
}

// Snapshot is an ordered, immutable sequence of quotes in provider rank order.
type Snapshot struct {
	quotes []ExchangeQuote
}

// New builds a Snapshot from quotes. The slice is copied.
func New(quotes []ExchangeQuote) Snapshot {
	if len(quotes) == 0 {
		return Snapshot{}
	}
	return Snapshot{quotes: append([]ExchangeQuote(nil), quotes...)}
}

// Len returns the number of quotes.
func (s Snapshot) Len() int { return len(s.quotes) }

// Quotes returns a copy of the quotes.
func (s Snapshot) Quotes() []ExchangeQuote {
	return append([]ExchangeQuote{}, s.quotes...)
}

// Labels returns the market identifiers in order.
func (s Snapshot) Labels() []string {
	out := make([]string, 0, len(s.quotes))
	for _, q := range s.quotes {
		out = append(out, q.Market)
	}
	return out
}

// Volumes returns the 24h volumes in order.
func (s Snapshot) Volumes() []float64 {
	out := make([]float64, 0, len(s.quotes))
	for _, q := range s.quotes {
		out = append(out, q.Volume24Hour)
	}
	return out
}

func (s Snapshot) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Quotes())
}
