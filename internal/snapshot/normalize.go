package snapshot

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"exchangesnapshot/internal/provider/cryptocompare"
)

var validate = validator.New()

// Normalize keeps the first n exchanges in provider order and projects each
// into an ExchangeQuote. An entry missing MARKET, PRICE or VOLUME24HOUR, or
// carrying an empty market or a negative number, is dropped; lower-ranked
// entries are not pulled in to replace it. A payload without the exchange
// container fails with ErrFetchFailed.
func Normalize(payload *cryptocompare.TopExchangesResponse, n int) (Snapshot, error) {
	s, _, err := normalize(payload, n)
	return s, err
}

// normalize also reports how many of the selected entries were dropped.
func normalize(payload *cryptocompare.TopExchangesResponse, n int) (Snapshot, int, error) {
	if payload == nil || payload.Data == nil {
		return Snapshot{}, 0, fmt.Errorf("%w: payload has no Data", ErrFetchFailed)
	}
	list, ok := payload.Data.ExchangeList()
	if !ok {
		return Snapshot{}, 0, fmt.Errorf("%w: payload has no Data.Exchanges", ErrFetchFailed)
	}

	if n < 0 {
		n = 0
	}
	if len(list) > n {
		list = list[:n]
	}

	quotes := make([]ExchangeQuote, 0, len(list))
	dropped := 0
	for _, e := range list {
		q, ok := project(e)
		if !ok {
			dropped++
			continue
		}
		quotes = append(quotes, q)
	}
	return Snapshot{quotes: quotes}, dropped, nil
}

func project(e cryptocompare.Exchange) (ExchangeQuote, bool) {
	if e.Market == nil || e.Price == nil || e.Volume24Hour == nil {
		return ExchangeQuote{}, false
	}
	q := ExchangeQuote{
		Market:       strings.TrimSpace(*e.Market),
		Price:        *e.Price,
		Volume24Hour: *e.Volume24Hour,
	}
	if err := validate.Struct(q); err != nil {
		return ExchangeQuote{}, false
	}
	return q, true
}
