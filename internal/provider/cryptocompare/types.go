package cryptocompare

import (
	"encoding/json"
)

// ResponseError is the value of Response in an error envelope.
const ResponseError = "Error"

// TopExchangesResponse is the body of /data/top/exchanges/full.
//
// Error bodies share the envelope:
//
//	{"Response":"Error","Message":"You need a valid auth key...","Type":1,"Data":{}}
type TopExchangesResponse struct {
	Response   string            `json:"Response,omitempty"`
	Message    string            `json:"Message,omitempty"`
	HasWarning bool              `json:"HasWarning,omitempty"`
	Type       int               `json:"Type,omitempty"`
	Data       *TopExchangesData `json:"Data,omitempty"`
}

// TopExchangesData holds the ranked exchange list.
type TopExchangesData struct {
	// Exchanges is nil when the field is absent from the body.
	Exchanges *[]Exchange `json:"Exchanges,omitempty"`
}

// ExchangeList returns the exchange entries and whether the container was present.
func (d *TopExchangesData) ExchangeList() ([]Exchange, bool) {
	if d == nil || d.Exchanges == nil {
		return nil, false
	}
	return *d.Exchanges, true
}

// Exchange is one ranked entry. Fields are nil when absent, null or of an
// unexpected JSON type.
type Exchange struct {
	Market         *string  `json:"MARKET,omitempty"`
	FromSymbol     *string  `json:"FROMSYMBOL,omitempty"`
	ToSymbol       *string  `json:"TOSYMBOL,omitempty"`
	Price          *float64 `json:"PRICE,omitempty"`
	Volume24Hour   *float64 `json:"VOLUME24HOUR,omitempty"`
	Volume24HourTo *float64 `json:"VOLUME24HOURTO,omitempty"`
	LastUpdate     *int64   `json:"LASTUPDATE,omitempty"`
}

// UnmarshalJSON decodes every field independently so that one bad field
// does not reject the whole payload.
func (e *Exchange) UnmarshalJSON(b []byte) error {
	// {
	//   "MARKET": "Coinbase",
	//   "FROMSYMBOL": "BTC",
	//   "TOSYMBOL": "USD",
	//   "PRICE": 67123.45,
	//   "VOLUME24HOUR": 812.3,
	//   "LASTUPDATE": 1717171717
	// }
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(b, &fields); err != nil {
		// Anything that is not an object leaves the entry empty.
		*e = Exchange{}
		return nil
	}
	*e = Exchange{
		Market:         parseNullableField[string](fields, "MARKET"),
		FromSymbol:     parseNullableField[string](fields, "FROMSYMBOL"),
		ToSymbol:       parseNullableField[string](fields, "TOSYMBOL"),
		Price:          parseNullableField[float64](fields, "PRICE"),
		Volume24Hour:   parseNullableField[float64](fields, "VOLUME24HOUR"),
		Volume24HourTo: parseNullableField[float64](fields, "VOLUME24HOURTO"),
		LastUpdate:     parseNullableField[int64](fields, "LASTUPDATE"),
	}
	return nil
}

// parseNullableField is a helper function to parse a nullable field.
func parseNullableField[T any](fields map[string]json.RawMessage, key string) *T {
	raw, ok := fields[key]
	if !ok {
		return nil
	}
	var v *T
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil
	}
	return v
}
