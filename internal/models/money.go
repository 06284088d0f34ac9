package models

import (
	"encoding/json"
	"strconv"
)

// Money is a monetary amount that can unmarshal both JSON strings ("10.00",
// the form the Shopify Admin API uses) and bare numbers.
type Money float64

// UnmarshalJSON implements json.Unmarshaler for both encodings.
func (m *Money) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if s == "" {
			*m = 0
			return nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return err
		}
		*m = Money(f)
		return nil
	}

	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*m = Money(f)
	return nil
}

// MarshalJSON emits a plain number for API responses.
func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(float64(m))
}
