package calculation

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// nonNegative maps NaN, infinities and negative values to zero.
func nonNegative(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}

// ParseQuantity turns a raw form value into a non-negative number.
// Anything that does not parse is zero.
func ParseQuantity(raw string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0
	}
	return nonNegative(v)
}

// MaxCount is the largest head count accepted; it fits a Postgres INTEGER.
const MaxCount = math.MaxInt32

// wholeCount accepts only whole numbers in [0, MaxCount]. Fractions and
// anything out of range are zero.
func wholeCount(v float64) int {
	v = nonNegative(v)
	if v > MaxCount || v != math.Trunc(v) {
		return 0
	}
	return int(v)
}

// ParseCount turns a raw form value into a non-negative whole count.
// It follows the same rule as Quantity.Count.
func ParseCount(raw string) int {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0
	}
	return wholeCount(v)
}

// Quantity is a float that never fails to decode. Numbers, numeric strings,
// null and garbage all land on a non-negative value, garbage as zero.
type Quantity float64

// UnmarshalJSON implements json.Unmarshaler.
func (q *Quantity) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)

	var n float64
	if err := json.Unmarshal(data, &n); err == nil {
		*q = Quantity(nonNegative(n))
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*q = Quantity(ParseQuantity(s))
		return nil
	}

	*q = 0
	return nil
}

// Float64 returns the value as a float64.
func (q Quantity) Float64() float64 {
	return float64(q)
}

// Count returns the value as a whole count. Fractional and out-of-range
// values are zero, as in ParseCount.
func (q Quantity) Count() int {
	return wholeCount(float64(q))
}

// Round rounds half away from zero to the given number of decimals. Used by
// views; results from this package are never rounded.
func Round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
