// Package billing holds the money arithmetic behind order totals and
// installment schedules. Amounts are kept as integer cents so that sums never
// drift; every conversion from a float goes through Round2.
package billing

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// Round2 rounds n to two decimal places using round(n*100)/100, half away
// from zero. NaN and infinities are treated as 0.
func Round2(n float64) float64 {
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return 0
	}
	return math.Round(n*100) / 100
}

// Amount is a BRL money value expressed in cents.
type Amount int64

// AmountOf converts a decimal value to an Amount, rounding with Round2.
func AmountOf(f float64) Amount {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return Amount(math.Round(f * 100))
}

// MaxAmount is the largest representable amount.
const MaxAmount = Amount(math.MaxInt64)

// Times returns a*n. ok is false when the product does not fit in an Amount.
func (a Amount) Times(n int) (Amount, bool) {
	if a < 0 || n < 0 {
		return 0, false
	}
	if a != 0 && Amount(n) > MaxAmount/a {
		return 0, false
	}
	return a * Amount(n), true
}

// Plus returns a+b for non-negative amounts. ok is false on overflow.
func (a Amount) Plus(b Amount) (Amount, bool) {
	if a < 0 || b < 0 || a > MaxAmount-b {
		return 0, false
	}
	return a + b, true
}

// Float64 returns the amount as a decimal value with two places.
func (a Amount) Float64() float64 {
	return float64(a) / 100
}

func (a Amount) String() string {
	sign := ""
	v := int64(a)
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)
}

// MarshalJSON encodes the amount as a plain JSON number, e.g. 33.34.
func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalJSON accepts a JSON number (or a numeric string) and rounds it to
// cents.
func (a *Amount) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*a = 0
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		var s string
		if json.Unmarshal(b, &s) != nil {
			return fmt.Errorf("amount: %w", err)
		}
		f, err = strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("amount: %w", err)
		}
	}
	*a = AmountOf(f)
	return nil
}

// divRound divides num by den (den > 0) rounding half away from zero.
func divRound(num, den int64) int64 {
	if num < 0 {
		return -divRound(-num, den)
	}
	return (2*num + den) / (2 * den)
}

// split divides total into parts shares where the last share absorbs the
// rounding residue. When rounding the share up would leave the last share
// negative, the share is truncated instead.
func split(total Amount, parts int) (share, last Amount) {
	n := Amount(parts)
	share = Amount(divRound(int64(total), int64(parts)))
	if share*(n-1) > total {
		share = total / n
	}
	return share, total - share*(n-1)
}
