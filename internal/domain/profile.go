// internal/domain/profile.go
package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math/big"
	"strings"
)

type Category string

const (
	Grocery   Category = "grocery"
	Dining    Category = "dining"
	Travel    Category = "travel"
	Shopping  Category = "shopping"
	Utilities Category = "utilities"
)

// MaxAmount bounds a single monthly category amount.
const MaxAmount int64 = 1_000_000_000_000

// Categories is the recognized set, in display order.
var Categories = []Category{Grocery, Dining, Travel, Shopping, Utilities}

func (c Category) index() int {
	for i, known := range Categories {
		if known == c {
			return i
		}
	}
	return -1
}

func (c Category) Valid() bool { return c.index() >= 0 }

// ParseCategory is case-insensitive and ignores surrounding space.
func ParseCategory(s string) (Category, bool) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	return c, c.Valid()
}

// SpendingProfile holds monthly spend per recognized category. It is a value
// type: copies never share state.
type SpendingProfile struct {
	amounts [5]int64
}

func (p SpendingProfile) Amount(c Category) int64 {
	i := c.index()
	if i < 0 {
		return 0
	}
	return p.amounts[i]
}

// With returns a copy with the category set. Unknown categories are ignored.
func (p SpendingProfile) With(c Category, amount int64) SpendingProfile {
	if i := c.index(); i >= 0 {
		p.amounts[i] = amount
	}
	return p
}

func (p SpendingProfile) Total() int64 {
	var total int64
	for _, v := range p.amounts {
		total += v
	}
	return total
}

// Key is a stable textual form used for cache keys.
func (p SpendingProfile) Key() string {
	parts := make([]string, len(Categories))
	for i, c := range Categories {
		parts[i] = fmt.Sprintf("%s=%d", c, p.amounts[i])
	}
	return strings.Join(parts, ",")
}

// Validate rejects negative amounts.
func (p SpendingProfile) Validate() error {
	for i, c := range Categories {
		if p.amounts[i] < 0 {
			return &Error{Code: CodeInvalidInput, Field: string(c), Message: ErrNegativeAmount.Error(), Err: ErrNegativeAmount}
		}
		if p.amounts[i] > MaxAmount {
			return &Error{Code: CodeInvalidInput, Field: string(c), Message: ErrAmountTooLarge.Error(), Err: ErrAmountTooLarge}
		}
	}
	return nil
}

func (p SpendingProfile) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, c := range Categories {
		if i > 0 {
			buf.WriteByte(',')
		}
		fmt.Fprintf(&buf, "%q:%d", c, p.amounts[i])
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (p *SpendingProfile) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return Invalid("profile", "must be a JSON object of category amounts")
	}
	parsed, err := ParseSpendingProfile(raw)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// ParseSpendingProfile builds a profile from decoded JSON. Unrecognized keys are
// ignored; recognized ones must be non-negative integers.
func ParseSpendingProfile(raw map[string]json.RawMessage) (SpendingProfile, error) {
	var p SpendingProfile
	seen := make(map[Category]bool, len(Categories))
	for key, value := range raw {
		c, ok := ParseCategory(key)
		if !ok {
			continue
		}
		if seen[c] {
			return SpendingProfile{}, Invalid(string(c), "category given more than once")
		}
		seen[c] = true
		amount, err := parseAmount(value)
		if err != nil {
			return SpendingProfile{}, &Error{Code: CodeInvalidInput, Field: string(c), Message: err.Error(), Err: err}
		}
		p.amounts[c.index()] = amount
	}
	return p, nil
}

func parseAmount(value json.RawMessage) (int64, error) {
	trimmed := bytes.TrimSpace(value)
	if len(trimmed) == 0 || trimmed[0] == '"' || bytes.Equal(trimmed, []byte("null")) {
		return 0, ErrNonNumeric
	}
	var num json.Number
	if err := json.Unmarshal(trimmed, &num); err != nil {
		return 0, ErrNonNumeric
	}
	if n, err := num.Int64(); err == nil {
		return checkRange(n)
	}
	// 5000.0 or 5e3 are still whole numbers.
	r, ok := new(big.Rat).SetString(num.String())
	if !ok {
		return 0, ErrNonNumeric
	}
	if r.Sign() < 0 {
		return 0, ErrNegativeAmount
	}
	if !r.IsInt() {
		return 0, ErrNotInteger
	}
	if !r.Num().IsInt64() {
		return 0, ErrAmountTooLarge
	}
	return checkRange(r.Num().Int64())
}

func checkRange(n int64) (int64, error) {
	if n < 0 {
		return 0, ErrNegativeAmount
	}
	if n > MaxAmount {
		return 0, ErrAmountTooLarge
	}
	return n, nil
}
