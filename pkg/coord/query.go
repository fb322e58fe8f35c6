package coord

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/matzehuels/karyoview/pkg/genome"
)

// Bound is an optional non-negative coordinate. The zero value is absent.
type Bound struct {
	Value int
	Valid bool
}

// At returns a present bound.
func At(v int) Bound {
	return Bound{Value: v, Valid: true}
}

// MarshalJSON encodes an absent bound as null.
func (b Bound) MarshalJSON() ([]byte, error) {
	if !b.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(b.Value)
}

// UnmarshalJSON accepts null or a non-negative integer.
func (b *Bound) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*b = Bound{}
		return nil
	}
	var v int
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	if v < 0 {
		return fmt.Errorf("coordinate must not be negative: %d", v)
	}
	*b = At(v)
	return nil
}

// Padding records the "+n" or "-n" suffix applied while parsing. The zero
// value means no padding.
type Padding struct {
	Sign   byte
	Amount int
}

// IsZero reports whether no padding was given.
func (p Padding) IsZero() bool {
	return p.Sign == 0
}

func (p Padding) String() string {
	if p.IsZero() {
		return ""
	}
	return fmt.Sprintf("%c%d", p.Sign, p.Amount)
}

type paddingJSON struct {
	Sign   string `json:"sign"`
	Amount int    `json:"amount"`
}

// MarshalJSON encodes the zero padding as null.
func (p Padding) MarshalJSON() ([]byte, error) {
	if p.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(paddingJSON{Sign: string(p.Sign), Amount: p.Amount})
}

// UnmarshalJSON accepts null or {"sign": "+"|"-", "amount": n}.
func (p *Padding) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*p = Padding{}
		return nil
	}
	var v paddingJSON
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	if (v.Sign != "+" && v.Sign != "-") || v.Amount < 0 {
		return fmt.Errorf("invalid padding %q%d", v.Sign, v.Amount)
	}
	*p = Padding{Sign: v.Sign[0], Amount: v.Amount}
	return nil
}

// Query is a canonical position filter. When both bounds are present,
// Start.Value <= End.Value. Start and End already include the padding.
type Query struct {
	Chromosome genome.Chromosome `json:"chromosome"`
	Start      Bound             `json:"start"`
	End        Bound             `json:"end"`
	Padding    Padding           `json:"padding"`
}

// AnyQuery is the unconstrained query.
func AnyQuery() Query {
	return Query{Chromosome: genome.Any}
}

// IsAny reports whether q constrains nothing.
func (q Query) IsAny() bool {
	return q == AnyQuery()
}

// HasRange reports whether both bounds are present.
func (q Query) HasRange() bool {
	return q.Start.Valid && q.End.Valid
}

func (q Query) String() string {
	return Format(q)
}

// Format renders q canonically: "c:s-e" with both bounds, "c" otherwise,
// and "" for [genome.Any]. Padding is already folded into the bounds and
// is not written.
func Format(q Query) string {
	if !q.Chromosome.Valid() {
		return ""
	}
	if q.HasRange() {
		return fmt.Sprintf("%s:%d-%d", q.Chromosome, q.Start.Value, q.End.Value)
	}
	return string(q.Chromosome)
}
