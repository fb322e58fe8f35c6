package coord

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/matzehuels/karyoview/pkg/errors"
	"github.com/matzehuels/karyoview/pkg/genome"
)

// positionRegex is the full position grammar. Group 1 is the chromosome,
// groups 2 and 3 the bounds, groups 4 and 5 the optional padding.
var positionRegex = regexp.MustCompile(
	`(?i)^(?:chr)?(1[0-9]|2[0-2]|[1-9]|X|Y|MT)(?::([0-9]+)-([0-9]+)(?:([+-])([0-9]+))?)?$`)

// Parse reads raw position text. Invalid input yields [AnyQuery].
func Parse(raw string) Query {
	q, _ := ParseChecked(raw)
	return q
}

// ParseChecked reads raw position text and reports why it was rejected.
// Empty input is the unconstrained query and not an error. On error the
// returned query is [AnyQuery].
func ParseChecked(raw string) (Query, error) {
	text := strings.TrimSpace(strings.ReplaceAll(raw, ",", ""))
	if text == "" {
		return AnyQuery(), nil
	}

	m := positionRegex.FindStringSubmatch(text)
	if m == nil {
		return AnyQuery(), errors.New(errors.ErrCodeInvalidCoordinate, "cannot parse position %q", raw)
	}

	c, ok := genome.ParseChromosome(m[1])
	if !ok {
		return AnyQuery(), errors.New(errors.ErrCodeInvalidCoordinate, "unknown chromosome %q", m[1])
	}
	q := Query{Chromosome: c}
	if m[2] == "" {
		return q, nil
	}

	start, err := strconv.Atoi(m[2])
	if err != nil {
		return AnyQuery(), errors.Wrap(errors.ErrCodeInvalidCoordinate, err, "start out of range")
	}
	end, err := strconv.Atoi(m[3])
	if err != nil {
		return AnyQuery(), errors.Wrap(errors.ErrCodeInvalidCoordinate, err, "end out of range")
	}
	if start > end {
		return AnyQuery(), errors.New(errors.ErrCodeInvertedRange, "start %d is greater than end %d", start, end)
	}

	if m[4] != "" {
		amount, err := strconv.Atoi(m[5])
		if err != nil {
			return AnyQuery(), errors.Wrap(errors.ErrCodeInvalidCoordinate, err, "padding out of range")
		}
		q.Padding = Padding{Sign: m[4][0], Amount: amount}
		if start, end, err = pad(start, end, q.Padding); err != nil {
			return AnyQuery(), err
		}
	}

	q.Start, q.End = At(start), At(end)
	return q, nil
}

// pad applies p to the interval. The end moves by the written sign and the
// start by the opposite one.
func pad(start, end int, p Padding) (int, int, error) {
	switch p.Sign {
	case '+':
		if end > math.MaxInt-p.Amount {
			return 0, 0, errors.New(errors.ErrCodeInvalidCoordinate, "padded end out of range")
		}
		start, end = start-p.Amount, end+p.Amount
	case '-':
		if start > math.MaxInt-p.Amount {
			return 0, 0, errors.New(errors.ErrCodeInvalidCoordinate, "padded start out of range")
		}
		start, end = start+p.Amount, end-p.Amount
	}
	start, end = max(start, 0), max(end, 0)
	if start > end {
		return 0, 0, errors.New(errors.ErrCodeInvertedRange, "padding %c%d inverts the interval", p.Sign, p.Amount)
	}
	return start, end, nil
}

// Validate applies the filter form rules to q: bounds require a
// chromosome, start and end come together, and end is not before start.
func Validate(q Query) error {
	hasBound := q.Start.Valid || q.End.Valid
	switch {
	case q.Chromosome != genome.Any && !q.Chromosome.Valid():
		return errors.New(errors.ErrCodeInvalidCoordinate, "unknown chromosome %q", q.Chromosome)
	case hasBound && !q.Chromosome.Valid():
		return errors.New(errors.ErrCodeMissingChromosome, "a chromosome is required when start or end is given")
	case q.Start.Valid != q.End.Valid:
		return errors.New(errors.ErrCodeIncompleteRange, "both start and end are required")
	case q.HasRange() && q.End.Value < q.Start.Value:
		return errors.New(errors.ErrCodeInvertedRange, "end %d is before start %d", q.End.Value, q.Start.Value)
	case q.Start.Value < 0 || q.End.Value < 0:
		return errors.New(errors.ErrCodeInvalidCoordinate, "coordinates must not be negative")
	}
	return nil
}

// retargetRegex splits raw text into its chromosome token and the rest.
var retargetRegex = regexp.MustCompile(`(?i)^(?:chr)?(1[0-9]|2[0-2]|[1-9]|X|Y|MT)(:.*)?$`)

// RetargetText swaps the chromosome token of raw for c and keeps the
// remainder as typed. The numeric bounds are not checked against the new
// chromosome. [genome.Any] clears the text; text without a recognizable
// chromosome token is replaced by c alone.
func RetargetText(raw string, c genome.Chromosome) string {
	if !c.Valid() {
		return ""
	}
	m := retargetRegex.FindStringSubmatch(strings.TrimSpace(raw))
	if m == nil {
		return Format(Query{Chromosome: c})
	}
	return string(c) + m[2]
}
