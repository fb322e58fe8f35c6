package genome

import (
	"strings"

	"github.com/matzehuels/karyoview/pkg/errors"
)

// Sex is the karyotypic sex of an individual.
type Sex int

const (
	SexUnknown Sex = iota
	SexMale
	SexFemale
)

// ParseSex reads PED codes ("0", "1", "2"), words ("male", "female",
// "unknown", "other") and single letters ("M", "F", "U").
func ParseSex(code string) (Sex, error) {
	switch strings.ToLower(strings.TrimSpace(code)) {
	case "1", "m", "male":
		return SexMale, nil
	case "2", "f", "female":
		return SexFemale, nil
	case "0", "u", "unknown", "other":
		return SexUnknown, nil
	}
	return SexUnknown, errors.New(errors.ErrCodeInvalidSex, "unrecognized sex code %q", code)
}

func (s Sex) String() string {
	switch s {
	case SexMale:
		return "male"
	case SexFemale:
		return "female"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s Sex) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Sex) UnmarshalText(b []byte) error {
	v, err := ParseSex(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}
