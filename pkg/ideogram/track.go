package ideogram

import (
	"strings"

	"github.com/matzehuels/karyoview/pkg/errors"
)

// TrackKind identifies an image layer of a chromosome.
type TrackKind int

const (
	Ideogram TrackKind = iota
	Autozygous
	Coverage
	UPDRegions
	ROH
)

// TrackKinds lists the overlay kinds in stacking order.
var TrackKinds = []TrackKind{Autozygous, Coverage, UPDRegions, ROH}

func (k TrackKind) String() string {
	switch k {
	case Ideogram:
		return "ideogram"
	case Autozygous:
		return "autozygous"
	case Coverage:
		return "coverage"
	case UPDRegions:
		return "upd_regions"
	case ROH:
		return "roh"
	}
	return "unknown"
}

// Prefix is the image file name prefix of the kind.
func (k TrackKind) Prefix() string {
	if k == Ideogram {
		return "chromosome"
	}
	return k.String()
}

// Dir is the per-individual image directory of the kind.
func (k TrackKind) Dir() string {
	if k == Ideogram {
		return "ideograms"
	}
	return k.String() + "_images"
}

// Offset is the vertical distance of the kind below the ideogram origin.
func (k TrackKind) Offset() int {
	switch k {
	case Autozygous:
		return 30
	case Coverage:
		return 60
	case UPDRegions:
		return 90
	case ROH:
		return 120
	}
	return 0
}

// ParseTrackKind accepts the kind names used in case files.
func ParseTrackKind(s string) (TrackKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "ideogram", "ideograms":
		return Ideogram, nil
	case "autozygous", "autozygosity":
		return Autozygous, nil
	case "coverage":
		return Coverage, nil
	case "upd_regions", "upd", "updregions":
		return UPDRegions, nil
	case "roh":
		return ROH, nil
	}
	return Ideogram, errors.New(errors.ErrCodeInvalidInput, "unknown track kind %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (k TrackKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *TrackKind) UnmarshalText(b []byte) error {
	v, err := ParseTrackKind(string(b))
	if err != nil {
		return err
	}
	*k = v
	return nil
}
