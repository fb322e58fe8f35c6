package ideogram

import (
	"path"
	"strings"

	"github.com/matzehuels/karyoview/pkg/genome"
)

// ImageFilename returns "<prefix>-<c>.png", or "<c>.png" without a prefix.
func ImageFilename(prefix string, c genome.Chromosome) string {
	if prefix == "" {
		return string(c) + ".png"
	}
	return prefix + "-" + string(c) + ".png"
}

// ClipPathID returns the SVG id of the clip path of one strip.
func ClipPathID(individualID string, c genome.Chromosome) string {
	return "clip-" + individualID + "-chr" + string(c)
}

// GroupID returns the SVG id of the group holding one strip.
func GroupID(individualID string, c genome.Chromosome) string {
	return individualID + "-chr" + string(c)
}

// TrackDir returns the conventional image directory of a track kind for
// one individual of a case: "<case>/<individual>/<kind>_images".
func TrackDir(caseID, individualID string, k TrackKind) string {
	return path.Join(caseID, individualID, k.Dir())
}

// imageHref joins a directory reference and a file name without touching
// the scheme of URLs.
func imageHref(ref, file string) string {
	if ref == "" {
		return file
	}
	return strings.TrimSuffix(ref, "/") + "/" + file
}
