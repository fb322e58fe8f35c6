package genome

import (
	"strings"

	"github.com/matzehuels/karyoview/pkg/errors"
)

// Supported genome builds.
const (
	Build37 = "37"
	Build38 = "38"
)

// Builds lists the supported genome builds.
var Builds = []string{Build37, Build38}

// ValidateBuild normalizes a build alias (GRCh37, hg19, 38, ...) to "37" or "38".
func ValidateBuild(build string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(build)) {
	case "37", "grch37", "hg19":
		return Build37, nil
	case "38", "grch38", "hg38":
		return Build38, nil
	}
	return "", errors.New(errors.ErrCodeInvalidBuild, "unsupported genome build %q (want 37 or 38)", build)
}
