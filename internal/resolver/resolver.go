package resolver

import (
	"fmt"
	"path/filepath"
	"strings"

	"avexport/internal/assets"
	"avexport/internal/dpdash"
	"avexport/internal/services"
)

// Processing-root markers, most specific first. The relative destination
// path starts after the last occurrence of the first marker found.
var rootMarkers = []string{"decrypted", "processed"}

// Resolve computes the destination path for one artifact of an interview.
func Resolve(exportRoot, interviewName string, artifact assets.Artifact) (string, error) {
	name, err := dpdash.Parse(interviewName)
	if err != nil {
		return "", services.Wrap(services.ErrParse, "resolver", "parse interview name", interviewName, err)
	}

	base := filepath.Join(
		exportRoot,
		string(artifact.Tier),
		name.Study,
		"processed",
		name.Subject,
		"interviews",
		dpdash.TypeLabel(name.DataType),
	)

	switch artifact.Tag.Layout() {
	case assets.LayoutFlattened:
		return filepath.Join(base, filepath.Base(artifact.SourcePath)), nil
	case assets.LayoutStructured:
		relative, err := relativeBelowMarker(artifact.SourcePath)
		if err != nil {
			return "", services.Wrap(services.ErrTransfer, "resolver", "resolve destination", artifact.SourcePath, err)
		}
		return filepath.Join(base, relative), nil
	}
	return "", services.Wrap(services.ErrFatal, "resolver", "resolve destination", fmt.Sprintf("unhandled layout for tag %q", artifact.Tag), nil)
}

// relativeBelowMarker strips everything up to and including the last
// processing-root marker segment from the source path.
func relativeBelowMarker(sourcePath string) (string, error) {
	segments := strings.Split(filepath.Clean(sourcePath), string(filepath.Separator))
	for _, marker := range rootMarkers {
		idx := lastIndex(segments, marker)
		if idx < 0 {
			continue
		}
		if idx == len(segments)-1 {
			return "", fmt.Errorf("marker %q is the final segment of %q", marker, sourcePath)
		}
		return filepath.Join(segments[idx+1:]...), nil
	}
	return "", fmt.Errorf("no processing-root marker in %q", sourcePath)
}

func lastIndex(segments []string, marker string) int {
	for i := len(segments) - 1; i >= 0; i-- {
		if segments[i] == marker {
			return i
		}
	}
	return -1
}
