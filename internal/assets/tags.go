package assets

import "fmt"

// Tag identifies the pipeline family an artifact came from.
type Tag string

const (
	// TagStreams marks per-role video stream files split from the source
	// recording.
	TagStreams Tag = "streams"
	// TagFrames marks the sampled-frames directory. Frames are cheap to
	// regenerate and stay useful in place, so their source is retained.
	TagFrames Tag = "frames"
	// TagOpenFace marks per-role OpenFace feature output directories.
	TagOpenFace Tag = "openface"
	// TagFacePipeline marks externally produced face-processing bundles that
	// arrive as a single named unit and are flattened under the interview
	// folder.
	TagFacePipeline Tag = "face_processing_pipeline"
)

var knownTags = map[Tag]struct{}{
	TagStreams:      {},
	TagFrames:       {},
	TagOpenFace:     {},
	TagFacePipeline: {},
}

// ParseTag validates a tag read back from storage.
func ParseTag(value string) (Tag, error) {
	if _, ok := knownTags[Tag(value)]; !ok {
		return "", fmt.Errorf("unknown asset tag %q", value)
	}
	return Tag(value), nil
}

// Layout selects how a destination path is derived from a source path.
type Layout int

const (
	// LayoutStructured preserves the source's path segments after the last
	// processing-root marker.
	LayoutStructured Layout = iota
	// LayoutFlattened places the artifact's base name directly under the
	// interview export folder.
	LayoutFlattened
)

// Layout returns the destination layout for the tag family.
func (t Tag) Layout() Layout {
	if t == TagFacePipeline {
		return LayoutFlattened
	}
	return LayoutStructured
}

// RetainSource reports whether the source is left in place after a
// successful export instead of being reclaimed.
func (t Tag) RetainSource() bool {
	return t == TagFrames
}
