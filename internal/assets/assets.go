package assets

import "fmt"

// Kind distinguishes file artifacts from directory artifacts.
type Kind string

const (
	KindFile      Kind = "file"
	KindDirectory Kind = "directory"
)

// ParseKind validates a kind read back from storage.
func ParseKind(value string) (Kind, error) {
	switch Kind(value) {
	case KindFile, KindDirectory:
		return Kind(value), nil
	}
	return "", fmt.Errorf("unknown asset kind %q", value)
}

// Tier classifies which access-controlled subtree an artifact is exported to.
type Tier string

const (
	TierGeneral   Tier = "GENERAL"
	TierProtected Tier = "PROTECTED"
)

// ParseTier validates a tier read back from storage.
func ParseTier(value string) (Tier, error) {
	switch Tier(value) {
	case TierGeneral, TierProtected:
		return Tier(value), nil
	}
	return "", fmt.Errorf("unknown access tier %q", value)
}

// Artifact is one exportable unit produced by an upstream pipeline stage.
// It is transient: nothing about an artifact is persisted until the whole
// interview batch has been copied and recorded in the ledger.
type Artifact struct {
	SourcePath string
	Kind       Kind
	Tier       Tier
	Tag        Tag
}

func (a Artifact) String() string {
	return fmt.Sprintf("%s[%s,%s] %s", a.Tag, a.Kind, a.Tier, a.SourcePath)
}
