package assets_test

import (
	"testing"

	"avexport/internal/assets"
)

func TestTagLayoutDispatch(t *testing.T) {
	cases := []struct {
		tag    assets.Tag
		layout assets.Layout
	}{
		{assets.TagStreams, assets.LayoutStructured},
		{assets.TagFrames, assets.LayoutStructured},
		{assets.TagOpenFace, assets.LayoutStructured},
		{assets.TagFacePipeline, assets.LayoutFlattened},
	}
	for _, tc := range cases {
		if got := tc.tag.Layout(); got != tc.layout {
			t.Errorf("%s: layout = %v, want %v", tc.tag, got, tc.layout)
		}
	}
}

func TestTagRetention(t *testing.T) {
	if !assets.TagFrames.RetainSource() {
		t.Error("frames source should be retained after export")
	}
	for _, tag := range []assets.Tag{assets.TagStreams, assets.TagOpenFace, assets.TagFacePipeline} {
		if tag.RetainSource() {
			t.Errorf("%s source should be reclaimed after export", tag)
		}
	}
}

func TestParseTagRejectsUnknown(t *testing.T) {
	if _, err := assets.ParseTag("transcripts"); err == nil {
		t.Error("expected error for unknown tag")
	}
	tag, err := assets.ParseTag("openface")
	if err != nil {
		t.Fatalf("ParseTag: %v", err)
	}
	if tag != assets.TagOpenFace {
		t.Errorf("ParseTag = %q", tag)
	}
}

func TestParseKindAndTier(t *testing.T) {
	if _, err := assets.ParseKind("symlink"); err == nil {
		t.Error("expected error for unknown kind")
	}
	if _, err := assets.ParseTier("SECRET"); err == nil {
		t.Error("expected error for unknown tier")
	}
	if kind, err := assets.ParseKind("directory"); err != nil || kind != assets.KindDirectory {
		t.Errorf("ParseKind = %q, %v", kind, err)
	}
	if tier, err := assets.ParseTier("PROTECTED"); err != nil || tier != assets.TierProtected {
		t.Errorf("ParseTier = %q, %v", tier, err)
	}
}
