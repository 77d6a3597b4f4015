package transfer_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"avexport/internal/assets"
	"avexport/internal/ledger"
	"avexport/internal/services"
	"avexport/internal/testsupport"
	"avexport/internal/transfer"
)

const testInterview = "ChicagoA-XX1-openInterview-day0001"

func streamArtifact(path string) assets.Artifact {
	return assets.Artifact{
		SourcePath: path,
		Kind:       assets.KindFile,
		Tier:       assets.TierProtected,
		Tag:        assets.TagStreams,
	}
}

func TestExportCopiesRecordsAndReclaims(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	base := testsupport.BaseDir(cfg)

	streamPath := filepath.Join(base, "processed", "decrypted", "video", "stream_1.mp4")
	testsupport.WriteFile(t, streamPath, 128)

	framesDir := filepath.Join(base, "processed", "decrypted", "frames", "interview")
	testsupport.WriteFile(t, filepath.Join(framesDir, "frame_000.jpg"), 16)
	testsupport.WriteFile(t, filepath.Join(framesDir, "frame_001.jpg"), 16)

	artifacts := []assets.Artifact{
		streamArtifact(streamPath),
		{
			SourcePath: framesDir,
			Kind:       assets.KindDirectory,
			Tier:       assets.TierProtected,
			Tag:        assets.TagFrames,
		},
	}

	engine := transfer.NewEngine(cfg, store, nil)
	exported, err := engine.Export(context.Background(), testInterview, artifacts)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if exported != 2 {
		t.Errorf("exported = %d, want 2", exported)
	}

	exportBase := filepath.Join(cfg.Paths.DataRoot, "PROTECTED", "ChicagoA", "processed", "XX1", "interviews", "open")
	if _, err := os.Stat(filepath.Join(exportBase, "video", "stream_1.mp4")); err != nil {
		t.Errorf("exported stream missing: %v", err)
	}
	if _, err := os.Stat(filepath.Join(exportBase, "frames", "interview", "frame_001.jpg")); err != nil {
		t.Errorf("exported frame missing: %v", err)
	}

	// Streams are reclaimed after the ledger commit; frames stay at source.
	if _, err := os.Stat(streamPath); !os.IsNotExist(err) {
		t.Errorf("stream source not reclaimed, stat err = %v", err)
	}
	if _, err := os.Stat(framesDir); err != nil {
		t.Errorf("frames source should be retained: %v", err)
	}

	records, err := store.ByInterview(context.Background(), testInterview)
	if err != nil {
		t.Fatalf("ByInterview: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("ledger records = %d, want 2", len(records))
	}
	byTag := map[assets.Tag]ledger.Record{}
	for _, record := range records {
		byTag[record.Tag] = record
	}
	if byTag[assets.TagStreams].Destination != filepath.Join(exportBase, "video", "stream_1.mp4") {
		t.Errorf("stream destination = %q", byTag[assets.TagStreams].Destination)
	}
	if byTag[assets.TagFrames].AssetPath != framesDir {
		t.Errorf("frames source = %q", byTag[assets.TagFrames].AssetPath)
	}
}

func TestExportAbortsBatchOnCopyFailure(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	base := testsupport.BaseDir(cfg)

	firstPath := filepath.Join(base, "processed", "video", "stream_1.mp4")
	testsupport.WriteFile(t, firstPath, 64)
	missingPath := filepath.Join(base, "processed", "video", "stream_2.mp4")
	thirdPath := filepath.Join(base, "processed", "video", "stream_3.mp4")
	testsupport.WriteFile(t, thirdPath, 64)

	engine := transfer.NewEngine(cfg, store, nil)
	_, err := engine.Export(context.Background(), testInterview, []assets.Artifact{
		streamArtifact(firstPath),
		streamArtifact(missingPath),
		streamArtifact(thirdPath),
	})
	if !errors.Is(err, services.ErrTransfer) {
		t.Fatalf("err = %v, want ErrTransfer", err)
	}

	// No ledger rows, no reclaimed sources: the interview must remain
	// eligible for a clean retry.
	records, lerr := store.ByInterview(context.Background(), testInterview)
	if lerr != nil {
		t.Fatalf("ByInterview: %v", lerr)
	}
	if len(records) != 0 {
		t.Errorf("ledger records = %d, want 0", len(records))
	}
	if _, serr := os.Stat(firstPath); serr != nil {
		t.Errorf("first source must survive an aborted batch: %v", serr)
	}
	if _, serr := os.Stat(thirdPath); serr != nil {
		t.Errorf("third source must survive an aborted batch: %v", serr)
	}
}

func TestExportUnresolvableNameLeavesNoTrace(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	base := testsupport.BaseDir(cfg)

	streamPath := filepath.Join(base, "processed", "video", "stream_1.mp4")
	testsupport.WriteFile(t, streamPath, 64)

	engine := transfer.NewEngine(cfg, store, nil)
	_, err := engine.Export(context.Background(), "garbage", []assets.Artifact{streamArtifact(streamPath)})
	if !errors.Is(err, services.ErrParse) {
		t.Fatalf("err = %v, want ErrParse", err)
	}
	if _, serr := os.Stat(streamPath); serr != nil {
		t.Errorf("source must survive a failed resolution: %v", serr)
	}
}

func TestExportDryRunHasNoSideEffects(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithDryRun())
	store := testsupport.MustOpenStore(t, cfg)
	base := testsupport.BaseDir(cfg)

	streamPath := filepath.Join(base, "processed", "video", "stream_1.mp4")
	testsupport.WriteFile(t, streamPath, 64)

	engine := transfer.NewEngine(cfg, store, nil)
	exported, err := engine.Export(context.Background(), testInterview, []assets.Artifact{streamArtifact(streamPath)})
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if exported != 1 {
		t.Errorf("exported = %d, want 1", exported)
	}

	if _, serr := os.Stat(streamPath); serr != nil {
		t.Errorf("dry run must not touch sources: %v", serr)
	}
	exportBase := filepath.Join(cfg.Paths.DataRoot, "PROTECTED")
	if _, serr := os.Stat(exportBase); !os.IsNotExist(serr) {
		t.Errorf("dry run must not create export tree, stat err = %v", serr)
	}
	records, lerr := store.ByInterview(context.Background(), testInterview)
	if lerr != nil {
		t.Fatalf("ByInterview: %v", lerr)
	}
	if len(records) != 0 {
		t.Errorf("dry run wrote %d ledger records", len(records))
	}
}
