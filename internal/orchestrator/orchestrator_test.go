package orchestrator

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"avexport/internal/assets"
	"avexport/internal/services"
)

func testArtifact(path string) assets.Artifact {
	return assets.Artifact{
		SourcePath: path,
		Kind:       assets.KindFile,
		Tier:       assets.TierProtected,
		Tag:        assets.TagStreams,
	}
}

// fakeSelector serves interviews per study in insertion order and removes
// them once they are handed out, mimicking the ledger gate after export.
type fakeSelector struct {
	mu       sync.Mutex
	backlog  map[string][]string
	selected []string
	queries  map[string]int
	queried  chan string

	collectErr error
	noArtifact map[string]bool
}

func newFakeSelector(backlog map[string][]string) *fakeSelector {
	return &fakeSelector{
		backlog:    backlog,
		queries:    make(map[string]int),
		noArtifact: make(map[string]bool),
	}
}

func (f *fakeSelector) NextReadyInterview(_ context.Context, studyID string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries[studyID]++
	if f.queried != nil {
		select {
		case f.queried <- studyID:
		default:
		}
	}
	queue := f.backlog[studyID]
	if len(queue) == 0 {
		return "", nil
	}
	interview := queue[0]
	f.backlog[studyID] = queue[1:]
	f.selected = append(f.selected, interview)
	return interview, nil
}

func (f *fakeSelector) CollectArtifacts(_ context.Context, interviewName string) ([]assets.Artifact, error) {
	if f.collectErr != nil {
		return nil, f.collectErr
	}
	if f.noArtifact[interviewName] {
		return nil, nil
	}
	return []assets.Artifact{testArtifact("/data/processed/" + interviewName + ".mp4")}, nil
}

type fakeExporter struct {
	mu       sync.Mutex
	exported []string
	failOn   map[string]error
}

func newFakeExporter() *fakeExporter {
	return &fakeExporter{failOn: make(map[string]error)}
}

func (f *fakeExporter) Export(_ context.Context, interviewName string, artifacts []assets.Artifact) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.failOn[interviewName]; err != nil {
		return 0, err
	}
	f.exported = append(f.exported, interviewName)
	return len(artifacts), nil
}

type fakeClaims struct {
	mu       sync.Mutex
	held     map[string]string
	denied   map[string]bool
	released []string
}

func newFakeClaims() *fakeClaims {
	return &fakeClaims{held: make(map[string]string), denied: make(map[string]bool)}
}

func (f *fakeClaims) Claim(_ context.Context, interviewName, claimID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.denied[interviewName] {
		return false, nil
	}
	if _, exists := f.held[interviewName]; exists {
		return false, nil
	}
	f.held[interviewName] = claimID
	return true, nil
}

func (f *fakeClaims) ReleaseClaim(_ context.Context, interviewName, claimID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.held[interviewName] == claimID {
		delete(f.held, interviewName)
		f.released = append(f.released, interviewName)
	}
	return nil
}

func (f *fakeClaims) ReleaseStaleClaims(context.Context, time.Time) (int64, error) {
	return 0, nil
}

func testOptions(studies ...string) Options {
	return Options{
		Studies:      studies,
		IdleSnooze:   time.Millisecond,
		ErrorRetry:   time.Millisecond,
		ClaimTimeout: time.Hour,
	}
}

func TestPassDrainsStudyBeforeAdvancing(t *testing.T) {
	selector := newFakeSelector(map[string][]string{
		"ChicagoA": {"ChicagoA-XX1-openInterview", "ChicagoA-XX2-openInterview"},
		"BostonB":  {"BostonB-YY1-openInterview"},
	})
	exporter := newFakeExporter()
	loop := New(testOptions("ChicagoA", "BostonB"), selector, exporter, newFakeClaims(), nil)

	if err := loop.runPass(context.Background()); err != nil {
		t.Fatalf("runPass: %v", err)
	}

	want := []string{"ChicagoA-XX1-openInterview", "ChicagoA-XX2-openInterview", "BostonB-YY1-openInterview"}
	if len(exporter.exported) != len(want) {
		t.Fatalf("exported %v, want %v", exporter.exported, want)
	}
	for i, name := range want {
		if exporter.exported[i] != name {
			t.Errorf("exported[%d] = %q, want %q", i, exporter.exported[i], name)
		}
	}
	if loop.exportedSinceReport != 3 {
		t.Errorf("exportedSinceReport = %d, want 3", loop.exportedSinceReport)
	}
}

func TestPassContinuesAfterExportFailure(t *testing.T) {
	selector := newFakeSelector(map[string][]string{
		"ChicagoA": {"ChicagoA-XX1-openInterview"},
		"BostonB":  {"BostonB-YY1-openInterview"},
	})
	exporter := newFakeExporter()
	exporter.failOn["ChicagoA-XX1-openInterview"] = services.Wrap(services.ErrTransfer, "transfer", "copy file", "boom", nil)
	claims := newFakeClaims()
	loop := New(testOptions("ChicagoA", "BostonB"), selector, exporter, claims, nil)

	if err := loop.runPass(context.Background()); err != nil {
		t.Fatalf("runPass: %v", err)
	}

	if len(exporter.exported) != 1 || exporter.exported[0] != "BostonB-YY1-openInterview" {
		t.Errorf("exported = %v, want only the BostonB interview", exporter.exported)
	}
	if loop.exportedSinceReport != 1 {
		t.Errorf("exportedSinceReport = %d, want 1", loop.exportedSinceReport)
	}
	// The failed interview's claim must be released so a later cycle can
	// retry it.
	if len(claims.held) != 0 {
		t.Errorf("claims still held after pass: %v", claims.held)
	}
}

func TestFatalExportErrorStopsRun(t *testing.T) {
	selector := newFakeSelector(map[string][]string{
		"ChicagoA": {"ChicagoA-XX1-openInterview"},
	})
	exporter := newFakeExporter()
	exporter.failOn["ChicagoA-XX1-openInterview"] = services.Wrap(services.ErrFatal, "transfer", "copy artifact", "unknown kind", nil)
	loop := New(testOptions("ChicagoA"), selector, exporter, newFakeClaims(), nil)

	err := loop.Run(context.Background())
	if !errors.Is(err, services.ErrFatal) {
		t.Fatalf("Run err = %v, want ErrFatal", err)
	}
}

func TestLostClaimSkipsInterview(t *testing.T) {
	selector := newFakeSelector(map[string][]string{
		"ChicagoA": {"ChicagoA-XX1-openInterview"},
	})
	exporter := newFakeExporter()
	claims := newFakeClaims()
	claims.denied["ChicagoA-XX1-openInterview"] = true
	loop := New(testOptions("ChicagoA"), selector, exporter, claims, nil)

	if err := loop.runPass(context.Background()); err != nil {
		t.Fatalf("runPass: %v", err)
	}
	if len(exporter.exported) != 0 {
		t.Errorf("exported = %v, want none", exporter.exported)
	}
}

func TestEmptyInterviewKeepsClaim(t *testing.T) {
	selector := newFakeSelector(map[string][]string{
		"ChicagoA": {"ChicagoA-XX1-openInterview"},
	})
	selector.noArtifact["ChicagoA-XX1-openInterview"] = true
	claims := newFakeClaims()
	loop := New(testOptions("ChicagoA"), selector, newFakeExporter(), claims, nil)

	if err := loop.runPass(context.Background()); err != nil {
		t.Fatalf("runPass: %v", err)
	}
	if _, held := claims.held["ChicagoA-XX1-openInterview"]; !held {
		t.Error("claim should be kept so the artifact-less interview is not re-selected immediately")
	}
}

func TestDryRunDoesNotRevisitInterviews(t *testing.T) {
	// In dry-run mode nothing is persisted, so selection would keep
	// returning the same interview; the loop must remember what it already
	// resolved.
	sticky := &stickySelector{interview: "ChicagoA-XX1-openInterview"}
	exporter := newFakeExporter()
	opts := testOptions("ChicagoA")
	opts.DryRun = true
	loop := New(opts, sticky, exporter, newFakeClaims(), nil)

	for pass := 0; pass < 3; pass++ {
		if err := loop.runPass(context.Background()); err != nil {
			t.Fatalf("runPass: %v", err)
		}
	}
	if len(exporter.exported) != 1 {
		t.Errorf("dry run exported %d times, want 1", len(exporter.exported))
	}
}

// stickySelector always offers the same interview, like a real database
// would in dry-run mode where no ledger row is ever written.
type stickySelector struct {
	interview string
}

func (s *stickySelector) NextReadyInterview(context.Context, string) (string, error) {
	return s.interview, nil
}

func (s *stickySelector) CollectArtifacts(_ context.Context, interviewName string) ([]assets.Artifact, error) {
	return []assets.Artifact{testArtifact("/data/processed/" + interviewName + ".mp4")}, nil
}

func TestRunSnoozesOncePerEmptyPass(t *testing.T) {
	selector := newFakeSelector(map[string][]string{
		"ChicagoA": nil, "BostonB": nil, "DenverC": nil,
	})
	selector.queried = make(chan string, 16)
	opts := testOptions("ChicagoA", "BostonB", "DenverC")
	opts.IdleSnooze = time.Hour
	loop := New(opts, selector, newFakeExporter(), newFakeClaims(), nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- loop.Run(ctx) }()

	// Wait until the last study has been queried, then give the loop a
	// moment to reach the snooze before cancelling.
	deadline := time.After(5 * time.Second)
	seen := map[string]bool{}
	for len(seen) < 3 {
		select {
		case study := <-selector.queried:
			seen[study] = true
		case <-deadline:
			t.Fatal("studies were not all queried in time")
		}
	}
	time.Sleep(50 * time.Millisecond)
	cancel()

	if err := <-done; err != nil {
		t.Fatalf("Run: %v", err)
	}
	selector.mu.Lock()
	defer selector.mu.Unlock()
	for study, count := range selector.queries {
		if count != 1 {
			t.Errorf("study %s queried %d times in one pass, want 1", study, count)
		}
	}
}
