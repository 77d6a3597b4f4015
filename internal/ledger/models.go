package ledger

import (
	"time"

	"avexport/internal/assets"
)

// Record is one exported artifact: the immutable unit of the audit trail.
type Record struct {
	ID            int64
	InterviewName string
	AssetPath     string
	Kind          assets.Kind
	Tier          assets.Tier
	Tag           assets.Tag
	Destination   string
	ExportedAt    time.Time
}

// NewRecord builds a ledger record for a resolved artifact. ExportedAt is
// stamped at insert time, not here.
func NewRecord(interviewName string, artifact assets.Artifact, destination string) Record {
	return Record{
		InterviewName: interviewName,
		AssetPath:     artifact.SourcePath,
		Kind:          artifact.Kind,
		Tier:          artifact.Tier,
		Tag:           artifact.Tag,
		Destination:   destination,
	}
}

// Claim marks an interview as being processed by one exporter instance.
type Claim struct {
	InterviewName string
	ClaimID       string
	ClaimedAt     time.Time
}

// Stats aggregates ledger contents for diagnostics.
type Stats struct {
	Interviews int
	Artifacts  int
	ByTag      map[assets.Tag]int
}

// DatabaseHealth captures diagnostic information about the ledger database.
type DatabaseHealth struct {
	DBPath           string
	DatabaseExists   bool
	DatabaseReadable bool
	TableExists      bool
	TotalRecords     int
	IntegrityCheck   bool
	Error            string
}
