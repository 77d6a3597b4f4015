package discovery

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"avexport/internal/assets"
	"avexport/internal/logging"
	"avexport/internal/services"
)

// Discovery reads pipeline completion state from the shared database.
type Discovery struct {
	db     *sql.DB
	logger *slog.Logger
}

// New constructs a Discovery over the shared database handle.
func New(db *sql.DB, logger *slog.Logger) *Discovery {
	return &Discovery{
		db:     db,
		logger: logging.NewComponentLogger(logger, "discovery"),
	}
}

// NextReadyInterview selects one interview in the study whose upstream
// processing is complete and that has neither a ledger entry nor an active
// claim. Selection is uniformly random among candidates. Returns "" when the
// study's backlog is empty.
func (d *Discovery) NextReadyInterview(ctx context.Context, studyID string) (string, error) {
	var interviewName string
	err := d.db.QueryRowContext(
		ctx,
		`SELECT pdf_reports.interview_name
         FROM pdf_reports
         LEFT JOIN load_openface USING (interview_name)
         WHERE study_id = ?
           AND interview_name NOT IN (SELECT interview_name FROM exported_assets)
           AND interview_name NOT IN (SELECT interview_name FROM export_claims)
         ORDER BY RANDOM()
         LIMIT 1`,
		studyID,
	).Scan(&interviewName)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", services.Wrap(services.ErrQuery, "discovery", "next ready interview", studyID, err)
	}
	return interviewName, nil
}

// CollectArtifacts enumerates the artifact families for one interview:
// per-role video stream files, at most one sampled-frames directory derived
// from the stream source video, and per-role OpenFace output directories.
func (d *Discovery) CollectArtifacts(ctx context.Context, interviewName string) ([]assets.Artifact, error) {
	var artifacts []assets.Artifact

	streams, videoPath, err := d.streamArtifacts(ctx, interviewName)
	if err != nil {
		return nil, err
	}
	artifacts = append(artifacts, streams...)

	if frames := framesArtifact(videoPath); frames != nil {
		artifacts = append(artifacts, *frames)
	}

	openface, err := d.openfaceArtifacts(ctx, interviewName)
	if err != nil {
		return nil, err
	}
	artifacts = append(artifacts, openface...)

	return artifacts, nil
}

func (d *Discovery) streamArtifacts(ctx context.Context, interviewName string) ([]assets.Artifact, string, error) {
	rows, err := d.db.QueryContext(
		ctx,
		`SELECT vs_path, video_path FROM video_streams WHERE interview_name = ? ORDER BY ir_role`,
		interviewName,
	)
	if err != nil {
		return nil, "", services.Wrap(services.ErrQuery, "discovery", "video streams", interviewName, err)
	}
	defer rows.Close()

	var artifacts []assets.Artifact
	var videoPath string
	for rows.Next() {
		var vsPath, vPath string
		if err := rows.Scan(&vsPath, &vPath); err != nil {
			return nil, "", services.Wrap(services.ErrQuery, "discovery", "scan video stream", interviewName, err)
		}
		if videoPath == "" {
			videoPath = vPath
		}
		artifacts = append(artifacts, assets.Artifact{
			SourcePath: vsPath,
			Kind:       assets.KindFile,
			Tier:       assets.TierProtected,
			Tag:        assets.TagStreams,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, "", services.Wrap(services.ErrQuery, "discovery", "video streams", interviewName, err)
	}
	return artifacts, videoPath, nil
}

// framesArtifact derives the sampled-frames directory from the source video
// location: <video dir>/frames/<video stem>. The directory is optional; when
// it does not exist the family contributes nothing.
func framesArtifact(videoPath string) *assets.Artifact {
	if strings.TrimSpace(videoPath) == "" {
		return nil
	}
	stem := strings.TrimSuffix(filepath.Base(videoPath), filepath.Ext(videoPath))
	framesPath := filepath.Join(filepath.Dir(videoPath), "frames", stem)
	info, err := os.Stat(framesPath)
	if err != nil || !info.IsDir() {
		return nil
	}
	return &assets.Artifact{
		SourcePath: framesPath,
		Kind:       assets.KindDirectory,
		Tier:       assets.TierProtected,
		Tag:        assets.TagFrames,
	}
}

func (d *Discovery) openfaceArtifacts(ctx context.Context, interviewName string) ([]assets.Artifact, error) {
	rows, err := d.db.QueryContext(
		ctx,
		`SELECT of_processed_path FROM openface WHERE interview_name = ? ORDER BY ir_role`,
		interviewName,
	)
	if err != nil {
		return nil, services.Wrap(services.ErrQuery, "discovery", "openface outputs", interviewName, err)
	}
	defer rows.Close()

	var artifacts []assets.Artifact
	for rows.Next() {
		var processedPath string
		if err := rows.Scan(&processedPath); err != nil {
			return nil, services.Wrap(services.ErrQuery, "discovery", "scan openface output", interviewName, err)
		}
		artifacts = append(artifacts, assets.Artifact{
			SourcePath: processedPath,
			Kind:       assets.KindDirectory,
			Tier:       assets.TierProtected,
			Tag:        assets.TagOpenFace,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, services.Wrap(services.ErrQuery, "discovery", "openface outputs", interviewName, err)
	}
	return artifacts, nil
}
