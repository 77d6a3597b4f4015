package ledger

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Claim attempts to mark an interview as in-flight for this instance. The
// conditional insert either wins the race or leaves an existing claim
// untouched; the return value reports whether this claim id now holds the
// interview.
func (s *Store) Claim(ctx context.Context, interviewName, claimID string) (bool, error) {
	res, err := s.db.ExecContext(
		ctx,
		`INSERT INTO export_claims (interview_name, claim_id, claimed_at)
         VALUES (?, ?, ?)
         ON CONFLICT (interview_name) DO NOTHING`,
		interviewName,
		claimID,
		time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return false, fmt.Errorf("claim interview: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("claim rows affected: %w", err)
	}
	return affected > 0, nil
}

// ReleaseClaim drops a claim held by claimID. Releasing a claim owned by a
// different instance is a no-op.
func (s *Store) ReleaseClaim(ctx context.Context, interviewName, claimID string) error {
	_, err := s.db.ExecContext(
		ctx,
		`DELETE FROM export_claims WHERE interview_name = ? AND claim_id = ?`,
		interviewName,
		claimID,
	)
	if err != nil {
		return fmt.Errorf("release claim: %w", err)
	}
	return nil
}

// ReleaseStaleClaims drops claims older than the cutoff. A stale claim means
// an instance died mid-export; its interview becomes selectable again and
// the next selection re-checks the ledger.
func (s *Store) ReleaseStaleClaims(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.db.ExecContext(
		ctx,
		`DELETE FROM export_claims WHERE claimed_at < ?`,
		cutoff.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return 0, fmt.Errorf("release stale claims: %w", err)
	}
	return res.RowsAffected()
}

// Claims lists current claims ordered by age, oldest first.
func (s *Store) Claims(ctx context.Context) ([]Claim, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT interview_name, claim_id, claimed_at FROM export_claims ORDER BY claimed_at`,
	)
	if err != nil {
		return nil, fmt.Errorf("list claims: %w", err)
	}
	defer rows.Close()

	var claims []Claim
	for rows.Next() {
		var claim Claim
		var claimedRaw string
		if err := rows.Scan(&claim.InterviewName, &claim.ClaimID, &claimedRaw); err != nil {
			return nil, err
		}
		if claimed, err := parseTimeString(strings.TrimSpace(claimedRaw)); err == nil {
			claim.ClaimedAt = claimed
		}
		claims = append(claims, claim)
	}
	return claims, rows.Err()
}
