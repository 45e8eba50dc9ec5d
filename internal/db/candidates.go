package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/talent-match/internal/types"
)

const candidateColumns = `id, name, position, location, experience_level, expected_salary`

// GetCandidate retrieves one candidate with skills and interaction sets
// loaded, or (nil, nil) when no such candidate exists
func (db *DB) GetCandidate(ctx context.Context, id uuid.UUID) (*types.Candidate, error) {
	row := db.pool.QueryRow(ctx,
		`SELECT `+candidateColumns+` FROM candidates WHERE id = $1`, id)

	candidate, err := scanCandidate(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get candidate: %w", err)
	}

	candidates := []types.Candidate{*candidate}
	if err := db.loadCandidateSignals(ctx, candidates); err != nil {
		return nil, err
	}
	return &candidates[0], nil
}

// ListCandidates retrieves up to limit candidates with signals loaded
func (db *DB) ListCandidates(ctx context.Context, limit int) ([]types.Candidate, error) {
	return db.FindCandidates(ctx, types.CandidateFilter{Limit: limit})
}

// FindCandidates retrieves candidates matching the explicit filter
func (db *DB) FindCandidates(ctx context.Context, filter types.CandidateFilter) ([]types.Candidate, error) {
	query := `SELECT ` + candidateColumns + ` FROM candidates WHERE 1=1`
	args := []any{}
	argNum := 1

	if filter.Location != "" {
		query += fmt.Sprintf(" AND location ILIKE $%d", argNum)
		args = append(args, "%"+filter.Location+"%")
		argNum++
	}
	if filter.Experience != "" {
		query += fmt.Sprintf(" AND experience_level = $%d", argNum)
		args = append(args, string(filter.Experience))
		argNum++
	}
	if len(filter.Skills) > 0 {
		normalized := make([]string, 0, len(filter.Skills))
		for _, s := range filter.Skills {
			if n := types.NormalizeSkill(s); n != "" {
				normalized = append(normalized, n)
			}
		}
		query += fmt.Sprintf(
			" AND EXISTS (SELECT 1 FROM candidate_skills cs WHERE cs.candidate_id = candidates.id AND cs.skill = ANY($%d))",
			argNum)
		args = append(args, normalized)
		argNum++
	}

	query += " ORDER BY created_at ASC"
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argNum)
		args = append(args, filter.Limit)
	}

	rows, err := db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to find candidates: %w", err)
	}
	defer rows.Close()

	var candidates []types.Candidate
	for rows.Next() {
		candidate, err := scanCandidate(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan candidate: %w", err)
		}
		candidates = append(candidates, *candidate)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read candidates: %w", err)
	}

	if err := db.loadCandidateSignals(ctx, candidates); err != nil {
		return nil, err
	}
	return candidates, nil
}

// GetUserRole returns the marketplace role of a user
func (db *DB) GetUserRole(ctx context.Context, id uuid.UUID) (types.Role, error) {
	var role string
	err := db.pool.QueryRow(ctx,
		`SELECT role FROM users WHERE id = $1`, id).Scan(&role)
	if err != nil {
		if err == pgx.ErrNoRows {
			return "", fmt.Errorf("user not found: %s", id)
		}
		return "", fmt.Errorf("failed to get user role: %w", err)
	}
	return types.Role(role), nil
}

// loadCandidateSignals batch-loads skills and applied/viewed job sets for the
// given candidates. Three queries total, regardless of the candidate count.
func (db *DB) loadCandidateSignals(ctx context.Context, candidates []types.Candidate) error {
	if len(candidates) == 0 {
		return nil
	}

	index := make(map[uuid.UUID]*types.Candidate, len(candidates))
	ids := make([]uuid.UUID, len(candidates))
	for i := range candidates {
		index[candidates[i].ID] = &candidates[i]
		ids[i] = candidates[i].ID
	}

	rows, err := db.pool.Query(ctx,
		`SELECT candidate_id, skill FROM candidate_skills WHERE candidate_id = ANY($1)`, ids)
	if err != nil {
		return fmt.Errorf("failed to load candidate skills: %w", err)
	}
	if err := forEachPair(rows, func(candidateID uuid.UUID, skill string) {
		index[candidateID].Skills = append(index[candidateID].Skills, skill)
	}); err != nil {
		return err
	}

	appliedRows, err := db.pool.Query(ctx,
		`SELECT candidate_id, job_id FROM applications WHERE candidate_id = ANY($1)`, ids)
	if err != nil {
		return fmt.Errorf("failed to load applications: %w", err)
	}
	if err := forEachJobPair(appliedRows, func(candidateID, jobID uuid.UUID) {
		index[candidateID].AppliedJobIDs = append(index[candidateID].AppliedJobIDs, jobID)
	}); err != nil {
		return err
	}

	viewedRows, err := db.pool.Query(ctx,
		`SELECT candidate_id, job_id FROM job_views WHERE candidate_id = ANY($1)`, ids)
	if err != nil {
		return fmt.Errorf("failed to load job views: %w", err)
	}
	if err := forEachJobPair(viewedRows, func(candidateID, jobID uuid.UUID) {
		index[candidateID].ViewedJobIDs = append(index[candidateID].ViewedJobIDs, jobID)
	}); err != nil {
		return err
	}

	return nil
}

func scanCandidate(row pgx.Row) (*types.Candidate, error) {
	var candidate types.Candidate
	var position, location, experience *string

	err := row.Scan(&candidate.ID, &candidate.Name, &position, &location,
		&experience, &candidate.ExpectedSalary)
	if err != nil {
		return nil, err
	}

	if position != nil {
		candidate.Position = *position
	}
	if location != nil {
		candidate.Location = *location
	}
	if experience != nil {
		candidate.Experience = types.ExperienceLevel(*experience)
	}
	return &candidate, nil
}

func forEachPair(rows pgx.Rows, fn func(id uuid.UUID, value string)) error {
	defer rows.Close()
	for rows.Next() {
		var id uuid.UUID
		var value string
		if err := rows.Scan(&id, &value); err != nil {
			return fmt.Errorf("failed to scan row: %w", err)
		}
		fn(id, value)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to read rows: %w", err)
	}
	return nil
}

func forEachJobPair(rows pgx.Rows, fn func(candidateID, jobID uuid.UUID)) error {
	defer rows.Close()
	for rows.Next() {
		var candidateID, jobID uuid.UUID
		if err := rows.Scan(&candidateID, &jobID); err != nil {
			return fmt.Errorf("failed to scan row: %w", err)
		}
		fn(candidateID, jobID)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to read rows: %w", err)
	}
	return nil
}
