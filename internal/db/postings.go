package db

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/talent-match/internal/types"
)

const jobColumns = `id, title, company, description, requirements, skills,
	        location, remote_allowed, job_type, experience_level,
	        salary_min, salary_max, active, view_count, application_count, created_at`

// GetJob retrieves one posting, or (nil, nil) when it does not exist
func (db *DB) GetJob(ctx context.Context, id uuid.UUID) (*types.JobPosting, error) {
	row := db.pool.QueryRow(ctx,
		`SELECT `+jobColumns+` FROM job_postings WHERE id = $1`, id)

	job, err := scanJob(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get job posting: %w", err)
	}
	return job, nil
}

// GetJobs retrieves the postings for the given ids, skipping missing ones
func (db *DB) GetJobs(ctx context.Context, ids []uuid.UUID) ([]types.JobPosting, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	rows, err := db.pool.Query(ctx,
		`SELECT `+jobColumns+` FROM job_postings WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to get job postings: %w", err)
	}
	defer rows.Close()

	return collectJobs(rows)
}

// FindJobs retrieves postings matching the explicit filter, newest first
func (db *DB) FindJobs(ctx context.Context, filter types.JobFilter) ([]types.JobPosting, error) {
	query, args := buildJobQuery(filter, time.Now())

	rows, err := db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to find job postings: %w", err)
	}
	defer rows.Close()

	return collectJobs(rows)
}

// buildJobQuery assembles the dynamic WHERE clause for FindJobs
func buildJobQuery(filter types.JobFilter, now time.Time) (string, []any) {
	query := `SELECT ` + jobColumns + ` FROM job_postings WHERE 1=1`
	args := []any{}
	argNum := 1

	if filter.ActiveOnly {
		query += " AND active = TRUE"
	}
	if filter.Location != "" {
		query += fmt.Sprintf(" AND location ILIKE $%d", argNum)
		args = append(args, "%"+filter.Location+"%")
		argNum++
	}
	if filter.JobType != "" {
		query += fmt.Sprintf(" AND job_type = $%d", argNum)
		args = append(args, filter.JobType)
		argNum++
	}
	if filter.Experience != "" {
		query += fmt.Sprintf(" AND experience_level = $%d", argNum)
		args = append(args, string(filter.Experience))
		argNum++
	}
	if filter.SalaryMin != nil {
		query += fmt.Sprintf(" AND (salary_max IS NULL OR salary_max >= $%d)", argNum)
		args = append(args, *filter.SalaryMin)
		argNum++
	}
	if filter.SalaryMax != nil {
		query += fmt.Sprintf(" AND (salary_min IS NULL OR salary_min <= $%d)", argNum)
		args = append(args, *filter.SalaryMax)
		argNum++
	}
	if len(filter.Skills) > 0 {
		normalized := make([]string, 0, len(filter.Skills))
		for _, s := range filter.Skills {
			if n := types.NormalizeSkill(s); n != "" {
				normalized = append(normalized, n)
			}
		}
		query += fmt.Sprintf(" AND skills && $%d", argNum)
		args = append(args, normalized)
		argNum++
	}
	if filter.Company != "" {
		query += fmt.Sprintf(" AND company ILIKE $%d", argNum)
		args = append(args, "%"+filter.Company+"%")
		argNum++
	}
	if filter.MaxAgeDays > 0 {
		query += fmt.Sprintf(" AND created_at >= $%d", argNum)
		args = append(args, now.AddDate(0, 0, -filter.MaxAgeDays))
		argNum++
	}
	if filter.RemoteOnly {
		query += " AND remote_allowed = TRUE"
	}

	query += " ORDER BY created_at DESC"
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argNum)
		args = append(args, filter.Limit)
	}

	return query, args
}

func collectJobs(rows pgx.Rows) ([]types.JobPosting, error) {
	var jobs []types.JobPosting
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan job posting: %w", err)
		}
		jobs = append(jobs, *job)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read job postings: %w", err)
	}
	return jobs, nil
}

func scanJob(row pgx.Row) (*types.JobPosting, error) {
	var job types.JobPosting
	var description, requirements, jobType, experience *string

	err := row.Scan(&job.ID, &job.Title, &job.Company, &description, &requirements,
		&job.Skills, &job.Location, &job.RemoteAllowed, &jobType, &experience,
		&job.SalaryMin, &job.SalaryMax, &job.Active, &job.ViewCount,
		&job.ApplicationCount, &job.CreatedAt)
	if err != nil {
		return nil, err
	}

	if description != nil {
		job.Description = *description
	}
	if requirements != nil {
		job.Requirements = *requirements
	}
	if jobType != nil {
		job.JobType = *jobType
	}
	if experience != nil {
		job.Experience = types.ExperienceLevel(strings.ToLower(*experience))
	}
	return &job, nil
}
