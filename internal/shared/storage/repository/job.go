package repository

import (
	"context"
	"database/sql"
	"errors"

	"jobboard/internal/shared/model"
	"jobboard/internal/shared/storage/dbutil"
)

const jobViewSelect = `SELECT j.id, j.title, j.description, j.location, j.employment_type, j.employer_id,
	j.created_at, j.updated_at, u.id, u.name, u.email
	FROM jobs j LEFT JOIN users u ON u.id = j.employer_id`

func scanJobView(row rowScanner) (*model.JobView, error) {
	v := &model.JobView{}
	var empID, empName, empEmail sql.NullString
	if err := row.Scan(&v.ID, &v.Title, &v.Description, &v.Location, &v.EmploymentType,
		&v.EmployerID, &v.CreatedAt, &v.UpdatedAt, &empID, &empName, &empEmail); err != nil {
		return nil, err
	}
	if empID.Valid {
		v.Employer = &model.UserSummary{ID: empID.String, Name: empName.String, Email: empEmail.String}
	}
	return v, nil
}

// CreateJob 创建职位
func (s *Store) CreateJob(ctx context.Context, job *model.Job) error {
	_, err := s.db.ExecContext(ctx, s.rebind(
		`INSERT INTO jobs (id, title, description, location, employment_type, employer_id, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`),
		job.ID, job.Title, job.Description, job.Location, string(job.EmploymentType),
		job.EmployerID, job.CreatedAt.UTC(), job.UpdatedAt.UTC(),
	)
	return s.wrapError(err)
}

// GetJob 获取职位
func (s *Store) GetJob(ctx context.Context, id string) (*model.Job, error) {
	v, err := s.GetJobView(ctx, id)
	if v == nil || err != nil {
		return nil, err
	}
	job := v.Job
	return &job, nil
}

// GetJobView 获取职位及其雇主信息
func (s *Store) GetJobView(ctx context.Context, id string) (*model.JobView, error) {
	row := s.db.QueryRowContext(ctx, s.rebind(jobViewSelect+` WHERE j.id = $1`), id)
	v, err := scanJobView(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return v, err
}

// UpdateJob 整体替换职位的可编辑字段，employer_id 与 created_at 不变
func (s *Store) UpdateJob(ctx context.Context, job *model.Job) error {
	return s.execAffectingOne(ctx,
		`UPDATE jobs SET title = $1, description = $2, location = $3, employment_type = $4, updated_at = $5
		 WHERE id = $6`,
		job.Title, job.Description, job.Location, string(job.EmploymentType), job.UpdatedAt.UTC(), job.ID,
	)
}

// DeleteJob 删除职位及其全部申请（同一事务）
func (s *Store) DeleteJob(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, s.rebind(`DELETE FROM applications WHERE job_id = $1`), id); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, s.rebind(`DELETE FROM jobs WHERE id = $1`), id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return s.wrapError(sql.ErrNoRows)
	}
	return tx.Commit()
}

// ListJobs 按条件列出职位（最新在前）
func (s *Store) ListJobs(ctx context.Context, filter model.JobFilter) ([]*model.JobView, error) {
	like := s.dialect.CaseInsensitiveLike()
	var fb filterBuilder
	if filter.Title != "" {
		fb.add(`j.title `+like+` ? ESCAPE '\'`, dbutil.ContainsPattern(filter.Title))
	}
	if filter.Location != "" {
		fb.add(`j.location `+like+` ? ESCAPE '\'`, dbutil.ContainsPattern(filter.Location))
	}
	if filter.EmploymentType != "" {
		fb.add(`j.employment_type = ?`, string(filter.EmploymentType))
	}
	if filter.EmployerID != "" {
		fb.add(`j.employer_id = ?`, filter.EmployerID)
	}
	query := s.whereQuery(jobViewSelect, fb.conds, "ORDER BY j.created_at DESC, j.id")

	rows, err := s.db.QueryContext(ctx, query, fb.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	jobs := []*model.JobView{}
	for rows.Next() {
		v, err := scanJobView(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, v)
	}
	return jobs, rows.Err()
}
