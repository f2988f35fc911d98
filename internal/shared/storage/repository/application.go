package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"jobboard/internal/shared/model"
)

const applicationColumns = `id, job_id, applicant_id, status, created_at, updated_at`

const applicationViewSelect = `SELECT a.id, a.job_id, a.applicant_id, a.status, a.created_at, a.updated_at,
	j.id, j.title, j.location, j.employment_type, j.employer_id,
	u.id, u.name, u.email
	FROM applications a
	LEFT JOIN jobs j ON j.id = a.job_id
	LEFT JOIN users u ON u.id = a.applicant_id`

func scanApplication(row rowScanner) (*model.Application, error) {
	a := &model.Application{}
	if err := row.Scan(&a.ID, &a.JobID, &a.ApplicantID, &a.Status, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return nil, err
	}
	return a, nil
}

func scanApplicationView(row rowScanner) (*model.ApplicationView, error) {
	v := &model.ApplicationView{}
	var jobID, title, location, empType, employerID sql.NullString
	var userID, name, email sql.NullString
	if err := row.Scan(&v.ID, &v.JobID, &v.ApplicantID, &v.Status, &v.CreatedAt, &v.UpdatedAt,
		&jobID, &title, &location, &empType, &employerID,
		&userID, &name, &email); err != nil {
		return nil, err
	}
	if jobID.Valid {
		v.Job = &model.JobSummary{
			ID:             jobID.String,
			Title:          title.String,
			Location:       location.String,
			EmploymentType: model.EmploymentType(empType.String),
			EmployerID:     employerID.String,
		}
	}
	if userID.Valid {
		v.Applicant = &model.UserSummary{ID: userID.String, Name: name.String, Email: email.String}
	}
	return v, nil
}

// CreateApplication 创建申请，(job_id, applicant_id) 重复时返回 storage.ErrDuplicate，
// 职位已删除时返回 storage.ErrNotFound
func (s *Store) CreateApplication(ctx context.Context, app *model.Application) error {
	_, err := s.db.ExecContext(ctx, s.rebind(
		`INSERT INTO applications (`+applicationColumns+`) VALUES ($1, $2, $3, $4, $5, $6)`),
		app.ID, app.JobID, app.ApplicantID, string(app.Status), app.CreatedAt.UTC(), app.UpdatedAt.UTC(),
	)
	return s.wrapError(err)
}

// GetApplication 获取申请
func (s *Store) GetApplication(ctx context.Context, id string) (*model.Application, error) {
	row := s.db.QueryRowContext(ctx, s.rebind(
		`SELECT `+applicationColumns+` FROM applications WHERE id = $1`), id)
	a, err := scanApplication(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return a, err
}

// GetApplicationView 获取申请及其职位、申请人
func (s *Store) GetApplicationView(ctx context.Context, id string) (*model.ApplicationView, error) {
	row := s.db.QueryRowContext(ctx, s.rebind(applicationViewSelect+` WHERE a.id = $1`), id)
	v, err := scanApplicationView(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return v, err
}

// FindApplication 按 (职位, 申请人) 查找申请
func (s *Store) FindApplication(ctx context.Context, jobID, applicantID string) (*model.Application, error) {
	row := s.db.QueryRowContext(ctx, s.rebind(
		`SELECT `+applicationColumns+` FROM applications WHERE job_id = $1 AND applicant_id = $2`),
		jobID, applicantID)
	a, err := scanApplication(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return a, err
}

// UpdateApplicationStatus 更新申请状态
func (s *Store) UpdateApplicationStatus(ctx context.Context, id string, status model.ApplicationStatus) error {
	return s.execAffectingOne(ctx,
		`UPDATE applications SET status = $1, updated_at = $2 WHERE id = $3`,
		string(status), time.Now().UTC(), id,
	)
}

// DeleteApplication 删除申请
func (s *Store) DeleteApplication(ctx context.Context, id string) error {
	return s.execAffectingOne(ctx, `DELETE FROM applications WHERE id = $1`, id)
}

// ListApplications 按条件列出申请（最新在前）
// EmployerID 通过 JOIN 在查询层面限定为该雇主名下职位的申请
func (s *Store) ListApplications(ctx context.Context, filter model.ApplicationFilter) ([]*model.ApplicationView, error) {
	var fb filterBuilder
	if filter.ApplicantID != "" {
		fb.add(`a.applicant_id = ?`, filter.ApplicantID)
	}
	if filter.EmployerID != "" {
		fb.add(`j.employer_id = ?`, filter.EmployerID)
	}
	if filter.JobID != "" {
		fb.add(`a.job_id = ?`, filter.JobID)
	}
	if filter.Status != "" {
		fb.add(`a.status = ?`, string(filter.Status))
	}
	query := s.whereQuery(applicationViewSelect, fb.conds, "ORDER BY a.created_at DESC, a.id")

	rows, err := s.db.QueryContext(ctx, query, fb.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	apps := []*model.ApplicationView{}
	for rows.Next() {
		v, err := scanApplicationView(rows)
		if err != nil {
			return nil, err
		}
		apps = append(apps, v)
	}
	return apps, rows.Err()
}
