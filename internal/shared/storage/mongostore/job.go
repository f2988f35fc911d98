package mongostore

import (
	"context"

	"jobboard/internal/shared/model"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// ============================================================================
// JobStore
// ============================================================================

func (s *Store) CreateJob(ctx context.Context, job *model.Job) error {
	return insertOne(ctx, s.col(ColJobs), job)
}

func (s *Store) GetJob(ctx context.Context, id string) (*model.Job, error) {
	return findOne[model.Job](ctx, s.col(ColJobs), bson.D{{Key: "_id", Value: id}})
}

func (s *Store) GetJobView(ctx context.Context, id string) (*model.JobView, error) {
	job, err := s.GetJob(ctx, id)
	if job == nil || err != nil {
		return nil, err
	}
	views, err := s.resolveJobViews(ctx, []*model.Job{job})
	if err != nil {
		return nil, err
	}
	return views[0], nil
}

// UpdateJob 整体替换可编辑字段，employer_id / created_at 不变
func (s *Store) UpdateJob(ctx context.Context, job *model.Job) error {
	return updateFields(ctx, s.col(ColJobs), job.ID, bson.D{
		{Key: "title", Value: job.Title},
		{Key: "description", Value: job.Description},
		{Key: "location", Value: job.Location},
		{Key: "employment_type", Value: job.EmploymentType},
		{Key: "updated_at", Value: job.UpdatedAt},
	})
}

// DeleteJob 删除职位后级联删除其申请，并发插入的申请由 CreateApplication 复查撤销
func (s *Store) DeleteJob(ctx context.Context, id string) error {
	if err := deleteByID(ctx, s.col(ColJobs), id); err != nil {
		return err
	}
	_, err := s.col(ColApplications).DeleteMany(ctx, bson.D{{Key: "job_id", Value: id}})
	return wrapError(err)
}

func (s *Store) ListJobs(ctx context.Context, filter model.JobFilter) ([]*model.JobView, error) {
	f := bson.D{}
	if filter.Title != "" {
		f = append(f, bson.E{Key: "title", Value: containsFilter(filter.Title)})
	}
	if filter.Location != "" {
		f = append(f, bson.E{Key: "location", Value: containsFilter(filter.Location)})
	}
	if filter.EmploymentType != "" {
		f = append(f, bson.E{Key: "employment_type", Value: filter.EmploymentType})
	}
	if filter.EmployerID != "" {
		f = append(f, bson.E{Key: "employer_id", Value: filter.EmployerID})
	}

	jobs, err := findMany[model.Job](ctx, s.col(ColJobs), f, newestFirst())
	if err != nil {
		return nil, err
	}
	return s.resolveJobViews(ctx, jobs)
}

// resolveJobViews 为职位填充雇主信息
func (s *Store) resolveJobViews(ctx context.Context, jobs []*model.Job) ([]*model.JobView, error) {
	ids := make([]string, 0, len(jobs))
	for _, j := range jobs {
		ids = append(ids, j.EmployerID)
	}
	employers, err := s.userSummaries(ctx, ids)
	if err != nil {
		return nil, err
	}

	views := make([]*model.JobView, 0, len(jobs))
	for _, j := range jobs {
		views = append(views, &model.JobView{Job: *j, Employer: employers[j.EmployerID]})
	}
	return views, nil
}
