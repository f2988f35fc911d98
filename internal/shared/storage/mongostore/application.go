package mongostore

import (
	"context"
	"time"

	"jobboard/internal/shared/model"
	"jobboard/internal/shared/storage"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// ============================================================================
// ApplicationStore
// ============================================================================

// CreateApplication 写入申请，(job_id, applicant_id) 重复时返回 storage.ErrDuplicate
//
// 插入后复查职位：DeleteJob 的级联删除可能已在插入前完成，
// 此时撤销本次插入并返回 storage.ErrNotFound
func (s *Store) CreateApplication(ctx context.Context, app *model.Application) error {
	if err := insertOne(ctx, s.col(ColApplications), app); err != nil {
		return err
	}
	job, err := s.GetJob(ctx, app.JobID)
	if err != nil {
		return err
	}
	if job == nil {
		if _, err := s.col(ColApplications).DeleteOne(ctx, bson.D{{Key: "_id", Value: app.ID}}); err != nil {
			return wrapError(err)
		}
		return storage.ErrNotFound
	}
	return nil
}

func (s *Store) GetApplication(ctx context.Context, id string) (*model.Application, error) {
	return findOne[model.Application](ctx, s.col(ColApplications), bson.D{{Key: "_id", Value: id}})
}

func (s *Store) GetApplicationView(ctx context.Context, id string) (*model.ApplicationView, error) {
	app, err := s.GetApplication(ctx, id)
	if app == nil || err != nil {
		return nil, err
	}
	views, err := s.resolveApplicationViews(ctx, []*model.Application{app})
	if err != nil {
		return nil, err
	}
	return views[0], nil
}

func (s *Store) FindApplication(ctx context.Context, jobID, applicantID string) (*model.Application, error) {
	return findOne[model.Application](ctx, s.col(ColApplications), bson.D{
		{Key: "job_id", Value: jobID},
		{Key: "applicant_id", Value: applicantID},
	})
}

func (s *Store) UpdateApplicationStatus(ctx context.Context, id string, status model.ApplicationStatus) error {
	return updateFields(ctx, s.col(ColApplications), id, bson.D{
		{Key: "status", Value: status},
		{Key: "updated_at", Value: time.Now().UTC()},
	})
}

func (s *Store) DeleteApplication(ctx context.Context, id string) error {
	return deleteByID(ctx, s.col(ColApplications), id)
}

// ListApplications 按条件列出申请
// EmployerID 先取该雇主的职位 ID，再以 job_id $in 过滤
func (s *Store) ListApplications(ctx context.Context, filter model.ApplicationFilter) ([]*model.ApplicationView, error) {
	f := bson.D{}
	if filter.ApplicantID != "" {
		f = append(f, bson.E{Key: "applicant_id", Value: filter.ApplicantID})
	}
	if filter.EmployerID != "" {
		jobIDs, err := s.jobIDsByEmployer(ctx, filter.EmployerID)
		if err != nil {
			return nil, err
		}
		if len(jobIDs) == 0 {
			return []*model.ApplicationView{}, nil
		}
		f = append(f, bson.E{Key: "job_id", Value: bson.D{{Key: "$in", Value: jobIDs}}})
	}
	if filter.JobID != "" {
		f = append(f, bson.E{Key: "job_id", Value: filter.JobID})
	}
	if filter.Status != "" {
		f = append(f, bson.E{Key: "status", Value: filter.Status})
	}

	apps, err := findMany[model.Application](ctx, s.col(ColApplications), f, newestFirst())
	if err != nil {
		return nil, err
	}
	return s.resolveApplicationViews(ctx, apps)
}

func (s *Store) jobIDsByEmployer(ctx context.Context, employerID string) ([]string, error) {
	opts := options.Find().SetProjection(bson.D{{Key: "_id", Value: 1}})
	jobs, err := findMany[model.Job](ctx, s.col(ColJobs), bson.D{{Key: "employer_id", Value: employerID}}, opts)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(jobs))
	for _, j := range jobs {
		ids = append(ids, j.ID)
	}
	return ids, nil
}

// resolveApplicationViews 为申请填充职位与申请人信息
func (s *Store) resolveApplicationViews(ctx context.Context, apps []*model.Application) ([]*model.ApplicationView, error) {
	jobIDs := make([]string, 0, len(apps))
	userIDs := make([]string, 0, len(apps))
	for _, a := range apps {
		jobIDs = append(jobIDs, a.JobID)
		userIDs = append(userIDs, a.ApplicantID)
	}

	jobs, err := findByIDs(ctx, s.col(ColJobs), uniqueStrings(jobIDs), func(j *model.Job) string { return j.ID })
	if err != nil {
		return nil, err
	}
	users, err := s.userSummaries(ctx, userIDs)
	if err != nil {
		return nil, err
	}

	views := make([]*model.ApplicationView, 0, len(apps))
	for _, a := range apps {
		views = append(views, &model.ApplicationView{
			Application: *a,
			Job:         jobs[a.JobID].Summary(),
			Applicant:   users[a.ApplicantID],
		})
	}
	return views, nil
}
