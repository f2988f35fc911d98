// Package catalog 职位目录
//
// 负责职位的创建、修改、删除与公开查询。
// 判定顺序：
//   - Create: 角色权限 → 输入校验（非雇主先得到 Forbidden）
//   - Update: 输入校验 → 职位存在 → 归属权限
//   - Delete: 职位存在 → 归属权限
package catalog

import (
	"context"
	"time"

	"jobboard/internal/core/policy"
	"jobboard/internal/shared/apperr"
	"jobboard/internal/shared/model"
	"jobboard/internal/shared/storage"

	"github.com/cockroachdb/errors"
)

// Service 职位目录服务
type Service struct {
	store storage.JobStore
	now   func() time.Time
}

// New 创建职位目录服务
func New(store storage.JobStore) *Service {
	return &Service{
		store: store,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// Create 发布职位，发布者成为职位所有者
func (s *Service) Create(ctx context.Context, actor policy.Actor, fields model.JobFields) (*model.JobView, error) {
	if err := policy.Authorize(actor, policy.ActionCreateJob, policy.Target{}); err != nil {
		return nil, err
	}
	fields, err := validateFields(fields)
	if err != nil {
		return nil, err
	}

	now := s.now()
	job := &model.Job{
		ID:             model.NewID("job"),
		Title:          fields.Title,
		Description:    fields.Description,
		Location:       fields.Location,
		EmploymentType: model.EmploymentType(fields.EmploymentType),
		EmployerID:     actor.ID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.store.CreateJob(ctx, job); err != nil {
		return nil, apperr.Wrap(err, "create job")
	}
	return s.view(ctx, job.ID)
}

// Update 整体替换职位字段，EmployerID 与 CreatedAt 保持不变
func (s *Service) Update(ctx context.Context, actor policy.Actor, jobID string, fields model.JobFields) (*model.JobView, error) {
	fields, err := validateFields(fields)
	if err != nil {
		return nil, err
	}
	job, err := s.load(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if err := policy.Authorize(actor, policy.ActionUpdateJob, policy.Target{Job: job}); err != nil {
		return nil, err
	}

	job.Title = fields.Title
	job.Description = fields.Description
	job.Location = fields.Location
	job.EmploymentType = model.EmploymentType(fields.EmploymentType)
	job.UpdatedAt = s.now()
	if err := s.store.UpdateJob(ctx, job); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, apperr.NotFound("job not found")
		}
		return nil, apperr.Wrap(err, "update job")
	}
	return s.view(ctx, job.ID)
}

// Delete 删除职位，其申请随之级联删除
func (s *Service) Delete(ctx context.Context, actor policy.Actor, jobID string) error {
	job, err := s.load(ctx, jobID)
	if err != nil {
		return err
	}
	if err := policy.Authorize(actor, policy.ActionDeleteJob, policy.Target{Job: job}); err != nil {
		return err
	}
	return DeleteJob(ctx, s.store, job.ID)
}

// List 公开职位列表，各过滤条件取交集
func (s *Service) List(ctx context.Context, filter model.JobFilter) ([]*model.JobView, error) {
	if filter.EmploymentType != "" && !filter.EmploymentType.Valid() {
		return nil, apperr.Validation("invalid employmentType %q", filter.EmploymentType)
	}
	jobs, err := s.store.ListJobs(ctx, filter)
	if err != nil {
		return nil, apperr.Wrap(err, "list jobs")
	}
	return jobs, nil
}

// Get 公开职位详情
func (s *Service) Get(ctx context.Context, jobID string) (*model.JobView, error) {
	return s.view(ctx, jobID)
}

// DeleteJob 删除职位并把存储层错误映射为业务错误
// 供管理员强制删除复用
func DeleteJob(ctx context.Context, store storage.JobStore, jobID string) error {
	if err := store.DeleteJob(ctx, jobID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return apperr.NotFound("job not found")
		}
		return apperr.Wrap(err, "delete job")
	}
	return nil
}

func (s *Service) load(ctx context.Context, jobID string) (*model.Job, error) {
	job, err := s.store.GetJob(ctx, jobID)
	if err != nil {
		return nil, apperr.Wrap(err, "get job")
	}
	if job == nil {
		return nil, apperr.NotFound("job not found")
	}
	return job, nil
}

func (s *Service) view(ctx context.Context, jobID string) (*model.JobView, error) {
	v, err := s.store.GetJobView(ctx, jobID)
	if err != nil {
		return nil, apperr.Wrap(err, "get job")
	}
	if v == nil {
		return nil, apperr.NotFound("job not found")
	}
	return v, nil
}

func validateFields(fields model.JobFields) (model.JobFields, error) {
	fields = fields.Normalize()
	if err := model.Validate(fields); err != nil {
		return fields, apperr.Validation("%s", err.Error())
	}
	return fields, nil
}
