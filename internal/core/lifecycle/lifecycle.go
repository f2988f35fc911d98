// Package lifecycle 求职申请生命周期
//
// 状态机：
//
//	(none)  --apply-->    PENDING
//	any     --decide-->   ACCEPTED | REJECTED
//	PENDING --withdraw--> (deleted)
//
// 同一 (job, applicant) 至多一条申请，由存储层唯一索引兜底。
package lifecycle

import (
	"context"
	"strings"
	"time"

	"jobboard/internal/core/policy"
	"jobboard/internal/shared/apperr"
	"jobboard/internal/shared/model"
	"jobboard/internal/shared/storage"

	"github.com/cockroachdb/errors"
)

// Store 生命周期服务依赖的存储
type Store interface {
	storage.JobStore
	storage.ApplicationStore
}

// Service 申请生命周期服务
type Service struct {
	store Store
	now   func() time.Time
}

// New 创建申请生命周期服务
func New(store Store) *Service {
	return &Service{
		store: store,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// Apply 求职者申请职位，新申请处于 PENDING
func (s *Service) Apply(ctx context.Context, actor policy.Actor, jobID string) (*model.ApplicationView, error) {
	if err := policy.Authorize(actor, policy.ActionApply, policy.Target{}); err != nil {
		return nil, err
	}
	jobID = strings.TrimSpace(jobID)
	if jobID == "" {
		return nil, apperr.Validation("jobId is required")
	}

	job, err := s.store.GetJob(ctx, jobID)
	if err != nil {
		return nil, apperr.Wrap(err, "get job")
	}
	if job == nil {
		return nil, apperr.NotFound("job not found")
	}

	existing, err := s.store.FindApplication(ctx, job.ID, actor.ID)
	if err != nil {
		return nil, apperr.Wrap(err, "find application")
	}
	if existing != nil {
		return nil, apperr.Conflict("you have already applied for this job")
	}

	now := s.now()
	app := &model.Application{
		ID:          model.NewID("app"),
		JobID:       job.ID,
		ApplicantID: actor.ID,
		Status:      model.ApplicationStatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.store.CreateApplication(ctx, app); err != nil {
		// 并发申请由唯一索引拦截
		if errors.Is(err, storage.ErrDuplicate) {
			return nil, apperr.Conflict("you have already applied for this job")
		}
		// 职位在查询后被删除
		if errors.Is(err, storage.ErrNotFound) {
			return nil, apperr.NotFound("job not found")
		}
		return nil, apperr.Wrap(err, "create application")
	}
	return LoadView(ctx, s.store, app.ID)
}

// Decide 职位所属雇主或管理员接受/拒绝申请
// 已决策的申请允许再次决策，后写入者生效
func (s *Service) Decide(ctx context.Context, actor policy.Actor, appID string, status string) (*model.ApplicationView, error) {
	decision, err := model.ParseDecision(status)
	if err != nil {
		return nil, apperr.Validation("%s", err.Error())
	}

	app, err := Load(ctx, s.store, appID)
	if err != nil {
		return nil, err
	}
	job, err := s.store.GetJob(ctx, app.JobID)
	if err != nil {
		return nil, apperr.Wrap(err, "get job")
	}
	if job == nil {
		return nil, apperr.NotFound("job not found")
	}
	if err := policy.Authorize(actor, policy.ActionDecideApplication, policy.Target{Job: job, Application: app}); err != nil {
		return nil, err
	}

	return SetStatus(ctx, s.store, app.ID, decision)
}

// Withdraw 申请人撤回 PENDING 状态的申请（删除记录）
func (s *Service) Withdraw(ctx context.Context, actor policy.Actor, appID string) error {
	app, err := Load(ctx, s.store, appID)
	if err != nil {
		return err
	}
	if err := policy.Authorize(actor, policy.ActionWithdrawApplication, policy.Target{Application: app}); err != nil {
		return err
	}
	if app.Status != model.ApplicationStatusPending {
		return apperr.InvalidTransition("cannot withdraw a processed application (status %s)", app.Status)
	}

	if err := s.store.DeleteApplication(ctx, app.ID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return apperr.NotFound("application not found")
		}
		return apperr.Wrap(err, "delete application")
	}
	return nil
}

// Get 申请人查看自己的申请详情
func (s *Service) Get(ctx context.Context, actor policy.Actor, appID string) (*model.ApplicationView, error) {
	view, err := LoadView(ctx, s.store, appID)
	if err != nil {
		return nil, err
	}
	if err := policy.Authorize(actor, policy.ActionViewApplication, policy.Target{Application: &view.Application}); err != nil {
		return nil, err
	}
	return view, nil
}

// ListMine 求职者自己的全部申请
func (s *Service) ListMine(ctx context.Context, actor policy.Actor) ([]*model.ApplicationView, error) {
	if err := policy.Authorize(actor, policy.ActionListOwnApplications, policy.Target{}); err != nil {
		return nil, err
	}
	return s.list(ctx, model.ApplicationFilter{ApplicantID: actor.ID})
}

// ListForEmployer 雇主名下所有职位收到的申请，可按状态过滤
func (s *Service) ListForEmployer(ctx context.Context, actor policy.Actor, status string) ([]*model.ApplicationView, error) {
	if err := policy.Authorize(actor, policy.ActionListEmployerApplications, policy.Target{}); err != nil {
		return nil, err
	}
	st, err := parseStatusFilter(status)
	if err != nil {
		return nil, err
	}
	return s.list(ctx, model.ApplicationFilter{EmployerID: actor.ID, Status: st})
}

// ListAll 管理员查看全部申请，可按状态过滤
func (s *Service) ListAll(ctx context.Context, actor policy.Actor, status string) ([]*model.ApplicationView, error) {
	if err := policy.Authorize(actor, policy.ActionAdminListApplications, policy.Target{}); err != nil {
		return nil, err
	}
	st, err := parseStatusFilter(status)
	if err != nil {
		return nil, err
	}
	return s.list(ctx, model.ApplicationFilter{Status: st})
}

func (s *Service) list(ctx context.Context, filter model.ApplicationFilter) ([]*model.ApplicationView, error) {
	apps, err := s.store.ListApplications(ctx, filter)
	if err != nil {
		return nil, apperr.Wrap(err, "list applications")
	}
	return apps, nil
}

// ============================================================================
// 共享辅助（管理员覆写复用）
// ============================================================================

// Load 读取申请，不存在时返回 NotFound
func Load(ctx context.Context, store storage.ApplicationStore, appID string) (*model.Application, error) {
	app, err := store.GetApplication(ctx, appID)
	if err != nil {
		return nil, apperr.Wrap(err, "get application")
	}
	if app == nil {
		return nil, apperr.NotFound("application not found")
	}
	return app, nil
}

// LoadView 读取带关联信息的申请，不存在时返回 NotFound
func LoadView(ctx context.Context, store storage.ApplicationStore, appID string) (*model.ApplicationView, error) {
	view, err := store.GetApplicationView(ctx, appID)
	if err != nil {
		return nil, apperr.Wrap(err, "get application")
	}
	if view == nil {
		return nil, apperr.NotFound("application not found")
	}
	return view, nil
}

// SetStatus 写入申请状态并返回最新视图，不做权限判定
func SetStatus(ctx context.Context, store storage.ApplicationStore, appID string, status model.ApplicationStatus) (*model.ApplicationView, error) {
	if err := store.UpdateApplicationStatus(ctx, appID, status); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, apperr.NotFound("application not found")
		}
		return nil, apperr.Wrap(err, "update application status")
	}
	return LoadView(ctx, store, appID)
}

func parseStatusFilter(status string) (model.ApplicationStatus, error) {
	if strings.TrimSpace(status) == "" {
		return "", nil
	}
	st, err := model.ParseApplicationStatus(status)
	if err != nil {
		return "", apperr.Validation("%s", err.Error())
	}
	return st, nil
}
