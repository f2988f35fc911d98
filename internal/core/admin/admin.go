// Package admin 管理员覆写操作
//
// 管理员可以修改任意用户角色、强制删除职位、强制决策申请，
// 不受归属限制，但仍遵守输入合法性校验。
package admin

import (
	"context"
	"strings"

	"jobboard/internal/core/catalog"
	"jobboard/internal/core/lifecycle"
	"jobboard/internal/core/policy"
	"jobboard/internal/shared/apperr"
	"jobboard/internal/shared/model"
	"jobboard/internal/shared/storage"

	"github.com/cockroachdb/errors"
)

// Store 管理员服务依赖的存储
type Store interface {
	storage.UserStore
	storage.JobStore
	storage.ApplicationStore
}

// Service 管理员服务
type Service struct {
	store Store
}

// New 创建管理员服务
func New(store Store) *Service {
	return &Service{store: store}
}

// SetUserRole 修改用户角色，允许管理员降级自己
func (s *Service) SetUserRole(ctx context.Context, actor policy.Actor, userID string, role string) (*model.User, error) {
	if err := policy.Authorize(actor, policy.ActionManageUsers, policy.Target{}); err != nil {
		return nil, err
	}
	newRole, err := model.ParseUserRole(role)
	if err != nil {
		return nil, apperr.Validation("%s", err.Error())
	}

	if err := s.store.UpdateUserRole(ctx, userID, newRole); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, apperr.NotFound("user not found")
		}
		return nil, apperr.Wrap(err, "update user role")
	}
	user, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		return nil, apperr.Wrap(err, "get user")
	}
	if user == nil {
		return nil, apperr.NotFound("user not found")
	}
	return user, nil
}

// ForceJobDelete 删除任意职位（级联删除申请）
func (s *Service) ForceJobDelete(ctx context.Context, actor policy.Actor, jobID string) error {
	if err := policy.Authorize(actor, policy.ActionAdminOverride, policy.Target{}); err != nil {
		return err
	}
	return catalog.DeleteJob(ctx, s.store, jobID)
}

// ForceDecide 直接设置任意申请的决策结果
func (s *Service) ForceDecide(ctx context.Context, actor policy.Actor, appID string, status string) (*model.ApplicationView, error) {
	if err := policy.Authorize(actor, policy.ActionAdminOverride, policy.Target{}); err != nil {
		return nil, err
	}
	decision, err := model.ParseDecision(status)
	if err != nil {
		return nil, apperr.Validation("%s", err.Error())
	}
	if _, err := lifecycle.Load(ctx, s.store, appID); err != nil {
		return nil, err
	}
	return lifecycle.SetStatus(ctx, s.store, appID, decision)
}

// ListUsers 列出用户，可按角色过滤
func (s *Service) ListUsers(ctx context.Context, actor policy.Actor, role string) ([]*model.User, error) {
	if err := policy.Authorize(actor, policy.ActionManageUsers, policy.Target{}); err != nil {
		return nil, err
	}
	var filter model.UserFilter
	if strings.TrimSpace(role) != "" {
		r, err := model.ParseUserRole(role)
		if err != nil {
			return nil, apperr.Validation("%s", err.Error())
		}
		filter.Role = r
	}
	users, err := s.store.ListUsers(ctx, filter)
	if err != nil {
		return nil, apperr.Wrap(err, "list users")
	}
	return users, nil
}

// ListJobs 列出全部职位
func (s *Service) ListJobs(ctx context.Context, actor policy.Actor) ([]*model.JobView, error) {
	if err := policy.Authorize(actor, policy.ActionAdminListJobs, policy.Target{}); err != nil {
		return nil, err
	}
	jobs, err := s.store.ListJobs(ctx, model.JobFilter{})
	if err != nil {
		return nil, apperr.Wrap(err, "list jobs")
	}
	return jobs, nil
}

// ListApplications 列出全部申请，可按状态过滤
func (s *Service) ListApplications(ctx context.Context, actor policy.Actor, status string) ([]*model.ApplicationView, error) {
	return lifecycle.New(s.store).ListAll(ctx, actor, status)
}
