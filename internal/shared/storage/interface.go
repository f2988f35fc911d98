// Package storage 定义持久化存储层抽象接口
//
// 调用方只依赖接口，具体实现在子包中：
//   - mongostore/：MongoDB 文档存储（默认）
//   - repository/：SQL 存储，通过 dbutil.Dialect 支持 SQLite / PostgreSQL
//
// 约定：
//   - Get* 在实体不存在时返回 (nil, nil)
//   - Update*/Delete* 在实体不存在时返回 ErrNotFound
//   - 唯一约束冲突返回 ErrDuplicate
//   - List* 返回的关联字段（雇主、职位、申请人）已由存储层解析
package storage

import (
	"context"

	"jobboard/internal/shared/model"
)

// UserStore 用户存储接口
type UserStore interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	UpdateUserRole(ctx context.Context, id string, role model.UserRole) error
	ListUsers(ctx context.Context, filter model.UserFilter) ([]*model.User, error)
}

// JobStore 职位存储接口
type JobStore interface {
	CreateJob(ctx context.Context, job *model.Job) error
	GetJob(ctx context.Context, id string) (*model.Job, error)
	GetJobView(ctx context.Context, id string) (*model.JobView, error)
	UpdateJob(ctx context.Context, job *model.Job) error
	// DeleteJob 删除职位并级联删除其所有申请
	DeleteJob(ctx context.Context, id string) error
	ListJobs(ctx context.Context, filter model.JobFilter) ([]*model.JobView, error)
}

// ApplicationStore 申请存储接口
type ApplicationStore interface {
	CreateApplication(ctx context.Context, app *model.Application) error
	GetApplication(ctx context.Context, id string) (*model.Application, error)
	GetApplicationView(ctx context.Context, id string) (*model.ApplicationView, error)
	FindApplication(ctx context.Context, jobID, applicantID string) (*model.Application, error)
	UpdateApplicationStatus(ctx context.Context, id string, status model.ApplicationStatus) error
	DeleteApplication(ctx context.Context, id string) error
	ListApplications(ctx context.Context, filter model.ApplicationFilter) ([]*model.ApplicationView, error)
}

// PersistentStore 持久化存储组合接口
type PersistentStore interface {
	UserStore
	JobStore
	ApplicationStore
	Close() error
}
