// Package coretest 核心层测试辅助：SQLite 内存库与种子数据
package coretest

import (
	"context"
	"testing"
	"time"

	"jobboard/internal/core/policy"
	"jobboard/internal/shared/model"
	sqlitedriver "jobboard/internal/shared/storage/driver/sqlite"
	"jobboard/internal/shared/storage/repository"

	"github.com/stretchr/testify/require"
)

// NewStore 创建迁移完成的 SQLite 内存 Store，测试结束时关闭
func NewStore(t *testing.T) *repository.Store {
	t.Helper()
	db, err := sqlitedriver.Open(":memory:")
	require.NoError(t, err)
	dialect := sqlitedriver.NewDialect()
	require.NoError(t, dialect.AutoMigrate(db))
	s := repository.NewStore(db, dialect)
	t.Cleanup(func() { s.Close() })
	return s
}

// SeedUser 写入一个用户并返回对应的 Actor
func SeedUser(t *testing.T, s *repository.Store, id string, role model.UserRole) policy.Actor {
	t.Helper()
	now := time.Now().UTC()
	u := &model.User{
		ID:           id,
		Name:         "User " + id,
		Email:        id + "@example.com",
		PasswordHash: "hash",
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	require.NoError(t, s.CreateUser(context.Background(), u))
	return policy.Actor{ID: id, Role: role}
}

// SeedJob 写入一个属于 employerID 的职位
func SeedJob(t *testing.T, s *repository.Store, id, employerID string) *model.Job {
	t.Helper()
	now := time.Now().UTC()
	j := &model.Job{
		ID:             id,
		Title:          "Job " + id,
		Description:    "Description of " + id,
		Location:       "Remote",
		EmploymentType: model.EmploymentFullTime,
		EmployerID:     employerID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	require.NoError(t, s.CreateJob(context.Background(), j))
	return j
}

// SeedApplication 直接写入一条指定状态的申请
func SeedApplication(t *testing.T, s *repository.Store, id, jobID, applicantID string, status model.ApplicationStatus) *model.Application {
	t.Helper()
	now := time.Now().UTC()
	a := &model.Application{
		ID:          id,
		JobID:       jobID,
		ApplicantID: applicantID,
		Status:      status,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	require.NoError(t, s.CreateApplication(context.Background(), a))
	return a
}
