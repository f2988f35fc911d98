package mongostore

import (
	"context"
	"os"
	"testing"
	"time"

	"jobboard/internal/shared/model"
	"jobboard/internal/shared/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testStore 创建测试用 Store，使用独立数据库避免污染
func testStore(t *testing.T) *Store {
	t.Helper()

	uri := os.Getenv("MONGO_TEST_URI")
	if uri == "" {
		uri = "mongodb://localhost:27017"
	}

	s, err := NewStore(uri, "jobboard_test")
	if err != nil {
		t.Skipf("MongoDB not available: %v", err)
	}

	// 清空测试数据库
	ctx := context.Background()
	require.NoError(t, s.db.Drop(ctx))
	// 重新创建索引
	require.NoError(t, s.ensureIndexes(ctx))

	t.Cleanup(func() {
		s.db.Drop(context.Background())
		s.Close()
	})

	return s
}

func now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

func TestUserCRUD(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	u := &model.User{ID: "usr-1", Name: "Ann", Email: "ann@example.com", PasswordHash: "h", Role: model.UserRoleJobSeeker, CreatedAt: now(), UpdatedAt: now()}
	require.NoError(t, s.CreateUser(ctx, u))

	// 重复邮箱
	u2 := *u
	u2.ID = "usr-2"
	assert.ErrorIs(t, s.CreateUser(ctx, &u2), storage.ErrDuplicate)

	got, err := s.GetUserByEmail(ctx, "ann@example.com")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "h", got.PasswordHash)

	missing, err := s.GetUserByID(ctx, "nonexistent")
	require.NoError(t, err)
	assert.Nil(t, missing)

	require.NoError(t, s.UpdateUserRole(ctx, u.ID, model.UserRoleEmployer))
	employers, err := s.ListUsers(ctx, model.UserFilter{Role: model.UserRoleEmployer})
	require.NoError(t, err)
	require.Len(t, employers, 1)
	assert.Equal(t, u.ID, employers[0].ID)

	assert.ErrorIs(t, s.UpdateUserRole(ctx, "nonexistent", model.UserRoleAdmin), storage.ErrNotFound)
}

func TestJobsAndApplications(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	emp := &model.User{ID: "usr-emp", Name: "Acme HR", Email: "hr@acme.test", Role: model.UserRoleEmployer, CreatedAt: now(), UpdatedAt: now()}
	seeker := &model.User{ID: "usr-seek", Name: "Bo", Email: "bo@example.com", Role: model.UserRoleJobSeeker, CreatedAt: now(), UpdatedAt: now()}
	require.NoError(t, s.CreateUser(ctx, emp))
	require.NoError(t, s.CreateUser(ctx, seeker))

	j1 := &model.Job{ID: "job-1", Title: "Backend Engineer", Description: "Go", Location: "Remote", EmploymentType: model.EmploymentFullTime, EmployerID: emp.ID, CreatedAt: now(), UpdatedAt: now()}
	j2 := &model.Job{ID: "job-2", Title: "Designer (UI)", Description: "Figma", Location: "Berlin", EmploymentType: model.EmploymentContract, EmployerID: emp.ID, CreatedAt: now().Add(time.Second), UpdatedAt: now()}
	require.NoError(t, s.CreateJob(ctx, j1))
	require.NoError(t, s.CreateJob(ctx, j2))

	jobs, err := s.ListJobs(ctx, model.JobFilter{Title: "ENGINEER"})
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, "job-1", jobs[0].ID)
	require.NotNil(t, jobs[0].Employer)
	assert.Equal(t, "Acme HR", jobs[0].Employer.Name)

	// 正则元字符按字面量处理
	jobs, err = s.ListJobs(ctx, model.JobFilter{Title: "(UI)"})
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, "job-2", jobs[0].ID)

	app := &model.Application{ID: "app-1", JobID: j1.ID, ApplicantID: seeker.ID, Status: model.ApplicationStatusPending, CreatedAt: now(), UpdatedAt: now()}
	require.NoError(t, s.CreateApplication(ctx, app))
	dup := *app
	dup.ID = "app-2"
	assert.ErrorIs(t, s.CreateApplication(ctx, &dup), storage.ErrDuplicate)

	forEmp, err := s.ListApplications(ctx, model.ApplicationFilter{EmployerID: emp.ID})
	require.NoError(t, err)
	require.Len(t, forEmp, 1)
	require.NotNil(t, forEmp[0].Job)
	assert.Equal(t, "Backend Engineer", forEmp[0].Job.Title)
	require.NotNil(t, forEmp[0].Applicant)
	assert.Equal(t, "bo@example.com", forEmp[0].Applicant.Email)

	none, err := s.ListApplications(ctx, model.ApplicationFilter{EmployerID: "usr-nobody"})
	require.NoError(t, err)
	assert.Empty(t, none)

	require.NoError(t, s.UpdateApplicationStatus(ctx, app.ID, model.ApplicationStatusAccepted))
	view, err := s.GetApplicationView(ctx, app.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ApplicationStatusAccepted, view.Status)

	// 删除职位级联删除申请
	require.NoError(t, s.DeleteJob(ctx, j1.ID))
	gone, err := s.GetApplication(ctx, app.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)
	assert.ErrorIs(t, s.DeleteJob(ctx, j1.ID), storage.ErrNotFound)
}

func TestCreateApplicationForDeletedJob(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	require.NoError(t, s.CreateUser(ctx, &model.User{ID: "usr-e", Name: "Emp", Email: "e@example.com", PasswordHash: "h", Role: model.UserRoleEmployer, CreatedAt: now(), UpdatedAt: now()}))
	require.NoError(t, s.CreateUser(ctx, &model.User{ID: "usr-s", Name: "Seek", Email: "s@example.com", PasswordHash: "h", Role: model.UserRoleJobSeeker, CreatedAt: now(), UpdatedAt: now()}))
	job := &model.Job{ID: "job-gone", Title: "T", Description: "D", Location: "L", EmploymentType: model.EmploymentFullTime, EmployerID: "usr-e", CreatedAt: now(), UpdatedAt: now()}
	require.NoError(t, s.CreateJob(ctx, job))
	require.NoError(t, s.DeleteJob(ctx, job.ID))

	app := &model.Application{ID: "app-late", JobID: job.ID, ApplicantID: "usr-s", Status: model.ApplicationStatusPending, CreatedAt: now(), UpdatedAt: now()}
	assert.ErrorIs(t, s.CreateApplication(ctx, app), storage.ErrNotFound)

	got, err := s.GetApplication(ctx, app.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}
