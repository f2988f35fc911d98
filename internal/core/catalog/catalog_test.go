package catalog

import (
	"context"
	"testing"

	"jobboard/internal/core/coretest"
	"jobboard/internal/shared/apperr"
	"jobboard/internal/shared/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validFields() model.JobFields {
	return model.JobFields{
		Title:          "Backend Engineer",
		Description:    "Build APIs in Go",
		Location:       "Remote",
		EmploymentType: "Full-time",
	}
}

func TestCreate(t *testing.T) {
	store := coretest.NewStore(t)
	svc := New(store)
	ctx := context.Background()

	emp := coretest.SeedUser(t, store, "usr-emp", model.UserRoleEmployer)
	seeker := coretest.SeedUser(t, store, "usr-seek", model.UserRoleJobSeeker)
	admin := coretest.SeedUser(t, store, "usr-admin", model.UserRoleAdmin)

	t.Run("employer creates and owns", func(t *testing.T) {
		f := validFields()
		f.Title = "  Backend Engineer  "
		job, err := svc.Create(ctx, emp, f)
		require.NoError(t, err)
		assert.NotEmpty(t, job.ID)
		assert.Equal(t, "Backend Engineer", job.Title)
		assert.Equal(t, emp.ID, job.EmployerID)
		require.NotNil(t, job.Employer)
		assert.Equal(t, "User usr-emp", job.Employer.Name)
	})

	t.Run("non-employers forbidden", func(t *testing.T) {
		_, err := svc.Create(ctx, seeker, validFields())
		assert.True(t, apperr.Is(err, apperr.KindForbidden))
		_, err = svc.Create(ctx, admin, validFields())
		assert.True(t, apperr.Is(err, apperr.KindForbidden))
	})

	invalid := []struct {
		name   string
		mutate func(*model.JobFields)
		msg    string
	}{
		{"blank title", func(f *model.JobFields) { f.Title = "   " }, "title is required"},
		{"missing description", func(f *model.JobFields) { f.Description = "" }, "description is required"},
		{"missing location", func(f *model.JobFields) { f.Location = "" }, "location is required"},
		{"unknown type", func(f *model.JobFields) { f.EmploymentType = "Freelance" }, "employmentType must be one of"},
		{"wrong case type", func(f *model.JobFields) { f.EmploymentType = "full-time" }, "employmentType must be one of"},
	}
	for _, tt := range invalid {
		t.Run(tt.name, func(t *testing.T) {
			f := validFields()
			tt.mutate(&f)
			_, err := svc.Create(ctx, emp, f)
			require.Error(t, err)
			assert.True(t, apperr.Is(err, apperr.KindValidation))
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestUpdate(t *testing.T) {
	store := coretest.NewStore(t)
	svc := New(store)
	ctx := context.Background()

	emp := coretest.SeedUser(t, store, "usr-emp", model.UserRoleEmployer)
	rival := coretest.SeedUser(t, store, "usr-rival", model.UserRoleEmployer)
	admin := coretest.SeedUser(t, store, "usr-admin", model.UserRoleAdmin)
	job := coretest.SeedJob(t, store, "job-1", emp.ID)

	t.Run("owner replaces all fields", func(t *testing.T) {
		f := model.JobFields{Title: "Staff Engineer", Description: "Lead", Location: "Berlin", EmploymentType: "Contract"}
		got, err := svc.Update(ctx, emp, job.ID, f)
		require.NoError(t, err)
		assert.Equal(t, "Staff Engineer", got.Title)
		assert.Equal(t, "Berlin", got.Location)
		assert.Equal(t, model.EmploymentContract, got.EmploymentType)
		assert.Equal(t, emp.ID, got.EmployerID)
	})

	t.Run("admin may update", func(t *testing.T) {
		got, err := svc.Update(ctx, admin, job.ID, validFields())
		require.NoError(t, err)
		assert.Equal(t, emp.ID, got.EmployerID)
	})

	t.Run("other employer forbidden", func(t *testing.T) {
		_, err := svc.Update(ctx, rival, job.ID, validFields())
		assert.True(t, apperr.Is(err, apperr.KindForbidden))
	})

	t.Run("missing job", func(t *testing.T) {
		_, err := svc.Update(ctx, emp, "job-missing", validFields())
		assert.True(t, apperr.Is(err, apperr.KindNotFound))
	})

	t.Run("partial payload rejected", func(t *testing.T) {
		_, err := svc.Update(ctx, emp, job.ID, model.JobFields{Title: "Only title"})
		assert.True(t, apperr.Is(err, apperr.KindValidation))
	})
}

func TestDelete(t *testing.T) {
	store := coretest.NewStore(t)
	svc := New(store)
	ctx := context.Background()

	emp := coretest.SeedUser(t, store, "usr-emp", model.UserRoleEmployer)
	rival := coretest.SeedUser(t, store, "usr-rival", model.UserRoleEmployer)
	seeker := coretest.SeedUser(t, store, "usr-seek", model.UserRoleJobSeeker)
	job := coretest.SeedJob(t, store, "job-1", emp.ID)
	coretest.SeedApplication(t, store, "app-1", job.ID, seeker.ID, model.ApplicationStatusPending)

	assert.True(t, apperr.Is(svc.Delete(ctx, rival, job.ID), apperr.KindForbidden))
	assert.True(t, apperr.Is(svc.Delete(ctx, seeker, job.ID), apperr.KindForbidden))
	assert.True(t, apperr.Is(svc.Delete(ctx, emp, "job-missing"), apperr.KindNotFound))

	require.NoError(t, svc.Delete(ctx, emp, job.ID))

	_, err := svc.Get(ctx, job.ID)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	// 申请随职位删除
	app, err := store.GetApplication(ctx, "app-1")
	require.NoError(t, err)
	assert.Nil(t, app)
}

func TestList(t *testing.T) {
	store := coretest.NewStore(t)
	svc := New(store)
	ctx := context.Background()

	emp := coretest.SeedUser(t, store, "usr-emp", model.UserRoleEmployer)
	_, err := svc.Create(ctx, emp, model.JobFields{Title: "Go Developer", Description: "d", Location: "Remote", EmploymentType: "Full-time"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, emp, model.JobFields{Title: "Data Intern", Description: "d", Location: "Paris", EmploymentType: "Internship"})
	require.NoError(t, err)

	tests := []struct {
		name   string
		filter model.JobFilter
		want   int
	}{
		{"no filter", model.JobFilter{}, 2},
		{"title case-insensitive", model.JobFilter{Title: "go dev"}, 1},
		{"location", model.JobFilter{Location: "PAR"}, 1},
		{"type", model.JobFilter{EmploymentType: model.EmploymentInternship}, 1},
		{"conjunction without match", model.JobFilter{Title: "Go", EmploymentType: model.EmploymentInternship}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			jobs, err := svc.List(ctx, tt.filter)
			require.NoError(t, err)
			assert.Len(t, jobs, tt.want)
			for _, j := range jobs {
				require.NotNil(t, j.Employer)
				assert.Equal(t, emp.ID, j.Employer.ID)
			}
		})
	}

	_, err = svc.List(ctx, model.JobFilter{EmploymentType: "Gig"})
	assert.True(t, apperr.Is(err, apperr.KindValidation))
}

func TestGetMissing(t *testing.T) {
	svc := New(coretest.NewStore(t))
	_, err := svc.Get(context.Background(), "job-nope")
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}
