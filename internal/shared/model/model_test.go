package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseUserRole(t *testing.T) {
	tests := []struct {
		in      string
		want    UserRole
		wantErr bool
	}{
		{"admin", UserRoleAdmin, false},
		{"employer", UserRoleEmployer, false},
		{"job_seeker", UserRoleJobSeeker, false},
		{" employer ", UserRoleEmployer, false},
		{"Admin", "", true},
		{"not_a_role", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseUserRole(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseEmploymentType(t *testing.T) {
	for _, et := range EmploymentTypes {
		got, err := ParseEmploymentType(string(et))
		require.NoError(t, err)
		assert.Equal(t, et, got)
	}

	_, err := ParseEmploymentType("full-time")
	assert.Error(t, err, "match is case sensitive")
	_, err = ParseEmploymentType("Freelance")
	assert.Error(t, err)
}

func TestApplicationStatus(t *testing.T) {
	tests := []struct {
		status   ApplicationStatus
		valid    bool
		terminal bool
	}{
		{ApplicationStatusPending, true, false},
		{ApplicationStatusAccepted, true, true},
		{ApplicationStatusRejected, true, true},
		{"WITHDRAWN", false, false},
		{"pending", false, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.valid, tt.status.Valid())
			assert.Equal(t, tt.terminal, tt.status.IsTerminal())
		})
	}
}

func TestParseDecision(t *testing.T) {
	st, err := ParseDecision("ACCEPTED")
	require.NoError(t, err)
	assert.Equal(t, ApplicationStatusAccepted, st)

	st, err = ParseDecision("REJECTED")
	require.NoError(t, err)
	assert.Equal(t, ApplicationStatusRejected, st)

	_, err = ParseDecision("PENDING")
	assert.Error(t, err)
	_, err = ParseDecision("")
	assert.Error(t, err)
}

func TestUserJSONHidesPasswordHash(t *testing.T) {
	u := &User{
		ID:           "usr-1",
		Name:         "Jane",
		Email:        "jane@example.com",
		PasswordHash: "$2a$12$secret",
		Role:         UserRoleJobSeeker,
		CreatedAt:    time.Now(),
	}
	data, err := json.Marshal(u)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "secret")
	assert.NotContains(t, string(data), "password")
	assert.Contains(t, string(data), `"role":"job_seeker"`)
}

func TestValidateJobFields(t *testing.T) {
	tests := []struct {
		name    string
		fields  JobFields
		wantErr string
	}{
		{
			name:   "complete",
			fields: JobFields{Title: "Backend Engineer", Description: "Go", Location: "Remote", EmploymentType: "Full-time"},
		},
		{
			name:    "missing title",
			fields:  JobFields{Description: "Go", Location: "Remote", EmploymentType: "Full-time"},
			wantErr: "title is required",
		},
		{
			name:    "bad employment type",
			fields:  JobFields{Title: "x", Description: "Go", Location: "Remote", EmploymentType: "Gig"},
			wantErr: "employmentType must be one of",
		},
		{
			name:    "several problems",
			fields:  JobFields{EmploymentType: "Contract"},
			wantErr: "description is required",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.fields)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestSummaries(t *testing.T) {
	var nilUser *User
	assert.Nil(t, nilUser.Summary())

	j := &Job{ID: "job-1", Title: "QA", Location: "Berlin", EmploymentType: EmploymentContract, EmployerID: "usr-2"}
	s := j.Summary()
	assert.Equal(t, "QA", s.Title)
	assert.Equal(t, "usr-2", s.EmployerID)
}
