package model

import (
	"fmt"
	"strings"
	"time"
)

// ApplicationStatus 申请状态
//
// 状态机：PENDING（初始）→ ACCEPTED / REJECTED（终态）
// 撤回不是状态，而是删除记录
type ApplicationStatus string

const (
	ApplicationStatusPending  ApplicationStatus = "PENDING"
	ApplicationStatusAccepted ApplicationStatus = "ACCEPTED"
	ApplicationStatusRejected ApplicationStatus = "REJECTED"
)

// Valid 是否为已知状态
func (s ApplicationStatus) Valid() bool {
	switch s {
	case ApplicationStatusPending, ApplicationStatusAccepted, ApplicationStatusRejected:
		return true
	default:
		return false
	}
}

// IsTerminal 是否为终态
func (s ApplicationStatus) IsTerminal() bool {
	switch s {
	case ApplicationStatusAccepted, ApplicationStatusRejected:
		return true
	default:
		return false
	}
}

// IsDecision 是否为合法的决策结果（接受/拒绝）
func (s ApplicationStatus) IsDecision() bool {
	return s.IsTerminal()
}

// ParseApplicationStatus 解析状态字符串
func ParseApplicationStatus(s string) (ApplicationStatus, error) {
	st := ApplicationStatus(strings.TrimSpace(s))
	if !st.Valid() {
		return "", fmt.Errorf("invalid status %q: must be one of PENDING, ACCEPTED, REJECTED", s)
	}
	return st, nil
}

// ParseDecision 解析决策状态，只接受 ACCEPTED / REJECTED
func ParseDecision(s string) (ApplicationStatus, error) {
	st := ApplicationStatus(strings.TrimSpace(s))
	if !st.IsDecision() {
		return "", fmt.Errorf("invalid status %q: must be ACCEPTED or REJECTED", s)
	}
	return st, nil
}

// Application 求职申请
type Application struct {
	ID          string            `json:"id" bson:"_id" db:"id"`
	JobID       string            `json:"jobId" bson:"job_id" db:"job_id"`
	ApplicantID string            `json:"applicantId" bson:"applicant_id" db:"applicant_id"`
	Status      ApplicationStatus `json:"status" bson:"status" db:"status"`
	CreatedAt   time.Time         `json:"createdAt" bson:"created_at" db:"created_at"`
	UpdatedAt   time.Time         `json:"updatedAt" bson:"updated_at" db:"updated_at"`
}

// ApplicationView 申请及其关联的职位、申请人
type ApplicationView struct {
	Application
	Job       *JobSummary  `json:"job,omitempty"`
	Applicant *UserSummary `json:"applicant,omitempty"`
}

// ApplicationFilter 申请列表过滤条件
//
// ApplicantID / EmployerID 用于在查询层面限定归属范围
type ApplicationFilter struct {
	ApplicantID string
	EmployerID  string // 按职位的雇主过滤
	JobID       string
	Status      ApplicationStatus
}
