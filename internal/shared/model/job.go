package model

import (
	"fmt"
	"strings"
	"time"
)

// EmploymentType 雇佣类型
type EmploymentType string

const (
	EmploymentFullTime   EmploymentType = "Full-time"
	EmploymentPartTime   EmploymentType = "Part-time"
	EmploymentContract   EmploymentType = "Contract"
	EmploymentInternship EmploymentType = "Internship"
)

// EmploymentTypes 全部雇佣类型（展示顺序）
var EmploymentTypes = []EmploymentType{
	EmploymentFullTime,
	EmploymentPartTime,
	EmploymentContract,
	EmploymentInternship,
}

// Valid 是否为已知雇佣类型
func (t EmploymentType) Valid() bool {
	switch t {
	case EmploymentFullTime, EmploymentPartTime, EmploymentContract, EmploymentInternship:
		return true
	default:
		return false
	}
}

// ParseEmploymentType 解析雇佣类型（大小写敏感，与存储值完全一致）
func ParseEmploymentType(s string) (EmploymentType, error) {
	t := EmploymentType(strings.TrimSpace(s))
	if !t.Valid() {
		return "", fmt.Errorf("invalid employment type %q: must be one of Full-time, Part-time, Contract, Internship", s)
	}
	return t, nil
}

// Job 职位
type Job struct {
	ID             string         `json:"id" bson:"_id" db:"id"`
	Title          string         `json:"title" bson:"title" db:"title"`
	Description    string         `json:"description" bson:"description" db:"description"`
	Location       string         `json:"location" bson:"location" db:"location"`
	EmploymentType EmploymentType `json:"employmentType" bson:"employment_type" db:"employment_type"`
	EmployerID     string         `json:"employerId" bson:"employer_id" db:"employer_id"` // 创建后不可变
	CreatedAt      time.Time      `json:"createdAt" bson:"created_at" db:"created_at"`
	UpdatedAt      time.Time      `json:"updatedAt" bson:"updated_at" db:"updated_at"`
}

// JobFields 创建/更新职位时需要提供的完整字段集
type JobFields struct {
	Title          string `json:"title" validate:"required,max=200"`
	Description    string `json:"description" validate:"required"`
	Location       string `json:"location" validate:"required,max=200"`
	EmploymentType string `json:"employmentType" validate:"required,employment_type"`
}

// Normalize 去除首尾空白
func (f JobFields) Normalize() JobFields {
	return JobFields{
		Title:          strings.TrimSpace(f.Title),
		Description:    strings.TrimSpace(f.Description),
		Location:       strings.TrimSpace(f.Location),
		EmploymentType: strings.TrimSpace(f.EmploymentType),
	}
}

// JobSummary 申请关联查询时嵌入的职位信息
type JobSummary struct {
	ID             string         `json:"id"`
	Title          string         `json:"title"`
	Location       string         `json:"location"`
	EmploymentType EmploymentType `json:"employmentType"`
	EmployerID     string         `json:"employerId"`
}

// Summary 返回职位摘要
func (j *Job) Summary() *JobSummary {
	if j == nil {
		return nil
	}
	return &JobSummary{
		ID:             j.ID,
		Title:          j.Title,
		Location:       j.Location,
		EmploymentType: j.EmploymentType,
		EmployerID:     j.EmployerID,
	}
}

// JobView 职位及其雇主信息
type JobView struct {
	Job
	Employer *UserSummary `json:"employer,omitempty"`
}

// JobFilter 职位列表过滤条件，各字段为空表示不限
type JobFilter struct {
	Title          string         // 标题子串，大小写不敏感
	Location       string         // 地点子串，大小写不敏感
	EmploymentType EmploymentType // 精确匹配
	EmployerID     string
}
