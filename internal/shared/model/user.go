package model

import (
	"fmt"
	"strings"
	"time"
)

// UserRole 用户角色
type UserRole string

const (
	UserRoleAdmin     UserRole = "admin"
	UserRoleEmployer  UserRole = "employer"
	UserRoleJobSeeker UserRole = "job_seeker"
)

// Valid 是否为已知角色
func (r UserRole) Valid() bool {
	switch r {
	case UserRoleAdmin, UserRoleEmployer, UserRoleJobSeeker:
		return true
	default:
		return false
	}
}

// ParseUserRole 解析角色字符串，拒绝闭集之外的值
func ParseUserRole(s string) (UserRole, error) {
	r := UserRole(strings.TrimSpace(s))
	if !r.Valid() {
		return "", fmt.Errorf("invalid role %q: must be one of admin, employer, job_seeker", s)
	}
	return r, nil
}

// User 用户
type User struct {
	ID           string    `json:"id" bson:"_id" db:"id"`
	Name         string    `json:"name" bson:"name" db:"name"`
	Email        string    `json:"email" bson:"email" db:"email"`
	PasswordHash string    `json:"-" bson:"password_hash" db:"password_hash"` // never expose in JSON
	Role         UserRole  `json:"role" bson:"role" db:"role"`
	CreatedAt    time.Time `json:"createdAt" bson:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt" bson:"updated_at" db:"updated_at"`
}

// Summary 返回不含敏感字段的用户摘要
func (u *User) Summary() *UserSummary {
	if u == nil {
		return nil
	}
	return &UserSummary{ID: u.ID, Name: u.Name, Email: u.Email}
}

// UserSummary 关联查询时嵌入的用户信息
type UserSummary struct {
	ID    string `json:"id" bson:"_id"`
	Name  string `json:"name" bson:"name"`
	Email string `json:"email" bson:"email"`
}

// UserFilter 用户列表过滤条件
type UserFilter struct {
	Role UserRole
}
