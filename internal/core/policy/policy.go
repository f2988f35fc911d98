// Package policy 角色与归属权限判定
//
// CanPerform 是纯函数：不读存储、不产生副作用。
// 目标实体不存在时由调用方先返回 NotFound，再进入权限判定。
package policy

import (
	"jobboard/internal/shared/apperr"
	"jobboard/internal/shared/model"
)

// Actor 发起操作的已认证身份
type Actor struct {
	ID   string
	Role model.UserRole
}

// Action 受控操作
type Action int

const (
	ActionCreateJob Action = iota + 1
	ActionUpdateJob
	ActionDeleteJob
	ActionApply
	ActionViewApplication
	ActionWithdrawApplication
	ActionRequestOffer
	ActionDecideApplication
	ActionListOwnApplications
	ActionListEmployerApplications
	ActionManageUsers
	ActionAdminListJobs
	ActionAdminListApplications
	ActionAdminOverride
)

var actionNames = map[Action]string{
	ActionCreateJob:                "create job",
	ActionUpdateJob:                "update job",
	ActionDeleteJob:                "delete job",
	ActionApply:                    "apply",
	ActionViewApplication:          "view application",
	ActionWithdrawApplication:      "withdraw application",
	ActionRequestOffer:             "request offer letter",
	ActionDecideApplication:        "decide application",
	ActionListOwnApplications:      "list own applications",
	ActionListEmployerApplications: "list employer applications",
	ActionManageUsers:              "manage users",
	ActionAdminListJobs:            "list all jobs",
	ActionAdminListApplications:    "list all applications",
	ActionAdminOverride:            "administrative override",
}

func (a Action) String() string {
	if name, ok := actionNames[a]; ok {
		return name
	}
	return "unknown action"
}

// Target 操作对象
//
// 职位相关操作需要 Job；申请相关操作需要 Application，
// 决策操作还需要申请所属的 Job（用于判断雇主归属）
type Target struct {
	Job         *model.Job
	Application *model.Application
}

// Decision 判定结果
type Decision struct {
	Allowed bool
	Reason  string
}

func allow() Decision {
	return Decision{Allowed: true}
}

func deny(reason string) Decision {
	return Decision{Reason: reason}
}

// CanPerform 判断 actor 是否可以对 target 执行 action
func CanPerform(actor Actor, action Action, target Target) Decision {
	if actor.ID == "" || !actor.Role.Valid() {
		return deny("unknown actor")
	}

	switch action {
	case ActionCreateJob:
		return requireRole(actor, model.UserRoleEmployer, "only employers can post jobs")

	case ActionUpdateJob, ActionDeleteJob:
		return ownerOrAdmin(actor, target.Job, "only the posting employer or an admin can modify this job")

	case ActionApply:
		return requireRole(actor, model.UserRoleJobSeeker, "only job seekers can apply")

	case ActionViewApplication, ActionWithdrawApplication, ActionRequestOffer:
		if target.Application == nil {
			return deny("application required")
		}
		if actor.Role != model.UserRoleJobSeeker || target.Application.ApplicantID != actor.ID {
			return deny("only the applicant can access this application")
		}
		return allow()

	case ActionDecideApplication:
		if target.Application == nil {
			return deny("application required")
		}
		if target.Job == nil || target.Job.ID != target.Application.JobID {
			return deny("job of the application required")
		}
		return ownerOrAdmin(actor, target.Job, "only the employer who posted this job or an admin can decide")

	case ActionListOwnApplications:
		return requireRole(actor, model.UserRoleJobSeeker, "only job seekers have applications")

	case ActionListEmployerApplications:
		return requireRole(actor, model.UserRoleEmployer, "only employers can review applicants")

	case ActionManageUsers, ActionAdminListJobs, ActionAdminListApplications, ActionAdminOverride:
		return requireRole(actor, model.UserRoleAdmin, "admin access required")

	default:
		return deny("unknown action")
	}
}

// Authorize 同 CanPerform，拒绝时返回 Forbidden 错误
func Authorize(actor Actor, action Action, target Target) error {
	d := CanPerform(actor, action, target)
	if d.Allowed {
		return nil
	}
	return apperr.Forbidden("%s", d.Reason)
}

func requireRole(actor Actor, role model.UserRole, reason string) Decision {
	if actor.Role == role {
		return allow()
	}
	return deny(reason)
}

func ownerOrAdmin(actor Actor, job *model.Job, reason string) Decision {
	if job == nil {
		return deny("job required")
	}
	switch actor.Role {
	case model.UserRoleAdmin:
		return allow()
	case model.UserRoleEmployer:
		if job.EmployerID == actor.ID {
			return allow()
		}
		return deny(reason)
	case model.UserRoleJobSeeker:
		return deny(reason)
	default:
		return deny("unknown role")
	}
}
