// Package setup 演示数据初始化
//
// Seed 写入一组固定的管理员、雇主、求职者、职位与申请，便于本地联调前端。
// 已存在的邮箱会跳过；职位目录非空时不再写入职位和申请，可重复执行。
package setup

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"go.uber.org/zap"

	"jobboard/internal/apiserver/auth"
	"jobboard/internal/shared/model"
	"jobboard/internal/shared/storage"
	"jobboard/pkg/logging"
)

// DemoPassword 所有演示账号的密码
const DemoPassword = "password123"

type demoUser struct {
	name  string
	email string
	role  model.UserRole
}

type demoJob struct {
	title          string
	description    string
	location       string
	employmentType model.EmploymentType
	employer       int // demoUsers 下标
	daysAgo        int
}

var demoUsers = []demoUser{
	{"Admin User", "admin@test.com", model.UserRoleAdmin},
	{"Tech Corp HR", "hr@techcorp.com", model.UserRoleEmployer},
	{"StartUp Inc", "jobs@startup.com", model.UserRoleEmployer},
	{"Global Solutions", "careers@global.com", model.UserRoleEmployer},
	{"Innovation Labs", "hiring@innovation.com", model.UserRoleEmployer},
	{"John Doe", "john@test.com", model.UserRoleJobSeeker},
	{"Jane Smith", "jane@test.com", model.UserRoleJobSeeker},
	{"Mike Johnson", "mike@test.com", model.UserRoleJobSeeker},
	{"Sarah Williams", "sarah@test.com", model.UserRoleJobSeeker},
	{"David Brown", "david@test.com", model.UserRoleJobSeeker},
	{"Emily Davis", "emily@test.com", model.UserRoleJobSeeker},
	{"Robert Miller", "robert@test.com", model.UserRoleJobSeeker},
	{"Lisa Anderson", "lisa@test.com", model.UserRoleJobSeeker},
}

var demoJobs = []demoJob{
	{"Senior Software Engineer", "We are looking for an experienced software engineer with 5+ years of experience in full-stack development.", "San Francisco, CA", model.EmploymentFullTime, 1, 2},
	{"Frontend Developer", "Join our team as a Frontend Developer. Experience with React, TypeScript and modern CSS frameworks required.", "Remote", model.EmploymentFullTime, 1, 5},
	{"DevOps Engineer", "Looking for a DevOps engineer with experience in AWS, Docker, Kubernetes and CI/CD pipelines.", "New York, NY", model.EmploymentFullTime, 1, 10},
	{"Full Stack Developer", "Exciting opportunity at a fast-growing startup. Work with cutting-edge technologies and build innovative products.", "Austin, TX", model.EmploymentFullTime, 2, 1},
	{"UI/UX Designer", "Creative UI/UX designer needed to design beautiful and intuitive user interfaces. Portfolio required.", "Remote", model.EmploymentFullTime, 2, 3},
	{"Marketing Intern", "Summer internship for marketing students. Learn digital marketing, social media and content creation.", "Boston, MA", model.EmploymentInternship, 2, 7},
	{"Product Manager", "Lead product development from conception to launch. 3+ years of product management experience required.", "Seattle, WA", model.EmploymentFullTime, 2, 15},
	{"Data Scientist", "Analyze large datasets and build machine learning models.", "Chicago, IL", model.EmploymentFullTime, 3, 4},
	{"Backend Developer", "Build scalable backend systems. Experience with microservices architecture is a plus.", "Remote", model.EmploymentFullTime, 3, 6},
	{"QA Engineer", "Ensure product quality through manual and automated testing.", "Denver, CO", model.EmploymentFullTime, 3, 8},
	{"Mobile Developer", "Develop native mobile applications for iOS and Android.", "Los Angeles, CA", model.EmploymentFullTime, 3, 12},
	{"Business Analyst", "Bridge the gap between business and technology. Gather requirements and work with stakeholders.", "Miami, FL", model.EmploymentFullTime, 3, 20},
	{"Machine Learning Engineer", "Build and deploy ML models at scale.", "San Jose, CA", model.EmploymentFullTime, 4, 1},
	{"Cloud Architect", "Design and implement cloud infrastructure solutions. AWS or Azure certification required.", "Remote", model.EmploymentFullTime, 4, 5},
	{"Security Engineer", "Protect our systems and data. Experience with penetration testing and security audits required.", "Washington, DC", model.EmploymentFullTime, 4, 9},
	{"Technical Writer", "Create clear and concise technical documentation and developer guides.", "Remote", model.EmploymentPartTime, 4, 11},
	{"Sales Engineer", "Combine technical expertise with sales skills. Help customers implement our solutions.", "Atlanta, GA", model.EmploymentFullTime, 4, 14},
	{"Scrum Master", "Facilitate agile development processes. CSM certification required.", "Portland, OR", model.EmploymentFullTime, 4, 18},
	{"Database Administrator", "Manage and optimize database systems. Experience with PostgreSQL and MongoDB required.", "Phoenix, AZ", model.EmploymentFullTime, 4, 22},
	{"Content Writer Intern", "Create engaging content for our blog and social media.", "Remote", model.EmploymentInternship, 4, 25},
	{"IT Support Specialist", "Provide technical support to employees. Troubleshoot hardware and software issues.", "Dallas, TX", model.EmploymentFullTime, 4, 28},
	{"Graphic Designer", "Create visual content for marketing campaigns. Proficiency in Adobe Creative Suite required.", "Remote", model.EmploymentContract, 4, 30},
}

// Summary 写入结果
type Summary struct {
	UsersCreated        int
	JobsCreated         int
	ApplicationsCreated int
	ByStatus            map[model.ApplicationStatus]int
}

// Seeder 演示数据写入器
type Seeder struct {
	store storage.PersistentStore
	log   *logging.Logger
	rng   *rand.Rand
	now   func() time.Time
}

// NewSeeder 创建写入器，seed 固定时生成的申请分布可复现
func NewSeeder(store storage.PersistentStore, seed uint64, log *logging.Logger) *Seeder {
	if log == nil {
		log = logging.Nop()
	}
	return &Seeder{
		store: store,
		log:   log.Named("seed"),
		rng:   rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		now:   time.Now,
	}
}

// Run 写入演示数据
func (s *Seeder) Run(ctx context.Context) (*Summary, error) {
	sum := &Summary{ByStatus: make(map[model.ApplicationStatus]int)}

	users := make([]*model.User, len(demoUsers))
	for i, du := range demoUsers {
		existing, err := s.store.GetUserByEmail(ctx, du.email)
		if err != nil {
			return nil, fmt.Errorf("lookup %s: %w", du.email, err)
		}
		if existing != nil {
			users[i] = existing
			continue
		}
		u, err := auth.CreateUser(ctx, s.store, du.name, du.email, DemoPassword, du.role)
		if err != nil {
			return nil, fmt.Errorf("create %s: %w", du.email, err)
		}
		users[i] = u
		sum.UsersCreated++
	}

	existingJobs, err := s.store.ListJobs(ctx, model.JobFilter{})
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	if len(existingJobs) > 0 {
		s.log.Info("Job catalog not empty, skipping jobs and applications", zap.Int("jobs", len(existingJobs)))
		return sum, nil
	}

	now := s.now().UTC()
	jobs := make([]*model.Job, 0, len(demoJobs))
	for _, dj := range demoJobs {
		created := now.AddDate(0, 0, -dj.daysAgo)
		job := &model.Job{
			ID:             model.NewID("job"),
			Title:          dj.title,
			Description:    dj.description,
			Location:       dj.location,
			EmploymentType: dj.employmentType,
			EmployerID:     users[dj.employer].ID,
			CreatedAt:      created,
			UpdatedAt:      created,
		}
		if err := s.store.CreateJob(ctx, job); err != nil {
			return nil, fmt.Errorf("create job %q: %w", dj.title, err)
		}
		jobs = append(jobs, job)
		sum.JobsCreated++
	}

	// 每个求职者随机申请 3-5 个职位
	for _, u := range users {
		if u.Role != model.UserRoleJobSeeker {
			continue
		}
		n := 3 + s.rng.IntN(3)
		for _, idx := range s.rng.Perm(len(jobs))[:n] {
			job := jobs[idx]
			created := job.CreatedAt.AddDate(0, 0, 1+s.rng.IntN(10))
			if created.After(now) {
				created = now
			}
			app := &model.Application{
				ID:          model.NewID("app"),
				JobID:       job.ID,
				ApplicantID: u.ID,
				Status:      s.randomStatus(),
				CreatedAt:   created,
				UpdatedAt:   created,
			}
			if err := s.store.CreateApplication(ctx, app); err != nil {
				return nil, fmt.Errorf("create application: %w", err)
			}
			sum.ApplicationsCreated++
			sum.ByStatus[app.Status]++
		}
	}

	s.log.Info("Demo data seeded",
		zap.Int("users", sum.UsersCreated),
		zap.Int("jobs", sum.JobsCreated),
		zap.Int("applications", sum.ApplicationsCreated),
	)
	return sum, nil
}

// randomStatus 50% 待处理，30% 录用，20% 拒绝
func (s *Seeder) randomStatus() model.ApplicationStatus {
	switch r := s.rng.Float64(); {
	case r < 0.5:
		return model.ApplicationStatusPending
	case r < 0.8:
		return model.ApplicationStatusAccepted
	default:
		return model.ApplicationStatusRejected
	}
}

// Accounts 演示账号（邮箱、角色）
func Accounts() [][2]string {
	out := make([][2]string, len(demoUsers))
	for i, u := range demoUsers {
		out[i] = [2]string{u.email, string(u.role)}
	}
	return out
}
