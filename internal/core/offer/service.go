package offer

import (
	"bytes"
	"context"
	"io"
	"strings"
	"time"

	"jobboard/internal/core/lifecycle"
	"jobboard/internal/core/policy"
	"jobboard/internal/shared/apperr"
	"jobboard/internal/shared/model"
	"jobboard/internal/shared/storage"
	"jobboard/pkg/logging"

	"go.uber.org/zap"
)

// ContentType 通知书 MIME 类型
const ContentType = "application/pdf"

// Archiver 通知书归档（对象存储）
type Archiver interface {
	Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error
}

// Document 生成结果
type Document struct {
	Filename string
	Data     []byte
}

// Service 通知书服务
type Service struct {
	store   storage.ApplicationStore
	gen     Generator
	baseURL string
	archive Archiver // 可为 nil
	log     *logging.Logger
	now     func() time.Time
}

// NewService 创建通知书服务
// publicBaseURL 为前端站点地址，二维码指向 {publicBaseURL}/jobs/{jobID}
func NewService(store storage.ApplicationStore, gen Generator, publicBaseURL string, archive Archiver, log *logging.Logger) *Service {
	if log == nil {
		log = logging.Nop()
	}
	return &Service{
		store:   store,
		gen:     gen,
		baseURL: strings.TrimRight(publicBaseURL, "/"),
		archive: archive,
		log:     log,
		now:     time.Now,
	}
}

// Generate 为已录用的申请生成通知书，仅申请人本人可下载
func (s *Service) Generate(ctx context.Context, actor policy.Actor, appID string) (*Document, error) {
	view, err := lifecycle.LoadView(ctx, s.store, appID)
	if err != nil {
		return nil, err
	}
	if err := policy.Authorize(actor, policy.ActionRequestOffer, policy.Target{Application: &view.Application}); err != nil {
		return nil, err
	}
	if view.Status != model.ApplicationStatusAccepted {
		return nil, apperr.InvalidTransition("application not accepted yet")
	}
	if view.Job == nil || view.Applicant == nil {
		return nil, apperr.NotFound("job or applicant no longer exists")
	}

	letter := Letter{
		ApplicantName:  view.Applicant.Name,
		JobTitle:       view.Job.Title,
		Location:       view.Job.Location,
		EmploymentType: string(view.Job.EmploymentType),
		IssuedAt:       s.now(),
		JobURL:         s.JobURL(view.Job.ID),
	}

	var buf bytes.Buffer
	if err := s.gen.Render(&buf, letter); err != nil {
		return nil, apperr.Wrap(err, "render offer letter")
	}
	doc := &Document{Filename: Filename(view.Applicant.Name), Data: buf.Bytes()}

	if s.archive != nil {
		key := ArchiveKey(view.ID)
		if err := s.archive.Upload(ctx, key, bytes.NewReader(doc.Data), int64(len(doc.Data)), ContentType); err != nil {
			s.log.WithContext(ctx).WithError(err).Warn("Archive offer letter failed", zap.String("key", key))
		}
	}
	return doc, nil
}

// JobURL 职位详情页地址
func (s *Service) JobURL(jobID string) string {
	return s.baseURL + "/jobs/" + jobID
}

// Filename 下载文件名 Offer_Letter_{name}.pdf，去掉会破坏 Content-Disposition 的字符
func Filename(name string) string {
	clean := strings.Map(func(r rune) rune {
		switch r {
		case '"', '\\', '/', '\r', '\n':
			return -1
		}
		return r
	}, strings.TrimSpace(name))
	return "Offer_Letter_" + clean + ".pdf"
}

// ArchiveKey 通知书在对象存储中的键
func ArchiveKey(appID string) string {
	return "offers/" + appID + ".pdf"
}
