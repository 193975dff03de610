package submission

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"agent-directory/internal/apperr"
	"agent-directory/internal/canonical"
	"agent-directory/internal/model"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
)

// Store 定义持久化接口。
type Store interface {
	SubmissionSlugExists(ctx context.Context, slug string) (bool, error)
	CreateSubmission(ctx context.Context, sub *model.AgentSubmission) error
	ListSubmissions(ctx context.Context, status model.SubmissionStatus) ([]model.AgentSubmission, error)
	GetSubmission(ctx context.Context, id string) (*model.AgentSubmission, error)
}

// Notifier 在新提交创建后通知审核人。
type Notifier interface {
	Notify(ctx context.Context, subs []model.AgentSubmission) error
}

// Request 表示公开表单提交的经纪人档案。
// cedula/ubicacion/fotoHero 在提交时可为空，审核通过前必须补齐。
type Request struct {
	Slug           string   `json:"slug" validate:"required,max=80,slug"`
	Nombre         string   `json:"nombre" validate:"required,max=200"`
	Cedula         string   `json:"cedula" validate:"max=64"`
	Ubicacion      string   `json:"ubicacion" validate:"max=200"`
	Whatsapp       string   `json:"whatsapp" validate:"max=32"`
	Foto           string   `json:"foto" validate:"max=500"`
	FotoHero       string   `json:"fotoHero" validate:"max=500"`
	FotosMini      []string `json:"fotosMini" validate:"max=12,dive,max=500"`
	Especialidades []string `json:"especialidades" validate:"max=10,dive,max=100"`
	Experiencia    string   `json:"experiencia" validate:"max=5000"`
	Aseguradoras   string   `json:"aseguradoras" validate:"max=1000"`
	LogosAseg      []string `json:"logosAseg" validate:"max=30,dive,max=500"`
	LogroDestacado string   `json:"logroDestacado" validate:"max=1000"`
	Facebook       string   `json:"facebook" validate:"max=300"`
	Instagram      string   `json:"instagram" validate:"max=300"`
	Linkedin       string   `json:"linkedin" validate:"max=300"`
	Tiktok         string   `json:"tiktok" validate:"max=300"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
		return canonical.IsSlug(fl.Field().String())
	})
	return v
}

// Service 负责校验与写入提交记录。
type Service struct {
	store  Store
	notif  Notifier
	logger *logrus.Entry
}

// NewService 创建提交服务，notif 可为空。
func NewService(store Store, notif Notifier, logger *logrus.Entry) *Service {
	if logger == nil {
		logger = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Service{store: store, notif: notif, logger: logger.WithField("component", "submission")}
}

// Create 清洗并校验请求，slug 在提交记录中已存在时直接拒绝。
func (s *Service) Create(ctx context.Context, req Request) (model.AgentSubmission, error) {
	req = sanitize(req)
	if err := validateRequest(req); err != nil {
		return model.AgentSubmission{}, err
	}

	exists, err := s.store.SubmissionSlugExists(ctx, req.Slug)
	if err != nil {
		return model.AgentSubmission{}, err
	}
	if exists {
		return model.AgentSubmission{}, apperr.Conflict(nil, "submission slug %q already exists", req.Slug)
	}

	sub := model.AgentSubmission{
		Slug:           req.Slug,
		Status:         model.SubmissionPending,
		Nombre:         req.Nombre,
		Cedula:         req.Cedula,
		Ubicacion:      req.Ubicacion,
		Whatsapp:       req.Whatsapp,
		Foto:           req.Foto,
		FotoHero:       req.FotoHero,
		FotosMini:      req.FotosMini,
		Especialidades: req.Especialidades,
		Experiencia:    req.Experiencia,
		Aseguradoras:   req.Aseguradoras,
		LogosAseg:      req.LogosAseg,
		LogroDestacado: req.LogroDestacado,
		Facebook:       req.Facebook,
		Instagram:      req.Instagram,
		Linkedin:       req.Linkedin,
		Tiktok:         req.Tiktok,
	}
	if err := s.store.CreateSubmission(ctx, &sub); err != nil {
		return model.AgentSubmission{}, err
	}
	s.logger.WithFields(logrus.Fields{"submission_id": sub.ID, "slug": sub.Slug}).Info("submission created")

	if s.notif != nil {
		if err := s.notif.Notify(ctx, []model.AgentSubmission{sub}); err != nil {
			s.logger.WithField("submission_id", sub.ID).WithError(err).Warn("notify reviewers failed")
		}
	}
	return sub, nil
}

// List 返回提交记录，status 为空时不过滤。
func (s *Service) List(ctx context.Context, status string) ([]model.AgentSubmission, error) {
	st := model.SubmissionStatus(strings.ToUpper(strings.TrimSpace(status)))
	if st != "" && !st.Valid() {
		return nil, apperr.Validation("unknown status %q", status)
	}
	return s.store.ListSubmissions(ctx, st)
}

// Get 按 ID 获取提交记录。
func (s *Service) Get(ctx context.Context, id string) (*model.AgentSubmission, error) {
	return s.store.GetSubmission(ctx, id)
}

func validateRequest(req Request) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperr.Validation("%v", err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s: %s", jsonName(fe.Field()), fe.Tag()))
	}
	return apperr.Validation("%s", strings.Join(msgs, "; "))
}

func jsonName(field string) string {
	if field == "" {
		return field
	}
	return strings.ToLower(field[:1]) + field[1:]
}
