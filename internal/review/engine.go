// Package review 实现提交记录的审核状态机：PENDING → APPROVED | REJECTED。
// 审核通过时在同一事务内创建 Agent 并更新提交状态。
package review

import (
	"context"
	"fmt"
	"strings"
	"time"

	"agent-directory/internal/apperr"
	"agent-directory/internal/canonical"
	"agent-directory/internal/model"

	"github.com/sirupsen/logrus"
)

// Repository 是事务内可用的持久化操作。
type Repository interface {
	GetSubmission(ctx context.Context, id string) (*model.AgentSubmission, error)
	TransitionSubmission(ctx context.Context, id string, t model.Transition) error
	CreateAgent(ctx context.Context, agent *model.Agent) error
}

// UnitOfWork 在一个事务边界内执行 fn，fn 返回错误则全部回滚。
type UnitOfWork interface {
	Do(ctx context.Context, fn func(repo Repository) error) error
}

type txRunner[S Repository] func(ctx context.Context, fn func(tx S) error) error

func (r txRunner[S]) Do(ctx context.Context, fn func(repo Repository) error) error {
	return r(ctx, func(tx S) error { return fn(tx) })
}

// Transactional 把形如 store.Transaction 的方法适配为 UnitOfWork。
func Transactional[S Repository](begin func(ctx context.Context, fn func(tx S) error) error) UnitOfWork {
	return txRunner[S](begin)
}

// Engine 执行审核状态迁移。
type Engine struct {
	uow    UnitOfWork
	now    func() time.Time
	logger *logrus.Entry
}

// NewEngine 创建审核引擎。
func NewEngine(uow UnitOfWork, logger *logrus.Entry) *Engine {
	if logger == nil {
		logger = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Engine{
		uow:    uow,
		now:    func() time.Time { return time.Now().UTC() },
		logger: logger.WithField("component", "review"),
	}
}

// Approve 审核通过：校验状态与必填字段，创建 Agent 并把提交标记为 APPROVED。
// 任一步失败都会回滚，提交保持 PENDING 且不会留下 Agent。
func (e *Engine) Approve(ctx context.Context, id string) (*model.AgentSubmission, error) {
	var approved *model.AgentSubmission
	err := e.uow.Do(ctx, func(repo Repository) error {
		sub, err := repo.GetSubmission(ctx, id)
		if err != nil {
			return err
		}
		if sub.Status != model.SubmissionPending {
			return apperr.StateConflict("submission %q is already %s", id, sub.Status)
		}
		if err := checkPromotable(sub); err != nil {
			return err
		}

		at := e.now()
		// 先做条件更新占住状态，并发审核的后来者在这里失败，不会重复创建 Agent。
		if err := repo.TransitionSubmission(ctx, id, model.Transition{
			From: model.SubmissionPending,
			To:   model.SubmissionApproved,
			At:   at,
		}); err != nil {
			return err
		}

		agent := PromoteToAgent(*sub)
		if err := repo.CreateAgent(ctx, &agent); err != nil {
			return fmt.Errorf("promote submission %q: %w", id, err)
		}

		sub.Status = model.SubmissionApproved
		sub.ReviewedAt = &at
		approved = sub
		return nil
	})
	if err != nil {
		e.logger.WithField("submission_id", id).WithError(err).Warn("approve failed")
		return nil, err
	}
	e.logger.WithFields(logrus.Fields{"submission_id": id, "slug": approved.Slug}).Info("submission approved")
	return approved, nil
}

// Reject 驳回提交，notes 为空时不记录备注。
func (e *Engine) Reject(ctx context.Context, id string, notes string) (*model.AgentSubmission, error) {
	var notesPtr *string
	if trimmed := strings.TrimSpace(notes); trimmed != "" {
		notesPtr = &trimmed
	}

	var rejected *model.AgentSubmission
	err := e.uow.Do(ctx, func(repo Repository) error {
		sub, err := repo.GetSubmission(ctx, id)
		if err != nil {
			return err
		}
		if sub.Status != model.SubmissionPending {
			return apperr.StateConflict("submission %q is already %s", id, sub.Status)
		}

		at := e.now()
		if err := repo.TransitionSubmission(ctx, id, model.Transition{
			From:  model.SubmissionPending,
			To:    model.SubmissionRejected,
			At:    at,
			Notes: notesPtr,
		}); err != nil {
			return err
		}
		sub.Status = model.SubmissionRejected
		sub.ReviewedAt = &at
		sub.ReviewNotes = notesPtr
		rejected = sub
		return nil
	})
	if err != nil {
		e.logger.WithField("submission_id", id).WithError(err).Warn("reject failed")
		return nil, err
	}
	e.logger.WithFields(logrus.Fields{"submission_id": id, "slug": rejected.Slug}).Info("submission rejected")
	return rejected, nil
}

// checkPromotable 晋升前 cedula/ubicacion/fotoHero 必须非空。
// 返回的错误同时匹配 apperr.ErrValidation 与 apperr.ErrStateConflict。
func checkPromotable(sub *model.AgentSubmission) error {
	var missing []string
	if strings.TrimSpace(sub.Cedula) == "" {
		missing = append(missing, "cedula")
	}
	if strings.TrimSpace(sub.Ubicacion) == "" {
		missing = append(missing, "ubicacion")
	}
	if strings.TrimSpace(sub.FotoHero) == "" {
		missing = append(missing, "fotoHero")
	}
	if len(missing) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w: submission %q is missing %s",
		apperr.ErrStateConflict, apperr.ErrValidation, sub.ID, strings.Join(missing, ", "))
}

// PromoteToAgent 把提交记录转换为 Agent。
func PromoteToAgent(sub model.AgentSubmission) model.Agent {
	aseguradoras := canonical.SplitList(sub.Aseguradoras, canonical.SepComma)
	if len(aseguradoras) == 0 {
		aseguradoras = canonical.SplitList([]string(sub.LogosAseg), canonical.SepComma)
	}
	in := model.AgentInput{
		Slug:            sub.Slug,
		Nombre:          sub.Nombre,
		Cedula:          sub.Cedula,
		Avatar:          sub.Foto,
		Ubicacion:       sub.Ubicacion,
		Whatsapp:        sub.Whatsapp,
		Especialidades:  append([]string(nil), sub.Especialidades...),
		Experiencia:     canonical.SplitList(sub.Experiencia, canonical.SepNewline),
		Servicios:       []string{},
		Certificaciones: []string{},
		Aseguradoras:    aseguradoras,
		MediaThumbs:     append([]string(nil), sub.FotosMini...),
		MediaHero:       sub.FotoHero,
		Redes: canonical.SocialLinks(map[string]string{
			"facebook":  sub.Facebook,
			"instagram": sub.Instagram,
			"linkedin":  sub.Linkedin,
			"tiktok":    sub.Tiktok,
		}),
	}
	return in.ToAgent()
}
