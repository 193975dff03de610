// Package ingest 把批量 JSON 与 CSV 记录归一化为 model.AgentInput 并逐条 upsert。
package ingest

import (
	"context"
	"fmt"

	"agent-directory/internal/apperr"
	"agent-directory/internal/model"

	"github.com/sirupsen/logrus"
)

// Store 定义导入所需的持久化接口。
type Store interface {
	AgentExists(ctx context.Context, slug string) (bool, error)
	UpsertAgent(ctx context.Context, agent *model.Agent) error
}

// Failure 描述一条导入失败的记录，Row 从 1 开始。
type Failure struct {
	Row    int    `json:"row"`
	Slug   string `json:"slug,omitempty"`
	Reason string `json:"reason"`
	Error  string `json:"error"`
}

// Result 汇总一次导入的结果。
type Result struct {
	Total          int       `json:"total"`
	Created        int       `json:"created"`
	Updated        int       `json:"updated"`
	Failed         []Failure `json:"failed"`
	CreatedSlugs   []string  `json:"createdSlugs"`
	UpdatedSlugs   []string  `json:"updatedSlugs"`
	DuplicateSlugs []string  `json:"duplicateSlugs,omitempty"`
}

func newResult(total int) Result {
	return Result{
		Total:        total,
		Failed:       make([]Failure, 0),
		CreatedSlugs: make([]string, 0),
		UpdatedSlugs: make([]string, 0),
	}
}

// Ingestor 顺序处理记录，单条失败不会中断整批。
type Ingestor struct {
	store  Store
	logger *logrus.Entry
}

// New 创建 Ingestor，logger 为空时使用标准 logrus 实例。
func New(store Store, logger *logrus.Entry) *Ingestor {
	if logger == nil {
		logger = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Ingestor{store: store, logger: logger.WithField("component", "ingest")}
}

// persist 先查询是否存在再 upsert，以此区分新增与更新。
func (i *Ingestor) persist(ctx context.Context, in model.AgentInput) (created bool, err error) {
	exists, err := i.store.AgentExists(ctx, in.Slug)
	if err != nil {
		return false, err
	}
	agent := in.ToAgent()
	if err := i.store.UpsertAgent(ctx, &agent); err != nil {
		return false, err
	}
	return !exists, nil
}

// apply 处理单条记录并把结果计入 res；panic 也只记为该条失败。
func (i *Ingestor) apply(ctx context.Context, res *Result, row int, slugHint string, normalize func() (model.AgentInput, error)) {
	slug := slugHint
	err := func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("unexpected failure: %v", r)
			}
		}()
		in, err := normalize()
		if err != nil {
			return err
		}
		slug = in.Slug
		created, err := i.persist(ctx, in)
		if err != nil {
			return err
		}
		if created {
			res.Created++
			res.CreatedSlugs = append(res.CreatedSlugs, in.Slug)
		} else {
			res.Updated++
			res.UpdatedSlugs = append(res.UpdatedSlugs, in.Slug)
		}
		return nil
	}()
	if err == nil {
		return
	}

	res.Failed = append(res.Failed, Failure{
		Row:    row,
		Slug:   slug,
		Reason: apperr.Reason(err),
		Error:  err.Error(),
	})
	i.logger.WithFields(logrus.Fields{"row": row, "slug": slug}).WithError(err).Warn("agent record skipped")
}

func (i *Ingestor) logSummary(source string, res Result) {
	i.logger.WithFields(logrus.Fields{
		"source":  source,
		"total":   res.Total,
		"created": res.Created,
		"updated": res.Updated,
		"failed":  len(res.Failed),
	}).Info("agent import finished")
}
