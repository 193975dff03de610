package notifier

import (
	"context"

	"agent-directory/internal/model"

	"github.com/sirupsen/logrus"
)

// LogNotifier 仅记录新提交，适合开发阶段使用。
type LogNotifier struct {
	logger *logrus.Entry
}

// NewLogNotifier 创建日志通知器，未提供 logger 时使用标准 logrus 实例。
func NewLogNotifier(logger *logrus.Entry) *LogNotifier {
	if logger == nil {
		logger = logrus.NewEntry(logrus.StandardLogger())
	}
	return &LogNotifier{logger: logger.WithField("component", "notify")}
}

// Notify 逐条记录待审核的提交。
func (n LogNotifier) Notify(ctx context.Context, subs []model.AgentSubmission) error {
	for _, sub := range subs {
		n.logger.WithFields(logrus.Fields{
			"submission_id": sub.ID,
			"slug":          sub.Slug,
			"nombre":        sub.Nombre,
		}).Info("new submission awaiting review")
	}
	return nil
}
