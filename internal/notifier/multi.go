package notifier

import (
	"context"
	"errors"

	"agent-directory/internal/model"
)

// submissionNotifier 提供统一通知接口。
type submissionNotifier interface {
	Notify(ctx context.Context, subs []model.AgentSubmission) error
}

// Multi 依次调用所有通知器，汇总错误而不提前返回。
type Multi []submissionNotifier

// Notify 调用全部通知器。
func (m Multi) Notify(ctx context.Context, subs []model.AgentSubmission) error {
	if len(subs) == 0 {
		return nil
	}
	var errs []error
	for _, n := range m {
		if n == nil {
			continue
		}
		if err := n.Notify(ctx, subs); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
