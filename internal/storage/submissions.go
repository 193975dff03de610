package storage

import (
	"context"
	"fmt"

	"agent-directory/internal/apperr"
	"agent-directory/internal/model"
)

// CreateSubmission 新增提交记录，slug 已存在时返回 apperr.ErrConflict。
func (s *Store) CreateSubmission(ctx context.Context, sub *model.AgentSubmission) error {
	if err := s.db.WithContext(ctx).Create(sub).Error; err != nil {
		return translateError(fmt.Sprintf("create submission %q", sub.Slug), err)
	}
	return nil
}

// SubmissionSlugExists 判断提交记录中是否已有该 slug。
func (s *Store) SubmissionSlugExists(ctx context.Context, slug string) (bool, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&model.AgentSubmission{}).Where("slug = ?", slug).Count(&count).Error; err != nil {
		return false, translateError("count submissions", err)
	}
	return count > 0, nil
}

// ListSubmissions 返回按创建时间倒序的提交记录，status 为空时不过滤。
func (s *Store) ListSubmissions(ctx context.Context, status model.SubmissionStatus) ([]model.AgentSubmission, error) {
	var subs []model.AgentSubmission
	query := s.db.WithContext(ctx).Order("created_at DESC")
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if err := query.Find(&subs).Error; err != nil {
		return nil, translateError("list submissions", err)
	}
	return subs, nil
}

// GetSubmission 根据 ID 获取提交记录。
func (s *Store) GetSubmission(ctx context.Context, id string) (*model.AgentSubmission, error) {
	var sub model.AgentSubmission
	if err := s.db.WithContext(ctx).First(&sub, "id = ?", id).Error; err != nil {
		return nil, translateError(fmt.Sprintf("submission %q", id), err)
	}
	return &sub, nil
}

// TransitionSubmission 以条件更新完成状态迁移，只有当前状态等于 t.From 时才生效。
// 并发审核同一记录时只有一方能更新成功，另一方得到 apperr.ErrStateConflict。
func (s *Store) TransitionSubmission(ctx context.Context, id string, t model.Transition) error {
	values := map[string]any{
		"status":      t.To,
		"reviewed_at": t.At,
	}
	if t.Notes != nil {
		values["review_notes"] = *t.Notes
	}
	tx := s.db.WithContext(ctx).Model(&model.AgentSubmission{}).
		Where("id = ? AND status = ?", id, t.From).
		Updates(values)
	if tx.Error != nil {
		return translateError(fmt.Sprintf("transition submission %q", id), tx.Error)
	}
	if tx.RowsAffected == 1 {
		return nil
	}

	current, err := s.GetSubmission(ctx, id)
	if err != nil {
		return err
	}
	return apperr.StateConflict("submission %q is %s, expected %s", id, current.Status, t.From)
}
