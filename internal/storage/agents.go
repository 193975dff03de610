package storage

import (
	"context"
	"fmt"

	"agent-directory/internal/apperr"
	"agent-directory/internal/model"

	"gorm.io/gorm/clause"
)

// agentUpsertColumns 为 upsert 冲突时覆盖的列，不含 id/slug/created_at。
var agentUpsertColumns = []string{
	"nombre",
	"cedula",
	"verificado",
	"avatar",
	"ubicacion",
	"whatsapp",
	"especialidades",
	"experiencia",
	"servicios",
	"certificaciones",
	"aseguradoras",
	"media_thumbs",
	"media_hero",
	"redes",
	"updated_at",
}

// ListAgents 返回按创建时间倒序的经纪人列表。
func (s *Store) ListAgents(ctx context.Context) ([]model.Agent, error) {
	var agents []model.Agent
	if err := s.db.WithContext(ctx).Order("created_at DESC").Order("id DESC").Find(&agents).Error; err != nil {
		return nil, translateError("list agents", err)
	}
	return agents, nil
}

// GetAgent 根据 slug 获取经纪人，不存在时返回 apperr.ErrNotFound。
func (s *Store) GetAgent(ctx context.Context, slug string) (*model.Agent, error) {
	var agent model.Agent
	if err := s.db.WithContext(ctx).First(&agent, "slug = ?", slug).Error; err != nil {
		return nil, translateError(fmt.Sprintf("agent %q", slug), err)
	}
	return &agent, nil
}

// AgentExists 判断 slug 是否已存在。
func (s *Store) AgentExists(ctx context.Context, slug string) (bool, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&model.Agent{}).Where("slug = ?", slug).Count(&count).Error; err != nil {
		return false, translateError("count agents", err)
	}
	return count > 0, nil
}

// CreateAgent 新增经纪人，slug 冲突时返回 apperr.ErrConflict。
func (s *Store) CreateAgent(ctx context.Context, agent *model.Agent) error {
	if err := s.db.WithContext(ctx).Create(agent).Error; err != nil {
		return translateError(fmt.Sprintf("create agent %q", agent.Slug), err)
	}
	return nil
}

// UpdateAgent 按 slug 覆盖经纪人字段；payload 的 slug 不同则重新设定主键 slug。
func (s *Store) UpdateAgent(ctx context.Context, slug string, payload *model.Agent) (*model.Agent, error) {
	existing, err := s.GetAgent(ctx, slug)
	if err != nil {
		return nil, err
	}

	updated := *payload
	updated.ID = existing.ID
	updated.CreatedAt = existing.CreatedAt
	if updated.Slug == "" {
		updated.Slug = existing.Slug
	}
	if err := s.db.WithContext(ctx).Save(&updated).Error; err != nil {
		return nil, translateError(fmt.Sprintf("update agent %q", slug), err)
	}
	return &updated, nil
}

// DeleteAgent 按 slug 删除经纪人。
func (s *Store) DeleteAgent(ctx context.Context, slug string) error {
	tx := s.db.WithContext(ctx).Where("slug = ?", slug).Delete(&model.Agent{})
	if tx.Error != nil {
		return translateError(fmt.Sprintf("delete agent %q", slug), tx.Error)
	}
	if tx.RowsAffected == 0 {
		return apperr.NotFound("agent %q", slug)
	}
	return nil
}

// UpsertAgent 按 slug 写入经纪人，已存在则覆盖全部字段。
// 调用方需要区分新增/更新时应先调用 AgentExists。
func (s *Store) UpsertAgent(ctx context.Context, agent *model.Agent) error {
	tx := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "slug"}},
		DoUpdates: clause.AssignmentColumns(agentUpsertColumns),
	}).Create(agent)
	if tx.Error != nil {
		return translateError(fmt.Sprintf("upsert agent %q", agent.Slug), tx.Error)
	}
	return nil
}
