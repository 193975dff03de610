package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// SubmissionStatus 表示提交记录的审核状态。
type SubmissionStatus string

const (
	SubmissionPending  SubmissionStatus = "PENDING"
	SubmissionApproved SubmissionStatus = "APPROVED"
	SubmissionRejected SubmissionStatus = "REJECTED"
)

// Valid 判断状态是否为已知枚举值。
func (s SubmissionStatus) Valid() bool {
	switch s {
	case SubmissionPending, SubmissionApproved, SubmissionRejected:
		return true
	}
	return false
}

// AgentSubmission 表示外部提交、待管理员审核的经纪人档案
// Experiencia 以换行拼接的文本存储，Aseguradoras 以逗号拼接的文本存储。
type AgentSubmission struct {
	ID             string                      `gorm:"primaryKey;size:36" json:"id"`
	Slug           string                      `gorm:"size:80;not null;uniqueIndex" json:"slug"`
	Status         SubmissionStatus            `gorm:"size:16;not null;index;default:PENDING" json:"status"`
	Nombre         string                      `gorm:"not null" json:"nombre"`
	Cedula         string                      `json:"cedula"`
	Ubicacion      string                      `json:"ubicacion"`
	Whatsapp       string                      `json:"whatsapp"`
	Foto           string                      `json:"foto"`
	FotoHero       string                      `json:"fotoHero"`
	FotosMini      datatypes.JSONSlice[string] `json:"fotosMini"`
	Especialidades datatypes.JSONSlice[string] `json:"especialidades"`
	Experiencia    string                      `gorm:"type:text" json:"experiencia"`
	Aseguradoras   string                      `gorm:"type:text" json:"aseguradoras"`
	LogosAseg      datatypes.JSONSlice[string] `json:"logosAseg"`
	LogroDestacado string                      `gorm:"type:text" json:"logroDestacado"`
	Facebook       string                      `json:"facebook"`
	Instagram      string                      `json:"instagram"`
	Linkedin       string                      `json:"linkedin"`
	Tiktok         string                      `json:"tiktok"`
	ReviewedAt     *time.Time                  `json:"reviewedAt"`
	ReviewNotes    *string                     `gorm:"type:text" json:"reviewNotes"`
	CreatedAt      time.Time                   `json:"createdAt"`
	UpdatedAt      time.Time                   `json:"updatedAt"`
}

// BeforeCreate 生成 ID 并保证初始状态为 PENDING。
func (s *AgentSubmission) BeforeCreate(*gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	if s.Status == "" {
		s.Status = SubmissionPending
	}
	return nil
}

// Transition 描述一次审核状态迁移。
type Transition struct {
	From  SubmissionStatus
	To    SubmissionStatus
	At    time.Time
	Notes *string
}
