package model

import (
	"time"

	"gorm.io/datatypes"
)

// Red 表示一条社交网络链接。
type Red struct {
	Icon string `json:"icon"`
	URL  string `json:"url"`
}

// Agent 表示对外发布的经纪人档案
// - Slug: 唯一外部标识，小写、URL 安全，最长 80 字符
// - Especialidades: 规范化后的专业分类 slug
// - Aseguradoras: 已解析的保险公司 logo 路径或原始名称
// - MediaHero: 为空时取 MediaThumbs 第一项
// - CreatedAt/UpdatedAt: 由 GORM 自动维护

type Agent struct {
	ID              uint                        `gorm:"primaryKey" json:"-"`
	Slug            string                      `gorm:"size:80;not null;uniqueIndex" json:"slug"`
	Nombre          string                      `gorm:"not null" json:"nombre"`
	Cedula          string                      `json:"cedula"`
	Verificado      bool                        `gorm:"not null;default:false" json:"verificado"`
	Avatar          *string                     `json:"avatar"`
	Ubicacion       string                      `json:"ubicacion"`
	Whatsapp        *string                     `json:"whatsapp"`
	Especialidades  datatypes.JSONSlice[string] `json:"especialidades"`
	Experiencia     datatypes.JSONSlice[string] `json:"experiencia"`
	Servicios       datatypes.JSONSlice[string] `json:"servicios"`
	Certificaciones datatypes.JSONSlice[string] `json:"certificaciones"`
	Aseguradoras    datatypes.JSONSlice[string] `json:"aseguradoras"`
	MediaThumbs     datatypes.JSONSlice[string] `json:"mediaThumbs"`
	MediaHero       *string                     `json:"mediaHero"`
	Redes           datatypes.JSONSlice[Red]    `json:"redes"`
	CreatedAt       time.Time                   `json:"createdAt"`
	UpdatedAt       time.Time                   `json:"updatedAt"`
}

// AgentInput 是各入口归一化之后写入仓储前的统一结构。
type AgentInput struct {
	Slug            string   `json:"slug"`
	Nombre          string   `json:"nombre"`
	Cedula          string   `json:"cedula"`
	Verificado      bool     `json:"verificado"`
	Avatar          string   `json:"avatar"`
	Ubicacion       string   `json:"ubicacion"`
	Whatsapp        string   `json:"whatsapp"`
	Especialidades  []string `json:"especialidades"`
	Experiencia     []string `json:"experiencia"`
	Servicios       []string `json:"servicios"`
	Certificaciones []string `json:"certificaciones"`
	Aseguradoras    []string `json:"aseguradoras"`
	MediaThumbs     []string `json:"mediaThumbs"`
	MediaHero       string   `json:"mediaHero"`
	Redes           []Red    `json:"redes"`
}

// ToAgent 将输入转换为持久化实体，空字符串视为 NULL，集合字段保持非 nil。
func (in AgentInput) ToAgent() Agent {
	hero := in.MediaHero
	if hero == "" && len(in.MediaThumbs) > 0 {
		hero = in.MediaThumbs[0]
	}
	agent := Agent{
		Slug:            in.Slug,
		Nombre:          in.Nombre,
		Cedula:          in.Cedula,
		Verificado:      in.Verificado,
		Avatar:          nullable(in.Avatar),
		Ubicacion:       in.Ubicacion,
		Whatsapp:        nullable(in.Whatsapp),
		Especialidades:  orEmpty(in.Especialidades),
		Experiencia:     orEmpty(in.Experiencia),
		Servicios:       orEmpty(in.Servicios),
		Certificaciones: orEmpty(in.Certificaciones),
		Aseguradoras:    orEmpty(in.Aseguradoras),
		MediaThumbs:     orEmpty(in.MediaThumbs),
		MediaHero:       nullable(hero),
	}
	if len(in.Redes) > 0 {
		agent.Redes = datatypes.JSONSlice[Red](in.Redes)
	}
	return agent
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func orEmpty(values []string) datatypes.JSONSlice[string] {
	if values == nil {
		return datatypes.JSONSlice[string]{}
	}
	return datatypes.JSONSlice[string](values)
}
