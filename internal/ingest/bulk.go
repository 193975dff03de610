package ingest

import (
	"context"

	"agent-directory/internal/apperr"
	"agent-directory/internal/canonical"
	"agent-directory/internal/model"
)

// Bulk 导入松散类型的 JSON 记录数组。
func (i *Ingestor) Bulk(ctx context.Context, records []map[string]any) Result {
	res := newResult(len(records))
	for idx, rec := range records {
		rec := rec
		i.apply(ctx, &res, idx+1, canonical.Text(rec["slug"]), func() (model.AgentInput, error) {
			return NormalizeBulkRecord(rec)
		})
	}
	i.logSummary("bulk", res)
	return res
}

// NormalizeBulkRecord 将一条批量记录转为 AgentInput，列表字段按逗号或竖线拆分。
func NormalizeBulkRecord(rec map[string]any) (model.AgentInput, error) {
	slug, err := resolveSlug(canonical.Text(rec["slug"]), canonical.Text(rec["nombre"]))
	if err != nil {
		return model.AgentInput{}, err
	}
	return normalizeBulkFields(rec, slug), nil
}

// NormalizeAgentUpdate 用于按 slug 更新经纪人：字段规则同 NormalizeBulkRecord，
// 但不从 nombre 推导 slug，未提供 slug 时 Slug 为空，由存储层保留原 slug。
func NormalizeAgentUpdate(rec map[string]any) (model.AgentInput, error) {
	if canonical.Text(rec["nombre"]) == "" {
		return model.AgentInput{}, apperr.Validation("nombre is required")
	}
	var slug string
	if raw := canonical.Text(rec["slug"]); raw != "" {
		if slug = canonical.Slugify(raw); slug == "" {
			return model.AgentInput{}, apperr.Validation("slug %q is not usable", raw)
		}
	}
	return normalizeBulkFields(rec, slug), nil
}

func normalizeBulkFields(rec map[string]any, slug string) model.AgentInput {
	in := model.AgentInput{
		Slug:            slug,
		Nombre:          canonical.Text(rec["nombre"]),
		Cedula:          canonical.Text(rec["cedula"]),
		Verificado:      canonical.Bool(rec["verificado"]),
		Avatar:          canonical.Text(rec["avatar"]),
		Ubicacion:       canonical.Text(rec["ubicacion"]),
		Whatsapp:        canonical.Text(rec["whatsapp"]),
		Especialidades:  canonical.Especialidades(canonical.SplitList(rec["especialidades"], canonical.SepBulk)),
		Experiencia:     canonical.SplitList(rec["experiencia"], canonical.SepBulk),
		Servicios:       canonical.SplitList(rec["servicios"], canonical.SepBulk),
		Certificaciones: canonical.SplitList(rec["certificaciones"], canonical.SepBulk),
		Aseguradoras:    canonical.Aseguradoras(canonical.SplitList(rec["aseguradoras"], canonical.SepBulk)),
		MediaThumbs:     canonical.SplitList(rec["mediaThumbs"], canonical.SepBulk),
		MediaHero:       canonical.Text(rec["mediaHero"]),
		Redes:           canonical.Redes(rec["redes"]),
	}
	if len(in.Redes) == 0 {
		in.Redes = canonical.SocialLinks(socialValues(func(k string) string { return canonical.Text(rec[k]) }))
	}
	if in.MediaHero == "" && len(in.MediaThumbs) > 0 {
		in.MediaHero = in.MediaThumbs[0]
	}
	return in
}

// resolveSlug 优先使用给定 slug，否则由 nombre 生成；两者都为空时报校验错误。
func resolveSlug(slug, nombre string) (string, error) {
	if slug != "" {
		if s := canonical.Slugify(slug); s != "" {
			return s, nil
		}
	}
	if s := canonical.Slugify(nombre); s != "" {
		return s, nil
	}
	return "", apperr.Validation("record needs a nombre or slug")
}

func socialValues(get func(string) string) map[string]string {
	values := make(map[string]string)
	for _, platform := range canonical.SocialPlatforms() {
		if v := get(platform); v != "" {
			values[platform] = v
		}
	}
	return values
}
