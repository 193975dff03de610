package ingest

import (
	"context"
	"regexp"
	"strings"

	"agent-directory/internal/apperr"
	"agent-directory/internal/canonical"
	"agent-directory/internal/model"

	"github.com/sirupsen/logrus"
)

var lineSplitRe = regexp.MustCompile(`\r?\n`)

// CSVDocument 是解析后的表头与按表头组织的行。
type CSVDocument struct {
	Headers []string
	Records []map[string]string
}

// ParseCSV 按行切分（丢弃空行），首行为表头；缺失的尾部列补空串。
// 引号内的逗号不作为分隔符，"" 表示转义的双引号；不支持跨行的引号字段。
func ParseCSV(text string) (CSVDocument, error) {
	var lines []string
	for _, line := range lineSplitRe.Split(text, -1) {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	if len(lines) == 0 {
		return CSVDocument{}, apperr.Validation("csv has no header row")
	}

	headers := SplitCSVLine(strings.TrimPrefix(lines[0], "\uFEFF"))
	doc := CSVDocument{Headers: headers, Records: make([]map[string]string, 0, len(lines)-1)}
	for _, line := range lines[1:] {
		fields := SplitCSVLine(line)
		rec := make(map[string]string, len(headers))
		for idx, h := range headers {
			if idx < len(fields) {
				rec[h] = fields[idx]
			} else {
				rec[h] = ""
			}
		}
		doc.Records = append(doc.Records, rec)
	}
	return doc, nil
}

// SplitCSVLine 拆分单行字段，结果去除首尾空白。
func SplitCSVLine(line string) []string {
	var (
		fields   []string
		current  strings.Builder
		inQuotes bool
	)
	runes := []rune(line)
	for idx := 0; idx < len(runes); idx++ {
		r := runes[idx]
		switch {
		case r == '"' && inQuotes && idx+1 < len(runes) && runes[idx+1] == '"':
			current.WriteRune('"')
			idx++
		case r == '"':
			inQuotes = !inQuotes
		case r == ',' && !inQuotes:
			fields = append(fields, strings.TrimSpace(current.String()))
			current.Reset()
		default:
			current.WriteRune(r)
		}
	}
	fields = append(fields, strings.TrimSpace(current.String()))
	return fields
}

// CSV 导入 CSV 文本；文件内重复的 slug 只记录不拦截，新增/更新仍以数据库状态为准。
func (i *Ingestor) CSV(ctx context.Context, text string) (Result, error) {
	doc, err := ParseCSV(text)
	if err != nil {
		return Result{}, err
	}

	res := newResult(len(doc.Records))
	seen := make(map[string]struct{}, len(doc.Records))
	for idx, rec := range doc.Records {
		row := idx + 1
		rec := lowerKeys(rec)
		i.apply(ctx, &res, row, rec["slug"], func() (model.AgentInput, error) {
			in, err := NormalizeCSVRow(rec)
			if err != nil {
				return in, err
			}
			if _, dup := seen[in.Slug]; dup {
				res.DuplicateSlugs = append(res.DuplicateSlugs, in.Slug)
				i.logger.WithFields(logrus.Fields{"row": row, "slug": in.Slug}).Warn("slug repeated within csv")
			}
			seen[in.Slug] = struct{}{}
			return in, nil
		})
	}
	i.logSummary("csv", res)
	return res, nil
}

// NormalizeCSVRow 将一行 CSV（表头小写）转为 AgentInput。
// 与批量导入不同：布尔只认 "true"，列表只按逗号拆分，社交列单独转为链接。
func NormalizeCSVRow(rec map[string]string) (model.AgentInput, error) {
	nombre := strings.TrimSpace(rec["nombre"])
	if nombre == "" {
		return model.AgentInput{Slug: strings.TrimSpace(rec["slug"])}, apperr.Validation("row is missing nombre")
	}
	slug, err := resolveSlug(strings.TrimSpace(rec["slug"]), nombre)
	if err != nil {
		return model.AgentInput{}, err
	}

	list := func(col string) []string {
		return canonical.SplitList(rec[strings.ToLower(col)], canonical.SepComma)
	}
	in := model.AgentInput{
		Slug:            slug,
		Nombre:          nombre,
		Cedula:          strings.TrimSpace(rec["cedula"]),
		Verificado:      canonical.ParseBool(rec["verificado"]),
		Avatar:          strings.TrimSpace(rec["avatar"]),
		Ubicacion:       strings.TrimSpace(rec["ubicacion"]),
		Whatsapp:        strings.TrimSpace(rec["whatsapp"]),
		Especialidades:  canonical.Especialidades(list("especialidades")),
		Experiencia:     list("experiencia"),
		Servicios:       list("servicios"),
		Certificaciones: list("certificaciones"),
		Aseguradoras:    canonical.Aseguradoras(list("aseguradoras")),
		MediaThumbs:     list("mediaThumbs"),
		MediaHero:       strings.TrimSpace(rec["mediahero"]),
	}

	redes := canonical.SocialLinks(socialValues(func(k string) string { return rec[k] }))
	redes = append(redes, canonical.ParseRedesText(rec["redes"])...)
	if len(redes) > 0 {
		in.Redes = redes
	}
	if in.MediaHero == "" && len(in.MediaThumbs) > 0 {
		in.MediaHero = in.MediaThumbs[0]
	}
	return in, nil
}

func lowerKeys(rec map[string]string) map[string]string {
	out := make(map[string]string, len(rec))
	for k, v := range rec {
		out[strings.ToLower(strings.TrimSpace(k))] = v
	}
	return out
}
