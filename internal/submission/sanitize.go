package submission

import (
	"strings"

	"agent-directory/internal/canonical"

	"golang.org/x/net/html"
)

// sanitize 去掉公开表单文本中的 HTML 标记并规整列表字段。
func sanitize(req Request) Request {
	req.Slug = strings.TrimSpace(req.Slug)
	req.Nombre = stripTags(req.Nombre)
	req.Cedula = stripTags(req.Cedula)
	req.Ubicacion = stripTags(req.Ubicacion)
	req.Whatsapp = strings.TrimSpace(req.Whatsapp)
	req.Foto = strings.TrimSpace(req.Foto)
	req.FotoHero = strings.TrimSpace(req.FotoHero)
	req.Experiencia = stripTags(req.Experiencia)
	req.Aseguradoras = stripTags(req.Aseguradoras)
	req.LogroDestacado = stripTags(req.LogroDestacado)
	req.Facebook = strings.TrimSpace(req.Facebook)
	req.Instagram = strings.TrimSpace(req.Instagram)
	req.Linkedin = strings.TrimSpace(req.Linkedin)
	req.Tiktok = strings.TrimSpace(req.Tiktok)
	req.FotosMini = canonical.SplitList(req.FotosMini, canonical.SepComma)
	req.Especialidades = canonical.SplitList(req.Especialidades, canonical.SepComma)
	req.LogosAseg = canonical.SplitList(req.LogosAseg, canonical.SepComma)
	return req
}

// stripTags 只保留文本节点，script/style 内容整体丢弃。
func stripTags(s string) string {
	if !strings.ContainsAny(s, "<&") {
		return strings.TrimSpace(s)
	}
	z := html.NewTokenizer(strings.NewReader(s))
	var (
		b    strings.Builder
		skip int
	)
	for {
		switch z.Next() {
		case html.ErrorToken:
			return strings.TrimSpace(b.String())
		case html.StartTagToken:
			if name, _ := z.TagName(); isRawTag(name) {
				skip++
			}
		case html.EndTagToken:
			if name, _ := z.TagName(); isRawTag(name) && skip > 0 {
				skip--
			}
		case html.TextToken:
			if skip == 0 {
				b.Write(z.Text())
			}
		}
	}
}

func isRawTag(name []byte) bool {
	tag := string(name)
	return tag == "script" || tag == "style"
}
