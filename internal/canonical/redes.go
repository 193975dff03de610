package canonical

import (
	"encoding/json"
	"strings"

	"agent-directory/internal/model"
)

// socialBases 各平台账号转 URL 的前缀。
var socialBases = []struct {
	Icon string
	Base string
}{
	{Icon: "facebook", Base: "https://facebook.com/"},
	{Icon: "instagram", Base: "https://instagram.com/"},
	{Icon: "linkedin", Base: "https://linkedin.com/in/"},
	{Icon: "tiktok", Base: "https://tiktok.com/@"},
}

// SocialPlatforms 返回支持的平台名，顺序固定。
func SocialPlatforms() []string {
	out := make([]string, 0, len(socialBases))
	for _, s := range socialBases {
		out = append(out, s.Icon)
	}
	return out
}

// SocialLink 将单个平台的账号或 URL 转为 {icon,url}，空值返回 ok=false。
func SocialLink(platform, value string) (model.Red, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return model.Red{}, false
	}
	for _, s := range socialBases {
		if s.Icon != platform {
			continue
		}
		if IsAbsoluteURL(value) {
			return model.Red{Icon: s.Icon, URL: value}, true
		}
		handle := strings.TrimLeft(value, "@/")
		if handle == "" {
			return model.Red{}, false
		}
		return model.Red{Icon: s.Icon, URL: s.Base + handle}, true
	}
	return model.Red{}, false
}

// SocialLinks 按固定平台顺序从 platform→value 映射构造链接列表。
func SocialLinks(values map[string]string) []model.Red {
	out := make([]model.Red, 0, len(values))
	for _, s := range socialBases {
		if red, ok := SocialLink(s.Icon, values[s.Icon]); ok {
			out = append(out, red)
		}
	}
	return out
}

// ParseRedesText 解析按行分隔的 JSON 对象 {icon,url}；解析失败的行直接跳过。
// 单元格里的字面量 "\n" 也视为换行。
func ParseRedesText(cell string) []model.Red {
	cell = strings.ReplaceAll(cell, `\n`, "\n")
	out := make([]model.Red, 0)
	for _, line := range strings.Split(cell, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		var red model.Red
		if err := json.Unmarshal([]byte(line), &red); err != nil {
			continue
		}
		if red.URL == "" {
			continue
		}
		out = append(out, red)
	}
	return out
}

// Redes 解析批量导入中的 redes 字段：对象数组、JSON 文本或按行 JSON。
func Redes(v any) []model.Red {
	out := make([]model.Red, 0)
	switch val := v.(type) {
	case []any:
		for _, item := range val {
			obj, ok := item.(map[string]any)
			if !ok {
				continue
			}
			red := model.Red{Icon: Text(obj["icon"]), URL: Text(obj["url"])}
			if red.URL != "" {
				out = append(out, red)
			}
		}
	case string:
		trimmed := strings.TrimSpace(val)
		if strings.HasPrefix(trimmed, "[") {
			var reds []model.Red
			if err := json.Unmarshal([]byte(trimmed), &reds); err == nil {
				for _, red := range reds {
					if red.URL != "" {
						out = append(out, red)
					}
				}
			}
			return out
		}
		return ParseRedesText(trimmed)
	}
	return out
}
