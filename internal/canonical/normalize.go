// Package canonical 把自由文本映射到内部固定词表，并把混合格式的输入归一化为标量/数组。
// 这里的函数都是纯函数，各条导入路径共用。
package canonical

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// MaxSlugLength 为 slug 的最大长度。
const MaxSlugLength = 80

// 常用分隔符组合。
const (
	SepComma   = ","
	SepBulk    = ",|"
	SepNewline = "\n"
)

var (
	nonKeyRe = regexp.MustCompile(`[^a-z0-9]+`)
	slugRe   = regexp.MustCompile(`^[a-z0-9-]+$`)
	absURLRe = regexp.MustCompile(`(?i)^https?://`)
	spaceRe  = regexp.MustCompile(`\s+`)
)

// StripDiacritics 做 NFD 分解并去掉组合附加符号。
func StripDiacritics(s string) string {
	decomposed := norm.NFD.String(s)
	var b strings.Builder
	b.Grow(len(decomposed))
	for _, r := range decomposed {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// NormalizeKey 小写、去重音、去掉所有非 [a-z0-9] 字符，多次调用结果不变。
func NormalizeKey(s string) string {
	s = StripDiacritics(strings.ToLower(s))
	return nonKeyRe.ReplaceAllString(s, "")
}

// Slugify 将任意文本转换为 slug，超过 80 字符截断。
func Slugify(s string) string {
	s = StripDiacritics(strings.ToLower(strings.TrimSpace(s)))
	s = nonKeyRe.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	if len(s) > MaxSlugLength {
		s = s[:MaxSlugLength]
	}
	return s
}

// IsSlug 判断 s 是否符合 [a-z0-9-]+。
func IsSlug(s string) bool {
	return slugRe.MatchString(s)
}

// IsAbsoluteURL 判断是否以 http:// 或 https:// 开头。
func IsAbsoluteURL(s string) bool {
	return absURLRe.MatchString(strings.TrimSpace(s))
}

// SplitList 把原生数组、分隔字符串或空值统一转为去空白、非空的字符串数组。
// seps 中的每个字符都视为分隔符。
func SplitList(v any, seps string) []string {
	out := make([]string, 0)
	switch val := v.(type) {
	case nil:
		return out
	case string:
		parts := strings.FieldsFunc(val, func(r rune) bool {
			return strings.ContainsRune(seps, r)
		})
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				out = append(out, trimmed)
			}
		}
	case []string:
		for _, p := range val {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				out = append(out, trimmed)
			}
		}
	case []any:
		for _, item := range val {
			if item == nil {
				continue
			}
			s, ok := item.(string)
			if !ok {
				s = fmt.Sprint(item)
			}
			if trimmed := strings.TrimSpace(s); trimmed != "" {
				out = append(out, trimmed)
			}
		}
	default:
		if trimmed := strings.TrimSpace(fmt.Sprint(val)); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// Text 将松散类型的值转为去空白字符串，nil 返回空串。
func Text(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(val)
	case float64:
		// JSON 数字（如纯数字的 cedula）不带小数部分时按整数输出
		if val == float64(int64(val)) {
			return fmt.Sprintf("%d", int64(val))
		}
		return fmt.Sprint(val)
	default:
		return strings.TrimSpace(fmt.Sprint(val))
	}
}

// Bool 解析松散布尔值：原生 bool 直接使用，字符串只有 "true" 为真。
func Bool(v any) bool {
	switch val := v.(type) {
	case bool:
		return val
	case string:
		return ParseBool(val)
	default:
		return false
	}
}

// ParseBool 仅把 "true"（忽略大小写与首尾空白）视为真。
func ParseBool(s string) bool {
	return strings.EqualFold(strings.TrimSpace(s), "true")
}

func looseKey(s string) string {
	s = StripDiacritics(strings.ToLower(s))
	return spaceRe.ReplaceAllString(s, "")
}
