package utils

import "strings"

// Minimal server-side i18n for fixed keys. The HTML views embed their own
// copy; the server only localizes status messages and health output.

var translations = map[string]map[string]string{
	"en": {
		"health.ok":              "ok",
		"responses.deleted":      "Response deleted.",
		"responses.notfound":     "No response with that id.",
		"responses.deletefailed": "Could not delete the response.",
		"responses.cleared":      "All responses and uploaded files have been cleared.",
		"responses.clearfailed":  "An error occurred while clearing responses.",
	},
	"zh": {
		"health.ok":              "好的",
		"responses.deleted":      "回答已删除。",
		"responses.notfound":     "没有找到对应的回答。",
		"responses.deletefailed": "删除回答失败。",
		"responses.cleared":      "所有回答和上传文件均已清空。",
		"responses.clearfailed":  "清空回答时出错。",
	},
}

// T returns the translated string for key in locale; falls back to English,
// then to the key itself.
func T(locale, key string) string {
	if m, ok := translations[locale]; ok {
		if v, ok := m[key]; ok {
			return v
		}
	}
	if v, ok := translations["en"][key]; ok {
		return v
	}
	return key
}

// DetermineLocale picks a supported locale from an explicit query value and
// an Accept-Language header, in that priority, falling back otherwise. Only
// the primary subtag is matched; quality weights are honored by header order,
// which is good enough for a two-locale table.
func DetermineLocale(query, acceptLang string, supported []string, fallback string) string {
	if l := matchLocale(query, supported); l != "" {
		return l
	}
	for _, part := range strings.Split(acceptLang, ",") {
		tag := strings.TrimSpace(part)
		if i := strings.IndexByte(tag, ';'); i >= 0 {
			tag = tag[:i]
		}
		if l := matchLocale(tag, supported); l != "" {
			return l
		}
	}
	return fallback
}

func matchLocale(tag string, supported []string) string {
	tag = strings.ToLower(strings.TrimSpace(tag))
	if i := strings.IndexByte(tag, '-'); i >= 0 {
		tag = tag[:i]
	}
	for _, s := range supported {
		if tag == s {
			return s
		}
	}
	return ""
}
