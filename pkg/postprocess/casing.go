package postprocess

import "strings"

func toCamelCase(text string) string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString(strings.ToLower(words[0]))
	for _, word := range words[1:] {
		b.WriteString(capitalizeFirst(strings.ToLower(word)))
	}
	return b.String()
}

func toPascalCase(text string) string {
	var b strings.Builder
	for _, word := range strings.Fields(text) {
		b.WriteString(capitalizeFirst(strings.ToLower(word)))
	}
	return b.String()
}

func toSnakeCase(text string) string {
	return joinLower(text, "_")
}

func toKebabCase(text string) string {
	return joinLower(text, "-")
}

func toConstantCase(text string) string {
	words := strings.Fields(text)
	upper := make([]string, len(words))
	for i, w := range words {
		upper[i] = strings.ToUpper(w)
	}
	return strings.Join(upper, "_")
}

func joinLower(text, sep string) string {
	words := strings.Fields(text)
	lower := make([]string, len(words))
	for i, w := range words {
		lower[i] = strings.ToLower(w)
	}
	return strings.Join(lower, sep)
}
