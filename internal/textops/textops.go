// Package textops implements text transformations: case conversion,
// find/replace and content statistics.
package textops

import (
	"bufio"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/iancoleman/strcase"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/dvirzg/Forge/internal/errors"
)

// Service performs in-memory text operations.
type Service struct {
	log   *slog.Logger
	title cases.Caser
}

// New creates a text service.
func New(log *slog.Logger) *Service {
	return &Service{
		log:   log.With("component", "textops"),
		title: cases.Title(language.English),
	}
}

// ConvertCase rewrites text into the named case style. Style names accept
// common aliased spellings ("uppercase", "UPPER", "camelCase").
func (s *Service) ConvertCase(text, style string) (string, error) {
	switch normalizeStyle(style) {
	case "upper":
		return strings.ToUpper(text), nil
	case "lower":
		return strings.ToLower(text), nil
	case "title":
		return s.title.String(text), nil
	case "sentence":
		return sentenceCase(text), nil
	case "camel":
		return strcase.ToLowerCamel(text), nil
	case "pascal":
		return strcase.ToCamel(text), nil
	case "snake":
		return strcase.ToSnake(text), nil
	case "kebab":
		return strcase.ToKebab(text), nil
	case "screaming_snake":
		return strcase.ToScreamingSnake(text), nil
	default:
		return "", &errors.UnsupportedParamError{
			Param: "case",
			Value: style,
			Allowed: []string{
				"upper", "lower", "title", "sentence",
				"camel", "pascal", "snake", "kebab", "screaming_snake",
			},
		}
	}
}

func normalizeStyle(style string) string {
	style = strings.ToLower(strings.TrimSpace(style))
	style = strings.ReplaceAll(style, "-", "_")

	switch style {
	case "uppercase", "upper_case":
		return "upper"
	case "lowercase", "lower_case":
		return "lower"
	case "titlecase", "title_case":
		return "title"
	case "sentencecase", "sentence_case":
		return "sentence"
	case "camelcase", "camel_case":
		return "camel"
	case "pascalcase", "pascal_case":
		return "pascal"
	case "snakecase", "snake_case":
		return "snake"
	case "kebabcase", "kebab_case":
		return "kebab"
	case "screamingsnake", "screaming_snake_case", "constant":
		return "screaming_snake"
	}

	return style
}

func sentenceCase(text string) string {
	lower := strings.ToLower(text)

	r, size := utf8.DecodeRuneInString(lower)
	if size == 0 {
		return lower
	}

	return strings.ToUpper(string(r)) + lower[size:]
}

// ReplaceAll substitutes every occurrence of find with replace.
// The find string must be non-empty.
func (s *Service) ReplaceAll(text, find, replace string) (string, error) {
	if find == "" {
		return "", errors.ErrEmptyFind
	}

	return strings.ReplaceAll(text, find, replace), nil
}

// Metadata reports content statistics for the given text.
func (s *Service) Metadata(text string) map[string]any {
	lines := 0

	if text != "" {
		sc := bufio.NewScanner(strings.NewReader(text))
		sc.Buffer(make([]byte, 0, 64*1024), len(text)+1)

		for sc.Scan() {
			lines++
		}
	}

	return map[string]any{
		"bytes": len(text),
		"runes": utf8.RuneCountInString(text),
		"words": len(strings.Fields(text)),
		"lines": lines,
	}
}
