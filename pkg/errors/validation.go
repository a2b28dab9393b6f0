package errors

import (
	"regexp"
	"strings"
	"unicode"
)

const (
	maxNameLength = 128
	maxColumns    = 64
)

// ValidateBoardName validates a board name.
//
// The rules are intentionally conservative:
//   - No empty or whitespace-only names
//   - No control characters
//   - Maximum length of 128 characters
func ValidateBoardName(name string) error {
	return validateName(ErrCodeInvalidInput, "board name", name)
}

// ValidateLayoutName validates a layout name with the same rules as board names.
func ValidateLayoutName(name string) error {
	return validateName(ErrCodeInvalidLayout, "layout name", name)
}

// ValidateCategoryName validates a category heading with the same rules as
// board names.
func ValidateCategoryName(name string) error {
	return validateName(ErrCodeInvalidInput, "category name", name)
}

func validateName(code Code, what, name string) error {
	if strings.TrimSpace(name) == "" {
		return New(code, "%s cannot be empty", what)
	}

	if len(name) > maxNameLength {
		return New(code, "%s too long (max %d characters)", what, maxNameLength)
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(code, "%s contains invalid control characters", what)
		}
	}

	return nil
}

// widgetKindRegex matches widget kinds such as "clock" or "media-server".
var widgetKindRegex = regexp.MustCompile(`^[a-z][a-z0-9]*(-[a-z0-9]+)*$`)

// ValidateWidgetKind validates a widget kind identifier.
func ValidateWidgetKind(kind string) error {
	if kind == "" {
		return New(ErrCodeInvalidInput, "widget kind cannot be empty")
	}

	if !widgetKindRegex.MatchString(kind) {
		return New(ErrCodeInvalidInput, "invalid widget kind: %q", kind)
	}

	return nil
}

// ValidateColumnCount validates the column count of a layout.
func ValidateColumnCount(n int) error {
	if n < 1 || n > maxColumns {
		return New(ErrCodeInvalidLayout, "column count must be between 1 and %d, got %d", maxColumns, n)
	}
	return nil
}

// borderColorRegex matches "#rgb" and "#rrggbb" hex colors.
var borderColorRegex = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// ValidateBorderColor validates an item border color. The empty string
// means "theme default" and is accepted.
func ValidateBorderColor(color string) error {
	if color == "" {
		return nil
	}

	if !borderColorRegex.MatchString(color) {
		return New(ErrCodeInvalidInput, "invalid border color: %q (want #rgb or #rrggbb)", color)
	}

	return nil
}
