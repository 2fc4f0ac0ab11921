// Package template checks the syntactic shape of transformation templates and
// parameter expressions. Templates are never rendered or evaluated.
package template

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

const (
	openMarker  = "{{"
	closeMarker = "}}"

	// ExpressionPrefix marks a parameter value as an expression.
	ExpressionPrefix = "="
)

var (
	ErrUnbalancedPlaceholder = errors.New("unbalanced placeholder markers")
	ErrNestedPlaceholder     = errors.New("nested placeholder")
	ErrEmptyPlaceholder      = errors.New("empty placeholder")
	ErrUnmarkedReference     = errors.New("dynamic reference outside placeholder")
)

var dynamicReference = regexp.MustCompile(
	`\$(json|node|input|binary|item|items|env|vars|execution|workflow|parameter|prevNode|runIndex|now|today)\b|\$\(`,
)

// Placeholder is one {{ ... }} occurrence.
type Placeholder struct {
	Offset int
	Body   string
}

// Parse splits input into its placeholders and the literal text around them.
// It fails on an opening marker that is never closed, on a placeholder opened
// inside another one, and on placeholders with a blank body. A closing marker
// with no opener is literal text.
func Parse(input string) ([]Placeholder, string, error) {
	placeholders := make([]Placeholder, 0)

	var literal strings.Builder

	rest := input
	offset := 0

	for {
		open := strings.Index(rest, openMarker)
		if open < 0 {
			literal.WriteString(rest)

			return placeholders, literal.String(), nil
		}

		literal.WriteString(rest[:open])

		body := rest[open+len(openMarker):]
		end := strings.Index(body, closeMarker)

		if end < 0 {
			return nil, "", fmt.Errorf("%w: %q at offset %d is never closed", ErrUnbalancedPlaceholder, openMarker, offset+open)
		}

		if nested := strings.Index(body[:end], openMarker); nested >= 0 {
			return nil, "", fmt.Errorf("%w at offset %d", ErrNestedPlaceholder, offset+open+len(openMarker)+nested)
		}

		if strings.TrimSpace(body[:end]) == "" {
			return nil, "", fmt.Errorf("%w at offset %d", ErrEmptyPlaceholder, offset+open)
		}

		placeholders = append(placeholders, Placeholder{Offset: offset + open, Body: strings.TrimSpace(body[:end])})

		consumed := open + len(openMarker) + end + len(closeMarker)
		rest = rest[consumed:]
		offset += consumed
	}
}

// Check validates the shape of a transformation template. A plain literal is
// always valid; dynamic references must sit inside placeholders.
func Check(input string) error {
	_, literal, err := Parse(input)
	if err != nil {
		return err
	}

	if match := dynamicReference.FindString(literal); match != "" {
		return fmt.Errorf("%w: %q", ErrUnmarkedReference, match)
	}

	return nil
}

// NeedsTemplating reports whether input references dynamic data at all.
func NeedsTemplating(input string) bool {
	return strings.Contains(input, openMarker) || dynamicReference.MatchString(input)
}

// IsExpression reports whether a parameter value is written as an expression.
func IsExpression(value string) bool {
	return strings.HasPrefix(value, ExpressionPrefix)
}

// CheckExpression validates the placeholders of an expression parameter value.
// Unlike Check, text outside placeholders is not inspected.
func CheckExpression(value string) error {
	_, _, err := Parse(strings.TrimPrefix(value, ExpressionPrefix))

	return err
}
