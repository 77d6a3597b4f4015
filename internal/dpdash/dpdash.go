package dpdash

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Name holds the parsed components of a dpdash interview identifier.
type Name struct {
	Study     string
	Subject   string
	DataType  string
	TimeRange string
}

// Parse splits an interview identifier into its dpdash components. The first
// three segments are required and non-empty; any remaining segments form the
// time range.
func Parse(interviewName string) (Name, error) {
	trimmed := strings.TrimSpace(interviewName)
	if trimmed == "" {
		return Name{}, fmt.Errorf("parse interview name: empty name")
	}
	parts := strings.Split(trimmed, "-")
	if len(parts) < 3 {
		return Name{}, fmt.Errorf("parse interview name %q: expected at least study-subject-dataType", interviewName)
	}
	for i, part := range parts[:3] {
		if part == "" {
			return Name{}, fmt.Errorf("parse interview name %q: empty segment at position %d", interviewName, i)
		}
	}
	name := Name{
		Study:    parts[0],
		Subject:  parts[1],
		DataType: parts[2],
	}
	if len(parts) > 3 {
		name.TimeRange = strings.Join(parts[3:], "-")
	}
	return name, nil
}

// CamelCaseSplit breaks an identifier into tokens at upper-case boundaries.
// "followupInterview" splits into ["followup", "Interview"].
func CamelCaseSplit(value string) []string {
	if value == "" {
		return nil
	}
	var tokens []string
	start := 0
	runes := []rune(value)
	for i := 1; i < len(runes); i++ {
		if unicode.IsUpper(runes[i]) && !unicode.IsUpper(runes[i-1]) {
			tokens = append(tokens, string(runes[start:i]))
			start = i
		}
	}
	tokens = append(tokens, string(runes[start:]))
	return tokens
}

// TypeLabel derives the interview-type directory name from a dataType
// component: the first camel-case token, e.g. "followupInterview" yields
// "followup".
func TypeLabel(dataType string) string {
	tokens := CamelCaseSplit(dataType)
	if len(tokens) == 0 {
		return dataType
	}
	return tokens[0]
}

var titleCaser = cases.Title(language.English)

// DisplayLabel renders a human-readable interview type for reports and CLI
// output, e.g. "followupInterview" becomes "Followup".
func DisplayLabel(dataType string) string {
	return titleCaser.String(TypeLabel(dataType))
}
