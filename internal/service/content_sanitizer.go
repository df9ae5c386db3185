package service

import (
	"strings"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"

	"pollbox/internal/errors"
)

const (
	maxQuestionLen = 255
	maxOptionLen   = 100
	minOptions     = 2
	maxOptions     = 10
)

// PollContent is sanitized, validated poll text ready for storage.
type PollContent struct {
	Question string
	Options  []string
}

// ContentSanitizer strips active markup from poll text and enforces the
// content rules. Length limits are checked after sanitization, since
// stripping markup can shrink the text.
type ContentSanitizer struct {
	policy *bluemonday.Policy
}

// NewContentSanitizer creates a sanitizer that strips all HTML.
func NewContentSanitizer() *ContentSanitizer {
	return &ContentSanitizer{policy: bluemonday.StrictPolicy()}
}

// Clean strips markup from a single text field and trims whitespace.
func (s *ContentSanitizer) Clean(text string) string {
	return strings.TrimSpace(s.policy.Sanitize(text))
}

// SanitizeAndValidate cleans the question and options and checks the content
// rules: question non-empty and at most 255 characters, 2 to 10 non-empty
// options of at most 100 characters each. Options emptied by sanitization
// are dropped before the count check.
func (s *ContentSanitizer) SanitizeAndValidate(question string, options []string) (PollContent, error) {
	content := PollContent{
		Question: s.Clean(question),
		Options:  make([]string, 0, len(options)),
	}
	for _, opt := range options {
		if cleaned := s.Clean(opt); cleaned != "" {
			content.Options = append(content.Options, cleaned)
		}
	}

	switch {
	case content.Question == "":
		return PollContent{}, errors.ErrQuestionRequired
	case len(content.Options) < minOptions:
		return PollContent{}, errors.ErrTooFewOptions
	case utf8.RuneCountInString(content.Question) > maxQuestionLen:
		return PollContent{}, errors.ErrQuestionTooLong
	case len(content.Options) > maxOptions:
		return PollContent{}, errors.ErrTooManyOptions
	}
	for _, opt := range content.Options {
		if utf8.RuneCountInString(opt) > maxOptionLen {
			return PollContent{}, errors.ErrOptionTooLong
		}
	}
	return content, nil
}
