package quality

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/Nda25/anees/internal/content"
)

// ForbiddenTokensValidator rejects practice questions that contain schema
// words instead of real text.
type ForbiddenTokensValidator struct {
	Tokens []string
}

func (v *ForbiddenTokensValidator) Name() string { return "forbidden-tokens" }

func (v *ForbiddenTokensValidator) Validate(c content.Content, _ History) *ValidationError {
	q := question(c)
	lower := strings.ToLower(q)
	for _, tok := range v.Tokens {
		if tok != "" && strings.Contains(lower, strings.ToLower(tok)) {
			return &ValidationError{
				Validator: v.Name(),
				Message:   fmt.Sprintf("question contains %q", tok),
				Retryable: true,
				Severity:  SeverityMajor,
			}
		}
	}
	return nil
}

// MinLengthValidator rejects questions shorter than MinRunes.
type MinLengthValidator struct {
	MinRunes int
}

func (v *MinLengthValidator) Name() string { return "min-length" }

func (v *MinLengthValidator) Validate(c content.Content, _ History) *ValidationError {
	q := question(c)
	if content.IsBlank(q) {
		return &ValidationError{
			Validator: v.Name(),
			Message:   "question is empty",
			Retryable: true,
			Severity:  SeverityMajor,
		}
	}
	if n := utf8.RuneCountInString(strings.TrimSpace(q)); n < v.MinRunes {
		return &ValidationError{
			Validator: v.Name(),
			Message:   fmt.Sprintf("question has %d characters, want at least %d", n, v.MinRunes),
			Retryable: true,
			Severity:  SeverityMinor,
		}
	}
	return nil
}

// mathSpan matches inline and display math plus bare \mathrm{...} units.
var mathSpan = regexp.MustCompile(`\$\$[\s\S]*?\$\$|\$[^$]*\$|\\\([\s\S]*?\\\)|\\\[[\s\S]*?\\\]|\\mathrm\{[^}]*\}`)

// LanguageValidator rejects questions that are not written in Arabic.
// Latin letters are allowed only inside math.
type LanguageValidator struct{}

func (v *LanguageValidator) Name() string { return "language" }

func (v *LanguageValidator) Validate(c content.Content, _ History) *ValidationError {
	prose := mathSpan.ReplaceAllString(question(c), " ")
	var arabic, latin int
	for _, r := range prose {
		switch {
		case unicode.Is(unicode.Arabic, r) && unicode.IsLetter(r):
			arabic++
		case unicode.Is(unicode.Latin, r):
			latin++
		}
	}
	if arabic == 0 {
		return &ValidationError{
			Validator: v.Name(),
			Message:   "question has no Arabic text",
			Retryable: true,
			Severity:  SeverityMajor,
		}
	}
	if latin > 0 {
		return &ValidationError{
			Validator: v.Name(),
			Message:   fmt.Sprintf("question has %d Latin letters outside math", latin),
			Retryable: true,
			Severity:  SeverityMinor,
		}
	}
	return nil
}

// DuplicateValidator rejects a practice question equal to the previous
// practice question or example scenario of the session.
type DuplicateValidator struct{}

func (v *DuplicateValidator) Name() string { return "duplicate" }

func (v *DuplicateValidator) Validate(c content.Content, history History) *ValidationError {
	q := Canonical(question(c))
	if q == "" {
		return nil
	}
	for _, prev := range []string{history.LastQuestion, history.LastScenario} {
		if prev != "" && Canonical(prev) == q {
			return &ValidationError{
				Validator: v.Name(),
				Message:   "question repeats the previous one",
				Retryable: true,
				Severity:  SeverityDuplicate,
			}
		}
	}
	return nil
}

// Canonical folds case and whitespace so that two texts differing only in
// those compare equal.
func Canonical(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

func question(c content.Content) string {
	if p, ok := c.(*content.PracticeContent); ok {
		return p.Question
	}
	return ""
}
