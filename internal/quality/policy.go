package quality

import "github.com/Nda25/anees/internal/content"

// Policy holds the thresholds of the gate.
type Policy struct {
	// ForbiddenTokens are schema words a model sometimes copies into a
	// practice question instead of real text. Matched case-insensitively.
	ForbiddenTokens []string `yaml:"forbidden_tokens"`

	// MinQuestionRunes is the shortest acceptable practice question.
	MinQuestionRunes int `yaml:"min_question_runes" validate:"gte=0"`

	// RequireArabic rejects practice questions with Latin letters outside
	// math or without any Arabic letter.
	RequireArabic bool `yaml:"require_arabic"`
}

// DefaultPolicy returns the standard thresholds.
func DefaultPolicy() Policy {
	return Policy{
		ForbiddenTokens:  []string{"string", "placeholder"},
		MinQuestionRunes: 60,
		RequireArabic:    true,
	}
}

// Gate runs the ordered validator chain of each action.
type Gate struct {
	chains map[content.Kind][]Validator
}

// NewGate builds the validator chains for policy. Explain has no
// validators: coerced defaults are final.
func NewGate(policy Policy) *Gate {
	practice := []Validator{
		&ForbiddenTokensValidator{Tokens: policy.ForbiddenTokens},
		&MinLengthValidator{MinRunes: policy.MinQuestionRunes},
	}
	if policy.RequireArabic {
		practice = append(practice, &LanguageValidator{})
	}
	practice = append(practice, &DuplicateValidator{})

	complete := &CompletenessValidator{}
	return &Gate{chains: map[content.Kind][]Validator{
		content.KindPractice: practice,
		content.KindExample:  {complete},
		content.KindExample2: {complete},
		content.KindSolve:    {complete},
	}}
}

// Validators returns the chain used for kind.
func (g *Gate) Validators(kind content.Kind) []Validator {
	return g.chains[kind]
}

// Check runs the chain for c's kind in order. The first failure stops
// the chain.
func (g *Gate) Check(c content.Content, history History) *ValidationError {
	for _, v := range g.chains[c.Kind()] {
		if verr := v.Validate(c, history); verr != nil {
			return verr
		}
	}
	return nil
}
