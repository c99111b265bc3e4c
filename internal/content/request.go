package content

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// DefaultSubject is used when a request names no subject.
const DefaultSubject = "الفيزياء"

// DefaultSession keys the duplicate memo when the caller sends no session.
const DefaultSession = "default"

// Request is one generation request as received at the API boundary.
// It is validated once and not modified afterwards.
type Request struct {
	Action           Kind   `json:"action" validate:"required,oneof=explain example example2 practice solve"`
	Subject          string `json:"subject,omitempty" validate:"max=100"`
	Concept          string `json:"concept" validate:"required_unless=Action solve,max=200"`
	Question         string `json:"question,omitempty" validate:"max=2000"`
	PreferredFormula string `json:"preferred_formula,omitempty" validate:"max=500"`
	Session          string `json:"session_id,omitempty" validate:"max=128"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Normalized returns a copy with whitespace trimmed, the action lowercased
// and defaults filled in for Subject and Session.
func (r Request) Normalized() Request {
	r.Action = Kind(strings.ToLower(strings.TrimSpace(string(r.Action))))
	r.Subject = strings.TrimSpace(r.Subject)
	r.Concept = strings.TrimSpace(r.Concept)
	r.Question = strings.TrimSpace(r.Question)
	r.PreferredFormula = strings.TrimSpace(r.PreferredFormula)
	r.Session = strings.TrimSpace(r.Session)
	if r.Subject == "" {
		r.Subject = DefaultSubject
	}
	if r.Session == "" {
		r.Session = DefaultSession
	}
	return r
}

// Validate checks the request fields. The returned error names the first
// offending field in plain words.
func (r Request) Validate() error {
	err := validate.Struct(r)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}
	fe := verrs[0]
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required", "required_unless":
		if field == "concept" {
			return errors.New("missing concept")
		}
		return fmt.Errorf("missing %s", field)
	case "oneof":
		return fmt.Errorf("unknown action %q", fe.Value())
	case "max":
		return fmt.Errorf("%s is too long (max %s)", field, fe.Param())
	}
	return fmt.Errorf("invalid %s", field)
}
