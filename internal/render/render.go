package render

import (
	"fmt"
	"strings"

	"github.com/Nda25/anees/internal/content"
)

// Status summarizes how a generation ended.
type Status struct {
	Accepted  bool
	Attempts  int
	Stage     string
	Provider  string
	Rejection string
}

// Renderer turns content into terminal text.
type Renderer struct {
	theme Theme
}

// New returns a Renderer using theme.
func New(theme Theme) *Renderer {
	return &Renderer{theme: theme}
}

// Content renders c followed by a one-line status footer.
func (r *Renderer) Content(c content.Content, st Status) string {
	var b strings.Builder
	switch v := c.(type) {
	case *content.ExplainContent:
		r.explain(&b, v)
	case *content.CaseContent:
		r.caseBody(&b, v)
	case *content.PracticeContent:
		r.section(&b, "السؤال")
		b.WriteString(r.theme.Body.Render(v.Question))
		b.WriteString("\n")
	default:
		b.WriteString(r.theme.Dim.Render("(no content)"))
		b.WriteString("\n")
	}
	return r.theme.Card.Render(strings.TrimRight(b.String(), "\n")) + "\n" + r.status(st)
}

func (r *Renderer) explain(b *strings.Builder, v *content.ExplainContent) {
	b.WriteString(r.theme.Title.Render(v.Title))
	b.WriteString("\n")
	b.WriteString(r.theme.Body.Render(v.Overview))
	b.WriteString("\n")
	if len(v.Symbols) > 0 {
		r.section(b, "الرموز")
		for _, s := range v.Symbols {
			fmt.Fprintf(b, "  %s  %s  %s\n",
				r.theme.Formula.Render(s.Symbol), r.theme.Body.Render(s.Desc), r.theme.Dim.Render(s.Unit))
		}
	}
	r.formulas(b, v.Formulas)
	r.steps(b, v.Steps)
}

func (r *Renderer) caseBody(b *strings.Builder, v *content.CaseContent) {
	b.WriteString(r.theme.Title.Render(v.Title))
	b.WriteString("\n")
	b.WriteString(r.theme.Body.Render(v.Scenario))
	b.WriteString("\n")
	if len(v.Givens) > 0 {
		r.section(b, "المعطيات")
		for _, g := range v.Givens {
			fmt.Fprintf(b, "  %s = %s %s  %s\n",
				r.theme.Formula.Render(g.Symbol), r.theme.Body.Render(g.Value),
				r.theme.Dim.Render(g.Unit), r.theme.Body.Render(g.Desc))
		}
	}
	if len(v.Unknowns) > 0 {
		r.section(b, "المطلوب")
		for _, u := range v.Unknowns {
			fmt.Fprintf(b, "  %s  %s\n", r.theme.Formula.Render(u.Symbol), r.theme.Body.Render(u.Desc))
		}
	}
	r.formulas(b, v.Formulas)
	r.steps(b, v.Steps)
	r.section(b, "النتيجة")
	b.WriteString(r.theme.Accepted.Render(v.Result))
	b.WriteString("\n")
}

func (r *Renderer) section(b *strings.Builder, name string) {
	b.WriteString("\n")
	b.WriteString(r.theme.Heading.Render(name))
	b.WriteString("\n")
}

func (r *Renderer) formulas(b *strings.Builder, fs []string) {
	if len(fs) == 0 {
		return
	}
	r.section(b, "القوانين")
	for _, f := range fs {
		b.WriteString("  ")
		b.WriteString(r.theme.Formula.Render(f))
		b.WriteString("\n")
	}
}

func (r *Renderer) steps(b *strings.Builder, steps []string) {
	if len(steps) == 0 {
		return
	}
	r.section(b, "الخطوات")
	for i, s := range steps {
		fmt.Fprintf(b, "  %d. %s\n", i+1, r.theme.Body.Render(s))
	}
}

func (r *Renderer) status(st Status) string {
	label := r.theme.Accepted.Render("accepted")
	if !st.Accepted {
		label = r.theme.Degraded.Render("degraded")
	}
	line := fmt.Sprintf("%s · attempts %d · stage %s · provider %s",
		label, st.Attempts, orDash(st.Stage), orDash(st.Provider))
	if st.Rejection != "" {
		line += "\n" + r.theme.Dim.Render(st.Rejection)
	}
	return line
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
