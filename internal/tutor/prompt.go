package tutor

import (
	"fmt"
	"strings"

	"github.com/Nda25/anees/internal/content"
)

// Prompt is the text sent for one generation attempt.
type Prompt struct {
	System string
	User   string
}

// Variation tells the prompt builder why a new attempt is being made.
type Variation struct {
	Attempt int    // 1-based
	Reason  string // rejection message of the previous attempt, empty on the first
	Avoid   string // text the answer must not repeat
}

// PromptBuilder writes the prompt for a request. The orchestrator owns
// the retry policy; builders only decide wording.
type PromptBuilder interface {
	Build(req content.Request, v Variation) Prompt
}

// DefaultPrompts is the built-in Arabic prompt set.
type DefaultPrompts struct{}

const systemTemplate = `أنت معلم خبير في مادة %s تكتب للطلاب بالعربية الفصحى.
القواعد:
- أعد كائن JSON واحدا فقط، بلا أي نص قبله أو بعده وبلا أسوار شيفرة.
- استخدم علامات الاقتباس المزدوجة فقط، واهرب أي علامة اقتباس داخلية هكذا \".
- لا تكتب كلمات إنجليزية في النص العربي. الإنجليزية مسموحة داخل LaTeX فقط: المتغيرات والوحدات والقوانين.
- اكتب المعادلات القصيرة بين $...$ والمعادلات المستقلة بين $$...$$.
- اكتب الوحدات داخل \mathrm{} مثل $9.8\,\mathrm{m/s^2}$ و $\mathrm{kg}$ و $\mathrm{N}$.
- لا تكتب الكلمتين "string" و "placeholder" ولا تترك حقلا فارغا.
- لا ترقم الخطوات يدويا.`

// Build returns the prompt for req.
func (DefaultPrompts) Build(req content.Request, v Variation) Prompt {
	var b strings.Builder

	if req.Concept != "" {
		fmt.Fprintf(&b, "القانون أو المفهوم: «%s».\n", req.Concept)
	}

	switch req.Action {
	case content.KindExplain:
		b.WriteString(`اشرح المفهوم شرحا موجزا وصحيحا، وأعد JSON بالمفاتيح:
{"title": "عنوان واضح", "overview": "تعريف موجز", "symbols": [{"desc": "وصف الكمية", "symbol": "F", "unit": "\\mathrm{N}"}], "formulas": ["$$F = ma$$"], "steps": ["خطوة لتطبيق القانون"]}`)
	case content.KindExample:
		b.WriteString(`أنشئ مثالا عدديا متوسط الصعوبة مرتبطا مباشرة بالقانون، وأعد JSON بالمفاتيح:
` + caseContract)
	case content.KindExample2:
		b.WriteString(`أنشئ مثالا عدديا آخر بمعطيات مختلفة عن المثال الأول وبالبنية نفسها، وأعد JSON بالمفاتيح:
` + caseContract)
	case content.KindPractice:
		b.WriteString(`اكتب سؤال تدريب واحدا واضحا يعتمد على هذا القانون فقط.
- اجعل السؤال جملة كاملة لا تقل عن ستين حرفا.
- ضمّن عددا واحدا على الأقل مع وحدته بصيغة LaTeX مثل $5\,\mathrm{m}$.
- لا تكتب معادلات ولا خطوات ولا خيارات، نص السؤال فقط.
أعد JSON بهذا الشكل: {"question": "نص السؤال"}`)
	case content.KindSolve:
		fmt.Fprintf(&b, "حلّ المسألة التالية بخطوات مرتبة:\n%s\nأعد JSON بالمفاتيح:\n%s", req.Question, caseContract)
	}

	if req.PreferredFormula != "" && req.Action != content.KindPractice {
		fmt.Fprintf(&b, "\nاعتمد في الحل على القانون: %s", req.PreferredFormula)
	}

	if v.Attempt > 1 {
		fmt.Fprintf(&b, "\n\nهذه المحاولة رقم %d لأن الإجابة السابقة رُفضت", v.Attempt)
		if v.Reason != "" {
			fmt.Fprintf(&b, " (%s)", v.Reason)
		}
		b.WriteString(". اكتب إجابة جديدة مختلفة تلتزم بالقواعد.")
	}
	if v.Avoid != "" {
		fmt.Fprintf(&b, "\nلا تكرر هذا النص:\n%s", v.Avoid)
	}

	return Prompt{
		System: fmt.Sprintf(systemTemplate, req.Subject),
		User:   b.String(),
	}
}

const caseContract = `{"title": "عنوان المثال", "scenario": "نص المسألة", "givens": [{"desc": "وصف الكمية", "symbol": "m", "unit": "\\mathrm{kg}", "value": "5"}], "unknowns": [{"symbol": "a", "desc": "المطلوب"}], "formulas": ["$$F = ma$$"], "steps": ["خطوة الحل"], "result": "$a = 2\\,\\mathrm{m/s^2}$"}`
