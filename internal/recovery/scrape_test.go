package recovery

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nda25/anees/internal/content"
)

func TestScrape_PracticeBareSentence(t *testing.T) {
	raw := "  \"سيارة كتلتها 1200 kg تتحرك بسرعة 20 m/s، احسب طاقتها الحركية.\"  "
	c, ok := Scrape(content.KindPractice, raw)
	require.True(t, ok)
	assert.Equal(t, "سيارة كتلتها 1200 kg تتحرك بسرعة 20 m/s، احسب طاقتها الحركية.", c["question"])
}

func TestScrape_PracticeWithLatexBraces(t *testing.T) {
	raw := `احسب $\frac{1}{2}mv^2$ لجسم كتلته 2 kg`
	c, ok := Scrape(content.KindPractice, raw)
	require.True(t, ok)
	assert.Equal(t, raw, c["question"])
}

func TestScrape_PracticeQuestionField(t *testing.T) {
	raw := `{"question": "ما مقدار الشغل المبذول عند رفع جسم كتلته 3 kg مسافة 2 m؟", "note": oops}`
	c, ok := Scrape(content.KindPractice, raw)
	require.True(t, ok)
	assert.Contains(t, c["question"], "3 kg")
}

func TestScrape_TruncatedCase(t *testing.T) {
	raw := `{"title": "مثال", "scenario": "كرة تسقط من ارتفاع 45 m", ` +
		`"givens": [{"symbol": "h", "value": "45", "unit": "m", "desc": "الارتفاع"}, {"symbol": "g", "val`
	c, ok := Scrape(content.KindExample, raw)
	require.True(t, ok)

	assert.Equal(t, "كرة تسقط من ارتفاع 45 m", c["scenario"])
	givens, ok := c["givens"].([]any)
	require.True(t, ok)
	require.Len(t, givens, 1)
	row := givens[0].(map[string]any)
	assert.Equal(t, "h", row["symbol"])
}

func TestScrape_StringArrays(t *testing.T) {
	raw := `garbage "formulas": ["F = ma", "a = \\frac{F}{m}"], "steps": ["نحسب", "نعوض"] more garbage`
	c, ok := Scrape(content.KindExplain, raw)
	require.True(t, ok)
	assert.Equal(t, []any{"F = ma", `a = \frac{F}{m}`}, c["formulas"])
	assert.Equal(t, []any{"نحسب", "نعوض"}, c["steps"])
}

func TestScrape_TitleAloneIsNotMeaningful(t *testing.T) {
	_, ok := Scrape(content.KindExplain, `{"title": "قانون نيوتن", "overview`)
	assert.False(t, ok)
}

func TestScrape_Nothing(t *testing.T) {
	_, ok := Scrape(content.KindExample, "the model refused to answer")
	assert.False(t, ok)
}

func TestSnippet(t *testing.T) {
	assert.Equal(t, "abc", Snippet("abc", 300))
	long := make([]rune, 500)
	for i := range long {
		long[i] = 'ق'
	}
	assert.Len(t, []rune(Snippet(string(long), 300)), 300)
}
