package content

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKind(t *testing.T) {
	tests := []struct {
		in      string
		want    Kind
		wantErr bool
	}{
		{"explain", KindExplain, false},
		{" Practice ", KindPractice, false},
		{"EXAMPLE2", KindExample2, false},
		{"solve", KindSolve, false},
		{"quiz", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseKind(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestKindIsCase(t *testing.T) {
	assert.True(t, KindExample.IsCase())
	assert.True(t, KindExample2.IsCase())
	assert.True(t, KindSolve.IsCase())
	assert.False(t, KindExplain.IsCase())
	assert.False(t, KindPractice.IsCase())
}

func TestRequestValidate(t *testing.T) {
	tests := []struct {
		name    string
		req     Request
		wantErr string
	}{
		{"explain ok", Request{Action: KindExplain, Concept: "قانون نيوتن الثاني"}, ""},
		{"solve without concept", Request{Action: KindSolve, Question: "احسب التسارع"}, ""},
		{"missing concept", Request{Action: KindPractice}, "missing concept"},
		{"missing action", Request{Concept: "الشغل"}, "missing action"},
		{"unknown action", Request{Action: "quiz", Concept: "الشغل"}, `unknown action "quiz"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Normalized().Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tt.wantErr, err.Error())
		})
	}
}

func TestRequestNormalized(t *testing.T) {
	r := Request{Action: " Explain ", Concept: "  الطاقة الحركية "}.Normalized()
	assert.Equal(t, KindExplain, r.Action)
	assert.Equal(t, "الطاقة الحركية", r.Concept)
	assert.Equal(t, DefaultSubject, r.Subject)
	assert.Equal(t, DefaultSession, r.Session)
}
