package normalize

import "strings"

// defaultGlossary names common physics symbols in Arabic. Keys are symbols
// with math delimiters, backslashes, braces and spaces removed.
var defaultGlossary = map[string]string{
	"v":      "السرعة",
	"v_0":    "السرعة الابتدائية",
	"v_i":    "السرعة الابتدائية",
	"vi":     "السرعة الابتدائية",
	"v_f":    "السرعة النهائية",
	"vf":     "السرعة النهائية",
	"a":      "التسارع",
	"F":      "القوة",
	"m":      "الكتلة",
	"t":      "الزمن",
	"g":      "تسارع الجاذبية",
	"h":      "الارتفاع",
	"d":      "المسافة",
	"s":      "الإزاحة",
	"x":      "الإزاحة",
	"Deltax": "الإزاحة",
	"W":      "الشغل",
	"P":      "القدرة",
	"KE":     "الطاقة الحركية",
	"K":      "الطاقة الحركية",
	"PE":     "طاقة الوضع",
	"U":      "طاقة الوضع",
	"E":      "الطاقة",
	"p":      "الزخم",
	"theta":  "الزاوية",
	"rho":    "الكثافة",
	"lambda": "الطول الموجي",
	"f":      "التردد",
	"T":      "الزمن الدوري",
	"q":      "الشحنة",
	"I":      "التيار الكهربائي",
	"V":      "فرق الجهد",
	"R":      "المقاومة",
	"k":      "ثابت النابض",
	"mu":     "معامل الاحتكاك",
	"r":      "نصف القطر",
	"omega":  "السرعة الزاوية",
	"tau":    "العزم",
}

var glossaryKeyReplacer = strings.NewReplacer("$", "", `\`, "", "{", "", "}", "", " ", "", `(`, "", `)`, "", `[`, "", `]`, "")

func glossaryKey(symbol string) string {
	return glossaryKeyReplacer.Replace(strings.TrimSpace(symbol))
}
