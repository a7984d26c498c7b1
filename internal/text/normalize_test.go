package text

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "схлопывание пробелов и переносов",
			input: "  Привет   мир \n\t как дела  ",
			want:  "Привет мир как дела",
		},
		{
			name:  "пробел после конца предложения",
			input: "Привет.Как дела?Отлично!",
			want:  "Привет. Как дела? Отлично!",
		},
		{
			name:  "серия знаков считается одним концом предложения",
			input: "Что?!Да...ладно",
			want:  "Что?! Да... ладно",
		},
		{
			name:  "существующий пробел не дублируется",
			input: "Первое. Второе.",
			want:  "Первое. Второе.",
		},
		{
			name:  "запятые и двоеточия отбиваются пробелами",
			input: "раз,два;три:четыре",
			want:  "раз , два ; три : четыре",
		},
		{
			name:  "смешанная пунктуация",
			input: "Стоп.,дальше",
			want:  "Стоп. , дальше",
		},
		{
			name:  "пустая строка",
			input: "   \n  ",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.input))
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{
		"Hello,world.How are you?I'm fine!",
		"  a ,, b ;: c ... d?! e  ",
		"Алиса: Привет, Фрэнк! Как твой день?\nФрэнк: Отлично.",
		"x.,y",
		",;:",
		"...",
		"text with unicode spaces.",
		"",
	}

	for _, input := range inputs {
		once := Normalize(input)
		assert.Equal(t, once, Normalize(once), "input %q", input)
	}
}

func TestNormalize_NoDoubleOrEdgeSpaces(t *testing.T) {
	inputs := []string{
		" a . b , c ",
		"!!!",
		"a:b:c",
		"\n\nline\n\n",
	}

	for _, input := range inputs {
		out := Normalize(input)
		assert.NotContains(t, out, "  ", "input %q", input)
		assert.Equal(t, strings.TrimSpace(out), out, "input %q", input)
	}
}
