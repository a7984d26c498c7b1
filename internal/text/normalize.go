// Package text готовит входной текст к синтезу: нормализует пробелы и
// пунктуацию и размечает диалоги по говорящим.
package text

import (
	"regexp"
	"strings"
)

var (
	sentenceEndRe = regexp.MustCompile(`[.!?]+`)
	clauseMarkRe  = regexp.MustCompile(`[,;:]`)
)

// Normalize схлопывает пробелы и расставляет паузы вокруг знаков препинания.
// Повторное применение к результату ничего не меняет.
func Normalize(text string) string {
	text = collapseSpaces(text)

	// После серии .!? ровно один пробел
	text = sentenceEndRe.ReplaceAllString(text, "$0 ")

	// Запятая, точка с запятой и двоеточие отбиваются с обеих сторон
	text = clauseMarkRe.ReplaceAllString(text, " $0 ")

	return collapseSpaces(text)
}

func collapseSpaces(text string) string {
	return strings.Join(strings.Fields(text), " ")
}
