package text

import "strings"

// Line представляет одну реплику диалога
type Line struct {
	Speaker   string
	Utterance string
	// Fallback отмечает реплику с явным именем, которого нет в ростере;
	// такая реплика отдается первому говорящему.
	Fallback bool
}

// String возвращает реплику в формате "<говорящий>: <текст>"
func (l Line) String() string {
	return l.Speaker + ": " + l.Utterance
}

// Script представляет размеченный по говорящим диалог
type Script struct {
	lines []Line
}

// Lines возвращает копию реплик
func (s Script) Lines() []Line {
	out := make([]Line, len(s.lines))
	copy(out, s.lines)
	return out
}

// Len возвращает количество реплик
func (s Script) Len() int {
	return len(s.lines)
}

// Fallbacks возвращает реплики, отданные первому говорящему без совпадения имени
func (s Script) Fallbacks() []Line {
	var out []Line
	for _, l := range s.lines {
		if l.Fallback {
			out = append(out, l)
		}
	}
	return out
}

// MapUtterances возвращает новый сценарий с преобразованным текстом реплик
func (s Script) MapUtterances(fn func(string) string) Script {
	lines := s.Lines()
	for i := range lines {
		lines[i].Utterance = fn(lines[i].Utterance)
	}
	return Script{lines: lines}
}

// String склеивает реплики через перевод строки
func (s Script) String() string {
	parts := make([]string, len(s.lines))
	for i, l := range s.lines {
		parts[i] = l.String()
	}
	return strings.Join(parts, "\n")
}

// FormatDialogue размечает строки текста по говорящим из ростера.
//
// Строка вида "Имя: текст" отдается первому говорящему из ростера, чье имя
// без учета регистра входит в "Имя"; если совпадений нет, реплика достается
// speakers[0]. Строки без двоеточия раздаются по кругу, и курсор двигают
// только они. Пустые строки отбрасываются. Ростер не должен быть пустым.
func FormatDialogue(text string, speakers []string) Script {
	var script Script
	if len(speakers) == 0 {
		return script
	}

	cursor := 0
	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}

		name, utterance, explicit := strings.Cut(line, ":")
		if !explicit {
			script.lines = append(script.lines, Line{Speaker: speakers[cursor], Utterance: line})
			cursor = (cursor + 1) % len(speakers)
			continue
		}

		idx, found := matchSpeaker(strings.TrimSpace(name), speakers)
		script.lines = append(script.lines, Line{
			Speaker:   speakers[idx],
			Utterance: strings.TrimSpace(utterance),
			Fallback:  !found,
		})
	}

	return script
}

func matchSpeaker(name string, speakers []string) (int, bool) {
	name = strings.ToLower(name)
	for i, speaker := range speakers {
		if strings.Contains(name, strings.ToLower(speaker)) {
			return i, true
		}
	}
	return 0, false
}
