package tts

// Tag is an inline stage direction the speech model performs instead of reading.
type Tag struct {
	Tag   string `json:"tag"`
	Label string `json:"label"`
}

// Tags is the supported stage-direction vocabulary.
var Tags = []Tag{
	{Tag: "[pausa]", Label: "Pausa de 2s"},
	{Tag: "[risa]", Label: "Risa natural"},
	{Tag: "[grito]", Label: "Exclamación fuerte"},
	{Tag: "[llanto]", Label: "Voz quebrada"},
	{Tag: "[susurro]", Label: "Voz muy baja"},
}

// InsertTag replaces text[start:end] with the tag padded by one space on each
// side and returns the new text and the cursor position just after it.
// Offsets are rune indices and are clamped to the text.
func InsertTag(text string, start, end int, tag string) (string, int) {
	runes := []rune(text)
	start = clamp(start, 0, len(runes))
	end = clamp(end, start, len(runes))

	insert := []rune(" " + tag + " ")
	out := make([]rune, 0, len(runes)-(end-start)+len(insert))
	out = append(out, runes[:start]...)
	out = append(out, insert...)
	out = append(out, runes[end:]...)

	return string(out), start + len(insert)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
