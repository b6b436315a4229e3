package scanning

import "strings"

// transcriptionPrompt is the shared prompt used by the LLM recognizers. They
// act as plain OCR engines; MRZ location and parsing happen downstream.
const transcriptionPrompt = `Transcribe all text printed on this passport data page, line by line, exactly as it appears.

Important:
- Keep the original line breaks
- Copy the two machine readable zone lines at the bottom character by character, including every '<' filler character
- Do not correct, translate, summarize or explain anything
- Do not use markdown code blocks`

// stripCodeFence removes a markdown code block wrapper some models add anyway
func stripCodeFence(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}
	text = strings.TrimPrefix(text, "```")
	if i := strings.IndexByte(text, '\n'); i >= 0 && !strings.Contains(text[:i], "<") {
		text = text[i+1:]
	}
	text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	return strings.TrimSpace(text)
}
