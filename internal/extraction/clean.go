package extraction

import (
	"strings"
	"unicode/utf8"
)

// MinTextLength is the minimum number of characters of sanitized text sent to the model.
const MinTextLength = 10

// cleanModelJSON strips Markdown fences (with or without a language tag) and any text
// around the outermost JSON object.
func cleanModelJSON(raw string) string {
	s := strings.TrimSpace(raw)

	// Handle ```json ... ``` or ``` ... ``` wrappers.
	if strings.HasPrefix(s, "```") {
		if idx := strings.Index(s, "\n"); idx != -1 {
			// Drop the first line (``` or ```json).
			s = s[idx+1:]
		} else {
			s = strings.TrimLeft(strings.TrimPrefix(s, "```"), "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ")
		}
		s = strings.TrimSpace(s)
	}

	// Remove trailing ``` if present.
	if idx := strings.LastIndex(s, "```"); idx != -1 {
		s = s[:idx]
	}

	s = strings.TrimSpace(s)

	// Keep only the outermost object if there is still junk around it.
	// A top-level array is left alone so it fails to parse as an object.
	if strings.HasPrefix(s, "[") {
		return s
	}
	if start := strings.Index(s, "{"); start != -1 {
		if end := strings.LastIndex(s, "}"); end > start {
			s = s[start : end+1]
		}
	}

	return strings.TrimSpace(s)
}

// sanitizeText replaces non-breaking spaces and collapses runs of whitespace.
func sanitizeText(text string) string {
	text = strings.ReplaceAll(text, "\u00a0", " ")
	return strings.Join(strings.Fields(text), " ")
}

// CheckText reports a KindTextTooShort error when rawText, once sanitized, is shorter
// than MinTextLength.
func CheckText(rawText string) error {
	if err := checkTextLength(sanitizeText(rawText)); err != nil {
		return err
	}
	return nil
}

func checkTextLength(clean string) *Error {
	if n := utf8.RuneCountInString(clean); n < MinTextLength {
		return newError(KindTextTooShort,
			"raw_text must be at least %d characters after whitespace is collapsed, got %d", MinTextLength, n)
	}
	return nil
}
