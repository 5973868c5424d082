package engine

import (
	"regexp"
	"strings"

	"github.com/anatolykoptev/go-kit/strutil"
)

const (
	thinkOpen  = "<think>"
	thinkClose = "</think>"
)

var thinkBlockRe = regexp.MustCompile(`(?s)<think>.*?</think>`)

// StripThinking removes <think>...</think> reasoning blocks from model output
// and trims surrounding whitespace. Unbalanced tags are left as they are.
func StripThinking(s string) string {
	if strings.Contains(s, thinkOpen) && strings.Contains(s, thinkClose) {
		s = thinkBlockRe.ReplaceAllString(s, "")
	}
	return strings.TrimSpace(s)
}

// TruncateRunes caps s at limit runes, appending suffix if truncated.
// Pass suffix="" for no suffix. Safe for UTF-8 (Cyrillic, CJK, emoji).
func TruncateRunes(s string, limit int, suffix string) string {
	return strutil.TruncateWith(s, limit, suffix)
}
