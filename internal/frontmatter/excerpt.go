package frontmatter

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	linkPattern   = regexp.MustCompile(`\[([^\]]*)\]\([^)]*\)`)
	inlinePattern = regexp.MustCompile("[*_`]+")
)

// DeriveExcerpt returns a plain-text excerpt for articles that do not declare
// one: the first body paragraph that is not a heading, list item, code fence,
// or block quote, truncated at a word boundary. maxLen values below one
// disable truncation.
func DeriveExcerpt(body []byte, maxLen int) string {
	var paragraph []string
	inFence := false

	for _, line := range strings.Split(string(body), "\n") {
		trimmed := strings.TrimSpace(line)

		if strings.HasPrefix(trimmed, "```") || strings.HasPrefix(trimmed, "~~~") {
			inFence = !inFence
			continue
		}
		if inFence {
			continue
		}

		if trimmed == "" {
			if len(paragraph) > 0 {
				break
			}
			continue
		}

		if isBlockMarkup(trimmed) {
			if len(paragraph) > 0 {
				break
			}
			continue
		}

		paragraph = append(paragraph, trimmed)
	}

	text := strings.Join(paragraph, " ")
	text = linkPattern.ReplaceAllString(text, "$1")
	text = inlinePattern.ReplaceAllString(text, "")
	text = strings.Join(strings.Fields(text), " ")

	return truncateAtWord(text, maxLen)
}

func isBlockMarkup(line string) bool {
	switch {
	case strings.HasPrefix(line, "#"):
		return true
	case strings.HasPrefix(line, ">"):
		return true
	case strings.HasPrefix(line, "- "), strings.HasPrefix(line, "* "), strings.HasPrefix(line, "+ "):
		return true
	case strings.HasPrefix(line, "|"):
		return true
	case strings.HasPrefix(line, "{{"):
		// Template directives such as shortcode includes carry no prose.
		return true
	default:
		return false
	}
}

func truncateAtWord(text string, maxLen int) string {
	if maxLen < 1 {
		return text
	}
	runes := []rune(text)
	if len(runes) <= maxLen {
		return text
	}

	cut := maxLen
	for cut > 0 && !unicode.IsSpace(runes[cut-1]) {
		cut--
	}
	if cut == 0 {
		cut = maxLen
	}

	return strings.TrimSpace(string(runes[:cut])) + "…"
}
