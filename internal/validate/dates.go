package validate

import (
	"fmt"
	"strings"
	"time"

	"github.com/reflectoring/reflectoring.github.io-sub011/pkg/interfaces"
)

// DateParser parses front-matter timestamps. The canonical layout is always
// tried first; hosts can register additional accepted layouts through
// configuration.
type DateParser struct {
	layouts []string
}

// NewDateParser builds a parser over the canonical layout plus any extra
// layouts. Blank extras are ignored.
func NewDateParser(extra ...string) *DateParser {
	layouts := []string{interfaces.DateLayout}
	for _, layout := range extra {
		trimmed := strings.TrimSpace(layout)
		if trimmed == "" || trimmed == interfaces.DateLayout {
			continue
		}
		layouts = append(layouts, trimmed)
	}
	return &DateParser{layouts: layouts}
}

// Parse decodes value using the first layout that accepts it. time.Parse
// rejects impossible calendar dates (month 13, day 32), which is exactly the
// "real calendar date" guarantee callers need.
func (p *DateParser) Parse(value string) (time.Time, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return time.Time{}, fmt.Errorf("parse date: empty value")
	}

	var lastErr error
	for _, layout := range p.layouts {
		ts, err := time.Parse(layout, trimmed)
		if err == nil {
			return ts, nil
		}
		lastErr = err
	}
	return time.Time{}, fmt.Errorf("parse date %q: %w", trimmed, lastErr)
}
