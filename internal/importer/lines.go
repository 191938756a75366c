// Package importer turns semi-structured pasted text into task drafts.
// Both parsers are pure functions: malformed lines and cells are skipped,
// nothing is committed anywhere, and the same input always yields the same
// drafts.
package importer

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/sokawa/dayboard/internal/models"
)

// timeRangeRe matches a time-range marker line: "■09:00-09:30". The range
// sets the start time and estimate for the bullets that follow it.
var timeRangeRe = regexp.MustCompile(`^■\s*(\d{1,2}):(\d{2})\s*[-〜~–]\s*(\d{1,2}):(\d{2})`)

// bulletPrefixes start a new draft. The text after the glyph is the title.
var bulletPrefixes = []string{"・", "･", "•", "●", "○"}

// customerRe splits "Client様 task title" into customer and title.
var customerRe = regexp.MustCompile(`^(\S+?)様\s*(.*)$`)

// ParseLines parses free bullet text into drafts for the given date.
//
// A marker line "■HH:MM-HH:MM" sets the current start time and estimated
// duration (wrapping past midnight when the end reads smaller than the
// start). A bullet line starts a draft, pulling out a trailing-marker
// customer name when present. Parenthesized lines lose one layer of
// parentheses and, like plain lines, are appended to the current draft's
// details.
func ParseLines(text, date string) []models.TaskDraft {
	var drafts []models.TaskDraft
	var current *models.TaskDraft

	startTime := ""
	estimate := 0

	flush := func() {
		if current != nil && current.Title != "" {
			drafts = append(drafts, *current)
		}
		current = nil
	}

	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}

		if m := timeRangeRe.FindStringSubmatch(line); m != nil {
			startTime, estimate = timeRange(m)
			continue
		}

		if title, ok := stripBullet(line); ok {
			flush()
			draft := models.TaskDraft{
				Date:          date,
				StartTime:     startTime,
				EstimatedTime: estimate,
			}
			if m := customerRe.FindStringSubmatch(title); m != nil && m[2] != "" {
				draft.CustomerName = m[1]
				draft.Title = strings.TrimSpace(m[2])
			} else {
				draft.Title = strings.TrimSpace(title)
			}
			current = &draft
			continue
		}

		if current == nil {
			continue
		}
		appendDetail(current, stripParens(line))
	}

	flush()
	return drafts
}

// timeRange converts a matched marker into a start time and an estimate in
// seconds. An end numerically before the start wraps past midnight.
func timeRange(m []string) (string, int) {
	var sh, sm, eh, em int
	fmt.Sscanf(m[1], "%d", &sh)
	fmt.Sscanf(m[2], "%d", &sm)
	fmt.Sscanf(m[3], "%d", &eh)
	fmt.Sscanf(m[4], "%d", &em)

	start := sh*60 + sm
	end := eh*60 + em
	minutes := end - start
	if minutes < 0 {
		minutes += 24 * 60
	}
	return fmt.Sprintf("%02d:%02d", sh, sm), minutes * 60
}

func stripBullet(line string) (string, bool) {
	for _, prefix := range bulletPrefixes {
		if strings.HasPrefix(line, prefix) {
			return strings.TrimSpace(strings.TrimPrefix(line, prefix)), true
		}
	}
	return "", false
}

// stripParens removes one enclosing layer of full-width or ASCII parentheses.
func stripParens(line string) string {
	pairs := [][2]string{{"（", "）"}, {"(", ")"}}
	for _, p := range pairs {
		if strings.HasPrefix(line, p[0]) && strings.HasSuffix(line, p[1]) {
			return strings.TrimSpace(strings.TrimSuffix(strings.TrimPrefix(line, p[0]), p[1]))
		}
	}
	return line
}

func appendDetail(draft *models.TaskDraft, text string) {
	if text == "" {
		return
	}
	if draft.Details == "" {
		draft.Details = text
		return
	}
	draft.Details += "\n" + text
}
