package importer

import (
	"encoding/csv"
	"fmt"
	"regexp"
	"strings"

	"github.com/sokawa/dayboard/internal/models"
)

// MorningMarker labels both the date-header rows and the morning band.
const MorningMarker = "朝"

// dateColumns is the number of day columns a header row establishes.
const dateColumns = 6

// bandSlots maps each time-of-day band to its fixed start-time list. Each
// occurrence of a band label consumes the next slot; once a band's list runs
// out, later occurrences clamp to the last slot.
var bandSlots = map[string][]string{
	MorningMarker: {"08:00", "08:30"},
	"AM":          {"09:00", "10:00", "11:00"},
	"PM":          {"13:00", "14:00", "15:00", "16:00"},
}

// mdRe matches a month/day header cell like "9/1".
var mdRe = regexp.MustCompile(`^(\d{1,2})\s*/\s*(\d{1,2})$`)

// labelRe matches "label: value" title lines inside a cell.
var labelRe = regexp.MustCompile(`^(?:作業内容|作業|タスク|案件|件名|内容)\s*[:：]\s*(.*)$`)

// ParseGrid parses a pasted spreadsheet grid (tab-delimited, standard quote
// rules, so a quoted cell may contain literal newlines and doubled quotes)
// into drafts. Rows are scanned once, top to bottom:
//
//   - a row whose first cell is the morning marker and whose next six cells
//     are M/D dates resets the column-to-date mapping, letting several weeks
//     appear in one paste;
//   - a row labeled with a band marker consumes that band's next time slot
//     and turns each non-empty cell in a mapped column into one draft.
//
// Cells that are template-only (labels with no values) and rows that predate
// any date header are skipped. year anchors the M/D dates.
func ParseGrid(text string, year int) []models.TaskDraft {
	r := csv.NewReader(strings.NewReader(text))
	r.Comma = '\t'
	r.FieldsPerRecord = -1

	rows, err := r.ReadAll()
	if err != nil {
		// Fall back to naive line splitting so a paste with one bad
		// quote still yields the well-formed rows.
		rows = naiveRows(text)
	}

	var drafts []models.TaskDraft
	var dates [dateColumns]string
	counters := map[string]int{}

	for _, row := range rows {
		if len(row) == 0 {
			continue
		}
		label := strings.TrimSpace(row[0])

		if label == MorningMarker {
			if parsed, ok := headerDates(row, year); ok {
				dates = parsed
				continue
			}
		}

		slots, ok := bandSlots[label]
		if !ok {
			continue
		}
		idx := counters[label]
		counters[label]++
		if idx >= len(slots) {
			idx = len(slots) - 1
		}
		start := slots[idx]

		for col := 0; col < dateColumns && col+1 < len(row); col++ {
			if dates[col] == "" {
				continue
			}
			cell := strings.TrimSpace(row[col+1])
			if cell == "" {
				continue
			}
			title, ok := cellTitle(cell)
			if !ok {
				continue
			}

			draft := models.TaskDraft{
				Title:     title,
				Details:   cell,
				Date:      dates[col],
				StartTime: start,
			}
			if m := customerRe.FindStringSubmatch(title); m != nil && m[2] != "" {
				draft.CustomerName = m[1]
				draft.Title = strings.TrimSpace(m[2])
			}
			drafts = append(drafts, draft)
		}
	}

	return drafts
}

// headerDates parses the six M/D cells following a morning marker.
func headerDates(row []string, year int) ([dateColumns]string, bool) {
	var out [dateColumns]string
	if len(row) < dateColumns+1 {
		return out, false
	}
	for i := 0; i < dateColumns; i++ {
		m := mdRe.FindStringSubmatch(strings.TrimSpace(row[i+1]))
		if m == nil {
			return out, false
		}
		var month, day int
		fmt.Sscanf(m[1], "%d", &month)
		fmt.Sscanf(m[2], "%d", &day)
		if month < 1 || month > 12 || day < 1 || day > 31 {
			return out, false
		}
		out[i] = fmt.Sprintf("%04d-%02d-%02d", year, month, day)
	}
	return out, true
}

// cellTitle reduces a cell to its task title: the first "label: value" line
// with a value, else the first non-blank non-label line. Cells whose content
// is template-only, labels with nothing filled in, yield no draft.
func cellTitle(cell string) (string, bool) {
	fallback := ""
	for _, raw := range strings.Split(cell, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		if m := labelRe.FindStringSubmatch(line); m != nil {
			if v := strings.TrimSpace(m[1]); v != "" {
				return v, true
			}
			continue
		}
		if fallback == "" {
			fallback = line
		}
	}
	if fallback == "" {
		return "", false
	}
	return fallback, true
}

// naiveRows splits without quote handling.
func naiveRows(text string) [][]string {
	var rows [][]string
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		rows = append(rows, strings.Split(line, "\t"))
	}
	return rows
}
