// Package schedule lays time-boxed tasks out on a fixed-height day grid:
// vertical position from the start time, height from the duration, and a
// greedy column packing that keeps overlapping blocks side by side. The
// layout is a pure function of its input and fully deterministic.
package schedule

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/sokawa/dayboard/internal/models"
)

// Grid geometry. Heights and widths are in abstract units; renderers scale
// them to pixels or terminal cells.
const (
	// StartHour and EndHour bound the visible window.
	StartHour = 6
	EndHour   = 23

	// HourHeight is the vertical span of one hour.
	HourHeight = 60.0

	// MinBlockHeight keeps zero- and near-zero-duration tasks visible.
	MinBlockHeight = 20.0

	// GridWidth is the horizontal span of the whole row.
	GridWidth = 100.0

	// Gutter is the spacing subtracted from each block's width.
	Gutter = 2.0
)

// Layout maps the day's tasks into positioned blocks. Tasks without a
// parseable start time are excluded. Calendar-origin events and regular
// tasks are packed independently; when both are present the row is split
// into two side-by-side bands so they never fight for the same columns.
func Layout(tasks []models.Task) []models.ScheduleBlock {
	var calendar, regular []models.ScheduleBlock
	for i := range tasks {
		block, ok := place(&tasks[i])
		if !ok {
			continue
		}
		if tasks[i].IsCalendarEvent() {
			calendar = append(calendar, block)
		} else {
			regular = append(regular, block)
		}
	}

	packColumns(calendar)
	packColumns(regular)

	split := len(calendar) > 0
	band := GridWidth
	if split {
		band = GridWidth / 2
	}
	applyBand(calendar, 0, band)
	if split {
		applyBand(regular, band, band)
	} else {
		applyBand(regular, 0, GridWidth)
	}

	return append(calendar, regular...)
}

// place computes the vertical geometry for one task.
func place(t *models.Task) (models.ScheduleBlock, bool) {
	hour, minute, ok := ParseStartTime(t.StartTime)
	if !ok || hour < StartHour || hour > EndHour {
		return models.ScheduleBlock{}, false
	}

	top := float64(hour-StartHour)*HourHeight + float64(minute)/60*HourHeight

	// Actual time spent wins over the estimate once work has been logged.
	duration := t.EstimatedTime
	if t.TimeSpent > 0 {
		duration = t.TimeSpent
	}
	height := float64(duration) / 3600 * HourHeight
	if height < MinBlockHeight {
		height = MinBlockHeight
	}

	return models.ScheduleBlock{Task: t, Top: top, Height: height, TotalColumns: 1}, true
}

// packColumns assigns columns within one group: a first-fit pass in start
// order, then a widening pass that sizes every member of a local overlap
// group to its densest column. The second pass is the greedy approximation
// the grid has always used, not a minimum-coloring solution.
func packColumns(blocks []models.ScheduleBlock) {
	// Ties keep original order.
	sort.SliceStable(blocks, func(i, j int) bool {
		return blocks[i].Top < blocks[j].Top
	})

	for i := range blocks {
		used := map[int]bool{}
		for j := 0; j < i; j++ {
			if overlaps(blocks[i], blocks[j]) {
				used[blocks[j].Column] = true
			}
		}
		col := 0
		for used[col] {
			col++
		}
		blocks[i].Column = col
	}

	for i := range blocks {
		maxCol := blocks[i].Column
		group := []int{i}
		for j := range blocks {
			if j == i {
				continue
			}
			if overlaps(blocks[i], blocks[j]) {
				group = append(group, j)
				if blocks[j].Column > maxCol {
					maxCol = blocks[j].Column
				}
			}
		}
		for _, j := range group {
			blocks[j].TotalColumns = maxCol + 1
		}
	}
}

// overlaps reports whether two blocks' [Top, Top+Height) intervals intersect.
func overlaps(a, b models.ScheduleBlock) bool {
	return a.Top < b.Top+b.Height && b.Top < a.Top+a.Height
}

// applyBand computes horizontal geometry from the column assignment.
func applyBand(blocks []models.ScheduleBlock, baseLeft, bandWidth float64) {
	for i := range blocks {
		width := bandWidth / float64(blocks[i].TotalColumns)
		blocks[i].Left = baseLeft + float64(blocks[i].Column)*width
		blocks[i].Width = width - Gutter
		if blocks[i].Width < 0 {
			blocks[i].Width = 0
		}
	}
}

// ParseStartTime parses a task start time, accepting "HH:MM" time-of-day
// strings and RFC 3339 instants (converted to local time of day).
func ParseStartTime(s string) (hour, minute int, ok bool) {
	if s == "" {
		return 0, 0, false
	}

	if t, err := time.Parse(time.RFC3339, s); err == nil {
		local := t.Local()
		return local.Hour(), local.Minute(), true
	}

	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return 0, 0, false
	}
	h, err1 := strconv.Atoi(strings.TrimSpace(parts[0]))
	m, err2 := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err1 != nil || err2 != nil || h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, 0, false
	}
	return h, m, true
}
