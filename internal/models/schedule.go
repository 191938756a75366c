package models

// ScheduleBlock is one laid-out visual block on the day grid. Blocks are
// recomputed from the current task snapshot on every render and never
// persisted.
type ScheduleBlock struct {
	Task *Task

	// Column assignment within the block's overlap group.
	Column       int
	TotalColumns int

	// Vertical geometry in grid units.
	Top    float64
	Height float64

	// Horizontal geometry in grid units, already split into bands.
	Left  float64
	Width float64
}
