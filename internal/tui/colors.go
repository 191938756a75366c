package tui

// Color constants for the dayboard TUI theme
const (
	// Base Colors
	ColorBorder = "#3A3F55" // Grey-blue

	// Text Colors
	ColorPrimaryText   = "#E6EAF2" // Titles, user input
	ColorSecondaryText = "#B1B8C7" // Secondary text
	ColorDisabledText  = "#6D7383" // Completed tasks, hour labels
	ColorHelpText      = "240"     // Dark grey for help text

	// Accent Colors
	ColorAccentMain   = "#7C3AED" // Selected row, active borders
	ColorAccentBright = "#A78BFA" // Active timer, highlights

	// State Colors
	ColorError    = "#EF4444" // Fetch/update errors
	ColorSuccess  = "#22C55E" // Completed markers
	ColorWarning  = "#F59E0B" // Reauth banner
	ColorCalendar = "#3B82F6" // Calendar-origin blocks
)
