package models

// DefaultProjectID is assigned to tasks created without an explicit project.
const DefaultProjectID = "p1"

// DefaultEstimate is the estimated time, in seconds, for tasks created
// without an explicit estimate.
const DefaultEstimate = 3600

// Project buckets tasks into a small fixed catalog. The catalog is not
// mutated at runtime.
type Project struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

// DefaultProjects returns the built-in project catalog.
func DefaultProjects() []Project {
	return []Project{
		{ID: "p1", Name: "General", Color: "#7C3AED"},
		{ID: "p2", Name: "Client Work", Color: "#22C55E"},
		{ID: "p3", Name: "Internal", Color: "#F59E0B"},
		{ID: "p4", Name: "Routine", Color: "#3B82F6"},
	}
}

// ProjectByID looks up a project in the default catalog. The default project
// is returned for unknown ids.
func ProjectByID(id string) Project {
	for _, p := range DefaultProjects() {
		if p.ID == id {
			return p
		}
	}
	return DefaultProjects()[0]
}
