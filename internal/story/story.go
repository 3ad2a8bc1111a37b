// Package story parses epics/stories planning documents into structured records
package story

// Story represents a single unit of planned work parsed from the epics document.
// Identity is ID (dotted, e.g. "2.3"), unique within one parse; slice order
// follows document order.
type Story struct {
	Epic               string
	EpicDescription    string
	ID                 string
	Title              string
	Description        string
	AcceptanceCriteria []string
}
