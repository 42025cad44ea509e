// Package assistant turns free-text coaching-chat utterances into task
// operations against the API and renders the results as chat replies.
package assistant

import "balance-backend/internal/tasks"

type Kind string

const (
	KindRetrieve Kind = "retrieve"
	KindUpdate   Kind = "update"
	KindAnalyze  Kind = "analyze"
	KindCreate   Kind = "create"
	KindDelete   Kind = "delete"
)

// Command is the typed intent produced by the parser. It lives for one
// utterance/response cycle and is never stored.
type Command struct {
	Kind   Kind
	Intent string

	// retrieve + create
	Priority   string
	Importance string

	// retrieve
	DueBefore string // YYYY-MM-DD, computed at parse time
	Limit     int
	Offset    int
	SortBy    string
	SortOrder string

	// update / delete
	TaskID string
	Rank   string // update sets both priority and importance to this rank

	// analyze
	AnalysisType tasks.AnalysisType

	// create
	Title       string
	Description string
	DueDate     string
}
