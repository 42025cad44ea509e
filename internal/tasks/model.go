package tasks

import (
	"fmt"
	"strings"
	"time"
)

// Rank values shared by priority and importance.
const (
	RankLow    = "low"
	RankMedium = "medium"
	RankHigh   = "high"
)

// Workflow statuses. Completed status and the completed flag are kept in
// sync on every write: status == completed <=> completed == true.
const (
	StatusNew        = "new"
	StatusInProgress = "in_progress"
	StatusHurdles    = "hurdles"
	StatusCompleted  = "completed"
)

const DateLayout = "2006-01-02"

type Task struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	DueDate     string    `json:"due_date,omitempty"` // YYYY-MM-DD, no time component
	Priority    string    `json:"priority"`
	Importance  string    `json:"importance"`
	Completed   bool      `json:"completed"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

func ValidRank(s string) bool {
	switch s {
	case RankLow, RankMedium, RankHigh:
		return true
	}
	return false
}

func ValidStatus(s string) bool {
	switch s {
	case StatusNew, StatusInProgress, StatusHurdles, StatusCompleted:
		return true
	}
	return false
}

func ValidDate(s string) bool {
	_, err := time.Parse(DateLayout, s)
	return err == nil
}

// sortColumns is the allow-list for the retrieve operation.
var sortColumns = map[string]string{
	"created_at": "created_at",
	"due_date":   "due_date",
	"title":      "title",
	"priority":   "priority",
	"importance": "importance",
	"status":     "status",
}

const (
	DefaultLimit = 50
	MaxLimit     = 100
)

type ListFilter struct {
	Priority   string
	Importance string
	DueBefore  string // YYYY-MM-DD
	SortBy     string
	SortOrder  string
	Limit      int
	Offset     int
}

// Normalize fills defaults for zero-valued fields.
func (f *ListFilter) Normalize() {
	if f.Limit == 0 {
		f.Limit = DefaultLimit
	}
	if f.SortBy == "" {
		f.SortBy = "created_at"
	}
	if f.SortOrder == "" {
		f.SortOrder = "desc"
	}
}

// Validate checks every filter field and names the offending one.
func (f ListFilter) Validate() error {
	if f.Limit < 1 || f.Limit > MaxLimit {
		return fmt.Errorf("limit must be between 1 and %d", MaxLimit)
	}
	if f.Offset < 0 {
		return fmt.Errorf("offset must be zero or greater")
	}
	if f.Priority != "" && !ValidRank(f.Priority) {
		return fmt.Errorf("priority must be one of low, medium, high")
	}
	if f.Importance != "" && !ValidRank(f.Importance) {
		return fmt.Errorf("importance must be one of low, medium, high")
	}
	if f.DueBefore != "" && !ValidDate(f.DueBefore) {
		return fmt.Errorf("due_before must be a YYYY-MM-DD date")
	}
	if f.SortBy != "" {
		if _, ok := sortColumns[f.SortBy]; !ok {
			return fmt.Errorf("sortBy must be one of: %s", strings.Join(sortFieldNames(), ", "))
		}
	}
	if f.SortOrder != "" && f.SortOrder != "asc" && f.SortOrder != "desc" {
		return fmt.Errorf("sortOrder must be asc or desc")
	}
	return nil
}

func sortFieldNames() []string {
	names := make([]string, 0, len(sortColumns))
	for k := range sortColumns {
		names = append(names, k)
	}
	return names
}

// Update is a partial task mutation. Nil fields are left untouched.
type Update struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	DueDate     *string `json:"due_date"`
	Priority    *string `json:"priority"`
	Importance  *string `json:"importance"`
	Status      *string `json:"status"`
	Completed   *bool   `json:"completed"`
}

func (u Update) Empty() bool {
	return u.Title == nil && u.Description == nil && u.DueDate == nil &&
		u.Priority == nil && u.Importance == nil && u.Status == nil && u.Completed == nil
}

func (u Update) Validate() error {
	if u.Title != nil && strings.TrimSpace(*u.Title) == "" {
		return fmt.Errorf("title must not be empty")
	}
	if u.DueDate != nil && *u.DueDate != "" && !ValidDate(*u.DueDate) {
		return fmt.Errorf("due_date must be a YYYY-MM-DD date")
	}
	if u.Priority != nil && !ValidRank(*u.Priority) {
		return fmt.Errorf("priority must be one of low, medium, high")
	}
	if u.Importance != nil && !ValidRank(*u.Importance) {
		return fmt.Errorf("importance must be one of low, medium, high")
	}
	if u.Status != nil && !ValidStatus(*u.Status) {
		return fmt.Errorf("status must be one of new, in_progress, hurdles, completed")
	}
	return nil
}

// Apply mutates t and re-establishes the status/completed invariant.
// An explicit status wins over an explicit completed flag; flipping the
// flag alone moves the status across the completed boundary.
func (u Update) Apply(t *Task) {
	if u.Title != nil {
		t.Title = strings.TrimSpace(*u.Title)
	}
	if u.Description != nil {
		t.Description = strings.TrimSpace(*u.Description)
	}
	if u.DueDate != nil {
		t.DueDate = *u.DueDate
	}
	if u.Priority != nil {
		t.Priority = *u.Priority
	}
	if u.Importance != nil {
		t.Importance = *u.Importance
	}

	switch {
	case u.Status != nil:
		t.Status = *u.Status
		t.Completed = t.Status == StatusCompleted
	case u.Completed != nil:
		t.Completed = *u.Completed
		if t.Completed {
			t.Status = StatusCompleted
		} else if t.Status == StatusCompleted {
			t.Status = StatusNew
		}
	}
}

func dueTime(t Task) (time.Time, bool) {
	if t.DueDate == "" {
		return time.Time{}, false
	}
	due, err := time.Parse(DateLayout, t.DueDate)
	if err != nil {
		return time.Time{}, false
	}
	return due, true
}
