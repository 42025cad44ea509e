package assistant

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"balance-backend/internal/tasks"
)

func TestFormatTaskList(t *testing.T) {
	out := Outcome{
		Command: Command{Kind: KindRetrieve},
		Tasks: []tasks.Task{
			{Title: "Morning meditation", Priority: tasks.RankHigh, Importance: tasks.RankHigh, Status: tasks.StatusNew, DueDate: "2026-09-01"},
			{Title: "Journal entry", Priority: tasks.RankHigh, Importance: tasks.RankMedium, Status: tasks.StatusInProgress},
		},
		Pagination: tasks.Pagination{Total: 2, Limit: 50},
	}

	got := Format(out)
	assert.Contains(t, got, "Here are your tasks:")
	assert.Contains(t, got, "1. Morning meditation")
	assert.Contains(t, got, "2. Journal entry")
	assert.Contains(t, got, "Priority: high | Importance: high | Status: new")
	assert.Contains(t, got, "Due: 2026-09-01")
	assert.NotContains(t, got, "more.")
}

func TestFormatTaskListTruncated(t *testing.T) {
	out := Outcome{
		Command:    Command{Kind: KindRetrieve},
		Tasks:      []tasks.Task{{Title: "One"}, {Title: "Two"}},
		Pagination: tasks.Pagination{Total: 12, Limit: 2, HasMore: true},
	}

	got := Format(out)
	assert.Contains(t, got, "...and 10 more.")
}

func TestFormatEmptyList(t *testing.T) {
	out := Outcome{Command: Command{Kind: KindRetrieve}, Pagination: tasks.Pagination{}}
	assert.Equal(t, "You have no matching tasks right now.", Format(out))
}

func TestFormatFailures(t *testing.T) {
	auth := Format(Outcome{Failure: &Failure{Kind: FailAuth}})
	assert.Equal(t, msgSignIn, auth)

	generic := Format(Outcome{Failure: &Failure{Kind: FailGeneric}})
	assert.Equal(t, msgGeneric, generic)
	assert.NotContains(t, generic, "Rate limited")
	assert.NotContains(t, generic, "500")

	validation := Format(Outcome{Failure: &Failure{
		Kind:    FailValidation,
		Message: "Please specify a priority level: low, medium, or high.",
	}})
	assert.Contains(t, validation, "priority level")
}

func TestFormatCreate(t *testing.T) {
	out := Outcome{
		Command: Command{Kind: KindCreate, Title: "Buy groceries", Priority: tasks.RankHigh},
		Created: &tasks.Task{Title: "Buy groceries", Priority: tasks.RankHigh},
	}
	assert.Equal(t, `Created task "Buy groceries" with high priority.`, Format(out))
}

func TestFormatUpdateAndDelete(t *testing.T) {
	up := Format(Outcome{Command: Command{Kind: KindUpdate, TaskID: "42", Rank: tasks.RankHigh}})
	assert.Equal(t, "Task 42 updated: priority and importance set to high.", up)

	del := Format(Outcome{Command: Command{Kind: KindDelete, TaskID: "42"}})
	assert.Equal(t, "Task 42 deleted.", del)
}

func TestFormatWorkloadAnalysis(t *testing.T) {
	out := Outcome{
		Command: Command{Kind: KindAnalyze},
		Analysis: &tasks.Analysis{
			Type: tasks.AnalysisWorkload,
			Workload: &tasks.WorkloadAnalysis{
				Total: 10, Completed: 4, Open: 6, Overdue: 1, Status: "light",
			},
		},
	}

	got := Format(out)
	assert.Contains(t, got, "Workload check:")
	assert.Contains(t, got, "Total tasks: 10")
	assert.Contains(t, got, "Workload status: light")
}

func TestFormatPriorityAnalysis(t *testing.T) {
	out := Outcome{
		Command: Command{Kind: KindAnalyze},
		Analysis: &tasks.Analysis{
			Type: tasks.AnalysisPriority,
			Priority: &tasks.PriorityAnalysis{
				Priority: map[string]tasks.RankStat{
					tasks.RankHigh: {Count: 3, Percent: 75.0},
					tasks.RankLow:  {Count: 1, Percent: 25.0},
				},
				Importance:      map[string]tasks.RankStat{},
				UrgentImportant: 2,
				Recommendations: []string{"You have several urgent and important tasks. Tackle those first."},
			},
		},
	}

	got := Format(out)
	assert.Contains(t, got, "Priority breakdown:")
	assert.Contains(t, got, "high: 3 (75.0%)")
	assert.Contains(t, got, "Urgent and important: 2")
	assert.Contains(t, got, "Tackle those first")
}

func TestHelpListsExamples(t *testing.T) {
	h := Help()
	for _, want := range []string{"show my high priority tasks", "update task", "analyze", "delete task"} {
		assert.True(t, strings.Contains(h, want), "help should mention %q", want)
	}
}
