package assistant

import (
	"fmt"
	"strings"

	"balance-backend/internal/tasks"
)

// Fixed user-facing strings. Raw backend errors never appear here; they
// are logged by the executor instead.
const (
	msgSignIn  = "You need to be signed in for that. Please log in and try again."
	msgGeneric = "Sorry, something went wrong on my end. Please try again in a moment."

	helpMessage = `I didn't catch that. Try one of these:
  - show my high priority tasks
  - list tasks due this week
  - update task <id> to high priority
  - analyze my priorities
  - create a task 'Morning meditation' with high priority
  - delete task <id>`
)

// Help is the reply for an utterance that matched no command family.
func Help() string {
	return helpMessage
}

// Format renders one outcome as a single chat-transcript reply.
func Format(o Outcome) string {
	if o.Failure != nil {
		switch o.Failure.Kind {
		case FailValidation:
			return o.Failure.Message
		case FailAuth:
			return msgSignIn
		default:
			return msgGeneric
		}
	}

	switch o.Command.Kind {
	case KindRetrieve:
		return formatTaskList(o.Tasks, o.Pagination)
	case KindAnalyze:
		return formatAnalysis(o.Analysis)
	case KindCreate:
		if o.Created != nil {
			return fmt.Sprintf("Created task %q with %s priority.", o.Created.Title, o.Created.Priority)
		}
		return fmt.Sprintf("Created task %q with %s priority.", o.Command.Title, o.Command.Priority)
	case KindUpdate:
		return fmt.Sprintf("Task %s updated: priority and importance set to %s.", o.Command.TaskID, o.Command.Rank)
	case KindDelete:
		return fmt.Sprintf("Task %s deleted.", o.Command.TaskID)
	}
	return msgGeneric
}

func formatTaskList(list []tasks.Task, p tasks.Pagination) string {
	if len(list) == 0 {
		return "You have no matching tasks right now."
	}

	var b strings.Builder
	b.WriteString("Here are your tasks:\n")
	for i, t := range list {
		fmt.Fprintf(&b, "%d. %s\n", i+1, t.Title)
		fmt.Fprintf(&b, "   Priority: %s | Importance: %s | Status: %s\n", t.Priority, t.Importance, t.Status)
		if t.DueDate != "" {
			fmt.Fprintf(&b, "   Due: %s\n", t.DueDate)
		}
		if t.Description != "" {
			fmt.Fprintf(&b, "   %s\n", t.Description)
		}
	}
	if p.HasMore {
		fmt.Fprintf(&b, "...and %d more.\n", p.Total-p.Offset-len(list))
	}
	return strings.TrimRight(b.String(), "\n")
}

func formatAnalysis(a *tasks.Analysis) string {
	if a == nil {
		return msgGeneric
	}

	var b strings.Builder
	switch a.Type {
	case tasks.AnalysisPriority:
		p := a.Priority
		b.WriteString("Priority breakdown:\n")
		writeRankLines(&b, p.Priority)
		b.WriteString("Importance breakdown:\n")
		writeRankLines(&b, p.Importance)
		fmt.Fprintf(&b, "Urgent and important: %d\n", p.UrgentImportant)
		b.WriteString("Recommendations:\n")
		for _, rec := range p.Recommendations {
			fmt.Fprintf(&b, "  - %s\n", rec)
		}
	case tasks.AnalysisWorkload:
		wl := a.Workload
		b.WriteString("Workload check:\n")
		fmt.Fprintf(&b, "  Total tasks: %d\n", wl.Total)
		fmt.Fprintf(&b, "  Completed: %d\n", wl.Completed)
		fmt.Fprintf(&b, "  Open: %d\n", wl.Open)
		fmt.Fprintf(&b, "  Overdue: %d\n", wl.Overdue)
		fmt.Fprintf(&b, "  Workload status: %s\n", wl.Status)
	case tasks.AnalysisTimeline:
		tl := a.Timeline
		b.WriteString("Timeline:\n")
		fmt.Fprintf(&b, "  Overdue: %d\n", tl.Overdue)
		fmt.Fprintf(&b, "  Due today: %d\n", tl.DueToday)
		fmt.Fprintf(&b, "  Due this week: %d\n", tl.DueThisWeek)
		fmt.Fprintf(&b, "  Due this month: %d\n", tl.DueThisMonth)
		fmt.Fprintf(&b, "  No due date: %d\n", tl.NoDueDate)
	default:
		return msgGeneric
	}
	return strings.TrimRight(b.String(), "\n")
}

func writeRankLines(b *strings.Builder, dist map[string]tasks.RankStat) {
	for _, rank := range []string{tasks.RankHigh, tasks.RankMedium, tasks.RankLow} {
		s := dist[rank]
		fmt.Fprintf(b, "  %s: %d (%.1f%%)\n", rank, s.Count, s.Percent)
	}
}
