package assistant

import (
	"regexp"
	"strings"
	"time"

	"balance-backend/internal/tasks"
)

// The parser is a shallow keyword matcher, not an NLU model. Trigger words
// and their order are user-visible behavior; change them with care.
//
// Families are checked in a fixed order (retrieve, update, analyze, create,
// delete) and the first family whose trigger words appear wins. Within a
// family earlier rules win. A miss is a normal outcome, not an error.

var (
	taskRefRe     = regexp.MustCompile(`(?i)task\s+(\S+)`)
	createTitleRe = regexp.MustCompile(`(?i)(?:create|add)\b\s*(.*)$`)
	quotedRe      = regexp.MustCompile(`['"]([^'"]+)['"]`)
)

// Parse maps one utterance to at most one Command. The due-week window is
// relative to the moment of parsing.
func Parse(text string) (Command, bool) {
	return ParseAt(text, time.Now())
}

func ParseAt(text string, now time.Time) (Command, bool) {
	lower := strings.ToLower(text)

	switch {
	case containsAny(lower, "show", "list", "get"):
		return parseRetrieve(lower, now)
	case strings.Contains(lower, "update"):
		return parseUpdate(text, lower), true
	case containsAny(lower, "analyze", "analysis"):
		return parseAnalyze(lower), true
	case containsAny(lower, "create", "add"):
		return parseCreate(text, lower), true
	case containsAny(lower, "delete", "remove"):
		return parseDelete(text), true
	}
	return Command{}, false
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func parseRetrieve(lower string, now time.Time) (Command, bool) {
	cmd := Command{Kind: KindRetrieve}

	switch {
	case strings.Contains(lower, "high priority"):
		cmd.Intent = "retrieve_high_priority"
		cmd.Priority = tasks.RankHigh
	case strings.Contains(lower, "medium priority"):
		cmd.Intent = "retrieve_medium_priority"
		cmd.Priority = tasks.RankMedium
	case strings.Contains(lower, "low priority"):
		cmd.Intent = "retrieve_low_priority"
		cmd.Priority = tasks.RankLow
	case strings.Contains(lower, "due this week"), strings.Contains(lower, "due week"):
		cmd.Intent = "retrieve_due_week"
		cmd.DueBefore = now.AddDate(0, 0, 7).Format(tasks.DateLayout)
	case strings.Contains(lower, "task"):
		cmd.Intent = "retrieve_all"
	default:
		return Command{}, false
	}
	return cmd, true
}

func parseUpdate(text, lower string) Command {
	cmd := Command{Kind: KindUpdate, Intent: "update_priority"}

	// single-token capture after the word "task"; ids containing whitespace
	// are not representable here and the executor guards the empty case
	if m := taskRefRe.FindStringSubmatch(text); m != nil {
		cmd.TaskID = strings.Trim(m[1], `'".,!?`)
	}
	cmd.Rank = firstRank(lower)
	return cmd
}

func parseAnalyze(lower string) Command {
	cmd := Command{Kind: KindAnalyze}

	switch {
	case containsAny(lower, "completion", "pattern"):
		cmd.Intent = "analyze_workload"
		cmd.AnalysisType = tasks.AnalysisWorkload
	case strings.Contains(lower, "priority"):
		cmd.Intent = "analyze_priority"
		cmd.AnalysisType = tasks.AnalysisPriority
	case containsAny(lower, "timeline", "due"):
		cmd.Intent = "analyze_timeline"
		cmd.AnalysisType = tasks.AnalysisTimeline
	default:
		cmd.Intent = "analyze_priority"
		cmd.AnalysisType = tasks.AnalysisPriority
	}
	return cmd
}

func parseCreate(text, lower string) Command {
	cmd := Command{Kind: KindCreate, Intent: "create_task"}

	if m := quotedRe.FindStringSubmatch(text); m != nil {
		cmd.Title = strings.TrimSpace(m[1])
	} else if m := createTitleRe.FindStringSubmatch(text); m != nil {
		cmd.Title = strings.Trim(stripFiller(m[1]), `'" `)
	}
	if cmd.Title == "" {
		cmd.Title = "New Task"
	}

	switch {
	case strings.Contains(lower, "high"):
		cmd.Priority = tasks.RankHigh
	case strings.Contains(lower, "low"):
		cmd.Priority = tasks.RankLow
	default:
		cmd.Priority = tasks.RankMedium
	}

	if strings.Contains(lower, "important") {
		cmd.Importance = tasks.RankHigh
	} else {
		cmd.Importance = tasks.RankMedium
	}
	return cmd
}

func parseDelete(text string) Command {
	cmd := Command{Kind: KindDelete, Intent: "delete_task"}
	if m := taskRefRe.FindStringSubmatch(text); m != nil {
		cmd.TaskID = strings.Trim(m[1], `'".,!?`)
	}
	return cmd
}

// stripFiller drops leading "a"/"new"/"task" words so that "create a new
// task Morning run" captures just the title, and "create task" captures
// nothing (the caller falls back to "New Task").
func stripFiller(s string) string {
	words := strings.Fields(s)
	for len(words) > 0 {
		switch strings.ToLower(words[0]) {
		case "a", "new", "task":
			words = words[1:]
		default:
			return strings.Join(words, " ")
		}
	}
	return ""
}

func firstRank(lower string) string {
	switch {
	case strings.Contains(lower, "high"):
		return tasks.RankHigh
	case strings.Contains(lower, "low"):
		return tasks.RankLow
	case strings.Contains(lower, "medium"):
		return tasks.RankMedium
	}
	return ""
}
