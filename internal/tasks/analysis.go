package tasks

import (
	"fmt"
	"math"
	"time"
)

type AnalysisType string

const (
	AnalysisPriority AnalysisType = "priority"
	AnalysisWorkload AnalysisType = "workload"
	AnalysisTimeline AnalysisType = "timeline"
)

func ValidAnalysisType(s string) bool {
	switch AnalysisType(s) {
	case AnalysisPriority, AnalysisWorkload, AnalysisTimeline:
		return true
	}
	return false
}

type RankStat struct {
	Count   int     `json:"count"`
	Percent float64 `json:"percent"`
}

type PriorityAnalysis struct {
	Priority        map[string]RankStat `json:"priority"`
	Importance      map[string]RankStat `json:"importance"`
	UrgentImportant int                 `json:"urgent_important"`
	Recommendations []string            `json:"recommendations"`
}

type WorkloadAnalysis struct {
	Total     int    `json:"total"`
	Completed int    `json:"completed"`
	Open      int    `json:"open"`
	Overdue   int    `json:"overdue"`
	Status    string `json:"workload_status"`
}

type TimelineAnalysis struct {
	Overdue      int `json:"overdue"`
	DueToday     int `json:"due_today"`
	DueThisWeek  int `json:"due_this_week"`
	DueThisMonth int `json:"due_this_month"`
	NoDueDate    int `json:"no_due_date"`
}

// Analysis is a tagged union keyed by Type; exactly one branch is set.
type Analysis struct {
	Type     AnalysisType      `json:"analysisType"`
	Priority *PriorityAnalysis `json:"priority_analysis,omitempty"`
	Workload *WorkloadAnalysis `json:"workload_analysis,omitempty"`
	Timeline *TimelineAnalysis `json:"timeline_analysis,omitempty"`
}

// Analyze aggregates the user's tasks into one of the three report shapes.
func Analyze(list []Task, typ AnalysisType, now time.Time) (Analysis, error) {
	switch typ {
	case AnalysisPriority:
		return Analysis{Type: typ, Priority: analyzePriority(list)}, nil
	case AnalysisWorkload:
		return Analysis{Type: typ, Workload: analyzeWorkload(list, now)}, nil
	case AnalysisTimeline:
		return Analysis{Type: typ, Timeline: analyzeTimeline(list, now)}, nil
	}
	return Analysis{}, fmt.Errorf("unknown analysis type %q", typ)
}

func rankDistribution(list []Task, rank func(Task) string) map[string]RankStat {
	dist := map[string]RankStat{
		RankLow:    {},
		RankMedium: {},
		RankHigh:   {},
	}
	for _, t := range list {
		s := dist[rank(t)]
		s.Count++
		dist[rank(t)] = s
	}
	total := len(list)
	if total == 0 {
		return dist
	}
	for k, s := range dist {
		s.Percent = math.Round(float64(s.Count)/float64(total)*1000) / 10
		dist[k] = s
	}
	return dist
}

func analyzePriority(list []Task) *PriorityAnalysis {
	a := &PriorityAnalysis{
		Priority:   rankDistribution(list, func(t Task) string { return t.Priority }),
		Importance: rankDistribution(list, func(t Task) string { return t.Importance }),
	}

	for _, t := range list {
		if !t.Completed && t.Priority == RankHigh && t.Importance == RankHigh {
			a.UrgentImportant++
		}
	}

	switch {
	case len(list) == 0:
		a.Recommendations = append(a.Recommendations,
			"No tasks yet. Add one or two small, concrete tasks to get started.")
	case a.UrgentImportant > 0:
		a.Recommendations = append(a.Recommendations, fmt.Sprintf(
			"Start with your %d urgent and important task(s) before anything else.", a.UrgentImportant))
	}
	if n := a.Priority[RankHigh].Count; len(list) > 0 && n*2 > len(list) {
		a.Recommendations = append(a.Recommendations,
			"More than half of your tasks are high priority. Re-rank a few so the list reflects real urgency.")
	}
	if len(a.Recommendations) == 0 {
		a.Recommendations = append(a.Recommendations,
			"Your priorities look balanced. Keep working top-down.")
	}
	return a
}

func analyzeWorkload(list []Task, now time.Time) *WorkloadAnalysis {
	a := &WorkloadAnalysis{Total: len(list)}

	today := now.Truncate(24 * time.Hour)
	for _, t := range list {
		if t.Completed {
			a.Completed++
			continue
		}
		a.Open++
		if due, ok := dueTime(t); ok && due.Before(today) {
			a.Overdue++
		}
	}

	switch {
	case a.Open >= 15 || a.Overdue >= 5:
		a.Status = "heavy"
	case a.Open >= 7:
		a.Status = "moderate"
	default:
		a.Status = "light"
	}
	return a
}

func analyzeTimeline(list []Task, now time.Time) *TimelineAnalysis {
	a := &TimelineAnalysis{}

	today := now.Truncate(24 * time.Hour)
	weekEnd := today.AddDate(0, 0, 7)
	monthEnd := today.AddDate(0, 1, 0)

	for _, t := range list {
		if t.Completed {
			continue
		}
		due, ok := dueTime(t)
		if !ok {
			a.NoDueDate++
			continue
		}
		switch {
		case due.Before(today):
			a.Overdue++
		case due.Equal(today):
			a.DueToday++
			a.DueThisWeek++
			a.DueThisMonth++
		case !due.After(weekEnd):
			a.DueThisWeek++
			a.DueThisMonth++
		case !due.After(monthEnd):
			a.DueThisMonth++
		}
	}
	return a
}
