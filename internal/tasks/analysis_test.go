package tasks

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var analysisNow = time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)

func TestAnalyzeRejectsUnknownType(t *testing.T) {
	_, err := Analyze(nil, "vibes", analysisNow)
	assert.Error(t, err)
}

func TestAnalyzePriorityDistribution(t *testing.T) {
	list := []Task{
		{Priority: RankHigh, Importance: RankHigh},
		{Priority: RankHigh, Importance: RankLow},
		{Priority: RankMedium, Importance: RankMedium},
		{Priority: RankLow, Importance: RankHigh, Completed: true},
	}

	a, err := Analyze(list, AnalysisPriority, analysisNow)
	require.NoError(t, err)
	require.NotNil(t, a.Priority)
	assert.Nil(t, a.Workload)
	assert.Nil(t, a.Timeline)

	p := a.Priority
	assert.Equal(t, 2, p.Priority[RankHigh].Count)
	assert.Equal(t, 50.0, p.Priority[RankHigh].Percent)
	assert.Equal(t, 1, p.Priority[RankMedium].Count)
	assert.Equal(t, 25.0, p.Priority[RankLow].Percent)

	// completed tasks never count as urgent
	assert.Equal(t, 1, p.UrgentImportant)
	require.NotEmpty(t, p.Recommendations)
}

func TestAnalyzePriorityEmptyList(t *testing.T) {
	a, err := Analyze(nil, AnalysisPriority, analysisNow)
	require.NoError(t, err)

	p := a.Priority
	assert.Equal(t, 0, p.Priority[RankHigh].Count)
	assert.Equal(t, 0.0, p.Priority[RankHigh].Percent)
	require.NotEmpty(t, p.Recommendations)
	assert.Contains(t, p.Recommendations[0], "No tasks yet")
}

func TestAnalyzePriorityPercentRounding(t *testing.T) {
	list := []Task{
		{Priority: RankHigh},
		{Priority: RankMedium},
		{Priority: RankLow},
	}
	a, err := Analyze(list, AnalysisPriority, analysisNow)
	require.NoError(t, err)
	assert.Equal(t, 33.3, a.Priority.Priority[RankHigh].Percent)
}

func TestAnalyzeWorkloadCounts(t *testing.T) {
	list := []Task{
		{Completed: true},
		{DueDate: "2026-06-01"}, // overdue
		{DueDate: "2026-06-20"},
		{},
	}

	a, err := Analyze(list, AnalysisWorkload, analysisNow)
	require.NoError(t, err)

	wl := a.Workload
	assert.Equal(t, 4, wl.Total)
	assert.Equal(t, 1, wl.Completed)
	assert.Equal(t, 3, wl.Open)
	assert.Equal(t, 1, wl.Overdue)
	assert.Equal(t, "light", wl.Status)
}

func TestAnalyzeWorkloadStatusThresholds(t *testing.T) {
	open := func(n int) []Task {
		list := make([]Task, n)
		return list
	}

	cases := []struct {
		name string
		list []Task
		want string
	}{
		{"six open is light", open(6), "light"},
		{"seven open is moderate", open(7), "moderate"},
		{"fifteen open is heavy", open(15), "heavy"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			a, err := Analyze(tc.list, AnalysisWorkload, analysisNow)
			require.NoError(t, err)
			assert.Equal(t, tc.want, a.Workload.Status)
		})
	}

	// five overdue tasks force heavy regardless of open count
	overdue := []Task{
		{DueDate: "2026-06-01"}, {DueDate: "2026-06-02"}, {DueDate: "2026-06-03"},
		{DueDate: "2026-06-04"}, {DueDate: "2026-06-05"},
	}
	a, err := Analyze(overdue, AnalysisWorkload, analysisNow)
	require.NoError(t, err)
	assert.Equal(t, "heavy", a.Workload.Status)
}

func TestAnalyzeTimelineBuckets(t *testing.T) {
	list := []Task{
		{DueDate: "2026-06-10"},                  // overdue
		{DueDate: "2026-06-15"},                  // today
		{DueDate: "2026-06-20"},                  // this week
		{DueDate: "2026-07-01"},                  // this month
		{DueDate: "2026-09-01"},                  // beyond every bucket
		{},                                       // no due date
		{DueDate: "2026-06-01", Completed: true}, // completed tasks are skipped
	}

	a, err := Analyze(list, AnalysisTimeline, analysisNow)
	require.NoError(t, err)

	tl := a.Timeline
	assert.Equal(t, 1, tl.Overdue)
	assert.Equal(t, 1, tl.DueToday)
	assert.Equal(t, 2, tl.DueThisWeek, "today counts toward the week")
	assert.Equal(t, 3, tl.DueThisMonth, "week tasks count toward the month")
	assert.Equal(t, 1, tl.NoDueDate)
}
