package services

import (
	"database/sql/driver"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	assignedCountQuery = regexp.MustCompile(
		"SELECT count\\(\\*\\) FROM `reviewer_assignments` WHERE reviewer_id = \\?")
	// The completed count collapses multi-round reviews to one per assignment.
	completedCountQuery = regexp.MustCompile(
		"SELECT COUNT\\(DISTINCT.+FROM `reviews` JOIN reviewer_assignments " +
			"ON reviewer_assignments\\.assignment_id = reviews\\.assignment_id " +
			"WHERE reviewer_assignments\\.reviewer_id = \\?")
	// The workload report counts distinct assignments and joins only each
	// assignment's latest review round.
	workloadQuery = regexp.MustCompile(
		"COUNT\\(DISTINCT reviewer_assignments\\.assignment_id\\) AS assigned.+" +
			"COUNT\\(DISTINCT reviews\\.assignment_id\\) AS completed.+" +
			"LEFT JOIN reviews ON reviews\\.assignment_id = reviewer_assignments\\.assignment_id " +
			"AND reviews\\.review_round = \\(SELECT MAX\\(r\\.review_round\\) FROM reviews r " +
			"WHERE r\\.assignment_id = reviewer_assignments\\.assignment_id\\)")
)

func TestReviewerCountsCollapseMultiRoundReviews(t *testing.T) {
	// One of the reviewer's two assignments went through a revision cycle,
	// so its reviews table rows span two rounds. Completed must still be an
	// assignment count, keeping assigned - completed non-negative.
	state := withScriptedDB(t, []*queryStep{
		{
			kind:    kindQuery,
			pattern: assignedCountQuery,
			args:    []driver.Value{int64(7)},
			columns: []string{"count"},
			rows:    [][]driver.Value{{int64(2)}},
		},
		{
			kind:    kindQuery,
			pattern: completedCountQuery,
			args:    []driver.Value{int64(7)},
			columns: []string{"count"},
			rows:    [][]driver.Value{{int64(1)}},
		},
	})

	assigned, completed, err := ReviewerCounts(7)
	require.NoError(t, err)
	assert.Equal(t, int64(2), assigned)
	assert.Equal(t, int64(1), completed)
	assert.GreaterOrEqual(t, assigned-completed, int64(0))

	assert.NoError(t, state.verifyComplete())
}

func TestReviewerWorkloadsUseLatestRoundOnly(t *testing.T) {
	turnaround := 12.5
	state := withScriptedDB(t, []*queryStep{
		{
			kind:    kindQuery,
			pattern: workloadQuery,
			args:    []driver.Value{},
			columns: []string{"reviewer_id", "reviewer_name", "assigned", "completed", "avg_turnaround_hours"},
			rows: [][]driver.Value{
				{int64(7), "Ada Lovelace", int64(3), int64(2), turnaround},
				{int64(9), "Grace Hopper", int64(1), int64(0), nil},
			},
		},
	})

	rows, err := ReviewerWorkloads()
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, 7, rows[0].ReviewerID)
	assert.Equal(t, "Ada Lovelace", rows[0].ReviewerName)
	assert.Equal(t, int64(3), rows[0].Assigned)
	assert.Equal(t, int64(2), rows[0].Completed)
	require.NotNil(t, rows[0].AvgTurnaroundHours)
	assert.InDelta(t, 12.5, *rows[0].AvgTurnaroundHours, 0.001)

	assert.Equal(t, int64(1), rows[1].Assigned)
	assert.Nil(t, rows[1].AvgTurnaroundHours)

	assert.NoError(t, state.verifyComplete())
}
