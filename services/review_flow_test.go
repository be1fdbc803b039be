package services

import (
	"database/sql/driver"
	"regexp"
	"testing"
	"time"

	"research-cell-api/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	assignmentByIDQuery = regexp.MustCompile(
		"SELECT \\* FROM `reviewer_assignments` WHERE assignment_id = \\?")
	lockPaperQuery = regexp.MustCompile(
		"SELECT \\* FROM `papers` WHERE submission_id = \\? AND deleted_at IS NULL.*FOR UPDATE")
	// Review existence and decision reads are keyed by review round.
	reviewCountQuery = regexp.MustCompile(
		"SELECT count\\(\\*\\) FROM `reviews` WHERE assignment_id = \\? AND review_round = \\?")
	insertReviewQuery = regexp.MustCompile(
		"INSERT INTO `reviews`")
	assignmentIDsQuery = regexp.MustCompile(
		"SELECT `assignment_id` FROM `reviewer_assignments` WHERE submission_type = \\? AND submission_id = \\?")
	roundDecisionsQuery = regexp.MustCompile(
		"SELECT `decision` FROM `reviews` WHERE assignment_id IN \\(\\?,\\?\\) AND review_round = \\?")
	reviewerByIDQuery = regexp.MustCompile(
		"SELECT \\* FROM `users` WHERE user_id = \\? AND delete_at IS NULL")
)

func assignmentStep() *queryStep {
	return &queryStep{
		kind:    kindQuery,
		pattern: assignmentByIDQuery,
		columns: []string{"assignment_id", "submission_type", "submission_id", "reviewer_id", "assigned_by", "assigned_at"},
		rows: [][]driver.Value{
			{int64(1), "paper", int64(10), int64(7), int64(2), time.Now()},
		},
	}
}

func lockedPaperStep(status string, round int64) *queryStep {
	return &queryStep{
		kind:    kindQuery,
		pattern: lockPaperQuery,
		columns: []string{"submission_id", "team_id", "title", "status", "review_round", "created_by"},
		rows: [][]driver.Value{
			{int64(10), int64(5), "Edge Caching Strategies", status, round, int64(3)},
		},
	}
}

// A submission in its second round has a round-1 review on record for
// another assignment. Both the duplicate check and the decision read must be
// keyed to round 2, so that review never counts and the round stays open.
func TestSubmitReviewSecondRoundIgnoresEarlierRounds(t *testing.T) {
	state := withScriptedDB(t, []*queryStep{
		assignmentStep(),
		lockedPaperStep(models.SubmissionStatusUnderReview, 2),
		{
			kind:    kindQuery,
			pattern: reviewCountQuery,
			args:    []driver.Value{int64(1), int64(2)},
			columns: []string{"count"},
			rows:    [][]driver.Value{{int64(0)}},
		},
		{
			kind:    kindExec,
			pattern: insertReviewQuery,
		},
		{
			kind:    kindQuery,
			pattern: assignmentIDsQuery,
			args:    []driver.Value{"paper", int64(10)},
			columns: []string{"assignment_id"},
			rows:    [][]driver.Value{{int64(1)}, {int64(2)}},
		},
		{
			kind:    kindQuery,
			pattern: roundDecisionsQuery,
			args:    []driver.Value{int64(1), int64(2), int64(2)},
			columns: []string{"decision"},
			// Only the review just written; assignment 2's round-1 review
			// is filtered out by the round predicate.
			rows: [][]driver.Value{{models.ReviewDecisionAccept}},
		},
	})

	review, aggregated, err := SubmitReview(1, 7, models.ReviewDecisionAccept, "looks solid")
	require.NoError(t, err)
	assert.Equal(t, 2, review.ReviewRound)
	assert.Nil(t, aggregated, "one of two round-2 reviews must not decide the round")

	assert.NoError(t, state.verifyComplete())
}

func TestSubmitReviewRejectsSecondReviewInSameRound(t *testing.T) {
	state := withScriptedDB(t, []*queryStep{
		assignmentStep(),
		lockedPaperStep(models.SubmissionStatusUnderReview, 2),
		{
			kind:    kindQuery,
			pattern: reviewCountQuery,
			args:    []driver.Value{int64(1), int64(2)},
			columns: []string{"count"},
			rows:    [][]driver.Value{{int64(1)}},
		},
	})

	_, _, err := SubmitReview(1, 7, models.ReviewDecisionReject, "changed my mind")
	require.Error(t, err)
	assert.Equal(t, KindDuplicateReview, KindOf(err))

	assert.NoError(t, state.verifyComplete())
}

func TestSubmitReviewRejectsForeignAssignment(t *testing.T) {
	state := withScriptedDB(t, []*queryStep{
		assignmentStep(),
	})

	_, _, err := SubmitReview(1, 8, models.ReviewDecisionAccept, "")
	require.Error(t, err)
	assert.Equal(t, KindUnauthorized, KindOf(err))

	assert.NoError(t, state.verifyComplete())
}

func TestAssignReviewerRefusesTerminalSubmission(t *testing.T) {
	state := withScriptedDB(t, []*queryStep{
		{
			kind:    kindQuery,
			pattern: reviewerByIDQuery,
			columns: []string{"user_id", "role", "is_verified"},
			rows:    [][]driver.Value{{int64(9), models.RoleReviewer, true}},
		},
		lockedPaperStep(models.SubmissionStatusAccepted, 1),
	})

	_, err := AssignReviewer(models.SubmissionTypePaper, 10, 9, 1)
	require.Error(t, err)
	assert.Equal(t, KindInvalidState, KindOf(err))

	assert.NoError(t, state.verifyComplete())
}
