package services

import (
	"testing"

	"research-cell-api/models"

	"github.com/stretchr/testify/assert"
)

func TestComputeAggregatedDecision(t *testing.T) {
	tests := []struct {
		name      string
		decisions []string
		want      string
	}{
		{
			name:      "all accept",
			decisions: []string{models.ReviewDecisionAccept, models.ReviewDecisionAccept},
			want:      models.ReviewDecisionAccept,
		},
		{
			name:      "any reject wins",
			decisions: []string{models.ReviewDecisionAccept, models.ReviewDecisionReject},
			want:      models.ReviewDecisionReject,
		},
		{
			name:      "reject beats revisions",
			decisions: []string{models.ReviewDecisionMajorRevisions, models.ReviewDecisionReject, models.ReviewDecisionMinorRevisions},
			want:      models.ReviewDecisionReject,
		},
		{
			name:      "major revisions beat minor",
			decisions: []string{models.ReviewDecisionMinorRevisions, models.ReviewDecisionMajorRevisions, models.ReviewDecisionAccept},
			want:      models.ReviewDecisionMajorRevisions,
		},
		{
			name:      "minor revisions beat accept",
			decisions: []string{models.ReviewDecisionAccept, models.ReviewDecisionMinorRevisions},
			want:      models.ReviewDecisionMinorRevisions,
		},
		{
			name:      "no reviews no decision",
			decisions: nil,
			want:      "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ComputeAggregatedDecision(tt.decisions))
		})
	}
}

func TestStatusForAggregatedDecision(t *testing.T) {
	assert.Equal(t, models.SubmissionStatusAccepted, StatusForAggregatedDecision(models.ReviewDecisionAccept))
	assert.Equal(t, models.SubmissionStatusRejected, StatusForAggregatedDecision(models.ReviewDecisionReject))
	assert.Equal(t, models.SubmissionStatusRevisionsRequested, StatusForAggregatedDecision(models.ReviewDecisionMinorRevisions))
	assert.Equal(t, models.SubmissionStatusRevisionsRequested, StatusForAggregatedDecision(models.ReviewDecisionMajorRevisions))
	assert.Equal(t, "", StatusForAggregatedDecision("bogus"))
}

func TestIsTerminalStatus(t *testing.T) {
	assert.False(t, IsTerminalStatus(models.SubmissionStatusPending))
	assert.False(t, IsTerminalStatus(models.SubmissionStatusUnderReview))
	assert.False(t, IsTerminalStatus(models.SubmissionStatusRevisionsRequested))
	assert.True(t, IsTerminalStatus(models.SubmissionStatusAccepted))
	assert.True(t, IsTerminalStatus(models.SubmissionStatusRejected))
	assert.True(t, IsTerminalStatus(models.SubmissionStatusCompleted))
}

func TestIsValidReviewDecision(t *testing.T) {
	assert.True(t, IsValidReviewDecision(models.ReviewDecisionAccept))
	assert.True(t, IsValidReviewDecision(models.ReviewDecisionReject))
	assert.True(t, IsValidReviewDecision(models.ReviewDecisionMinorRevisions))
	assert.True(t, IsValidReviewDecision(models.ReviewDecisionMajorRevisions))
	assert.False(t, IsValidReviewDecision("approve"))
	assert.False(t, IsValidReviewDecision(""))
}

func TestCanDeleteSubmission(t *testing.T) {
	// Pending submissions can always be deleted.
	assert.True(t, CanDeleteSubmission(models.SubmissionStatusPending, 0))

	// Under review: only while no review has been submitted this round.
	assert.True(t, CanDeleteSubmission(models.SubmissionStatusUnderReview, 0))
	assert.False(t, CanDeleteSubmission(models.SubmissionStatusUnderReview, 1))

	// Decided submissions are never deletable.
	assert.False(t, CanDeleteSubmission(models.SubmissionStatusAccepted, 0))
	assert.False(t, CanDeleteSubmission(models.SubmissionStatusRejected, 0))
	assert.False(t, CanDeleteSubmission(models.SubmissionStatusRevisionsRequested, 0))
	assert.False(t, CanDeleteSubmission(models.SubmissionStatusCompleted, 0))
}
