package models

import "time"

// Reviewer decisions on a single assignment.
const (
	ReviewDecisionAccept         = "accept"
	ReviewDecisionReject         = "reject"
	ReviewDecisionMinorRevisions = "minor_revisions"
	ReviewDecisionMajorRevisions = "major_revisions"
)

// ReviewerAssignment attaches a reviewer to a paper or proposal. At least one
// assignment must exist before a submission enters review.
type ReviewerAssignment struct {
	AssignmentID   int       `gorm:"primaryKey;column:assignment_id" json:"assignment_id"`
	SubmissionType string    `gorm:"column:submission_type" json:"submission_type"`
	SubmissionID   int       `gorm:"column:submission_id" json:"submission_id"`
	ReviewerID     int       `gorm:"column:reviewer_id" json:"reviewer_id"`
	AssignedBy     int       `gorm:"column:assigned_by" json:"assigned_by"`
	AssignedAt     time.Time `gorm:"column:assigned_at" json:"assigned_at"`

	Reviewer *User `gorm:"foreignKey:ReviewerID" json:"reviewer,omitempty"`
}

// Review records one reviewer decision per assignment and review round.
type Review struct {
	ReviewID     int       `gorm:"primaryKey;column:review_id" json:"review_id"`
	AssignmentID int       `gorm:"column:assignment_id" json:"assignment_id"`
	ReviewRound  int       `gorm:"column:review_round" json:"review_round"`
	Decision     string    `gorm:"column:decision" json:"decision"`
	Comments     string    `gorm:"column:comments" json:"comments"`
	SubmittedAt  time.Time `gorm:"column:submitted_at" json:"submitted_at"`

	Assignment *ReviewerAssignment `gorm:"foreignKey:AssignmentID" json:"assignment,omitempty"`
}

// AggregatedDecision is the single outcome computed once every assigned
// reviewer has decided. It is derived from the review set and rewritten by
// aggregation; it carries no independent state.
type AggregatedDecision struct {
	DecisionID     int       `gorm:"primaryKey;column:decision_id" json:"decision_id"`
	SubmissionType string    `gorm:"column:submission_type" json:"submission_type"`
	SubmissionID   int       `gorm:"column:submission_id" json:"submission_id"`
	ReviewRound    int       `gorm:"column:review_round" json:"review_round"`
	Decision       string    `gorm:"column:decision" json:"decision"`
	DecidedAt      time.Time `gorm:"column:decided_at" json:"decided_at"`
}

// SubmissionStatusHistory tracks historical status changes for submissions.
type SubmissionStatusHistory struct {
	HistoryID      int       `gorm:"primaryKey;column:history_id" json:"history_id"`
	SubmissionType string    `gorm:"column:submission_type" json:"submission_type"`
	SubmissionID   int       `gorm:"column:submission_id" json:"submission_id"`
	OldStatus      *string   `gorm:"column:old_status" json:"old_status"`
	NewStatus      string    `gorm:"column:new_status" json:"new_status"`
	ChangedBy      int       `gorm:"column:changed_by" json:"changed_by"`
	Reason         *string   `gorm:"column:reason" json:"reason"`
	CreatedAt      time.Time `gorm:"column:created_at" json:"created_at"`
}

// TableName overrides
func (ReviewerAssignment) TableName() string {
	return "reviewer_assignments"
}

func (Review) TableName() string {
	return "reviews"
}

func (AggregatedDecision) TableName() string {
	return "aggregated_decisions"
}

func (SubmissionStatusHistory) TableName() string {
	return "submission_status_history"
}
