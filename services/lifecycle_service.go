package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"research-cell-api/config"
	"research-cell-api/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// submissionRow is the shared shape of the papers and proposals tables so
// the lifecycle engine runs one machine over both.
type submissionRow struct {
	SubmissionID int
	TeamID       int
	Title        string
	Status       string
	ReviewRound  int
	CreatedBy    int
}

// IsTerminalStatus reports whether a status refuses further review actions.
func IsTerminalStatus(status string) bool {
	switch status {
	case models.SubmissionStatusAccepted, models.SubmissionStatusRejected, models.SubmissionStatusCompleted:
		return true
	}
	return false
}

// IsValidReviewDecision reports whether a reviewer decision value is known.
func IsValidReviewDecision(decision string) bool {
	switch decision {
	case models.ReviewDecisionAccept, models.ReviewDecisionReject,
		models.ReviewDecisionMinorRevisions, models.ReviewDecisionMajorRevisions:
		return true
	}
	return false
}

// ComputeAggregatedDecision combines a complete round of reviewer decisions
// into one outcome: any reject wins, then the most severe revision request
// (major over minor), then accept. Empty input yields no decision.
func ComputeAggregatedDecision(decisions []string) string {
	if len(decisions) == 0 {
		return ""
	}

	hasMajor := false
	hasMinor := false
	for _, decision := range decisions {
		switch decision {
		case models.ReviewDecisionReject:
			return models.ReviewDecisionReject
		case models.ReviewDecisionMajorRevisions:
			hasMajor = true
		case models.ReviewDecisionMinorRevisions:
			hasMinor = true
		}
	}
	if hasMajor {
		return models.ReviewDecisionMajorRevisions
	}
	if hasMinor {
		return models.ReviewDecisionMinorRevisions
	}
	return models.ReviewDecisionAccept
}

// StatusForAggregatedDecision maps an aggregated decision to the submission
// status it produces. Revision requests do not terminate the lifecycle; the
// submission waits in revisions_requested until the team resubmits.
func StatusForAggregatedDecision(decision string) string {
	switch decision {
	case models.ReviewDecisionAccept:
		return models.SubmissionStatusAccepted
	case models.ReviewDecisionReject:
		return models.SubmissionStatusRejected
	case models.ReviewDecisionMinorRevisions, models.ReviewDecisionMajorRevisions:
		return models.SubmissionStatusRevisionsRequested
	}
	return ""
}

// CanDeleteSubmission reports whether a submission may still be removed:
// pending, or under review with no review submitted in the current round.
func CanDeleteSubmission(status string, currentRoundReviews int64) bool {
	if status == models.SubmissionStatusPending {
		return true
	}
	return status == models.SubmissionStatusUnderReview && currentRoundReviews == 0
}

func validateSubmissionType(submissionType string) error {
	if submissionType != models.SubmissionTypePaper && submissionType != models.SubmissionTypeProposal {
		return NewError(KindValidation, "Invalid submission type")
	}
	return nil
}

// lockSubmission loads the submission row FOR UPDATE so concurrent review
// submissions serialize on the same row.
func lockSubmission(tx *gorm.DB, submissionType string, submissionID int) (*submissionRow, error) {
	var row submissionRow
	err := tx.Table(models.SubmissionTableName(submissionType)).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("submission_id = ? AND deleted_at IS NULL", submissionID).
		Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewError(KindNotFound, "Submission not found")
		}
		return nil, WrapError(KindInternal, "Failed to load submission", err)
	}
	return &row, nil
}

func setSubmissionStatus(tx *gorm.DB, submissionType string, row *submissionRow, newStatus string, changedBy int, reason string) error {
	now := time.Now()
	err := tx.Table(models.SubmissionTableName(submissionType)).
		Where("submission_id = ?", row.SubmissionID).
		Updates(map[string]interface{}{
			"status":     newStatus,
			"updated_at": now,
		}).Error
	if err != nil {
		return WrapError(KindInternal, "Failed to update submission status", err)
	}

	oldStatus := row.Status
	history := models.SubmissionStatusHistory{
		SubmissionType: submissionType,
		SubmissionID:   row.SubmissionID,
		OldStatus:      &oldStatus,
		NewStatus:      newStatus,
		ChangedBy:      changedBy,
		Reason:         &reason,
		CreatedAt:      now,
	}
	if err := tx.Create(&history).Error; err != nil {
		return WrapError(KindInternal, "Failed to record status history", err)
	}

	row.Status = newStatus
	return nil
}

// teamMemberRole returns the caller's role within a team, or "" for
// non-members.
func teamMemberRole(tx *gorm.DB, teamID, userID int) (string, error) {
	var member models.TeamMember
	err := tx.Where("team_id = ? AND user_id = ?", teamID, userID).First(&member).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", WrapError(KindInternal, "Failed to load team membership", err)
	}
	return member.RoleInTeam, nil
}

func requireOwnerOrLead(tx *gorm.DB, row *submissionRow, userID int) error {
	if row.CreatedBy == userID {
		return nil
	}
	role, err := teamMemberRole(tx, row.TeamID, userID)
	if err != nil {
		return err
	}
	if role != models.TeamRoleLead {
		return NewError(KindUnauthorized, "Only the submission owner or team lead may do this")
	}
	return nil
}

// AssignReviewer attaches a reviewer to a submission and moves a pending
// submission into review. Terminal submissions refuse new assignments.
func AssignReviewer(submissionType string, submissionID, reviewerID, assignedBy int) (*models.ReviewerAssignment, error) {
	if err := validateSubmissionType(submissionType); err != nil {
		return nil, err
	}

	var reviewer models.User
	err := config.DB.Where("user_id = ? AND delete_at IS NULL", reviewerID).First(&reviewer).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewError(KindNotFound, "Reviewer not found")
		}
		return nil, WrapError(KindInternal, "Failed to load reviewer", err)
	}
	if reviewer.Role != models.RoleReviewer && !reviewer.HasReviewerCapability {
		return nil, NewError(KindValidation, "User does not hold reviewer capability")
	}

	assignment := models.ReviewerAssignment{
		SubmissionType: submissionType,
		SubmissionID:   submissionID,
		ReviewerID:     reviewerID,
		AssignedBy:     assignedBy,
		AssignedAt:     time.Now(),
	}

	err = config.DB.Transaction(func(tx *gorm.DB) error {
		row, err := lockSubmission(tx, submissionType, submissionID)
		if err != nil {
			return err
		}
		if IsTerminalStatus(row.Status) {
			return NewError(KindInvalidState, fmt.Sprintf("Cannot assign reviewer to a %s submission", row.Status))
		}

		var existing int64
		if err := tx.Model(&models.ReviewerAssignment{}).
			Where("submission_type = ? AND submission_id = ? AND reviewer_id = ?", submissionType, submissionID, reviewerID).
			Count(&existing).Error; err != nil {
			return WrapError(KindInternal, "Failed to check existing assignments", err)
		}
		if existing > 0 {
			return NewError(KindDuplicateAssignment, "Reviewer is already assigned to this submission")
		}

		if err := tx.Create(&assignment).Error; err != nil {
			return WrapError(KindInternal, "Failed to create assignment", err)
		}

		if row.Status == models.SubmissionStatusPending {
			if err := setSubmissionStatus(tx, submissionType, row, models.SubmissionStatusUnderReview, assignedBy, "reviewer assigned"); err != nil {
				return err
			}
		}

		return CreateNotification(tx, reviewerID, "info", "New review assignment",
			fmt.Sprintf("You have been assigned to review %s \"%s\"", submissionType, row.Title),
			&submissionType, &submissionID)
	})
	if err != nil {
		return nil, err
	}
	return &assignment, nil
}

// SubmitReview records one reviewer decision. When the review completes the
// current round, the aggregated decision is computed and the status
// transition applied inside the same transaction.
func SubmitReview(assignmentID, reviewerID int, decision, comments string) (*models.Review, *models.AggregatedDecision, error) {
	if !IsValidReviewDecision(decision) {
		return nil, nil, NewError(KindValidation, "Invalid review decision")
	}

	var review models.Review
	var aggregated *models.AggregatedDecision
	var decidedTeamID int
	var decidedTitle string
	var decidedType string

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		var assignment models.ReviewerAssignment
		if err := tx.Where("assignment_id = ?", assignmentID).First(&assignment).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return NewError(KindNotFound, "Assignment not found")
			}
			return WrapError(KindInternal, "Failed to load assignment", err)
		}
		if assignment.ReviewerID != reviewerID {
			return NewError(KindUnauthorized, "Assignment belongs to another reviewer")
		}

		row, err := lockSubmission(tx, assignment.SubmissionType, assignment.SubmissionID)
		if err != nil {
			return err
		}
		if IsTerminalStatus(row.Status) {
			return NewError(KindInvalidState, fmt.Sprintf("Submission is already %s", row.Status))
		}
		if row.Status != models.SubmissionStatusUnderReview {
			return NewError(KindInvalidState, "Submission is not under review")
		}

		var existing int64
		if err := tx.Model(&models.Review{}).
			Where("assignment_id = ? AND review_round = ?", assignmentID, row.ReviewRound).
			Count(&existing).Error; err != nil {
			return WrapError(KindInternal, "Failed to check existing reviews", err)
		}
		if existing > 0 {
			return NewError(KindDuplicateReview, "A review was already submitted for this assignment")
		}

		review = models.Review{
			AssignmentID: assignmentID,
			ReviewRound:  row.ReviewRound,
			Decision:     decision,
			Comments:     comments,
			SubmittedAt:  time.Now(),
		}
		if err := tx.Create(&review).Error; err != nil {
			return WrapError(KindInternal, "Failed to create review", err)
		}

		var assignmentIDs []int
		if err := tx.Model(&models.ReviewerAssignment{}).
			Where("submission_type = ? AND submission_id = ?", assignment.SubmissionType, assignment.SubmissionID).
			Pluck("assignment_id", &assignmentIDs).Error; err != nil {
			return WrapError(KindInternal, "Failed to load assignments", err)
		}

		var decisions []string
		if err := tx.Model(&models.Review{}).
			Where("assignment_id IN ? AND review_round = ?", assignmentIDs, row.ReviewRound).
			Pluck("decision", &decisions).Error; err != nil {
			return WrapError(KindInternal, "Failed to load round reviews", err)
		}

		// Partial rounds never decide.
		if len(decisions) < len(assignmentIDs) {
			return nil
		}

		outcome := ComputeAggregatedDecision(decisions)
		record := models.AggregatedDecision{
			SubmissionType: assignment.SubmissionType,
			SubmissionID:   assignment.SubmissionID,
			ReviewRound:    row.ReviewRound,
			Decision:       outcome,
			DecidedAt:      time.Now(),
		}
		if err := tx.Create(&record).Error; err != nil {
			return WrapError(KindInternal, "Failed to record aggregated decision", err)
		}
		aggregated = &record

		newStatus := StatusForAggregatedDecision(outcome)
		if err := setSubmissionStatus(tx, assignment.SubmissionType, row, newStatus, reviewerID, "all reviews submitted"); err != nil {
			return err
		}

		decidedTeamID = row.TeamID
		decidedTitle = row.Title
		decidedType = assignment.SubmissionType

		return notifyTeamLead(tx, row.TeamID, "Review decision",
			fmt.Sprintf("%s \"%s\" received decision: %s", decidedType, row.Title, outcome),
			&decidedType, &assignment.SubmissionID)
	})
	if err != nil {
		return nil, nil, err
	}

	if aggregated != nil {
		go sendDecisionMail(decidedTeamID, decidedType, decidedTitle, aggregated.Decision)
	}
	return &review, aggregated, nil
}

// DeleteSubmission soft deletes a submission that has not gathered any
// review in its current round. Owner or team lead only.
func DeleteSubmission(submissionType string, submissionID, userID int) error {
	if err := validateSubmissionType(submissionType); err != nil {
		return err
	}

	return config.DB.Transaction(func(tx *gorm.DB) error {
		row, err := lockSubmission(tx, submissionType, submissionID)
		if err != nil {
			return err
		}
		if err := requireOwnerOrLead(tx, row, userID); err != nil {
			return err
		}

		var reviewCount int64
		if err := tx.Model(&models.Review{}).
			Joins("JOIN reviewer_assignments ON reviewer_assignments.assignment_id = reviews.assignment_id").
			Where("reviewer_assignments.submission_type = ? AND reviewer_assignments.submission_id = ? AND reviews.review_round = ?",
				submissionType, submissionID, row.ReviewRound).
			Count(&reviewCount).Error; err != nil {
			return WrapError(KindInternal, "Failed to count reviews", err)
		}

		if !CanDeleteSubmission(row.Status, reviewCount) {
			return NewError(KindConflict, "Submission can no longer be deleted")
		}

		now := time.Now()
		err = tx.Table(models.SubmissionTableName(submissionType)).
			Where("submission_id = ?", submissionID).
			Updates(map[string]interface{}{
				"deleted_at": now,
				"updated_at": now,
			}).Error
		if err != nil {
			return WrapError(KindInternal, "Failed to delete submission", err)
		}
		return nil
	})
}

// ResubmitSubmission returns a revisions_requested submission to review for
// a new round. Reviewer assignments carry over; the previous round's reviews
// stay on record but never count toward the new round.
func ResubmitSubmission(submissionType string, submissionID, userID int) error {
	if err := validateSubmissionType(submissionType); err != nil {
		return err
	}

	return config.DB.Transaction(func(tx *gorm.DB) error {
		row, err := lockSubmission(tx, submissionType, submissionID)
		if err != nil {
			return err
		}
		if err := requireOwnerOrLead(tx, row, userID); err != nil {
			return err
		}
		if row.Status != models.SubmissionStatusRevisionsRequested {
			return NewError(KindInvalidState, "Only submissions awaiting revisions can be resubmitted")
		}

		err = tx.Table(models.SubmissionTableName(submissionType)).
			Where("submission_id = ?", submissionID).
			Updates(map[string]interface{}{
				"review_round": row.ReviewRound + 1,
				"updated_at":   time.Now(),
			}).Error
		if err != nil {
			return WrapError(KindInternal, "Failed to start new review round", err)
		}
		row.ReviewRound++

		return setSubmissionStatus(tx, submissionType, row, models.SubmissionStatusUnderReview, userID, "resubmitted after revisions")
	})
}

// CompleteProposal marks an accepted proposal as completed. Lead only;
// papers have no completed state.
func CompleteProposal(submissionID, userID int) error {
	return config.DB.Transaction(func(tx *gorm.DB) error {
		row, err := lockSubmission(tx, models.SubmissionTypeProposal, submissionID)
		if err != nil {
			return err
		}

		role, err := teamMemberRole(tx, row.TeamID, userID)
		if err != nil {
			return err
		}
		if role != models.TeamRoleLead {
			return NewError(KindUnauthorized, "Only the team lead may complete a proposal")
		}
		if row.Status != models.SubmissionStatusAccepted {
			return NewError(KindInvalidState, "Only accepted proposals can be completed")
		}

		return setSubmissionStatus(tx, models.SubmissionTypeProposal, row, models.SubmissionStatusCompleted, userID, "marked completed by team lead")
	})
}

func sendDecisionMail(teamID int, submissionType, title, decision string) {
	var lead models.User
	err := config.DB.
		Joins("JOIN team_members ON team_members.user_id = users.user_id").
		Where("team_members.team_id = ? AND team_members.role_in_team = ?", teamID, models.TeamRoleLead).
		First(&lead).Error
	if err != nil {
		log.Printf("decision mail: failed to resolve team %d lead: %v", teamID, err)
		return
	}

	subject := fmt.Sprintf("Review decision for your %s", submissionType)
	body := fmt.Sprintf("<p>Dear %s,</p><p>The %s <strong>%s</strong> has received the aggregated decision: <strong>%s</strong>.</p>",
		lead.FullName(), submissionType, title, decision)
	if err := config.SendMail([]string{lead.Email}, subject, body); err != nil {
		log.Printf("decision mail: failed to send to %s: %v", lead.Email, err)
	}
}
