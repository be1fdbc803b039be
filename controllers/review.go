package controllers

import (
	"net/http"

	"research-cell-api/config"
	"research-cell-api/models"
	"research-cell-api/services"

	"github.com/gin-gonic/gin"
)

// AssignPaperReviewer attaches a reviewer to a paper. Admin only.
func AssignPaperReviewer(c *gin.Context) {
	assignReviewer(c, models.SubmissionTypePaper)
}

// AssignProposalReviewer attaches a reviewer to a proposal. Admin only.
func AssignProposalReviewer(c *gin.Context) {
	assignReviewer(c, models.SubmissionTypeProposal)
}

func assignReviewer(c *gin.Context, submissionType string) {
	submissionID, ok := pathID(c, "id")
	if !ok {
		return
	}
	adminID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req struct {
		ReviewerID int `json:"reviewer_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	assignment, err := services.AssignReviewer(submissionType, submissionID, req.ReviewerID, adminID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":    true,
		"assignment": assignment,
	})
}

type assignmentListItem struct {
	models.ReviewerAssignment
	Title       string `json:"title"`
	Status      string `json:"status"`
	ReviewRound int    `json:"review_round"`
	Reviewed    bool   `json:"reviewed"`
}

// GetMyAssignments returns the caller's review queue with the current state
// of each submission.
func GetMyAssignments(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var assignments []models.ReviewerAssignment
	err := config.DB.Where("reviewer_id = ?", userID).
		Order("assigned_at DESC").
		Find(&assignments).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch assignments"})
		return
	}

	items := make([]assignmentListItem, 0, len(assignments))
	for _, assignment := range assignments {
		var row struct {
			Title       string
			Status      string
			ReviewRound int
		}
		err := config.DB.Table(models.SubmissionTableName(assignment.SubmissionType)).
			Select("title, status, review_round").
			Where("submission_id = ? AND deleted_at IS NULL", assignment.SubmissionID).
			Take(&row).Error
		if err != nil {
			continue
		}

		var reviewed int64
		config.DB.Model(&models.Review{}).
			Where("assignment_id = ? AND review_round = ?", assignment.AssignmentID, row.ReviewRound).
			Count(&reviewed)

		items = append(items, assignmentListItem{
			ReviewerAssignment: assignment,
			Title:              row.Title,
			Status:             row.Status,
			ReviewRound:        row.ReviewRound,
			Reviewed:           reviewed > 0,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"assignments": items,
		"total":       len(items),
	})
}

// SubmitReview records the caller's decision on an assignment. When the
// round completes, the response carries the aggregated decision.
func SubmitReview(c *gin.Context) {
	assignmentID, ok := pathID(c, "id")
	if !ok {
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req struct {
		Decision string `json:"decision" binding:"required"`
		Comments string `json:"comments"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	review, aggregated, err := services.SubmitReview(assignmentID, userID, req.Decision, req.Comments)
	if err != nil {
		respondError(c, err)
		return
	}

	response := gin.H{
		"success": true,
		"review":  review,
	}
	if aggregated != nil {
		response["aggregated_decision"] = aggregated
	}
	c.JSON(http.StatusCreated, response)
}
