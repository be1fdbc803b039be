package services

import (
	"research-cell-api/config"
	"research-cell-api/models"
)

// ReviewerCounts returns how many submissions are assigned to a reviewer and
// how many of those assignments carry at least one review. An assignment
// reviewed across several rounds counts once, so assigned - completed never
// goes negative.
func ReviewerCounts(reviewerID int) (assigned, completed int64, err error) {
	err = config.DB.Model(&models.ReviewerAssignment{}).
		Where("reviewer_id = ?", reviewerID).
		Count(&assigned).Error
	if err != nil {
		return 0, 0, WrapError(KindInternal, "Failed to count assignments", err)
	}

	err = config.DB.Model(&models.Review{}).
		Joins("JOIN reviewer_assignments ON reviewer_assignments.assignment_id = reviews.assignment_id").
		Where("reviewer_assignments.reviewer_id = ?", reviewerID).
		Distinct("reviews.assignment_id").
		Count(&completed).Error
	if err != nil {
		return 0, 0, WrapError(KindInternal, "Failed to count completed reviews", err)
	}
	return assigned, completed, nil
}

// ReviewerWorkload is one row of the per-reviewer workload report.
type ReviewerWorkload struct {
	ReviewerID         int      `json:"reviewer_id"`
	ReviewerName       string   `json:"reviewer_name"`
	Assigned           int64    `json:"assigned"`
	Completed          int64    `json:"completed"`
	AvgTurnaroundHours *float64 `json:"avg_turnaround_hours"`
}

// ReviewerWorkloads reports assigned vs completed counts and the average
// turnaround per reviewer. The review join is restricted to each
// assignment's latest round so revision cycles neither inflate the counts
// nor drag earlier rounds into the turnaround average.
func ReviewerWorkloads() ([]ReviewerWorkload, error) {
	var rows []ReviewerWorkload
	err := config.DB.Table("reviewer_assignments").
		Select("reviewer_assignments.reviewer_id AS reviewer_id, " +
			"CONCAT(users.user_fname, ' ', users.user_lname) AS reviewer_name, " +
			"COUNT(DISTINCT reviewer_assignments.assignment_id) AS assigned, " +
			"COUNT(DISTINCT reviews.assignment_id) AS completed, " +
			"AVG(TIMESTAMPDIFF(HOUR, reviewer_assignments.assigned_at, reviews.submitted_at)) AS avg_turnaround_hours").
		Joins("JOIN users ON users.user_id = reviewer_assignments.reviewer_id").
		Joins("LEFT JOIN reviews ON reviews.assignment_id = reviewer_assignments.assignment_id " +
			"AND reviews.review_round = (SELECT MAX(r.review_round) FROM reviews r WHERE r.assignment_id = reviewer_assignments.assignment_id)").
		Group("reviewer_assignments.reviewer_id, users.user_fname, users.user_lname").
		Order("assigned DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, WrapError(KindInternal, "Failed to compute reviewer workload", err)
	}
	return rows, nil
}
