package controllers

import (
	"net/http"
	"strconv"
	"time"

	"research-cell-api/config"
	"research-cell-api/models"
	"research-cell-api/services"

	"github.com/gin-gonic/gin"
)

var submissionStatuses = []string{
	models.SubmissionStatusPending,
	models.SubmissionStatusUnderReview,
	models.SubmissionStatusRevisionsRequested,
	models.SubmissionStatusAccepted,
	models.SubmissionStatusRejected,
	models.SubmissionStatusCompleted,
}

// GetDashboardStats returns dashboard statistics scoped to the caller's
// effective role: global for admins, own teams for teachers and students,
// own assignments for reviewers.
func GetDashboardStats(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var stats map[string]interface{}
	switch currentEffectiveRole(c) {
	case models.RoleAdmin:
		stats = getAdminDashboard()
	case models.RoleReviewer:
		stats = getReviewerDashboard(userID)
	default:
		stats = getMemberDashboard(userID)
	}

	if stats == nil {
		stats = make(map[string]interface{})
	}
	stats["current_date"] = time.Now().Format("2006-01-02")

	c.JSON(http.StatusOK, gin.H{"stats": stats})
}

// statusCounts tallies live submissions of one type grouped by status,
// optionally restricted to a set of teams.
func statusCounts(submissionType string, teamIDs []int) map[string]int64 {
	counts := make(map[string]int64, len(submissionStatuses))
	for _, status := range submissionStatuses {
		query := config.DB.Table(models.SubmissionTableName(submissionType)).
			Where("status = ? AND deleted_at IS NULL", status)
		if teamIDs != nil {
			query = query.Where("team_id IN ?", teamIDs)
		}
		var count int64
		query.Count(&count)
		counts[status] = count
	}
	return counts
}

func getAdminDashboard() map[string]interface{} {
	stats := make(map[string]interface{})

	var totalUsers, totalTeams int64
	config.DB.Model(&models.User{}).Where("delete_at IS NULL").Count(&totalUsers)
	config.DB.Model(&models.Team{}).Where("delete_at IS NULL").Count(&totalTeams)

	stats["total_users"] = totalUsers
	stats["total_teams"] = totalTeams
	stats["papers_by_status"] = statusCounts(models.SubmissionTypePaper, nil)
	stats["proposals_by_status"] = statusCounts(models.SubmissionTypeProposal, nil)

	var pendingApplications int64
	config.DB.Model(&models.TeamApplication{}).
		Where("status = ?", models.ApplicationStatusPending).
		Count(&pendingApplications)
	stats["pending_applications"] = pendingApplications

	return stats
}

func getMemberDashboard(userID int) map[string]interface{} {
	stats := make(map[string]interface{})

	var teamIDs []int
	config.DB.Model(&models.TeamMember{}).
		Where("user_id = ?", userID).
		Pluck("team_id", &teamIDs)
	if teamIDs == nil {
		teamIDs = []int{}
	}

	stats["team_count"] = len(teamIDs)
	if len(teamIDs) == 0 {
		stats["papers_by_status"] = map[string]int64{}
		stats["proposals_by_status"] = map[string]int64{}
		return stats
	}

	stats["papers_by_status"] = statusCounts(models.SubmissionTypePaper, teamIDs)
	stats["proposals_by_status"] = statusCounts(models.SubmissionTypeProposal, teamIDs)
	return stats
}

func getReviewerDashboard(userID int) map[string]interface{} {
	stats := make(map[string]interface{})

	assigned, completed, err := services.ReviewerCounts(userID)
	if err != nil {
		return stats
	}

	stats["assigned"] = assigned
	stats["completed"] = completed
	stats["outstanding"] = assigned - completed
	return stats
}

// GetAdminStats returns the global rollup for the admin dashboard.
func GetAdminStats(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"stats": getAdminDashboard()})
}

type trendBucket struct {
	Month string `json:"month"`
	Count int64  `json:"count"`
}

// GetSubmissionTrends returns time-bucketed submission counts per month for
// the last N months (default 6), split by submission type.
func GetSubmissionTrends(c *gin.Context) {
	months := 6
	if raw := c.Query("months"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 || parsed > 36 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid months parameter"})
			return
		}
		months = parsed
	}

	now := time.Now()
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).
		AddDate(0, -(months - 1), 0)

	trends := make(map[string][]trendBucket, 2)
	for _, submissionType := range []string{models.SubmissionTypePaper, models.SubmissionTypeProposal} {
		var rows []trendBucket
		err := config.DB.Table(models.SubmissionTableName(submissionType)).
			Select("DATE_FORMAT(created_at, '%Y-%m') AS month, COUNT(*) AS count").
			Where("created_at >= ? AND deleted_at IS NULL", start).
			Group("month").
			Order("month ASC").
			Scan(&rows).Error
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute trends"})
			return
		}
		trends[submissionType+"s"] = fillTrendBuckets(rows, start, months)
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"months":  months,
		"trends":  trends,
	})
}

// fillTrendBuckets pads months with no submissions so charts get a
// continuous series.
func fillTrendBuckets(rows []trendBucket, start time.Time, months int) []trendBucket {
	byMonth := make(map[string]int64, len(rows))
	for _, row := range rows {
		byMonth[row.Month] = row.Count
	}

	buckets := make([]trendBucket, 0, months)
	for i := 0; i < months; i++ {
		month := start.AddDate(0, i, 0).Format("2006-01")
		buckets = append(buckets, trendBucket{Month: month, Count: byMonth[month]})
	}
	return buckets
}

// GetStatusDistribution returns global submission counts per status.
func GetStatusDistribution(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"papers":    statusCounts(models.SubmissionTypePaper, nil),
		"proposals": statusCounts(models.SubmissionTypeProposal, nil),
	})
}

// GetReviewerWorkload reports assigned vs completed counts and the average
// turnaround per reviewer.
func GetReviewerWorkload(c *gin.Context) {
	rows, err := services.ReviewerWorkloads()
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"workload": rows,
		"total":    len(rows),
	})
}
