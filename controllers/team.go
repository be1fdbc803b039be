package controllers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"research-cell-api/config"
	"research-cell-api/models"
	"research-cell-api/services"
	"research-cell-api/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type teamMemberInput struct {
	UserID     int    `json:"user_id"`
	RoleInTeam string `json:"role_in_team"`
}

// validateMemberInputs checks a member list before any row is written: the
// creator is added as lead automatically, user ids must be unique, only
// researcher/assistant roles can be granted, and the list plus the lead must
// fit max_members. Returns "" when the list is valid.
func validateMemberInputs(members []teamMemberInput, creatorID, maxMembers int) string {
	seen := make(map[int]bool, len(members))
	for _, member := range members {
		if member.UserID == creatorID {
			return "Creator is added automatically as lead"
		}
		if seen[member.UserID] {
			return "Duplicate user in member list"
		}
		seen[member.UserID] = true
		if member.RoleInTeam != models.TeamRoleResearcher && member.RoleInTeam != models.TeamRoleAssistant {
			return "Members may only join as researcher or assistant"
		}
	}
	if len(members)+1 > maxMembers {
		return "Member list exceeds max_members"
	}
	return ""
}

// CreateTeam creates a team from a multipart request carrying the team
// metadata, the member list and the initial proposal document. The creator
// becomes the lead and the proposal starts its lifecycle at pending, all in
// one transaction.
func CreateTeam(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	teamName := utils.SanitizeInput(c.PostForm("team_name"))
	if teamName == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Team name is required"})
		return
	}

	visibility := c.DefaultPostForm("visibility", models.TeamVisibilityPublic)
	if visibility != models.TeamVisibilityPublic && visibility != models.TeamVisibilityPrivate {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Visibility must be public or private"})
		return
	}

	maxMembers, err := strconv.Atoi(c.DefaultPostForm("max_members", "10"))
	if err != nil || maxMembers < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid max_members"})
		return
	}

	domainID, err := strconv.Atoi(c.PostForm("domain_id"))
	if err != nil || domainID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid domain_id"})
		return
	}
	if _, err := services.ResolveDomains([]int{domainID}); err != nil {
		respondError(c, err)
		return
	}

	proposalTitle := utils.SanitizeInput(c.PostForm("proposal_title"))
	if proposalTitle == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Proposal title is required"})
		return
	}
	proposalAbstract := utils.SanitizeInput(c.PostForm("proposal_abstract"))

	var members []teamMemberInput
	if raw := c.PostForm("members"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &members); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid members payload"})
			return
		}
	}
	if msg := validateMemberInputs(members, userID, maxMembers); msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}
	if len(members) > 0 {
		memberIDs := make([]int, 0, len(members))
		for _, member := range members {
			memberIDs = append(memberIDs, member.UserID)
		}
		var known int64
		if err := config.DB.Model(&models.User{}).
			Where("user_id IN ? AND delete_at IS NULL", memberIDs).
			Count(&known).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check member list"})
			return
		}
		if int(known) != len(memberIDs) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown user in member list"})
			return
		}
	}

	file, err := storeUploadedFile(c, "proposal_file", userID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "A proposal file is required"})
		return
	}
	if !file.IsValidDocumentType() {
		cleanupStoredFile(file.StoredPath)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unsupported document type"})
		return
	}

	now := time.Now()
	team := models.Team{
		TeamName:    teamName,
		Description: utils.SanitizeInput(c.PostForm("description")),
		Status:      models.TeamStatusRecruiting,
		Visibility:  visibility,
		MaxMembers:  maxMembers,
		DomainID:    domainID,
		CreatedBy:   userID,
		CreateAt:    now,
	}

	var proposal models.Proposal
	err = config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(file).Error; err != nil {
			return err
		}
		if err := tx.Create(&team).Error; err != nil {
			return err
		}

		lead := models.TeamMember{TeamID: team.TeamID, UserID: userID, RoleInTeam: models.TeamRoleLead, JoinedAt: now}
		if err := tx.Create(&lead).Error; err != nil {
			return err
		}
		for _, member := range members {
			row := models.TeamMember{TeamID: team.TeamID, UserID: member.UserID, RoleInTeam: member.RoleInTeam, JoinedAt: now}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
		}

		proposal = models.Proposal{
			TeamID:      team.TeamID,
			Title:       proposalTitle,
			Abstract:    proposalAbstract,
			FileID:      file.FileID,
			Status:      models.SubmissionStatusPending,
			ReviewRound: 1,
			CreatedBy:   userID,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := tx.Create(&proposal).Error; err != nil {
			return err
		}

		history := models.SubmissionStatusHistory{
			SubmissionType: models.SubmissionTypeProposal,
			SubmissionID:   proposal.SubmissionID,
			NewStatus:      models.SubmissionStatusPending,
			ChangedBy:      userID,
			CreatedAt:      now,
		}
		return tx.Create(&history).Error
	})
	if err != nil {
		cleanupStoredFile(file.StoredPath)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create team"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":     true,
		"team_id":     team.TeamID,
		"proposal_id": proposal.SubmissionID,
	})
}

// GetTeams lists teams visible to the caller: all for admins, public plus
// own teams for everyone else.
func GetTeams(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	query := config.DB.Preload("Domain").Where("delete_at IS NULL")
	if !isAdmin(c) {
		ownTeams := config.DB.Model(&models.TeamMember{}).
			Select("team_id").
			Where("user_id = ?", userID)
		query = query.Where("visibility = ? OR team_id IN (?)", models.TeamVisibilityPublic, ownTeams)
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var teams []models.Team
	if err := query.Order("create_at DESC").Find(&teams).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch teams"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"teams":   teams,
		"total":   len(teams),
	})
}

// GetTeam returns a team with its member list. Private teams are visible to
// members and admins only.
func GetTeam(c *gin.Context) {
	teamID, ok := pathID(c, "id")
	if !ok {
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var team models.Team
	err := config.DB.Preload("Domain").Preload("Creator").Preload("Members").Preload("Members.User").
		Where("team_id = ? AND delete_at IS NULL", teamID).
		First(&team).Error
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Team not found"})
		return
	}

	if team.Visibility == models.TeamVisibilityPrivate && !isAdmin(c) {
		role, err := teamRoleOf(teamID, userID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check membership"})
			return
		}
		if role == "" {
			c.JSON(http.StatusForbidden, gin.H{"error": "Insufficient permissions"})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"team": team})
}

// UpdateTeamStatus lets the lead move a team between active, recruiting and
// inactive.
func UpdateTeamStatus(c *gin.Context) {
	teamID, ok := pathID(c, "id")
	if !ok {
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	switch req.Status {
	case models.TeamStatusActive, models.TeamStatusRecruiting, models.TeamStatusInactive:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid team status"})
		return
	}

	if _, err := loadTeam(teamID); err != nil {
		respondError(c, err)
		return
	}

	role, err := teamRoleOf(teamID, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check membership"})
		return
	}
	if role != models.TeamRoleLead {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the team lead may change team status"})
		return
	}

	now := time.Now()
	err = config.DB.Model(&models.Team{}).
		Where("team_id = ?", teamID).
		Updates(map[string]interface{}{"status": req.Status, "update_at": now}).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update team status"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "status": req.Status})
}

// AddTeamMembers adds members to a team. Lead only; the lead role cannot be
// granted here so a team never gains a second lead.
func AddTeamMembers(c *gin.Context) {
	teamID, ok := pathID(c, "id")
	if !ok {
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req struct {
		Members []teamMemberInput `json:"members" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if len(req.Members) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Member list is empty"})
		return
	}
	for _, member := range req.Members {
		if member.RoleInTeam != models.TeamRoleResearcher && member.RoleInTeam != models.TeamRoleAssistant {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Members may only join as researcher or assistant"})
			return
		}
	}

	team, err := loadTeam(teamID)
	if err != nil {
		respondError(c, err)
		return
	}

	role, err := teamRoleOf(teamID, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check membership"})
		return
	}
	if role != models.TeamRoleLead {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the team lead may add members"})
		return
	}

	err = config.DB.Transaction(func(tx *gorm.DB) error {
		var current int64
		if err := tx.Model(&models.TeamMember{}).Where("team_id = ?", teamID).Count(&current).Error; err != nil {
			return err
		}
		if int(current)+len(req.Members) > team.MaxMembers {
			return services.NewError(services.KindConflict, "Team is at capacity")
		}

		now := time.Now()
		for _, member := range req.Members {
			var user models.User
			if err := tx.Where("user_id = ? AND delete_at IS NULL", member.UserID).First(&user).Error; err != nil {
				return services.NewError(services.KindValidation, "Unknown user in member list")
			}

			var existing int64
			if err := tx.Model(&models.TeamMember{}).
				Where("team_id = ? AND user_id = ?", teamID, member.UserID).
				Count(&existing).Error; err != nil {
				return err
			}
			if existing > 0 {
				return services.NewError(services.KindConflict, "User is already a team member")
			}

			row := models.TeamMember{TeamID: teamID, UserID: member.UserID, RoleInTeam: member.RoleInTeam, JoinedAt: now}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "added": len(req.Members)})
}

// GetTeamCandidates recommends members for the team: same-department
// teachers and students ranked by research-domain overlap with the caller's
// domains. Lead only.
func GetTeamCandidates(c *gin.Context) {
	teamID, ok := pathID(c, "id")
	if !ok {
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	if _, err := loadTeam(teamID); err != nil {
		respondError(c, err)
		return
	}

	role, err := teamRoleOf(teamID, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check membership"})
		return
	}
	if role != models.TeamRoleLead {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the team lead may view candidates"})
		return
	}

	var creator models.User
	if err := config.DB.Where("user_id = ?", userID).First(&creator).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load profile"})
		return
	}

	var links []models.UserResearchDomain
	if err := config.DB.Where("user_id = ?", userID).Find(&links).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load research domains"})
		return
	}
	creatorDomainIDs := make([]int, 0, len(links))
	for _, link := range links {
		creatorDomainIDs = append(creatorDomainIDs, link.DomainID)
	}

	candidates, err := services.FindCandidates(creator.DepartmentID, creatorDomainIDs, teamID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"candidates": candidates,
		"total":      len(candidates),
	})
}
