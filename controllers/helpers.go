package controllers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"research-cell-api/config"
	"research-cell-api/models"
	"research-cell-api/services"

	"github.com/gin-gonic/gin"
	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
)

// respondError maps a service error to its HTTP status. Unexpected errors
// are logged and surfaced as a generic failure.
func respondError(c *gin.Context, err error) {
	status := services.HTTPStatus(err)
	if status == http.StatusInternalServerError {
		log.Printf("internal error on %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	}
	c.JSON(status, gin.H{"error": services.PublicMessage(err)})
}

// isDuplicateKey reports whether err is a MySQL unique constraint violation
// (error 1062).
func isDuplicateKey(err error) bool {
	var mysqlErr *mysql.MySQLError
	return errors.As(err, &mysqlErr) && mysqlErr.Number == 1062
}

func currentUserID(c *gin.Context) (int, bool) {
	value, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication context missing"})
		return 0, false
	}
	userID, ok := value.(int)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Invalid user context"})
		return 0, false
	}
	return userID, true
}

func currentEffectiveRole(c *gin.Context) string {
	value, exists := c.Get("effectiveRole")
	if !exists {
		return ""
	}
	role, _ := value.(string)
	return role
}

func isAdmin(c *gin.Context) bool {
	return currentEffectiveRole(c) == models.RoleAdmin
}

func pathID(c *gin.Context, name string) (int, bool) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name})
		return 0, false
	}
	return id, true
}

// teamRoleOf returns the caller's role in a team, "" for non-members.
func teamRoleOf(teamID, userID int) (string, error) {
	var member models.TeamMember
	err := config.DB.Where("team_id = ? AND user_id = ?", teamID, userID).First(&member).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return member.RoleInTeam, nil
}

func loadTeam(teamID int) (*models.Team, error) {
	var team models.Team
	err := config.DB.Where("team_id = ? AND delete_at IS NULL", teamID).First(&team).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, services.NewError(services.KindNotFound, "Team not found")
	}
	if err != nil {
		return nil, services.WrapError(services.KindInternal, "Failed to load team", err)
	}
	return &team, nil
}
