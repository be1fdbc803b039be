package controllers

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"research-cell-api/config"
	"research-cell-api/models"
	"research-cell-api/services"
	"research-cell-api/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type RegisterRequest struct {
	UserFname    string `json:"user_fname" binding:"required"`
	UserLname    string `json:"user_lname"`
	Email        string `json:"email" binding:"required,email"`
	Password     string `json:"password" binding:"required"`
	Role         string `json:"role" binding:"required"`
	DepartmentID int    `json:"department_id" binding:"required"`
	DomainIDs    []int  `json:"domain_ids"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token   string      `json:"token"`
	User    models.User `json:"user"`
	Message string      `json:"message"`
}

// Register creates an unverified account and mails a verification link.
// Email addresses are validated against the allowed signup domains.
func Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	switch req.Role {
	case models.RoleTeacher, models.RoleStudent, models.RoleGeneralUser:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Role must be teacher, student or generaluser"})
		return
	}

	allowedDomains := utils.ParseAllowedDomains(os.Getenv("ALLOWED_EMAIL_DOMAINS"))
	if !utils.ValidateEmailDomain(req.Email, allowedDomains) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email address is not allowed for signup"})
		return
	}

	if ok, msg := utils.ValidatePassword(req.Password); !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}

	if ok, msg := utils.ValidateDomainSelection(req.Role, req.DomainIDs); !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}

	exists, err := services.DepartmentExists(req.DepartmentID)
	if err != nil {
		respondError(c, err)
		return
	}
	if !exists {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown department"})
		return
	}

	if _, err := services.ResolveDomains(req.DomainIDs); err != nil {
		respondError(c, err)
		return
	}

	var duplicate int64
	config.DB.Model(&models.User{}).Where("email = ?", req.Email).Count(&duplicate)
	if duplicate > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "Email is already registered"})
		return
	}

	hash, err := HashPassword(req.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process password"})
		return
	}

	now := time.Now()
	token := uuid.NewString()
	user := models.User{
		UserFname:         utils.SanitizeInput(req.UserFname),
		UserLname:         utils.SanitizeInput(req.UserLname),
		Email:             req.Email,
		Password:          hash,
		Role:              req.Role,
		DepartmentID:      req.DepartmentID,
		VerificationToken: &token,
		CreateAt:          &now,
	}

	err = config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		for _, domainID := range req.DomainIDs {
			link := models.UserResearchDomain{UserID: user.UserID, DomainID: domainID}
			if err := tx.Create(&link).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		// A concurrent signup can slip past the count above and hit the
		// unique email column inside the transaction.
		if isDuplicateKey(err) {
			c.JSON(http.StatusConflict, gin.H{"error": "Email is already registered"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create account"})
		return
	}

	go sendVerificationMail(user, token)

	c.JSON(http.StatusCreated, gin.H{
		"message": "Account created. Check your inbox for the verification link.",
		"user_id": user.UserID,
	})
}

// VerifyEmail flips the account to verified when the token matches.
func VerifyEmail(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Verification token is required"})
		return
	}

	var user models.User
	if err := config.DB.Where("verification_token = ? AND delete_at IS NULL", token).First(&user).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Invalid verification token"})
		return
	}

	now := time.Now()
	err := config.DB.Model(&user).Updates(map[string]interface{}{
		"is_verified":        true,
		"verification_token": nil,
		"update_at":          now,
	}).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to verify account"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Email verified. You can now log in."})
}

// Login handles user authentication
func Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var user models.User
	if err := config.DB.Preload("Department").
		Where("email = ? AND delete_at IS NULL", req.Email).
		First(&user).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		return
	}

	if !CheckPasswordHash(req.Password, user.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		return
	}

	token, err := services.IssueToken(user)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, LoginResponse{
		Token:   token,
		User:    user,
		Message: "Login successful",
	})
}

// SwitchRole reissues the session token with the requested view role for
// dual teacher/reviewer accounts.
func SwitchRole(c *gin.Context) {
	var req struct {
		NewRole string `json:"new_role" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	claimsValue, exists := c.Get("claims")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication context missing"})
		return
	}
	claims := claimsValue.(*services.Claims)

	var user models.User
	if err := config.DB.Where("user_id = ? AND delete_at IS NULL", claims.UserID).First(&user).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found"})
		return
	}

	token, err := services.SwitchRole(claims, user, req.NewRole)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":     token,
		"user":      user,
		"view_role": req.NewRole,
		"message":   "Role switched successfully",
	})
}

// RefreshToken reissues a fresh token for a still-valid session, keeping the
// current view role.
func RefreshToken(c *gin.Context) {
	claimsValue, exists := c.Get("claims")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication context missing"})
		return
	}
	claims := claimsValue.(*services.Claims)

	token, err := services.RefreshToken(claims)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token})
}

// GetProfile returns current user profile
func GetProfile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var user models.User
	if err := config.DB.Preload("Department").
		Where("user_id = ?", userID).
		First(&user).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	var links []models.UserResearchDomain
	config.DB.Where("user_id = ?", userID).Find(&links)
	domainIDs := make([]int, 0, len(links))
	for _, link := range links {
		domainIDs = append(domainIDs, link.DomainID)
	}
	if domains, err := services.ResolveDomains(domainIDs); err == nil {
		user.Domains = domains
	}

	c.JSON(http.StatusOK, gin.H{
		"user":           user,
		"effective_role": currentEffectiveRole(c),
	})
}

// ChangePassword handles password change
func ChangePassword(c *gin.Context) {
	type PasswordChangeRequest struct {
		CurrentPassword string `json:"current_password" binding:"required"`
		NewPassword     string `json:"new_password" binding:"required"`
	}

	var req PasswordChangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if ok, msg := utils.ValidatePassword(req.NewPassword); !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}

	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var user models.User
	if err := config.DB.Where("user_id = ?", userID).First(&user).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	if !CheckPasswordHash(req.CurrentPassword, user.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Current password is incorrect"})
		return
	}

	hash, err := HashPassword(req.NewPassword)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process password"})
		return
	}

	now := time.Now()
	user.Password = hash
	user.UpdateAt = &now

	if err := config.DB.Save(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update password"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password changed successfully"})
}

func sendVerificationMail(user models.User, token string) {
	baseURL := os.Getenv("PUBLIC_BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}
	link := fmt.Sprintf("%s/api/v1/verify-email?token=%s", baseURL, token)
	body := fmt.Sprintf("<p>Dear %s,</p><p>Confirm your research cell account by opening <a href=%q>this link</a>.</p>",
		user.FullName(), link)
	if err := config.SendMail([]string{user.Email}, "Verify your account", body); err != nil {
		log.Printf("verification mail: failed to send to %s: %v", user.Email, err)
	}
}

// HashPassword hashes password using bcrypt
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

// CheckPasswordHash compares password with hash
func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}
