package controllers

import (
	"net/http"
	"time"

	"research-cell-api/config"
	"research-cell-api/models"
	"research-cell-api/services"
	"research-cell-api/utils"

	"github.com/gin-gonic/gin"
)

// GetDepartments lists departments (cached).
func GetDepartments(c *gin.Context) {
	departments, err := services.GetDepartments()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"departments": departments})
}

// GetResearchDomains lists research domains (cached).
func GetResearchDomains(c *gin.Context) {
	domains, err := services.GetResearchDomains()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"domains": domains})
}

// CreateDepartment adds a department and invalidates the lookup cache so
// subsequent reads observe the new row. Admin only.
func CreateDepartment(c *gin.Context) {
	var req struct {
		DepartmentName string `json:"department_name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	name := utils.SanitizeInput(req.DepartmentName)
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Department name is required"})
		return
	}

	now := time.Now()
	department := models.Department{DepartmentName: name, CreateAt: &now}
	if err := config.DB.Create(&department).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create department"})
		return
	}

	services.ClearLookupCache()
	c.JSON(http.StatusCreated, gin.H{"department": department})
}

// CreateResearchDomain adds a research domain and invalidates the lookup
// cache. Admin only.
func CreateResearchDomain(c *gin.Context) {
	var req struct {
		DomainName string `json:"domain_name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	name := utils.SanitizeInput(req.DomainName)
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Domain name is required"})
		return
	}

	now := time.Now()
	domain := models.ResearchDomain{DomainName: name, CreateAt: &now}
	if err := config.DB.Create(&domain).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create research domain"})
		return
	}

	services.ClearLookupCache()
	c.JSON(http.StatusCreated, gin.H{"domain": domain})
}
