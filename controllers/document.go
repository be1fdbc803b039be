package controllers

import (
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"research-cell-api/config"
	"research-cell-api/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const maxUploadSize = 20 << 20 // 20 MB

func uploadPath() string {
	path := os.Getenv("UPLOAD_PATH")
	if path == "" {
		path = "./uploads"
	}
	return path
}

// storeUploadedFile writes the multipart file to disk under a generated name
// and returns an unsaved FileUpload row. The caller inserts the row inside
// its transaction and removes the file when that transaction fails, so a
// stored file without a referencing record never survives an error.
func storeUploadedFile(c *gin.Context, fieldName string, userID int) (*models.FileUpload, error) {
	header, err := c.FormFile(fieldName)
	if err != nil {
		return nil, err
	}
	if header.Size > maxUploadSize {
		return nil, os.ErrInvalid
	}

	storedName := uuid.NewString() + filepath.Ext(header.Filename)
	destPath := filepath.Join(uploadPath(), storedName)
	if err := c.SaveUploadedFile(header, destPath); err != nil {
		return nil, err
	}

	file := &models.FileUpload{
		OriginalName: filepath.Base(header.Filename),
		StoredPath:   destPath,
		FileSize:     header.Size,
		MimeType:     header.Header.Get("Content-Type"),
		UploadedBy:   userID,
		UploadedAt:   time.Now(),
	}
	return file, nil
}

func cleanupStoredFile(path string) {
	if err := os.Remove(path); err != nil {
		log.Printf("failed to remove orphaned upload %s: %v", path, err)
	}
}

// DownloadFile streams a stored document back to an authorized caller:
// admins, the uploader, or members of the team whose submission references
// the file.
func DownloadFile(c *gin.Context) {
	fileID, ok := pathID(c, "id")
	if !ok {
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var file models.FileUpload
	if err := config.DB.Where("file_id = ? AND delete_at IS NULL", fileID).First(&file).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "File not found"})
		return
	}

	if !isAdmin(c) && file.UploadedBy != userID {
		allowed, err := fileAccessibleViaTeam(fileID, userID)
		if err != nil {
			respondError(c, err)
			return
		}
		if !allowed {
			c.JSON(http.StatusForbidden, gin.H{"error": "Insufficient permissions"})
			return
		}
	}

	c.FileAttachment(file.StoredPath, file.OriginalName)
}

// fileAccessibleViaTeam checks whether a submission referencing the file
// belongs to one of the caller's teams, or is assigned to the caller for
// review.
func fileAccessibleViaTeam(fileID, userID int) (bool, error) {
	for _, submissionType := range []string{models.SubmissionTypePaper, models.SubmissionTypeProposal} {
		table := models.SubmissionTableName(submissionType)

		var viaMembership int64
		err := config.DB.Table(table).
			Joins("JOIN team_members ON team_members.team_id = "+table+".team_id").
			Where(table+".file_id = ? AND team_members.user_id = ? AND "+table+".deleted_at IS NULL", fileID, userID).
			Count(&viaMembership).Error
		if err != nil {
			return false, err
		}
		if viaMembership > 0 {
			return true, nil
		}

		var viaAssignment int64
		err = config.DB.Table(table).
			Joins("JOIN reviewer_assignments ON reviewer_assignments.submission_id = "+table+".submission_id").
			Where("reviewer_assignments.submission_type = ? AND reviewer_assignments.reviewer_id = ? AND "+table+".file_id = ? AND "+table+".deleted_at IS NULL",
				submissionType, userID, fileID).
			Count(&viaAssignment).Error
		if err != nil {
			return false, err
		}
		if viaAssignment > 0 {
			return true, nil
		}
	}
	return false, nil
}
