package models

import "time"

// Submission lifecycle statuses. Papers and proposals run the same machine;
// completed is reachable for proposals only, from accepted, by the team lead.
const (
	SubmissionStatusPending            = "pending"
	SubmissionStatusUnderReview        = "under_review"
	SubmissionStatusRevisionsRequested = "revisions_requested"
	SubmissionStatusAccepted           = "accepted"
	SubmissionStatusRejected           = "rejected"
	SubmissionStatusCompleted          = "completed"
)

const (
	SubmissionTypePaper    = "paper"
	SubmissionTypeProposal = "proposal"
)

// Paper is a research paper owned by a team.
type Paper struct {
	SubmissionID int        `gorm:"primaryKey;column:submission_id" json:"submission_id"`
	TeamID       int        `gorm:"column:team_id" json:"team_id"`
	Title        string     `gorm:"column:title" json:"title"`
	Abstract     string     `gorm:"column:abstract" json:"abstract"`
	FileID       int        `gorm:"column:file_id" json:"file_id"`
	Status       string     `gorm:"column:status" json:"status"`
	ReviewRound  int        `gorm:"column:review_round" json:"review_round"`
	CreatedBy    int        `gorm:"column:created_by" json:"created_by"`
	CreatedAt    time.Time  `gorm:"column:created_at" json:"created_at"`
	UpdatedAt    time.Time  `gorm:"column:updated_at" json:"updated_at"`
	DeletedAt    *time.Time `gorm:"column:deleted_at" json:"deleted_at,omitempty"`

	Team *Team       `gorm:"foreignKey:TeamID" json:"team,omitempty"`
	File *FileUpload `gorm:"foreignKey:FileID" json:"file,omitempty"`
}

// Proposal is a research proposal owned by a team. Every team has at least
// the proposal created together with the team itself.
type Proposal struct {
	SubmissionID int        `gorm:"primaryKey;column:submission_id" json:"submission_id"`
	TeamID       int        `gorm:"column:team_id" json:"team_id"`
	Title        string     `gorm:"column:title" json:"title"`
	Abstract     string     `gorm:"column:abstract" json:"abstract"`
	FileID       int        `gorm:"column:file_id" json:"file_id"`
	Status       string     `gorm:"column:status" json:"status"`
	ReviewRound  int        `gorm:"column:review_round" json:"review_round"`
	CreatedBy    int        `gorm:"column:created_by" json:"created_by"`
	CreatedAt    time.Time  `gorm:"column:created_at" json:"created_at"`
	UpdatedAt    time.Time  `gorm:"column:updated_at" json:"updated_at"`
	DeletedAt    *time.Time `gorm:"column:deleted_at" json:"deleted_at,omitempty"`

	Team *Team       `gorm:"foreignKey:TeamID" json:"team,omitempty"`
	File *FileUpload `gorm:"foreignKey:FileID" json:"file,omitempty"`
}

// SubmissionTableName maps a submission type to its table.
func SubmissionTableName(submissionType string) string {
	if submissionType == SubmissionTypeProposal {
		return "proposals"
	}
	return "papers"
}

// TableName overrides
func (Paper) TableName() string {
	return "papers"
}

func (Proposal) TableName() string {
	return "proposals"
}
