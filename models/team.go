package models

import "time"

const (
	TeamStatusActive     = "active"
	TeamStatusRecruiting = "recruiting"
	TeamStatusInactive   = "inactive"

	TeamVisibilityPublic  = "public"
	TeamVisibilityPrivate = "private"
)

// Roles held inside a team. At most one member is the lead.
const (
	TeamRoleLead       = "lead"
	TeamRoleResearcher = "researcher"
	TeamRoleAssistant  = "assistant"
)

type Team struct {
	TeamID      int        `gorm:"primaryKey;column:team_id" json:"team_id"`
	TeamName    string     `gorm:"column:team_name" json:"team_name"`
	Description string     `gorm:"column:description" json:"description"`
	Status      string     `gorm:"column:status" json:"status"`
	Visibility  string     `gorm:"column:visibility" json:"visibility"`
	MaxMembers  int        `gorm:"column:max_members" json:"max_members"`
	DomainID    int        `gorm:"column:domain_id" json:"domain_id"`
	CreatedBy   int        `gorm:"column:created_by" json:"created_by"`
	CreateAt    time.Time  `gorm:"column:create_at" json:"create_at"`
	UpdateAt    *time.Time `gorm:"column:update_at" json:"update_at"`
	DeleteAt    *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`

	// Relations
	Domain  ResearchDomain `gorm:"foreignKey:DomainID" json:"domain,omitempty"`
	Creator *User          `gorm:"foreignKey:CreatedBy" json:"creator,omitempty"`
	Members []TeamMember   `gorm:"foreignKey:TeamID" json:"members,omitempty"`
}

type TeamMember struct {
	TeamID     int       `gorm:"primaryKey;column:team_id" json:"team_id"`
	UserID     int       `gorm:"primaryKey;column:user_id" json:"user_id"`
	RoleInTeam string    `gorm:"column:role_in_team" json:"role_in_team"`
	JoinedAt   time.Time `gorm:"column:joined_at" json:"joined_at"`

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// TeamComment is free-form team discussion. Append-only.
type TeamComment struct {
	CommentID int       `gorm:"primaryKey;column:comment_id" json:"comment_id"`
	TeamID    int       `gorm:"column:team_id" json:"team_id"`
	UserID    int       `gorm:"column:user_id" json:"user_id"`
	Text      string    `gorm:"column:text" json:"text"`
	CreateAt  time.Time `gorm:"column:create_at" json:"create_at"`

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

const (
	ApplicationStatusPending  = "pending"
	ApplicationStatusApproved = "approved"
	ApplicationStatusRejected = "rejected"
)

// TeamApplication is a student join request against a public team.
type TeamApplication struct {
	ApplicationID int        `gorm:"primaryKey;column:application_id" json:"application_id"`
	TeamID        int        `gorm:"column:team_id" json:"team_id"`
	StudentID     int        `gorm:"column:student_id" json:"student_id"`
	Status        string     `gorm:"column:status" json:"status"`
	AppliedAt     time.Time  `gorm:"column:applied_at" json:"applied_at"`
	DecidedAt     *time.Time `gorm:"column:decided_at" json:"decided_at,omitempty"`
	DecidedBy     *int       `gorm:"column:decided_by" json:"decided_by,omitempty"`

	Student *User `gorm:"foreignKey:StudentID" json:"student,omitempty"`
	Team    *Team `gorm:"foreignKey:TeamID" json:"team,omitempty"`
}

// TableName overrides
func (Team) TableName() string {
	return "teams"
}

func (TeamMember) TableName() string {
	return "team_members"
}

func (TeamComment) TableName() string {
	return "team_comments"
}

func (TeamApplication) TableName() string {
	return "team_applications"
}
