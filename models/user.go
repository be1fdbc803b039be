package models

import (
	"time"
)

// Base roles stored on the account. The effective role of a request may
// differ when a dual-capability account has switched its view role.
const (
	RoleAdmin       = "admin"
	RoleTeacher     = "teacher"
	RoleReviewer    = "reviewer"
	RoleStudent     = "student"
	RoleGeneralUser = "generaluser"
)

type User struct {
	UserID                int        `gorm:"primaryKey;column:user_id" json:"user_id"`
	UserFname             string     `gorm:"column:user_fname" json:"user_fname"`
	UserLname             string     `gorm:"column:user_lname" json:"user_lname"`
	Email                 string     `gorm:"column:email;unique" json:"email"`
	Password              string     `gorm:"column:password" json:"-"`
	Role                  string     `gorm:"column:role" json:"role"`
	DepartmentID          int        `gorm:"column:department_id" json:"department_id"`
	IsVerified            bool       `gorm:"column:is_verified" json:"is_verified"`
	IsMainAdmin           bool       `gorm:"column:is_main_admin" json:"is_main_admin"`
	HasReviewerCapability bool       `gorm:"column:has_reviewer_capability" json:"has_reviewer_capability"`
	HasTeacherCapability  bool       `gorm:"column:has_teacher_capability" json:"has_teacher_capability"`
	ProfileImage          *string    `gorm:"column:profile_image" json:"profile_image,omitempty"`
	VerificationToken     *string    `gorm:"column:verification_token" json:"-"`
	CreateAt              *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt              *time.Time `gorm:"column:update_at" json:"update_at"`
	DeleteAt              *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`

	// Relations
	Department Department       `gorm:"foreignKey:DepartmentID" json:"department,omitempty"`
	Domains    []ResearchDomain `gorm:"-" json:"domains,omitempty"`
}

// FullName joins first and last name for display and mail templates.
func (u *User) FullName() string {
	if u.UserLname == "" {
		return u.UserFname
	}
	return u.UserFname + " " + u.UserLname
}

type Department struct {
	DepartmentID   int        `gorm:"primaryKey;column:department_id" json:"department_id"`
	DepartmentName string     `gorm:"column:department_name" json:"department_name"`
	CreateAt       *time.Time `gorm:"column:create_at" json:"create_at"`
	DeleteAt       *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`
}

type ResearchDomain struct {
	DomainID   int        `gorm:"primaryKey;column:domain_id" json:"domain_id"`
	DomainName string     `gorm:"column:domain_name" json:"domain_name"`
	CreateAt   *time.Time `gorm:"column:create_at" json:"create_at"`
	DeleteAt   *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`
}

// UserResearchDomain links an account to a research field it is interested
// in or has expertise in. (user_id, domain_id) is unique.
type UserResearchDomain struct {
	UserID   int `gorm:"primaryKey;column:user_id" json:"user_id"`
	DomainID int `gorm:"primaryKey;column:domain_id" json:"domain_id"`
}

// TableName overrides
func (User) TableName() string {
	return "users"
}

func (Department) TableName() string {
	return "departments"
}

func (ResearchDomain) TableName() string {
	return "research_domains"
}

func (UserResearchDomain) TableName() string {
	return "user_research_domains"
}
