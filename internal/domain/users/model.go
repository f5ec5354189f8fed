package users

import (
	"strings"
	"time"
)

type Role string

const (
	RoleAdmin    Role = "admin"
	RoleCook     Role = "cook"
	RoleDriver   Role = "driver"
	RoleEmployee Role = "employee"
)

func ParseRole(value string) (Role, bool) {
	switch Role(strings.ToLower(strings.TrimSpace(value))) {
	case RoleAdmin:
		return RoleAdmin, true
	case RoleCook:
		return RoleCook, true
	case RoleDriver:
		return RoleDriver, true
	case RoleEmployee:
		return RoleEmployee, true
	default:
		return "", false
	}
}

// RecordType names what the delete function removes.
type RecordType string

const (
	RecordEmployee RecordType = "employee"
	RecordCook     RecordType = "cook"
	RecordDriver   RecordType = "driver"
	RecordCompany  RecordType = "company"
	RecordMeal     RecordType = "meal"
)

func ParseRecordType(value string) (RecordType, bool) {
	switch RecordType(strings.ToLower(strings.TrimSpace(value))) {
	case RecordEmployee:
		return RecordEmployee, true
	case RecordCook:
		return RecordCook, true
	case RecordDriver:
		return RecordDriver, true
	case RecordCompany:
		return RecordCompany, true
	case RecordMeal:
		return RecordMeal, true
	default:
		return "", false
	}
}

// UserRole reports the role behind a record type. Companies and meals are
// not users and own no profile or identity.
func (t RecordType) UserRole() (Role, bool) {
	switch t {
	case RecordEmployee:
		return RoleEmployee, true
	case RecordCook:
		return RoleCook, true
	case RecordDriver:
		return RoleDriver, true
	default:
		return "", false
	}
}

const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

type Profile struct {
	ID        string    `gorm:"type:uuid;primaryKey"`
	Role      Role      `gorm:"type:text;not null"`
	Name      string    `gorm:"not null"`
	Email     string    `gorm:"not null;default:''"`
	Status    string    `gorm:"not null;default:'active'"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// RoleRecord is one row of admins, cooks, drivers or employees.
type RoleRecord interface {
	RecordRole() Role
	RecordID() int64
	OwnerID() string
}

type Admin struct {
	ID        int64     `gorm:"primaryKey"`
	UserID    string    `gorm:"type:uuid;not null;uniqueIndex"`
	Name      string    `gorm:"not null"`
	Email     string    `gorm:"not null;default:''"`
	AdminCode string    `gorm:"not null;default:''"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

type Cook struct {
	ID           int64     `gorm:"primaryKey"`
	UserID       string    `gorm:"type:uuid;not null;uniqueIndex"`
	Name         string    `gorm:"not null"`
	Email        string    `gorm:"not null;default:''"`
	Phone        string    `gorm:"not null;default:''"`
	AddressLine1 string    `gorm:"column:address_line1;not null;default:''"`
	AddressLine2 string    `gorm:"column:address_line2;not null;default:''"`
	City         string    `gorm:"not null;default:''"`
	PostalCode   string    `gorm:"not null;default:''"`
	PictureURL   string    `gorm:"column:picture_url;not null;default:''"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
}

type Driver struct {
	ID         int64     `gorm:"primaryKey"`
	UserID     string    `gorm:"type:uuid;not null;uniqueIndex"`
	Name       string    `gorm:"not null"`
	Email      string    `gorm:"not null;default:''"`
	Phone      string    `gorm:"not null;default:''"`
	PictureURL string    `gorm:"column:picture_url;not null;default:''"`
	CreatedAt  time.Time `gorm:"autoCreateTime"`
}

type Employee struct {
	ID           int64     `gorm:"primaryKey"`
	UserID       string    `gorm:"type:uuid;not null;uniqueIndex"`
	Name         string    `gorm:"not null"`
	Email        string    `gorm:"not null;default:''"`
	Phone        string    `gorm:"not null;default:''"`
	EmployeeCode string    `gorm:"not null;default:''"`
	CompanyID    *int64    `gorm:"index"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
}

func (a *Admin) RecordRole() Role {
	return RoleAdmin
}

func (a *Admin) RecordID() int64 {
	return a.ID
}

func (a *Admin) OwnerID() string {
	return a.UserID
}

func (c *Cook) RecordRole() Role {
	return RoleCook
}

func (c *Cook) RecordID() int64 {
	return c.ID
}

func (c *Cook) OwnerID() string {
	return c.UserID
}

func (d *Driver) RecordRole() Role {
	return RoleDriver
}

func (d *Driver) RecordID() int64 {
	return d.ID
}

func (d *Driver) OwnerID() string {
	return d.UserID
}

func (e *Employee) RecordRole() Role {
	return RoleEmployee
}

func (e *Employee) RecordID() int64 {
	return e.ID
}

func (e *Employee) OwnerID() string {
	return e.UserID
}

// NewRecord returns an empty model for role, suitable as a gorm destination.
func NewRecord(role Role) (RoleRecord, bool) {
	switch role {
	case RoleAdmin:
		return &Admin{}, true
	case RoleCook:
		return &Cook{}, true
	case RoleDriver:
		return &Driver{}, true
	case RoleEmployee:
		return &Employee{}, true
	default:
		return nil, false
	}
}

type Identity struct {
	ID    string
	Email string
}

type NewIdentity struct {
	Email    string
	Password string
	Metadata map[string]any
}

// Attributes are the optional create-user fields. Which ones are used depends
// on the role.
type Attributes struct {
	AdminCode    string
	EmployeeCode string
	CompanyID    *int64
	Phone        string
	AddressLine1 string
	AddressLine2 string
	City         string
	PostalCode   string
	PictureURL   string
}

type CreateUserInput struct {
	Email    string
	Password string
	Name     string
	Role     string
	Attributes
	IdempotencyKey string
}

type CreateUserResult struct {
	UserID  string `json:"userId"`
	Role    string `json:"role"`
	Message string `json:"message"`
}

type DeleteRecordInput struct {
	RecordID   int64
	RecordType string
	AuthID     string
}

type DeleteRecordResult struct {
	RecordType RecordType
	Message    string
}

// RecordPatch holds optional field updates for a role record. Role and
// user_id are never patchable.
type RecordPatch struct {
	Name         *string
	Email        *string
	Phone        *string
	AdminCode    *string
	EmployeeCode *string
	CompanyID    *int64
	ClearCompany bool
	AddressLine1 *string
	AddressLine2 *string
	City         *string
	PostalCode   *string
	PictureURL   *string
}
