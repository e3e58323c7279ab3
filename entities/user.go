package entities

import (
	"strings"
	"time"
)

// Role is the closed set of account roles.
type Role string

const (
	RoleAdmin  Role = "ADMIN"
	RoleOwner  Role = "OWNER"
	RoleTenant Role = "TENANT"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleOwner, RoleTenant:
		return true
	}
	return false
}

// ParseRole normalizes user input ("owner", " TENANT ") into a Role.
func ParseRole(s string) (Role, bool) {
	r := Role(strings.ToUpper(strings.TrimSpace(s)))
	return r, r.Valid()
}

// User represents an account of the HOA portal
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Email        string    `gorm:"uniqueIndex;size:255;not null" json:"email"`
	PasswordHash string    `gorm:"column:password;not null" json:"-"`
	Salt         string    `gorm:"size:64" json:"-"`
	FirstName    string    `gorm:"size:100" json:"firstName"`
	LastName     string    `gorm:"size:100" json:"lastName"`
	Name         string    `gorm:"size:255" json:"name"`
	Phone        string    `gorm:"size:50" json:"phone,omitempty"`
	Street       string    `gorm:"size:255" json:"street,omitempty"`
	City         string    `gorm:"size:100" json:"city,omitempty"`
	State        string    `gorm:"size:100" json:"state,omitempty"`
	Zip          string    `gorm:"size:20" json:"zip,omitempty"`
	Country      string    `gorm:"size:100" json:"country,omitempty"`
	Role         Role      `gorm:"type:varchar(20);not null;default:'TENANT'" json:"role"`
	Tenant       *Tenant   `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"tenant,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// WhitelistedUser pre-authorizes a self-service signup for one email.
type WhitelistedUser struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Email     string    `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Role      Role      `gorm:"type:varchar(20);not null" json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

// Tenant is the tenant profile attached to a TENANT user.
type Tenant struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"uniqueIndex;not null" json:"userId"`
	User      *User     `json:"user,omitempty"`
	Units     []Unit    `gorm:"foreignKey:TenantID;constraint:OnDelete:SET NULL" json:"units,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
