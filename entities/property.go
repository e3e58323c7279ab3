package entities

import "time"

type UnitStatus string

const (
	UnitVacant      UnitStatus = "VACANT"
	UnitOccupied    UnitStatus = "OCCUPIED"
	UnitMaintenance UnitStatus = "MAINTENANCE"
)

// Property is a managed real estate object (a community or building).
type Property struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Title     string    `gorm:"size:255;not null" json:"title"`
	Street    string    `gorm:"size:255" json:"street"`
	City      string    `gorm:"size:100" json:"city"`
	State     string    `gorm:"size:100" json:"state"`
	Zip       string    `gorm:"size:20" json:"zip"`
	Country   string    `gorm:"size:100" json:"country"`
	ManagerID *uint     `gorm:"index" json:"managerId,omitempty"`
	Manager   *User     `gorm:"constraint:OnDelete:SET NULL" json:"manager,omitempty"`
	Units     []Unit    `gorm:"constraint:OnDelete:CASCADE" json:"units,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Unit belongs to exactly one property and may have several owners.
type Unit struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	PropertyID     uint       `gorm:"index;not null" json:"propertyId"`
	Property       *Property  `json:"property,omitempty"`
	UnitNumber     string     `gorm:"size:100" json:"unitNumber"`
	UnitIdentifier string     `gorm:"size:255" json:"unitIdentifier,omitempty"`
	Status         UnitStatus `gorm:"type:varchar(20);not null;default:'VACANT'" json:"status"`
	TenantID       *uint      `gorm:"index" json:"tenantId,omitempty"`
	Tenant         *Tenant    `json:"tenant,omitempty"`
	Owners         []User     `gorm:"many2many:unit_owners;" json:"owners,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}

// HasOwner reports whether userID is among the unit's loaded owners.
func (u *Unit) HasOwner(userID uint) bool {
	for _, o := range u.Owners {
		if o.ID == userID {
			return true
		}
	}
	return false
}

// Vendor is an external service provider assigned to maintenance work.
type Vendor struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	Email     string    `gorm:"size:255" json:"email,omitempty"`
	Phone     string    `gorm:"size:50" json:"phone,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
