package entities

import (
	"time"

	"gorm.io/datatypes"
)

type PaymentStatus string

const (
	PaymentPending PaymentStatus = "PENDING"
	PaymentPaid    PaymentStatus = "PAID"
	PaymentOverdue PaymentStatus = "OVERDUE"
)

type Lease struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	UnitID      uint       `gorm:"index;not null" json:"unitId"`
	Unit        *Unit      `gorm:"constraint:OnDelete:CASCADE" json:"unit,omitempty"`
	TenantID    uint       `gorm:"index;not null" json:"tenantId"`
	Tenant      *Tenant    `gorm:"constraint:OnDelete:CASCADE" json:"tenant,omitempty"`
	StartDate   time.Time  `json:"startDate"`
	EndDate     *time.Time `json:"endDate,omitempty"`
	MonthlyRent float64    `json:"monthlyRent"`
	Deposit     float64    `json:"deposit"`
	Payments    []Payment  `gorm:"constraint:OnDelete:CASCADE" json:"payments,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

type Payment struct {
	ID        uint          `gorm:"primaryKey" json:"id"`
	LeaseID   uint          `gorm:"index;not null" json:"leaseId"`
	Lease     *Lease        `json:"lease,omitempty"`
	Amount    float64       `json:"amount"`
	DueDate   time.Time     `gorm:"index" json:"dueDate"`
	PaidDate  *time.Time    `json:"paidDate,omitempty"`
	Status    PaymentStatus `gorm:"type:varchar(16);not null;default:'PENDING';index" json:"status"`
	CreatedAt time.Time     `json:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt"`
}

type Expense struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	PropertyID  uint      `gorm:"index;not null" json:"propertyId"`
	Property    *Property `gorm:"constraint:OnDelete:CASCADE" json:"property,omitempty"`
	UnitID      *uint     `gorm:"index" json:"unitId,omitempty"`
	Category    string    `gorm:"size:100" json:"category"`
	Amount      float64   `json:"amount"`
	IncurredOn  time.Time `json:"incurredOn"`
	Description string    `gorm:"type:text" json:"description,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type Message struct {
	ID                   uint      `gorm:"primaryKey" json:"id"`
	SenderID             uint      `gorm:"index;not null" json:"senderId"`
	Sender               *User     `gorm:"constraint:OnDelete:CASCADE" json:"sender,omitempty"`
	RecipientID          uint      `gorm:"index;not null" json:"recipientId"`
	Recipient            *User     `gorm:"constraint:OnDelete:CASCADE" json:"recipient,omitempty"`
	MaintenanceRequestID *uint     `gorm:"index" json:"maintenanceRequestId,omitempty"`
	Subject              string    `gorm:"size:255" json:"subject"`
	Body                 string    `gorm:"type:text" json:"body"`
	Read                 bool      `gorm:"not null;default:false" json:"read"`
	CreatedAt            time.Time `json:"createdAt"`
	UpdatedAt            time.Time `json:"updatedAt"`
}

// ContactRequest is a submission of the public "contact us" form.
type ContactRequest struct {
	ID                   uint                        `gorm:"primaryKey" json:"id"`
	FirstName            string                      `gorm:"size:100;not null" json:"firstName"`
	LastName             string                      `gorm:"size:100;not null" json:"lastName"`
	Phone                string                      `gorm:"size:50;not null" json:"phone"`
	Email                string                      `gorm:"size:255;not null" json:"email"`
	BoardPositions       datatypes.JSONSlice[string] `json:"boardPositions"`
	CommunityName        string                      `gorm:"size:255" json:"communityName,omitempty"`
	CommunityLocation    string                      `gorm:"size:255" json:"communityLocation,omitempty"`
	CommunityDescription string                      `gorm:"type:text" json:"communityDescription,omitempty"`
	ReferralSource       string                      `gorm:"size:255" json:"referralSource,omitempty"`
	NumberOfUnits        *int                        `json:"numberOfUnits,omitempty"`
	PropertyType         string                      `gorm:"size:50;not null" json:"propertyType"`
	CreatedAt            time.Time                   `json:"createdAt"`
}
