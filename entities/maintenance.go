package entities

import (
	"encoding/json"
	"time"
)

type MaintenanceStatus string

const (
	StatusReported       MaintenanceStatus = "REPORTED"
	StatusOpen           MaintenanceStatus = "OPEN"
	StatusInProgress     MaintenanceStatus = "IN_PROGRESS"
	StatusVendorAssigned MaintenanceStatus = "VENDOR_ASSIGNED"
	StatusScheduled      MaintenanceStatus = "SCHEDULED"
	StatusCompleted      MaintenanceStatus = "COMPLETED"
)

// MaintenanceStatuses lists statuses in workflow order.
var MaintenanceStatuses = []MaintenanceStatus{
	StatusReported, StatusOpen, StatusInProgress, StatusVendorAssigned, StatusScheduled, StatusCompleted,
}

type Priority string

const (
	PriorityLow      Priority = "LOW"
	PriorityMedium   Priority = "MEDIUM"
	PriorityHigh     Priority = "HIGH"
	PriorityCritical Priority = "CRITICAL"
)

var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical}

// TagState is the HOA review state of a maintenance request.
type TagState string

const (
	TagNone          TagState = "NONE"
	TagPendingReview TagState = "PENDING_REVIEW"
	TagHOAIssue      TagState = "HOA_ISSUE"
)

// TagStateFromFlags maps the legacy boolean pair onto a TagState.
// ok is false for the illegal combination (both true).
func TagStateFromFlags(pending, hoa bool) (state TagState, ok bool) {
	switch {
	case pending && hoa:
		return "", false
	case pending:
		return TagPendingReview, true
	case hoa:
		return TagHOAIssue, true
	}
	return TagNone, true
}

// MaintenanceRequest is a repair report filed against a unit, either by
// its tenant (Reporter) or by an owner/admin (Owner).
type MaintenanceRequest struct {
	ID            uint              `gorm:"primaryKey"`
	UnitID        uint              `gorm:"index;not null"`
	Unit          *Unit             `gorm:"constraint:OnDelete:CASCADE"`
	ReporterID    *uint             `gorm:"index"`
	Reporter      *Tenant           `gorm:"constraint:OnDelete:SET NULL"`
	OwnerID       *uint             `gorm:"index"`
	Owner         *User             `gorm:"constraint:OnDelete:SET NULL"`
	VendorID      *uint             `gorm:"index"`
	Vendor        *Vendor           `gorm:"constraint:OnDelete:SET NULL"`
	Title         string            `gorm:"size:255;not null"`
	Category      string            `gorm:"size:50"`
	CategoryOther string            `gorm:"size:15"`
	Notes         string            `gorm:"type:text"`
	Status        MaintenanceStatus `gorm:"type:varchar(32);not null;default:'REPORTED'"`
	Priority      Priority          `gorm:"type:varchar(16);not null;default:'MEDIUM'"`
	TagState      TagState          `gorm:"type:varchar(20);not null;default:'NONE';index"`
	CreatedAt     time.Time         `gorm:"index"`
	UpdatedAt     time.Time
}

// PendingTagRequest reports whether an owner asked for HOA review.
func (m *MaintenanceRequest) PendingTagRequest() bool { return m.TagState == TagPendingReview }

// IsHOAIssue reports whether the HOA accepted the request as its own issue.
func (m *MaintenanceRequest) IsHOAIssue() bool { return m.TagState == TagHOAIssue }

type maintenanceJSON struct {
	ID                uint              `json:"id"`
	UnitID            uint              `json:"unitId"`
	Unit              *Unit             `json:"unit,omitempty"`
	ReporterID        *uint             `json:"reporterId,omitempty"`
	Reporter          *Tenant           `json:"reporter,omitempty"`
	OwnerID           *uint             `json:"ownerId,omitempty"`
	Owner             *User             `json:"owner,omitempty"`
	VendorID          *uint             `json:"vendorId,omitempty"`
	Vendor            *Vendor           `json:"vendor,omitempty"`
	Title             string            `json:"title"`
	Category          string            `json:"category,omitempty"`
	CategoryOther     string            `json:"categoryOther,omitempty"`
	Notes             string            `json:"notes,omitempty"`
	Status            MaintenanceStatus `json:"status"`
	Priority          Priority          `json:"priority"`
	TagState          TagState          `json:"tagState"`
	PendingTagRequest bool              `json:"pendingTagRequest"`
	IsHOAIssue        bool              `json:"isHOAIssue"`
	CreatedAt         time.Time         `json:"createdAt"`
	UpdatedAt         time.Time         `json:"updatedAt"`
}

// MarshalJSON keeps the pendingTagRequest/isHOAIssue flags the frontend
// reads, derived from TagState.
func (m MaintenanceRequest) MarshalJSON() ([]byte, error) {
	return json.Marshal(maintenanceJSON{
		ID:                m.ID,
		UnitID:            m.UnitID,
		Unit:              m.Unit,
		ReporterID:        m.ReporterID,
		Reporter:          m.Reporter,
		OwnerID:           m.OwnerID,
		Owner:             m.Owner,
		VendorID:          m.VendorID,
		Vendor:            m.Vendor,
		Title:             m.Title,
		Category:          m.Category,
		CategoryOther:     m.CategoryOther,
		Notes:             m.Notes,
		Status:            m.Status,
		Priority:          m.Priority,
		TagState:          m.TagState,
		PendingTagRequest: m.PendingTagRequest(),
		IsHOAIssue:        m.IsHOAIssue(),
		CreatedAt:         m.CreatedAt,
		UpdatedAt:         m.UpdatedAt,
	})
}

// LinkedRequest is one edge between two related maintenance requests.
type LinkedRequest struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	RequestAID uint      `gorm:"uniqueIndex:idx_linked_pair;not null" json:"requestAId"`
	RequestBID uint      `gorm:"uniqueIndex:idx_linked_pair;not null" json:"requestBId"`
	LinkedByID *uint     `json:"linkedById,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

// OverwriteCode lets a new owner signup take over specific units.
type OverwriteCode struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Code      string    `gorm:"uniqueIndex;size:64;not null" json:"code"`
	ExpiresAt time.Time `gorm:"index" json:"expiresAt"`
	Used      bool      `gorm:"not null;default:false" json:"used"`
	UsedByID  *uint     `json:"usedById,omitempty"`
	Units     []Unit    `gorm:"many2many:overwrite_code_units;" json:"units,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}
