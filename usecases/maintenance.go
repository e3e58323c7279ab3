package usecases

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"reflect"
	"strings"

	"hoa-server/entities"
	"hoa-server/repositories"
)

// Realtime event names published on the maintenance channel.
const (
	EventMaintenanceCreated      = "maintenance.created"
	EventMaintenanceUpdated      = "maintenance.updated"
	EventMaintenanceDeleted      = "maintenance.deleted"
	EventMaintenanceTagRequested = "maintenance.tag_requested"
	EventMaintenanceTagResolved  = "maintenance.tag_resolved"
	EventMaintenanceLinked       = "maintenance.linked"
)

type CreateMaintenanceInput struct {
	UnitID        uint   `json:"unitId" validate:"required"`
	Title         string `json:"title" validate:"required"`
	Category      string `json:"category" validate:"max=50"`
	CategoryOther string `json:"categoryOther" validate:"max=15"`
	Notes         string `json:"notes"`
	Priority      string `json:"priority" validate:"omitempty,oneof=LOW MEDIUM HIGH CRITICAL"`
	VendorID      *uint  `json:"vendorId"`
}

// MaintenanceUpdate is the allow-list of fields an admin may patch.
// Nil fields are left untouched.
type MaintenanceUpdate struct {
	Title             *string `json:"title" validate:"omitnil,min=1"`
	Status            *string `json:"status" validate:"omitnil,oneof=REPORTED OPEN IN_PROGRESS VENDOR_ASSIGNED SCHEDULED COMPLETED"`
	Priority          *string `json:"priority" validate:"omitnil,oneof=LOW MEDIUM HIGH CRITICAL"`
	Category          *string `json:"category" validate:"omitnil,max=50"`
	CategoryOther     *string `json:"categoryOther" validate:"omitnil,max=15"`
	PendingTagRequest *bool   `json:"pendingTagRequest"`
	IsHOAIssue        *bool   `json:"isHOAIssue"`
	Notes             *string `json:"notes"`
}

type MaintenanceMeta struct {
	Statuses   []entities.MaintenanceStatus `json:"statuses"`
	Priorities []entities.Priority          `json:"priorities"`
}

type MaintenanceUseCase struct {
	repos    *repositories.Repositories
	notifier Notifier
	events   EventPublisher
}

func NewMaintenanceUseCase(repos *repositories.Repositories, notifier Notifier, events EventPublisher) *MaintenanceUseCase {
	if notifier == nil {
		notifier = nopNotifier{}
	}
	if events == nil {
		events = nopPublisher{}
	}
	return &MaintenanceUseCase{repos: repos, notifier: notifier, events: events}
}

// Create files a request on a unit. Tenants always report as their own
// tenant profile; everyone else is recorded as the owner of the report.
func (uc *MaintenanceUseCase) Create(ctx context.Context, actor Actor, in CreateMaintenanceInput) (*entities.MaintenanceRequest, error) {
	if verr := validateStruct(in); verr.err() != nil {
		return nil, verr
	}
	if _, err := uc.repos.Units.GetByID(ctx, in.UnitID); err != nil {
		return nil, unitErr(err)
	}

	req := &entities.MaintenanceRequest{
		UnitID:        in.UnitID,
		VendorID:      in.VendorID,
		Title:         strings.TrimSpace(in.Title),
		Category:      in.Category,
		CategoryOther: in.CategoryOther,
		Notes:         in.Notes,
		Status:        entities.StatusReported,
		Priority:      entities.PriorityMedium,
		TagState:      entities.TagNone,
	}
	if in.Priority != "" {
		req.Priority = entities.Priority(in.Priority)
	}

	if actor.Is(entities.RoleTenant) {
		tenant, err := uc.repos.Tenants.GetByUserID(ctx, actor.UserID)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return nil, ErrTenantProfileNotFound
			}
			return nil, err
		}
		req.ReporterID = &tenant.ID
	} else {
		ownerID := actor.UserID
		req.OwnerID = &ownerID
	}

	if err := uc.repos.Maintenance.Create(ctx, req); err != nil {
		return nil, err
	}
	created, err := uc.repos.Maintenance.GetByID(ctx, req.ID)
	if err != nil {
		return nil, err
	}
	uc.events.Publish(EventMaintenanceCreated, created, audience(created))
	return created, nil
}

// List returns the requests visible to actor, newest first. unitID narrows
// the result when non-zero.
func (uc *MaintenanceUseCase) List(ctx context.Context, actor Actor, unitID uint) ([]entities.MaintenanceRequest, error) {
	filter := repositories.MaintenanceFilter{UnitID: unitID}
	switch actor.Role {
	case entities.RoleTenant:
		tenant, err := uc.repos.Tenants.GetByUserID(ctx, actor.UserID)
		if err != nil {
			return nil, notFound(err)
		}
		filter.ReporterID = tenant.ID
	case entities.RoleOwner:
		owner, err := uc.repos.Users.GetByID(ctx, actor.UserID)
		if err != nil {
			return nil, notFound(err)
		}
		filter.OwnedBy = owner.ID
	case entities.RoleAdmin:
	default:
		return nil, ErrForbidden
	}
	return uc.repos.Maintenance.List(ctx, filter)
}

// ListByUnit returns every request filed on a unit.
func (uc *MaintenanceUseCase) ListByUnit(ctx context.Context, unitID uint) ([]entities.MaintenanceRequest, error) {
	if _, err := uc.repos.Units.GetByID(ctx, unitID); err != nil {
		return nil, unitErr(err)
	}
	return uc.repos.Maintenance.List(ctx, repositories.MaintenanceFilter{UnitID: unitID})
}

// RequestTag asks the HOA to take a request over. Only an owner of the
// request's unit may ask.
func (uc *MaintenanceUseCase) RequestTag(ctx context.Context, actor Actor, id uint) (*entities.MaintenanceRequest, error) {
	req, err := uc.repos.Maintenance.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	if req.Unit == nil || !req.Unit.HasOwner(actor.UserID) {
		return nil, ErrNotAuthorized
	}
	if req.TagState == entities.TagNone {
		if err := uc.repos.Maintenance.SetTagState(ctx, id, entities.TagPendingReview); err != nil {
			return nil, notFound(err)
		}
		req.TagState = entities.TagPendingReview
	}
	uc.events.Publish(EventMaintenanceTagRequested, req, audience(req))
	return req, nil
}

// ApproveTag resolves a pending review. Approval marks the request as an
// HOA issue; a decline clears the pending review and leaves an existing
// HOA issue alone. Owners (and the vendor, on approval) are notified after
// the state change is stored.
func (uc *MaintenanceUseCase) ApproveTag(ctx context.Context, id uint, approve bool) (*entities.MaintenanceRequest, error) {
	req, err := uc.repos.Maintenance.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}

	next := req.TagState
	if approve {
		next = entities.TagHOAIssue
	} else if req.TagState == entities.TagPendingReview {
		next = entities.TagNone
	}
	if next != req.TagState {
		if err := uc.repos.Maintenance.SetTagState(ctx, id, next); err != nil {
			return nil, notFound(err)
		}
		req.TagState = next
	}

	uc.notifier.Enqueue(tagNotifications(req, approve)...)
	uc.events.Publish(EventMaintenanceTagResolved, req, audience(req))
	return req, nil
}

func tagNotifications(req *entities.MaintenanceRequest, approved bool) []entities.Notification {
	var owners []entities.User
	if req.Unit != nil {
		owners = req.Unit.Owners
	}

	subject, body := "HOA Request Declined", fmt.Sprintf("HOA declined your request #%d.", req.ID)
	if approved {
		subject, body = "HOA Request Approved", fmt.Sprintf("Your request #%d is approved as an HOA issue.", req.ID)
	}

	var out []entities.Notification
	for _, o := range owners {
		if o.Email != "" {
			out = append(out, entities.Notification{Channel: entities.ChannelEmail, To: o.Email, Subject: subject, Body: body})
		}
		// No phone on file means no SMS address; nothing is queued.
		if o.Phone != "" {
			out = append(out, entities.Notification{Channel: entities.ChannelSMS, To: o.Phone, Body: body})
		}
	}
	if approved && req.Vendor != nil {
		if req.Vendor.Email != "" {
			out = append(out, entities.Notification{Channel: entities.ChannelEmail, To: req.Vendor.Email, Subject: "HOA Work Order", Body: body})
		}
		if req.Vendor.Phone != "" {
			out = append(out, entities.Notification{Channel: entities.ChannelSMS, To: req.Vendor.Phone, Body: body})
		}
	}
	if len(out) == 0 {
		log.Printf("maintenance request %d: no owner contact to notify", req.ID)
	}
	return out
}

// Update applies an admin patch. Every invalid field is reported at once.
func (uc *MaintenanceUseCase) Update(ctx context.Context, id uint, patch MaintenanceUpdate) (*entities.MaintenanceRequest, error) {
	return uc.update(ctx, id, patch, &ValidationError{})
}

// UpdateFields is Update for a raw JSON object. A value of the wrong type
// is reported against its field together with every other violation.
func (uc *MaintenanceUseCase) UpdateFields(ctx context.Context, id uint, raw map[string]json.RawMessage) (*entities.MaintenanceRequest, error) {
	patch, verr := decodeMaintenanceUpdate(raw)
	return uc.update(ctx, id, patch, verr)
}

func decodeMaintenanceUpdate(raw map[string]json.RawMessage) (MaintenanceUpdate, *ValidationError) {
	var patch MaintenanceUpdate
	targets := map[string]interface{}{
		"title":             &patch.Title,
		"status":            &patch.Status,
		"priority":          &patch.Priority,
		"category":          &patch.Category,
		"categoryOther":     &patch.CategoryOther,
		"pendingTagRequest": &patch.PendingTagRequest,
		"isHOAIssue":        &patch.IsHOAIssue,
		"notes":             &patch.Notes,
	}
	verr := &ValidationError{}
	for key, value := range raw {
		target, ok := targets[key]
		if !ok {
			continue
		}
		if err := json.Unmarshal(value, target); err != nil {
			verr.add(key, typeMessage(err))
		}
	}
	return patch, verr
}

func typeMessage(err error) string {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		switch typeErr.Type.Kind() {
		case reflect.Bool:
			return "must be a boolean"
		case reflect.String:
			return "must be a string"
		}
	}
	return "has an invalid value"
}

func (uc *MaintenanceUseCase) update(ctx context.Context, id uint, patch MaintenanceUpdate, verr *ValidationError) (*entities.MaintenanceRequest, error) {
	existing, err := uc.repos.Maintenance.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	for field, msg := range validateStruct(patch).Fields {
		verr.add(field, msg)
	}

	updates := make(map[string]interface{})
	if patch.Title != nil {
		updates["title"] = *patch.Title
	}
	if patch.Status != nil {
		updates["status"] = entities.MaintenanceStatus(*patch.Status)
	}
	if patch.Priority != nil {
		updates["priority"] = entities.Priority(*patch.Priority)
	}
	if patch.Category != nil {
		updates["category"] = *patch.Category
	}
	if patch.CategoryOther != nil {
		updates["category_other"] = *patch.CategoryOther
	}
	if patch.Notes != nil {
		updates["notes"] = *patch.Notes
	}
	if patch.PendingTagRequest != nil || patch.IsHOAIssue != nil {
		pending, hoa := existing.PendingTagRequest(), existing.IsHOAIssue()
		if patch.PendingTagRequest != nil {
			pending = *patch.PendingTagRequest
		}
		if patch.IsHOAIssue != nil {
			hoa = *patch.IsHOAIssue
		}
		if state, ok := entities.TagStateFromFlags(pending, hoa); ok {
			updates["tag_state"] = state
		} else {
			verr.add("pendingTagRequest", "cannot be true while isHOAIssue is true")
			verr.add("isHOAIssue", "cannot be true while pendingTagRequest is true")
		}
	}
	if err := verr.err(); err != nil {
		return nil, err
	}

	updated, err := uc.repos.Maintenance.Update(ctx, id, updates)
	if err != nil {
		return nil, notFound(err)
	}
	uc.events.Publish(EventMaintenanceUpdated, updated, audience(updated))
	return updated, nil
}

// Delete removes a request. Tenants may delete only what they reported,
// owners only requests on their units; admins may delete anything.
func (uc *MaintenanceUseCase) Delete(ctx context.Context, actor Actor, id uint) error {
	req, err := uc.repos.Maintenance.GetByID(ctx, id)
	if err != nil {
		return notFound(err)
	}
	switch actor.Role {
	case entities.RoleAdmin:
	case entities.RoleTenant:
		if req.Reporter == nil || req.Reporter.UserID != actor.UserID {
			return ErrNotAuthorized
		}
	case entities.RoleOwner:
		if req.Unit == nil || !req.Unit.HasOwner(actor.UserID) {
			return ErrNotAuthorized
		}
	default:
		return ErrNotAuthorized
	}
	if err := uc.repos.Maintenance.Delete(ctx, id); err != nil {
		return notFound(err)
	}
	uc.events.Publish(EventMaintenanceDeleted, map[string]uint{"id": id}, audience(req))
	return nil
}

// Link connects the first id to each of the others. Already linked pairs
// are skipped, so resubmitting the same ids is harmless.
func (uc *MaintenanceUseCase) Link(ctx context.Context, actor Actor, ids []uint) ([]entities.LinkedRequest, int, error) {
	if len(ids) < 2 {
		return nil, 0, &ValidationError{Fields: map[string]string{"ids": "at least two ids are required"}}
	}
	hub := ids[0]
	seen := map[uint]bool{hub: true}
	for _, id := range ids {
		if _, err := uc.repos.Maintenance.GetByID(ctx, id); err != nil {
			return nil, 0, notFound(err)
		}
	}

	linkedBy := actor.UserID
	links := make([]entities.LinkedRequest, 0, len(ids)-1)
	for _, other := range ids[1:] {
		if seen[other] {
			continue
		}
		seen[other] = true
		links = append(links, entities.LinkedRequest{RequestAID: hub, RequestBID: other, LinkedByID: &linkedBy})
	}
	created, err := uc.repos.Maintenance.Link(ctx, links)
	if err != nil {
		return nil, 0, err
	}
	all, err := uc.repos.Maintenance.GetLinks(ctx, hub)
	if err != nil {
		return nil, 0, err
	}
	uc.events.Publish(EventMaintenanceLinked, all, nil)
	return all, created, nil
}

// audience lists the non-admin users allowed to see req, matching List:
// owners of its unit and the tenant who reported it.
func audience(req *entities.MaintenanceRequest) []uint {
	var ids []uint
	if req.Unit != nil {
		for _, o := range req.Unit.Owners {
			ids = append(ids, o.ID)
		}
	}
	if req.Reporter != nil {
		ids = append(ids, req.Reporter.UserID)
	}
	return ids
}

func (uc *MaintenanceUseCase) Meta() MaintenanceMeta {
	return MaintenanceMeta{Statuses: entities.MaintenanceStatuses, Priorities: entities.Priorities}
}

func notFound(err error) error {
	if errors.Is(err, repositories.ErrNotFound) {
		return ErrNotFound
	}
	return err
}
