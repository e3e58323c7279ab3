package usecases

import (
	"context"

	"hoa-server/entities"
	"hoa-server/repositories"
)

var propertyFields = map[string]string{
	"title":     "title",
	"street":    "street",
	"city":      "city",
	"state":     "state",
	"zip":       "zip",
	"country":   "country",
	"managerId": "manager_id",
}

var unitFields = map[string]string{
	"unitNumber":     "unit_number",
	"unitIdentifier": "unit_identifier",
	"status":         "status",
	"tenantId":       "tenant_id",
	"propertyId":     "property_id",
}

type CreatePropertyInput struct {
	Title     string            `json:"title" validate:"required"`
	Street    string            `json:"street"`
	City      string            `json:"city"`
	State     string            `json:"state"`
	Zip       string            `json:"zip"`
	Country   string            `json:"country"`
	ManagerID *uint             `json:"managerId"`
	Units     []CreateUnitInput `json:"units" validate:"dive"`
}

type CreateUnitInput struct {
	PropertyID     uint   `json:"propertyId"`
	UnitNumber     string `json:"unitNumber" validate:"required"`
	UnitIdentifier string `json:"unitIdentifier"`
	Status         string `json:"status" validate:"omitempty,oneof=VACANT OCCUPIED MAINTENANCE"`
	OwnerIDs       []uint `json:"ownerIds"`
}

type PropertyUseCase struct {
	repos *repositories.Repositories
}

func NewPropertyUseCase(repos *repositories.Repositories) *PropertyUseCase {
	return &PropertyUseCase{repos: repos}
}

// Create stores a property together with its initial units. A property
// created by an admin without an explicit manager is managed by that admin.
func (uc *PropertyUseCase) Create(ctx context.Context, actor Actor, in CreatePropertyInput) (*entities.Property, error) {
	if verr := validateStruct(in); verr.err() != nil {
		return nil, verr
	}
	property := &entities.Property{
		Title:     in.Title,
		Street:    in.Street,
		City:      in.City,
		State:     in.State,
		Zip:       in.Zip,
		Country:   in.Country,
		ManagerID: in.ManagerID,
	}
	if property.ManagerID == nil && actor.Is(entities.RoleAdmin) {
		id := actor.UserID
		property.ManagerID = &id
	}
	for _, u := range in.Units {
		property.Units = append(property.Units, newUnit(u))
	}
	if err := uc.repos.Properties.Create(ctx, property); err != nil {
		return nil, err
	}
	return uc.repos.Properties.GetByID(ctx, property.ID)
}

func (uc *PropertyUseCase) Get(ctx context.Context, id uint) (*entities.Property, error) {
	p, err := uc.repos.Properties.GetByID(ctx, id)
	return p, notFound(err)
}

func (uc *PropertyUseCase) List(ctx context.Context) ([]entities.Property, error) {
	return uc.repos.Properties.GetAll(ctx)
}

func (uc *PropertyUseCase) Update(ctx context.Context, id uint, patch map[string]interface{}) (*entities.Property, error) {
	updates, err := allowList(patch, propertyFields)
	if err != nil {
		return nil, err
	}
	if _, err := uc.repos.Properties.GetByID(ctx, id); err != nil {
		return nil, notFound(err)
	}
	if len(updates) == 0 {
		return uc.repos.Properties.GetByID(ctx, id)
	}
	return uc.repos.Properties.Update(ctx, id, updates)
}

func (uc *PropertyUseCase) Delete(ctx context.Context, id uint) error {
	return notFound(uc.repos.Properties.Delete(ctx, id))
}

func (uc *PropertyUseCase) Units(ctx context.Context, propertyID uint) ([]entities.Unit, error) {
	if _, err := uc.repos.Properties.GetByID(ctx, propertyID); err != nil {
		return nil, notFound(err)
	}
	return uc.repos.Units.GetByPropertyID(ctx, propertyID)
}

func newUnit(in CreateUnitInput) entities.Unit {
	unit := entities.Unit{
		PropertyID:     in.PropertyID,
		UnitNumber:     in.UnitNumber,
		UnitIdentifier: in.UnitIdentifier,
		Status:         entities.UnitVacant,
	}
	if in.Status != "" {
		unit.Status = entities.UnitStatus(in.Status)
	}
	return unit
}

type UnitUseCase struct {
	repos *repositories.Repositories
}

func NewUnitUseCase(repos *repositories.Repositories) *UnitUseCase {
	return &UnitUseCase{repos: repos}
}

func (uc *UnitUseCase) Create(ctx context.Context, in CreateUnitInput) (*entities.Unit, error) {
	verr := validateStruct(in)
	if in.PropertyID == 0 {
		verr.add("propertyId", "is required")
	}
	if verr.err() != nil {
		return nil, verr
	}
	if _, err := uc.repos.Properties.GetByID(ctx, in.PropertyID); err != nil {
		return nil, notFound(err)
	}
	unit := newUnit(in)
	err := uc.repos.Transaction(ctx, func(tx *repositories.Repositories) error {
		if err := tx.Units.Create(ctx, &unit); err != nil {
			return err
		}
		if len(in.OwnerIDs) > 0 {
			return tx.Units.ReplaceOwners(ctx, unit.ID, uniqueIDs(in.OwnerIDs)...)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return uc.repos.Units.GetByID(ctx, unit.ID)
}

func (uc *UnitUseCase) Get(ctx context.Context, id uint) (*entities.Unit, error) {
	u, err := uc.repos.Units.GetByID(ctx, id)
	return u, notFound(err)
}

func (uc *UnitUseCase) List(ctx context.Context) ([]entities.Unit, error) {
	return uc.repos.Units.GetAll(ctx)
}

func (uc *UnitUseCase) Update(ctx context.Context, id uint, patch map[string]interface{}) (*entities.Unit, error) {
	updates, err := allowList(patch, unitFields)
	if err != nil {
		return nil, err
	}
	if status, ok := updates["status"]; ok {
		s, _ := status.(string)
		switch entities.UnitStatus(s) {
		case entities.UnitVacant, entities.UnitOccupied, entities.UnitMaintenance:
		default:
			return nil, &ValidationError{Fields: map[string]string{"status": "must be one of: VACANT, OCCUPIED, MAINTENANCE"}}
		}
	}
	if _, err := uc.repos.Units.GetByID(ctx, id); err != nil {
		return nil, notFound(err)
	}
	if len(updates) == 0 {
		return uc.repos.Units.GetByID(ctx, id)
	}
	return uc.repos.Units.Update(ctx, id, updates)
}

func (uc *UnitUseCase) Delete(ctx context.Context, id uint) error {
	return notFound(uc.repos.Units.Delete(ctx, id))
}

// SetOwner makes userID the only owner of the unit.
func (uc *UnitUseCase) SetOwner(ctx context.Context, unitID, userID uint) (*entities.Unit, error) {
	user, err := uc.repos.Users.GetByID(ctx, userID)
	if err != nil {
		return nil, notFound(err)
	}
	if user.Role != entities.RoleOwner {
		return nil, &ValidationError{Fields: map[string]string{"ownerId": "user is not an OWNER"}}
	}
	if err := uc.repos.Units.ReplaceOwners(ctx, unitID, userID); err != nil {
		return nil, notFound(err)
	}
	return uc.repos.Units.GetByID(ctx, unitID)
}
