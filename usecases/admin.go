package usecases

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strconv"
	"time"

	"hoa-server/entities"
	"hoa-server/repositories"
	"hoa-server/services"
)

const overwriteCodeTTL = 15 * 24 * time.Hour

type GenerateCodeInput struct {
	PropertyID *uint  `json:"propertyId"`
	AllUnits   bool   `json:"allUnits"`
	UnitIDs    []uint `json:"unitIds"`
}

type PropertySummary struct {
	ID            uint   `json:"id"`
	Title         string `json:"title"`
	TotalUnits    int    `json:"totalUnits"`
	OccupiedUnits int    `json:"occupiedUnits"`
}

type whitelistEntry struct {
	Email string `json:"email" validate:"required,email"`
	Role  string `json:"role" validate:"required,oneof=TENANT OWNER"`
}

type AdminUseCase struct {
	repos *repositories.Repositories
	now   func() time.Time
}

func NewAdminUseCase(repos *repositories.Repositories) *AdminUseCase {
	return &AdminUseCase{repos: repos, now: time.Now}
}

// GenerateOverwriteCode issues a single-use code valid for 15 days that lets
// a new owner take over the resolved units.
func (uc *AdminUseCase) GenerateOverwriteCode(ctx context.Context, in GenerateCodeInput) (*entities.OverwriteCode, error) {
	ids := in.UnitIDs
	if in.AllUnits && in.PropertyID != nil {
		var err error
		ids, err = uc.repos.Units.IDsByPropertyID(ctx, *in.PropertyID)
		if err != nil {
			return nil, err
		}
	}
	ids = uniqueIDs(ids)
	if len(ids) == 0 {
		return nil, ErrNoUnitsSpecified
	}
	for _, id := range ids {
		if _, err := uc.repos.Units.GetByID(ctx, id); err != nil {
			return nil, unitErr(err)
		}
	}

	code, err := randomCode()
	if err != nil {
		return nil, fmt.Errorf("generate code: %w", err)
	}
	oc := &entities.OverwriteCode{
		Code:      code,
		ExpiresAt: uc.now().Add(overwriteCodeTTL),
	}
	if err := uc.repos.OverwriteCodes.Create(ctx, oc, ids); err != nil {
		return nil, err
	}
	return oc, nil
}

func randomCode() (string, error) {
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

func uniqueIDs(ids []uint) []uint {
	seen := make(map[uint]bool, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if id == 0 || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

// AdminProperties summarises the properties an admin manages.
func (uc *AdminUseCase) AdminProperties(ctx context.Context, adminID uint) ([]PropertySummary, error) {
	properties, err := uc.repos.Properties.GetByManagerID(ctx, adminID)
	if err != nil {
		return nil, err
	}
	out := make([]PropertySummary, 0, len(properties))
	for _, p := range properties {
		s := PropertySummary{ID: p.ID, Title: p.Title, TotalUnits: len(p.Units)}
		for _, u := range p.Units {
			if u.Status == entities.UnitOccupied {
				s.OccupiedUnits++
			}
		}
		out = append(out, s)
	}
	return out, nil
}

// ImportWhitelist validates every uploaded row and, only if all are valid,
// upserts them in one transaction. It returns the number of rows stored.
func (uc *AdminUseCase) ImportWhitelist(ctx context.Context, rows []services.WhitelistRow) (int, error) {
	if len(rows) == 0 {
		return 0, &ValidationError{Fields: map[string]string{"file": "no rows found"}}
	}
	verr := &ValidationError{}
	entries := make([]whitelistEntry, 0, len(rows))
	for _, row := range rows {
		role, _ := entities.ParseRole(row.Role)
		entry := whitelistEntry{Email: row.Email, Role: string(role)}
		if rowErr := validateStruct(entry); rowErr.err() != nil {
			for field, msg := range rowErr.Fields {
				verr.add("row "+strconv.Itoa(row.Line)+" "+field, msg)
			}
			continue
		}
		entries = append(entries, entry)
	}
	if verr.err() != nil {
		return 0, verr
	}

	err := uc.repos.Transaction(ctx, func(tx *repositories.Repositories) error {
		for _, e := range entries {
			if err := tx.Whitelist.Upsert(ctx, e.Email, entities.Role(e.Role)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return len(entries), nil
}

func (uc *AdminUseCase) Whitelist(ctx context.Context) ([]entities.WhitelistedUser, error) {
	return uc.repos.Whitelist.GetAll(ctx)
}

func (uc *AdminUseCase) RemoveWhitelisted(ctx context.Context, id uint) error {
	return uc.repos.Whitelist.Delete(ctx, id)
}
