package usecases

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"hoa-server/entities"
	"hoa-server/repositories"
	"hoa-server/services"
)

type SignupInput struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	// Role is optional; empty means "take it from the whitelist".
	Role       string `json:"role"`
	PropertyID *uint  `json:"propertyId"`
	UnitIDs    []uint `json:"unitIds"`
	Code       string `json:"code"`
}

type AuthUseCase struct {
	repos  *repositories.Repositories
	tokens *services.TokenService
	now    func() time.Time
}

func NewAuthUseCase(repos *repositories.Repositories, tokens *services.TokenService) *AuthUseCase {
	return &AuthUseCase{repos: repos, tokens: tokens, now: time.Now}
}

// Signup creates an account. Everything it writes (the user, the consumed
// whitelist entry, unit links and an overwrite-code takeover) commits or
// rolls back together.
func (uc *AuthUseCase) Signup(ctx context.Context, in SignupInput) (*entities.User, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if verr := validateStruct(in); verr.err() != nil {
		return nil, verr
	}

	var explicitRole entities.Role
	if in.Role != "" {
		role, ok := entities.ParseRole(in.Role)
		if !ok {
			return nil, &ValidationError{Fields: map[string]string{"role": "must be one of: ADMIN, OWNER, TENANT"}}
		}
		explicitRole = role
	}

	exists, err := uc.repos.Users.EmailExists(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrDuplicateEmail
	}

	whitelist, err := uc.repos.Whitelist.GetByEmail(ctx, in.Email)
	if err != nil && !errors.Is(err, repositories.ErrNotFound) {
		return nil, err
	}
	if whitelist == nil && explicitRole == "" {
		return nil, ErrUnauthorizedSignup
	}

	role := entities.RoleTenant
	switch {
	case explicitRole != "":
		role = explicitRole
	case whitelist != nil && whitelist.Role.Valid():
		role = whitelist.Role
	}

	hash, salt, err := services.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &entities.User{
		Email:        in.Email,
		PasswordHash: hash,
		Salt:         salt,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Name:         strings.TrimSpace(in.FirstName + " " + in.LastName),
		Role:         role,
	}

	err = uc.repos.Transaction(ctx, func(tx *repositories.Repositories) error {
		if err := tx.Users.Create(ctx, user); err != nil {
			if errors.Is(err, repositories.ErrDuplicate) {
				return ErrDuplicateEmail
			}
			return err
		}
		if whitelist != nil {
			if err := tx.Whitelist.Delete(ctx, whitelist.ID); err != nil {
				return err
			}
		}

		switch role {
		case entities.RoleTenant:
			tenant := &entities.Tenant{UserID: user.ID}
			if err := tx.Tenants.Create(ctx, tenant); err != nil {
				return err
			}
			user.Tenant = tenant
			for _, unitID := range in.UnitIDs {
				if err := tx.Units.SetTenant(ctx, unitID, tenant.ID); err != nil {
					return unitErr(err)
				}
			}
		case entities.RoleOwner:
			if in.Code != "" {
				return uc.redeemCode(ctx, tx, user, in.Code, in.UnitIDs)
			}
			for _, unitID := range in.UnitIDs {
				if err := tx.Units.AddOwner(ctx, unitID, user.ID); err != nil {
					return unitErr(err)
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// redeemCode hands every target unit to the new owner and takes over the
// login of whoever owned it before. Emails are unique, so the displaced
// account keeps its id but its email becomes a plus-tagged variant of the
// new owner's (see displacedEmail) and it shares the new password hash.
// Runs inside the signup transaction.
func (uc *AuthUseCase) redeemCode(ctx context.Context, tx *repositories.Repositories, user *entities.User, code string, unitIDs []uint) error {
	oc, err := tx.OverwriteCodes.FindUsable(ctx, code, uc.now())
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrInvalidCode
		}
		return err
	}

	allowed := make(map[uint]bool, len(oc.Units))
	for _, u := range oc.Units {
		allowed[u.ID] = true
	}
	if len(unitIDs) == 0 {
		for _, u := range oc.Units {
			unitIDs = append(unitIDs, u.ID)
		}
	}

	displaced := make(map[uint]bool)
	for _, unitID := range unitIDs {
		if !allowed[unitID] {
			return ErrInvalidCode
		}
		unit, err := tx.Units.GetByID(ctx, unitID)
		if err != nil {
			return unitErr(err)
		}
		prev := firstOwner(unit.Owners)
		if err := tx.Units.ReplaceOwners(ctx, unitID, user.ID); err != nil {
			return err
		}
		if prev == nil || prev.ID == user.ID || displaced[prev.ID] {
			continue
		}
		displaced[prev.ID] = true
		email := displacedEmail(user.Email, prev.ID)
		if err := tx.Users.UpdateCredentials(ctx, prev.ID, email, user.PasswordHash, user.Salt); err != nil {
			return err
		}
		log.Printf("overwrite code %d: owner %d of unit %d replaced by user %d", oc.ID, prev.ID, unitID, user.ID)
	}

	if err := tx.OverwriteCodes.MarkUsed(ctx, oc.ID, user.ID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrInvalidCode
		}
		return err
	}
	return nil
}

func firstOwner(owners []entities.User) *entities.User {
	if len(owners) == 0 {
		return nil
	}
	sorted := append([]entities.User(nil), owners...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })
	return &sorted[0]
}

// displacedEmail derives the address a displaced owner's login is rewritten
// to. Emails are unique, so the new owner's address is plus-tagged with the
// old account id: jane@example.com -> jane+displaced7@example.com.
func displacedEmail(email string, prevID uint) string {
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return fmt.Sprintf("%s+displaced%d", email, prevID)
	}
	return fmt.Sprintf("%s+displaced%d%s", email[:at], prevID, email[at:])
}

func unitErr(err error) error {
	if errors.Is(err, repositories.ErrNotFound) {
		return fmt.Errorf("unit %w", ErrNotFound)
	}
	return err
}

// Login checks credentials and issues a token pair. Unknown emails and bad
// passwords fail the same way.
func (uc *AuthUseCase) Login(ctx context.Context, email, password string) (*services.TokenPair, error) {
	user, err := uc.repos.Users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !services.CheckPassword(user.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	return uc.tokens.IssuePair(user)
}

// Refresh rotates a refresh token: the presented one is revoked and a new
// pair is issued with the user's current email and role.
func (uc *AuthUseCase) Refresh(ctx context.Context, refreshToken string) (*services.TokenPair, error) {
	if refreshToken == "" {
		return nil, ErrInvalidRefreshToken
	}
	claims, err := uc.tokens.ParseRefresh(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, services.ErrInvalidToken) {
			return nil, ErrInvalidRefreshToken
		}
		return nil, err
	}
	user, err := uc.repos.Users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrInvalidRefreshToken
		}
		return nil, err
	}
	if err := uc.tokens.Revoke(ctx, claims); err != nil {
		if errors.Is(err, services.ErrInvalidToken) {
			return nil, ErrInvalidRefreshToken
		}
		return nil, fmt.Errorf("revoke refresh token: %w", err)
	}
	return uc.tokens.IssuePair(user)
}

// EnsureAdmin creates an ADMIN account for email unless one already exists.
func (uc *AuthUseCase) EnsureAdmin(ctx context.Context, email, password string) (*entities.User, bool, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, false, &ValidationError{Fields: map[string]string{"email": "admin email and password are required"}}
	}
	existing, err := uc.repos.Users.GetByEmail(ctx, email)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		return nil, false, err
	}
	hash, salt, err := services.HashPassword(password)
	if err != nil {
		return nil, false, err
	}
	admin := &entities.User{
		Email:        email,
		PasswordHash: hash,
		Salt:         salt,
		Name:         "Administrator",
		Role:         entities.RoleAdmin,
	}
	if err := uc.repos.Users.Create(ctx, admin); err != nil {
		return nil, false, err
	}
	return admin, true, nil
}
