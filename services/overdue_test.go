package services

import (
	"context"
	"testing"
	"time"

	"hoa-server/db/dbtest"
	"hoa-server/entities"
	"hoa-server/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOverdueJobMarksPastDuePending(t *testing.T) {
	ctx := context.Background()
	repos := repositories.NewPgRepositories(dbtest.New(t))
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	lease := seedLease(t, repos)

	late := &entities.Payment{LeaseID: lease.ID, Amount: 100, DueDate: now.AddDate(0, 0, -1), Status: entities.PaymentPending}
	paid := &entities.Payment{LeaseID: lease.ID, Amount: 100, DueDate: now.AddDate(0, 0, -1), Status: entities.PaymentPaid}
	future := &entities.Payment{LeaseID: lease.ID, Amount: 100, DueDate: now.AddDate(0, 0, 1), Status: entities.PaymentPending}
	for _, p := range []*entities.Payment{late, paid, future} {
		require.NoError(t, repos.Payments.Create(ctx, p))
	}

	job := NewOverdueJob(repos.Payments, 0)
	job.now = func() time.Time { return now }
	assert.Equal(t, int64(1), job.Run(ctx))
	assert.Equal(t, int64(0), job.Run(ctx))

	for p, want := range map[*entities.Payment]entities.PaymentStatus{
		late:   entities.PaymentOverdue,
		paid:   entities.PaymentPaid,
		future: entities.PaymentPending,
	} {
		got, err := repos.Payments.GetByID(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, want, got.Status)
	}
}

func seedLease(t *testing.T, repos *repositories.Repositories) *entities.Lease {
	t.Helper()
	ctx := context.Background()
	user := &entities.User{Email: "renter@example.com", PasswordHash: "x", Role: entities.RoleTenant}
	require.NoError(t, repos.Users.Create(ctx, user))
	tenant := &entities.Tenant{UserID: user.ID}
	require.NoError(t, repos.Tenants.Create(ctx, tenant))
	property := &entities.Property{Title: "Spruce"}
	require.NoError(t, repos.Properties.Create(ctx, property))
	unit := &entities.Unit{PropertyID: property.ID, UnitNumber: "1", Status: entities.UnitVacant}
	require.NoError(t, repos.Units.Create(ctx, unit))
	lease := &entities.Lease{UnitID: unit.ID, TenantID: tenant.ID, StartDate: time.Now(), MonthlyRent: 900}
	require.NoError(t, repos.Leases.Create(ctx, lease))
	return lease
}
