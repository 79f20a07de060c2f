package service

import (
	"clientschedule/cmd/internal/domain/entity"
	"clientschedule/cmd/internal/domain/sqlite"
	"clientschedule/cmd/internal/domain/sqlite/repository"
	"clientschedule/cmd/internal/lookup"
	"clientschedule/cmd/internal/utils/validators"
	"context"
	"net/http"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type customerFixture struct {
	svc       *DefaultCustomerService
	appts     *repository.DefaultAppointmentRepository
	customers *lookup.Resolver[entity.Customer]
}

func newCustomerFixture(t *testing.T) *customerFixture {
	t.Helper()
	db, err := sqlite.Init(filepath.Join(t.TempDir(), "customers.db"))
	require.NoError(t, err)
	require.NoError(t, sqlite.Seed(db))

	retry := sqlite.NewRetrier(3, time.Millisecond)
	customerRepo := repository.NewCustomerRepository(db, retry)
	cache, err := lookup.NewLRUCache[entity.Customer](8)
	require.NoError(t, err)
	customers := lookup.NewResolver[entity.Customer]("customer", customerRepo.FindByID, cache)

	validate := validator.New()
	validators.Register(validate)

	return &customerFixture{
		svc:       NewCustomerService(customerRepo, repository.NewDivisionRepository(db, retry), validate, customers),
		appts:     repository.NewAppointmentRepository(db, retry),
		customers: customers,
	}
}

func customerRequest(name string, divisionID int) *CustomerRequest {
	return &CustomerRequest{
		Name:        name,
		Address:     "123 ABC Street, White Plains",
		PostalCode:  "10601",
		PhoneNumber: "869-908-1875",
		DivisionID:  &divisionID,
	}
}

func TestCustomerService_CreateAndUpdate(t *testing.T) {
	f := newCustomerFixture(t)
	ctx := context.Background()

	created, apierr := f.svc.CreateCustomer(ctx, customerRequest(" Daddy Warbucks ", 29), "test")
	require.Nil(t, apierr)
	assert.Equal(t, "Daddy Warbucks", created.Name)
	assert.Equal(t, "test", created.CreatedBy)

	// Prime the resolver so the update has to evict it.
	cached, found, err := f.customers.Resolve(ctx, created.ID)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "Daddy Warbucks", cached.Name)

	updated, apierr := f.svc.UpdateCustomer(ctx, created.ID, customerRequest("Lady McAnderson", 101), "admin")
	require.Nil(t, apierr)
	assert.Equal(t, "test", updated.CreatedBy)
	assert.Equal(t, "admin", updated.UpdatedBy)
	assert.Equal(t, 101, updated.DivisionID)

	cached, _, err = f.customers.Resolve(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Lady McAnderson", cached.Name)
}

func TestCustomerService_RejectsInvalidRequests(t *testing.T) {
	f := newCustomerFixture(t)
	ctx := context.Background()

	_, apierr := f.svc.CreateCustomer(ctx, customerRequest("Nowhere Inc", 9999), "test")
	require.NotNil(t, apierr)
	assert.Equal(t, http.StatusUnprocessableEntity, apierr.Code())

	bad := customerRequest("Bad Phone", 29)
	bad.PhoneNumber = "call me"
	_, apierr = f.svc.CreateCustomer(ctx, bad, "test")
	require.NotNil(t, apierr)
	assert.Equal(t, http.StatusBadRequest, apierr.Code())

	_, apierr = f.svc.UpdateCustomer(ctx, 404, customerRequest("Ghost", 29), "test")
	require.NotNil(t, apierr)
	assert.Equal(t, http.StatusNotFound, apierr.Code())
}

func TestCustomerService_DeleteCascades(t *testing.T) {
	f := newCustomerFixture(t)
	ctx := context.Background()

	created, apierr := f.svc.CreateCustomer(ctx, customerRequest("Short Lived", 60), "test")
	require.Nil(t, apierr)

	start := time.Date(2024, 3, 1, 14, 0, 0, 0, time.UTC)
	require.NoError(t, f.appts.Save(ctx, &entity.Appointment{
		ContactID: 1, CustomerID: created.ID, UserID: 1,
		Title: "Kickoff", Description: "Kickoff", Location: "Room 1", Type: "Planning",
		StartsAt: start.UnixMilli(), EndsAt: start.Add(time.Hour).UnixMilli(),
		CreatedBy: "test", UpdatedBy: "test",
	}))

	require.Nil(t, f.svc.DeleteCustomer(ctx, created.ID))

	remaining, err := f.appts.FindAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, remaining)

	_, found, err := f.customers.Resolve(ctx, created.ID)
	require.NoError(t, err)
	assert.False(t, found)

	apierr = f.svc.DeleteCustomer(ctx, created.ID)
	require.NotNil(t, apierr)
	assert.Equal(t, http.StatusNotFound, apierr.Code())
}

func TestDirectoryService(t *testing.T) {
	db, err := sqlite.Init(filepath.Join(t.TempDir(), "directory.db"))
	require.NoError(t, err)
	require.NoError(t, sqlite.Seed(db))
	retry := sqlite.NewRetrier(1, 0)
	svc := NewDirectoryService(repository.NewContactRepository(db, retry), repository.NewDivisionRepository(db, retry))
	ctx := context.Background()

	contacts, apierr := svc.GetContacts(ctx)
	require.Nil(t, apierr)
	assert.Len(t, contacts, 3)

	countries, apierr := svc.GetCountries(ctx)
	require.Nil(t, apierr)
	require.Len(t, countries, 3)
	assert.Equal(t, "U.S", countries[0].Name)

	divisions, apierr := svc.GetDivisions(ctx, 2)
	require.Nil(t, apierr)
	require.Len(t, divisions, 2)
	assert.Equal(t, "England", divisions[0].Name)
}
