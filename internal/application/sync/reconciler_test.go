package sync_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appsync "github.com/jhoicas/Clientes-api/internal/application/sync"
	"github.com/jhoicas/Clientes-api/internal/domain/entity"
)

func newReconcilerFixture() (*appsync.Reconciler, *memCustomerRepo, *memCompanyRepo) {
	customers := newMemCustomerRepo()
	companies := newMemCompanyRepo()
	tx := &memTxRunner{customers: customers, companies: companies}
	return appsync.NewReconciler(tx), customers, companies
}

// Candidato nuevo sin empresa: se crea con shopifyId, nombre completo derivado
// y timestamps remotos (no reloj de pared).
func TestReconciler_CandidatoNuevo_Crea(t *testing.T) {
	rec, customers, _ := newReconcilerFixture()
	remote := remoteCustomer("501", "Ana", "García", "ana@example.com")

	outcome, err := rec.Reconcile(context.Background(), remote, "")
	require.NoError(t, err)
	assert.Equal(t, appsync.OutcomeCreated, outcome)

	created, err := customers.GetByShopifyID("501")
	require.NoError(t, err)
	require.NotNil(t, created)
	assert.Equal(t, "Ana García", created.FullName)
	assert.Nil(t, created.CompanyID)
	assert.True(t, created.UpdatedAt.Equal(remote.UpdatedAt), "updatedAt debe ser el timestamp remoto")
	assert.True(t, created.CreatedAt.Equal(remote.CreatedAt))
}

// Candidato existente: el remoto es autoritativo y sobrescribe todos los campos.
func TestReconciler_CandidatoExistente_Actualiza(t *testing.T) {
	rec, customers, _ := newReconcilerFixture()
	shopifyID := "502"
	require.NoError(t, customers.Create(&entity.Customer{
		ID:        "local-1",
		FirstName: "Viejo",
		LastName:  "Nombre",
		FullName:  "Viejo Nombre",
		Email:     "viejo@example.com",
		ShopifyID: &shopifyID,
		UpdatedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}))

	remote := remoteCustomer("502", "Nuevo", "Nombre", "nuevo@example.com")
	outcome, err := rec.Reconcile(context.Background(), remote, "")
	require.NoError(t, err)
	assert.Equal(t, appsync.OutcomeUpdated, outcome)

	updated, err := customers.GetByID("local-1")
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, "nuevo@example.com", updated.Email)
	assert.Equal(t, "Nuevo Nombre", updated.FullName)
	assert.True(t, updated.UpdatedAt.Equal(remote.UpdatedAt))
	assert.Equal(t, 1, customers.count(), "update, no duplicado")
}

// Dirección con empresa: se crea la empresa y el cliente queda vinculado.
func TestReconciler_DireccionConEmpresa_CreaYVincula(t *testing.T) {
	rec, customers, companies := newReconcilerFixture()
	remote := remoteCustomer("503", "Luis", "Pérez", "luis@acme.com")
	remote.Phone = "+573001112233"
	remote.DefaultAddress = &appsync.RemoteAddress{
		Company:  "ACME S.A.S.",
		Address1: "Calle 10 #5-51",
		City:     "Medellín",
		Country:  "Colombia",
	}

	_, err := rec.Reconcile(context.Background(), remote, "")
	require.NoError(t, err)

	company, err := companies.GetByName("ACME S.A.S.")
	require.NoError(t, err)
	require.NotNil(t, company, "la empresa debe crearse desde la dirección")
	assert.Equal(t, "luis@acme.com", company.Email, "email de respaldo del cliente")
	assert.Equal(t, "Calle 10 #5-51", company.Address1)

	created, err := customers.GetByShopifyID("503")
	require.NoError(t, err)
	require.NotNil(t, created.CompanyID)
	assert.Equal(t, company.ID, *created.CompanyID)
}

// Dedup por nombre: dos candidatos con la misma empresa comparten la fila,
// y los datos almacenados no se sobrescriben en el hit.
func TestReconciler_EmpresaExistente_NoSobrescribe(t *testing.T) {
	rec, _, companies := newReconcilerFixture()

	first := remoteCustomer("504", "Ana", "García", "ana@acme.com")
	first.DefaultAddress = &appsync.RemoteAddress{Company: "ACME S.A.S.", City: "Medellín"}
	_, err := rec.Reconcile(context.Background(), first, "")
	require.NoError(t, err)

	second := remoteCustomer("505", "Luis", "Pérez", "luis@acme.com")
	second.DefaultAddress = &appsync.RemoteAddress{Company: "ACME S.A.S.", City: "Bogotá"}
	_, err = rec.Reconcile(context.Background(), second, "")
	require.NoError(t, err)

	assert.Equal(t, 1, companies.count(), "una sola empresa por nombre")
	company, err := companies.GetByName("ACME S.A.S.")
	require.NoError(t, err)
	assert.Equal(t, "Medellín", company.City, "el hit no pisa los datos existentes")
	assert.Equal(t, "ana@acme.com", company.Email)
}

// Cliente existente cuyo remoto llega sin empresa: conserva la asignación local.
func TestReconciler_UpdateSinEmpresa_ConservaLaActual(t *testing.T) {
	rec, customers, companies := newReconcilerFixture()
	require.NoError(t, companies.Create(&entity.Company{ID: "comp-1", Name: "ACME S.A.S."}))
	shopifyID := "506"
	companyID := "comp-1"
	require.NoError(t, customers.Create(&entity.Customer{
		ID:        "local-2",
		ShopifyID: &shopifyID,
		CompanyID: &companyID,
	}))

	remote := remoteCustomer("506", "Ana", "García", "ana@example.com")
	_, err := rec.Reconcile(context.Background(), remote, "")
	require.NoError(t, err)

	updated, err := customers.GetByID("local-2")
	require.NoError(t, err)
	require.NotNil(t, updated.CompanyID)
	assert.Equal(t, "comp-1", *updated.CompanyID, "sin empresa remota no hay reasignación")
}

// Candidato nuevo sin empresa en la dirección: hereda la empresa por defecto.
func TestReconciler_EmpresaPorDefecto_EnCreacion(t *testing.T) {
	rec, customers, _ := newReconcilerFixture()
	remote := remoteCustomer("507", "Marta", "Ruiz", "marta@example.com")

	_, err := rec.Reconcile(context.Background(), remote, "default-company")
	require.NoError(t, err)

	created, err := customers.GetByShopifyID("507")
	require.NoError(t, err)
	require.NotNil(t, created.CompanyID)
	assert.Equal(t, "default-company", *created.CompanyID)
}
