package sync

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jhoicas/Clientes-api/internal/domain/entity"
	"github.com/jhoicas/Clientes-api/internal/domain/repository"
)

// Outcome resultado de reconciliar un candidato.
type Outcome string

const (
	OutcomeCreated Outcome = "created"
	OutcomeUpdated Outcome = "updated"
)

// Reconciler aplica un registro remoto sobre el store local como upsert por
// shopifyId. En el pull el remoto es autoritativo: el update sobrescribe todos
// los campos, incluido updatedAt (timestamp remoto, no reloj de pared).
type Reconciler struct {
	tx TxRunner
}

// NewReconciler construye el motor de upsert.
func NewReconciler(tx TxRunner) *Reconciler {
	return &Reconciler{tx: tx}
}

// Reconcile decide create-or-update para un registro remoto y lo aplica dentro
// de una transacción, de modo que la unicidad de shopify_id quede garantizada
// por registro. defaultCompanyID vacío = los clientes nuevos sin empresa en su
// dirección quedan sin asignar.
func (r *Reconciler) Reconcile(ctx context.Context, remote RemoteCustomer, defaultCompanyID string) (Outcome, error) {
	var outcome Outcome
	err := r.tx.Run(ctx, func(
		customers repository.CustomerRepository,
		companies repository.CompanyRepository,
	) error {
		resolver := NewCompanyResolver(companies)

		existing, err := customers.GetByShopifyID(remote.ID)
		if err != nil {
			return fmt.Errorf("buscar cliente shopify %s: %w", remote.ID, err)
		}

		if existing != nil {
			companyID := existing.CompanyID
			if resolved, err := resolver.Resolve(remote.DefaultAddress, remote.Email, remote.Phone); err != nil {
				return err
			} else if resolved != nil {
				companyID = resolved
			}

			existing.Email = remote.Email
			existing.FirstName = remote.FirstName
			existing.LastName = remote.LastName
			existing.FullName = entity.DeriveFullName(remote.FirstName, remote.LastName)
			existing.Phone = remote.Phone
			existing.CompanyID = companyID
			existing.UpdatedAt = remote.UpdatedAt
			if err := customers.Update(existing); err != nil {
				return fmt.Errorf("actualizar cliente shopify %s: %w", remote.ID, err)
			}
			outcome = OutcomeUpdated
			return nil
		}

		var companyID *string
		if defaultCompanyID != "" {
			companyID = &defaultCompanyID
		}
		if resolved, err := resolver.Resolve(remote.DefaultAddress, remote.Email, remote.Phone); err != nil {
			return err
		} else if resolved != nil {
			companyID = resolved
		}

		shopifyID := remote.ID
		customer := &entity.Customer{
			ID:        uuid.New().String(),
			FirstName: remote.FirstName,
			LastName:  remote.LastName,
			FullName:  entity.DeriveFullName(remote.FirstName, remote.LastName),
			Email:     remote.Email,
			Phone:     remote.Phone,
			ShopifyID: &shopifyID,
			CompanyID: companyID,
			CreatedAt: remote.CreatedAt,
			UpdatedAt: remote.UpdatedAt,
		}
		if err := customers.Create(customer); err != nil {
			return fmt.Errorf("crear cliente shopify %s: %w", remote.ID, err)
		}
		outcome = OutcomeCreated
		return nil
	})
	if err != nil {
		return "", err
	}
	return outcome, nil
}
