package sync

import (
	"context"
	"fmt"

	"github.com/jhoicas/Clientes-api/internal/domain/entity"
)

// PushGateway propaga mutaciones locales de clientes hacia Shopify de forma
// síncrona, dentro de la misma operación lógica que la escritura local.
// A diferencia del pull, una falla aquí es dura: el caller debe verla.
type PushGateway struct {
	gateway CustomerGateway
}

// NewPushGateway construye el propagador de push.
func NewPushGateway(gateway CustomerGateway) *PushGateway {
	return &PushGateway{gateway: gateway}
}

// OnCreate crea el cliente en Shopify cuando no trae shopifyId preasignado y
// escribe el ID remoto devuelto sobre la entidad, para que el create local lo
// persista en la misma operación.
func (p *PushGateway) OnCreate(ctx context.Context, customer *entity.Customer) error {
	if customer.ShopifyID != nil && *customer.ShopifyID != "" {
		return nil
	}
	remote, err := p.gateway.Create(ctx, CustomerFields{
		Email:     customer.Email,
		FirstName: customer.FirstName,
		LastName:  customer.LastName,
		Phone:     customer.Phone,
		CompanyID: customer.CompanyID,
	})
	if err != nil {
		return fmt.Errorf("crear cliente en Shopify: %w", err)
	}
	shopifyID := remote.ID
	customer.ShopifyID = &shopifyID
	return nil
}

// OnUpdate refleja la actualización en Shopify cuando el cliente ya estaba
// vinculado. La escritura local no debe proceder si el update remoto falla.
func (p *PushGateway) OnUpdate(ctx context.Context, customer *entity.Customer, previousShopifyID *string) error {
	if previousShopifyID == nil || *previousShopifyID == "" {
		return nil
	}
	_, err := p.gateway.Update(ctx, *previousShopifyID, CustomerFields{
		Email:     customer.Email,
		FirstName: customer.FirstName,
		LastName:  customer.LastName,
		Phone:     customer.Phone,
		CompanyID: customer.CompanyID,
	})
	if err != nil {
		return fmt.Errorf("actualizar cliente en Shopify: %w", err)
	}
	return nil
}

// OnDelete borra el registro remoto ANTES de permitir el delete local: si el
// remoto falla, el registro local queda intacto (evita que el registro remoto
// sobreviva a su referencia local).
func (p *PushGateway) OnDelete(ctx context.Context, customer *entity.Customer) error {
	if customer.ShopifyID == nil || *customer.ShopifyID == "" {
		return nil
	}
	if _, err := p.gateway.Delete(ctx, *customer.ShopifyID); err != nil {
		return fmt.Errorf("eliminar cliente en Shopify: %w", err)
	}
	return nil
}
