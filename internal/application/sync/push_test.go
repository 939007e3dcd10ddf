package sync_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appsync "github.com/jhoicas/Clientes-api/internal/application/sync"
	"github.com/jhoicas/Clientes-api/internal/domain/entity"
)

// OnCreate sin shopifyId: crea en remoto y escribe el ID devuelto en la entidad.
func TestPushGateway_OnCreate_AsignaShopifyID(t *testing.T) {
	gw := &fakeGateway{
		createFn: func(fields appsync.CustomerFields) (*appsync.RemoteCustomer, error) {
			assert.Equal(t, "ana@example.com", fields.Email)
			return &appsync.RemoteCustomer{ID: "910010"}, nil
		},
	}
	push := appsync.NewPushGateway(gw)
	customer := &entity.Customer{ID: "local-1", Email: "ana@example.com"}

	require.NoError(t, push.OnCreate(context.Background(), customer))
	require.NotNil(t, customer.ShopifyID)
	assert.Equal(t, "910010", *customer.ShopifyID)
}

// OnCreate con shopifyId preasignado: no toca el remoto.
func TestPushGateway_OnCreate_ConIDPreasignado_NoLlama(t *testing.T) {
	called := false
	gw := &fakeGateway{
		createFn: func(appsync.CustomerFields) (*appsync.RemoteCustomer, error) {
			called = true
			return &appsync.RemoteCustomer{ID: "x"}, nil
		},
	}
	push := appsync.NewPushGateway(gw)
	shopifyID := "777"
	customer := &entity.Customer{ID: "local-1", ShopifyID: &shopifyID}

	require.NoError(t, push.OnCreate(context.Background(), customer))
	assert.False(t, called)
	assert.Equal(t, "777", *customer.ShopifyID)
}

// OnUpdate con vínculo previo: la falla remota es dura y se propaga.
func TestPushGateway_OnUpdate_FallaRemota_Propaga(t *testing.T) {
	gw := &fakeGateway{
		updateFn: func(string, appsync.CustomerFields) (*appsync.RemoteCustomer, error) {
			return nil, appsync.NewRemoteError("customerUpdate", errors.New("Email has already been taken"))
		},
	}
	push := appsync.NewPushGateway(gw)
	prev := "888"

	err := push.OnUpdate(context.Background(), &entity.Customer{ID: "local-1"}, &prev)
	require.Error(t, err)

	var gwErr *appsync.GatewayError
	require.ErrorAs(t, err, &gwErr)
	assert.Equal(t, appsync.KindRemote, gwErr.Kind)
}

// OnUpdate sin vínculo previo: no hay nada que propagar.
func TestPushGateway_OnUpdate_SinVinculo_NoLlama(t *testing.T) {
	called := false
	gw := &fakeGateway{
		updateFn: func(string, appsync.CustomerFields) (*appsync.RemoteCustomer, error) {
			called = true
			return nil, nil
		},
	}
	push := appsync.NewPushGateway(gw)

	require.NoError(t, push.OnUpdate(context.Background(), &entity.Customer{ID: "local-1"}, nil))
	assert.False(t, called)
}

// OnDelete: la falla remota bloquea (el caller no debe borrar localmente).
func TestPushGateway_OnDelete_FallaRemota_Bloquea(t *testing.T) {
	gw := &fakeGateway{
		deleteFn: func(string) (string, error) {
			return "", appsync.NewProtocolError("customerDelete", errors.New("HTTP 500"))
		},
	}
	push := appsync.NewPushGateway(gw)
	shopifyID := "999"

	err := push.OnDelete(context.Background(), &entity.Customer{ID: "local-1", ShopifyID: &shopifyID})
	assert.Error(t, err)
}
