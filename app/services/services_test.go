package services_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/storefront/app/gateway"
	"github.com/shashiranjanraj/storefront/app/repositories"
	"github.com/shashiranjanraj/storefront/app/repositories/sqlstore"
	"github.com/shashiranjanraj/storefront/app/services"
)

var ctx = context.Background()

func newStore(t *testing.T) *repositories.Store {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_", "#", "_").Replace(t.Name())
	store, err := sqlstore.Open("sqlite", fmt.Sprintf("file:svc_%s?mode=memory&cache=shared", name))
	require.NoError(t, err)
	require.NoError(t, store.Migrate(ctx))
	t.Cleanup(func() { store.Close(ctx) })
	return store
}

// requireError asserts err is a *services.Error with status and message.
func requireError(t *testing.T, err error, status int, message string) *services.Error {
	t.Helper()
	var se *services.Error
	require.True(t, errors.As(err, &se), "expected *services.Error, got %v", err)
	assert.Equal(t, status, se.Status)
	assert.Equal(t, message, se.Message)
	return se
}

type mockGateway struct {
	mock.Mock
}

func (m *mockGateway) ClientToken(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *mockGateway) Sale(ctx context.Context, req gateway.SaleRequest) (*gateway.Transaction, error) {
	args := m.Called(ctx, req)
	tx, _ := args.Get(0).(*gateway.Transaction)
	return tx, args.Error(1)
}
