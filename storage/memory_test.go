package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"partsapi/models"
)

func TestUpsertUser(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	t.Run("Second call overwrites the first", func(t *testing.T) {
		_, err := s.UpsertUser(ctx, models.User{Email: "a@x.com", Role: models.RoleCustomer})
		require.NoError(t, err)
		u, err := s.UpsertUser(ctx, models.User{Email: "a@x.com", Role: models.RoleAdmin})
		require.NoError(t, err)
		assert.Equal(t, models.RoleAdmin, u.Role)

		users, err := s.ListUsers(ctx)
		require.NoError(t, err)
		require.Len(t, users, 1)
		assert.Equal(t, models.User{Email: "a@x.com", Role: models.RoleAdmin}, users[0])
	})

	t.Run("Empty fields keep stored values", func(t *testing.T) {
		u, err := s.UpsertUser(ctx, models.User{Email: "a@x.com", Name: "Ann"})
		require.NoError(t, err)
		assert.Equal(t, models.RoleAdmin, u.Role)
		assert.Equal(t, "Ann", u.Name)
	})

	t.Run("New user defaults to customer", func(t *testing.T) {
		u, err := s.UpsertUser(ctx, models.User{Email: "b@x.com"})
		require.NoError(t, err)
		assert.Equal(t, models.RoleCustomer, u.Role)
	})
}

func TestFindUserMissing(t *testing.T) {
	_, err := NewMemoryStore().FindUser(context.Background(), "nobody@x.com")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSetRole(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	_, _ = s.UpsertUser(ctx, models.User{Email: "a@x.com"})

	matched, modified, err := s.SetRole(ctx, "a@x.com", models.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, int64(1), matched)
	assert.Equal(t, int64(1), modified)

	matched, modified, err = s.SetRole(ctx, "a@x.com", models.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, int64(1), matched)
	assert.Equal(t, int64(0), modified)

	matched, _, err = s.SetRole(ctx, "ghost@x.com", models.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, int64(0), matched)
}

func TestMarkOrderPaid(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	id, err := s.InsertOrder(ctx, &models.Order{Email: "a@x.com", ProductName: "Bolt", Quantity: 5, Price: 10})
	require.NoError(t, err)

	require.NoError(t, s.MarkOrderPaid(ctx, id, "tx_1", models.StatusPending))

	o, err := s.FindOrder(ctx, id)
	require.NoError(t, err)
	assert.True(t, o.Paid)
	assert.Equal(t, "tx_1", o.TransactionID)
	assert.Equal(t, models.StatusPending, o.Status)

	t.Run("Second confirmation is rejected", func(t *testing.T) {
		err := s.MarkOrderPaid(ctx, id, "tx_2", models.StatusPending)
		assert.ErrorIs(t, err, ErrAlreadyPaid)

		o, _ := s.FindOrder(ctx, id)
		assert.Equal(t, "tx_1", o.TransactionID)
	})

	t.Run("Unknown order", func(t *testing.T) {
		err := s.MarkOrderPaid(ctx, primitive.NewObjectID(), "tx_3", models.StatusPending)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestDeleteOrderOwnedBy(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	id, _ := s.InsertOrder(ctx, &models.Order{Email: "a@x.com", ProductName: "Bolt"})

	n, err := s.DeleteOrderOwnedBy(ctx, id, "b@x.com")
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)

	n, err = s.DeleteOrderOwnedBy(ctx, id, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	_, err = s.FindOrder(ctx, id)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListOrdersByEmail(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	_, _ = s.InsertOrder(ctx, &models.Order{Email: "a@x.com", ProductName: "Bolt"})
	_, _ = s.InsertOrder(ctx, &models.Order{Email: "b@x.com", ProductName: "Nut"})
	_, _ = s.InsertOrder(ctx, &models.Order{Email: "a@x.com", ProductName: "Washer"})

	orders, err := s.ListOrdersByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, "Bolt", orders[0].ProductName)
	assert.Equal(t, "Washer", orders[1].ProductName)

	none, err := s.ListOrdersByEmail(ctx, "c@x.com")
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestProducts(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	id, err := s.InsertProduct(ctx, &models.Product{Name: "Bolt", Price: 0.5, Quantity: 100})
	require.NoError(t, err)

	p, err := s.FindProduct(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Bolt", p.Name)

	n, err := s.DeleteProduct(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	_, err = s.FindProduct(ctx, id)
	assert.ErrorIs(t, err, ErrNotFound)
}
