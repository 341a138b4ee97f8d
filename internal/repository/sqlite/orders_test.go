package sqlite

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/creamcroissant/shopadmin/internal/migrations"
	"github.com/creamcroissant/shopadmin/internal/repository"
)

// testStore creates a migrated SQLite database in a temp dir.
func testStore(t *testing.T) *Store {
	t.Helper()
	db, err := sql.Open("sqlite", "file:"+filepath.Join(t.TempDir(), "test.db")+"?_pragma=foreign_keys(1)")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, migrations.Up(db))
	return NewStore(db)
}

func seedOrders() []*repository.Order {
	return []*repository.Order{
		{ID: "o1", FirstName: "Ada", City: "London", Total: 10, CartItems: []repository.CartItem{
			{ProductName: "Lamp", Image: &repository.ImageRef{Ref: "image-abc-40x40-png"}},
			{ProductName: "Chair"},
		}},
		{ID: "o2", FirstName: "Grace", Phone: "555-2", Status: repository.StatusPending, CartItems: []repository.CartItem{
			{ProductName: "Desk", Image: &repository.ImageRef{URL: "https://img.example.com/desk.png"}},
		}},
		{ID: "o3", FirstName: "Linus", Status: repository.StatusSuccess},
	}
}

func TestSeedAndList(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	n, err := store.Seed(ctx, seedOrders())
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	orders, err := store.Orders().List(ctx)
	require.NoError(t, err)
	require.Len(t, orders, 3)

	assert.Equal(t, []string{"o1", "o2", "o3"}, []string{orders[0].ID, orders[1].ID, orders[2].ID})
	assert.Equal(t, repository.StatusUnset, orders[0].Status)
	assert.Equal(t, repository.StatusPending, orders[1].Status)
	require.Len(t, orders[0].CartItems, 2)
	assert.Equal(t, "Lamp", orders[0].CartItems[0].ProductName)
	assert.Equal(t, "image-abc-40x40-png", orders[0].CartItems[0].Image.Ref)
	assert.Nil(t, orders[0].CartItems[1].Image)
	assert.Equal(t, "https://img.example.com/desk.png", orders[1].CartItems[0].Image.Source())
	assert.Empty(t, orders[2].CartItems)
}

func TestSeedReplacesCartItems(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()
	_, err := store.Seed(ctx, seedOrders())
	require.NoError(t, err)

	_, err = store.Seed(ctx, []*repository.Order{{ID: "o1", FirstName: "Ada", CartItems: []repository.CartItem{{ProductName: "Sofa"}}}})
	require.NoError(t, err)

	orders, err := store.Orders().List(ctx)
	require.NoError(t, err)
	require.Len(t, orders, 3)
	require.Len(t, orders[0].CartItems, 1)
	assert.Equal(t, "Sofa", orders[0].CartItems[0].ProductName)
}

func TestSeedRejectsUnknownStatus(t *testing.T) {
	store := testStore(t)
	_, err := store.Seed(context.Background(), []*repository.Order{{ID: "x", Status: "cancelled"}})
	assert.ErrorIs(t, err, repository.ErrInvalidStatus)
}

func TestSeedAssignsIDs(t *testing.T) {
	store := testStore(t)
	order := &repository.Order{FirstName: "Anon"}
	_, err := store.Seed(context.Background(), []*repository.Order{order})
	require.NoError(t, err)
	assert.Len(t, order.ID, 36)
}

func TestSetStatus(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()
	_, err := store.Seed(ctx, seedOrders())
	require.NoError(t, err)

	require.NoError(t, store.Orders().SetStatus(ctx, "o3", repository.StatusPending))
	assert.ErrorIs(t, store.Orders().SetStatus(ctx, "missing", repository.StatusPending), repository.ErrNotFound)

	orders, err := store.Orders().List(ctx)
	require.NoError(t, err)
	assert.Equal(t, repository.StatusUnset, orders[0].Status)
	assert.Equal(t, repository.StatusPending, orders[1].Status)
	assert.Equal(t, repository.StatusPending, orders[2].Status)
}

func TestDeleteCascades(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()
	_, err := store.Seed(ctx, seedOrders())
	require.NoError(t, err)

	require.NoError(t, store.Orders().Delete(ctx, "o1"))
	assert.ErrorIs(t, store.Orders().Delete(ctx, "o1"), repository.ErrNotFound)

	var items int
	require.NoError(t, store.DB().QueryRowContext(ctx, `SELECT COUNT(*) FROM order_cart_items WHERE order_id = 'o1'`).Scan(&items))
	assert.Zero(t, items)

	orders, err := store.Orders().List(ctx)
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, "o2", orders[0].ID)
	assert.NoError(t, store.Ping(ctx))
}
