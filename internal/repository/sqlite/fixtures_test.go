package sqlite

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/creamcroissant/shopadmin/internal/repository"
)

const sampleFixtures = `
orders:
  - id: order-1
    first_name: Ada
    last_name: Lovelace
    phone: "555-0101"
    total: 129.5
    order_date: "2024-03-01T10:00:00Z"
    status: pending
    cart_items:
      - product_name: Lamp
        image_ref: image-abc-400x300-png
      - product_name: Chair
  - id: order-2
    first_name: Grace
    status: null
  - first_name: Anon
    cart_items:
      - product_name: Desk
        image_url: https://img.example.com/desk.png
`

func TestLoadFixtures(t *testing.T) {
	orders, err := LoadFixtures(strings.NewReader(sampleFixtures))
	require.NoError(t, err)
	require.Len(t, orders, 3)

	assert.Equal(t, "order-1", orders[0].ID)
	assert.Equal(t, repository.StatusPending, orders[0].Status)
	assert.Equal(t, 129.5, orders[0].Total)
	require.Len(t, orders[0].CartItems, 2)
	assert.Equal(t, "image-abc-400x300-png", orders[0].CartItems[0].Image.Ref)
	assert.Nil(t, orders[0].CartItems[1].Image)
	assert.Equal(t, repository.StatusUnset, orders[1].Status)
	assert.Empty(t, orders[2].ID)
	assert.Equal(t, "https://img.example.com/desk.png", orders[2].CartItems[0].Image.Source())

	store := testStore(t)
	n, err := store.Seed(context.Background(), orders)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.NotEmpty(t, orders[2].ID)
}

func TestLoadFixturesRejectsBadInput(t *testing.T) {
	_, err := LoadFixtures(strings.NewReader("orders:\n  - id: a\n    status: cancelled\n"))
	assert.ErrorIs(t, err, repository.ErrInvalidStatus)

	_, err = LoadFixtures(strings.NewReader("orders:\n  - id: a\n  - id: a\n"))
	assert.Error(t, err)

	_, err = LoadFixtures(strings.NewReader("orders:\n  - id: a\n    colour: red\n"))
	assert.Error(t, err)

	orders, err := LoadFixtures(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, orders)
}
