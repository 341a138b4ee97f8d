package contentstore

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/creamcroissant/shopadmin/internal/content"
	"github.com/creamcroissant/shopadmin/internal/repository"
)

type fakeStore struct {
	result   string
	fetchErr error
	patchErr error
	delErr   error

	queries []string
	patches []map[string]any
	patchID string
	deleted []string
}

func (f *fakeStore) Fetch(_ context.Context, query string, _ content.Params, dest any) error {
	f.queries = append(f.queries, query)
	if f.fetchErr != nil {
		return f.fetchErr
	}
	return json.Unmarshal([]byte(f.result), dest)
}

func (f *fakeStore) Patch(_ context.Context, id string, set map[string]any) error {
	if f.patchErr != nil {
		return f.patchErr
	}
	f.patchID = id
	f.patches = append(f.patches, set)
	return nil
}

func (f *fakeStore) Delete(_ context.Context, id string) error {
	if f.delErr != nil {
		return f.delErr
	}
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeStore) Ping(context.Context) error { return f.fetchErr }

const sampleResult = `[
  {"_id":"o1","firstName":"Ada","lastName":"Lovelace","phone":"555-1","email":"ada@example.com",
   "address":"1 Loop","city":"London","zipCode":"N1","total":120.5,"discount":10,"orderDate":"2024-05-01T10:00:00Z",
   "status":null,
   "cartItems":[{"productName":"Lamp","image":{"_type":"image","asset":{"_ref":"image-abc-40x40-png","_type":"reference"}}},null,{"productName":"Chair"}]},
  {"_id":"o2","firstName":"<b>Grace</b>","lastName":"Hopper","city":"Arlington","status":"pending","cartItems":null}
]`

func TestListMapsProjection(t *testing.T) {
	store := &fakeStore{result: sampleResult}
	repo := NewOrderRepository(store)

	orders, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, []string{OrdersQuery}, store.queries)

	first := orders[0]
	assert.Equal(t, "o1", first.ID)
	assert.Equal(t, "London", first.City)
	assert.Equal(t, 120.5, first.Total)
	assert.Equal(t, repository.StatusUnset, first.Status)
	require.Len(t, first.CartItems, 2)
	assert.Equal(t, "Lamp", first.CartItems[0].ProductName)
	require.NotNil(t, first.CartItems[0].Image)
	assert.Equal(t, "image-abc-40x40-png", first.CartItems[0].Image.Ref)
	assert.Nil(t, first.CartItems[1].Image)

	second := orders[1]
	assert.Equal(t, "Grace", second.FirstName)
	assert.Equal(t, repository.StatusPending, second.Status)
	assert.Empty(t, second.CartItems)
}

func TestListError(t *testing.T) {
	repo := NewOrderRepository(&fakeStore{fetchErr: errors.New("boom")})
	_, err := repo.List(context.Background())
	assert.ErrorContains(t, err, "boom")
}

func TestSetStatusPatchesSingleField(t *testing.T) {
	store := &fakeStore{}
	repo := NewOrderRepository(store)

	require.NoError(t, repo.SetStatus(context.Background(), "o1", repository.StatusDispatch))
	assert.Equal(t, "o1", store.patchID)
	assert.Equal(t, []map[string]any{{"status": "dispatch"}}, store.patches)
}

func TestMutationsMapNotFound(t *testing.T) {
	notFound := &content.APIError{StatusCode: 404, Description: "missing"}
	repo := NewOrderRepository(&fakeStore{patchErr: notFound, delErr: notFound})

	assert.ErrorIs(t, repo.SetStatus(context.Background(), "x", repository.StatusSuccess), repository.ErrNotFound)
	assert.ErrorIs(t, repo.Delete(context.Background(), "x"), repository.ErrNotFound)
}

func TestDelete(t *testing.T) {
	store := &fakeStore{}
	require.NoError(t, NewOrderRepository(store).Delete(context.Background(), "o2"))
	assert.Equal(t, []string{"o2"}, store.deleted)
}

func TestNilStore(t *testing.T) {
	repo := NewOrderRepository(nil)
	_, err := repo.List(context.Background())
	assert.ErrorIs(t, err, content.ErrNotConfigured)
	assert.ErrorIs(t, NewHealthChecker(nil).Ping(context.Background()), content.ErrNotConfigured)
}

func TestClean(t *testing.T) {
	assert.Equal(t, "Tom & Jerry", clean("Tom & Jerry"))
	assert.Equal(t, "Tom & Jerry", clean("<i>Tom</i> & Jerry"))
}
