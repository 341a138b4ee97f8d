package repository

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderStatusJSON(t *testing.T) {
	data, err := json.Marshal(struct {
		A OrderStatus `json:"a"`
		B OrderStatus `json:"b"`
	}{A: StatusUnset, B: StatusDispatch})
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":null,"b":"dispatch"}`, string(data))

	var decoded struct {
		A OrderStatus `json:"a"`
		B OrderStatus `json:"b"`
		C OrderStatus `json:"c"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a":null,"b":"pending"}`), &decoded))
	assert.Equal(t, StatusUnset, decoded.A)
	assert.Equal(t, StatusPending, decoded.B)
	assert.False(t, decoded.C.IsSet())
}

func TestParseOrderStatus(t *testing.T) {
	for _, s := range SelectableStatuses {
		got, err := ParseOrderStatus(string(s))
		require.NoError(t, err)
		assert.Equal(t, s, got)
	}
	for _, raw := range []string{"", "Pending", "cancelled", "All"} {
		_, err := ParseOrderStatus(raw)
		assert.ErrorIs(t, err, ErrInvalidStatus, raw)
	}
}

func TestStatusLabels(t *testing.T) {
	assert.Equal(t, "Pending", StatusPending.Label())
	assert.Equal(t, "Dispatch", StatusDispatch.Label())
	assert.Equal(t, "Completed", StatusSuccess.Label())
	assert.Equal(t, "", StatusUnset.Label())
}

func TestOrderCloneAndName(t *testing.T) {
	o := &Order{ID: "a", FirstName: "Ada", LastName: "Lovelace", CartItems: []CartItem{{ProductName: "Lamp"}}}
	cp := o.Clone()
	cp.CartItems[0].ProductName = "Chair"
	cp.Status = StatusSuccess

	assert.Equal(t, "Lamp", o.CartItems[0].ProductName)
	assert.Equal(t, StatusUnset, o.Status)
	assert.Equal(t, "Ada Lovelace", o.CustomerName())
	assert.Equal(t, "Ada", (&Order{FirstName: "Ada"}).CustomerName())
}
