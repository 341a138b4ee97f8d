// 文件路径: internal/repository/types.go
// 模块说明: 订单及其购物车条目的领域模型，字段与内容存储中的 order 文档一一对应。
package repository

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// OrderStatus is the fulfilment state of an order. The zero value is the
// unset (null) state, which is distinct from StatusPending.
type OrderStatus string

const (
	StatusUnset    OrderStatus = ""
	StatusPending  OrderStatus = "pending"
	StatusDispatch OrderStatus = "dispatch"
	StatusSuccess  OrderStatus = "success"
)

// SelectableStatuses lists the values an admin may pick, in display order.
var SelectableStatuses = []OrderStatus{StatusPending, StatusDispatch, StatusSuccess}

// ParseOrderStatus accepts one of the selectable statuses.
func ParseOrderStatus(raw string) (OrderStatus, error) {
	for _, s := range SelectableStatuses {
		if raw == string(s) {
			return s, nil
		}
	}
	return StatusUnset, fmt.Errorf("%w: %q", ErrInvalidStatus, raw)
}

// IsSet reports whether the status carries a value.
func (s OrderStatus) IsSet() bool {
	return s != StatusUnset
}

// Label is the human facing name used by the status picker.
func (s OrderStatus) Label() string {
	switch s {
	case StatusPending:
		return "Pending"
	case StatusDispatch:
		return "Dispatch"
	case StatusSuccess:
		return "Completed"
	default:
		return ""
	}
}

// MarshalJSON encodes the unset status as null.
func (s OrderStatus) MarshalJSON() ([]byte, error) {
	if s == StatusUnset {
		return []byte("null"), nil
	}
	return json.Marshal(string(s))
}

// UnmarshalJSON decodes null (or a missing field) as the unset status.
func (s *OrderStatus) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*s = StatusUnset
		return nil
	}
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*s = OrderStatus(raw)
	return nil
}

// Order is the projection of an order document the admin works with.
type Order struct {
	ID        string      `json:"id"`
	FirstName string      `json:"first_name"`
	LastName  string      `json:"last_name"`
	Phone     string      `json:"phone"`
	Email     string      `json:"email"`
	Address   string      `json:"address"`
	City      string      `json:"city"`
	ZipCode   string      `json:"zip_code"`
	Total     float64     `json:"total"`
	Discount  float64     `json:"discount"`
	OrderDate string      `json:"order_date"`
	Status    OrderStatus `json:"status"`
	CartItems []CartItem  `json:"cart_items"`
}

// CustomerName joins first and last name.
func (o *Order) CustomerName() string {
	if o == nil {
		return ""
	}
	switch {
	case o.FirstName == "":
		return o.LastName
	case o.LastName == "":
		return o.FirstName
	}
	return o.FirstName + " " + o.LastName
}

// Clone returns a deep copy; cart items are shared display data but the slice
// header is copied so callers cannot reorder the original.
func (o *Order) Clone() *Order {
	if o == nil {
		return nil
	}
	cp := *o
	if o.CartItems != nil {
		cp.CartItems = make([]CartItem, len(o.CartItems))
		copy(cp.CartItems, o.CartItems)
	}
	return &cp
}

// CartItem is one referenced product line on an order.
type CartItem struct {
	ProductName string    `json:"product_name"`
	Image       *ImageRef `json:"image,omitempty"`
}

// ImageRef points at a product image. Ref holds an asset reference such as
// "image-<id>-<w>x<h>-<fmt>"; URL holds a direct link when the store keeps one.
type ImageRef struct {
	Ref string `json:"ref,omitempty"`
	URL string `json:"url,omitempty"`
}

// Source returns the direct URL when present, else the asset reference.
func (r *ImageRef) Source() string {
	if r == nil {
		return ""
	}
	if r.URL != "" {
		return r.URL
	}
	return r.Ref
}
