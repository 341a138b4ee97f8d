// 文件路径: internal/repository/contentstore/orders.go
// 模块说明: 基于托管内容存储的订单仓储，使用固定的 GROQ 投影读取订单与购物车条目。
package contentstore

import (
	"context"
	"fmt"
	"html"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"

	"github.com/creamcroissant/shopadmin/internal/content"
	"github.com/creamcroissant/shopadmin/internal/repository"
)

// OrdersQuery selects every order document and resolves its cart item references.
const OrdersQuery = `*[_type == "order"]{
  _id,
  firstName,
  lastName,
  phone,
  email,
  address,
  city,
  zipCode,
  total,
  discount,
  orderDate,
  status,
  cartItems[]->{
    productName,
    image
  }
}`

// Store text is rendered in admin pages and terminals; strip any markup.
var textSanitizer = sync.OnceValue(func() *bluemonday.Policy {
	return bluemonday.StrictPolicy()
})

type orderDocument struct {
	ID        string                 `json:"_id"`
	FirstName string                 `json:"firstName"`
	LastName  string                 `json:"lastName"`
	Phone     string                 `json:"phone"`
	Email     string                 `json:"email"`
	Address   string                 `json:"address"`
	City      string                 `json:"city"`
	ZipCode   string                 `json:"zipCode"`
	Total     float64                `json:"total"`
	Discount  float64                `json:"discount"`
	OrderDate string                 `json:"orderDate"`
	Status    repository.OrderStatus `json:"status"`
	CartItems []*cartItemDocument    `json:"cartItems"`
}

type cartItemDocument struct {
	ProductName string         `json:"productName"`
	Image       *imageDocument `json:"image"`
}

type imageDocument struct {
	Asset *struct {
		Ref string `json:"_ref"`
		URL string `json:"url"`
	} `json:"asset"`
}

type orderRepo struct {
	store content.DocumentStore
}

// NewOrderRepository returns an OrderRepository backed by a document store.
func NewOrderRepository(store content.DocumentStore) repository.OrderRepository {
	return &orderRepo{store: store}
}

// NewHealthChecker exposes the store's ping for probes.
func NewHealthChecker(store content.DocumentStore) repository.HealthChecker {
	return &orderRepo{store: store}
}

func (r *orderRepo) List(ctx context.Context) ([]*repository.Order, error) {
	if r == nil || r.store == nil {
		return nil, content.ErrNotConfigured
	}
	var docs []*orderDocument
	if err := r.store.Fetch(ctx, OrdersQuery, nil, &docs); err != nil {
		return nil, fmt.Errorf("fetch orders: %w", err)
	}
	orders := make([]*repository.Order, 0, len(docs))
	for _, doc := range docs {
		if doc == nil {
			continue
		}
		orders = append(orders, mapOrder(doc))
	}
	return orders, nil
}

func (r *orderRepo) SetStatus(ctx context.Context, id string, status repository.OrderStatus) error {
	if r == nil || r.store == nil {
		return content.ErrNotConfigured
	}
	if err := r.store.Patch(ctx, id, map[string]any{"status": string(status)}); err != nil {
		if content.IsNotFound(err) {
			return repository.ErrNotFound
		}
		return fmt.Errorf("patch order status: %w", err)
	}
	return nil
}

func (r *orderRepo) Delete(ctx context.Context, id string) error {
	if r == nil || r.store == nil {
		return content.ErrNotConfigured
	}
	if err := r.store.Delete(ctx, id); err != nil {
		if content.IsNotFound(err) {
			return repository.ErrNotFound
		}
		return fmt.Errorf("delete order: %w", err)
	}
	return nil
}

func (r *orderRepo) Ping(ctx context.Context) error {
	if r == nil || r.store == nil {
		return content.ErrNotConfigured
	}
	return r.store.Ping(ctx)
}

func mapOrder(doc *orderDocument) *repository.Order {
	order := &repository.Order{
		ID:        doc.ID,
		FirstName: clean(doc.FirstName),
		LastName:  clean(doc.LastName),
		Phone:     clean(doc.Phone),
		Email:     clean(doc.Email),
		Address:   clean(doc.Address),
		City:      clean(doc.City),
		ZipCode:   clean(doc.ZipCode),
		Total:     doc.Total,
		Discount:  doc.Discount,
		OrderDate: clean(doc.OrderDate),
		Status:    doc.Status,
	}
	for _, item := range doc.CartItems {
		// Dangling references resolve to null.
		if item == nil {
			continue
		}
		mapped := repository.CartItem{ProductName: clean(item.ProductName)}
		if item.Image != nil && item.Image.Asset != nil && (item.Image.Asset.Ref != "" || item.Image.Asset.URL != "") {
			mapped.Image = &repository.ImageRef{Ref: item.Image.Asset.Ref, URL: item.Image.Asset.URL}
		}
		order.CartItems = append(order.CartItems, mapped)
	}
	return order
}

func clean(s string) string {
	if !strings.Contains(s, "<") {
		return s
	}
	// The policy escapes entities; templates escape again on output.
	return strings.TrimSpace(html.UnescapeString(textSanitizer().Sanitize(s)))
}
