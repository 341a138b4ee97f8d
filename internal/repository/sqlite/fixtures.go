// 文件路径: internal/repository/sqlite/fixtures.go
// 模块说明: 解析 YAML 订单样例数据，供 seed 命令写入本地文档库。
package sqlite

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/creamcroissant/shopadmin/internal/repository"
)

type fixtureFile struct {
	Orders []fixtureOrder `yaml:"orders"`
}

type fixtureOrder struct {
	ID        string        `yaml:"id"`
	FirstName string        `yaml:"first_name"`
	LastName  string        `yaml:"last_name"`
	Phone     string        `yaml:"phone"`
	Email     string        `yaml:"email"`
	Address   string        `yaml:"address"`
	City      string        `yaml:"city"`
	ZipCode   string        `yaml:"zip_code"`
	Total     float64       `yaml:"total"`
	Discount  float64       `yaml:"discount"`
	OrderDate string        `yaml:"order_date"`
	Status    *string       `yaml:"status"`
	CartItems []fixtureItem `yaml:"cart_items"`
}

type fixtureItem struct {
	ProductName string `yaml:"product_name"`
	ImageRef    string `yaml:"image_ref"`
	ImageURL    string `yaml:"image_url"`
}

// LoadFixtures decodes a YAML document of the form {orders: [...]}.
// A missing or null status seeds the unset state; a missing id is assigned by Seed.
func LoadFixtures(r io.Reader) ([]*repository.Order, error) {
	var file fixtureFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("decode fixtures: %w", err)
	}

	seen := make(map[string]struct{}, len(file.Orders))
	orders := make([]*repository.Order, 0, len(file.Orders))
	for i, f := range file.Orders {
		id := strings.TrimSpace(f.ID)
		if id != "" {
			if _, dup := seen[id]; dup {
				return nil, fmt.Errorf("fixture %d: duplicate id %q / 订单 ID 重复", i, id)
			}
			seen[id] = struct{}{}
		}

		status := repository.StatusUnset
		if f.Status != nil && *f.Status != "" {
			parsed, err := repository.ParseOrderStatus(*f.Status)
			if err != nil {
				return nil, fmt.Errorf("fixture %d: %w", i, err)
			}
			status = parsed
		}

		order := &repository.Order{
			ID:        id,
			FirstName: f.FirstName,
			LastName:  f.LastName,
			Phone:     f.Phone,
			Email:     f.Email,
			Address:   f.Address,
			City:      f.City,
			ZipCode:   f.ZipCode,
			Total:     f.Total,
			Discount:  f.Discount,
			OrderDate: f.OrderDate,
			Status:    status,
		}
		for _, item := range f.CartItems {
			ci := repository.CartItem{ProductName: item.ProductName}
			if item.ImageRef != "" || item.ImageURL != "" {
				ci.Image = &repository.ImageRef{Ref: item.ImageRef, URL: item.ImageURL}
			}
			order.CartItems = append(order.CartItems, ci)
		}
		orders = append(orders, order)
	}
	return orders, nil
}
