package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/creamcroissant/shopadmin/internal/repository"
)

const orderColumns = `id, first_name, last_name, phone, email, address, city, zip_code, total, discount, order_date, status`

type orderRepo struct {
	db  *sql.DB
	now func() int64
}

func (r *orderRepo) List(ctx context.Context) ([]*repository.Order, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+orderColumns+` FROM orders ORDER BY created_at ASC, rowid ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []*repository.Order
	index := make(map[string]*repository.Order)
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
		index[order.ID] = order
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return orders, nil
	}

	itemRows, err := r.db.QueryContext(ctx, `SELECT order_id, product_name, image_ref, image_url FROM order_cart_items ORDER BY order_id, position`)
	if err != nil {
		return nil, err
	}
	defer itemRows.Close()
	for itemRows.Next() {
		var (
			orderID  string
			name     string
			imageRef sql.NullString
			imageURL sql.NullString
		)
		if err := itemRows.Scan(&orderID, &name, &imageRef, &imageURL); err != nil {
			return nil, err
		}
		order, ok := index[orderID]
		if !ok {
			continue
		}
		item := repository.CartItem{ProductName: name}
		if imageRef.Valid || imageURL.Valid {
			item.Image = &repository.ImageRef{Ref: imageRef.String, URL: imageURL.String}
		}
		order.CartItems = append(order.CartItems, item)
	}
	return orders, itemRows.Err()
}

func (r *orderRepo) SetStatus(ctx context.Context, id string, status repository.OrderStatus) error {
	res, err := r.db.ExecContext(ctx, `UPDATE orders SET status = ?, updated_at = ? WHERE id = ?`, nullableStatus(status), r.now(), id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (r *orderRepo) Delete(ctx context.Context, id string) error {
	// order_cart_items rows go with the order through ON DELETE CASCADE.
	res, err := r.db.ExecContext(ctx, `DELETE FROM orders WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (r *orderRepo) upsertAll(ctx context.Context, orders []*repository.Order) (int, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	now := r.now()
	count := 0
	for _, order := range orders {
		if order == nil {
			continue
		}
		if strings.TrimSpace(order.ID) == "" {
			order.ID = uuid.NewString()
		}
		if order.Status.IsSet() {
			if _, err := repository.ParseOrderStatus(string(order.Status)); err != nil {
				return count, fmt.Errorf("order %s: %w", order.ID, err)
			}
		}
		const stmt = `INSERT INTO orders(` + orderColumns + `, created_at, updated_at)
                      VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
                      ON CONFLICT(id) DO UPDATE SET
                        first_name = excluded.first_name, last_name = excluded.last_name,
                        phone = excluded.phone, email = excluded.email,
                        address = excluded.address, city = excluded.city, zip_code = excluded.zip_code,
                        total = excluded.total, discount = excluded.discount,
                        order_date = excluded.order_date, status = excluded.status,
                        updated_at = excluded.updated_at`
		if _, err := tx.ExecContext(ctx, stmt,
			order.ID,
			order.FirstName,
			order.LastName,
			order.Phone,
			order.Email,
			order.Address,
			order.City,
			order.ZipCode,
			order.Total,
			order.Discount,
			order.OrderDate,
			nullableStatus(order.Status),
			now+int64(count),
			now,
		); err != nil {
			return count, fmt.Errorf("insert order %s: %w", order.ID, err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM order_cart_items WHERE order_id = ?`, order.ID); err != nil {
			return count, err
		}
		for pos, item := range order.CartItems {
			var ref, url string
			if item.Image != nil {
				ref, url = item.Image.Ref, item.Image.URL
			}
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO order_cart_items(order_id, position, product_name, image_ref, image_url) VALUES(?, ?, ?, ?, ?)`,
				order.ID, pos, item.ProductName, nullableText(ref), nullableText(url),
			); err != nil {
				return count, fmt.Errorf("insert cart item %s/%d: %w", order.ID, pos, err)
			}
		}
		count++
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return count, nil
}

func scanOrder(scanner rowScanner) (*repository.Order, error) {
	var (
		order  repository.Order
		status sql.NullString
	)
	if err := scanner.Scan(
		&order.ID,
		&order.FirstName,
		&order.LastName,
		&order.Phone,
		&order.Email,
		&order.Address,
		&order.City,
		&order.ZipCode,
		&order.Total,
		&order.Discount,
		&order.OrderDate,
		&status,
	); err != nil {
		return nil, err
	}
	order.Status = statusFromNull(status)
	return &order, nil
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}
