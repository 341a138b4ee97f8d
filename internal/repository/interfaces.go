// 文件路径: internal/repository/interfaces.go
// 模块说明: 仓储接口定义，内容存储与本地 SQLite 均实现这些接口。
package repository

import "context"

// OrderRepository 定义订单相关数据访问方法。
type OrderRepository interface {
	// List returns every order document in store order.
	List(ctx context.Context) ([]*Order, error)
	// SetStatus patches only the status field of one order and commits it.
	SetStatus(ctx context.Context, id string, status OrderStatus) error
	// Delete removes a whole order document.
	Delete(ctx context.Context, id string) error
}

// HealthChecker is implemented by stores that can report reachability.
type HealthChecker interface {
	Ping(ctx context.Context) error
}
