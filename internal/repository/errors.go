// 文件路径: internal/repository/errors.go
// 模块说明: 仓储层共享的哨兵错误。
package repository

import "errors"

var (
	// ErrNotFound 表示查询未返回数据。
	ErrNotFound = errors.New("not found / 未找到数据")
	// ErrInvalidStatus 表示订单状态不是可识别的取值。
	ErrInvalidStatus = errors.New("invalid order status / 订单状态无效")
)
