// 文件路径: internal/service/errors.go
// 模块说明: 服务层哨兵错误，处理器通过 errors.Is 映射为 HTTP 状态码与提示文案。
package service

import "errors"

var (
	// ErrInvalidCredentials indicates the submitted email/password pair does not match.
	ErrInvalidCredentials = errors.New("service: invalid credentials / 凭证无效")
	// ErrUnauthorized indicates missing or invalid API tokens.
	ErrUnauthorized = errors.New("service: unauthorized / 未授权")
	// ErrInvalidStatus indicates a status outside the selectable options.
	ErrInvalidStatus = errors.New("service: invalid order status / 订单状态无效")
	// ErrNotFound indicates the order does not exist in the store.
	ErrNotFound = errors.New("service: order not found / 订单不存在")
	// ErrNotConfirmed indicates the viewer declined a destructive action.
	ErrNotConfirmed = errors.New("service: action not confirmed / 操作未确认")
	// ErrStoreUnavailable wraps failures talking to the order store.
	ErrStoreUnavailable = errors.New("service: order store unavailable / 订单存储不可用")
)
