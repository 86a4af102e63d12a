package xe

import "github.com/go-orz/orz"

var (
	ErrInvalidParams      = orz.NewError(10400, "参数无效")
	ErrInvalidToken       = orz.NewError(10403, "令牌无效")
	ErrAccountAlreadyUsed = orz.NewError(10000, "账户已被使用")
	ErrIncorrectPassword  = orz.NewError(10001, "账户或密码错误")

	ErrInsufficientBalance = orz.NewError(10100, "余额不足")
	ErrInvalidQuantity     = orz.NewError(10101, "数量必须大于0")
	ErrInvalidPrice        = orz.NewError(10102, "价格无效或行情不可用")
	ErrPositionNotFound    = orz.NewError(10103, "持仓不存在")
	ErrOrderNotFound       = orz.NewError(10104, "订单不存在")
	ErrOrderNotCancellable = orz.NewError(10105, "订单当前状态不允许撤销")
)
