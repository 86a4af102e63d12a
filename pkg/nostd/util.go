package nostd

import (
	"github.com/labstack/echo/v4"
)

const Token = "Papertrade-Token"

// GetToken 依次从请求头、查询参数、Cookie中提取令牌
func GetToken(c echo.Context) string {
	token := c.Request().Header.Get(Token)
	if len(token) > 0 {
		return token
	}
	token = c.QueryParam(Token)
	if token != "" {
		return token
	}
	cookie, err := c.Cookie(Token)
	if err != nil {
		return ""
	}
	return cookie.Value
}
