package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"presales-board/internal/database"
	"presales-board/internal/service"
	"presales-board/internal/store"

	"github.com/labstack/echo/v4"
)

const ContextUserKey = "user"

// 測試替換點
var getUserByID = store.GetUserByID

func extractClaims(c echo.Context) (*service.CustomClaims, error) {
	authHeader := c.Request().Header.Get("Authorization")
	if authHeader == "" {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing token")
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header format")
	}
	tokenString := parts[1]
	claims, err := service.VerifyAccessToken(tokenString)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, fmt.Sprintf("invalid token: %v", err))
	}
	return claims, nil
}

// RequireAuth 驗證 Bearer token 後重新查詢使用者資料列，
// 以當前角色放入 context；令牌簽發後的角色變動因此立即生效。
func RequireAuth(db database.DB) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, err := extractClaims(c)
			if err != nil {
				return err
			}
			user, err := getUserByID(c.Request().Context(), db, claims.UserID)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "user no longer exists")
			}
			c.Set(ContextUserKey, user)
			return next(c)
		}
	}
}
