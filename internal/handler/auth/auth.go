package auth

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"presales-board/internal/api"
	"presales-board/internal/cache"
	"presales-board/internal/database"
	"presales-board/internal/middleware"
	"presales-board/internal/model"
	"presales-board/internal/service"
	"presales-board/internal/store"
	"presales-board/internal/worker"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/labstack/echo/v4"
)

// BootstrapUsername 為預建管理員帳號名稱，密碼由 /auth/setup 首次設定。
const BootstrapUsername = "admin"

const refreshTokenTTL = 30 * 24 * time.Hour

// 測試替換點
var (
	hashPassword         = service.HashPassword
	authenticateUser     = service.AuthenticateUser
	issueAccessToken     = service.IssueAccessToken
	issueRefreshToken    = service.IssueRefreshToken
	validateRefreshToken = service.ValidateRefreshToken
	getUserByID          = store.GetUserByID
	getUserByUsername    = store.GetUserByUsername
	createUser           = store.CreateUser
	updateUserPassword   = store.UpdateUserPassword
	recordLastLogin      = store.RecordLastLogin
	timeNow              = time.Now
)

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// @Summary     First-time admin password setup
// @Description 為預建 admin 帳號設定密碼，整個部署僅允許成功一次
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       request body api.SetupRequest true "初始密碼"
// @Success     200 {object} api.LoginResponse
// @Failure     400 {object} api.ErrorResponse
// @Failure     404 {object} api.ErrorResponse
// @Failure     500 {object} api.ErrorResponse
// @Router      /auth/setup [post]
func SetupHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req api.SetupRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "invalid request payload"})
		}
		if err := c.Validate(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: err.Error()})
		}

		admin, err := getUserByUsername(c.Request().Context(), db, BootstrapUsername)
		if err != nil {
			return c.JSON(http.StatusNotFound, api.ErrorResponse{Message: "bootstrap account not found"})
		}
		if admin.PasswordHash != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "password already set"})
		}

		hash, err := hashPassword(req.Password)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: "failed to hash password"})
		}
		if err := updateUserPassword(c.Request().Context(), db, admin.ID, hash); err != nil {
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: "failed to store password"})
		}

		token, err := issueAccessToken(*admin, service.AccessTokenTTL())
		if err != nil {
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: "failed to issue token"})
		}

		return c.JSON(http.StatusOK, api.LoginResponse{
			Token: token,
			User:  api.NewUserResponse(admin),
		})
	}
}

// @Summary     Register a new user
// @Description 建立一般使用者帳號，密碼至少 6 碼
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       request body api.RegisterRequest true "帳號與密碼"
// @Success     201 {object} api.RegisterResponse
// @Failure     400 {object} api.ErrorResponse
// @Failure     409 {object} api.ErrorResponse
// @Failure     500 {object} api.ErrorResponse
// @Router      /auth/register [post]
func RegisterHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req api.RegisterRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "invalid request payload"})
		}
		if err := c.Validate(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: err.Error()})
		}

		if _, err := getUserByUsername(c.Request().Context(), db, req.Username); err == nil {
			return c.JSON(http.StatusConflict, api.ErrorResponse{Message: "username already taken"})
		}

		hash, err := hashPassword(req.Password)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: "failed to hash password"})
		}

		user, err := createUser(c.Request().Context(), db, &model.User{
			Username:     req.Username,
			PasswordHash: &hash,
			Role:         model.RoleUser,
		})
		if err != nil {
			// 與前置檢查之間的競態由唯一約束收尾
			if isUniqueViolation(err) {
				return c.JSON(http.StatusConflict, api.ErrorResponse{Message: "username already taken"})
			}
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: "failed to create user"})
		}

		return c.JSON(http.StatusCreated, api.RegisterResponse{UserID: user.ID})
	}
}

// @Summary     Log in
// @Description 使用帳號密碼登入，回傳存取令牌與 refresh token
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       request body api.LoginRequest true "帳號與密碼"
// @Success     200 {object} api.LoginResponse
// @Failure     400 {object} api.ErrorResponse
// @Failure     401 {object} api.ErrorResponse
// @Failure     500 {object} api.ErrorResponse
// @Router      /auth/login [post]
func LoginHandler(db database.DB, rdb cache.Cache, wp worker.Pool) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req api.LoginRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "invalid request payload"})
		}
		if err := c.Validate(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: err.Error()})
		}

		user, err := getUserByUsername(c.Request().Context(), db, req.Username)
		if err != nil {
			return c.JSON(http.StatusUnauthorized, api.ErrorResponse{Message: "invalid credentials"})
		}
		if err := authenticateUser(c.Request().Context(), *user, req.Password); err != nil {
			return c.JSON(http.StatusUnauthorized, api.ErrorResponse{Message: "invalid credentials"})
		}

		token, err := issueAccessToken(*user, service.AccessTokenTTL())
		if err != nil {
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: "failed to issue token"})
		}
		refreshToken, err := issueRefreshToken(c.Request().Context(), rdb, user.ID, refreshTokenTTL)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: "failed to issue refresh token"})
		}

		// 登入時間非關鍵路徑，交由 worker pool 非同步寫入
		userID := user.ID
		at := timeNow().UTC()
		wp.Submit(func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := recordLastLogin(ctx, db, userID, at); err != nil {
				log.Printf("record last login for user %d: %v", userID, err)
			}
		})

		return c.JSON(http.StatusOK, api.LoginResponse{
			Token:        token,
			RefreshToken: refreshToken,
			User:         api.NewUserResponse(user),
		})
	}
}

// @Summary     Refresh access token
// @Description 以 refresh token 換發新的存取令牌，角色以當前資料列為準
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       request body api.RefreshRequest true "refresh token"
// @Success     200 {object} api.LoginResponse
// @Failure     400 {object} api.ErrorResponse
// @Failure     401 {object} api.ErrorResponse
// @Failure     500 {object} api.ErrorResponse
// @Router      /auth/refresh [post]
func RefreshHandler(db database.DB, rdb cache.Cache) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req api.RefreshRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "invalid request payload"})
		}
		if err := c.Validate(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: err.Error()})
		}

		data, err := validateRefreshToken(c.Request().Context(), rdb, req.RefreshToken)
		if err != nil {
			return c.JSON(http.StatusUnauthorized, api.ErrorResponse{Message: "invalid refresh token"})
		}

		user, err := getUserByID(c.Request().Context(), db, data.UserID)
		if err != nil {
			return c.JSON(http.StatusUnauthorized, api.ErrorResponse{Message: "user no longer exists"})
		}

		token, err := issueAccessToken(*user, service.AccessTokenTTL())
		if err != nil {
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: "failed to issue token"})
		}

		return c.JSON(http.StatusOK, api.LoginResponse{
			Token:        token,
			RefreshToken: req.RefreshToken,
			User:         api.NewUserResponse(user),
		})
	}
}

// @Summary     Get current user info
// @Description 回傳當前使用者資料（由 middleware 重新查詢）
// @Tags        auth
// @Produce     json
// @Success     200 {object} api.UserResponse
// @Failure     401 {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /auth/me [get]
func MeHandler() echo.HandlerFunc {
	return func(c echo.Context) error {
		user, ok := c.Get(middleware.ContextUserKey).(*model.User)
		if !ok || user == nil {
			return c.JSON(http.StatusUnauthorized, api.ErrorResponse{Message: "invalid or missing token"})
		}
		return c.JSON(http.StatusOK, api.NewUserResponse(user))
	}
}
