package dashboards

import (
	"net/http"
	"strconv"

	"presales-board/internal/api"
	"presales-board/internal/database"
	"presales-board/internal/model"
	"presales-board/internal/store"

	"github.com/labstack/echo/v4"
)

// 測試替換點
var (
	getPermission    = store.GetPermission
	listPermissions  = store.ListPermissions
	upsertPermission = store.UpsertPermission
	deletePermission = store.DeletePermission
	getUserByID      = store.GetUserByID
)

// @Summary     List dashboard permissions
// @Description 需要 admin 權限，列出該看板的全部授權
// @Tags        permissions
// @Produce     json
// @Param       id path int true "看板 ID"
// @Success     200 {array} api.PermissionResponse
// @Failure     400 {object} api.ErrorResponse
// @Failure     401 {object} api.ErrorResponse
// @Failure     403 {object} api.ErrorResponse
// @Failure     404 {object} api.ErrorResponse
// @Failure     500 {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /dashboards/{id}/permissions [get]
func ListPermissionsHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		user, ok := currentUser(c)
		if !ok {
			return c.JSON(http.StatusUnauthorized, api.ErrorResponse{Message: "invalid or missing token"})
		}
		id, err := parseDashboardID(c)
		if err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "invalid dashboard id"})
		}

		if _, err := getDashboardByID(c.Request().Context(), db, id); err != nil {
			return c.JSON(http.StatusNotFound, api.ErrorResponse{Message: "dashboard not found"})
		}

		allowed, err := canAdminister(c.Request().Context(), db, user, id)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: "failed to check permissions"})
		}
		if !allowed {
			return c.JSON(http.StatusForbidden, api.ErrorResponse{Message: "insufficient permissions"})
		}

		perms, err := listPermissions(c.Request().Context(), db, id)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: "failed to list permissions"})
		}

		out := make([]api.PermissionResponse, 0, len(perms))
		for i := range perms {
			out = append(out, api.NewPermissionResponse(&perms[i]))
		}
		return c.JSON(http.StatusOK, out)
	}
}

// @Summary     Grant or update a permission
// @Description 需要 admin 權限；同一使用者重複授權時覆寫等級（新增回 201，覆寫回 200）
// @Tags        permissions
// @Accept      json
// @Produce     json
// @Param       id path int true "看板 ID"
// @Param       request body api.GrantPermissionRequest true "授權對象與等級"
// @Success     200 {object} api.PermissionResponse
// @Success     201 {object} api.PermissionResponse
// @Failure     400 {object} api.ErrorResponse
// @Failure     401 {object} api.ErrorResponse
// @Failure     403 {object} api.ErrorResponse
// @Failure     404 {object} api.ErrorResponse
// @Failure     500 {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /dashboards/{id}/permissions [post]
func GrantPermissionHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		user, ok := currentUser(c)
		if !ok {
			return c.JSON(http.StatusUnauthorized, api.ErrorResponse{Message: "invalid or missing token"})
		}
		id, err := parseDashboardID(c)
		if err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "invalid dashboard id"})
		}

		if _, err := getDashboardByID(c.Request().Context(), db, id); err != nil {
			return c.JSON(http.StatusNotFound, api.ErrorResponse{Message: "dashboard not found"})
		}

		allowed, err := canAdminister(c.Request().Context(), db, user, id)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: "failed to check permissions"})
		}
		if !allowed {
			return c.JSON(http.StatusForbidden, api.ErrorResponse{Message: "insufficient permissions"})
		}

		var req api.GrantPermissionRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "invalid request payload"})
		}
		if err := c.Validate(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: err.Error()})
		}

		target, err := getUserByID(c.Request().Context(), db, req.TargetUserID)
		if err != nil {
			return c.JSON(http.StatusNotFound, api.ErrorResponse{Message: "target user not found"})
		}

		perm := &model.DashboardPermission{
			DashboardID: id,
			UserID:      target.ID,
			Level:       model.PermissionLevel(req.PermissionLevel),
		}
		inserted, err := upsertPermission(c.Request().Context(), db, perm)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: "failed to grant permission"})
		}
		perm.Username = target.Username

		status := http.StatusOK
		if inserted {
			status = http.StatusCreated
		}
		return c.JSON(status, api.NewPermissionResponse(perm))
	}
}

// @Summary     Revoke a permission
// @Description 需要 admin 權限；非全域管理員不得撤銷自己的 admin 授權以免自我鎖死
// @Tags        permissions
// @Param       id path int true "看板 ID"
// @Param       user_id path int true "被撤銷的使用者 ID"
// @Success     204
// @Failure     400 {object} api.ErrorResponse
// @Failure     401 {object} api.ErrorResponse
// @Failure     403 {object} api.ErrorResponse
// @Failure     404 {object} api.ErrorResponse
// @Failure     500 {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /dashboards/{id}/permissions/{user_id} [delete]
func RevokePermissionHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		user, ok := currentUser(c)
		if !ok {
			return c.JSON(http.StatusUnauthorized, api.ErrorResponse{Message: "invalid or missing token"})
		}
		id, err := parseDashboardID(c)
		if err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "invalid dashboard id"})
		}
		targetUserID, err := strconv.Atoi(c.Param("user_id"))
		if err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "invalid user id"})
		}

		if _, err := getDashboardByID(c.Request().Context(), db, id); err != nil {
			return c.JSON(http.StatusNotFound, api.ErrorResponse{Message: "dashboard not found"})
		}

		// 自我鎖死防護：一般使用者撤銷自己的 admin 授權會失去管理權，
		// 須在一般授權檢查之前擋下
		if targetUserID == user.ID && !user.IsGlobalAdmin() {
			existing, err := getPermission(c.Request().Context(), db, id, targetUserID)
			if err == nil && existing.Level == model.PermissionAdmin {
				return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "cannot revoke your own admin permission"})
			}
		}

		allowed, err := canAdminister(c.Request().Context(), db, user, id)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: "failed to check permissions"})
		}
		if !allowed {
			return c.JSON(http.StatusForbidden, api.ErrorResponse{Message: "insufficient permissions"})
		}

		affected, err := deletePermission(c.Request().Context(), db, id, targetUserID)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: "failed to revoke permission"})
		}
		if affected == 0 {
			return c.JSON(http.StatusNotFound, api.ErrorResponse{Message: "permission not found"})
		}
		return c.NoContent(http.StatusNoContent)
	}
}
