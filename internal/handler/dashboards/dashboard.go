package dashboards

import (
	"net/http"
	"strconv"

	"presales-board/internal/api"
	"presales-board/internal/database"
	"presales-board/internal/middleware"
	"presales-board/internal/model"
	"presales-board/internal/service"
	"presales-board/internal/store"

	"github.com/labstack/echo/v4"
)

// 測試替換點
var (
	createDashboard       = store.CreateDashboard
	getDashboardByID      = store.GetDashboardByID
	listAllDashboards     = store.ListAllDashboards
	listDashboardsForUser = store.ListDashboardsForUser
	updateDashboard       = store.UpdateDashboard
	deleteDashboard       = store.DeleteDashboard
	canRead               = service.CanRead
	canAdminister         = service.CanAdminister
)

func currentUser(c echo.Context) (*model.User, bool) {
	user, ok := c.Get(middleware.ContextUserKey).(*model.User)
	return user, ok && user != nil
}

func parseDashboardID(c echo.Context) (int, error) {
	return strconv.Atoi(c.Param("id"))
}

// @Summary     List visible dashboards
// @Description 全域管理員看到全部，一般使用者僅看到被授權的看板
// @Tags        dashboards
// @Produce     json
// @Success     200 {array} api.DashboardResponse
// @Failure     401 {object} api.ErrorResponse
// @Failure     500 {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /dashboards [get]
func ListDashboardsHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		user, ok := currentUser(c)
		if !ok {
			return c.JSON(http.StatusUnauthorized, api.ErrorResponse{Message: "invalid or missing token"})
		}

		var (
			rows []model.Dashboard
			err  error
		)
		if user.IsGlobalAdmin() {
			rows, err = listAllDashboards(c.Request().Context(), db)
		} else {
			rows, err = listDashboardsForUser(c.Request().Context(), db, user.ID)
		}
		if err != nil {
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: "failed to list dashboards"})
		}

		out := make([]api.DashboardResponse, 0, len(rows))
		for i := range rows {
			out = append(out, api.NewDashboardResponse(&rows[i]))
		}
		return c.JSON(http.StatusOK, out)
	}
}

// @Summary     Create a dashboard
// @Description 建立看板並在同一交易內授予建立者 admin 權限
// @Tags        dashboards
// @Accept      json
// @Produce     json
// @Param       request body api.CreateDashboardRequest true "看板內容"
// @Success     201 {object} api.DashboardResponse
// @Failure     400 {object} api.ErrorResponse
// @Failure     401 {object} api.ErrorResponse
// @Failure     500 {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /dashboards [post]
func CreateDashboardHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		user, ok := currentUser(c)
		if !ok {
			return c.JSON(http.StatusUnauthorized, api.ErrorResponse{Message: "invalid or missing token"})
		}

		var req api.CreateDashboardRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "invalid request payload"})
		}
		if err := c.Validate(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: err.Error()})
		}

		created, err := createDashboard(c.Request().Context(), db, &model.Dashboard{
			Name:        req.Name,
			Description: req.Description,
		}, user.ID)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: "failed to create dashboard"})
		}
		return c.JSON(http.StatusCreated, api.NewDashboardResponse(created))
	}
}

// @Summary     Get a dashboard
// @Description 需要讀取權限；先判斷存在與否再判斷權限
// @Tags        dashboards
// @Produce     json
// @Param       id path int true "看板 ID"
// @Success     200 {object} api.DashboardResponse
// @Failure     400 {object} api.ErrorResponse
// @Failure     401 {object} api.ErrorResponse
// @Failure     403 {object} api.ErrorResponse
// @Failure     404 {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /dashboards/{id} [get]
func GetDashboardHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		user, ok := currentUser(c)
		if !ok {
			return c.JSON(http.StatusUnauthorized, api.ErrorResponse{Message: "invalid or missing token"})
		}
		id, err := parseDashboardID(c)
		if err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "invalid dashboard id"})
		}

		d, err := getDashboardByID(c.Request().Context(), db, id)
		if err != nil {
			return c.JSON(http.StatusNotFound, api.ErrorResponse{Message: "dashboard not found"})
		}

		allowed, err := canRead(c.Request().Context(), db, user, id)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: "failed to check permissions"})
		}
		if !allowed {
			return c.JSON(http.StatusForbidden, api.ErrorResponse{Message: "insufficient permissions"})
		}
		return c.JSON(http.StatusOK, api.NewDashboardResponse(d))
	}
}

// @Summary     Update a dashboard
// @Description 需要 admin 權限，回傳更新後的看板
// @Tags        dashboards
// @Accept      json
// @Produce     json
// @Param       id path int true "看板 ID"
// @Param       request body api.UpdateDashboardRequest true "看板內容"
// @Success     200 {object} api.DashboardResponse
// @Failure     400 {object} api.ErrorResponse
// @Failure     401 {object} api.ErrorResponse
// @Failure     403 {object} api.ErrorResponse
// @Failure     404 {object} api.ErrorResponse
// @Failure     500 {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /dashboards/{id} [put]
func UpdateDashboardHandler(db database.DB) echo.HandlerFunc {
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

		var req api.UpdateDashboardRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "invalid request payload"})
		}
		if err := c.Validate(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: err.Error()})
		}

		if err := updateDashboard(c.Request().Context(), db, &model.Dashboard{
			ID:          id,
			Name:        req.Name,
			Description: req.Description,
		}); err != nil {
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: "failed to update dashboard"})
		}

		// 重新查詢以帶回 updated_at 與建立者名稱
		d, err := getDashboardByID(c.Request().Context(), db, id)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: "failed to load dashboard"})
		}
		return c.JSON(http.StatusOK, api.NewDashboardResponse(d))
	}
}

// @Summary     Delete a dashboard
// @Description 需要 admin 權限，連同其權限列一併刪除
// @Tags        dashboards
// @Param       id path int true "看板 ID"
// @Success     204
// @Failure     400 {object} api.ErrorResponse
// @Failure     401 {object} api.ErrorResponse
// @Failure     403 {object} api.ErrorResponse
// @Failure     404 {object} api.ErrorResponse
// @Failure     500 {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /dashboards/{id} [delete]
func DeleteDashboardHandler(db database.DB) echo.HandlerFunc {
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

		if err := deleteDashboard(c.Request().Context(), db, id); err != nil {
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: "failed to delete dashboard"})
		}
		return c.NoContent(http.StatusNoContent)
	}
}
