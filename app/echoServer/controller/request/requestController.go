package request

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"shareit/app/echoServer/respond"
	rs "shareit/service/request"
)

type CreateRequestReq struct {
	Description string `json:"description" validate:"required"`
}

type Controller struct {
	Svc rs.Service
	V   *validator.Validate
	Log *slog.Logger
}

// POST /requests
func (h *Controller) Create(c echo.Context) error {
	var req CreateRequestReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"message": "validation error",
			"errors":  err.Error(),
		})
	}
	uid, _ := c.Get("user_id").(int64)

	out, err := h.Svc.Create(c.Request().Context(), uid, req.Description)
	if err != nil {
		return respond.Err(c, h.Log, "request create", err)
	}
	return c.JSON(http.StatusCreated, out)
}

// GET /requests
func (h *Controller) GetOwn(c echo.Context) error {
	uid, _ := c.Get("user_id").(int64)

	out, err := h.Svc.GetOwn(c.Request().Context(), uid)
	if err != nil {
		return respond.Err(c, h.Log, "request list own", err)
	}
	return c.JSON(http.StatusOK, out)
}

// GET /requests/all
func (h *Controller) GetOthers(c echo.Context) error {
	uid, _ := c.Get("user_id").(int64)

	out, err := h.Svc.GetOthers(c.Request().Context(), uid)
	if err != nil {
		return respond.Err(c, h.Log, "request list others", err)
	}
	return c.JSON(http.StatusOK, out)
}

// GET /requests/:id
func (h *Controller) GetByID(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	uid, _ := c.Get("user_id").(int64)

	out, err := h.Svc.GetByID(c.Request().Context(), uid, id)
	if err != nil {
		return respond.Err(c, h.Log, "request get", err)
	}
	return c.JSON(http.StatusOK, out)
}
