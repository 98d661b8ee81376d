package user

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"shareit/app/echoServer/respond"
	us "shareit/service/user"
)

type CreateUserReq struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"required,email"`
}

type UpdateUserReq struct {
	Name  *string `json:"name"`
	Email *string `json:"email" validate:"omitempty,email"`
}

type Controller struct {
	Svc us.Service
	V   *validator.Validate
	Log *slog.Logger
}

// POST /users
func (h *Controller) Create(c echo.Context) error {
	var req CreateUserReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"message": "validation error",
			"errors":  err.Error(),
		})
	}

	out, err := h.Svc.Create(c.Request().Context(), us.CreateReq{Name: req.Name, Email: req.Email})
	if err != nil {
		return respond.Err(c, h.Log, "user create", err)
	}
	return c.JSON(http.StatusCreated, out)
}

// PATCH /users/:id
func (h *Controller) Update(c echo.Context) error {
	id, err := parseID(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	var req UpdateUserReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"message": "validation error",
			"errors":  err.Error(),
		})
	}

	out, err := h.Svc.Update(c.Request().Context(), id, us.UpdateReq{Name: req.Name, Email: req.Email})
	if err != nil {
		return respond.Err(c, h.Log, "user update", err)
	}
	return c.JSON(http.StatusOK, out)
}

// GET /users/:id
func (h *Controller) GetByID(c echo.Context) error {
	id, err := parseID(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}

	out, err := h.Svc.GetByID(c.Request().Context(), id)
	if err != nil {
		return respond.Err(c, h.Log, "user get", err)
	}
	return c.JSON(http.StatusOK, out)
}

// GET /users
func (h *Controller) GetAll(c echo.Context) error {
	out, err := h.Svc.GetAll(c.Request().Context())
	if err != nil {
		return respond.Err(c, h.Log, "user list", err)
	}
	return c.JSON(http.StatusOK, out)
}

// DELETE /users/:id
func (h *Controller) Delete(c echo.Context) error {
	id, err := parseID(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}

	if err := h.Svc.Delete(c.Request().Context(), id); err != nil {
		return respond.Err(c, h.Log, "user delete", err)
	}
	return c.NoContent(http.StatusNoContent)
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, strconv.ErrSyntax
	}
	return id, nil
}
