package item

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"shareit/app/echoServer/respond"
	is "shareit/service/item"
)

type Controller struct {
	Svc is.Service
	V   *validator.Validate
	Log *slog.Logger
}

// POST /items
func (h *Controller) Create(c echo.Context) error {
	var req CreateItemReq
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

	out, err := h.Svc.Add(c.Request().Context(), uid, is.CreateReq{
		Name:        req.Name,
		Description: req.Description,
		Available:   *req.Available,
		RequestID:   req.RequestID,
	})
	if err != nil {
		return respond.Err(c, h.Log, "item create", err)
	}
	return c.JSON(http.StatusCreated, out)
}

// PATCH /items/:id
func (h *Controller) Update(c echo.Context) error {
	id, err := parseID(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	var req UpdateItemReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	uid, _ := c.Get("user_id").(int64)

	out, err := h.Svc.Update(c.Request().Context(), uid, id, is.UpdateReq{
		Name:        req.Name,
		Description: req.Description,
		Available:   req.Available,
	})
	if err != nil {
		return respond.Err(c, h.Log, "item update", err)
	}
	return c.JSON(http.StatusOK, out)
}

// GET /items/:id
func (h *Controller) GetByID(c echo.Context) error {
	id, err := parseID(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	uid, _ := c.Get("user_id").(int64)

	out, err := h.Svc.GetByID(c.Request().Context(), uid, id)
	if err != nil {
		return respond.Err(c, h.Log, "item get", err)
	}
	return c.JSON(http.StatusOK, out)
}

// GET /items
func (h *Controller) GetAll(c echo.Context) error {
	uid, _ := c.Get("user_id").(int64)

	out, err := h.Svc.GetAll(c.Request().Context(), uid)
	if err != nil {
		return respond.Err(c, h.Log, "item list", err)
	}
	return c.JSON(http.StatusOK, out)
}

// GET /items/search?text=
func (h *Controller) Search(c echo.Context) error {
	out, err := h.Svc.Search(c.Request().Context(), c.QueryParam("text"))
	if err != nil {
		return respond.Err(c, h.Log, "item search", err)
	}
	return c.JSON(http.StatusOK, out)
}

// POST /items/:id/comment
func (h *Controller) AddComment(c echo.Context) error {
	id, err := parseID(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	var req CreateCommentReq
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

	out, err := h.Svc.AddComment(c.Request().Context(), uid, id, req.Text)
	if err != nil {
		return respond.Err(c, h.Log, "comment create", err)
	}
	return c.JSON(http.StatusCreated, out)
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, strconv.ErrSyntax
	}
	return id, nil
}
