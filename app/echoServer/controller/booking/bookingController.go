package booking

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"shareit/app/echoServer/respond"
	"shareit/model"
	bs "shareit/service/booking"
)

type Controller struct {
	Svc bs.Service
	V   *validator.Validate
	Log *slog.Logger
}

// POST /bookings
func (h *Controller) Create(c echo.Context) error {
	var req CreateBookingReq
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

	out, err := h.Svc.Create(c.Request().Context(), uid, bs.CreateReq{
		ItemID: req.ItemID,
		Start:  req.Start,
		End:    req.End,
	})
	if err != nil {
		return respond.Err(c, h.Log, "booking create", err)
	}
	return c.JSON(http.StatusCreated, out)
}

// PATCH /bookings/:id?approved=
func (h *Controller) Approve(c echo.Context) error {
	id, err := parseID(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	approved, err := strconv.ParseBool(c.QueryParam("approved"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "approved must be true or false"})
	}
	uid, _ := c.Get("user_id").(int64)

	out, err := h.Svc.Approve(c.Request().Context(), uid, id, approved)
	if err != nil {
		return respond.Err(c, h.Log, "booking approve", err)
	}
	return c.JSON(http.StatusOK, out)
}

// PATCH /bookings/:id/cancel
func (h *Controller) Cancel(c echo.Context) error {
	id, err := parseID(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	uid, _ := c.Get("user_id").(int64)

	out, err := h.Svc.Cancel(c.Request().Context(), uid, id)
	if err != nil {
		return respond.Err(c, h.Log, "booking cancel", err)
	}
	return c.JSON(http.StatusOK, out)
}

// GET /bookings/:id
func (h *Controller) GetByID(c echo.Context) error {
	id, err := parseID(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	uid, _ := c.Get("user_id").(int64)

	out, err := h.Svc.GetByID(c.Request().Context(), uid, id)
	if err != nil {
		return respond.Err(c, h.Log, "booking get", err)
	}
	return c.JSON(http.StatusOK, out)
}

// GET /bookings?state=
func (h *Controller) ListByBooker(c echo.Context) error {
	state, err := model.ParseBookingState(c.QueryParam("state"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": err.Error()})
	}
	uid, _ := c.Get("user_id").(int64)

	out, err := h.Svc.ListByBooker(c.Request().Context(), uid, state)
	if err != nil {
		return respond.Err(c, h.Log, "booking list by booker", err)
	}
	return c.JSON(http.StatusOK, out)
}

// GET /bookings/owner?state=
func (h *Controller) ListByOwner(c echo.Context) error {
	state, err := model.ParseBookingState(c.QueryParam("state"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": err.Error()})
	}
	uid, _ := c.Get("user_id").(int64)

	out, err := h.Svc.ListByOwner(c.Request().Context(), uid, state)
	if err != nil {
		return respond.Err(c, h.Log, "booking list by owner", err)
	}
	return c.JSON(http.StatusOK, out)
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, strconv.ErrSyntax
	}
	return id, nil
}
