// Package respond maps service failures onto HTTP statuses.
package respond

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"shareit/service/fail"
)

func Err(c echo.Context, log *slog.Logger, op string, err error) error {
	switch fail.KindOf(err) {
	case fail.KindNotFound:
		return c.JSON(http.StatusNotFound, echo.Map{"message": err.Error()})
	case fail.KindForbidden:
		return c.JSON(http.StatusForbidden, echo.Map{"message": err.Error()})
	case fail.KindInvalid:
		return c.JSON(http.StatusBadRequest, echo.Map{"message": err.Error()})
	case fail.KindConflict:
		return c.JSON(http.StatusConflict, echo.Map{"message": err.Error()})
	default:
		log.Error(op, "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
}
