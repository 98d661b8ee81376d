package echoServer

import (
	"github.com/labstack/echo/v4"

	bookingctrl "shareit/app/echoServer/controller/booking"
	itemctrl "shareit/app/echoServer/controller/item"
	requestctrl "shareit/app/echoServer/controller/request"
	userctrl "shareit/app/echoServer/controller/user"
)

type C struct {
	User    *userctrl.Controller
	Item    *itemctrl.Controller
	Booking *bookingctrl.Controller
	Request *requestctrl.Controller
}

func Register(e *echo.Echo, c C) {
	// Users: plain CRUD, no caller header involved.
	users := e.Group("/users")
	users.POST("", c.User.Create)
	users.GET("", c.User.GetAll)
	users.GET("/:id", c.User.GetByID)
	users.PATCH("/:id", c.User.Update)
	users.DELETE("/:id", c.User.Delete)

	// Search is the one item route without a caller.
	e.GET("/items/search", c.Item.Search)

	items := e.Group("/items", CallerID())
	items.POST("", c.Item.Create)
	items.GET("", c.Item.GetAll)
	items.GET("/:id", c.Item.GetByID)
	items.PATCH("/:id", c.Item.Update)
	items.POST("/:id/comment", c.Item.AddComment)

	bookings := e.Group("/bookings", CallerID())
	bookings.POST("", c.Booking.Create)
	bookings.GET("", c.Booking.ListByBooker)
	bookings.GET("/owner", c.Booking.ListByOwner)
	bookings.GET("/:id", c.Booking.GetByID)
	bookings.PATCH("/:id", c.Booking.Approve)
	bookings.PATCH("/:id/cancel", c.Booking.Cancel)

	requests := e.Group("/requests", CallerID())
	requests.POST("", c.Request.Create)
	requests.GET("", c.Request.GetOwn)
	requests.GET("/all", c.Request.GetOthers)
	requests.GET("/:id", c.Request.GetByID)
}
