package controller

import "github.com/labstack/echo/v4"

type TaskController interface {
	Create(c echo.Context) error
	List(c echo.Context) error
	Assignable(c echo.Context) error
	Register(e *echo.Echo)
}
