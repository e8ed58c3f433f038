package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
)

// ErrorHandler renders every error as {"message": ...} with a conventional
// status code. Internal details never leak to the client.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	message := "internal server error"

	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		if msg, ok := he.Message.(string); ok {
			message = msg
		}
	}

	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(code)
		return
	}
	_ = c.JSON(code, echo.Map{"message": message})
}
