package handler

import (
	"errors"
	"strconv"

	"github.com/coinctrl/coinctrl/internal/service"
	"github.com/coinctrl/coinctrl/pkg/response"
	"github.com/gin-gonic/gin"
)

// paramID parses a numeric path parameter. Returns 0 and writes a 400
// response when the value is not a positive integer.
func paramID(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		response.BadRequest(c, "invalid "+name)
		return 0, false
	}
	return uint(id), true
}

// handleValidation writes a field-level 400 when err carries validation
// failures. Returns true if the error was handled.
func handleValidation(c *gin.Context, err error) bool {
	var verrs service.ValidationErrors
	if errors.As(err, &verrs) {
		response.ValidationFailed(c, verrs)
		return true
	}
	return false
}
