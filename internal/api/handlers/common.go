package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Natenyt/AI-Powered-Government-System/internal/utils"
)

type APIError struct {
	Code    utils.Code `json:"code"`
	Message string     `json:"message"`
}

func writeError(c *gin.Context, err error) {
	status := utils.HTTPStatus(err)

	var ae *utils.AppError
	if errors.As(err, &ae) {
		c.JSON(status, APIError{
			Code:    ae.Code,
			Message: ae.Message,
		})
		return
	}

	c.JSON(status, APIError{
		Code:    utils.CodeInternal,
		Message: http.StatusText(status),
	})
}

func requireParam(c *gin.Context, op, name string) (string, bool) {
	v := c.Param(name)
	if v == "" {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "missing "+name, nil))
		return "", false
	}
	return v, true
}

func requireInt64Param(c *gin.Context, op, name string) (int64, bool) {
	v, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || v <= 0 {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "invalid "+name, err))
		return 0, false
	}
	return v, true
}
