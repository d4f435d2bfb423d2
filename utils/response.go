package utils

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Success writes the success envelope, merging payload keys next to the
// status marker: {"status":"success", ...payload}.
func Success(c *gin.Context, code int, payload gin.H) {
	body := gin.H{"status": "success"}
	for k, v := range payload {
		body[k] = v
	}
	c.JSON(code, body)
}

// Fail translates a service error into the error envelope. Aggregate
// validation failures keep their itemized list; anything outside the
// taxonomy degrades to a generic 500.
func Fail(c *gin.Context, err error) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		c.JSON(http.StatusBadRequest, gin.H{"status": "fail", "errors": ve.Errors})
		return
	}
	code := HTTPStatus(err)
	msg := err.Error()
	if code == http.StatusInternalServerError {
		msg = "Something went wrong"
	}
	c.JSON(code, gin.H{"message": msg})
}
