// Package response renders the flat JSON bodies the browser client keys on.
// Every body carries a "message" field; create-user additionally carries the
// generated "userId".
package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// OK writes a 200 with the given message and any extra fields merged in.
func OK(c *gin.Context, message string, extra gin.H) {
	body := gin.H{"message": message}
	for k, v := range extra {
		body[k] = v
	}
	c.JSON(http.StatusOK, body)
}

// BadRequest writes a 400 with per-field validation details.
func BadRequest(c *gin.Context, message string, details map[string]string) {
	body := gin.H{"message": message}
	if len(details) > 0 {
		body["details"] = details
	}
	c.JSON(http.StatusBadRequest, body)
}

// ServerError writes a 500 carrying the raw error message. Storage failures
// are surfaced unclassified.
func ServerError(c *gin.Context, err error) {
	c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
}
