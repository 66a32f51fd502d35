package httperr

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Respuestas de error con cuerpo {"error": "..."}; los mensajes son cortos,
// en español y sin detalles técnicos. Los códigos internos viajan en los
// BusinessError, nunca hacia el cliente.

func Write(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

func BadRequest(c *gin.Context, message string) {
	Write(c, http.StatusBadRequest, message)
}

// BadRequestDetails agrega detalle a nivel de campo para errores de validación
// (los únicos seguros de mostrar).
func BadRequestDetails(c *gin.Context, message string, details any) {
	c.JSON(http.StatusBadRequest, gin.H{"error": message, "details": details})
}

func Unauthorized(c *gin.Context, message string) {
	Write(c, http.StatusUnauthorized, message)
}

func NotFound(c *gin.Context, message string) {
	Write(c, http.StatusNotFound, message)
}

func Conflict(c *gin.Context, message string) {
	Write(c, http.StatusConflict, message)
}

func TooManyRequests(c *gin.Context, message string) {
	Write(c, http.StatusTooManyRequests, message)
}

func Internal(c *gin.Context, message string) {
	Write(c, http.StatusInternalServerError, message)
}
