// README: Greeting and liveness handlers.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const greeting = "Servicio de valoración de medios de transporte"

type StatusHandler struct{}

func NewStatusHandler() *StatusHandler {
	return &StatusHandler{}
}

func (h *StatusHandler) Root(c *gin.Context) {
	writeJSON(c, http.StatusOK, gin.H{"mensaje": greeting})
}

func (h *StatusHandler) Health(c *gin.Context) {
	c.String(http.StatusOK, "OK")
}
