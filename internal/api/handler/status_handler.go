package handler

import (
	"customer-registry/internal/api/handler/dto"
	"net/http"
)

// Status handles GET /api/status
// @Summary Liveness check
// @Description Reports that the server is running. Storage is not consulted.
// @Tags Status
// @Produce json
// @Success 200 {object} dto.StatusResponse "Server is running"
// @Router /api/status [get]
func Status(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, dto.StatusResponse{Status: "ok", Message: dto.MsgServerRunning})
}
