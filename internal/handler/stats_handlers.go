package handler

import (
	"net/http"

	"github.com/mtlprog/taskflow/internal/handler/dto"
)

// handleGetStats returns task statistics.
// @Summary Get statistics
// @Description Total, active, completed, completion rate and overdue count of all tasks
// @Tags stats
// @Produce json
// @Success 200 {object} dto.StatsResponse
// @Failure 503 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /stats [get]
func (h *Handler) handleGetStats(w http.ResponseWriter, r *http.Request) {
	report, err := h.taskService.Stats(r.Context())
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.ToStatsResponse(report))
}
