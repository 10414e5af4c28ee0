package handler

import (
	"net/http"
	"strconv"

	"github.com/mtlprog/taskflow/internal/handler/dto"
)

// handleListCategories lists categories.
// @Summary List categories
// @Tags categories
// @Produce json
// @Param recount query bool false "Recompute task counts from the tasks"
// @Success 200 {object} dto.CategoriesListResponse
// @Security BearerAuth
// @Router /categories [get]
func (h *Handler) handleListCategories(w http.ResponseWriter, r *http.Request) {
	recount := false
	if raw := r.URL.Query().Get("recount"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			respondError(w, http.StatusBadRequest, "INVALID_REQUEST", "recount must be a boolean")
			return
		}
		recount = v
	}

	categories, err := h.taskService.ListCategories(r.Context(), recount)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.ToCategoriesListResponse(categories))
}

// handleCreateCategory creates a category.
// @Summary Create a category
// @Tags categories
// @Accept json
// @Produce json
// @Param request body dto.CreateCategoryRequest true "Category"
// @Success 201 {object} dto.CategoryResponse
// @Failure 409 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /categories [post]
func (h *Handler) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateCategoryRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	c, err := h.taskService.CreateCategory(r.Context(), req.Name, req.Color)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, dto.ToCategoryResponse(c))
}

// handleUpdateCategory renames or recolors a category.
// @Summary Update a category
// @Tags categories
// @Accept json
// @Produce json
// @Param id path int true "Category ID"
// @Param request body dto.UpdateCategoryRequest true "Fields to change"
// @Success 200 {object} dto.CategoryResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /categories/{id} [patch]
func (h *Handler) handleUpdateCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := extractID(w, r)
	if !ok {
		return
	}

	var req dto.UpdateCategoryRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	c, err := h.taskService.UpdateCategory(r.Context(), id, req.ToPatch())
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.ToCategoryResponse(c))
}

// handleDeleteCategory deletes a category. Tasks keep their category name.
// @Summary Delete a category
// @Tags categories
// @Param id path int true "Category ID"
// @Success 204
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /categories/{id} [delete]
func (h *Handler) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := extractID(w, r)
	if !ok {
		return
	}

	if err := h.taskService.DeleteCategory(r.Context(), id); err != nil {
		respondDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
