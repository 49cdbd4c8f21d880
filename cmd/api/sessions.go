package main

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"center-onboard/internal/form"
	"center-onboard/internal/session"
	"center-onboard/internal/store"
)

// SessionResponse is the state of one form session.
type SessionResponse struct {
	ID    string     `json:"id"`
	State form.State `json:"state"`
}

// EditFieldInput sets one text field to a new value.
type EditFieldInput struct {
	Field string `json:"field" binding:"required"` // Field name, e.g. centerName
	Value string `json:"value"`                    // New value, may be empty
}

// handleCreateSession godoc
// @Summary Open a new onboarding form
// @Description Create an empty form session. The session id addresses every later form operation.
// @Tags sessions
// @Produce json
// @Success 201 {object} SessionResponse
// @Router /sessions [post]
func (app *App) handleCreateSession(c *gin.Context) {
	id, state := app.sessions.Create()
	c.JSON(http.StatusCreated, SessionResponse{ID: id, State: state})
}

// handleGetSession godoc
// @Summary Get the current form state
// @Tags sessions
// @Produce json
// @Param id path string true "Session id"
// @Success 200 {object} SessionResponse
// @Failure 404 {object} map[string]string
// @Router /sessions/{id} [get]
func (app *App) handleGetSession(c *gin.Context) {
	id := c.Param("id")

	state, err := app.sessions.Get(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, SessionResponse{ID: id, State: state})
}

// handleDeleteSession godoc
// @Summary Discard a form session
// @Description Tear the session down and release its image previews.
// @Tags sessions
// @Param id path string true "Session id"
// @Success 204
// @Failure 404 {object} map[string]string
// @Router /sessions/{id} [delete]
func (app *App) handleDeleteSession(c *gin.Context) {
	if err := app.sessions.Remove(c.Param("id")); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

// handleEditField godoc
// @Summary Edit one form field
// @Description Overwrite a text field and clear its validation error, if any.
// @Tags sessions
// @Accept json
// @Produce json
// @Param id path string true "Session id"
// @Param input body EditFieldInput true "Field edit"
// @Success 200 {object} SessionResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /sessions/{id}/fields [patch]
func (app *App) handleEditField(c *gin.Context) {
	var input EditFieldInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	id := c.Param("id")
	state, err := app.sessions.Dispatch(id, form.FieldEdited{Field: input.Field, Value: input.Value})
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, SessionResponse{ID: id, State: state})
}

// handleToggleCategory godoc
// @Summary Toggle a category tag
// @Description Select the tag if absent, deselect it if present.
// @Tags sessions
// @Produce json
// @Param id path string true "Session id"
// @Param category path string true "Category" Enums(Mechanic, AC, Electrician)
// @Success 200 {object} SessionResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /sessions/{id}/categories/{category} [post]
func (app *App) handleToggleCategory(c *gin.Context) {
	category := form.Category(c.Param("category"))
	if !form.ValidCategory(category) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown category: " + string(category)})
		return
	}

	id := c.Param("id")
	state, err := app.sessions.Dispatch(id, form.CategoryToggled{Category: category})
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, SessionResponse{ID: id, State: state})
}

// SubmitErrorsResponse carries the validation errors of a rejected
// submission. Entered data is kept; the form stays editable.
type SubmitErrorsResponse struct {
	Errors form.Errors `json:"errors"`
}

// handleSubmit godoc
// @Summary Submit the form
// @Description Run full validation. On success the record is persisted and the session ends; on failure the error map is returned and the form keeps its data.
// @Tags sessions
// @Produce json
// @Param id path string true "Session id"
// @Success 201 {object} store.ServiceCenter
// @Failure 404 {object} map[string]string
// @Failure 422 {object} SubmitErrorsResponse
// @Failure 500 {object} map[string]string
// @Router /sessions/{id}/submit [post]
func (app *App) handleSubmit(c *gin.Context) {
	id := c.Param("id")

	state, err := app.sessions.Dispatch(id, form.Submitted{})
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	if !state.Accepted {
		c.JSON(http.StatusUnprocessableEntity, SubmitErrorsResponse{Errors: state.Errors})
		return
	}

	center := store.FromRecord(state.Record)
	if err := app.centers.Create(center); err != nil {
		app.logger.Error("failed to persist center", "session", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save service center"})
		return
	}

	// The images now belong to the persisted center; only the previews
	// are released with the session.
	if err := app.sessions.Detach(id); err != nil && !errors.Is(err, session.ErrNotFound) {
		app.logger.Warn("failed to detach session", "session", id, "error", err)
	}

	app.logger.Info("service center onboarded", "id", center.ID, "name", center.Name)
	c.JSON(http.StatusCreated, center)
}
