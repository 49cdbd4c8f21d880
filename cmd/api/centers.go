package main

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"center-onboard/internal/store"
)

// handleListCenters godoc
// @Summary List onboarded service centers
// @Tags centers
// @Produce json
// @Param limit query int false "Maximum results" default(50)
// @Success 200 {array} store.ServiceCenter
// @Failure 500 {object} map[string]string
// @Router /centers [get]
func (app *App) handleListCenters(c *gin.Context) {
	limit := 50
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
			return
		}
		limit = parsed
	}

	centers, err := app.centers.List(limit)
	if err != nil {
		app.logger.Error("failed to list centers", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list service centers"})
		return
	}

	c.JSON(http.StatusOK, centers)
}

// handleGetCenter godoc
// @Summary Get one onboarded service center
// @Tags centers
// @Produce json
// @Param id path int true "Center id"
// @Success 200 {object} store.ServiceCenter
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /centers/{id} [get]
func (app *App) handleGetCenter(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid center id"})
		return
	}

	center, err := app.centers.Get(uint(id))
	if err != nil {
		if errors.Is(err, store.ErrCenterNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		app.logger.Error("failed to fetch center", "id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch service center"})
		return
	}

	c.JSON(http.StatusOK, center)
}
