package main

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"center-onboard/internal/enrich"
	"center-onboard/internal/form"
)

// handleLocate godoc
// @Summary Acquire the center's coordinates
// @Description Request one fresh position fix and write it into the form. Only one acquisition may run at a time; a second trigger is rejected with 409.
// @Tags location
// @Produce json
// @Param id path string true "Session id"
// @Success 200 {object} SessionResponse
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Failure 502 {object} map[string]string
// @Router /sessions/{id}/locate [post]
func (app *App) handleLocate(c *gin.Context) {
	id := c.Param("id")
	if _, err := app.sessions.Get(id); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	fix, err := app.enricher.AcquireCoordinates()
	if err != nil {
		if errors.Is(err, enrich.ErrAcquireInFlight) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}

		var locErr *enrich.LocationError
		if errors.As(err, &locErr) {
			// Record the failure on the form so the location error is
			// visible alongside the other field errors.
			if _, derr := app.sessions.Dispatch(id, form.LocationFailed{Reason: locErr.Reason}); derr != nil {
				c.JSON(http.StatusNotFound, gin.H{"error": derr.Error()})
				return
			}
			c.JSON(http.StatusBadGateway, gin.H{"error": locErr.Reason})
			return
		}

		app.logger.Error("coordinate acquisition failed", "session", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to acquire coordinates"})
		return
	}

	state, err := app.sessions.Dispatch(id, form.LocationSucceeded{
		Latitude:  fix.Latitude,
		Longitude: fix.Longitude,
	})
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, SessionResponse{ID: id, State: state})
}

// handleAutofill godoc
// @Summary Auto-fill the address from coordinates
// @Description Reverse-geocode the acquired coordinates and fill the city, state, and zip fields the user left empty. Manual entries are never overwritten.
// @Tags location
// @Produce json
// @Param id path string true "Session id"
// @Success 200 {object} SessionResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Failure 502 {object} map[string]string
// @Router /sessions/{id}/autofill [post]
func (app *App) handleAutofill(c *gin.Context) {
	id := c.Param("id")

	current, err := app.sessions.Get(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	fill, err := app.enricher.AutofillAddress(current.Record.Latitude, current.Record.Longitude)
	if err != nil {
		switch {
		case errors.Is(err, enrich.ErrNoCoordinates):
			c.JSON(http.StatusBadRequest, gin.H{"error": "acquire the location before auto-filling the address"})
		case errors.Is(err, enrich.ErrAutofillInFlight):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			var enrErr *enrich.EnrichmentError
			if errors.As(err, &enrErr) {
				// Advisory failure: surface the notice, leave the record
				// untouched and fully editable.
				if _, derr := app.sessions.Dispatch(id, form.EnrichFailed{Reason: enrErr.Reason}); derr != nil {
					c.JSON(http.StatusNotFound, gin.H{"error": derr.Error()})
					return
				}
				c.JSON(http.StatusBadGateway, gin.H{"error": enrErr.Reason})
				return
			}
			app.logger.Error("address autofill failed", "session", id, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to auto-fill address"})
		}
		return
	}

	state, err := app.sessions.Dispatch(id, form.AddressEnriched{
		City:    fill.City,
		State:   fill.State,
		ZipCode: fill.ZipCode,
		Country: fill.Country,
	})
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, SessionResponse{ID: id, State: state})
}
