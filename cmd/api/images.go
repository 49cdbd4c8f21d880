package main

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"center-onboard/internal/form"
)

// handleAddImages godoc
// @Summary Upload form images
// @Description Append one or more images to the form, in upload order. Each image gets a preview handle served under /previews.
// @Tags sessions
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Session id"
// @Param images formData file true "Image files"
// @Success 200 {object} SessionResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /sessions/{id}/images [post]
func (app *App) handleAddImages(c *gin.Context) {
	id := c.Param("id")
	if _, err := app.sessions.Get(id); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	mf, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid multipart form"})
		return
	}

	files := mf.File["images"]
	if len(files) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no images provided"})
		return
	}

	var images []form.Image
	for _, fh := range files {
		src, err := fh.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable file: " + fh.Filename})
			return
		}

		img, err := app.images.Save(fh.Filename, src)
		src.Close()
		if err != nil {
			app.logger.Error("failed to store image", "name", fh.Filename, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store image"})
			return
		}
		images = append(images, img)
	}

	state, err := app.sessions.Dispatch(id, form.ImagesAdded{Images: images})
	if err != nil {
		// Session expired between the lookup and the dispatch; the files
		// are orphaned, clean them up.
		for _, img := range images {
			app.images.Discard(img)
		}
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, SessionResponse{ID: id, State: state})
}

// handleRemoveImage godoc
// @Summary Remove one form image
// @Description Delete the image at the given index and release its preview. The other images keep their order.
// @Tags sessions
// @Produce json
// @Param id path string true "Session id"
// @Param index path int true "Image index, zero based"
// @Success 200 {object} SessionResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /sessions/{id}/images/{index} [delete]
func (app *App) handleRemoveImage(c *gin.Context) {
	id := c.Param("id")

	index, err := strconv.Atoi(c.Param("index"))
	if err != nil || index < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid image index"})
		return
	}

	current, err := app.sessions.Get(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	if index >= len(current.Record.Images) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image index out of range"})
		return
	}

	state, err := app.sessions.Dispatch(id, form.ImageRemoved{Index: index})
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, SessionResponse{ID: id, State: state})
}

// handleGetPreview godoc
// @Summary Serve an image preview
// @Description Resolve a live preview handle to its image bytes. Released previews return 404.
// @Tags previews
// @Produce octet-stream
// @Param id path string true "Preview id"
// @Success 200
// @Failure 404 {object} map[string]string
// @Router /previews/{id} [get]
func (app *App) handleGetPreview(c *gin.Context) {
	path, err := app.images.PreviewPath(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.File(path)
}
