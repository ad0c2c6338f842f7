package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Import ingests an uploaded workbook, replacing the catalog, and streams
// progress as server-sent events.
// POST /api/import
func (h *Handler) Import(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid form data"})
		return
	}

	uploads := form.File["file"]
	if len(uploads) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no file uploaded"})
		return
	}
	upload := uploads[0]

	src, err := upload.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read upload"})
		return
	}
	defer src.Close()

	// The upload is stored so later syncs can write back into it.
	storedPath, err := h.svc.Files().SaveFile(src, upload.Filename)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store upload"})
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "streaming not supported"})
		return
	}

	for event := range h.svc.ImportWorkbook(c.Request.Context(), storedPath) {
		data, err := json.Marshal(event)
		if err != nil {
			continue
		}
		fmt.Fprintf(c.Writer, "data: %s\n\n", data)
		flusher.Flush()
	}
}

// SyncRequest optionally names the workbook to write back to.
type SyncRequest struct {
	Path string `json:"path"`
}

// Sync writes the current catalog back into a workbook: the one named in
// the request body, else the pinned or most recently uploaded one.
// POST /api/sync
func (h *Handler) Sync(c *gin.Context) {
	var req SyncRequest
	_ = c.ShouldBindJSON(&req)

	path := req.Path
	if path == "" {
		path = h.svc.SyncTarget()
	}
	if path == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no workbook to sync; import one first"})
		return
	}

	report, err := h.svc.SyncWorkbook(c.Request.Context(), path)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"path":    path,
		"updated": report.Updated,
		"missing": report.Missing,
	})
}
