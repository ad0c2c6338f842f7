package api

import (
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"github.com/HusseinZein235/SalesAssociate/internal/files"
)

// FileInfo describes one stored file.
type FileInfo struct {
	Name string     `json:"name"`
	Path string     `json:"path"`
	Kind files.Kind `json:"kind"`
	Size string     `json:"size"`
}

// ListFiles returns the stored spreadsheets and photos.
// GET /api/files
func (h *Handler) ListFiles(c *gin.Context) {
	spreadsheets, err := h.svc.Files().SpreadsheetFiles()
	if err != nil {
		writeError(c, err)
		return
	}
	photos, err := h.svc.Files().PhotoFiles()
	if err != nil {
		writeError(c, err)
		return
	}

	infos := make([]FileInfo, 0, len(spreadsheets)+len(photos))
	for _, path := range append(spreadsheets, photos...) {
		info := FileInfo{
			Name: filepath.Base(path),
			Path: path,
			Kind: files.Classify(path),
		}
		if stat, err := os.Stat(path); err == nil {
			info.Size = files.HumanSize(stat.Size())
		}
		infos = append(infos, info)
	}
	c.JSON(http.StatusOK, infos)
}

// ImportPhotoFolderRequest names a local folder of product photos.
type ImportPhotoFolderRequest struct {
	Path string `json:"path"`
}

// ImportPhotoFolder copies the images in a local folder into photo storage.
// POST /api/files/photos
func (h *Handler) ImportPhotoFolder(c *gin.Context) {
	var req ImportPhotoFolderRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Path == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "path is required"})
		return
	}

	copied, err := h.svc.Files().ImportFolder(req.Path)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"copied": copied})
}
