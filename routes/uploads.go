package routes

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"decor-marketplace-server/media"
	"decor-marketplace-server/middleware"
)

type UploadHandler struct {
	uploader media.Uploader
	folder   string
}

// NewUploadHandler accepts a nil uploader, in which case uploads answer 503
func NewUploadHandler(uploader media.Uploader, folder string) *UploadHandler {
	return &UploadHandler{uploader: uploader, folder: folder}
}

func (h *UploadHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/uploads/image", h.uploadImage)
}

func (h *UploadHandler) uploadImage(c *gin.Context) {
	if h.uploader == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error":   "Uploads disabled",
			"message": "Image hosting is not configured",
		})
		return
	}

	header, err := c.FormFile("image")
	if err != nil {
		respondError(c, media.ErrImageMissing)
		return
	}
	if err := media.ValidateImage(header); err != nil {
		respondError(c, err)
		return
	}

	url, err := h.uploader.UploadImage(c.Request.Context(), header, h.folder)
	if err != nil {
		log.Printf("❌ Image upload by %s failed: %v", middleware.ActorFrom(c).Email, err)
		c.JSON(http.StatusBadGateway, gin.H{
			"error":   "Upload failed",
			"message": "Could not store the image, please try again",
		})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "url": url})
}
