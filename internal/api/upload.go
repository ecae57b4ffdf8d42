package api

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/recipehub/backend/internal/service"
)

// UploadHandler accepts recipe thumbnails and profile photos
type UploadHandler struct {
	imageService service.IImageService
}

func NewUploadHandler(imageService service.IImageService) *UploadHandler {
	return &UploadHandler{imageService: imageService}
}

func (h *UploadHandler) RegisterRoutes(router *gin.RouterGroup, requireAuth gin.HandlerFunc) {
	router.POST("/uploads/images", requireAuth, h.UploadImage)
}

// UploadImage takes a multipart "file" field and returns {"url": ...}
func (h *UploadHandler) UploadImage(c *gin.Context) {
	// multipart framing needs some room beyond the file itself
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, service.MaxImageSize+1<<20)

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		fail(c, service.NewValidationError("a file field with an image is required, at most 5MB"))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, service.MaxImageSize+1))
	if err != nil {
		fail(c, service.NewValidationError("could not read the uploaded file"))
		return
	}

	url, err := h.imageService.Upload(c.Request.Context(), claims(c).UserID, data, header.Header.Get("Content-Type"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"url": url})
}
