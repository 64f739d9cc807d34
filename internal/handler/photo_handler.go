package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lensfolio/internal/domain"
	"github.com/lensfolio/internal/logger"
	"go.uber.org/zap"
)

// multipartOverhead leaves room for form fields and part headers on top of
// the file itself.
const multipartOverhead = 1 << 20

type movePhotoPayload struct {
	TargetGalleryID string `json:"targetGalleryId"`
	DisplayOrder    *int   `json:"displayOrder"`
}

// ListPhotos returns photos filtered by galleryId and published.
func (a *API) ListPhotos(c *gin.Context) {
	opts, err := parseListOptions(c)
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	published, err := parseOptionalBool(c.Query("published"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid published")
		return
	}

	filter := domain.PhotoFilter{IsPublished: published, ListOptions: opts}
	if galleryID := strings.TrimSpace(c.Query("galleryId")); galleryID != "" {
		filter.GalleryID = &galleryID
	}
	respondItems(a, c, a.photos.FindAll(c.Request.Context(), filter))
}

// ListGalleryPhotos returns the photos of one gallery in display order.
func (a *API) ListGalleryPhotos(c *gin.Context) {
	respondItems(a, c, a.photos.FindByGallery(c.Request.Context(), c.Param("id")))
}

// GetPhoto returns one photo.
func (a *API) GetPhoto(c *gin.Context) {
	respondItem(a, c, http.StatusOK, a.photos.FindByID(c.Request.Context(), c.Param("id")))
}

// UploadPhoto stores the multipart "file" field and registers it in the
// gallery named by the galleryId field.
func (a *API) UploadPhoto(c *gin.Context) {
	if a.maxUpload > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, a.maxUpload+multipartOverhead)
	}

	header, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondError(c, http.StatusRequestEntityTooLarge, "文件过大")
			return
		}
		respondError(c, http.StatusBadRequest, "请选择要上传的文件")
		return
	}

	displayOrder, err := parseOptionalInt(c.PostForm("displayOrder"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid displayOrder")
		return
	}
	published, err := parseOptionalBool(c.PostForm("isPublished"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid isPublished")
		return
	}

	file, err := header.Open()
	if err != nil {
		respondError(c, http.StatusBadRequest, "读取上传文件失败")
		return
	}
	defer file.Close()

	galleryID := c.PostForm("galleryId")
	input := domain.UploadPhotoInput{
		GalleryID:    galleryID,
		Title:        c.PostForm("title"),
		Description:  optionalString(c.PostForm("description")),
		FileName:     header.Filename,
		ContentType:  header.Header.Get("Content-Type"),
		Size:         header.Size,
		File:         file,
		DisplayOrder: displayOrder,
		IsPublished:  published,
	}

	progress := func(p domain.UploadProgress) {
		a.log.Debug("upload progress", logger.GalleryID(galleryID), zap.String("stage", string(p.Stage)), zap.Int("percent", p.Percent))
	}
	respondItem(a, c, http.StatusCreated, a.photos.Upload(c.Request.Context(), input, progress))
}

// UpdatePhoto applies a partial update.
func (a *API) UpdatePhoto(c *gin.Context) {
	var payload domain.UpdatePhotoInput
	if !bindJSON(c, &payload, "请求参数不合法") {
		return
	}
	respondItem(a, c, http.StatusOK, a.photos.Update(c.Request.Context(), c.Param("id"), payload))
}

// MovePhoto reassigns a photo to another gallery.
func (a *API) MovePhoto(c *gin.Context) {
	var payload movePhotoPayload
	if !bindJSON(c, &payload, "请求参数不合法") {
		return
	}
	respondItem(a, c, http.StatusOK, a.photos.Move(c.Request.Context(), domain.MovePhotoInput{
		PhotoID:         c.Param("id"),
		TargetGalleryID: payload.TargetGalleryID,
		DisplayOrder:    payload.DisplayOrder,
	}))
}

// DeletePhoto removes a photo and its stored object.
func (a *API) DeletePhoto(c *gin.Context) {
	res := a.photos.Delete(c.Request.Context(), c.Param("id"))
	if res.IsFailure() {
		a.respondDomainError(c, res.Err())
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "照片已删除"})
}

// DeletePhotos removes several photos one at a time.
func (a *API) DeletePhotos(c *gin.Context) {
	var payload idsPayload
	if !bindJSON(c, &payload, "请求参数不合法") {
		return
	}
	res := a.photos.DeleteBatch(c.Request.Context(), payload.IDs)
	if res.IsFailure() {
		a.respondDomainError(c, res.Err())
		return
	}
	c.JSON(http.StatusOK, gin.H{"item": outcomeView(res.Value())})
}

// ReorderPhotos assigns display orders within one gallery.
func (a *API) ReorderPhotos(c *gin.Context) {
	var payload idsPayload
	if !bindJSON(c, &payload, "请求参数不合法") {
		return
	}
	respondItem(a, c, http.StatusOK, a.photos.Reorder(c.Request.Context(), c.Param("id"), payload.IDs))
}

// PhotoURL returns a time-limited URL for the photo, or for its thumbnail
// with thumbnail=true. ttl is a Go duration such as 15m.
func (a *API) PhotoURL(c *gin.Context) {
	var ttl time.Duration
	if raw := strings.TrimSpace(c.Query("ttl")); raw != "" {
		parsed, err := time.ParseDuration(raw)
		if err != nil || parsed <= 0 {
			respondError(c, http.StatusBadRequest, "invalid ttl")
			return
		}
		ttl = parsed
	}
	thumbnail, err := parseOptionalBool(c.Query("thumbnail"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid thumbnail")
		return
	}

	ctx := c.Request.Context()
	found := a.photos.FindByID(ctx, c.Param("id"))
	if found.IsFailure() {
		a.respondDomainError(c, found.Err())
		return
	}

	var res domain.Result[string]
	if thumbnail != nil && *thumbnail {
		res = a.photos.GetThumbnailURL(ctx, found.Value().StorageKey, ttl)
	} else {
		res = a.photos.GetPhotoURL(ctx, found.Value().StorageKey, ttl)
	}
	if res.IsFailure() {
		a.respondDomainError(c, res.Err())
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": res.Value()})
}

// EnrichPhoto reads the stored image and records its dimensions.
func (a *API) EnrichPhoto(c *gin.Context) {
	respondItem(a, c, http.StatusOK, a.photos.EnrichDimensions(c.Request.Context(), c.Param("id")))
}
