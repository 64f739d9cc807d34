package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/lensfolio/internal/domain"
)

type idsPayload struct {
	IDs []string `json:"ids"`
}

func parseGalleryFilter(c *gin.Context) (domain.GalleryFilter, string) {
	var filter domain.GalleryFilter

	opts, err := parseListOptions(c)
	if err != nil {
		return filter, err.Error()
	}
	filter.ListOptions = opts

	if raw := strings.TrimSpace(c.Query("category")); raw != "" {
		category := domain.GalleryCategory(strings.ToLower(raw))
		if !category.Valid() {
			return filter, "无效的作品集分类"
		}
		filter.Category = &category
	}
	published, err := parseOptionalBool(c.Query("published"))
	if err != nil {
		return filter, "invalid published"
	}
	filter.IsPublished = published
	return filter, ""
}

// ListPublicGalleries returns published galleries.
func (a *API) ListPublicGalleries(c *gin.Context) {
	filter, problem := parseGalleryFilter(c)
	if problem != "" {
		respondError(c, http.StatusBadRequest, problem)
		return
	}
	published := true
	filter.IsPublished = &published

	respondItems(a, c, a.galleries.FindAll(c.Request.Context(), filter))
}

// ShowPublicGallery returns a published gallery and its published photos.
func (a *API) ShowPublicGallery(c *gin.Context) {
	ctx := c.Request.Context()

	found := a.galleries.FindBySlug(ctx, c.Param("slug"))
	if found.IsFailure() {
		a.respondDomainError(c, found.Err())
		return
	}
	if !found.Value().IsPublished {
		respondError(c, http.StatusNotFound, "作品集不存在")
		return
	}

	res := a.galleries.FindByIDWithPhotos(ctx, found.Value().ID)
	if res.IsFailure() {
		a.respondDomainError(c, res.Err())
		return
	}

	view := *res.Value()
	photos := make([]domain.Photo, 0, len(view.Photos))
	for _, photo := range view.Photos {
		if photo.IsPublished {
			photos = append(photos, photo)
		}
	}
	view.Photos = photos
	view.LivePhotoCount = len(photos)

	c.JSON(http.StatusOK, gin.H{"item": view})
}

// ListGalleries returns galleries for the admin console.
func (a *API) ListGalleries(c *gin.Context) {
	filter, problem := parseGalleryFilter(c)
	if problem != "" {
		respondError(c, http.StatusBadRequest, problem)
		return
	}
	respondItems(a, c, a.galleries.FindAll(c.Request.Context(), filter))
}

// GetGallery returns one gallery with all of its photos.
func (a *API) GetGallery(c *gin.Context) {
	respondItem(a, c, http.StatusOK, a.galleries.FindByIDWithPhotos(c.Request.Context(), c.Param("id")))
}

// CreateGallery creates a gallery.
func (a *API) CreateGallery(c *gin.Context) {
	var payload domain.CreateGalleryInput
	if !bindJSON(c, &payload, "请求参数不合法") {
		return
	}
	respondItem(a, c, http.StatusCreated, a.galleries.Create(c.Request.Context(), payload))
}

// UpdateGallery applies a partial update.
func (a *API) UpdateGallery(c *gin.Context) {
	var payload domain.UpdateGalleryInput
	if !bindJSON(c, &payload, "请求参数不合法") {
		return
	}
	respondItem(a, c, http.StatusOK, a.galleries.Update(c.Request.Context(), c.Param("id"), payload))
}

// DeleteGallery removes a gallery. deletePhotos=true removes its photos too.
func (a *API) DeleteGallery(c *gin.Context) {
	deletePhotos, err := parseOptionalBool(c.Query("deletePhotos"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid deletePhotos")
		return
	}

	res := a.galleries.Delete(c.Request.Context(), c.Param("id"), deletePhotos != nil && *deletePhotos)
	if res.IsFailure() {
		a.respondDomainError(c, res.Err())
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "作品集已删除"})
}

// ReorderGalleries assigns display orders from the position of each id.
func (a *API) ReorderGalleries(c *gin.Context) {
	var payload idsPayload
	if !bindJSON(c, &payload, "请求参数不合法") {
		return
	}
	respondItem(a, c, http.StatusOK, a.galleries.Reorder(c.Request.Context(), payload.IDs))
}

// RefreshGalleryPhotoCount recounts the gallery's photos.
func (a *API) RefreshGalleryPhotoCount(c *gin.Context) {
	respondItem(a, c, http.StatusOK, a.galleries.UpdatePhotoCount(c.Request.Context(), c.Param("id")))
}

// CheckGallerySlug reports whether slug is free, ignoring excludeId.
func (a *API) CheckGallerySlug(c *gin.Context) {
	res := a.galleries.IsSlugAvailable(c.Request.Context(), c.Query("slug"), c.Query("excludeId"))
	if res.IsFailure() {
		a.respondDomainError(c, res.Err())
		return
	}
	c.JSON(http.StatusOK, gin.H{"available": res.Value()})
}
