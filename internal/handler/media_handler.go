package handler

import (
	"context"
	"errors"
	"io/fs"
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/lensfolio/internal/domain"
	"github.com/lensfolio/internal/logger"
)

const thumbnailKeyPrefix = "thumbnails/"

// ServeMedia streams a photo stored on local disk. A request carrying expires
// or sig must pass verification. Unsigned requests are only served for
// published photos in published galleries.
func (a *API) ServeMedia(c *gin.Context) {
	if a.media == nil {
		respondError(c, http.StatusNotFound, "文件不存在")
		return
	}

	key := strings.TrimPrefix(c.Param("key"), "/")
	expires, sig := c.Query("expires"), c.Query("sig")
	if expires != "" || sig != "" {
		if !a.media.Verify(key, expires, sig, a.now()) {
			respondError(c, http.StatusForbidden, "链接已失效")
			return
		}
	} else {
		public, derr := a.isPublicMedia(c.Request.Context(), key)
		if derr != nil {
			a.respondDomainError(c, derr)
			return
		}
		if !public {
			respondError(c, http.StatusNotFound, "文件不存在")
			return
		}
	}

	path, err := a.media.Path(key)
	if err != nil {
		respondError(c, http.StatusNotFound, "文件不存在")
		return
	}
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			a.log.Warn("stat media", logger.StorageKey(key), logger.Operation("download"))
		}
		respondError(c, http.StatusNotFound, "文件不存在")
		return
	}

	c.File(path)
}

// isPublicMedia reports whether key belongs to a published photo whose
// gallery is published. Thumbnails follow their original.
func (a *API) isPublicMedia(ctx context.Context, key string) (bool, *domain.Error) {
	key = strings.TrimPrefix(key, thumbnailKeyPrefix)
	published := true
	photos := a.photos.FindAll(ctx, domain.PhotoFilter{StorageKey: &key, IsPublished: &published})
	if photos.IsFailure() {
		return false, photos.Err()
	}
	if len(photos.Value()) == 0 {
		return false, nil
	}

	gallery := a.galleries.FindByID(ctx, photos.Value()[0].GalleryID)
	if gallery.IsFailure() {
		if domain.IsKind(gallery.Err(), domain.KindNotFound) {
			return false, nil
		}
		return false, gallery.Err()
	}
	return gallery.Value().IsPublished, nil
}
