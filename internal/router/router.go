package router

import (
	"net/http"
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/lensfolio/internal/handler"
	"go.uber.org/zap"
)

// Options 描述路由层依赖的配置
type Options struct {
	SessionSecret string
	// MediaURLPath 为本地磁盘存储时照片的访问前缀，例如 /media
	MediaURLPath string
	Logger       *zap.Logger
}

// SetupRouter 配置 Gin 引擎和路由
func SetupRouter(api *handler.API, opts Options) *gin.Engine {
	r := gin.New()
	r.Use(requestLogger(opts.Logger), gin.Recovery())

	// 配置会话中间件
	store := cookie.NewStore([]byte(opts.SessionSecret))
	store.Options(sessions.Options{Path: "/", HttpOnly: true, SameSite: http.SameSiteLaxMode, MaxAge: 7 * 24 * 3600})
	r.Use(sessions.Sessions("lensfolio_session", store))

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})

	if mediaPath := strings.TrimRight(opts.MediaURLPath, "/"); mediaPath != "" {
		r.GET(mediaPath+"/*key", api.ServeMedia)
		r.HEAD(mediaPath+"/*key", api.ServeMedia)
	}

	// 前台公开接口
	public := r.Group("/api")
	{
		public.GET("/galleries", api.ListPublicGalleries)
		public.GET("/galleries/:slug", api.ShowPublicGallery)
		public.POST("/inquiries", api.SubmitInquiry)
	}

	// 后台管理接口
	admin := r.Group("/admin/api")
	{
		admin.POST("/login", api.Login)
		admin.POST("/logout", api.Logout)

		auth := admin.Group("")
		auth.Use(handler.AuthRequired())
		{
			auth.GET("/me", api.Me)

			auth.GET("/galleries", api.ListGalleries)
			auth.POST("/galleries", api.CreateGallery)
			auth.PUT("/galleries/order", api.ReorderGalleries)
			auth.GET("/galleries/slug-availability", api.CheckGallerySlug)
			auth.GET("/galleries/:id", api.GetGallery)
			auth.PUT("/galleries/:id", api.UpdateGallery)
			auth.DELETE("/galleries/:id", api.DeleteGallery)
			auth.POST("/galleries/:id/photo-count", api.RefreshGalleryPhotoCount)
			auth.GET("/galleries/:id/photos", api.ListGalleryPhotos)
			auth.PUT("/galleries/:id/photos/order", api.ReorderPhotos)

			auth.GET("/photos", api.ListPhotos)
			auth.POST("/photos", api.UploadPhoto)
			auth.POST("/photos/batch-delete", api.DeletePhotos)
			auth.GET("/photos/:id", api.GetPhoto)
			auth.PUT("/photos/:id", api.UpdatePhoto)
			auth.DELETE("/photos/:id", api.DeletePhoto)
			auth.POST("/photos/:id/move", api.MovePhoto)
			auth.GET("/photos/:id/url", api.PhotoURL)
			auth.POST("/photos/:id/dimensions", api.EnrichPhoto)

			auth.GET("/inquiries", api.ListInquiries)
			auth.GET("/inquiries/search", api.SearchInquiries)
			auth.GET("/inquiries/stats", api.InquiryStats)
			auth.GET("/inquiries/:id", api.GetInquiry)
			auth.PUT("/inquiries/:id", api.UpdateInquiry)
			auth.DELETE("/inquiries/:id", api.DeleteInquiry)
			auth.POST("/inquiries/:id/read", api.MarkInquiryRead)
			auth.POST("/inquiries/:id/spam", api.MarkInquirySpam)
		}
	}

	return r
}
