package main

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"log"

	"github.com/lensfolio/internal/config"
	"github.com/lensfolio/internal/container"
	"github.com/lensfolio/internal/db"
	"github.com/lensfolio/internal/domain"
	"github.com/lensfolio/internal/logger"
	"github.com/lensfolio/internal/validation"
	"go.uber.org/zap"
)

// 测试数据生成器
func main() {
	if err := config.LoadDotEnv(); err != nil {
		log.Fatal("加载 .env 失败:", err)
	}
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("读取配置失败:", err)
	}
	zl := logger.New(logger.Config{Env: "dev", Level: cfg.LogLevel})
	defer zl.Sync()

	repos, err := container.Open(cfg, zl)
	if err != nil {
		log.Fatal("初始化存储失败:", err)
	}
	defer repos.Close()

	fmt.Println("开始生成测试数据...")

	if err := db.EnsureUser(repos.DB(), "admin", "admin123"); err != nil {
		log.Fatal("创建管理员失败:", err)
	}

	summary, err := seed(context.Background(), repos, zl)
	if err != nil {
		log.Fatal("生成测试数据失败:", err)
	}

	fmt.Println("测试数据生成完成！")
	fmt.Println("用户: admin (密码: admin123)")
	fmt.Printf("作品集: %d 个，照片: %d 张，留言: %d 条\n", summary.galleries, summary.photos, summary.inquiries)
}

type seedRepos interface {
	Galleries() domain.GalleryRepository
	Photos() domain.PhotoRepository
	Inquiries() domain.InquiryRepository
}

type seedSummary struct {
	galleries int
	photos    int
	inquiries int
}

type gallerySeed struct {
	title       string
	category    domain.GalleryCategory
	description string
	published   bool
	// 每张照片的宽高
	frames [][2]int
}

var gallerySeeds = []gallerySeed{
	{
		title:       "Kona Wedding",
		category:    domain.CategoryWedding,
		description: "Sunset vows on the Big Island.",
		published:   true,
		frames:      [][2]int{{1600, 1067}, {1067, 1600}, {1200, 1200}},
	},
	{
		title:       "Studio Portraits",
		category:    domain.CategoryPortrait,
		description: "Natural light headshots.",
		published:   true,
		frames:      [][2]int{{1100, 1700}, {1100, 1700}},
	},
	{
		title:       "Waimea Canyon",
		category:    domain.CategoryLandscape,
		description: "Morning haze over the canyon rim.",
		published:   true,
		frames:      [][2]int{{1800, 1000}, {1600, 900}},
	},
	{
		title:     "Tanaka Family",
		category:  domain.CategoryFamily,
		published: false,
		frames:    [][2]int{{1500, 1000}},
	},
}

var inquirySeeds = []domain.CreateInquiryInput{
	{
		Name:        "Leilani Kai",
		Email:       "leilani@example.com",
		Subject:     "Spring wedding",
		Message:     "We are planning a spring wedding on the north shore and love your work.",
		InquiryType: domain.InquiryBooking,
	},
	{
		Name:        "Marcus Reed",
		Email:       "marcus@example.org",
		Subject:     "Headshot pricing",
		Message:     "Could you share your pricing for a team of twelve people?",
		InquiryType: domain.InquiryPricing,
	},
	{
		Name:        "Ana Souza",
		Email:       "ana@example.net",
		Subject:     "Magazine feature",
		Message:     "Our travel magazine would like to feature your landscape series.",
		InquiryType: domain.InquiryCollaboration,
	},
}

// seed 写入演示数据，已存在的作品集会被跳过
func seed(ctx context.Context, repos seedRepos, zl *zap.Logger) (seedSummary, error) {
	var summary seedSummary
	zl = logger.OrNop(zl)

	for _, gs := range gallerySeeds {
		created, err := seedGallery(ctx, repos, gs)
		if err != nil {
			return summary, err
		}
		if created < 0 {
			zl.Info("作品集已存在，跳过创建", zap.String("title", gs.title))
			continue
		}
		summary.galleries++
		summary.photos += created
	}

	for _, input := range inquirySeeds {
		existing := repos.Inquiries().Search(ctx, input.Email)
		if existing.IsFailure() {
			return summary, existing.Err()
		}
		if len(existing.Value()) > 0 {
			continue
		}
		if res := repos.Inquiries().Create(ctx, input); res.IsFailure() {
			return summary, res.Err()
		}
		summary.inquiries++
	}

	return summary, nil
}

// seedGallery 创建作品集及其照片，返回照片数量；作品集已存在时返回 -1
func seedGallery(ctx context.Context, repos seedRepos, gs gallerySeed) (int, error) {
	galleries := repos.Galleries()
	photos := repos.Photos()

	available := galleries.IsSlugAvailable(ctx, validation.Slugify(gs.title), "")
	if available.IsFailure() {
		return 0, available.Err()
	}
	if !available.Value() {
		return -1, nil
	}

	published := gs.published
	created := galleries.Create(ctx, domain.CreateGalleryInput{
		Title:       gs.title,
		Category:    gs.category,
		Description: gs.description,
		IsPublished: &published,
	})
	if created.IsFailure() {
		return 0, created.Err()
	}
	gallery := created.Value()

	var coverID string
	for i, frame := range gs.frames {
		content, err := demoJPEG(frame[0]/10, frame[1]/10, i)
		if err != nil {
			return 0, err
		}
		uploaded := photos.Upload(ctx, domain.UploadPhotoInput{
			GalleryID:   gallery.ID,
			Title:       fmt.Sprintf("%s #%d", gs.title, i+1),
			FileName:    fmt.Sprintf("frame-%02d.jpg", i+1),
			ContentType: "image/jpeg",
			Size:        int64(len(content)),
			File:        bytes.NewReader(content),
		}, nil)
		if uploaded.IsFailure() {
			return 0, uploaded.Err()
		}
		if enriched := photos.EnrichDimensions(ctx, uploaded.Value().ID); enriched.IsFailure() {
			return 0, enriched.Err()
		}
		if coverID == "" {
			coverID = uploaded.Value().ID
		}
	}

	if coverID != "" {
		if res := galleries.Update(ctx, gallery.ID, domain.UpdateGalleryInput{CoverPhotoID: &coverID}); res.IsFailure() {
			return 0, res.Err()
		}
	}
	if res := galleries.UpdatePhotoCount(ctx, gallery.ID); res.IsFailure() {
		return 0, res.Err()
	}
	return len(gs.frames), nil
}

// demoJPEG 生成一张带渐变的占位图
func demoJPEG(w, h, seed int) ([]byte, error) {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{
				R: uint8((x*255)/w + seed*40),
				G: uint8((y * 255) / h),
				B: uint8(120 + seed*30),
				A: 255,
			})
		}
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 80}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
