package db

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Photo 对应 photos 表。gallery_id 不设外键，删除相册时是否级联由仓储层决定。
type Photo struct {
	ID           string         `gorm:"primaryKey;size:36"`
	GalleryID    string         `gorm:"size:36;index;not null"`
	Title        string         `gorm:"size:200;not null"`
	Description  *string        `gorm:"type:text"`
	URL          string         `gorm:"size:1024;not null"`
	ThumbnailURL string         `gorm:"size:1024"`
	StorageKey   string         `gorm:"size:512;uniqueIndex;not null"`
	Width        int            `gorm:"not null;default:0"`
	Height       int            `gorm:"not null;default:0"`
	FileSize     int64          `gorm:"not null;default:0"`
	MimeType     string         `gorm:"size:100"`
	DisplayOrder int            `gorm:"index;not null;default:0"`
	IsPublished  bool           `gorm:"index;not null;default:false"`
	Metadata     map[string]any `gorm:"serializer:json"`
	UploadedAt   time.Time      `gorm:"autoCreateTime"`
	UpdatedAt    time.Time
}

// TableName 返回表名
func (Photo) TableName() string {
	return "photos"
}

// BeforeCreate 为新记录分配 UUID 主键
func (p *Photo) BeforeCreate(*gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}
