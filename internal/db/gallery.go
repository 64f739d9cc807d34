package db

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Gallery 对应 galleries 表。slug 依赖唯一索引保证不重复。
type Gallery struct {
	ID           string  `gorm:"primaryKey;size:36"`
	Title        string  `gorm:"size:200;not null"`
	Slug         string  `gorm:"size:120;uniqueIndex;not null"`
	Description  string  `gorm:"type:text"`
	Category     string  `gorm:"size:32;index;not null"`
	CoverPhotoID *string `gorm:"size:36"`
	DisplayOrder int     `gorm:"index;not null;default:0"`
	IsPublished  bool    `gorm:"index;not null;default:false"`
	PhotoCount   int     `gorm:"not null;default:0"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TableName 返回表名
func (Gallery) TableName() string {
	return "galleries"
}

// BeforeCreate 为新记录分配 UUID 主键
func (g *Gallery) BeforeCreate(*gorm.DB) error {
	if g.ID == "" {
		g.ID = uuid.NewString()
	}
	return nil
}
