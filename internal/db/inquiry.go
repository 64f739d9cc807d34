package db

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Inquiry 保存联系表单提交的咨询
type Inquiry struct {
	ID          string         `gorm:"primaryKey;size:36"`
	Name        string         `gorm:"size:120;not null"`
	Email       string         `gorm:"size:254;index;not null"`
	Phone       *string        `gorm:"size:40"`
	Subject     string         `gorm:"size:200;not null"`
	Message     string         `gorm:"type:text;not null"`
	InquiryType string         `gorm:"size:32;index;not null"`
	Status      string         `gorm:"size:32;index;not null;default:new"`
	Source      string         `gorm:"size:100"`
	Metadata    map[string]any `gorm:"serializer:json"`
	SubmittedAt time.Time      `gorm:"index;not null"`
	RespondedAt *time.Time
	ResolvedAt  *time.Time
}

// TableName 返回表名
func (Inquiry) TableName() string {
	return "inquiries"
}

// BeforeCreate 为新记录分配 UUID 主键
func (i *Inquiry) BeforeCreate(*gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	return nil
}
