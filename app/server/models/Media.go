package models

import "time"

type Media struct {
	ID          uint   `gorm:"column:media_id;primaryKey" json:"mediaId"`
	Name        string `gorm:"column:media_name" json:"mediaName"`             // 图片名
	Path        string `gorm:"column:media_path;uniqueIndex" json:"mediaPath"` // 在媒体存储中的 key
	ContentType string `gorm:"column:content_type" json:"contentType"`
	Size        int64  `gorm:"column:size" json:"size"`

	CreatedAt time.Time `gorm:"column:created_at" json:"createdAt"`
}

func (Media) TableName() string {
	return "media"
}
