package models

import "time"

type Tag struct {
	ID   uint   `gorm:"column:tag_id;primaryKey" json:"tagId"`
	Name string `gorm:"column:tag_name;uniqueIndex" json:"tagName"`

	CreatedAt time.Time `gorm:"column:created_at" json:"createdAt"`
	UpdatedAt time.Time `gorm:"column:updated_at" json:"updatedAt"`
}

func (Tag) TableName() string {
	return "tags"
}
