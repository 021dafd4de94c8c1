package models

import "time"

type Category struct {
	ID   uint   `gorm:"column:category_id;primaryKey" json:"categoryId"`
	Name string `gorm:"column:category_name;uniqueIndex" json:"categoryName"`

	CreatedAt time.Time `gorm:"column:created_at" json:"createdAt"`
	UpdatedAt time.Time `gorm:"column:updated_at" json:"updatedAt"`
}

func (Category) TableName() string {
	return "categories"
}
