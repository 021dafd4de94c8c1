package models

import "time"

type Article struct {
	ID uint `gorm:"column:article_id;primaryKey" json:"articleId"`

	Title      string `gorm:"column:article_title" json:"articleTitle"`
	Content    string `gorm:"column:article_content;type:text" json:"articleContent"`
	UserID     uint   `gorm:"column:user_id;index" json:"userId"`         // 作者
	CategoryID uint   `gorm:"column:category_id;index" json:"categoryId"` // 分类，0 表示未分类
	TagID      uint   `gorm:"column:tag_id;index" json:"tagId"`           // 标签，0 表示无标签

	CreatedAt time.Time `gorm:"column:created_at" json:"createdAt"`
	UpdatedAt time.Time `gorm:"column:updated_at" json:"updatedAt"`
}

func (Article) TableName() string {
	return "articles"
}
