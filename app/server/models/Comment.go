package models

import "time"

type Comment struct {
	ID        uint   `gorm:"column:comment_id;primaryKey" json:"commentId"`
	ArticleID uint   `gorm:"column:article_id;index" json:"articleId"`
	UserID    uint   `gorm:"column:user_id;index" json:"userId"`
	IP        string `gorm:"column:comment_ip" json:"commentIp"`
	Content   string `gorm:"column:comment_content;type:text" json:"commentContent"`
	Role      int    `gorm:"column:comment_role;default:0" json:"commentRole"` // 审核状态
	ParentID  uint   `gorm:"column:parent_id;index" json:"parentId"`           // 父评论， 0 表示顶层评论

	CreatedAt time.Time `gorm:"column:created_at" json:"createdAt"`
}

func (Comment) TableName() string {
	return "comments"
}
