package types

type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email"`
	Nickname string `json:"nickname"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type AddUserRequest struct {
	RegisterRequest
	Role int `json:"role"` // 0 普通用户， 1 管理员
}

// UpdateUserRequest 只更新非空字段， UserID 为 0 时更新自己
type UpdateUserRequest struct {
	UserID     uint    `json:"userId"`
	Email      *string `json:"email"`
	Nickname   *string `json:"nickname"`
	AvatarPath *string `json:"avatarPath"`
	Password   *string `json:"password"`
	Role       *int    `json:"role"`
}

type ArticleRequest struct {
	ArticleID  uint   `json:"articleId"`
	Title      string `json:"articleTitle"`
	Content    string `json:"articleContent"`
	CategoryID uint   `json:"categoryId"`
	TagID      uint   `json:"tagId"`
}

type CategoryRequest struct {
	CategoryID   uint   `json:"categoryId"`
	CategoryName string `json:"categoryName"`
}

type TagRequest struct {
	TagID   uint   `json:"tagId"`
	TagName string `json:"tagName"`
}

type CommentRequest struct {
	CommentID uint   `json:"commentId"`
	ArticleID uint   `json:"articleId"`
	ParentID  uint   `json:"parentId"`
	Content   string `json:"commentContent"`
	Role      *int   `json:"commentRole"` // 审核状态，仅管理员可以修改
}
