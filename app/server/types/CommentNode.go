package types

import "personal-blog/app/server/models"

type CommentNode struct {
	models.Comment
	Children []CommentNode `json:"children"`
}
