package tree

import (
	"personal-blog/app/server/models"
	"personal-blog/app/server/types"
)

// BuildComments 将 parentId 扁平关系组装为评论森林
// 同级顺序与输入一致；父评论不存在的评论会被丢弃；重复 id 和环只保留第一次出现
func BuildComments(comments []models.Comment) []types.CommentNode {
	byParent := make(map[uint][]models.Comment)
	for _, c := range comments {
		if c.ID == 0 {
			// 0 是虚拟根节点
			continue
		}
		byParent[c.ParentID] = append(byParent[c.ParentID], c)
	}

	visited := make(map[uint]struct{}, len(comments))

	var build func(parentID uint) []types.CommentNode
	build = func(parentID uint) []types.CommentNode {
		nodes := []types.CommentNode{}
		for _, c := range byParent[parentID] {
			if _, seen := visited[c.ID]; seen {
				continue
			}
			visited[c.ID] = struct{}{}

			nodes = append(nodes, types.CommentNode{
				Comment:  c,
				Children: build(c.ID),
			})
		}
		return nodes
	}

	return build(0)
}
