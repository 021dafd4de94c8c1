package handlers

import (
	"errors"
	"net/http"

	"personal-blog/app/server/constants"
	"personal-blog/app/server/models"
	"personal-blog/app/server/tree"
	"personal-blog/app/server/types"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func (a *App) CommentAdd(c echo.Context) error {
	me := a.principal(c)

	// 绑定请求体
	var req types.CommentRequest
	if err := c.Bind(&req); err != nil {
		a.l.Debug("failed to bind request", zap.Error(err))
		return a.er(c, http.StatusBadRequest)
	}
	if req.ArticleID == 0 || req.Content == "" {
		return a.er(c, http.StatusBadRequest)
	}

	db := a.db.WithContext(c.Request().Context())

	// 文章必须存在
	if err := db.First(&models.Article{}, "article_id = ?", req.ArticleID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return a.fail(c, constants.MsgArticleNotFound)
		}
		a.l.Error("failed to get article", zap.Uint("id", req.ArticleID), zap.Error(err))
		return a.fail(c, constants.MsgAddFailed)
	}

	// 回复的评论必须属于同一篇文章
	if req.ParentID != 0 {
		if err := db.First(&models.Comment{}, "comment_id = ? AND article_id = ?", req.ParentID, req.ArticleID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return a.fail(c, constants.MsgParentNotFound)
			}
			a.l.Error("failed to get parent comment", zap.Uint("id", req.ParentID), zap.Error(err))
			return a.fail(c, constants.MsgAddFailed)
		}
	}

	// 用户和 IP 由服务端决定
	comment := models.Comment{
		ArticleID: req.ArticleID,
		UserID:    me.UserID,
		IP:        c.RealIP(),
		Content:   req.Content,
		ParentID:  req.ParentID,
	}
	if err := db.Create(&comment).Error; err != nil {
		a.l.Error("failed to create comment", zap.Error(err))
		return a.fail(c, constants.MsgAddFailed)
	}

	return a.ok(c, constants.MsgCommentSuccess, &comment)
}

func (a *App) CommentDelete(c echo.Context) error {
	me := a.principal(c)

	id, err := a.pathID(c, "commentId")
	if err != nil {
		return a.er(c, http.StatusBadRequest)
	}

	db := a.db.WithContext(c.Request().Context())

	var comment models.Comment
	if err = db.First(&comment, "comment_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return a.fail(c, constants.MsgCommentNotFound)
		}
		a.l.Error("failed to get comment", zap.Uint("id", id), zap.Error(err))
		return a.fail(c, constants.MsgDeleteFailed)
	}

	// 只有作者和管理员可以删除
	if comment.UserID != me.UserID && !me.IsAdmin() {
		return a.er(c, http.StatusForbidden)
	}

	// 回复一并删除，否则会成为孤儿评论
	var siblings []models.Comment
	if err = db.Select("comment_id", "parent_id").Find(&siblings, "article_id = ?", comment.ArticleID).Error; err != nil {
		a.l.Error("failed to list comments", zap.Uint("articleId", comment.ArticleID), zap.Error(err))
		return a.fail(c, constants.MsgDeleteFailed)
	}
	ids := descendants(siblings, comment.ID)

	if err = db.Delete(&models.Comment{}, "comment_id IN ?", ids).Error; err != nil {
		a.l.Error("failed to delete comments", zap.Uints("ids", ids), zap.Error(err))
		return a.fail(c, constants.MsgDeleteFailed)
	}

	return a.ok(c, constants.MsgDeleteSuccess, nil)
}

// descendants 返回 root 及其所有后代的 id
func descendants(comments []models.Comment, root uint) []uint {
	byParent := make(map[uint][]uint)
	for _, c := range comments {
		byParent[c.ParentID] = append(byParent[c.ParentID], c.ID)
	}

	ids := []uint{root}
	seen := map[uint]struct{}{root: {}}
	for i := 0; i < len(ids); i++ {
		for _, child := range byParent[ids[i]] {
			if _, ok := seen[child]; ok {
				continue
			}
			seen[child] = struct{}{}
			ids = append(ids, child)
		}
	}
	return ids
}

func (a *App) CommentUpdate(c echo.Context) error {
	// 绑定请求体
	var req types.CommentRequest
	if err := c.Bind(&req); err != nil {
		a.l.Debug("failed to bind request", zap.Error(err))
		return a.er(c, http.StatusBadRequest)
	}
	if req.CommentID == 0 {
		return a.er(c, http.StatusBadRequest)
	}

	// 只修改内容和审核状态
	updates := map[string]interface{}{}
	if req.Content != "" {
		updates["comment_content"] = req.Content
	}
	if req.Role != nil {
		updates["comment_role"] = *req.Role
	}
	if len(updates) == 0 {
		return a.er(c, http.StatusBadRequest)
	}

	result := a.db.WithContext(c.Request().Context()).
		Model(&models.Comment{}).
		Where("comment_id = ?", req.CommentID).
		Updates(updates)
	if result.Error != nil {
		a.l.Error("failed to update comment", zap.Uint("id", req.CommentID), zap.Error(result.Error))
		return a.fail(c, constants.MsgUpdateFailed)
	} else if result.RowsAffected == 0 {
		return a.fail(c, constants.MsgCommentNotFound)
	}

	return a.ok(c, constants.MsgUpdateSuccess, nil)
}

// CommentTree 返回评论森林，带分页参数时对顶层评论分页
func (a *App) CommentTree(c echo.Context) error {
	articleID, err := a.queryUint(c, "articleId")
	if err != nil {
		return a.er(c, http.StatusBadRequest)
	}
	page, limit, err := a.pageParams(c)
	if err != nil {
		return a.er(c, http.StatusBadRequest)
	}

	query := a.db.WithContext(c.Request().Context()).Order("created_at ASC, comment_id ASC")
	if articleID != nil {
		query = query.Where("article_id = ?", *articleID)
	}

	var comments []models.Comment
	if err = query.Find(&comments).Error; err != nil {
		a.l.Error("failed to list comments", zap.Error(err))
		return a.fail(c, constants.MsgQueryFailed)
	}

	forest := tree.BuildComments(comments)

	if page != nil || limit != nil {
		showAll, page0, limitN := a.parsePagination(page, limit)
		if !showAll {
			start := page0 * limitN
			if start > len(forest) {
				start = len(forest)
			}
			end := start + limitN
			if end > len(forest) {
				end = len(forest)
			}
			forest = forest[start:end]
		}
	}

	return a.ok(c, constants.MsgSuccess, forest)
}

func (a *App) CommentList(c echo.Context) error {
	res, err := paginate[models.Comment](a, c, a.db.WithContext(c.Request().Context()).Model(&models.Comment{}), "comment_id ASC")
	if err != nil {
		return a.pageError(c, err)
	}

	return a.ok(c, constants.MsgSuccess, res)
}
