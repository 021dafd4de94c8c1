package handlers

import (
	"errors"
	"net/http"

	"personal-blog/app/server/constants"
	"personal-blog/app/server/models"
	"personal-blog/app/server/types"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// checkArticleRefs 分类和标签为 0 表示不设置
func (a *App) checkArticleRefs(c echo.Context, req *types.ArticleRequest) (string, error) {
	db := a.db.WithContext(c.Request().Context())

	if req.CategoryID != 0 {
		if err := db.First(&models.Category{}, "category_id = ?", req.CategoryID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return constants.MsgCategoryNotFound, nil
			}
			return "", err
		}
	}
	if req.TagID != 0 {
		if err := db.First(&models.Tag{}, "tag_id = ?", req.TagID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return constants.MsgTagNotFound, nil
			}
			return "", err
		}
	}

	return "", nil
}

func (a *App) ArticleAdd(c echo.Context) error {
	me := a.principal(c)

	// 绑定请求体
	var req types.ArticleRequest
	if err := c.Bind(&req); err != nil {
		a.l.Debug("failed to bind request", zap.Error(err))
		return a.er(c, http.StatusBadRequest)
	}
	if req.Title == "" {
		return a.er(c, http.StatusBadRequest)
	}

	if msg, err := a.checkArticleRefs(c, &req); err != nil {
		a.l.Error("failed to check article refs", zap.Error(err))
		return a.fail(c, constants.MsgAddFailed)
	} else if msg != "" {
		return a.fail(c, msg)
	}

	// 作者总是当前用户
	article := models.Article{
		Title:      req.Title,
		Content:    req.Content,
		UserID:     me.UserID,
		CategoryID: req.CategoryID,
		TagID:      req.TagID,
	}
	if err := a.db.WithContext(c.Request().Context()).Create(&article).Error; err != nil {
		a.l.Error("failed to create article", zap.Error(err))
		return a.fail(c, constants.MsgAddFailed)
	}

	return a.ok(c, constants.MsgPublishSuccess, &article)
}

func (a *App) ArticleDelete(c echo.Context) error {
	id, err := a.pathID(c, "articleId")
	if err != nil {
		return a.er(c, http.StatusBadRequest)
	}

	// 文章和它的评论一起删除
	var rows int64
	if err = a.db.WithContext(c.Request().Context()).Transaction(func(tx *gorm.DB) error {
		result := tx.Delete(&models.Article{}, "article_id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		rows = result.RowsAffected
		return tx.Delete(&models.Comment{}, "article_id = ?", id).Error
	}); err != nil {
		a.l.Error("failed to delete article", zap.Uint("id", id), zap.Error(err))
		return a.fail(c, constants.MsgDeleteFailed)
	}

	if rows == 0 {
		return a.fail(c, constants.MsgArticleNotFound)
	}

	return a.ok(c, constants.MsgDeleteSuccess, nil)
}

func (a *App) ArticleList(c echo.Context) error {
	categoryID, err := a.queryUint(c, "categoryId")
	if err != nil {
		return a.er(c, http.StatusBadRequest)
	}
	tagID, err := a.queryUint(c, "tagId")
	if err != nil {
		return a.er(c, http.StatusBadRequest)
	}

	query := a.db.WithContext(c.Request().Context()).Model(&models.Article{})
	if categoryID != nil {
		query = query.Where("category_id = ?", *categoryID)
	}
	if tagID != nil {
		query = query.Where("tag_id = ?", *tagID)
	}

	res, err := paginate[models.Article](a, c, query, "created_at DESC, article_id DESC")
	if err != nil {
		return a.pageError(c, err)
	}

	return a.ok(c, constants.MsgSuccess, res)
}

func (a *App) ArticleGet(c echo.Context) error {
	id, err := a.queryUint(c, "articleId")
	if err != nil || id == nil {
		return a.er(c, http.StatusBadRequest)
	}

	var article models.Article
	if err := a.db.WithContext(c.Request().Context()).First(&article, "article_id = ?", *id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return a.fail(c, constants.MsgArticleNotFound)
		}
		a.l.Error("failed to get article", zap.Uint("id", *id), zap.Error(err))
		return a.fail(c, constants.MsgQueryFailed)
	}

	return a.ok(c, constants.MsgSuccess, &article)
}

func (a *App) ArticleUpdate(c echo.Context) error {
	me := a.principal(c)

	// 绑定请求体
	var req types.ArticleRequest
	if err := c.Bind(&req); err != nil {
		a.l.Debug("failed to bind request", zap.Error(err))
		return a.er(c, http.StatusBadRequest)
	}
	if req.ArticleID == 0 {
		return a.er(c, http.StatusBadRequest)
	}

	rctx := c.Request().Context()

	var article models.Article
	if err := a.db.WithContext(rctx).First(&article, "article_id = ?", req.ArticleID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return a.fail(c, constants.MsgArticleNotFound)
		}
		a.l.Error("failed to get article", zap.Uint("id", req.ArticleID), zap.Error(err))
		return a.fail(c, constants.MsgUpdateFailed)
	}

	// 只有作者和管理员可以修改
	if article.UserID != me.UserID && !me.IsAdmin() {
		return a.er(c, http.StatusForbidden)
	}

	if msg, err := a.checkArticleRefs(c, &req); err != nil {
		a.l.Error("failed to check article refs", zap.Error(err))
		return a.fail(c, constants.MsgUpdateFailed)
	} else if msg != "" {
		return a.fail(c, msg)
	}

	// 结构体更新只会写入非零字段
	if err := a.db.WithContext(rctx).Model(&article).Updates(&models.Article{
		Title:      req.Title,
		Content:    req.Content,
		CategoryID: req.CategoryID,
		TagID:      req.TagID,
	}).Error; err != nil {
		a.l.Error("failed to update article", zap.Uint("id", article.ID), zap.Error(err))
		return a.fail(c, constants.MsgUpdateFailed)
	}

	return a.ok(c, constants.MsgUpdateSuccess, &article)
}
