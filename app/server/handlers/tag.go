package handlers

import (
	"errors"
	"net/http"
	"strings"

	"personal-blog/app/server/constants"
	"personal-blog/app/server/models"
	"personal-blog/app/server/types"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func (a *App) TagAdd(c echo.Context) error {
	var req types.TagRequest
	if err := c.Bind(&req); err != nil {
		a.l.Debug("failed to bind request", zap.Error(err))
		return a.er(c, http.StatusBadRequest)
	}
	req.TagName = strings.TrimSpace(req.TagName)
	if req.TagName == "" {
		return a.er(c, http.StatusBadRequest)
	}

	tag := models.Tag{Name: req.TagName}
	if err := a.db.WithContext(c.Request().Context()).Create(&tag).Error; err != nil {
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			a.l.Error("failed to create tag", zap.Error(err))
		}
		return a.fail(c, constants.MsgAddFailed)
	}

	return a.ok(c, constants.MsgAddSuccess, &tag)
}

func (a *App) TagDelete(c echo.Context) error {
	id, err := a.pathID(c, "tagId")
	if err != nil {
		return a.er(c, http.StatusBadRequest)
	}

	// 使用该标签的文章变为无标签
	var rows int64
	if err = a.db.WithContext(c.Request().Context()).Transaction(func(tx *gorm.DB) error {
		result := tx.Delete(&models.Tag{}, "tag_id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		rows = result.RowsAffected
		return tx.Model(&models.Article{}).Where("tag_id = ?", id).Update("tag_id", 0).Error
	}); err != nil {
		a.l.Error("failed to delete tag", zap.Uint("id", id), zap.Error(err))
		return a.fail(c, constants.MsgDeleteFailed)
	}

	if rows == 0 {
		return a.fail(c, constants.MsgTagNotFound)
	}

	return a.ok(c, constants.MsgDeleteSuccess, nil)
}

func (a *App) TagUpdate(c echo.Context) error {
	var req types.TagRequest
	if err := c.Bind(&req); err != nil {
		a.l.Debug("failed to bind request", zap.Error(err))
		return a.er(c, http.StatusBadRequest)
	}
	req.TagName = strings.TrimSpace(req.TagName)
	if req.TagID == 0 || req.TagName == "" {
		return a.er(c, http.StatusBadRequest)
	}

	result := a.db.WithContext(c.Request().Context()).
		Model(&models.Tag{}).
		Where("tag_id = ?", req.TagID).
		Update("tag_name", req.TagName)
	if result.Error != nil {
		if !errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			a.l.Error("failed to update tag", zap.Uint("id", req.TagID), zap.Error(result.Error))
		}
		return a.fail(c, constants.MsgUpdateFailed)
	} else if result.RowsAffected == 0 {
		return a.fail(c, constants.MsgTagNotFound)
	}

	return a.ok(c, constants.MsgUpdateSuccess, nil)
}

func (a *App) TagGet(c echo.Context) error {
	id, err := a.queryUint(c, "tagId")
	if err != nil || id == nil {
		return a.er(c, http.StatusBadRequest)
	}

	var tag models.Tag
	if err := a.db.WithContext(c.Request().Context()).First(&tag, "tag_id = ?", *id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return a.fail(c, constants.MsgTagNotFound)
		}
		a.l.Error("failed to get tag", zap.Uint("id", *id), zap.Error(err))
		return a.fail(c, constants.MsgQueryFailed)
	}

	return a.ok(c, constants.MsgSuccess, &tag)
}

func (a *App) TagList(c echo.Context) error {
	res, err := paginate[models.Tag](a, c, a.db.WithContext(c.Request().Context()).Model(&models.Tag{}), "tag_id ASC")
	if err != nil {
		return a.pageError(c, err)
	}

	return a.ok(c, constants.MsgSuccess, res)
}
