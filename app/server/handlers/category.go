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

func (a *App) CategoryAdd(c echo.Context) error {
	var req types.CategoryRequest
	if err := c.Bind(&req); err != nil {
		a.l.Debug("failed to bind request", zap.Error(err))
		return a.er(c, http.StatusBadRequest)
	}
	req.CategoryName = strings.TrimSpace(req.CategoryName)
	if req.CategoryName == "" {
		return a.er(c, http.StatusBadRequest)
	}

	category := models.Category{Name: req.CategoryName}
	if err := a.db.WithContext(c.Request().Context()).Create(&category).Error; err != nil {
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			a.l.Error("failed to create category", zap.Error(err))
		}
		return a.fail(c, constants.MsgAddFailed)
	}

	return a.ok(c, constants.MsgAddSuccess, &category)
}

func (a *App) CategoryDelete(c echo.Context) error {
	id, err := a.pathID(c, "categoryId")
	if err != nil {
		return a.er(c, http.StatusBadRequest)
	}

	// 该分类下的文章变为未分类
	var rows int64
	if err = a.db.WithContext(c.Request().Context()).Transaction(func(tx *gorm.DB) error {
		result := tx.Delete(&models.Category{}, "category_id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		rows = result.RowsAffected
		return tx.Model(&models.Article{}).Where("category_id = ?", id).Update("category_id", 0).Error
	}); err != nil {
		a.l.Error("failed to delete category", zap.Uint("id", id), zap.Error(err))
		return a.fail(c, constants.MsgDeleteFailed)
	}

	if rows == 0 {
		return a.fail(c, constants.MsgCategoryNotFound)
	}

	return a.ok(c, constants.MsgDeleteSuccess, nil)
}

func (a *App) CategoryUpdate(c echo.Context) error {
	var req types.CategoryRequest
	if err := c.Bind(&req); err != nil {
		a.l.Debug("failed to bind request", zap.Error(err))
		return a.er(c, http.StatusBadRequest)
	}
	req.CategoryName = strings.TrimSpace(req.CategoryName)
	if req.CategoryID == 0 || req.CategoryName == "" {
		return a.er(c, http.StatusBadRequest)
	}

	result := a.db.WithContext(c.Request().Context()).
		Model(&models.Category{}).
		Where("category_id = ?", req.CategoryID).
		Update("category_name", req.CategoryName)
	if result.Error != nil {
		if !errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			a.l.Error("failed to update category", zap.Uint("id", req.CategoryID), zap.Error(result.Error))
		}
		return a.fail(c, constants.MsgUpdateFailed)
	} else if result.RowsAffected == 0 {
		return a.fail(c, constants.MsgCategoryNotFound)
	}

	return a.ok(c, constants.MsgUpdateSuccess, nil)
}

func (a *App) CategoryGet(c echo.Context) error {
	id, err := a.queryUint(c, "categoryId")
	if err != nil || id == nil {
		return a.er(c, http.StatusBadRequest)
	}

	var category models.Category
	if err := a.db.WithContext(c.Request().Context()).First(&category, "category_id = ?", *id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return a.fail(c, constants.MsgCategoryNotFound)
		}
		a.l.Error("failed to get category", zap.Uint("id", *id), zap.Error(err))
		return a.fail(c, constants.MsgQueryFailed)
	}

	return a.ok(c, constants.MsgSuccess, &category)
}

func (a *App) CategoryList(c echo.Context) error {
	res, err := paginate[models.Category](a, c, a.db.WithContext(c.Request().Context()).Model(&models.Category{}), "category_id ASC")
	if err != nil {
		return a.pageError(c, err)
	}

	return a.ok(c, constants.MsgSuccess, res)
}
