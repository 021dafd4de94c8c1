package handlers

import (
	"errors"
	"net/http"
	"path/filepath"
	"strings"

	"personal-blog/app/server/constants"
	"personal-blog/app/server/models"
	"personal-blog/app/server/storage"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func (a *App) MediaAdd(c echo.Context) error {
	file, err := c.FormFile("file")
	if err != nil {
		a.l.Debug("failed to get upload file", zap.Error(err))
		return a.er(c, http.StatusBadRequest)
	}

	name := c.FormValue("mediaName")
	if name == "" {
		name = file.Filename
	}

	contentType := file.Header.Get(echo.HeaderContentType)
	if contentType == "" {
		contentType = echo.MIMEOctetStream
	}

	// 随机 key ，保留原扩展名
	key := constants.MediaKeyPrefix + uuid.NewString() + strings.ToLower(filepath.Ext(file.Filename))

	src, err := file.Open()
	if err != nil {
		a.l.Error("failed to open upload file", zap.Error(err))
		return a.fail(c, constants.MsgUploadFailed)
	}
	defer src.Close()

	rctx := c.Request().Context()

	if err = a.media.Put(rctx, key, src, file.Size, contentType); err != nil {
		a.l.Error("failed to save media", zap.String("key", key), zap.Error(err))
		return a.fail(c, constants.MsgUploadFailed)
	}

	media := models.Media{
		Name:        name,
		Path:        key,
		ContentType: contentType,
		Size:        file.Size,
	}
	if err = a.db.WithContext(rctx).Create(&media).Error; err != nil {
		a.l.Error("failed to create media", zap.Error(err))
		// 记录没写进去，文件也不保留
		if err := a.media.Delete(rctx, key); err != nil {
			a.l.Error("failed to clean up media", zap.String("key", key), zap.Error(err))
		}
		return a.fail(c, constants.MsgAddFailed)
	}

	return a.ok(c, constants.MsgAddSuccess, &media)
}

func (a *App) MediaDelete(c echo.Context) error {
	id, err := a.pathID(c, "mediaId")
	if err != nil {
		return a.er(c, http.StatusBadRequest)
	}

	rctx := c.Request().Context()

	var media models.Media
	if err = a.db.WithContext(rctx).First(&media, "media_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return a.fail(c, constants.MsgMediaNotFound)
		}
		a.l.Error("failed to get media", zap.Uint("id", id), zap.Error(err))
		return a.fail(c, constants.MsgDeleteFailed)
	}

	if err = a.media.Delete(rctx, media.Path); err != nil {
		a.l.Error("failed to delete media file", zap.String("key", media.Path), zap.Error(err))
		return a.fail(c, constants.MsgDeleteFailed)
	}

	if err = a.db.WithContext(rctx).Delete(&media).Error; err != nil {
		a.l.Error("failed to delete media", zap.Uint("id", id), zap.Error(err))
		return a.fail(c, constants.MsgDeleteFailed)
	}

	return a.ok(c, constants.MsgDeleteSuccess, nil)
}

func (a *App) MediaList(c echo.Context) error {
	res, err := paginate[models.Media](a, c, a.db.WithContext(c.Request().Context()).Model(&models.Media{}), "media_id ASC")
	if err != nil {
		return a.pageError(c, err)
	}

	return a.ok(c, constants.MsgSuccess, res)
}

func (a *App) MediaGet(c echo.Context) error {
	mediaPath := c.QueryParam("mediaPath")
	if mediaPath == "" {
		return a.er(c, http.StatusBadRequest)
	}

	var media models.Media
	if err := a.db.WithContext(c.Request().Context()).First(&media, "media_path = ?", mediaPath).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return a.fail(c, constants.MsgMediaNotFound)
		}
		a.l.Error("failed to get media", zap.String("path", mediaPath), zap.Error(err))
		return a.fail(c, constants.MsgQueryFailed)
	}

	return a.ok(c, constants.MsgSuccess, &media)
}

func (a *App) MediaFile(c echo.Context) error {
	id, err := a.pathID(c, "mediaId")
	if err != nil {
		return a.er(c, http.StatusBadRequest)
	}

	rctx := c.Request().Context()

	var media models.Media
	if err = a.db.WithContext(rctx).First(&media, "media_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return a.er(c, http.StatusNotFound)
		}
		a.l.Error("failed to get media", zap.Uint("id", id), zap.Error(err))
		return a.er(c, http.StatusInternalServerError)
	}

	r, err := a.media.Get(rctx, media.Path)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return a.er(c, http.StatusNotFound)
		}
		a.l.Error("failed to read media file", zap.String("key", media.Path), zap.Error(err))
		return a.er(c, http.StatusInternalServerError)
	}
	defer r.Close()

	return c.Stream(http.StatusOK, media.ContentType, r)
}
