package httpapi

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/ark/internal/common"
	"github.com/dmitrijs2005/ark/internal/server/models"
	"github.com/dmitrijs2005/ark/internal/server/services"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// HeaderVersion carries the version id of the returned file content.
const HeaderVersion = "X-Ark-Version"

func (h *Handler) fileParams(c echo.Context) (uuid.UUID, string, error) {
	accountID, err := parseUUID("account_id", c.Param("account_id"))
	if err != nil {
		return uuid.Nil, "", err
	}
	p, err := wildcardPath(c)
	if err != nil {
		return uuid.Nil, "", err
	}
	if err := services.ValidateFilepath(p); err != nil {
		return uuid.Nil, "", err
	}
	return accountID, p, nil
}

// uploadMeta copies the non-reserved query parameters. The first value of a
// repeated parameter wins. Without parameters the meta is an empty object.
func uploadMeta(c echo.Context) models.Meta {
	meta := models.Meta{}
	for k, v := range c.QueryParams() {
		if strings.HasPrefix(k, common.ReservedQueryPrefix) || len(v) == 0 {
			continue
		}
		meta[k] = v[0]
	}
	return meta
}

func (h *Handler) uploadFile(c echo.Context) error {
	accountID, p, err := h.fileParams(c)
	if err != nil {
		return err
	}

	fv, err := h.files.Upload(c.Request().Context(), services.UploadRequest{
		AccountID: accountID,
		Filepath:  p,
		Body:      c.Request().Body,
		Meta:      uploadMeta(c),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, fv)
}

func (h *Handler) getFile(c echo.Context) error {
	accountID, p, err := h.fileParams(c)
	if err != nil {
		return err
	}

	var versionID *uuid.UUID
	if v := c.QueryParam(common.VersionQueryParam); v != "" {
		id, err := parseUUID(common.VersionQueryParam, v)
		if err != nil {
			return err
		}
		versionID = &id
	}

	fv, obj, err := h.files.Get(c.Request().Context(), accountID, p, versionID)
	if err != nil {
		return err
	}
	defer obj.Body.Close()

	header := c.Response().Header()
	header.Set(echo.HeaderContentLength, strconv.FormatInt(fv.Filesize, 10))
	header.Set(HeaderVersion, fv.VersionID.String())
	return c.Stream(http.StatusOK, fv.Mimetype, obj.Body)
}

func (h *Handler) fileHistory(c echo.Context) error {
	accountID, p, err := h.fileParams(c)
	if err != nil {
		return err
	}

	history, err := h.files.History(c.Request().Context(), accountID, p)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, history)
}

func (h *Handler) searchFiles(c echo.Context) error {
	accountID, err := parseUUID("account_id", c.Param("account_id"))
	if err != nil {
		return err
	}

	files, err := h.files.Search(c.Request().Context(), accountID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, files)
}
