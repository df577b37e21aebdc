package blobstore

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/surveyfax/surveyfax/internal/platform/auth"
	"github.com/surveyfax/surveyfax/pkg/pagination"
)

// errorBody matches the {code, message} envelope used across the API.
type errorBody struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func errorJSON(c echo.Context, code int, err error) error {
	return c.JSON(code, errorBody{Code: code, Message: err.Error()})
}

// BlobHandler provides Echo HTTP handlers for the report archive.
type BlobHandler struct {
	store BlobStore
}

// NewBlobHandler creates a new BlobHandler.
func NewBlobHandler(store BlobStore) *BlobHandler {
	return &BlobHandler{store: store}
}

// RegisterRoutes mounts archive routes on the supplied Echo group. The
// report creation route is registered by the report handler.
func (h *BlobHandler) RegisterRoutes(g *echo.Group) {
	read := g.Group("", auth.RequireRole(auth.RoleReportReader, auth.RoleReportWriter))
	read.GET("/reports", h.handleList)
	read.GET("/reports/:id/metadata", h.handleGetMetadata)
	read.GET("/reports/:id", h.handleDownload)

	write := g.Group("", auth.RequireRole(auth.RoleReportWriter))
	write.DELETE("/reports/:id", h.handleDelete)
}

func (h *BlobHandler) handleDownload(c echo.Context) error {
	rc, meta, err := h.store.Download(c.Request().Context(), c.Param("id"))
	if err != nil {
		return storeError(c, err)
	}
	defer rc.Close()

	c.Response().Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, meta.FileName))
	return c.Stream(http.StatusOK, meta.ContentType, rc)
}

func (h *BlobHandler) handleGetMetadata(c echo.Context) error {
	meta, err := h.store.GetMetadata(c.Request().Context(), c.Param("id"))
	if err != nil {
		return storeError(c, err)
	}
	return c.JSON(http.StatusOK, meta)
}

func (h *BlobHandler) handleDelete(c echo.Context) error {
	if err := h.store.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return storeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *BlobHandler) handleList(c echo.Context) error {
	page := pagination.FromContext(c)
	params := ListParams{
		OrganizationRID: c.QueryParam("rid"),
		FileName:        c.QueryParam("file_name"),
		Limit:           page.Limit,
		Offset:          page.Offset,
	}
	var err error
	if params.CreatedAfter, err = timeParam(c, "created_after"); err != nil {
		return errorJSON(c, http.StatusBadRequest, err)
	}
	if params.CreatedBefore, err = timeParam(c, "created_before"); err != nil {
		return errorJSON(c, http.StatusBadRequest, err)
	}

	items, total, err := h.store.List(c.Request().Context(), params)
	if err != nil {
		return errorJSON(c, http.StatusInternalServerError, err)
	}
	if items == nil {
		items = []*BlobMetadata{}
	}

	links := page.Links(c.Request().URL.Path, c.QueryParams(), total)
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, page.Limit, page.Offset).WithLinks(links))
}

func storeError(c echo.Context, err error) error {
	if errors.Is(err, ErrBlobNotFound) {
		return errorJSON(c, http.StatusNotFound, err)
	}
	return errorJSON(c, http.StatusInternalServerError, err)
}

func timeParam(c echo.Context, name string) (*time.Time, error) {
	v := c.QueryParam(name)
	if v == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return nil, fmt.Errorf("%s must be an RFC 3339 timestamp", name)
	}
	return &t, nil
}
