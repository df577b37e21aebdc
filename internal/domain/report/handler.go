package report

import (
	"encoding/base64"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/surveyfax/surveyfax/internal/platform/auth"
	"github.com/surveyfax/surveyfax/pkg/docerr"
)

type Handler struct {
	svc    *Service
	logger zerolog.Logger
}

func NewHandler(svc *Service, logger zerolog.Logger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	write := api.Group("", auth.RequireRole(auth.RoleReportWriter))
	write.POST("/reports", h.CreateReport)
	write.POST("/organizations/normalize", h.NormalizeOrganization)
}

// CreateReportResponse is returned by POST /reports.
type CreateReportResponse struct {
	PDF      string `json:"pdf"`
	ID       string `json:"id,omitempty"`
	Pages    int    `json:"pages"`
	FileName string `json:"file_name"`
}

func (h *Handler) CreateReport(c echo.Context) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()
	res, err := h.svc.Generate(ctx, body, auth.UserIDFromContext(ctx))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, CreateReportResponse{
		PDF:      base64.StdEncoding.EncodeToString(res.PDF),
		ID:       res.ArchiveID,
		Pages:    res.Pages,
		FileName: res.FileName,
	})
}

func (h *Handler) NormalizeOrganization(c echo.Context) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return err
	}
	org, err := h.svc.Normalize(body)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, org)
}

// fail writes the error envelope. Only server errors are logged.
func (h *Handler) fail(c echo.Context, err error) error {
	b := docerr.BodyOf(err)
	if b.Code >= http.StatusInternalServerError {
		rid, _ := c.Get("request_id").(string)
		h.logger.Error().Err(err).Str("request_id", rid).Msg("report request failed")
	}
	return c.JSON(b.Code, b)
}
