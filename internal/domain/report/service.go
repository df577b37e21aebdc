package report

import (
	"bytes"
	"context"
	"io"
	"time"

	"github.com/gosimple/slug"
	"github.com/rs/zerolog"
	"github.com/surveyfax/surveyfax/internal/domain/organization"
	"github.com/surveyfax/surveyfax/internal/platform/blobstore"
	"github.com/surveyfax/surveyfax/pkg/docerr"
)

// DefaultFileName is used when the organization has no usable name.
const DefaultFileName = "organization.pdf"

// Archive stores rendered reports.
type Archive interface {
	Upload(ctx context.Context, meta blobstore.BlobMetadata, content io.Reader) (*blobstore.BlobMetadata, error)
}

// Result is a generated report.
type Result struct {
	PDF      []byte
	Pages    int
	FileName string
	// ArchiveID is empty when archiving is disabled or failed.
	ArchiveID string
}

type Service struct {
	renderer *Renderer
	archive  Archive
	metrics  *Metrics
	logger   zerolog.Logger
}

func NewService(renderer *Renderer, logger zerolog.Logger) *Service {
	return &Service{renderer: renderer, logger: logger}
}

// SetArchive enables archiving of every generated report.
func (s *Service) SetArchive(a Archive) { s.archive = a }

func (s *Service) SetMetrics(m *Metrics) { s.metrics = m }

// Generate parses a render request, draws the report and archives it. An
// archive failure is logged and does not fail the request.
func (s *Service) Generate(ctx context.Context, body []byte, createdBy string) (*Result, error) {
	start := time.Now()

	req, err := ParseRequest(body)
	if err != nil {
		s.metrics.observe(OutcomeInvalidInput, time.Since(start), 0)
		return nil, err
	}

	doc, err := s.renderer.Render(ctx, req)
	if err != nil {
		outcome := OutcomeRenderFailure
		if docerr.CodeOf(err) < 500 {
			outcome = OutcomeInvalidInput
		}
		s.metrics.observe(outcome, time.Since(start), 0)
		return nil, err
	}
	elapsed := time.Since(start)
	s.metrics.observe(OutcomeSuccess, elapsed, doc.Pages)

	org := req.Organization
	res := &Result{
		PDF:      doc.Bytes,
		Pages:    doc.Pages,
		FileName: FileName(org.Name),
	}

	if s.archive != nil {
		meta, err := s.archive.Upload(ctx, blobstore.BlobMetadata{
			FileName:         res.FileName,
			ContentType:      blobstore.ContentTypePDF,
			OrganizationRID:  org.RID,
			OrganizationName: org.Name,
			Pages:            doc.Pages,
			CreatedBy:        createdBy,
		}, bytes.NewReader(doc.Bytes))
		if err != nil {
			s.logger.Warn().Err(err).Str("rid", org.RID).Msg("report archive failed")
		} else {
			res.ArchiveID = meta.ID
		}
	}

	s.logger.Info().
		Str("rid", org.RID).
		Int("pages", doc.Pages).
		Bool("cover", req.HasCover()).
		Dur("duration", elapsed).
		Str("archive_id", res.ArchiveID).
		Msg("report rendered")

	return res, nil
}

// Normalize converts a raw survey entity into an organization.
func (s *Service) Normalize(body []byte) (*organization.Organization, error) {
	return organization.Normalize(body)
}

// FileName derives a PDF file name from an organization name.
func FileName(orgName string) string {
	if s := slug.Make(orgName); s != "" {
		return s + ".pdf"
	}
	return DefaultFileName
}
