package export

import (
	"context"

	"github.com/manav03panchal/pfsheet/internal/storage"
)

// Service exports the records selected by a query.
type Service struct {
	Repo   *storage.TimesheetRepo
	Writer *Writer
}

// NewService creates an export service.
func NewService(repo *storage.TimesheetRepo, writer *Writer) *Service {
	return &Service{Repo: repo, Writer: writer}
}

// Export writes every record matching the date range and legajo of f, in
// query order. Paging fields of f are ignored. Zero matches still produce an
// artifact holding only the header block.
func (s *Service) Export(ctx context.Context, f storage.Filter) (*Artifact, error) {
	f, err := s.Repo.CanonicalFilter(f)
	if err != nil {
		return nil, err
	}
	f.Limit, f.Offset = 0, 0

	res, err := s.Repo.Query(ctx, f)
	if err != nil {
		return nil, err
	}
	return s.Writer.Write(ctx, res.Rows, f.DateFrom, f.Legajo)
}
