package reports

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/cespare/xxhash/v2"

	"psi/internal/core/apperror"
	"psi/internal/domain/filter"
	"psi/pkg/logger"
)

const (
	defaultLimit = 50
	maxLimit     = 500

	// exportLimit caps the rows of one export.
	exportLimit = 10000
)

// positiveSales restricts every query to suppliers that sold something.
var positiveSales = filter.Item{Field: "sales_amount", Operator: filter.Greater, Value: 0}

// Service provides supplier sales report operations.
type Service struct {
	repo     Repository
	cache    Cache
	exporter Exporter
	view     ViewConfig
}

// NewService creates a new reports service. cache and exporter may be nil.
func NewService(repo Repository, cache Cache, exporter Exporter) *Service {
	return &Service{
		repo:     repo,
		cache:    cache,
		exporter: exporter,
		view:     SupplierSalesView,
	}
}

// View returns the report configuration.
func (s *Service) View() ViewConfig {
	return s.view
}

// query validates f against the view and builds the repository query.
func (s *Service) query(f Filter) (Query, error) {
	if f.Window == "" {
		f.Window = s.view.DefaultWindow
	}
	if _, err := ParseWindow(string(f.Window)); err != nil {
		return Query{}, err
	}

	filters := make([]filter.Item, 0, len(f.AdvancedFilters)+1)
	for _, item := range f.AdvancedFilters {
		if err := item.Validate(s.view.Filterable); err != nil {
			return Query{}, apperror.NewValidation(err.Error()).WithDetail("field", item.Field)
		}
		filters = append(filters, item)
	}
	filters = append(filters, positiveSales)

	orderBy, err := s.view.OrderBy(f.OrderBy)
	if err != nil {
		return Query{}, err
	}

	limit := f.Limit
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	offset := max(f.Offset, 0)

	return Query{
		View:       f.Window.View(),
		Columns:    []string{"id", "name", "mnemonic", "sales_amount", "sales_profit", "daily_amount", "daily_profit"},
		Search:     f.Search,
		Searchable: s.view.Searchable,
		Filters:    filters,
		Filterable: s.view.Filterable,
		OrderBy:    orderBy,
		Limit:      limit,
		Offset:     offset,
	}, nil
}

// cacheKey identifies a query; equal queries share a key.
func cacheKey(q Query) (string, error) {
	raw, err := json.Marshal(q)
	if err != nil {
		return "", err
	}
	return "report:" + q.View + ":" + strconv.FormatUint(xxhash.Sum64(raw), 16), nil
}

// Query returns one page of a report window, served from the cache when possible.
func (s *Service) Query(ctx context.Context, f Filter) (*Page, error) {
	q, err := s.query(f)
	if err != nil {
		return nil, err
	}
	window := windowOf(f)

	var key string
	if s.cache != nil {
		if key, err = cacheKey(q); err != nil {
			return nil, fmt.Errorf("report cache key: %w", err)
		}
		page, err := s.cache.GetPage(ctx, key)
		if err != nil {
			logger.Warn(ctx, "report cache read failed", "key", key, "error", err)
		} else if page != nil {
			return page, nil
		}
	}

	rows, err := s.repo.QuerySupplierSales(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("query supplier sales: %w", err)
	}
	total, err := s.repo.CountSupplierSales(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("count supplier sales: %w", err)
	}

	page := &Page{
		Window:     window,
		Label:      window.Label(),
		Items:      rows,
		TotalCount: total,
		Limit:      q.Limit,
		Offset:     q.Offset,
	}
	if s.cache != nil {
		if err := s.cache.SetPage(ctx, key, page); err != nil {
			logger.Warn(ctx, "report cache write failed", "key", key, "error", err)
		}
	}
	return page, nil
}

// Count returns the number of rows of a report window.
func (s *Service) Count(ctx context.Context, f Filter) (int64, error) {
	q, err := s.query(f)
	if err != nil {
		return 0, err
	}
	total, err := s.repo.CountSupplierSales(ctx, q)
	if err != nil {
		return 0, fmt.Errorf("count supplier sales: %w", err)
	}
	return total, nil
}

// ContentType is the MIME type written by Export.
func (s *Service) ContentType() string {
	if s.exporter == nil {
		return ""
	}
	return s.exporter.ContentType()
}

// Export renders every matching row of a window to w, ignoring paging.
func (s *Service) Export(ctx context.Context, w io.Writer, f Filter) error {
	if s.exporter == nil {
		return fmt.Errorf("report export is not configured")
	}
	q, err := s.query(f)
	if err != nil {
		return err
	}
	q.Limit, q.Offset = exportLimit, 0

	rows, err := s.repo.QuerySupplierSales(ctx, q)
	if err != nil {
		return fmt.Errorf("query supplier sales: %w", err)
	}
	logger.Info(ctx, "supplier sales exported", "window", string(windowOf(f)), "rows", len(rows))
	return s.exporter.WriteSupplierSales(w, s.view, windowOf(f), rows)
}

func windowOf(f Filter) Window {
	if f.Window == "" {
		return DefaultWindow
	}
	return f.Window
}
