package catalog

import (
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/jmcdonald/giftkit/internal/adapters/osfs"
	"github.com/jmcdonald/giftkit/internal/ports"
)

// Summary counts what a conversion did with the sheet.
type Summary struct {
	Rows       int // data rows read, skipped ones included
	Emitted    int
	Incomplete int // skipped silently
	Warned     int // skipped with a diagnostic
}

// Skip records a row that produced no product.
type Skip struct {
	Row int // 1-based data row
	Err error
}

// Collection is a curated sheet held in memory.
type Collection struct {
	Source   string
	Label    string
	Rows     int
	Products []Product
	Skipped  []Skip
}

// Service converts product sheets with injected dependencies.
type Service struct {
	fs     ports.FileSystem
	logger *zap.Logger
}

// NewService creates a catalog service. A nil logger discards debug output.
func NewService(fs ports.FileSystem, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{fs: fs, logger: logger}
}

// NewDefaultService creates a catalog service reading from the real filesystem.
func NewDefaultService(logger *zap.Logger) *Service {
	return NewService(osfs.New(), logger)
}

func (s *Service) readTable(csvPath string) (*Table, error) {
	f, err := s.fs.Open(csvPath)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", csvPath, err)
	}
	defer func() { _ = f.Close() }()

	return ReadTable(f)
}

// Convert streams the curatedProducts block for the sheet at csvPath to out and
// writes skip diagnostics to errOut. The opening line is written before the sheet
// is opened, and a fatal row error leaves out truncated after the last complete
// object.
//
// The trailing comma is decided by input position: only the object built from
// the sheet's final row goes without one, so when that row is skipped every
// emitted object keeps its comma.
func (s *Service) Convert(csvPath, label string, out, errOut io.Writer) (Summary, error) {
	var summary Summary
	r := NewRenderer(out)

	if err := r.Open(); err != nil {
		return summary, err
	}

	table, err := s.readTable(csvPath)
	if err != nil {
		return summary, err
	}
	summary.Rows = table.Len()
	last := table.Len() - 1

	for i := 0; i < table.Len(); i++ {
		row, err := table.Row(i)
		if err != nil {
			return summary, fmt.Errorf("row %d: %w", i+1, err)
		}

		p, err := Curate(row, label)
		var asinErr *ASINError
		switch {
		case errors.Is(err, ErrIncompleteRow):
			summary.Incomplete++
			s.logger.Debug("skipped incomplete row", zap.Int("row", i+1))
			continue
		case errors.As(err, &asinErr):
			summary.Warned++
			if _, err := fmt.Fprintln(errOut, asinErr.Warning()); err != nil {
				return summary, err
			}
			continue
		case err != nil:
			return summary, fmt.Errorf("row %d: %w", i+1, err)
		}

		if err := r.Product(p, i < last); err != nil {
			return summary, err
		}
		summary.Emitted++
		s.logger.Debug("curated product",
			zap.Int("row", i+1),
			zap.String("asin", p.ASIN),
			zap.Float64("price", p.Price),
			zap.Stringer("tier", p.Tier))
	}

	if err := r.Close(summary.Rows); err != nil {
		return summary, err
	}
	return summary, nil
}

// Collect curates every row of the sheet at csvPath into memory. Skipped rows
// are recorded; price and column errors are fatal as in Convert.
func (s *Service) Collect(csvPath, label string) (*Collection, error) {
	table, err := s.readTable(csvPath)
	if err != nil {
		return nil, err
	}

	col := &Collection{Source: csvPath, Label: label, Rows: table.Len()}
	for i := 0; i < table.Len(); i++ {
		row, err := table.Row(i)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}

		p, err := Curate(row, label)
		if errors.Is(err, ErrIncompleteRow) || errors.Is(err, ErrNoASIN) {
			col.Skipped = append(col.Skipped, Skip{Row: i + 1, Err: err})
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		col.Products = append(col.Products, p)
	}

	s.logger.Debug("collected sheet",
		zap.String("source", csvPath),
		zap.Int("rows", col.Rows),
		zap.Int("products", len(col.Products)),
		zap.Int("skipped", len(col.Skipped)))
	return col, nil
}
