package ptrboard

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ukaji3/ptrboard-go/pkg/ptrboard/cache"
	"github.com/ukaji3/ptrboard-go/pkg/ptrboard/models"
	"github.com/ukaji3/ptrboard-go/pkg/ptrboard/parser"
	"github.com/xuri/excelize/v2"
)

// FileStore lists and downloads PTR workbooks.
// Download returns an error wrapping ErrFileNotFound for unknown IDs.
type FileStore interface {
	ListFiles(ctx context.Context) ([]models.RemoteFile, error)
	Download(ctx context.Context, id string) ([]byte, error)
}

// NormalizeObserver is called after each uncached normalization.
type NormalizeObserver func(sheet string, elapsed time.Duration, err error)

// Dashboard serves normalized tables and metrics for workbooks in a FileStore.
// Results are memoized until Refresh. Returned values are shared between
// callers and must not be mutated.
type Dashboard struct {
	store    FileStore
	cache    *cache.Cache
	opts     Options
	logger   *slog.Logger
	observer NormalizeObserver
}

// DashboardOption configures a Dashboard.
type DashboardOption func(*Dashboard)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) DashboardOption {
	return func(d *Dashboard) {
		d.logger = logger
	}
}

// WithCache sets the cache. Defaults to a fresh cache.
func WithCache(c *cache.Cache) DashboardOption {
	return func(d *Dashboard) {
		d.cache = c
	}
}

// WithNormalizeObserver sets a hook observing normalization runs.
func WithNormalizeObserver(fn NormalizeObserver) DashboardOption {
	return func(d *Dashboard) {
		d.observer = fn
	}
}

// NewDashboard creates a dashboard over store.
func NewDashboard(store FileStore, opts Options, options ...DashboardOption) *Dashboard {
	d := &Dashboard{
		store:  store,
		cache:  cache.New(),
		opts:   opts,
		logger: slog.Default(),
	}
	for _, o := range options {
		o(d)
	}
	d.logger = d.logger.With(slog.String("component", "dashboard"))
	return d
}

// Cache returns the dashboard cache.
func (d *Dashboard) Cache() *cache.Cache {
	return d.cache
}

// Files lists the workbooks in the store.
func (d *Dashboard) Files(ctx context.Context) ([]models.RemoteFile, error) {
	return cache.Do(d.cache, cache.Key("files"), func() ([]models.RemoteFile, error) {
		files, err := d.store.ListFiles(ctx)
		if err != nil {
			return nil, fmt.Errorf("list files: %w", err)
		}
		d.logger.Info("listed files", slog.Int("count", len(files)))
		return files, nil
	})
}

// Sheets lists the sheet names of a workbook.
func (d *Dashboard) Sheets(ctx context.Context, fileID string) ([]string, error) {
	return cache.Do(d.cache, cache.Key("sheets", fileID), func() ([]string, error) {
		f, err := d.open(ctx, fileID)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return parser.ListSheetNames(f), nil
	})
}

// Table returns the normalized form of one sheet.
func (d *Dashboard) Table(ctx context.Context, fileID, sheet string) (*models.SheetData, error) {
	return cache.Do(d.cache, cache.Key("table", fileID, sheet), func() (*models.SheetData, error) {
		f, err := d.open(ctx, fileID)
		if err != nil {
			return nil, err
		}
		defer f.Close()

		start := time.Now()
		data, err := normalizeSheet(f, sheet, d.opts.Normalize)
		if d.observer != nil {
			d.observer(sheet, time.Since(start), err)
		}
		if err != nil {
			d.logger.Warn("normalize failed",
				slog.String("file_id", fileID),
				slog.String("sheet", sheet),
				slog.String("error", err.Error()),
			)
			return nil, err
		}
		for _, w := range data.Warnings {
			d.logger.Warn(w, slog.String("file_id", fileID), slog.String("sheet", sheet))
		}
		return data, nil
	})
}

// Percentages returns the per-platform status breakdown of one version.
func (d *Dashboard) Percentages(ctx context.Context, fileID, sheet, version string) ([]models.Percentage, error) {
	return cache.Do(d.cache, cache.Key("percentages", fileID, sheet, version), func() ([]models.Percentage, error) {
		data, err := d.Table(ctx, fileID, sheet)
		if err != nil {
			return nil, err
		}
		return Percentages(data.Table, version, d.opts.PlatformList()...)
	})
}

// FlowGraph returns the flow graph of one version.
func (d *Dashboard) FlowGraph(ctx context.Context, fileID, sheet, version string) (*models.FlowGraph, error) {
	return cache.Do(d.cache, cache.Key("flow", fileID, sheet, version), func() (*models.FlowGraph, error) {
		data, err := d.Table(ctx, fileID, sheet)
		if err != nil {
			return nil, err
		}
		return FlowGraph(data.Table, version)
	})
}

// Overview returns the heatmap blocks of the workbook's overview sheet.
func (d *Dashboard) Overview(ctx context.Context, fileID string) ([]models.Heatmap, error) {
	return cache.Do(d.cache, cache.Key("overview", fileID), func() ([]models.Heatmap, error) {
		f, err := d.open(ctx, fileID)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return readOverview(f, d.opts)
	})
}

// Refresh drops every memoized result so the next call re-reads the store.
func (d *Dashboard) Refresh() {
	d.cache.Clear()
	d.logger.Info("cache cleared")
}

// download returns the workbook bytes, memoized per file ID.
func (d *Dashboard) download(ctx context.Context, fileID string) ([]byte, error) {
	return cache.Do(d.cache, cache.Key("download", fileID), func() ([]byte, error) {
		start := time.Now()
		b, err := d.store.Download(ctx, fileID)
		if err != nil {
			return nil, err
		}
		d.logger.Info("downloaded file",
			slog.String("file_id", fileID),
			slog.Int("bytes", len(b)),
			slog.Duration("duration", time.Since(start)),
		)
		return b, nil
	})
}

func (d *Dashboard) open(ctx context.Context, fileID string) (*excelize.File, error) {
	b, err := d.download(ctx, fileID)
	if err != nil {
		return nil, err
	}
	f, err := parser.OpenWorkbook(bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	return f, nil
}
