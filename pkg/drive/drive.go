// Package drive lists and downloads PTR workbooks from a Google Drive folder.
package drive

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/ukaji3/ptrboard-go/pkg/ptrboard"
	"github.com/ukaji3/ptrboard-go/pkg/ptrboard/models"
	"github.com/ukaji3/ptrboard-go/pkg/retry"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const (
	defaultBaseURL = "https://www.googleapis.com/drive/v3"
	defaultTimeout = 60 * time.Second

	// DefaultChunkSize is the size of each ranged download request.
	DefaultChunkSize int64 = 100 << 20

	readonlyScope = "https://www.googleapis.com/auth/drive.readonly"
	listFields    = "nextPageToken, files(id, name, modifiedTime)"
	listPageSize  = 1000
)

// Client implements ptrboard.FileStore over the Drive v3 REST API.
type Client struct {
	folderID  string
	baseURL   string
	chunkSize int64
	retry     retry.Config
	client    *http.Client
	logger    *slog.Logger
}

// Config holds configuration for the Drive client.
type Config struct {
	FolderID        string        // Folder holding the PTR workbooks
	CredentialsFile string        // Service-account JSON; empty uses Application Default Credentials
	BaseURL         string        // Optional, for testing
	Timeout         time.Duration // HTTP client timeout
	ChunkSize       int64         // Download chunk size in bytes
	Retry           *retry.Config // Per-chunk retry policy; nil uses retry.DefaultConfig
	Logger          *slog.Logger
}

// APIError is a non-success response from the Drive API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("drive API error: %s (code: %d)", e.Message, e.StatusCode)
}

// Temporary reports whether the request may succeed when repeated.
func (e *APIError) Temporary() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

// New creates a Drive client authorized with the service-account file in
// cfg, or with Application Default Credentials when none is set.
func New(ctx context.Context, cfg Config) (*Client, error) {
	if cfg.FolderID == "" {
		return nil, fmt.Errorf("folder ID is required")
	}

	var client *http.Client
	if cfg.CredentialsFile != "" {
		data, err := os.ReadFile(cfg.CredentialsFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read credentials: %w", err)
		}
		creds, err := google.CredentialsFromJSON(ctx, data, readonlyScope)
		if err != nil {
			return nil, fmt.Errorf("failed to parse credentials: %w", err)
		}
		client = oauth2.NewClient(ctx, creds.TokenSource)
	} else {
		var err error
		client, err = google.DefaultClient(ctx, readonlyScope)
		if err != nil {
			return nil, fmt.Errorf("failed to create authenticated client: %w", err)
		}
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}
	client.Timeout = timeout

	return NewWithClient(cfg, client), nil
}

// NewWithClient creates a Drive client with a custom HTTP client (for testing).
func NewWithClient(cfg Config, client *http.Client) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	chunkSize := cfg.ChunkSize
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	retryCfg := retry.DefaultConfig()
	if cfg.Retry != nil {
		retryCfg = *cfg.Retry
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(slog.String("component", "drive"))

	if retryCfg.OnRetry == nil {
		retryCfg.OnRetry = func(attempt int, delay time.Duration, err error) {
			logger.Warn("retrying drive request",
				slog.Int("attempt", attempt),
				slog.Duration("delay", delay),
				slog.String("error", err.Error()),
			)
		}
	}

	return &Client{
		folderID:  cfg.FolderID,
		baseURL:   strings.TrimSuffix(baseURL, "/"),
		chunkSize: chunkSize,
		retry:     retryCfg,
		client:    client,
		logger:    logger,
	}
}

type fileEntry struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	ModifiedTime time.Time `json:"modifiedTime"`
}

type listResponse struct {
	NextPageToken string      `json:"nextPageToken"`
	Files         []fileEntry `json:"files"`
}

type errorResponse struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// ListFiles returns every file in the configured folder, following pagination.
func (c *Client) ListFiles(ctx context.Context) ([]models.RemoteFile, error) {
	var files []models.RemoteFile
	pageToken := ""

	for {
		params := url.Values{}
		params.Set("q", fmt.Sprintf("'%s' in parents", c.folderID))
		params.Set("fields", listFields)
		params.Set("pageSize", strconv.Itoa(listPageSize))
		if pageToken != "" {
			params.Set("pageToken", pageToken)
		}

		page, err := retry.DoWithValue(ctx, c.retry, func(ctx context.Context) (*listResponse, error) {
			return c.listPage(ctx, params)
		})
		if err != nil {
			return nil, err
		}

		for _, f := range page.Files {
			files = append(files, models.RemoteFile{
				Name:         f.Name,
				ID:           f.ID,
				ModifiedTime: f.ModifiedTime.UTC(),
			})
		}

		if page.NextPageToken == "" {
			break
		}
		pageToken = page.NextPageToken
	}

	c.logger.Debug("listed folder", slog.String("folder_id", c.folderID), slog.Int("count", len(files)))
	return files, nil
}

func (c *Client) listPage(ctx context.Context, params url.Values) (*listResponse, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/files?"+params.Encode(), nil)
	if err != nil {
		return nil, retry.Permanent(fmt.Errorf("failed to create request: %w", err))
	}

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to list files: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.classify(parseError(resp))
	}

	var page listResponse
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, retry.Permanent(fmt.Errorf("failed to decode response: %w", err))
	}
	return &page, nil
}

// Download fetches a file's content in ranged chunks. Each chunk is retried
// independently; a chunk that keeps failing aborts the whole transfer.
func (c *Client) Download(ctx context.Context, id string) ([]byte, error) {
	var buf []byte
	offset := int64(0)
	total := int64(-1)

	for total < 0 || offset < total {
		chunk, err := retry.DoWithValue(ctx, c.retry, func(ctx context.Context) (*chunkResult, error) {
			return c.fetchChunk(ctx, id, offset)
		})
		if err != nil {
			if errors.Is(err, ptrboard.ErrFileNotFound) {
				return nil, err
			}
			return nil, &ptrboard.TransferError{FileID: id, Offset: offset, Err: err}
		}

		buf = append(buf, chunk.data...)
		offset += int64(len(chunk.data))
		total = chunk.total

		c.logger.Debug("downloaded chunk",
			slog.String("file_id", id),
			slog.Int64("offset", offset),
			slog.Int64("total", total),
		)

		if len(chunk.data) == 0 && offset < total {
			return nil, &ptrboard.TransferError{FileID: id, Offset: offset, Err: io.ErrUnexpectedEOF}
		}
	}

	return buf, nil
}

type chunkResult struct {
	data  []byte
	total int64
}

func (c *Client) fetchChunk(ctx context.Context, id string, offset int64) (*chunkResult, error) {
	u := fmt.Sprintf("%s/files/%s?alt=media", c.baseURL, url.PathEscape(id))
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, retry.Permanent(fmt.Errorf("failed to create request: %w", err))
	}
	httpReq.Header.Set("Range", fmt.Sprintf("bytes=%d-%d", offset, offset+c.chunkSize-1))

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to download chunk: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		// Server ignored the range and sent the whole file.
		if offset > 0 {
			return nil, retry.Permanent(fmt.Errorf("range request ignored at offset %d", offset))
		}
		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to read body: %w", err)
		}
		return &chunkResult{data: data, total: int64(len(data))}, nil

	case http.StatusPartialContent:
		_, _, total, ok := parseContentRange(resp.Header.Get("Content-Range"))
		if !ok {
			return nil, retry.Permanent(fmt.Errorf("invalid Content-Range %q", resp.Header.Get("Content-Range")))
		}
		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to read body: %w", err)
		}
		return &chunkResult{data: data, total: total}, nil

	case http.StatusRequestedRangeNotSatisfiable:
		// Empty file, or offset already at the end.
		return &chunkResult{total: offset}, nil

	case http.StatusNotFound:
		return nil, retry.Permanent(fmt.Errorf("%w: %s", ptrboard.ErrFileNotFound, id))

	default:
		return nil, c.classify(parseError(resp))
	}
}

// classify marks API errors that cannot succeed on retry as permanent.
func (c *Client) classify(err error) error {
	var apiErr *APIError
	if errors.As(err, &apiErr) && !apiErr.Temporary() {
		return retry.Permanent(err)
	}
	return err
}

func parseError(resp *http.Response) error {
	body, _ := io.ReadAll(resp.Body)
	var errResp errorResponse
	if json.Unmarshal(body, &errResp) == nil && errResp.Error.Message != "" {
		return &APIError{StatusCode: resp.StatusCode, Message: errResp.Error.Message}
	}
	return &APIError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(body))}
}

// parseContentRange parses "bytes start-end/total".
func parseContentRange(h string) (start, end, total int64, ok bool) {
	spec, found := strings.CutPrefix(h, "bytes ")
	if !found {
		return 0, 0, 0, false
	}
	rng, size, found := strings.Cut(spec, "/")
	if !found {
		return 0, 0, 0, false
	}
	from, to, found := strings.Cut(rng, "-")
	if !found {
		return 0, 0, 0, false
	}

	var err error
	if start, err = strconv.ParseInt(from, 10, 64); err != nil {
		return 0, 0, 0, false
	}
	if end, err = strconv.ParseInt(to, 10, 64); err != nil {
		return 0, 0, 0, false
	}
	if total, err = strconv.ParseInt(size, 10, 64); err != nil {
		return 0, 0, 0, false
	}
	return start, end, total, true
}
