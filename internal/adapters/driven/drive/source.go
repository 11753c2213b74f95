// Package drive implements the DocumentSource port on the Google Drive API.
// It recursively enumerates a folder and exports plain text for supported
// document types.
package drive

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/LuisVera22/service-gcp/internal/core/domain"
	"github.com/LuisVera22/service-gcp/internal/core/ports/driven"
	"github.com/LuisVera22/service-gcp/internal/logger"
)

// Ensure Source implements the interface.
var _ driven.DocumentSource = (*Source)(nil)

// Default configuration values.
const (
	// DefaultPageSize is the Drive API page size for listings.
	DefaultPageSize = 100

	// DefaultRequestTimeout bounds each Drive API call.
	DefaultRequestTimeout = 30 * time.Second

	// DefaultRequestsPerSecond stays below Google's 10/sec/user quota.
	DefaultRequestsPerSecond = 8.0

	// DefaultBurst is the rate-limiter burst size.
	DefaultBurst = 10
)

// listFields are the file attributes fetched per listing page.
const listFields = "nextPageToken, files(id, name, mimeType, size, webViewLink, modifiedTime, trashed)"

// Config holds Google Drive source configuration.
type Config struct {
	// PageSize is the Drive listing page size.
	PageSize int64

	// RequestTimeout bounds each individual API call.
	RequestTimeout time.Duration

	// RequestsPerSecond is the sustained rate limit for API calls.
	RequestsPerSecond float64

	// Burst is the rate-limiter burst size.
	Burst int
}

// Source lists and exports documents from Google Drive.
type Source struct {
	svc     *drive.Service
	limiter *rate.Limiter
	timeout time.Duration
	pageSz  int64
}

// NewSource creates a Drive source with explicit client options
// (credentials file, API key, or a pre-built HTTP client).
func NewSource(ctx context.Context, cfg Config, opts ...option.ClientOption) (*Source, error) {
	svc, err := drive.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create drive service: %w", err)
	}
	return newSource(svc, cfg), nil
}

// NewSourceWithTokenSource creates a Drive source authenticated by an
// OAuth2 token source.
func NewSourceWithTokenSource(ctx context.Context, ts oauth2.TokenSource, cfg Config) (*Source, error) {
	return NewSource(ctx, cfg, option.WithTokenSource(ts))
}

func newSource(svc *drive.Service, cfg Config) *Source {
	if cfg.PageSize <= 0 {
		cfg.PageSize = DefaultPageSize
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = DefaultRequestTimeout
	}
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = DefaultRequestsPerSecond
	}
	if cfg.Burst <= 0 {
		cfg.Burst = DefaultBurst
	}

	return &Source{
		svc:     svc,
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst),
		timeout: cfg.RequestTimeout,
		pageSz:  cfg.PageSize,
	}
}

// ListAll walks the folder tree under rootID breadth-first and returns
// every non-folder, non-trashed document.
func (s *Source) ListAll(ctx context.Context, rootID string) ([]domain.DocumentRef, error) {
	if rootID == "" {
		return nil, fmt.Errorf("%w: empty root folder id", domain.ErrRootNotFound)
	}

	var refs []domain.DocumentRef
	queue := []string{rootID}

	for len(queue) > 0 {
		folderID := queue[0]
		queue = queue[1:]

		pageToken := ""
		for {
			res, err := s.listPage(ctx, folderID, pageToken)
			if err != nil {
				// Only a missing root is a missing_root failure; a vanished
				// subfolder mid-walk is treated like any provider error.
				if folderID == rootID && isNotFound(err) {
					return nil, fmt.Errorf("%w: folder %s: %v", domain.ErrRootNotFound, rootID, err)
				}
				return nil, fmt.Errorf("%w: list folder %s: %v", domain.ErrProviderUnavailable, folderID, err)
			}

			for _, f := range res.Files {
				if f.Trashed {
					continue
				}
				if f.MimeType == MimeTypeFolder {
					queue = append(queue, f.Id)
					continue
				}
				refs = append(refs, toDocumentRef(f))
			}

			pageToken = res.NextPageToken
			if pageToken == "" {
				break
			}
		}
	}

	logger.Debug("Drive: listed %d documents under %s", len(refs), rootID)
	return refs, nil
}

// listPage fetches one page of a folder listing, rate limited and
// bounded by the per-call timeout.
func (s *Source) listPage(ctx context.Context, folderID, pageToken string) (*drive.FileList, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	call := s.svc.Files.List().
		Q(folderQuery(folderID)).
		Fields(listFields).
		PageSize(s.pageSz).
		Context(callCtx)
	if pageToken != "" {
		call = call.PageToken(pageToken)
	}
	return call.Do()
}

// Ping validates the Drive API is reachable with the configured credentials.
func (s *Source) Ping(ctx context.Context) error {
	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	_, err := s.svc.About.Get().Fields("user").Context(callCtx).Do()
	if err != nil {
		return fmt.Errorf("%w: drive ping: %v", domain.ErrProviderUnavailable, err)
	}
	return nil
}

// Close releases resources.
func (s *Source) Close() error {
	return nil
}

// folderQuery builds the Drive query for a folder's direct children.
func folderQuery(folderID string) string {
	return fmt.Sprintf("'%s' in parents and trashed = false", folderID)
}

// toDocumentRef converts a Drive file to a DocumentRef.
func toDocumentRef(f *drive.File) domain.DocumentRef {
	modified, _ := time.Parse(time.RFC3339, f.ModifiedTime)
	return domain.DocumentRef{
		ID:          f.Id,
		DisplayName: f.Name,
		MIMEType:    f.MimeType,
		ViewURL:     viewURL(f),
		ModifiedAt:  modified,
	}
}

// viewURL returns the file's web link, synthesising one when the API
// response omits it.
func viewURL(f *drive.File) string {
	if f.WebViewLink != "" {
		return f.WebViewLink
	}
	return "https://drive.google.com/file/d/" + f.Id + "/view"
}

// isNotFound reports whether err is a Drive 404.
func isNotFound(err error) bool {
	var apiErr *googleapi.Error
	return errors.As(err, &apiErr) && apiErr.Code == http.StatusNotFound
}
