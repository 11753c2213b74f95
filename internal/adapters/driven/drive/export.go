package drive

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/LuisVera22/service-gcp/internal/core/domain"
	"github.com/LuisVera22/service-gcp/internal/logger"
)

// Google Workspace MIME types that can be exported.
const (
	MimeTypeGoogleDoc    = "application/vnd.google-apps.document"
	MimeTypeGoogleSheet  = "application/vnd.google-apps.spreadsheet"
	MimeTypeGoogleSlides = "application/vnd.google-apps.presentation"
	MimeTypeFolder       = "application/vnd.google-apps.folder"
)

// Export formats for Google Workspace files.
const (
	ExportMimeText = "text/plain"
	ExportMimeCSV  = "text/csv"
)

// MaxExportSize caps exported or downloaded content at 5MB.
const MaxExportSize = 5 * 1024 * 1024

// ExtractText exports the plain text of a document.
// Google Docs and Slides export as text, Sheets as CSV; plain-text MIME
// types download directly. Unsupported types return an empty string and
// no error, which the builder records as "not indexable".
func (s *Source) ExtractText(ctx context.Context, ref domain.DocumentRef) (string, error) {
	switch ref.MIMEType {
	case MimeTypeGoogleDoc, MimeTypeGoogleSlides:
		return s.export(ctx, ref.ID, ExportMimeText)
	case MimeTypeGoogleSheet:
		return s.export(ctx, ref.ID, ExportMimeCSV)
	}

	if !isTextMIME(ref.MIMEType) {
		logger.Debug("Drive: %s has unsupported type %s, no text", ref.ID, ref.MIMEType)
		return "", nil
	}
	return s.download(ctx, ref.ID)
}

// export converts a Google Workspace file to the given format.
func (s *Source) export(ctx context.Context, fileID, exportMime string) (string, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return "", err
	}

	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	resp, err := s.svc.Files.Export(fileID, exportMime).Context(callCtx).Download()
	if err != nil {
		return "", fmt.Errorf("export file %s: %w", fileID, err)
	}
	defer resp.Body.Close()

	return readCapped(resp.Body)
}

// download fetches a regular file's content.
func (s *Source) download(ctx context.Context, fileID string) (string, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return "", err
	}

	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	resp, err := s.svc.Files.Get(fileID).Context(callCtx).Download()
	if err != nil {
		return "", fmt.Errorf("download file %s: %w", fileID, err)
	}
	defer resp.Body.Close()

	return readCapped(resp.Body)
}

// readCapped reads a response body up to the export size limit.
func readCapped(r io.Reader) (string, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxExportSize))
	if err != nil {
		return "", fmt.Errorf("read content: %w", err)
	}
	return string(data), nil
}

// isTextMIME checks if a MIME type is likely text content.
func isTextMIME(mimeType string) bool {
	if strings.HasPrefix(mimeType, "text/") {
		return true
	}

	switch mimeType {
	case "application/json",
		"application/xml",
		"application/javascript",
		"application/x-yaml",
		"application/x-sh",
		"application/sql":
		return true
	}
	return false
}
