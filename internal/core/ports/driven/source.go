package driven

import (
	"context"

	"github.com/LuisVera22/service-gcp/internal/core/domain"
)

// DocumentSource enumerates documents under a root container in the remote
// repository and exports their plain text.
//
// Implementations may include:
//   - Google Drive (folders of Docs, Sheets and plain-text files)
//   - A local directory tree (tests, offline development)
type DocumentSource interface {
	// ListAll recursively enumerates every document under rootID.
	// Folders and trashed entries are not returned.
	// Returns domain.ErrRootNotFound when the container does not exist.
	ListAll(ctx context.Context, rootID string) ([]domain.DocumentRef, error)

	// ExtractText exports the plain text of a document.
	// Unsupported document types return an empty string and no error;
	// the caller treats that as "not indexable".
	ExtractText(ctx context.Context, ref domain.DocumentRef) (string, error)

	// Ping validates the repository is reachable with the configured
	// credentials.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}
