package gdrive

import (
	"errors"
	"fmt"
	"net/http"

	"google.golang.org/api/googleapi"
)

var (
	ErrNotFound     = errors.New("gdrive: file not found")
	ErrNameNotFound = errors.New("gdrive: file name not found")
	ErrNoCredential = errors.New("gdrive: no credential available")
)

// AuthError is returned when a credential cannot be loaded, refreshed or obtained.
// The program cannot continue without a valid credential.
type AuthError struct {
	Err error
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("auth: %v", e.Err)
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

// APIError wraps any failure of a remote call.
type APIError struct {
	Op  string
	Err error
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api %s: %v", e.Op, e.Err)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

func newAPIError(op string, err error) error {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) && gerr.Code == http.StatusNotFound {
		err = fmt.Errorf("%w: %w", ErrNotFound, err)
	}
	return &APIError{Op: op, Err: err}
}

type UploadError struct {
	Path string
	Err  error
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("UploadError: %v", e.Err)
}

func (e *UploadError) Unwrap() error {
	return e.Err
}

type DeleteError struct {
	ID  string
	Err error
}

func (e *DeleteError) Error() string {
	return fmt.Sprintf("DeleteError: %v", e.Err)
}

func (e *DeleteError) Unwrap() error {
	return e.Err
}

// DownloadErrorKind tells callers which stage of a download failed.
type DownloadErrorKind int

const (
	DownloadNetwork DownloadErrorKind = iota + 1
	DownloadFilesystem
	DownloadNameResolution
)

func (k DownloadErrorKind) String() string {
	switch k {
	case DownloadNetwork:
		return "network"
	case DownloadFilesystem:
		return "filesystem"
	case DownloadNameResolution:
		return "name resolution"
	default:
		return "unknown"
	}
}

type DownloadError struct {
	ID   string
	Kind DownloadErrorKind
	Err  error
}

func (e *DownloadError) Error() string {
	return fmt.Sprintf("DownloadError (%s) for %s: %v", e.Kind, e.ID, e.Err)
}

func (e *DownloadError) Unwrap() error {
	return e.Err
}

// IsDownloadKind reports whether err is a DownloadError of the given kind.
func IsDownloadKind(err error, kind DownloadErrorKind) bool {
	var derr *DownloadError
	return errors.As(err, &derr) && derr.Kind == kind
}

var errIsDirectory = errors.New("is a directory")

func isNameNotFound(err error) bool {
	return errors.Is(err, ErrNameNotFound)
}
