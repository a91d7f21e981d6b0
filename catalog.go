package gdrive

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
)

// DefaultPageSize is the number of files a single listing returns.
const DefaultPageSize = 100

// Catalog browses remote files and resolves ids to display names.
type Catalog struct {
	remote   Remote
	pageSize int64
}

func NewCatalog(remote Remote, pageSize int64) *Catalog {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Catalog{remote: remote, pageSize: pageSize}
}

// List returns the first page only. Files past the page size are not visible
// here; use ListAll to walk every page.
func (c *Catalog) List(ctx context.Context) ([]RemoteFile, error) {
	page, err := c.remote.List(ctx, c.pageSize, "")
	if err != nil {
		return nil, err
	}
	if page.NextPageToken != "" {
		logrus.WithField("pageSize", c.pageSize).Debug("listing truncated to first page")
	}
	return page.Files, nil
}

func (c *Catalog) ListAll(ctx context.Context) ([]RemoteFile, error) {
	files := []RemoteFile{}
	token := ""
	for {
		page, err := c.remote.List(ctx, c.pageSize, token)
		if err != nil {
			return nil, err
		}
		files = append(files, page.Files...)
		if page.NextPageToken == "" {
			return files, nil
		}
		token = page.NextPageToken
	}
}

// ResolveName looks the file up directly instead of scanning a listing, so it
// works for any id regardless of the listing page size.
func (c *Catalog) ResolveName(ctx context.Context, id string) (string, error) {
	f, err := c.remote.GetFile(ctx, id)
	if IsNotFound(err) {
		return "", fmt.Errorf("%w: %s", ErrNameNotFound, id)
	}
	if err != nil {
		return "", err
	}
	if f.Name == "" {
		return "", fmt.Errorf("%w: %s has no name", ErrNameNotFound, id)
	}
	return f.Name, nil
}

func (c *Catalog) Delete(ctx context.Context, id string) error {
	if err := c.remote.Delete(ctx, id); err != nil {
		return &DeleteError{ID: id, Err: err}
	}
	return nil
}

// FindName scans a listing for id. The first match wins.
func FindName(files []RemoteFile, id string) (string, error) {
	for _, f := range files {
		if f.ID == id {
			return f.Name, nil
		}
	}
	return "", fmt.Errorf("%w: %s not in listing", ErrNameNotFound, id)
}
