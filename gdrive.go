package gdrive

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

const fileFields = "id, name, size, mimeType"

type GDrive struct {
	httpClient   *http.Client
	driveService *drive.Service
}

// New binds a token source to a Drive v3 service.
func New(ctx context.Context, ts oauth2.TokenSource) (*GDrive, error) {
	httpClient := oauth2.NewClient(ctx, ts)
	driveService, err := drive.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, err
	}
	return &GDrive{
		httpClient:   httpClient,
		driveService: driveService,
	}, nil
}

// NewWithService wraps an already configured service, e.g. one pointed at a
// custom endpoint.
func NewWithService(driveService *drive.Service) *GDrive {
	return &GDrive{driveService: driveService}
}

func (g *GDrive) List(ctx context.Context, pageSize int64, pageToken string) (*FilePage, error) {
	call := g.driveService.Files.List().
		Context(ctx).
		PageSize(pageSize).
		Fields("nextPageToken, files(" + fileFields + ")")
	if pageToken != "" {
		call = call.PageToken(pageToken)
	}
	res, err := call.Do()
	if err != nil {
		return nil, newAPIError("list", err)
	}
	page := &FilePage{
		Files:         make([]RemoteFile, 0, len(res.Files)),
		NextPageToken: res.NextPageToken,
	}
	for _, f := range res.Files {
		page.Files = append(page.Files, toRemoteFile(f))
	}
	return page, nil
}

// GetMetadata returns the requested fields of a file as a generic map, the way
// the REST API reports them (size is a decimal string).
func (g *GDrive) GetMetadata(ctx context.Context, id string, fields string) (map[string]any, error) {
	res, err := g.driveService.Files.Get(id).
		Context(ctx).
		Fields(googleapi.Field(fields)).
		Do()
	if err != nil {
		return nil, newAPIError("get metadata", err)
	}
	b, err := res.MarshalJSON()
	if err != nil {
		return nil, &APIError{Op: "get metadata", Err: err}
	}
	meta := map[string]any{}
	if err := json.Unmarshal(b, &meta); err != nil {
		return nil, &APIError{Op: "get metadata", Err: err}
	}
	return meta, nil
}

func (g *GDrive) GetFile(ctx context.Context, id string) (*RemoteFile, error) {
	res, err := g.driveService.Files.Get(id).
		Context(ctx).
		Fields(fileFields).
		Do()
	if err != nil {
		return nil, newAPIError("get", err)
	}
	f := toRemoteFile(res)
	return &f, nil
}

func (g *GDrive) GetSize(ctx context.Context, id string) (int64, error) {
	meta, err := g.GetMetadata(ctx, id, "size")
	if err != nil {
		return 0, err
	}
	// folders and google docs have no size
	raw, ok := meta["size"].(string)
	if !ok {
		return 0, nil
	}
	size, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, &APIError{Op: "get size", Err: err}
	}
	return size, nil
}

// GetMedia opens the content of a file. A zero length requests everything from
// offset 0, otherwise the byte range [offset, offset+length) is requested.
func (g *GDrive) GetMedia(ctx context.Context, id string, offset, length int64) (io.ReadCloser, error) {
	call := g.driveService.Files.Get(id).Context(ctx)
	if length > 0 {
		call.Header().Set("Range", fmt.Sprintf("bytes=%d-%d", offset, offset+length-1))
	}
	resp, err := call.Download()
	if err != nil {
		return nil, newAPIError("get media", err)
	}
	return resp.Body, nil
}

func (g *GDrive) DownloadChunked(ctx context.Context, id string, size, chunkSize int64, w io.Writer, onChunk ChunkFunc) error {
	if size == 0 || chunkSize <= 0 {
		body, err := g.GetMedia(ctx, id, 0, 0)
		if err != nil {
			return err
		}
		defer body.Close()
		n, err := io.Copy(w, body)
		if err != nil {
			return &APIError{Op: "download", Err: err}
		}
		onChunk(n)
		return nil
	}

	var offset int64
	for offset < size {
		length := min(chunkSize, size-offset)
		body, err := g.GetMedia(ctx, id, offset, length)
		if err != nil {
			return err
		}
		n, err := io.Copy(w, body)
		body.Close()
		if err != nil {
			return &APIError{Op: "download", Err: err}
		}
		if n == 0 {
			return &APIError{Op: "download", Err: io.ErrUnexpectedEOF}
		}
		offset += n
		logrus.WithField("id", id).WithField("offset", offset).Debug("downloaded chunk")
		onChunk(offset)
	}
	return nil
}

// UploadChunked creates a file with a resumable upload. The SDK reports progress
// after every chunk it sends; content smaller than one chunk goes out in a single
// request without progress callbacks.
func (g *GDrive) UploadChunked(ctx context.Context, file *RemoteFile, r io.Reader, chunkSize int64, onChunk ChunkFunc) (*RemoteFile, error) {
	opts := []googleapi.MediaOption{googleapi.ChunkSize(int(chunkSize))}
	if file.MimeType != "" {
		opts = append(opts, googleapi.ContentType(file.MimeType))
	}
	res, err := g.driveService.Files.Create(
		&drive.File{
			Name:     file.Name,
			MimeType: file.MimeType,
		}).
		Context(ctx).
		Fields(fileFields).
		Media(r, opts...).
		ProgressUpdater(func(current, total int64) {
			onChunk(current)
		}).
		Do()
	if err != nil {
		return nil, newAPIError("upload", err)
	}
	f := toRemoteFile(res)
	return &f, nil
}

// Create uploads content in a single request and returns the new file id.
func (g *GDrive) Create(ctx context.Context, file *RemoteFile, r io.Reader) (string, error) {
	opts := []googleapi.MediaOption{googleapi.ChunkSize(0)}
	if file.MimeType != "" {
		opts = append(opts, googleapi.ContentType(file.MimeType))
	}
	res, err := g.driveService.Files.Create(
		&drive.File{
			Name:     file.Name,
			MimeType: file.MimeType,
		}).
		Context(ctx).
		Fields("id").
		Media(r, opts...).
		Do()
	if err != nil {
		return "", newAPIError("create", err)
	}
	return res.Id, nil
}

func (g *GDrive) Delete(ctx context.Context, id string) error {
	err := g.driveService.Files.Delete(id).Context(ctx).Do()
	if err != nil {
		return newAPIError("delete", err)
	}
	return nil
}

func toRemoteFile(f *drive.File) RemoteFile {
	return RemoteFile{
		ID:       f.Id,
		Name:     f.Name,
		Size:     f.Size,
		MimeType: f.MimeType,
	}
}

// IsNotFound reports whether err was caused by a missing remote file.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
