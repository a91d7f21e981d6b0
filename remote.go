package gdrive

import (
	"context"
	"io"
)

//go:generate mockgen -source=remote.go -destination=mocks/mock_remote.go -package=mocks

// ChunkFunc is called after every transferred chunk with the cumulative byte count.
type ChunkFunc func(transferred int64)

// Remote is the capability set the transfer engine and the catalog need from a
// storage backend. GDrive talks to Google Drive; Memory keeps everything in process.
type Remote interface {
	List(ctx context.Context, pageSize int64, pageToken string) (*FilePage, error)
	GetFile(ctx context.Context, id string) (*RemoteFile, error)
	GetSize(ctx context.Context, id string) (int64, error)
	DownloadChunked(ctx context.Context, id string, size, chunkSize int64, w io.Writer, onChunk ChunkFunc) error
	UploadChunked(ctx context.Context, file *RemoteFile, r io.Reader, chunkSize int64, onChunk ChunkFunc) (*RemoteFile, error)
	Delete(ctx context.Context, id string) error
}
