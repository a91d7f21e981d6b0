package gdrive

import (
	"bytes"
	"context"
	"mime"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
)

// DefaultChunkSize is a multiple of the 256 KiB granularity resumable uploads require.
const DefaultChunkSize = 8 << 20

// ProgressFunc receives the status after every chunk of a transfer.
type ProgressFunc func(dir Direction, status TransferStatus)

type TransferConfig struct {
	ChunkSize int64
	Progress  ProgressFunc
}

// Transfer drives chunked downloads and uploads one at a time.
type Transfer struct {
	remote  Remote
	catalog *Catalog
	config  *TransferConfig
	now     func() time.Time
}

func NewTransfer(remote Remote, catalog *Catalog, config *TransferConfig) *Transfer {
	if config == nil {
		config = &TransferConfig{}
	}
	if config.ChunkSize <= 0 {
		config.ChunkSize = DefaultChunkSize
	}
	return &Transfer{
		remote:  remote,
		catalog: catalog,
		config:  config,
		now:     time.Now,
	}
}

// Download fetches a file into memory chunk by chunk and writes it to
// folderPath/<remote name>. An empty folderPath means the working directory.
// A failed write leaves whatever was written in place.
func (t *Transfer) Download(ctx context.Context, id string, folderPath string) (*DownloadResult, error) {
	size, err := t.remote.GetSize(ctx, id)
	if err != nil {
		return nil, &DownloadError{ID: id, Kind: DownloadNetwork, Err: err}
	}

	buf := &bytes.Buffer{}
	tr := t.newTracker(DirectionDownload, size)
	err = t.remote.DownloadChunked(ctx, id, size, t.config.ChunkSize, buf, tr.observe)
	if err != nil {
		return nil, &DownloadError{ID: id, Kind: DownloadNetwork, Err: err}
	}
	tr.finish(int64(buf.Len()))

	name, err := t.catalog.ResolveName(ctx, id)
	if err != nil {
		kind := DownloadNameResolution
		if !isNameNotFound(err) {
			kind = DownloadNetwork
		}
		return nil, &DownloadError{ID: id, Kind: kind, Err: err}
	}

	if folderPath == "" {
		folderPath, err = os.Getwd()
		if err != nil {
			return nil, &DownloadError{ID: id, Kind: DownloadFilesystem, Err: err}
		}
	}
	if err := os.MkdirAll(folderPath, os.ModePerm); err != nil {
		return nil, &DownloadError{ID: id, Kind: DownloadFilesystem, Err: err}
	}
	target := filepath.Join(folderPath, localName(name, id))
	if err := os.WriteFile(target, buf.Bytes(), 0666); err != nil {
		return nil, &DownloadError{ID: id, Kind: DownloadFilesystem, Err: err}
	}
	logrus.WithField("id", id).WithField("path", target).Debug("file downloaded")

	return &DownloadResult{
		File:   RemoteFile{ID: id, Name: name, Size: size},
		Path:   target,
		Status: tr.status,
	}, nil
}

// Upload sends a local file with a resumable create request. Any failure comes
// back as an UploadError carrying the original message.
func (t *Transfer) Upload(ctx context.Context, filePath string) (*UploadResult, error) {
	start := t.now()
	name := filepath.Base(filePath)

	f, err := os.Open(filePath)
	if err != nil {
		return nil, &UploadError{Path: filePath, Err: err}
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		return nil, &UploadError{Path: filePath, Err: err}
	}
	if info.IsDir() {
		return nil, &UploadError{Path: filePath, Err: errIsDirectory}
	}

	tr := t.newTracker(DirectionUpload, info.Size())
	res, err := t.remote.UploadChunked(ctx, &RemoteFile{
		Name:     name,
		Size:     info.Size(),
		MimeType: guessMimeType(name),
	}, f, t.config.ChunkSize, tr.observe)
	if err != nil {
		return nil, &UploadError{Path: filePath, Err: err}
	}
	tr.finish(info.Size())
	logrus.WithField("id", res.ID).WithField("path", filePath).Debug("file uploaded")

	return &UploadResult{
		File:      *res,
		LocalPath: filePath,
		Status:    tr.status,
		TotalTime: t.now().Sub(start),
	}, nil
}

func (t *Transfer) newTracker(dir Direction, total int64) *tracker {
	return &tracker{
		dir:    dir,
		start:  t.now(),
		now:    t.now,
		report: t.config.Progress,
		status: TransferStatus{TotalBytes: total},
	}
}

// tracker turns raw byte counts into statuses. Reported bytes never decrease
// and never exceed the total.
type tracker struct {
	dir      Direction
	start    time.Time
	now      func() time.Time
	report   ProgressFunc
	status   TransferStatus
	observed bool
}

func (t *tracker) observe(transferred int64) {
	transferred = min(transferred, t.status.TotalBytes)
	transferred = max(transferred, t.status.BytesTransferred)
	t.status.BytesTransferred = transferred
	t.status.Elapsed = t.now().Sub(t.start)
	t.observed = true
	if t.report != nil {
		t.report(t.dir, t.status)
	}
}

// finish makes sure the last reported status covers the whole transfer, even
// when the backend sent everything without chunk callbacks.
func (t *tracker) finish(transferred int64) {
	if !t.observed || t.status.BytesTransferred < min(transferred, t.status.TotalBytes) {
		t.observe(transferred)
	}
}

func guessMimeType(name string) string {
	ext := filepath.Ext(name)
	if ext == "" {
		return ""
	}
	mediaType, _, err := mime.ParseMediaType(mime.TypeByExtension(ext))
	if err != nil {
		return ""
	}
	return mediaType
}

// localName keeps the remote name inside the target folder.
func localName(name, id string) string {
	base := filepath.Base(filepath.FromSlash(name))
	switch base {
	case ".", "..", string(filepath.Separator):
		return id
	}
	return base
}
