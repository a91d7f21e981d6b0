package gdrive

import (
	"time"

	"golang.org/x/oauth2"
)

// RemoteFile is a read-only view of a file stored on the drive.
type RemoteFile struct {
	ID       string
	Name     string
	Size     int64 // in bytes
	MimeType string
}

type FilePage struct {
	Files         []RemoteFile
	NextPageToken string
}

// Credential is what gets persisted in the token file.
type Credential struct {
	Token  *oauth2.Token `json:"token"`
	Scopes []string      `json:"scopes,omitempty"`
}

type Direction int

const (
	DirectionDownload Direction = iota + 1
	DirectionUpload
)

func (d Direction) String() string {
	switch d {
	case DirectionDownload:
		return "download"
	case DirectionUpload:
		return "upload"
	default:
		return "unknown"
	}
}

// TransferStatus is recomputed after every chunk and never stored.
type TransferStatus struct {
	BytesTransferred int64
	TotalBytes       int64
	Elapsed          time.Duration
}

// Speed returns the average throughput in bytes per second, 0 when no time has elapsed.
func (s TransferStatus) Speed() float64 {
	secs := s.Elapsed.Seconds()
	if secs <= 0 {
		return 0
	}
	return float64(s.BytesTransferred) / secs
}

// Remaining returns the estimated seconds left, 0 when the speed is unknown.
func (s TransferStatus) Remaining() float64 {
	speed := s.Speed()
	if speed <= 0 {
		return 0
	}
	left := s.TotalBytes - s.BytesTransferred
	if left < 0 {
		left = 0
	}
	return float64(left) / speed
}

func (s TransferStatus) Percent() int {
	if s.TotalBytes <= 0 {
		return 100
	}
	return int(s.BytesTransferred * 100 / s.TotalBytes)
}

type DownloadResult struct {
	File   RemoteFile
	Path   string
	Status TransferStatus
}

type UploadResult struct {
	File      RemoteFile
	LocalPath string
	Status    TransferStatus
	TotalTime time.Duration // including the local stat and mime lookup
}
