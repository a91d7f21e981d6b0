package gdrive

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/suite"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

type GDriveTestSuite struct {
	suite.Suite
	fake     *fakeDrive
	server   *httptest.Server
	instance *GDrive
}

func (s *GDriveTestSuite) SetupTest() {
	s.fake = &fakeDrive{}
	s.server = httptest.NewServer(s.fake)

	service, err := drive.NewService(context.Background(),
		option.WithEndpoint(s.server.URL+"/"),
		option.WithHTTPClient(s.server.Client()))
	s.Require().NoError(err)
	s.instance = NewWithService(service)
}

func (s *GDriveTestSuite) TearDownTest() {
	s.server.Close()
}

func (s *GDriveTestSuite) TestList() {
	for i := 0; i < 150; i++ {
		s.fake.add(fmt.Sprintf("file-%d.txt", i), []byte("x"))
	}

	page, err := s.instance.List(context.TODO(), 100, "")
	s.Require().NoError(err)
	s.Require().Len(page.Files, 100)
	s.Require().NotEmpty(page.NextPageToken)
	s.Require().Equal("file-0.txt", page.Files[0].Name)
	s.Require().EqualValues(1, page.Files[0].Size)

	page, err = s.instance.List(context.TODO(), 100, page.NextPageToken)
	s.Require().NoError(err)
	s.Require().Len(page.Files, 50)
	s.Require().Empty(page.NextPageToken)
}

func (s *GDriveTestSuite) TestGetFile() {
	id := s.fake.add("report.pdf", []byte("some pdf bytes"))

	file, err := s.instance.GetFile(context.TODO(), id)
	s.Require().NoError(err)
	s.Require().Equal(id, file.ID)
	s.Require().Equal("report.pdf", file.Name)
	s.Require().EqualValues(14, file.Size)

	size, err := s.instance.GetSize(context.TODO(), id)
	s.Require().NoError(err)
	s.Require().EqualValues(14, size)

	meta, err := s.instance.GetMetadata(context.TODO(), id, "size")
	s.Require().NoError(err)
	s.Require().Equal("14", meta["size"])

	s.Run("unknown file", func() {
		_, err := s.instance.GetFile(context.TODO(), "nope")
		s.Require().Error(err)
		s.Require().True(IsNotFound(err))
		var apiErr *APIError
		s.Require().True(errors.As(err, &apiErr))
		s.Require().Equal("get", apiErr.Op)

		_, err = s.instance.GetSize(context.TODO(), "nope")
		s.Require().True(IsNotFound(err))
	})
}

func (s *GDriveTestSuite) TestDownloadChunked() {
	content := []byte("0123456789")
	id := s.fake.add("digits.txt", content)

	buf := &bytes.Buffer{}
	var progress []int64
	err := s.instance.DownloadChunked(context.TODO(), id, int64(len(content)), 3, buf, func(n int64) {
		progress = append(progress, n)
	})
	s.Require().NoError(err)
	s.Require().Equal(content, buf.Bytes())
	s.Require().Equal([]int64{3, 6, 9, 10}, progress)
	s.Require().Equal(4, s.fake.rangeRequests)

	s.Run("empty file", func() {
		id := s.fake.add("empty.txt", nil)
		buf := &bytes.Buffer{}
		var progress []int64
		err := s.instance.DownloadChunked(context.TODO(), id, 0, 3, buf, func(n int64) {
			progress = append(progress, n)
		})
		s.Require().NoError(err)
		s.Require().Zero(buf.Len())
		s.Require().Equal([]int64{0}, progress)
	})

	s.Run("unknown file", func() {
		err := s.instance.DownloadChunked(context.TODO(), "nope", 10, 3, &bytes.Buffer{}, func(int64) {})
		s.Require().True(IsNotFound(err))
	})
}

func (s *GDriveTestSuite) TestUploadChunked() {
	res, err := s.instance.UploadChunked(context.TODO(), &RemoteFile{Name: "notes.txt", MimeType: "text/plain"},
		strings.NewReader("hello drive"), DefaultChunkSize, func(int64) {})
	s.Require().NoError(err)
	s.Require().NotEmpty(res.ID)
	s.Require().Equal("notes.txt", res.Name)
	s.Require().EqualValues(11, res.Size)

	_, stored := s.fake.find(res.ID)
	s.Require().NotNil(stored)
	s.Require().Equal("hello drive", string(stored.data))
	s.Require().Equal("text/plain", stored.MimeType)
	s.Require().Equal(1, s.fake.multipartUploads)
	s.Require().Zero(s.fake.resumableChunks)
}

func (s *GDriveTestSuite) TestUploadChunkedResumable() {
	// two full chunks and a partial one
	content := bytes.Repeat([]byte("0123456789abcdef"), (2*googleapi.MinUploadChunkSize+90000)/16)

	var progress []int64
	res, err := s.instance.UploadChunked(context.TODO(), &RemoteFile{Name: "big.bin", MimeType: "application/octet-stream"},
		bytes.NewReader(content), int64(googleapi.MinUploadChunkSize), func(n int64) {
			progress = append(progress, n)
		})
	s.Require().NoError(err)
	s.Require().Equal("big.bin", res.Name)
	s.Require().EqualValues(len(content), res.Size)

	_, stored := s.fake.find(res.ID)
	s.Require().NotNil(stored)
	s.Require().Equal(content, stored.data)
	s.Require().Equal("application/octet-stream", stored.MimeType)
	s.Require().Equal(3, s.fake.resumableChunks)
	s.Require().Zero(s.fake.multipartUploads)

	s.Require().GreaterOrEqual(len(progress), 2)
	var last int64
	for _, n := range progress {
		s.Require().GreaterOrEqual(n, last)
		s.Require().LessOrEqual(n, int64(len(content)))
		last = n
	}
	s.Require().Greater(last, int64(0))
}

func (s *GDriveTestSuite) TestCreate() {
	id, err := s.instance.Create(context.TODO(), &RemoteFile{Name: "single.txt", MimeType: "text/plain"},
		strings.NewReader("one request"))
	s.Require().NoError(err)
	s.Require().NotEmpty(id)

	_, stored := s.fake.find(id)
	s.Require().NotNil(stored)
	s.Require().Equal("single.txt", stored.Name)
	s.Require().Equal("one request", string(stored.data))
	s.Require().Equal(1, s.fake.multipartUploads)
}

func (s *GDriveTestSuite) TestDelete() {
	keep := s.fake.add("keep.txt", []byte("k"))
	gone := s.fake.add("gone.txt", []byte("g"))

	s.Require().NoError(s.instance.Delete(context.TODO(), gone))

	page, err := s.instance.List(context.TODO(), DefaultPageSize, "")
	s.Require().NoError(err)
	s.Require().Len(page.Files, 1)
	s.Require().Equal(keep, page.Files[0].ID)

	err = s.instance.Delete(context.TODO(), gone)
	s.Require().True(IsNotFound(err))
}

func (s *GDriveTestSuite) TestRoundTrip() {
	dir := s.T().TempDir()
	src := filepath.Join(dir, "photo.png")
	content := bytes.Repeat([]byte("png-bytes-"), 100)
	s.Require().NoError(os.WriteFile(src, content, 0o644))

	catalog := NewCatalog(s.instance, DefaultPageSize)
	transfer := NewTransfer(s.instance, catalog, &TransferConfig{ChunkSize: 128})

	up, err := transfer.Upload(context.TODO(), src)
	s.Require().NoError(err)
	s.Require().Equal("image/png", up.File.MimeType)

	down, err := transfer.Download(context.TODO(), up.File.ID, filepath.Join(dir, "downloaded"))
	s.Require().NoError(err)
	s.Require().Equal(filepath.Join(dir, "downloaded", "photo.png"), down.Path)

	got, err := os.ReadFile(down.Path)
	s.Require().NoError(err)
	s.Require().Equal(content, got)
	s.Require().Equal(8, s.fake.rangeRequests)
}

func TestGDrive(t *testing.T) {
	suite.Run(t, new(GDriveTestSuite))
}
