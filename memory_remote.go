package gdrive

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strconv"
	"sync"

	"github.com/google/uuid"
	"gopkg.in/typ.v4/slices"
)

type memoryFile struct {
	info RemoteFile
	data []byte
}

// Memory is an in-process Remote. Files keep their insertion order.
type Memory struct {
	mut  sync.Mutex
	data []memoryFile
}

func NewMemoryRemote() *Memory {
	return &Memory{
		mut:  sync.Mutex{},
		data: []memoryFile{},
	}
}

// Put stores content under a fresh id and returns it.
func (m *Memory) Put(name string, content []byte) string {
	m.mut.Lock()
	defer m.mut.Unlock()

	id := uuid.NewString()
	m.data = append(m.data, memoryFile{
		info: RemoteFile{ID: id, Name: name, Size: int64(len(content))},
		data: append([]byte(nil), content...),
	})
	return id
}

func (m *Memory) List(ctx context.Context, pageSize int64, pageToken string) (*FilePage, error) {
	m.mut.Lock()
	defer m.mut.Unlock()

	start := 0
	if pageToken != "" {
		n, err := strconv.Atoi(pageToken)
		if err != nil || n < 0 {
			return nil, &APIError{Op: "list", Err: fmt.Errorf("invalid page token %q", pageToken)}
		}
		start = n
	}
	page := &FilePage{Files: []RemoteFile{}}
	for i := start; i < len(m.data); i++ {
		if int64(len(page.Files)) >= pageSize {
			page.NextPageToken = strconv.Itoa(i)
			break
		}
		page.Files = append(page.Files, m.data[i].info)
	}
	return page, nil
}

func (m *Memory) GetFile(ctx context.Context, id string) (*RemoteFile, error) {
	m.mut.Lock()
	defer m.mut.Unlock()

	idx := m.indexOf(id)
	if idx < 0 {
		return nil, &APIError{Op: "get", Err: ErrNotFound}
	}
	info := m.data[idx].info
	return &info, nil
}

func (m *Memory) GetSize(ctx context.Context, id string) (int64, error) {
	f, err := m.GetFile(ctx, id)
	if err != nil {
		return 0, err
	}
	return f.Size, nil
}

func (m *Memory) DownloadChunked(ctx context.Context, id string, size, chunkSize int64, w io.Writer, onChunk ChunkFunc) error {
	m.mut.Lock()
	idx := m.indexOf(id)
	var content []byte
	if idx >= 0 {
		content = m.data[idx].data
	}
	m.mut.Unlock()
	if idx < 0 {
		return &APIError{Op: "download", Err: ErrNotFound}
	}

	if len(content) == 0 || chunkSize <= 0 {
		if _, err := w.Write(content); err != nil {
			return &APIError{Op: "download", Err: err}
		}
		onChunk(int64(len(content)))
		return nil
	}
	var offset int64
	for offset < int64(len(content)) {
		if err := ctx.Err(); err != nil {
			return &APIError{Op: "download", Err: err}
		}
		end := min(offset+chunkSize, int64(len(content)))
		if _, err := w.Write(content[offset:end]); err != nil {
			return &APIError{Op: "download", Err: err}
		}
		offset = end
		onChunk(offset)
	}
	return nil
}

func (m *Memory) UploadChunked(ctx context.Context, file *RemoteFile, r io.Reader, chunkSize int64, onChunk ChunkFunc) (*RemoteFile, error) {
	buf := &bytes.Buffer{}
	if chunkSize <= 0 {
		if _, err := io.Copy(buf, r); err != nil {
			return nil, &APIError{Op: "upload", Err: err}
		}
	} else {
		for {
			if err := ctx.Err(); err != nil {
				return nil, &APIError{Op: "upload", Err: err}
			}
			n, err := io.CopyN(buf, r, chunkSize)
			if n > 0 {
				onChunk(int64(buf.Len()))
			}
			if err == io.EOF {
				break
			}
			if err != nil {
				return nil, &APIError{Op: "upload", Err: err}
			}
		}
	}

	m.mut.Lock()
	defer m.mut.Unlock()
	info := RemoteFile{ID: uuid.NewString(), Name: file.Name, Size: int64(buf.Len()), MimeType: file.MimeType}
	m.data = append(m.data, memoryFile{info: info, data: buf.Bytes()})
	return &info, nil
}

func (m *Memory) Delete(ctx context.Context, id string) error {
	m.mut.Lock()
	defer m.mut.Unlock()

	idx := m.indexOf(id)
	if idx < 0 {
		return &APIError{Op: "delete", Err: ErrNotFound}
	}
	slices.Remove(&m.data, idx)
	return nil
}

func (m *Memory) indexOf(id string) int {
	return slices.IndexFunc(m.data, func(f memoryFile) bool { return f.info.ID == id })
}
