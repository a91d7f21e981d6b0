package gdrive

import (
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"sync"
)

type fakeFile struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	MimeType string `json:"mimeType,omitempty"`
	data     []byte
}

// fakeDrive serves the small part of the Drive v3 REST surface the client uses.
type fakeDrive struct {
	mu               sync.Mutex
	files            []*fakeFile
	sessions         map[string]*fakeFile
	nextID           int
	rangeRequests    int
	mediaRequests    int
	multipartUploads int
	resumableChunks  int
}

func (f *fakeDrive) add(name string, data []byte) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	id := fmt.Sprintf("file-%03d", f.nextID)
	f.files = append(f.files, &fakeFile{ID: id, Name: name, data: data})
	return id
}

func (f *fakeDrive) find(id string) (int, *fakeFile) {
	for i, file := range f.files {
		if file.ID == id {
			return i, file
		}
	}
	return -1, nil
}

func (f *fakeDrive) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	path := strings.TrimPrefix(r.URL.Path, "/drive/v3")
	switch {
	case r.URL.Query().Get("upload_id") != "":
		f.uploadChunk(w, r)
	case r.Method == http.MethodPost && r.URL.Query().Get("uploadType") == "resumable":
		f.startSession(w, r)
	case r.Method == http.MethodPost && r.URL.Query().Get("uploadType") != "":
		f.upload(w, r)
	case r.Method == http.MethodGet && path == "/files":
		f.list(w, r)
	case strings.HasPrefix(path, "/files/"):
		id := strings.TrimPrefix(path, "/files/")
		idx, file := f.find(id)
		if file == nil {
			writeError(w, http.StatusNotFound, "File not found: "+id)
			return
		}
		switch {
		case r.Method == http.MethodDelete:
			f.files = append(f.files[:idx], f.files[idx+1:]...)
			w.WriteHeader(http.StatusNoContent)
		case r.Method == http.MethodGet && r.URL.Query().Get("alt") == "media":
			f.media(w, r, file)
		case r.Method == http.MethodGet:
			writeJSON(w, fileJSON(file))
		default:
			writeError(w, http.StatusMethodNotAllowed, "unsupported")
		}
	default:
		writeError(w, http.StatusNotFound, "unknown path "+r.URL.Path)
	}
}

func (f *fakeDrive) list(w http.ResponseWriter, r *http.Request) {
	pageSize, err := strconv.Atoi(r.URL.Query().Get("pageSize"))
	if err != nil || pageSize <= 0 {
		pageSize = 100
	}
	start, _ := strconv.Atoi(r.URL.Query().Get("pageToken"))
	end := min(start+pageSize, len(f.files))

	files := []map[string]any{}
	for _, file := range f.files[start:end] {
		files = append(files, fileJSON(file))
	}
	res := map[string]any{"files": files}
	if end < len(f.files) {
		res["nextPageToken"] = strconv.Itoa(end)
	}
	writeJSON(w, res)
}

func (f *fakeDrive) media(w http.ResponseWriter, r *http.Request, file *fakeFile) {
	f.mediaRequests++
	rng := r.Header.Get("Range")
	if rng == "" {
		w.Write(file.data)
		return
	}
	f.rangeRequests++
	var from, to int
	if _, err := fmt.Sscanf(rng, "bytes=%d-%d", &from, &to); err != nil || from >= len(file.data) {
		writeError(w, http.StatusRequestedRangeNotSatisfiable, "bad range")
		return
	}
	to = min(to, len(file.data)-1)
	w.Header().Set("Content-Range", fmt.Sprintf("bytes %d-%d/%d", from, to, len(file.data)))
	w.WriteHeader(http.StatusPartialContent)
	w.Write(file.data[from : to+1])
}

func (f *fakeDrive) upload(w http.ResponseWriter, r *http.Request) {
	_, params, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	mr := multipart.NewReader(r.Body, params["boundary"])
	meta, err := mr.NextPart()
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	file := &fakeFile{}
	if err := json.NewDecoder(meta).Decode(file); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	media, err := mr.NextPart()
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	file.data, err = io.ReadAll(media)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	f.multipartUploads++
	f.store(file)
	writeJSON(w, fileJSON(file))
}

func (f *fakeDrive) store(file *fakeFile) {
	f.nextID++
	file.ID = fmt.Sprintf("file-%03d", f.nextID)
	f.files = append(f.files, file)
}

// startSession opens a resumable upload. The body carries only the metadata.
func (f *fakeDrive) startSession(w http.ResponseWriter, r *http.Request) {
	file := &fakeFile{}
	if err := json.NewDecoder(r.Body).Decode(file); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if f.sessions == nil {
		f.sessions = map[string]*fakeFile{}
	}
	id := strconv.Itoa(len(f.sessions) + 1)
	f.sessions[id] = file
	w.Header().Set("Location", "http://"+r.Host+"/upload/drive/v3/files?uploadType=resumable&upload_id="+id)
	w.WriteHeader(http.StatusOK)
}

// uploadChunk appends one Content-Range chunk to a session. Incomplete uploads
// are answered with 308, or 200 plus a status override when the client asks
// for no 308s.
func (f *fakeDrive) uploadChunk(w http.ResponseWriter, r *http.Request) {
	file, ok := f.sessions[r.URL.Query().Get("upload_id")]
	if !ok {
		writeError(w, http.StatusNotFound, "unknown upload session")
		return
	}
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	// bytes first-last/total, bytes first-last/* or bytes */total
	spec := strings.TrimPrefix(r.Header.Get("Content-Range"), "bytes ")
	span, total, found := strings.Cut(spec, "/")
	if !found {
		writeError(w, http.StatusBadRequest, "bad content range")
		return
	}
	if span != "*" {
		var from, to int
		if _, err := fmt.Sscanf(span, "%d-%d", &from, &to); err != nil || from != len(file.data) || to-from+1 != len(body) {
			writeError(w, http.StatusBadRequest, "unexpected chunk "+span)
			return
		}
		file.data = append(file.data, body...)
		f.resumableChunks++
	}

	if total == "*" {
		w.Header().Set("Range", fmt.Sprintf("bytes=0-%d", len(file.data)-1))
		if r.Header.Get("X-GUploader-No-308") == "yes" {
			w.Header().Set("X-Http-Status-Code-Override", "308")
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusPermanentRedirect)
		return
	}
	delete(f.sessions, r.URL.Query().Get("upload_id"))
	f.store(file)
	writeJSON(w, fileJSON(file))
}

func fileJSON(file *fakeFile) map[string]any {
	m := map[string]any{
		"id":   file.ID,
		"name": file.Name,
		"size": strconv.Itoa(len(file.data)),
	}
	if file.MimeType != "" {
		m["mimeType"] = file.MimeType
	}
	return m
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]any{"code": code, "message": msg},
	})
}
