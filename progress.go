package gdrive

import (
	"fmt"
	"io"
)

// NewConsoleProgress prints one progress report per chunk to w.
func NewConsoleProgress(w io.Writer) ProgressFunc {
	return func(dir Direction, s TransferStatus) {
		switch dir {
		case DirectionDownload:
			fmt.Fprintf(w, "Downloaded %d bytes out of %d bytes. Download Speed: %.2f bytes/sec\n",
				s.BytesTransferred, s.TotalBytes, s.Speed())
			fmt.Fprintf(w, "Download %d%%. Estimated time remaining: %.2f sec\n", s.Percent(), s.Remaining())
		case DirectionUpload:
			fmt.Fprintf(w, "Uploaded %d bytes out of %d bytes. Upload Speed: %.2f bytes/sec. Estimated time remaining: %.2f sec\n",
				s.BytesTransferred, s.TotalBytes, s.Speed(), s.Remaining())
			fmt.Fprintf(w, "Upload %d%% complete.\n", s.Percent())
		}
	}
}
