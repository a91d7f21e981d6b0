// Package shell implements the numbered menu loop of the gdrive CLI.
package shell

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/sirupsen/logrus"

	"github.com/apinprastya/gdrive"
)

const menu = "Enter your choice:\n1. Download file \n2. Upload File \n3. Delete File \n4. List file \n5. Exit\n"

const (
	choiceDownload = iota + 1
	choiceUpload
	choiceDelete
	choiceList
	choiceExit
)

// Transfers is the part of *gdrive.Transfer the shell uses.
type Transfers interface {
	Download(ctx context.Context, id string, folderPath string) (*gdrive.DownloadResult, error)
	Upload(ctx context.Context, filePath string) (*gdrive.UploadResult, error)
}

// Catalog is the part of *gdrive.Catalog the shell uses.
type Catalog interface {
	List(ctx context.Context) ([]gdrive.RemoteFile, error)
	Delete(ctx context.Context, id string) error
}

type Options struct {
	Color bool
	// DownloadDir is used when the user leaves the folder prompt empty.
	DownloadDir string
}

type Shell struct {
	scanner   *bufio.Scanner
	scanErr   error
	out       io.Writer
	transfers Transfers
	catalog   Catalog
	opts      Options

	ok   *color.Color
	fail *color.Color
	id   *color.Color
}

func New(in io.Reader, out io.Writer, transfers Transfers, catalog Catalog, opts Options) *Shell {
	s := &Shell{
		scanner:   bufio.NewScanner(in),
		out:       out,
		transfers: transfers,
		catalog:   catalog,
		opts:      opts,
		ok:        color.New(color.FgGreen),
		fail:      color.New(color.FgRed),
		id:        color.New(color.FgCyan),
	}
	for _, c := range []*color.Color{s.ok, s.fail, s.id} {
		if opts.Color {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return s
}

// Run shows the menu until the user picks Exit, the input ends or ctx is
// canceled. Failed operations are reported and the loop goes on.
func (s *Shell) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	lines := s.readLines(ctx)

	err := s.loop(ctx, lines)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

func (s *Shell) loop(ctx context.Context, lines <-chan string) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		choice, err := s.readChoice(ctx, lines)
		if err != nil {
			return err
		}

		switch choice {
		case choiceDownload:
			id, err := s.prompt(ctx, lines, "Enter file id: ")
			if err != nil {
				return err
			}
			folder, err := s.prompt(ctx, lines, "Enter folder path: ")
			if err != nil {
				return err
			}
			s.download(ctx, id, folder)
		case choiceUpload:
			path, err := s.prompt(ctx, lines, "Enter full file path: ")
			if err != nil {
				return err
			}
			s.upload(ctx, path)
		case choiceDelete:
			id, err := s.prompt(ctx, lines, "Enter file id: ")
			if err != nil {
				return err
			}
			s.delete(ctx, id)
		case choiceList:
			s.list(ctx)
		case choiceExit:
			return nil
		}
	}
}

// readLines scans the input in the background so a blocked read never holds
// up cancellation. The channel is closed when the input ends.
func (s *Shell) readLines(ctx context.Context) <-chan string {
	lines := make(chan string)
	go func() {
		defer close(lines)
		for s.scanner.Scan() {
			select {
			case lines <- s.scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		s.scanErr = s.scanner.Err()
	}()
	return lines
}

// next returns the next trimmed input line, io.EOF at the end of the input or
// the context error once ctx is done.
func (s *Shell) next(ctx context.Context, lines <-chan string) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case line, ok := <-lines:
		if !ok {
			if s.scanErr != nil {
				return "", s.scanErr
			}
			return "", io.EOF
		}
		return strings.TrimSpace(line), nil
	}
}

// readChoice re-prompts until a valid menu number is entered.
func (s *Shell) readChoice(ctx context.Context, lines <-chan string) (int, error) {
	for {
		fmt.Fprint(s.out, menu)
		line, err := s.next(ctx, lines)
		if err != nil {
			return 0, err
		}
		choice, err := strconv.Atoi(line)
		if err == nil && choice >= choiceDownload && choice <= choiceExit {
			return choice, nil
		}
		s.fail.Fprintln(s.out, "Invalid choice. Please try again.")
	}
}

func (s *Shell) prompt(ctx context.Context, lines <-chan string, label string) (string, error) {
	fmt.Fprint(s.out, label)
	return s.next(ctx, lines)
}

func (s *Shell) download(ctx context.Context, id, folder string) {
	if folder == "" {
		folder = s.opts.DownloadDir
	}
	res, err := s.transfers.Download(ctx, id, folder)
	if err != nil {
		logrus.WithError(err).WithField("id", id).Error("download failed")
		s.fail.Fprintln(s.out, downloadFailureMessage(err))
		return
	}
	s.ok.Fprintf(s.out, "File Downloaded: %s (%s)\n", res.Path, humanize.Bytes(uint64(res.File.Size)))
}

func (s *Shell) upload(ctx context.Context, path string) {
	res, err := s.transfers.Upload(ctx, path)
	if err != nil {
		s.fail.Fprintln(s.out, err.Error())
		return
	}
	fmt.Fprintf(s.out, "Total time taken: %.2f sec\n", res.TotalTime.Seconds())
	s.ok.Fprintf(s.out, "File uploaded with id %s\n", res.File.ID)
}

func (s *Shell) delete(ctx context.Context, id string) {
	if err := s.catalog.Delete(ctx, id); err != nil {
		s.fail.Fprintln(s.out, err.Error())
		return
	}
	s.ok.Fprintln(s.out, "File deleted successfully.")
}

func (s *Shell) list(ctx context.Context) {
	files, err := s.catalog.List(ctx)
	if err != nil {
		s.fail.Fprintln(s.out, err.Error())
		return
	}
	fmt.Fprint(s.out, "Here's a list of files: \n\n")
	for _, f := range files {
		s.id.Fprint(s.out, f.ID)
		fmt.Fprintf(s.out, "  %s  %s\n", f.Name, humanize.Bytes(uint64(f.Size)))
	}
	fmt.Fprintln(s.out)
}

// downloadFailureMessage keeps the user-facing text short; the full error is logged.
func downloadFailureMessage(err error) string {
	switch {
	case gdrive.IsDownloadKind(err, gdrive.DownloadNameResolution):
		return "Something went wrong: the file name could not be resolved."
	case gdrive.IsDownloadKind(err, gdrive.DownloadFilesystem):
		return "Something went wrong: the file could not be written."
	case gdrive.IsDownloadKind(err, gdrive.DownloadNetwork):
		return "Something went wrong: the file could not be fetched."
	default:
		return "Something went wrong."
	}
}
