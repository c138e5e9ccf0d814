// Command analyze submits a single local file to the analysis service and
// prints the result.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/file-analyzer/backend/internal/analysis"
	"github.com/file-analyzer/backend/internal/config"
	"github.com/file-analyzer/backend/internal/encoder"
	"github.com/file-analyzer/backend/internal/models"
	"github.com/file-analyzer/backend/internal/storage"
	"github.com/file-analyzer/backend/internal/submission"
)

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("analyze", flag.ContinueOnError)
	endpoint := fs.String("endpoint", envOr("ANALYSIS_ENDPOINT", config.DefaultAnalysisEndpoint), "analysis endpoint URL")
	mimeType := fs.String("type", "", "MIME type of the file (detected when empty)")
	timeout := fs.Duration("timeout", 60*time.Second, "request timeout")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.New("usage: analyze [-endpoint url] [-type mime] [-timeout d] <file>")
	}

	file, err := openFile(fs.Arg(0), *mimeType)
	if err != nil {
		return err
	}

	cfg := submission.Config{
		Encoder:  encoder.New(),
		Analyzer: analysis.NewClient(*timeout),
		Endpoint: *endpoint,
		Timeout:  *timeout,
	}
	result, err := submission.Run(ctx, cfg, file)
	if err != nil {
		return errors.New(submission.UserMessage(err))
	}

	fmt.Fprintf(out, "File Type: %s\n", result.FileType)
	fmt.Fprintf(out, "Summary: %s\n", result.Summary)
	return nil
}

// openFile builds a handle for a local path, detecting the MIME type from the
// extension and then the leading bytes.
func openFile(path, mimeType string) (*models.FileHandle, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("cannot access %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}

	if mimeType == "" {
		mimeType = mime.TypeByExtension(filepath.Ext(path))
	}
	if mimeType == "" {
		mimeType, err = sniff(path)
		if err != nil {
			return nil, err
		}
	}

	return &models.FileHandle{
		Name:     filepath.Base(path),
		MimeType: mimeType,
		Size:     info.Size(),
		Source:   storage.PathSource(path),
	}, nil
}

func sniff(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	buf := make([]byte, 512)
	n, err := io.ReadFull(f, buf)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", err
	}
	return http.DetectContentType(buf[:n]), nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
