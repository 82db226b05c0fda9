// Package drive fetches the health workbook from Google Drive.
package drive

import (
	"context"
	"io"
	"time"

	"github.com/healthmetrics/healthmcp/internal/healthdata"
	"github.com/pkg/errors"
	drive "google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
)

// DefaultTimeout bounds a single Drive call when none is configured.
const DefaultTimeout = 60 * time.Second

// Config identifies the remote file and how to reach it.
type Config struct {
	FileID          string
	CredentialsPath string
	Timeout         time.Duration
}

// Client downloads one configured file.
type Client struct {
	files   *drive.FilesService
	fileID  string
	timeout time.Duration
}

// New creates a read-only Drive client authenticated with the
// service-account credentials file.
func New(ctx context.Context, cfg Config) (*Client, error) {
	return NewWithOptions(ctx, cfg.FileID, cfg.Timeout,
		option.WithCredentialsFile(cfg.CredentialsPath),
		option.WithScopes(drive.DriveReadonlyScope),
	)
}

// NewWithOptions creates a Client with explicit client options.
func NewWithOptions(ctx context.Context, fileID string, timeout time.Duration, opts ...option.ClientOption) (*Client, error) {
	svc, err := drive.NewService(ctx, opts...)
	if err != nil {
		return nil, &healthdata.AcquisitionError{Op: "create Google Drive client", Err: err}
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{files: svc.Files, fileID: fileID, timeout: timeout}, nil
}

// Download returns the raw bytes of the configured file.
func (c *Client) Download(ctx context.Context) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.files.Get(c.fileID).SupportsAllDrives(true).Context(ctx).Download()
	if err != nil {
		return nil, &healthdata.AcquisitionError{Op: "download file from Google Drive", Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &healthdata.AcquisitionError{
			Op:  "download file from Google Drive",
			Err: errors.Wrap(err, "reading response body"),
		}
	}
	return data, nil
}

// Metadata returns the name, last-modified time and size of the file.
func (c *Client) Metadata(ctx context.Context) (*healthdata.SourceMetadata, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	f, err := c.files.Get(c.fileID).
		SupportsAllDrives(true).
		Fields("name", "modifiedTime", "size").
		Context(ctx).
		Do()
	if err != nil {
		return nil, &healthdata.AcquisitionError{Op: "get file info", Err: err}
	}
	return &healthdata.SourceMetadata{
		Name:         f.Name,
		ModifiedTime: f.ModifiedTime,
		Size:         f.Size,
	}, nil
}
