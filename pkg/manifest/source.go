package manifest

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Source loads a manifest from wherever the upstream pipeline dropped it.
// The renderer itself only consumes in-memory manifests; sources exist for
// hosts and tooling that pull payloads before rendering.
type Source interface {
	// Load fetches and parses the manifest.
	Load(ctx context.Context) (*Manifest, error)
}

// FileSource loads a manifest from a local JSON file.
type FileSource struct {
	// Path is the filesystem path to the manifest JSON.
	Path string
}

// Load reads and parses the file.
func (s *FileSource) Load(ctx context.Context) (*Manifest, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("manifest: read %s: %w", s.Path, err)
	}
	return Parse(data)
}

// HTTPSource loads a manifest over HTTP.
type HTTPSource struct {
	// URL is the manifest endpoint.
	URL string

	// Client is the HTTP client to use. Defaults to a client with a
	// 30-second timeout.
	Client *http.Client
}

// Load fetches and parses the manifest from the endpoint.
func (s *HTTPSource) Load(ctx context.Context) (*Manifest, error) {
	client := s.Client
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("manifest: request %s: %w", s.URL, err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("manifest: fetch %s: %w", s.URL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("manifest: fetch %s: status %d", s.URL, resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("manifest: fetch %s: %w", s.URL, err)
	}
	return Parse(data)
}

// S3Source loads a manifest from an S3 object.
//
// The client is injected so callers control credentials and region:
//
//	cfg, _ := config.LoadDefaultConfig(ctx)
//	src := &manifest.S3Source{
//	    Client: s3.NewFromConfig(cfg),
//	    Bucket: "pipeline-output",
//	    Key:    "manifests/latest.json",
//	}
type S3Source struct {
	Client *s3.Client
	Bucket string
	Key    string
}

// Load fetches and parses the object.
func (s *S3Source) Load(ctx context.Context) (*Manifest, error) {
	out, err := s.Client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.Bucket),
		Key:    aws.String(s.Key),
	})
	if err != nil {
		return nil, fmt.Errorf("manifest: s3 get s3://%s/%s: %w", s.Bucket, s.Key, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("manifest: s3 read s3://%s/%s: %w", s.Bucket, s.Key, err)
	}
	return Parse(data)
}
