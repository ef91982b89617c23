package remote

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Client opens sessions against S3-compatible storage. Folder nodes are
// modeled as key prefixes ending in "/": creating a folder writes a
// zero-byte marker object, listing uses a delimiter so common prefixes show
// up as folders.
type S3Client struct {
	cfg Config
}

// NewS3Client creates a client for S3-compatible storage.
func NewS3Client(cfg Config) *S3Client {
	return &S3Client{cfg: cfg}
}

// Connect authenticates through the standard AWS credential chain and
// returns a working session.
func (c *S3Client) Connect() (Session, error) {
	ctx := context.Background()

	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(c.cfg.Region),
	}
	if c.cfg.AccessKey != "" && c.cfg.SecretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(c.cfg.AccessKey, c.cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	var client *s3.Client
	if c.cfg.Endpoint != "" {
		client = s3.NewFromConfig(awsCfg, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(c.cfg.Endpoint)
			o.UsePathStyle = true // Required for most S3-compatible services
		})
	} else {
		client = s3.NewFromConfig(awsCfg)
	}

	return &s3Session{
		client:     client,
		uploader:   manager.NewUploader(client),
		downloader: manager.NewDownloader(client),
		bucket:     c.cfg.Bucket,
	}, nil
}

type s3Session struct {
	client     *s3.Client
	uploader   *manager.Uploader
	downloader *manager.Downloader
	bucket     string
}

// A folder node's ID is its key prefix with a trailing slash; a file node's
// ID is its full object key.

func isFolderID(id NodeID) bool {
	return id == "" || strings.HasSuffix(string(id), "/")
}

func (s *s3Session) ResolvePath(p string) (NodeID, bool, error) {
	ctx := context.Background()
	p = strings.Trim(p, "/")
	if p == "" {
		return NodeID(""), true, nil
	}

	// Folder first: any key under the prefix means the folder exists.
	prefix := p + "/"
	out, err := s.client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
		Bucket:  aws.String(s.bucket),
		Prefix:  aws.String(prefix),
		MaxKeys: aws.Int32(1),
	})
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve %s: %w", p, err)
	}
	if len(out.Contents) > 0 || len(out.CommonPrefixes) > 0 {
		return NodeID(prefix), true, nil
	}

	_, err = s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(p),
	})
	if err != nil {
		if strings.Contains(err.Error(), "NotFound") || strings.Contains(err.Error(), "404") {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to resolve %s: %w", p, err)
	}
	return NodeID(p), true, nil
}

func (s *s3Session) ListChildren(node NodeID) ([]Node, error) {
	if !isFolderID(node) {
		return nil, fmt.Errorf("not a folder node: %s", node)
	}

	var children []Node

	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket:    aws.String(s.bucket),
		Prefix:    aws.String(string(node)),
		Delimiter: aws.String("/"),
	})

	for paginator.HasMorePages() {
		page, err := paginator.NextPage(context.Background())
		if err != nil {
			return nil, fmt.Errorf("failed to list %s: %w", node, err)
		}

		for _, cp := range page.CommonPrefixes {
			prefix := *cp.Prefix
			children = append(children, Node{
				ID:       NodeID(prefix),
				Name:     path.Base(strings.TrimSuffix(prefix, "/")),
				IsFolder: true,
			})
		}

		for _, obj := range page.Contents {
			key := *obj.Key
			// Skip the folder's own marker object.
			if key == string(node) {
				continue
			}
			created := time.Time{}
			if obj.LastModified != nil {
				created = *obj.LastModified
			}
			children = append(children, Node{
				ID:        NodeID(key),
				Name:      path.Base(key),
				CreatedAt: created,
			})
		}
	}

	return children, nil
}

func (s *s3Session) CreateFolder(parent NodeID, name string) (NodeID, error) {
	if !isFolderID(parent) {
		return "", fmt.Errorf("not a folder node: %s", parent)
	}

	key := string(parent) + name + "/"
	_, err := s.client.PutObject(context.Background(), &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   bytes.NewReader(nil),
	})
	if err != nil {
		return "", fmt.Errorf("failed to create folder %s: %w", key, err)
	}
	return NodeID(key), nil
}

func (s *s3Session) Upload(localFile string, dest NodeID) error {
	if !isFolderID(dest) {
		return fmt.Errorf("not a folder node: %s", dest)
	}

	file, err := os.Open(localFile)
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	key := string(dest) + filepath.Base(localFile)
	_, err = s.uploader.Upload(context.Background(), &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   file,
	})
	if err != nil {
		return fmt.Errorf("failed to upload to S3: %w", err)
	}
	return nil
}

func (s *s3Session) Download(node NodeID, destDir string) error {
	if isFolderID(node) {
		return fmt.Errorf("not a file node: %s", node)
	}

	if err := os.MkdirAll(destDir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	localPath := filepath.Join(destDir, path.Base(string(node)))
	file, err := os.Create(localPath)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	_, err = s.downloader.Download(context.Background(), file, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(string(node)),
	})
	if err != nil {
		os.Remove(localPath) // Clean up partial file
		return fmt.Errorf("failed to download from S3: %w", err)
	}
	return nil
}

func (s *s3Session) Delete(node NodeID) error {
	ctx := context.Background()

	if !isFolderID(node) {
		_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
			Bucket: aws.String(s.bucket),
			Key:    aws.String(string(node)),
		})
		if err != nil {
			return fmt.Errorf("failed to delete %s: %w", node, err)
		}
		return nil
	}

	// Folder: delete everything under the prefix, marker included.
	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(string(node)),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return fmt.Errorf("failed to list %s for deletion: %w", node, err)
		}
		for _, obj := range page.Contents {
			_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
				Bucket: aws.String(s.bucket),
				Key:    obj.Key,
			})
			if err != nil {
				return fmt.Errorf("failed to delete %s: %w", *obj.Key, err)
			}
		}
	}
	return nil
}

func (s *s3Session) Close() error {
	return nil
}
