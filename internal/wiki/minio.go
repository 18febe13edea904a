package wiki

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/gogotex/pingbot/internal/config"
)

// MinIOBackend stores each page as a JSON object "<community>/<name>.json" in one bucket.
type MinIOBackend struct {
	client *minio.Client
	bucket string
}

// NewMinIOBackend creates the client and ensures the bucket exists.
func NewMinIOBackend(cfg config.MinIOConfig) (*MinIOBackend, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("minio config missing")
	}
	mc, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("minio new: %w", err)
	}
	b := &MinIOBackend{client: mc, bucket: cfg.Bucket}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := mc.MakeBucket(ctx, b.bucket, minio.MakeBucketOptions{}); err != nil {
		exist, xerr := mc.BucketExists(ctx, b.bucket)
		if xerr != nil || !exist {
			return nil, fmt.Errorf("minio bucket ensure: %w", err)
		}
	}
	return b, nil
}

func objectKey(community, name string) string {
	return community + "/" + name + ".json"
}

func isNoSuchKey(err error) bool {
	return minio.ToErrorResponse(err).Code == "NoSuchKey"
}

func (m *MinIOBackend) GetPage(ctx context.Context, community, name string) (*Page, error) {
	obj, err := m.client.GetObject(ctx, m.bucket, objectKey(community, name), minio.GetObjectOptions{})
	if err != nil {
		if isNoSuchKey(err) {
			return nil, ErrPageNotFound
		}
		return nil, err
	}
	defer obj.Close()
	b, err := io.ReadAll(obj)
	if err != nil {
		if isNoSuchKey(err) {
			return nil, ErrPageNotFound
		}
		return nil, err
	}
	var p Page
	if err := json.Unmarshal(b, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (m *MinIOBackend) CreatePage(ctx context.Context, community, name, content, reason string) error {
	if _, err := m.client.StatObject(ctx, m.bucket, objectKey(community, name), minio.StatObjectOptions{}); err == nil {
		return ErrPageExists
	} else if !isNoSuchKey(err) {
		return err
	}
	now := time.Now().UTC()
	return m.put(ctx, &Page{
		Community:  community,
		Name:       name,
		Content:    content,
		Listed:     true,
		Permission: PermissionDefault,
		Reason:     reason,
		CreatedAt:  now,
		UpdatedAt:  now,
	})
}

func (m *MinIOBackend) UpdatePageSettings(ctx context.Context, community, name string, listed bool, perm Permission) error {
	p, err := m.GetPage(ctx, community, name)
	if err != nil {
		return err
	}
	p.Listed = listed
	p.Permission = perm
	return m.put(ctx, p)
}

func (m *MinIOBackend) UpdatePage(ctx context.Context, community, name, content, reason string) error {
	p, err := m.GetPage(ctx, community, name)
	if err != nil {
		return err
	}
	p.Content = content
	p.Reason = reason
	p.UpdatedAt = time.Now().UTC()
	return m.put(ctx, p)
}

func (m *MinIOBackend) put(ctx context.Context, p *Page) error {
	b, err := json.Marshal(p)
	if err != nil {
		return err
	}
	_, err = m.client.PutObject(ctx, m.bucket, objectKey(p.Community, p.Name), bytes.NewReader(b), int64(len(b)),
		minio.PutObjectOptions{ContentType: "application/json"})
	return err
}
