package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/url"
	"os"
	"strings"

	gcs "cloud.google.com/go/storage"
	"github.com/google/uuid"
)

// Object name prefixes inside the bucket.
const (
	ProfilePhotoPrefix = "profile_photos"
	TaskImagePrefix    = "task_images"
)

var ErrUnrecognizedURL = errors.New("unrecognized storage URL")

// Store wraps the Cloud Storage bucket used for user uploads.
type Store struct {
	bucket     *gcs.BucketHandle
	bucketName string
}

func New(bucket *gcs.BucketHandle, bucketName string) *Store {
	return &Store{bucket: bucket, bucketName: bucketName}
}

// UploadPublic stages the upload through a local temp file, writes it to the
// bucket, makes the object world-readable and returns its public URL. The
// temp file is removed on every exit path.
func (s *Store) UploadPublic(ctx context.Context, objectPath string, r io.Reader) (string, error) {
	tmp, err := os.CreateTemp("", "upload-*")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() {
		if err := os.Remove(tmpPath); err != nil {
			log.Printf("[Storage] Failed to delete temp file %s: %v", tmpPath, err)
		}
	}()

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		return "", fmt.Errorf("failed to stage upload: %w", err)
	}
	if _, err := tmp.Seek(0, io.SeekStart); err != nil {
		tmp.Close()
		return "", fmt.Errorf("failed to rewind temp file: %w", err)
	}

	obj := s.bucket.Object(objectPath)
	w := obj.NewWriter(ctx)
	if _, err := io.Copy(w, tmp); err != nil {
		tmp.Close()
		w.Close()
		return "", fmt.Errorf("failed to upload %s: %w", objectPath, err)
	}
	tmp.Close()
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", objectPath, err)
	}

	if err := obj.ACL().Set(ctx, gcs.AllUsers, gcs.RoleReader); err != nil {
		return "", fmt.Errorf("failed to publish %s: %w", objectPath, err)
	}

	publicURL := fmt.Sprintf("https://storage.googleapis.com/%s/%s", s.bucketName, objectPath)
	log.Printf("[Storage] Uploaded %s", objectPath)
	return publicURL, nil
}

// Delete removes an object from the bucket.
func (s *Store) Delete(ctx context.Context, objectPath string) error {
	return s.bucket.Object(objectPath).Delete(ctx)
}

// DeleteByURL recovers the object path from a previously issued URL and
// deletes the object.
func (s *Store) DeleteByURL(ctx context.Context, rawURL string) error {
	objectPath, err := ObjectPathFromURL(rawURL)
	if err != nil {
		return err
	}
	return s.Delete(ctx, objectPath)
}

// ObjectPathFromURL extracts the bucket object path from either of the two
// URL shapes found on stored documents: the storage-console style
// (".../o/<percent-encoded path>?alt=media") and the public-direct style
// ("https://storage.googleapis.com/<bucket>/<path>").
func ObjectPathFromURL(rawURL string) (string, error) {
	if idx := strings.Index(rawURL, "/o/"); idx != -1 {
		objectPath := rawURL[idx+len("/o/"):]
		if q := strings.IndexByte(objectPath, '?'); q != -1 {
			objectPath = objectPath[:q]
		}
		decoded, err := url.QueryUnescape(objectPath)
		if err != nil {
			return "", fmt.Errorf("%w: %s", ErrUnrecognizedURL, rawURL)
		}
		return decoded, nil
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrUnrecognizedURL, rawURL)
	}
	// Path is /<bucket>/<object path>.
	trimmed := strings.TrimPrefix(u.Path, "/")
	parts := strings.SplitN(trimmed, "/", 2)
	if len(parts) != 2 || parts[1] == "" {
		return "", fmt.Errorf("%w: %s", ErrUnrecognizedURL, rawURL)
	}
	return parts[1], nil
}

// ObjectName builds a collision-resistant object name under prefix for a
// user-supplied filename.
func ObjectName(prefix, userID, filename string) string {
	return fmt.Sprintf("%s/%s_%s_%s", prefix, userID, uuid.New().String(), sanitizeFilename(filename))
}

// sanitizeFilename keeps only characters that are safe in an object name.
func sanitizeFilename(name string) string {
	// Drop any client-supplied directory components.
	if idx := strings.LastIndexAny(name, "/\\"); idx != -1 {
		name = name[idx+1:]
	}
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.' || r == '-' || r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	if b.Len() == 0 {
		return "file"
	}
	return b.String()
}
