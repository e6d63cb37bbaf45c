package assets

import (
	"bytes"
	"context"
	"errors"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/nfnt/resize"
	"go.uber.org/zap"

	"github.com/OdenLounge/odenLounge-backend/internal/errs"
)

// MaxUploadBytes is the largest accepted image payload.
const MaxUploadBytes = 5 * 1024 * 1024

const (
	thumbWidth   = 300
	thumbHeight  = 300
	thumbQuality = 85
)

// Upload carries the bytes of a client-submitted image together with its
// declared name and content type.
type Upload struct {
	Data        []byte
	Filename    string
	ContentType string
}

// Asset is the durable reference returned after a successful store. ID is
// what Remove expects; URL is what owning records persist by value.
type Asset struct {
	ID  string `json:"assetId"`
	URL string `json:"url"`
}

// ObjectStore is the narrow interface to the external object storage
// service. The pipeline owns no persistent record of its own.
type ObjectStore interface {
	Put(ctx context.Context, key string, data []byte) (string, error)
	Delete(ctx context.Context, key string) error
}

// Pipeline validates and stores image uploads.
type Pipeline struct {
	store ObjectStore
	log   *zap.Logger
}

func NewPipeline(store ObjectStore, log *zap.Logger) *Pipeline {
	return &Pipeline{store: store, log: log}
}

var allowedExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
}

var allowedTypes = map[string]bool{
	"image/jpg":  true,
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
}

// Validate checks the declared extension, declared content type and size.
// It runs before any byte reaches the object store.
func Validate(up Upload) error {
	if len(up.Data) == 0 {
		return errs.Validation("image file is required")
	}
	if len(up.Data) > MaxUploadBytes {
		return errs.Validation("image exceeds the 5 MB size limit")
	}
	ext := strings.ToLower(filepath.Ext(up.Filename))
	if !allowedExts[ext] {
		return errs.Validation("only jpg, jpeg, png and gif files are allowed")
	}
	mediaType := up.ContentType
	if i := strings.Index(mediaType, ";"); i >= 0 {
		mediaType = mediaType[:i]
	}
	if !allowedTypes[strings.TrimSpace(strings.ToLower(mediaType))] {
		return errs.Validation("only image content types are allowed")
	}
	return nil
}

// Store validates the upload, writes it under the given folder and returns
// the durable reference. A thumbnail is generated alongside the original;
// thumbnail failure never fails the upload.
func (p *Pipeline) Store(ctx context.Context, up Upload, folder string) (Asset, error) {
	if err := Validate(up); err != nil {
		return Asset{}, err
	}

	ext := strings.ToLower(filepath.Ext(up.Filename))
	id := folder + "/" + uuid.NewString() + ext

	url, err := p.store.Put(ctx, id, up.Data)
	if err != nil {
		return Asset{}, errs.Upload("failed to store image", err)
	}

	if thumb, err := makeThumbnail(up.Data); err != nil {
		p.log.Warn("thumbnail generation failed", zap.String("asset", id), zap.Error(err))
	} else if _, err := p.store.Put(ctx, thumbKey(id), thumb); err != nil {
		p.log.Warn("thumbnail store failed", zap.String("asset", id), zap.Error(err))
	}

	return Asset{ID: id, URL: url}, nil
}

// Remove deletes the asset and its thumbnail from object storage. An unknown
// id returns ErrNotFound, which callers log and ignore.
func (p *Pipeline) Remove(ctx context.Context, assetID string) error {
	if assetID == "" {
		return errs.ErrNotFound
	}
	// The thumbnail may be missing when generation failed at upload time.
	if err := p.store.Delete(ctx, thumbKey(assetID)); err != nil && !errors.Is(err, errs.ErrNotFound) {
		p.log.Warn("thumbnail delete failed", zap.String("asset", assetID), zap.Error(err))
	}
	return p.store.Delete(ctx, assetID)
}

func thumbKey(assetID string) string {
	ext := filepath.Ext(assetID)
	return strings.TrimSuffix(assetID, ext) + "_thumb.jpg"
}

func makeThumbnail(data []byte) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	thumbnail := resize.Thumbnail(thumbWidth, thumbHeight, img, resize.Lanczos3)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, thumbnail, &jpeg.Options{Quality: thumbQuality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
