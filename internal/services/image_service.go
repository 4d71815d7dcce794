package services

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"path"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"github.com/google/uuid"

	"github.com/avelez/photodeck-be/internal/apperrors"
	"github.com/avelez/photodeck-be/internal/models"
	"github.com/avelez/photodeck-be/internal/objectstore"
)

// maxUploadSize is the ceiling for a single image upload.
const maxUploadSize = 10 << 20 // 10 MiB

var allowedExtensions = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
	".gif":  {},
	".bmp":  {},
	".webp": {},
}

// Object metadata keys attached to every stored image.
const (
	metaOriginalName  = "original-name"
	metaDirectoryName = "directory-name"
	metaDescription   = "description"
	metaUploadedAt    = "uploaded-at"
	metaImageWidth    = "image-width"
	metaImageHeight   = "image-height"
	metaImageFormat   = "image-format"
)

// ImageUpload carries one incoming file through the ingestion pipeline.
type ImageUpload struct {
	FileName    string
	ContentType string
	Directory   string
	Description string
	Data        []byte
}

// ImageServiceProvider defines the interface for image services.
type ImageServiceProvider interface {
	Upload(ctx context.Context, upload ImageUpload) (models.ImageAsset, error)
	List(ctx context.Context, directory string) ([]models.ImageAsset, error)
	GetData(ctx context.Context, directory, fileName string) ([]byte, string, error)
	Delete(ctx context.Context, directory, fileName string) error
	Directories(ctx context.Context) ([]models.DirectoryInfo, error)
}

// ImageService validates, stores, and serves image assets over an injected
// object store.
type ImageService struct {
	store objectstore.Store
}

// NewImageService creates a new ImageService.
func NewImageService(store objectstore.Store) *ImageService {
	return &ImageService{store: store}
}

// Upload runs the full ingestion pipeline: upload validation, directory
// sanitization, duplicate-name check, image decoding, then the store write.
// Nothing is written if any validation step fails.
func (s *ImageService) Upload(ctx context.Context, upload ImageUpload) (models.ImageAsset, error) {
	if err := validateUpload(upload.FileName, upload.ContentType); err != nil {
		return models.ImageAsset{}, err
	}

	directory, err := sanitizeDirectoryName(upload.Directory)
	if err != nil {
		return models.ImageAsset{}, err
	}

	duplicate, err := s.isDuplicate(ctx, directory, upload.FileName)
	if err != nil {
		return models.ImageAsset{}, err
	}
	if duplicate {
		return models.ImageAsset{}, apperrors.Newf(apperrors.KindConflict,
			"file %q already exists in directory %q", upload.FileName, directory)
	}

	info, err := decodeImage(upload.Data)
	if err != nil {
		return models.ImageAsset{}, err
	}

	// The storage key is independent of the original filename so uploads can
	// never collide or traverse paths through it.
	ext := strings.ToLower(filepath.Ext(upload.FileName))
	fileName := uuid.New().String() + ext
	key := directory + "/" + fileName
	uploadedAt := time.Now().UTC()

	metadata := map[string]string{
		metaOriginalName:  upload.FileName,
		metaDirectoryName: directory,
		metaDescription:   upload.Description,
		metaUploadedAt:    uploadedAt.Format(time.RFC3339),
		metaImageWidth:    strconv.Itoa(info.Width),
		metaImageHeight:   strconv.Itoa(info.Height),
		metaImageFormat:   info.Format,
	}

	size := int64(len(upload.Data))
	if err := s.store.Put(ctx, key, bytes.NewReader(upload.Data), size, upload.ContentType, metadata); err != nil {
		return models.ImageAsset{}, err
	}

	return models.ImageAsset{
		FileName:      fileName,
		OriginalName:  upload.FileName,
		DirectoryName: directory,
		FileSize:      size,
		ContentType:   upload.ContentType,
		Description:   upload.Description,
		LastModified:  uploadedAt,
		ImageWidth:    info.Width,
		ImageHeight:   info.Height,
		ImageFormat:   info.Format,
	}, nil
}

// List returns all images in a directory, newest first.
func (s *ImageService) List(ctx context.Context, directory string) ([]models.ImageAsset, error) {
	directory, err := sanitizeDirectoryName(directory)
	if err != nil {
		return nil, err
	}

	objects, err := s.store.List(ctx, directory+"/", false)
	if err != nil {
		return nil, err
	}

	assets := []models.ImageAsset{}
	for _, obj := range objects {
		if obj.IsDir {
			continue
		}
		info, err := s.store.Stat(ctx, obj.Key)
		if err != nil {
			if apperrors.IsKind(err, apperrors.KindNotFound) {
				continue // removed between list and stat
			}
			return nil, err
		}

		width, _ := strconv.Atoi(metaValue(info.Metadata, metaImageWidth))
		height, _ := strconv.Atoi(metaValue(info.Metadata, metaImageHeight))

		assets = append(assets, models.ImageAsset{
			FileName:      path.Base(obj.Key),
			OriginalName:  metaValue(info.Metadata, metaOriginalName),
			DirectoryName: directory,
			FileSize:      obj.Size,
			ContentType:   info.ContentType,
			Description:   metaValue(info.Metadata, metaDescription),
			LastModified:  obj.LastModified,
			ETag:          obj.ETag,
			ImageWidth:    width,
			ImageHeight:   height,
			ImageFormat:   metaValue(info.Metadata, metaImageFormat),
		})
	}

	sort.Slice(assets, func(i, j int) bool {
		return assets[i].LastModified.After(assets[j].LastModified)
	})
	return assets, nil
}

// GetData returns the raw bytes and content type of a stored image.
func (s *ImageService) GetData(ctx context.Context, directory, fileName string) ([]byte, string, error) {
	directory, err := sanitizeDirectoryName(directory)
	if err != nil {
		return nil, "", err
	}
	return s.store.Get(ctx, directory+"/"+fileName)
}

// Delete removes a stored image by its storage key within a directory.
func (s *ImageService) Delete(ctx context.Context, directory, fileName string) error {
	directory, err := sanitizeDirectoryName(directory)
	if err != nil {
		return err
	}

	key := directory + "/" + fileName
	if _, err := s.store.Stat(ctx, key); err != nil {
		return err
	}
	return s.store.Delete(ctx, key)
}

// Directories lists every directory holding images, with per-directory
// totals, newest first.
func (s *ImageService) Directories(ctx context.Context) ([]models.DirectoryInfo, error) {
	objects, err := s.store.List(ctx, "", false)
	if err != nil {
		return nil, err
	}

	names := map[string]struct{}{}
	for _, obj := range objects {
		if obj.IsDir {
			names[strings.TrimSuffix(obj.Key, "/")] = struct{}{}
		} else if i := strings.Index(obj.Key, "/"); i > 0 {
			names[obj.Key[:i]] = struct{}{}
		}
	}

	directories := []models.DirectoryInfo{}
	for name := range names {
		assets, err := s.List(ctx, name)
		if err != nil {
			return nil, err
		}

		info := models.DirectoryInfo{Name: name, ImageCount: len(assets)}
		for _, asset := range assets {
			info.TotalSize += asset.FileSize
			if asset.LastModified.After(info.LastModified) {
				info.LastModified = asset.LastModified
			}
		}
		directories = append(directories, info)
	}

	sort.Slice(directories, func(i, j int) bool {
		return directories[i].LastModified.After(directories[j].LastModified)
	})
	return directories, nil
}

// isDuplicate reports whether an asset with the same original filename
// already exists in the directory. The check and the subsequent write are not
// transactional; two concurrent uploads of the same name can both pass.
func (s *ImageService) isDuplicate(ctx context.Context, directory, originalName string) (bool, error) {
	assets, err := s.List(ctx, directory)
	if err != nil {
		return false, err
	}
	for _, asset := range assets {
		if asset.OriginalName == originalName {
			return true, nil
		}
	}
	return false, nil
}

// validateUpload checks the filename extension and the declared content type.
// The declared type is only trusted for this coarse prefix check; the actual
// bytes are decoded later regardless.
func validateUpload(fileName, contentType string) error {
	if fileName == "" {
		return apperrors.New(apperrors.KindValidation, "no filename provided")
	}

	ext := strings.ToLower(filepath.Ext(fileName))
	if _, ok := allowedExtensions[ext]; !ok {
		return apperrors.Newf(apperrors.KindValidation,
			"file type %q not allowed; allowed types: jpg, jpeg, png, gif, bmp, webp", ext)
	}

	if !strings.HasPrefix(contentType, "image/") {
		return apperrors.New(apperrors.KindValidation, "file must be an image")
	}
	return nil
}

// sanitizeDirectoryName strips every character outside [A-Za-z0-9_-] and
// truncates to 50 characters. This is the sole defense against path traversal
// through the directory parameter.
func sanitizeDirectoryName(name string) (string, error) {
	var b strings.Builder
	for _, r := range name {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == '_' {
			b.WriteRune(r)
		}
	}

	sanitized := b.String()
	if sanitized == "" {
		return "", apperrors.New(apperrors.KindValidation, "invalid directory name")
	}
	if len(sanitized) > 50 {
		sanitized = sanitized[:50]
	}
	return sanitized, nil
}

// decodeImage enforces the size ceiling and parses the byte stream as a
// raster image, reporting its intrinsic properties. The declared content type
// plays no part here.
func decodeImage(data []byte) (models.ImageInfo, error) {
	if int64(len(data)) > maxUploadSize {
		return models.ImageInfo{}, apperrors.Newf(apperrors.KindValidation,
			"file size too large; maximum size: %dMB", maxUploadSize/(1<<20))
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return models.ImageInfo{}, apperrors.Wrap(apperrors.KindValidation, "invalid image file", err)
	}

	mode, hasAlpha := colorMode(cfg.ColorModel)
	return models.ImageInfo{
		Width:    cfg.Width,
		Height:   cfg.Height,
		Format:   format,
		Mode:     mode,
		HasAlpha: hasAlpha,
	}, nil
}

// colorMode names the color model and reports whether it carries
// transparency, either as an alpha channel or as palette transparency.
func colorMode(model color.Model) (string, bool) {
	switch model {
	case color.RGBAModel, color.RGBA64Model, color.NRGBAModel, color.NRGBA64Model:
		return "RGBA", true
	case color.NYCbCrAModel:
		return "YCbCrA", true
	case color.AlphaModel, color.Alpha16Model:
		return "A", true
	case color.GrayModel, color.Gray16Model:
		return "L", false
	case color.YCbCrModel:
		return "YCbCr", false
	case color.CMYKModel:
		return "CMYK", false
	}

	if palette, ok := model.(color.Palette); ok {
		for _, c := range palette {
			if _, _, _, a := c.RGBA(); a < 0xffff {
				return "P", true
			}
		}
		return "P", false
	}
	return "unknown", false
}

func metaValue(metadata map[string]string, key string) string {
	for k, v := range metadata {
		if strings.EqualFold(k, key) {
			return v
		}
	}
	return ""
}
