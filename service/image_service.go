package service

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"regexp"

	"github.com/disintegration/imaging"
)

const (
	// Quality settings
	qualityThumb  = 60
	qualityMedium = 75
	// Size settings (max dimension)
	maxSizeThumb  = 300
	maxSizeMedium = 800
	// Upper bound on a downloaded source image
	maxSourceBytes = 20 << 20
)

// ErrNoImage is returned when the product is unknown or has no image URL
var ErrNoImage = errors.New("product has no image")

var unsafeFileChars = regexp.MustCompile(`[^A-Za-z0-9_-]+`)

// ImageService serves resized product preview images, cached on disk
type ImageService struct {
	catalogs   CatalogProvider
	httpClient *http.Client
	cacheDir   string
}

// NewImageService creates a new ImageService
func NewImageService(catalogs CatalogProvider, httpClient *http.Client, cacheDir string) *ImageService {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &ImageService{
		catalogs:   catalogs,
		httpClient: httpClient,
		cacheDir:   cacheDir,
	}
}

// GetCachePath returns the cache file path for a product image.
// The source URL is hashed in so a changed image is not served stale.
func (s *ImageService) GetCachePath(sku string, imageURL string, size string) string {
	sum := sha1.Sum([]byte(imageURL))
	filename := fmt.Sprintf("product_%s_%s_%s.jpg",
		unsafeFileChars.ReplaceAllString(sku, "_"), size, hex.EncodeToString(sum[:4]))
	return filepath.Join(s.cacheDir, filename)
}

// ProductImage returns the JPEG preview of a product at "thumb" or "medium" size
func (s *ImageService) ProductImage(ctx context.Context, sku string, size string) ([]byte, error) {
	product, ok := s.catalogs.Catalog().Product(sku)
	if !ok || product.ImageURL == "" {
		return nil, ErrNoImage
	}

	cachePath := s.GetCachePath(product.SKU, product.ImageURL, size)
	if data, err := os.ReadFile(cachePath); err == nil {
		return data, nil
	}

	source, err := s.fetch(ctx, product.ImageURL)
	if err != nil {
		return nil, err
	}

	optimized, err := OptimizeImage(source, size)
	if err != nil {
		return nil, err
	}

	if err := SaveToCache(cachePath, optimized); err != nil {
		log.Printf("⚠️  ProductImage: %v", err)
	}
	return optimized, nil
}

func (s *ImageService) fetch(ctx context.Context, imageURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build image request: %w", err)
	}
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("image endpoint returned status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxSourceBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read image data: %w", err)
	}
	return data, nil
}

// SaveToCache saves an image to the cache. The file is written under a
// temporary name and renamed, so readers never see a partial image.
func SaveToCache(cachePath string, imageData []byte) error {
	// Ensure parent directory exists
	dir := filepath.Dir(cachePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(cachePath)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create cache file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(imageData); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write to cache: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write to cache: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return fmt.Errorf("failed to write to cache: %w", err)
	}
	if err := os.Rename(tmp.Name(), cachePath); err != nil {
		return fmt.Errorf("failed to replace cache file: %w", err)
	}

	log.Printf("✓ Image cached: %s", cachePath)
	return nil
}

// OptimizeImage converts an image to JPEG and fits it in the size's bounding box
// imageData: raw image bytes (PNG, JPEG, etc.)
// size: "thumb" or "medium"
func OptimizeImage(imageData []byte, size string) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(imageData), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	var maxDim int
	var quality int

	switch size {
	case "thumb":
		maxDim = maxSizeThumb
		quality = qualityThumb
	case "medium":
		maxDim = maxSizeMedium
		quality = qualityMedium
	default:
		maxDim = maxSizeMedium
		quality = qualityMedium
		log.Printf("⚠️  Unknown size '%s', defaulting to medium", size)
	}

	bounds := img.Bounds()
	if bounds.Dx() > maxDim || bounds.Dy() > maxDim {
		img = imaging.Fit(img, maxDim, maxDim, imaging.Lanczos)
		log.Printf("🔄 Resized image: %dx%d -> %dx%d", bounds.Dx(), bounds.Dy(), img.Bounds().Dx(), img.Bounds().Dy())
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
		return nil, fmt.Errorf("failed to encode to JPEG: %w", err)
	}
	return buf.Bytes(), nil
}
