// Package media compresse et encode les images des posts et des profils.
// Les images sont stockées en base64 dans les documents, jamais en binaire ni par URL.
package media

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"io"
	"strings"

	"github.com/disintegration/imaging"
)

// MaxDimension borne la largeur et la hauteur d'une image téléversée
const MaxDimension = 1080

// Qualités JPEG utilisées par l'application
const (
	PostQuality   = 70
	AvatarQuality = 80
)

// Limites d'un téléversement: taille du fichier et nombre de pixels annoncé par l'en-tête
const (
	MaxUploadBytes = 20 << 20
	MaxPixels      = 40_000_000
)

var (
	ErrInvalidImage = errors.New("image invalide")
	ErrTooLarge     = errors.New("image trop volumineuse")
)

// Compress encode img en JPEG avec la qualité donnée (1-100)
func Compress(img image.Image, quality int) ([]byte, error) {
	if quality < 1 || quality > 100 {
		return nil, fmt.Errorf("qualité JPEG hors bornes: %d", quality)
	}
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
		return nil, fmt.Errorf("compression JPEG: %w", err)
	}
	return buf.Bytes(), nil
}

func Encode(b []byte) string {
	return base64.StdEncoding.EncodeToString(b)
}

// Decode accepte aussi le base64 découpé en lignes
func Decode(s string) ([]byte, error) {
	clean := strings.Map(func(r rune) rune {
		switch r {
		case '\n', '\r', ' ', '\t':
			return -1
		}
		return r
	}, s)
	b, err := base64.StdEncoding.DecodeString(clean)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}
	return b, nil
}

// Parse décode une image (JPEG, PNG, GIF, BMP, TIFF) en respectant l'orientation EXIF
func Parse(b []byte) (image.Image, error) {
	img, err := imaging.Decode(bytes.NewReader(b), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}
	return img, nil
}

// EncodeUpload lit une image téléversée, la réduit à MaxDimension, la compresse et l'encode.
// Les fichiers de plus de MaxUploadBytes et les images de plus de MaxPixels sont refusés
// avant tout décodage des pixels.
func EncodeUpload(r io.Reader, quality int) (string, error) {
	raw, err := io.ReadAll(io.LimitReader(r, MaxUploadBytes+1))
	if err != nil {
		return "", fmt.Errorf("lecture de l'image: %w", err)
	}
	if len(raw) > MaxUploadBytes {
		return "", fmt.Errorf("%w: plus de %d octets", ErrTooLarge, MaxUploadBytes)
	}
	if err := checkPixels(raw); err != nil {
		return "", err
	}
	img, err := Parse(raw)
	if err != nil {
		return "", err
	}
	b := img.Bounds()
	if b.Dx() > MaxDimension || b.Dy() > MaxDimension {
		img = imaging.Fit(img, MaxDimension, MaxDimension, imaging.Lanczos)
	}
	compressed, err := Compress(img, quality)
	if err != nil {
		return "", err
	}
	return Encode(compressed), nil
}

func checkPixels(raw []byte) error {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 || int64(cfg.Width)*int64(cfg.Height) > MaxPixels {
		return fmt.Errorf("%w: %dx%d", ErrTooLarge, cfg.Width, cfg.Height)
	}
	return nil
}
