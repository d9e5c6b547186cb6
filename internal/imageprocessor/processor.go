package imageprocessor

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif" // регистрация декодера
	"image/jpeg"
	"image/png"

	"github.com/gabriel-vasile/mimetype"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // регистрация декодера
)

var ErrUnsupportedType = errors.New("unsupported image type")

// Result - обработанное изображение, готовое к сохранению
type Result struct {
	Data        []byte
	ContentType string
	Ext         string
	Width       int
	Height      int
}

// Processor handles image processing operations
type Processor struct {
	quality      int // JPEG quality (1-100)
	allowedTypes []string
}

// NewProcessor creates a new image processor
func NewProcessor(quality int, allowedTypes []string) *Processor {
	if quality <= 0 || quality > 100 {
		quality = 85
	}
	return &Processor{
		quality:      quality,
		allowedTypes: allowedTypes,
	}
}

// DetectType определяет MIME-тип по содержимому, а не по имени файла или заголовку клиента
func (p *Processor) DetectType(data []byte) (string, error) {
	mt := mimetype.Detect(data)
	for _, allowed := range p.allowedTypes {
		if mt.Is(allowed) {
			return allowed, nil
		}
	}
	return mt.String(), ErrUnsupportedType
}

// ProcessAvatar проверяет тип, уменьшает изображение до maxSide по большей стороне
// (без увеличения) и перекодирует: JPEG остается JPEG, остальное - PNG.
func (p *Processor) ProcessAvatar(data []byte, maxSide int) (*Result, error) {
	contentType, err := p.DetectType(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", err, contentType)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	resized := p.resize(img, maxSide, maxSide)
	bounds := resized.Bounds()

	var buf bytes.Buffer
	result := &Result{Width: bounds.Dx(), Height: bounds.Dy()}

	if contentType == "image/jpeg" {
		if err := jpeg.Encode(&buf, resized, &jpeg.Options{Quality: p.quality}); err != nil {
			return nil, fmt.Errorf("failed to encode JPEG: %w", err)
		}
		result.ContentType, result.Ext = "image/jpeg", "jpg"
	} else {
		if err := png.Encode(&buf, resized); err != nil {
			return nil, fmt.Errorf("failed to encode PNG: %w", err)
		}
		result.ContentType, result.Ext = "image/png", "png"
	}

	result.Data = buf.Bytes()
	return result, nil
}

// resize уменьшает изображение с сохранением пропорций
func (p *Processor) resize(img image.Image, maxWidth, maxHeight int) image.Image {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	if maxWidth <= 0 || maxHeight <= 0 || (width <= maxWidth && height <= maxHeight) {
		return img
	}

	ratio := float64(width) / float64(height)
	newWidth := maxWidth
	newHeight := maxHeight

	if float64(maxWidth)/float64(maxHeight) > ratio {
		newWidth = int(float64(maxHeight) * ratio)
	} else {
		newHeight = int(float64(maxWidth) / ratio)
	}
	newWidth = max(newWidth, 1)
	newHeight = max(newHeight, 1)

	dst := image.NewRGBA(image.Rect(0, 0, newWidth, newHeight))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
	return dst
}
