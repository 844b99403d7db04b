package images

import (
	"bytes"
	"fmt"
	"image"
	"math"
	"net/http"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	"github.com/pkg/errors"
)

// アップロード上限 5MiB
const MaxUploadSize = 5 * 1024 * 1024

// 受け付けるMIMEタイプ
var allowedMIME = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// デコード/エンコードの失敗。呼び出し側でレコード更新と切り離して扱う。
type ProcessingError struct {
	Op  string
	Err error
}

func (e *ProcessingError) Error() string {
	return fmt.Sprintf("image %s: %v", e.Op, e.Err)
}

func (e *ProcessingError) Unwrap() error {
	return e.Err
}

func newProcessingError(op string, err error) error {
	return &ProcessingError{Op: op, Err: err}
}

func IsProcessingError(err error) bool {
	var pe *ProcessingError
	return errors.As(err, &pe)
}

// WebP品質のプリセット
const (
	qualityProfile  = 90 // ロゴ・バナー・アバター
	qualityOriginal = 85 // 商品画像
	qualityThumb    = 80 // サムネイル
	qualityBlur     = 50 // ブラープレースホルダ
)

// サイズのプリセット
var (
	boxLogo        = box{300, 300}
	boxBanner      = box{1200, 400}
	boxBannerSmall = box{600, 200}
	boxThumb       = box{300, 300}
	boxAvatar      = box{500, 500}
)

type box struct {
	W, H int
}

// MIMEとサイズを検証してデコードする
func decodeUpload(data []byte) (image.Image, error) {
	if len(data) == 0 {
		return nil, newProcessingError("validate", errors.New("empty upload"))
	}
	if len(data) > MaxUploadSize {
		return nil, newProcessingError("validate", errors.New("image exceeds 5MB limit"))
	}

	mime := http.DetectContentType(data)
	if !allowedMIME[mime] {
		return nil, newProcessingError("validate",
			errors.Errorf("unsupported format %s (allowed: JPEG, PNG, GIF, WebP)", mime))
	}

	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, newProcessingError("decode", err)
	}
	return img, nil
}

// アスペクト比を保ったままボックス内に収める寸法。
// ratio = min(maxW/w, maxH/h)、四捨五入。
func FitWithin(w, h, maxW, maxH int) (int, int) {
	ratio := math.Min(float64(maxW)/float64(w), float64(maxH)/float64(h))
	newW := int(math.Round(float64(w) * ratio))
	newH := int(math.Round(float64(h) * ratio))
	if newW < 1 {
		newW = 1
	}
	if newH < 1 {
		newH = 1
	}
	return newW, newH
}

func fitInto(img image.Image, b box) image.Image {
	bounds := img.Bounds()
	w, h := FitWithin(bounds.Dx(), bounds.Dy(), b.W, b.H)
	return imaging.Resize(img, w, h, imaging.Lanczos)
}

// 20×20に縮めて3回ガウスぼかし（プログレッシブ表示用）
func blurPlaceholder(img image.Image) image.Image {
	small := imaging.Resize(img, 20, 20, imaging.Lanczos)
	for i := 0; i < 3; i++ {
		small = imaging.Blur(small, 1.2)
	}
	return small
}

func encodeWebP(img image.Image, quality int) ([]byte, error) {
	var buf bytes.Buffer
	opts := &webp.Options{Quality: float32(quality)}
	if err := webp.Encode(&buf, img, opts); err != nil {
		return nil, newProcessingError("encode", err)
	}
	return buf.Bytes(), nil
}
