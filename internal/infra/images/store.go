package images

import (
	"fmt"
	"os"
	"path"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// 変換済みWebPを assets/images/{businesses|products|users}/{id}/ 配下へ書く。
// 返すURLは保存パスと同じ相対パス（スラッシュ区切り）。
type Store struct {
	root string // 例: "assets/images"
}

func NewStore(root string) *Store {
	return &Store{root: root}
}

// 商品画像の3バリアント
type ProductVariants struct {
	ImageURL string
	ThumbURL string
	BlurURL  string
}

// 商品画像：オリジナル（q85）＋300×300サムネ（q80）＋ブラー（q50）。
// roleは "featured" か "gallery"。
func (s *Store) SaveProductImage(data []byte, productID int64, role string) (ProductVariants, error) {
	img, err := decodeUpload(data)
	if err != nil {
		return ProductVariants{}, err
	}

	base := fmt.Sprintf("%s_%s", role, shortID())
	dir := path.Join("products", fmt.Sprint(productID))

	original, err := encodeWebP(img, qualityOriginal)
	if err != nil {
		return ProductVariants{}, err
	}
	thumb, err := encodeWebP(fitInto(img, boxThumb), qualityThumb)
	if err != nil {
		return ProductVariants{}, err
	}
	blur, err := encodeWebP(blurPlaceholder(img), qualityBlur)
	if err != nil {
		return ProductVariants{}, err
	}

	v := ProductVariants{
		ImageURL: s.urlFor(dir, base+".webp"),
		ThumbURL: s.urlFor(dir, base+"_thumb.webp"),
		BlurURL:  s.urlFor(dir, base+"_blur.webp"),
	}

	if err := s.write(v.ImageURL, original); err != nil {
		return ProductVariants{}, err
	}
	if err := s.write(v.ThumbURL, thumb); err != nil {
		return ProductVariants{}, err
	}
	if err := s.write(v.BlurURL, blur); err != nil {
		return ProductVariants{}, err
	}
	return v, nil
}

// ビジネスロゴ：300×300、q90
func (s *Store) SaveBusinessLogo(data []byte, businessID int64) (string, error) {
	return s.saveSingle(data, path.Join("businesses", fmt.Sprint(businessID)), "logo", boxLogo)
}

// ビジネスバナー：1200×400と600×200の2枚、q90
func (s *Store) SaveBusinessBanner(data []byte, businessID int64) (string, string, error) {
	img, err := decodeUpload(data)
	if err != nil {
		return "", "", err
	}

	dir := path.Join("businesses", fmt.Sprint(businessID))

	banner, err := encodeWebP(fitInto(img, boxBanner), qualityProfile)
	if err != nil {
		return "", "", err
	}
	small, err := encodeWebP(fitInto(img, boxBannerSmall), qualityProfile)
	if err != nil {
		return "", "", err
	}

	bannerURL := s.urlFor(dir, "banner.webp")
	smallURL := s.urlFor(dir, "banner_small.webp")

	if err := s.write(bannerURL, banner); err != nil {
		return "", "", err
	}
	if err := s.write(smallURL, small); err != nil {
		return "", "", err
	}
	return bannerURL, smallURL, nil
}

// ユーザーアバター：最大500×500、q90
func (s *Store) SaveAvatar(data []byte, username string) (string, error) {
	return s.saveSingle(data, path.Join("users", username), "avatar", boxAvatar)
}

func (s *Store) saveSingle(data []byte, dir, name string, b box) (string, error) {
	img, err := decodeUpload(data)
	if err != nil {
		return "", err
	}

	encoded, err := encodeWebP(fitInto(img, b), qualityProfile)
	if err != nil {
		return "", err
	}

	url := s.urlFor(dir, name+".webp")
	if err := s.write(url, encoded); err != nil {
		return "", err
	}
	return url, nil
}

func (s *Store) urlFor(dir, filename string) string {
	return path.Join(s.root, dir, filename)
}

func (s *Store) write(url string, data []byte) error {
	p := filepath.FromSlash(url)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return newProcessingError("write", errors.Wrap(err, "create image directory"))
	}
	if err := os.WriteFile(p, data, 0o644); err != nil {
		return newProcessingError("write", errors.Wrap(err, "save image"))
	}
	return nil
}

func shortID() string {
	return uuid.NewString()[:8]
}
