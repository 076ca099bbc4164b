// Package avatar derives placeholder avatars and processes uploaded
// avatar images.
package avatar

import (
	"crypto/md5"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/draw"
)

// Size is the edge length avatars are normalized to.
const Size = 250

// IdenticonURL returns a deterministic identicon URL for an email
// address, using the Gravatar identicon generator.
func IdenticonURL(email string) string {
	normalized := strings.ToLower(strings.TrimSpace(email))
	hash := md5.Sum([]byte(normalized))
	return fmt.Sprintf("https://www.gravatar.com/avatar/%x?d=identicon&s=%d", hash, Size)
}

// Store resizes uploaded avatar images and keeps them under a public
// directory.
type Store struct {
	dir string
}

// NewStore creates a Store rooted at dir, creating it if needed.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating avatar directory: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Process reads the uploaded image at tmpPath, resizes it to a Size
// square, stores it named by the user ID plus the original extension
// and removes the temporary upload. It returns the public URL path of
// the stored avatar.
func (s *Store) Process(tmpPath, userID string) (string, error) {
	src, err := decodeImage(tmpPath)
	if err != nil {
		return "", err
	}

	dst := image.NewRGBA(image.Rect(0, 0, Size, Size))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)

	ext := strings.ToLower(filepath.Ext(tmpPath))
	fileName := userID + ext
	out, err := os.Create(filepath.Join(s.dir, fileName))
	if err != nil {
		return "", err
	}
	defer out.Close()

	switch ext {
	case ".png":
		err = png.Encode(out, dst)
	default:
		err = jpeg.Encode(out, dst, &jpeg.Options{Quality: 85})
	}
	if err != nil {
		return "", err
	}

	if err := os.Remove(tmpPath); err != nil {
		return "", fmt.Errorf("removing temporary upload: %w", err)
	}

	return "/avatars/" + fileName, nil
}

func decodeImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decoding image: %w", err)
	}
	return img, nil
}
