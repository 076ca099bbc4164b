package avatar

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdenticonURL_Deterministic(t *testing.T) {
	first := IdenticonURL("a@x.com")
	second := IdenticonURL("a@x.com")
	assert.Equal(t, first, second)

	// Normalization: case and surrounding whitespace do not change the
	// derived avatar.
	assert.Equal(t, first, IdenticonURL("  A@X.COM  "))

	assert.NotEqual(t, first, IdenticonURL("b@x.com"))
	assert.Contains(t, first, "d=identicon")
}

func TestIdenticonURL_KnownHash(t *testing.T) {
	// md5("a@x.com") pinned so the gravatar key stays stable.
	assert.Equal(t,
		"https://www.gravatar.com/avatar/743173788aa9166801df2e18f0e7ff24?d=identicon&s=250",
		IdenticonURL("a@x.com"))
}

func writeTestPNG(t *testing.T, path string, width, height int) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), A: 255})
		}
	}
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
}

func TestProcess_ResizesStoresAndCleansUp(t *testing.T) {
	tmpDir := t.TempDir()
	avatarDir := t.TempDir()

	uploaded := filepath.Join(tmpDir, "upload-123-original.png")
	writeTestPNG(t, uploaded, 40, 60)

	store, err := NewStore(avatarDir)
	require.NoError(t, err)

	url, err := store.Process(uploaded, "user-1")
	require.NoError(t, err)
	assert.Equal(t, "/avatars/user-1.png", url)

	// Stored image is a Size x Size square.
	f, err := os.Open(filepath.Join(avatarDir, "user-1.png"))
	require.NoError(t, err)
	defer f.Close()
	cfg, _, err := image.DecodeConfig(f)
	require.NoError(t, err)
	assert.Equal(t, Size, cfg.Width)
	assert.Equal(t, Size, cfg.Height)

	// The temporary upload is gone.
	_, err = os.Stat(uploaded)
	assert.True(t, os.IsNotExist(err))
}

func TestProcess_RejectsNonImage(t *testing.T) {
	tmpDir := t.TempDir()
	uploaded := filepath.Join(tmpDir, "upload-bogus.png")
	require.NoError(t, os.WriteFile(uploaded, []byte("not an image"), 0o644))

	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.Process(uploaded, "user-1")
	assert.Error(t, err)
}
