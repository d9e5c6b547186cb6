package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorage_SaveExistsDelete(t *testing.T) {
	dir := t.TempDir()
	s, err := NewLocalStorage(Config{BasePath: dir, BaseURL: "/uploads/"})
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, "avatars/user_1.png", strings.NewReader("png"), 3, "image/png"))

	ok, err := s.Exists(ctx, "avatars/user_1.png")
	require.NoError(t, err)
	assert.True(t, ok)

	url, err := s.GetURL(ctx, "avatars/user_1.png")
	require.NoError(t, err)
	assert.Equal(t, "/uploads/avatars/user_1.png", url)

	require.NoError(t, s.Delete(ctx, "avatars/user_1.png"))
	ok, err = s.Exists(ctx, "avatars/user_1.png")
	require.NoError(t, err)
	assert.False(t, ok)

	// повторное удаление не ошибка
	assert.NoError(t, s.Delete(ctx, "avatars/user_1.png"))
}

func TestLocalStorage_PathStaysInsideBase(t *testing.T) {
	dir := t.TempDir()
	s, err := NewLocalStorage(Config{BasePath: filepath.Join(dir, "uploads")})
	require.NoError(t, err)

	require.NoError(t, s.Save(context.Background(), "../../escape.txt", strings.NewReader("x"), 1, "text/plain"))

	_, err = os.Stat(filepath.Join(dir, "escape.txt"))
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(dir, "uploads", "escape.txt"))
	assert.NoError(t, err)
}
