package avatar

import (
	"encoding/base64"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pngHeader is the 8-byte PNG signature followed by the start of an IHDR chunk.
var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 13, 'I', 'H', 'D', 'R'}

func TestDetectMIME(t *testing.T) {
	assert.Equal(t, "image/png", DetectMIME(pngHeader, "whatever.bin"))
	assert.Equal(t, "image/svg+xml", DetectMIME([]byte("<svg/>"), "face.SVG"))
	assert.Equal(t, DefaultMIME, DetectMIME([]byte("plain"), "notes"))
}

func TestFromBytes(t *testing.T) {
	url := FromBytes(pngHeader, "me.png")

	require.True(t, strings.HasPrefix(url, "data:image/png;base64,"))
	decoded, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(url, "data:image/png;base64,"))
	require.NoError(t, err)
	assert.Equal(t, pngHeader, decoded)
}

func TestFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "me.png")
	require.NoError(t, os.WriteFile(path, pngHeader, 0o600))

	url, err := FromFile(path)
	require.NoError(t, err)
	assert.Equal(t, FromBytes(pngHeader, "me.png"), url)

	_, err = FromFile(filepath.Join(t.TempDir(), "missing.png"))
	assert.Error(t, err)
}
