/*
Package avatar turns an image file into the data URL embedded in registration and message records.

The file content is sniffed for its MIME type, falling back to the file extension and then to
a generic binary type. There is no size or type validation: the data URL goes straight into the
shared document, whatever the file is.
*/
package avatar

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/h2non/filetype"
)

// DefaultMIME is used when neither content nor extension identify the file.
const DefaultMIME = "application/octet-stream"

// ExtToMIME maps file extensions the content sniffer cannot identify to MIME types.
var ExtToMIME = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".webp": "image/webp",
	".gif":  "image/gif",
	".svg":  "image/svg+xml",
}

// FromFile reads path and encodes it as a data URL.
func FromFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read avatar file: %w", err)
	}

	return FromBytes(data, filepath.Base(path)), nil
}

// FromBytes encodes data as a data URL. name is only consulted for its extension.
func FromBytes(data []byte, name string) string {
	return "data:" + DetectMIME(data, name) + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// DetectMIME sniffs the MIME type of data, falling back to the extension of name.
func DetectMIME(data []byte, name string) string {
	if kind, err := filetype.Match(data); err == nil && kind != filetype.Unknown {
		return kind.MIME.Value
	}

	if mime, ok := ExtToMIME[strings.ToLower(filepath.Ext(name))]; ok {
		return mime
	}

	return DefaultMIME
}
