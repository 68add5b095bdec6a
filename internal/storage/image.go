package storage

import (
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/fekuna/omnipos-storefront/internal/apperror"
)

const MaxImageSize = 2048 * 1024

var ImageExtensions = []string{"jpeg", "png", "jpg", "gif", "svg"}

// ValidateImage checks an uploaded image against the accepted types and size
// limit, reporting failures against field.
func ValidateImage(field string, fh *multipart.FileHeader) error {
	label := strings.ReplaceAll(field, "_", " ")
	ext := Ext(fh.Filename)

	if !isImageExt(ext) {
		return apperror.Field(field, "The "+label+" field must be a file of type: "+strings.Join(ImageExtensions, ", ")+".")
	}
	if fh.Size > MaxImageSize {
		return apperror.Field(field, "The "+label+" field must not be greater than 2048 kilobytes.")
	}
	if ext == "svg" {
		return nil
	}

	f, err := fh.Open()
	if err != nil {
		return err
	}
	defer f.Close()

	head := make([]byte, 512)
	n, _ := f.Read(head)
	if !strings.HasPrefix(http.DetectContentType(head[:n]), "image/") {
		return apperror.Field(field, "The "+label+" field must be an image.")
	}
	return nil
}

// Ext returns the lower-cased extension of filename without the dot.
func Ext(filename string) string {
	return strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")
}

func isImageExt(ext string) bool {
	for _, e := range ImageExtensions {
		if e == ext {
			return true
		}
	}
	return false
}
