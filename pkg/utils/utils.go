package utils

import (
	"bytes"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"image"
	"image/jpeg"
	"strings"
	"time"

	_ "image/png"

	"github.com/oklog/ulid/v2"
)

type IUtils interface {
	NewULIDFromTimestamp(t time.Time) (string, error)
	DecodeBase64Image(data string) (image.Image, error)
	EncodeJPEG(img image.Image, quality int) ([]byte, error)
}

type utils struct {
	jpegQuality int
}

func New() IUtils {
	return &utils{
		jpegQuality: 85,
	}
}

func (u *utils) NewULIDFromTimestamp(t time.Time) (string, error) {
	ms := ulid.Timestamp(t)
	entropy := ulid.Monotonic(rand.Reader, 0)

	id, err := ulid.New(ms, entropy)
	if err != nil {
		return "", err
	}

	return id.String(), nil
}

// DecodeBase64Image decodes a base64 JPEG or PNG payload. Browser clients
// send data URLs ("data:image/jpeg;base64,..."), native clients send the
// raw base64 string; both forms are accepted.
func (u *utils) DecodeBase64Image(data string) (image.Image, error) {
	if data == "" {
		return nil, errors.New("empty image payload")
	}

	if strings.HasPrefix(data, "data:") {
		idx := strings.Index(data, ",")
		if idx == -1 {
			return nil, errors.New("malformed data URL")
		}
		data = data[idx+1:]
	}

	raw, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return nil, err
	}

	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}

	return img, nil
}

func (u *utils) EncodeJPEG(img image.Image, quality int) ([]byte, error) {
	if img == nil {
		return nil, errors.New("no image to encode")
	}

	if quality <= 0 || quality > 100 {
		quality = u.jpegQuality
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}
