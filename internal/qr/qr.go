package qr

import (
	"errors"
	"fmt"
	"os"

	qrcode "github.com/skip2/go-qrcode"
)

// DefaultSize is the width and height, in pixels, of rendered codes.
const DefaultSize = 200

var errEmptyURL = errors.New("qr: empty url")

func encoder(url string) (*qrcode.QRCode, error) {
	if url == "" {
		return nil, errEmptyURL
	}
	q, err := qrcode.New(url, qrcode.Low)
	if err != nil {
		return nil, fmt.Errorf("qr: encode %q: %w", url, err)
	}
	return q, nil
}

// Encode renders url as a size×size PNG. A non-positive size uses DefaultSize.
func Encode(url string, size int) ([]byte, error) {
	q, err := encoder(url)
	if err != nil {
		return nil, err
	}
	if size <= 0 {
		size = DefaultSize
	}
	png, err := q.PNG(size)
	if err != nil {
		return nil, fmt.Errorf("qr: render png: %w", err)
	}
	return png, nil
}

// Terminal renders url with half-block characters for console display.
func Terminal(url string) (string, error) {
	q, err := encoder(url)
	if err != nil {
		return "", err
	}
	return q.ToSmallString(false), nil
}

// WriteFile renders url as a PNG at path.
func WriteFile(path, url string, size int) error {
	png, err := Encode(url, size)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, png, 0o644); err != nil {
		return fmt.Errorf("qr: write %s: %w", path, err)
	}
	return nil
}
