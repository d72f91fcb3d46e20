package qrcode

//go:generate mockgen -source=qrcode.go -destination=mocks/qrcode.go -package=mocks

import "encoding/base64"

// Renderer turns arbitrary text into a PNG image.
type Renderer interface {
	Render(content string) ([]byte, error)
}

func DataURI(png []byte) string {
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png)
}
