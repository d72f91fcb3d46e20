package qrgenerator

import (
	qr "github.com/skip2/go-qrcode"
)

type Generator struct {
	size  int
	level qr.RecoveryLevel
}

// NewGenerator renders size x size PNGs at the Medium (~15%) recovery level.
func NewGenerator(size int) *Generator {
	return &Generator{size: size, level: qr.Medium}
}

func (g *Generator) Render(content string) ([]byte, error) {
	return qr.Encode(content, g.level, g.size)
}
