package encoder

import (
	"errors"
	"fmt"

	qrcode "github.com/skip2/go-qrcode"
)

// DefaultSize сторона PNG-изображения в пикселях.
const DefaultSize = 256

// QRCode рендерит текст в PNG с QR-кодом.
type QRCode struct {
	Size  int
	Level qrcode.RecoveryLevel
}

func NewQRCode() *QRCode {
	return &QRCode{Size: DefaultSize, Level: qrcode.Medium}
}

// PNG возвращает изображение QR-кода для payload.
func (q *QRCode) PNG(payload string) ([]byte, error) {
	if payload == "" {
		return nil, errors.New("empty payload")
	}
	png, err := qrcode.Encode(payload, q.Level, q.Size)
	if err != nil {
		return nil, fmt.Errorf("encode qr code: %w", err)
	}
	return png, nil
}
