package services

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image/png"

	"github.com/skip2/go-qrcode"
)

const qrImageSize = 256

type QRService struct{}

func NewQRService() *QRService {
	return &QRService{}
}

// EncodePNG renders content as a QR code and returns the PNG base64-encoded.
func (s *QRService) EncodePNG(content string) (string, error) {
	if content == "" {
		return "", fmt.Errorf("empty qr content")
	}

	qr, err := qrcode.New(content, qrcode.Medium)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, qr.Image(qrImageSize)); err != nil {
		return "", err
	}

	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
