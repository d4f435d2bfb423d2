package services

import (
	"encoding/base64"
	"fmt"
	"net/url"

	qrcode "github.com/skip2/go-qrcode"
)

// GenerateUPIQR encodes a UPI payment link for the consultation fee as a
// base64 PNG data URI, ready to drop into an <img> tag.
func GenerateUPIQR(upiID string, amount int) (string, error) {
	link := fmt.Sprintf("upi://pay?pa=%s&pn=%s&am=%d&cu=INR",
		url.QueryEscape(upiID), url.QueryEscape("Doctor Consultation"), amount)

	png, err := qrcode.Encode(link, qrcode.Medium, 256)
	if err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}
