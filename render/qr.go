package render

import (
	"fmt"
	"net/url"
)

const (
	qrServiceBase = "https://api.qrserver.com/v1/create-qr-code/"

	qrForeground = "3d0009"
	qrBackground = "ffffff"

	// CardQRSize is used on the public card, DashboardQRSize in the
	// dashboard's QR modal.
	CardQRSize      = 140
	DashboardQRSize = 200
)

// QRImageURL builds the external QR-rendering service URL for the given
// payload at fixed colors. The card variant requests a quiet zone around
// the code.
func QRImageURL(data string, size int, quietZone bool) string {
	u := fmt.Sprintf("%s?size=%dx%d&data=%s&color=%s&bgcolor=%s",
		qrServiceBase, size, size, url.QueryEscape(data), qrForeground, qrBackground)
	if quietZone {
		u += "&qzone=1"
	}
	return u
}
