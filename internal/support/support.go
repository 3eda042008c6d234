// Package support exposes the static IT support contact.
package support

import (
	"net/url"
	"strings"
)

const (
	supportPhone   = "254788488881"
	supportMessage = "Hello IT, I need your assistance"
)

// WhatsAppURL returns the wa.me deep link members use to reach IT support.
// The message is percent-encoded the way browsers' encodeURIComponent does,
// so spaces become %20 rather than the form-encoding plus sign.
func WhatsAppURL() string {
	return "https://wa.me/" + supportPhone + "?text=" + encodeComponent(supportMessage)
}

func encodeComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
