package service

import (
	"fmt"
	"net/url"
	"strings"
)

const (
	mailSubject  = "NVIDIA Insider Chat Request"
	mailBodyTmpl = "Hello %s,\n\nI would like to schedule you for an insider chat.\n\nBest regards,"
)

// ComposeMailtoLink builds the mail-compose deep link handed to the browser.
// The link itself is fire-and-forget: whether a mail client opens is invisible
// to this service.
func ComposeMailtoLink(email, name string) string {
	body := fmt.Sprintf(mailBodyTmpl, name)
	return fmt.Sprintf("mailto:%s?subject=%s&body=%s", email, encodeComponent(mailSubject), encodeComponent(body))
}

// encodeComponent percent-encodes for a mailto query: spaces must be %20, not
// "+", and newlines become %0A.
func encodeComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
