// internal/notifier/smtp_test.go
package notifier

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildMessage(t *testing.T) {
	msg := string(buildMessage("Trading Support", "no-reply@tradeadmin.local",
		"trader@example.com", "Balance adjustment processed", "Your balance changed."))

	assert.True(t, strings.HasPrefix(msg, "From: Trading Support <no-reply@tradeadmin.local>\r\n"))
	assert.Contains(t, msg, "To: trader@example.com\r\n")
	assert.Contains(t, msg, "Subject: Balance adjustment processed\r\n")
	// headers and body are separated by a blank line
	assert.Contains(t, msg, "\r\n\r\nYour balance changed.")
}
