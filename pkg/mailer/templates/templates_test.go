package templates

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/okadio/microblog/config"
)

func TestRenderConfirmEmail(t *testing.T) {
	cfg := &config.Config{AppName: "microblog", CompanyName: "Microblog", SupportURL: "https://example.org/support"}
	data := NewConfirmEmailData(cfg, "Alice", "alice@example.org", "http://localhost:8080/confirm-email?token=abc123")

	subject, text, html, err := Render(ConfirmEmail, data)
	require.NoError(t, err)

	assert.Contains(t, subject, "microblog")
	assert.Contains(t, text, "http://localhost:8080/confirm-email?token=abc123")
	assert.Contains(t, html, "http://localhost:8080/confirm-email?token=abc123")
	assert.Contains(t, html, "Alice")
}

func TestRenderUnknownTemplate(t *testing.T) {
	_, _, _, err := Render("no_such_template", nil)
	assert.Error(t, err)
}
