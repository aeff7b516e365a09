package templates

import "github.com/okadio/microblog/config"

// NewConfirmEmailData builds the template payload for the account
// confirmation email.
func NewConfirmEmailData(cfg *config.Config, name, email, confirmURL string) map[string]any {
	return map[string]any{
		"Name":        name,
		"Email":       email,
		"AppName":     cfg.AppName,
		"CompanyName": cfg.CompanyName,
		"SupportURL":  cfg.SupportURL,
		"ConfirmURL":  confirmURL,
	}
}
