package email_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcwamsie/finsco-hub/pkg/email"
)

func TestSendEmailParamsValidate(t *testing.T) {
	t.Parallel()

	valid := email.SendEmailParams{
		SendTo:   "member@example.com",
		Subject:  "Claim approved",
		BodyHTML: "<p>Your claim was approved.</p>",
	}

	t.Run("valid params", func(t *testing.T) {
		t.Parallel()
		assert.NoError(t, valid.Validate())
	})

	tests := []struct {
		name   string
		mutate func(*email.SendEmailParams)
	}{
		{"empty recipient", func(p *email.SendEmailParams) { p.SendTo = "" }},
		{"malformed recipient", func(p *email.SendEmailParams) { p.SendTo = "not-an-address" }},
		{"recipient without domain", func(p *email.SendEmailParams) { p.SendTo = "member@" }},
		{"empty subject", func(p *email.SendEmailParams) { p.Subject = "" }},
		{"empty body", func(p *email.SendEmailParams) { p.BodyHTML = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			params := valid
			tt.mutate(&params)
			assert.ErrorIs(t, params.Validate(), email.ErrInvalidParams)
		})
	}
}

func TestDevSender(t *testing.T) {
	t.Parallel()

	t.Run("writes html and metadata files", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		sender := email.NewDevSender(filepath.Join(dir, "outbox"))

		err := sender.SendEmail(context.Background(), email.SendEmailParams{
			SendTo:   "member@example.com",
			Subject:  "Claim approved",
			BodyHTML: "<p>Your claim was approved.</p>",
			Tag:      "claims",
		})
		require.NoError(t, err)

		entries, err := os.ReadDir(filepath.Join(dir, "outbox"))
		require.NoError(t, err)
		require.Len(t, entries, 2)

		var sawHTML, sawJSON bool
		for _, e := range entries {
			switch {
			case strings.HasSuffix(e.Name(), ".html"):
				sawHTML = true
				body, err := os.ReadFile(filepath.Join(dir, "outbox", e.Name()))
				require.NoError(t, err)
				assert.Contains(t, string(body), "approved")
			case strings.HasSuffix(e.Name(), ".json"):
				sawJSON = true
			}
		}
		assert.True(t, sawHTML)
		assert.True(t, sawJSON)
	})

	t.Run("rejects invalid params without writing", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		sender := email.NewDevSender(filepath.Join(dir, "outbox"))

		err := sender.SendEmail(context.Background(), email.SendEmailParams{})
		assert.ErrorIs(t, err, email.ErrInvalidParams)

		_, statErr := os.Stat(filepath.Join(dir, "outbox"))
		assert.True(t, os.IsNotExist(statErr))
	})
}
