package email_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cargohub/authcore/pkg/email"
)

func TestSendEmailParams_Validate(t *testing.T) {
	t.Parallel()

	valid := email.SendEmailParams{
		SendTo:   "dispatch@carrier.example",
		Subject:  "Your sign-in code",
		BodyText: "code 123456",
	}

	tests := []struct {
		name   string
		mutate func(p *email.SendEmailParams)
		errMsg string
	}{
		{name: "valid text only", mutate: func(*email.SendEmailParams) {}},
		{name: "valid html only", mutate: func(p *email.SendEmailParams) { p.BodyText, p.BodyHTML = "", "<p>hi</p>" }},
		{name: "empty recipient", mutate: func(p *email.SendEmailParams) { p.SendTo = "  " }, errMsg: "SendTo is required"},
		{name: "bad recipient", mutate: func(p *email.SendEmailParams) { p.SendTo = "dispatch@" }, errMsg: "SendTo must be a valid email address"},
		{name: "empty subject", mutate: func(p *email.SendEmailParams) { p.Subject = "" }, errMsg: "Subject is required"},
		{name: "no body", mutate: func(p *email.SendEmailParams) { p.BodyText = " " }, errMsg: "BodyText or BodyHTML is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			p := valid
			tt.mutate(&p)
			err := p.Validate()
			if tt.errMsg == "" {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, email.ErrInvalidParams)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestNewSender(t *testing.T) {
	t.Parallel()

	t.Run("dev sender without token", func(t *testing.T) {
		t.Parallel()
		s, err := email.NewSender(email.Config{SenderEmail: "no-reply@cargohub.example", SupportEmail: "support@cargohub.example", DevDir: t.TempDir()})
		require.NoError(t, err)
		assert.IsType(t, &email.DevSender{}, s)
	})

	t.Run("postmark requires account token", func(t *testing.T) {
		t.Parallel()
		_, err := email.NewSender(email.Config{
			PostmarkServerToken: "server",
			SenderEmail:         "no-reply@cargohub.example",
			SupportEmail:        "support@cargohub.example",
		})
		assert.ErrorIs(t, err, email.ErrInvalidConfig)
	})

	t.Run("postmark", func(t *testing.T) {
		t.Parallel()
		s, err := email.NewSender(email.Config{
			PostmarkServerToken:  "server",
			PostmarkAccountToken: "account",
			SenderEmail:          "no-reply@cargohub.example",
			SupportEmail:         "support@cargohub.example",
		})
		require.NoError(t, err)
		assert.NotNil(t, s)
	})
}
