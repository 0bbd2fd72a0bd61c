package otp

import (
	"context"
	"fmt"
	"time"

	"github.com/cargohub/authcore/pkg/email"
	"github.com/cargohub/authcore/pkg/email/templates"
)

//go:generate templ generate -f code_email.templ

const (
	messageSubject = "Your CargoHub sign-in code"
	messageTag     = "login-code"
)

func codeText(code string, minutes int) string {
	return fmt.Sprintf(
		"Your sign-in code is %s.\n\nIt is valid for %d minutes. If you did not try to sign in, change your password.\n",
		code, minutes)
}

func codeMessage(ctx context.Context, to, code string, ttl time.Duration) (email.SendEmailParams, error) {
	minutes := int(ttl.Minutes())
	html, err := templates.Render(ctx, codeHTML(code, minutes))
	if err != nil {
		return email.SendEmailParams{}, err
	}
	return email.SendEmailParams{
		SendTo:   to,
		Subject:  messageSubject,
		BodyText: codeText(code, minutes),
		BodyHTML: html,
		Tag:      messageTag,
	}, nil
}
