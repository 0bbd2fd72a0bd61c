package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/cargohub/authcore/pkg/email"
	"github.com/cargohub/authcore/pkg/email/templates"
)

//go:generate templ generate -f reset_email.templ

const (
	resetSubject = "Reset your CargoHub password"
	resetTag     = "password-reset"
)

func resetText(link string, minutes int) string {
	return fmt.Sprintf(
		"We received a request to reset your password.\n\nOpen this link within %d minutes to choose a new one:\n%s\n\nIf you did not ask for this, ignore this message. Your password stays unchanged.\n",
		minutes, link)
}

func resetMessage(ctx context.Context, to, link string, ttl time.Duration) (email.SendEmailParams, error) {
	minutes := int(ttl.Minutes())
	html, err := templates.Render(ctx, resetHTML(link, minutes))
	if err != nil {
		return email.SendEmailParams{}, err
	}
	return email.SendEmailParams{
		SendTo:   to,
		Subject:  resetSubject,
		BodyText: resetText(link, minutes),
		BodyHTML: html,
		Tag:      resetTag,
	}, nil
}
