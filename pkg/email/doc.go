// Package email sends transactional messages through a provider-agnostic
// EmailSender.
//
// Two senders are provided: a Postmark client for real delivery and DevSender,
// which writes each message to disk for local inspection. NewSender picks one
// based on whether a Postmark server token is configured.
//
//	sender, err := email.NewSender(cfg)
//	if err != nil {
//	    return err
//	}
//	err = sender.SendEmail(ctx, email.SendEmailParams{
//	    SendTo:   "dispatch@carrier.example",
//	    Subject:  "Your sign-in code",
//	    BodyText: text,
//	    BodyHTML: html,
//	    Tag:      "login-code",
//	})
//
// HTML bodies are usually templ components rendered with templates.Render.
// All senders validate parameters first and report ErrInvalidParams, and
// delivery failures wrap ErrFailedToSendEmail.
package email
