// Package token issues and verifies signed, expiring capability tokens.
//
// A Codec is bound to one purpose: its own HMAC secret, its own time to live and
// an audience claim naming the purpose. Tokens are compact HS256 JWTs whose
// payload travels under the "data" claim. Nothing inside a token is trusted
// until Verify succeeds.
//
// Verify separates ErrExpired (signature valid, past its expiry) from
// ErrMalformed (anything else: bad structure, bad signature, another algorithm,
// another audience, no expiry), so callers can tell users to start over rather
// than report tampering.
//
//	pending, _ := token.New[token.Pending](token.Options{
//		Secret:   cfg.PendingSecret,
//		TTL:      token.PendingTTL,
//		Audience: token.AudiencePending,
//	})
//	issued, _ := pending.Issue(token.Pending{PersonID: id})
//	claims, err := pending.Verify(issued.Value)
package token
