// Package auth composes the hasher, token codecs and code and reset-token
// engines into the two user-facing flows.
//
// Login is a three-state machine. Valid credentials move an anonymous caller
// to the pending state: a short-lived pending token is returned and a one-time
// code is emailed. Verifying the code with that token issues a session token
// carrying the person, access record, email, client address and role.
// Neither token is stored, so logout only discards the session token on the
// client side.
//
// Recovery emails a single-use reset link and later swaps a valid token for a
// new password. Requests for unknown addresses succeed silently.
package auth
