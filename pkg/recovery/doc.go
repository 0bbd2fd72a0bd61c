// Package recovery manages single-use password reset tokens.
//
// A token is 32 random bytes encoded as unpadded base64url. Only a keyed
// digest of it is stored, so read access to the store without the pepper is
// not enough to forge a validation. Issuing a token for a person first marks
// every active token of that person used, so at most one token per person
// can validate at any time.
//
// Validate reports ErrAlreadyUsed before ErrExpired. Consume is called only
// after the new password is stored, so a failed update never burns a token.
package recovery
