// Package hasher implements the one-way transformations used by the auth core.
//
// Passwords are bound to a deployment-wide pepper and then hashed with bcrypt,
// so a leaked digest cannot be checked offline without the pepper. One-time
// codes are hashed with bcrypt directly since they are short-lived and narrow in
// scope. Keyed produces a deterministic HMAC-SHA256 digest of a secret, used
// where the stored value must be looked up by digest (recovery tokens).
//
// Rotating the pepper invalidates every password digest and every keyed digest
// issued under the previous value.
//
// Verification never fails loudly: malformed or foreign digests simply do not
// match.
package hasher
