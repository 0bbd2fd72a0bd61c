// Package account exposes login with an emailed second factor and password
// recovery over JSON HTTP.
//
// The pending second factor token travels in an httpOnly cookie scoped to
// /login. After the code is verified it is replaced by the session cookie.
// Handlers take the client address from the clientip middleware, which must
// run before the router.
package account
