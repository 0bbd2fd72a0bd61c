// Package cookie writes and reads the httpOnly cookies that carry the login
// tokens. Values are stored as given, since the tokens are already signed.
//
//	m := cookie.New(cookie.WithSecure(true))
//	m.Set(w, "auth_session", value, cookie.WithMaxAge(9*60*60))
//	v, err := m.Get(r, "auth_session")
//	m.Delete(w, "auth_pending", cookie.WithPath("/login"))
package cookie
