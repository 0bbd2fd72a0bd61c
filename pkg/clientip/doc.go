// Package clientip resolves the address of the caller.
//
// Forwarding headers (CF-Connecting-IP, X-Forwarded-For, X-Real-IP) are only
// honored when the direct peer is a configured trusted proxy. Otherwise the
// peer address from RemoteAddr is used. X-Forwarded-For is walked from the
// right so entries appended by trusted proxies are skipped and a client cannot
// choose its own address by prepending values.
//
// The middleware stores the result in the request context; an unresolvable
// address is stored as "".
package clientip
