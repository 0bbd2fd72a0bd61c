// Package otp issues and verifies short numeric one-time codes used as the
// second login factor.
//
// A code is six random digits, stored only as a digest, valid for a fixed TTL
// and limited to a fixed number of wrong guesses. Every Issue creates a new
// row; Verify always targets the current row, which is the most recently
// created row of the person that has not been used.
//
// Verify checks, in order: a current row exists, the row has not expired, the
// attempt budget is not exhausted, and finally the digest. Before comparing it
// reserves one attempt through Store.IncrementAttempts, so at most MaxAttempts
// comparisons ever run against a row, even under concurrent requests. Expired
// rows never consume attempts.
package otp
