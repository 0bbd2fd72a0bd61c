// Package binder decodes request bodies into handler input structs.
//
// JSON is strict: the media type must be application/json, unknown fields are
// rejected, the body is capped at MaxJSONSize and trailing data after the
// object is an error.
package binder
