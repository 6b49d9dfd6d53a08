// Package testudo provides the course catalog tools.
//
// Every tool issues exactly one request to the catalog API.
// When the request fails for any reason, or yields no records,
// the tool returns its fixed failure message as the result.
package testudo
