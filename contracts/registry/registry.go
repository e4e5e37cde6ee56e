// Package registry defines the wire contract of the community registry
// service. The gateway client and the mock registry both build against these
// types so the two sides cannot drift apart.
package registry

// ExistsResponse is the body of GET /communities/{uniqID}/exists.
type ExistsResponse struct {
	UniqID string `json:"uniq_id"`
	Exists bool   `json:"exists"`
}

// ErrorResponse is the body of any non-2xx registry reply.
type ErrorResponse struct {
	Error string `json:"error"`
}
