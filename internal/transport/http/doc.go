// Package http holds the HTTP transport layer: chi routers and handlers
// translating between the JSON API and the data service. Errors surface as
// RFC 7807 problem-details responses.
package http
