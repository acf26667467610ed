// Package app wires configuration, logging, metrics, the data service and
// the HTTP transport into a runnable web server.
package app
