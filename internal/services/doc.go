// Package services holds the business layer between transport and the
// dataset core. DataService owns the current dataset snapshot, rebuilds it
// on demand, and exposes the query operations the HTTP handlers and CLI
// commands call.
package services
