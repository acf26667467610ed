// Package websocket streams dataset build events to browser clients. The
// Hub fans broadcast messages out to all connected clients; slow clients
// are dropped rather than allowed to stall the hub.
package websocket
