// internal/status/constants.go
package status

// Status snapshot keys as served by /request/status-update.json.
// These values define the wire contract and MUST NOT be configurable.

const (
	KeyServerStatus     = "server-status"
	KeyDatabaseStatus   = "database-status"
	KeyDockerStatus     = "docker-status"
	KeyPolyfierPhase    = "polyfier-phase"
	KeyPolyphenyControl = "polypheny-control"
	KeyPolyphenyDB      = "polypheny-db"
	KeyDefcon           = "defcon"
)

// ---- DISPLAY ELEMENTS ----

// Element IDs the snapshot is written into. Two keys render under a
// different element name than their wire key.
const (
	ElementServerStatus     = "server-status"
	ElementDatabaseStatus   = "database-status"
	ElementDockerStatus     = "docker-status"
	ElementPolyfierPhase    = "polyfier-phase"
	ElementPolyphenyControl = "polypheny-control-status"
	ElementPolyphenyDB      = "pdb-client-status"
	ElementDefcon           = "defcon"
)

// Keys lists the snapshot keys in display order.
var Keys = []string{
	KeyServerStatus,
	KeyDatabaseStatus,
	KeyDockerStatus,
	KeyPolyfierPhase,
	KeyPolyphenyControl,
	KeyPolyphenyDB,
	KeyDefcon,
}

// ElementFor maps a snapshot key to its display element.
var ElementFor = map[string]string{
	KeyServerStatus:     ElementServerStatus,
	KeyDatabaseStatus:   ElementDatabaseStatus,
	KeyDockerStatus:     ElementDockerStatus,
	KeyPolyfierPhase:    ElementPolyfierPhase,
	KeyPolyphenyControl: ElementPolyphenyControl,
	KeyPolyphenyDB:      ElementPolyphenyDB,
	KeyDefcon:           ElementDefcon,
}

// ---- VALUES ----

// ValueRunning is the only healthy server-status.
const ValueRunning = "RUNNING"

// ValueConnected is the only healthy value for connection-type fields.
const ValueConnected = "CONNECTED"

// ValueDisconnected is reported by the server when a link is down.
const ValueDisconnected = "DISCONNECTED"

// ValueUnknown is reported for checks the server has not implemented.
const ValueUnknown = "UNKNOWN"
