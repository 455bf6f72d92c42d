// internal/status/snapshot.go
package status

// Snapshot is one status-update response.
// It contains no logic and no memory of the past; every poll replaces it.
type Snapshot struct {
	ServerStatus     string `json:"server-status"`
	DatabaseStatus   string `json:"database-status"`
	DockerStatus     string `json:"docker-status"`
	PolyfierPhase    string `json:"polyfier-phase"`
	PolyphenyControl string `json:"polypheny-control"`
	PolyphenyDB      string `json:"polypheny-db"`
	Defcon           string `json:"defcon"`
}

// Value returns the field stored under a wire key.
func (s Snapshot) Value(key string) (string, bool) {
	switch key {
	case KeyServerStatus:
		return s.ServerStatus, true
	case KeyDatabaseStatus:
		return s.DatabaseStatus, true
	case KeyDockerStatus:
		return s.DockerStatus, true
	case KeyPolyfierPhase:
		return s.PolyfierPhase, true
	case KeyPolyphenyControl:
		return s.PolyphenyControl, true
	case KeyPolyphenyDB:
		return s.PolyphenyDB, true
	case KeyDefcon:
		return s.Defcon, true
	}
	return "", false
}

// Field is one rendered display update.
type Field struct {
	Key     string
	Element string
	Text    string
	Color   Color // ColorNone => leave the element's color as is
}

// Fields expands the snapshot into display updates in Keys order.
func (s Snapshot) Fields() []Field {
	out := make([]Field, 0, len(Keys))
	for _, k := range Keys {
		v, _ := s.Value(k)
		out = append(out, Field{
			Key:     k,
			Element: ElementFor[k],
			Text:    v,
			Color:   ColorFor(k, v),
		})
	}
	return out
}
