// internal/status/decode.go
package status

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ErrMissingField is wrapped when a snapshot key is absent.
var ErrMissingField = errors.New("status: missing field")

// ErrFieldType is wrapped when a snapshot key is not a JSON string.
var ErrFieldType = errors.New("status: field is not a string")

// Decode parses a status-update body.
// All seven keys must be present and string-valued; anything else fails the
// whole snapshot so that stale values stay on screen instead of "undefined".
// Extra keys are ignored. Partial snapshots such as
// {"server-status":"RUNNING","defcon":"3"} are rejected on purpose.
func Decode(body []byte) (Snapshot, error) {
	var raw map[string]jsoniter.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return Snapshot{}, fmt.Errorf("status: decode: %w", err)
	}
	if raw == nil {
		return Snapshot{}, fmt.Errorf("status: decode: body is not a JSON object")
	}

	var missing, mistyped []string

	for _, k := range Keys {
		v, ok := raw[k]
		if !ok {
			missing = append(missing, k)
			continue
		}
		if jsoniter.Get(v).ValueType() != jsoniter.StringValue {
			mistyped = append(mistyped, k)
		}
	}

	if len(missing) > 0 || len(mistyped) > 0 {
		sort.Strings(missing)
		sort.Strings(mistyped)

		var errs []error
		if len(missing) > 0 {
			errs = append(errs, fmt.Errorf("%w: %s", ErrMissingField, strings.Join(missing, ", ")))
		}
		if len(mistyped) > 0 {
			errs = append(errs, fmt.Errorf("%w: %s", ErrFieldType, strings.Join(mistyped, ", ")))
		}
		return Snapshot{}, errors.Join(errs...)
	}

	var s Snapshot
	if err := json.Unmarshal(body, &s); err != nil {
		return Snapshot{}, fmt.Errorf("status: decode: %w", err)
	}
	return s, nil
}
