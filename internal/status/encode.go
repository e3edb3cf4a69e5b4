package status

import "encoding/json"

// Encode converts a Snapshot into its JSON payload.
// No IO. No side effects.
func Encode(s Snapshot) ([]byte, error) {
	return json.Marshal(s)
}
