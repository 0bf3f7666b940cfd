package block

import (
	"encoding/json"
	"testing"
)

// FuzzBlockUnmarshal checks that arbitrary JSON never panics when
// unmarshaled into a Block and then exercised.
func FuzzBlockUnmarshal(f *testing.F) {
	f.Add([]byte(`{"prev_hash":"00000000000000000000000000000000000000000000000000000000000000","transactions":[]}`))
	f.Add([]byte(`{}`))
	f.Add([]byte(`null`))

	f.Fuzz(func(t *testing.T, data []byte) {
		var b Block
		if err := json.Unmarshal(data, &b); err != nil {
			return
		}
		b.Hash()
		_ = b.Validate()
		_ = b.Coinbase()
	})
}
