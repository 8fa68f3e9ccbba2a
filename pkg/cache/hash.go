package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// hashKey generates a cache key by hashing the components.
// The key format is: prefix:hash(parts...)
func hashKey(prefix string, parts ...interface{}) string {
	data, _ := json.Marshal(parts)
	hash := sha256.Sum256(data)
	// Use full SHA-256 hash (64 hex chars / 256 bits) to prevent collisions
	return fmt.Sprintf("%s:%s", prefix, hex.EncodeToString(hash[:]))
}

// Hash computes a SHA-256 hash of the input data.
// Returns the full 64-character hex string.
func Hash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// HashFiles hashes the contents of paths in order. Missing files hash as
// absent rather than failing, so optional sidecars (.dbf, .prj) can be
// listed unconditionally.
func HashFiles(paths ...string) (string, error) {
	h := sha256.New()
	for _, p := range paths {
		fmt.Fprintf(h, "%s\x00", p)
		f, err := os.Open(p)
		if os.IsNotExist(err) {
			h.Write([]byte("absent\x00"))
			continue
		}
		if err != nil {
			return "", err
		}
		_, err = io.Copy(h, f)
		f.Close()
		if err != nil {
			return "", err
		}
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// PointsKeyOpts are the options that change which points a run produces.
type PointsKeyOpts struct {
	Columns     []string `json:"columns"`
	Labels      []string `json:"labels"`
	Seed        uint64   `json:"seed"`
	Divisor     float64  `json:"divisor"`
	MaxAttempts int      `json:"max_attempts"`
	KeyColumn   string   `json:"key_column"`
	KeyField    string   `json:"key_field"`
	Markers     []string `json:"markers"`
}

// PointsKey generates the key for points sampled from the inputs with the
// given content hashes.
func PointsKey(attrsHash, geomHash string, opts PointsKeyOpts) string {
	return hashKey("points", attrsHash, geomHash, opts)
}
