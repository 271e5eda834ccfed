package syntax

import (
	"github.com/minio/highwayhash"
)

var hashKey = []byte("leaplint-highwayhash-key-32bytes")

// Hash fingerprints unit text so a corrected unit can be told apart from its original.
func Hash(text string) (uint64, error) {
	h, err := highwayhash.New64(hashKey)
	if err != nil {
		return 0, err
	}
	if _, err := h.Write([]byte(text)); err != nil {
		return 0, err
	}
	return h.Sum64(), nil
}
