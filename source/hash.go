package source

import (
	"github.com/minio/highwayhash"
)

var key = []byte("0123456789ABCDEF0123456789ABCDEF")

// Hash returns a highwayhash-64 digest of the supplied chunks
func Hash(chunks ...[]byte) (uint64, error) {
	hash, err := highwayhash.New64(key)
	if err != nil {
		return 0, err
	}
	for _, chunk := range chunks {
		if _, err = hash.Write(chunk); err != nil {
			return 0, err
		}
	}
	return hash.Sum64(), nil
}
