package store

import (
	"sort"
	"strconv"

	"github.com/cespare/xxhash"
	"uk.co.dudmesh.napbook/internal/model"
)

// ETag hashes the property set in key order, so equal contents give equal tags.
func ETag(props model.Properties) string {
	keys := make([]string, 0, len(props))
	for k := range props {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	hash := xxhash.New()
	for _, k := range keys {
		hash.Write([]byte(k))
		hash.Write([]byte{0})
		hash.Write([]byte(props[k]))
		hash.Write([]byte{0})
	}
	return strconv.FormatUint(hash.Sum64(), 16)
}
