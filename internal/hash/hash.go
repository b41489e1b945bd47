// Package hash computes the xxHash64 keys of the static table index.
package hash

import "github.com/cespare/xxhash/v2"

// fieldSeparator cannot appear in a valid field name, so distinct name/value
// splits of the same bytes hash differently.
const fieldSeparator = 0x00

// Name computes the key of a field name.
func Name(name string) uint64 {
	return xxhash.Sum64String(name)
}

// Field computes the key of a name/value pair.
func Field(name, value string) uint64 {
	d := xxhash.New()
	_, _ = d.WriteString(name)
	_, _ = d.Write([]byte{fieldSeparator})
	_, _ = d.WriteString(value)

	return d.Sum64()
}
