package table

import (
	"github.com/arloliu/qpack/format"
	"github.com/arloliu/qpack/internal/hash"
)

type staticField struct {
	name  string
	value string
}

// staticFields is the QPACK static table (RFC 9204 Appendix A). The position
// in the slice is the static index.
var staticFields = [...]staticField{
	{":authority", ""},
	{":path", "/"},
	{"age", "0"},
	{"content-disposition", ""},
	{"content-length", "0"},
	{"cookie", ""},
	{"date", ""},
	{"etag", ""},
	{"if-modified-since", ""},
	{"if-none-match", ""},
	{"last-modified", ""},
	{"link", ""},
	{"location", ""},
	{"referer", ""},
	{"set-cookie", ""},
	{":method", "CONNECT"},
	{":method", "DELETE"},
	{":method", "GET"},
	{":method", "HEAD"},
	{":method", "OPTIONS"},
	{":method", "POST"},
	{":method", "PUT"},
	{":scheme", "http"},
	{":scheme", "https"},
	{":status", "103"},
	{":status", "200"},
	{":status", "304"},
	{":status", "404"},
	{":status", "503"},
	{"accept", "*/*"},
	{"accept", "application/dns-message"},
	{"accept-encoding", "gzip, deflate, br"},
	{"accept-ranges", "bytes"},
	{"access-control-allow-headers", "cache-control"},
	{"access-control-allow-headers", "content-type"},
	{"access-control-allow-origin", "*"},
	{"cache-control", "max-age=0"},
	{"cache-control", "max-age=2592000"},
	{"cache-control", "max-age=604800"},
	{"cache-control", "no-cache"},
	{"cache-control", "no-store"},
	{"cache-control", "public, max-age=31536000"},
	{"content-encoding", "br"},
	{"content-encoding", "gzip"},
	{"content-type", "application/dns-message"},
	{"content-type", "application/javascript"},
	{"content-type", "application/json"},
	{"content-type", "application/x-www-form-urlencoded"},
	{"content-type", "image/gif"},
	{"content-type", "image/jpeg"},
	{"content-type", "image/png"},
	{"content-type", "text/css"},
	{"content-type", "text/html; charset=utf-8"},
	{"content-type", "text/plain"},
	{"content-type", "text/plain;charset=utf-8"},
	{"range", "bytes=0-"},
	{"strict-transport-security", "max-age=31536000"},
	{"strict-transport-security", "max-age=31536000; includesubdomains"},
	{"strict-transport-security", "max-age=31536000; includesubdomains; preload"},
	{"vary", "accept-encoding"},
	{"vary", "origin"},
	{"x-content-type-options", "nosniff"},
	{"x-xss-protection", "1; mode=block"},
	{":status", "100"},
	{":status", "204"},
	{":status", "206"},
	{":status", "302"},
	{":status", "400"},
	{":status", "403"},
	{":status", "421"},
	{":status", "425"},
	{":status", "500"},
	{"accept-language", ""},
	{"access-control-allow-credentials", "FALSE"},
	{"access-control-allow-credentials", "TRUE"},
	{"access-control-allow-headers", "*"},
	{"access-control-allow-methods", "get"},
	{"access-control-allow-methods", "get, post, options"},
	{"access-control-allow-methods", "options"},
	{"access-control-expose-headers", "content-length"},
	{"access-control-request-headers", "content-type"},
	{"access-control-request-method", "get"},
	{"access-control-request-method", "post"},
	{"alt-svc", "clear"},
	{"authorization", ""},
	{"content-security-policy", "script-src 'none'; object-src 'none'; base-uri 'none'"},
	{"early-data", "1"},
	{"expect-ct", ""},
	{"forwarded", ""},
	{"if-range", ""},
	{"origin", ""},
	{"purpose", "prefetch"},
	{"server", ""},
	{"timing-allow-origin", "*"},
	{"upgrade-insecure-requests", "1"},
	{"user-agent", ""},
	{"x-forwarded-for", ""},
	{"x-frame-options", "deny"},
	{"x-frame-options", "sameorigin"},
}

// StaticTableSize is the number of entries in the static table.
const StaticTableSize = len(staticFields)

// staticIndex maps xxHash64 keys to candidate static indices. Candidates are
// confirmed by comparing strings, so a key collision never yields a wrong entry.
type staticIndex struct {
	fields map[uint64][]uint64 // hash.Field(name, value) -> indices
	names  map[uint64][]uint64 // hash.Name(name) -> indices, lowest first
}

var static = buildStaticIndex()

func buildStaticIndex() *staticIndex {
	idx := &staticIndex{
		fields: make(map[uint64][]uint64, StaticTableSize),
		names:  make(map[uint64][]uint64, StaticTableSize),
	}

	for i, f := range staticFields {
		fk := hash.Field(f.name, f.value)
		idx.fields[fk] = append(idx.fields[fk], uint64(i)) //nolint:gosec

		nk := hash.Name(f.name)
		idx.names[nk] = append(idx.names[nk], uint64(i)) //nolint:gosec
	}

	return idx
}

// StaticEntry returns the static table entry at index as a fully indexed
// entry. ok is false when index is out of range.
func StaticEntry(index uint64) (Entry, bool) {
	if index >= uint64(StaticTableSize) {
		return Entry{}, false
	}
	f := staticFields[index]

	return Entry{
		Index:  index,
		Static: true,
		Name:   f.name,
		Value:  f.value,
		Type:   format.EntryNameValue,
	}, true
}

// LookupStatic finds the best static table reference for a header field.
//
// An exact name/value match yields a format.EntryNameValue entry. A name-only
// match yields a format.EntryName entry carrying value as its literal, using
// the lowest index with that name. ok is false when the name is not in the
// static table; callers then fall back to NewLiteral or a dynamic entry.
func LookupStatic(name, value string, huffman bool) (Entry, bool) {
	for _, i := range static.fields[hash.Field(name, value)] {
		f := staticFields[i]
		if f.name == name && f.value == value {
			return Entry{
				Index:        i,
				Static:       true,
				Name:         name,
				Value:        value,
				HuffmanValue: huffman,
				Type:         format.EntryNameValue,
			}, true
		}
	}

	for _, i := range static.names[hash.Name(name)] {
		if staticFields[i].name == name {
			return Entry{
				Index:        i,
				Static:       true,
				Name:         name,
				Value:        value,
				HuffmanValue: huffman,
				Type:         format.EntryName,
			}, true
		}
	}

	return Entry{}, false
}
