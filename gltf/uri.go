// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package gltf

import (
	"encoding/base64"
	"strings"
)

// Media type used when embedding buffers.
const octetStream = "application/octet-stream"

// DecodeDataURI decodes a base64 data URI.
// ok is false if uri is not a data URI, in which case
// it should be resolved as a (relative) reference.
func DecodeDataURI(uri string) (b []byte, ok bool, err error) {
	if !strings.HasPrefix(uri, "data:") {
		return nil, false, nil
	}
	meta, payload, found := strings.Cut(uri[len("data:"):], ",")
	if !found || !strings.HasSuffix(meta, ";base64") {
		return nil, true, newErr("data URI is not base64-encoded")
	}
	b, err = base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, true, newErr("data URI: " + err.Error())
	}
	return b, true, nil
}

// EncodeDataURI encodes b as a base64 data URI.
func EncodeDataURI(b []byte) string {
	return "data:" + octetStream + ";base64," + base64.StdEncoding.EncodeToString(b)
}
