// Package protoerr defines the sentinel error kinds named by spec.md §7.
// Protocol and resolver code wraps these with fmt.Errorf("...: %w", ...);
// the envelope layer unwraps them back to the human-readable kind string
// stored in an offline envelope's error field.
package protoerr

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"strconv"
)

// ErrUtf8 is returned when a protocol field that must be valid UTF-8
// (the SLP status JSON string) is not.
var ErrUtf8 = errors.New("invalid utf-8")

var (
	// ErrInvalidPort is returned when a requested port is below 1024.
	ErrInvalidPort = errors.New("invalid port")
	// ErrResolveFailed is returned when the DNS resolver could not produce
	// any candidate address for a host.
	ErrResolveFailed = errors.New("resolve failed")
	// ErrTimeout marks a protocol exchange that exceeded its budget. Kind
	// reports "Timeout" for it and equally for a context deadline or a
	// network timeout error, which is how an exchange's deadline surfaces.
	ErrTimeout = errors.New("timeout")
	// ErrVarint is returned for a malformed VarInt (more than five bytes);
	// an I/O failure while reading one is left unwrapped and classifies as Io.
	ErrVarint = errors.New("varint")
	// ErrPacketTooLarge is returned when a status response declares a
	// string length over the 10 MiB bound.
	ErrPacketTooLarge = errors.New("packet too large")
)

// Kind maps an error to the short kind string spec.md §7 uses in an
// envelope's error field (Timeout for deadline errors; Io, Json, Utf8,
// Number for passthrough stdlib errors; the literal sentinel name
// otherwise).
func Kind(err error) string {
	var netErr net.Error
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidPort):
		return "InvalidPort"
	case errors.Is(err, ErrResolveFailed):
		return "ResolveFailed"
	case errors.Is(err, ErrTimeout), errors.Is(err, context.DeadlineExceeded),
		errors.As(err, &netErr) && netErr.Timeout():
		return "Timeout"
	case errors.Is(err, ErrVarint):
		return "Varint"
	case errors.Is(err, ErrPacketTooLarge):
		return "PacketTooLarge"
	case errors.Is(err, ErrUtf8):
		return "Utf8"
	default:
		return classifyStdlib(err)
	}
}

// classifyStdlib maps an error from the standard library to the kind
// string spec.md §7 assigns it, falling back to "Io" for anything else
// (the common case: a net.Error from a dial, read, or write).
func classifyStdlib(err error) string {
	var jsonErr *json.SyntaxError
	var jsonTypeErr *json.UnmarshalTypeError
	var numErr *strconv.NumError
	switch {
	case errors.As(err, &jsonErr), errors.As(err, &jsonTypeErr):
		return "Json"
	case errors.Is(err, ErrUtf8):
		return "Utf8"
	case errors.As(err, &numErr):
		return "Number"
	default:
		return "Io"
	}
}
