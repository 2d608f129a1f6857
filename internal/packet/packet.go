// Package packet assembles and disassembles the length-prefixed,
// id-prefixed TCP packets used by the Minecraft SLP handshake.
package packet

import (
	"bytes"
	"fmt"
	"io"

	"github.com/Syfaro/mcapi/internal/varint"
)

// Build returns the wire bytes for a packet with the given id and payload:
//
//	VarInt(len(VarInt(id)) + len(payload)) || VarInt(id) || payload
func Build(id uint32, payload []byte) []byte {
	idBytes := varint.Encode(id)
	length := varint.Encode(uint32(len(idBytes) + len(payload)))

	out := make([]byte, 0, len(length)+len(idBytes)+len(payload))
	out = append(out, length...)
	out = append(out, idBytes...)
	out = append(out, payload...)
	return out
}

// Read reads one generic packet from r: a VarInt total length, a VarInt
// packet id, then exactly (total length - len(VarInt(id))) payload bytes.
func Read(r io.Reader) (id uint32, payload []byte, err error) {
	total, err := varint.Decode(r)
	if err != nil {
		return 0, nil, fmt.Errorf("packet: read length: %w", err)
	}

	// The id must be read from the same stream so that its byte-length can
	// be subtracted from total to find the payload length; buffer it.
	var idBuf bytes.Buffer
	id, err = varint.Decode(io.TeeReader(r, &idBuf))
	if err != nil {
		return 0, nil, fmt.Errorf("packet: read id: %w", err)
	}

	idLen := idBuf.Len()
	if uint32(idLen) > total {
		return 0, nil, fmt.Errorf("packet: id longer than declared length")
	}

	payload = make([]byte, total-uint32(idLen))
	if _, err := io.ReadFull(r, payload); err != nil {
		return 0, nil, fmt.Errorf("packet: read payload: %w", err)
	}

	return id, payload, nil
}
