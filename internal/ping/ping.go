// Package ping implements the Server List Ping (SLP) handshake used by
// vanilla and modded Minecraft servers to answer status queries over TCP.
package ping

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"strings"
	"unicode/utf8"

	"github.com/Syfaro/mcapi/internal/packet"
	"github.com/Syfaro/mcapi/internal/protoerr"
	"github.com/Syfaro/mcapi/internal/varint"
)

// maxStringLen bounds the declared length of the status JSON string. A
// server that claims more than this is treated as hostile or broken.
const maxStringLen = 10 * 1024 * 1024

// handshakeProtocolVersion is the protocol version number written first
// in the handshake payload (0x47, decimal 71). The "next state" field
// that requests the status response is the literal 1 written last.
const handshakeProtocolVersion = 0x47

// Version describes a server's reported protocol version.
type Version struct {
	Name     string `json:"name"`
	Protocol int    `json:"protocol"`
}

// PlayerSample is one entry of the optional online-player sample.
type PlayerSample struct {
	Name string `json:"name"`
	ID   string `json:"id"`
}

// Players describes server capacity and a sample of who is online.
type Players struct {
	Max    int            `json:"max"`
	Online int            `json:"online"`
	Sample []PlayerSample `json:"sample,omitempty"`
}

// Status is the decoded SLP status response.
type Status struct {
	Version     Version         `json:"version"`
	Players     Players         `json:"players"`
	Description json.RawMessage `json:"description"`
	Favicon     string          `json:"favicon,omitempty"`
}

// motd and motdExtra mirror the subset of the description JSON shape that
// carries plain text, used to project a flattened MOTD string.
type motdExtra struct {
	Text string `json:"text"`
}

type motd struct {
	Text  string      `json:"text"`
	Extra []motdExtra `json:"extra"`
}

// Motd flattens the server description into plain text, the way a vanilla
// client renders the server list entry. It returns "" if the description
// does not parse as the expected shape.
func (s Status) Motd() string {
	var m motd
	if err := json.Unmarshal(s.Description, &m); err != nil {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.Text)
	for _, extra := range m.Extra {
		b.WriteString(extra.Text)
	}
	return b.String()
}

// handshakePayload builds the handshake packet body: protocol version,
// server host and port, and the next-state field requesting status.
func handshakePayload(host string, port uint16) []byte {
	data := make([]byte, 0, 5+len(host))
	data = append(data, varint.Encode(handshakeProtocolVersion)...)
	data = append(data, varint.Encode(uint32(len(host)))...)
	data = append(data, host...)
	data = append(data, byte(port>>8), byte(port))
	data = append(data, varint.Encode(1)...)
	return data
}

// Fetch connects to addr over TCP, performs the SLP handshake for the
// given virtual host/port, and returns the parsed status response.
//
// host and port are the values the client claims to be connecting as,
// which may differ from addr when the caller already resolved a SRV
// record; the server uses them only to pick a virtual-host response.
func Fetch(ctx context.Context, addr string, host string, port uint16) (Status, error) {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return Status{}, fmt.Errorf("ping: dial: %w", err)
	}
	defer conn.Close()

	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	handshake := packet.Build(0x00, handshakePayload(host, port))
	if _, err := conn.Write(handshake); err != nil {
		return Status{}, fmt.Errorf("ping: write handshake: %w", err)
	}

	request := packet.Build(0x00, nil)
	if _, err := conn.Write(request); err != nil {
		return Status{}, fmt.Errorf("ping: write status request: %w", err)
	}

	// The response packet length and id are framed the same as any other
	// packet, but the payload itself starts with its own VarInt string
	// length rather than being the whole remaining payload, so we read it
	// field by field instead of using packet.Read.
	if _, err := varint.Decode(conn); err != nil {
		return Status{}, fmt.Errorf("ping: read packet length: %w", errVarint(err))
	}
	if _, err := varint.Decode(conn); err != nil {
		return Status{}, fmt.Errorf("ping: read packet id: %w", errVarint(err))
	}

	strLen, err := varint.Decode(conn)
	if err != nil {
		return Status{}, fmt.Errorf("ping: read string length: %w", errVarint(err))
	}
	if strLen > maxStringLen {
		return Status{}, fmt.Errorf("ping: status string of %d bytes: %w", strLen, protoerr.ErrPacketTooLarge)
	}

	body := make([]byte, strLen)
	if _, err := io.ReadFull(conn, body); err != nil {
		return Status{}, fmt.Errorf("ping: read status body: %w", err)
	}

	if !utf8.Valid(body) {
		return Status{}, fmt.Errorf("ping: status body: %w", protoerr.ErrUtf8)
	}

	var status Status
	if err := json.Unmarshal(body, &status); err != nil {
		return Status{}, fmt.Errorf("ping: decode status json: %w", err)
	}
	return status, nil
}

// errVarint wraps a VarInt decode failure with protoerr.ErrVarint unless
// it is already a plain I/O error (a closed or reset connection), which
// should classify as Io rather than Varint.
func errVarint(err error) error {
	if err == varint.ErrTooLong {
		return fmt.Errorf("%v: %w", err, protoerr.ErrVarint)
	}
	return err
}
