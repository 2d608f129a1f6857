// Package serveraddr normalizes the host/port pair a client requests a
// lookup for, matching the original service's lenient "ip" query
// parameter that may embed the port as "host:port".
package serveraddr

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Syfaro/mcapi/internal/protoerr"
)

// DefaultPort is used when the request gives no port at all.
const DefaultPort uint16 = 25565

// MinPort is the lowest port a lookup is allowed to target; anything
// below is almost certainly not a Minecraft server.
const MinPort uint16 = 1024

// Addr is a normalized host/port pair ready to hand to a resolver.
type Addr struct {
	Host string
	Port uint16
}

// Parse splits host into a bare hostname and port, preferring an
// explicit port parameter when given, then a "host:port" suffix
// embedded in host, then DefaultPort.
func Parse(host string, port *uint16) (Addr, error) {
	if port != nil {
		return validate(Addr{Host: host, Port: *port})
	}

	if i := strings.LastIndex(host, ":"); i >= 0 {
		if parsed, err := strconv.ParseUint(host[i+1:], 10, 16); err == nil {
			return validate(Addr{Host: host[:i], Port: uint16(parsed)})
		}
	}

	return validate(Addr{Host: host, Port: DefaultPort})
}

func validate(a Addr) (Addr, error) {
	if a.Port < MinPort {
		return Addr{}, fmt.Errorf("serveraddr: port %d: %w", a.Port, protoerr.ErrInvalidPort)
	}
	return a, nil
}
