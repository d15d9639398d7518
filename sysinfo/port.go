package sysinfo

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shirou/gopsutil/v3/net"
)

// DefaultPort is the application's web UI port.
const DefaultPort = 7851

// connectionsFn is the connection enumeration backend, replaced in tests.
var connectionsFn = net.ConnectionsWithContext

// PortInUse reports whether any inet connection has port as its local port.
func PortInUse(ctx context.Context, port int) (bool, error) {
	conns, err := connectionsFn(ctx, "inet")
	if err != nil {
		return false, fmt.Errorf("listing connections: %w", err)
	}
	for _, c := range conns {
		if int(c.Laddr.Port) == port {
			return true, nil
		}
	}
	return false, nil
}

// portStatus renders PortInUse as a status line. The result is only valid at
// the moment of the check.
func portStatus(ctx context.Context, port int, logger *slog.Logger) Fact {
	inUse, err := PortInUse(ctx, port)
	if err != nil {
		logger.Debug("port check failed", "port", port, "error", err)
		return Absent(NotAvailable)
	}
	if inUse {
		return Found(fmt.Sprintf("Port %d is in use.", port))
	}
	return Found(fmt.Sprintf("Port %d is available.", port))
}
