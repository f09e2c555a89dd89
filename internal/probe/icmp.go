package probe

import (
	"context"
	"net"
	"time"

	ping "github.com/digineo/go-ping"
)

// ICMPTransport measures round-trip time with a single ICMP echo
// request. The raw socket is opened per probe; the open doubles as the
// runtime capability check, since privileges can change between calls.
type ICMPTransport struct{}

// RTT resolves the target and sends one echo request.
func (ICMPTransport) RTT(ctx context.Context, target string, timeout time.Duration) (time.Duration, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	addr, err := net.ResolveIPAddr("ip", target)
	if err != nil {
		return 0, err
	}

	var bind4, bind6 string
	if addr.IP.To4() != nil {
		bind4 = "0.0.0.0"
	} else {
		bind6 = "::"
	}

	pinger, err := ping.New(bind4, bind6)
	if err != nil {
		return 0, err
	}
	defer pinger.Close()

	return pinger.PingAttempts(addr, timeout, 1)
}
