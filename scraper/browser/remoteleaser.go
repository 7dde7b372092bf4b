package browser

import (
	"net"

	"github.com/pkg/errors"
)

// RemoteLeaser attaches to a chrome that was started with
// --remote-debugging-port, it never starts or stops the process
type RemoteLeaser struct {
	addr string
}

// NewRemoteLeaser for the debugger at host:port
func NewRemoteLeaser(addr string) *RemoteLeaser {
	return &RemoteLeaser{addr: addr}
}

// Acquire returns the configured address
func (s *RemoteLeaser) Acquire() (string, error) {
	if _, _, err := net.SplitHostPort(s.addr); err != nil {
		return "", errors.Wrapf(err, "invalid chrome remote address %q", s.addr)
	}
	return s.addr, nil
}

// Return is a no-op, the browser belongs to someone else
func (s *RemoteLeaser) Return(addr string) error {
	return nil
}

// Cleanup is a no-op
func (s *RemoteLeaser) Cleanup() error {
	return nil
}
