package scan

import (
	"context"
	"net"
	"sort"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"ra2audit/internal/logging"
)

const (
	// DefaultPort is the telnet port the controller's integration
	// protocol listens on.
	DefaultPort = 23

	// DefaultBatchSize is how many hosts are probed concurrently.
	DefaultBatchSize = 20

	// DefaultProbeTimeout bounds both the TCP connect and the banner
	// read of a single probe.
	DefaultProbeTimeout = time.Second

	// bannerReadLimit caps how many bytes a probe will read from a
	// responder before classifying it.
	bannerReadLimit = 1024
)

// bannerMarkers are substrings (matched case-insensitively) that mark a
// responder as controller-like.
var bannerMarkers = []string{"login", "lutron", "gnet"}

// Host is one responding address found during a scan.
type Host struct {
	IPAddress      string
	Port           int
	ControllerLike bool
	Banner         string
}

// Scanner probes a candidate address list in concurrent batches and
// reports responders, controller-like hosts first. A Scanner runs one
// scan at a time; a second Scan started while one is in flight returns
// an empty result immediately.
type Scanner struct {
	// Port is the TCP port probed on every candidate.
	Port int

	// BatchSize is the number of concurrent probes per batch.
	BatchSize int

	// ProbeTimeout bounds the connect and banner read of each probe.
	ProbeTimeout time.Duration

	// MDNSTimeout, when positive, enables an mDNS pre-pass that seeds
	// the candidate list with advertised controllers.
	MDNSTimeout time.Duration

	// OnProgress, if set, is called after every completed probe with
	// the running count and the total candidate count.
	OnProgress func(scanned, total int)

	// OnHost, if set, is called as each responding host is recorded.
	OnHost func(Host)

	running atomic.Bool
}

// NewScanner returns a Scanner with the standard port, batch size, and
// probe timeout.
func NewScanner() *Scanner {
	return &Scanner{
		Port:         DefaultPort,
		BatchSize:    DefaultBatchSize,
		ProbeTimeout: DefaultProbeTimeout,
	}
}

// ScanSubnet derives the local /24 from the machine's primary IPv4
// address and scans it. When the mDNS pre-pass is enabled, any
// advertised controller addresses are probed ahead of the generated
// candidates.
func (s *Scanner) ScanSubnet(ctx context.Context) ([]Host, error) {
	ip, err := LocalIPv4()
	if err != nil {
		return nil, err
	}
	prefix, err := Prefix24(ip)
	if err != nil {
		return nil, err
	}

	addrs := Candidates(prefix)
	if s.MDNSTimeout > 0 {
		addrs = prepend(s.mdnsCandidates(ctx), addrs)
	}
	return s.Scan(ctx, addrs), nil
}

// Scan probes the given addresses in batches. It stops issuing batches
// once a controller-like host has been found, lets the current batch
// drain, and returns responders with controller-like hosts first.
func (s *Scanner) Scan(ctx context.Context, addrs []string) []Host {
	if !s.running.CompareAndSwap(false, true) {
		return nil
	}
	defer s.running.Store(false)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	batch := s.BatchSize
	if batch <= 0 {
		batch = DefaultBatchSize
	}
	port := s.Port
	if port <= 0 {
		port = DefaultPort
	}

	var (
		mu      sync.Mutex
		hosts   []Host
		scanned int
		found   bool
	)
	total := len(addrs)

	for start := 0; start < total; start += batch {
		end := start + batch
		if end > total {
			end = total
		}

		g := new(errgroup.Group)
		for _, addr := range addrs[start:end] {
			addr := addr
			g.Go(func() error {
				host, ok := s.probe(ctx, addr, port)

				mu.Lock()
				scanned++
				done, count := scanned, total
				if ok {
					hosts = append(hosts, host)
					if host.ControllerLike {
						found = true
						// Abandon the rest of the batch.
						cancel()
					}
				}
				mu.Unlock()

				if ok && s.OnHost != nil {
					s.OnHost(host)
				}
				if s.OnProgress != nil {
					s.OnProgress(done, count)
				}
				return nil
			})
		}
		_ = g.Wait()

		mu.Lock()
		stop := found
		mu.Unlock()
		if stop || ctx.Err() != nil {
			break
		}
	}

	sort.SliceStable(hosts, func(i, j int) bool {
		return hosts[i].ControllerLike && !hosts[j].ControllerLike
	})
	return hosts
}

// probe connects to one candidate, reads at most one banner, and
// classifies the responder. The bool reports whether anything answered.
// Port is already normalized by Scan, so the recorded Host.Port is the
// port actually probed.
func (s *Scanner) probe(ctx context.Context, addr string, port int) (Host, bool) {
	timeout := s.ProbeTimeout
	if timeout <= 0 {
		timeout = DefaultProbeTimeout
	}

	dialer := net.Dialer{Timeout: timeout}
	conn, err := dialer.DialContext(ctx, "tcp", net.JoinHostPort(addr, strconv.Itoa(port)))
	if err != nil {
		return Host{}, false
	}
	defer conn.Close()

	_ = conn.SetReadDeadline(time.Now().Add(timeout))
	buf := make([]byte, bannerReadLimit)
	n, _ := conn.Read(buf)
	banner := string(buf[:n])

	host := Host{
		IPAddress:      addr,
		Port:           port,
		ControllerLike: bannerLooksLikeController(banner),
		Banner:         banner,
	}
	logging.LogProbe(addr, true, host.ControllerLike)
	return host, true
}

// bannerLooksLikeController reports whether a banner matches any of the
// controller markers, case-insensitively.
func bannerLooksLikeController(banner string) bool {
	lower := strings.ToLower(banner)
	for _, marker := range bannerMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

// prepend places extra addresses ahead of the base list, dropping
// duplicates.
func prepend(extra, base []string) []string {
	if len(extra) == 0 {
		return base
	}
	seen := make(map[string]bool, len(extra)+len(base))
	merged := make([]string, 0, len(extra)+len(base))
	for _, addr := range append(extra, base...) {
		if seen[addr] {
			continue
		}
		seen[addr] = true
		merged = append(merged, addr)
	}
	return merged
}
