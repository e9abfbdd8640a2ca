package scan

import (
	"context"
	"net"
	"strconv"
	"sync"
	"testing"
	"time"
)

// freePort reserves a TCP port by binding and immediately releasing it.
// Listeners in these tests bind distinct loopback addresses (127.0.0.2,
// 127.0.0.3, ...) on the same port, which Linux permits.
func freePort(t *testing.T) int {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to reserve port: %v", err)
	}
	port := ln.Addr().(*net.TCPAddr).Port
	_ = ln.Close()
	return port
}

// startResponder listens on addr:port and writes banner to every
// connection. An empty banner makes it a silent responder.
func startResponder(t *testing.T, addr string, port int, banner string) {
	t.Helper()
	ln, err := net.Listen("tcp", net.JoinHostPort(addr, strconv.Itoa(port)))
	if err != nil {
		t.Skipf("cannot bind %s: %v", addr, err)
	}
	t.Cleanup(func() { _ = ln.Close() })

	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			if banner != "" {
				_, _ = conn.Write([]byte(banner))
			}
			go func(c net.Conn) {
				time.Sleep(5 * time.Second)
				_ = c.Close()
			}(conn)
		}
	}()
}

func newTestScanner(port int) *Scanner {
	s := NewScanner()
	s.Port = port
	s.ProbeTimeout = 200 * time.Millisecond
	return s
}

func TestScanFindsControllerLikeHost(t *testing.T) {
	port := freePort(t)
	startResponder(t, "127.0.0.2", port, "login: ")

	s := newTestScanner(port)
	hosts := s.Scan(context.Background(), []string{"127.0.0.5", "127.0.0.2"})

	if len(hosts) != 1 {
		t.Fatalf("Scan() found %d hosts, want 1: %v", len(hosts), hosts)
	}
	h := hosts[0]
	if h.IPAddress != "127.0.0.2" || !h.ControllerLike {
		t.Errorf("host = %+v, want controller-like 127.0.0.2", h)
	}
	if h.Port != port {
		t.Errorf("host port = %d, want %d", h.Port, port)
	}
}

func TestScanRecordsNonControllerResponders(t *testing.T) {
	port := freePort(t)
	startResponder(t, "127.0.0.3", port, "SSH-2.0-OpenSSH_9.0\r\n")
	startResponder(t, "127.0.0.4", port, "")

	s := newTestScanner(port)
	hosts := s.Scan(context.Background(), []string{"127.0.0.3", "127.0.0.4"})

	if len(hosts) != 2 {
		t.Fatalf("Scan() found %d hosts, want 2: %v", len(hosts), hosts)
	}
	for _, h := range hosts {
		if h.ControllerLike {
			t.Errorf("host %s classified controller-like from banner %q", h.IPAddress, h.Banner)
		}
	}
}

func TestScanStopsAfterControllerFound(t *testing.T) {
	port := freePort(t)
	startResponder(t, "127.0.0.2", port, "login: ")

	addrs := []string{
		"127.0.0.2", "127.0.0.6",
		"127.0.0.7", "127.0.0.8",
		"127.0.0.9", "127.0.0.10",
	}

	var mu sync.Mutex
	maxScanned, total := 0, 0
	s := newTestScanner(port)
	s.BatchSize = 2
	s.OnProgress = func(scanned, t int) {
		mu.Lock()
		if scanned > maxScanned {
			maxScanned = scanned
		}
		total = t
		mu.Unlock()
	}

	hosts := s.Scan(context.Background(), addrs)

	if len(hosts) == 0 || !hosts[0].ControllerLike {
		t.Fatalf("Scan() = %v, want controller-like host first", hosts)
	}

	mu.Lock()
	defer mu.Unlock()
	if total != len(addrs) {
		t.Errorf("progress total = %d, want %d", total, len(addrs))
	}
	// Only the first batch should have run.
	if maxScanned > s.BatchSize {
		t.Errorf("scanned %d hosts after the controller turned up, want at most %d", maxScanned, s.BatchSize)
	}
}

func TestScanProgressCoversAllCandidates(t *testing.T) {
	port := freePort(t)

	var mu sync.Mutex
	calls, last := 0, 0
	s := newTestScanner(port)
	s.OnProgress = func(scanned, total int) {
		mu.Lock()
		calls++
		last = scanned
		mu.Unlock()
	}

	addrs := []string{"127.0.0.20", "127.0.0.21", "127.0.0.22"}
	hosts := s.Scan(context.Background(), addrs)

	if len(hosts) != 0 {
		t.Errorf("Scan() = %v, want no hosts", hosts)
	}
	mu.Lock()
	defer mu.Unlock()
	if calls != len(addrs) || last != len(addrs) {
		t.Errorf("progress calls = %d, last scanned = %d, want both %d", calls, last, len(addrs))
	}
}

func TestScanRejectsOverlappingRuns(t *testing.T) {
	port := freePort(t)
	// A silent responder keeps the probe alive for the full read timeout.
	startResponder(t, "127.0.0.2", port, "")

	s := newTestScanner(port)
	s.ProbeTimeout = 500 * time.Millisecond

	done := make(chan struct{})
	go func() {
		defer close(done)
		s.Scan(context.Background(), []string{"127.0.0.2"})
	}()

	time.Sleep(100 * time.Millisecond)
	start := time.Now()
	if hosts := s.Scan(context.Background(), []string{"127.0.0.2"}); hosts != nil {
		t.Errorf("overlapping Scan() = %v, want nil", hosts)
	}
	if elapsed := time.Since(start); elapsed > 200*time.Millisecond {
		t.Errorf("overlapping Scan() blocked for %v", elapsed)
	}
	<-done
}

func TestScanHonorsContextCancellation(t *testing.T) {
	port := freePort(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := newTestScanner(port)
	hosts := s.Scan(ctx, []string{"127.0.0.30", "127.0.0.31"})
	if len(hosts) != 0 {
		t.Errorf("Scan() with canceled context = %v, want no hosts", hosts)
	}
}

func TestProbeReportsProbedPort(t *testing.T) {
	port := freePort(t)
	startResponder(t, "127.0.0.2", port, "login: ")

	// Port left zero on the Scanner: the recorded port must be the one
	// actually probed, not the raw field.
	s := &Scanner{ProbeTimeout: 200 * time.Millisecond}
	host, ok := s.probe(context.Background(), "127.0.0.2", port)

	if !ok {
		t.Fatal("probe() found nothing, want responder")
	}
	if host.Port != port {
		t.Errorf("host port = %d, want %d", host.Port, port)
	}
}

func TestBannerLooksLikeController(t *testing.T) {
	tests := []struct {
		banner string
		want   bool
	}{
		{"login: ", true},
		{"LUTRON integration access", true},
		{"GNET> ", true},
		{"SSH-2.0-OpenSSH_9.0", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := bannerLooksLikeController(tt.banner); got != tt.want {
			t.Errorf("bannerLooksLikeController(%q) = %v, want %v", tt.banner, got, tt.want)
		}
	}
}
