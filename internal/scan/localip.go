package scan

import (
	"fmt"
	"net"
	"strings"
)

// Interface name prefixes conventionally used for a machine's primary
// network interface, wired or wireless.
var primaryIfacePrefixes = []string{"en", "eth", "wlan", "wlp", "wl"}

// addrCandidate pairs an interface name with one of its IPv4 addresses.
type addrCandidate struct {
	iface string
	ip    net.IP
}

// LocalIPv4 returns the machine's best primary IPv4 address: non-loopback,
// preferring conventional primary interface names, preferring 192.168.*
// when several interfaces qualify.
func LocalIPv4() (net.IP, error) {
	ifaces, err := net.Interfaces()
	if err != nil {
		return nil, fmt.Errorf("failed to list interfaces: %w", err)
	}

	var candidates []addrCandidate
	for _, iface := range ifaces {
		if iface.Flags&net.FlagUp == 0 || iface.Flags&net.FlagLoopback != 0 {
			continue
		}
		addrs, err := iface.Addrs()
		if err != nil {
			continue
		}
		for _, addr := range addrs {
			ipNet, ok := addr.(*net.IPNet)
			if !ok {
				continue
			}
			ip := ipNet.IP.To4()
			if ip == nil || ip.IsLoopback() {
				continue
			}
			candidates = append(candidates, addrCandidate{iface: iface.Name, ip: ip})
		}
	}

	best := pickBest(candidates)
	if best == nil {
		return nil, fmt.Errorf("no usable IPv4 address found")
	}
	return best, nil
}

// pickBest scores candidates and returns the winner: conventional primary
// interface names count most, a 192.168.* address breaks ties, first seen
// wins among equals.
func pickBest(candidates []addrCandidate) net.IP {
	var best net.IP
	bestScore := -1
	for _, c := range candidates {
		s := 0
		for _, prefix := range primaryIfacePrefixes {
			if strings.HasPrefix(c.iface, prefix) {
				s += 2
				break
			}
		}
		if strings.HasPrefix(c.ip.String(), "192.168.") {
			s++
		}
		if s > bestScore {
			bestScore = s
			best = c.ip
		}
	}
	return best
}

// Prefix24 returns the /24 prefix of an IPv4 address ("192.168.1.37" ->
// "192.168.1").
func Prefix24(ip net.IP) (string, error) {
	v4 := ip.To4()
	if v4 == nil {
		return "", fmt.Errorf("not an IPv4 address: %v", ip)
	}
	return fmt.Sprintf("%d.%d.%d", v4[0], v4[1], v4[2]), nil
}

// priorityHostSuffixes are host numbers where controllers and other network
// gear conventionally sit with static addresses; they are probed first.
var priorityHostSuffixes = []int{1, 2, 10, 100, 254}

// Candidates builds the probe order for a /24 prefix: the priority
// suffixes, then every remaining host 1-254 in numeric order, deduplicated.
func Candidates(prefix string) []string {
	seen := make(map[int]bool, 254)
	addrs := make([]string, 0, 254)

	add := func(suffix int) {
		if suffix < 1 || suffix > 254 || seen[suffix] {
			return
		}
		seen[suffix] = true
		addrs = append(addrs, fmt.Sprintf("%s.%d", prefix, suffix))
	}

	for _, suffix := range priorityHostSuffixes {
		add(suffix)
	}
	for suffix := 1; suffix <= 254; suffix++ {
		add(suffix)
	}
	return addrs
}
