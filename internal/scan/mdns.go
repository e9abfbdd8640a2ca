package scan

import (
	"context"

	"github.com/grandcat/zeroconf"
	"go.uber.org/zap"

	"ra2audit/internal/logging"
)

const (
	// lutronServiceType is the mDNS service the controller advertises.
	lutronServiceType = "_lutron._tcp"

	// mdnsDomain is the mDNS domain (typically "local.").
	mdnsDomain = "local."
)

// mdnsCandidates browses for advertised controllers and returns their
// IPv4 addresses. mDNS is best-effort: any failure just yields an empty
// list and the subnet sweep proceeds without a seed.
func (s *Scanner) mdnsCandidates(ctx context.Context) []string {
	ctx, cancel := context.WithTimeout(ctx, s.MDNSTimeout)
	defer cancel()

	resolver, err := zeroconf.NewResolver(nil)
	if err != nil {
		logging.Debug("mDNS resolver unavailable", zap.Error(err))
		return nil
	}

	entries := make(chan *zeroconf.ServiceEntry)
	var addrs []string
	collected := make(chan struct{})
	go func() {
		defer close(collected)
		for entry := range entries {
			for _, addr := range entry.AddrIPv4 {
				addrs = append(addrs, addr.String())
			}
		}
	}()

	if err := resolver.Browse(ctx, lutronServiceType, mdnsDomain, entries); err != nil {
		logging.Debug("mDNS browse failed", zap.Error(err))
		return nil
	}

	<-ctx.Done()
	<-collected
	return addrs
}
