package collector

import (
	"context"
	"net"
	"os"
	"strings"
)

type resolverSource struct {
	resolver *net.Resolver
}

// NewNetworkSource returns a NetworkIdentitySource backed by the OS resolver.
func NewNetworkSource() NetworkIdentitySource {
	return &resolverSource{resolver: net.DefaultResolver}
}

func (s *resolverSource) Hostname() (string, error) {
	return os.Hostname()
}

func (s *resolverSource) LookupHost(ctx context.Context, name string) ([]string, error) {
	return s.resolver.LookupHost(ctx, name)
}

// FQDN returns the first dotted name the resolver knows for hostname. When
// nothing better is found the bare hostname is returned, so the caller
// decides whether the shape is usable.
func (s *resolverSource) FQDN(ctx context.Context, hostname string) (string, error) {
	if strings.Contains(hostname, ".") {
		return hostname, nil
	}

	if cname, err := s.resolver.LookupCNAME(ctx, hostname); err == nil {
		if name := strings.TrimSuffix(cname, "."); strings.Contains(name, ".") {
			return name, nil
		}
	}

	addrs, err := s.resolver.LookupHost(ctx, hostname)
	if err != nil {
		return hostname, nil
	}
	for _, addr := range addrs {
		names, err := s.resolver.LookupAddr(ctx, addr)
		if err != nil {
			continue
		}
		for _, n := range names {
			if n = strings.TrimSuffix(n, "."); strings.Contains(n, ".") {
				return n, nil
			}
		}
	}
	return hostname, nil
}
