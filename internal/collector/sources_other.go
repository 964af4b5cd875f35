//go:build !windows

package collector

import (
	"context"
	"fmt"
)

// unsupportedSource stands in for the WMI, registry and update agent
// sources on platforms that do not have them.
type unsupportedSource struct {
	name string
}

func (s unsupportedSource) err() error {
	return fmt.Errorf("%s: %w", s.name, ErrUnsupported)
}

func (s unsupportedSource) ComputerSystem(context.Context) (ComputerSystem, error) {
	return ComputerSystem{}, s.err()
}

func (s unsupportedSource) BIOS(context.Context) (BIOS, error) { return BIOS{}, s.err() }

func (s unsupportedSource) DiskDrives(context.Context) ([]DiskDrive, error) { return nil, s.err() }

func (s unsupportedSource) OperatingSystem(context.Context) (OperatingSystem, error) {
	return OperatingSystem{}, s.err()
}

func (s unsupportedSource) StringValue(context.Context, string, string) (string, error) {
	return "", s.err()
}

func (s unsupportedSource) History(context.Context) ([]UpdateEntry, error) { return nil, s.err() }

// DefaultSources returns the sources available off Windows: the OS
// resolver and the SMBIOS tables. Everything else reports ErrUnsupported.
func DefaultSources() Sources {
	return Sources{
		Network:  NewNetworkSource(),
		Hardware: WithFallback(unsupportedSource{name: "WMI"}, NewFirmwareSource()),
		OS:       unsupportedSource{name: "WMI"},
		Config:   unsupportedSource{name: "registry"},
		Updates:  unsupportedSource{name: "Windows Update Agent"},
	}
}

// Ping reports that the management service is unavailable on this platform.
func Ping() error {
	return fmt.Errorf("WMI: %w", ErrUnsupported)
}
