package collector

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned by a LocalConfigSource when the key or value does not exist.
	ErrNotFound = errors.New("not found")
	// ErrUnsupported is returned by sources that cannot run on this platform.
	ErrUnsupported = errors.New("not supported on this platform")
	// ErrNoRecords is returned when a query succeeds but yields no rows.
	ErrNoRecords = errors.New("no records returned")
)

// NetworkIdentitySource resolves the machine's own network names.
type NetworkIdentitySource interface {
	Hostname() (string, error)
	LookupHost(ctx context.Context, name string) ([]string, error)
	FQDN(ctx context.Context, hostname string) (string, error)
}

// HardwareInventorySource exposes the computer-system, BIOS and disk-drive records.
type HardwareInventorySource interface {
	ComputerSystem(ctx context.Context) (ComputerSystem, error)
	BIOS(ctx context.Context) (BIOS, error)
	DiskDrives(ctx context.Context) ([]DiskDrive, error)
}

// OsMetadataSource exposes the operating system record.
type OsMetadataSource interface {
	OperatingSystem(ctx context.Context) (OperatingSystem, error)
}

// LocalConfigSource reads named values from the machine-scoped configuration store.
type LocalConfigSource interface {
	StringValue(ctx context.Context, path, name string) (string, error)
}

// UpdateHistorySource enumerates the local update-install history.
type UpdateHistorySource interface {
	History(ctx context.Context) ([]UpdateEntry, error)
}

// Sources bundles the capabilities the Collector merges.
type Sources struct {
	Network  NetworkIdentitySource
	Hardware HardwareInventorySource
	OS       OsMetadataSource
	Config   LocalConfigSource
	Updates  UpdateHistorySource
}
