package collector

import (
	"context"
	"fmt"

	"github.com/siderolabs/go-smbios/smbios"
	"go.uber.org/multierr"
)

// firmwareSource reads system identity straight from the SMBIOS tables.
type firmwareSource struct {
	read func() (*smbios.SMBIOS, error)
}

// NewFirmwareSource returns a HardwareInventorySource backed by SMBIOS. It
// serves manufacturer, model and serial number only.
func NewFirmwareSource() HardwareInventorySource {
	return &firmwareSource{read: smbios.New}
}

func (s *firmwareSource) tables(ctx context.Context) (*smbios.SMBIOS, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	t, err := s.read()
	if err != nil {
		return nil, fmt.Errorf("read SMBIOS: %w", err)
	}
	return t, nil
}

func (s *firmwareSource) ComputerSystem(ctx context.Context) (ComputerSystem, error) {
	t, err := s.tables(ctx)
	if err != nil {
		return ComputerSystem{}, err
	}
	return ComputerSystem{
		Manufacturer: t.SystemInformation.Manufacturer,
		Model:        t.SystemInformation.ProductName,
	}, nil
}

func (s *firmwareSource) BIOS(ctx context.Context) (BIOS, error) {
	t, err := s.tables(ctx)
	if err != nil {
		return BIOS{}, err
	}
	return BIOS{SerialNumber: t.SystemInformation.SerialNumber}, nil
}

func (s *firmwareSource) DiskDrives(context.Context) ([]DiskDrive, error) {
	return nil, fmt.Errorf("SMBIOS disk drives: %w", ErrUnsupported)
}

// fallbackHardware answers from primary and consults secondary only for
// records primary could not produce.
type fallbackHardware struct {
	primary   HardwareInventorySource
	secondary HardwareInventorySource
}

// WithFallback returns a HardwareInventorySource that tries primary first
// and secondary when a primary query fails.
func WithFallback(primary, secondary HardwareInventorySource) HardwareInventorySource {
	return &fallbackHardware{primary: primary, secondary: secondary}
}

func (f *fallbackHardware) ComputerSystem(ctx context.Context) (ComputerSystem, error) {
	cs, err := f.primary.ComputerSystem(ctx)
	if err == nil {
		return cs, nil
	}
	cs, ferr := f.secondary.ComputerSystem(ctx)
	if ferr != nil {
		return ComputerSystem{}, multierr.Combine(err, ferr)
	}
	return cs, nil
}

func (f *fallbackHardware) BIOS(ctx context.Context) (BIOS, error) {
	b, err := f.primary.BIOS(ctx)
	if err == nil {
		return b, nil
	}
	b, ferr := f.secondary.BIOS(ctx)
	if ferr != nil {
		return BIOS{}, multierr.Combine(err, ferr)
	}
	return b, nil
}

func (f *fallbackHardware) DiskDrives(ctx context.Context) ([]DiskDrive, error) {
	return f.primary.DiskDrives(ctx)
}
