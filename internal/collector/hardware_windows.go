//go:build windows

package collector

import (
	"context"

	"github.com/yusufpapurcu/wmi"
)

type win32ComputerSystem struct {
	Manufacturer        string
	Model               string
	TotalPhysicalMemory uint64
}

type win32BIOS struct {
	SerialNumber string
}

type win32DiskDrive struct {
	Model string
	Size  uint64
}

type win32OperatingSystem struct {
	Caption        string
	InstallDate    string
	LastBootUpTime string
}

// wmiSource serves hardware and OS records from the local WMI service.
type wmiSource struct {
	query func(query string, dst interface{}, connectServerArgs ...interface{}) error
}

func newWMISource() *wmiSource {
	return &wmiSource{query: wmi.Query}
}

// ComputerSystem queries Win32_ComputerSystem for manufacturer, model and
// installed memory.
func (s *wmiSource) ComputerSystem(ctx context.Context) (ComputerSystem, error) {
	if err := ctx.Err(); err != nil {
		return ComputerSystem{}, err
	}
	var cs []win32ComputerSystem
	if err := s.query("SELECT Manufacturer, Model, TotalPhysicalMemory FROM Win32_ComputerSystem", &cs); err != nil {
		return ComputerSystem{}, err
	}
	if len(cs) == 0 {
		return ComputerSystem{}, ErrNoRecords
	}
	return ComputerSystem{
		Manufacturer:        cs[0].Manufacturer,
		Model:               cs[0].Model,
		TotalPhysicalMemory: cs[0].TotalPhysicalMemory,
	}, nil
}

// BIOS queries Win32_BIOS for the chassis serial number.
func (s *wmiSource) BIOS(ctx context.Context) (BIOS, error) {
	if err := ctx.Err(); err != nil {
		return BIOS{}, err
	}
	var bios []win32BIOS
	if err := s.query("SELECT SerialNumber FROM Win32_BIOS", &bios); err != nil {
		return BIOS{}, err
	}
	if len(bios) == 0 {
		return BIOS{}, ErrNoRecords
	}
	return BIOS{SerialNumber: bios[0].SerialNumber}, nil
}

// DiskDrives queries Win32_DiskDrive in enumeration order.
func (s *wmiSource) DiskDrives(ctx context.Context) ([]DiskDrive, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var dd []win32DiskDrive
	if err := s.query("SELECT Model, Size FROM Win32_DiskDrive", &dd); err != nil {
		return nil, err
	}
	result := make([]DiskDrive, len(dd))
	for i, d := range dd {
		result[i] = DiskDrive{Model: d.Model, Size: d.Size}
	}
	return result, nil
}

// OperatingSystem queries Win32_OperatingSystem. The datetime properties are
// read as strings so they keep their raw CIM form.
func (s *wmiSource) OperatingSystem(ctx context.Context) (OperatingSystem, error) {
	if err := ctx.Err(); err != nil {
		return OperatingSystem{}, err
	}
	var osr []win32OperatingSystem
	if err := s.query("SELECT Caption, InstallDate, LastBootUpTime FROM Win32_OperatingSystem", &osr); err != nil {
		return OperatingSystem{}, err
	}
	if len(osr) == 0 {
		return OperatingSystem{}, ErrNoRecords
	}
	return OperatingSystem{
		Caption:        osr[0].Caption,
		InstallDate:    osr[0].InstallDate,
		LastBootUpTime: osr[0].LastBootUpTime,
	}, nil
}
