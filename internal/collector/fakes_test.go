package collector

import (
	"context"
)

type fakeNetwork struct {
	hostname    string
	hostnameErr error
	addrs       []string
	lookupErr   error
	fqdn        string
	fqdnErr     error
}

func (f *fakeNetwork) Hostname() (string, error) { return f.hostname, f.hostnameErr }

func (f *fakeNetwork) LookupHost(context.Context, string) ([]string, error) {
	return f.addrs, f.lookupErr
}

func (f *fakeNetwork) FQDN(context.Context, string) (string, error) { return f.fqdn, f.fqdnErr }

type fakeHardware struct {
	cs      ComputerSystem
	csErr   error
	bios    BIOS
	biosErr error
	disks   []DiskDrive
	diskErr error
	panics  bool
}

func (f *fakeHardware) ComputerSystem(context.Context) (ComputerSystem, error) {
	if f.panics {
		panic("wmi exploded")
	}
	return f.cs, f.csErr
}

func (f *fakeHardware) BIOS(context.Context) (BIOS, error) { return f.bios, f.biosErr }

func (f *fakeHardware) DiskDrives(context.Context) ([]DiskDrive, error) { return f.disks, f.diskErr }

type fakeOS struct {
	os  OperatingSystem
	err error
}

func (f *fakeOS) OperatingSystem(context.Context) (OperatingSystem, error) { return f.os, f.err }

type fakeConfig struct {
	values  map[string]string
	err     error
	gotPath string
	gotName string
}

func (f *fakeConfig) StringValue(_ context.Context, path, name string) (string, error) {
	f.gotPath, f.gotName = path, name
	if f.err != nil {
		return "", f.err
	}
	v, ok := f.values[path+`\`+name]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

type fakeUpdates struct {
	history []UpdateEntry
	err     error
	block   bool
}

func (f *fakeUpdates) History(ctx context.Context) ([]UpdateEntry, error) {
	if f.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return f.history, f.err
}

// populatedSources returns fakes for a healthy store workstation.
func populatedSources() Sources {
	return Sources{
		Network: &fakeNetwork{
			hostname: "host",
			addrs:    []string{"fe80::1", "10.1.2.3"},
			fqdn:     "host.1234.midwest.corp.example.com",
		},
		Hardware: &fakeHardware{
			cs:    ComputerSystem{Manufacturer: "Dell Inc.", Model: "OptiPlex 7090", TotalPhysicalMemory: 16 * bytesPerGiB},
			bios:  BIOS{SerialNumber: " ABC1234 "},
			disks: []DiskDrive{{Model: "NVMe", Size: 256*bytesPerGiB + bytesPerGiB/2}, {Model: "USB", Size: 8 * bytesPerGiB}},
		},
		OS: &fakeOS{os: OperatingSystem{
			Caption:        "Microsoft Windows 11 Enterprise",
			InstallDate:    "20230115093000.000000-360",
			LastBootUpTime: "20240503143000.000000-360",
		}},
		Config: &fakeConfig{values: map[string]string{
			DefaultRolePath + `\` + DefaultRoleName: "POS",
		}},
		Updates: &fakeUpdates{history: []UpdateEntry{
			{Title: "Security Intelligence Update for Microsoft Defender"},
			{Title: "2024-04 Cumulative Update for Windows 11 (KB5036893)"},
			{Title: "2024-03 Cumulative Update for Windows 11 (KB5035853)"},
		}},
	}
}
