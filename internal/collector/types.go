package collector

import (
	"bytes"
	"encoding/json"
	"time"
)

// Report field names, in render order.
const (
	FieldComputerName = "Computer Name"
	FieldStoreNumber  = "Store Number"
	FieldDomain       = "Domain"
	FieldIPAddress    = "IP Address"
	FieldManufacturer = "Manufacturer"
	FieldModel        = "Model"
	FieldSerialNumber = "Serial Number"
	FieldDiskSize     = "Disk Size"
	FieldMemory       = "Memory"
	FieldOSBuild      = "OS Build"
	FieldBuildDate    = "Build Date"
	FieldLastReboot   = "Last Reboot"
	FieldRole         = "Role"
	FieldLatestUpdate = "Latest Update"
)

// FieldOrder lists every report field in the order it is rendered.
var FieldOrder = []string{
	FieldComputerName,
	FieldStoreNumber,
	FieldDomain,
	FieldIPAddress,
	FieldManufacturer,
	FieldModel,
	FieldSerialNumber,
	FieldDiskSize,
	FieldMemory,
	FieldOSBuild,
	FieldBuildDate,
	FieldLastReboot,
	FieldRole,
	FieldLatestUpdate,
}

// Placeholder values substituted when a field cannot be obtained.
const (
	Unknown              = "Unknown"
	RoleUnknown          = "UNKNOWN"
	FieldError           = "Error"
	NoUpdatesFound       = "No Updates Found"
	ErrorFetchingUpdates = "Error Fetching Updates"
)

// Field is a single name/value row of a Report.
type Field struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Report is an ordered, read-only snapshot of the local machine.
type Report struct {
	CollectedAt time.Time
	fields      []Field
}

// NewReport returns a Report holding a copy of fields.
func NewReport(collectedAt time.Time, fields []Field) *Report {
	f := make([]Field, len(fields))
	copy(f, fields)
	return &Report{CollectedAt: collectedAt, fields: f}
}

// Fields returns a copy of the report rows in order.
func (r *Report) Fields() []Field {
	out := make([]Field, len(r.fields))
	copy(out, r.fields)
	return out
}

// Get returns the value of the named field.
func (r *Report) Get(name string) (string, bool) {
	for _, f := range r.fields {
		if f.Name == name {
			return f.Value, true
		}
	}
	return "", false
}

// Len returns the number of fields.
func (r *Report) Len() int { return len(r.fields) }

// MarshalJSON encodes the report as a JSON object whose keys keep report order.
func (r *Report) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range r.fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(f.Name)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(f.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// NetworkIdentity holds the host name and its first resolved address.
type NetworkIdentity struct {
	Hostname  string
	IPAddress string
}

// DomainMembership holds the store number and domain parsed from the FQDN.
type DomainMembership struct {
	StoreNumber string
	Domain      string
}

// HardwareInventory holds the normalized hardware fields.
type HardwareInventory struct {
	Manufacturer string
	Model        string
	SerialNumber string
	DiskSize     string
	RAMTotal     string
}

// OSMetadata holds the normalized operating system fields.
type OSMetadata struct {
	Caption      string
	InstallDate  string
	LastBootTime string
}

// ComputerSystem is the first Win32_ComputerSystem record (or its firmware equivalent).
type ComputerSystem struct {
	Manufacturer        string
	Model               string
	TotalPhysicalMemory uint64
}

// BIOS is the first Win32_BIOS record.
type BIOS struct {
	SerialNumber string
}

// DiskDrive is a single Win32_DiskDrive record.
type DiskDrive struct {
	Model string
	Size  uint64
}

// OperatingSystem is the first Win32_OperatingSystem record. Timestamps are
// kept in their raw compact form.
type OperatingSystem struct {
	Caption        string
	InstallDate    string
	LastBootUpTime string
}

// UpdateEntry is one row of the local update-install history.
type UpdateEntry struct {
	Title string
	Date  time.Time
}
