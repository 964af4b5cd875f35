package collector

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Defaults for Options fields left empty.
const (
	DefaultRolePath          = `SOFTWARE\Workstation\Build`
	DefaultRoleName          = "Role"
	DefaultUpdateTitleFilter = "Cumulative Update"
	DefaultUpdateTimeout     = 60 * time.Second
)

var errEmptyValue = errors.New("empty value")

// Options tunes how the Collector queries and formats fields.
type Options struct {
	RolePath          string
	RoleName          string
	UpdateTitleFilter string
	UpdateTimeout     time.Duration
	SizeFormat        SizeFormat
}

// DefaultOptions returns the options used when none are configured.
func DefaultOptions() Options {
	return Options{
		RolePath:          DefaultRolePath,
		RoleName:          DefaultRoleName,
		UpdateTitleFilter: DefaultUpdateTitleFilter,
		UpdateTimeout:     DefaultUpdateTimeout,
		SizeFormat:        SizeRounded,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.RolePath == "" {
		o.RolePath = d.RolePath
	}
	if o.RoleName == "" {
		o.RoleName = d.RoleName
	}
	if o.UpdateTitleFilter == "" {
		o.UpdateTitleFilter = d.UpdateTitleFilter
	}
	if o.UpdateTimeout <= 0 {
		o.UpdateTimeout = d.UpdateTimeout
	}
	if o.SizeFormat == "" {
		o.SizeFormat = d.SizeFormat
	}
	return o
}

// Collector merges the injected sources into a Report. Every field is
// fetched and normalized independently; a failing source only degrades
// the fields it feeds.
type Collector struct {
	src    Sources
	opts   Options
	logger *zap.Logger
	now    func() time.Time
}

// New returns a Collector over src. A nil logger disables logging.
func New(src Sources, opts Options, logger *zap.Logger) *Collector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Collector{
		src:    src,
		opts:   opts.withDefaults(),
		logger: logger.Named("collector"),
		now:    time.Now,
	}
}

// Collect queries every source exactly once and assembles the report.
// The report is always complete: unavailable fields carry placeholder
// values. The returned error combines every field-level failure and is
// informational only.
func (c *Collector) Collect(ctx context.Context) (*Report, error) {
	log := c.logger.With(zap.String("run_id", uuid.NewString()))
	log.Info("Collecting system report")

	var errs error

	id, err := c.resolveNetworkIdentity(ctx, log)
	errs = multierr.Append(errs, err)

	dm := DomainMembership{StoreNumber: Unknown, Domain: Unknown}
	if id.Hostname != Unknown {
		dm, err = c.resolveDomainMembership(ctx, log, id.Hostname)
		errs = multierr.Append(errs, err)
	}

	hw, err := c.queryHardwareInventory(ctx, log)
	errs = multierr.Append(errs, err)

	osm, err := c.queryOSMetadata(ctx, log)
	errs = multierr.Append(errs, err)

	role, err := c.queryLocalRole(ctx, log)
	errs = multierr.Append(errs, err)

	update, err := c.queryLatestCumulativeUpdate(ctx, log)
	errs = multierr.Append(errs, err)

	report := NewReport(c.now().UTC(), []Field{
		{FieldComputerName, id.Hostname},
		{FieldStoreNumber, dm.StoreNumber},
		{FieldDomain, dm.Domain},
		{FieldIPAddress, id.IPAddress},
		{FieldManufacturer, hw.Manufacturer},
		{FieldModel, hw.Model},
		{FieldSerialNumber, hw.SerialNumber},
		{FieldDiskSize, hw.DiskSize},
		{FieldMemory, hw.RAMTotal},
		{FieldOSBuild, osm.Caption},
		{FieldBuildDate, osm.InstallDate},
		{FieldLastReboot, osm.LastBootTime},
		{FieldRole, role},
		{FieldLatestUpdate, update},
	})

	if errs != nil {
		log.Warn("System report collected with unavailable fields",
			zap.Int("failures", len(multierr.Errors(errs))))
	} else {
		log.Info("System report collected")
	}
	return report, errs
}

// ResolveNetworkIdentity returns the host name and its first resolved address.
func (c *Collector) ResolveNetworkIdentity(ctx context.Context) (NetworkIdentity, error) {
	return c.resolveNetworkIdentity(ctx, c.logger)
}

// ResolveDomainMembership parses the store number and domain out of the
// fully qualified name of hostname.
func (c *Collector) ResolveDomainMembership(ctx context.Context, hostname string) (DomainMembership, error) {
	return c.resolveDomainMembership(ctx, c.logger, hostname)
}

// QueryHardwareInventory returns manufacturer, model, serial number, first
// disk size and total memory.
func (c *Collector) QueryHardwareInventory(ctx context.Context) (HardwareInventory, error) {
	return c.queryHardwareInventory(ctx, c.logger)
}

// QueryOSMetadata returns the OS caption, install date and last boot time.
func (c *Collector) QueryOSMetadata(ctx context.Context) (OSMetadata, error) {
	return c.queryOSMetadata(ctx, c.logger)
}

// QueryLocalRole reads the role tag from the local configuration store.
func (c *Collector) QueryLocalRole(ctx context.Context) (string, error) {
	return c.queryLocalRole(ctx, c.logger)
}

// QueryLatestCumulativeUpdate returns the title of the newest history entry
// matching the configured title filter.
func (c *Collector) QueryLatestCumulativeUpdate(ctx context.Context) (string, error) {
	return c.queryLatestCumulativeUpdate(ctx, c.logger)
}

func (c *Collector) resolveNetworkIdentity(ctx context.Context, log *zap.Logger) (NetworkIdentity, error) {
	id := NetworkIdentity{Hostname: Unknown, IPAddress: Unknown}
	if c.src.Network == nil {
		return id, fieldFailed(log, ErrUnsupported, FieldComputerName, FieldIPAddress)
	}

	host, err := guard(func() (string, error) { return c.src.Network.Hostname() })
	if err == nil && strings.TrimSpace(host) == "" {
		err = errEmptyValue
	}
	if err != nil {
		return id, fieldFailed(log, err, FieldComputerName, FieldIPAddress)
	}
	id.Hostname = strings.TrimSpace(host)

	addrs, err := guard(func() ([]string, error) { return c.src.Network.LookupHost(ctx, id.Hostname) })
	if err == nil && len(addrs) == 0 {
		err = ErrNoRecords
	}
	if err != nil {
		return id, fieldFailed(log, err, FieldIPAddress)
	}
	id.IPAddress = firstAddress(addrs)
	return id, nil
}

// firstAddress prefers the first IPv4 address, falling back to the first entry.
func firstAddress(addrs []string) string {
	for _, a := range addrs {
		if ip := net.ParseIP(a); ip != nil && ip.To4() != nil {
			return a
		}
	}
	return addrs[0]
}

func (c *Collector) resolveDomainMembership(ctx context.Context, log *zap.Logger, hostname string) (DomainMembership, error) {
	if c.src.Network == nil {
		return DomainMembership{StoreNumber: FieldError, Domain: FieldError},
			fieldFailed(log, ErrUnsupported, FieldStoreNumber, FieldDomain)
	}

	fqdn, err := guard(func() (string, error) { return c.src.Network.FQDN(ctx, hostname) })
	if err != nil {
		return DomainMembership{StoreNumber: FieldError, Domain: FieldError},
			fieldFailed(log, err, FieldStoreNumber, FieldDomain)
	}

	dm := SplitFQDN(fqdn)
	if dm.StoreNumber == Unknown {
		log.Info("Host name does not follow the store naming convention", zap.String("fqdn", fqdn))
	}
	return dm, nil
}

func (c *Collector) queryHardwareInventory(ctx context.Context, log *zap.Logger) (HardwareInventory, error) {
	hw := HardwareInventory{
		Manufacturer: Unknown,
		Model:        Unknown,
		SerialNumber: Unknown,
		DiskSize:     Unknown,
		RAMTotal:     Unknown,
	}
	src := c.src.Hardware
	if src == nil {
		return hw, fieldFailed(log, ErrUnsupported,
			FieldManufacturer, FieldModel, FieldSerialNumber, FieldDiskSize, FieldMemory)
	}

	var errs error

	cs, err := guard(func() (ComputerSystem, error) { return src.ComputerSystem(ctx) })
	if err != nil {
		errs = multierr.Append(errs, fieldFailed(log, err, FieldManufacturer, FieldModel, FieldMemory))
	} else {
		hw.Manufacturer, err = passthrough(cs.Manufacturer)
		errs = multierr.Append(errs, fieldFailed(log, err, FieldManufacturer))
		hw.Model, err = passthrough(cs.Model)
		errs = multierr.Append(errs, fieldFailed(log, err, FieldModel))
		hw.RAMTotal, err = c.gib(cs.TotalPhysicalMemory)
		errs = multierr.Append(errs, fieldFailed(log, err, FieldMemory))
	}

	bios, err := guard(func() (BIOS, error) { return src.BIOS(ctx) })
	if err == nil {
		hw.SerialNumber, err = passthrough(bios.SerialNumber)
	}
	errs = multierr.Append(errs, fieldFailed(log, err, FieldSerialNumber))

	disks, err := guard(func() ([]DiskDrive, error) { return src.DiskDrives(ctx) })
	if err == nil && len(disks) == 0 {
		err = ErrNoRecords
	}
	if err == nil {
		hw.DiskSize, err = c.gib(disks[0].Size)
	}
	errs = multierr.Append(errs, fieldFailed(log, err, FieldDiskSize))

	return hw, errs
}

func (c *Collector) gib(bytes uint64) (string, error) {
	if bytes == 0 {
		return Unknown, errEmptyValue
	}
	return FormatGiB(bytes, c.opts.SizeFormat), nil
}

func passthrough(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Unknown, errEmptyValue
	}
	return s, nil
}

func (c *Collector) queryOSMetadata(ctx context.Context, log *zap.Logger) (OSMetadata, error) {
	md := OSMetadata{Caption: Unknown, InstallDate: Unknown, LastBootTime: Unknown}
	if c.src.OS == nil {
		return md, fieldFailed(log, ErrUnsupported, FieldOSBuild, FieldBuildDate, FieldLastReboot)
	}

	osr, err := guard(func() (OperatingSystem, error) { return c.src.OS.OperatingSystem(ctx) })
	if err != nil {
		return md, fieldFailed(log, err, FieldOSBuild, FieldBuildDate, FieldLastReboot)
	}

	var errs error
	md.Caption, err = passthrough(osr.Caption)
	errs = multierr.Append(errs, fieldFailed(log, err, FieldOSBuild))
	md.InstallDate, err = compactToDisplay(osr.InstallDate)
	errs = multierr.Append(errs, fieldFailed(log, err, FieldBuildDate))
	md.LastBootTime, err = compactToDisplay(osr.LastBootUpTime)
	errs = multierr.Append(errs, fieldFailed(log, err, FieldLastReboot))
	return md, errs
}

func compactToDisplay(raw string) (string, error) {
	t, err := ParseCompactTimestamp(raw)
	if err != nil {
		return Unknown, err
	}
	return FormatTimestamp(t), nil
}

func (c *Collector) queryLocalRole(ctx context.Context, log *zap.Logger) (string, error) {
	if c.src.Config == nil {
		return FieldError, fieldFailed(log, ErrUnsupported, FieldRole)
	}

	role, err := guard(func() (string, error) {
		return c.src.Config.StringValue(ctx, c.opts.RolePath, c.opts.RoleName)
	})
	switch {
	case errors.Is(err, ErrNotFound):
		log.Info("Role value not set on this machine",
			zap.String("path", c.opts.RolePath+`\`+c.opts.RoleName),
			zap.String("default", RoleUnknown))
		return RoleUnknown, fmt.Errorf("%s: %w", FieldRole, err)
	case err != nil:
		return FieldError, fieldFailed(log, err, FieldRole)
	}

	role = strings.TrimSpace(role)
	if role == "" {
		return RoleUnknown, fieldFailed(log, errEmptyValue, FieldRole)
	}
	return role, nil
}

func (c *Collector) queryLatestCumulativeUpdate(ctx context.Context, log *zap.Logger) (string, error) {
	if c.src.Updates == nil {
		return ErrorFetchingUpdates, fieldFailed(log, ErrUnsupported, FieldLatestUpdate)
	}

	ctx, cancel := context.WithTimeout(ctx, c.opts.UpdateTimeout)
	defer cancel()

	history, err := guard(func() ([]UpdateEntry, error) { return c.src.Updates.History(ctx) })
	if err != nil {
		return ErrorFetchingUpdates, fieldFailed(log, err, FieldLatestUpdate)
	}

	if latest, ok := LatestMatching(history, c.opts.UpdateTitleFilter); ok {
		return latest.Title, nil
	}
	log.Info("No matching update in history",
		zap.String("filter", c.opts.UpdateTitleFilter),
		zap.Int("entries", len(history)))
	return NoUpdatesFound, nil
}

// LatestMatching returns the newest entry whose title contains substr.
// Entries with equal dates keep their source order, so an undated history
// resolves to its first match.
func LatestMatching(history []UpdateEntry, substr string) (UpdateEntry, bool) {
	var (
		best  UpdateEntry
		found bool
	)
	for _, e := range history {
		if !strings.Contains(e.Title, substr) {
			continue
		}
		if !found || e.Date.After(best.Date) {
			best, found = e, true
		}
	}
	return best, found
}

// fieldFailed logs a field-level failure and returns it wrapped with the
// affected field names. A nil err is a no-op.
func fieldFailed(log *zap.Logger, err error, fields ...string) error {
	if err == nil {
		return nil
	}
	log.Warn("Field unavailable", zap.Strings("fields", fields), zap.Error(err))
	return fmt.Errorf("%s: %w", strings.Join(fields, ", "), err)
}

// guard runs fn, converting a panic inside a source into an error.
func guard[T any](fn func() (T, error)) (v T, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("source panicked: %v", r)
		}
	}()
	return fn()
}
