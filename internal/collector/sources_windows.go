//go:build windows

package collector

// DefaultSources returns the sources that read the local Windows host.
func DefaultSources() Sources {
	w := newWMISource()
	return Sources{
		Network:  NewNetworkSource(),
		Hardware: WithFallback(w, NewFirmwareSource()),
		OS:       w,
		Config:   newRegistrySource(),
		Updates:  newUpdateAgentSource(),
	}
}

// Ping issues a trivial WMI query to confirm the management service answers.
func Ping() error {
	var rows []win32OperatingSystem
	return newWMISource().query("SELECT Caption FROM Win32_OperatingSystem", &rows)
}
