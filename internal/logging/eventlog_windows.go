//go:build windows

package logging

import (
	"fmt"

	"golang.org/x/sys/windows/svc/eventlog"
)

func openEventLog(source string) (EventWriter, error) {
	elog, err := eventlog.Open(source)
	if err != nil {
		return nil, fmt.Errorf("open event log %s: %w", source, err)
	}
	return elog, nil
}

// InstallEventSource registers the event log source. Requires administrator rights.
func InstallEventSource(source string) error {
	if err := eventlog.InstallAsEventCreate(source, eventlog.Error|eventlog.Warning|eventlog.Info); err != nil {
		return fmt.Errorf("install event source %s: %w", source, err)
	}
	return nil
}

// RemoveEventSource deletes the event log source registration.
func RemoveEventSource(source string) error {
	if err := eventlog.Remove(source); err != nil {
		return fmt.Errorf("remove event source %s: %w", source, err)
	}
	return nil
}
