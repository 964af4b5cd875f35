//go:build !windows

package logging

import "errors"

var errNoEventLog = errors.New("windows event log is not supported on this platform")

func openEventLog(string) (EventWriter, error) { return nil, errNoEventLog }

// InstallEventSource is not supported on non-Windows platforms.
func InstallEventSource(string) error { return errNoEventLog }

// RemoveEventSource is not supported on non-Windows platforms.
func RemoveEventSource(string) error { return errNoEventLog }
