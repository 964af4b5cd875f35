//go:build windows

package collector

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"golang.org/x/sys/windows/registry"
)

// registrySource reads values under HKEY_LOCAL_MACHINE.
type registrySource struct{}

func newRegistrySource() *registrySource {
	return &registrySource{}
}

// StringValue returns the named value under HKLM\path. String values are
// returned as-is and integer values in decimal.
func (registrySource) StringValue(ctx context.Context, path, name string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	key, err := registry.OpenKey(registry.LOCAL_MACHINE, path, registry.QUERY_VALUE)
	if err != nil {
		return "", registryErr(`HKLM\`+path, err)
	}
	defer key.Close()

	s, _, err := key.GetStringValue(name)
	if err == nil {
		return s, nil
	}
	if !errors.Is(err, registry.ErrUnexpectedType) {
		return "", registryErr(`HKLM\`+path+`\`+name, err)
	}

	n, _, err := key.GetIntegerValue(name)
	if err != nil {
		return "", registryErr(`HKLM\`+path+`\`+name, err)
	}
	return strconv.FormatUint(n, 10), nil
}

func registryErr(where string, err error) error {
	if errors.Is(err, registry.ErrNotExist) {
		return fmt.Errorf("%s: %w", where, ErrNotFound)
	}
	return fmt.Errorf("%s: %w", where, err)
}
