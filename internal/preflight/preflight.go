// Package preflight runs startup dependency checks. Checks only observe;
// nothing is installed or modified.
package preflight

import (
	"context"
	"fmt"
	"os"
	"runtime"

	"go.uber.org/zap"
)

// Check is a named dependency probe.
type Check struct {
	Name string
	// Required failures make the overall result fail; others only warn.
	Required bool
	Run      func(ctx context.Context) error
}

// CheckResult is the outcome of one Check.
type CheckResult struct {
	Name     string
	Required bool
	Err      error
}

// OK reports whether the check passed.
func (r CheckResult) OK() bool { return r.Err == nil }

// Result aggregates every check outcome.
type Result struct {
	Checks []CheckResult
	OK     bool
}

// Failed returns the results that did not pass.
func (r Result) Failed() []CheckResult {
	var out []CheckResult
	for _, c := range r.Checks {
		if !c.OK() {
			out = append(out, c)
		}
	}
	return out
}

// Run executes each check once, in order, and logs failures.
func Run(ctx context.Context, logger *zap.Logger, checks ...Check) Result {
	if logger == nil {
		logger = zap.NewNop()
	}
	res := Result{OK: true}
	for _, c := range checks {
		err := runCheck(ctx, c)
		res.Checks = append(res.Checks, CheckResult{Name: c.Name, Required: c.Required, Err: err})
		if err == nil {
			logger.Debug("Preflight check passed", zap.String("check", c.Name))
			continue
		}
		if c.Required {
			res.OK = false
			logger.Error("Required preflight check failed", zap.String("check", c.Name), zap.Error(err))
		} else {
			logger.Warn("Preflight check failed", zap.String("check", c.Name), zap.Error(err))
		}
	}
	return res
}

func runCheck(ctx context.Context, c Check) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("check panicked: %v", r)
		}
	}()
	if err := ctx.Err(); err != nil {
		return err
	}
	return c.Run(ctx)
}

// FileReadable checks that path exists and can be opened.
func FileReadable(name, path string) Check {
	return Check{
		Name: name,
		Run: func(context.Context) error {
			f, err := os.Open(path)
			if err != nil {
				return err
			}
			return f.Close()
		},
	}
}

// Platform warns when not running on Windows, where most report fields
// will be placeholders.
func Platform() Check {
	return Check{
		Name: "platform",
		Run: func(context.Context) error {
			if runtime.GOOS != "windows" {
				return fmt.Errorf("running on %s; WMI, registry and update history are unavailable", runtime.GOOS)
			}
			return nil
		},
	}
}

// Probe wraps an arbitrary func as a Check.
func Probe(name string, required bool, fn func() error) Check {
	return Check{
		Name:     name,
		Required: required,
		Run:      func(context.Context) error { return fn() },
	}
}
