package logging

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// EventSource is the Windows Event Log source name sysreport writes under.
const EventSource = "SysReport"

// eventID tags every entry written to the Event Log.
const eventID = 1

// Options configures New.
type Options struct {
	Level    string
	Format   string // console or json
	EventLog bool
}

// New builds the process logger. Console output goes to stderr; when
// EventLog is set, Warn and above are also written to the Windows Event Log.
func New(opts Options) (*zap.Logger, error) {
	var cfg zap.Config
	if opts.Format == "json" {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		cfg.DisableStacktrace = true
	}

	level := zapcore.InfoLevel
	if opts.Level != "" {
		l, err := zapcore.ParseLevel(opts.Level)
		if err != nil {
			return nil, fmt.Errorf("log level: %w", err)
		}
		level = l
	}
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}

	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}

	if opts.EventLog {
		w, err := openEventLog(EventSource)
		if err != nil {
			logger.Warn("Event log unavailable; logging to console only", zap.Error(err))
			return logger, nil
		}
		el := NewEventLogCore(w, zapcore.WarnLevel)
		logger = logger.WithOptions(zap.WrapCore(func(c zapcore.Core) zapcore.Core {
			return zapcore.NewTee(c, el)
		}))
	}
	return logger, nil
}

// EventWriter is the subset of the Windows event log handle used by the core.
type EventWriter interface {
	Info(eid uint32, msg string) error
	Warning(eid uint32, msg string) error
	Error(eid uint32, msg string) error
	Close() error
}

// eventLogCore writes entries to an EventWriter, mapping zap levels onto
// event types. Event Log entries carry their own timestamps, so the
// encoder omits time.
type eventLogCore struct {
	zapcore.LevelEnabler
	enc zapcore.Encoder
	w   EventWriter
}

// NewEventLogCore returns a zapcore.Core writing entries at or above
// enab to w.
func NewEventLogCore(w EventWriter, enab zapcore.LevelEnabler) zapcore.Core {
	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.TimeKey = ""
	encCfg.CallerKey = ""
	return &eventLogCore{
		LevelEnabler: enab,
		enc:          zapcore.NewConsoleEncoder(encCfg),
		w:            w,
	}
}

func (c *eventLogCore) With(fields []zapcore.Field) zapcore.Core {
	clone := &eventLogCore{LevelEnabler: c.LevelEnabler, enc: c.enc.Clone(), w: c.w}
	for _, f := range fields {
		f.AddTo(clone.enc)
	}
	return clone
}

func (c *eventLogCore) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(ent.Level) {
		return ce.AddCore(ent, c)
	}
	return ce
}

func (c *eventLogCore) Write(ent zapcore.Entry, fields []zapcore.Field) error {
	buf, err := c.enc.EncodeEntry(ent, fields)
	if err != nil {
		return err
	}
	msg := strings.TrimRight(buf.String(), "\n")
	buf.Free()

	switch {
	case ent.Level >= zapcore.ErrorLevel:
		return c.w.Error(eventID, msg)
	case ent.Level == zapcore.WarnLevel:
		return c.w.Warning(eventID, msg)
	default:
		return c.w.Info(eventID, msg)
	}
}

func (c *eventLogCore) Sync() error { return nil }
