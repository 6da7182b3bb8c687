package xlog

import (
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/benz9527/xrbtree/lib/infra"
)

var _ xLogCore = (*commonCore)(nil)

type commonCore struct {
	lvlEnabler zapcore.LevelEnabler
	lvlEnc     zapcore.LevelEncoder
	tsEnc      zapcore.TimeEncoder
	ws         zapcore.WriteSyncer
	enc        func(cfg zapcore.EncoderConfig) zapcore.Encoder
	core       zapcore.Core
}

func (cc *commonCore) timeEncoder() zapcore.TimeEncoder                            { return cc.tsEnc }
func (cc *commonCore) levelEncoder() zapcore.LevelEncoder                          { return cc.lvlEnc }
func (cc *commonCore) writeSyncer() zapcore.WriteSyncer                            { return cc.ws }
func (cc *commonCore) outEncoder() func(cfg zapcore.EncoderConfig) zapcore.Encoder { return cc.enc }
func (cc *commonCore) Enabled(lvl zapcore.Level) bool {
	return cc.lvlEnabler.Enabled(lvl)
}

func (cc *commonCore) With(fields []zap.Field) zapcore.Core {
	return cc.core.With(fields)
}

func (cc *commonCore) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if cc.Enabled(ent.Level) {
		return ce.AddCore(ent, cc)
	}
	return ce
}

func (cc *commonCore) Write(ent zapcore.Entry, fields []zap.Field) error {
	return cc.core.Write(ent, fields)
}

func (cc *commonCore) Sync() error {
	return cc.core.Sync()
}

var _ zapcore.Core = (*teeCore)(nil)

// teeCore fans the entries out to the cores built by the core constructors.
// A failing core does not stop the others, the failures are combined.
type teeCore struct {
	cores []xLogCore
}

func newTeeCore(cores ...xLogCore) *teeCore {
	return &teeCore{cores: cores}
}

// Level reports the lowest level among the cores.
func (tc *teeCore) Level() zapcore.Level {
	lvl := zapcore.InvalidLevel
	for _, c := range tc.cores {
		if l := zapcore.LevelOf(c); l < lvl {
			lvl = l
		}
	}
	return lvl
}

func (tc *teeCore) Enabled(lvl zapcore.Level) bool {
	for _, c := range tc.cores {
		if c.Enabled(lvl) {
			return true
		}
	}
	return false
}

func (tc *teeCore) With(fields []zap.Field) zapcore.Core {
	withCores := make([]zapcore.Core, 0, len(tc.cores))
	for _, c := range tc.cores {
		withCores = append(withCores, c.With(fields))
	}
	return zapcore.NewTee(withCores...)
}

func (tc *teeCore) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	for _, c := range tc.cores {
		ce = c.Check(ent, ce)
	}
	return ce
}

func (tc *teeCore) Write(ent zapcore.Entry, fields []zap.Field) error {
	var err error
	for _, c := range tc.cores {
		err = multierr.Append(err, c.Write(ent, fields))
	}
	return err
}

func (tc *teeCore) Sync() error {
	var err error
	for _, c := range tc.cores {
		err = multierr.Append(err, c.Sync())
	}
	return err
}

// withEncoderConfig rewraps every core by cfg. All the cores are tried and
// their failures are returned together.
func (tc *teeCore) withEncoderConfig(cfg *zapcore.EncoderConfig) (*teeCore, error) {
	var err error
	cores := make([]xLogCore, 0, len(tc.cores))
	for _, c := range tc.cores {
		wrapped, wrapErr := WrapCore(c, cfg)
		if wrapErr != nil {
			err = multierr.Append(err, wrapErr)
			continue
		}
		cores = append(cores, wrapped)
	}
	if err != nil {
		return nil, err
	}
	return newTeeCore(cores...), nil
}

// WrapCore rebuilds the core with the encoder config, the writer and the
// encoders are inherited. The level follows the wrapped core dynamically.
func WrapCore(core xLogCore, cfg *zapcore.EncoderConfig) (xLogCore, error) {
	return WrapCoreNewLevelEnabler(core, core, cfg)
}

func WrapCoreNewLevelEnabler(core xLogCore, lvlEnabler zapcore.LevelEnabler, cfg *zapcore.EncoderConfig) (xLogCore, error) {
	if core == nil || lvlEnabler == nil {
		return nil, infra.NewErrorStack("[XLogger] logger core or level enabler is empty")
	}
	if cfg == nil {
		return nil, infra.NewErrorStack("[XLogger] logger core config is empty")
	}
	newCfg := *cfg
	newCfg.EncodeLevel = core.levelEncoder()
	newCfg.EncodeTime = core.timeEncoder()

	cc := &commonCore{
		ws:  core.writeSyncer(),
		enc: core.outEncoder(),
		lvlEnabler: zap.LevelEnablerFunc(func(l zapcore.Level) bool {
			return lvlEnabler.Enabled(l)
		}),
		lvlEnc: core.levelEncoder(),
		tsEnc:  core.timeEncoder(),
	}
	cc.core = zapcore.NewCore(cc.enc(newCfg), cc.ws, cc.lvlEnabler)
	return cc, nil
}

func defaultCoreEncoderCfg() *zapcore.EncoderConfig {
	return &zapcore.EncoderConfig{
		MessageKey:    "msg",
		LevelKey:      "lvl",
		TimeKey:       "ts",
		CallerKey:     "callAt",
		EncodeCaller:  zapcore.ShortCallerEncoder,
		FunctionKey:   "fn",
		NameKey:       "component",
		EncodeName:    zapcore.FullNameEncoder,
		StacktraceKey: coreKeyIgnored,
	}
}

// The component loggers (fx, ants) drop the caller and function.
var componentCoreEncoderCfg = &zapcore.EncoderConfig{
	MessageKey:    "msg",
	LevelKey:      "lvl",
	TimeKey:       "ts",
	CallerKey:     coreKeyIgnored,
	EncodeCaller:  zapcore.ShortCallerEncoder,
	FunctionKey:   coreKeyIgnored,
	NameKey:       "component",
	EncodeName:    zapcore.FullNameEncoder,
	StacktraceKey: coreKeyIgnored,
}

// newComponentLogger builds a named child logger whose cores encode by the
// component config. The level still follows the parent.
func newComponentLogger(parent XLogger, name string) *xLogger {
	l := &xLogger{}
	if pl, ok := parent.(*xLogger); ok {
		l.dynamicLevelEnabler = pl.dynamicLevelEnabler
		l.ctxFields = pl.ctxFields
		l.writer, l.encoder = pl.writer, pl.encoder
	}
	l.logger.Store(parent.
		zap().
		Named(name).
		WithOptions(zap.WrapCore(func(core zapcore.Core) zapcore.Core {
			switch cc := core.(type) {
			case *teeCore:
				tc, err := cc.withEncoderConfig(componentCoreEncoderCfg)
				if err != nil {
					panic(err)
				}
				return tc
			case xLogCore:
				wc, err := WrapCore(cc, componentCoreEncoderCfg)
				if err != nil {
					panic(err)
				}
				return wc
			case nil:
				panic("[XLogger] core is nil")
			default:
				panic("[XLogger] core is not XLogCore")
			}
		})),
	)
	return l
}
