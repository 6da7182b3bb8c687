package xlog

import (
	"go.uber.org/zap/zapcore"
)

var _ xLogCore = (*consoleCore)(nil)

type consoleCore struct {
	*commonCore
}

// newConsoleCore writes to the standard streams only, other writer types
// get no core.
func newConsoleCore(
	lvlEnabler zapcore.LevelEnabler,
	encoder logEncoderType,
	writer logOutWriterType,
	lvlEnc zapcore.LevelEncoder,
	tsEnc zapcore.TimeEncoder,
) xLogCore {
	if writer != StdOut && writer != StdErr && writer != testMemAsOut {
		return nil
	}
	cc := &consoleCore{
		commonCore: &commonCore{
			lvlEnabler: lvlEnabler,
			lvlEnc:     lvlEnc,
			tsEnc:      tsEnc,
			ws:         getOutWriterByType(writer),
			enc:        getEncoderByType(encoder),
		},
	}
	config := defaultCoreEncoderCfg()
	config.EncodeLevel = cc.lvlEnc
	config.EncodeTime = cc.tsEnc
	cc.core = zapcore.NewCore(cc.enc(*config), cc.ws, cc.lvlEnabler)
	return cc
}
