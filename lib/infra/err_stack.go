package infra

import (
	"errors"
	"fmt"
	"io"
	"path"
	"runtime"
	"strconv"
	"strings"

	"go.uber.org/zap/zapcore"
)

// References:
// https://github.com/pkg/errors/blob/master/stack.go

const (
	unknownFile  = "unknownFile"
	unknownFunc  = "unknownFunc"
	unknownFrame = "unknownFrame"
	maxDepth     = 32
)

// Frame is a program counter captured by the error stack.
type Frame uintptr

func (frame Frame) pc() uintptr {
	return uintptr(frame) - 1
}

func (frame Frame) fileAndLine() (string, int) {
	pc := frame.pc()
	fn := runtime.FuncForPC(pc)
	if fn == nil {
		return unknownFile, 0
	}
	return fn.FileLine(pc)
}

func (frame Frame) name() string {
	fn := runtime.FuncForPC(frame.pc())
	if fn == nil {
		return unknownFunc
	}
	return fn.Name()
}

// Format characters:
// %s - source file
// %d - source line
// %n - function name
// %v - equivalent to %s:%d
// %+s - function name and full path, separated by \n\t
// %+v - equivalent to %+s:%d
func (frame Frame) Format(s fmt.State, verb rune) {
	file, line := frame.fileAndLine()
	switch verb {
	case 's':
		if s.Flag('+') {
			_, _ = io.WriteString(s, frame.name())
			_, _ = io.WriteString(s, "\n\t")
			_, _ = io.WriteString(s, file)
		} else {
			_, _ = io.WriteString(s, path.Base(file))
		}
	case 'd':
		_, _ = io.WriteString(s, strconv.Itoa(line))
	case 'n':
		_, _ = io.WriteString(s, funcName(frame.name()))
	case 'v':
		frame.Format(s, 's')
		_, _ = io.WriteString(s, ":")
		frame.Format(s, 'd')
	}
}

func (frame Frame) MarshalText() ([]byte, error) {
	name := frame.name()
	if name == unknownFunc {
		return []byte(unknownFrame), nil
	}
	file, line := frame.fileAndLine()
	builder := strings.Builder{}
	_, _ = builder.WriteString(name)
	_, _ = builder.WriteString(" ")
	_, _ = builder.WriteString(file)
	_, _ = builder.WriteString(":")
	_, _ = builder.WriteString(strconv.Itoa(line))
	return []byte(builder.String()), nil
}

func (frame Frame) MarshalJSON() ([]byte, error) {
	name := frame.name()
	if name == unknownFunc {
		return []byte("{\"frame\":\"" + unknownFrame + "\"}"), nil
	}
	file, line := frame.fileAndLine()
	builder := strings.Builder{}
	_, _ = builder.WriteString("{\"func\":\"")
	_, _ = builder.WriteString(name)
	_, _ = builder.WriteString("\",\"fileAndLine\":\"")
	_, _ = builder.WriteString(file)
	_, _ = builder.WriteString(":")
	_, _ = builder.WriteString(strconv.Itoa(line))
	_, _ = builder.WriteString("\"}")
	return []byte(builder.String()), nil
}

func funcName(name string) string {
	i := strings.LastIndex(name, "/")
	name = name[i+1:]
	i = strings.Index(name, ".")
	return name[i+1:]
}

type frames []Frame

func (fs frames) MarshalLogArray(enc zapcore.ArrayEncoder) error {
	for _, f := range fs {
		text, _ := f.MarshalText()
		enc.AppendByteString(text)
	}
	return nil
}

// ErrorStack is an error carrying the frames where it was created or
// wrapped. It can be inlined into a zap entry by zap.Inline.
type ErrorStack interface {
	error
	fmt.Formatter
	zapcore.ObjectMarshaler
	Unwrap() error
	Frames() []Frame
}

var _ ErrorStack = (*errorStack)(nil)

type errorStack struct {
	err    error
	msg    string
	frames frames
}

func (es *errorStack) Error() string {
	if es.err == nil {
		return es.msg
	}
	if es.msg == "" {
		return es.err.Error()
	}
	return es.msg + ": " + es.err.Error()
}

func (es *errorStack) Unwrap() error {
	return es.err
}

func (es *errorStack) Frames() []Frame {
	return es.frames
}

// Format
// %s, %v - error message
// %+v - error message followed by the frames, one per line
func (es *errorStack) Format(s fmt.State, verb rune) {
	switch verb {
	case 'v':
		_, _ = io.WriteString(s, es.Error())
		if s.Flag('+') {
			for _, f := range es.frames {
				_, _ = io.WriteString(s, "\n")
				f.Format(s, verb)
			}
		}
	case 's':
		_, _ = io.WriteString(s, es.Error())
	case 'q':
		_, _ = fmt.Fprintf(s, "%q", es.Error())
	}
}

func (es *errorStack) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddString("error", es.Error())
	return enc.AddArray("errorStack", es.frames)
}

func callers(skip int) frames {
	var pcs [maxDepth]uintptr
	n := runtime.Callers(skip, pcs[:])
	fs := make(frames, 0, n)
	for i := 0; i < n; i++ {
		fs = append(fs, Frame(pcs[i]))
	}
	return fs
}

func NewErrorStack(msg string) ErrorStack {
	return &errorStack{
		msg:    msg,
		frames: callers(3),
	}
}

// WrapErrorStack returns nil for a nil error. An error that already carries
// a stack keeps its original frames.
func WrapErrorStack(err error) ErrorStack {
	if err == nil {
		return nil
	}
	var es *errorStack
	if errors.As(err, &es) {
		return &errorStack{err: err, frames: es.frames}
	}
	return &errorStack{
		err:    err,
		frames: callers(3),
	}
}

func WrapErrorStackWithMessage(err error, msg string) ErrorStack {
	if err == nil {
		return nil
	}
	return &errorStack{
		err:    err,
		msg:    msg,
		frames: callers(3),
	}
}
