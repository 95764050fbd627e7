// Package diag reports failed provider calls with their call site.
//
// Every helper passes its argument through unchanged so it can wrap a call
// inline:
//
//	ret := report.Status(code, "avformat_find_stream_info")
//	pkt := diag.CheckNil(report, provider.AllocPacket(), "av_packet_alloc")
package diag

import (
	"errors"
	"path/filepath"
	"reflect"
	"runtime"

	"github.com/user/framepeek/pkg/ports"
)

// Reporter writes diagnostics at error level. It never terminates the process.
type Reporter struct {
	log    ports.Logger
	texter ports.StatusTexter
}

// New creates a Reporter. texter may be nil, in which case codes are
// reported without text.
func New(log ports.Logger, texter ports.StatusTexter) *Reporter {
	return &Reporter{log: log, texter: texter}
}

// Status logs code when it is negative and returns it.
func (r *Reporter) Status(code int, call string) int {
	if code < 0 {
		r.status(code, r.text(code), call, 2)
	}
	return code
}

// Check logs err when it is non-nil and returns it.
func (r *Reporter) Check(err error, call string) error {
	if err == nil {
		return nil
	}
	var se *ports.StatusError
	if errors.As(err, &se) {
		r.status(se.Code, se.Text, call, 2)
	} else {
		r.status(0, err.Error(), call, 2)
	}
	return err
}

// CheckPtr logs a nil pointer as an allocation failure and returns p.
func CheckPtr[T any](r *Reporter, p *T, call string) *T {
	if p == nil {
		r.allocation(call, 2)
	}
	return p
}

// CheckNil logs a nil v (including a typed nil inside an interface) as an
// allocation failure and returns v.
func CheckNil[T any](r *Reporter, v T, call string) T {
	if isNil(v) {
		r.allocation(call, 2)
	}
	return v
}

func (r *Reporter) text(code int) string {
	if r.texter == nil {
		return "unknown error"
	}
	return r.texter.StatusText(code)
}

func (r *Reporter) status(code int, text, call string, skip int) {
	file, line := caller(skip + 1)
	r.log.Error("Error: %s at %s:%d (%s) [%d]", text, file, line, call, code)
}

func (r *Reporter) allocation(call string, skip int) {
	file, line := caller(skip + 1)
	r.log.Error("%s failed to allocate at %s:%d", call, file, line)
}

func caller(skip int) (string, int) {
	_, file, line, ok := runtime.Caller(skip)
	if !ok {
		return "???", 0
	}
	return filepath.Base(file), line
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}
