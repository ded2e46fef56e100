// Package console writes key=value log lines, one per entry, to a writer.
package console

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/goliatone/go-messageml/internal/logging"
	"github.com/goliatone/go-messageml/pkg/interfaces"
)

type Level uint8

const (
	LevelTrace Level = iota
	LevelDebug
	LevelInfo
	LevelWarn
	LevelError
	LevelFatal
)

var levelNames = [...]string{"TRACE", "DEBUG", "INFO", "WARN", "ERROR", "FATAL"}

func (l Level) String() string {
	if int(l) < len(levelNames) {
		return levelNames[l]
	}
	return "INFO"
}

// ParseLevel maps a configured level name onto a Level. Blank selects
// debug.
func ParseLevel(name string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "debug":
		return LevelDebug, nil
	case "warning":
		return LevelWarn, nil
	}
	for i, label := range levelNames {
		if strings.EqualFold(label, strings.TrimSpace(name)) {
			return Level(i), nil
		}
	}
	return LevelDebug, fmt.Errorf("console: unknown log level %q", name)
}

type Options struct {
	Writer io.Writer
	Clock  func() time.Time
	Level  Level
}

// Provider hands out loggers sharing one writer. Writes are serialised.
type Provider struct {
	out   io.Writer
	clock func() time.Time
	level Level
	mu    sync.Mutex
}

// NewProvider defaults to stderr and the wall clock.
func NewProvider(opts Options) *Provider {
	p := &Provider{out: opts.Writer, clock: opts.Clock, level: opts.Level}
	if p.out == nil {
		p.out = os.Stderr
	}
	if p.clock == nil {
		p.clock = time.Now
	}
	return p
}

func (p *Provider) GetLogger(name string) interfaces.Logger {
	return &logger{provider: p, fields: map[string]any{"logger": name}}
}

type logger struct {
	provider *Provider
	fields   map[string]any
	ctx      context.Context
}

var (
	_ interfaces.Logger       = (*logger)(nil)
	_ interfaces.FieldsLogger = (*logger)(nil)
)

func (l *logger) Trace(msg string, args ...any) { l.write(LevelTrace, msg, args) }
func (l *logger) Debug(msg string, args ...any) { l.write(LevelDebug, msg, args) }
func (l *logger) Info(msg string, args ...any)  { l.write(LevelInfo, msg, args) }
func (l *logger) Warn(msg string, args ...any)  { l.write(LevelWarn, msg, args) }
func (l *logger) Error(msg string, args ...any) { l.write(LevelError, msg, args) }
func (l *logger) Fatal(msg string, args ...any) { l.write(LevelFatal, msg, args) }

func (l *logger) WithFields(fields map[string]any) interfaces.Logger {
	if len(fields) == 0 {
		return l
	}
	return &logger{provider: l.provider, fields: merge(l.fields, fields), ctx: l.ctx}
}

func (l *logger) WithContext(ctx context.Context) interfaces.Logger {
	return &logger{provider: l.provider, fields: l.fields, ctx: ctx}
}

func (l *logger) write(level Level, msg string, args []any) {
	p := l.provider
	if p == nil || level < p.level {
		return
	}
	fields := merge(merge(l.fields, logging.ContextFields(l.ctx)), pairs(args))
	line := format(p.clock().UTC(), level, msg, fields)

	p.mu.Lock()
	defer p.mu.Unlock()
	_, _ = io.WriteString(p.out, line+"\n")
}

// merge returns a new map holding base overlaid with extra.
func merge(base, extra map[string]any) map[string]any {
	out := make(map[string]any, len(base)+len(extra))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range extra {
		out[k] = v
	}
	return out
}

// pairs turns alternating key/value arguments into fields. Values without a
// usable key are kept under positional names.
func pairs(args []any) map[string]any {
	if len(args) == 0 {
		return nil
	}
	out := make(map[string]any, (len(args)+1)/2)
	for i := 0; i < len(args); i += 2 {
		if i+1 == len(args) {
			out["arg_"+strconv.Itoa(i/2)] = args[i]
			break
		}
		key, ok := args[i].(string)
		if !ok || key == "" {
			key = "arg_" + strconv.Itoa(i/2)
		}
		out[key] = args[i+1]
	}
	return out
}

func format(ts time.Time, level Level, msg string, fields map[string]any) string {
	var b strings.Builder
	b.WriteString(ts.Format(time.RFC3339Nano))
	b.WriteByte(' ')
	b.WriteString(level.String())
	b.WriteByte(' ')
	b.WriteString(msg)

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		b.WriteByte(' ')
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(value(fields[k]))
	}
	return b.String()
}

func value(v any) string {
	var s string
	switch x := v.(type) {
	case nil:
		return "null"
	case string:
		s = x
	case time.Time:
		s = x.UTC().Format(time.RFC3339Nano)
	case error:
		s = x.Error()
	case fmt.Stringer:
		s = x.String()
	default:
		s = fmt.Sprint(x)
	}
	if s == "" {
		return `""`
	}
	if strings.ContainsFunc(s, func(r rune) bool { return r <= ' ' || r == '=' }) {
		return strconv.Quote(s)
	}
	return s
}
