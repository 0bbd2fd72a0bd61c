package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

type Format string

const (
	FormatJSON Format = "json"
	FormatText Format = "text"
)

// Environment names understood by WithEnvironment.
const (
	EnvDevelopment = "development"
	EnvStaging     = "staging"
	EnvProduction  = "production"
)

// Redacted replaces the value of every attribute whose key is in the redact list.
const Redacted = "[redacted]"

// DefaultRedactedKeys are the attribute keys that never reach the output.
var DefaultRedactedKeys = []string{"password", "code", "token", "digest", "pepper", "secret"}

type Option func(*options)

type options struct {
	level      slog.Level
	format     Format
	output     io.Writer
	attrs      []slog.Attr
	extractors []ContextExtractor
	redact     map[string]struct{}
}

func WithLevel(l slog.Level) Option {
	return func(o *options) { o.level = l }
}

// WithFormat panics on an unknown format so a misconfigured service fails at startup.
func WithFormat(f Format) Option {
	return func(o *options) {
		if f != FormatJSON && f != FormatText {
			panic(fmt.Errorf("logger: unknown format %q", f))
		}
		o.format = f
	}
}

func WithOutput(w io.Writer) Option {
	return func(o *options) {
		if w != nil {
			o.output = w
		}
	}
}

// WithAttr adds static attributes to every record.
func WithAttr(attrs ...slog.Attr) Option {
	return func(o *options) { o.attrs = append(o.attrs, attrs...) }
}

// WithContextExtractors adds attributes pulled from the context of each record.
func WithContextExtractors(extractors ...ContextExtractor) Option {
	return func(o *options) {
		for _, ex := range extractors {
			if ex != nil {
				o.extractors = append(o.extractors, ex)
			}
		}
	}
}

// WithRedactedKeys extends DefaultRedactedKeys. Keys match case-insensitively
// at any group depth.
func WithRedactedKeys(keys ...string) Option {
	return func(o *options) {
		for _, k := range keys {
			o.redact[strings.ToLower(k)] = struct{}{}
		}
	}
}

// WithEnvironment selects JSON at info level for production and staging and
// text at debug level otherwise, and tags records with env and service.
func WithEnvironment(env, service string) Option {
	return func(o *options) {
		switch env {
		case EnvProduction, "prod":
			o.level, o.format, env = slog.LevelInfo, FormatJSON, EnvProduction
		case EnvStaging, "stage":
			o.level, o.format, env = slog.LevelInfo, FormatJSON, EnvStaging
		default:
			o.level, o.format, env = slog.LevelDebug, FormatText, EnvDevelopment
		}
		if service != "" {
			o.attrs = append(o.attrs, slog.String("service", service))
		}
		o.attrs = append(o.attrs, slog.String("env", env))
	}
}

func SetAsDefault(l *slog.Logger) {
	slog.SetDefault(l)
}

// Discard returns a logger that drops every record. Services default to it.
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// New builds a logger. Defaults: JSON to stdout at info level with
// DefaultRedactedKeys masked.
func New(opts ...Option) *slog.Logger {
	o := &options{
		level:  slog.LevelInfo,
		format: FormatJSON,
		output: os.Stdout,
		redact: make(map[string]struct{}, len(DefaultRedactedKeys)),
	}
	for _, k := range DefaultRedactedKeys {
		o.redact[k] = struct{}{}
	}
	for _, opt := range opts {
		opt(o)
	}

	ho := &slog.HandlerOptions{
		Level: o.level,
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			if _, ok := o.redact[strings.ToLower(a.Key)]; ok {
				return slog.String(a.Key, Redacted)
			}
			return a
		},
	}

	var h slog.Handler
	if o.format == FormatText {
		h = slog.NewTextHandler(o.output, ho)
	} else {
		h = slog.NewJSONHandler(o.output, ho)
	}
	if len(o.attrs) > 0 {
		h = h.WithAttrs(o.attrs)
	}
	if len(o.extractors) > 0 {
		h = &contextHandler{Handler: h, extractors: o.extractors}
	}
	return slog.New(h)
}
