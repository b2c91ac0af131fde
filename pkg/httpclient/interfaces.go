package httpclient

import "context"

// Response is a minimal HTTP response contract.
type Response interface {
	Body() []byte
	StatusCode() int
}

// Transport abstracts the HTTP verbs so callers can inject fakes or different
// transports. Implementations return an error only when no response was
// received; non-2xx statuses are a Response like any other.
type Transport interface {
	Get(ctx context.Context, uri string, params, headers map[string]string) (Response, error)
	Post(ctx context.Context, uri string, params, headers map[string]string, data any) (Response, error)
	Put(ctx context.Context, uri string, params, headers map[string]string, data any) (Response, error)
	Delete(ctx context.Context, uri string, params, headers map[string]string, data any) (Response, error)
}

// Logger defines the logging surface the client relies on.
type Logger interface {
	InfoObj(msg, key string, obj interface{})
	DebugObj(msg, key string, obj interface{})
	WarnObj(msg, key string, obj interface{})
	ErrorObj(msg, key string, obj interface{})
}

type noopLogger struct{}

func (noopLogger) InfoObj(string, string, interface{})  {}
func (noopLogger) DebugObj(string, string, interface{}) {}
func (noopLogger) WarnObj(string, string, interface{})  {}
func (noopLogger) ErrorObj(string, string, interface{}) {}

func ensureLogger(log Logger) Logger {
	if log == nil {
		return noopLogger{}
	}
	return log
}
