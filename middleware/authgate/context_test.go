package authgate_test

import (
	"context"
	"io"
	"mime/multipart"

	"github.com/goliatone/go-router"
)

// fakeContext is an in-memory router.Context for middleware tests. Only
// the methods the gate touches do real work; the rest satisfy the
// interface.
type fakeContext struct {
	URL          string
	RedirectedTo string
	StatusCode   int

	requestCookies map[string]string
	writtenCookies map[string]*router.Cookie
	locals         map[any]any
	values         map[string]any
	body           string
	method         string
}

func newFakeContext() *fakeContext {
	return &fakeContext{
		URL:            "/",
		method:         "GET",
		requestCookies: map[string]string{},
		writtenCookies: map[string]*router.Cookie{},
		locals:         map[any]any{},
		values:         map[string]any{},
	}
}

// SetCookieValue seeds an inbound request cookie.
func (f *fakeContext) SetCookieValue(name, value string) {
	f.requestCookies[name] = value
}

// WrittenCookie returns the last cookie the handler wrote, nil if none.
func (f *fakeContext) WrittenCookie(name string) *router.Cookie {
	return f.writtenCookies[name]
}

func (f *fakeContext) Next() error                             { return nil }
func (f *fakeContext) Context() context.Context                { return context.Background() }
func (f *fakeContext) SetContext(context.Context)              {}
func (f *fakeContext) Path() string                            { return f.URL }
func (f *fakeContext) Method() string                          { return f.method }
func (f *fakeContext) Body() []byte                            { return []byte(f.body) }
func (f *fakeContext) OriginalURL() string                     { return f.URL }
func (f *fakeContext) Referer() string                         { return "" }
func (f *fakeContext) OnNext(func() error)                     {}
func (f *fakeContext) Set(key string, val any)                 { f.values[key] = val }
func (f *fakeContext) SetHeader(string, string) router.Context { return f }
func (f *fakeContext) Header(string) string                    { return "" }

func (f *fakeContext) Status(code int) router.Context {
	f.StatusCode = code
	return f
}

func (f *fakeContext) SendString(string) error { return nil }
func (f *fakeContext) Send([]byte) error       { return nil }
func (f *fakeContext) JSON(int, any) error     { return nil }
func (f *fakeContext) NoContent(int) error     { return nil }

func (f *fakeContext) Render(string, any, ...string) error { return nil }

func (f *fakeContext) Redirect(path string, status ...int) error {
	f.RedirectedTo = path
	if len(status) > 0 {
		f.StatusCode = status[0]
	}
	return nil
}

func (f *fakeContext) RedirectToRoute(string, router.ViewContext, ...int) error { return nil }
func (f *fakeContext) RedirectBack(string, ...int) error                        { return nil }

func (f *fakeContext) Get(key string, defaultValue any) any {
	if v, ok := f.values[key]; ok {
		return v
	}
	return defaultValue
}

func (f *fakeContext) GetBool(key string, def bool) bool {
	if v, ok := f.values[key].(bool); ok {
		return v
	}
	return def
}

func (f *fakeContext) GetInt(key string, def int) int {
	if v, ok := f.values[key].(int); ok {
		return v
	}
	return def
}

func (f *fakeContext) GetString(key string, def string) string {
	if v, ok := f.values[key].(string); ok {
		return v
	}
	return def
}

func (f *fakeContext) Bind(any) error         { return nil }
func (f *fakeContext) BindJSON(any) error     { return nil }
func (f *fakeContext) BindXML(any) error      { return nil }
func (f *fakeContext) BindQuery(any) error    { return nil }
func (f *fakeContext) CookieParser(any) error { return nil }

func (f *fakeContext) Cookie(cookie *router.Cookie) {
	f.writtenCookies[cookie.Name] = cookie
}

func (f *fakeContext) Cookies(key string, defaultValue ...string) string {
	if v, ok := f.requestCookies[key]; ok {
		return v
	}
	if len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return ""
}

func (f *fakeContext) Param(key string, defaultValue ...string) string {
	if len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return ""
}

func (f *fakeContext) ParamsInt(key string, defaultValue int) int { return defaultValue }
func (f *fakeContext) Query(key string, defaultValue ...string) string {
	if len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return ""
}
func (f *fakeContext) QueryValues(name string) []string          { return nil }
func (f *fakeContext) QueryInt(key string, defaultValue int) int { return defaultValue }
func (f *fakeContext) Queries() map[string]string                { return nil }

func (f *fakeContext) FormFile(key string) (*multipart.FileHeader, error) { return nil, nil }
func (f *fakeContext) FormValue(key string, defaultValue ...string) string {
	if len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return ""
}

func (f *fakeContext) IP() string                     { return "" }
func (f *fakeContext) SendStatus(code int) error      { f.StatusCode = code; return nil }
func (f *fakeContext) SendStream(io.Reader) error     { return nil }
func (f *fakeContext) RouteName() string              { return "" }
func (f *fakeContext) RouteParams() map[string]string { return nil }

func (f *fakeContext) LocalsMerge(key any, value map[string]any) map[string]any {
	merged, _ := f.locals[key].(map[string]any)
	if merged == nil {
		merged = map[string]any{}
	}
	for k, v := range value {
		merged[k] = v
	}
	f.locals[key] = merged
	return merged
}

func (f *fakeContext) Locals(key any, value ...any) any {
	if len(value) > 0 {
		f.locals[key] = value[0]
		return value[0]
	}
	return f.locals[key]
}
