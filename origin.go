package devtrace

import "strings"

// Origin classifies where a stack element's code lives.
type Origin int

const (
	// OriginApplication is code outside the Go distribution.
	OriginApplication Origin = iota
	// OriginRuntime is the Go runtime or standard library.
	OriginRuntime
)

func (o Origin) String() string {
	switch o {
	case OriginRuntime:
		return "runtime"
	default:
		return "application"
	}
}

// classify reports the origin of a fully qualified function name such as
// "net/http.(*conn).serve" or "github.com/acme/api.(*Server).Create".
//
// Standard library import paths never contain a dot in their first element,
// module paths (almost) always do. Package main is the exception.
func classify(function string) Origin {
	pkg, _ := splitFunctionName(function)
	if pkg == "" {
		return OriginApplication
	}
	first, _, _ := strings.Cut(pkg, "/")
	if first == "main" || strings.Contains(first, ".") {
		return OriginApplication
	}
	return OriginRuntime
}

// splitFunctionName splits a qualified function name into its package path
// and the remaining function or method name.
func splitFunctionName(function string) (pkg, name string) {
	slash := strings.LastIndex(function, "/")
	dot := strings.Index(function[slash+1:], ".")
	if dot < 0 {
		return "", function
	}
	dot += slash + 1
	return function[:dot], function[dot+1:]
}
