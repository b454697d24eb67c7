package codegen

import (
	"go/token"
	"strconv"
	"strings"
	"unicode"

	"github.com/go-scripts/docgen/internal/types"
)

// MethodName derives the snake_case client method name for an endpoint.
// It depends only on the endpoint's method and path.
func MethodName(ep types.Endpoint) string {
	var parts []string
	for _, p := range strings.Split(ep.Path, "/") {
		if p != "" && !strings.HasPrefix(p, "{") {
			parts = append(parts, p)
		}
	}
	if len(parts) > 2 {
		parts = parts[len(parts)-2:]
	}
	name := strings.Join(append([]string{methodPrefix(ep)}, parts...), "_")
	return strings.ReplaceAll(name, "-", "_")
}

func methodPrefix(ep types.Endpoint) string {
	switch method := strings.ToLower(ep.Method); method {
	case "get":
		switch {
		case strings.Contains(ep.Path, "search"):
			return "search"
		case strings.Contains(ep.Path, "aggregate"):
			return "aggregate"
		}
		return "get"
	case "post":
		return "create"
	case "put":
		return "update"
	case "delete":
		return "delete"
	default:
		return method
	}
}

// splitWords breaks s on every rune that cannot appear in a Go identifier.
func splitWords(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

func upperFirst(s string) string {
	r := []rune(s)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}

func lowerFirst(s string) string {
	r := []rune(s)
	r[0] = unicode.ToLower(r[0])
	return string(r)
}

// ExportedName converts a snake_case method name to an exported Go identifier.
func ExportedName(snake string) string {
	var b strings.Builder
	for _, w := range splitWords(snake) {
		b.WriteString(upperFirst(w))
	}
	name := b.String()
	if name == "" || !unicode.IsUpper([]rune(name)[0]) {
		name = "Call" + name
	}
	return name
}

// reservedArgs are identifiers the generated method bodies already use.
var reservedArgs = map[string]bool{
	"c": true, "ctx": true, "params": true, "path": true,
	"url": true, "json": true, "http": true, "fmt": true,
	"io": true, "strings": true, "context": true, "time": true,
	"err": true, "nil": true, "true": true, "false": true,
	"string": true, "error": true,
}

// argNamer hands out unique Go parameter names for documented parameter names.
type argNamer struct {
	used map[string]bool
}

func newArgNamer() *argNamer {
	return &argNamer{used: make(map[string]bool)}
}

// name returns a valid, unused lowerCamel identifier for raw.
func (n *argNamer) name(raw string) string {
	words := splitWords(raw)
	var b strings.Builder
	for i, w := range words {
		if i == 0 {
			b.WriteString(lowerFirst(w))
			continue
		}
		b.WriteString(upperFirst(w))
	}
	id := b.String()
	switch {
	case id == "":
		id = "param"
	case unicode.IsDigit([]rune(id)[0]):
		id = "p" + id
	}
	if token.IsKeyword(id) || reservedArgs[id] {
		id += "Param"
	}
	base := id
	for i := 2; n.used[id]; i++ {
		id = base + strconv.Itoa(i)
	}
	n.used[id] = true
	return id
}
