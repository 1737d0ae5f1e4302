package fortios

import (
	"fmt"
	"strings"
)

const indentUnit = "    "

var quoteReplacer = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

// writer emits FortiOS CLI lines, tracking config/edit nesting so that every
// line is indented four spaces per open level.
type writer struct {
	lines []string
	depth int
}

func (w *writer) printf(format string, args ...any) {
	w.lines = append(w.lines, strings.Repeat(indentUnit, w.depth)+fmt.Sprintf(format, args...))
}

func (w *writer) config(path string) {
	w.printf("config %s", path)
	w.depth++
}

func (w *writer) end() {
	w.depth--
	w.printf("end")
}

func (w *writer) edit(key any) {
	w.printf("edit %v", key)
	w.depth++
}

func (w *writer) next() {
	w.depth--
	w.printf("next")
}

func (w *writer) set(key string, value any) {
	w.printf("set %s %v", key, value)
}

func (w *writer) unset(key string) {
	w.printf("unset %s", key)
}

// raw appends already indented lines as they are.
func (w *writer) raw(lines []string) {
	w.lines = append(w.lines, lines...)
}

func quote(s string) string {
	return `"` + quoteReplacer.Replace(s) + `"`
}
