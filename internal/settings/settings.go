// Package settings holds the interactive shell's user-configurable
// options, looked up by name through a prefix trie so that a user can
// type "set str" instead of spelling out "stringencoding".
package settings

import (
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"

	"github.com/beevik/prefixtree/v2"
)

// Settings holds every option the interactive shell exposes. The
// values are stored and displayed only: shell.AssembleFile takes a
// Settings but reads none of its fields, so assembly always starts at
// address 100, encodes every .string character, and prints no trace.
type Settings struct {
	Origin         int    `doc:"base address of the first instruction word (not applied)"`
	StringEncoding string `doc:"how .string directives encode characters, all|alpha (not applied)"`
	Verbose        bool   `doc:"print a trace of each assembly pass (not applied)"`
}

// New returns a Settings populated with this assembler's defaults.
func New() *Settings {
	return &Settings{
		Origin:         100,
		StringEncoding: "all",
		Verbose:        false,
	}
}

type settingsField struct {
	name  string
	index int
	kind  reflect.Kind
	typ   reflect.Type
	doc   string
}

var (
	fieldTree   = prefixtree.New[*settingsField]()
	fieldValues []settingsField
)

func init() {
	t := reflect.TypeOf(Settings{})
	fieldValues = make([]settingsField, t.NumField())
	for i := 0; i < len(fieldValues); i++ {
		f := t.Field(i)
		doc, _ := f.Tag.Lookup("doc")
		fieldValues[i] = settingsField{
			name:  f.Name,
			index: i,
			kind:  f.Type.Kind(),
			typ:   f.Type,
			doc:   doc,
		}
		fieldTree.Add(strings.ToLower(f.Name), &fieldValues[i])
	}
}

// Display writes a human-readable listing of every setting and its
// current value to w.
func (s *Settings) Display(w io.Writer) {
	value := reflect.ValueOf(s).Elem()
	for i, f := range fieldValues {
		v := value.Field(i)
		var line string
		switch f.kind {
		case reflect.String:
			line = fmt.Sprintf("    %-16s %q", f.name, v.String())
		case reflect.Bool:
			line = fmt.Sprintf("    %-16s %v", f.name, v.Bool())
		default:
			line = fmt.Sprintf("    %-16s %v", f.name, v)
		}
		fmt.Fprintf(w, "%-32s (%s)\n", line, f.doc)
	}
}

// Kind reports the reflect.Kind of the named setting, or
// reflect.Invalid if key does not uniquely match a setting.
func (s *Settings) Kind(key string) reflect.Kind {
	f, err := fieldTree.FindValue(strings.ToLower(key))
	if err != nil {
		return reflect.Invalid
	}
	return f.kind
}

// Set assigns value to the setting named (or unambiguously prefixed)
// by key.
func (s *Settings) Set(key string, value any) error {
	f, err := fieldTree.FindValue(strings.ToLower(key))
	if err != nil {
		return err
	}

	vIn := reflect.ValueOf(value)
	if (f.kind == reflect.String && vIn.Kind() != reflect.String) ||
		(f.kind != reflect.String && vIn.Kind() == reflect.String && f.kind != reflect.Bool) ||
		!vIn.Type().ConvertibleTo(f.typ) {
		return errors.New("invalid type for setting " + f.name)
	}

	reflect.ValueOf(s).Elem().Field(f.index).Set(vIn.Convert(f.typ))
	return nil
}
