// Copyright 2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package host

import (
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"

	"github.com/beevik/prefixtree/v2"
)

var errInvalidType = errors.New("invalid type")

type settings struct {
	HexMode         bool   `doc:"hexadecimal input mode"`
	MemDumpBytes    int    `doc:"default number of memory bytes to dump"`
	DisasmLines     int    `doc:"default number of lines to disassemble"`
	MaxStepLines    int    `doc:"max lines to disassemble when stepping"`
	RunLimit        int    `doc:"max instructions per run (0 = no limit)"`
	StackWatch      bool   `doc:"stop running when the stack pointer wraps"`
	Trace           bool   `doc:"display every instruction while running"`
	NextDisasmAddr  uint16 `doc:"address of next disassembly"`
	NextMemDumpAddr uint16 `doc:"address of next memory dump"`
}

func newSettings() *settings {
	return &settings{
		MemDumpBytes: 64,
		DisasmLines:  10,
		MaxStepLines: 20,
		RunLimit:     1000000,
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
	settingsTree   = prefixtree.New[*settingsField]()
	settingsFields []settingsField
)

func init() {
	settingsType := reflect.TypeOf(settings{})
	settingsFields = make([]settingsField, settingsType.NumField())
	for i := range settingsFields {
		f := settingsType.Field(i)
		doc, _ := f.Tag.Lookup("doc")
		settingsFields[i] = settingsField{
			name:  f.Name,
			index: i,
			kind:  f.Type.Kind(),
			typ:   f.Type,
			doc:   doc,
		}
		settingsTree.Add(strings.ToLower(f.Name), &settingsFields[i])
	}
}

// Display writes every setting, its value and its description.
func (s *settings) Display(w io.Writer) {
	value := reflect.ValueOf(s).Elem()
	for i, f := range settingsFields {
		v := value.Field(i)
		var line string
		switch f.kind {
		case reflect.Uint16:
			line = fmt.Sprintf("    %-16s $%04X", f.name, uint16(v.Uint()))
		default:
			line = fmt.Sprintf("    %-16s %v", f.name, v)
		}
		fmt.Fprintf(w, "%-28s (%s)\n", line, f.doc)
	}
}

// Lookup finds a setting by unambiguous, case-insensitive prefix.
func (s *settings) Lookup(key string) (*settingsField, error) {
	return settingsTree.FindValue(strings.ToLower(key))
}

// Set assigns a value to a setting. The value must be convertible to the
// setting's type; strings are accepted only by string settings.
func (s *settings) Set(key string, value any) error {
	f, err := s.Lookup(key)
	if err != nil {
		return err
	}

	vIn := reflect.ValueOf(value)
	isString := vIn.Kind() == reflect.String
	if (f.kind == reflect.String) != isString || !vIn.Type().ConvertibleTo(f.typ) {
		return errInvalidType
	}

	reflect.ValueOf(s).Elem().Field(f.index).Set(vIn.Convert(f.typ))
	return nil
}
