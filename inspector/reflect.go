// Package inspector turns ECS components into labelled field lists using
// `inspect` struct tags, and renders them as text panels.
package inspector

import (
	"fmt"
	"io"
	"math"
	"reflect"
	"strconv"
	"strings"
)

// Widget selects how a field is rendered.
type Widget int

const (
	WidgetAuto Widget = iota
	WidgetLabel
	WidgetBar
	WidgetAngle
	WidgetBool
	WidgetSkip
)

var widgetNames = map[string]Widget{
	"label": WidgetLabel,
	"bar":   WidgetBar,
	"angle": WidgetAngle,
	"bool":  WidgetBool,
	"skip":  WidgetSkip,
}

// Tag is a parsed `inspect` struct tag.
type Tag struct {
	Widget Widget
	Format string  // fmt verb applied to the value, "" = default
	Max    float64 // bar maximum, 0 = supplied at render time
}

// ParseTag parses `inspect:"widget[,fmt:verb][,max:n]"`, for example
// `inspect:"bar,max:200"` or `inspect:"label,fmt:%.1fs"`.
// Unknown widgets fall back to WidgetAuto and unknown options are ignored.
func ParseTag(tag string) Tag {
	var t Tag
	if tag == "" {
		return t
	}
	name, opts, _ := strings.Cut(tag, ",")
	t.Widget = widgetNames[strings.TrimSpace(name)]

	for opts != "" {
		var opt string
		opt, opts, _ = strings.Cut(opts, ",")
		key, val, ok := strings.Cut(strings.TrimSpace(opt), ":")
		if !ok {
			continue
		}
		switch key {
		case "fmt":
			t.Format = val
		case "max":
			if v, err := strconv.ParseFloat(val, 64); err == nil {
				t.Max = v
			}
		}
	}
	return t
}

// Field is one exported component field with its rendering hints.
type Field struct {
	Name  string
	Value any
	Tag
}

// Section groups the fields of one component.
type Section struct {
	Title  string
	Fields []Field
}

// ExtractFields lists the exported fields of a struct or struct pointer.
// Embedded structs are flattened in place; fields tagged skip are left out.
func ExtractFields(component any) []Field {
	v := reflect.ValueOf(component)
	for v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return nil
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return nil
	}
	return appendFields(nil, v)
}

func appendFields(fields []Field, v reflect.Value) []Field {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}
		tag := ParseTag(sf.Tag.Get("inspect"))
		if tag.Widget == WidgetSkip {
			continue
		}
		fv := v.Field(i)
		if sf.Anonymous && fv.Kind() == reflect.Struct {
			fields = appendFields(fields, fv)
			continue
		}
		if tag.Widget == WidgetAuto {
			tag.Widget = WidgetLabel
			if fv.Kind() == reflect.Bool {
				tag.Widget = WidgetBool
			}
		}
		fields = append(fields, Field{Name: sf.Name, Value: fv.Interface(), Tag: tag})
	}
	return fields
}

// Describe builds a titled section from a component.
func Describe(title string, component any) Section {
	return Section{Title: title, Fields: ExtractFields(component)}
}

// Float converts any integer, unsigned or floating-point value to float64.
func Float(value any) (float64, bool) {
	v := reflect.ValueOf(value)
	switch {
	case v.CanFloat():
		return v.Float(), true
	case v.CanInt():
		return float64(v.Int()), true
	case v.CanUint():
		return float64(v.Uint()), true
	}
	return 0, false
}

// FormatValue formats a value with verb, or with two decimals for floats
// when verb is empty.
func FormatValue(value any, verb string) string {
	if verb != "" {
		return fmt.Sprintf(verb, value)
	}
	switch value.(type) {
	case float32, float64:
		return fmt.Sprintf("%.2f", value)
	}
	return fmt.Sprint(value)
}

const barWidth = 20

// Text renders a field's value. barMax is used for bars whose tag has no max.
func Text(f Field, barMax float64) string {
	switch f.Widget {
	case WidgetBool:
		if b, _ := f.Value.(bool); b {
			return "yes"
		}
		return "no"
	case WidgetAngle:
		if rad, ok := Float(f.Value); ok {
			return fmt.Sprintf("%.0f°", rad*180/math.Pi)
		}
	case WidgetBar:
		v, ok := Float(f.Value)
		if !ok {
			break
		}
		if f.Max > 0 {
			barMax = f.Max
		}
		var filled int
		if barMax > 0 {
			filled = int(math.Round(math.Max(0, math.Min(1, v/barMax)) * barWidth))
		}
		return "[" + strings.Repeat("#", filled) + strings.Repeat(".", barWidth-filled) + "] " + FormatValue(v, f.Format)
	}
	return FormatValue(f.Value, f.Format)
}

// Render writes sections as an aligned text panel.
// barMax maps field names to the value their bar is relative to.
func Render(w io.Writer, sections []Section, barMax map[string]float64) error {
	width := 0
	for _, s := range sections {
		for _, f := range s.Fields {
			width = max(width, len(f.Name))
		}
	}

	var b strings.Builder
	for _, s := range sections {
		fmt.Fprintf(&b, "== %s ==\n", s.Title)
		for _, f := range s.Fields {
			fmt.Fprintf(&b, "  %-*s  %s\n", width, f.Name, Text(f, barMax[f.Name]))
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}
