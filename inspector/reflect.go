package inspector

import (
	"fmt"
	"log/slog"
	"math"
	"reflect"
	"strings"
)

// Widget selects how a field is rendered into a log attribute.
type Widget int

const (
	WidgetAuto Widget = iota
	WidgetLabel
	WidgetAngle
	WidgetBool
	WidgetSkip
)

// Field represents a component field with rendering hints.
type Field struct {
	Name    string
	Value   interface{}
	Widget  Widget
	Options map[string]string
}

// ParseTag parses an inspect struct tag.
// Format: `inspect:"widget[,option:value...]"`
// Examples:
//
//	`inspect:"angle"`
//	`inspect:"label,fmt:%.1f"`
//	`inspect:"skip"`
func ParseTag(tag string) (Widget, map[string]string) {
	options := make(map[string]string)

	if tag == "" {
		return WidgetAuto, options
	}

	parts := strings.Split(tag, ",")

	var widget Widget
	switch strings.TrimSpace(parts[0]) {
	case "label":
		widget = WidgetLabel
	case "angle":
		widget = WidgetAngle
	case "bool":
		widget = WidgetBool
	case "skip":
		widget = WidgetSkip
	default:
		widget = WidgetAuto
	}

	for _, part := range parts[1:] {
		kv := strings.SplitN(strings.TrimSpace(part), ":", 2)
		if len(kv) == 2 {
			options[kv[0]] = kv[1]
		}
	}

	return widget, options
}

// ExtractFields uses reflection to extract all fields from a component.
func ExtractFields(component interface{}) []Field {
	v := reflect.ValueOf(component)
	if v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return nil
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return nil
	}

	t := v.Type()
	var fields []Field

	for i := 0; i < v.NumField(); i++ {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}

		widget, options := ParseTag(sf.Tag.Get("inspect"))
		if widget == WidgetSkip {
			continue
		}

		fv := v.Field(i)
		if widget == WidgetAuto && fv.Kind() == reflect.Bool {
			widget = WidgetBool
		}

		fields = append(fields, Field{
			Name:    sf.Name,
			Value:   fv.Interface(),
			Widget:  widget,
			Options: options,
		})
	}

	return fields
}

// Attrs renders a component's inspectable fields as slog attributes. Nested
// untagged structs become groups.
func Attrs(component interface{}) []slog.Attr {
	fields := ExtractFields(component)
	attrs := make([]slog.Attr, 0, len(fields))

	for _, f := range fields {
		key := snakeCase(f.Name)
		switch f.Widget {
		case WidgetBool:
			b, _ := f.Value.(bool)
			attrs = append(attrs, slog.Bool(key, b))
		case WidgetAngle:
			rad, _ := f.Value.(float64)
			attrs = append(attrs, slog.String(key, fmt.Sprintf("%.1fdeg", rad*180/math.Pi)))
		case WidgetAuto:
			if rv := reflect.ValueOf(f.Value); rv.Kind() == reflect.Struct && !isStringer(f.Value) {
				attrs = append(attrs, slog.Attr{Key: key, Value: slog.GroupValue(Attrs(f.Value)...)})
				continue
			}
			attrs = append(attrs, slog.String(key, FormatValue(f.Value, f.Options["fmt"])))
		default:
			attrs = append(attrs, slog.String(key, FormatValue(f.Value, f.Options["fmt"])))
		}
	}

	return attrs
}

// FormatValue formats a field value as a string. Nil pointers print as none.
func FormatValue(value interface{}, fmtStr string) string {
	if rv := reflect.ValueOf(value); rv.Kind() == reflect.Ptr && rv.IsNil() {
		return "none"
	}
	if fmtStr == "" {
		switch v := value.(type) {
		case float32:
			return fmt.Sprintf("%.2f", v)
		case float64:
			return fmt.Sprintf("%.2f", v)
		default:
			return fmt.Sprintf("%v", value)
		}
	}
	return fmt.Sprintf(fmtStr, value)
}

func isStringer(v interface{}) bool {
	_, ok := v.(fmt.Stringer)
	return ok
}

// snakeCase converts an exported Go field name to a log key.
func snakeCase(name string) string {
	var b strings.Builder
	for i, r := range name {
		if r >= 'A' && r <= 'Z' {
			if i > 0 && !(name[i-1] >= 'A' && name[i-1] <= 'Z') {
				b.WriteByte('_')
			}
			b.WriteRune(r + ('a' - 'A'))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
