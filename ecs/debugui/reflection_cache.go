package debugui

import (
	"reflect"
	"strings"
)

// FieldInfo describes an exported component field shown by the inspector.
type FieldInfo struct {
	Name  string
	Label string
	Index int
	// Kind is the kind of the field, or of its element for pointer fields.
	Kind      reflect.Kind
	IsPointer bool
}

// Editable reports whether the inspector offers an input widget for the field.
func (f FieldInfo) Editable() bool {
	switch f.Kind {
	case reflect.Bool, reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

// ReflectionCache memoises the inspectable fields of struct types. It is only used from
// the render goroutine and is not safe for concurrent use.
type ReflectionCache struct {
	fields map[reflect.Type][]FieldInfo
}

func NewReflectionCache() *ReflectionCache {
	return &ReflectionCache{fields: make(map[reflect.Type][]FieldInfo)}
}

// GetFields returns the exported fields of t, or nil if t is not a struct. Fields tagged
// `yaml:"-"` are hidden and the yaml name, when present, is used as the label.
func (rc *ReflectionCache) GetFields(t reflect.Type) []FieldInfo {
	if fields, ok := rc.fields[t]; ok {
		return fields
	}

	var fields []FieldInfo
	if t.Kind() == reflect.Struct {
		for i := range t.NumField() {
			sf := t.Field(i)
			if !sf.IsExported() {
				continue
			}
			label, hidden := yamlLabel(sf)
			if hidden {
				continue
			}

			ft := sf.Type
			isPointer := ft.Kind() == reflect.Ptr
			if isPointer {
				ft = ft.Elem()
			}
			fields = append(fields, FieldInfo{
				Name:      sf.Name,
				Label:     label,
				Index:     i,
				Kind:      ft.Kind(),
				IsPointer: isPointer,
			})
		}
	}

	rc.fields[t] = fields
	return fields
}

func yamlLabel(sf reflect.StructField) (label string, hidden bool) {
	tag, ok := sf.Tag.Lookup("yaml")
	if !ok {
		return sf.Name, false
	}
	name, _, _ := strings.Cut(tag, ",")
	switch name {
	case "-":
		return "", true
	case "":
		return sf.Name, false
	}
	return name, false
}

var globalReflectionCache = NewReflectionCache()
