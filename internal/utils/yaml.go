package utils

import (
	"reflect"
	"strings"

	yaml "gopkg.in/yaml.v2"
)

// YAMLNameOfField returns the YAML key that is used for the given struct
// field.  It does this by actually serializing the field and parsing the
// output string.  If the field has no key (e.g. if the `yaml:"-"` tag is set,
// this will return an empty string.
func YAMLNameOfField(field reflect.StructField) string {
	if strings.HasPrefix(field.Tag.Get("yaml"), ",inline") {
		return ""
	}
	tmp := reflect.New(reflect.StructOf([]reflect.StructField{field})).Elem()
	asYaml, _ := yaml.Marshal(tmp.Interface())
	parts := strings.SplitN(string(asYaml), ":", 2)
	if parts[0] == string(asYaml) {
		return ""
	}
	return parts[0]
}

// YAMLNameOfFieldInStruct returns the YAML key that is used for the given
// struct field, looking up fieldName in the given st struct.  If the field has
// no key (e.g. if the `yaml:"-"` tag is set, this will return an empty string.
// Fields promoted from embedded structs are found as well.  If st is not a
// struct, this will panic.
func YAMLNameOfFieldInStruct(fieldName string, st interface{}) string {
	stType := reflect.Indirect(reflect.ValueOf(st)).Type()
	field, ok := stType.FieldByName(fieldName)
	if !ok {
		return ""
	}
	return YAMLNameOfField(field)
}
