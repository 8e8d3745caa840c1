package schema

import (
	"reflect"
	"strings"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Get 按声明路径从在保存的文档实例上读取字段当前值
//
// 这是一个按名取值的通用访问器：路径中的点号表示嵌套层级，单个段内
// 允许任意字符（字段名 "display name" 原样可寻址）。支持的容器：
//   - bson.M / map[string]any / 任意 string 键 map
//   - bson.D / bson.Raw
//   - 结构体（含指针），按 bson tag 解析字段名，支持 ",inline" 内联
//
// 值以文档上的原生内存表示返回，不做序列化或重编码。
// 字段不存在（或中途遇到非容器值）时返回 (nil, false)。
func Get(doc any, path string) (any, bool) {
	cur := doc
	for _, seg := range strings.Split(path, ".") {
		v, ok := field(cur, seg)
		if !ok {
			return nil, false
		}
		cur = v
	}
	return cur, true
}

// field 在单个容器上解析一级字段名
func field(doc any, name string) (any, bool) {
	switch d := doc.(type) {
	case nil:
		return nil, false
	case bson.M:
		v, ok := d[name]
		return v, ok
	case map[string]any:
		v, ok := d[name]
		return v, ok
	case bson.D:
		for _, e := range d {
			if e.Key == name {
				return e.Value, true
			}
		}
		return nil, false
	case bson.Raw:
		rv, err := d.LookupErr(name)
		if err != nil {
			return nil, false
		}
		var v any
		if err := rv.Unmarshal(&v); err != nil {
			return nil, false
		}
		return v, true
	}
	return reflectField(reflect.ValueOf(doc), name)
}

// reflectField 在 map/结构体上按 bson 规则解析字段
func reflectField(rv reflect.Value, name string) (any, bool) {
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return nil, false
		}
		rv = rv.Elem()
	}
	switch rv.Kind() {
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil, false
		}
		v := rv.MapIndex(reflect.ValueOf(name).Convert(rv.Type().Key()))
		if !v.IsValid() {
			return nil, false
		}
		return v.Interface(), true
	case reflect.Struct:
		return structField(rv, name)
	}
	return nil, false
}

func structField(rv reflect.Value, name string) (any, bool) {
	t := rv.Type()
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		key, inline, skip := bsonKey(f)
		if skip {
			continue
		}
		if inline {
			if v, ok := reflectField(rv.Field(i), name); ok {
				return v, true
			}
			continue
		}
		if key == name {
			return rv.Field(i).Interface(), true
		}
	}
	return nil, false
}

// bsonKey 解析结构体字段的 bson 键名，与驱动的 tag 规则一致：
// 无 tag 时取小写字段名，"-" 跳过，",inline" 内联展开。
func bsonKey(f reflect.StructField) (key string, inline, skip bool) {
	tag, ok := f.Tag.Lookup("bson")
	if !ok {
		return strings.ToLower(f.Name), false, false
	}
	parts := strings.Split(tag, ",")
	key = parts[0]
	if key == "-" {
		return "", false, true
	}
	for _, opt := range parts[1:] {
		if opt == "inline" {
			return "", true, false
		}
	}
	if key == "" {
		key = strings.ToLower(f.Name)
	}
	return key, false, false
}
