// Package schema 定义文档模型的唯一索引声明
//
// Schema 在模型定义时构建一次，之后只读：
//   - UniqueSpec：一条唯一约束（有序字段序列 + 可选自定义消息 + 索引名）
//   - 索引名 → UniqueSpec 查找表，供写入失败时按索引标识反查约束
//
// 索引名默认按 MongoDB 规则派生（"email_1"、"first name_1_last name_1"），
// 也可通过 Name 显式指定；该名称必须与 createIndexes 时实际使用的名称一致，
// 否则服务端报告的冲突无法关联回声明。
package schema

import "strings"

// UniqueSpec 一条唯一约束声明
//
// 通过 Unique 构造，Message/Name 链式配置，交给 New 之后不可再修改
// （New 会做一次值拷贝，Schema 持有的副本与调用方指针解耦）。
type UniqueSpec struct {
	fields  []string
	message string
	name    string
}

// Unique 声明一条唯一约束
//
// fields 为参与约束的字段路径，顺序即索引键顺序：
//   - 单字段：schema.Unique("email")
//   - 复合：schema.Unique("first name", "last name")
//
// 字段路径允许任意字符（包括空格），嵌套字段用点号分隔。
func Unique(fields ...string) *UniqueSpec {
	return &UniqueSpec{fields: append([]string(nil), fields...)}
}

// Message 配置自定义错误消息
//
// 配置后，该约束的每个字段错误都原样使用这条消息（复合索引的所有字段共享）。
// 未配置时按字段派生默认消息。
func (s *UniqueSpec) Message(msg string) *UniqueSpec {
	s.message = msg
	return s
}

// Name 显式指定索引名，覆盖默认派生规则
func (s *UniqueSpec) Name(name string) *UniqueSpec {
	s.name = name
	return s
}

// Fields 返回字段序列的副本
func (s *UniqueSpec) Fields() []string {
	return append([]string(nil), s.fields...)
}

// CustomMessage 返回自定义消息，未配置时为空串
func (s *UniqueSpec) CustomMessage() string {
	return s.message
}

// IndexName 返回该约束对应的索引名（显式指定或按默认规则派生）
func (s *UniqueSpec) IndexName() string {
	if s.name != "" {
		return s.name
	}
	return DefaultIndexName(s.fields...)
}

// DefaultIndexName 按 MongoDB 默认规则从字段序列派生索引名
//
// 每个键追加 "_1"（本包只声明升序唯一索引），键之间以 "_" 连接：
//
//	DefaultIndexName("email")                     // "email_1"
//	DefaultIndexName("first name", "last name")   // "first name_1_last name_1"
func DefaultIndexName(fields ...string) string {
	var b strings.Builder
	for i, f := range fields {
		if i > 0 {
			b.WriteByte('_')
		}
		b.WriteString(f)
		b.WriteString("_1")
	}
	return b.String()
}

// Schema 一个集合的唯一约束集合
//
// 不可变：New 返回后仅供并发只读访问，无需加锁。
type Schema struct {
	collection string
	uniques    []*UniqueSpec
	byName     map[string]*UniqueSpec
}

// New 构建 Schema 并建立索引名查找表
//
// 同名索引以先声明者为准。查找表只在此处构建一次，翻译路径上不再重算。
func New(collection string, uniques ...*UniqueSpec) *Schema {
	s := &Schema{
		collection: collection,
		uniques:    make([]*UniqueSpec, 0, len(uniques)),
		byName:     make(map[string]*UniqueSpec, len(uniques)),
	}
	for _, u := range uniques {
		if u == nil {
			continue
		}
		// 值拷贝，隔离调用方后续对 builder 指针的修改
		cp := &UniqueSpec{
			fields:  append([]string(nil), u.fields...),
			message: u.message,
			name:    u.name,
		}
		s.uniques = append(s.uniques, cp)
		if name := cp.IndexName(); name != "" {
			if _, ok := s.byName[name]; !ok {
				s.byName[name] = cp
			}
		}
	}
	return s
}

// Collection 返回集合名
func (s *Schema) Collection() string {
	return s.collection
}

// Uniques 按声明顺序返回全部唯一约束
func (s *Schema) Uniques() []*UniqueSpec {
	return append([]*UniqueSpec(nil), s.uniques...)
}

// LookupIndex 按索引名反查约束
func (s *Schema) LookupIndex(name string) (*UniqueSpec, bool) {
	spec, ok := s.byName[name]
	return spec, ok
}

// LookupFields 按字段序列反查约束（顺序敏感）
//
// 服务端冲突报告中的 keyPattern 不受索引改名影响，作为索引名之外的
// 兜底关联手段。
func (s *Schema) LookupFields(fields []string) (*UniqueSpec, bool) {
	for _, spec := range s.uniques {
		if len(spec.fields) != len(fields) {
			continue
		}
		match := true
		for i, f := range spec.fields {
			if f != fields[i] {
				match = false
				break
			}
		}
		if match {
			return spec, true
		}
	}
	return nil, false
}
