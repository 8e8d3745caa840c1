package validate

import (
	"errors"
	"regexp"

	"go.mongodb.org/mongo-driver/v2/mongo"

	"uniquedoc/schema"
)

// Translate 保存失败后的唯一键冲突翻译
//
// 纯函数：一次失败一次翻译，无状态、无 I/O、不重试，可并发调用。
//
//   - err 不是唯一键冲突 → 原样返回（连接错误、必填校验等不受影响）
//   - 冲突的索引在 s 中没有对应声明 → 原样返回，不凭空捏造字段错误
//   - 命中声明 → 返回 *Error，约束的每个字段一条 FieldError，
//     值从 doc 上按声明路径读取（缺失字段记为 nil，翻译本身不失败）
//
// 复合索引虽然只碰撞一条组合键，仍逐字段报告。
func Translate(err error, doc any, s *schema.Schema) error {
	if err == nil || s == nil {
		return err
	}
	if !mongo.IsDuplicateKeyError(err) {
		return err
	}

	name, keyPattern := conflictIndex(err)
	spec, ok := lookupSpec(s, name, keyPattern)
	if !ok {
		return err
	}
	fields := spec.Fields()
	if len(fields) == 0 {
		// 防御：声明保证 ≥1 字段，空声明不可达，透传原错误
		return err
	}

	verr := newError(len(fields))
	for _, path := range fields {
		value, _ := schema.Get(doc, path)
		msg := spec.CustomMessage()
		if msg == "" {
			msg = defaultMessage(path)
		}
		verr.add(&FieldError{
			Name:    FieldErrorName,
			Kind:    KindDuplicate,
			Path:    path,
			Value:   value,
			Message: msg,
		})
	}
	return verr
}

// 服务端历来的唯一键冲突错误码；16460 携带 " E11000 " 文本的情况由
// mongo.IsDuplicateKeyError 兜底，这里只用于挑选 write error 条目。
func dupCode(code int) bool {
	return code == 11000 || code == 11001 || code == 12582
}

// indexNameRe 从服务端消息中提取索引名，兼容新旧两种格式：
//
//	"... index: email_1 dup key: { email: \"x\" }"            (≥3.0)
//	"... index: db.users.$email_1 dup key: { : \"x\" }"       (旧格式)
//
// 索引名可含空格和点号，非贪婪匹配到 " dup key" 为止。
var indexNameRe = regexp.MustCompile(`index: (?:.*\.\$)?(.*?) dup key`)

func parseIndexName(msg string) string {
	m := indexNameRe.FindStringSubmatch(msg)
	if m == nil {
		return ""
	}
	return m[1]
}

// conflictIndex 从驱动错误中提取冲突的索引标识
//
// 返回消息中解析出的索引名，以及（write error 场景下）服务端原始
// 应答里的 keyPattern 字段序列。取第一条唯一键冲突条目——服务端
// 每条 write error 只报告一个被违反的索引。
func conflictIndex(err error) (name string, keyPattern []string) {
	var we mongo.WriteException
	if errors.As(err, &we) {
		for _, e := range we.WriteErrors {
			if dupCode(e.Code) {
				return writeErrorIndex(e)
			}
		}
	}

	var bwe mongo.BulkWriteException
	if errors.As(err, &bwe) {
		for _, e := range bwe.WriteErrors {
			if dupCode(e.Code) {
				return writeErrorIndex(e.WriteError)
			}
		}
	}

	var ce mongo.CommandError
	if errors.As(err, &ce) {
		return parseIndexName(ce.Message), nil
	}

	return parseIndexName(err.Error()), nil
}

// writeErrorIndex 解析单条 write error：消息里的索引名 + Raw 应答里的
// keyPattern（4.2+ 服务端随 E11000 返回，索引改名后仍可关联）。
func writeErrorIndex(e mongo.WriteError) (string, []string) {
	name := parseIndexName(e.Message)

	var pattern []string
	if rv, err := e.Raw.LookupErr("keyPattern"); err == nil {
		if doc, ok := rv.DocumentOK(); ok {
			if elems, err := doc.Elements(); err == nil {
				for _, el := range elems {
					key, err := el.KeyErr()
					if err != nil {
						return name, nil
					}
					pattern = append(pattern, key)
				}
			}
		}
	}
	return name, pattern
}

// lookupSpec 索引标识 → 声明的约束。索引名优先，keyPattern 兜底。
func lookupSpec(s *schema.Schema, name string, keyPattern []string) (*schema.UniqueSpec, bool) {
	if name != "" {
		if spec, ok := s.LookupIndex(name); ok {
			return spec, true
		}
	}
	if len(keyPattern) > 0 {
		if spec, ok := s.LookupFields(keyPattern); ok {
			return spec, true
		}
	}
	return nil, false
}
