// Package validate 将存储层的唯一键冲突改写为字段级校验错误
//
// MongoDB 对唯一索引冲突只抛出一条笼统的 E11000，不含字段级信息。
// 本包在保存失败后介入：识别冲突、按索引标识反查声明的唯一约束、
// 从在保存的文档上读出各字段当前值，合成与原生字段校验错误同构的
// Error / FieldError，调用方可以用处理普通校验失败的同一套代码处理
// 唯一键冲突。
//
// 非冲突失败（连接错误、类型错误等）原样透传，本包不做任何包装。
package validate

import (
	"fmt"
	"strings"
)

// 错误判别值，与宿主模型层的原生校验错误保持同一套标记
const (
	// ErrorName 聚合错误的外层判别值
	ErrorName = "ValidationError"
	// FieldErrorName 字段子错误的判别值
	FieldErrorName = "ValidatorError"
	// KindDuplicate 唯一键冲突统一的错误种类，与字段类型无关
	KindDuplicate = "Duplicate value"
)

// FieldError 单个字段的唯一键冲突
//
// Value 是该字段在被保存文档实例上的原生内存值（[]byte 保持字节、
// time.Time 保持时刻），不做字符串化或重编码。
type FieldError struct {
	Name    string `json:"name"`
	Kind    string `json:"kind"`
	Path    string `json:"path"`
	Value   any    `json:"value"`
	Message string `json:"message"`
}

func (e *FieldError) Error() string {
	return e.Message
}

// Error 聚合校验错误
//
// Errors 以字段路径为键，键集合恰为被违反约束的字段序列。
// 每次保存失败合成一个新实例，不持久、不复用。
type Error struct {
	Name   string                 `json:"name"`
	Errors map[string]*FieldError `json:"errors"`

	// paths 记录字段声明顺序，保证 Error() 输出稳定
	paths []string
}

func newError(n int) *Error {
	return &Error{
		Name:   ErrorName,
		Errors: make(map[string]*FieldError, n),
		paths:  make([]string, 0, n),
	}
}

func (e *Error) add(fe *FieldError) {
	if _, ok := e.Errors[fe.Path]; !ok {
		e.paths = append(e.paths, fe.Path)
	}
	e.Errors[fe.Path] = fe
}

// Paths 按约束声明顺序返回出错字段路径
func (e *Error) Paths() []string {
	return append([]string(nil), e.paths...)
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString("validation failed")
	for i, p := range e.paths {
		if i == 0 {
			b.WriteString(": ")
		} else {
			b.WriteString(", ")
		}
		b.WriteString(p)
		b.WriteString(": ")
		b.WriteString(e.Errors[p].Message)
	}
	return b.String()
}

// defaultMessage 未配置自定义消息时的确定性默认消息
func defaultMessage(path string) string {
	return fmt.Sprintf("expected `%s` to be unique", path)
}
