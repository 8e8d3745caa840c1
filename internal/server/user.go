// Package server 演示用的用户注册 API
//
// 展示保存管道的完整用法：声明唯一约束（含复合、含空格字段名、
// 自定义消息）、建索引、保存失败时把唯一键冲突以字段级校验错误
// 返回给前端渲染。
//
// 文件组织：
//   - user.go: 用户模型与唯一约束声明
//   - handler.go: HTTP 处理器
//   - metrics.go: Prometheus 指标
package server

import (
	"time"

	"uniquedoc/schema"
)

// User 注册用户
//
// "first name"/"last name" 故意使用带空格的存储字段名，
// 校验错误中的 path 必须原样保留。
type User struct {
	ID           string    `bson:"_id" json:"id"`
	Email        string    `bson:"email" json:"email"`
	FirstName    string    `bson:"first name" json:"first_name"`
	LastName     string    `bson:"last name" json:"last_name"`
	PasswordHash []byte    `bson:"password_hash" json:"-"`
	CreatedAt    time.Time `bson:"created_at" json:"created_at"`
}

// UserSchema 用户集合的唯一约束
func UserSchema() *schema.Schema {
	return schema.New("users",
		schema.Unique("email").Message("email already taken"),
		schema.Unique("first name", "last name"),
	)
}
