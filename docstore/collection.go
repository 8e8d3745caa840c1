// Package docstore 基于 mongo-driver v2 的文档保存管道
//
// Collection 将 *mongo.Collection 与 schema.Schema 绑定：
//   - EnsureIndexes 按声明创建唯一索引，索引名即后续冲突翻译的关联标识
//   - 写入失败时经 validate.Translate 改写为字段级校验错误；写入成功
//     不经过翻译器
//
// 连接管理（Connect/Ping/Disconnect）由调用方负责，本包不持有客户端。
package docstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"uniquedoc/schema"
	"uniquedoc/validate"
)

// ErrNotFound 文档不存在
// 隔离 mongo.ErrNoDocuments，调用方不感知驱动错误类型
var ErrNotFound = errors.New("docstore: document not found")

// Collection 绑定了唯一约束声明的集合句柄
type Collection struct {
	col    *mongo.Collection
	schema *schema.Schema
}

// Open 按 Schema 的集合名打开集合
func Open(db *mongo.Database, s *schema.Schema) *Collection {
	return &Collection{col: db.Collection(s.Collection()), schema: s}
}

// Schema 返回绑定的声明
func (c *Collection) Schema() *schema.Schema {
	return c.schema
}

// Raw 返回底层集合，供声明之外的查询使用
func (c *Collection) Raw() *mongo.Collection {
	return c.col
}

// EnsureIndexes 创建全部声明的唯一索引
//
// 索引名取自 UniqueSpec.IndexName，与翻译时的反查表一一对应。
// 幂等：已存在的同名同键索引不会重复创建。
func (c *Collection) EnsureIndexes(ctx context.Context) error {
	uniques := c.schema.Uniques()
	if len(uniques) == 0 {
		return nil
	}

	models := make([]mongo.IndexModel, 0, len(uniques))
	for _, spec := range uniques {
		keys := bson.D{}
		for _, f := range spec.Fields() {
			keys = append(keys, bson.E{Key: f, Value: 1})
		}
		models = append(models, mongo.IndexModel{
			Keys:    keys,
			Options: options.Index().SetUnique(true).SetName(spec.IndexName()),
		})
	}

	if _, err := c.col.Indexes().CreateMany(ctx, models); err != nil {
		return fmt.Errorf("docstore: ensure indexes on %s: %w", c.schema.Collection(), err)
	}
	return nil
}

// InsertOne 插入单个文档，失败时翻译唯一键冲突
func (c *Collection) InsertOne(ctx context.Context, doc any) error {
	_, err := c.col.InsertOne(ctx, doc)
	return validate.Translate(err, doc, c.schema)
}

// Save 按 _id upsert 文档，失败时翻译唯一键冲突
//
// id 为空时生成 UUID 并返回。文档自身的 _id 字段由服务端按 filter 补齐。
func (c *Collection) Save(ctx context.Context, id string, doc any) (string, error) {
	if id == "" {
		id = uuid.NewString()
	}
	_, err := c.col.ReplaceOne(ctx,
		bson.D{{Key: "_id", Value: id}},
		doc,
		options.Replace().SetUpsert(true),
	)
	return id, validate.Translate(err, doc, c.schema)
}

// FindByID 按 _id 查找并解码到 out，不存在时返回 ErrNotFound
func (c *Collection) FindByID(ctx context.Context, id string, out any) error {
	err := c.col.FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	return err
}

// DeleteByID 按 _id 删除，不存在时返回 ErrNotFound
func (c *Collection) DeleteByID(ctx context.Context, id string) error {
	res, err := c.col.DeleteOne(ctx, bson.D{{Key: "_id", Value: id}})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
