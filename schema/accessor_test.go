package schema

import (
	"reflect"
	"testing"

	"go.mongodb.org/mongo-driver/v2/bson"
)

func TestGet_Maps(t *testing.T) {
	tests := []struct {
		name   string
		doc    any
		path   string
		want   any
		wantOK bool
	}{
		{"bson.M", bson.M{"email": "a@b"}, "email", "a@b", true},
		{"bson.M spaced key", bson.M{"display name": "ada"}, "display name", "ada", true},
		{"plain map", map[string]any{"n": 42}, "n", 42, true},
		{"bson.D", bson.D{{Key: "email", Value: "a@b"}}, "email", "a@b", true},
		{"nested dotted", bson.M{"profile": bson.M{"email": "a@b"}}, "profile.email", "a@b", true},
		{"nested through bson.D", bson.M{"profile": bson.D{{Key: "email", Value: "a@b"}}}, "profile.email", "a@b", true},
		{"missing key", bson.M{"email": "a@b"}, "name", nil, false},
		{"missing nested", bson.M{"profile": bson.M{}}, "profile.email", nil, false},
		{"traverse into scalar", bson.M{"email": "a@b"}, "email.sub", nil, false},
		{"nil document", nil, "email", nil, false},
		{"nil intermediate", bson.M{"profile": nil}, "profile.email", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Get(tt.doc, tt.path)
			if ok != tt.wantOK || !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Get(%v, %q) = (%v, %v), want (%v, %v)", tt.doc, tt.path, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestGet_Struct(t *testing.T) {
	type contact struct {
		Email string `bson:"email"`
	}
	type meta struct {
		Origin string `bson:"origin"`
	}
	type user struct {
		ID        string  `bson:"_id"`
		FirstName string  `bson:"first name"`
		Plain     string  // 无 tag：按小写字段名
		Secret    string  `bson:"-"`
		Contact   contact `bson:"contact"`
		Meta      meta    `bson:",inline"`
		unexport  string
	}

	doc := user{
		ID:        "u1",
		FirstName: "Ada",
		Plain:     "p",
		Secret:    "s",
		Contact:   contact{Email: "a@b"},
		Meta:      meta{Origin: "import"},
		unexport:  "x",
	}

	tests := []struct {
		path   string
		want   any
		wantOK bool
	}{
		{"_id", "u1", true},
		{"first name", "Ada", true},
		{"plain", "p", true},
		{"contact.email", "a@b", true},
		{"origin", "import", true}, // inline 展开
		{"-", nil, false},
		{"secret", nil, false},
		{"unexport", nil, false},
		{"missing", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, ok := Get(doc, tt.path)
			if ok != tt.wantOK || !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Get(doc, %q) = (%v, %v), want (%v, %v)", tt.path, got, ok, tt.want, tt.wantOK)
			}
		})
	}

	// 指针文档同样可读
	if got, ok := Get(&doc, "first name"); !ok || got != "Ada" {
		t.Errorf("Get(&doc, \"first name\") = (%v, %v)", got, ok)
	}
}

func TestGet_Raw(t *testing.T) {
	data, err := bson.Marshal(bson.D{
		{Key: "email", Value: "a@b"},
		{Key: "profile", Value: bson.D{{Key: "age", Value: int32(7)}}},
	})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	raw := bson.Raw(data)

	if got, ok := Get(raw, "email"); !ok || got != "a@b" {
		t.Errorf("Get(raw, \"email\") = (%v, %v)", got, ok)
	}
	if _, ok := Get(raw, "missing"); ok {
		t.Error("missing key resolved on bson.Raw")
	}
}

func TestGet_NativeValuePreserved(t *testing.T) {
	// 访问器不得改写值的内存表示：字节切片取回的是同一底层数组
	blob := []byte{1, 2, 3}
	doc := bson.M{"payload": blob}

	got, ok := Get(doc, "payload")
	if !ok {
		t.Fatal("payload not found")
	}
	b, ok := got.([]byte)
	if !ok {
		t.Fatalf("value type = %T, want []byte", got)
	}
	if &b[0] != &blob[0] {
		t.Error("byte slice was copied or re-encoded")
	}
}
