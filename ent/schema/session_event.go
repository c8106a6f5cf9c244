package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// SessionEvent records one transition of a learning loop.
type SessionEvent struct {
	ent.Schema
}

func (SessionEvent) Mixin() []ent.Mixin {
	return []ent.Mixin{EventMixin{}}
}

func (SessionEvent) Fields() []ent.Field {
	return []ent.Field{
		field.String("session_id").
			NotEmpty().
			Comment("UUID grouping events of one loop"),
		field.String("action").
			NotEmpty().
			Comment("start, reflect, submit, restart, chat, end"),
		field.String("phase").
			Default("").
			Comment("Phase after the transition"),
		field.Int("progress").
			Default(0),
		field.JSON("detail", map[string]any{}).
			Optional(),
	}
}

func (SessionEvent) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("session_id"),
	}
}
