package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/field"
)

// Preference is a learner choice that survives restarts.
type Preference struct {
	ent.Schema
}

func (Preference) Fields() []ent.Field {
	return []ent.Field{
		field.String("key").
			NotEmpty().
			Unique(),
		field.String("value"),
		field.Time("updated_at"),
	}
}
