package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// AnswerEvent records one server-acknowledged answer submission. The
// server's copy of each answer stays authoritative; this local mirror
// feeds offline resume fallback and the status command.
type AnswerEvent struct {
	ent.Schema
}

func (AnswerEvent) Mixin() []ent.Mixin {
	return []ent.Mixin{EventMixin{}}
}

func (AnswerEvent) Fields() []ent.Field {
	return []ent.Field{
		field.String("session_id").
			NotEmpty().
			Comment("Server session the answer belongs to"),
		field.Int("question_id").
			Comment("Backend question id"),
		field.Int("page_id").
			Comment("Page the question was served on"),
		field.String("question_type").
			NotEmpty().
			Comment("slider, mcq-single, mcq-multiple, ordering, or essay"),
		field.Int("xp_gained").
			Default(0).
			Comment("Per-answer XP from the submit response"),
	}
}

func (AnswerEvent) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("session_id"),
		index.Fields("session_id", "page_id"),
		index.Fields("session_id", "question_id"),
	}
}
