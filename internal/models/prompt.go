package models

import "time"

type Prompt struct {
	ID        int64     `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Content   string    `db:"content" json:"content"`
	Version   int       `db:"version" json:"version"`
	CreatedBy int64     `db:"created_by" json:"created_by"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// PromptVersion is a point-in-time snapshot of a prompt, written when the
// owner publishes a new version.
type PromptVersion struct {
	ID        int64     `db:"id" json:"id"`
	PromptID  int64     `db:"prompt_id" json:"prompt_id"`
	Name      string    `db:"name" json:"name"`
	Content   string    `db:"content" json:"content"`
	Version   int       `db:"version" json:"version"`
	CreatedBy int64     `db:"created_by" json:"created_by"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
