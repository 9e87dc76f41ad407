package models

import "time"

// AuthorKind discriminates the author variants.
type AuthorKind string

const (
	AuthorPerson      AuthorKind = "PESSOA"
	AuthorInstitution AuthorKind = "INSTITUICAO"
)

// Author is either a person (BirthDate set) or an institution (City set).
type Author struct {
	ID        string     `db:"id" json:"id"`
	Kind      AuthorKind `db:"kind" json:"tipo"`
	Name      string     `db:"name" json:"nome"`
	BirthDate *time.Time `db:"birth_date" json:"data_nascimento,omitempty"`
	City      *string    `db:"city" json:"cidade,omitempty"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt time.Time  `db:"updated_at" json:"updated_at"`
}

// IsPerson reports whether the author is a natural person.
func (a *Author) IsPerson() bool {
	return a != nil && a.Kind == AuthorPerson
}
