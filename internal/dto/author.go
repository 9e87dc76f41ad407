package dto

// DateLayout is the wire format of calendar dates.
const DateLayout = "2006-01-02"

// CreatePersonAuthorRequest registers a person author.
type CreatePersonAuthorRequest struct {
	Name      string `json:"nome" validate:"required,notblank,min=3,max=80"`
	BirthDate string `json:"data_nascimento" validate:"required,datetime=2006-01-02,notfuture"`
}

// CreateInstitutionAuthorRequest registers an institution author.
type CreateInstitutionAuthorRequest struct {
	Name string `json:"nome" validate:"required,notblank,min=3,max=120"`
	City string `json:"cidade" validate:"required,notblank,min=2,max=80"`
}

// UpdateAuthorRequest merges onto an existing author. BirthDate applies to persons
// and City to institutions only.
type UpdateAuthorRequest struct {
	Name      *string `json:"nome" validate:"omitempty,notblank,min=3,max=120"`
	BirthDate *string `json:"data_nascimento" validate:"omitempty,datetime=2006-01-02,notfuture"`
	City      *string `json:"cidade" validate:"omitempty,notblank,min=2,max=80"`
}
