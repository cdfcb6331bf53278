package model

// Doctor is referenced by schedule blocks and appointments, never owned.
type Doctor struct {
	Base
	FullName  string `db:"full_name" json:"full_name"`
	Specialty string `db:"specialty" json:"specialty"`
}
