package model

// Field names of a class-section entry.
const (
	FieldID        = "id"
	FieldTurma     = "turma"
	FieldTurno     = "turno"
	FieldProfessor = "professor"
)

// ClassSection represents one distinct class group (turma) after migration.
type ClassSection struct {
	ID        string `json:"id" validate:"required"`
	Turma     string `json:"turma"`
	Turno     string `json:"turno"`
	Professor string `json:"professor"`
}

// Record renders the section as an ordered JSON object.
func (c ClassSection) Record() Record {
	return NewRecord().
		With(FieldID, c.ID).
		With(FieldTurma, c.Turma).
		With(FieldTurno, c.Turno).
		With(FieldProfessor, c.Professor)
}

// KeySeparator joins the two halves of a CanonicalKey.
const KeySeparator = "-"

// CanonicalKey identifies a class section by normalized label and shift.
type CanonicalKey string

// JoinKey builds a key from already normalized parts.
func JoinKey(turma, turno string) CanonicalKey {
	return CanonicalKey(turma + KeySeparator + turno)
}

// Empty reports whether both halves of the key are empty.
func (k CanonicalKey) Empty() bool {
	return k == "" || k == CanonicalKey(KeySeparator)
}

