package model

// FieldSectionID is the student reference to ClassSection.ID.
const FieldSectionID = "turma_id"

// Student is an aluno entry. Apart from the section fields it is opaque.
type Student struct {
	Record
}

// AsStudent wraps a decoded alunos entry.
func AsStudent(v any) (Student, bool) {
	r, ok := AsRecord(v)
	return Student{Record: r}, ok
}

// HasSectionText reports whether the student still embeds both turma and
// turno, the only case the migration rewrites.
func (s Student) HasSectionText() bool {
	return s.Has(FieldTurma) && s.Has(FieldTurno)
}

// SectionID returns the current turma_id reference, if any.
func (s Student) SectionID() (string, bool) {
	v, ok := s.Get(FieldSectionID)
	if !ok {
		return "", false
	}
	id, isString := v.(string)
	return id, isString && id != ""
}

// Linked returns a copy referencing sectionID and without embedded section text.
func (s Student) Linked(sectionID string) Student {
	return Student{Record: s.With(FieldSectionID, sectionID).Without(FieldTurma, FieldTurno)}
}

// Unlinked returns a copy without embedded section text and without adding
// a reference.
func (s Student) Unlinked() Student {
	return Student{Record: s.Without(FieldTurma, FieldTurno)}
}
