package service

import (
	"fmt"

	"github.com/noxss/roster-migrate/internal/apperror"
	"github.com/noxss/roster-migrate/internal/model"
	"github.com/noxss/roster-migrate/internal/validator"
	"github.com/rs/zerolog"
)

// Report counts what a migration pass did.
type Report struct {
	SectionsRead       int
	SectionsWritten    int
	DuplicatesDropped  int
	ProfessorConflicts int
	EmptyKeysSkipped   int
	IDsKept            int
	IDsGenerated       int
	StudentsLinked     int
	StudentsUnmatched  int
	StudentsUntouched  int
	StudentsRemapped   int
}

// MarshalZerologObject lets the report be embedded in a log event.
func (r Report) MarshalZerologObject(e *zerolog.Event) {
	e.Int("sections_read", r.SectionsRead).
		Int("sections_written", r.SectionsWritten).
		Int("duplicates_dropped", r.DuplicatesDropped).
		Int("professor_conflicts", r.ProfessorConflicts).
		Int("empty_keys_skipped", r.EmptyKeysSkipped).
		Int("ids_kept", r.IDsKept).
		Int("ids_generated", r.IDsGenerated).
		Int("students_linked", r.StudentsLinked).
		Int("students_unmatched", r.StudentsUnmatched).
		Int("students_untouched", r.StudentsUntouched).
		Int("students_remapped", r.StudentsRemapped)
}

// sectionInput is one metadata.turmas entry read from the document.
type sectionInput struct {
	index     int
	key       model.CanonicalKey
	id        string
	turma     string
	turno     string
	professor string
}

// MigrationService replaces embedded turma/turno text on students with a
// turma_id reference to a deduplicated class section.
type MigrationService struct {
	ids        IDGenerator
	normalizer *Normalizer
	log        zerolog.Logger
}

// NewMigrationService creates a new MigrationService.
func NewMigrationService(ids IDGenerator, log zerolog.Logger) *MigrationService {
	return &MigrationService{
		ids:        ids,
		normalizer: NewNormalizer(),
		log:        log,
	}
}

// Migrate returns the migrated copy of doc. doc itself is not modified.
//
// Sections are deduplicated by CanonicalKey, first occurrence wins, and
// each kept section gets an id. A section that already has an id keeps it.
// Every student embedding both turma and turno loses those fields and gains
// turma_id when a section matches.
func (s *MigrationService) Migrate(doc model.Document) (model.Document, Report, error) {
	var report Report

	rawSections, err := doc.Sections()
	if err != nil {
		return model.Document{}, report, err
	}
	rawStudents, hasStudents, err := doc.Students()
	if err != nil {
		return model.Document{}, report, err
	}

	inputs, err := s.readSections(rawSections)
	if err != nil {
		return model.Document{}, report, err
	}
	report.SectionsRead = len(inputs)

	sections, aliases, err := s.dedupSections(inputs, &report)
	if err != nil {
		return model.Document{}, report, err
	}
	for i, sec := range sections {
		if err := validator.Struct(sec); err != nil {
			return model.Document{}, report, apperror.New(apperror.CodeInternal, "service.Migrate",
				"section %d: %s", i, validator.Summary(err))
		}
	}
	report.SectionsWritten = len(sections)

	lookup := s.buildLookup(sections)

	out, err := doc.WithSections(sections)
	if err != nil {
		return model.Document{}, report, err
	}

	if hasStudents {
		students, err := s.rewriteStudents(rawStudents, lookup, aliases, &report)
		if err != nil {
			return model.Document{}, report, err
		}
		out = out.WithStudents(students)
	}

	return out, report, nil
}

func (s *MigrationService) readSections(raw []any) ([]sectionInput, error) {
	const op = "service.readSections"

	inputs := make([]sectionInput, 0, len(raw))
	for i, v := range raw {
		rec, ok := model.AsRecord(v)
		if !ok {
			return nil, apperror.New(apperror.CodeStructural, op, "metadata.turmas[%d] is %s, want object", i, model.KindOf(v))
		}

		in := sectionInput{index: i}
		fields := []struct {
			name string
			dst  *string
		}{
			{model.FieldID, &in.id},
			{model.FieldTurma, &in.turma},
			{model.FieldTurno, &in.turno},
			{model.FieldProfessor, &in.professor},
		}
		for _, f := range fields {
			val, _, err := rec.Text(f.name)
			if err != nil {
				return nil, apperror.Wrap(apperror.CodeStructural, op, fmt.Errorf("metadata.turmas[%d]: %w", i, err))
			}
			*f.dst = val
		}

		in.key = s.normalizer.Key(in.turma, in.turno)
		inputs = append(inputs, in)
	}
	return inputs, nil
}

// dedupSections keeps the first entry per key and assigns ids. The returned
// aliases map ids of dropped duplicates to the id of the kept section.
func (s *MigrationService) dedupSections(inputs []sectionInput, report *Report) ([]model.ClassSection, map[string]string, error) {
	kept := make([]sectionInput, 0, len(inputs))
	byKey := make(map[model.CanonicalKey]int, len(inputs))
	var dropped []sectionInput

	for _, in := range inputs {
		if in.key.Empty() {
			report.EmptyKeysSkipped++
			s.log.Debug().Int("index", in.index).Msg("Skipping turma without label and shift")
			continue
		}
		if i, seen := byKey[in.key]; seen {
			report.DuplicatesDropped++
			first := kept[i]
			if in.professor != first.professor {
				report.ProfessorConflicts++
				s.log.Warn().
					Str("key", string(in.key)).
					Int("kept_index", first.index).
					Int("dropped_index", in.index).
					Str("kept_professor", first.professor).
					Str("dropped_professor", in.professor).
					Msg("Duplicate turma with a different professor dropped")
			}
			if in.id != "" {
				dropped = append(dropped, in)
			}
			continue
		}
		byKey[in.key] = len(kept)
		kept = append(kept, in)
	}

	// Existing ids are reserved before any new one is drawn.
	claimed := make(map[string]bool, len(kept))
	for i := range kept {
		id := kept[i].id
		if id == "" {
			continue
		}
		if claimed[id] {
			s.log.Warn().Str("id", id).Int("index", kept[i].index).Msg("Turma id already used by another turma, issuing a new one")
			kept[i].id = ""
			continue
		}
		claimed[id] = true
		s.ids.Reserve(id)
	}
	for _, d := range dropped {
		s.ids.Reserve(d.id)
	}

	sections := make([]model.ClassSection, 0, len(kept))
	for _, in := range kept {
		id := in.id
		if id == "" {
			var err error
			if id, err = s.ids.Next(in.key); err != nil {
				return nil, nil, apperror.Wrap(apperror.CodeInternal, "service.dedupSections", err)
			}
			report.IDsGenerated++
		} else {
			report.IDsKept++
		}
		sections = append(sections, model.ClassSection{
			ID:        id,
			Turma:     FixGlyph(in.turma),
			Turno:     in.turno,
			Professor: in.professor,
		})
	}

	aliases := make(map[string]string, len(dropped))
	for _, d := range dropped {
		if claimed[d.id] {
			continue
		}
		aliases[d.id] = sections[byKey[d.key]].ID
	}

	return sections, aliases, nil
}

// buildLookup keys the output sections by their own stored label and shift.
func (s *MigrationService) buildLookup(sections []model.ClassSection) map[model.CanonicalKey]string {
	lookup := make(map[model.CanonicalKey]string, len(sections))
	for _, sec := range sections {
		lookup[s.normalizer.Key(sec.Turma, sec.Turno)] = sec.ID
	}
	return lookup
}

func (s *MigrationService) rewriteStudents(raw []any, lookup map[model.CanonicalKey]string, aliases map[string]string, report *Report) ([]any, error) {
	const op = "service.rewriteStudents"

	out := make([]any, 0, len(raw))
	for i, v := range raw {
		student, ok := model.AsStudent(v)
		if !ok {
			return nil, apperror.New(apperror.CodeStructural, op, "alunos[%d] is %s, want object", i, model.KindOf(v))
		}

		if id, has := student.SectionID(); has {
			if target, isAlias := aliases[id]; isAlias {
				student = model.Student{Record: student.With(model.FieldSectionID, target)}
				report.StudentsRemapped++
			}
		}

		if !student.HasSectionText() {
			report.StudentsUntouched++
			out = append(out, student.Value())
			continue
		}

		turma, _, err := student.Text(model.FieldTurma)
		if err != nil {
			return nil, apperror.Wrap(apperror.CodeStructural, op, fmt.Errorf("alunos[%d]: %w", i, err))
		}
		turno, _, err := student.Text(model.FieldTurno)
		if err != nil {
			return nil, apperror.Wrap(apperror.CodeStructural, op, fmt.Errorf("alunos[%d]: %w", i, err))
		}

		if id, found := lookup[s.normalizer.Key(turma, turno)]; found {
			student = student.Linked(id)
			report.StudentsLinked++
		} else {
			student = student.Unlinked()
			report.StudentsUnmatched++
			s.log.Debug().Int("index", i).Str("turma", turma).Str("turno", turno).Msg("No turma matches student")
		}
		out = append(out, student.Value())
	}
	return out, nil
}
