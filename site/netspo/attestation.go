package netspo

import (
	"context"
	"net/http"
	"strconv"

	"netspo/errors"
	"netspo/site"
)

// AttestationOption narrows Student.Attestation to part of the study
// history.
type AttestationOption func(*termSelector)

// ForCourse selects the course (academic year) n, counted from 1.
func ForCourse(n int) AttestationOption {
	return func(sel *termSelector) {
		sel.course, sel.hasCourse = n, true
	}
}

// ForSemester selects the semester n, counted from 1, of the course chosen
// with ForCourse. It cannot be used without ForCourse.
func ForSemester(n int) AttestationOption {
	return func(sel *termSelector) {
		sel.semester, sel.hasSemester = n, true
	}
}

type termSelector struct {
	course      int
	semester    int
	hasCourse   bool
	hasSemester bool
}

func (sel termSelector) validate() error {
	if sel.hasSemester && !sel.hasCourse {
		return &errors.ValidationError{Field: "semester", Reason: "requires a course"}
	}
	return nil
}

// termRef is a portal term resolved from a selector.
type termRef struct {
	Course   int
	TermID   int
	Semester int
}

// resolveTerms returns the terms sel refers to. A course or semester out of
// range resolves to no terms.
func resolveTerms(years []academicYear, sel termSelector) ([]termRef, error) {
	if err := sel.validate(); err != nil {
		return nil, err
	}

	if !sel.hasCourse {
		var refs []termRef
		for i, year := range years {
			course := year.Number
			if course == 0 {
				course = i + 1
			}
			for _, t := range year.Terms {
				refs = append(refs, termRef{Course: course, TermID: t.ID, Semester: t.Number})
			}
		}
		return refs, nil
	}

	if sel.course < 1 || sel.course > len(years) {
		return nil, nil
	}
	terms := years[sel.course-1].Terms

	if sel.hasSemester {
		if sel.semester < 1 || sel.semester > len(terms) {
			return nil, nil
		}
		t := terms[sel.semester-1]
		return []termRef{{Course: sel.course, TermID: t.ID, Semester: t.Number}}, nil
	}

	refs := make([]termRef, 0, len(terms))
	for _, t := range terms {
		refs = append(refs, termRef{Course: sel.course, TermID: t.ID, Semester: t.Number})
	}
	return refs, nil
}

// attestationRows builds a row per subject with the marks of refs. With
// filtered set, subjects without any of those marks are left out.
func attestationRows(subjects []attestationEntry, refs []termRef, filtered bool) []site.AttestationRow {
	var rows []site.AttestationRow
	for _, subject := range subjects {
		row := site.AttestationRow{Subject: subject.Name}
		if subject.FinalMark != nil {
			row.FinalMark = subject.FinalMark.Value
		}
		for _, ref := range refs {
			mark, ok := subject.Marks[strconv.Itoa(ref.TermID)]
			if !ok {
				continue
			}
			sm := site.SemesterMark{Course: ref.Course, Semester: ref.Semester}
			if mark != nil {
				sm.Mark = mark.Value
			}
			row.Semesters = append(row.Semesters, sm)
		}
		if filtered && len(row.Semesters) == 0 {
			continue
		}
		rows = append(rows, row)
	}
	return rows
}

// Attestation returns the attestation marks of the student. Without options
// it covers the whole study history and lists every subject; with ForCourse
// (and ForSemester) it lists only subjects with a mark in the selected terms.
//
// ForSemester without ForCourse fails with an *errors.ValidationError before
// any request is made.
func (s *Student) Attestation(ctx context.Context, opts ...AttestationOption) ([]site.AttestationRow, error) {
	var sel termSelector
	for _, opt := range opts {
		opt(&sel)
	}
	if err := sel.validate(); err != nil {
		return nil, err
	}

	var resp attestationResponse
	if _, err := s.client.do(ctx, http.MethodGet, s.path("attestation"), nil, &resp); err != nil {
		return nil, err
	}
	refs, err := resolveTerms(resp.AcademicYears, sel)
	if err != nil {
		return nil, err
	}
	return attestationRows(resp.Subjects, refs, sel.hasCourse), nil
}
