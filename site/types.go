package site

import (
	"time"
)

// Role names a portal account role.
type Role string

const (
	RoleStudent Role = "student"
	RoleTeacher Role = "teacher"
)

// Identity represents the authenticated portal account for one role.
type Identity struct {
	TargetID         int
	DisplayName      string
	GroupName        string
	OrganizationName string
}

// DatedMark represents the mark values recorded for a subject on one day.
type DatedMark struct {
	Values      []string
	Day         time.Time
	AbsenceType *string
}

// Mark represents the marks of a single subject. Dashboard results carry an
// Average; performance results carry dated Entries.
type Mark struct {
	Subject string
	Average *float64
	Entries []DatedMark
}

// Debt represents a required task without a satisfactory mark.
type Debt struct {
	Subject string
	Theme   string
	Mark    DatedMark
}

// LessonSlot represents a lesson in a timetable day.
type LessonSlot struct {
	ID      int
	Name    string
	Teacher string
	Room    string
	Start   time.Time
	End     time.Time
	Themes  []string
}

// TimetableDay represents the lessons of a single day, in portal order.
type TimetableDay struct {
	Day     time.Time
	Lessons []LessonSlot
}

// SemesterMark represents the attestation mark for one semester of a course.
type SemesterMark struct {
	Course   int
	Semester int
	Mark     *string
}

// AttestationRow represents the attestation of one subject.
type AttestationRow struct {
	Subject   string
	FinalMark *string
	Semesters []SemesterMark
}
