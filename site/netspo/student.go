package netspo

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"netspo/errors"
	"netspo/site"
)

// Student is the student-scoped client of an account. Obtain it from
// Account.Student.
type Student struct {
	client   *Client
	identity site.Identity
}

// Identity returns the student identity found at login.
func (s *Student) Identity() site.Identity {
	return s.identity
}

func (s *Student) path(parts ...string) string {
	return "/services/students/" + strconv.Itoa(s.identity.TargetID) + "/" + strings.Join(parts, "/")
}

// Dashboard returns the average mark of every subject on the student
// dashboard, in portal order.
func (s *Student) Dashboard(ctx context.Context) ([]site.Mark, error) {
	var resp dashboardResponse
	if _, err := s.client.do(ctx, http.MethodGet, s.path("dashboard"), nil, &resp); err != nil {
		return nil, err
	}
	marks := make([]site.Mark, 0, len(resp.Subjects))
	for _, subject := range resp.Subjects {
		marks = append(marks, site.Mark{
			Subject: subject.Name,
			Average: average(subject.Mark),
		})
	}
	return marks, nil
}

func (s *Student) performance(ctx context.Context) (performanceResponse, error) {
	var resp performanceResponse
	path := "/services/reports/current/performance/" + strconv.Itoa(s.identity.TargetID)
	_, err := s.client.do(ctx, http.MethodGet, path, nil, &resp)
	return resp, err
}

// Performance returns the dated marks of every subject in the current
// performance report. Subjects without any marked day are left out.
func (s *Student) Performance(ctx context.Context) ([]site.Mark, error) {
	resp, err := s.performance(ctx)
	if err != nil {
		return nil, err
	}
	var marks []site.Mark
	for _, subject := range resp.DaysWithMarksForSubject {
		if len(subject.DaysWithMarks) == 0 {
			continue
		}
		mark := site.Mark{Subject: subject.SubjectName}
		for _, day := range subject.DaysWithMarks {
			mark.Entries = append(mark.Entries, site.DatedMark{
				Values:      []string(day.MarkValues),
				Day:         day.Day.At(s.client.loc),
				AbsenceType: day.AbsenceType,
			})
		}
		marks = append(marks, mark)
	}
	return marks, nil
}

// StudyDays returns the days with lessons listed in the current performance
// report, in portal order.
func (s *Student) StudyDays(ctx context.Context) ([]time.Time, error) {
	resp, err := s.performance(ctx)
	if err != nil {
		return nil, err
	}
	var days []time.Time
	for _, month := range resp.MonthsWithDays {
		for _, day := range month.DaysWithLessons {
			if day.IsZero() {
				continue
			}
			days = append(days, day.At(s.client.loc))
		}
	}
	return days, nil
}

func (s *Student) lessons(ctx context.Context, begin, end time.Time) ([]dayNode, error) {
	if end.Before(begin) {
		return nil, &errors.ValidationError{Field: "end", Reason: "before begin"}
	}
	var days []dayNode
	path := s.path("lessons", begin.Format(site.DayLayout), end.Format(site.DayLayout))
	if _, err := s.client.do(ctx, http.MethodGet, path, nil, &days); err != nil {
		return nil, err
	}
	return days, nil
}

// Timetable returns the lessons between begin and end, inclusive, grouped by
// day.
func (s *Student) Timetable(ctx context.Context, begin, end time.Time) ([]site.TimetableDay, error) {
	days, err := s.lessons(ctx, begin, end)
	if err != nil {
		return nil, err
	}
	loc := s.client.loc
	timetable := make([]site.TimetableDay, 0, len(days))
	for _, d := range days {
		day := site.TimetableDay{Day: d.Date.At(loc)}
		for _, l := range d.Lessons {
			day.Lessons = append(day.Lessons, lessonSlot(day.Day, l))
		}
		timetable = append(timetable, day)
	}
	return timetable, nil
}

func lessonSlot(day time.Time, l lessonNode) site.LessonSlot {
	slot := site.LessonSlot{
		Name:  l.Name,
		Start: clock(day, l.StartTime),
		End:   clock(day, l.EndTime),
	}
	if l.Timetable != nil {
		if l.Timetable.Teacher != nil {
			slot.Teacher = l.Timetable.Teacher.fullName()
		}
		if l.Timetable.Classroom != nil {
			slot.Room = l.Timetable.Classroom.Name
		}
	}
	if l.Gradebook != nil {
		slot.ID = l.Gradebook.ID
		slot.Themes = l.Gradebook.Themes
	}
	return slot
}

// clock returns day at the "15:04" time hhmm. An unparsable time gives day
// itself.
func clock(day time.Time, hhmm string) time.Time {
	t, err := time.Parse("15:04", strings.TrimSpace(hhmm))
	if err != nil {
		return day
	}
	return time.Date(day.Year(), day.Month(), day.Day(), t.Hour(), t.Minute(), 0, 0, day.Location())
}
