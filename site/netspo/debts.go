package netspo

import (
	"context"
	"time"

	"netspo/site"
)

// Task and lesson types for which a missing mark counts as a debt.
var legitTypes = map[string]struct{}{
	"Control":       {},
	"Test":          {},
	"PracticalWork": {},
	"Laboratory":    {},
	"Home":          {},
	"Independent":   {},
	"Slice":         {},
	"Lesson":        {},
	"Self":          {},
}

const (
	// MarkPending is the debt marker of a required task that has no mark.
	MarkPending = "Точка"
	// MarkFailed is the debt marker of a required task marked "Two".
	MarkFailed = "2"

	failingMark = "Two"
)

func isLegit(kind string) bool {
	_, ok := legitTypes[kind]
	return ok
}

// debtMarkers returns the debt markers of a required task of lesson.
func debtMarkers(task taskNode, lessonType string) []string {
	unmarked := task.Mark == nil || *task.Mark == ""
	switch {
	case unmarked && (isLegit(task.Type) || isLegit(lessonType)):
		return []string{MarkPending}
	case !unmarked && *task.Mark == failingMark:
		return []string{MarkFailed}
	}
	return nil
}

// findDebts returns a debt for every required task in days that is unmarked
// or failed, in source order. Lessons without a name, gradebook or tasks are
// skipped.
func findDebts(days []dayNode, loc *time.Location) []site.Debt {
	var debts []site.Debt
	for _, day := range days {
		for _, lesson := range day.Lessons {
			gb := lesson.Gradebook
			if lesson.Name == "" || gb == nil || len(gb.Tasks) == 0 {
				continue
			}
			for _, task := range gb.Tasks {
				if !task.IsRequired {
					continue
				}
				markers := debtMarkers(task, gb.LessonType)
				if len(markers) == 0 {
					continue
				}
				var theme string
				if len(gb.Themes) > 0 {
					theme = gb.Themes[0]
				}
				debts = append(debts, site.Debt{
					Subject: lesson.Name,
					Theme:   theme,
					Mark: site.DatedMark{
						Values: markers,
						Day:    day.Date.At(loc),
					},
				})
			}
		}
	}
	return debts
}

// DefaultPeriod returns the half of the academic year containing now:
// September 1 to December 31 from August on, January 1 to August 1
// otherwise.
func DefaultPeriod(now time.Time) (begin, end time.Time) {
	year, loc := now.Year(), now.Location()
	if now.Month() > time.July {
		return time.Date(year, time.September, 1, 0, 0, 0, 0, loc),
			time.Date(year, time.December, 31, 0, 0, 0, 0, loc)
	}
	return time.Date(year, time.January, 1, 0, 0, 0, 0, loc),
		time.Date(year, time.August, 1, 0, 0, 0, 0, loc)
}

// Debts returns the academic debts of the student between begin and end,
// inclusive. If either bound is zero, the period is DefaultPeriod of the
// current date in the portal timezone.
func (s *Student) Debts(ctx context.Context, begin, end time.Time) ([]site.Debt, error) {
	if begin.IsZero() || end.IsZero() {
		begin, end = DefaultPeriod(s.client.now().In(s.client.loc))
	}
	days, err := s.lessons(ctx, begin, end)
	if err != nil {
		return nil, err
	}
	return findDebts(days, s.client.loc), nil
}
