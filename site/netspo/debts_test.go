package netspo

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"netspo/site"
	"netspo/tests"
)

func decodeDays(t *testing.T, raw string) []dayNode {
	t.Helper()
	var days []dayNode
	require.NoError(t, json.Unmarshal([]byte(raw), &days))
	return days
}

func TestFindDebtsUnmarked(t *testing.T) {
	days := decodeDays(t, `[{"date":"2025-01-01T00:00:00","lessons":[{"name":"Math","gradebook":{"lessonType":"Lesson","themes":["Algebra"],"tasks":[{"isRequired":true,"type":"Home","mark":null}]}}]}]`)

	got := findDebts(days, time.UTC)
	want := []site.Debt{{
		Subject: "Math",
		Theme:   "Algebra",
		Mark: site.DatedMark{
			Values: []string{"Точка"},
			Day:    time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		},
	}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("findDebts() mismatch (-want +got):\n%s", diff)
	}
}

func TestFindDebtsFailed(t *testing.T) {
	days := decodeDays(t, `[{"date":"2025-01-01T00:00:00","lessons":[{"name":"Math","gradebook":{"lessonType":"Lesson","themes":["Algebra"],"tasks":[{"isRequired":true,"type":"Home","mark":"Two"}]}}]}]`)

	got := findDebts(days, time.UTC)
	require.Len(t, got, 1)
	assert.Equal(t, []string{"2"}, got[0].Mark.Values)
	assert.Equal(t, "Algebra", got[0].Theme)
}

func TestDebtMarkers(t *testing.T) {
	cases := []struct {
		name       string
		task       taskNode
		lessonType string
		want       []string
	}{
		{"unmarked legit task", taskNode{Type: "Control"}, "Other", []string{MarkPending}},
		{"unmarked legit lesson", taskNode{Type: "Other"}, "Slice", []string{MarkPending}},
		{"empty mark legit", taskNode{Type: "Self", Mark: ptr("")}, "", []string{MarkPending}},
		{"unmarked not legit", taskNode{Type: "Other"}, "Other", nil},
		{"failed", taskNode{Type: "Other", Mark: ptr("Two")}, "Other", []string{MarkFailed}},
		{"failed legit", taskNode{Type: "Home", Mark: ptr("Two")}, "Lesson", []string{MarkFailed}},
		{"passed", taskNode{Type: "Home", Mark: ptr("Five")}, "Lesson", nil},
		{"numeric two", taskNode{Type: "Home", Mark: ptr("2")}, "Lesson", nil},
	}
	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, debtMarkers(tt.task, tt.lessonType))
		})
	}
}

func TestFindDebtsSkipsOptionalTasks(t *testing.T) {
	types := []string{"Control", "Test", "PracticalWork", "Laboratory", "Home", "Independent", "Slice", "Lesson", "Self", "Other", ""}
	marks := []*string{nil, ptr(""), ptr("Two"), ptr("Five"), ptr("Three")}

	var days []dayNode
	for _, kind := range types {
		for _, mark := range marks {
			days = append(days, dayNode{
				Date: portalDate{time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)},
				Lessons: []lessonNode{{
					Name: "Math",
					Gradebook: &gradebook{
						LessonType: kind,
						Themes:     []string{"Algebra"},
						Tasks:      []taskNode{{Type: kind, IsRequired: false, Mark: mark}},
					},
				}},
			})
		}
	}
	assert.Empty(t, findDebts(days, time.UTC))
}

func TestFindDebtsSkipsIncompleteLessons(t *testing.T) {
	days := decodeDays(t, `[
		{"date":"2025-01-01","lessons":[
			{"name":"","gradebook":{"lessonType":"Lesson","themes":["A"],"tasks":[{"isRequired":true,"type":"Home"}]}},
			{"name":"Math","gradebook":null},
			{"name":"Math"},
			{"name":"Math","gradebook":{"lessonType":"Lesson","themes":["A"],"tasks":[]}}
		]},
		{"date":"2025-01-02","lessons":[]}
	]`)
	assert.Empty(t, findDebts(days, time.UTC))
}

func TestFindDebtsOrderAndThemes(t *testing.T) {
	days := decodeDays(t, `[
		{"date":"2025-01-01T00:00:00","lessons":[
			{"name":"Math","gradebook":{"lessonType":"Lesson","themes":["Algebra","Geometry"],"tasks":[
				{"isRequired":true,"type":"Home","mark":"Two"},
				{"isRequired":true,"type":"Control","mark":null}
			]}},
			{"name":"Art","gradebook":{"lessonType":"Lesson","themes":[],"tasks":[
				{"isRequired":true,"type":"Home","mark":null}
			]}}
		]},
		{"date":"2025-01-03T10:00:00","lessons":[
			{"name":"Physics","gradebook":{"lessonType":"Lesson","themes":["Optics"],"tasks":[
				{"isRequired":true,"type":"Laboratory","mark":null}
			]}}
		]}
	]`)

	got := findDebts(days, time.UTC)
	require.Len(t, got, 4)
	assert.Equal(t, "Math", got[0].Subject)
	assert.Equal(t, []string{"2"}, got[0].Mark.Values)
	assert.Equal(t, "Math", got[1].Subject)
	assert.Equal(t, []string{"Точка"}, got[1].Mark.Values)
	assert.Equal(t, "Algebra", got[1].Theme)
	assert.Equal(t, "Art", got[2].Subject)
	assert.Equal(t, "", got[2].Theme)
	assert.Equal(t, "Physics", got[3].Subject)
	assert.Equal(t, time.Date(2025, 1, 3, 0, 0, 0, 0, time.UTC), got[3].Mark.Day)
}

func TestFindDebtsIdempotent(t *testing.T) {
	days := decodeDays(t, string(tests.Fixture(t, "lessons.json")))
	loc := mustLocation(t)

	first := findDebts(days, loc)
	second := findDebts(days, loc)
	require.NotEmpty(t, first)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("second run differs (-first +second):\n%s", diff)
	}
}

func TestDefaultPeriod(t *testing.T) {
	loc := mustLocation(t)
	cases := []struct {
		now        time.Time
		begin, end time.Time
	}{
		{
			now:   time.Date(2024, time.October, 5, 12, 0, 0, 0, loc),
			begin: time.Date(2024, time.September, 1, 0, 0, 0, 0, loc),
			end:   time.Date(2024, time.December, 31, 0, 0, 0, 0, loc),
		},
		{
			now:   time.Date(2024, time.August, 1, 0, 0, 0, 0, loc),
			begin: time.Date(2024, time.September, 1, 0, 0, 0, 0, loc),
			end:   time.Date(2024, time.December, 31, 0, 0, 0, 0, loc),
		},
		{
			now:   time.Date(2025, time.July, 31, 23, 59, 0, 0, loc),
			begin: time.Date(2025, time.January, 1, 0, 0, 0, 0, loc),
			end:   time.Date(2025, time.August, 1, 0, 0, 0, 0, loc),
		},
		{
			now:   time.Date(2025, time.January, 1, 0, 0, 0, 0, loc),
			begin: time.Date(2025, time.January, 1, 0, 0, 0, 0, loc),
			end:   time.Date(2025, time.August, 1, 0, 0, 0, 0, loc),
		},
	}
	for _, tt := range cases {
		t.Run(tt.now.Format(time.DateOnly), func(t *testing.T) {
			begin, end := DefaultPeriod(tt.now)
			assert.Equal(t, tt.begin, begin)
			assert.Equal(t, tt.end, end)
		})
	}
}

func TestDebts(t *testing.T) {
	loc := mustLocation(t)
	p := newPortal(t, "login_student.json")
	s := loginStudent(t, newClient(t, p))

	begin := time.Date(2025, 1, 1, 0, 0, 0, 0, loc)
	end := time.Date(2025, 1, 31, 0, 0, 0, 0, loc)
	debts, err := s.Debts(context.Background(), begin, end)
	require.NoError(t, err)

	want := []site.Debt{
		{
			Subject: "Математика",
			Theme:   "Пределы",
			Mark:    site.DatedMark{Values: []string{"Точка"}, Day: time.Date(2025, 1, 13, 0, 0, 0, 0, loc)},
		},
		{
			Subject: "Математика",
			Theme:   "Пределы",
			Mark:    site.DatedMark{Values: []string{"2"}, Day: time.Date(2025, 1, 13, 0, 0, 0, 0, loc)},
		},
		{
			Subject: "Физика",
			Theme:   "Кинематика",
			Mark:    site.DatedMark{Values: []string{"Точка"}, Day: time.Date(2025, 1, 14, 0, 0, 0, 0, loc)},
		},
	}
	if diff := cmp.Diff(want, debts); diff != "" {
		t.Errorf("Debts() mismatch (-want +got):\n%s", diff)
	}
	reqs := p.requests()
	assert.Equal(t, "/services/students/4815/lessons/2025-01-01/2025-01-31", reqs[len(reqs)-1])
}

func TestDebtsDefaultPeriod(t *testing.T) {
	p := newPortal(t, "login_student.json")
	c := newClient(t, p)
	c.now = func() time.Time {
		return time.Date(2024, time.October, 5, 12, 0, 0, 0, time.UTC)
	}
	s := loginStudent(t, c)

	_, err := s.Debts(context.Background(), time.Time{}, time.Now())
	require.NoError(t, err)
	reqs := p.requests()
	assert.Equal(t, "/services/students/4815/lessons/2024-09-01/2024-12-31", reqs[len(reqs)-1])
}
