package netspo

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"netspo/site"
)

// Wire structures for the portal endpoints. Fields the portal may omit or
// send as null are pointers or tolerate the zero value.

// portalDate is a portal timestamp of which only the date part is kept.
type portalDate struct {
	time.Time
}

func (d *portalDate) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	t, err := site.ParseDay(s, time.UTC)
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

// At returns midnight of d in loc.
func (d portalDate) At(loc *time.Location) time.Time {
	if d.IsZero() {
		return time.Time{}
	}
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, loc)
}

// stringList accepts either a JSON string or an array of strings.
type stringList []string

func (l *stringList) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		*l = nil
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*l = stringList{s}
		return nil
	}
	var list []string
	if err := json.Unmarshal(b, &list); err != nil {
		return err
	}
	*l = list
	return nil
}

type person struct {
	ID         int    `json:"id"`
	LastName   string `json:"lastName"`
	FirstName  string `json:"firstName"`
	MiddleName string `json:"middleName"`
}

// fullName joins the name parts, trimmed and single-spaced.
func (p person) fullName() string {
	return strings.Join(strings.Fields(p.LastName+" "+p.FirstName+" "+p.MiddleName), " ")
}

// POST /services/security/login

type loginRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

type loginResponse struct {
	Tenants        map[string]tenant `json:"tenants"`
	ResponseStatus *responseStatus   `json:"responseStatus"`
}

type responseStatus struct {
	ErrorCode string `json:"errorCode"`
	Message   string `json:"message"`
}

type tenant struct {
	Settings struct {
		Organization struct {
			Abbreviation string `json:"abbreviation"`
		} `json:"organization"`
	} `json:"settings"`
	StudentRole *struct {
		ID       int `json:"id"`
		Students []struct {
			person
			GroupName string `json:"groupName"`
		} `json:"students"`
	} `json:"studentRole"`
	TeacherRole *struct {
		person
	} `json:"teacherRole"`
}

// GET /services/students/{id}/dashboard

type dashboardResponse struct {
	Subjects []struct {
		Name string          `json:"name"`
		Mark json.RawMessage `json:"mark"`
	} `json:"subjects"`
}

// average decodes a dashboard mark, which the portal sends as a number, a
// numeric string (possibly with a decimal comma) or null.
func average(raw json.RawMessage) *float64 {
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return &f
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil
	}
	f, err := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(s), ",", "."), 64)
	if err != nil {
		return nil
	}
	return &f
}

// GET /services/reports/current/performance/{id}

type performanceResponse struct {
	DaysWithMarksForSubject []struct {
		SubjectName   string `json:"subjectName"`
		DaysWithMarks []struct {
			Day         portalDate `json:"day"`
			MarkValues  stringList `json:"markValues"`
			AbsenceType *string    `json:"absenceType"`
		} `json:"daysWithMarks"`
	} `json:"daysWithMarksForSubject"`
	MonthsWithDays []struct {
		DaysWithLessons []portalDate `json:"daysWithLessons"`
	} `json:"monthsWithDays"`
}

// GET /services/students/{id}/lessons/{begin}/{end}

type dayNode struct {
	Date    portalDate   `json:"date"`
	Lessons []lessonNode `json:"lessons"`
}

type lessonNode struct {
	Name      string `json:"name"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	Timetable *struct {
		Classroom *struct {
			Name string `json:"name"`
		} `json:"classroom"`
		Teacher *person `json:"teacher"`
	} `json:"timetable"`
	Gradebook *gradebook `json:"gradebook"`
}

type gradebook struct {
	ID         int        `json:"id"`
	LessonType string     `json:"lessonType"`
	Themes     []string   `json:"themes"`
	Tasks      []taskNode `json:"tasks"`
}

type taskNode struct {
	ID         int     `json:"id"`
	Type       string  `json:"type"`
	IsRequired bool    `json:"isRequired"`
	Mark       *string `json:"mark"`
}

// GET /services/students/{id}/attestation

type attestationResponse struct {
	AcademicYears []academicYear     `json:"academicYears"`
	Subjects      []attestationEntry `json:"subjects"`
}

type academicYear struct {
	ID     int    `json:"id"`
	Number int    `json:"number"`
	Terms  []term `json:"terms"`
}

type term struct {
	ID     int `json:"id"`
	Number int `json:"number"`
}

type markValue struct {
	Value *string `json:"value"`
}

type attestationEntry struct {
	Name      string                `json:"name"`
	FinalMark *markValue            `json:"finalMark"`
	Marks     map[string]*markValue `json:"marks"`
}
