package catalog

import (
	"strings"

	"github.com/MikeSquared-Agency/Gradebook/internal/grades"
)

// Entry is a module offered for enrollment.
type Entry struct {
	Code         string       `json:"code"`
	Title        string       `json:"title"`
	ECTS         int          `json:"ects"`
	DefaultScale grades.Scale `json:"default_scale"`
}

// Template is a default assessment seeded on enrollment.
type Template struct {
	Name   string  `json:"name"`
	Weight float64 `json:"weight"`
}

var builtin = []Entry{
	{"FDSC10010", "Food Diet & Health", 5, grades.ScaleAltLinear},
	{"MEEN30100", "Engineering Thermodynamics II", 5, grades.ScaleStandard},
	{"MEEN30090", "Materials Science & Engineering II", 5, grades.ScaleStandard},
	{"MEEN30030", "Mechanical Engineering Design II", 5, grades.ScaleStandard},
	{"EEEN30250", "Electrical Machines for Mechanical Engineers", 5, grades.ScaleAltLinear},
	{"ACM30030", "Multivariable Calculus Eng II", 5, grades.ScaleStandard},
}

var templates = map[string][]Template{
	"FDSC10010": {
		{"End-of-trimester Online Exam", 70},
		{"Mid-trimester Online Quiz", 15},
		{"Late-trimester Online Quiz", 15},
	},
	"MEEN30100": {
		{"Final Exam (must-pass)", 50},
		{"Second midterm/quizzes", 20},
		{"First midterm/quizzes", 10},
		{"Lab practice", 20},
	},
	"MEEN30090": {
		{"Final Exam", 50},
		{"Mid-semester in-class exam", 20},
		{"Materials Design Project (CES) Lab + Report", 15},
		{"Materials Characterisation Lab + Report", 15},
	},
	"MEEN30030": {
		{"Short CAD exercise", 10},
		{"Group design report", 50},
		{"Group presentation", 15},
		{"Group prototype development", 15},
		{"In-class tests series", 10},
	},
	"EEEN30250": {
		{"Final Exam", 50},
		{"Online Class Tests (Weeks 3/6/9/12) total", 20},
		{"Lab Report 1: Induction motor", 10},
		{"Lab Report 2: Synchronous generator", 10},
		{"Lab Report 3: Stepper motor", 10},
	},
	"ACM30030": {
		{"Final Exam", 70},
		{"Two Midterm Tests", 30},
	},
}

// All returns the built-in catalog.
func All() []Entry {
	out := make([]Entry, len(builtin))
	copy(out, builtin)
	return out
}

// Lookup finds a built-in entry by code, ignoring case.
func Lookup(code string) (Entry, bool) {
	code = Normalize(code)
	for _, e := range builtin {
		if e.Code == code {
			return e, true
		}
	}
	return Entry{}, false
}

// Templates returns the default assessments for a code; nil when the code
// has none.
func Templates(code string) []Template {
	t := templates[Normalize(code)]
	if t == nil {
		return nil
	}
	out := make([]Template, len(t))
	copy(out, t)
	return out
}

// Listing returns the catalog shown for enrollment: the stored catalog when
// one exists, the built-in one otherwise.
func Listing(stored []Entry) []Entry {
	if len(stored) == 0 {
		return All()
	}
	out := make([]Entry, len(stored))
	copy(out, stored)
	return out
}

// Normalize upper-cases and trims a module code.
func Normalize(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
