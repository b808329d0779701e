package extract

import (
	"strconv"
	"strings"

	"github.com/contestlab/essay-intake/internal/entity"
)

// Contact labels, checked in this order per line.
const (
	labelName     = "name:"
	labelSchool   = "school:"
	labelGrade    = "grade:"
	labelTeacher  = "teacher:"
	labelCity     = "city:"
	labelLocation = "location:"
)

// ExtractFields parses structured contact fields from the contact block via
// line-pattern matching. First match wins per field; later lines with the
// same label are ignored. A label that never appears leaves its field nil.
func ExtractFields(contactBlock string) entity.ExtractedFields {
	var f entity.ExtractedFields
	for _, line := range strings.Split(contactBlock, "\n") {
		switch {
		case trySet(&f.StudentName, line, labelName):
		case trySet(&f.SchoolName, line, labelSchool):
		case trySetGrade(&f.Grade, line):
		case trySet(&f.TeacherName, line, labelTeacher):
		case trySet(&f.CityOrLocation, line, labelCity):
		case trySet(&f.CityOrLocation, line, labelLocation):
		}
	}
	return f
}

// labelValue returns the trimmed remainder of line after a case-insensitive
// occurrence of label.
func labelValue(line, label string) (string, bool) {
	idx := strings.Index(strings.ToLower(line), label)
	if idx < 0 {
		return "", false
	}
	return strings.TrimSpace(line[idx+len(label):]), true
}

func trySet(dst **string, line, label string) bool {
	v, ok := labelValue(line, label)
	if !ok {
		return false
	}
	if *dst == nil {
		*dst = &v
	}
	return true
}

// trySetGrade sets grade only when the captured remainder parses as a
// non-negative integer; a non-numeric capture is ignored, not an error.
func trySetGrade(dst **int, line string) bool {
	v, ok := labelValue(line, labelGrade)
	if !ok {
		return false
	}
	if *dst == nil {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			*dst = &n
		}
	}
	return true
}
