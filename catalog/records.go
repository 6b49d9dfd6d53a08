package catalog

import (
	"encoding/json"

	"github.com/cockroachdb/errors"
	"github.com/tidwall/gjson"
)

// Course is a course offering for one semester.
type Course struct {
	CourseID      Value          `json:"course_id"`
	Semester      Value          `json:"semester"`
	Name          Value          `json:"name"`
	DeptID        Value          `json:"dept_id"`
	Credits       Value          `json:"credits"`
	Description   Value          `json:"description"`
	GradingMethod Value          `json:"grading_method"`
	GenEd         Value          `json:"gen_ed"`
	Relationships *Relationships `json:"relationships"`
	Sections      Value          `json:"sections"`
}

// Relationships lists how a course relates to others.
// A non-object value decodes as Relationships with every field unset.
type Relationships struct {
	Coreqs           Value `json:"coreqs"`
	Prereqs          Value `json:"prereqs"`
	Formerly         Value `json:"formerly"`
	Restrictions     Value `json:"restrictions"`
	AdditionalInfo   Value `json:"additional_info"`
	AlsoOfferedAs    Value `json:"also_offered_as"`
	CreditGrantedFor Value `json:"credit_granted_for"`
}

func (r *Relationships) UnmarshalJSON(b []byte) error {
	type plain Relationships
	*r = Relationships{}
	if !gjson.ParseBytes(b).IsObject() {
		return nil
	}
	return json.Unmarshal(b, (*plain)(r))
}

// Section is one section of a course.
type Section struct {
	Semester    Value            `json:"semester"`
	SectionID   Value            `json:"section_id"`
	Number      Value            `json:"number"`
	Seats       Value            `json:"seats"`
	OpenSeats   Value            `json:"open_seats"`
	Waitlist    Value            `json:"waitlist"`
	Meetings    Records[Meeting] `json:"meetings"`
	Instructors Value            `json:"instructors"`
}

// Meeting is a scheduled class meeting of a section.
type Meeting struct {
	Days      Value `json:"days"`
	Room      Value `json:"room"`
	Building  Value `json:"building"`
	ClassType Value `json:"classtype"`
	StartTime Value `json:"start_time"`
	EndTime   Value `json:"end_time"`
}

// Major is an undergraduate major.
type Major struct {
	MajorID Value `json:"major_id"`
	Name    Value `json:"name"`
	College Value `json:"college"`
	URL     Value `json:"url"`
}

// Professor is an instructor with the courses they taught.
type Professor struct {
	Name   Value                 `json:"name"`
	Taught Records[TaughtCourse] `json:"taught"`
}

// TaughtCourse references a course taught in a semester.
type TaughtCourse struct {
	CourseID Value `json:"course_id"`
	Semester Value `json:"semester"`
}

// Department is an academic department.
// The API may return a bare string, which is treated as the department id.
type Department struct {
	DeptID     Value `json:"dept_id"`
	Department Value `json:"department"`
}

func (d *Department) UnmarshalJSON(b []byte) error {
	type plain Department
	*d = Department{}
	res := gjson.ParseBytes(b)
	switch {
	case res.IsObject():
		return json.Unmarshal(b, (*plain)(d))
	case res.Type == gjson.String:
		d.DeptID = String(res.Str)
		return nil
	}
	return errors.Newf("unexpected department: %s", res.Type.String())
}

// Records is a sequence of nested records.
// A non-array value decodes as an empty sequence,
// and elements that do not decode into T are skipped.
type Records[T any] []T

func (r *Records[T]) UnmarshalJSON(b []byte) error {
	*r = decodeItems[T](gjson.ParseBytes(b))
	return nil
}

// DecodeList decodes a response body holding either an array of records or a single record.
// Array elements that do not decode into T are skipped, and an empty object holds no records.
func DecodeList[T any](body []byte) ([]T, error) {
	if !gjson.ValidBytes(body) {
		return nil, errors.New("invalid JSON")
	}
	res := gjson.ParseBytes(body)
	switch {
	case res.IsArray():
		return decodeItems[T](res), nil
	case res.IsObject():
		if len(res.Map()) == 0 {
			return nil, nil
		}
		var item T
		if err := json.Unmarshal(body, &item); err != nil {
			return nil, errors.Wrap(err, "failed to decode record")
		}
		return []T{item}, nil
	}
	return nil, errors.Newf("unexpected response: %s", res.Type.String())
}

func decodeItems[T any](res gjson.Result) []T {
	if !res.IsArray() {
		return nil
	}
	items := res.Array()
	list := make([]T, 0, len(items))
	for _, item := range items {
		var v T
		if err := json.Unmarshal([]byte(item.Raw), &v); err != nil {
			continue
		}
		list = append(list, v)
	}
	return list
}
