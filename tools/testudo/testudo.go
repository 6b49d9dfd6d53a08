package testudo

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/effective-security/testudo/format"
	"github.com/effective-security/testudo/pkg/umdapi"
	"github.com/effective-security/testudo/tools"
)

// Tool names
const (
	GetCourses             = "get_courses"
	GetCourseByCourseCode  = "get_course_by_course_code"
	GetCourseSections      = "get_course_sections"
	GetDepartments         = "get_departments"
	GetMajors              = "get_majors"
	GetProfessorsForCourse = "get_professors_for_course"
	GetCoursesByProfessor  = "get_courses_by_professor"
)

// Failure messages
const (
	NoCoursesFound     = "Unable to fetch department or no courses found."
	NoCourseFound      = "Unable to fetch course or no course found."
	NoDepartmentsFound = "Unable to fetch course or no departments found."
	NoProfessorsFound  = "Unable to fetch professors or no professors found."
)

var perPage = strconv.Itoa(umdapi.PerPage)

// New returns the catalog tools backed by fetcher
func New(fetcher umdapi.Fetcher) []tools.ITool {
	return []tools.ITool{
		NewCourses(fetcher),
		NewCourseByCourseCode(fetcher),
		NewCourseSections(fetcher),
		NewDepartments(fetcher),
		NewMajors(fetcher),
		NewProfessorsForCourse(fetcher),
		NewCoursesByProfessor(fetcher),
	}
}

// NewCourses returns the tool listing courses of a department or gen-ed
func NewCourses(fetcher umdapi.Fetcher) *Tool[CoursesRequest] {
	return newTool(fetcher,
		GetCourses,
		"Gets all courses for a specific UMD department or gen-ed. Takes a department code and/or gen-ed code.",
		NoCoursesFound,
		CoursesPath,
		render(format.Course),
	)
}

// NewCourseByCourseCode returns the tool getting courses by code
func NewCourseByCourseCode(fetcher umdapi.Fetcher) *Tool[CourseCodesRequest] {
	return newTool(fetcher,
		GetCourseByCourseCode,
		"Gets specific UMD courses. Takes a list of course codes.",
		NoCourseFound,
		CourseCodesPath,
		render(format.Course),
	)
}

// NewCourseSections returns the tool listing sections of a course
func NewCourseSections(fetcher umdapi.Fetcher) *Tool[CourseRequest] {
	return newTool(fetcher,
		GetCourseSections,
		"Gets sections for a UMD course. Takes a course code.",
		NoCourseFound,
		CourseSectionsPath,
		render(format.Section),
	)
}

// NewDepartments returns the tool listing departments
func NewDepartments(fetcher umdapi.Fetcher) *Tool[NoInput] {
	return newTool(fetcher,
		GetDepartments,
		"Gets all UMD departments. Takes no arguments.",
		NoDepartmentsFound,
		func(*NoInput) string { return "/courses/departments" },
		render(format.Department),
	)
}

// NewMajors returns the tool listing majors
func NewMajors(fetcher umdapi.Fetcher) *Tool[NoInput] {
	return newTool(fetcher,
		GetMajors,
		"Gets all UMD majors. Takes no arguments.",
		NoDepartmentsFound,
		func(*NoInput) string { return "/majors/list" },
		render(format.Major),
	)
}

// NewProfessorsForCourse returns the tool listing professors who teach a course
func NewProfessorsForCourse(fetcher umdapi.Fetcher) *Tool[CourseRequest] {
	return newTool(fetcher,
		GetProfessorsForCourse,
		"Gets all UMD professors who teach a specific course. Takes a course code.",
		NoProfessorsFound,
		ProfessorsForCoursePath,
		render(format.Professor),
	)
}

// NewCoursesByProfessor returns the tool listing courses taught by a professor
func NewCoursesByProfessor(fetcher umdapi.Fetcher) *Tool[ProfessorRequest] {
	return newTool(fetcher,
		GetCoursesByProfessor,
		"Gets courses taught by a UMD professor. Takes a professor name.",
		NoProfessorsFound,
		CoursesByProfessorPath,
		render(format.Professor),
	)
}

// CoursesPath returns the courses query.
// Without a gen-ed the department is always present, even when empty.
func CoursesPath(req *CoursesRequest) string {
	q := url.Values{}
	if req.Dept != "" || req.GenEd == "" {
		q.Set("dept_id", req.Dept)
	}
	if req.GenEd != "" {
		q.Set("gen_ed", req.GenEd)
	}
	q.Set("per_page", perPage)
	return "/courses?" + q.Encode()
}

// CourseCodesPath returns the path of the courses, codes comma-joined
func CourseCodesPath(req *CourseCodesRequest) string {
	codes := make([]string, len(req.Courses))
	for i, code := range req.Courses {
		codes[i] = url.PathEscape(code)
	}
	return "/courses/" + strings.Join(codes, ",")
}

// CourseSectionsPath returns the sections path of the course
func CourseSectionsPath(req *CourseRequest) string {
	return "/courses/" + url.PathEscape(req.Course) + "/sections"
}

// ProfessorsForCoursePath returns the professors query by course
func ProfessorsForCoursePath(req *CourseRequest) string {
	return "/professors?" + url.Values{"course_id": {req.Course}}.Encode()
}

// CoursesByProfessorPath returns the professors query by name
func CoursesByProfessorPath(req *ProfessorRequest) string {
	return "/professors?" + url.Values{"name": {req.Professor}}.Encode()
}
