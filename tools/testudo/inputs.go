package testudo

// CoursesRequest filters courses by department and gen-ed.
type CoursesRequest struct {
	Dept  string `json:"Dept,omitempty" yaml:"Dept,omitempty" jsonschema:"title=Department,description=Department code such as CMSC." fake:"CMSC"`
	GenEd string `json:"GenEd,omitempty" yaml:"GenEd,omitempty" jsonschema:"title=Gen Ed,description=Gen-ed code such as DSHU." fake:"DSHU"`
}

// CourseCodesRequest names courses by code.
type CourseCodesRequest struct {
	Courses []string `json:"Courses" yaml:"Courses" jsonschema:"title=Courses,description=Course codes such as CMSC131.,minItems=1,required" validate:"required,min=1,dive,required" fake:"{randomstring:[CMSC131,CMSC132,MATH140]}" fakesize:"2"`
}

// CourseRequest names a single course.
type CourseRequest struct {
	Course string `json:"Course" yaml:"Course" jsonschema:"title=Course,description=Course code such as CMSC131.,required" validate:"required" fake:"CMSC131"`
}

// ProfessorRequest names a professor.
type ProfessorRequest struct {
	Professor string `json:"Professor" yaml:"Professor" jsonschema:"title=Professor,description=Professor name.,required" validate:"required" fake:"{firstname} {lastname}"`
}

// NoInput is the input of tools without parameters.
type NoInput struct{}
