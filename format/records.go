package format

import (
	"strings"

	"github.com/effective-security/testudo/catalog"
)

// Course formats a course.
// The Relationships block is present only when the course has relationships.
func Course(c *catalog.Course) string {
	var b block
	b.line("Course ID", c.CourseID.Or(Unknown))
	b.line("Semester", c.Semester.Or(Unknown))
	b.line("Name", c.Name.Or(NoName))
	b.line("Department", c.DeptID.Or(NoDepartment))
	b.line("Credits", c.Credits.Or(NotAvailable))
	b.line("Description", c.Description.Or(NoDescription))
	b.line("Grading Method", list(c.GradingMethod, Unknown))
	b.line("Gen Eds", list(c.GenEd, Unknown))
	if c.Relationships != nil {
		b.nested("Relationships", Relationships(c.Relationships))
	}
	b.line("Sections", list(c.Sections, Unknown))
	return b.String()
}

// Relationships formats the relationships of a course.
func Relationships(r *catalog.Relationships) string {
	var b block
	b.line("Coreqs", r.Coreqs.Or(Unknown))
	b.line("Prereqs", r.Prereqs.Or(Unknown))
	b.line("Formerly", r.Formerly.Or(Unknown))
	b.line("Restrictions", r.Restrictions.Or(NotAvailable))
	b.line("Additional Info", r.AdditionalInfo.Or(None))
	b.line("Also Offered As", r.AlsoOfferedAs.Or(Unknown))
	b.line("Credit Granted For", r.CreditGrantedFor.Or(Unknown))
	return b.String()
}

// Section formats a course section with its meetings and instructors.
func Section(s *catalog.Section) string {
	var b block
	b.line("Semester", s.Semester.Or(Unknown))
	b.line("Section ID", s.SectionID.Or(Unknown))
	b.line("Section Number", s.Number.Or(NotAvailable))
	b.line("Number of Seats", s.Seats.Or(Unknown))
	b.nested("Course Meeting Information", Meetings(s.Meetings))
	b.line("Open Seats", s.OpenSeats.Or(Unknown))
	b.line("Number of Students on Waitlist", s.Waitlist.Or(Unknown))
	b.line("Instructors", strings.Join(s.Instructors.Strings(), ", "))
	return b.String()
}

// Meetings formats each meeting, separated by a blank line.
// No meetings is empty text.
func Meetings(list []catalog.Meeting) string {
	parts := make([]string, 0, len(list))
	for i := range list {
		parts = append(parts, Meeting(&list[i]))
	}
	return strings.Join(parts, "\n\n")
}

// Meeting formats a single class meeting.
func Meeting(m *catalog.Meeting) string {
	var b block
	b.line("Days", m.Days.Or(Unknown))
	b.line("Room", m.Room.Or(Unknown))
	b.line("Building", m.Building.Or(Unknown))
	b.line("Class Type", m.ClassType.Or(Unknown))
	b.line("Start Time", m.StartTime.Or(Unknown))
	b.line("End Time", m.EndTime.Or(Unknown))
	return b.String()
}

// Major formats a major.
func Major(m *catalog.Major) string {
	var b block
	b.line("Major ID", m.MajorID.Or(Unknown))
	b.line("Major Name", m.Name.Or(Unknown))
	b.line("College", m.College.Or(Unknown))
	b.line("URL", m.URL.Or(Unknown))
	return b.String()
}

// Professor formats a professor and the courses they taught, one per line.
func Professor(p *catalog.Professor) string {
	var b block
	b.line("Professor Name", p.Name.Or(Unknown))

	history := make([]string, 0, len(p.Taught))
	for _, c := range p.Taught {
		history = append(history, "Taught "+c.CourseID.Or(NoCourse)+" in "+c.Semester.Or(Unknown))
	}
	b.nested("Course History", strings.Join(history, "\n"))
	return b.String()
}

// Department formats a department as `ID: Name`.
func Department(d *catalog.Department) string {
	return d.DeptID.Or(Unknown) + ": " + d.Department.Or(Unknown)
}
