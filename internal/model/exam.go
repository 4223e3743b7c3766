package model

// SubjectRef identifies the subject being sat. Name may be left empty and is
// then filled in from the board's subject table.
type SubjectRef struct {
	Name string `json:"name" binding:"omitempty,max=100"`
	Code string `json:"code" binding:"required,max=20"`
}

// Invigilator is a member of staff on duty for the exam.
type Invigilator struct {
	Name string `json:"name" binding:"required,min=2,max=100"`
	// Time is the stretch of the exam the invigilator covers, free text.
	Time string `json:"time" binding:"omitempty,max=50"`
}

// StartSessionRequest is the payload for starting or replacing the countdown.
type StartSessionRequest struct {
	Board          string        `json:"board" binding:"required,max=50"`
	Subject        SubjectRef    `json:"subject"`
	Date           string        `json:"date" binding:"required,datetime=2006-01-02"`
	StartTime      string        `json:"start_time" binding:"required,hhmm"`
	EndTime        string        `json:"end_time" binding:"required,hhmm"`
	Venue          string        `json:"venue" binding:"omitempty,max=50"`
	Classroom      string        `json:"classroom,omitempty" binding:"omitempty,max=50"`
	Teachers       []Invigilator `json:"teachers,omitempty" binding:"omitempty,max=20,dive"`
	AttendanceFile string        `json:"attendance_file,omitempty" binding:"omitempty,max=255"`
}

// ExamInfo is the resolved exam metadata shown next to the countdown.
type ExamInfo struct {
	Board          string        `json:"board"`
	Subject        SubjectRef    `json:"subject"`
	Date           string        `json:"date"`
	StartTime      string        `json:"start_time"`
	EndTime        string        `json:"end_time"`
	TimeRange      string        `json:"time_range"`
	Venue          string        `json:"venue"`
	Classroom      string        `json:"classroom,omitempty"`
	Teachers       []Invigilator `json:"teachers,omitempty"`
	AttendanceFile string        `json:"attendance_file,omitempty"`
}
