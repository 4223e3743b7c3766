// Package display renders countdown frames on a text terminal.
package display

import (
	"fmt"
	"io"
	"strings"

	"github.com/stemsi/exam-countdown/internal/countdown"
	"github.com/stemsi/exam-countdown/internal/model"
)

// clearLine returns the cursor to column 0 and erases the line.
const clearLine = "\r\x1b[K"

// Terminal writes one status line per frame. When InPlace is set the line is
// redrawn over itself; otherwise every frame gets its own line, which keeps
// piped output readable.
type Terminal struct {
	out     io.Writer
	inPlace bool
	dirty   bool
}

// NewTerminal creates a Terminal writing to out.
func NewTerminal(out io.Writer, inPlace bool) *Terminal {
	return &Terminal{out: out, inPlace: inPlace}
}

// Header prints the exam details shown above the countdown.
func (t *Terminal) Header(exam model.ExamInfo) {
	fmt.Fprintf(t.out, "%s %s (%s)\n", exam.Board, exam.Subject.Name, exam.Subject.Code)
	fmt.Fprintf(t.out, "%s  %s  Centre %s\n", exam.Date, exam.TimeRange, exam.Venue)
	if exam.Classroom != "" {
		fmt.Fprintf(t.out, "Room %s\n", exam.Classroom)
	}
	for _, teacher := range exam.Teachers {
		if teacher.Time != "" {
			fmt.Fprintf(t.out, "Invigilator %s (%s)\n", teacher.Name, teacher.Time)
			continue
		}
		fmt.Fprintf(t.out, "Invigilator %s\n", teacher.Name)
	}
	fmt.Fprintln(t.out)
}

// Render draws frame and announces any events it carries.
func (t *Terminal) Render(frame model.Frame) {
	for _, event := range frame.Events {
		t.endLine()
		fmt.Fprintf(t.out, "*** %s ***\n", Announcement(event.Kind))
	}

	line := StatusLine(frame)
	if t.inPlace {
		fmt.Fprint(t.out, clearLine+line)
		t.dirty = true
		return
	}
	fmt.Fprintln(t.out, line)
}

// Close terminates an in-place line so the shell prompt starts clean.
func (t *Terminal) Close() {
	t.endLine()
}

func (t *Terminal) endLine() {
	if t.dirty {
		fmt.Fprintln(t.out)
		t.dirty = false
	}
}

// StatusLine formats frame as "<headline>  DD:HH:MM:SS", flagged while the
// warning is active.
func StatusLine(frame model.Frame) string {
	var b strings.Builder
	b.WriteString(frame.Headline)
	if frame.Phase != countdown.PhaseEnded {
		b.WriteString("  ")
		b.WriteString(frame.Remaining.Clock())
	}
	if frame.WarningActive && frame.Phase == countdown.PhaseInProgress {
		b.WriteString("  [5 MINUTES LEFT]")
	}
	return b.String()
}

// Announcement is the text shown when a one-shot event fires.
func Announcement(kind countdown.EventKind) string {
	switch kind {
	case countdown.EventWarningThresholdCrossed:
		return "Five minutes remaining"
	case countdown.EventExamEnded:
		return "Exam has ended, pens down"
	default:
		return string(kind)
	}
}
