// Package output provides styled terminal output helpers (success, error,
// warning, tree rendering) using lipgloss.
package output

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/sena/ustudy/internal/models"
	"github.com/sena/ustudy/internal/store"
)

var (
	// Styles
	titleStyle    = lipgloss.NewStyle().Bold(true)
	subtleStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	successStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	warningStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	completeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	pendingStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
)

// Success prints a success message
func Success(format string, args ...interface{}) {
	fmt.Println(successStyle.Render(fmt.Sprintf(format, args...)))
}

// Error prints an error message
func Error(format string, args ...interface{}) {
	fmt.Println(errorStyle.Render("ERROR: " + fmt.Sprintf(format, args...)))
}

// Warning prints a warning message
func Warning(format string, args ...interface{}) {
	fmt.Println(warningStyle.Render("Warning: " + fmt.Sprintf(format, args...)))
}

// Info prints an info message
func Info(format string, args ...interface{}) {
	fmt.Println(fmt.Sprintf(format, args...))
}

// Title prints a bold heading
func Title(format string, args ...interface{}) {
	fmt.Println(titleStyle.Render(fmt.Sprintf(format, args...)))
}

// RenderCourses formats the tracked course trees with per-page completion
// markers. IDs are sorted so the layout is stable between runs.
func RenderCourses(courses map[int64]*models.Course) string {
	var b strings.Builder
	for _, courseID := range sortedKeys(courses) {
		course := courses[courseID]
		b.WriteString(titleStyle.Render(fmt.Sprintf("[%d] %s", course.CourseID, course.Name)))
		b.WriteString("\n")
		for _, tbID := range sortedKeys(course.Textbooks) {
			tb := course.Textbooks[tbID]
			b.WriteString(fmt.Sprintf("  %s\n", tb.Name))
			for _, chID := range sortedKeys(tb.Chapters) {
				ch := tb.Chapters[chID]
				b.WriteString(subtleStyle.Render(fmt.Sprintf("    %s", ch.Name)))
				b.WriteString("\n")
				for _, secID := range sortedKeys(ch.Sections) {
					sec := ch.Sections[secID]
					b.WriteString(fmt.Sprintf("      %s\n", sec.Name))
					for _, pageID := range sortedKeys(sec.Pages) {
						page := sec.Pages[pageID]
						marker := pendingStyle.Render("✗")
						if page.Complete {
							marker = completeStyle.Render("✓")
						}
						b.WriteString(fmt.Sprintf("        %s %s\n", marker, page.Name))
					}
				}
			}
		}
	}
	if b.Len() == 0 {
		return "no courses configured\n"
	}
	return b.String()
}

// RenderHistory formats recorded submission attempts, oldest first.
func RenderHistory(subs []store.Submission) string {
	if len(subs) == 0 {
		return "no submissions recorded\n"
	}
	var b strings.Builder
	for _, sub := range subs {
		status := successStyle.Render(sub.Status)
		if sub.Status != store.StatusOK {
			status = errorStyle.Render(sub.Status)
		}
		b.WriteString(fmt.Sprintf("%s  %-6s  %s / %s  attempts=%d score=%d study=%ds\n",
			sub.CreatedAt.Format("2006-01-02 15:04:05"), status,
			sub.CourseName, sub.SectionName, sub.Attempts, sub.Score, sub.StudyTime))
	}
	return b.String()
}

func sortedKeys[M map[int64]V, V any](m M) []int64 {
	keys := make([]int64, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}
