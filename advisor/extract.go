package advisor

import (
	"regexp"
	"strconv"
	"strings"
)

// The context blob arrives as repeated segments, each introduced by a "#<n>"
// marker line and holding one "Key: value" field per line. Field names are
// case-sensitive literals. Extraction is tolerant: a field that fails to
// parse resolves to its default instead of aborting the segment, and a
// segment without a usable title still yields a record titled "Untitled".

const noTasksSentinel = "No active tasks"

// defaultTitle is used when a segment contributes no Title line.
const defaultTitle = "Untitled"

var segmentBoundaryRe = regexp.MustCompile(`(?m)^[ \t]*#\d+[ \t]*\r?$`)

// taskFieldSpec binds one field name to its line pattern and the coercion
// that writes it into the record. Adding a field is a table change, not new
// control flow.
type taskFieldSpec struct {
	name    string
	pattern *regexp.Regexp
	apply   func(t *Task, groups []string)
}

var taskFieldGrammar = []taskFieldSpec{
	{
		name:    "Title",
		pattern: regexp.MustCompile(`(?m)^[ \t]*Title:[ \t]*(.+?)[ \t]*\r?$`),
		apply: func(t *Task, g []string) {
			if v := strings.TrimSpace(g[1]); v != "" {
				t.Title = v
			}
		},
	},
	{
		name:    "Details",
		pattern: regexp.MustCompile(`(?m)^[ \t]*Details:[ \t]*(.+?)[ \t]*\r?$`),
		apply: func(t *Task, g []string) {
			if v := strings.TrimSpace(g[1]); v != "" {
				t.Details = &v
			}
		},
	},
	{
		name:    "PriorityScore",
		pattern: regexp.MustCompile(`(?m)^[ \t]*PriorityScore:[ \t]*(\d+)`),
		apply: func(t *Task, g []string) {
			// malformed numbers keep the zero default
			if n, err := strconv.Atoi(g[1]); err == nil {
				t.Priority = n
			}
		},
	},
	{
		name:    "DaysUntilDue",
		pattern: regexp.MustCompile(`(?m)^[ \t]*DaysUntilDue:[ \t]*(-?\d+|null)[ \t]*\r?$`),
		apply: func(t *Task, g []string) {
			// the literal token "null" means "no due date", not zero
			if g[1] == "null" {
				return
			}
			if n, err := strconv.Atoi(g[1]); err == nil {
				t.DaysUntilDue = &n
			}
		},
	},
	{
		// Start and Due share one line; both sub-captures come from a single
		// dedicated pattern.
		name:    "Start",
		pattern: regexp.MustCompile(`(?m)^[ \t]*Start:[ \t]*(.+?)[ \t]*\|[ \t]*Due:[ \t]*(.+?)[ \t]*\r?$`),
		apply: func(t *Task, g []string) {
			if v := strings.TrimSpace(g[1]); v != "" {
				t.Start = &v
			}
			if v := strings.TrimSpace(g[2]); v != "" {
				t.Due = &v
			}
		},
	},
	{
		name:    "Overdue",
		pattern: regexp.MustCompile(`(?m)^[ \t]*Overdue:[ \t]*(yes|no)[ \t]*\r?$`),
		apply: func(t *Task, g []string) {
			// explicit marker wins over the derived value; recorded here,
			// reconciled in parseTaskSegment
			t.Overdue = g[1] == "yes"
		},
	},
}

var overdueMarkerRe = taskFieldGrammar[len(taskFieldGrammar)-1].pattern

// ExtractTasks parses a context blob into an ordered sequence of task
// records. It never fails: unrecognizable input, the "no active tasks"
// sentinel and empty blobs all yield an empty sequence.
func ExtractTasks(contextText string) []Task {
	s := strings.TrimSpace(contextText)
	if s == "" || strings.Contains(s, noTasksSentinel) {
		return nil
	}

	var tasks []Task
	for _, segment := range segmentBoundaryRe.Split(s, -1) {
		segment = strings.TrimSpace(segment)
		if segment == "" {
			continue
		}
		tasks = append(tasks, parseTaskSegment(segment))
	}
	return tasks
}

// parseTaskSegment evaluates the field grammar against one segment. Missing
// or malformed fields degrade to their defaults; no segment is ever dropped.
func parseTaskSegment(segment string) Task {
	t := Task{Title: defaultTitle, RawSegment: segment}

	for _, spec := range taskFieldGrammar {
		if g := spec.pattern.FindStringSubmatch(segment); g != nil {
			spec.apply(&t, g)
		}
	}

	// Without an explicit Overdue marker the flag derives from the due
	// distance: negative DaysUntilDue means overdue.
	if overdueMarkerRe.FindStringSubmatch(segment) == nil {
		t.Overdue = t.DaysUntilDue != nil && *t.DaysUntilDue < 0
	}

	return t
}
