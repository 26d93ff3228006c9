package advisor

import "sort"

// Urgency buckets, primary sort key. Overdue work always outranks upcoming
// work, which outranks records without a due date.
const (
	bucketOverdue = iota
	bucketUpcoming
	bucketNoDueDate
)

// sentinel "days" value that sorts no-due-date records after everything else
// within their bucket
const farFuture = 9999

// urgencyKey returns the (bucket, days, -priority) tuple a task sorts by.
func urgencyKey(t Task) (bucket, days, negPriority int) {
	if t.DaysUntilDue == nil {
		return bucketNoDueDate, farFuture, -t.Priority
	}
	d := *t.DaysUntilDue
	if d < 0 {
		// more negative = more overdue = earlier
		return bucketOverdue, d, -t.Priority
	}
	return bucketUpcoming, d, -t.Priority
}

func keyLess(a, b Task) bool {
	ab, ad, ap := urgencyKey(a)
	bb, bd, bp := urgencyKey(b)
	if ab != bb {
		return ab < bb
	}
	if ad != bd {
		return ad < bd
	}
	return ap < bp
}

// urgencyOrder returns the indices of tasks sorted by ascending urgency key.
// The sort is stable, so equal keys keep insertion order. Working with
// indices lets the composer exclude an already-used record by identity
// rather than by title.
func urgencyOrder(tasks []Task) []int {
	order := make([]int, len(tasks))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return keyLess(tasks[order[i]], tasks[order[j]])
	})
	return order
}

// SortByUrgency returns a new slice with the tasks in urgency order. The
// input is never mutated.
func SortByUrgency(tasks []Task) []Task {
	order := urgencyOrder(tasks)
	out := make([]Task, len(tasks))
	for i, idx := range order {
		out[i] = tasks[idx]
	}
	return out
}

// TopN returns the first n tasks of the urgency order; "what to focus on"
// is defined as TopN(tasks, 3).
func TopN(tasks []Task, n int) []Task {
	sorted := SortByUrgency(tasks)
	if n > len(sorted) {
		n = len(sorted)
	}
	return sorted[:n]
}
