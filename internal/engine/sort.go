package engine

import (
	"cmp"
	"fmt"
	"slices"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/mtlprog/taskflow/internal/domain"
)

// SortKey selects the ordering of a task list.
type SortKey string

const (
	SortByPriority     SortKey = "priority"
	SortByDueDate      SortKey = "dueDate"
	SortByAlphabetical SortKey = "alphabetical"
	SortByCreated      SortKey = "created"
)

// ParseSortKey validates a sort key. An empty key yields SortByCreated.
func ParseSortKey(s string) (SortKey, error) {
	switch k := SortKey(s); k {
	case "":
		return SortByCreated, nil
	case SortByPriority, SortByDueDate, SortByAlphabetical, SortByCreated:
		return k, nil
	default:
		return "", fmt.Errorf("%w: %q", domain.ErrInvalidSortKey, s)
	}
}

// SortTasks returns a stably sorted copy of tasks. Equal elements keep their input order.
//
//   - priority: high, medium, low
//   - dueDate: earliest first, tasks without a due date last
//   - alphabetical: title, by English collation rules
//   - created (default): newest first
func SortTasks(tasks []domain.Task, key SortKey) ([]domain.Task, error) {
	key, err := ParseSortKey(string(key))
	if err != nil {
		return nil, err
	}

	sorted := slices.Clone(tasks)
	if sorted == nil {
		sorted = []domain.Task{}
	}

	var compare func(a, b domain.Task) int
	switch key {
	case SortByPriority:
		compare = func(a, b domain.Task) int {
			return cmp.Compare(b.Priority.Rank(), a.Priority.Rank())
		}
	case SortByDueDate:
		compare = compareDueDates
	case SortByAlphabetical:
		// Collators keep internal buffers, so each call gets its own.
		col := collate.New(language.English)
		compare = func(a, b domain.Task) int {
			return col.CompareString(a.Title, b.Title)
		}
	default:
		compare = func(a, b domain.Task) int {
			return b.CreatedAt.Compare(a.CreatedAt)
		}
	}

	slices.SortStableFunc(sorted, compare)
	return sorted, nil
}

func compareDueDates(a, b domain.Task) int {
	switch {
	case a.DueDate == nil && b.DueDate == nil:
		return 0
	case a.DueDate == nil:
		return 1
	case b.DueDate == nil:
		return -1
	default:
		return a.DueDate.Compare(*b.DueDate)
	}
}
