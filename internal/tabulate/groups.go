package tabulate

import (
	"fmt"
	"strings"

	"surveykit/domain/survey"
	"surveykit/internal/errors"
)

// SplitGroups partitions the table by the value of column groupCol.
// Keys are the trimmed label of the cell; missing or blank keys are left out
// of every group. Groups are returned in first-seen order.
func SplitGroups(t *survey.Table, groupCol int) ([]survey.Partition, error) {
	if groupCol < 0 || groupCol >= len(t.Headers) {
		return nil, errors.InvalidInput(fmt.Sprintf(
			"group column index %d out of range (sheet has %d columns)", groupCol, len(t.Headers)))
	}

	var order []string
	members := make(map[string][]int)
	for r, row := range t.Rows {
		cell := row[groupCol]
		if cell.Blank() {
			continue
		}
		key := strings.TrimSpace(cell.Label())
		if key == "" {
			continue
		}
		if _, seen := members[key]; !seen {
			order = append(order, key)
		}
		members[key] = append(members[key], r)
	}

	partitions := make([]survey.Partition, 0, len(order))
	for _, key := range order {
		partitions = append(partitions, survey.Partition{Label: key, Table: t.Subset(members[key])})
	}
	return partitions, nil
}

// Partitions returns the general partition followed by one partition per
// group when groupCol is non-negative
func Partitions(t *survey.Table, groupCol int, generalLabel string) ([]survey.Partition, error) {
	parts := []survey.Partition{{Label: generalLabel, Table: t}}
	if groupCol < 0 {
		return parts, nil
	}
	groups, err := SplitGroups(t, groupCol)
	if err != nil {
		return nil, err
	}
	return append(parts, groups...), nil
}
