package service

import (
	"reflect"
	"sort"
	"time"
)

// changeSet accumulates the old and new values of fields that differ
type changeSet struct {
	old map[string]interface{}
	new map[string]interface{}
}

func newChangeSet() *changeSet {
	return &changeSet{old: map[string]interface{}{}, new: map[string]interface{}{}}
}

func (c *changeSet) compare(field string, before, after interface{}) {
	if reflect.DeepEqual(before, after) {
		return
	}
	c.old[field] = before
	c.new[field] = after
}

// markText flags a long rich-text field as changed without copying its content
func (c *changeSet) markText(field, before, after string) {
	if before == after {
		return
	}
	c.new[field] = map[string]string{"type": "updated"}
}

func formatTime(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return t.UTC().Format(time.RFC3339)
}

func sortedIDs(ids []uint) []uint {
	out := append([]uint{}, ids...)
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
