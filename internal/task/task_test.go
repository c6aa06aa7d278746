package task

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustDate(t *testing.T, s string) *Date {
	t.Helper()
	d, err := ParseDate(s)
	require.NoError(t, err)
	return &d
}

func TestTask_IsOverdue(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		task Task
		want bool
	}{
		{"past due pending", Task{DueDate: mustDate(t, "2024-01-01")}, true},
		{"past due completed", Task{DueDate: mustDate(t, "2024-01-01"), Completed: true}, false},
		{"future due", Task{DueDate: mustDate(t, "2025-01-01")}, false},
		{"no due date", Task{}, false},
		{"due today counts from midnight", Task{DueDate: mustDate(t, "2024-06-01")}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.task.IsOverdue(now))
		})
	}
}

func TestTask_Clone(t *testing.T) {
	done := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	orig := &Task{
		ID:          "1",
		Text:        "write report",
		DueDate:     mustDate(t, "2024-02-01"),
		CompletedAt: &done,
		Subtasks:    []Subtask{{ID: "s1", Text: "outline"}},
	}

	c := orig.Clone()
	c.Subtasks[0].Completed = true
	c.DueDate.Day = 9
	*c.CompletedAt = time.Time{}

	assert.False(t, orig.Subtasks[0].Completed)
	assert.Equal(t, 1, orig.DueDate.Day)
	assert.Equal(t, done, *orig.CompletedAt)
}

func TestTask_SubtaskProgress(t *testing.T) {
	tk := &Task{Subtasks: []Subtask{
		{ID: "a", Completed: true},
		{ID: "b"},
		{ID: "c", Completed: true},
	}}
	done, total := tk.SubtaskProgress()
	assert.Equal(t, 2, done)
	assert.Equal(t, 3, total)
	assert.Equal(t, 1, tk.FindSubtask("b"))
	assert.Equal(t, -1, tk.FindSubtask("zzz"))
}

func TestTask_MarshalJSON_CanonicalFields(t *testing.T) {
	created := time.Date(2024, 3, 4, 5, 6, 7, 890_000_000, time.UTC)
	tk := Task{
		ID:        "abc",
		Text:      "pay rent",
		Priority:  PriorityHigh,
		Category:  "home",
		DueDate:   mustDate(t, "2024-03-31"),
		CreatedAt: created,
	}

	data, err := json.Marshal(tk)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))

	for _, key := range []string{"id", "text", "completed", "priority", "category", "dueDate",
		"notes", "createdAt", "completedAt", "updatedAt", "subtasks", "tags"} {
		assert.Contains(t, raw, key)
	}
	assert.Equal(t, "2024-03-04T05:06:07.890Z", raw["createdAt"])
	assert.Equal(t, "2024-03-31", raw["dueDate"])
	assert.Nil(t, raw["completedAt"])
	assert.Nil(t, raw["updatedAt"])
	assert.Equal(t, []any{}, raw["tags"])
	assert.Equal(t, []any{}, raw["subtasks"])
}

func TestTask_UnmarshalJSON_LegacyRecord(t *testing.T) {
	// Shape written by the browser tracker: numeric ids, full ISO due date.
	data := []byte(`{
		"id": 1717243200000,
		"text": "Explore all the new features",
		"completed": false,
		"priority": "medium",
		"category": "personal",
		"dueDate": "2024-06-08T00:00:00.000Z",
		"notes": "",
		"createdAt": "2024-06-01T12:00:00.000Z",
		"subtasks": [{"id": 1717243200021, "text": "Try the priority system", "completed": true}],
		"tags": []
	}`)

	var tk Task
	require.NoError(t, json.Unmarshal(data, &tk))

	assert.Equal(t, ID("1717243200000"), tk.ID)
	assert.Equal(t, "2024-06-08", tk.DueDate.String())
	assert.Equal(t, time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC), tk.CreatedAt)
	assert.Nil(t, tk.CompletedAt)
	require.Len(t, tk.Subtasks, 1)
	assert.Equal(t, ID("1717243200021"), tk.Subtasks[0].ID)
	assert.True(t, tk.Subtasks[0].Completed)
}

func TestTask_UnmarshalJSON_EmptyDueDate(t *testing.T) {
	var tk Task
	require.NoError(t, json.Unmarshal([]byte(`{"id":"x","text":"y","dueDate":""}`), &tk))
	assert.Nil(t, tk.DueDate)
	assert.NotNil(t, tk.Subtasks)
}

func TestTask_JSONRoundTrip(t *testing.T) {
	created := time.Date(2024, 3, 4, 5, 6, 7, 123_000_000, time.UTC)
	done := created.Add(time.Hour)
	orig := Task{
		ID:          "t1",
		Text:        "ship it",
		Completed:   true,
		Priority:    PriorityLow,
		Category:    "work",
		DueDate:     mustDate(t, "2024-04-01"),
		Notes:       "after review",
		CreatedAt:   created,
		CompletedAt: &done,
		Subtasks:    []Subtask{{ID: "s1", Text: "tag release", Completed: true}},
	}

	data, err := json.Marshal(orig)
	require.NoError(t, err)

	var got Task
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, orig, got)
}

func TestParsePriority(t *testing.T) {
	p, err := ParsePriority("")
	require.NoError(t, err)
	assert.Equal(t, PriorityMedium, p)

	p, err = ParsePriority(" HIGH ")
	require.NoError(t, err)
	assert.Equal(t, PriorityHigh, p)

	_, err = ParsePriority("urgent")
	assert.Error(t, err)
}

func TestPriorityRank(t *testing.T) {
	assert.Greater(t, PriorityHigh.Rank(), PriorityMedium.Rank())
	assert.Greater(t, PriorityMedium.Rank(), PriorityLow.Rank())
	assert.Equal(t, 0, Priority("urgent").Rank())
}
