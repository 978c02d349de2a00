package models

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestReadTime(t *testing.T) {
	words := func(n int) string {
		return strings.TrimSpace(strings.Repeat("word ", n))
	}

	assert.Equal(t, 1, ReadTime(""))
	assert.Equal(t, 1, ReadTime("hello"))
	assert.Equal(t, 1, ReadTime(words(200)))
	assert.Equal(t, 2, ReadTime(words(201)))
	assert.Equal(t, 2, ReadTime(words(400)))
	assert.Equal(t, 3, WordCount("one  two\nthree"))
}

func TestJournalInputValidate(t *testing.T) {
	in := JournalInput{Title: " Today ", Content: "Felt good"}
	in.Normalize()
	assert.NoError(t, in.Validate())
	assert.Equal(t, "Today", in.Title)
	assert.Equal(t, DefaultMood, in.Mood)

	long := JournalInput{Title: strings.Repeat("é", MaxJournalTitle+1), Content: "x", Mood: "happy"}
	assert.Equal(t, "Title must be 100 characters or fewer", FieldErrors(long.Validate())["title"])

	exact := JournalInput{Title: strings.Repeat("é", MaxJournalTitle), Content: "x", Mood: "happy"}
	assert.NoError(t, exact.Validate())

	bad := JournalInput{Mood: "bored"}
	fields := FieldErrors(bad.Validate())
	assert.Contains(t, fields, "title")
	assert.Contains(t, fields, "content")
	assert.Contains(t, fields, "mood")
}

func TestSortJournalsNewestFirst(t *testing.T) {
	list := []JournalEntry{
		{ID: "old", CreatedAt: testNow.Add(-2 * time.Hour)},
		{ID: "new", CreatedAt: testNow},
		{ID: "mid", CreatedAt: testNow.Add(-time.Hour)},
	}
	SortJournals(list)
	assert.Equal(t, "new", list[0].ID)
	assert.Equal(t, "mid", list[1].ID)
	assert.Equal(t, "old", list[2].ID)
}

func TestRenderMarkdown(t *testing.T) {
	out := RenderMarkdown("**Ran** today\nfelt strong")
	assert.Contains(t, out, "<strong>Ran</strong>")
	assert.Contains(t, out, "<br>")

	unsafe := RenderMarkdown("<script>alert(1)</script>")
	assert.NotContains(t, unsafe, "<script>")

	view := NewJournalView(JournalEntry{Content: "one two"})
	assert.Equal(t, "<p>one two</p>\n", view.ContentHTML)
	assert.Equal(t, 2, view.WordCount)
}
