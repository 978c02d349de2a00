package models

import (
	"bytes"
	"html"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/yuin/goldmark"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"
	"gorm.io/gorm"
)

// JournalEntry is a free-text entry tagged with a mood.
// UpdatedAt stays nil until the entry is edited.
type JournalEntry struct {
	ID        string     `json:"id" gorm:"primaryKey" firestore:"-"`
	UserID    string     `json:"userId" gorm:"index;not null" firestore:"userId"`
	Title     string     `json:"title" gorm:"size:100;not null" firestore:"title"`
	Content   string     `json:"content" gorm:"not null" firestore:"content"`
	Mood      string     `json:"mood" gorm:"default:neutral" firestore:"mood"`
	CreatedAt time.Time  `json:"createdAt" gorm:"index" firestore:"createdAt,serverTimestamp"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty" gorm:"autoUpdateTime:false" firestore:"updatedAt,omitempty"`
}

func (JournalEntry) TableName() string {
	return "journals"
}

func (j *JournalEntry) BeforeCreate(tx *gorm.DB) error {
	if j.ID == "" {
		j.ID = uuid.NewString()
	}
	return nil
}

const (
	MaxJournalTitle = 100
	WordsPerMinute  = 200
	DefaultMood     = "neutral"
)

type MoodInfo struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Emoji string `json:"emoji"`
}

var Moods = []MoodInfo{
	{"happy", "Happy", "😊"},
	{"sad", "Sad", "😢"},
	{"angry", "Angry", "😠"},
	{"excited", "Excited", "🤩"},
	{"neutral", "Neutral", "😐"},
	{"tired", "Tired", "😴"},
	{"anxious", "Anxious", "😰"},
}

func IsValidMood(m string) bool {
	for _, mood := range Moods {
		if mood.ID == m {
			return true
		}
	}
	return false
}

// WordCount counts whitespace-delimited tokens.
func WordCount(content string) int {
	return len(strings.Fields(content))
}

// ReadTime is ceil(words / 200) minutes, never less than one.
func ReadTime(content string) int {
	words := WordCount(content)
	minutes := (words + WordsPerMinute - 1) / WordsPerMinute
	if minutes < 1 {
		return 1
	}
	return minutes
}

type JournalInput struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Mood    string `json:"mood"`
}

func (in *JournalInput) Normalize() {
	in.Title = strings.TrimSpace(in.Title)
	in.Mood = strings.TrimSpace(in.Mood)
	if in.Mood == "" {
		in.Mood = DefaultMood
	}
}

func (in JournalInput) Validate() error {
	var v Validation
	if in.Title == "" {
		v.Add("title", "Title is required")
	} else if utf8.RuneCountInString(in.Title) > MaxJournalTitle {
		v.Add("title", "Title must be 100 characters or fewer")
	}
	if strings.TrimSpace(in.Content) == "" {
		v.Add("content", "Content is required")
	}
	if !IsValidMood(in.Mood) {
		v.Add("mood", "Invalid mood selected")
	}
	return v.Err()
}

type JournalView struct {
	JournalEntry
	ContentHTML string `json:"contentHtml"`
	WordCount   int    `json:"wordCount"`
	ReadTime    int    `json:"readTime"`
}

func NewJournalView(j JournalEntry) JournalView {
	return JournalView{
		JournalEntry: j,
		ContentHTML:  RenderMarkdown(j.Content),
		WordCount:    WordCount(j.Content),
		ReadTime:     ReadTime(j.Content),
	}
}

// Raw HTML in entries is not rendered (WithUnsafe is not set).
var markdown = goldmark.New(
	goldmark.WithRendererOptions(
		goldmarkHTML.WithHardWraps(),
	),
)

// RenderMarkdown converts entry content to HTML, falling back to escaped text.
func RenderMarkdown(md string) string {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(md), &buf); err != nil {
		return html.EscapeString(md)
	}
	return buf.String()
}

// SortJournals orders most recent first.
func SortJournals(list []JournalEntry) {
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].CreatedAt.After(list[j].CreatedAt)
	})
}
