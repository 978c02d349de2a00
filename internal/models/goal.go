package models

import (
	"encoding/json"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Task struct {
	Text      string `json:"text" firestore:"text"`
	Completed bool   `json:"completed" firestore:"completed"`
}

type Milestone struct {
	Title     string     `json:"title" firestore:"title"`
	DueDate   *time.Time `json:"dueDate" firestore:"dueDate"`
	Completed bool       `json:"completed" firestore:"completed"`
}

// Smart holds the free-text SMART framework answers. Never computed.
type Smart struct {
	Specific   string `json:"specific" firestore:"specific"`
	Measurable string `json:"measurable" firestore:"measurable"`
	Achievable string `json:"achievable" firestore:"achievable"`
	Relevant   string `json:"relevant" firestore:"relevant"`
	TimeBound  string `json:"timeBound" firestore:"timeBound"`
}

type Goal struct {
	ID          string      `json:"id" gorm:"primaryKey" firestore:"-"`
	UserID      string      `json:"userId" gorm:"index;not null" firestore:"userId"`
	Title       string      `json:"title" gorm:"not null" firestore:"title"`
	Description string      `json:"description" firestore:"description"`
	Category    string      `json:"category" gorm:"not null" firestore:"category"`
	Priority    string      `json:"priority" gorm:"not null" firestore:"priority"`
	DueDate     *time.Time  `json:"dueDate" firestore:"dueDate"`
	Tasks       []Task      `json:"tasks" gorm:"serializer:json" firestore:"tasks"`
	Milestones  []Milestone `json:"milestones" gorm:"serializer:json" firestore:"milestones"`
	Smart       Smart       `json:"smart" gorm:"serializer:json" firestore:"smart"`
	Reminder    string      `json:"reminder" gorm:"default:daily" firestore:"reminder"`
	Progress    int         `json:"progress" gorm:"default:0" firestore:"progress"`
	Completed   bool        `json:"completed" gorm:"default:false" firestore:"completed"`
	CreatedAt   time.Time   `json:"createdAt" gorm:"index" firestore:"createdAt,serverTimestamp"`
	UpdatedAt   time.Time   `json:"updatedAt" firestore:"updatedAt,serverTimestamp"`
}

func (g *Goal) BeforeCreate(tx *gorm.DB) error {
	if g.ID == "" {
		g.ID = uuid.NewString()
	}
	return nil
}

// BeforeSave keeps progress in step with tasks on every write.
func (g *Goal) BeforeSave(tx *gorm.DB) error {
	g.Recompute()
	return nil
}

// Goal categories
const (
	CategoryHealth       = "health"
	CategoryCareer       = "career"
	CategoryEducation    = "education"
	CategoryFinance      = "finance"
	CategoryPersonal     = "personal"
	CategoryRelationship = "relationship"
	CategoryHobby        = "hobby"
	CategorySpiritual    = "spiritual"
	CategoryOther        = "other"
)

type CategoryInfo struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Emoji string `json:"emoji"`
}

var Categories = []CategoryInfo{
	{CategoryHealth, "Health & Fitness", "💪"},
	{CategoryCareer, "Career & Work", "💼"},
	{CategoryEducation, "Education & Learning", "📚"},
	{CategoryFinance, "Finance & Money", "💰"},
	{CategoryPersonal, "Personal Growth", "🌱"},
	{CategoryRelationship, "Relationships", "❤️"},
	{CategoryHobby, "Hobbies & Recreation", "🎨"},
	{CategorySpiritual, "Spiritual", "🧘"},
	{CategoryOther, "Other", "✨"},
}

func IsValidCategory(id string) bool {
	for _, c := range Categories {
		if c.ID == id {
			return true
		}
	}
	return false
}

const (
	PriorityLow    = "Low"
	PriorityMedium = "Medium"
	PriorityHigh   = "High"

	DefaultPriority = PriorityMedium
)

func IsValidPriority(p string) bool {
	return p == PriorityLow || p == PriorityMedium || p == PriorityHigh
}

var Reminders = []string{"daily", "weekly", "monthly", "none"}

const DefaultReminder = "daily"

func IsValidReminder(r string) bool {
	for _, v := range Reminders {
		if v == r {
			return true
		}
	}
	return false
}

// GoalStatus is the list-view classification of a goal.
type GoalStatus string

const (
	GoalActive    GoalStatus = "active"
	GoalCompleted GoalStatus = "completed"
	GoalOverdue   GoalStatus = "overdue"
)

// GoalFilterAll selects every goal in FilterGoals.
const GoalFilterAll = "all"

// ComputeProgress returns round(100 * completed / total), or 0 for no tasks.
func ComputeProgress(tasks []Task) int {
	if len(tasks) == 0 {
		return 0
	}
	done := 0
	for _, t := range tasks {
		if t.Completed {
			done++
		}
	}
	return int(math.Round(100 * float64(done) / float64(len(tasks))))
}

// Recompute derives Progress from Tasks. Nil lists become empty so they
// encode as [] rather than null.
func (g *Goal) Recompute() {
	if g.Tasks == nil {
		g.Tasks = []Task{}
	}
	if g.Milestones == nil {
		g.Milestones = []Milestone{}
	}
	g.Progress = ComputeProgress(g.Tasks)
}

// ToggleTask flips the task at index and recomputes progress.
func (g *Goal) ToggleTask(index int) error {
	if index < 0 || index >= len(g.Tasks) {
		return NewError(CodeNotFound, "task not found")
	}
	g.Tasks[index].Completed = !g.Tasks[index].Completed
	g.Recompute()
	return nil
}

func (g *Goal) ToggleMilestone(index int) error {
	if index < 0 || index >= len(g.Milestones) {
		return NewError(CodeNotFound, "milestone not found")
	}
	g.Milestones[index].Completed = !g.Milestones[index].Completed
	return nil
}

func (g *Goal) CompletedTaskCount() int {
	n := 0
	for _, t := range g.Tasks {
		if t.Completed {
			n++
		}
	}
	return n
}

// Classify places a goal in exactly one list filter.
func Classify(g Goal, now time.Time) GoalStatus {
	if g.Progress >= 100 {
		return GoalCompleted
	}
	if g.DueDate != nil && now.After(*g.DueDate) {
		return GoalOverdue
	}
	return GoalActive
}

// FilterGoals keeps the goals matching filter ("all" or a GoalStatus), preserving order.
func FilterGoals(goals []Goal, filter string, now time.Time) []Goal {
	out := make([]Goal, 0, len(goals))
	for _, g := range goals {
		if filter == "" || filter == GoalFilterAll || string(Classify(g, now)) == filter {
			out = append(out, g)
		}
	}
	return out
}

func IsValidGoalFilter(filter string) bool {
	switch filter {
	case "", GoalFilterAll, string(GoalActive), string(GoalCompleted), string(GoalOverdue):
		return true
	}
	return false
}

// TallyCategories counts goals per category, skipping goals without one.
func TallyCategories(goals []Goal) map[string]int {
	tally := make(map[string]int)
	for _, g := range goals {
		if g.Category != "" {
			tally[g.Category]++
		}
	}
	return tally
}

type GoalView struct {
	Goal
	Status         GoalStatus `json:"status"`
	CompletedTasks int        `json:"completedTasks"`
	TotalTasks     int        `json:"totalTasks"`
}

func NewGoalView(g Goal, now time.Time) GoalView {
	return GoalView{
		Goal:           g,
		Status:         Classify(g, now),
		CompletedTasks: g.CompletedTaskCount(),
		TotalTasks:     len(g.Tasks),
	}
}

type GoalSummary struct {
	Counts     map[string]int `json:"counts"`
	Categories map[string]int `json:"categories"`
}

func SummarizeGoals(goals []Goal, now time.Time) GoalSummary {
	counts := map[string]int{
		GoalFilterAll:         len(goals),
		string(GoalActive):    0,
		string(GoalCompleted): 0,
		string(GoalOverdue):   0,
	}
	for _, g := range goals {
		counts[string(Classify(g, now))]++
	}
	return GoalSummary{Counts: counts, Categories: TallyCategories(goals)}
}

// GoalInput is the user-editable part of a goal.
type GoalInput struct {
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Category    string      `json:"category"`
	Priority    string      `json:"priority"`
	DueDate     *time.Time  `json:"dueDate"`
	Tasks       []Task      `json:"tasks"`
	Milestones  []Milestone `json:"milestones"`
	Smart       Smart       `json:"smart"`
	Reminder    string      `json:"reminder"`

	// Set by UnmarshalJSON when a date string could not be parsed.
	badDueDate       bool
	badMilestoneDate bool
}

// UnmarshalJSON accepts due dates as "2006-01-02" or RFC3339. Unparseable
// dates are reported by Validate as field errors.
func (in *GoalInput) UnmarshalJSON(data []byte) error {
	var raw struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		Category    string `json:"category"`
		Priority    string `json:"priority"`
		DueDate     string `json:"dueDate"`
		Tasks       []Task `json:"tasks"`
		Milestones  []struct {
			Title     string `json:"title"`
			DueDate   string `json:"dueDate"`
			Completed bool   `json:"completed"`
		} `json:"milestones"`
		Smart    Smart  `json:"smart"`
		Reminder string `json:"reminder"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	due, err := ParseDate(raw.DueDate, time.UTC)
	badDue := err != nil
	badMilestone := false
	milestones := make([]Milestone, 0, len(raw.Milestones))
	for _, m := range raw.Milestones {
		md, err := ParseDate(m.DueDate, time.UTC)
		if err != nil {
			badMilestone = true
		}
		milestones = append(milestones, Milestone{Title: m.Title, DueDate: md, Completed: m.Completed})
	}
	*in = GoalInput{
		Title:       raw.Title,
		Description: raw.Description,
		Category:    raw.Category,
		Priority:    raw.Priority,
		DueDate:     due,
		Tasks:       raw.Tasks,
		Milestones:  milestones,
		Smart:       raw.Smart,
		Reminder:    raw.Reminder,

		badDueDate:       badDue,
		badMilestoneDate: badMilestone,
	}
	return nil
}

// Normalize trims text and drops blank tasks and milestones.
func (in *GoalInput) Normalize() {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	if in.Reminder == "" {
		in.Reminder = DefaultReminder
	}

	tasks := make([]Task, 0, len(in.Tasks))
	for _, t := range in.Tasks {
		text := strings.TrimSpace(t.Text)
		if text == "" {
			continue
		}
		tasks = append(tasks, Task{Text: text, Completed: t.Completed})
	}
	in.Tasks = tasks

	milestones := make([]Milestone, 0, len(in.Milestones))
	for _, m := range in.Milestones {
		title := strings.TrimSpace(m.Title)
		if title == "" {
			continue
		}
		milestones = append(milestones, Milestone{Title: title, DueDate: m.DueDate, Completed: m.Completed})
	}
	in.Milestones = milestones
}

// GoalRules selects the checks applied by GoalInput.Validate.
type GoalRules struct {
	RequireTasks bool
	CheckDueDate bool
}

var CreateGoalRules = GoalRules{RequireTasks: true, CheckDueDate: true}

func (in GoalInput) Validate(now time.Time, rules GoalRules) error {
	var v Validation
	in.validateBasics(&v, now, rules.CheckDueDate, "Goal title is required")
	if in.badDueDate {
		v.Add("dueDate", "Invalid due date")
	}
	if in.badMilestoneDate {
		v.Add("milestones", "Invalid milestone date")
	}
	if in.Priority == "" || !IsValidPriority(in.Priority) {
		v.Add("priority", "Invalid priority selected")
	}
	if !IsValidReminder(in.Reminder) {
		v.Add("reminder", "Invalid reminder selected")
	}
	if rules.RequireTasks {
		in.validateTasks(&v)
	}
	return v.Err()
}

func (in GoalInput) validateBasics(v *Validation, now time.Time, checkDueDate bool, titleMsg string) {
	if strings.TrimSpace(in.Title) == "" {
		v.Add("title", titleMsg)
	}
	if in.Category == "" {
		v.Add("category", "Please select a category")
	} else if !IsValidCategory(in.Category) {
		v.Add("category", "Invalid category selected")
	}
	if checkDueDate && in.DueDate != nil && in.DueDate.Before(StartOfDay(now)) {
		v.Add("dueDate", "Due date cannot be in the past")
	}
}

func (in GoalInput) validateTasks(v *Validation) {
	for _, t := range in.Tasks {
		if strings.TrimSpace(t.Text) != "" {
			return
		}
	}
	v.Add("tasks", "Please add at least one task")
}

// NewGoal builds a fresh goal for userID. Tasks always start uncompleted.
func NewGoal(userID string, in GoalInput) Goal {
	tasks := make([]Task, len(in.Tasks))
	for i, t := range in.Tasks {
		tasks[i] = Task{Text: t.Text}
	}
	milestones := make([]Milestone, len(in.Milestones))
	for i, m := range in.Milestones {
		milestones[i] = Milestone{Title: m.Title, DueDate: m.DueDate}
	}
	g := Goal{
		UserID:      userID,
		Title:       in.Title,
		Description: in.Description,
		Category:    in.Category,
		Priority:    in.Priority,
		DueDate:     in.DueDate,
		Tasks:       tasks,
		Milestones:  milestones,
		Smart:       in.Smart,
		Reminder:    in.Reminder,
		Completed:   false,
	}
	g.Recompute()
	return g
}

// Apply copies editable fields onto g and recomputes progress.
func (g *Goal) Apply(in GoalInput) {
	g.Title = in.Title
	g.Description = in.Description
	g.Category = in.Category
	g.Priority = in.Priority
	g.DueDate = in.DueDate
	g.Tasks = make([]Task, len(in.Tasks))
	copy(g.Tasks, in.Tasks)
	g.Milestones = make([]Milestone, len(in.Milestones))
	copy(g.Milestones, in.Milestones)
	g.Smart = in.Smart
	g.Reminder = in.Reminder
	g.Recompute()
}

func sameDate(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(*b)
}

// DueDateChanged reports whether in moves the due date of g.
func (g *Goal) DueDateChanged(in GoalInput) bool {
	return !sameDate(g.DueDate, in.DueDate)
}

type ToggleCompletedRequest struct {
	Completed bool `json:"completed"`
}
