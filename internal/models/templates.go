package models

import "time"

// GoalTemplate is a ready-made starting point for the creation wizard.
type GoalTemplate struct {
	ID          string `json:"id"`
	Category    string `json:"category"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Priority    string `json:"priority"`
	Smart       Smart  `json:"smart"`
	Tasks       []Task `json:"tasks"`
}

// TemplateDueDays is how far out a template sets the due date.
const TemplateDueDays = 30

var GoalTemplates = []GoalTemplate{
	{
		ID:          "run-5k",
		Category:    CategoryHealth,
		Title:       "Complete a 5K run",
		Description: "Train progressively to be able to run 5 kilometers without stopping",
		Priority:    PriorityMedium,
		Smart: Smart{
			Specific:   "Train to run 5K without stopping",
			Measurable: "Track distance covered in each training session",
			Achievable: "Gradually increase distance each week",
			Relevant:   "Improve cardiovascular health and overall fitness",
			TimeBound:  "Complete within 3 months",
		},
		Tasks: []Task{
			{Text: "Get proper running shoes"},
			{Text: "Create a training schedule"},
			{Text: "Run 3 times per week"},
		},
	},
	{
		ID:          "professional-skill",
		Category:    CategoryCareer,
		Title:       "Learn a new professional skill",
		Description: "Enhance my career options by learning a valuable new skill",
		Priority:    PriorityHigh,
		Smart: Smart{
			Specific:   "Complete online course in the chosen skill",
			Measurable: "Earn certification or create portfolio pieces",
			Achievable: "Allocate 5 hours per week for learning",
			Relevant:   "Will help advance my career path",
			TimeBound:  "Complete within 2 months",
		},
		Tasks: []Task{
			{Text: "Research available courses"},
			{Text: "Enroll in selected course"},
			{Text: "Complete weekly assignments"},
		},
	},
	{
		ID:          "emergency-fund",
		Category:    CategoryFinance,
		Title:       "Build an emergency fund",
		Description: "Save money for unexpected expenses and financial security",
		Priority:    PriorityHigh,
		Smart: Smart{
			Specific:   "Save 3 months of living expenses",
			Measurable: "Track monthly savings amount",
			Achievable: "Set aside 10% of income each month",
			Relevant:   "Provides financial security and peace of mind",
			TimeBound:  "Complete within 1 year",
		},
		Tasks: []Task{
			{Text: "Calculate target amount"},
			{Text: "Open a dedicated savings account"},
			{Text: "Set up automatic transfers"},
		},
	},
}

func FindTemplate(id string) (GoalTemplate, bool) {
	for _, t := range GoalTemplates {
		if t.ID == id {
			return t, true
		}
	}
	return GoalTemplate{}, false
}

// Input turns the template into a draft due TemplateDueDays after now.
func (t GoalTemplate) Input(now time.Time) GoalInput {
	due := StartOfDay(now).AddDate(0, 0, TemplateDueDays)
	return GoalInput{
		Title:       t.Title,
		Description: t.Description,
		Category:    t.Category,
		Priority:    t.Priority,
		DueDate:     &due,
		Tasks:       append([]Task(nil), t.Tasks...),
		Smart:       t.Smart,
		Reminder:    DefaultReminder,
	}
}
