package models

import "time"

// WizardStep names a stage of the goal creation flow.
type WizardStep string

const (
	StepBasicInfo          WizardStep = "basic_info"
	StepSmartFramework     WizardStep = "smart_framework"
	StepTasksAndMilestones WizardStep = "tasks_and_milestones"
)

var wizardOrder = []WizardStep{StepBasicInfo, StepSmartFramework, StepTasksAndMilestones}

func (s WizardStep) index() int {
	for i, step := range wizardOrder {
		if step == s {
			return i
		}
	}
	return -1
}

func (s WizardStep) Valid() bool {
	return s.index() >= 0
}

// Wizard is the state of a multi-step goal creation.
// Moving forward is gated by the predicate of the current step.
type Wizard struct {
	Step  WizardStep `json:"step"`
	Draft GoalInput  `json:"draft"`
}

func NewWizard() Wizard {
	return Wizard{
		Step: StepBasicInfo,
		Draft: GoalInput{
			Priority: DefaultPriority,
			Reminder: DefaultReminder,
		},
	}
}

// ValidateStep runs the predicate guarding the step's "next" transition.
func (w Wizard) ValidateStep(now time.Time) error {
	var v Validation
	switch w.Step {
	case StepBasicInfo:
		w.Draft.validateBasics(&v, now, true, "Please enter a goal title")
	case StepSmartFramework:
		// free text only
	case StepTasksAndMilestones:
		d := w.Draft
		d.Normalize()
		return d.Validate(now, CreateGoalRules)
	default:
		return NewError(CodeInvalid, "unknown wizard step")
	}
	return v.Err()
}

// Next advances one step when the current one validates.
func (w *Wizard) Next(now time.Time) error {
	if err := w.ValidateStep(now); err != nil {
		return err
	}
	i := w.Step.index()
	if i == len(wizardOrder)-1 {
		return NewError(CodeInvalid, "already at the last step")
	}
	w.Step = wizardOrder[i+1]
	return nil
}

// Back moves one step back without validation.
func (w *Wizard) Back() error {
	i := w.Step.index()
	if i < 0 {
		return NewError(CodeInvalid, "unknown wizard step")
	}
	if i == 0 {
		return NewError(CodeInvalid, "already at the first step")
	}
	w.Step = wizardOrder[i-1]
	return nil
}

// Submit returns the normalized input ready for creation. Only the last step may submit.
func (w Wizard) Submit(now time.Time) (GoalInput, error) {
	if w.Step != StepTasksAndMilestones {
		return GoalInput{}, NewError(CodeInvalid, "goal can only be submitted from the last step")
	}
	in := w.Draft
	in.Normalize()
	if err := in.Validate(now, CreateGoalRules); err != nil {
		return GoalInput{}, err
	}
	return in, nil
}

// ApplyTemplate replaces the draft and keeps the current step.
func (w *Wizard) ApplyTemplate(t GoalTemplate, now time.Time) {
	w.Draft = t.Input(now)
}

type WizardAction string

const (
	WizardNext     WizardAction = "next"
	WizardBack     WizardAction = "back"
	WizardSubmit   WizardAction = "submit"
	WizardTemplate WizardAction = "template"
)

type WizardRequest struct {
	Wizard
	Action     WizardAction `json:"action"`
	TemplateID string       `json:"templateId"`
}
