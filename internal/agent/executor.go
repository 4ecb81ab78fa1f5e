package agent

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/lifesync/internal/calendar"
	"github.com/lifesync/internal/goals"
	"github.com/lifesync/internal/mood"
	"github.com/lifesync/internal/tasks"
)

// Executor applies confirmed candidate actions to the domain stores.
// Only create operations are executed; anything else is rejected with a
// typed error so callers can report it without guessing.
type Executor struct {
	tasks  tasks.Store
	events calendar.Store
	goals  goals.Store
	moods  mood.Store
	now    func() time.Time
}

func NewExecutor(taskStore tasks.Store, eventStore calendar.Store, goalStore goals.Store, moodStore mood.Store) *Executor {
	return &Executor{
		tasks:  taskStore,
		events: eventStore,
		goals:  goalStore,
		moods:  moodStore,
		now:    time.Now,
	}
}

// Execute applies a single confirmed action for the user.
func (e *Executor) Execute(ctx context.Context, userID string, action CandidateAction) error {
	if action.Operation != OperationCreate {
		return &UnsupportedOperationError{Operation: action.Operation, Type: action.Type}
	}

	var err error
	switch action.Type {
	case ActionTask:
		err = e.createTask(ctx, userID, action.Task)
	case ActionCalendar:
		err = e.createEvent(ctx, userID, action.Event)
	case ActionGoal:
		err = e.createGoal(ctx, userID, action.Goal)
	case ActionMood:
		err = e.createMood(ctx, userID, action.Mood)
	default:
		err = &UnknownActionTypeError{Type: action.Type}
	}
	if err != nil {
		return err
	}

	log.Info().
		Str("user_id", userID).
		Str("action_type", string(action.Type)).
		Str("title", action.Title()).
		Msg("executed confirmed action")
	return nil
}

// ExecutionResult reports the outcome of one action in a batch.
type ExecutionResult struct {
	Action CandidateAction `json:"action"`
	Err    string          `json:"error,omitempty"`
}

// ExecuteBatch applies each action independently: a failure is recorded
// and execution continues with the remaining actions.
func (e *Executor) ExecuteBatch(ctx context.Context, userID string, actions []CandidateAction) []ExecutionResult {
	results := make([]ExecutionResult, 0, len(actions))
	for _, action := range actions {
		result := ExecutionResult{Action: action}
		if err := e.Execute(ctx, userID, action); err != nil {
			result.Err = err.Error()
			log.Warn().
				Err(err).
				Str("user_id", userID).
				Str("action_type", string(action.Type)).
				Msg("action execution failed")
		}
		results = append(results, result)
	}
	return results
}

func (e *Executor) createTask(ctx context.Context, userID string, draft *TaskDraft) error {
	if draft == nil {
		return fmt.Errorf("task action has no payload")
	}
	t := &tasks.Task{
		UserID:      userID,
		Title:       draft.Title,
		Description: draft.Description,
		Priority:    tasks.Priority(draft.Priority),
		AISuggested: draft.AISuggested,
		AIContext:   draft.AIContext,
	}
	if err := e.tasks.Create(ctx, t); err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}
	return nil
}

func (e *Executor) createEvent(ctx context.Context, userID string, draft *EventDraft) error {
	if draft == nil {
		return fmt.Errorf("calendar action has no payload")
	}
	ev := &calendar.Event{
		UserID:      userID,
		Title:       draft.Title,
		Description: draft.Description,
		Type:        calendar.EventType(draft.Type),
		Date:        draft.Date,
		StartTime:   draft.StartTime,
		EndTime:     draft.EndTime,
		IsAllDay:    draft.IsAllDay,
		AISuggested: draft.AISuggested,
		AIContext:   draft.AIContext,
	}
	if err := e.events.Create(ctx, ev); err != nil {
		return fmt.Errorf("failed to create calendar event: %w", err)
	}
	return nil
}

func (e *Executor) createGoal(ctx context.Context, userID string, draft *GoalDraft) error {
	if draft == nil {
		return fmt.Errorf("goal action has no payload")
	}
	g := &goals.Goal{
		UserID:      userID,
		Title:       draft.Title,
		Description: draft.Description,
		Category:    goals.Category(draft.Category),
		Priority:    draft.Priority,
		AISuggested: draft.AISuggested,
		AIContext:   draft.AIContext,
	}
	if err := e.goals.Create(ctx, g); err != nil {
		return fmt.Errorf("failed to create goal: %w", err)
	}
	return nil
}

func (e *Executor) createMood(ctx context.Context, userID string, draft *MoodDraft) error {
	if draft == nil {
		return fmt.Errorf("mood action has no payload")
	}
	entry := &mood.Entry{
		UserID:    userID,
		Date:      e.now(),
		Mood:      mood.Mood(draft.Mood),
		Energy:    draft.Energy,
		Notes:     draft.Notes,
		AIContext: draft.AIContext,
	}
	if err := e.moods.Create(ctx, entry); err != nil {
		return fmt.Errorf("failed to log mood entry: %w", err)
	}
	return nil
}
