package event

import (
	"context"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campusevents/internal/membership"
	id "campusevents/pkg/domain"
	dErrors "campusevents/pkg/domain-errors"
	"campusevents/pkg/requestcontext"
)

type fakeNotifier struct {
	mu      sync.Mutex
	alerts  []string
	notifys []string
}

func (f *fakeNotifier) Alert(_ context.Context, email, subject, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.alerts = append(f.alerts, email+": "+subject)
	return nil
}

func (f *fakeNotifier) Notify(_ context.Context, userID id.UserID, message string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.notifys = append(f.notifys, userID.String()+": "+message)
	return nil
}

func newTestService(t *testing.T) (*Service, *fakeNotifier, *membership.InMemoryStore) {
	t.Helper()
	members := membership.NewInMemoryStore()
	notifier := &fakeNotifier{}
	svc := NewService(
		NewInMemoryStore(),
		NewInMemoryTaskStore(),
		NewInMemoryFeedbackStore(),
		NoopTx{},
		members,
		notifier,
		slog.New(slog.DiscardHandler),
	)
	return svc, notifier, members
}

func actorContext(actor requestcontext.ActorInfo) context.Context {
	return requestcontext.WithActor(context.Background(), actor)
}

func TestServiceCreate(t *testing.T) {
	svc, notifier, _ := newTestService(t)
	actor := requestcontext.ActorInfo{ID: id.NewUserID(), Name: "Priya", Email: "priya@college.edu"}
	ctx := actorContext(actor)

	input := validEvent()
	input.Organiser = id.UserID{}

	created, err := svc.Create(ctx, input)
	require.NoError(t, err)
	assert.Equal(t, StatusDraft, created.Status)
	assert.Equal(t, actor.ID, created.Organiser, "organiser defaults to the acting user")

	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Name, got.Name)

	require.Len(t, notifier.alerts, 1)
	assert.Contains(t, notifier.alerts[0], "Created Event "+created.Name)
	require.Len(t, notifier.notifys, 1)
}

func TestServiceCreateInvalid(t *testing.T) {
	svc, notifier, _ := newTestService(t)
	ctx := actorContext(requestcontext.ActorInfo{ID: id.NewUserID()})

	input := validEvent()
	input.Description = ""
	_, err := svc.Create(ctx, input)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeBadRequest))
	assert.Empty(t, notifier.alerts, "no confirmation for a rejected write")
}

func TestServiceUpdateStatus(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := actorContext(requestcontext.ActorInfo{ID: id.NewUserID(), Email: "org@college.edu"})

	created, err := svc.Create(ctx, validEvent())
	require.NoError(t, err)

	updated, err := svc.UpdateStatus(ctx, created.ID, "requested")
	require.NoError(t, err)
	assert.Equal(t, StatusRequested, updated.Status)

	_, err = svc.UpdateStatus(ctx, created.ID, "completed")
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidTransition))

	_, err = svc.UpdateStatus(ctx, created.ID, "bogus")
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))

	_, err = svc.UpdateStatus(ctx, id.NewEventID(), "requested")
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
}

func TestServiceDelete(t *testing.T) {
	svc, notifier, _ := newTestService(t)
	ctx := actorContext(requestcontext.ActorInfo{ID: id.NewUserID(), Email: "org@college.edu"})

	created, err := svc.Create(ctx, validEvent())
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, created.ID))
	_, err = svc.Get(ctx, created.ID)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
	assert.Contains(t, notifier.alerts[len(notifier.alerts)-1], "Deleted Event")

	err = svc.Delete(ctx, created.ID)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
}

func TestServiceAssignTasks(t *testing.T) {
	svc, notifier, members := newTestService(t)
	ctx := actorContext(requestcontext.ActorInfo{ID: id.NewUserID(), Email: "org@college.edu"})

	created, err := svc.Create(ctx, validEvent())
	require.NoError(t, err)

	alice := membership.Member{ID: id.NewUserID(), Name: "Alice", Email: "alice@college.edu", Department: "CSE"}
	bob := membership.Member{ID: id.NewUserID(), Name: "Bob", Email: "bob@college.edu", Department: "ECE"}
	members.Seed(alice, bob)

	before := len(notifier.alerts)
	tasks, err := svc.AssignTasks(ctx, created.ID, []TaskAssignment{
		{UserID: alice.ID, Task: "manage registrations"},
		{UserID: bob.ID, Task: "stage setup"},
	})
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, "Alice", tasks[0].UserName)
	assert.Len(t, notifier.alerts, before+2, "one alert per assignee")
	assert.Len(t, notifier.notifys[1:], 2)

	byEvent, err := svc.TasksByEvent(ctx, created.ID)
	require.NoError(t, err)
	assert.Len(t, byEvent, 2)

	byUser, err := svc.TasksByUser(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, byUser, 1)
	assert.Equal(t, "manage registrations", byUser[0].Task)
}

func TestServiceAssignTasksUnknownMember(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := actorContext(requestcontext.ActorInfo{ID: id.NewUserID()})

	created, err := svc.Create(ctx, validEvent())
	require.NoError(t, err)

	_, err = svc.AssignTasks(ctx, created.ID, []TaskAssignment{
		{UserID: id.NewUserID(), Task: "anything"},
	})
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeBadRequest))

	_, err = svc.AssignTasks(ctx, created.ID, nil)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeBadRequest))
}

func TestServiceFeedback(t *testing.T) {
	svc, notifier, _ := newTestService(t)
	actor := requestcontext.ActorInfo{ID: id.NewUserID(), Name: "Ravi", Email: "ravi@college.edu"}
	ctx := actorContext(actor)

	created, err := svc.Create(ctx, validEvent())
	require.NoError(t, err)

	saved, err := svc.SubmitFeedback(ctx, created.ID, Feedback{
		Overall: 5, Venue: 4, Coordination: 5, Canteen: 3,
		Suggestion: "more charging points",
	})
	require.NoError(t, err)
	assert.Equal(t, actor.ID, saved.UserID)
	assert.Equal(t, "Ravi", saved.UserName)
	assert.Contains(t, notifier.alerts[len(notifier.alerts)-1], "Feedback received")

	list, err := svc.ListFeedback(ctx, created.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "more charging points", list[0].Suggestion)

	_, err = svc.SubmitFeedback(ctx, created.ID, Feedback{Overall: 6, Venue: 4, Coordination: 4, Canteen: 4})
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeBadRequest))
}
