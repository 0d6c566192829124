package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"contabil-site/internal/core"
	"contabil-site/internal/features/contact/migrations"
	"contabil-site/internal/features/contact/models"
)

type recordingNotifier struct {
	mu    sync.Mutex
	sent  []models.Contact
	to    []string
	err   error
	calls int
}

func (n *recordingNotifier) Send(ctx context.Context, recipient, templateFile string, data any) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.calls++
	if templateFile != NotificationTemplate {
		return errors.New("unexpected template " + templateFile)
	}
	n.to = append(n.to, recipient)
	n.sent = append(n.sent, data.(models.Contact))
	return n.err
}

func newTestService(t *testing.T, notifier Notifier) *ContactService {
	t.Helper()

	logger := core.NewDiscardLogger()
	db, err := core.OpenSQLite(":memory:", logger)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, migrations.NewManager(db, logger).Migrate(context.Background()))

	return NewContactService(db, logger, notifier, "contato@contabiligrejinha.com.br")
}

func validForm() models.ContactCreate {
	return models.ContactCreate{
		Name:    "  Ana Souza ",
		Email:   "ana@example.com",
		Phone:   "(51) 99999-0000",
		Service: "Abertura de Empresa",
		Message: "Quero abrir uma empresa.",
	}
}

func TestSubmitStoresAndNotifies(t *testing.T) {
	notifier := &recordingNotifier{}
	service := newTestService(t, notifier)
	ctx := context.Background()

	contact, err := service.Submit(ctx, validForm())
	require.NoError(t, err)
	service.Wait()

	assert.Positive(t, contact.ID)
	assert.Equal(t, "Ana Souza", contact.Name)
	assert.Equal(t, models.StatusNew, contact.Status)
	_, err = uuid.Parse(contact.Reference)
	assert.NoError(t, err)

	require.Len(t, notifier.sent, 1)
	assert.Equal(t, []string{"contato@contabiligrejinha.com.br"}, notifier.to)
	assert.Equal(t, contact.Reference, notifier.sent[0].Reference)

	stored, err := service.Get(ctx, contact.ID)
	require.NoError(t, err)
	assert.Equal(t, contact.Reference, stored.Reference)
	assert.Equal(t, "(51) 99999-0000", stored.Phone)
	assert.WithinDuration(t, contact.CreatedAt, stored.CreatedAt, time.Second)
}

func TestSubmitSurvivesNotificationFailure(t *testing.T) {
	notifier := &recordingNotifier{err: errors.New("smtp down")}
	service := newTestService(t, notifier)

	contact, err := service.Submit(context.Background(), validForm())
	require.NoError(t, err)
	service.Wait()

	assert.Equal(t, 1, notifier.calls)
	_, err = service.Get(context.Background(), contact.ID)
	assert.NoError(t, err)
}

func TestSubmitWithoutNotifier(t *testing.T) {
	service := newTestService(t, nil)

	_, err := service.Submit(context.Background(), validForm())
	assert.NoError(t, err)
	service.Wait()
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*models.ContactCreate)
		field  string
	}{
		{"missing name", func(c *models.ContactCreate) { c.Name = "" }, "name"},
		{"long name", func(c *models.ContactCreate) { c.Name = strings.Repeat("a", MaxNameLength+1) }, "name"},
		{"missing email", func(c *models.ContactCreate) { c.Email = "" }, "email"},
		{"invalid email", func(c *models.ContactCreate) { c.Email = "ana@" }, "email"},
		{"display name email", func(c *models.ContactCreate) { c.Email = "Ana <ana@example.com>" }, "email"},
		{"missing message", func(c *models.ContactCreate) { c.Message = "" }, "message"},
		{"long message", func(c *models.ContactCreate) { c.Message = strings.Repeat("é", MaxMessageLength+1) }, "message"},
		{"long company", func(c *models.ContactCreate) { c.Company = strings.Repeat("x", MaxFieldLength+1) }, "company"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := normalize(validForm())
			tt.mutate(&form)
			fields := Validate(form)
			assert.Contains(t, fields, tt.field)
			assert.Len(t, fields, 1)
		})
	}

	assert.Empty(t, Validate(normalize(validForm())))

	exact := normalize(validForm())
	exact.Message = strings.Repeat("é", MaxMessageLength)
	assert.Empty(t, Validate(exact))
}

func TestSubmitRejectsInvalidForm(t *testing.T) {
	notifier := &recordingNotifier{}
	service := newTestService(t, notifier)

	_, err := service.Submit(context.Background(), models.ContactCreate{Name: "  ", Email: "x"})
	var appErr *core.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, core.ErrCodeValidation, appErr.Code)
	assert.Contains(t, appErr.Details, "name")
	assert.Contains(t, appErr.Details, "email")
	assert.Contains(t, appErr.Details, "message")

	service.Wait()
	assert.Zero(t, notifier.calls)
}

func TestStatusWorkflow(t *testing.T) {
	service := newTestService(t, nil)
	ctx := context.Background()

	base := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	var ids []int
	for i := 0; i < 3; i++ {
		at := base.Add(time.Duration(i) * time.Hour)
		service.now = func() time.Time { return at }
		contact, err := service.Submit(ctx, validForm())
		require.NoError(t, err)
		ids = append(ids, contact.ID)
	}

	all, err := service.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, ids[2], all[0].ID, "newest first")

	updated, err := service.UpdateStatus(ctx, ids[0], models.StatusAnswered)
	require.NoError(t, err)
	assert.Equal(t, models.StatusAnswered, updated.Status)

	answered, err := service.List(ctx, models.StatusAnswered)
	require.NoError(t, err)
	require.Len(t, answered, 1)
	assert.Equal(t, ids[0], answered[0].ID)

	_, err = service.List(ctx, "spam")
	assert.ErrorIs(t, err, ErrInvalidStatus)

	_, err = service.UpdateStatus(ctx, ids[0], "spam")
	assert.ErrorIs(t, err, ErrInvalidStatus)

	_, err = service.UpdateStatus(ctx, 999, models.StatusRead)
	assert.ErrorIs(t, err, ErrContactNotFound)

	stats, err := service.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 2, stats.ByStatus[models.StatusNew])
	assert.Equal(t, 1, stats.ByStatus[models.StatusAnswered])
	assert.Equal(t, 0, stats.ByStatus[models.StatusArchived])

	require.NoError(t, service.Delete(ctx, ids[1]))
	assert.ErrorIs(t, service.Delete(ctx, ids[1]), ErrContactNotFound)

	_, err = service.Get(ctx, ids[1])
	assert.ErrorIs(t, err, ErrContactNotFound)
}
