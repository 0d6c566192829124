package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"contabil-site/internal/core"
	"contabil-site/internal/features/contact/models"
)

// Field limits of the contact form
const (
	MaxNameLength    = 200
	MaxMessageLength = 5000
	MaxFieldLength   = 200

	// NotificationTemplate is the mailer template used for new contacts
	NotificationTemplate = "contact_notification.tmpl"

	notifyTimeout = 30 * time.Second
)

var (
	ErrContactNotFound = errors.New("contact not found")
	ErrInvalidStatus   = errors.New("invalid contact status")
)

// Notifier delivers templated e-mails
type Notifier interface {
	Send(ctx context.Context, recipient, templateFile string, data any) error
}

// ContactService stores contact submissions and notifies the office
type ContactService struct {
	db        *core.Database
	logger    *core.Logger
	notifier  Notifier
	recipient string
	pending   sync.WaitGroup
	now       func() time.Time
}

// NewContactService creates a new contact service
func NewContactService(db *core.Database, logger *core.Logger, notifier Notifier, recipient string) *ContactService {
	return &ContactService{
		db:        db,
		logger:    logger,
		notifier:  notifier,
		recipient: recipient,
		now:       time.Now,
	}
}

// Validate checks a submission and returns per-field messages
func Validate(in models.ContactCreate) map[string]string {
	fields := make(map[string]string)

	switch {
	case in.Name == "":
		fields["name"] = "name is required"
	case utf8.RuneCountInString(in.Name) > MaxNameLength:
		fields["name"] = fmt.Sprintf("name must have at most %d characters", MaxNameLength)
	}

	if in.Email == "" {
		fields["email"] = "email is required"
	} else if addr, err := mail.ParseAddress(in.Email); err != nil || addr.Address != in.Email {
		fields["email"] = "email is invalid"
	}

	switch {
	case in.Message == "":
		fields["message"] = "message is required"
	case utf8.RuneCountInString(in.Message) > MaxMessageLength:
		fields["message"] = fmt.Sprintf("message must have at most %d characters", MaxMessageLength)
	}

	for name, value := range map[string]string{"phone": in.Phone, "company": in.Company, "service": in.Service} {
		if utf8.RuneCountInString(value) > MaxFieldLength {
			fields[name] = fmt.Sprintf("%s must have at most %d characters", name, MaxFieldLength)
		}
	}

	return fields
}

func normalize(in models.ContactCreate) models.ContactCreate {
	return models.ContactCreate{
		Name:    strings.TrimSpace(in.Name),
		Email:   strings.TrimSpace(in.Email),
		Phone:   strings.TrimSpace(in.Phone),
		Company: strings.TrimSpace(in.Company),
		Service: strings.TrimSpace(in.Service),
		Message: strings.TrimSpace(in.Message),
	}
}

// Submit validates and stores a submission, then notifies the office in
// the background. A failed notification is logged and does not fail the
// submission.
func (s *ContactService) Submit(ctx context.Context, in models.ContactCreate) (*models.Contact, error) {
	in = normalize(in)
	if fields := Validate(in); len(fields) > 0 {
		return nil, core.NewValidationError("invalid contact form", nil).WithDetails(fields)
	}

	now := s.now().UTC()
	contact := &models.Contact{
		Reference: uuid.NewString(),
		Name:      in.Name,
		Email:     in.Email,
		Phone:     in.Phone,
		Company:   in.Company,
		Service:   in.Service,
		Message:   in.Message,
		Status:    models.StatusNew,
		CreatedAt: now,
		UpdatedAt: now,
	}

	query := `
		INSERT INTO contacts (reference, name, email, phone, company, service, message, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id
	`

	err := s.db.QueryRowWithTimeout(ctx, query,
		contact.Reference,
		contact.Name,
		contact.Email,
		contact.Phone,
		contact.Company,
		contact.Service,
		contact.Message,
		contact.Status,
		contact.CreatedAt,
		contact.UpdatedAt,
	).Scan(&contact.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to store contact: %w", err)
	}

	s.logger.Info("Contact received", "id", contact.ID, "reference", contact.Reference, "service", contact.Service)

	s.notify(context.WithoutCancel(ctx), *contact)
	return contact, nil
}

func (s *ContactService) notify(ctx context.Context, contact models.Contact) {
	if s.notifier == nil {
		return
	}

	s.pending.Add(1)
	go func() {
		defer s.pending.Done()

		ctx, cancel := context.WithTimeout(ctx, notifyTimeout)
		defer cancel()

		if err := s.notifier.Send(ctx, s.recipient, NotificationTemplate, contact); err != nil {
			s.logger.Error("Failed to send contact notification", "reference", contact.Reference, "error", err)
		}
	}()
}

// Wait blocks until every pending notification has finished
func (s *ContactService) Wait() {
	s.pending.Wait()
}

const contactColumns = `id, reference, name, email, phone, company, service, message, status, created_at, updated_at`

func scanContact(row interface{ Scan(...any) error }) (*models.Contact, error) {
	var contact models.Contact
	err := row.Scan(
		&contact.ID,
		&contact.Reference,
		&contact.Name,
		&contact.Email,
		&contact.Phone,
		&contact.Company,
		&contact.Service,
		&contact.Message,
		&contact.Status,
		&contact.CreatedAt,
		&contact.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrContactNotFound
		}
		return nil, err
	}
	return &contact, nil
}

// List returns contacts newest first, optionally filtered by status
func (s *ContactService) List(ctx context.Context, status models.Status) ([]*models.Contact, error) {
	query := `SELECT ` + contactColumns + ` FROM contacts`
	var args []any

	if status != "" {
		if !status.Valid() {
			return nil, ErrInvalidStatus
		}
		query += ` WHERE status = ?`
		args = append(args, status)
	}
	query += ` ORDER BY created_at DESC, id DESC`

	rows, err := s.db.QueryWithTimeout(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list contacts: %w", err)
	}
	defer rows.Close()

	contacts := []*models.Contact{}
	for rows.Next() {
		contact, err := scanContact(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan contact: %w", err)
		}
		contacts = append(contacts, contact)
	}

	return contacts, rows.Err()
}

// Get returns a contact by id
func (s *ContactService) Get(ctx context.Context, id int) (*models.Contact, error) {
	query := `SELECT ` + contactColumns + ` FROM contacts WHERE id = ?`
	return scanContact(s.db.QueryRowWithTimeout(ctx, query, id))
}

// UpdateStatus moves a contact to status
func (s *ContactService) UpdateStatus(ctx context.Context, id int, status models.Status) (*models.Contact, error) {
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}

	result, err := s.db.ExecWithTimeout(ctx,
		`UPDATE contacts SET status = ?, updated_at = ? WHERE id = ?`,
		status, s.now().UTC(), id)
	if err != nil {
		return nil, fmt.Errorf("failed to update contact: %w", err)
	}

	if n, err := result.RowsAffected(); err != nil {
		return nil, err
	} else if n == 0 {
		return nil, ErrContactNotFound
	}

	s.logger.Info("Contact status updated", "id", id, "status", status)
	return s.Get(ctx, id)
}

// Delete removes a contact
func (s *ContactService) Delete(ctx context.Context, id int) error {
	result, err := s.db.ExecWithTimeout(ctx, `DELETE FROM contacts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete contact: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrContactNotFound
	}

	s.logger.Info("Contact deleted", "id", id)
	return nil
}

// Stats counts contacts per status
func (s *ContactService) Stats(ctx context.Context) (*models.ContactStats, error) {
	rows, err := s.db.QueryWithTimeout(ctx, `SELECT status, COUNT(*) FROM contacts GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("failed to count contacts: %w", err)
	}
	defer rows.Close()

	stats := &models.ContactStats{ByStatus: make(map[models.Status]int, len(models.Statuses))}
	for _, status := range models.Statuses {
		stats.ByStatus[status] = 0
	}

	for rows.Next() {
		var status models.Status
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		stats.ByStatus[status] = count
		stats.Total += count
	}

	return stats, rows.Err()
}
