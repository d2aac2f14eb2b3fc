package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"identity-facade/app/domain"
)

// InvitationRepository reads invite codes from PostgreSQL
type InvitationRepository struct {
	db      DatabaseIface
	query   string
	timeout time.Duration
	logger  *slog.Logger
}

// NewInvitationRepository creates a repository over table, which may be
// schema-qualified ("schema.table").
func NewInvitationRepository(db DatabaseIface, table string, timeout time.Duration, logger *slog.Logger) *InvitationRepository {
	ident := pgx.Identifier(strings.Split(table, "."))
	return &InvitationRepository{
		db: db,
		query: fmt.Sprintf(`
		SELECT code, username, data, created_at, expires_at
		FROM %s
		WHERE code = $1`, ident.Sanitize()),
		timeout: timeout,
		logger:  logger.With("component", "invitation_repository"),
	}
}

// FindByCode returns the invitation with code, or nil, nil when there is none
func (r *InvitationRepository) FindByCode(ctx context.Context, code string) (*domain.Invitation, error) {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	var (
		invitation domain.Invitation
		username   *string
		data       *string
	)

	err := r.db.QueryRow(ctx, r.query, code).Scan(
		&invitation.Code,
		&username,
		&data,
		&invitation.CreatedAt,
		&invitation.ExpiresAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.DebugContext(ctx, "invitation not found")
			return nil, nil
		}
		r.logger.ErrorContext(ctx, "failed to query invitation", "error", err)
		return nil, fmt.Errorf("failed to query invitation: %w", err)
	}

	if username != nil {
		invitation.Username = *username
	}
	if data != nil {
		invitation.Data = *data
	}

	return &invitation, nil
}
