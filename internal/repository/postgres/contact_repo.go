package postgres

import (
	"context"
	"fmt"
	"kohi-api/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

type contactRepo struct {
	db *pgxpool.Pool
}

func NewContactRepository(db *pgxpool.Pool) domain.ContactRepository {
	return &contactRepo{db: db}
}

func (r *contactRepo) Create(ctx context.Context, msg *domain.ContactMessage) error {
	query := `INSERT INTO emails (name, email, message, status, ip, user_agent)
              VALUES ($1, $2, $3, $4, $5, $6)
              RETURNING id, created_at, updated_at`
	return r.db.QueryRow(ctx, query,
		msg.Name, msg.Email, msg.Message, msg.Status, msg.IP, msg.UserAgent,
	).Scan(&msg.ID, &msg.CreatedAt, &msg.UpdatedAt)
}

func (r *contactRepo) MarkSent(ctx context.Context, id int64, providerID string) error {
	query := `UPDATE emails SET status = 'sent', provider_id = NULLIF($2, ''), error = NULL, updated_at = NOW()
              WHERE id = $1 AND status = 'received'`
	return r.transition(ctx, query, id, providerID)
}

func (r *contactRepo) MarkFailed(ctx context.Context, id int64, errText string) error {
	query := `UPDATE emails SET status = 'error', error = $2, updated_at = NOW()
              WHERE id = $1 AND status = 'received'`
	return r.transition(ctx, query, id, errText)
}

func (r *contactRepo) transition(ctx context.Context, query string, id int64, value string) error {
	tag, err := r.db.Exec(ctx, query, id, value)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *contactRepo) List(ctx context.Context, filter domain.ContactListFilter) ([]domain.ContactMessage, int64, error) {
	where := ""
	args := []any{}
	if filter.Status != "" {
		args = append(args, filter.Status)
		where = "WHERE status = $1"
	}

	query := fmt.Sprintf(`SELECT id, name, email, message, status, provider_id, error, ip, user_agent, created_at, updated_at
              FROM emails %s ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d`,
		where, len(args)+1, len(args)+2)

	rows, err := r.db.Query(ctx, query, append(args, filter.Limit, filter.Offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	messages := []domain.ContactMessage{}
	for rows.Next() {
		var m domain.ContactMessage
		if err := rows.Scan(&m.ID, &m.Name, &m.Email, &m.Message, &m.Status, &m.ProviderID, &m.Error,
			&m.IP, &m.UserAgent, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, 0, err
		}
		messages = append(messages, m)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM emails `+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	return messages, total, nil
}
