package contacts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/phonebook/internal/common"
	"github.com/dmitrijs2005/phonebook/internal/dbx"
	"github.com/dmitrijs2005/phonebook/internal/server/models"
)

const contactColumns = `id, user_id, name, phone, email, company, job_title, address, birthday,
		 notes, tags, is_favorite, is_important, created_at, updated_at`

// sortColumns whitelists ORDER BY targets; they are interpolated, never bound.
var sortColumns = map[string]string{
	models.SortByName:      "name",
	models.SortByCompany:   "company",
	models.SortByCreatedAt: "created_at",
	models.SortByUpdatedAt: "updated_at",
}

type scanner interface {
	Scan(dest ...any) error
}

// PostgresRepository implements contact storage over a dbx.DBTX.
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func scanContact(s scanner) (*models.Contact, error) {
	c := &models.Contact{}
	err := s.Scan(&c.ID, &c.UserID, &c.Name, &c.Phone, &c.Email, &c.Company, &c.JobTitle,
		&c.Address, &c.Birthday, &c.Notes, &c.Tags, &c.IsFavorite, &c.IsImportant,
		&c.CreatedAt, &c.UpdatedAt)
	return c, err
}

func scanOne(row *sql.Row) (*models.Contact, error) {
	c, err := scanContact(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return c, nil
}

func (r *PostgresRepository) queryMany(ctx context.Context, query string, args ...any) ([]models.Contact, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]models.Contact, 0)
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

func (r *PostgresRepository) Create(ctx context.Context, c *models.Contact) (*models.Contact, error) {
	query :=
		`INSERT INTO contacts (user_id, name, phone, email, company, job_title, address, birthday,
		   notes, tags, is_favorite, is_important)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		 RETURNING ` + contactColumns

	return scanOne(r.db.QueryRowContext(ctx, query,
		c.UserID, c.Name, c.Phone, c.Email, c.Company, c.JobTitle, c.Address, c.Birthday,
		c.Notes, c.Tags, c.IsFavorite, c.IsImportant))
}

// whereClause renders the filter predicates; $1 is always the owner.
func whereClause(userID int64, f models.ContactFilter) (string, []any) {
	conds := []string{"user_id = $1"}
	args := []any{userID}

	add := func(cond string, v any) {
		args = append(args, v)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if f.Search != "" {
		add("name ILIKE $%d", "%"+f.Search+"%")
	}
	if f.IsFavorite != nil {
		add("is_favorite = $%d", *f.IsFavorite)
	}
	if f.IsImportant != nil {
		add("is_important = $%d", *f.IsImportant)
	}
	if f.Company != "" {
		add("company ILIKE $%d", "%"+f.Company+"%")
	}

	return strings.Join(conds, " AND "), args
}

func (r *PostgresRepository) List(ctx context.Context, userID int64, f models.ContactFilter) (*models.ContactPage, error) {
	col, ok := sortColumns[f.SortBy]
	if !ok {
		return nil, common.ValidationError("invalid sortBy")
	}
	order := models.SortAsc
	if f.SortOrder == models.SortDesc {
		order = models.SortDesc
	}

	where, args := whereClause(userID, f)

	page := &models.ContactPage{}
	countQuery := `SELECT COUNT(*) FROM contacts WHERE ` + where
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&page.Total); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	n := len(args)
	query := fmt.Sprintf(`SELECT %s FROM contacts WHERE %s ORDER BY %s %s, id ASC LIMIT $%d OFFSET $%d`,
		contactColumns, where, col, order, n+1, n+2)
	args = append(args, f.Limit, f.Offset())

	data, err := r.queryMany(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	page.Data = data
	return page, nil
}

func (r *PostgresRepository) Get(ctx context.Context, userID, id int64) (*models.Contact, error) {
	query :=
		`SELECT ` + contactColumns + `
		 FROM contacts
		 WHERE id = $1 AND user_id = $2
		 `

	return scanOne(r.db.QueryRowContext(ctx, query, id, userID))
}

func (r *PostgresRepository) Update(ctx context.Context, c *models.Contact) (*models.Contact, error) {
	query :=
		`UPDATE contacts SET
		   name = $3, phone = $4, email = $5, company = $6, job_title = $7, address = $8,
		   birthday = $9, notes = $10, tags = $11, is_favorite = $12, is_important = $13,
		   updated_at = now()
		 WHERE id = $1 AND user_id = $2
		 RETURNING ` + contactColumns

	return scanOne(r.db.QueryRowContext(ctx, query,
		c.ID, c.UserID, c.Name, c.Phone, c.Email, c.Company, c.JobTitle, c.Address,
		c.Birthday, c.Notes, c.Tags, c.IsFavorite, c.IsImportant))
}

func (r *PostgresRepository) ToggleFavorite(ctx context.Context, userID, id int64) (*models.Contact, error) {
	query :=
		`UPDATE contacts SET is_favorite = NOT is_favorite, updated_at = now()
		 WHERE id = $1 AND user_id = $2
		 RETURNING ` + contactColumns

	return scanOne(r.db.QueryRowContext(ctx, query, id, userID))
}

func (r *PostgresRepository) Delete(ctx context.Context, userID, id int64) error {
	query :=
		`DELETE FROM contacts
		 WHERE id = $1 AND user_id = $2
		 `

	res, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *PostgresRepository) BulkDelete(ctx context.Context, userID int64, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	placeholders := make([]string, len(ids))
	args := make([]any, 0, len(ids)+1)
	args = append(args, userID)
	for i, id := range ids {
		placeholders[i] = fmt.Sprintf("$%d", i+2)
		args = append(args, id)
	}

	query := `DELETE FROM contacts WHERE user_id = $1 AND id IN (` + strings.Join(placeholders, ", ") + `)`

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected error: %w", err)
	}
	return n, nil
}

func (r *PostgresRepository) Stats(ctx context.Context, userID int64, since time.Time) (*models.ContactStats, error) {
	query :=
		`SELECT
		   COUNT(*),
		   COUNT(*) FILTER (WHERE is_favorite),
		   COUNT(DISTINCT NULLIF(company, '')),
		   COUNT(*) FILTER (WHERE created_at >= $2)
		 FROM contacts
		 WHERE user_id = $1
		 `

	s := &models.ContactStats{}
	err := r.db.QueryRowContext(ctx, query, userID, since).Scan(&s.Total, &s.Favorites, &s.Companies, &s.Recent)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return s, nil
}

func (r *PostgresRepository) Search(ctx context.Context, userID int64, q string, limit int) ([]models.Contact, error) {
	query :=
		`SELECT ` + contactColumns + `
		 FROM contacts
		 WHERE user_id = $1
		   AND (name ILIKE $2 OR phone ILIKE $2 OR email ILIKE $2 OR company ILIKE $2)
		 ORDER BY name ASC, id ASC
		 LIMIT $3
		 `

	return r.queryMany(ctx, query, userID, "%"+q+"%", limit)
}
