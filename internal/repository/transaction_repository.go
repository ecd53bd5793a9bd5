package repository

import (
	"context"
	"errors"
	"time"

	"fintrack/internal/models"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

var ErrNotFound = errors.New("not found")

const transactionColumns = "id, user_id, type, category, amount, description, date, created_at, updated_at"

// TransactionFilter narrows List queries. From/To are inclusive; zero Type or
// Category means no filter on that field.
type TransactionFilter struct {
	From     time.Time
	To       time.Time
	Limit    int
	Offset   int
	Search   string
	Type     string
	Category string
}

// CategorySum is one row of a per-category aggregation.
type CategorySum struct {
	Category string
	Total    float64
	Count    int64
}

// TransactionRepository is the only component that builds SQL against the
// transactions table. Every method takes the owning user's ID and every query
// starts from a user-scoped base, so an unscoped read or write cannot slip
// through.
type TransactionRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewTransactionRepository(db *pgxpool.Pool, logger *zap.Logger) *TransactionRepository {
	return &TransactionRepository{
		db:     db,
		logger: logger,
	}
}

// scoped returns a select over the user's own rows in [from, to].
func scoped(userID uuid.UUID, from, to time.Time) squirrel.SelectBuilder {
	return squirrel.Select().
		From("transactions").
		Where(squirrel.Eq{"user_id": userID}).
		Where(squirrel.GtOrEq{"date": from}).
		Where(squirrel.LtOrEq{"date": to}).
		PlaceholderFormat(squirrel.Dollar)
}

func (r *TransactionRepository) Create(ctx context.Context, tx *models.Transaction) error {
	query := squirrel.Insert("transactions").
		Columns("id", "user_id", "type", "category", "amount", "description", "date", "created_at", "updated_at").
		Values(tx.ID, tx.UserID, tx.Type, tx.Category, tx.Amount, tx.Description, tx.Date, tx.CreatedAt, tx.UpdatedAt).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	return err
}

func (r *TransactionRepository) GetByID(ctx context.Context, userID, id uuid.UUID) (*models.Transaction, error) {
	query := squirrel.Select(transactionColumns).
		From("transactions").
		Where(squirrel.Eq{"id": id, "user_id": userID}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	var tx models.Transaction
	err = r.db.QueryRow(ctx, sql, args...).Scan(
		&tx.ID, &tx.UserID, &tx.Type, &tx.Category, &tx.Amount, &tx.Description, &tx.Date, &tx.CreatedAt, &tx.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return &tx, nil
}

// Update applies the given column values to the user's own row and returns
// the updated record. A cross-user id matches zero rows and yields ErrNotFound.
func (r *TransactionRepository) Update(ctx context.Context, userID, id uuid.UUID, fields map[string]interface{}) (*models.Transaction, error) {
	query := squirrel.Update("transactions").
		SetMap(fields).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"id": id, "user_id": userID}).
		Suffix("RETURNING " + transactionColumns).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	var tx models.Transaction
	err = r.db.QueryRow(ctx, sql, args...).Scan(
		&tx.ID, &tx.UserID, &tx.Type, &tx.Category, &tx.Amount, &tx.Description, &tx.Date, &tx.CreatedAt, &tx.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return &tx, nil
}

// Delete removes the user's own row and returns the number of rows removed.
// Deleting another user's transaction matches zero rows: a silent no-op that
// leaks nothing about other users' data.
func (r *TransactionRepository) Delete(ctx context.Context, userID, id uuid.UUID) (int64, error) {
	query := squirrel.Delete("transactions").
		Where(squirrel.Eq{"id": id, "user_id": userID}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return 0, err
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return 0, err
	}

	return tag.RowsAffected(), nil
}

func applyFilter(query squirrel.SelectBuilder, filter TransactionFilter) squirrel.SelectBuilder {
	if filter.Type != "" {
		query = query.Where(squirrel.Eq{"type": filter.Type})
	}
	if filter.Category != "" {
		query = query.Where(squirrel.Eq{"category": filter.Category})
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where(squirrel.Or{
			squirrel.ILike{"description": pattern},
			squirrel.ILike{"category": pattern},
		})
	}
	return query
}

// List returns the user's transactions matching the filter, newest first,
// along with the total matching count.
func (r *TransactionRepository) List(ctx context.Context, userID uuid.UUID, filter TransactionFilter) ([]*models.Transaction, int64, error) {
	query := applyFilter(scoped(userID, filter.From, filter.To), filter).
		Columns(transactionColumns).
		OrderBy("date DESC").
		Limit(uint64(filter.Limit)).
		Offset(uint64(filter.Offset))

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var transactions []*models.Transaction
	for rows.Next() {
		var tx models.Transaction
		if err := rows.Scan(
			&tx.ID, &tx.UserID, &tx.Type, &tx.Category, &tx.Amount, &tx.Description, &tx.Date, &tx.CreatedAt, &tx.UpdatedAt,
		); err != nil {
			return nil, 0, err
		}
		transactions = append(transactions, &tx)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	countQuery := applyFilter(scoped(userID, filter.From, filter.To), filter).
		Columns("COUNT(*)")

	sql, args, err = countQuery.ToSql()
	if err != nil {
		return nil, 0, err
	}

	var totalCount int64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&totalCount); err != nil {
		return nil, 0, err
	}

	return transactions, totalCount, nil
}

// ListRange returns every transaction of the user in [from, to], oldest
// first. Report aggregations re-scan these rows on every call.
func (r *TransactionRepository) ListRange(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]*models.Transaction, error) {
	query := scoped(userID, from, to).
		Columns(transactionColumns).
		OrderBy("date ASC")

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var transactions []*models.Transaction
	for rows.Next() {
		var tx models.Transaction
		if err := rows.Scan(
			&tx.ID, &tx.UserID, &tx.Type, &tx.Category, &tx.Amount, &tx.Description, &tx.Date, &tx.CreatedAt, &tx.UpdatedAt,
		); err != nil {
			return nil, err
		}
		transactions = append(transactions, &tx)
	}

	return transactions, rows.Err()
}

// SumByCategory groups the user's transactions of one type by category.
func (r *TransactionRepository) SumByCategory(ctx context.Context, userID uuid.UUID, from, to time.Time, txType models.TransactionType) ([]CategorySum, error) {
	query := scoped(userID, from, to).
		Columns("category", "SUM(amount)", "COUNT(*)").
		Where(squirrel.Eq{"type": txType}).
		GroupBy("category").
		OrderBy("SUM(amount) DESC")

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sums []CategorySum
	for rows.Next() {
		var s CategorySum
		if err := rows.Scan(&s.Category, &s.Total, &s.Count); err != nil {
			return nil, err
		}
		sums = append(sums, s)
	}

	return sums, rows.Err()
}

// ListCategories returns the distinct non-empty categories the user has used
// in [from, to], ascending.
func (r *TransactionRepository) ListCategories(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]string, error) {
	query := scoped(userID, from, to).
		Columns("DISTINCT category").
		Where(squirrel.NotEq{"category": ""}).
		OrderBy("category ASC")

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}

	return categories, rows.Err()
}
