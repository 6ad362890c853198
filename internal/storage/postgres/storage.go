package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	domainErrors "github.com/polkiloo/userstore/internal/domain/errors"
	"github.com/polkiloo/userstore/internal/domain/model"
	"github.com/polkiloo/userstore/internal/domain/repository"
)

// pgxPool is the subset of *pgxpool.Pool used by Storage.
type pgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	BeginTx(ctx context.Context, opts pgx.TxOptions) (pgx.Tx, error)
	Ping(ctx context.Context) error
	Close()
}

var newPgxPool = func(ctx context.Context, cfg *pgxpool.Config) (pgxPool, error) {
	return pgxpool.NewWithConfig(ctx, cfg)
}

// Storage is the user store backed by PostgreSQL through pgx.
type Storage struct {
	pool   pgxPool
	logger *slog.Logger
}

type userRepository struct {
	storage *Storage
}

// New connects to the database and makes sure the user table exists.
func New(ctx context.Context, dsn string, logger *slog.Logger) (*Storage, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}

	pool, err := newPgxPool(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}

	storage := &Storage{pool: pool, logger: logger}
	if err := storage.initSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return storage, nil
}

// Close releases database resources.
func (s *Storage) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Users returns the user repository.
func (s *Storage) Users() repository.UserRepository {
	return &userRepository{storage: s}
}

func (s *Storage) initSchema(ctx context.Context) error {
	const stmt = `CREATE TABLE IF NOT EXISTS auto_user (
            id SERIAL PRIMARY KEY,
            login TEXT NOT NULL,
            password TEXT NOT NULL
        )`
	if _, err := s.pool.Exec(ctx, stmt); err != nil {
		return fmt.Errorf("init schema: %w", err)
	}
	return nil
}

// WithinTransaction executes fn inside a transaction. The transaction is committed
// when fn succeeds and rolled back when it returns an error or panics.
func (s *Storage) WithinTransaction(ctx context.Context, fn func(pgx.Tx) error) (err error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(ctx)
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback(ctx)
		} else {
			err = tx.Commit(ctx)
		}
	}()

	err = fn(tx)
	return err
}

// HealthCheck verifies database connectivity.
func (s *Storage) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return s.pool.Ping(ctx)
}

func (s *Storage) fail(ctx context.Context, op string, err error) error {
	s.logger.ErrorContext(ctx, "user storage operation failed",
		slog.String("op", op),
		slog.String("error", err.Error()),
	)
	return fmt.Errorf("%s: %w", op, err)
}

// likePattern wraps key into a LIKE pattern matching it as a plain substring.
func likePattern(key string) string {
	escaped := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(key)
	return "%" + escaped + "%"
}

func collectUsers(rows pgx.Rows) ([]model.User, error) {
	defer rows.Close()

	result := make([]model.User, 0)
	for rows.Next() {
		var u model.User
		if err := rows.Scan(&u.ID, &u.Login, &u.Password); err != nil {
			return nil, err
		}
		result = append(result, u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// --- UserRepository implementation ---

func (r *userRepository) Create(ctx context.Context, user model.User) (model.User, error) {
	const query = `INSERT INTO auto_user (login, password) VALUES ($1, $2) RETURNING id`
	var id int64
	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		return tx.QueryRow(ctx, query, user.Login, user.Password).Scan(&id)
	})
	if err != nil {
		return user, r.storage.fail(ctx, "create user", err)
	}
	user.ID = id
	return user, nil
}

func (r *userRepository) Update(ctx context.Context, user model.User) (int64, error) {
	const query = `UPDATE auto_user SET login=$1, password=$2 WHERE id=$3`
	var affected int64
	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, query, user.Login, user.Password, user.ID)
		if err != nil {
			return err
		}
		affected = tag.RowsAffected()
		return nil
	})
	if err != nil {
		return 0, r.storage.fail(ctx, "update user", err)
	}
	return affected, nil
}

func (r *userRepository) Delete(ctx context.Context, id int64) (int64, error) {
	const query = `DELETE FROM auto_user WHERE id=$1`
	var affected int64
	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, query, id)
		if err != nil {
			return err
		}
		affected = tag.RowsAffected()
		return nil
	})
	if err != nil {
		return 0, r.storage.fail(ctx, "delete user", err)
	}
	return affected, nil
}

func (r *userRepository) FindAllOrderByID(ctx context.Context) ([]model.User, error) {
	const query = `SELECT id, login, password FROM auto_user ORDER BY id`
	var users []model.User
	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx, query)
		if err != nil {
			return err
		}
		users, err = collectUsers(rows)
		return err
	})
	if err != nil {
		return nil, r.storage.fail(ctx, "list users", err)
	}
	return users, nil
}

func (r *userRepository) FindByLikeLogin(ctx context.Context, key string) ([]model.User, error) {
	const query = `SELECT id, login, password FROM auto_user WHERE login LIKE $1 ORDER BY id`
	var users []model.User
	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx, query, likePattern(key))
		if err != nil {
			return err
		}
		users, err = collectUsers(rows)
		return err
	})
	if err != nil {
		return nil, r.storage.fail(ctx, "find users by login pattern", err)
	}
	return users, nil
}

func (r *userRepository) FindByID(ctx context.Context, id int64) (*model.User, error) {
	const query = `SELECT id, login, password FROM auto_user WHERE id=$1`
	return r.findOne(ctx, "find user by id", query, id)
}

func (r *userRepository) FindByLogin(ctx context.Context, login string) (*model.User, error) {
	const query = `SELECT id, login, password FROM auto_user WHERE login=$1 ORDER BY id LIMIT 1`
	return r.findOne(ctx, "find user by login", query, login)
}

// findOne commits even when nothing matched; absence is reported as ErrNotFound.
func (r *userRepository) findOne(ctx context.Context, op, query string, arg any) (*model.User, error) {
	var found *model.User
	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		var u model.User
		if err := tx.QueryRow(ctx, query, arg).Scan(&u.ID, &u.Login, &u.Password); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil
			}
			return err
		}
		found = &u
		return nil
	})
	if err != nil {
		return nil, r.storage.fail(ctx, op, err)
	}
	if found == nil {
		return nil, domainErrors.ErrNotFound
	}
	return found, nil
}
