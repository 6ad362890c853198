// Package orm implements the user store on top of GORM.
package orm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	domainErrors "github.com/polkiloo/userstore/internal/domain/errors"
	"github.com/polkiloo/userstore/internal/domain/model"
	"github.com/polkiloo/userstore/internal/domain/repository"
)

// userRecord maps model.User onto the auto_user table.
type userRecord struct {
	ID       int64  `gorm:"column:id;primaryKey;autoIncrement"`
	Login    string `gorm:"column:login;not null"`
	Password string `gorm:"column:password;not null"`
}

func (userRecord) TableName() string {
	return "auto_user"
}

func (r userRecord) toModel() model.User {
	return model.User{ID: r.ID, Login: r.Login, Password: r.Password}
}

func toModels(records []userRecord) []model.User {
	users := make([]model.User, 0, len(records))
	for _, r := range records {
		users = append(users, r.toModel())
	}
	return users
}

// Store is the GORM backed user store.
type Store struct {
	db     *gorm.DB
	logger *slog.Logger
}

type userRepository struct {
	store *Store
}

// Open connects through the GORM postgres dialector and migrates the user table.
func Open(ctx context.Context, dsn string, logger *slog.Logger) (*Store, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 gormlogger.Discard,
	})
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}

	store := NewStore(db, logger)
	if err := db.WithContext(ctx).AutoMigrate(&userRecord{}); err != nil {
		store.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return store, nil
}

// NewStore wraps an already opened *gorm.DB.
func NewStore(db *gorm.DB, logger *slog.Logger) *Store {
	return &Store{db: db, logger: logger}
}

// Close releases the underlying connection pool.
func (s *Store) Close() {
	if s.db == nil {
		return
	}
	if sqlDB, err := s.db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

// Users returns the user repository.
func (s *Store) Users() repository.UserRepository {
	return &userRepository{store: s}
}

// HealthCheck verifies database connectivity.
func (s *Store) HealthCheck(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return sqlDB.PingContext(ctx)
}

// transaction runs fn in its own transaction; GORM rolls back on error or panic.
func (s *Store) transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return s.db.WithContext(ctx).Transaction(fn)
}

func (s *Store) fail(ctx context.Context, op string, err error) error {
	s.logger.ErrorContext(ctx, "user storage operation failed",
		slog.String("op", op),
		slog.String("error", err.Error()),
	)
	return fmt.Errorf("%s: %w", op, err)
}

func likePattern(key string) string {
	escaped := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(key)
	return "%" + escaped + "%"
}

func (r *userRepository) Create(ctx context.Context, user model.User) (model.User, error) {
	rec := userRecord{Login: user.Login, Password: user.Password}
	err := r.store.transaction(ctx, func(tx *gorm.DB) error {
		return tx.Create(&rec).Error
	})
	if err != nil {
		return user, r.store.fail(ctx, "create user", err)
	}
	user.ID = rec.ID
	return user, nil
}

func (r *userRepository) Update(ctx context.Context, user model.User) (int64, error) {
	var affected int64
	err := r.store.transaction(ctx, func(tx *gorm.DB) error {
		res := tx.Model(&userRecord{}).
			Where("id = ?", user.ID).
			Updates(map[string]any{"login": user.Login, "password": user.Password})
		affected = res.RowsAffected
		return res.Error
	})
	if err != nil {
		return 0, r.store.fail(ctx, "update user", err)
	}
	return affected, nil
}

func (r *userRepository) Delete(ctx context.Context, id int64) (int64, error) {
	var affected int64
	err := r.store.transaction(ctx, func(tx *gorm.DB) error {
		res := tx.Where("id = ?", id).Delete(&userRecord{})
		affected = res.RowsAffected
		return res.Error
	})
	if err != nil {
		return 0, r.store.fail(ctx, "delete user", err)
	}
	return affected, nil
}

func (r *userRepository) FindAllOrderByID(ctx context.Context) ([]model.User, error) {
	var records []userRecord
	err := r.store.transaction(ctx, func(tx *gorm.DB) error {
		return tx.Order("id").Find(&records).Error
	})
	if err != nil {
		return nil, r.store.fail(ctx, "list users", err)
	}
	return toModels(records), nil
}

func (r *userRepository) FindByLikeLogin(ctx context.Context, key string) ([]model.User, error) {
	var records []userRecord
	err := r.store.transaction(ctx, func(tx *gorm.DB) error {
		return tx.Where("login LIKE ?", likePattern(key)).Order("id").Find(&records).Error
	})
	if err != nil {
		return nil, r.store.fail(ctx, "find users by login pattern", err)
	}
	return toModels(records), nil
}

func (r *userRepository) FindByID(ctx context.Context, id int64) (*model.User, error) {
	return r.findOne(ctx, "find user by id", func(tx *gorm.DB) *gorm.DB {
		return tx.Where("id = ?", id)
	})
}

func (r *userRepository) FindByLogin(ctx context.Context, login string) (*model.User, error) {
	return r.findOne(ctx, "find user by login", func(tx *gorm.DB) *gorm.DB {
		return tx.Where("login = ?", login).Order("id")
	})
}

func (r *userRepository) findOne(ctx context.Context, op string, scope func(*gorm.DB) *gorm.DB) (*model.User, error) {
	var found *model.User
	err := r.store.transaction(ctx, func(tx *gorm.DB) error {
		var rec userRecord
		if err := scope(tx).Take(&rec).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}
		u := rec.toModel()
		found = &u
		return nil
	})
	if err != nil {
		return nil, r.store.fail(ctx, op, err)
	}
	if found == nil {
		return nil, domainErrors.ErrNotFound
	}
	return found, nil
}
