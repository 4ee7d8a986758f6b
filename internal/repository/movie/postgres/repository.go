package postgres

import (
	"context"
	"errors"
	"log/slog"

	"gorm.io/gorm"

	"github.com/sharetube/watchparty/internal/repository/movie"
)

type repo struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepo(db *gorm.DB, logger *slog.Logger) *repo {
	return &repo{
		db:     db,
		logger: logger,
	}
}

func (r repo) Migrate(ctx context.Context) error {
	return r.db.WithContext(ctx).AutoMigrate(&movie.Movie{})
}

func (r repo) MovieExists(ctx context.Context, movieID string) (bool, error) {
	r.logger.DebugContext(ctx, "called", "params", map[string]any{
		"movie_id": movieID,
	})

	var count int64
	if err := r.db.WithContext(ctx).Model(&movie.Movie{}).Where("id = ?", movieID).Count(&count).Error; err != nil {
		r.logger.DebugContext(ctx, "returned", "error", err)
		return false, err
	}

	return count > 0, nil
}

func (r repo) CreateMovie(ctx context.Context, params *movie.CreateMovieParams) error {
	r.logger.DebugContext(ctx, "called", "params", params)
	m := movie.Movie{
		ID:              params.MovieID,
		Title:           params.Title,
		DurationSeconds: params.DurationSeconds,
	}

	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			err = movie.ErrMovieAlreadyExists
		}
		r.logger.DebugContext(ctx, "returned", "error", err)
		return err
	}

	return nil
}
