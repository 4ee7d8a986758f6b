package movie

import (
	"errors"
	"time"
)

var (
	ErrMovieAlreadyExists = errors.New("movie already exists")
)

type Movie struct {
	ID              string `gorm:"primaryKey;type:varchar(64)"`
	Title           string `gorm:"type:text;not null"`
	DurationSeconds int    `gorm:"not null;default:0"`
	CreatedAt       time.Time
}

type CreateMovieParams struct {
	MovieID         string
	Title           string
	DurationSeconds int
}
