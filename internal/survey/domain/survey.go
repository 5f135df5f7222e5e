package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrSurveyNotFound    = errors.New("survey not found")
	ErrInvalidTransition = errors.New("invalid survey status transition")
	// ErrSurveyConflict は読み込み後に別リクエストがステータスを変えた場合に返る。
	ErrSurveyConflict = errors.New("survey was changed by another request")
)

// Status is the lifecycle state of a stored survey.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusPublished Status = "published"
	StatusClosed    Status = "closed"
)

func NewStatus(value string) (Status, error) {
	switch Status(strings.TrimSpace(value)) {
	case StatusDraft:
		return StatusDraft, nil
	case StatusPublished:
		return StatusPublished, nil
	case StatusClosed:
		return StatusClosed, nil
	}
	return "", fmt.Errorf("invalid survey status: %q", value)
}

func (s Status) String() string {
	return string(s)
}

// Survey represents a survey definition submitted from the builder.
type Survey struct {
	ID          string
	CreatorID   string
	Name        string
	Description string
	Status      Status
	Questions   []Question
	Deleted     bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Question is a stored question. Position is 1-based.
type Question struct {
	Position int
	Text     string
	Type     string
	Options  []Option
}

// Option is a stored answer choice. Position is 1-based within its question.
type Option struct {
	Position int
	Text     string
}

// Publish moves a draft to published.
func (s *Survey) Publish(now time.Time) error {
	if s.Status != StatusDraft {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, s.Status, StatusPublished)
	}
	s.Status = StatusPublished
	s.UpdatedAt = now
	return nil
}

// Close は公開中のアンケートの受付を終了する。
func (s *Survey) Close(now time.Time) error {
	if s.Status != StatusPublished {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, s.Status, StatusClosed)
	}
	s.Status = StatusClosed
	s.UpdatedAt = now
	return nil
}

// Revise replaces the definition in place. Closed surveys are read-only.
func (s *Survey) Revise(name, description string, status Status, questions []Question, now time.Time) error {
	if s.Status == StatusClosed {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, s.Status, status)
	}
	if status != StatusDraft && status != StatusPublished {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, s.Status, status)
	}
	s.Name = name
	s.Description = description
	s.Status = status
	s.Questions = questions
	s.UpdatedAt = now
	return nil
}

// Delete は下書きのみ論理削除する。
func (s *Survey) Delete(now time.Time) error {
	if s.Status != StatusDraft {
		return fmt.Errorf("%w: only drafts can be deleted, status is %s", ErrInvalidTransition, s.Status)
	}
	s.Deleted = true
	s.UpdatedAt = now
	return nil
}
