package domain

import (
	"context"
	"time"
)

// QuestionRepository is the read surface of the content store plus the small
// write surface the seeder and admin operations use.
type QuestionRepository interface {
	// GetCategoryByID retrieves a category, nil when absent.
	GetCategoryByID(ctx context.Context, id string) (*Category, error)

	// GetAllCategories returns every category with its question count.
	GetAllCategories(ctx context.Context) ([]CategoryWithCount, error)

	// GetQuestionIDsByCategory lists the ids the selector samples from.
	GetQuestionIDsByCategory(ctx context.Context, categoryID string) ([]string, error)

	// GetQuestionByID retrieves a question, nil when absent.
	GetQuestionByID(ctx context.Context, id string) (*Question, error)

	// GetChoicesByQuestionID lists a question's choices in stable order.
	GetChoicesByQuestionID(ctx context.Context, questionID string) ([]Choice, error)

	// GetChoiceByID retrieves a choice, nil when absent.
	GetChoiceByID(ctx context.Context, id string) (*Choice, error)

	SaveCategory(ctx context.Context, category *Category) error
	SaveQuestion(ctx context.Context, question *Question) error
	SaveChoice(ctx context.Context, choice *Choice) error

	// SetCorrectChoice marks choiceID correct and clears its siblings inside
	// one transaction, keeping the single-correct invariant.
	SetCorrectChoice(ctx context.Context, questionID, choiceID string) error
}

// AttemptRepository owns the durable Attempt rows.
type AttemptRepository interface {
	CreateAttempt(ctx context.Context, attempt *Attempt) error

	// GetAttemptByID retrieves an attempt, nil when absent.
	GetAttemptByID(ctx context.Context, id string) (*Attempt, error)

	// CompleteAttempt sets completed_at and the final score only if the
	// attempt is still open; it reports whether this call closed it.
	// A false return means the attempt was already completed.
	CompleteAttempt(ctx context.Context, id string, completedAt time.Time, score int) (bool, error)

	// GetAttemptsByActor lists an actor's attempts, newest first.
	GetAttemptsByActor(ctx context.Context, actorID string) ([]Attempt, error)
}

// ResponseRepository owns the durable Response rows.
type ResponseRepository interface {
	// InsertResponseIfAbsent writes the response unless one already exists
	// for its (attempt, question) pair, in which case the existing row is
	// returned. created reports whether a new row was written.
	InsertResponseIfAbsent(ctx context.Context, response *Response) (stored *Response, created bool, err error)

	// GetResponsesByAttempt lists responses in answer order.
	GetResponsesByAttempt(ctx context.Context, attemptID string) ([]Response, error)

	// CountCorrectByAttempt counts the attempt's correct responses.
	CountCorrectByAttempt(ctx context.Context, attemptID string) (int, error)
}

// TransactionManager runs a function inside a database transaction.
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
