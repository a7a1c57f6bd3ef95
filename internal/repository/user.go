package repository

import (
	"context"
	"errors"

	"github.com/yusunghyun/Kkondeokji-Capstone-v0-sub000/internal/database"
	"github.com/yusunghyun/Kkondeokji-Capstone-v0-sub000/internal/model"
)

// UserRepository handles user profile data access
type UserRepository struct {
	db database.Database
}

// NewUserRepository creates a new user repository
func NewUserRepository(db database.Database) *UserRepository {
	return &UserRepository{db: db}
}

// Create creates a new user profile
func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	query := `
		CREATE user CONTENT {
			name: $name,
			age: $age,
			occupation: $occupation,
			created_on: time::now()
		}
	`

	vars := map[string]interface{}{
		"name":       user.Name,
		"age":        user.Age,
		"occupation": user.Occupation,
	}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return err
	}

	created, err := extractCreatedRecord(result)
	if err != nil {
		return err
	}

	user.ID = created.ID
	user.CreatedOn = created.CreatedOn
	return nil
}

// GetByID retrieves a user by ID. Returns nil without error when the user
// does not exist.
func (r *UserRepository) GetByID(ctx context.Context, id string) (*model.User, error) {
	query := `SELECT * FROM type::record($id)`
	vars := map[string]interface{}{"id": id}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	user, err := parseUserResult(result)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return user, nil
}

func parseUserResult(result interface{}) (*model.User, error) {
	if result == nil {
		return nil, database.ErrNotFound
	}

	if arr, ok := result.([]interface{}); ok {
		if len(arr) == 0 {
			return nil, database.ErrNotFound
		}
		result = arr[0]
	}

	data, ok := result.(map[string]interface{})
	if !ok {
		return nil, errors.New("unexpected result format")
	}

	user := &model.User{
		ID:         convertSurrealID(data["id"]),
		Name:       getString(data, "name"),
		Age:        getInt(data, "age"),
		Occupation: getString(data, "occupation"),
	}

	if t := getTime(data, "created_on"); t != nil {
		user.CreatedOn = *t
	}

	return user, nil
}
