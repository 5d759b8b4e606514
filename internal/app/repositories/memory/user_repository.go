package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/yigit/lms/internal/app/models"
	"github.com/yigit/lms/internal/app/repositories"
	"github.com/yigit/lms/internal/pkg/apperrors"
)

type userRepository struct {
	db *userTable
}

// NewUserRepository creates a user repository over db
func NewUserRepository(db *DB) repositories.IUserRepository {
	return &userRepository{db: db.user}
}

func (repo *userRepository) Create(ctx context.Context, usr *models.User) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	usr.Email = strings.ToLower(usr.Email)
	for _, existing := range repo.db.table {
		if existing.Username == usr.Username {
			return apperrors.ErrUsernameAlreadyExists
		}
		if existing.Email == usr.Email {
			return apperrors.ErrEmailAlreadyExists
		}
	}

	if usr.ID == "" {
		usr.ID = uuid.New().String()
	}
	usr.CreatedAt = time.Now().UTC()
	stored := *usr
	repo.db.table[usr.ID] = &stored
	return nil
}

func (repo *userRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if usr, ok := repo.db.table[id]; ok {
		out := *usr
		return &out, nil
	}
	return nil, apperrors.ErrUserNotFound
}

func (repo *userRepository) find(match func(*models.User) bool) (*models.User, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	for _, usr := range repo.db.table {
		if match(usr) {
			out := *usr
			return &out, nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

func (repo *userRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return repo.find(func(u *models.User) bool { return u.Username == username })
}

func (repo *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	email = strings.ToLower(email)
	return repo.find(func(u *models.User) bool { return u.Email == email })
}

func (repo *userRepository) List(ctx context.Context, role *models.Role) ([]*models.User, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	users := []*models.User{}
	for _, usr := range repo.db.table {
		if role != nil && usr.Role != *role {
			continue
		}
		out := *usr
		users = append(users, &out)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Username < users[j].Username })
	return users, nil
}
