// Package memory provides map-backed repositories for tests and the "memory" database driver.
package memory

import (
	"sync"

	"github.com/yigit/lms/internal/app/models"
	"github.com/yigit/lms/internal/app/repositories"
)

type courseTable struct {
	mutex sync.RWMutex
	table map[string]*models.Course
}

type userTable struct {
	mutex sync.RWMutex
	table map[string]*models.User
}

// DB groups the in-memory tables
type DB struct {
	course *courseTable
	user   *userTable
}

// NewDB creates an empty in-memory database
func NewDB() *DB {
	return &DB{
		course: &courseTable{table: make(map[string]*models.Course)},
		user:   &userTable{table: make(map[string]*models.User)},
	}
}

// NewRepositories wires every in-memory repository onto a fresh DB
func NewRepositories() *repositories.Repositories {
	db := NewDB()
	return &repositories.Repositories{
		CourseRepository: NewCourseRepository(db),
		UserRepository:   NewUserRepository(db),
	}
}
