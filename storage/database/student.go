package database

import (
	"sync"

	"github.com/google/uuid"

	"github.com/sekolahku/pembiasaan/core/student"
)

type studentRepository struct {
	store Store
	mu    sync.RWMutex
}

func NewStudentRepository(store Store) student.Repository {
	return &studentRepository{store: store}
}

func (repo *studentRepository) load() ([]student.Student, error) {
	var stds []student.Student
	if err := repo.store.ReadAll(StudentCollection, &stds); err != nil {
		return nil, err
	}
	return stds, nil
}

func (repo *studentRepository) save(stds []student.Student) error {
	return repo.store.WriteAll(StudentCollection, stds)
}

func (repo *studentRepository) CreateStudent(std student.Student) (student.Student, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	stds, err := repo.load()
	if err != nil {
		return student.Student{}, err
	}
	if std.ID == "" {
		std.ID = uuid.NewString()
	}
	stds = append(stds, std)
	if err = repo.save(stds); err != nil {
		return student.Student{}, err
	}
	return std, nil
}

func (repo *studentRepository) CreateStudents(batch []student.Student) ([]student.Student, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	stds, err := repo.load()
	if err != nil {
		return nil, err
	}
	created := make([]student.Student, 0, len(batch))
	for _, std := range batch {
		if std.ID == "" {
			std.ID = uuid.NewString()
		}
		stds = append(stds, std)
		created = append(created, std)
	}
	if err = repo.save(stds); err != nil {
		return nil, err
	}
	return created, nil
}

func (repo *studentRepository) QueryAllStudents() ([]student.Student, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()
	return repo.load()
}

func (repo *studentRepository) QueryStudentsByTeacherID(teacherIDs ...string) ([]student.Student, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	stds, err := repo.load()
	if err != nil {
		return nil, err
	}
	owned := make(map[string]bool, len(teacherIDs))
	for _, id := range teacherIDs {
		owned[id] = true
	}
	res := make([]student.Student, 0, len(stds))
	for _, std := range stds {
		if owned[std.TeacherID] {
			res = append(res, std)
		}
	}
	return res, nil
}

func (repo *studentRepository) GetStudentByID(id string) (student.Student, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	stds, err := repo.load()
	if err != nil {
		return student.Student{}, err
	}
	for _, std := range stds {
		if std.ID == id {
			return std, nil
		}
	}
	return student.Student{}, student.ErrNotFound
}

func (repo *studentRepository) UpdateStudent(std student.Student) (student.Student, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	stds, err := repo.load()
	if err != nil {
		return student.Student{}, err
	}
	for i := range stds {
		if stds[i].ID == std.ID {
			stds[i] = std
			if err = repo.save(stds); err != nil {
				return student.Student{}, err
			}
			return std, nil
		}
	}
	return student.Student{}, student.ErrNotFound
}

func (repo *studentRepository) DeleteStudentsByID(ids ...string) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	stds, err := repo.load()
	if err != nil {
		return err
	}
	drop := make(map[string]bool, len(ids))
	for _, id := range ids {
		drop[id] = true
	}
	kept := stds[:0]
	for _, std := range stds {
		if !drop[std.ID] {
			kept = append(kept, std)
		}
	}
	if len(kept) == len(stds) {
		return nil
	}
	return repo.save(kept)
}
