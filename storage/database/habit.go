package database

import (
	"sync"

	"github.com/google/uuid"

	"github.com/sekolahku/pembiasaan/core/habit"
)

type habitRepository struct {
	store Store
	mu    sync.RWMutex
}

func NewHabitRepository(store Store) habit.Repository {
	return &habitRepository{store: store}
}

func (repo *habitRepository) load() ([]habit.Record, error) {
	var recs []habit.Record
	if err := repo.store.ReadAll(HabitRecordCollection, &recs); err != nil {
		return nil, err
	}
	return recs, nil
}

func (repo *habitRepository) save(recs []habit.Record) error {
	return repo.store.WriteAll(HabitRecordCollection, recs)
}

// UpsertRecord replaces the ratings of the record keyed by (StudentID, Date)
// in place, or appends a new record. Never duplicates the pair.
func (repo *habitRepository) UpsertRecord(rec habit.Record) (habit.Record, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	recs, err := repo.load()
	if err != nil {
		return habit.Record{}, err
	}
	for i := range recs {
		if recs[i].StudentID == rec.StudentID && recs[i].Date == rec.Date {
			recs[i].Ratings = rec.Ratings
			if err = repo.save(recs); err != nil {
				return habit.Record{}, err
			}
			return recs[i], nil
		}
	}

	rec.ID = uuid.NewString()
	recs = append(recs, rec)
	if err = repo.save(recs); err != nil {
		return habit.Record{}, err
	}
	return rec, nil
}

func (repo *habitRepository) QueryAllRecords() ([]habit.Record, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()
	return repo.load()
}

func (repo *habitRepository) QueryRecordsByStudentID(studentIDs ...string) ([]habit.Record, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	recs, err := repo.load()
	if err != nil {
		return nil, err
	}
	owned := make(map[string]bool, len(studentIDs))
	for _, id := range studentIDs {
		owned[id] = true
	}
	res := make([]habit.Record, 0, len(recs))
	for _, rec := range recs {
		if owned[rec.StudentID] {
			res = append(res, rec)
		}
	}
	return res, nil
}

func (repo *habitRepository) GetRecordByStudentDate(studentID, date string) (habit.Record, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	recs, err := repo.load()
	if err != nil {
		return habit.Record{}, err
	}
	for _, rec := range recs {
		if rec.StudentID == studentID && rec.Date == date {
			return rec, nil
		}
	}
	return habit.Record{}, habit.ErrNotFound
}

func (repo *habitRepository) DeleteRecordsByStudentID(studentIDs ...string) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	recs, err := repo.load()
	if err != nil {
		return err
	}
	drop := make(map[string]bool, len(studentIDs))
	for _, id := range studentIDs {
		drop[id] = true
	}
	kept := recs[:0]
	for _, rec := range recs {
		if !drop[rec.StudentID] {
			kept = append(kept, rec)
		}
	}
	if len(kept) == len(recs) {
		return nil
	}
	return repo.save(kept)
}
