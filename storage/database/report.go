package database

import (
	"sync"

	"github.com/google/uuid"

	"github.com/sekolahku/pembiasaan/core/report"
)

type reportRepository struct {
	store Store
	mu    sync.RWMutex
}

func NewReportRepository(store Store) report.Repository {
	return &reportRepository{store: store}
}

func (repo *reportRepository) load() ([]report.AdminReport, error) {
	var reps []report.AdminReport
	if err := repo.store.ReadAll(ReportCollection, &reps); err != nil {
		return nil, err
	}
	return reps, nil
}

func (repo *reportRepository) save(reps []report.AdminReport) error {
	return repo.store.WriteAll(ReportCollection, reps)
}

func (repo *reportRepository) CreateReport(rep report.AdminReport) (report.AdminReport, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	reps, err := repo.load()
	if err != nil {
		return report.AdminReport{}, err
	}
	if rep.ReportID == "" {
		rep.ReportID = uuid.NewString()
	}
	reps = append(reps, rep)
	if err = repo.save(reps); err != nil {
		return report.AdminReport{}, err
	}
	return rep, nil
}

func (repo *reportRepository) QueryAllReports() ([]report.AdminReport, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()
	return repo.load()
}

func (repo *reportRepository) GetReportByID(id string) (report.AdminReport, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	reps, err := repo.load()
	if err != nil {
		return report.AdminReport{}, err
	}
	for _, rep := range reps {
		if rep.ReportID == id {
			return rep, nil
		}
	}
	return report.AdminReport{}, report.ErrNotFound
}

func (repo *reportRepository) DeleteReportsByID(ids ...string) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	reps, err := repo.load()
	if err != nil {
		return err
	}
	drop := make(map[string]bool, len(ids))
	for _, id := range ids {
		drop[id] = true
	}
	kept := reps[:0]
	for _, rep := range reps {
		if !drop[rep.ReportID] {
			kept = append(kept, rep)
		}
	}
	if len(kept) == len(reps) {
		return nil
	}
	return repo.save(kept)
}
