package repository

import (
	"github.com/AldairAG/PayGlobal/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type BatchRunRepository struct {
	db *gorm.DB
}

func NewBatchRunRepository(db *gorm.DB) *BatchRunRepository {
	return &BatchRunRepository{db: db}
}

// Record upserts the run for (name, run_date); a re-trigger on the same day overwrites the counts.
func (r *BatchRunRepository) Record(run *models.BatchRun) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}, {Name: "run_date"}},
		DoUpdates: clause.AssignmentColumns([]string{"run_id", "processed", "skipped", "failed", "started_at", "finished_at", "updated_at"}),
	}).Create(run).Error
}

func (r *BatchRunRepository) Get(name, runDate string) (*models.BatchRun, error) {
	var run models.BatchRun
	err := r.db.Where("name = ? AND run_date = ?", name, runDate).First(&run).Error
	if err != nil {
		return nil, notFound(err, "%s run on %s", name, runDate)
	}
	return &run, nil
}
