package service

import (
	"log/slog"

	"github.com/jengzang/photomap-backend-go/internal/dataset"
	"github.com/jengzang/photomap-backend-go/internal/models"
	"github.com/jengzang/photomap-backend-go/internal/repository"
)

// DatasetService loads the records the viewer is built on
type DatasetService struct {
	loader *dataset.Loader
	repo   *repository.CatalogRepository
	logger *slog.Logger
}

// NewDatasetService creates a dataset service. repo may be nil, in which
// case records come straight from the JSON index.
func NewDatasetService(loader *dataset.Loader, repo *repository.CatalogRepository, logger *slog.Logger) *DatasetService {
	if logger == nil {
		logger = slog.Default()
	}
	return &DatasetService{loader: loader, repo: repo, logger: logger}
}

// Load returns the dataset. It never fails: any problem is logged and an
// empty dataset is returned instead.
func (s *DatasetService) Load(indexPath string) *models.Dataset {
	if s.repo == nil {
		return s.loader.LoadOrEmpty(indexPath)
	}

	total, err := s.repo.Count()
	if err != nil {
		s.logger.Error("Unable to read catalog, no images loaded", "err", err)
		return emptyDataset()
	}

	if total == 0 {
		if err := s.Import(indexPath); err != nil {
			s.logger.Error("Unable to seed catalog", "path", indexPath, "err", err)
			return emptyDataset()
		}
	}

	ds, err := s.repo.Load()
	if err != nil {
		s.logger.Error("Unable to load catalog, no images loaded", "err", err)
		return emptyDataset()
	}

	s.logger.Info("Catalog loaded", "images", len(ds.Records), "categories", len(ds.Categories))
	return ds
}

// Import replaces the catalog with the JSON index at indexPath. An unreadable
// index leaves the catalog untouched.
func (s *DatasetService) Import(indexPath string) error {
	ds := s.loader.LoadOrEmpty(indexPath)
	if ds.Empty() {
		return nil
	}

	if err := s.repo.Save(ds); err != nil {
		return err
	}
	s.logger.Info("Catalog seeded from index", "path", indexPath, "images", len(ds.Records))
	return nil
}

func emptyDataset() *models.Dataset {
	return &models.Dataset{Records: []models.ImageRecord{}, Categories: map[string]models.Category{}}
}
