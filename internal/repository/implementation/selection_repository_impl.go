package implementation

import (
	"context"

	"moodflix-be/internal/entity"
	"moodflix-be/internal/mapper"
	"moodflix-be/internal/model"
	"moodflix-be/internal/repository/contract"
	"moodflix-be/internal/repository/specification"

	"gorm.io/gorm"
)

type SelectionRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.SelectionMapper
}

func NewSelectionRepository(db *gorm.DB) contract.SelectionRepository {
	return &SelectionRepositoryImpl{
		db:     db,
		mapper: mapper.NewSelectionMapper(),
	}
}

func (r *SelectionRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *SelectionRepositoryImpl) Append(ctx context.Context, selection *entity.Selection) error {
	m := r.mapper.ToModel(selection)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*selection = *r.mapper.ToEntity(m)
	return nil
}

func (r *SelectionRepositoryImpl) FindRecent(ctx context.Context, limit int, specs ...specification.Specification) ([]*entity.Selection, error) {
	var models []*model.SelectionLog
	q := r.applySpecifications(r.db.WithContext(ctx).Model(&model.SelectionLog{}), specs...).
		Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&models).Error; err != nil {
		return nil, err
	}

	out := make([]*entity.Selection, len(models))
	for i, m := range models {
		out[len(models)-1-i] = r.mapper.ToEntity(m)
	}
	return out, nil
}

func (r *SelectionRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	q := r.applySpecifications(r.db.WithContext(ctx).Model(&model.SelectionLog{}), specs...)
	if err := q.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
