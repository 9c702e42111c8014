package containerrepo

import (
	"context"
	"errors"
	"time"

	"github.com/Safary16/soptraloc-sub001/internal/core/domain/model/container"
	"github.com/Safary16/soptraloc-sub001/internal/core/domain/model/kernel"
	"github.com/Safary16/soptraloc-sub001/internal/core/domain/services"
	"github.com/Safary16/soptraloc-sub001/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormContainerRepository implements ContainerRepository using GORM.
type GormContainerRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormContainerRepository creates a new GORM container repository.
func NewGormContainerRepository(db *gorm.DB, tracker aggregateTracker) *GormContainerRepository {
	return &GormContainerRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new container to the database.
func (r *GormContainerRepository) Add(ctx context.Context, aggregate *container.Container) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update saves an existing container to the database. All columns are
// written, so cleared optional fields (released driver) reach the row.
func (r *GormContainerRepository) Update(ctx context.Context, aggregate *container.Container) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).
		Model(&ContainerDTO{}).
		Where("id = ?", dto.ID).
		Select("*").
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Get retrieves a container by ID.
func (r *GormContainerRepository) Get(ctx context.Context, id kernel.UUID) (*container.Container, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto ContainerDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("container", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetByNumber retrieves a container by its ISO container number.
func (r *GormContainerRepository) GetByNumber(ctx context.Context, number string) (*container.Container, error) {
	if number == "" {
		return nil, errs.NewValueIsRequiredError("number")
	}

	var dto ContainerDTO
	if err := r.db.WithContext(ctx).First(&dto, "number = ?", number).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("container", number)
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetAllAssignable retrieves the scheduling backlog as of the given instant:
// containers in the scheduled or in-sequence stage with no driver attached
// and a pickup due before the end of the next operational day, ordered by
// scheduled pickup time. Unscheduled containers come last so a pass can
// report them as pending.
func (r *GormContainerRepository) GetAllAssignable(
	ctx context.Context,
	asOf time.Time,
) ([]*container.Container, error) {
	var dtos []ContainerDTO
	err := r.db.WithContext(ctx).
		Where("status IN (?, ?) AND assigned_driver_id IS NULL",
			string(container.Scheduled), string(container.InSequence)).
		Where("scheduled_at IS NULL OR scheduled_at < ?", services.DueWindowEnd(asOf)).
		Order("scheduled_at NULLS LAST, number").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	return toDomainSlice(dtos)
}

// GetAllWithDemurrageBefore retrieves undelivered containers whose free
// storage period ends before the given deadline.
func (r *GormContainerRepository) GetAllWithDemurrageBefore(
	ctx context.Context,
	deadline time.Time,
) ([]*container.Container, error) {
	var dtos []ContainerDTO
	err := r.db.WithContext(ctx).
		Where("demurrage_deadline IS NOT NULL AND demurrage_deadline < ? AND status NOT IN (?, ?)",
			deadline, string(container.Finalized), string(container.Unloaded)).
		Order("demurrage_deadline").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	return toDomainSlice(dtos)
}

func toDomainSlice(dtos []ContainerDTO) ([]*container.Container, error) {
	containers := make([]*container.Container, 0, len(dtos))
	for _, dto := range dtos {
		c, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		containers = append(containers, c)
	}

	return containers, nil
}
