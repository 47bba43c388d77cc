package loyaltyrepo

import (
	"context"
	"errors"
	"math"
	"time"

	"cafe/internal/core/domain/model/loyalty"
	"cafe/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormLoyaltyRepository implements LoyaltyRepository using GORM.
type GormLoyaltyRepository struct {
	db *gorm.DB
}

func NewGormLoyaltyRepository(db *gorm.DB) *GormLoyaltyRepository {
	return &GormLoyaltyRepository{db: db}
}

// Migrate creates the ledger tables.
func (r *GormLoyaltyRepository) Migrate(ctx context.Context) error {
	return r.db.WithContext(ctx).AutoMigrate(&AccountDTO{}, &AccrualDTO{}, &ProgramDTO{})
}

func (r *GormLoyaltyRepository) GetAccount(ctx context.Context, customerID string) (*loyalty.Account, error) {
	id, err := loyalty.NormalizeCustomerID(customerID)
	if err != nil {
		return nil, err
	}

	var dto AccountDTO
	if err = r.db.WithContext(ctx).First(&dto, "customer_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("customerId", id)
		}
		return nil, err
	}
	return accountToDomain(dto)
}

// Accrue adds points in one upsert:
//
//	INSERT ... ON CONFLICT (customer_id) DO UPDATE SET points = loyalty_accounts.points + EXCLUDED.points
func (r *GormLoyaltyRepository) Accrue(
	ctx context.Context,
	customerID string,
	points int64,
	at time.Time,
) (*loyalty.Account, error) {
	id, err := loyalty.NormalizeCustomerID(customerID)
	if err != nil {
		return nil, err
	}
	if err = loyalty.ValidatePoints(points); err != nil {
		return nil, err
	}

	dto, err := upsertPoints(ctx, r.db, id, points, at)
	if err != nil {
		return nil, err
	}
	return accountToDomain(dto)
}

// AccrueOnce inserts the accrual entry and credits the account in one
// transaction. A conflicting entry leaves the balance untouched.
func (r *GormLoyaltyRepository) AccrueOnce(
	ctx context.Context,
	entry loyalty.AccrualEntry,
) (*loyalty.Account, bool, error) {
	var (
		dto     AccountDTO
		applied bool
	)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		accrual := AccrualDTO{
			OrderID:    entry.OrderID().Bytes(),
			CustomerID: entry.CustomerID(),
			Points:     entry.Points(),
			CreatedAt:  entry.CreatedAt(),
		}
		result := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&accrual)
		if result.Error != nil {
			return result.Error
		}
		applied = result.RowsAffected == 1

		if applied && entry.Points() > 0 {
			var err error
			dto, err = upsertPoints(ctx, tx, entry.CustomerID(), entry.Points(), entry.CreatedAt())
			return err
		}

		err := tx.First(&dto, "customer_id = ?", entry.CustomerID()).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			dto = AccountDTO{CustomerID: entry.CustomerID(), LastUpdated: entry.CreatedAt().UTC()}
			return nil
		}
		return err
	})
	if err != nil {
		return nil, false, err
	}

	account, err := accountToDomain(dto)
	if err != nil {
		return nil, false, err
	}
	return account, applied, nil
}

// Redeem subtracts points with a guarded update:
//
//	UPDATE loyalty_accounts SET points = points - ? WHERE customer_id = ? AND points >= ?
//
// No affected row means the balance was too low or the account is absent.
func (r *GormLoyaltyRepository) Redeem(
	ctx context.Context,
	customerID string,
	points int64,
	at time.Time,
) (*loyalty.Account, error) {
	id, err := loyalty.NormalizeCustomerID(customerID)
	if err != nil {
		return nil, err
	}
	if err = loyalty.ValidatePoints(points); err != nil {
		return nil, err
	}

	var dto AccountDTO
	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&AccountDTO{}).
			Where("customer_id = ? AND points >= ?", id, points).
			Updates(map[string]any{
				"points":       gorm.Expr("points - ?", points),
				"last_updated": at.UTC(),
			})
		if result.Error != nil {
			return result.Error
		}

		err := tx.First(&dto, "customer_id = ?", id).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errs.NewInsufficientBalanceError(id, 0, points)
		}
		if err != nil {
			return err
		}
		if result.RowsAffected == 0 {
			return errs.NewInsufficientBalanceError(id, dto.Points, points)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return accountToDomain(dto)
}

// GetProgram returns the stored program, or the default program when none was
// saved yet.
func (r *GormLoyaltyRepository) GetProgram(ctx context.Context) (loyalty.Program, error) {
	var dto ProgramDTO
	err := r.db.WithContext(ctx).First(&dto, "id = ?", programRowID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return loyalty.DefaultProgram(), nil
	}
	if err != nil {
		return loyalty.Program{}, err
	}
	return programToDomain(dto)
}

func (r *GormLoyaltyRepository) SaveProgram(ctx context.Context, program loyalty.Program) error {
	if err := program.Validate(); err != nil {
		return err
	}

	dto := programFromDomain(program)
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"points_per_dollar", "rewards"}),
	}).Create(&dto).Error
}

// upsertPoints credits points unless the balance would pass math.MaxInt64, in
// which case the conditional update touches no row and the balance is kept.
func upsertPoints(ctx context.Context, db *gorm.DB, customerID string, points int64, at time.Time) (AccountDTO, error) {
	dto := AccountDTO{CustomerID: customerID, Points: points, LastUpdated: at.UTC()}
	result := db.WithContext(ctx).Clauses(
		clause.OnConflict{
			Columns: []clause.Column{{Name: "customer_id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"points":       gorm.Expr("loyalty_accounts.points + EXCLUDED.points"),
				"last_updated": gorm.Expr("EXCLUDED.last_updated"),
			}),
			Where: clause.Where{Exprs: []clause.Expression{
				gorm.Expr("loyalty_accounts.points <= ? - EXCLUDED.points", int64(math.MaxInt64)),
			}},
		},
		clause.Returning{},
	).Create(&dto)
	if result.Error != nil {
		return AccountDTO{}, result.Error
	}
	if result.RowsAffected == 0 {
		var current AccountDTO
		if err := db.WithContext(ctx).First(&current, "customer_id = ?", customerID).Error; err != nil {
			return AccountDTO{}, err
		}
		return AccountDTO{}, errs.NewValueIsOutOfRangeError("points", points, 1, math.MaxInt64-current.Points)
	}
	return dto, nil
}
