package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	m "etfpanel/internal/model"

	"gorm.io/gorm"
)

func stgDsn(conf *MysqlConfig) string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local", conf.user, conf.password, conf.ip, conf.port, conf.scheme)
}

// Migrate creates the tables owned by this service. calendar, etf_info and etf_netasset
// belong to the ingestion job and are left alone.
func (s Storage) Migrate() error {
	err := s.db.AutoMigrate(&m.Category{}, &m.User{}, &m.UserCollection{})
	if err != nil {
		return fmt.Errorf("migration 실패. %w", err)
	}
	return nil
}

func compactDay(d time.Time) string {
	return d.Format(m.CompactLayout)
}

// isoDays keeps DATE filters as strings so the loc=Local DSN never shifts them.
func isoDays(days []time.Time) []string {
	out := make([]string, len(days))
	for i, d := range days {
		out[i] = d.Format(m.DateLayout)
	}
	return out
}

/***************************** Calendar ***********************************/

func (s Storage) CalendarDay(ctx context.Context, day time.Time) (*m.CalendarDay, error) {
	var row m.CalendarDay

	result := s.db.WithContext(ctx).Where("Day = ?", compactDay(day)).Limit(1).Find(&row)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, nil
	}
	return &row, nil
}

func (s Storage) PreviousTradingDay(ctx context.Context, before time.Time) (*m.CalendarDay, error) {
	var row m.CalendarDay

	result := s.db.WithContext(ctx).
		Where("Day < ? AND IsTradingDay = ?", compactDay(before), 1).
		Order("Day DESC").
		Limit(1).
		Find(&row)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, nil
	}
	return &row, nil
}

func (s Storage) TradingDays(ctx context.Context, end time.Time, count int) ([]m.CalendarDay, error) {
	var rows []m.CalendarDay

	result := s.db.WithContext(ctx).
		Where("Day <= ? AND IsTradingDay = ?", compactDay(end), 1).
		Order("Day DESC").
		Limit(count).
		Find(&rows)
	if result.Error != nil {
		return nil, result.Error
	}

	s.lg.Debug().Msgf("Retrieved %d trading days up to %s", len(rows), compactDay(end))
	return rows, nil
}

/***************************** Market ***********************************/

func (s Storage) InstrumentsBySectors(ctx context.Context, sectors []string) ([]m.EtfInfo, error) {
	var etfs []m.EtfInfo

	q := s.db.WithContext(ctx).Model(&m.EtfInfo{})
	if len(sectors) > 0 {
		q = q.Where("sector IN ?", sectors)
	}
	result := q.Order("ths_code").Find(&etfs)
	if result.Error != nil {
		return nil, result.Error
	}

	s.lg.Info().Msgf("Retrieved %d ETFs for %d sectors", len(etfs), len(sectors))
	return etfs, nil
}

func (s Storage) InstrumentsByCodes(ctx context.Context, codes []string) ([]m.EtfInfo, error) {
	var etfs []m.EtfInfo
	if len(codes) == 0 {
		return etfs, nil
	}

	result := s.db.WithContext(ctx).Where("ths_code IN ?", codes).Order("ths_code").Find(&etfs)
	if result.Error != nil {
		return nil, result.Error
	}
	return etfs, nil
}

func (s Storage) Navs(ctx context.Context, codes []string, days []time.Time) ([]m.EtfNetAsset, error) {
	var navs []m.EtfNetAsset
	if len(codes) == 0 || len(days) == 0 {
		return navs, nil
	}

	result := s.db.WithContext(ctx).
		Select("ths_code", "time", "adjusted_nav").
		Where("ths_code IN ? AND time IN ?", codes, isoDays(days)).
		Find(&navs)
	if result.Error != nil {
		return nil, result.Error
	}

	s.lg.Info().Msgf("Retrieved %d NAV rows for %d codes over %d days", len(navs), len(codes), len(days))
	return navs, nil
}

/***************************** Category ***********************************/

func (s Storage) CategoriesByNames(ctx context.Context, names []string) ([]m.Category, error) {
	var cats []m.Category
	if len(names) == 0 {
		return cats, nil
	}

	result := s.db.WithContext(ctx).Where("name IN ?", names).Find(&cats)
	if result.Error != nil {
		return nil, result.Error
	}
	return cats, nil
}

func (s Storage) ActiveCategories(ctx context.Context) ([]m.Category, error) {
	var cats []m.Category

	result := s.db.WithContext(ctx).Where("status = ?", m.CategoryActive).Order("sort_order ASC").Order("cid ASC").Find(&cats)
	if result.Error != nil {
		return nil, result.Error
	}

	s.lg.Info().Msgf("Retrieved %d active categories", len(cats))
	return cats, nil
}

func (s Storage) CategoryByID(ctx context.Context, cid uint) (*m.Category, error) {
	var cat m.Category

	result := s.db.WithContext(ctx).Where("cid = ?", cid).Limit(1).Find(&cat)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, nil
	}
	return &cat, nil
}

func (s Storage) RefreshCategoryCounts(ctx context.Context) (int64, error) {
	result := s.db.WithContext(ctx).Exec(
		"UPDATE category c SET c.item_count = (SELECT COUNT(*) FROM etf_info e WHERE e.sector = c.name), c.updated_at = ?",
		time.Now(),
	)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

/***************************** User ***********************************/

func (s Storage) UserByUsername(ctx context.Context, username string) (*m.User, error) {
	return s.findUser(ctx, "username = ?", username)
}

func (s Storage) UserByID(ctx context.Context, id uint) (*m.User, error) {
	return s.findUser(ctx, "id = ?", id)
}

func (s Storage) findUser(ctx context.Context, query string, arg any) (*m.User, error) {
	var user m.User

	result := s.db.WithContext(ctx).Where(query, arg).Limit(1).Find(&user)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, nil
	}
	return &user, nil
}

func (s Storage) UserExists(ctx context.Context, username, email string) (bool, error) {
	var n int64

	result := s.db.WithContext(ctx).Model(&m.User{}).Where("username = ? OR email = ?", username, email).Count(&n)
	if result.Error != nil {
		return false, result.Error
	}
	return n > 0, nil
}

func (s Storage) CreateUser(ctx context.Context, user *m.User) error {
	result := s.db.WithContext(ctx).Create(user)
	if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%w: username or email", ErrDuplicate)
	}
	if result.Error != nil {
		return result.Error
	}

	s.lg.Info().Msgf("Created user %d", user.ID)
	return nil
}

/***************************** Collection ***********************************/

func (s Storage) Collections(ctx context.Context, userID uint) ([]m.CollectedSector, error) {
	rows := []m.CollectedSector{}

	result := s.db.WithContext(ctx).
		Table("user_collection AS uc").
		Select("uc.collect_id, uc.user_id, uc.cid, uc.collect_time, c.name AS sector, c.description, c.item_count, c.sort_order").
		Joins("JOIN category AS c ON c.cid = uc.cid").
		Where("uc.user_id = ?", userID).
		Order("uc.collect_time DESC").
		Scan(&rows)
	if result.Error != nil {
		return nil, result.Error
	}
	return rows, nil
}

func (s Storage) AddCollection(ctx context.Context, userID, cid uint) (*m.UserCollection, error) {
	uc := &m.UserCollection{UserID: userID, Cid: cid}

	result := s.db.WithContext(ctx).Omit("User", "Category").Create(uc)
	if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
		return nil, fmt.Errorf("%w: category %d already collected", ErrDuplicate, cid)
	}
	if result.Error != nil {
		return nil, result.Error
	}

	s.lg.Info().Msgf("User %d collected category %d", userID, cid)
	return uc, nil
}

func (s Storage) RemoveCollection(ctx context.Context, userID, cid uint) (bool, error) {
	result := s.db.WithContext(ctx).Where("user_id = ? AND cid = ?", userID, cid).Delete(&m.UserCollection{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
