package handler

import (
	"context"

	"etfpanel"
	m "etfpanel/internal/model"
)

type WindowResolver interface {
	ResolveWindow(ctx context.Context, date string, count int, inclusive bool) (*etfpanel.Window, error)
}

type ReturnCalculator interface {
	CodeReturns(ctx context.Context, codes []string, start, end string) ([]etfpanel.CodeReturn, error)
	SectorReturns(ctx context.Context, sectors []string, start, end string) (*etfpanel.SectorReturnSummary, error)
	SectorHistory(ctx context.Context, sector, date string, n int, details bool) (*etfpanel.SectorHistory, error)
	BatchSectorHistory(ctx context.Context, q etfpanel.BatchQuery) (*etfpanel.BatchHistory, error)
}

type SectorLister interface {
	AvailableSectors(ctx context.Context) ([]m.Category, error)
}

type UserRetriever interface {
	UserByUsername(ctx context.Context, username string) (*m.User, error)
	UserByID(ctx context.Context, id uint) (*m.User, error)
}

type UserSaver interface {
	UserExists(ctx context.Context, username, email string) (bool, error)
	CreateUser(ctx context.Context, user *m.User) error
}

type CollectionRetriever interface {
	Collections(ctx context.Context, userID uint) ([]m.CollectedSector, error)
	CategoryByID(ctx context.Context, cid uint) (*m.Category, error)
}

type CollectionSaver interface {
	AddCollection(ctx context.Context, userID, cid uint) (*m.UserCollection, error)
	RemoveCollection(ctx context.Context, userID, cid uint) (bool, error)
}
