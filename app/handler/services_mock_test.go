package handler

import (
	"context"
	"time"

	"etfpanel"
	"etfpanel/internal/db"
	m "etfpanel/internal/model"
)

/***************************** Calendar ***********************************/

type WindowResolverMock struct {
	w   *etfpanel.Window
	err error

	inclusive bool
	count     int
}

func (mock *WindowResolverMock) ResolveWindow(ctx context.Context, date string, count int, inclusive bool) (*etfpanel.Window, error) {
	mock.inclusive = inclusive
	mock.count = count
	if mock.err != nil {
		return nil, mock.err
	}
	return mock.w, nil
}

/***************************** Etf ***********************************/

type ReturnCalculatorMock struct {
	codes   []etfpanel.CodeReturn
	summary *etfpanel.SectorReturnSummary
	history *etfpanel.SectorHistory
	batch   *etfpanel.BatchHistory
	err     error

	query   etfpanel.BatchQuery
	n       int
	details bool
}

func (mock *ReturnCalculatorMock) CodeReturns(ctx context.Context, codes []string, start, end string) ([]etfpanel.CodeReturn, error) {
	if mock.err != nil {
		return nil, mock.err
	}
	return mock.codes, nil
}

func (mock *ReturnCalculatorMock) SectorReturns(ctx context.Context, sectors []string, start, end string) (*etfpanel.SectorReturnSummary, error) {
	if mock.err != nil {
		return nil, mock.err
	}
	return mock.summary, nil
}

func (mock *ReturnCalculatorMock) SectorHistory(ctx context.Context, sector, date string, n int, details bool) (*etfpanel.SectorHistory, error) {
	mock.n = n
	mock.details = details
	if mock.err != nil {
		return nil, mock.err
	}
	return mock.history, nil
}

func (mock *ReturnCalculatorMock) BatchSectorHistory(ctx context.Context, q etfpanel.BatchQuery) (*etfpanel.BatchHistory, error) {
	mock.query = q
	return mock.batch, mock.err
}

type SectorListerMock struct {
	cats []m.Category
	err  error
}

func (mock *SectorListerMock) AvailableSectors(ctx context.Context) ([]m.Category, error) {
	return mock.cats, mock.err
}

/***************************** User ***********************************/

type UserStoreMock struct {
	users  map[uint]*m.User
	nextID uint
	err    error
}

func newUserStoreMock(users ...*m.User) *UserStoreMock {
	mock := &UserStoreMock{users: map[uint]*m.User{}, nextID: 1}
	for _, u := range users {
		mock.users[u.ID] = u
		if u.ID >= mock.nextID {
			mock.nextID = u.ID + 1
		}
	}
	return mock
}

func (mock *UserStoreMock) UserByUsername(ctx context.Context, username string) (*m.User, error) {
	if mock.err != nil {
		return nil, mock.err
	}
	for _, u := range mock.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, nil
}

func (mock *UserStoreMock) UserByID(ctx context.Context, id uint) (*m.User, error) {
	if mock.err != nil {
		return nil, mock.err
	}
	return mock.users[id], nil
}

func (mock *UserStoreMock) UserExists(ctx context.Context, username, email string) (bool, error) {
	if mock.err != nil {
		return false, mock.err
	}
	for _, u := range mock.users {
		if u.Username == username || u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (mock *UserStoreMock) CreateUser(ctx context.Context, user *m.User) error {
	if mock.err != nil {
		return mock.err
	}
	user.ID = mock.nextID
	user.CreatedAt = time.Now()
	mock.nextID++
	mock.users[user.ID] = user
	return nil
}

/***************************** Collection ***********************************/

type CollectionStoreMock struct {
	cats  map[uint]*m.Category
	rows  []m.CollectedSector
	dup   bool
	moved bool
	err   error
}

func (mock *CollectionStoreMock) Collections(ctx context.Context, userID uint) ([]m.CollectedSector, error) {
	if mock.err != nil {
		return nil, mock.err
	}
	var out []m.CollectedSector
	for _, r := range mock.rows {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (mock *CollectionStoreMock) CategoryByID(ctx context.Context, cid uint) (*m.Category, error) {
	if mock.err != nil {
		return nil, mock.err
	}
	return mock.cats[cid], nil
}

func (mock *CollectionStoreMock) AddCollection(ctx context.Context, userID, cid uint) (*m.UserCollection, error) {
	if mock.dup {
		return nil, db.ErrDuplicate
	}
	return &m.UserCollection{CollectID: 7, UserID: userID, Cid: cid, CollectTime: time.Now()}, nil
}

func (mock *CollectionStoreMock) RemoveCollection(ctx context.Context, userID, cid uint) (bool, error) {
	return mock.moved, mock.err
}
