package storage_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/till/internal/shop"
	"github.com/MrJamesThe3rd/till/internal/storage"
)

func quietOptions(reset bool) storage.Options {
	return storage.Options{
		ResetOnCorrupt: reset,
		Shop:           shop.Info{Name: "Toko"},
		Logger:         slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func TestService_Load(t *testing.T) {
	stored, err := json.Marshal(shop.DB{Version: 1, Shop: shop.Info{Name: "Old"}})
	require.NoError(t, err)

	type testCase struct {
		name      string
		reset     bool
		setupMock func(m *storage.MockRepository)
		wantName  string
		wantErr   error
	}

	tests := []testCase{
		{
			name: "MissingSeedsDefaults",
			setupMock: func(m *storage.MockRepository) {
				m.EXPECT().Get(gomock.Any(), storage.KeyDB).Return(nil, storage.ErrNotFound)
				m.EXPECT().Put(gomock.Any(), storage.KeyDB, gomock.Any()).Return(nil)
			},
			wantName: "Toko",
		},
		{
			name: "StoredIsNormalized",
			setupMock: func(m *storage.MockRepository) {
				m.EXPECT().Get(gomock.Any(), storage.KeyDB).Return(stored, nil)
			},
			wantName: "Old",
		},
		{
			name:  "CorruptResets",
			reset: true,
			setupMock: func(m *storage.MockRepository) {
				m.EXPECT().Get(gomock.Any(), storage.KeyDB).Return([]byte("{not json"), nil)
				m.EXPECT().Put(gomock.Any(), storage.KeyDB, gomock.Any()).Return(nil)
			},
			wantName: "Toko",
		},
		{
			name: "CorruptWithoutReset",
			setupMock: func(m *storage.MockRepository) {
				m.EXPECT().Get(gomock.Any(), storage.KeyDB).Return([]byte("{not json"), nil)
			},
			wantErr: storage.ErrCorrupt,
		},
		{
			name: "ReadError",
			setupMock: func(m *storage.MockRepository) {
				m.EXPECT().Get(gomock.Any(), storage.KeyDB).Return(nil, errors.New("io"))
			},
			wantErr: errors.New("io"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := storage.NewMockRepository(ctrl)
			tt.setupMock(repo)

			svc := storage.NewService(repo, quietOptions(tt.reset))
			db, err := svc.Load(context.Background())

			if tt.wantErr != nil {
				require.Error(t, err)

				if errors.Is(tt.wantErr, storage.ErrCorrupt) {
					assert.ErrorIs(t, err, storage.ErrCorrupt)
				}

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantName, db.Shop.Name)
			assert.Equal(t, shop.SchemaVersion, db.Version)
			assert.Equal(t, 1, db.Counters.NextSaleID)
			assert.Equal(t, shop.DefaultCurrency, db.Settings.Currency)
			assert.NotEmpty(t, db.Users)
		})
	}
}

func TestService_LoadDraft(t *testing.T) {
	draft, err := json.Marshal(shop.Sale{Status: shop.StatusNew, Items: []shop.Item{{ProductID: "p1", Qty: 2}}})
	require.NoError(t, err)

	t.Run("Missing", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := storage.NewMockRepository(ctrl)
		repo.EXPECT().Get(gomock.Any(), storage.KeyDraft).Return(nil, storage.ErrNotFound)

		got, err := storage.NewService(repo, quietOptions(false)).LoadDraft(context.Background())
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("Stored", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := storage.NewMockRepository(ctrl)
		repo.EXPECT().Get(gomock.Any(), storage.KeyDraft).Return(draft, nil)

		got, err := storage.NewService(repo, quietOptions(false)).LoadDraft(context.Background())
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, 2, got.Items[0].Qty)
	})

	t.Run("CorruptIsCleared", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := storage.NewMockRepository(ctrl)
		repo.EXPECT().Get(gomock.Any(), storage.KeyDraft).Return([]byte("garbage"), nil)
		repo.EXPECT().Delete(gomock.Any(), storage.KeyDraft).Return(nil)

		got, err := storage.NewService(repo, quietOptions(false)).LoadDraft(context.Background())
		require.NoError(t, err)
		assert.Nil(t, got)
	})
}

func TestService_Session(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	var saved []byte

	repo := storage.NewMockRepository(ctrl)
	repo.EXPECT().
		Put(gomock.Any(), storage.KeySession, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, value []byte) error {
			saved = value
			return nil
		})
	repo.EXPECT().
		Get(gomock.Any(), storage.KeySession).
		DoAndReturn(func(context.Context, string) ([]byte, error) { return saved, nil })
	repo.EXPECT().Delete(gomock.Any(), storage.KeySession).Return(storage.ErrNotFound)

	svc := storage.NewService(repo, quietOptions(false))
	at := time.Date(2026, 5, 4, 8, 30, 0, 0, time.UTC)

	require.NoError(t, svc.SaveSession(context.Background(), storage.Session{UserID: "admin", LoggedInAt: at}))
	assert.Contains(t, string(saved), `"userId":"admin"`)

	sess, err := svc.LoadSession(context.Background())
	require.NoError(t, err)
	require.NotNil(t, sess)
	assert.Equal(t, "admin", sess.UserID)
	assert.True(t, at.Equal(sess.LoggedInAt))

	assert.NoError(t, svc.ClearSession(context.Background()))
}

func TestService_LoadSessionCorrupt(t *testing.T) {
	t.Run("IsClearedAndLogged", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := storage.NewMockRepository(ctrl)
		repo.EXPECT().Get(gomock.Any(), storage.KeySession).Return([]byte("{not json"), nil)
		repo.EXPECT().Delete(gomock.Any(), storage.KeySession).Return(nil)

		var logs bytes.Buffer

		opts := quietOptions(false)
		opts.Logger = slog.New(slog.NewTextHandler(&logs, nil))

		sess, err := storage.NewService(repo, opts).LoadSession(context.Background())
		require.NoError(t, err)
		assert.Nil(t, sess)
		assert.Contains(t, logs.String(), "discarding unreadable session")
	})

	t.Run("ClearFailure", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := storage.NewMockRepository(ctrl)
		repo.EXPECT().Get(gomock.Any(), storage.KeySession).Return([]byte("{not json"), nil)
		repo.EXPECT().Delete(gomock.Any(), storage.KeySession).Return(errors.New("disk full"))

		sess, err := storage.NewService(repo, quietOptions(false)).LoadSession(context.Background())
		require.Error(t, err)
		assert.Nil(t, sess)
	})
}

func TestService_SaveError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := storage.NewMockRepository(ctrl)
	repo.EXPECT().Put(gomock.Any(), storage.KeyDB, gomock.Any()).Return(errors.New("read-only"))

	err := storage.NewService(repo, quietOptions(false)).Save(context.Background(), shop.Seed(shop.Info{}))
	assert.ErrorContains(t, err, "writing shop db")
}

func TestNormalize(t *testing.T) {
	db := shop.DB{}
	storage.Normalize(&db)

	assert.Equal(t, shop.SchemaVersion, db.Version)
	assert.Equal(t, 1, db.Counters.NextSaleID)
	assert.Equal(t, shop.DefaultCurrency, db.Settings.Currency)
	assert.Equal(t, shop.DefaultUserID, db.Users[0].ID)
}
