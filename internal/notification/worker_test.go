package notification

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"pump-maintenance-backend/internal/model"
)

// mockSender is a mock implementation of the Sender interface.
type mockSender struct {
	SendFunc func(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error)
}

func (m *mockSender) Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
	return m.SendFunc(payload, sub, options)
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(&model.Equipment{}, &model.MaintenanceLog{}, &model.PushSubscription{}))
	return db
}

func pushResponse(status int) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(bytes.NewBufferString("")),
	}
}

func TestWorkerPool_Dispatch(t *testing.T) {
	wp := NewWorkerPool(1, newTestDB(t), &webpush.Options{})

	wp.Dispatch(123)

	select {
	case job := <-wp.Jobs():
		assert.Equal(t, 123, job)
	case <-time.After(1 * time.Second):
		t.Fatal("timed out waiting for job to be dispatched")
	}
}

func TestWorkerPool_SendsAlertToSubscribers(t *testing.T) {
	db := newTestDB(t)

	eq := model.Equipment{EquipmentID: 6, EquipmentName: "GCMS", PumpOwner: "Analytics"}
	require.NoError(t, db.Create(&eq).Error)
	sub := model.PushSubscription{
		Endpoint:  "https://example.com/push",
		P256DH:    "test_p256dh",
		Auth:      "test_auth",
		Equipment: []*model.Equipment{&eq},
	}
	require.NoError(t, db.Create(&sub).Error)

	wp := NewWorkerPool(1, db, &webpush.Options{})

	var wg sync.WaitGroup
	wg.Add(1)
	wp.sender = &mockSender{
		SendFunc: func(payload []byte, s *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
			assert.Equal(t, "https://example.com/push", s.Endpoint)
			assert.Contains(t, string(payload), "GCMS")
			wg.Done()
			return pushResponse(http.StatusCreated), nil
		},
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	wp.Start(ctx)

	wp.Dispatch(6)
	wg.Wait()
}

func TestWorkerPool_DeletesExpiredSubscription(t *testing.T) {
	db := newTestDB(t)

	eq := model.Equipment{EquipmentID: 7, EquipmentName: "Jupiter"}
	require.NoError(t, db.Create(&eq).Error)
	sub := model.PushSubscription{
		Endpoint:  "https://example.com/expired",
		P256DH:    "test_p256dh_expired",
		Auth:      "test_auth_expired",
		Equipment: []*model.Equipment{&eq},
	}
	require.NoError(t, db.Create(&sub).Error)

	wp := NewWorkerPool(1, db, &webpush.Options{})
	wp.sender = &mockSender{
		SendFunc: func(payload []byte, s *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
			return pushResponse(http.StatusGone), nil
		},
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	wp.Start(ctx)

	wp.Dispatch(7)

	assert.Eventually(t, func() bool {
		var count int64
		db.Model(&model.PushSubscription{}).Where("endpoint = ?", sub.Endpoint).Count(&count)
		return count == 0
	}, 2*time.Second, 50*time.Millisecond, "expired subscription should be removed")
}

func TestWorkerPool_NoSubscribersIsANoop(t *testing.T) {
	db := newTestDB(t)

	eq := model.Equipment{EquipmentID: 8, EquipmentName: "Olympus"}
	require.NoError(t, db.Create(&eq).Error)

	called := false
	wp := NewWorkerPool(1, db, &webpush.Options{})
	wp.sender = &mockSender{
		SendFunc: func(payload []byte, s *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
			called = true
			return pushResponse(http.StatusCreated), nil
		},
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	wp.Start(ctx)

	wp.Dispatch(8)
	time.Sleep(100 * time.Millisecond)
	assert.False(t, called)
}
