package services

import (
	"testing"

	"github.com/harambee/backend/internal/models"
	"github.com/harambee/backend/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKYCService(t *testing.T) {
	st := store.New()
	service := NewKYCService(st, nil)

	t.Run("status pending before upload even when verified", func(t *testing.T) {
		_, err := service.Review(store.DemoUserPhone)
		require.NoError(t, err)

		status, err := service.Status(store.DemoUserPhone)
		require.NoError(t, err)
		assert.Equal(t, models.KYCStatusPending, status)
	})

	t.Run("upload reveals status", func(t *testing.T) {
		err := service.SubmitDocument(store.DemoUserPhone, models.KYCDocument{FileName: "id.jpg", ContentType: "image/jpeg", Size: 2048})
		require.NoError(t, err)

		status, err := service.Status(store.DemoUserPhone)
		require.NoError(t, err)
		assert.Equal(t, models.KYCStatusVerified, status)
	})

	t.Run("empty document", func(t *testing.T) {
		err := service.SubmitDocument(store.DemoUserPhone, models.KYCDocument{})
		assert.ErrorIs(t, err, store.ErrValidation)
	})

	t.Run("unknown member is unauthenticated", func(t *testing.T) {
		_, err := service.Status("+254799999999")
		assert.ErrorIs(t, err, store.ErrAuth)
		_, err = service.Review("+254799999999")
		assert.ErrorIs(t, err, store.ErrAuth)
		err = service.SubmitDocument("+254799999999", models.KYCDocument{FileName: "id.jpg", Size: 1})
		assert.ErrorIs(t, err, store.ErrAuth)
	})
}
