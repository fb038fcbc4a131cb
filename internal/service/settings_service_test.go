package service

import (
	"testing"

	"narada_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettingsService_GetAndUpdate(t *testing.T) {
	f := newFixture(t)
	user := f.register(t, "s@example.com", "ร้านเดิม")
	svc := NewSettingsService(f.settings)

	view, err := svc.Get(user.ID)
	require.NoError(t, err)
	assert.Equal(t, "friendly", view.Settings.Tone)
	assert.Len(t, view.Tones, 4)

	updated, err := svc.Update(user.ID, SettingsInput{
		Tone:               "vendor",
		ShopName:           "ร้านแม่ค้า",
		GreetingMessage:    "มาแล้วจ้า",
		CustomInstructions: " เน้นโปรส่งฟรี ",
	})
	require.NoError(t, err)
	assert.Equal(t, view.Settings.ID, updated.ID)
	assert.Equal(t, "vendor", updated.Tone)
	assert.Equal(t, "เน้นโปรส่งฟรี", updated.CustomInstructions)

	_, err = svc.Update(user.ID, SettingsInput{Tone: "rude", ShopName: "ร้าน"})
	assert.Error(t, err)
}

func TestSettingsService_CreatesMissingRow(t *testing.T) {
	f := newFixture(t)
	svc := NewSettingsService(f.settings)

	_, err := svc.Get("orphan")
	assert.ErrorIs(t, err, util.ErrSettingsNotFound)

	created, err := svc.Update("orphan", SettingsInput{Tone: "polite", ShopName: "ร้านใหม่"})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)

	view, err := svc.Get("orphan")
	require.NoError(t, err)
	assert.Equal(t, "polite", view.Settings.Tone)
}
