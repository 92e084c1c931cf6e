package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/Lakshan2000610/hr-notification/internal/domain"
	pkgerrors "github.com/Lakshan2000610/hr-notification/pkg/errors"
)

func newDelayFixture() (domain.DelayUseCase, *fakePreferenceRepo, *fakeContentRepo) {
	prefRepo := newFakePreferenceRepo()
	contentRepo := newFakeContentRepo()

	uc := NewDelayUseCase(prefRepo, contentRepo, testScheduleConfig(), zerolog.Nop())
	return uc, prefRepo, contentRepo
}

func TestSetMessageDelay_RelativeChoices(t *testing.T) {
	tests := []struct {
		choice domain.DelayChoice
		offset time.Duration
	}{
		{domain.DelayWithin15m, 15 * time.Minute},
		{domain.DelayWithin30m, 30 * time.Minute},
		{domain.DelayWithin1h, time.Hour},
		{domain.DelayWithin3h, 3 * time.Hour},
	}

	for _, tt := range tests {
		t.Run(string(tt.choice), func(t *testing.T) {
			uc, _, _ := newDelayFixture()

			pref, err := uc.SetMessageDelay(context.Background(), "emp-1", "c-1", tt.choice)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			want := time.Now().UTC().Add(tt.offset)
			diff := pref.DisplayTime.Sub(want)
			if diff < -2*time.Second || diff > 2*time.Second {
				t.Errorf("display time %v not within tolerance of %v", pref.DisplayTime, want)
			}
		})
	}
}

func TestSetMessageDelay_ImmediateUsesFutureScheduledTime(t *testing.T) {
	uc, _, contentRepo := newDelayFixture()

	scheduled := time.Now().UTC().Add(2 * time.Hour).Truncate(time.Second)
	contentRepo.Create(context.Background(), &domain.Content{
		ID:            "c-1",
		ScheduledTime: scheduled,
		Recipients:    domain.StringList{"emp-1"},
	})

	pref, err := uc.SetMessageDelay(context.Background(), "emp-1", "c-1", domain.DelayImmediate)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !pref.DisplayTime.Equal(scheduled) {
		t.Errorf("display time = %v, want scheduled time %v", pref.DisplayTime, scheduled)
	}
}

func TestSetMessageDelay_ImmediateFloorsPastScheduleToNow(t *testing.T) {
	uc, _, contentRepo := newDelayFixture()

	contentRepo.Create(context.Background(), &domain.Content{
		ID:            "c-1",
		ScheduledTime: time.Now().UTC().Add(-time.Hour),
		Recipients:    domain.StringList{"emp-1"},
	})

	pref, err := uc.SetMessageDelay(context.Background(), "emp-1", "c-1", domain.DelayImmediate)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	diff := time.Since(pref.DisplayTime)
	if diff < -time.Second || diff > time.Second {
		t.Errorf("display time %v not floored to now", pref.DisplayTime)
	}
}

func TestSetMessageDelay_ImmediateUnknownContent(t *testing.T) {
	uc, _, _ := newDelayFixture()

	_, err := uc.SetMessageDelay(context.Background(), "emp-1", "missing", domain.DelayImmediate)
	if !pkgerrors.IsNotFoundError(err) {
		t.Fatalf("expected not-found error, got %v", err)
	}
}

func TestSetMessageDelay_ZeroScheduledTimeWritesNothing(t *testing.T) {
	uc, prefRepo, contentRepo := newDelayFixture()

	contentRepo.Create(context.Background(), &domain.Content{
		ID:         "c-1",
		Recipients: domain.StringList{"emp-1"},
	})

	_, err := uc.SetMessageDelay(context.Background(), "emp-1", "c-1", domain.DelayImmediate)
	if !pkgerrors.IsInvalidScheduleError(err) {
		t.Fatalf("expected invalid-schedule error, got %v", err)
	}

	if _, err := prefRepo.Get(context.Background(), "emp-1", "c-1"); err == nil {
		t.Error("preference was written despite the invalid schedule")
	}
}

func TestSetMessageDelay_InvalidChoice(t *testing.T) {
	uc, _, _ := newDelayFixture()

	_, err := uc.SetMessageDelay(context.Background(), "emp-1", "c-1", "Play whenever")
	if !pkgerrors.IsValidationError(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestSetMessageDelay_ReplacesExistingPreference(t *testing.T) {
	uc, prefRepo, _ := newDelayFixture()

	ctx := context.Background()
	if _, err := uc.SetMessageDelay(ctx, "emp-1", "c-1", domain.DelayWithin3h); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := uc.SetMessageDelay(ctx, "emp-1", "c-1", domain.DelayWithin15m); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	stored, err := prefRepo.Get(ctx, "emp-1", "c-1")
	if err != nil {
		t.Fatalf("preference missing: %v", err)
	}
	if stored.DelayChoice != domain.DelayWithin15m {
		t.Errorf("stored choice = %q, want the latest choice", stored.DelayChoice)
	}
}

func TestGetPreference_NotFound(t *testing.T) {
	uc, _, _ := newDelayFixture()

	_, err := uc.GetPreference(context.Background(), "emp-1", "c-1")
	if !pkgerrors.IsNotFoundError(err) {
		t.Fatalf("expected not-found error, got %v", err)
	}
}
