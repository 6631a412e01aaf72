package futureready

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/shashank-icloud/ayusetu-mobi-sub002/internal/platform/clock"
	"github.com/shashank-icloud/ayusetu-mobi-sub002/internal/platform/dispatch"
)

var testStart = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func newTestService() (*Service, *Processor, *clock.Manual) {
	clk := clock.NewManual(testStart)
	backups := NewMemBackupRepo()
	d := dispatch.Dispatcher{DeveloperMode: true, LatencyScale: 0}
	svc := NewService(d, nil, NewMemSettingsRepo(), backups, clk, zerolog.Nop())
	proc := NewProcessor(backups, clk, 3*time.Second, zerolog.Nop())
	return svc, proc, clk
}

func TestGetBackupSettings_Defaults(t *testing.T) {
	svc, _, _ := newTestService()
	settings, err := svc.GetBackupSettings(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !settings.AutoBackup || settings.Frequency != FreqWeekly || !settings.Encrypted {
		t.Errorf("unexpected defaults: %+v", settings)
	}
}

func TestUpdateBackupSettings_ShallowMerge(t *testing.T) {
	svc, _, clk := newTestService()
	ctx := context.Background()

	freq := FreqDaily
	wifi := false
	clk.Advance(time.Minute)
	settings, err := svc.UpdateBackupSettings(ctx, "user-1", BackupSettingsChanges{Frequency: &freq, WifiOnly: &wifi})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if settings.Frequency != FreqDaily || settings.WifiOnly {
		t.Errorf("expected merged changes, got %+v", settings)
	}
	if !settings.AutoBackup || !settings.Encrypted {
		t.Error("untouched fields must survive the merge")
	}
	if !settings.UpdatedAt.Equal(testStart.Add(time.Minute)) {
		t.Errorf("expected clock timestamp, got %v", settings.UpdatedAt)
	}

	bad := BackupFrequency("hourly")
	if _, err := svc.UpdateBackupSettings(ctx, "user-1", BackupSettingsChanges{Frequency: &bad}); err == nil {
		t.Error("expected error for invalid frequency")
	}
}

func TestBackupLifecycle(t *testing.T) {
	svc, proc, clk := newTestService()
	ctx := context.Background()

	entry, err := svc.TriggerBackup(ctx, "user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if entry.Status != BackupInProgress {
		t.Errorf("expected in_progress, got %s", entry.Status)
	}
	if entry.SizeBytes != nil || entry.CompletedAt != nil {
		t.Error("completion fields must be empty before the run finishes")
	}

	// not yet due
	if n, err := proc.Sweep(ctx); err != nil || n != 0 {
		t.Errorf("expected no transitions before delay, got %d (%v)", n, err)
	}

	clk.Advance(3 * time.Second)
	if n, err := proc.Sweep(ctx); err != nil || n != 1 {
		t.Fatalf("expected 1 transition, got %d (%v)", n, err)
	}

	history, err := svc.ListBackupHistory(ctx, "user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(history) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(history))
	}
	got := history[0]
	if got.Status != BackupCompleted {
		t.Errorf("expected completed, got %s", got.Status)
	}
	if got.SizeBytes == nil || *got.SizeBytes <= 0 {
		t.Error("expected populated size")
	}
	if got.CompletedAt == nil || !got.CompletedAt.Equal(testStart.Add(3*time.Second)) {
		t.Errorf("expected completion at sweep time, got %v", got.CompletedAt)
	}

	// repeated sweeps are idempotent
	if n, err := proc.Sweep(ctx); err != nil || n != 0 {
		t.Errorf("expected idempotent sweep, got %d (%v)", n, err)
	}
}

func TestGetCloudStorage_AccumulatesBackups(t *testing.T) {
	svc, proc, clk := newTestService()
	ctx := context.Background()

	before, err := svc.GetCloudStorage(ctx, "user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if before.UsedBytes != storageBase || before.LastBackupAt != nil {
		t.Errorf("unexpected initial storage: %+v", before)
	}

	if _, err := svc.TriggerBackup(ctx, "user-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	clk.Advance(5 * time.Second)
	if _, err := proc.Sweep(ctx); err != nil {
		t.Fatalf("sweep: %v", err)
	}

	after, err := svc.GetCloudStorage(ctx, "user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if after.UsedBytes <= storageBase {
		t.Error("expected usage to grow after a completed backup")
	}
	if after.LastBackupAt == nil {
		t.Error("expected last backup timestamp")
	}
	if after.QuotaBytes != storageQuota {
		t.Errorf("expected fixed quota, got %d", after.QuotaBytes)
	}
}

func TestListBackupHistory_NewestFirst(t *testing.T) {
	svc, _, clk := newTestService()
	ctx := context.Background()

	first, _ := svc.TriggerBackup(ctx, "user-1")
	clk.Advance(time.Hour)
	second, _ := svc.TriggerBackup(ctx, "user-1")
	svc.TriggerBackup(ctx, "someone-else")

	history, err := svc.ListBackupHistory(ctx, "user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(history))
	}
	if history[0].ID != second.ID || history[1].ID != first.ID {
		t.Error("expected newest-first ordering")
	}
}
