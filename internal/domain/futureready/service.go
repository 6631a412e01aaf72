package futureready

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/shashank-icloud/ayusetu-mobi-sub002/internal/platform/clock"
	"github.com/shashank-icloud/ayusetu-mobi-sub002/internal/platform/dispatch"
	"github.com/shashank-icloud/ayusetu-mobi-sub002/internal/platform/rest"
)

const (
	storageProvider = "ayusetu-cloud"
	storageQuota    = 5 << 30 // 5 GiB per user
	storageBase     = 250_000_000
)

type Service struct {
	d        dispatch.Dispatcher
	api      *rest.Client
	settings SettingsRepository
	backups  BackupRepository
	clk      clock.Clock
	log      zerolog.Logger
}

func NewService(d dispatch.Dispatcher, api *rest.Client, settings SettingsRepository, backups BackupRepository, clk clock.Clock, log zerolog.Logger) *Service {
	return &Service{d: d, api: api, settings: settings, backups: backups, clk: clk, log: log}
}

// GetCloudStorage summarizes usage: a base footprint plus the size of every
// completed backup on file.
func (s *Service) GetCloudStorage(ctx context.Context, userID string) (*CloudStorage, error) {
	return dispatch.Do(ctx, s.d, dispatch.LatencyRead,
		func() (*CloudStorage, error) {
			entries, err := s.backups.ListByUser(ctx, userID)
			if err != nil {
				return nil, err
			}
			storage := &CloudStorage{
				UserID:     userID,
				Provider:   storageProvider,
				UsedBytes:  storageBase,
				QuotaBytes: storageQuota,
			}
			for _, e := range entries {
				if e.Status != BackupCompleted {
					continue
				}
				if e.SizeBytes != nil {
					storage.UsedBytes += *e.SizeBytes
				}
				if storage.LastBackupAt == nil || e.CompletedAt.After(*storage.LastBackupAt) {
					storage.LastBackupAt = e.CompletedAt
				}
			}
			return storage, nil
		},
		func(ctx context.Context) (*CloudStorage, error) {
			var storage CloudStorage
			if err := s.api.Get(ctx, "/futureready/storage/"+url.PathEscape(userID), &storage); err != nil {
				return nil, mapRemoteNotFound(err)
			}
			return &storage, nil
		})
}

// GetBackupSettings returns the user's preferences, defaulting new users to
// weekly wifi-only encrypted backups.
func (s *Service) GetBackupSettings(ctx context.Context, userID string) (*BackupSettings, error) {
	return dispatch.Do(ctx, s.d, dispatch.LatencyRead,
		func() (*BackupSettings, error) {
			return s.getOrDefault(ctx, userID)
		},
		func(ctx context.Context) (*BackupSettings, error) {
			var settings BackupSettings
			if err := s.api.Get(ctx, "/futureready/backup/settings/"+url.PathEscape(userID), &settings); err != nil {
				return nil, mapRemoteNotFound(err)
			}
			return &settings, nil
		})
}

// UpdateBackupSettings applies a shallow merge of the given changes and
// returns the merged result.
func (s *Service) UpdateBackupSettings(ctx context.Context, userID string, changes BackupSettingsChanges) (*BackupSettings, error) {
	if err := changes.Validate(); err != nil {
		return nil, err
	}

	return dispatch.Do(ctx, s.d, dispatch.LatencyWrite,
		func() (*BackupSettings, error) {
			settings, err := s.getOrDefault(ctx, userID)
			if err != nil {
				return nil, err
			}
			if changes.AutoBackup != nil {
				settings.AutoBackup = *changes.AutoBackup
			}
			if changes.Frequency != nil {
				settings.Frequency = *changes.Frequency
			}
			if changes.WifiOnly != nil {
				settings.WifiOnly = *changes.WifiOnly
			}
			if changes.IncludeDocuments != nil {
				settings.IncludeDocuments = *changes.IncludeDocuments
			}
			if changes.Encrypted != nil {
				settings.Encrypted = *changes.Encrypted
			}
			settings.UpdatedAt = s.clk.Now()
			if err := s.settings.Save(ctx, settings); err != nil {
				return nil, err
			}
			return settings, nil
		},
		func(ctx context.Context) (*BackupSettings, error) {
			var settings BackupSettings
			if err := s.api.Put(ctx, "/futureready/backup/settings/"+url.PathEscape(userID), changes, &settings); err != nil {
				return nil, mapRemoteNotFound(err)
			}
			return &settings, nil
		})
}

func (s *Service) getOrDefault(ctx context.Context, userID string) (*BackupSettings, error) {
	settings, err := s.settings.Get(ctx, userID)
	if errors.Is(err, ErrNotFound) {
		settings = &BackupSettings{
			UserID:           userID,
			AutoBackup:       true,
			Frequency:        FreqWeekly,
			WifiOnly:         true,
			IncludeDocuments: true,
			Encrypted:        true,
			UpdatedAt:        s.clk.Now(),
		}
		if err := s.settings.Save(ctx, settings); err != nil {
			return nil, err
		}
		return settings, nil
	}
	return settings, err
}

// ListBackupHistory returns the user's backup runs, newest first.
func (s *Service) ListBackupHistory(ctx context.Context, userID string) ([]*BackupEntry, error) {
	return dispatch.Do(ctx, s.d, dispatch.LatencyList,
		func() ([]*BackupEntry, error) {
			return s.backups.ListByUser(ctx, userID)
		},
		func(ctx context.Context) ([]*BackupEntry, error) {
			var entries []*BackupEntry
			if err := s.api.Get(ctx, "/futureready/backup/history/"+url.PathEscape(userID), &entries); err != nil {
				return nil, err
			}
			return entries, nil
		})
}

// TriggerBackup starts a backup run; the processor completes it.
func (s *Service) TriggerBackup(ctx context.Context, userID string) (*BackupEntry, error) {
	return dispatch.Do(ctx, s.d, dispatch.LatencyRequest,
		func() (*BackupEntry, error) {
			entry := &BackupEntry{
				ID:        uuid.New(),
				UserID:    userID,
				Status:    BackupInProgress,
				StartedAt: s.clk.Now(),
			}
			if err := s.backups.Create(ctx, entry); err != nil {
				return nil, err
			}
			s.log.Info().Stringer("backup_id", entry.ID).Str("user_id", userID).Msg("backup started")
			return entry, nil
		},
		func(ctx context.Context) (*BackupEntry, error) {
			var entry BackupEntry
			if err := s.api.Post(ctx, "/futureready/backup/trigger/"+url.PathEscape(userID), nil, &entry); err != nil {
				return nil, err
			}
			return &entry, nil
		})
}

func mapRemoteNotFound(err error) error {
	var apiErr *rest.APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	return err
}
