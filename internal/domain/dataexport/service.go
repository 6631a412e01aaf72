package dataexport

import (
	"context"
	crypto_rand "crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/shashank-icloud/ayusetu-mobi-sub002/internal/platform/clock"
	"github.com/shashank-icloud/ayusetu-mobi-sub002/internal/platform/dispatch"
	"github.com/shashank-icloud/ayusetu-mobi-sub002/internal/platform/rest"
)

var (
	// ErrNotReady is returned when a download is requested before the job
	// completes.
	ErrNotReady = errors.New("export not ready for download")
	// ErrExpired is returned when a completed artifact has aged out.
	ErrExpired = errors.New("export has expired")
	// ErrShareExhausted is returned when a share link's access ceiling is
	// reached.
	ErrShareExhausted = errors.New("share link access limit reached")
	// ErrSharePassword is returned when a password-protected share link is
	// redeemed with the wrong password.
	ErrSharePassword = errors.New("share link password mismatch")
)

const (
	artifactExpiry     = 7 * 24 * time.Hour
	defaultShareExpiry = 72 * time.Hour
	shareBaseURL       = "https://share.ayusetu.health/e/"
)

// ExportRequest carries the parameters of a new export job.
type ExportRequest struct {
	Format      ExportFormat `json:"format"`
	RecordTypes []string     `json:"record_types"`
	Range       DateRange    `json:"date_range"`
}

// ShareRequest carries the parameters of a new share link.
type ShareRequest struct {
	Recipient       *string `json:"recipient,omitempty"`
	ExpiresInHours  int     `json:"expires_in_hours,omitempty"`
	RequirePassword bool    `json:"require_password,omitempty"`
}

// Service implements the export job lifecycle. In developer mode jobs live in
// the local repository and are completed by the background Processor; in live
// mode generation is delegated to the remote API and the repository acts as
// local history.
type Service struct {
	d       dispatch.Dispatcher
	api     *rest.Client
	exports ExportRepository
	shares  ShareLinkRepository
	clk     clock.Clock
	log     zerolog.Logger
}

func NewService(d dispatch.Dispatcher, api *rest.Client, exports ExportRepository, shares ShareLinkRepository, clk clock.Clock, log zerolog.Logger) *Service {
	return &Service{d: d, api: api, exports: exports, shares: shares, clk: clk, log: log}
}

func (s *Service) RequestExport(ctx context.Context, req ExportRequest) (*ExportJob, error) {
	if !req.Format.Valid() {
		return nil, fmt.Errorf("invalid format: %s", req.Format)
	}
	recordTypes, err := NormalizeRecordTypes(req.RecordTypes)
	if err != nil {
		return nil, err
	}
	if err := req.Range.Validate(); err != nil {
		return nil, err
	}
	req.RecordTypes = recordTypes

	return dispatch.Do(ctx, s.d, dispatch.LatencyRequest,
		func() (*ExportJob, error) {
			job := &ExportJob{
				ID:          uuid.New(),
				Format:      req.Format,
				RecordTypes: req.RecordTypes,
				Range:       req.Range,
				Status:      StatusProcessing,
				CreatedAt:   s.clk.Now(),
			}
			if err := s.exports.Create(ctx, job); err != nil {
				return nil, err
			}
			return job, nil
		},
		func(ctx context.Context) (*ExportJob, error) {
			var job ExportJob
			if err := s.api.Post(ctx, "/export/request", req, &job); err != nil {
				return nil, err
			}
			s.recordHistory(ctx, &job)
			return &job, nil
		})
}

// GetExportStatus looks up a job by id. A completed job whose artifact has
// aged out is transitioned to expired before being returned; an unknown id is
// ErrNotFound.
func (s *Service) GetExportStatus(ctx context.Context, id uuid.UUID) (*ExportJob, error) {
	return dispatch.Do(ctx, s.d, dispatch.LatencyRead,
		func() (*ExportJob, error) {
			job, err := s.exports.Get(ctx, id)
			if err != nil {
				return nil, err
			}
			return s.expireIfDue(ctx, job)
		},
		func(ctx context.Context) (*ExportJob, error) {
			var job ExportJob
			if err := s.api.Get(ctx, "/export/status/"+id.String(), &job); err != nil {
				return nil, mapRemoteNotFound(err)
			}
			s.recordHistory(ctx, &job)
			return &job, nil
		})
}

// DownloadExport returns the artifact locator for a completed, unexpired job.
func (s *Service) DownloadExport(ctx context.Context, id uuid.UUID) (*DownloadInfo, error) {
	return dispatch.Do(ctx, s.d, dispatch.LatencyRead,
		func() (*DownloadInfo, error) {
			job, err := s.exports.Get(ctx, id)
			if err != nil {
				return nil, err
			}
			job, err = s.expireIfDue(ctx, job)
			if err != nil {
				return nil, err
			}
			return downloadInfo(job)
		},
		func(ctx context.Context) (*DownloadInfo, error) {
			var info DownloadInfo
			if err := s.api.Get(ctx, "/export/download/"+id.String(), &info); err != nil {
				return nil, mapRemoteNotFound(err)
			}
			return &info, nil
		})
}

// ShareExport issues a share link for an existing job. A recipient-addressed
// link is single-use; an open link has no access ceiling.
func (s *Service) ShareExport(ctx context.Context, id uuid.UUID, req ShareRequest) (*ShareLink, error) {
	expiresIn := defaultShareExpiry
	if req.ExpiresInHours > 0 {
		expiresIn = time.Duration(req.ExpiresInHours) * time.Hour
	}

	return dispatch.Do(ctx, s.d, dispatch.LatencyWrite,
		func() (*ShareLink, error) {
			if _, err := s.exports.Get(ctx, id); err != nil {
				return nil, err
			}
			return s.issueShareLink(ctx, id, req, expiresIn)
		},
		func(ctx context.Context) (*ShareLink, error) {
			if err := s.api.Post(ctx, "/export/share/"+id.String(), req, nil); err != nil {
				return nil, mapRemoteNotFound(err)
			}
			return s.issueShareLink(ctx, id, req, expiresIn)
		})
}

func (s *Service) issueShareLink(ctx context.Context, id uuid.UUID, req ShareRequest, expiresIn time.Duration) (*ShareLink, error) {
	now := s.clk.Now()
	link := &ShareLink{
		Token:     uuid.New(),
		ExportID:  id,
		Recipient: req.Recipient,
		ExpiresAt: now.Add(expiresIn),
		CreatedAt: now,
	}
	link.URL = shareBaseURL + link.Token.String()
	if req.Recipient != nil {
		one := 1
		link.MaxAccessCount = &one
	}
	if req.RequirePassword {
		pw, err := generatePassword()
		if err != nil {
			return nil, err
		}
		link.Password = &pw
		link.PasswordSet = true
	}
	if err := s.shares.Create(ctx, link); err != nil {
		return nil, err
	}
	// The caller sees the generated password once, at creation; it is never
	// serialized on later reads.
	return link, nil
}

// RedeemShareLink converts a share token into download info, enforcing
// expiry, password and the access ceiling. Redemption is local in both modes
// since this server issues the links.
func (s *Service) RedeemShareLink(ctx context.Context, token uuid.UUID, password string) (*DownloadInfo, error) {
	link, err := s.shares.Get(ctx, token)
	if err != nil {
		return nil, err
	}
	now := s.clk.Now()
	if now.After(link.ExpiresAt) {
		return nil, ErrExpired
	}
	if link.Exhausted() {
		return nil, ErrShareExhausted
	}
	if link.Password != nil && *link.Password != password {
		return nil, ErrSharePassword
	}

	// Claim the access before producing the locator. The repository makes the
	// increment conditional on the ceiling, so concurrent redeemers of a
	// single-use link race on the claim, not on a stale read.
	if err := s.shares.RecordAccess(ctx, link.Token); err != nil {
		return nil, err
	}
	return s.DownloadExport(ctx, link.ExportID)
}

// DeleteExport removes a job. Deleting an unknown id succeeds.
func (s *Service) DeleteExport(ctx context.Context, id uuid.UUID) error {
	_, err := dispatch.Do(ctx, s.d, dispatch.LatencyWrite,
		func() (struct{}, error) {
			return struct{}{}, s.exports.Delete(ctx, id)
		},
		func(ctx context.Context) (struct{}, error) {
			if err := s.api.Delete(ctx, "/export/"+id.String(), nil); err != nil {
				var apiErr *rest.APIError
				// The remote treats deletion as idempotent too.
				if !errors.As(err, &apiErr) || apiErr.StatusCode != 404 {
					return struct{}{}, err
				}
			}
			return struct{}{}, s.exports.Delete(ctx, id)
		})
	return err
}

// ListExports returns export history, newest first.
func (s *Service) ListExports(ctx context.Context, limit, offset int) ([]*ExportJob, int, error) {
	type page struct {
		jobs  []*ExportJob
		total int
	}
	p, err := dispatch.Do(ctx, s.d, dispatch.LatencyList,
		func() (page, error) {
			jobs, total, err := s.exports.List(ctx, limit, offset)
			return page{jobs, total}, err
		},
		func(ctx context.Context) (page, error) {
			var resp struct {
				Data  []*ExportJob `json:"data"`
				Total int          `json:"total"`
			}
			path := fmt.Sprintf("/export/history?limit=%d&offset=%d", limit, offset)
			if err := s.api.Get(ctx, path, &resp); err != nil {
				return page{}, err
			}
			return page{resp.Data, resp.Total}, nil
		})
	if err != nil {
		return nil, 0, err
	}
	return p.jobs, p.total, nil
}

// expireIfDue transitions a completed job past its expiry into the expired
// state, persisting the transition so repeated polls stay consistent.
func (s *Service) expireIfDue(ctx context.Context, job *ExportJob) (*ExportJob, error) {
	if !job.ExpiredAt(s.clk.Now()) {
		return job, nil
	}
	job.Status = StatusExpired
	if err := s.exports.Update(ctx, job); err != nil {
		return nil, err
	}
	return job, nil
}

// recordHistory mirrors a remote job into the local history store. Failures
// are logged, not propagated: history is a cache, the remote answer stands.
func (s *Service) recordHistory(ctx context.Context, job *ExportJob) {
	if err := s.exports.Update(ctx, job); err == nil {
		return
	} else if !errors.Is(err, ErrNotFound) {
		s.log.Warn().Err(err).Stringer("export_id", job.ID).Msg("record export history")
		return
	}
	if err := s.exports.Create(ctx, job); err != nil {
		s.log.Warn().Err(err).Stringer("export_id", job.ID).Msg("record export history")
	}
}

func downloadInfo(job *ExportJob) (*DownloadInfo, error) {
	switch job.Status {
	case StatusCompleted:
	case StatusExpired:
		return nil, ErrExpired
	default:
		return nil, ErrNotReady
	}
	if job.DownloadURL == nil || job.FileSize == nil || job.ExpiresAt == nil {
		return nil, fmt.Errorf("completed job %s missing artifact fields", job.ID)
	}
	return &DownloadInfo{
		ExportID:  job.ID,
		URL:       *job.DownloadURL,
		FileSize:  *job.FileSize,
		ExpiresAt: *job.ExpiresAt,
	}, nil
}

func mapRemoteNotFound(err error) error {
	var apiErr *rest.APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode == 404 {
		return ErrNotFound
	}
	return err
}

func generatePassword() (string, error) {
	var buf [4]byte
	if _, err := crypto_rand.Read(buf[:]); err != nil {
		return "", fmt.Errorf("generate share password: %w", err)
	}
	return hex.EncodeToString(buf[:]), nil
}
