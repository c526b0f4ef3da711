package cron

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/mlefebvre/parcinfo-backend/pkg/logger"
)

const signatureSweepGrace = time.Hour

type signatureURLLoader interface {
	SignatureURLs(ctx context.Context) ([]string, error)
}

// SignatureSweepJobParams configure the orphaned signature cleanup job.
type SignatureSweepJobParams struct {
	Logger *logger.Logger
	Loans  signatureURLLoader
	Dir    string
	Grace  time.Duration
}

// NewSignatureSweepJob builds a job that removes signature images no
// loan references anymore, typically left behind when a delete-side
// file removal failed after commit.
func NewSignatureSweepJob(params SignatureSweepJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Loans == nil {
		return nil, fmt.Errorf("loans repository required")
	}
	if params.Dir == "" {
		return nil, fmt.Errorf("signature dir required")
	}
	grace := params.Grace
	if grace <= 0 {
		grace = signatureSweepGrace
	}
	return &signatureSweepJob{
		logg:  params.Logger,
		loans: params.Loans,
		dir:   params.Dir,
		grace: grace,
		now:   time.Now,
	}, nil
}

type signatureSweepJob struct {
	logg  *logger.Logger
	loans signatureURLLoader
	dir   string
	grace time.Duration
	now   func() time.Time
}

func (j *signatureSweepJob) Name() string { return "signature-sweep" }

func (j *signatureSweepJob) Run(ctx context.Context) error {
	urls, err := j.loans.SignatureURLs(ctx)
	if err != nil {
		return fmt.Errorf("load signature urls: %w", err)
	}
	referenced := make(map[string]struct{}, len(urls))
	for _, url := range urls {
		referenced[path.Base(url)] = struct{}{}
	}

	entries, err := os.ReadDir(j.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read signature dir: %w", err)
	}

	cutoff := j.now().Add(-j.grace)
	var removed int
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if _, ok := referenced[entry.Name()]; ok {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		// Files newer than the grace window may belong to an upload
		// whose transaction has not committed yet.
		if info.ModTime().After(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(j.dir, entry.Name())); err != nil {
			j.logg.Warn(ctx, fmt.Sprintf("failed to remove orphaned signature %s: %v", entry.Name(), err))
			continue
		}
		removed++
	}

	logCtx := j.logg.WithFields(ctx, map[string]any{
		"dir":           j.dir,
		"referenced":    len(referenced),
		"files_removed": removed,
	})
	j.logg.Info(logCtx, "signature sweep complete")
	return nil
}
