// Package driver walks the pruned content tree and submits fabricated
// study records section by section: initialize a study session, send
// best-effort watch pings for video pages, then sync the encrypted record
// with a bounded retry.
package driver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sena/ustudy/internal/crypto"
	"github.com/sena/ustudy/internal/models"
	"github.com/sena/ustudy/internal/store"
	"github.com/sena/ustudy/internal/synth"
	"github.com/sena/ustudy/internal/ulapi"
)

// maxAttempts bounds the submit tries per section (one initial try plus
// three retries).
const maxAttempts = 4

// API is the slice of the platform gateway the driver consumes.
type API interface {
	InitializeSection(ctx context.Context, sectionID int64) (int64, error)
	WatchVideo(ctx context.Context, classID, courseID, chapterID, videoID int64) error
	SyncStudyRecord(ctx context.Context, encryptedBody string) error
}

// Recorder persists submission outcomes.
type Recorder interface {
	Record(sub store.Submission) error
}

// Stats summarizes one driver run.
type Stats struct {
	Submitted int
	Failed    int
	Skipped   int
}

// Driver submits sections serially with pacing between remote calls.
type Driver struct {
	api      API
	synth    *synth.Synthesizer
	hist     Recorder
	sleep    time.Duration
	username string
}

// New creates a Driver. hist may be nil to skip history recording. username
// is the learner display name the platform expects inside sync payloads.
func New(api API, sy *synth.Synthesizer, hist Recorder, sleep time.Duration, username string) *Driver {
	return &Driver{api: api, synth: sy, hist: hist, sleep: sleep, username: username}
}

// Run submits every section still carrying incomplete pages. Failures are
// isolated per section; only context cancellation or an encode failure
// aborts the run. A successful submit does not mark pages complete locally;
// the next refresh confirms completion from the platform's own records.
func (d *Driver) Run(ctx context.Context, courses map[int64]*models.Course) (Stats, error) {
	var stats Stats
	for _, course := range courses {
		slog.Info("submitting course", "course", course.CourseID, "name", course.Name)
		for _, tb := range course.Textbooks {
			for _, ch := range tb.Chapters {
				for _, sec := range ch.Sections {
					if !hasPending(sec) {
						continue
					}
					if err := d.submitSection(ctx, course, tb, ch, sec, &stats); err != nil {
						return stats, err
					}
				}
			}
		}
	}
	return stats, nil
}

func hasPending(sec *models.Section) bool {
	for _, page := range sec.Pages {
		if !page.Complete {
			return true
		}
	}
	return false
}

func (d *Driver) submitSection(ctx context.Context, course *models.Course, tb *models.Textbook, ch *models.Chapter, sec *models.Section, stats *Stats) error {
	slog.Info("submitting section", "section", sec.SectionID, "name", sec.Name)

	startTime, err := d.api.InitializeSection(ctx, sec.SectionID)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		slog.Warn("section initialize failed, skipping section",
			"section", sec.SectionID, "error", err)
		stats.Skipped++
		d.record(course, sec, 0, nil, store.StatusFailed)
		return d.pause(ctx)
	}

	d.watchPings(ctx, course, tb, ch, sec)

	attempts := 0
	for attempts < maxAttempts {
		attempts++

		// A fresh payload every try: new durations, new video intervals.
		req := d.synth.BuildRequest(sec, startTime, d.username)
		body, err := crypto.EncodePayload(req)
		if err != nil {
			return fmt.Errorf("encode record for section %d: %w", sec.SectionID, err)
		}

		err = d.api.SyncStudyRecord(ctx, body)
		if err == nil {
			slog.Info("section submitted", "section", sec.SectionID, "attempts", attempts)
			stats.Submitted++
			d.record(course, sec, attempts, req.Pages, store.StatusOK)
			return d.pause(ctx)
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		slog.Warn("section submit failed", "section", sec.SectionID, "attempt", attempts, "error", err)
		if err := d.pause(ctx); err != nil {
			return err
		}
	}

	slog.Error("section submit gave up", "section", sec.SectionID, "attempts", attempts)
	stats.Failed++
	d.record(course, sec, attempts, nil, store.StatusFailed)
	return nil
}

// watchPings reports a watch-video behavior event per video element. The
// pings are cosmetic; failures are logged and never block the submit.
func (d *Driver) watchPings(ctx context.Context, course *models.Course, tb *models.Textbook, ch *models.Chapter, sec *models.Section) {
	for _, page := range sec.Pages {
		if page.ContentType != models.ContentTypeVideo {
			continue
		}
		for _, el := range page.Elements {
			v, ok := el.(models.Video)
			if !ok {
				continue
			}
			if err := d.api.WatchVideo(ctx, course.ClassID, tb.TextbookID, ch.ChapterID, v.VideoID); err != nil {
				slog.Warn("watch ping failed", "video", v.VideoID, "error", err)
			}
		}
	}
}

func (d *Driver) record(course *models.Course, sec *models.Section, attempts int, pages []ulapi.PageStudyRecord, status string) {
	if d.hist == nil {
		return
	}
	score, studyTime := 0, 0
	for _, p := range pages {
		score += p.Score
		studyTime += p.StudyTime
	}
	sub := store.Submission{
		Username:    d.username,
		CourseID:    course.CourseID,
		CourseName:  course.Name,
		SectionID:   sec.SectionID,
		SectionName: sec.Name,
		Attempts:    attempts,
		Score:       score,
		StudyTime:   studyTime,
		Status:      status,
	}
	if err := d.hist.Record(sub); err != nil {
		slog.Warn("record submission history failed", "section", sec.SectionID, "error", err)
	}
}

func (d *Driver) pause(ctx context.Context) error {
	if d.sleep <= 0 {
		return ctx.Err()
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d.sleep):
		return nil
	}
}
