// Package synth fabricates plausible per-section study records: reported
// study durations drawn from configured ranges, full video playback with a
// small jitter, and question answers carried over from the content tree.
package synth

import (
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/sena/ustudy/internal/config"
	"github.com/sena/ustudy/internal/models"
	"github.com/sena/ustudy/internal/ulapi"
)

// maxStudySeconds caps any reported per-page duration.
const maxStudySeconds = 3600

// Synthesizer builds sync requests. Randomness and the wall clock are
// injected so fabrication is reproducible under test.
type Synthesizer struct {
	rand  *rand.Rand
	now   func() time.Time
	times config.StudyTime
}

// New creates a Synthesizer drawing durations from times.
func New(r *rand.Rand, now func() time.Time, times config.StudyTime) *Synthesizer {
	return &Synthesizer{rand: r, now: now, times: times}
}

// BuildRequest fabricates a complete submission for one section. startTime
// is the server-issued session timestamp from section initialization.
// Pages with an unrecognized content type are logged and left out; every
// other page is reported complete.
func (s *Synthesizer) BuildRequest(section *models.Section, startTime int64, userName string) *ulapi.SyncRequest {
	records := make([]ulapi.PageStudyRecord, 0, len(section.Pages))

	for _, page := range section.Pages {
		rec := ulapi.PageStudyRecord{
			PageID:       page.RelationID,
			Complete:     1,
			AnswerTime:   1,
			SubmitTimes:  0,
			CoursePageID: page.PageID,
			Questions:    make([]ulapi.QuestionRecord, 0),
			Videos:       make([]ulapi.VideoRecord, 0),
			Speaks:       make([]any, 0),
		}

		switch page.ContentType {
		case models.ContentTypeDocument:
			rec.Score = 100
			rec.StudyTime = s.documentStudyTime(page)
		case models.ContentTypeVideo:
			rec.Score = 100
			rec.StudyTime, rec.Videos = s.videoRecords(page)
		case models.ContentTypeQuestion:
			rec.StudyTime = s.drawSeconds(s.times.Question)
			rec.Score, rec.Questions = questionRecords(page)
		default:
			slog.Warn("unknown page content type, page omitted",
				"page", page.PageID, "content_type", int(page.ContentType))
			continue
		}

		records = append(records, rec)
	}

	return &ulapi.SyncRequest{
		ItemID:         section.SectionID,
		AutoSave:       1,
		WithoutOld:     nil,
		Complete:       1,
		StudyStartTime: startTime,
		UserName:       userName,
		Score:          100,
		Pages:          records,
	}
}

// documentStudyTime draws a per-element duration and scales it by the
// element count. Document and plain-content pages share the content type
// tag, so the range is picked by which element shape the page carries.
func (s *Synthesizer) documentStudyTime(page *models.Page) int {
	rng := s.times.Content
	for _, el := range page.Elements {
		if _, ok := el.(models.Document); ok {
			rng = s.times.Document
			break
		}
	}
	t := s.drawSeconds(rng) * len(page.Elements)
	if t > maxStudySeconds {
		t = maxStudySeconds
	}
	return t
}

// videoRecords reports each video as watched nearly end to end: the
// claimed playhead stops a 1-8 second jitter short of the full length, and
// the watch interval is anchored at the current wall clock.
func (s *Synthesizer) videoRecords(page *models.Page) (int, []ulapi.VideoRecord) {
	studyTime := 0
	videos := make([]ulapi.VideoRecord, 0)
	for _, el := range page.Elements {
		v, ok := el.(models.Video)
		if !ok {
			continue
		}
		watched := float64(v.VideoLength) - (1 + s.rand.Float64()*7)
		if watched < 0 {
			watched = 0
		}
		start := s.now().Unix()
		videos = append(videos, ulapi.VideoRecord{
			VideoID:    v.VideoID,
			Current:    watched,
			Status:     1,
			RecordTime: int(watched),
			Time:       float64(v.VideoLength),
			StartEndTimes: []ulapi.StartEndTime{
				{StartTime: start, EndTime: start + int64(watched)},
			},
		})
		studyTime += v.VideoLength
	}
	return studyTime, videos
}

// questionRecords carries the backfilled answers into the submission and
// claims full marks: the page score is the sum of the question scores.
func questionRecords(page *models.Page) (int, []ulapi.QuestionRecord) {
	score := 0
	questions := make([]ulapi.QuestionRecord, 0)
	for _, el := range page.Elements {
		qs, ok := el.(models.QuestionSet)
		if !ok {
			continue
		}
		for _, q := range qs.Questions {
			score += q.Score
			questions = append(questions, ulapi.QuestionRecord{
				QuestionID: q.QuestionID,
				Answers:    q.Answers,
				Score:      q.Score,
			})
		}
	}
	return score, questions
}

// drawSeconds picks a duration from [min, max], capped at an hour.
func (s *Synthesizer) drawSeconds(r config.StudyRange) int {
	t := r.Min
	if r.Max > r.Min {
		t += s.rand.IntN(r.Max - r.Min + 1)
	}
	if t > maxStudySeconds {
		t = maxStudySeconds
	}
	return t
}
