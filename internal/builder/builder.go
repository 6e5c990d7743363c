// Package builder assembles and annotates the courseware content tree from
// the platform APIs: directory skeleton, per-chapter element detail,
// per-section completion records and question answer backfill.
package builder

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/sena/ustudy/internal/models"
	"github.com/sena/ustudy/internal/ulapi"
)

// Gateway is the slice of the platform API the builder consumes.
type Gateway interface {
	Directory(ctx context.Context, textbookID, classID int64) (*ulapi.DirectoryResponse, error)
	ChapterDetail(ctx context.Context, chapterID int64) (*ulapi.ChapterDetailResponse, error)
	StudyRecord(ctx context.Context, sectionID int64) (*ulapi.StudyRecordResponse, error)
	QuestionAnswers(ctx context.Context, questionID, parentID int64) ([]string, error)
}

// Builder runs the build passes serially, pausing between remote calls.
type Builder struct {
	api   Gateway
	sleep time.Duration
}

// New creates a Builder. sleep is the pause inserted between consecutive
// remote calls; zero disables pacing.
func New(api Gateway, sleep time.Duration) *Builder {
	return &Builder{api: api, sleep: sleep}
}

// Build populates course.Textbooks in place. Each textbook goes through
// four passes: the directory skeleton (authoritative for which chapters,
// sections and pages exist), element detail per chapter, completion
// records per section, and answer backfill for question pages. A failed
// directory fetch skips the textbook; a failed chapter fetch leaves that
// chapter's pages without elements; a failed record fetch leaves that
// section unannotated. A failed answer lookup aborts the whole build, since
// a question page without answers cannot be submitted.
func (b *Builder) Build(ctx context.Context, course *models.Course) error {
	for _, tb := range course.Textbooks {
		dir, err := b.api.Directory(ctx, tb.TextbookID, course.ClassID)
		if err != nil {
			slog.Warn("directory fetch failed, skipping textbook",
				"textbook", tb.TextbookID, "name", tb.Name, "error", err)
			continue
		}
		tb.Chapters = skeleton(dir)
		if err := b.pause(ctx); err != nil {
			return err
		}

		for _, ch := range tb.Chapters {
			detail, err := b.api.ChapterDetail(ctx, ch.ChapterID)
			if err != nil {
				slog.Warn("chapter detail fetch failed, skipping chapter",
					"chapter", ch.ChapterID, "name", ch.Name, "error", err)
				continue
			}
			mergeElements(ch, detail)
			if err := b.pause(ctx); err != nil {
				return err
			}
		}

		if err := b.annotate(ctx, tb); err != nil {
			return err
		}

		if err := b.backfillAnswers(ctx, tb); err != nil {
			return fmt.Errorf("textbook %d %q: %w", tb.TextbookID, tb.Name, err)
		}
	}
	return nil
}

// Refresh re-runs the completion-record pass over an already built tree.
func (b *Builder) Refresh(ctx context.Context, course *models.Course) error {
	for _, tb := range course.Textbooks {
		if err := b.annotate(ctx, tb); err != nil {
			return err
		}
	}
	return nil
}

// skeleton converts a directory response into the chapter tree. Pages
// start incomplete and element-free.
func skeleton(dir *ulapi.DirectoryResponse) map[int64]*models.Chapter {
	chapters := make(map[int64]*models.Chapter, len(dir.Chapters))
	for _, dc := range dir.Chapters {
		sections := make(map[int64]*models.Section, len(dc.Sections))
		for _, item := range dc.Sections {
			pages := make(map[int64]*models.Page, len(item.Pages))
			for _, dp := range item.Pages {
				pages[dp.ID] = &models.Page{
					PageID:      dp.ID,
					RelationID:  dp.RelationID,
					Name:        dp.Title,
					ContentType: models.ContentType(dp.ContentType),
				}
			}
			sections[item.ItemID] = &models.Section{
				SectionID: item.ItemID,
				Name:      item.Title,
				Pages:     pages,
			}
		}
		chapters[dc.NodeID] = &models.Chapter{
			ChapterID: dc.NodeID,
			Name:      dc.Title,
			Sections:  sections,
		}
	}
	return chapters
}

// mergeElements copies element detail into the skeleton. Sections or pages
// the directory never listed are ignored; the skeleton decides what exists.
func mergeElements(ch *models.Chapter, detail *ulapi.ChapterDetailResponse) {
	for _, item := range detail.Sections {
		section, ok := ch.Sections[item.ItemID]
		if !ok {
			slog.Debug("detail for unknown section ignored", "section", item.ItemID)
			continue
		}
		for _, wp := range item.Pages {
			page, ok := section.Pages[wp.ID]
			if !ok {
				slog.Debug("detail for unknown page ignored", "page", wp.ID)
				continue
			}
			page.Elements = elementsFor(page, wp)
		}
	}
}

// elementsFor filters a wholepage element list down to the shapes the
// page's declared content type admits.
func elementsFor(page *models.Page, wp ulapi.WholePage) models.Elements {
	var out models.Elements
	for _, el := range wp.Elements {
		switch page.ContentType {
		case models.ContentTypeDocument:
			switch el.Type {
			case models.ElementTagDocument:
				out = append(out, models.Document{Content: el.Content})
			case models.ElementTagContent:
				out = append(out, models.Content{Content: el.Content})
			default:
				slog.Warn("unexpected element on document page",
					"page", page.PageID, "element_type", el.Type)
			}
		case models.ContentTypeVideo:
			if el.Type == models.ElementTagVideo {
				out = append(out, models.Video{
					VideoID:     el.ResourceID,
					VideoLength: el.VideoLength,
				})
			}
		case models.ContentTypeQuestion:
			if el.Type == models.ElementTagQuestion {
				questions := make([]models.Question, 0, len(el.Questions))
				for _, q := range el.Questions {
					questions = append(questions, models.Question{
						QuestionID: q.QuestionID,
						Score:      int(q.Score),
						Content:    q.Title,
					})
				}
				out = append(out, models.QuestionSet{Questions: questions})
			}
		}
	}
	return out
}

// annotate marks pages complete from the per-section study records.
// Records refer to pages by relation id; the directory page id never
// participates in the match.
func (b *Builder) annotate(ctx context.Context, tb *models.Textbook) error {
	for _, ch := range tb.Chapters {
		for _, sec := range ch.Sections {
			rec, err := b.api.StudyRecord(ctx, sec.SectionID)
			if err != nil {
				slog.Warn("study record fetch failed, section left unannotated",
					"section", sec.SectionID, "name", sec.Name, "error", err)
				continue
			}
			if rec == nil {
				// never studied
				continue
			}
			for _, pr := range rec.Pages {
				if pr.Complete == 0 {
					continue
				}
				for _, page := range sec.Pages {
					if page.RelationID == pr.PageID {
						page.Complete = true
					}
				}
			}
			if err := b.pause(ctx); err != nil {
				return err
			}
		}
	}
	return nil
}

// backfillAnswers fills the answer list of every question that still lacks
// one. Any lookup failure aborts: a question page submitted without its
// answers would be scored wrong.
func (b *Builder) backfillAnswers(ctx context.Context, tb *models.Textbook) error {
	for _, ch := range tb.Chapters {
		for _, sec := range ch.Sections {
			for _, page := range sec.Pages {
				if page.ContentType != models.ContentTypeQuestion || page.Complete {
					continue
				}
				for _, el := range page.Elements {
					qs, ok := el.(models.QuestionSet)
					if !ok {
						continue
					}
					for i := range qs.Questions {
						if len(qs.Questions[i].Answers) > 0 {
							continue
						}
						answers, err := b.api.QuestionAnswers(ctx, qs.Questions[i].QuestionID, page.PageID)
						if err != nil {
							return fmt.Errorf("answers for question %d on page %d: %w",
								qs.Questions[i].QuestionID, page.PageID, err)
						}
						qs.Questions[i].Answers = answers
						if err := b.pause(ctx); err != nil {
							return err
						}
					}
				}
			}
		}
	}
	return nil
}

func (b *Builder) pause(ctx context.Context) error {
	if b.sleep <= 0 {
		return ctx.Err()
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(b.sleep):
		return nil
	}
}
