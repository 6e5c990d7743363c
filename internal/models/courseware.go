// Package models defines the courseware content tree: a course owns
// textbooks, a textbook owns chapters, a chapter owns sections, a section
// owns pages, and a page carries an ordered list of content elements.
// The section is the unit of study-record lookup and progress submission.
package models

import (
	"encoding/json"
	"fmt"
)

// ContentType is the page-level tag that determines which element shapes
// and scoring rules apply to a page.
type ContentType int

const (
	ContentTypeDocument ContentType = 5 // document or plain content
	ContentTypeVideo    ContentType = 6
	ContentTypeQuestion ContentType = 7
)

// Element sub-type tags as they appear in chapter wholepage responses.
const (
	ElementTagVideo    = 4
	ElementTagQuestion = 6
	ElementTagDocument = 10
	ElementTagContent  = 12
)

// Element is a closed variant over the content kinds a page can carry:
// Video, QuestionSet, Document and Content.
type Element interface {
	isElement()
}

// Video is a single video resource on a video page.
type Video struct {
	VideoID     int64 `json:"video_id"`
	VideoLength int   `json:"video_length"` // seconds
}

// Question is one question inside a QuestionSet. Answers stays empty until
// the answer backfill pass fills it from the correct-answer endpoint.
type Question struct {
	QuestionID int64    `json:"question_id"`
	Score      int      `json:"question_score"`
	Content    string   `json:"question_content"`
	Answers    []string `json:"question_answer_list"`
}

// QuestionSet is the ordered question list of a question page element.
type QuestionSet struct {
	Questions []Question `json:"questions"`
}

// Document is a document element; only its presence matters for scoring.
type Document struct {
	Content string `json:"document_content"`
}

// Content is a plain-text element; only its presence matters for scoring.
type Content struct {
	Content string `json:"content_content"`
}

func (Video) isElement()       {}
func (QuestionSet) isElement() {}
func (Document) isElement()    {}
func (Content) isElement()     {}

// Elements is an ordered element list with a tagged JSON encoding so the
// closed variant survives config persistence.
type Elements []Element

type elementEnvelope struct {
	Kind string          `json:"kind"`
	Data json.RawMessage `json:"data"`
}

// MarshalJSON encodes each element as {"kind": ..., "data": ...}.
func (es Elements) MarshalJSON() ([]byte, error) {
	out := make([]elementEnvelope, 0, len(es))
	for _, e := range es {
		var kind string
		switch e.(type) {
		case Video:
			kind = "video"
		case QuestionSet:
			kind = "questions"
		case Document:
			kind = "document"
		case Content:
			kind = "content"
		default:
			return nil, fmt.Errorf("unknown element type %T", e)
		}
		data, err := json.Marshal(e)
		if err != nil {
			return nil, err
		}
		out = append(out, elementEnvelope{Kind: kind, Data: data})
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes the tagged envelope form produced by MarshalJSON.
func (es *Elements) UnmarshalJSON(data []byte) error {
	var envs []elementEnvelope
	if err := json.Unmarshal(data, &envs); err != nil {
		return err
	}
	result := make(Elements, 0, len(envs))
	for _, env := range envs {
		switch env.Kind {
		case "video":
			var v Video
			if err := json.Unmarshal(env.Data, &v); err != nil {
				return err
			}
			result = append(result, v)
		case "questions":
			var q QuestionSet
			if err := json.Unmarshal(env.Data, &q); err != nil {
				return err
			}
			result = append(result, q)
		case "document":
			var d Document
			if err := json.Unmarshal(env.Data, &d); err != nil {
				return err
			}
			result = append(result, d)
		case "content":
			var c Content
			if err := json.Unmarshal(env.Data, &c); err != nil {
				return err
			}
			result = append(result, c)
		default:
			return fmt.Errorf("unknown element kind %q", env.Kind)
		}
	}
	*es = result
	return nil
}

// Page is one courseware page. PageID is the directory-listing key;
// RelationID is the distinct identifier the study-record API uses to refer
// to this page. Complete must only ever be set by matching a study-record
// entry against RelationID, never against PageID.
type Page struct {
	PageID      int64       `json:"page_id"`
	RelationID  int64       `json:"page_relation_id"`
	Name        string      `json:"page_name"`
	ContentType ContentType `json:"page_content_type"`
	Complete    bool        `json:"is_complete"`
	Elements    Elements    `json:"elements"`
}

// Section is the unit of submission: one sync request covers exactly one
// section's pages.
type Section struct {
	SectionID int64           `json:"section_id"`
	Name      string          `json:"section_name"`
	Pages     map[int64]*Page `json:"pages"`
}

// Prune drops pages whose study record reported them complete.
func (s *Section) Prune() {
	for id, page := range s.Pages {
		if page.Complete {
			delete(s.Pages, id)
		}
	}
}

// Chapter groups sections.
type Chapter struct {
	ChapterID int64              `json:"chapter_id"`
	Name      string             `json:"chapter_name"`
	Sections  map[int64]*Section `json:"sections"`
}

// Prune removes completed pages from every section, then drops sections
// left empty.
func (c *Chapter) Prune() {
	for id, section := range c.Sections {
		section.Prune()
		if len(section.Pages) == 0 {
			delete(c.Sections, id)
		}
	}
}

// Textbook is one selected textbook of a course.
type Textbook struct {
	TextbookID int64              `json:"textbook_id"`
	Name       string             `json:"textbook_name"`
	Status     int                `json:"status"`
	Limit      int                `json:"limit"`
	Chapters   map[int64]*Chapter `json:"chapters"`
}

// Prune cascades through chapters and drops the ones left empty.
func (t *Textbook) Prune() {
	for id, chapter := range t.Chapters {
		chapter.Prune()
		if len(chapter.Sections) == 0 {
			delete(t.Chapters, id)
		}
	}
}

// Course is the tree root for one tracked course.
type Course struct {
	CourseID    int64               `json:"course_id"`
	Name        string              `json:"course_name"`
	ClassID     int64               `json:"class_id"`
	ClassUserID int64               `json:"class_user_id"`
	Textbooks   map[int64]*Textbook `json:"textbooks"`
}

// Prune cascades through textbooks and drops the ones left empty.
func (c *Course) Prune() {
	for id, textbook := range c.Textbooks {
		textbook.Prune()
		if len(textbook.Chapters) == 0 {
			delete(c.Textbooks, id)
		}
	}
}

// PruneCourses prunes every course bottom-up and drops courses whose
// textbook map ends up empty. Parent-removal decisions are always made
// after all children of that parent have been evaluated.
func PruneCourses(courses map[int64]*Course) {
	for id, course := range courses {
		course.Prune()
		if len(course.Textbooks) == 0 {
			delete(courses, id)
		}
	}
}

// PendingSections counts sections still carrying at least one incomplete page.
func PendingSections(courses map[int64]*Course) int {
	n := 0
	for _, course := range courses {
		for _, tb := range course.Textbooks {
			for _, ch := range tb.Chapters {
				for _, sec := range ch.Sections {
					for _, page := range sec.Pages {
						if !page.Complete {
							n++
							break
						}
					}
				}
			}
		}
	}
	return n
}
