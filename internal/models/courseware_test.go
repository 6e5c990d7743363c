package models

import (
	"encoding/json"
	"testing"
)

func page(id, relID int64, ct ContentType, complete bool) *Page {
	return &Page{PageID: id, RelationID: relID, ContentType: ct, Complete: complete}
}

func singlePageCourse(complete bool) map[int64]*Course {
	return map[int64]*Course{
		1: {
			CourseID: 1,
			Textbooks: map[int64]*Textbook{
				10: {
					TextbookID: 10,
					Chapters: map[int64]*Chapter{
						100: {
							ChapterID: 100,
							Sections: map[int64]*Section{
								1000: {
									SectionID: 1000,
									Pages: map[int64]*Page{
										5: page(5, 55, ContentTypeDocument, complete),
									},
								},
							},
						},
					},
				},
			},
		},
	}
}

func TestPruneCascadesToCourse(t *testing.T) {
	courses := singlePageCourse(true)
	PruneCourses(courses)
	if len(courses) != 0 {
		t.Fatalf("expected course removed after its only page completed, got %d courses", len(courses))
	}
}

func TestPruneKeepsIncomplete(t *testing.T) {
	courses := singlePageCourse(false)
	PruneCourses(courses)
	if len(courses) != 1 {
		t.Fatalf("expected incomplete course kept, got %d courses", len(courses))
	}
	sec := courses[1].Textbooks[10].Chapters[100].Sections[1000]
	if len(sec.Pages) != 1 {
		t.Fatalf("expected 1 page, got %d", len(sec.Pages))
	}
}

func TestPruneMixedSection(t *testing.T) {
	courses := singlePageCourse(false)
	sec := courses[1].Textbooks[10].Chapters[100].Sections[1000]
	sec.Pages[6] = page(6, 66, ContentTypeVideo, true)

	PruneCourses(courses)

	sec = courses[1].Textbooks[10].Chapters[100].Sections[1000]
	if len(sec.Pages) != 1 {
		t.Fatalf("expected completed page dropped, got %d pages", len(sec.Pages))
	}
	if _, ok := sec.Pages[5]; !ok {
		t.Fatal("incomplete page was dropped")
	}
}

func TestPruneIdempotent(t *testing.T) {
	courses := singlePageCourse(false)
	courses[1].Textbooks[10].Chapters[100].Sections[1000].Pages[6] = page(6, 66, ContentTypeVideo, true)

	PruneCourses(courses)
	first, _ := json.Marshal(courses)
	PruneCourses(courses)
	second, _ := json.Marshal(courses)

	if string(first) != string(second) {
		t.Fatal("second prune changed the tree")
	}
}

func TestPendingSections(t *testing.T) {
	courses := singlePageCourse(false)
	if got := PendingSections(courses); got != 1 {
		t.Fatalf("PendingSections = %d, want 1", got)
	}
	courses[1].Textbooks[10].Chapters[100].Sections[1000].Pages[5].Complete = true
	if got := PendingSections(courses); got != 0 {
		t.Fatalf("PendingSections = %d, want 0", got)
	}
}

func TestElementsJSONRoundTrip(t *testing.T) {
	original := Elements{
		Video{VideoID: 7, VideoLength: 120},
		QuestionSet{Questions: []Question{
			{QuestionID: 1, Score: 40, Content: "q1", Answers: []string{"A"}},
			{QuestionID: 2, Score: 65, Content: "q2", Answers: []string{"B", "C"}},
		}},
		Document{Content: "doc"},
		Content{Content: "text"},
	}

	data, err := json.Marshal(original)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var decoded Elements
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(decoded) != len(original) {
		t.Fatalf("got %d elements, want %d", len(decoded), len(original))
	}
	if v, ok := decoded[0].(Video); !ok || v.VideoID != 7 || v.VideoLength != 120 {
		t.Fatalf("element 0 = %#v, want original video", decoded[0])
	}
	qs, ok := decoded[1].(QuestionSet)
	if !ok || len(qs.Questions) != 2 {
		t.Fatalf("element 1 = %#v, want question set with 2 questions", decoded[1])
	}
	if qs.Questions[1].Answers[1] != "C" {
		t.Fatalf("answers lost in round trip: %#v", qs.Questions[1])
	}
	if _, ok := decoded[2].(Document); !ok {
		t.Fatalf("element 2 = %#v, want document", decoded[2])
	}
	if _, ok := decoded[3].(Content); !ok {
		t.Fatalf("element 3 = %#v, want content", decoded[3])
	}
}

func TestElementsUnknownKindRejected(t *testing.T) {
	var es Elements
	err := json.Unmarshal([]byte(`[{"kind":"hologram","data":{}}]`), &es)
	if err == nil {
		t.Fatal("expected error for unknown element kind")
	}
}
