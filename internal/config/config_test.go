package config

import (
	"testing"
	"time"

	"github.com/sena/ustudy/internal/models"
)

func TestLoadMissingFileGivesDefaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Users == nil {
		t.Fatal("Users map not initialized")
	}
	want := DefaultStudyRange()
	for name, got := range map[string]StudyRange{
		"question": cfg.StudyTime.Question,
		"document": cfg.StudyTime.Document,
		"content":  cfg.StudyTime.Content,
	} {
		if got != want {
			t.Fatalf("%s range = %+v, want default %+v", name, got, want)
		}
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	cfg.ActiveUser = "alice"
	cfg.Users["alice"] = &UserConfig{
		Site:     "ulearning",
		Username: "alice",
		Password: "secret",
		Name:     "学生甲",
		Token:    "tok",
		Cookies:  map[string]string{"USERINFO": "x"},
		Courses: map[int64]*models.Course{
			1: {
				CourseID: 1, Name: "c", ClassID: 2,
				Textbooks: map[int64]*models.Textbook{
					10: {TextbookID: 10, Chapters: map[int64]*models.Chapter{
						100: {ChapterID: 100, Sections: map[int64]*models.Section{
							1000: {SectionID: 1000, Pages: map[int64]*models.Page{
								5: {PageID: 5, RelationID: 55,
									ContentType: models.ContentTypeVideo,
									Elements: models.Elements{
										models.Video{VideoID: 9, VideoLength: 60},
									}},
							}},
						}},
					}},
				},
			},
		},
	}
	if err := Save(dir, cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := Load(dir)
	if err != nil {
		t.Fatalf("Load after save: %v", err)
	}
	user, err := loaded.Active()
	if err != nil {
		t.Fatalf("Active: %v", err)
	}
	if user.Token != "tok" || user.Name != "学生甲" {
		t.Fatalf("user = %+v", user)
	}
	page := user.Courses[1].Textbooks[10].Chapters[100].Sections[1000].Pages[5]
	if page.RelationID != 55 {
		t.Fatalf("page = %+v", page)
	}
	v, ok := page.Elements[0].(models.Video)
	if !ok || v.VideoLength != 60 {
		t.Fatalf("element = %#v, want video surviving persistence", page.Elements[0])
	}
}

func TestActiveWithoutLogin(t *testing.T) {
	cfg, _ := Load(t.TempDir())
	if _, err := cfg.Active(); err == nil {
		t.Fatal("expected error with no active user")
	}
	cfg.ActiveUser = "ghost"
	if _, err := cfg.Active(); err == nil {
		t.Fatal("expected error for missing active user entry")
	}
}

func TestValidateStudyTime(t *testing.T) {
	tests := []struct {
		name    string
		rng     StudyRange
		wantErr bool
	}{
		{"valid", StudyRange{Min: 60, Max: 120}, false},
		{"equal bounds", StudyRange{Min: 60, Max: 60}, false},
		{"min above max", StudyRange{Min: 120, Max: 60}, true},
		{"above cap", StudyRange{Min: 0, Max: 4000}, true},
		{"negative", StudyRange{Min: -1, Max: 60}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := StudyTime{Question: tt.rng, Document: DefaultStudyRange(), Content: DefaultStudyRange()}
			err := ValidateStudyTime(st)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateStudyTime(%+v) err = %v, wantErr %v", tt.rng, err, tt.wantErr)
			}
		})
	}
}

func TestValidateUserRequiresCredentials(t *testing.T) {
	if err := ValidateUser(&UserConfig{Site: "ulearning", Username: "a", Password: "b"}); err != nil {
		t.Fatalf("valid user rejected: %v", err)
	}
	if err := ValidateUser(&UserConfig{Site: "ulearning", Username: "a"}); err == nil {
		t.Fatal("expected error for missing password")
	}
}

func TestGetSleepPriority(t *testing.T) {
	cfg := &Config{}
	if got := cfg.GetSleep(); got != time.Second {
		t.Fatalf("default sleep = %v, want 1s", got)
	}
	cfg.Sleep = "250ms"
	if got := cfg.GetSleep(); got != 250*time.Millisecond {
		t.Fatalf("config sleep = %v, want 250ms", got)
	}
	t.Setenv("USTUDY_SLEEP", "2s")
	if got := cfg.GetSleep(); got != 2*time.Second {
		t.Fatalf("env sleep = %v, want 2s", got)
	}
}

func TestGetRequestTimeout(t *testing.T) {
	if got := GetRequestTimeout(); got != 15*time.Second {
		t.Fatalf("default timeout = %v, want 15s", got)
	}
	t.Setenv("USTUDY_TIMEOUT", "30s")
	if got := GetRequestTimeout(); got != 30*time.Second {
		t.Fatalf("env timeout = %v, want 30s", got)
	}
}
