package ulapi

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"
)

func testClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c := New(Site{Name: "test"}, "token", nil, 5*time.Second)
	c.SetBaseURLs(srv.URL)
	return c
}

func TestSyncStudyRecordSuccessPredicate(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{"accepted", 200, "1", nil},
		{"body zero is a rejection", 200, "0", ErrRejected},
		{"other body is a rejection", 200, `{"ok":true}`, ErrRejected},
		{"server error", 500, "1", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotQuery url.Values
			var gotBody string
			c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotQuery = r.URL.Query()
				buf, _ := io.ReadAll(r.Body)
				gotBody = string(buf)
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))

			err := c.SyncStudyRecord(context.Background(), "Y2lwaGVydGV4dA==")
			if tt.status != 200 {
				if err == nil {
					t.Fatal("expected error for non-200 status")
				}
				return
			}
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("SyncStudyRecord: %v", err)
				}
				if gotQuery.Get("courseType") != "4" || gotQuery.Get("platform") != "PC" {
					t.Fatalf("query = %v, want courseType=4 platform=PC", gotQuery)
				}
				if gotBody != "Y2lwaGVydGV4dA==" {
					t.Fatalf("body = %q, want raw ciphertext passthrough", gotBody)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestStudyRecordEmptyBodyMeansNotStudied(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("courseType") != "4" {
			t.Errorf("missing courseType=4, got %v", r.URL.Query())
		}
		w.WriteHeader(200)
	}))

	rec, err := c.StudyRecord(context.Background(), 1000)
	if err != nil {
		t.Fatalf("StudyRecord: %v", err)
	}
	if rec != nil {
		t.Fatalf("rec = %+v, want nil for empty body", rec)
	}
}

func TestStudyRecordParsesPages(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"item_id":1000,"node_id":100,"pageStudyRecordDTOList":[{"pageid":55,"complete":1,"studyTime":30}]}`))
	}))

	rec, err := c.StudyRecord(context.Background(), 1000)
	if err != nil {
		t.Fatalf("StudyRecord: %v", err)
	}
	if rec == nil || len(rec.Pages) != 1 {
		t.Fatalf("rec = %+v, want one page record", rec)
	}
	if rec.Pages[0].PageID != 55 || rec.Pages[0].Complete != 1 {
		t.Fatalf("page record = %+v", rec.Pages[0])
	}
}

func TestInitializeSectionParsesBareInteger(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("1700000123\n"))
	}))

	ts, err := c.InitializeSection(context.Background(), 1000)
	if err != nil {
		t.Fatalf("InitializeSection: %v", err)
	}
	if ts != 1700000123 {
		t.Fatalf("ts = %d, want 1700000123", ts)
	}
}

func TestInitializeSectionRejectsGarbage(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>error</html>"))
	}))

	if _, err := c.InitializeSection(context.Background(), 1000); err == nil {
		t.Fatal("expected parse error for non-integer body")
	}
}

func TestLoginExtractsTokenFromRedirectCookie(t *testing.T) {
	info := url.QueryEscape(`{"authorization":"tok-123","name":"学生甲","userId":77}`)
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Errorf("parse form: %v", err)
		}
		if r.PostForm.Get("loginName") != "alice" || r.PostForm.Get("password") != "secret" {
			t.Errorf("form = %v", r.PostForm)
		}
		http.SetCookie(w, &http.Cookie{Name: "USERINFO", Value: info})
		w.Header().Set("Location", "/")
		w.WriteHeader(http.StatusFound)
	}))

	result, err := c.Login(context.Background(), "alice", "secret")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if result.Token != "tok-123" || result.Name != "学生甲" || result.UserID != 77 {
		t.Fatalf("result = %+v", result)
	}
	if result.Cookies["USERINFO"] == "" {
		t.Fatal("cookies not captured")
	}
}

func TestLoginRejectedWithoutRedirect(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(200)
		w.Write([]byte("wrong password page"))
	}))

	_, err := c.Login(context.Background(), "alice", "wrong")
	if !errors.Is(err, ErrLoginFailed) {
		t.Fatalf("err = %v, want ErrLoginFailed", err)
	}
}

func TestCheckToken(t *testing.T) {
	tests := []struct {
		body string
		want bool
	}{
		{"true", true},
		{"True\n", true},
		{"false", false},
	}
	for _, tt := range tests {
		c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(tt.body))
		}))
		ok, err := c.CheckToken(context.Background(), "tok")
		if err != nil {
			t.Fatalf("CheckToken: %v", err)
		}
		if ok != tt.want {
			t.Fatalf("CheckToken(%q) = %v, want %v", tt.body, ok, tt.want)
		}
	}
}

func TestCoursesSendsAuthAndParsesList(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "token" {
			t.Errorf("Authorization = %q", r.Header.Get("Authorization"))
		}
		if r.URL.Query().Get("ps") != "999" {
			t.Errorf("query = %v", r.URL.Query())
		}
		w.Write([]byte(`{"pn":1,"ps":999,"total":1,"courseList":[{"id":1,"name":"c","classId":2,"classUserId":3}]}`))
	}))

	courses, err := c.Courses(context.Background())
	if err != nil {
		t.Fatalf("Courses: %v", err)
	}
	if len(courses) != 1 || courses[0].ClassID != 2 || courses[0].ClassUserID != 3 {
		t.Fatalf("courses = %+v", courses)
	}
}

func TestUnauthorizedSurfacesSentinel(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))

	_, err := c.Courses(context.Background())
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("err = %v, want ErrUnauthorized", err)
	}
}
