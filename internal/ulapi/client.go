// Package ulapi is the typed gateway to the course platform APIs: course
// and textbook listings, courseware content, per-section study records and
// the encrypted record-sync endpoint.
package ulapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// Sentinel errors for distinguished platform outcomes.
var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrLoginFailed  = errors.New("login rejected")
	ErrRejected     = errors.New("sync rejected by server")
)

const browserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/142.0.0.0 Safari/537.36 Edg/142.0.0.0"

// Client is an HTTP client for one platform site. All calls are serialized
// by the callers; the client itself holds only header and cookie state.
type Client struct {
	site Site
	http *resty.Client
}

// New creates a client for site. token may be empty before login; cookies
// carries any session cookies persisted from a previous login.
func New(site Site, token string, cookies map[string]string, timeout time.Duration) *Client {
	rc := resty.New().
		SetTimeout(timeout).
		SetHeader("User-Agent", browserUserAgent).
		SetRedirectPolicy(resty.NoRedirectPolicy()).
		SetRetryCount(3).
		SetRetryWaitTime(500 * time.Millisecond)

	// Retry transport failures only. An HTTP response, whatever its status,
	// is an answer from the platform and must not be replayed here.
	rc.AddRetryCondition(func(r *resty.Response, err error) bool {
		return err != nil && !errors.Is(err, resty.ErrAutoRedirectDisabled)
	})

	if token != "" {
		rc.SetHeader("Authorization", token)
	}
	for name, value := range cookies {
		rc.SetCookie(&http.Cookie{Name: name, Value: value})
	}

	return &Client{site: site, http: rc}
}

// SetToken replaces the Authorization header for subsequent requests.
func (c *Client) SetToken(token string) {
	c.http.SetHeader("Authorization", token)
}

// SetBaseURLs points every host at the given URL. Test hook.
func (c *Client) SetBaseURLs(u string) {
	c.site.BaseAPI = u
	c.site.CourseAPI = u
	c.site.UaAPI = u
}

// --- Auth ---

// LoginResult is the outcome of a successful credential login.
type LoginResult struct {
	Token   string
	Name    string
	UserID  int64
	Cookies map[string]string
}

// loginUserInfo is the JSON inside the URL-encoded USERINFO cookie the
// login endpoint sets on its redirect response.
type loginUserInfo struct {
	Authorization string `json:"authorization"`
	Name          string `json:"name"`
	UserID        int64  `json:"userId"`
}

// Login posts credentials and extracts the auth token from the USERINFO
// cookie on the 302 response. On success the client starts sending the new
// token immediately.
func (c *Client) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"loginName": username,
			"password":  password,
		}).
		Post(c.site.CourseAPI + "/users/login/v2")
	if err != nil && !errors.Is(err, resty.ErrAutoRedirectDisabled) {
		return nil, fmt.Errorf("http request: %w", err)
	}

	// A credential failure renders a page instead of redirecting.
	if resp.StatusCode() != http.StatusFound {
		return nil, fmt.Errorf("%w: HTTP %d", ErrLoginFailed, resp.StatusCode())
	}

	cookies := make(map[string]string)
	var rawInfo string
	for _, ck := range resp.Cookies() {
		cookies[ck.Name] = ck.Value
		if ck.Name == "USERINFO" {
			rawInfo = ck.Value
		}
	}
	if rawInfo == "" {
		return nil, fmt.Errorf("%w: no USERINFO cookie", ErrLoginFailed)
	}

	decoded, err := url.QueryUnescape(rawInfo)
	if err != nil {
		return nil, fmt.Errorf("decode USERINFO cookie: %w", err)
	}
	var info loginUserInfo
	if err := json.Unmarshal([]byte(decoded), &info); err != nil {
		return nil, fmt.Errorf("parse USERINFO cookie: %w", err)
	}
	if info.Authorization == "" {
		return nil, fmt.Errorf("%w: USERINFO carries no token", ErrLoginFailed)
	}

	c.SetToken(info.Authorization)
	for name, value := range cookies {
		c.http.SetCookie(&http.Cookie{Name: name, Value: value})
	}

	return &LoginResult{
		Token:   info.Authorization,
		Name:    info.Name,
		UserID:  info.UserID,
		Cookies: cookies,
	}, nil
}

// CheckToken reports whether a stored token is still accepted.
func (c *Client) CheckToken(ctx context.Context, token string) (bool, error) {
	resp, err := c.http.R().SetContext(ctx).
		Get(c.site.CourseAPI + "/users/isValidToken/" + token)
	if err != nil {
		return false, fmt.Errorf("http request: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return false, fmt.Errorf("check token: HTTP %d", resp.StatusCode())
	}
	return strings.EqualFold(strings.TrimSpace(resp.String()), "true"), nil
}

// UserInfo fetches the learner identity behind the current token.
func (c *Client) UserInfo(ctx context.Context) (*UserInfoResponse, error) {
	var out UserInfoResponse
	if err := c.getJSON(ctx, c.site.UaAPI+"/user", nil, &out); err != nil {
		return nil, fmt.Errorf("user info: %w", err)
	}
	return &out, nil
}

// --- Course discovery ---

// Courses lists the learner's enrolled courses. The page size is large
// enough that one page covers any realistic enrollment.
func (c *Client) Courses(ctx context.Context) ([]CourseInfo, error) {
	params := map[string]string{
		"keyword":       "",
		"publishStatus": "1",
		"type":          "1",
		"pn":            "1",
		"ps":            "999",
		"lang":          "zh",
	}
	var out CourseListResponse
	if err := c.getJSON(ctx, c.site.CourseAPI+"/courses/students", params, &out); err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	return out.Courses, nil
}

// Textbooks lists the textbooks of one course. The response is a bare array.
func (c *Client) Textbooks(ctx context.Context, courseID int64) ([]TextbookInfo, error) {
	u := fmt.Sprintf("%s/textbook/student/%d/list", c.site.CourseAPI, courseID)
	var out []TextbookInfo
	if err := c.getJSON(ctx, u, map[string]string{"lang": "zh"}, &out); err != nil {
		return nil, fmt.Errorf("list textbooks for course %d: %w", courseID, err)
	}
	return out, nil
}

// Directory fetches the chapter/section/page skeleton of a textbook.
func (c *Client) Directory(ctx context.Context, textbookID, classID int64) (*DirectoryResponse, error) {
	u := fmt.Sprintf("%s/course/stu/%d/directory", c.site.UaAPI, textbookID)
	params := map[string]string{"classId": strconv.FormatInt(classID, 10)}
	var out DirectoryResponse
	if err := c.getJSON(ctx, u, params, &out); err != nil {
		return nil, fmt.Errorf("directory for textbook %d: %w", textbookID, err)
	}
	return &out, nil
}

// ChapterDetail fetches the per-page element lists of one chapter.
func (c *Client) ChapterDetail(ctx context.Context, chapterID int64) (*ChapterDetailResponse, error) {
	u := fmt.Sprintf("%s/wholepage/chapter/stu/%d", c.site.UaAPI, chapterID)
	var out ChapterDetailResponse
	if err := c.getJSON(ctx, u, nil, &out); err != nil {
		return nil, fmt.Errorf("chapter detail %d: %w", chapterID, err)
	}
	return &out, nil
}

// StudyRecord fetches the completion record of one section. A section that
// was never opened comes back as an empty 200 body; that is reported as
// (nil, nil), not as an error.
func (c *Client) StudyRecord(ctx context.Context, sectionID int64) (*StudyRecordResponse, error) {
	u := fmt.Sprintf("%s/studyrecord/item/%d", c.site.UaAPI, sectionID)
	resp, err := c.http.R().SetContext(ctx).
		SetQueryParam("courseType", "4").
		Get(u)
	if err != nil {
		return nil, fmt.Errorf("study record %d: http request: %w", sectionID, err)
	}
	if err := checkStatus(resp); err != nil {
		return nil, fmt.Errorf("study record %d: %w", sectionID, err)
	}
	body := resp.Body()
	if len(strings.TrimSpace(string(body))) == 0 {
		return nil, nil
	}
	var out StudyRecordResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("study record %d: unmarshal response: %w", sectionID, err)
	}
	return &out, nil
}

// QuestionAnswers fetches the correct answer list for one question.
// parentID is the directory id of the page the question sits on.
func (c *Client) QuestionAnswers(ctx context.Context, questionID, parentID int64) ([]string, error) {
	u := fmt.Sprintf("%s/questionAnswer/%d", c.site.UaAPI, questionID)
	params := map[string]string{"parentId": strconv.FormatInt(parentID, 10)}
	var out QuestionAnswerResponse
	if err := c.getJSON(ctx, u, params, &out); err != nil {
		return nil, fmt.Errorf("answers for question %d: %w", questionID, err)
	}
	return out.CorrectAnswers, nil
}

// --- Submission ---

// InitializeSection opens a study session on a section and returns the
// server-issued start timestamp in epoch seconds. The body is the bare
// integer as text.
func (c *Client) InitializeSection(ctx context.Context, sectionID int64) (int64, error) {
	u := fmt.Sprintf("%s/studyrecord/initialize/%d", c.site.UaAPI, sectionID)
	resp, err := c.http.R().SetContext(ctx).Get(u)
	if err != nil {
		return 0, fmt.Errorf("initialize section %d: http request: %w", sectionID, err)
	}
	if err := checkStatus(resp); err != nil {
		return 0, fmt.Errorf("initialize section %d: %w", sectionID, err)
	}
	ts, err := strconv.ParseInt(strings.TrimSpace(resp.String()), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("initialize section %d: parse timestamp %q: %w", sectionID, resp.String(), err)
	}
	return ts, nil
}

// WatchVideo reports a watch-video behavior event. courseID here is the
// textbook id, matching what the endpoint expects.
func (c *Client) WatchVideo(ctx context.Context, classID, courseID, chapterID, videoID int64) error {
	resp, err := c.http.R().SetContext(ctx).
		SetBody(map[string]int64{
			"classId":   classID,
			"courseId":  courseID,
			"chapterId": chapterID,
			"videoId":   videoID,
		}).
		Post(c.site.CourseAPI + "/behavior/watchVideo")
	if err != nil {
		return fmt.Errorf("watch video %d: http request: %w", videoID, err)
	}
	if err := checkStatus(resp); err != nil {
		return fmt.Errorf("watch video %d: %w", videoID, err)
	}
	return nil
}

// SyncStudyRecord posts one encrypted section record. The platform answers
// 200 with the literal body "1" on acceptance; any other body on 200 is an
// application-level rejection reported as ErrRejected.
func (c *Client) SyncStudyRecord(ctx context.Context, encryptedBody string) error {
	resp, err := c.http.R().SetContext(ctx).
		SetQueryParams(map[string]string{
			"courseType": "4",
			"platform":   "PC",
		}).
		SetBody(encryptedBody).
		Post(c.site.UaAPI + "/yws/api/personal/sync")
	if err != nil {
		return fmt.Errorf("sync record: http request: %w", err)
	}
	if err := checkStatus(resp); err != nil {
		return fmt.Errorf("sync record: %w", err)
	}
	if body := resp.String(); body != "1" {
		return fmt.Errorf("%w: body %q", ErrRejected, body)
	}
	return nil
}

// --- HTTP helpers ---

// getJSON executes a GET and unmarshals the JSON response body.
func (c *Client) getJSON(ctx context.Context, u string, params map[string]string, out any) error {
	req := c.http.R().SetContext(ctx)
	if len(params) > 0 {
		req.SetQueryParams(params)
	}
	resp, err := req.Get(u)
	if err != nil {
		return fmt.Errorf("http request: %w", err)
	}
	if err := checkStatus(resp); err != nil {
		return err
	}
	if err := json.Unmarshal(resp.Body(), out); err != nil {
		return fmt.Errorf("unmarshal response: %w", err)
	}
	return nil
}

func checkStatus(resp *resty.Response) error {
	switch resp.StatusCode() {
	case http.StatusOK:
		return nil
	case http.StatusUnauthorized:
		return ErrUnauthorized
	default:
		return fmt.Errorf("HTTP %d", resp.StatusCode())
	}
}
