package ulapi

// --- Course/textbook listing types ---

// CourseInfo is one course in the student course listing.
type CourseInfo struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	ClassID     int64  `json:"classId"`
	ClassUserID int64  `json:"classUserId"`
	ClassName   string `json:"className"`
	TeacherName string `json:"teacherName"`
	Status      int    `json:"status"`
}

// CourseListResponse is the paged response from GET /courses/students.
type CourseListResponse struct {
	PN      int          `json:"pn"`
	PS      int          `json:"ps"`
	Total   int          `json:"total"`
	Courses []CourseInfo `json:"courseList"`
}

// TextbookInfo is one textbook in GET /textbook/student/{course}/list.
// The endpoint calls the textbook id "courseId".
type TextbookInfo struct {
	TextbookID int64  `json:"courseId"`
	Name       string `json:"name"`
	Status     int    `json:"status"`
	Limit      int    `json:"limit"`
}

// --- Directory types (GET /course/stu/{textbook}/directory) ---

// DirectoryPage is a page entry in the textbook directory. ID is the page's
// directory key; RelationID is the separate identifier the study-record API
// reports completion under.
type DirectoryPage struct {
	ID          int64  `json:"id"`
	RelationID  int64  `json:"relationid"`
	Title       string `json:"title"`
	ContentType int    `json:"contentType"`
}

// DirectoryItem is a section in the textbook directory.
type DirectoryItem struct {
	ItemID int64           `json:"itemid"`
	Title  string          `json:"title"`
	Pages  []DirectoryPage `json:"coursepages"`
}

// DirectoryChapter is a chapter in the textbook directory.
type DirectoryChapter struct {
	NodeID   int64           `json:"nodeid"`
	Title    string          `json:"nodetitle"`
	Sections []DirectoryItem `json:"items"`
}

// DirectoryResponse is the textbook directory: the authoritative skeleton of
// chapters, sections and pages.
type DirectoryResponse struct {
	TextbookID int64              `json:"courseid"`
	Name       string             `json:"coursename"`
	Chapters   []DirectoryChapter `json:"chapters"`
}

// --- Chapter wholepage types (GET /wholepage/chapter/stu/{chapter}) ---

// QuestionInfo is one question inside a question element. Score arrives
// fractional; the tree stores it truncated to an integer.
type QuestionInfo struct {
	QuestionID int64   `json:"questionid"`
	Score      float64 `json:"score"`
	Title      string  `json:"title"`
}

// PageElement is one element of a wholepage entry. Type discriminates the
// shape: 4 video, 6 question, 10 document, 12 content. Only the fields of
// the matching shape are meaningful.
type PageElement struct {
	ElementID   int64          `json:"coursepageDTOid"`
	Type        int            `json:"type"`
	ParentID    int64          `json:"parentid"`
	ResourceID  int64          `json:"resourceid"`
	VideoLength int            `json:"videoLength"`
	Content     string         `json:"content"`
	Questions   []QuestionInfo `json:"questionDTOList"`
}

// WholePage is one page with its element list.
type WholePage struct {
	ID          int64         `json:"id"`
	RelationID  int64         `json:"relationid"`
	Title       string        `json:"content"`
	ContentType int           `json:"contentType"`
	Elements    []PageElement `json:"coursepageDTOList"`
}

// WholePageItem is one section's page detail list.
type WholePageItem struct {
	ItemID int64       `json:"itemid"`
	Pages  []WholePage `json:"wholepageDTOList"`
}

// ChapterDetailResponse is the chapter wholepage detail.
type ChapterDetailResponse struct {
	ChapterID int64           `json:"chapterid"`
	Sections  []WholePageItem `json:"wholepageItemDTOList"`
}

// --- Study record types (GET /studyrecord/item/{section}) ---

// PageRecord is one per-page completion record. PageID here is the page
// relation id, not the directory id.
type PageRecord struct {
	PageID    int64 `json:"pageid"`
	Complete  int   `json:"complete"`
	StudyTime int   `json:"studyTime"`
}

// StudyRecordResponse is the per-section study record. An empty response
// body means the section was never studied; the client reports that as a
// nil record, not an error.
type StudyRecordResponse struct {
	ItemID    int64        `json:"item_id"`
	NodeID    int64        `json:"node_id"`
	Score     int          `json:"score"`
	StudyTime int          `json:"studyTime"`
	Pages     []PageRecord `json:"pageStudyRecordDTOList"`
}

// --- Answer lookup (GET /questionAnswer/{question}?parentId={page}) ---

// QuestionAnswerResponse carries the correct answers for one question.
type QuestionAnswerResponse struct {
	QuestionID     int64    `json:"questionid"`
	CorrectReply   string   `json:"correctreply"`
	CorrectAnswers []string `json:"correctAnswerList"`
}

// --- User info (GET /user) ---

// UserInfoResponse is the learner identity; Name goes into sync payloads.
type UserInfoResponse struct {
	UserID int64  `json:"userid"`
	Name   string `json:"name"`
	OrgID  int64  `json:"orgid"`
}

// --- Sync request types (POST /yws/api/personal/sync) ---

// StartEndTime is a watch-interval timestamp pair in epoch seconds.
type StartEndTime struct {
	StartTime int64 `json:"startTime"`
	EndTime   int64 `json:"endTime"`
}

// VideoRecord is the fabricated playback state for one video element.
type VideoRecord struct {
	VideoID       int64          `json:"videoid"`
	Current       float64        `json:"current"`
	Status        int            `json:"status"`
	RecordTime    int            `json:"recordTime"`
	Time          float64        `json:"time"`
	StartEndTimes []StartEndTime `json:"startEndTimeList"`
}

// QuestionRecord is the submitted answer state for one question.
type QuestionRecord struct {
	QuestionID int64    `json:"questionid"`
	Answers    []string `json:"answerList"`
	Score      int      `json:"score"`
}

// PageStudyRecord is one page's record in a sync request. PageID carries
// the page relation id; CoursePageID carries the directory page id.
type PageStudyRecord struct {
	PageID       int64            `json:"pageid"`
	Complete     int              `json:"complete"`
	StudyTime    int              `json:"studyTime"`
	Score        int              `json:"score"`
	AnswerTime   int              `json:"answerTime"`
	SubmitTimes  int              `json:"submitTimes"`
	CoursePageID int64            `json:"coursepageId"`
	Questions    []QuestionRecord `json:"questions"`
	Videos       []VideoRecord    `json:"videos"`
	Speaks       []any            `json:"speaks"`
}

// SyncRequest is the cleartext form of a whole-section submission. It is
// space-stripped, DES-encrypted and base64-encoded before it goes on the
// wire.
type SyncRequest struct {
	ItemID         int64             `json:"itemid"`
	AutoSave       int               `json:"autoSave"`
	WithoutOld     any               `json:"withoutOld"` // always null
	Complete       int               `json:"complete"`
	StudyStartTime int64             `json:"studyStartTime"`
	UserName       string            `json:"userName"`
	Score          int               `json:"score"`
	Pages          []PageStudyRecord `json:"pageStudyRecordDTOList"`
}
