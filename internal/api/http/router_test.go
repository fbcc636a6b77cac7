package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	api "github.com/dstu-guide/guide-api/internal/api/http"
	"github.com/dstu-guide/guide-api/internal/attempt"
	auth "github.com/dstu-guide/guide-api/internal/auth/middleware"
	"github.com/dstu-guide/guide-api/internal/blog"
	"github.com/dstu-guide/guide-api/internal/db/dbtest"
	"github.com/dstu-guide/guide-api/internal/logger"
	"github.com/dstu-guide/guide-api/internal/quiz"
	"github.com/dstu-guide/guide-api/internal/storage"
	syncx "github.com/dstu-guide/guide-api/internal/sync"
	"github.com/dstu-guide/guide-api/internal/users"
)

type client struct {
	t     *testing.T
	srv   *httptest.Server
	users *users.Store
}

func newClient(t *testing.T, authRequired bool) *client {
	t.Helper()
	h := dbtest.Open(t)
	blobs, err := storage.NewFSStore(t.TempDir(), "")
	if err != nil {
		t.Fatal(err)
	}
	ledger := attempt.NewLedger(h, nil)
	us := users.NewStore(h)
	router := api.NewRouter(api.Deps{
		Log:          logger.Nop(),
		Store:        h,
		Users:        us,
		Quiz:         quiz.NewStore(h),
		Blog:         blog.NewStore(h),
		Ledger:       ledger,
		Recorder:     attempt.NewRecorder(h, ledger),
		Scorer:       attempt.NewScorer(h, ledger, syncx.NewEventRepo(h, "test")),
		Blobs:        blobs,
		Auth:         auth.NewAuthService("test-secret"),
		AuthRequired: authRequired,
	})
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return &client{t: t, srv: srv, users: us}
}

// do sends body as JSON (or raw when it is a string) and decodes the reply
// into out when out is non-nil.
func (c *client) do(method, path, token string, body any, out any) int {
	c.t.Helper()
	var rdr io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		rdr = strings.NewReader(b)
	default:
		buf, err := json.Marshal(b)
		if err != nil {
			c.t.Fatal(err)
		}
		rdr = bytes.NewReader(buf)
	}
	req, err := http.NewRequest(method, c.srv.URL+path, rdr)
	if err != nil {
		c.t.Fatal(err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	res, err := c.srv.Client().Do(req)
	if err != nil {
		c.t.Fatalf("%s %s: %v", method, path, err)
	}
	defer res.Body.Close()
	if out != nil {
		if err := json.NewDecoder(res.Body).Decode(out); err != nil {
			c.t.Fatalf("%s %s: decode: %v", method, path, err)
		}
	}
	return res.StatusCode
}

func (c *client) register(name, email, role string) int64 {
	c.t.Helper()
	var out struct {
		User users.User `json:"user"`
	}
	code := c.do("POST", "/api/register", "", map[string]any{
		"full_name": name, "email": email, "password": "secret1", "role": role,
	}, &out)
	if code != http.StatusCreated {
		c.t.Fatalf("register %s: %d", email, code)
	}
	return out.User.ID
}

// promote sets a role directly in the store, the way an operator would.
func (c *client) promote(id int64, role string) {
	c.t.Helper()
	if _, err := c.users.SetRole(context.Background(), id, role); err != nil {
		c.t.Fatalf("promote %d to %s: %v", id, role, err)
	}
}

func (c *client) login(email string) string {
	c.t.Helper()
	var out struct {
		Token string `json:"access_token"`
	}
	if code := c.do("POST", "/api/login", "", map[string]any{"email": email, "password": "secret1"}, &out); code != http.StatusOK {
		c.t.Fatalf("login %s: %d", email, code)
	}
	return out.Token
}

type seededTest struct {
	id        int64
	questions []quiz.Question
}

// seedTest creates a test with n questions through the API; option 0 is correct.
func (c *client) seedTest(token string, creator int64, n int) seededTest {
	c.t.Helper()
	var created struct {
		TestID int64 `json:"test_id"`
	}
	if code := c.do("POST", "/api/tests", token, map[string]any{
		"test_name": "Campus orientation", "creator_id": creator,
	}, &created); code != http.StatusCreated {
		c.t.Fatalf("create test: %d", code)
	}
	st := seededTest{id: created.TestID}
	for i := 0; i < n; i++ {
		var out struct {
			Question quiz.Question `json:"question"`
		}
		code := c.do("POST", fmt.Sprintf("/api/tests/%d/questions", st.id), token, map[string]any{
			"question_text": fmt.Sprintf("Question %d", i+1),
			"options": []map[string]any{
				{"option_text": "right", "is_correct": true},
				{"option_text": "wrong"},
			},
		}, &out)
		if code != http.StatusCreated {
			c.t.Fatalf("add question: %d", code)
		}
		st.questions = append(st.questions, out.Question)
	}
	if code := c.do("POST", fmt.Sprintf("/api/tests/%d/publish", st.id), token, nil, nil); code != http.StatusOK {
		c.t.Fatalf("publish: %d", code)
	}
	return st
}

func TestAttemptFlow(t *testing.T) {
	c := newClient(t, false)
	teacher := c.register("Petr Teacher", "petr@example.org", "teacher")
	student := c.register("Olga Student", "olga@example.org", "")
	st := c.seedTest("", teacher, 4)

	// the test-taker view carries no correctness flags
	res, err := c.srv.Client().Get(fmt.Sprintf("%s/api/tests/%d", c.srv.URL, st.id))
	if err != nil {
		t.Fatal(err)
	}
	raw, _ := io.ReadAll(res.Body)
	res.Body.Close()
	if res.StatusCode != http.StatusOK || bytes.Contains(raw, []byte("is_correct")) {
		t.Fatalf("test view leaks correctness or failed (%d): %s", res.StatusCode, raw)
	}
	var opts []map[string]any
	if code := c.do("GET", fmt.Sprintf("/api/questions/%d/options", st.questions[0].ID), "", nil, &opts); code != 200 || len(opts) != 2 {
		t.Fatalf("options: %d %v", code, opts)
	}
	if _, leaked := opts[0]["is_correct"]; leaked {
		t.Fatal("options endpoint leaks is_correct")
	}

	var started struct {
		AttemptID int64 `json:"attempt_id"`
	}
	if code := c.do("POST", "/api/attempts", "", map[string]any{"student_id": student, "test_id": st.id}, &started); code != http.StatusCreated {
		t.Fatalf("start: %d", code)
	}
	for i, q := range st.questions {
		opt := q.Options[0].ID
		if i == 3 {
			opt = q.Options[1].ID
		}
		var ans struct {
			AnswerID int64 `json:"answer_id"`
		}
		code := c.do("POST", fmt.Sprintf("/api/attempts/%d/answers", started.AttemptID), "",
			map[string]any{"question_id": q.ID, "selected_option_id": opt}, &ans)
		if code != http.StatusCreated || ans.AnswerID == 0 {
			t.Fatalf("answer %d: %d", i, code)
		}
	}

	var fin struct {
		Message string  `json:"message"`
		Score   float64 `json:"score"`
		Correct int     `json:"correct"`
		Total   int     `json:"total"`
	}
	finish := fmt.Sprintf("/api/attempts/%d/finish", started.AttemptID)
	if code := c.do("POST", finish, "", nil, &fin); code != http.StatusOK {
		t.Fatalf("finish: %d", code)
	}
	if fin.Score != 75 || fin.Correct != 3 || fin.Total != 4 || fin.Message == "" {
		t.Fatalf("finish = %+v", fin)
	}

	var errBody map[string]string
	if code := c.do("POST", finish, "", nil, &errBody); code != http.StatusConflict || errBody["error"] == "" {
		t.Fatalf("second finish: %d %v", code, errBody)
	}

	var got attempt.Detail
	if code := c.do("GET", fmt.Sprintf("/api/attempts/%d", started.AttemptID), "", nil, &got); code != http.StatusOK {
		t.Fatalf("get attempt: %d", code)
	}
	if got.FinalScore == nil || *got.FinalScore != 75 || got.CompletedAt == nil || got.StudentName != "Olga Student" {
		t.Fatalf("attempt = %+v", got)
	}

	var list []attempt.Detail
	if code := c.do("GET", fmt.Sprintf("/api/users/%d/attempts", student), "", nil, &list); code != http.StatusOK || len(list) != 1 {
		t.Fatalf("list attempts: %d %+v", code, list)
	}
}

func TestFinishUnknownAttempt(t *testing.T) {
	c := newClient(t, false)
	var body map[string]string
	if code := c.do("POST", "/api/attempts/12345/finish", "", nil, &body); code != http.StatusNotFound {
		t.Fatalf("code = %d", code)
	}
	if body["error"] == "" {
		t.Fatalf("missing error field: %v", body)
	}
	if code := c.do("GET", "/api/attempts/12345", "", nil, &body); code != http.StatusNotFound {
		t.Fatalf("get code = %d", code)
	}
	if code := c.do("GET", "/api/users/12345/attempts", "", nil, nil); code != http.StatusNotFound {
		t.Fatalf("attempts of unknown user: %d", code)
	}
}

type validationBody struct {
	Errors []api.FieldError `json:"errors"`
}

func (v validationBody) paths() []string {
	var out []string
	for _, e := range v.Errors {
		out = append(out, e.Path)
	}
	return out
}

func TestValidationErrors(t *testing.T) {
	c := newClient(t, false)

	var v validationBody
	if code := c.do("POST", "/api/attempts", "", map[string]any{}, &v); code != http.StatusBadRequest {
		t.Fatalf("empty body: %d", code)
	}
	if p := strings.Join(v.paths(), ","); p != "student_id,test_id" {
		t.Fatalf("paths = %s", p)
	}
	for _, e := range v.Errors {
		if e.Type != "field" || e.Location != "body" || e.Msg == "" {
			t.Fatalf("bad entry %+v", e)
		}
	}

	v = validationBody{}
	if code := c.do("POST", "/api/attempts", "", `{"student_id":"abc","test_id":1}`, &v); code != http.StatusBadRequest {
		t.Fatalf("string id: %d", code)
	}
	if len(v.Errors) != 1 || v.Errors[0].Path != "student_id" || !strings.Contains(v.Errors[0].Msg, "integer") {
		t.Fatalf("errors = %+v", v.Errors)
	}

	v = validationBody{}
	if code := c.do("POST", "/api/attempts/1/answers", "", `{"question_id":`, &v); code != http.StatusBadRequest || len(v.Errors) != 1 {
		t.Fatalf("malformed json: %d %+v", code, v)
	}

	v = validationBody{}
	if code := c.do("POST", "/api/attempts/abc/finish", "", nil, &v); code != http.StatusBadRequest {
		t.Fatalf("path id: %d", code)
	}
	if len(v.Errors) != 1 || v.Errors[0].Location != "params" || v.Errors[0].Path != "id" {
		t.Fatalf("errors = %+v", v.Errors)
	}

	v = validationBody{}
	code := c.do("POST", "/api/register", "", map[string]any{"full_name": "X", "email": "nope", "password": "123"}, &v)
	if code != http.StatusBadRequest || strings.Join(v.paths(), ",") != "email,password" {
		t.Fatalf("register: %d %v", code, v.paths())
	}

	v = validationBody{}
	code = c.do("POST", "/api/tests/1/questions", "", map[string]any{
		"question_text": "q", "options": []map[string]any{{"option_text": ""}, {"option_text": "b"}},
	}, &v)
	if code != http.StatusBadRequest || strings.Join(v.paths(), ",") != "options[0].option_text" {
		t.Fatalf("nested: %d %v", code, v.paths())
	}
}

func TestAttemptReferenceErrors(t *testing.T) {
	c := newClient(t, false)
	teacher := c.register("Petr Teacher", "petr@example.org", "teacher")
	student := c.register("Olga Student", "olga@example.org", "student")
	a := c.seedTest("", teacher, 1)
	b := c.seedTest("", teacher, 1)

	var body map[string]string
	if code := c.do("POST", "/api/attempts", "", map[string]any{"student_id": 999, "test_id": a.id}, &body); code != http.StatusUnprocessableEntity {
		t.Fatalf("unknown student: %d", code)
	}

	var started struct {
		AttemptID int64 `json:"attempt_id"`
	}
	c.do("POST", "/api/attempts", "", map[string]any{"student_id": student, "test_id": a.id}, &started)
	path := fmt.Sprintf("/api/attempts/%d/answers", started.AttemptID)
	foreign := b.questions[0]
	if code := c.do("POST", path, "", map[string]any{"question_id": foreign.ID, "selected_option_id": foreign.Options[0].ID}, &body); code != http.StatusUnprocessableEntity {
		t.Fatalf("question of another test: %d", code)
	}
	if code := c.do("POST", "/api/attempts/999/answers", "", map[string]any{"question_id": 1, "selected_option_id": 1}, &body); code != http.StatusNotFound {
		t.Fatalf("unknown attempt: %d", code)
	}
}

func TestLoginAndUser(t *testing.T) {
	c := newClient(t, false)
	id := c.register("Olga Student", "Olga@Example.org", "")

	var body map[string]any
	if code := c.do("POST", "/api/register", "", map[string]any{
		"full_name": "Dup", "email": "olga@example.org", "password": "secret1",
	}, &body); code != http.StatusBadRequest {
		t.Fatalf("duplicate email: %d", code)
	}
	if code := c.do("POST", "/api/login", "", map[string]any{"email": "olga@example.org", "password": "wrong!"}, &body); code != http.StatusUnauthorized {
		t.Fatalf("bad password: %d", code)
	}
	if tok := c.login("olga@example.org"); tok == "" {
		t.Fatal("empty token")
	}

	res, err := c.srv.Client().Get(fmt.Sprintf("%s/api/users/%d", c.srv.URL, id))
	if err != nil {
		t.Fatal(err)
	}
	raw, _ := io.ReadAll(res.Body)
	res.Body.Close()
	if res.StatusCode != http.StatusOK || bytes.Contains(raw, []byte("password")) {
		t.Fatalf("get user (%d): %s", res.StatusCode, raw)
	}
}

func TestPostsAndTags(t *testing.T) {
	c := newClient(t, false)
	author := c.register("Anna Editor", "anna@example.org", "teacher")

	var created struct {
		Post blog.Post `json:"post"`
	}
	for i := 0; i < 3; i++ {
		if code := c.do("POST", "/api/posts", "", map[string]any{
			"title": fmt.Sprintf("Post %d", i), "content": "text", "author_id": author, "status": "published",
		}, &created); code != http.StatusCreated {
			t.Fatalf("create post: %d", code)
		}
	}

	var page struct {
		Posts      []blog.Post `json:"posts"`
		Pagination blog.Page   `json:"pagination"`
	}
	if code := c.do("GET", "/api/posts?page=1&limit=2", "", nil, &page); code != http.StatusOK {
		t.Fatalf("list: %d", code)
	}
	if len(page.Posts) != 2 || page.Pagination != (blog.Page{Page: 1, Limit: 2, Total: 3, TotalPages: 2}) {
		t.Fatalf("page = %+v", page)
	}

	var tag struct {
		TagID int64 `json:"tag_id"`
	}
	if code := c.do("POST", "/api/tags", "", map[string]any{"tag_name": "news"}, &tag); code != http.StatusCreated {
		t.Fatalf("create tag: %d", code)
	}
	link := fmt.Sprintf("/api/posts/%d/tags", created.Post.ID)
	if code := c.do("POST", link, "", map[string]any{"tag_id": tag.TagID}, nil); code != http.StatusOK {
		t.Fatalf("attach: %d", code)
	}
	if code := c.do("POST", link, "", map[string]any{"tag_id": tag.TagID}, nil); code != http.StatusBadRequest {
		t.Fatalf("duplicate attach: %d", code)
	}
	if code := c.do("POST", link, "", map[string]any{"tag_id": 999}, nil); code != http.StatusNotFound {
		t.Fatalf("missing tag: %d", code)
	}

	var detail blog.PostDetail
	if code := c.do("GET", fmt.Sprintf("/api/posts/%d", created.Post.ID), "", nil, &detail); code != http.StatusOK {
		t.Fatalf("get post: %d", code)
	}
	if len(detail.Tags) != 1 || detail.AuthorName == nil || *detail.AuthorName != "Anna Editor" {
		t.Fatalf("detail = %+v", detail)
	}
}

func TestAuthRequiredGatesAuthoring(t *testing.T) {
	c := newClient(t, true)
	teacher := c.register("Petr Teacher", "petr@example.org", "teacher")
	c.promote(teacher, users.RoleTeacher)
	student := c.register("Olga Student", "olga@example.org", "student")
	other := c.register("Ivan Student", "ivan@example.org", "student")
	teacherTok := c.login("petr@example.org")
	studentTok := c.login("olga@example.org")

	body := map[string]any{"test_name": "Gated", "creator_id": teacher}
	if code := c.do("POST", "/api/tests", "", body, nil); code != http.StatusUnauthorized {
		t.Fatalf("no token: %d", code)
	}
	if code := c.do("POST", "/api/tests", studentTok, body, nil); code != http.StatusForbidden {
		t.Fatalf("student token: %d", code)
	}
	st := c.seedTest(teacherTok, teacher, 1)

	// attempts stay open without a token
	var started struct {
		AttemptID int64 `json:"attempt_id"`
	}
	if code := c.do("POST", "/api/attempts", "", map[string]any{"student_id": student, "test_id": st.id}, &started); code != http.StatusCreated {
		t.Fatalf("start without token: %d", code)
	}
	if code := c.do("POST", fmt.Sprintf("/api/attempts/%d/finish", started.AttemptID), "", nil, nil); code != http.StatusOK {
		t.Fatalf("finish without token: %d", code)
	}

	own := fmt.Sprintf("/api/users/%d/attempts", student)
	if code := c.do("GET", own, studentTok, nil, nil); code != http.StatusOK {
		t.Fatalf("own attempts: %d", code)
	}
	if code := c.do("GET", fmt.Sprintf("/api/users/%d/attempts", other), studentTok, nil, nil); code != http.StatusForbidden {
		t.Fatalf("someone else's attempts: %d", code)
	}
	if code := c.do("GET", own, teacherTok, nil, nil); code != http.StatusOK {
		t.Fatalf("teacher view: %d", code)
	}
}

func TestSelfRegistrationCannotClaimRole(t *testing.T) {
	c := newClient(t, true)
	var out struct {
		User users.User `json:"user"`
	}
	if code := c.do("POST", "/api/register", "", map[string]any{
		"full_name": "Mallory", "email": "mallory@example.org", "password": "secret1", "role": "admin",
	}, &out); code != http.StatusCreated || out.User.Role != users.RoleStudent {
		t.Fatalf("register: %d role=%q", code, out.User.Role)
	}
	tok := c.login("mallory@example.org")
	if code := c.do("POST", "/api/tags", tok, map[string]any{"tag_name": "pwned"}, nil); code != http.StatusForbidden {
		t.Fatalf("self-registered admin created a tag: %d", code)
	}
	if code := c.do("PATCH", fmt.Sprintf("/api/users/%d/role", out.User.ID), tok, map[string]any{"role": "admin"}, nil); code != http.StatusForbidden {
		t.Fatalf("self-promotion: %d", code)
	}

	// once an operator promotes the account the same token gains the rights
	c.promote(out.User.ID, users.RoleAdmin)
	if code := c.do("POST", "/api/tags", tok, map[string]any{"tag_name": "granted"}, nil); code != http.StatusCreated {
		t.Fatalf("promoted admin: %d", code)
	}
}

func TestRegistrationKeepsRoleWhenAuthOptional(t *testing.T) {
	c := newClient(t, false)
	id := c.register("Petr Teacher", "petr@example.org", "teacher")
	u, err := c.users.Get(context.Background(), id)
	if err != nil || u.Role != users.RoleTeacher {
		t.Fatalf("role = %q, err %v", u.Role, err)
	}
}

// a 1x1 PNG
var tinyPNG = []byte{
	0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a, 0x00, 0x00, 0x00, 0x0d, 0x49, 0x48, 0x44, 0x52,
	0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01, 0x08, 0x06, 0x00, 0x00, 0x00, 0x1f, 0x15, 0xc4,
	0x89, 0x00, 0x00, 0x00, 0x0d, 0x49, 0x44, 0x41, 0x54, 0x78, 0x9c, 0x63, 0x00, 0x01, 0x00, 0x00,
	0x05, 0x00, 0x01, 0x0d, 0x0a, 0x2d, 0xb4, 0x00, 0x00, 0x00, 0x00, 0x49, 0x45, 0x4e, 0x44, 0xae,
	0x42, 0x60, 0x82,
}

func upload(t *testing.T, c *client, name string, data []byte) (*http.Response, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", name)
	if err != nil {
		t.Fatal(err)
	}
	_, _ = fw.Write(data)
	_ = mw.Close()

	res, err := c.srv.Client().Post(c.srv.URL+"/api/uploads", mw.FormDataContentType(), &buf)
	if err != nil {
		t.Fatal(err)
	}
	defer res.Body.Close()
	var out map[string]any
	_ = json.NewDecoder(res.Body).Decode(&out)
	return res, out
}

func TestUploads(t *testing.T) {
	c := newClient(t, false)

	res, out := upload(t, c, "campus.png", tinyPNG)
	if res.StatusCode != http.StatusCreated {
		t.Fatalf("upload: %d %v", res.StatusCode, out)
	}
	url, _ := out["url"].(string)
	if !strings.HasPrefix(url, "/api/uploads/images/") || !strings.HasSuffix(url, ".png") {
		t.Fatalf("url = %q", url)
	}

	got, err := c.srv.Client().Get(c.srv.URL + url)
	if err != nil {
		t.Fatal(err)
	}
	body, _ := io.ReadAll(got.Body)
	got.Body.Close()
	if got.StatusCode != http.StatusOK || got.Header.Get("Content-Type") != "image/png" || !bytes.Equal(body, tinyPNG) {
		t.Fatalf("serve: %d %s %d bytes", got.StatusCode, got.Header.Get("Content-Type"), len(body))
	}

	if res, _ := upload(t, c, "notes.png", []byte("plain text, not an image")); res.StatusCode != http.StatusBadRequest {
		t.Fatalf("text upload: %d", res.StatusCode)
	}

	missing, err := c.srv.Client().Get(c.srv.URL + "/api/uploads/images/nope.png")
	if err != nil {
		t.Fatal(err)
	}
	missing.Body.Close()
	if missing.StatusCode != http.StatusNotFound {
		t.Fatalf("missing blob: %d", missing.StatusCode)
	}
}

func TestServiceEndpoints(t *testing.T) {
	c := newClient(t, false)
	var info map[string]any
	if code := c.do("GET", "/", "", nil, &info); code != http.StatusOK || info["version"] != api.Version {
		t.Fatalf("index: %d %v", code, info)
	}
	if code := c.do("GET", "/healthz", "", nil, nil); code != http.StatusOK {
		t.Fatalf("healthz: %d", code)
	}
	if code := c.do("GET", "/readyz", "", nil, nil); code != http.StatusOK {
		t.Fatalf("readyz: %d", code)
	}
	var nf map[string]string
	if code := c.do("GET", "/api/nope", "", nil, &nf); code != http.StatusNotFound || nf["error"] == "" {
		t.Fatalf("unknown route: %d %v", code, nf)
	}
}

func TestAccountRoutesNeedToken(t *testing.T) {
	c := newClient(t, false)
	admin := c.register("Root Admin", "root@example.org", "admin")
	student := c.register("Olga Student", "olga@example.org", "student")
	adminTok := c.login("root@example.org")
	studentTok := c.login("olga@example.org")

	change := map[string]any{"old_password": "secret1", "new_password": "secret2"}
	if code := c.do("POST", "/api/users/change-password", "", change, nil); code != http.StatusUnauthorized {
		t.Fatalf("change password without token: %d", code)
	}
	if code := c.do("POST", "/api/users/change-password", studentTok, change, nil); code != http.StatusNoContent {
		t.Fatalf("change password: %d", code)
	}
	if code := c.do("POST", "/api/login", "", map[string]any{"email": "olga@example.org", "password": "secret2"}, nil); code != http.StatusOK {
		t.Fatalf("login with new password: %d", code)
	}

	role := fmt.Sprintf("/api/users/%d/role", student)
	if code := c.do("PATCH", role, studentTok, map[string]any{"role": "admin"}, nil); code != http.StatusForbidden {
		t.Fatalf("student self-promotion: %d", code)
	}
	var out struct {
		User users.User `json:"user"`
	}
	if code := c.do("PATCH", role, adminTok, map[string]any{"role": "teacher"}, &out); code != http.StatusOK || out.User.Role != "teacher" {
		t.Fatalf("admin sets role: %d %+v", code, out.User)
	}
	if code := c.do("PATCH", fmt.Sprintf("/api/users/%d/role", admin), adminTok, map[string]any{"role": "student"}, nil); code != http.StatusBadRequest {
		t.Fatalf("last admin demotion: %d", code)
	}
}
