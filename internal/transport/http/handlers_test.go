package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"

	"progression-service/internal/app"
	"progression-service/internal/cert"
	"progression-service/internal/domain"
	"progression-service/internal/infra/memory"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	catalog := memory.NewCatalog()
	catalog.AddUser(domain.User{ID: "u1", DisplayName: "Alice Example"})
	catalog.AddCourse(domain.Course{ID: "c1", Title: "Intro to Go"}, "m1")
	catalog.AddPath(domain.LearningPath{ID: "p1", Title: "Backend Basics"},
		domain.PathCourse{CourseID: "c1", Required: true, Position: 1})

	loader := memory.NewStaticQuizLoader(map[string]domain.QuizPayload{
		"m1": {
			ModuleID: "m1",
			Title:    "Checkpoint",
			Questions: []domain.Question{
				{ID: "q1", Prompt: "first", Options: []domain.Option{{Text: "a"}, {Text: "b"}}, CorrectIndex: 0},
			},
		},
	})

	progressStore := memory.NewProgressStore()
	issuer := cert.NewIssuer(memory.NewCertificateStore(), catalog, progressStore,
		memory.NewBlobStore(), "http://learn.test", zap.NewNop())

	service := app.NewProgressionService(
		memory.NewQuizRepository(loader, time.Minute),
		catalog, progressStore, memory.NewPathStore(),
		memory.NewSubmissionStore(), memory.NewInterventionStore(),
		issuer, 70,
	)

	server := httptest.NewServer(NewHandler(service, zap.NewNop()).Router())
	t.Cleanup(server.Close)
	return server
}

func doJSON(t *testing.T, method, url, userID string, body interface{}) (*http.Response, []byte) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req, err := http.NewRequest(method, url, &buf)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	if userID != "" {
		req.Header.Set("X-User-ID", userID)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	defer resp.Body.Close()
	var out bytes.Buffer
	if _, err := out.ReadFrom(resp.Body); err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp, out.Bytes()
}

func TestAttemptEndpoints(t *testing.T) {
	server := newTestServer(t)

	resp, body := doJSON(t, http.MethodPost, server.URL+"/api/modules/m1/attempts", "u1", nil)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("start attempt: %d %s", resp.StatusCode, body)
	}
	var started app.StartedAttempt
	if err := json.Unmarshal(body, &started); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if started.Seed != "u1:m1:1" || len(started.Session.Questions) != 1 {
		t.Fatalf("started attempt: %+v", started)
	}

	answers := map[string]string{
		started.Session.Questions[0].ID: started.Session.Questions[0].Options[0].OptionID,
	}
	resp, body = doJSON(t, http.MethodPost, server.URL+"/api/modules/m1/attempts/submit", "u1", map[string]interface{}{
		"seed":    started.Seed,
		"answers": answers,
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("submit: %d %s", resp.StatusCode, body)
	}
	var submitted app.SubmittedAttempt
	if err := json.Unmarshal(body, &submitted); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if submitted.Result.TotalQuestions != 1 {
		t.Fatalf("submitted: %+v", submitted)
	}

	resp, body = doJSON(t, http.MethodGet, server.URL+"/api/modules/m1/attempts", "u1", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list attempts: %d %s", resp.StatusCode, body)
	}
	var attempts []domain.QuizAttempt
	if err := json.Unmarshal(body, &attempts); err != nil || len(attempts) != 1 {
		t.Fatalf("attempts: %s (%v)", body, err)
	}
}

func TestIdentityRequired(t *testing.T) {
	server := newTestServer(t)

	resp, _ := doJSON(t, http.MethodPost, server.URL+"/api/modules/m1/attempts", "", nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("missing identity: %d, want 401", resp.StatusCode)
	}
}

func TestErrorStatusMapping(t *testing.T) {
	server := newTestServer(t)

	// Unknown quiz module.
	resp, _ := doJSON(t, http.MethodPost, server.URL+"/api/modules/no-such/attempts", "u1", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("unknown module: %d, want 404", resp.StatusCode)
	}

	// Missing seed is a validation failure.
	resp, _ = doJSON(t, http.MethodPost, server.URL+"/api/modules/m1/attempts/submit", "u1", map[string]interface{}{
		"answers": map[string]string{},
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("empty seed: %d, want 400", resp.StatusCode)
	}

	// Certificate before completion.
	resp, _ = doJSON(t, http.MethodPost, server.URL+"/api/courses/c1/certificate", "u1", nil)
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("ineligible certificate: %d, want 422", resp.StatusCode)
	}
}

func TestCertificateFlowOverHTTP(t *testing.T) {
	server := newTestServer(t)

	// Pass the single-question quiz to complete the course.
	resp, body := doJSON(t, http.MethodPost, server.URL+"/api/modules/m1/attempts", "u1", nil)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("start: %d %s", resp.StatusCode, body)
	}
	var started app.StartedAttempt
	if err := json.Unmarshal(body, &started); err != nil {
		t.Fatalf("decode: %v", err)
	}
	q := started.Session.Questions[0]
	resp, body = doJSON(t, http.MethodPost, server.URL+"/api/modules/m1/attempts/submit", "u1", map[string]interface{}{
		"seed":    started.Seed,
		"answers": map[string]string{q.ID: q.Options[0].OptionID},
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("submit: %d %s", resp.StatusCode, body)
	}
	var submitted app.SubmittedAttempt
	if err := json.Unmarshal(body, &submitted); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !submitted.Result.Passed {
		// The single option set has two choices; option 0 may be wrong for this
		// seed, so retry with the other one.
		resp, body = doJSON(t, http.MethodPost, server.URL+"/api/modules/m1/attempts/submit", "u1", map[string]interface{}{
			"seed":    started.Seed,
			"answers": map[string]string{q.ID: q.Options[1].OptionID},
		})
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("retry submit: %d %s", resp.StatusCode, body)
		}
		if err := json.Unmarshal(body, &submitted); err != nil || !submitted.Result.Passed {
			t.Fatalf("retry did not pass: %s (%v)", body, err)
		}
	}

	resp, body = doJSON(t, http.MethodPost, server.URL+"/api/courses/c1/certificate", "u1", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("issue: %d %s", resp.StatusCode, body)
	}
	var issued app.IssuedCertificate
	if err := json.Unmarshal(body, &issued); err != nil {
		t.Fatalf("decode: %v", err)
	}

	token := issued.VerificationURL[len("http://learn.test/verify/"):]
	resp, body = doJSON(t, http.MethodGet, server.URL+"/verify/"+token, "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("verify: %d %s", resp.StatusCode, body)
	}
	var proof app.CertificateProof
	if err := json.Unmarshal(body, &proof); err != nil || !proof.Valid {
		t.Fatalf("proof: %s (%v)", body, err)
	}

	// Verification is public and unknown tokens are simply invalid.
	resp, body = doJSON(t, http.MethodGet, server.URL+"/verify/bogus", "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("bogus verify: %d", resp.StatusCode)
	}
	if err := json.Unmarshal(body, &proof); err != nil || proof.Valid {
		t.Fatalf("bogus proof: %s (%v)", body, err)
	}
}

func TestLearningPathEndpoints(t *testing.T) {
	server := newTestServer(t)

	resp, body := doJSON(t, http.MethodPost, server.URL+"/api/learning-paths/p1/enroll", "u1", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("enroll: %d %s", resp.StatusCode, body)
	}
	var row domain.LearningPathProgress
	if err := json.Unmarshal(body, &row); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if row.Status != domain.PathStatusEnrolled || row.TotalCourses != 1 {
		t.Fatalf("enrollment row: %+v", row)
	}

	resp, body = doJSON(t, http.MethodGet, server.URL+"/api/learning-paths", "u1", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list paths: %d %s", resp.StatusCode, body)
	}
	var views []app.PathView
	if err := json.Unmarshal(body, &views); err != nil || len(views) != 1 {
		t.Fatalf("views: %s (%v)", body, err)
	}
	if !views[0].IsEnrolled {
		t.Fatalf("view not enrolled: %+v", views[0])
	}

	resp, _ = doJSON(t, http.MethodPost, server.URL+"/api/learning-paths/ghost/enroll", "u1", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("unknown path: %d, want 404", resp.StatusCode)
	}
}
