package web

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"

	"github.com/roasbeef/revue/internal/baselib/actor"
	"github.com/roasbeef/revue/internal/config"
	"github.com/roasbeef/revue/internal/ingest"
	"github.com/roasbeef/revue/internal/llm"
	"github.com/roasbeef/revue/internal/review"
	"github.com/roasbeef/revue/internal/store"
)

// newTestServer wires the full stack: mock store, mock gateway, real
// config and submission service actors, and the HTTP server on top.
func newTestServer(t *testing.T,
	gateway *llm.MockGateway,
) (*httptest.Server, *store.MockStore) {

	t.Helper()

	st := store.NewMockStore()
	system := actor.NewActorSystem()

	cfgRef := actor.RegisterWithSystem(
		system, "config-service", config.ServiceKey,
		config.NewService(context.Background(), st),
	)

	reviewSvc := review.NewService(review.ServiceConfig{
		Store:     st,
		Gateway:   gateway,
		Config:    config.NewProvider(cfgRef),
		Extractor: ingest.NewExtractor(),
	})
	subRef := actor.RegisterWithSystem(
		system, "submission-service", review.SubmissionServiceKey,
		reviewSvc,
	)

	srv, err := NewServer(&Config{
		Submissions:   subRef,
		ConfigService: cfgRef,
	})
	require.NoError(t, err)

	reviewSvc.SetNotifier(srv.Notifier())

	ts := httptest.NewServer(srv.Handler())

	t.Cleanup(func() {
		ts.Close()

		ctx, cancel := context.WithTimeout(
			context.Background(), 5*time.Second,
		)
		defer cancel()

		require.NoError(t, srv.Shutdown(ctx))
		require.NoError(t, system.Shutdown(ctx))
	})

	return ts, st
}

// postJSON sends a JSON body and decodes the JSON response into out.
func postJSON(t *testing.T, url string, body any, out any) *http.Response {
	t.Helper()

	data, err := json.Marshal(body)
	require.NoError(t, err)

	resp, err := http.Post(url, "application/json", bytes.NewReader(data))
	require.NoError(t, err)
	defer resp.Body.Close()

	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}

	return resp
}

// getJSON fetches a URL and decodes the JSON response into out.
func getJSON(t *testing.T, url string, out any) *http.Response {
	t.Helper()

	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()

	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}

	return resp
}

// waitForAPIStatus polls the submission endpoint until the wanted status
// appears.
func waitForAPIStatus(t *testing.T, baseURL, id, want string) {
	t.Helper()

	require.Eventually(t, func() bool {
		var view struct {
			Status string `json:"status"`
		}
		getJSON(t, baseURL+"/api/v1/submissions/"+id, &view)
		return view.Status == want
	}, 3*time.Second, 10*time.Millisecond)
}

func TestHealthEndpoint(t *testing.T) {
	t.Parallel()

	ts, _ := newTestServer(t, &llm.MockGateway{})

	var health map[string]string
	resp := getJSON(t, ts.URL+"/api/v1/health", &health)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "ok", health["status"])
}

func TestSubmissionAPIFlow(t *testing.T) {
	t.Parallel()

	ts, _ := newTestServer(t, &llm.MockGateway{})

	// Create.
	var created struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	resp := postJSON(t, ts.URL+"/api/v1/submissions", map[string]string{
		"title":        "Sparse Mixture Routing at Scale",
		"content":      "We study expert routing under load skew.",
		"conferenceId": "neurips",
	}, &created)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.NotEmpty(t, created.ID)
	require.Equal(t, "screening", created.Status)

	waitForAPIStatus(t, ts.URL, created.ID, "completed")

	// Detail view carries the decoded result.
	var view struct {
		Title  string `json:"title"`
		Status string `json:"status"`
		Result struct {
			Summary       string `json:"summary"`
			FinalDecision string `json:"finalDecision"`
		} `json:"result"`
	}
	getJSON(t, ts.URL+"/api/v1/submissions/"+created.ID, &view)
	require.Equal(t, "completed", view.Status)
	require.Equal(t, "mock summary", view.Result.Summary)

	// Dashboard list.
	var list struct {
		Submissions []struct {
			ID            string `json:"id"`
			FinalDecision string `json:"finalDecision"`
		} `json:"submissions"`
	}
	getJSON(t, ts.URL+"/api/v1/submissions", &list)
	require.Len(t, list.Submissions, 1)
	require.Equal(t, "Weak Accept", list.Submissions[0].FinalDecision)

	// Rebuttal round trip.
	var rebuttal struct {
		Reply string `json:"reply"`
		Chat  []struct {
			Role string `json:"role"`
			Text string `json:"text"`
		} `json:"chat"`
	}
	resp = postJSON(t,
		ts.URL+"/api/v1/submissions/"+created.ID+"/rebuttal",
		map[string]string{"message": "The baselines were tuned."},
		&rebuttal,
	)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NotEmpty(t, rebuttal.Reply)
	require.Len(t, rebuttal.Chat, 2)

	// Markdown export.
	expResp, err := http.Get(
		ts.URL + "/api/v1/submissions/" + created.ID + "/export",
	)
	require.NoError(t, err)
	body, err := io.ReadAll(expResp.Body)
	expResp.Body.Close()
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, expResp.StatusCode)
	require.Contains(t, expResp.Header.Get("Content-Type"),
		"text/markdown")
	require.Contains(t, string(body),
		"# Review: Sparse Mixture Routing at Scale")

	// HTML export.
	expResp, err = http.Get(ts.URL + "/api/v1/submissions/" +
		created.ID + "/export?format=html")
	require.NoError(t, err)
	body, err = io.ReadAll(expResp.Body)
	expResp.Body.Close()
	require.NoError(t, err)
	require.Contains(t, expResp.Header.Get("Content-Type"), "text/html")
	require.Contains(t, string(body), "<table>")

	// Delete, then the detail view is gone.
	req, err := http.NewRequest(http.MethodDelete,
		ts.URL+"/api/v1/submissions/"+created.ID, nil)
	require.NoError(t, err)
	delResp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	delResp.Body.Close()
	require.Equal(t, http.StatusOK, delResp.StatusCode)

	getResp, err := http.Get(ts.URL + "/api/v1/submissions/" + created.ID)
	require.NoError(t, err)
	getResp.Body.Close()
	require.Equal(t, http.StatusNotFound, getResp.StatusCode)
}

func TestCreateSubmissionValidation(t *testing.T) {
	t.Parallel()

	ts, _ := newTestServer(t, &llm.MockGateway{})

	// Missing fields.
	resp := postJSON(t, ts.URL+"/api/v1/submissions", map[string]string{
		"title": "No content",
	}, nil)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// Unknown conference.
	resp = postJSON(t, ts.URL+"/api/v1/submissions", map[string]string{
		"title":        "Orphan",
		"content":      "text",
		"conferenceId": "nosuchconf",
	}, nil)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestUploadEndpoint(t *testing.T) {
	t.Parallel()

	ts, _ := newTestServer(t, &llm.MockGateway{})

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("title", "Uploaded Draft"))
	require.NoError(t, mw.WriteField("conferenceId", "acl"))
	fw, err := mw.CreateFormFile("file", "draft.txt")
	require.NoError(t, err)
	_, err = fw.Write([]byte("Abstract. We parse uploads."))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	resp, err := http.Post(ts.URL+"/api/v1/submissions/upload",
		mw.FormDataContentType(), &buf)
	require.NoError(t, err)

	var created struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.Equal(t, "parsing", created.Status)

	waitForAPIStatus(t, ts.URL, created.ID, "completed")

	var view struct {
		Content string `json:"content"`
	}
	getJSON(t, ts.URL+"/api/v1/submissions/"+created.ID, &view)
	require.Equal(t, "Abstract. We parse uploads.", view.Content)
}

func TestConferencesEndpoint(t *testing.T) {
	t.Parallel()

	ts, _ := newTestServer(t, &llm.MockGateway{})

	var list struct {
		Conferences []struct {
			ID   string `json:"id"`
			Name string `json:"name"`
		} `json:"conferences"`
	}
	getJSON(t, ts.URL+"/api/v1/conferences", &list)

	ids := make([]string, 0, len(list.Conferences))
	for _, c := range list.Conferences {
		ids = append(ids, c.ID)
	}
	require.Contains(t, ids, "neurips")
	require.Contains(t, ids, "icml")

	// Add a custom venue and see it in the merged list.
	resp := postJSON(t, ts.URL+"/api/v1/conferences", map[string]string{
		"id":          "systor",
		"name":        "SYSTOR",
		"shortName":   "SYSTOR",
		"description": "ACM International Systems and Storage Conference",
		"focusArea":   "Storage systems, file systems, caching.",
	}, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	list.Conferences = nil
	getJSON(t, ts.URL+"/api/v1/conferences", &list)
	found := false
	for _, c := range list.Conferences {
		if c.ID == "systor" {
			found = true
		}
	}
	require.True(t, found, "custom venue missing from merged list")
}

func TestConfigEndpoints(t *testing.T) {
	t.Parallel()

	ts, _ := newTestServer(t, &llm.MockGateway{})

	var cfg struct {
		UserProfile struct {
			Name string `json:"name"`
		} `json:"userProfile"`
		ModelConfig struct {
			ModelName string `json:"modelName"`
			APIKey    string `json:"apiKey"`
		} `json:"modelConfig"`
		HasAPIKey bool `json:"hasApiKey"`
	}
	getJSON(t, ts.URL+"/api/v1/config", &cfg)
	require.Equal(t, "Reviewer", cfg.UserProfile.Name)
	require.False(t, cfg.HasAPIKey)

	// Update with a key, then the key is redacted but reported set.
	update := config.DefaultConfig()
	update.UserProfile.Name = "Dr. Chen"
	update.ModelConfig.APIKey = "sk-test-123"
	req, err := http.NewRequest(http.MethodPut, ts.URL+"/api/v1/config",
		bytes.NewReader(mustJSON(t, update)))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	getJSON(t, ts.URL+"/api/v1/config", &cfg)
	require.Equal(t, "Dr. Chen", cfg.UserProfile.Name)
	require.Empty(t, cfg.ModelConfig.APIKey)
	require.True(t, cfg.HasAPIKey)

	// An update echoing the redacted key keeps the stored one.
	update.ModelConfig.APIKey = ""
	update.UserProfile.Name = "Dr. Chen, AC"
	req, err = http.NewRequest(http.MethodPut, ts.URL+"/api/v1/config",
		bytes.NewReader(mustJSON(t, update)))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	getJSON(t, ts.URL+"/api/v1/config", &cfg)
	require.Equal(t, "Dr. Chen, AC", cfg.UserProfile.Name)
	require.True(t, cfg.HasAPIKey)

	// Teach a style example.
	var style struct {
		FewShotExamples string `json:"fewShotExamples"`
	}
	resp2 := postJSON(t, ts.URL+"/api/v1/config/style", map[string]string{
		"example": "The ablation in Table 3 does not isolate the router.",
	}, &style)
	require.Equal(t, http.StatusOK, resp2.StatusCode)
	require.Contains(t, style.FewShotExamples, "[User Example added")
	require.Contains(t, style.FewShotExamples,
		"does not isolate the router")
}

func TestWebSocketStatusFeed(t *testing.T) {
	t.Parallel()

	ts, _ := newTestServer(t, &llm.MockGateway{})

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	// First frame is the connection confirmation.
	var msg WSMessage
	require.NoError(t, conn.ReadJSON(&msg))
	require.Equal(t, WSMsgTypeConnected, msg.Type)

	// Creating a submission produces status change frames ending in
	// completed.
	postJSON(t, ts.URL+"/api/v1/submissions", map[string]string{
		"title":        "Live Feed Paper",
		"content":      "text",
		"conferenceId": "neurips",
	}, nil)

	conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	sawCompleted := false
	for !sawCompleted {
		var frame struct {
			Type    string              `json:"type"`
			Payload StatusChangePayload `json:"payload"`
		}
		require.NoError(t, conn.ReadJSON(&frame))
		require.Equal(t, WSMsgTypeStatusChange, frame.Type)
		if frame.Payload.To == "completed" {
			sawCompleted = true
		}
	}
}

func TestFrontendServed(t *testing.T) {
	t.Parallel()

	ts, _ := newTestServer(t, &llm.MockGateway{})

	resp, err := http.Get(ts.URL + "/")
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, string(body), "<title>Revue</title>")

	// SPA fallback serves index.html for unknown paths.
	resp, err = http.Get(ts.URL + "/submissions/some-client-route")
	require.NoError(t, err)
	body, err = io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	require.Contains(t, string(body), "<title>Revue</title>")
}

func mustJSON(t *testing.T, v any) []byte {
	t.Helper()

	data, err := json.Marshal(v)
	require.NoError(t, err)
	return data
}
