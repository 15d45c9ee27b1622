package web

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/roasbeef/revue/internal/actorutil"
	"github.com/roasbeef/revue/internal/conference"
	"github.com/roasbeef/revue/internal/config"
	"github.com/roasbeef/revue/internal/report"
	"github.com/roasbeef/revue/internal/review"
	"github.com/roasbeef/revue/internal/store"
)

// maxUploadBytes caps the size of an uploaded document.
const maxUploadBytes = 32 << 20

// APIError represents an API error response.
type APIError struct {
	Error APIErrorDetail `json:"error"`
}

// APIErrorDetail contains error details.
type APIErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// registerAPIV1Routes registers all /api/v1/ routes.
func (s *Server) registerAPIV1Routes() {
	// CORS middleware for API routes.
	corsMiddleware := func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			// Allow requests from the Vite dev server.
			origin := r.Header.Get("Origin")
			if origin != "" {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
				w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
				w.Header().Set("Access-Control-Allow-Credentials", "true")
			}

			// Handle preflight requests.
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next(w, r)
		}
	}

	// JSON middleware for API routes.
	jsonMiddleware := func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			next(w, r)
		}
	}

	// Combine middlewares.
	api := func(handler http.HandlerFunc) http.HandlerFunc {
		return corsMiddleware(jsonMiddleware(handler))
	}

	// Health check.
	s.mux.HandleFunc("/api/v1/health", api(s.handleAPIV1Health))

	// Submissions.
	s.mux.HandleFunc("/api/v1/submissions", api(s.handleAPIV1Submissions))
	s.mux.HandleFunc("/api/v1/submissions/upload", api(s.handleAPIV1Upload))
	s.mux.HandleFunc("/api/v1/submissions/", api(s.handleAPIV1SubmissionByID))

	// Conferences.
	s.mux.HandleFunc("/api/v1/conferences", api(s.handleAPIV1Conferences))

	// Configuration. Export is CORS-wrapped but not JSON: it serves
	// document downloads.
	s.mux.HandleFunc("/api/v1/config", api(s.handleAPIV1Config))
	s.mux.HandleFunc("/api/v1/config/style", api(s.handleAPIV1ConfigStyle))
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Error encoding JSON response: %v", err)
	}
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, APIError{
		Error: APIErrorDetail{
			Code:    code,
			Message: message,
		},
	})
}

// writeServiceError maps a service error to an HTTP error response.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found",
			err.Error())

	case errors.Is(err, conference.ErrConferenceNotFound):
		writeError(w, http.StatusBadRequest, "unknown_conference",
			err.Error())

	default:
		writeError(w, http.StatusInternalServerError,
			"internal_error", err.Error())
	}
}

// askSubmissions sends a request to the submission service and waits for
// its reply.
func (s *Server) askSubmissions(r *http.Request,
	msg review.SubmissionRequest,
) (review.SubmissionResponse, error) {
	return actorutil.AskAwait(r.Context(), s.submissions, msg)
}

// askConfig sends a request to the config service and waits for its
// reply.
func (s *Server) askConfig(r *http.Request,
	msg config.ConfigRequest,
) (config.ConfigResponse, error) {
	return actorutil.AskAwait(r.Context(), s.configSvc, msg)
}

// handleAPIV1Health handles GET /api/v1/health.
func (s *Server) handleAPIV1Health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "Method not allowed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

// handleAPIV1Submissions handles /api/v1/submissions.
func (s *Server) handleAPIV1Submissions(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.listSubmissions(w, r)
	case http.MethodPost:
		s.createSubmission(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "Method not allowed")
	}
}

// listSubmissions handles GET /api/v1/submissions.
func (s *Server) listSubmissions(w http.ResponseWriter, r *http.Request) {
	resp, err := s.askSubmissions(r, review.ListSubmissionsMsg{})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	list := resp.(review.ListSubmissionsResp)
	if list.Error != nil {
		writeServiceError(w, list.Error)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"submissions": list.Submissions,
	})
}

// createSubmission handles POST /api/v1/submissions. The paper text is
// sent inline; document uploads go through /submissions/upload.
func (s *Server) createSubmission(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title        string `json:"title"`
		Content      string `json:"content"`
		ConferenceID string `json:"conferenceId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "Invalid JSON body")
		return
	}

	if strings.TrimSpace(req.Title) == "" ||
		strings.TrimSpace(req.Content) == "" ||
		req.ConferenceID == "" {

		writeError(w, http.StatusBadRequest, "missing_fields",
			"title, content and conferenceId are required")
		return
	}

	resp, err := s.askSubmissions(r, review.StartReviewMsg{
		Title:        req.Title,
		Content:      req.Content,
		ConferenceID: req.ConferenceID,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	start := resp.(review.StartReviewResp)
	if start.Error != nil {
		writeServiceError(w, start.Error)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"id":     start.SubmissionID,
		"status": start.Status,
	})
}

// handleAPIV1Upload handles POST /api/v1/submissions/upload with a
// multipart document.
func (s *Server) handleAPIV1Upload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "Method not allowed")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_upload",
			"Could not parse multipart form: "+err.Error())
		return
	}

	title := r.FormValue("title")
	conferenceID := r.FormValue("conferenceId")
	if strings.TrimSpace(title) == "" || conferenceID == "" {
		writeError(w, http.StatusBadRequest, "missing_fields",
			"title and conferenceId are required")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing_file",
			"A file field is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_upload",
			"Could not read uploaded file")
		return
	}

	resp, err := s.askSubmissions(r, review.IngestDocumentMsg{
		Title:        title,
		ConferenceID: conferenceID,
		FileName:     header.Filename,
		Data:         data,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	ingest := resp.(review.IngestDocumentResp)
	if ingest.Error != nil {
		writeServiceError(w, ingest.Error)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"id":     ingest.SubmissionID,
		"status": ingest.Status,
	})
}

// handleAPIV1SubmissionByID handles /api/v1/submissions/{id} and its
// subresources.
func (s *Server) handleAPIV1SubmissionByID(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/v1/submissions/")
	id, sub, _ := strings.Cut(rest, "/")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing_id", "Submission id is required")
		return
	}

	switch sub {
	case "":
		switch r.Method {
		case http.MethodGet:
			s.getSubmission(w, r, id)
		case http.MethodDelete:
			s.deleteSubmission(w, r, id)
		default:
			writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "Method not allowed")
		}

	case "rebuttal":
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "Method not allowed")
			return
		}
		s.postRebuttal(w, r, id)

	case "export":
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "Method not allowed")
			return
		}
		s.exportSubmission(w, r, id)

	default:
		writeError(w, http.StatusNotFound, "not_found", "Unknown subresource")
	}
}

// getSubmission handles GET /api/v1/submissions/{id}.
func (s *Server) getSubmission(w http.ResponseWriter, r *http.Request, id string) {
	resp, err := s.askSubmissions(r, review.GetSubmissionMsg{
		SubmissionID: id,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	get := resp.(review.GetSubmissionResp)
	if get.Error != nil {
		writeServiceError(w, get.Error)
		return
	}

	writeJSON(w, http.StatusOK, get.Submission)
}

// deleteSubmission handles DELETE /api/v1/submissions/{id}.
func (s *Server) deleteSubmission(w http.ResponseWriter, r *http.Request, id string) {
	resp, err := s.askSubmissions(r, review.DeleteSubmissionMsg{
		SubmissionID: id,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	del := resp.(review.DeleteSubmissionResp)
	if del.Error != nil {
		writeServiceError(w, del.Error)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// postRebuttal handles POST /api/v1/submissions/{id}/rebuttal.
func (s *Server) postRebuttal(w http.ResponseWriter, r *http.Request, id string) {
	var req struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "Invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		writeError(w, http.StatusBadRequest, "missing_fields", "message is required")
		return
	}

	resp, err := s.askSubmissions(r, review.AppendRebuttalMsg{
		SubmissionID: id,
		Text:         req.Message,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	rebuttal := resp.(review.AppendRebuttalResp)
	if rebuttal.Error != nil {
		if errors.Is(rebuttal.Error, store.ErrNotFound) {
			writeServiceError(w, rebuttal.Error)
			return
		}
		// Non-completed submissions are a client error.
		writeError(w, http.StatusConflict, "not_completed",
			rebuttal.Error.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"reply": rebuttal.Reply,
		"chat":  rebuttal.Chat,
	})
}

// exportSubmission handles GET /api/v1/submissions/{id}/export. The
// format query parameter selects markdown (default) or html.
func (s *Server) exportSubmission(w http.ResponseWriter, r *http.Request, id string) {
	resp, err := s.askSubmissions(r, review.GetSubmissionMsg{
		SubmissionID: id,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	get := resp.(review.GetSubmissionResp)
	if get.Error != nil {
		writeServiceError(w, get.Error)
		return
	}
	view := get.Submission

	rep := &report.Report{
		Title:          view.Title,
		ConferenceName: s.conferenceName(r, view.ConferenceID),
		Status:         view.Status,
		Result:         view.Result,
		Rebuttal:       view.RebuttalChat,
		GeneratedAt:    time.Now().UTC(),
	}

	switch r.URL.Query().Get("format") {
	case "", "markdown", "md":
		w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
		w.Header().Set("Content-Disposition",
			`attachment; filename="review-`+id+`.md"`)
		w.WriteHeader(http.StatusOK)
		io.WriteString(w, rep.Markdown())

	case "html":
		page, err := rep.HTML()
		if err != nil {
			writeError(w, http.StatusInternalServerError,
				"render_error", err.Error())
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		w.Write(page)

	default:
		writeError(w, http.StatusBadRequest, "invalid_format",
			"format must be markdown or html")
	}
}

// conferenceName resolves a venue id to its display name, falling back
// to the raw id.
func (s *Server) conferenceName(r *http.Request, conferenceID string) string {
	resp, err := s.askConfig(r, config.ListConferencesMsg{})
	if err != nil {
		return conferenceID
	}

	list := resp.(config.ListConferencesResp)

	// Later entries shadow earlier ones.
	for i := len(list.Conferences) - 1; i >= 0; i-- {
		if list.Conferences[i].ID == conferenceID {
			return list.Conferences[i].Name
		}
	}

	return conferenceID
}

// handleAPIV1Conferences handles /api/v1/conferences.
func (s *Server) handleAPIV1Conferences(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		resp, err := s.askConfig(r, config.ListConferencesMsg{})
		if err != nil {
			writeServiceError(w, err)
			return
		}

		list := resp.(config.ListConferencesResp)
		writeJSON(w, http.StatusOK, map[string]any{
			"conferences": list.Conferences,
		})

	case http.MethodPost:
		var conf conference.Conference
		if err := json.NewDecoder(r.Body).Decode(&conf); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_body", "Invalid JSON body")
			return
		}
		if conf.ID == "" || conf.Name == "" {
			writeError(w, http.StatusBadRequest, "missing_fields",
				"id and name are required")
			return
		}

		resp, err := s.askConfig(r, config.AddConferenceMsg{
			Conference: conf,
		})
		if err != nil {
			writeServiceError(w, err)
			return
		}

		add := resp.(config.AddConferenceResp)
		if add.Error != nil {
			writeServiceError(w, add.Error)
			return
		}

		writeJSON(w, http.StatusCreated, map[string]any{
			"conferences": add.Config.CustomConferences,
		})

	default:
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "Method not allowed")
	}
}

// handleAPIV1Config handles /api/v1/config.
func (s *Server) handleAPIV1Config(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		resp, err := s.askConfig(r, config.GetConfigMsg{})
		if err != nil {
			writeServiceError(w, err)
			return
		}

		get := resp.(config.GetConfigResp)
		writeJSON(w, http.StatusOK, redactConfig(get.Config))

	case http.MethodPut:
		var cfg config.AppConfig
		if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_body", "Invalid JSON body")
			return
		}

		// GET responses redact the API key, so an unchanged echo
		// of one must not clear the stored key.
		if cfg.ModelConfig.APIKey == "" {
			cur, err := s.askConfig(r, config.GetConfigMsg{})
			if err != nil {
				writeServiceError(w, err)
				return
			}
			get := cur.(config.GetConfigResp)
			cfg.ModelConfig.APIKey = get.Config.ModelConfig.APIKey
		}

		resp, err := s.askConfig(r, config.UpdateConfigMsg{Config: cfg})
		if err != nil {
			writeServiceError(w, err)
			return
		}

		update := resp.(config.UpdateConfigResp)
		if update.Error != nil {
			writeServiceError(w, update.Error)
			return
		}

		writeJSON(w, http.StatusOK, redactConfig(update.Config))

	default:
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "Method not allowed")
	}
}

// handleAPIV1ConfigStyle handles POST /api/v1/config/style, appending a
// learned style example to the corpus.
func (s *Server) handleAPIV1ConfigStyle(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "Method not allowed")
		return
	}

	var req struct {
		Example string `json:"example"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "Invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Example) == "" {
		writeError(w, http.StatusBadRequest, "missing_fields", "example is required")
		return
	}

	resp, err := s.askConfig(r, config.AppendStyleMsg{Example: req.Example})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	appended := resp.(config.AppendStyleResp)
	if appended.Error != nil {
		writeServiceError(w, appended.Error)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"fewShotExamples": appended.Config.FewShotExamples,
	})
}

// redactConfig strips the stored API key before a config snapshot leaves
// the process. The browser only needs to know whether one is set.
func redactConfig(cfg config.AppConfig) map[string]any {
	hasKey := cfg.ModelConfig.APIKey != ""
	cfg.ModelConfig.APIKey = ""

	return map[string]any{
		"userProfile":       cfg.UserProfile,
		"fewShotExamples":   cfg.FewShotExamples,
		"customConferences": cfg.CustomConferences,
		"modelConfig":       cfg.ModelConfig,
		"hasApiKey":         hasKey,
	}
}
