package web

import (
	"errors"
	"mime"
	"net/http"
	"strconv"

	"github.com/Velocidex/ordereddict"
	"github.com/dustin/go-humanize"
	"github.com/go-chi/chi/v5"
	"github.com/gorilla/csrf"

	"github.com/JonMunkholm/RdgUpload/internal/core"
	"github.com/JonMunkholm/RdgUpload/internal/logging"
	"github.com/JonMunkholm/RdgUpload/internal/web/templates"
)

// ConvertResponse is returned by POST /api/convert.
type ConvertResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Size        int64  `json:"size"`
	Rows        int    `json:"rows"`
	DownloadURL string `json:"download_url"`
}

// PreviewResponse is returned by POST /api/preview. Rows keep header order.
type PreviewResponse struct {
	Columns []string            `json:"columns"`
	Rows    []*ordereddict.Dict `json:"rows"`
	Total   int                 `json:"total"`
}

func downloadURL(id string) string {
	return "/downloads/" + id
}

// handleIndex renders the upload form.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.renderIndex(w, r, http.StatusOK, nil)
}

func (s *Server) renderIndex(w http.ResponseWriter, r *http.Request, status int, alert *templates.Alert) {
	profiles := s.service.Profiles()
	def := profiles.Default().Name
	selected := r.FormValue("profile")
	if selected == "" {
		selected = def
	}

	var options []templates.ProfileOption
	for _, p := range profiles.List() {
		options = append(options, templates.ProfileOption{
			Name:        p.Name,
			Description: p.Description,
			Selected:    p.Name == selected,
		})
	}

	data := templates.IndexData{
		Profiles:    options,
		GroupName:   r.FormValue("group_name"),
		MaxFileSize: humanize.Bytes(uint64(s.cfg.Upload.MaxFileSize)),
		Error:       alert,
	}
	if s.cfg.Security.CSRFKey != "" {
		data.CSRFToken = csrf.Token(r)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := templates.Index(data).Render(r.Context(), w); err != nil {
		logging.FromContext(r.Context()).Error("render index", "error", err)
	}
}

// handleUpload converts a form upload and redirects to its download.
// Failures re-render the form with the error.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	in, err := s.readUpload(w, r)
	if err == nil {
		var stored *core.StoredArtifact
		stored, err = s.service.Convert(withRequestMetadata(r), in)
		if err == nil {
			http.Redirect(w, r, downloadURL(stored.ID), http.StatusSeeOther)
			return
		}
	}

	if isHTMX(r) || wantsJSON(r) {
		respondError(w, r, err, statusFor(err))
		return
	}

	msg := core.MapError(err)
	logging.FromContext(r.Context()).Warn("upload rejected", "error", err, "code", msg.Code)
	s.renderIndex(w, r, statusFor(err), &templates.Alert{
		Message: msg.Message,
		Action:  msg.Action,
		Code:    msg.Code,
	})
}

// handleDownload serves an artifact once.
func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	art, err := s.service.Download(r.Context(), id)
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}

	w.Header().Set("Content-Type", art.ContentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": art.Name}))
	w.Header().Set("Content-Length", strconv.Itoa(len(art.Data)))
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(art.Data); err != nil {
		logging.FromContext(r.Context()).Warn("download interrupted", "artifact_id", id, "error", err)
	}
}

// handleConvert is the JSON form of handleUpload.
func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	in, err := s.readUpload(w, r)
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}

	stored, err := s.service.Convert(withRequestMetadata(r), in)
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}

	writeJSON(w, http.StatusCreated, ConvertResponse{
		ID:          stored.ID,
		Name:        stored.Name,
		Size:        stored.Size,
		Rows:        stored.Rows,
		DownloadURL: downloadURL(stored.ID),
	})
}

// handlePreview returns the first rows that would be converted.
func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	in, err := s.readUpload(w, r)
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}

	limit := 0
	if v := r.FormValue("limit"); v != "" {
		n, convErr := strconv.Atoi(v)
		if convErr != nil || n < 1 {
			respondError(w, r, errors.New("invalid option: limit must be a positive number"), http.StatusBadRequest)
			return
		}
		limit = n
	}

	result, err := s.service.Preview(withRequestMetadata(r), in, limit)
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}

	rows := make([]*ordereddict.Dict, 0, result.Table.Len())
	for _, row := range result.Table.Rows {
		d := ordereddict.NewDict()
		for _, col := range result.Table.Columns {
			if c := row[col]; c.Valid {
				d.Set(col, c.Value)
			} else {
				d.Set(col, nil)
			}
		}
		rows = append(rows, d)
	}

	writeJSON(w, http.StatusOK, PreviewResponse{
		Columns: result.Table.Columns,
		Rows:    rows,
		Total:   result.Total,
	})
}

// handleListProfiles returns the configured conversion profiles.
func (s *Server) handleListProfiles(w http.ResponseWriter, r *http.Request) {
	profiles := s.service.Profiles()
	writeJSON(w, http.StatusOK, map[string]any{
		"default":  profiles.Default().Name,
		"profiles": profiles.List(),
	})
}

// handleStatus reports conversion capacity and pending downloads.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"conversions":       s.service.LimiterStatus(),
		"pending_artifacts": s.service.PendingArtifacts(),
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleCSRFFailure answers form posts whose CSRF token is missing or stale.
func (s *Server) handleCSRFFailure(w http.ResponseWriter, r *http.Request) {
	logging.FromContext(r.Context()).Warn("csrf check failed", "reason", csrf.FailureReason(r))
	s.renderIndex(w, r, http.StatusForbidden, &templates.Alert{
		Message: "Your form session has expired",
		Action:  "Reload the page and upload the file again",
		Code:    "SEC001",
	})
}
