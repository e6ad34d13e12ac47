package server

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/ukaji3/ptrboard-go/pkg/accounts"
	"github.com/ukaji3/ptrboard-go/pkg/auth"
	"github.com/ukaji3/ptrboard-go/pkg/ptrboard/models"
	"github.com/ukaji3/ptrboard-go/pkg/ptrboard/output"
	"github.com/ukaji3/ptrboard-go/pkg/ptrboard/render"
)

func (s *Server) healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

func (s *Server) readyz(w http.ResponseWriter, r *http.Request) {
	if _, err := s.accounts.List(); err != nil {
		s.logger.Warn("readiness check failed", slog.String("error", err.Error()))
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte("account store not ready"))
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ready"))
}

type signUpRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) signUp(w http.ResponseWriter, r *http.Request) {
	var req signUpRequest
	if err := s.decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	account, err := s.accounts.SignUp(req.Username, req.Email, req.Password)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.logger.Info("account created", slog.String("username", account.Username))
	s.writeJSON(w, http.StatusCreated, account)
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token        string                `json:"token"`
	Username     string                `json:"username"`
	Role         accounts.Role         `json:"role"`
	Capabilities []accounts.Capability `json:"capabilities"`
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := s.decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	account, err := s.accounts.Authenticate(req.Username, req.Password)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, loginResponse{
		Token:        s.sessions.Create(account),
		Username:     account.Username,
		Role:         account.Role,
		Capabilities: accounts.Capabilities(account.Role),
	})
}

func (s *Server) logout(w http.ResponseWriter, r *http.Request) {
	s.sessions.Revoke(auth.IdentityFromContext(r.Context()).SessionID)
	w.WriteHeader(http.StatusNoContent)
}

type pagesResponse struct {
	Username     string                `json:"username"`
	Role         accounts.Role         `json:"role"`
	Capabilities []accounts.Capability `json:"capabilities"`
}

func (s *Server) pages(w http.ResponseWriter, r *http.Request) {
	id := auth.IdentityFromContext(r.Context())
	s.writeJSON(w, http.StatusOK, pagesResponse{
		Username:     id.Subject,
		Role:         id.Role,
		Capabilities: accounts.Capabilities(id.Role),
	})
}

type fileView struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	ModifiedTime time.Time `json:"modified_time"`
	LastUpdated  string    `json:"last_updated"`
}

func (s *Server) listFiles(w http.ResponseWriter, r *http.Request) {
	files, err := s.dashboard.Files(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	views := make([]fileView, len(files))
	for i, f := range files {
		views[i] = fileView{ID: f.ID, Name: f.Name, ModifiedTime: f.ModifiedTime, LastUpdated: f.LastUpdated(s.location)}
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"files": views})
}

func (s *Server) listSheets(w http.ResponseWriter, r *http.Request) {
	sheets, err := s.dashboard.Sheets(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"sheets": sheets})
}

type sheetResponse struct {
	output.SheetJSON
	Grid render.GridSpec `json:"grid"`
}

func (s *Server) sheet(w http.ResponseWriter, r *http.Request) {
	data, err := s.dashboard.Table(r.Context(), r.PathValue("id"), r.PathValue("sheet"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	version := r.URL.Query().Get("version")
	if version == "" && len(data.Versions) > 0 {
		version = data.Versions[0]
	}
	s.writeJSON(w, http.StatusOK, sheetResponse{
		SheetJSON: output.NewSheetJSON(data),
		Grid:      render.Grid(data.Table, version),
	})
}

type progressResponse struct {
	Version     string              `json:"version"`
	Percentages []models.Percentage `json:"percentages"`
}

func (s *Server) progress(w http.ResponseWriter, r *http.Request) {
	version, pcts, err := s.percentages(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, progressResponse{Version: version, Percentages: pcts})
}

func (s *Server) progressChart(format render.Format) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, pcts, err := s.percentages(r)
		if err != nil {
			s.writeError(w, r, err)
			return
		}

		var buf bytes.Buffer
		if err := render.ProgressChart(&buf, pcts, format); err != nil {
			s.writeError(w, r, err)
			return
		}
		w.Header().Set("Content-Type", format.ContentType())
		w.WriteHeader(http.StatusOK)
		w.Write(buf.Bytes())
	}
}

func (s *Server) flow(w http.ResponseWriter, r *http.Request) {
	id, sheet := r.PathValue("id"), r.PathValue("sheet")
	version, err := s.version(r, id, sheet)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	graph, err := s.dashboard.FlowGraph(r.Context(), id, sheet, version)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, render.Sankey(graph))
}

func (s *Server) overview(w http.ResponseWriter, r *http.Request) {
	blocks, err := s.dashboard.Overview(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"heatmaps": render.Heatmaps(blocks)})
}

func (s *Server) refresh(w http.ResponseWriter, r *http.Request) {
	s.dashboard.Refresh()
	s.logger.Info("cache refreshed", slog.String("by", auth.IdentityFromContext(r.Context()).Subject))
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) listUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.accounts.List()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"users": users})
}

type roleUpdate struct {
	Username string `json:"username"`
	Role     string `json:"role"`
}

// updateUsers applies the role column of the edited user table.
func (s *Server) updateUsers(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Users []roleUpdate `json:"users"`
	}
	if err := s.decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	roles := make(map[string]accounts.Role, len(req.Users))
	for _, u := range req.Users {
		role, err := accounts.ParseRole(u.Role)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		roles[u.Username] = role
	}
	if err := s.accounts.UpdateRoles(roles); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.logger.Info("roles updated",
		slog.String("by", auth.IdentityFromContext(r.Context()).Subject),
		slog.Int("count", len(roles)),
	)
	s.listUsers(w, r)
}

// version returns the requested version, defaulting to the sheet's first one.
func (s *Server) version(r *http.Request, id, sheet string) (string, error) {
	// Labels are matched exactly, trailing spaces included.
	if v := r.URL.Query().Get("version"); v != "" {
		return v, nil
	}
	data, err := s.dashboard.Table(r.Context(), id, sheet)
	if err != nil {
		return "", err
	}
	if len(data.Versions) == 0 {
		return "", fmt.Errorf("%w: version is required", ErrBadRequest)
	}
	return data.Versions[0], nil
}

func (s *Server) percentages(r *http.Request) (string, []models.Percentage, error) {
	id, sheet := r.PathValue("id"), r.PathValue("sheet")
	version, err := s.version(r, id, sheet)
	if err != nil {
		return "", nil, err
	}
	pcts, err := s.dashboard.Percentages(r.Context(), id, sheet, version)
	if err != nil {
		return "", nil, err
	}
	return version, pcts, nil
}
