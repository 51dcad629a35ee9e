package daemon

import (
	"net/http"
	"strings"

	"github.com/julienschmidt/httprouter"

	"colophon/internal/api"
	"colophon/internal/services"
)

func (s *apiServer) handleStatus(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	status := s.daemon.Status(r.Context())
	s.writeJSON(w, http.StatusOK, api.StatusResponse{
		Running:      status.Running,
		PID:          status.PID,
		JournalCode:  s.daemon.cfg.Journal.Code,
		JournalName:  s.daemon.cfg.Journal.Name,
		DatabasePath: status.DatabasePath,
		LockFilePath: status.LockFilePath,
	})
}

func (s *apiServer) handleTestNotification(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	sent, message, err := s.daemon.TestNotification(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, api.NotifyResponse{Sent: sent, Message: message})
}

// handleListManuscripts returns the acting user's feed when a user query
// parameter is present, and the full listing otherwise.
func (s *apiServer) handleListManuscripts(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	email := strings.TrimSpace(r.URL.Query().Get("user"))
	var (
		views []api.ManuscriptView
		err   error
	)
	if email != "" {
		views, err = s.manuscripts.ListForUser(r.Context(), email)
	} else {
		views, err = s.manuscripts.List(r.Context())
	}
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string][]api.ManuscriptView{"manuscripts": views})
}

func (s *apiServer) handleCreateManuscript(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req api.CreateManuscriptRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	view, err := s.manuscripts.Create(r.Context(), req)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, view)
}

func (s *apiServer) handleGetManuscript(w http.ResponseWriter, r *http.Request, params httprouter.Params) {
	view, err := s.manuscripts.Get(r.Context(), params.ByName("id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, view)
}

func (s *apiServer) handleDeleteManuscript(w http.ResponseWriter, r *http.Request, params httprouter.Params) {
	if err := s.manuscripts.Delete(r.Context(), params.ByName("id")); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"deleted": params.ByName("id")})
}

func (s *apiServer) handleManuscriptsByState(w http.ResponseWriter, r *http.Request, params httprouter.Params) {
	views, err := s.manuscripts.ByState(r.Context(), params.ByName("state"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string][]api.ManuscriptView{"manuscripts": views})
}

func (s *apiServer) handleSimilarManuscripts(w http.ResponseWriter, r *http.Request, params httprouter.Params) {
	views, err := s.manuscripts.Similar(r.Context(), params.ByName("id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string][]api.ManuscriptView{"manuscripts": views})
}

func (s *apiServer) handleReceiveAction(w http.ResponseWriter, r *http.Request, params httprouter.Params) {
	var req api.ActionRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	resp, err := s.manuscripts.ReceiveAction(r.Context(), params.ByName("id"), req)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *apiServer) handleAvailableActions(w http.ResponseWriter, r *http.Request, params httprouter.Params) {
	email := strings.TrimSpace(r.URL.Query().Get("user"))
	if email == "" {
		s.writeError(w, services.Wrap(services.ErrValidation, "api-server", "actions",
			"a user query parameter is required", nil))
		return
	}
	actions, err := s.manuscripts.AvailableActions(r.Context(), email, params.ByName("id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	if actions == nil {
		actions = []string{}
	}
	s.writeJSON(w, http.StatusOK, map[string][]string{"actions": actions})
}

// handleUploadFile accepts a multipart form with a single "file" field.
func (s *apiServer) handleUploadFile(w http.ResponseWriter, r *http.Request, params httprouter.Params) {
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		s.writeError(w, services.Wrap(services.ErrValidation, "api-server", "upload",
			"malformed multipart form", err))
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		s.writeError(w, services.Wrap(services.ErrValidation, "api-server", "upload",
			"a file field is required", err))
		return
	}
	defer file.Close()
	if err := s.manuscripts.StoreFile(r.Context(), params.ByName("id"), header.Filename, file); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, map[string]string{"stored": header.Filename})
}

func (s *apiServer) handleDownloadFile(w http.ResponseWriter, r *http.Request, params httprouter.Params) {
	path, err := s.manuscripts.OriginalFile(params.ByName("id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	http.ServeFile(w, r, path)
}

func (s *apiServer) handleStates(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	s.writeJSON(w, http.StatusOK, map[string][]api.CatalogEntry{"states": api.StateCatalog()})
}

func (s *apiServer) handleActions(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	s.writeJSON(w, http.StatusOK, map[string][]api.CatalogEntry{"actions": api.ActionCatalog()})
}

func (s *apiServer) handleDashboardColumns(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	s.writeJSON(w, http.StatusOK, map[string][]api.CatalogEntry{"columns": api.DashboardColumns()})
}

func (s *apiServer) handleListPeople(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	query := r.URL.Query()
	views, err := s.people.List(r.Context(), query.Get("name"), query.Get("role"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string][]api.PersonView{"people": views})
}

func (s *apiServer) handleCreatePerson(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req api.PersonRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	view, err := s.people.Create(r.Context(), req)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, view)
}

func (s *apiServer) handleGetPerson(w http.ResponseWriter, r *http.Request, params httprouter.Params) {
	view, err := s.people.Get(r.Context(), params.ByName("id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, view)
}

func (s *apiServer) handleUpdatePerson(w http.ResponseWriter, r *http.Request, params httprouter.Params) {
	var req api.PersonRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	view, err := s.people.Update(r.Context(), params.ByName("id"), req)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, view)
}

func (s *apiServer) handleDeletePerson(w http.ResponseWriter, r *http.Request, params httprouter.Params) {
	if err := s.people.Delete(r.Context(), params.ByName("id")); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"deleted": params.ByName("id")})
}

func (s *apiServer) handleMasthead(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	sections, err := s.people.Masthead(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string][]api.MastheadSection{"masthead": sections})
}

func (s *apiServer) handleListTexts(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	titles, err := s.texts.Titles(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	if titles == nil {
		titles = []string{}
	}
	s.writeJSON(w, http.StatusOK, map[string][]string{"titles": titles})
}

func (s *apiServer) handleCreateText(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req api.TextRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	view, err := s.texts.Create(r.Context(), req)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, view)
}

func (s *apiServer) handleGetText(w http.ResponseWriter, r *http.Request, params httprouter.Params) {
	view, err := s.texts.Get(r.Context(), params.ByName("title"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, view)
}

func (s *apiServer) handleUpdateText(w http.ResponseWriter, r *http.Request, params httprouter.Params) {
	var req api.TextRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	view, err := s.texts.Update(r.Context(), params.ByName("title"), req)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, view)
}

func (s *apiServer) handleDeleteText(w http.ResponseWriter, r *http.Request, params httprouter.Params) {
	if err := s.texts.Delete(r.Context(), params.ByName("title")); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"deleted": params.ByName("title")})
}
