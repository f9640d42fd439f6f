package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/seabeam/echofetch/internal/artifact"
	"github.com/seabeam/echofetch/internal/errs"
	"github.com/seabeam/echofetch/internal/fetch"
	"github.com/seabeam/echofetch/internal/resolve"
	"github.com/seabeam/echofetch/internal/version"
)

// identityParams is the JSON/query shape shared by resolve and fetch.
type identityParams struct {
	Ship        string `json:"ship"`
	Survey      string `json:"survey"`
	Echosounder string `json:"echosounder"`
	Source      string `json:"source"`
	FileName    string `json:"file_name"`
	FileType    string `json:"file_type"`
}

func (p identityParams) identity() (*artifact.Identity, error) {
	if p.Source == "" {
		p.Source = "NCEI"
	}
	if p.FileType == "" {
		p.FileType = "raw"
	}
	return artifact.New(artifact.Params{
		ShipName:    p.Ship,
		SurveyName:  p.Survey,
		Echosounder: p.Echosounder,
		DataSource:  p.Source,
		FileName:    p.FileName,
		FileType:    p.FileType,
	})
}

func identityFromQuery(r *http.Request) (*artifact.Identity, error) {
	q := r.URL.Query()
	return identityParams{
		Ship:        q.Get("ship"),
		Survey:      q.Get("survey"),
		Echosounder: q.Get("echosounder"),
		Source:      q.Get("source"),
		FileName:    q.Get("file_name"),
		FileType:    q.Get("file_type"),
	}.identity()
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": version.Version,
	})
}

type resolveResponse struct {
	FoundIn  string     `json:"found_in"`
	Bucket   string     `json:"bucket,omitempty"`
	Key      string     `json:"key"`
	Size     int64      `json:"size,omitempty"`
	Modified *time.Time `json:"last_modified,omitempty"`
}

func (s *Server) handleResolve(w http.ResponseWriter, r *http.Request) {
	id, err := identityFromQuery(r)
	if err != nil {
		writeError(w, err)
		return
	}
	rf, err := resolve.NewRawFile(id)
	if err != nil {
		writeError(w, err)
		return
	}

	res, err := s.Resolver.Resolve(r.Context(), rf, resolve.Options{
		ForceRefresh: r.URL.Query().Get("force_refresh") == "true",
	})
	if err != nil {
		writeError(w, err)
		return
	}

	resp := resolveResponse{
		FoundIn: res.FoundIn.String(),
		Bucket:  res.Bucket,
		Key:     res.Key,
	}
	if res.Info != nil {
		resp.Size = res.Info.Size
		if !res.Info.LastModified.IsZero() {
			t := res.Info.LastModified
			resp.Modified = &t
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

type fetchRequest struct {
	identityParams
	Overwrite    bool `json:"overwrite"`
	ForceRefresh bool `json:"force_refresh"`
}

type fetchResponse struct {
	State       string `json:"state"`
	Source      string `json:"source"`
	CacheKey    string `json:"cache_key"`
	BytesCopied int64  `json:"bytes_copied"`
	Converted   bool   `json:"converted"`
	RunID       string `json:"run_id"`
}

func (s *Server) handleFetch(w http.ResponseWriter, r *http.Request) {
	var req fetchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errs.Wrap(errs.ErrKindInvalidInput, "malformed request body", err))
		return
	}
	id, err := req.identity()
	if err != nil {
		writeError(w, err)
		return
	}

	res, err := s.Orchestrator.Fetch(r.Context(), fetch.Request{
		ID:           id,
		Overwrite:    req.Overwrite,
		ForceRefresh: req.ForceRefresh,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, fetchResponse{
		State:       res.State.String(),
		Source:      res.Source.String(),
		CacheKey:    res.CacheKey,
		BytesCopied: res.BytesCopied,
		Converted:   res.Converted,
		RunID:       res.RunID,
	})
}

func (s *Server) handleListShips(w http.ResponseWriter, r *http.Request) {
	ships, err := s.Explorer.ListShips(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]string{"ships": emptyIfNil(ships)})
}

func (s *Server) handleListSurveys(w http.ResponseWriter, r *http.Request) {
	surveys, err := s.Explorer.ListSurveys(r.Context(), chi.URLParam(r, "ship"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]string{"surveys": emptyIfNil(surveys)})
}

func (s *Server) handleListEchosounders(w http.ResponseWriter, r *http.Request) {
	sounders, err := s.Explorer.ListEchosounders(r.Context(),
		chi.URLParam(r, "ship"), chi.URLParam(r, "survey"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]string{"echosounders": emptyIfNil(sounders)})
}

func (s *Server) handleListFiles(w http.ResponseWriter, r *http.Request) {
	files, err := s.Explorer.ListRawFiles(r.Context(),
		chi.URLParam(r, "ship"), chi.URLParam(r, "survey"), chi.URLParam(r, "echosounder"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]string{"files": emptyIfNil(files)})
}

// --- response helpers ---

type errorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, statusFor(err), errorResponse{
		Error: err.Error(),
		Kind:  errs.KindOf(err).String(),
	})
}

// statusFor maps error kinds onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errs.IsUnknownShip(err),
		errs.IsInvalidEchosounder(err),
		errs.IsInvalidIdentity(err),
		errs.IsInvalidInput(err):
		return http.StatusBadRequest
	case errs.IsNotFound(err):
		return http.StatusNotFound
	case errs.IsAlreadyExists(err):
		return http.StatusConflict
	case errs.IsPermissionDenied(err), errs.IsReadOnly(err):
		return http.StatusForbidden
	case errs.IsTimeout(err):
		return http.StatusGatewayTimeout
	case errs.IsConnectionFailed(err):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func emptyIfNil(ss []string) []string {
	if ss == nil {
		return []string{}
	}
	return ss
}
