package controllers

import (
	"context"
	"errors"
	"fmt"
	json "github.com/goccy/go-json"
	"io"
	"mafiabot/internal/jobs"
	"mafiabot/internal/models"
	"mafiabot/internal/platform"
	"mafiabot/internal/providers"
	"mafiabot/internal/services"
	"mafiabot/internal/storage"
	"math"
	"net/http"
	"strconv"
)

const (
	maxRequestBodySize = 1 << 20 // 1 MB
	maxAvatarSize      = 8 << 20
)

// JobRunner runs a scheduled job on demand.
type JobRunner interface {
	RunNow(ctx context.Context, name string) error
}

// AdminController exposes the core entry points over HTTP.
type AdminController struct {
	logger providers.Logger
	core   services.CoreInterface
	jobs   JobRunner
}

func NewAdminController(logger providers.Logger, core services.CoreInterface, jobs JobRunner) *AdminController {
	return &AdminController{
		logger: logger,
		core:   core,
		jobs:   jobs,
	}
}

type channelRequest struct {
	ChannelID models.ID `json:"channel_id,string"`
}

type archiveRequest struct {
	SourceID models.ID `json:"source_id,string"`
	TargetID models.ID `json:"target_id,string"`
}

type postRequest struct {
	Name        string      `json:"name"`
	DisplayText string      `json:"displayText"`
	EndDate     models.Date `json:"endDate"`
}

type nameRequest struct {
	Name string `json:"name"`
}

func (ac *AdminController) ToggleImageOnly(w http.ResponseWriter, r *http.Request) {
	var req channelRequest
	if !ac.decode(w, r, &req) {
		return
	}
	if req.ChannelID == 0 {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	added, err := ac.core.ToggleImageOnly(r.Context(), req.ChannelID)
	if err != nil {
		ac.fail(w, "toggle image-only", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"added": added})
}

func (ac *AdminController) SetArchive(w http.ResponseWriter, r *http.Request) {
	var req archiveRequest
	if !ac.decode(w, r, &req) {
		return
	}
	if req.SourceID == 0 || req.TargetID == 0 {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	if err := ac.core.SetArchive(r.Context(), req.SourceID, req.TargetID); err != nil {
		ac.fail(w, "set archive", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (ac *AdminController) StopArchive(w http.ResponseWriter, r *http.Request) {
	var req archiveRequest
	if !ac.decode(w, r, &req) {
		return
	}
	if req.SourceID == 0 {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	if err := ac.core.StopArchive(r.Context(), req.SourceID); err != nil {
		ac.fail(w, "stop archive", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (ac *AdminController) ListArchives(w http.ResponseWriter, r *http.Request) {
	archives, err := ac.core.Archives(r.Context())
	if err != nil {
		ac.fail(w, "list archives", err)
		return
	}
	out := make(map[string]string, len(archives))
	for source, target := range archives {
		out[source.String()] = target.String()
	}
	writeJSON(w, http.StatusOK, map[string]any{"archives": out})
}

func (ac *AdminController) Purge(w http.ResponseWriter, r *http.Request) {
	report, err := ac.core.TriggerPurgeNow(r.Context())
	if err != nil {
		ac.fail(w, "purge", err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (ac *AdminController) ListPosts(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"posts": ac.core.ListPosts()})
}

func (ac *AdminController) SavePost(w http.ResponseWriter, r *http.Request) {
	var req postRequest
	if !ac.decode(w, r, &req) {
		return
	}
	post := models.Post{Name: req.Name, DisplayText: req.DisplayText, EndDate: req.EndDate}
	if err := ac.core.SavePost(r.Context(), post); err != nil {
		ac.fail(w, "save post", err)
		return
	}
	writeJSON(w, http.StatusCreated, post)
}

func (ac *AdminController) DeletePost(w http.ResponseWriter, r *http.Request) {
	var req nameRequest
	if !ac.decode(w, r, &req) {
		return
	}
	deleted, err := ac.core.DeletePost(r.Context(), req.Name)
	if err != nil {
		ac.fail(w, "delete post", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"deleted": deleted})
}

func (ac *AdminController) Status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": ac.core.Status()})
}

// ChangeAvatar takes the raw image as request body.
func (ac *AdminController) ChangeAvatar(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxAvatarSize)
	image, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	if err := ac.core.ChangeAvatar(r.Context(), image); err != nil {
		ac.fail(w, "change avatar", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (ac *AdminController) ResetAvatar(w http.ResponseWriter, r *http.Request) {
	if err := ac.core.ResetAvatar(r.Context()); err != nil {
		ac.fail(w, "reset avatar", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (ac *AdminController) RunJob(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	if name == "" {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	if err := ac.jobs.RunNow(r.Context(), name); err != nil {
		ac.fail(w, "run job "+name, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (ac *AdminController) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return false
	}
	return true
}

func (ac *AdminController) fail(w http.ResponseWriter, action string, err error) {
	status := StatusFor(err)
	if status >= http.StatusInternalServerError {
		ac.logger.Errorf(providers.TypeHTTP, "%s: %s", action, err)
	} else {
		ac.logger.Warnf(providers.TypeHTTP, "%s: %s", action, err)
	}

	var limited *services.RateLimitedError
	if errors.As(err, &limited) {
		w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(limited.RetryAfter.Seconds()))))
	}
	writeJSON(w, status, map[string]string{"error": fmt.Sprintf("%s: %s", action, err)})
}

// StatusFor maps core errors onto HTTP status codes.
func StatusFor(err error) int {
	var (
		limited *services.RateLimitedError
		corrupt *storage.StorageCorruptError
		missing *storage.StorageMissingError
	)
	switch {
	case errors.As(err, &limited):
		return http.StatusTooManyRequests
	case errors.As(err, &corrupt), errors.As(err, &missing):
		return http.StatusInternalServerError
	case platform.IsNotFound(err):
		return http.StatusNotFound
	case platform.IsPermissionDenied(err):
		return http.StatusForbidden
	case errors.Is(err, models.ErrEmptyPostName),
		errors.Is(err, models.ErrMissingEndDate),
		errors.Is(err, services.ErrEmptyAvatar),
		errors.Is(err, jobs.ErrUnknownJob):
		return http.StatusBadRequest
	case errors.Is(err, jobs.ErrAlreadyRunning):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	gson, err := json.Marshal(v)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(gson)
}
