package web

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/justestif/go-mood-music-assistant/internal/assistant"
	"github.com/justestif/go-mood-music-assistant/internal/speech"
)

const (
	audioField     = "audio"
	pageTitle      = "Mood Music Assistant"
	maxMemoryBytes = 1 << 20
)

// TurnRunner runs one conversational turn for a session.
type TurnRunner interface {
	RunTurn(ctx context.Context, session *assistant.Session, clip speech.Clip) (*assistant.Turn, error)
}

// Handlers contains HTTP handlers for the web application.
type Handlers struct {
	runner        TurnRunner
	sessions      SessionManager
	templates     *Templates
	maxAudioBytes int64
	log           logrus.FieldLogger
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(runner TurnRunner, sessions SessionManager, templates *Templates, maxAudioBytes int64, log logrus.FieldLogger) *Handlers {
	return &Handlers{
		runner:        runner,
		sessions:      sessions,
		templates:     templates,
		maxAudioBytes: maxAudioBytes,
		log:           log,
	}
}

// Home handles the home page (GET /).
func (h *Handlers) Home(w http.ResponseWriter, r *http.Request) {
	session, err := h.ensureSession(w, r)
	if err != nil {
		http.Error(w, "Failed to create session", http.StatusInternalServerError)
		return
	}

	data := HomePageData{
		PageData: PageData{
			Title:       pageTitle,
			CurrentPath: r.URL.Path,
		},
		History: newHistoryData(session.Conversation.History()),
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.templates.Render(w, "home", data); err != nil {
		h.log.WithError(err).Error("rendering home page")
		http.Error(w, "Failed to render template", http.StatusInternalServerError)
		return
	}
}

// SubmitTurn runs a turn for an uploaded recording (POST /turns).
func (h *Handlers) SubmitTurn(w http.ResponseWriter, r *http.Request) {
	session, err := h.ensureSession(w, r)
	if err != nil {
		http.Error(w, "Failed to create session", http.StatusInternalServerError)
		return
	}

	if r.ContentLength > h.maxAudioBytes {
		h.renderError(w, http.StatusRequestEntityTooLarge, "La registrazione è troppo lunga.")
		return
	}

	clip, err := h.readClip(w, r)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.renderError(w, http.StatusRequestEntityTooLarge, "La registrazione è troppo lunga.")
			return
		}
		h.renderError(w, http.StatusBadRequest, "Registrazione audio mancante o non valida.")
		return
	}

	// A turn runs to completion even if the browser goes away.
	turn, err := h.runner.RunTurn(context.WithoutCancel(r.Context()), session.Conversation, clip)
	if errors.Is(err, assistant.ErrTurnInProgress) {
		h.renderError(w, http.StatusConflict, "Elaborazione già in corso, attendi il risultato.")
		return
	}
	if err != nil {
		h.log.WithError(err).Error("running turn")
		h.renderError(w, http.StatusInternalServerError, "Si è verificato un errore.")
		return
	}

	h.renderPartial(w, http.StatusOK, "turn", newTurnData(turn, session.Conversation.History()))
}

// History returns the session history partial (GET /history).
func (h *Handlers) History(w http.ResponseWriter, r *http.Request) {
	var data HistoryData
	if session := h.sessions.GetFromRequest(r); session != nil {
		data = newHistoryData(session.Conversation.History())
	}
	h.renderPartial(w, http.StatusOK, "history", data)
}

// Healthz reports liveness (GET /healthz).
func (h *Handlers) Healthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = io.WriteString(w, "ok\n")
}

// ensureSession returns the request's session, creating one if needed.
func (h *Handlers) ensureSession(w http.ResponseWriter, r *http.Request) (*Session, error) {
	if session := h.sessions.GetFromRequest(r); session != nil {
		return session, nil
	}

	session, err := h.sessions.Create(r.Context())
	if err != nil {
		h.log.WithError(err).Error("creating session")
		return nil, err
	}
	h.sessions.SetCookie(w, session)
	return session, nil
}

// readClip reads the uploaded recording, bounded by maxAudioBytes.
func (h *Handlers) readClip(w http.ResponseWriter, r *http.Request) (speech.Clip, error) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxAudioBytes)

	if err := r.ParseMultipartForm(maxMemoryBytes); err != nil {
		return speech.Clip{}, err
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	file, header, err := r.FormFile(audioField)
	if err != nil {
		return speech.Clip{}, err
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return speech.Clip{}, err
	}

	return speech.Clip{
		Data:        data,
		ContentType: header.Header.Get("Content-Type"),
	}, nil
}

func (h *Handlers) renderError(w http.ResponseWriter, status int, message string) {
	h.renderPartial(w, status, "error", ErrorData{Message: message})
}

func (h *Handlers) renderPartial(w http.ResponseWriter, status int, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := h.templates.RenderPartial(w, name, data); err != nil {
		h.log.WithError(err).WithField("partial", name).Error("rendering partial")
	}
}
