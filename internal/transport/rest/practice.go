package rest

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/heartmarshall/flashdeck-backend/internal/domain"
	"github.com/heartmarshall/flashdeck-backend/internal/service/practice"
)

// practiceService defines what PracticeHandler needs from the practice service.
type practiceService interface {
	StartSession(ctx context.Context, input practice.StartSessionInput) (*practice.SessionView, error)
	GetSession(ctx context.Context, sessionID uuid.UUID) (*practice.SessionView, error)
	StartQuestion(ctx context.Context, sessionID uuid.UUID) (*practice.SessionView, error)
	Reveal(ctx context.Context, sessionID uuid.UUID) (*practice.SessionView, error)
	Mark(ctx context.Context, input practice.MarkInput) (*practice.SessionView, error)
	FinishSession(ctx context.Context, sessionID uuid.UUID) (*practice.SessionView, error)
	AbandonSession(ctx context.Context, sessionID uuid.UUID) error
	GetDeckStats(ctx context.Context, input practice.DeckStatsInput) (*domain.DeckStats, error)
	GetKnownCardIDs(ctx context.Context, deckID uuid.UUID) (domain.CardIDSet, error)
	SetCardKnown(ctx context.Context, input practice.SetCardKnownInput) error
	ResetDeckProgress(ctx context.Context, deckID uuid.UUID) error
}

// PracticeHandler serves practice session and deck statistics endpoints.
type PracticeHandler struct {
	svc practiceService
	log *slog.Logger
}

// NewPracticeHandler creates a PracticeHandler.
func NewPracticeHandler(svc practiceService, logger *slog.Logger) *PracticeHandler {
	return &PracticeHandler{svc: svc, log: logger.With("handler", "practice")}
}

type startSessionRequest struct {
	Filter      domain.KnownFilter `json:"filter"`
	Direction   domain.Direction   `json:"direction"`
	Count       int                `json:"count"`
	RandomOrder bool               `json:"randomOrder"`
}

type outcomeRequest struct {
	Outcome domain.Outcome `json:"outcome"`
}

type knownRequest struct {
	Known bool `json:"known"`
}

type sessionResponse struct {
	ID        uuid.UUID           `json:"id"`
	DeckID    uuid.UUID           `json:"deckId"`
	State     domain.SessionState `json:"state"`
	Direction domain.Direction    `json:"direction"`
	StartedAt time.Time           `json:"startedAt"`
	Card      *cardSideResponse   `json:"card,omitempty"`
	Progress  progressResponse    `json:"progress"`
	Recorded  bool                `json:"recorded"`
}

type cardSideResponse struct {
	ID       uuid.UUID `json:"id"`
	Question string    `json:"question"`
	Answer   *string   `json:"answer,omitempty"`
	Example  *string   `json:"example,omitempty"`
}

type progressResponse struct {
	TotalViewed int  `json:"totalViewed"`
	TotalCards  int  `json:"totalCards"`
	Remaining   int  `json:"remaining"`
	Correct     int  `json:"correct"`
	Repeat      int  `json:"repeat"`
	Hard        int  `json:"hard"`
	Complete    bool `json:"complete"`
}

type dailyStatsResponse struct {
	Date          string `json:"date"`
	Sessions      int    `json:"sessions"`
	Viewed        int    `json:"viewed"`
	Correct       int    `json:"correct"`
	Repeat        int    `json:"repeat"`
	Hard          int    `json:"hard"`
	DurationMs    int64  `json:"durationMs"`
	AnswerDelayMs int64  `json:"answerDelayMs"`
}

type summaryResponse struct {
	TotalSessions    int     `json:"totalSessions"`
	TotalViewed      int     `json:"totalViewed"`
	TotalCorrect     int     `json:"totalCorrect"`
	TotalRepeat      int     `json:"totalRepeat"`
	TotalHard        int     `json:"totalHard"`
	TotalDurationMs  int64   `json:"totalDurationMs"`
	AccuracyRate     float64 `json:"accuracyRate"`
	AvgAnswerDelayMs int64   `json:"avgAnswerDelayMs"`
	Streak           int     `json:"streak"`
	KnownCount       int     `json:"knownCount"`
	TotalCards       int     `json:"totalCards"`
}

type deckStatsResponse struct {
	DeckID  uuid.UUID            `json:"deckId"`
	Daily   []dailyStatsResponse `json:"daily"`
	Summary summaryResponse      `json:"summary"`
}

type knownResponse struct {
	DeckID  uuid.UUID   `json:"deckId"`
	CardIDs []uuid.UUID `json:"cardIds"`
}

// StartSession handles POST /api/decks/{deckID}/sessions.
// Omitted filter and direction default to ALL and FRONT_TO_BACK.
func (h *PracticeHandler) StartSession(w http.ResponseWriter, r *http.Request) {
	deckID, err := pathUUID(r, "deckID")
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	req := startSessionRequest{
		Filter:    domain.KnownFilterAll,
		Direction: domain.DirectionFrontToBack,
	}
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, h.log, err)
		return
	}

	view, err := h.svc.StartSession(r.Context(), practice.StartSessionInput{
		DeckID:      deckID,
		Filter:      req.Filter,
		Direction:   req.Direction,
		Count:       req.Count,
		RandomOrder: req.RandomOrder,
	})
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusCreated, toSessionResponse(view))
}

// GetSession handles GET /api/sessions/{sessionID}.
func (h *PracticeHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	h.sessionAction(w, r, h.svc.GetSession)
}

// StartQuestion handles POST /api/sessions/{sessionID}/question.
func (h *PracticeHandler) StartQuestion(w http.ResponseWriter, r *http.Request) {
	h.sessionAction(w, r, h.svc.StartQuestion)
}

// Reveal handles POST /api/sessions/{sessionID}/reveal.
func (h *PracticeHandler) Reveal(w http.ResponseWriter, r *http.Request) {
	h.sessionAction(w, r, h.svc.Reveal)
}

// Finish handles POST /api/sessions/{sessionID}/finish.
func (h *PracticeHandler) Finish(w http.ResponseWriter, r *http.Request) {
	h.sessionAction(w, r, h.svc.FinishSession)
}

// Outcome handles POST /api/sessions/{sessionID}/outcome.
func (h *PracticeHandler) Outcome(w http.ResponseWriter, r *http.Request) {
	sessionID, err := pathUUID(r, "sessionID")
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	var req outcomeRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, h.log, err)
		return
	}

	view, err := h.svc.Mark(r.Context(), practice.MarkInput{
		SessionID: sessionID,
		Outcome:   req.Outcome,
	})
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, toSessionResponse(view))
}

// Abandon handles DELETE /api/sessions/{sessionID}.
func (h *PracticeHandler) Abandon(w http.ResponseWriter, r *http.Request) {
	sessionID, err := pathUUID(r, "sessionID")
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	if err := h.svc.AbandonSession(r.Context(), sessionID); err != nil {
		handleError(w, r, h.log, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// DeckStats handles GET /api/decks/{deckID}/stats?from=&to=.
func (h *PracticeHandler) DeckStats(w http.ResponseWriter, r *http.Request) {
	deckID, err := pathUUID(r, "deckID")
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	q := r.URL.Query()
	from, err := parseDate(q.Get("from"), "from")
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	to, err := parseDate(q.Get("to"), "to")
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	stats, err := h.svc.GetDeckStats(r.Context(), practice.DeckStatsInput{
		DeckID: deckID,
		Range:  domain.DateRange{From: from, To: to},
	})
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, toDeckStatsResponse(stats))
}

// KnownCards handles GET /api/decks/{deckID}/known.
func (h *PracticeHandler) KnownCards(w http.ResponseWriter, r *http.Request) {
	deckID, err := pathUUID(r, "deckID")
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	known, err := h.svc.GetKnownCardIDs(r.Context(), deckID)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, knownResponse{DeckID: deckID, CardIDs: known.Sorted()})
}

// SetCardKnown handles PUT /api/decks/{deckID}/cards/{cardID}/known.
func (h *PracticeHandler) SetCardKnown(w http.ResponseWriter, r *http.Request) {
	deckID, err := pathUUID(r, "deckID")
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	cardID, err := pathUUID(r, "cardID")
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	var req knownRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, h.log, err)
		return
	}

	err = h.svc.SetCardKnown(r.Context(), practice.SetCardKnownInput{
		DeckID: deckID,
		CardID: cardID,
		Known:  req.Known,
	})
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ResetProgress handles POST /api/decks/{deckID}/progress/reset.
func (h *PracticeHandler) ResetProgress(w http.ResponseWriter, r *http.Request) {
	deckID, err := pathUUID(r, "deckID")
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	if err := h.svc.ResetDeckProgress(r.Context(), deckID); err != nil {
		handleError(w, r, h.log, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *PracticeHandler) sessionAction(
	w http.ResponseWriter,
	r *http.Request,
	action func(context.Context, uuid.UUID) (*practice.SessionView, error),
) {
	sessionID, err := pathUUID(r, "sessionID")
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	view, err := action(r.Context(), sessionID)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, toSessionResponse(view))
}

func toSessionResponse(v *practice.SessionView) sessionResponse {
	resp := sessionResponse{
		ID:        v.ID,
		DeckID:    v.DeckID,
		State:     v.State,
		Direction: v.Direction,
		StartedAt: v.StartedAt,
		Recorded:  v.Recorded,
		Progress: progressResponse{
			TotalViewed: v.Progress.TotalViewed,
			TotalCards:  v.Progress.TotalCards,
			Remaining:   v.Progress.Remaining,
			Correct:     v.Progress.Correct,
			Repeat:      v.Progress.Repeat,
			Hard:        v.Progress.Hard,
			Complete:    v.Progress.Complete,
		},
	}
	if v.Card != nil {
		resp.Card = &cardSideResponse{
			ID:       v.Card.ID,
			Question: v.Card.Question,
			Answer:   v.Card.Answer,
			Example:  v.Card.Example,
		}
	}
	return resp
}

func toDeckStatsResponse(s *domain.DeckStats) deckStatsResponse {
	return deckStatsResponse{
		DeckID: s.DeckID,
		Daily: lo.Map(s.Daily, func(d domain.DailyStats, _ int) dailyStatsResponse {
			return dailyStatsResponse{
				Date:          d.Date.Format(dateLayout),
				Sessions:      d.Sessions,
				Viewed:        d.Viewed,
				Correct:       d.Correct,
				Repeat:        d.Repeat,
				Hard:          d.Hard,
				DurationMs:    d.DurationMs,
				AnswerDelayMs: d.AnswerDelayMs,
			}
		}),
		Summary: summaryResponse{
			TotalSessions:    s.Summary.TotalSessions,
			TotalViewed:      s.Summary.TotalViewed,
			TotalCorrect:     s.Summary.TotalCorrect,
			TotalRepeat:      s.Summary.TotalRepeat,
			TotalHard:        s.Summary.TotalHard,
			TotalDurationMs:  s.Summary.TotalDurationMs,
			AccuracyRate:     s.Summary.AccuracyRate,
			AvgAnswerDelayMs: s.Summary.AvgAnswerDelayMs,
			Streak:           s.Summary.Streak,
			KnownCount:       s.Summary.KnownCount,
			TotalCards:       s.Summary.TotalCards,
		},
	}
}
