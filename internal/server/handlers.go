package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ppiankov/pmicheck/internal/eligibility"
	"github.com/ppiankov/pmicheck/internal/model"
	"github.com/ppiankov/pmicheck/internal/report"
	"github.com/ppiankov/pmicheck/internal/session"
	"github.com/ppiankov/pmicheck/internal/survey"
)

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.render(w, http.StatusOK, "index", indexPage())
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	sess, err := s.store.Create(r.Context())
	if err != nil {
		s.log.Error("create session: %v", err)
		http.Error(w, "could not start survey", http.StatusInternalServerError)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    sess.ID,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.cfg.SecureCookie,
		SameSite: http.SameSiteLaxMode,
	})
	s.log.Debug("session %s started", sess.ID)
	http.Redirect(w, r, "/survey", http.StatusSeeOther)
}

func (s *Server) handleSurvey(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.loadSession(w, r)
	if !ok {
		return
	}
	name, p := s.sessionPage(sess, nil, false, r.URL.Query().Get("reveal") == "1")
	s.render(w, http.StatusOK, name, p)
}

func (s *Server) handleAnswer(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	id, ok := sessionID(r)
	if !ok {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	var submitted *model.Answers
	sess, err := s.store.Update(r.Context(), id, func(sess *survey.Session) error {
		state := sess.State()
		if !state.IsStep() {
			return errStale
		}
		if step := r.PostForm.Get("step"); step != "" && step != string(state) {
			return errStale
		}
		answer, err := answerFromForm(state, r.PostForm)
		if err != nil {
			return err
		}
		sess.OnSubmit(func(a model.Answers) {
			submitted = &a
		})
		return sess.Controller().HandleAnswer(answer)
	})

	switch {
	case errors.Is(err, session.ErrNotFound):
		clearCookie(w)
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	case errors.Is(err, errStale):
		http.Redirect(w, r, "/survey", http.StatusSeeOther)
		return
	case errors.Is(err, errReveal):
		http.Redirect(w, r, "/survey?reveal=1", http.StatusSeeOther)
		return
	case err != nil && sess != nil:
		// The step stays put and the form is shown again without a message.
		s.log.Debug("session %s: %v", id, err)
		reveal := sess.State() == model.StateEquityBoost
		name, p := s.sessionPage(sess, r.PostForm, true, reveal)
		s.render(w, http.StatusUnprocessableEntity, name, p)
		return
	case err != nil:
		s.log.Error("session %s: %v", id, err)
		http.Error(w, "could not save answer", http.StatusInternalServerError)
		return
	}

	if submitted != nil {
		s.submit(id, *submitted)
	}
	http.Redirect(w, r, "/survey", http.StatusSeeOther)
}

// resultStatus is the JSON body of GET /survey/result
type resultStatus struct {
	Status   report.Status `json:"status"`
	State    model.State   `json:"state"`
	Pending  bool          `json:"pending"`
	Dots     int           `json:"dots,omitempty"`
	Headline string        `json:"headline,omitempty"`
	HTML     string        `json:"html,omitempty"`
}

func (s *Server) handleResult(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.loadSession(w, r)
	if !ok {
		return
	}

	out := resultStatus{State: sess.State()}
	if out.State == model.StateDone {
		dots := s.dots()
		doc := s.document(sess, dots)
		out.Status = doc.Status
		out.Pending = doc.Status == report.StatusPending
		out.Headline = doc.Headline
		out.HTML = s.renderer.HTML(doc)
		if out.Pending {
			out.Dots = dots
		}
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(out)
}

// submit sends the one eligibility request of a session in the background
// and records its outcome
func (s *Server) submit(id string, answers model.Answers) {
	s.inflight.Add(1)
	go func() {
		defer s.inflight.Done()

		ctx, cancel := eligibility.WithTimeout(s.baseCtx, s.timeout)
		defer cancel()

		result, err := s.checker.Check(ctx, eligibility.BuildRequest(answers))
		if err != nil {
			s.log.Warn("session %s: eligibility check failed: %v", id, err)
		} else {
			s.explain(ctx, id, answers, result)
		}

		_, uerr := s.store.Update(context.Background(), id, func(sess *survey.Session) error {
			if err != nil {
				return sess.SetFailure()
			}
			return sess.SetResult(result)
		})
		if uerr != nil {
			s.log.Error("session %s: record outcome: %v", id, uerr)
			return
		}
		s.log.Debug("session %s: outcome recorded", id)
	}()
}

func (s *Server) explain(ctx context.Context, id string, answers model.Answers, result *model.Result) {
	if !s.summarizer.IsEnabled() {
		return
	}
	text, err := s.summarizer.Explain(ctx, report.Build(answers, result))
	if err != nil {
		s.log.Warn("session %s: %v", id, err)
		return
	}
	if text != "" {
		s.explanations.Add(id, text)
	}
}

// document builds the session's result document with any stored explanation
func (s *Server) document(sess *survey.Session, dots int) report.Document {
	doc := report.ForSession(sess, dots)
	if doc.Status == report.StatusReady {
		if text, ok := s.explanations.Get(sess.ID); ok {
			doc.Explanation = text
		}
	}
	return doc
}

// dots derives the pending indicator from the clock so that stateless
// requests still cycle 1, 2, 3
func (s *Server) dots() int {
	return int(s.now().UnixMilli()/s.tick.Milliseconds())%3 + 1
}

func (s *Server) loadSession(w http.ResponseWriter, r *http.Request) (*survey.Session, bool) {
	id, ok := sessionID(r)
	if !ok {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return nil, false
	}
	sess, err := s.store.Load(r.Context(), id)
	if errors.Is(err, session.ErrNotFound) {
		clearCookie(w)
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return nil, false
	}
	if err != nil {
		s.log.Error("load session %s: %v", id, err)
		http.Error(w, "could not load survey", http.StatusInternalServerError)
		return nil, false
	}
	return sess, true
}

func sessionID(r *http.Request) (string, bool) {
	c, err := r.Cookie(CookieName)
	if err != nil || !session.ValidID(c.Value) {
		return "", false
	}
	return c.Value, true
}

func clearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{Name: CookieName, Value: "", Path: "/", MaxAge: -1})
}
