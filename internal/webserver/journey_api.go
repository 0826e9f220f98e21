package webserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/arcyniiegas/elysium/internal/catalog"
	"github.com/arcyniiegas/elysium/internal/env"
	"github.com/arcyniiegas/elysium/internal/gate"
	"github.com/arcyniiegas/elysium/internal/haptics"
	"github.com/arcyniiegas/elysium/internal/journey"
	"github.com/arcyniiegas/elysium/internal/keepsake"
	"github.com/arcyniiegas/elysium/internal/shared/logger"
	"github.com/arcyniiegas/elysium/internal/wheel"
	"go.uber.org/zap"
)

// stateResponse is the full overlay view of the journey.
type stateResponse struct {
	State      journey.State `json:"state"`
	CurrentDay int           `json:"currentDay"`
	CanSpin    bool          `json:"canSpin"`
	Complete   bool          `json:"complete"`
	Unlocked   bool          `json:"unlocked"`
}

func buildStateResponse() stateResponse {
	s := eng.Snapshot()
	return stateResponse{
		State:      s,
		CurrentDay: s.CurrentDay(),
		CanSpin:    s.CanSpin(),
		Complete:   s.Complete(),
		Unlocked:   gateMachine.Unlocked(),
	}
}

// handleJourneyState returns the current journey state
func handleJourneyState(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(buildStateResponse())
}

// handleRiddle returns the gate riddle for the current day
func handleRiddle(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	s := eng.Snapshot()
	riddle := gate.RiddleFor(s.CurrentDay(), s.Complete())

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"day":      s.CurrentDay(),
		"complete": s.Complete(),
		"question": riddle.Question,
	})
}

// handleUnlock processes a riddle answer
func handleUnlock(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		Answer string `json:"answer"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	s := eng.Snapshot()
	ok := gateMachine.Submit(req.Answer, s.CurrentDay(), s.Complete())
	if ok {
		haptics.Emit(haptics.CueNotificationSuccess)
		BroadcastWSMessage("gate_unlocked", map[string]int{"day": s.CurrentDay()})
	} else {
		haptics.Emit(haptics.CueNotificationError)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]bool{"unlocked": ok})
}

// handleLock re-locks the gate
func handleLock(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	gateMachine.Lock()
	BroadcastWSMessage("gate_locked", map[string]bool{})

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]bool{"unlocked": false})
}

// handleIntro dismisses the one-time intro screen
func handleIntro(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	eng.DismissIntro(time.Now())

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(buildStateResponse())
}

// spinResponse carries everything the overlay needs to animate one spin.
type spinResponse struct {
	Day     int             `json:"day"`
	Outcome journey.Outcome `json:"outcome"`
	Plan    wheel.Plan      `json:"plan"`
	Relic   *catalog.Relic  `json:"relic,omitempty"`
	Echo    *catalog.Echo   `json:"echo,omitempty"`
	State   stateResponse   `json:"state"`
}

// handleSpin resolves and commits one day's spin
func handleSpin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if !gateMachine.Unlocked() {
		http.Error(w, "Gate is locked", http.StatusForbidden)
		return
	}

	day, out, err := eng.ResolveSpin()
	if err != nil {
		if errors.Is(err, journey.ErrJourneySealed) {
			http.Error(w, "Journey is complete", http.StatusConflict)
			return
		}
		logger.Error("Failed to resolve spin", zap.Error(err))
		http.Error(w, "Failed to resolve spin", http.StatusInternalServerError)
		return
	}

	plan, err := wheel.NewPlan(out.Kind)
	if err != nil {
		logger.Error("Failed to plan wheel animation", zap.Error(err))
		http.Error(w, "Failed to plan spin", http.StatusInternalServerError)
		return
	}

	if _, err := eng.CommitSpin(day, out, time.Now()); err != nil {
		if errors.Is(err, journey.ErrStaleSpin) {
			http.Error(w, "Spin already committed", http.StatusConflict)
			return
		}
		http.Error(w, "Journey is complete", http.StatusConflict)
		return
	}

	resp := spinResponse{
		Day:     day,
		Outcome: out,
		Plan:    plan,
	}
	switch out.Kind {
	case journey.KindRelic:
		if relic, ok := catalog.RelicByID(out.ItemID); ok {
			resp.Relic = &relic
			keepsake.PrintRelicTicket(relic, day, nil)
		}
	case journey.KindEcho:
		if echo, ok := catalog.EchoByID(out.ItemID); ok {
			resp.Echo = &echo
			keepsake.PrintEchoTicket(echo, day)
		}
	}
	resp.State = buildStateResponse()

	haptics.Emit(haptics.CueImpactHeavy)
	BroadcastWSMessage("spin_result", resp)

	logger.Info("Spin committed",
		zap.Int("day", day),
		zap.String("kind", string(out.Kind)),
		zap.Int("item_id", out.ItemID))

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// handleSchedule books or clears a museum visit date for a won relic
func handleSchedule(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		var req struct {
			RelicID int    `json:"relicId"`
			Date    string `json:"date"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}

		date, err := parseDate(req.Date)
		if err != nil {
			http.Error(w, "Invalid date", http.StatusBadRequest)
			return
		}

		if err := eng.ScheduleDate(req.RelicID, date, time.Now()); err != nil {
			switch {
			case errors.Is(err, journey.ErrRelicNotCollected):
				http.Error(w, "Relic not collected", http.StatusConflict)
			case errors.Is(err, journey.ErrPastDate):
				http.Error(w, "Date must be in the future", http.StatusBadRequest)
			default:
				http.Error(w, "Failed to schedule", http.StatusInternalServerError)
			}
			return
		}

		relic, _ := catalog.RelicByID(req.RelicID)
		keepsake.PrintRelicTicket(relic, eng.Snapshot().CurrentDay(), &date)
		haptics.Emit(haptics.CueSelection)
		BroadcastWSMessage("visit_scheduled", map[string]interface{}{
			"relicId": req.RelicID,
			"date":    date,
		})

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"relicId":     req.RelicID,
			"date":        date,
			"whatsappUrl": whatsAppURL(relic, date),
			"state":       buildStateResponse(),
		})

	case http.MethodDelete:
		var req struct {
			RelicID int `json:"relicId"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}

		eng.ClearSchedule(req.RelicID)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(buildStateResponse())

	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// handleReset wipes the journey. Debug surface only.
func handleReset(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if !env.Value.DebugMode {
		http.Error(w, "Debug mode not enabled", http.StatusForbidden)
		return
	}

	eng.Reset()
	gateMachine.Lock()
	BroadcastWSMessage("journey_reset", map[string]bool{})

	logger.Info("Journey state reset")

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(buildStateResponse())
}

// parseDate accepts a plain date or a full RFC3339 timestamp.
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		// Book for end of day so "today" counts as future until midnight.
		return t.Add(23*time.Hour + 59*time.Minute), nil
	}
	return time.Time{}, fmt.Errorf("unrecognized date format: %q", s)
}

// whatsAppURL builds the ticket request hand-off message.
func whatsAppURL(relic catalog.Relic, date time.Time) string {
	phone := env.Value.ContactPhone
	if phone == "" {
		return ""
	}
	text := fmt.Sprintf("Hello! I would like to book tickets for %s on %s.",
		relic.Name, keepsake.FormatVisitDate(date))
	return "https://wa.me/" + phone + "?text=" + url.QueryEscape(text)
}
