package web

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/pathakanu/pillpal/internal/model"
	"github.com/pathakanu/pillpal/internal/reminder"
)

type dashboardData struct {
	HasDueSoon bool
	Due        []reminder.Entry
	Rows       []reminderRow
	VoiceFiles []model.VoiceFile
}

// reminderRow is a dashboard entry with its voice prompt resolved. VoiceName
// is empty when the referenced file is gone.
type reminderRow struct {
	reminder.Entry
	VoiceID   string
	VoiceName string
}

func (s *Server) dashboard(w http.ResponseWriter, r *http.Request) error {
	user := currentUser(r)
	d, err := s.reminders.Dashboard(r.Context(), user.ID, s.now())
	if err != nil {
		return internalOnly(err)
	}
	files, err := s.voice.List(r.Context(), user.ID)
	if err != nil {
		return internalOnly(err)
	}

	names := make(map[string]string, len(files))
	for _, f := range files {
		names[f.ID] = f.Name
	}
	rows := make([]reminderRow, 0, len(d.Reminders))
	for _, e := range d.Reminders {
		row := reminderRow{Entry: e}
		if e.VoiceFileID != nil {
			row.VoiceID = *e.VoiceFileID
			row.VoiceName = names[row.VoiceID]
		}
		rows = append(rows, row)
	}
	return internalOnly(s.render(w, r, "dashboard", "Dashboard", dashboardData{
		HasDueSoon: d.HasDueSoon,
		Due:        d.Due,
		Rows:       rows,
		VoiceFiles: files,
	}))
}

func (s *Server) showAddReminder(w http.ResponseWriter, r *http.Request) error {
	files, err := s.voice.List(r.Context(), currentUser(r).ID)
	if err != nil {
		return err
	}
	return s.render(w, r, "add_reminder", "Add reminder", files)
}

func (s *Server) addReminder(w http.ResponseWriter, r *http.Request) error {
	_, err := s.reminders.Add(r.Context(), currentUser(r).ID, reminder.AddInput{
		MedicationName: r.PostFormValue("medication_name"),
		Dosage:         r.PostFormValue("dosage"),
		Time:           r.PostFormValue("time"),
		VoiceFileID:    r.PostFormValue("voice_file"),
	}, s.now())
	if err != nil {
		return err
	}
	return s.redirectWithFlash(w, r, pathDashboard, flashSuccess, "Reminder added successfully!")
}

func (s *Server) markTaken(w http.ResponseWriter, r *http.Request) error {
	id := chi.URLParam(r, paramReminderID)
	if err := s.reminders.MarkTaken(r.Context(), currentUser(r).ID, id, s.now()); err != nil {
		return err
	}
	return s.redirectWithFlash(w, r, pathDashboard, flashSuccess, "Medication marked as taken!")
}

func (s *Server) deleteReminder(w http.ResponseWriter, r *http.Request) error {
	id := chi.URLParam(r, paramReminderID)
	if err := s.reminders.Delete(r.Context(), currentUser(r).ID, id); err != nil {
		return err
	}
	return s.redirectWithFlash(w, r, pathDashboard, flashSuccess, "Reminder deleted successfully!")
}

type dueSoonResponse struct {
	DueSoon bool `json:"due_soon"`
	Count   int  `json:"count"`
}

func (s *Server) dueSoon(w http.ResponseWriter, r *http.Request) error {
	n, err := s.reminders.DueSoonCount(r.Context(), currentUser(r).ID, s.now())
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	return json.NewEncoder(w).Encode(dueSoonResponse{DueSoon: n > 0, Count: n})
}
