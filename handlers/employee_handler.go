package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"gorm.io/gorm"

	"github.com/mrk-foods/cardsysbackend/config"
	"github.com/mrk-foods/cardsysbackend/models"
	"github.com/mrk-foods/cardsysbackend/render"
	"github.com/mrk-foods/cardsysbackend/repository"
	"github.com/mrk-foods/cardsysbackend/services"
)

const maxUploadMemory = 10 << 20 // 10 MiB per multipart form

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			log.Printf("Error encoding JSON response: %v", err)
		}
	}
}

type EmployeeHandler struct {
	Repo   repository.EmployeeStore
	Editor *services.Editor
	Cfg    config.Config
}

// ListEmployees returns every record in creation order.
func (eh *EmployeeHandler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	employees, err := eh.Repo.ListAll()
	if err != nil {
		log.Printf("Error listing employees: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to retrieve employees"})
		return
	}
	if employees == nil {
		employees = []models.Employee{}
	}
	writeJSON(w, http.StatusOK, employees)
}

func (eh *EmployeeHandler) GetEmployee(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "employee_id")

	employee, err := eh.Repo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "Employee not found"})
		} else {
			log.Printf("Error getting employee %s: %v", id, err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to retrieve employee"})
		}
		return
	}

	writeJSON(w, http.StatusOK, employee)
}

// CreateEmployee saves a new record from a multipart form carrying the
// profile fields plus optional photo/logo files.
func (eh *EmployeeHandler) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	eh.saveFromForm(w, r, "")
}

// UpdateEmployee overwrites an existing record; assets not replaced in
// this edit are carried forward by the editor.
func (eh *EmployeeHandler) UpdateEmployee(w http.ResponseWriter, r *http.Request) {
	eh.saveFromForm(w, r, chi.URLParam(r, "employee_id"))
}

func (eh *EmployeeHandler) saveFromForm(w http.ResponseWriter, r *http.Request, id string) {
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid multipart form: " + err.Error()})
		return
	}

	wc := services.WorkingCopy{
		ID:                 id,
		Name:               r.FormValue("name"),
		Designation:        r.FormValue("designation"),
		Mobile:             r.FormValue("mobile"),
		Email:              r.FormValue("email"),
		Website:            r.FormValue("website"),
		Address:            r.FormValue("address"),
		Whatsapp:           r.FormValue("whatsapp"),
		GoogleLocationLink: r.FormValue("googleLocationLink"),
		Facebook:           r.FormValue("facebook"),
		Linkedin:           r.FormValue("linkedin"),
		Instagram:          r.FormValue("instagram"),
		CatalogueLink:      r.FormValue("catalogueLink"),
	}

	var err error
	if wc.PhotoData, err = formFileBytes(r, "photo"); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Unreadable photo upload: " + err.Error()})
		return
	}
	if wc.LogoData, err = formFileBytes(r, "logo"); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Unreadable logo upload: " + err.Error()})
		return
	}

	creating := id == ""
	savedID, warnings, err := eh.Editor.Save(r.Context(), wc)
	if err != nil {
		var vErr *services.ValidationError
		if errors.As(err, &vErr) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Missing required field: " + vErr.Field})
			return
		}
		log.Printf("Error saving employee %s: %v", id, err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to save employee"})
		return
	}

	employee, err := eh.Repo.GetByID(savedID)
	if err != nil {
		log.Printf("Error fetching saved employee %s: %v", savedID, err)
		writeJSON(w, http.StatusOK, map[string]interface{}{"id": savedID, "warnings": warnings})
		return
	}

	status := http.StatusOK
	if creating {
		status = http.StatusCreated
	}
	writeJSON(w, status, map[string]interface{}{"employee": employee, "warnings": warnings})
}

// DeleteEmployee removes the record and its hosted assets. The operator
// must confirm intent via confirm=true; a missing id still succeeds.
func (eh *EmployeeHandler) DeleteEmployee(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "employee_id")
	confirmed := r.URL.Query().Get("confirm") == "true"

	err := eh.Editor.Delete(r.Context(), id, confirmed)
	if err != nil {
		if errors.Is(err, services.ErrDeleteNotConfirmed) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Delete requires confirm=true"})
			return
		}
		log.Printf("Error deleting employee %s: %v", id, err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to delete employee"})
		return
	}

	writeJSON(w, http.StatusNoContent, nil)
}

// GetVcard serves the save-contact export for a record.
func (eh *EmployeeHandler) GetVcard(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "employee_id")

	employee, err := eh.Repo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "Employee not found"})
		} else {
			log.Printf("Error getting employee %s for vcard: %v", id, err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to retrieve employee"})
		}
		return
	}

	w.Header().Set("Content-Type", "text/vcard; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+render.VcardFilename(employee)+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(render.Vcard(employee)))
}

// GetQR returns the card link and the QR service URL used by the
// dashboard's QR modal.
func (eh *EmployeeHandler) GetQR(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "employee_id")

	employee, err := eh.Repo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "Employee not found"})
		} else {
			log.Printf("Error getting employee %s for QR: %v", id, err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to retrieve employee"})
		}
		return
	}

	cardURL := render.CardURL(eh.Cfg.PublicBaseURL, employee.ID)
	writeJSON(w, http.StatusOK, map[string]string{
		"name":     employee.Name,
		"card_url": cardURL,
		"qr_url":   render.QRImageURL(cardURL, render.DashboardQRSize, false),
	})
}

func formFileBytes(r *http.Request, field string) ([]byte, error) {
	file, _, err := r.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, nil
		}
		return nil, err
	}
	defer file.Close()
	return io.ReadAll(file)
}
