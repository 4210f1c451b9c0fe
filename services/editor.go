package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/mrk-foods/cardsysbackend/media"
	"github.com/mrk-foods/cardsysbackend/models"
	"github.com/mrk-foods/cardsysbackend/repository"
)

// ValidationError blocks a save; it is reported inline to the operator.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// ErrDeleteNotConfirmed is returned when a delete is attempted without the
// explicit operator confirmation step.
var ErrDeleteNotConfirmed = errors.New("delete requires explicit confirmation")

// WorkingCopy is the transient, not-yet-persisted edit state of one
// record. Photo/logo bytes are set only when the operator attached a
// replacement asset in this edit.
type WorkingCopy struct {
	ID                 string
	Name               string
	Designation        string
	Mobile             string
	Email              string
	Website            string
	Address            string
	Whatsapp           string
	GoogleLocationLink string
	Facebook           string
	Linkedin           string
	Instagram          string
	CatalogueLink      string

	PhotoData []byte
	LogoData  []byte
}

// Editor orchestrates record edits: validate, upload any newly attached
// assets, merge with the stored record and write the full result. Each
// save runs as one sequential unit; concurrent saves of the same id are
// last-write-wins.
type Editor struct {
	Store       repository.EmployeeStore
	Uploader    media.Uploader
	PhotoFolder string
	LogoFolder  string
	MaxSize     int
	JPEGQuality int
	Now         func() time.Time
}

func NewEditor(store repository.EmployeeStore, uploader media.Uploader, photoFolder, logoFolder string, maxSize, jpegQuality int) *Editor {
	return &Editor{
		Store:       store,
		Uploader:    uploader,
		PhotoFolder: photoFolder,
		LogoFolder:  logoFolder,
		MaxSize:     maxSize,
		JPEGQuality: jpegQuality,
		Now:         time.Now,
	}
}

// Load populates a working copy from a stored record. A missing id is
// reported as gorm.ErrRecordNotFound so the caller can fall back to a
// blank form.
func (e *Editor) Load(id string) (*WorkingCopy, error) {
	emp, err := e.Store.GetByID(id)
	if err != nil {
		return nil, err
	}
	return &WorkingCopy{
		ID:                 emp.ID,
		Name:               emp.Name,
		Designation:        emp.Designation,
		Mobile:             emp.Mobile,
		Email:              emp.Email,
		Website:            emp.Website,
		Address:            emp.Address,
		Whatsapp:           emp.Whatsapp,
		GoogleLocationLink: emp.GoogleLocationLink,
		Facebook:           emp.Facebook,
		Linkedin:           emp.Linkedin,
		Instagram:          emp.Instagram,
		CatalogueLink:      emp.CatalogueLink,
	}, nil
}

// Save commits a working copy. The name field is required; everything else
// is optional. A stored asset URL is carried forward unless this edit
// uploaded a replacement, so a partial edit never erases a photo or logo.
// Upload failures do not abort the save; they come back as warnings.
func (e *Editor) Save(ctx context.Context, wc WorkingCopy) (string, []string, error) {
	name := strings.TrimSpace(wc.Name)
	if name == "" {
		return "", nil, &ValidationError{Field: "name", Message: "employee name is required"}
	}

	id := wc.ID
	if id == "" {
		id = e.freshEmployeeID()
	}

	existing, err := e.Store.GetByID(id)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil, err
	}

	var warnings []string
	photoURL, logoURL := "", ""
	if existing != nil {
		photoURL = existing.PhotoURL
		logoURL = existing.LogoURL
	}

	if len(wc.PhotoData) > 0 {
		if url, uploadErr := e.uploadAsset(ctx, wc.PhotoData, e.PhotoFolder); uploadErr != nil {
			log.Printf("editor: photo upload for %s failed: %v", id, uploadErr)
			warnings = append(warnings, "photo upload failed, keeping existing photo: "+uploadErr.Error())
		} else {
			photoURL = url
		}
	}
	if len(wc.LogoData) > 0 {
		if url, uploadErr := e.uploadAsset(ctx, wc.LogoData, e.LogoFolder); uploadErr != nil {
			log.Printf("editor: logo upload for %s failed: %v", id, uploadErr)
			warnings = append(warnings, "logo upload failed, keeping existing logo: "+uploadErr.Error())
		} else {
			logoURL = url
		}
	}

	now := e.Now().UnixMilli()
	createdAt := now
	updatedAt := now
	if existing != nil {
		createdAt = existing.CreatedAt
		if updatedAt <= existing.UpdatedAt {
			updatedAt = existing.UpdatedAt + 1
		}
	}

	emp := &models.Employee{
		ID:                 id,
		Name:               name,
		Designation:        wc.Designation,
		Mobile:             wc.Mobile,
		Email:              wc.Email,
		Website:            wc.Website,
		Address:            wc.Address,
		Whatsapp:           wc.Whatsapp,
		GoogleLocationLink: wc.GoogleLocationLink,
		Facebook:           wc.Facebook,
		Linkedin:           wc.Linkedin,
		Instagram:          wc.Instagram,
		CatalogueLink:      wc.CatalogueLink,
		PhotoURL:           photoURL,
		LogoURL:            logoURL,
		CreatedAt:          createdAt,
		UpdatedAt:          updatedAt,
	}

	if err := e.Store.Put(emp); err != nil {
		return "", warnings, err
	}
	return id, warnings, nil
}

// Delete removes the record and best-effort removes its hosted assets.
// Deleting a missing id completes without error.
func (e *Editor) Delete(ctx context.Context, id string, confirmed bool) error {
	if !confirmed {
		return ErrDeleteNotConfirmed
	}

	existing, err := e.Store.GetByID(id)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	if existing != nil {
		for _, assetURL := range []string{existing.PhotoURL, existing.LogoURL} {
			if assetURL == "" {
				continue
			}
			if err := e.Uploader.Remove(ctx, assetURL); err != nil {
				log.Printf("editor: failed to remove asset for %s: %v", id, err)
			}
		}
	}

	return e.Store.Delete(id)
}

func (e *Editor) uploadAsset(ctx context.Context, data []byte, folder string) (string, error) {
	normalized, _, err := media.Normalize(data, e.MaxSize, e.JPEGQuality)
	if err != nil {
		return "", &media.UploadError{Reason: "image normalization failed", Err: err}
	}
	return e.Uploader.Upload(ctx, normalized, folder)
}

// freshEmployeeID follows the scheme the cards were first minted with,
// "emp" plus the creation timestamp in milliseconds. Back-to-back creates
// inside one millisecond bump forward until the id is unused.
func (e *Editor) freshEmployeeID() string {
	ms := e.Now().UnixMilli()
	for {
		id := "emp" + strconv.FormatInt(ms, 10)
		if _, err := e.Store.GetByID(id); err != nil {
			return id
		}
		ms++
	}
}
