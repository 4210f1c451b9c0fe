package services

import (
	"bytes"
	"context"
	"image/color"
	"path/filepath"
	"testing"
	"time"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/mrk-foods/cardsysbackend/database"
	"github.com/mrk-foods/cardsysbackend/media"
	"github.com/mrk-foods/cardsysbackend/repository"
)

// fakeUploader records uploads and can be flipped into a failure mode.
type fakeUploader struct {
	fail     bool
	uploaded []string
	removed  []string
}

func (f *fakeUploader) Upload(ctx context.Context, data []byte, folder string) (string, error) {
	if f.fail {
		return "", &media.UploadError{Reason: "backend unavailable"}
	}
	url := "https://cdn.example/" + folder + "/asset" + string(rune('0'+len(f.uploaded)))
	f.uploaded = append(f.uploaded, url)
	return url, nil
}

func (f *fakeUploader) Remove(ctx context.Context, url string) error {
	f.removed = append(f.removed, url)
	return nil
}

func newTestEditor(t *testing.T) (*Editor, *fakeUploader) {
	t.Helper()
	db, err := database.InitGormDB(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrateModels(db))

	uploader := &fakeUploader{}
	editor := NewEditor(repository.NewEmployeeRepository(db), uploader, "card_photos", "card_logos", 800, 75)
	return editor, uploader
}

func sampleImage(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, imaging.Encode(&buf, imaging.New(20, 20, color.NRGBA{R: 9, G: 9, B: 9, A: 255}), imaging.JPEG))
	return buf.Bytes()
}

func TestSaveRequiresName(t *testing.T) {
	editor, _ := newTestEditor(t)

	_, _, err := editor.Save(context.Background(), WorkingCopy{Name: "   "})

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "name", vErr.Field)
}

func TestSaveAssignsIDAndRoundTrips(t *testing.T) {
	editor, _ := newTestEditor(t)

	id, warnings, err := editor.Save(context.Background(), WorkingCopy{
		Name:   "  Jane Doe  ",
		Mobile: "+1 555 0100",
	})
	require.NoError(t, err)
	assert.Empty(t, warnings)
	assert.Regexp(t, `^emp\d+$`, id)

	wc, err := editor.Load(id)
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", wc.Name, "leading and trailing spaces are trimmed")
	assert.Equal(t, "+1 555 0100", wc.Mobile)
}

func TestSaveAdvancesUpdatedAt(t *testing.T) {
	editor, _ := newTestEditor(t)
	clock := time.UnixMilli(5000)
	editor.Now = func() time.Time { return clock }

	id, _, err := editor.Save(context.Background(), WorkingCopy{Name: "Jane"})
	require.NoError(t, err)

	first, err := editor.Store.GetByID(id)
	require.NoError(t, err)

	// a second save in the same millisecond still moves updatedAt forward
	_, _, err = editor.Save(context.Background(), WorkingCopy{ID: id, Name: "Jane Again"})
	require.NoError(t, err)

	second, err := editor.Store.GetByID(id)
	require.NoError(t, err)
	assert.Equal(t, first.CreatedAt, second.CreatedAt)
	assert.Greater(t, second.UpdatedAt, first.UpdatedAt)
}

func TestSaveUploadsAttachedAssets(t *testing.T) {
	editor, uploader := newTestEditor(t)

	id, warnings, err := editor.Save(context.Background(), WorkingCopy{
		Name:      "Jane",
		PhotoData: sampleImage(t),
		LogoData:  sampleImage(t),
	})
	require.NoError(t, err)
	assert.Empty(t, warnings)
	require.Len(t, uploader.uploaded, 2)

	stored, err := editor.Store.GetByID(id)
	require.NoError(t, err)
	assert.Contains(t, stored.PhotoURL, "card_photos")
	assert.Contains(t, stored.LogoURL, "card_logos")
}

func TestSavePreservesAssetsWhenNotReplaced(t *testing.T) {
	editor, _ := newTestEditor(t)

	id, _, err := editor.Save(context.Background(), WorkingCopy{Name: "Jane", PhotoData: sampleImage(t)})
	require.NoError(t, err)
	before, err := editor.Store.GetByID(id)
	require.NoError(t, err)
	require.NotEmpty(t, before.PhotoURL)

	// edit without attaching a new photo
	_, _, err = editor.Save(context.Background(), WorkingCopy{ID: id, Name: "Jane Updated"})
	require.NoError(t, err)

	after, err := editor.Store.GetByID(id)
	require.NoError(t, err)
	assert.Equal(t, before.PhotoURL, after.PhotoURL, "stored asset survives edits that do not replace it")
	assert.Equal(t, "Jane Updated", after.Name)
}

func TestSaveUploadFailureWarnsAndKeepsOldAsset(t *testing.T) {
	editor, uploader := newTestEditor(t)

	id, _, err := editor.Save(context.Background(), WorkingCopy{Name: "Jane", PhotoData: sampleImage(t)})
	require.NoError(t, err)
	before, err := editor.Store.GetByID(id)
	require.NoError(t, err)

	uploader.fail = true
	_, warnings, err := editor.Save(context.Background(), WorkingCopy{ID: id, Name: "Jane", PhotoData: sampleImage(t)})
	require.NoError(t, err, "a failed upload never aborts the save")
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "photo upload failed")

	after, err := editor.Store.GetByID(id)
	require.NoError(t, err)
	assert.Equal(t, before.PhotoURL, after.PhotoURL)
}

func TestSaveRejectsUndecodableAssetWithWarning(t *testing.T) {
	editor, _ := newTestEditor(t)

	id, warnings, err := editor.Save(context.Background(), WorkingCopy{
		Name:      "Jane",
		PhotoData: []byte("not an image"),
	})
	require.NoError(t, err)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "photo upload failed")

	stored, err := editor.Store.GetByID(id)
	require.NoError(t, err)
	assert.Empty(t, stored.PhotoURL)
}

func TestDeleteNeedsConfirmation(t *testing.T) {
	editor, _ := newTestEditor(t)

	err := editor.Delete(context.Background(), "emp1", false)
	assert.ErrorIs(t, err, ErrDeleteNotConfirmed)
}

func TestDeleteRemovesRecordAndAssets(t *testing.T) {
	editor, uploader := newTestEditor(t)

	id, _, err := editor.Save(context.Background(), WorkingCopy{
		Name:      "Jane",
		PhotoData: sampleImage(t),
		LogoData:  sampleImage(t),
	})
	require.NoError(t, err)

	require.NoError(t, editor.Delete(context.Background(), id, true))
	assert.Len(t, uploader.removed, 2)

	_, err = editor.Store.GetByID(id)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestDeleteMissingIDIsNoError(t *testing.T) {
	editor, _ := newTestEditor(t)
	require.NoError(t, editor.Delete(context.Background(), "never-existed", true))
}
