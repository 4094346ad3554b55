package services

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/matchday/tournament-tracker/models"
	"github.com/matchday/tournament-tracker/storage"
	"github.com/matchday/tournament-tracker/store"
)

type fakeUploader struct {
	uploaded []string
	deleted  []string
}

func (f *fakeUploader) Upload(ctx context.Context, key, contentType string, r io.Reader) (*storage.UploadResult, error) {
	if _, err := io.Copy(io.Discard, r); err != nil {
		return nil, err
	}
	f.uploaded = append(f.uploaded, key)
	return &storage.UploadResult{Key: key, Location: "https://cdn.test/" + key}, nil
}

func (f *fakeUploader) Delete(ctx context.Context, key string) error {
	f.deleted = append(f.deleted, key)
	return nil
}

func (f *fakeUploader) GetPublicURL(key string) string {
	return "https://cdn.test/" + key
}

func TestPersonalTeamCRUD(t *testing.T) {
	st := store.NewMemoryStore()
	svc := NewTeamService(st, nil, testLogger())
	ctx := context.Background()

	if _, err := svc.CreatePersonal(ctx, "u1", "football", "  ", nil); !errors.Is(err, ErrTeamNameRequired) {
		t.Fatalf("blank name err = %v", err)
	}

	id, err := svc.CreatePersonal(ctx, "u1", "football", " Ajax ", []string{"Iva", "Max"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	teams, err := svc.ListPersonal(ctx, "u1", "football")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	team, ok := teams[id]
	if !ok || team.Name != "Ajax" || len(team.Players) != 2 {
		t.Fatalf("listed team = %+v", teams)
	}

	// Rosters are scoped per sport.
	other, err := svc.ListPersonal(ctx, "u1", "padel")
	if err != nil {
		t.Fatalf("list other sport: %v", err)
	}
	if len(other) != 0 {
		t.Fatalf("padel roster = %v", other)
	}

	if err := svc.UpdatePersonal(ctx, "u1", "football", id, map[string]interface{}{"sport": "padel"}); !errors.Is(err, ErrValidationFailed) {
		t.Fatalf("disallowed field err = %v", err)
	}
	if err := svc.UpdatePersonal(ctx, "u1", "football", id, map[string]interface{}{"name": "Ajax II"}); err != nil {
		t.Fatalf("update: %v", err)
	}
	teams, _ = svc.ListPersonal(ctx, "u1", "football")
	if teams[id].Name != "Ajax II" || teams[id].UpdatedAt == 0 {
		t.Fatalf("updated team = %+v", teams[id])
	}

	if err := svc.DeletePersonal(ctx, "u1", "football", id); err != nil {
		t.Fatalf("delete: %v", err)
	}
	teams, _ = svc.ListPersonal(ctx, "u1", "football")
	if len(teams) != 0 {
		t.Fatalf("roster after delete = %v", teams)
	}
}

func TestUploadLogo(t *testing.T) {
	st := store.NewMemoryStore()
	up := &fakeUploader{}
	svc := NewTeamService(st, up, testLogger())
	ctx := context.Background()

	writeTournament(t, st, "AAAA11", models.Tournament{
		Config: models.TournamentConfig{Format: models.FormatLeague},
		Admin:  "admin-1",
		Teams: map[string]models.Team{
			"ta": {Name: "Ajax", RequesterUID: "user-2", LogoKey: "logos/AAAA11/ta/old"},
		},
	})

	if _, err := svc.UploadLogo(ctx, "AAAA11", "stranger", "ta", "image/png", strings.NewReader("png")); !errors.Is(err, ErrForbiddenOperation) {
		t.Fatalf("stranger upload err = %v", err)
	}

	url, err := svc.UploadLogo(ctx, "AAAA11", "user-2", "ta", "image/png", strings.NewReader("png"))
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if len(up.uploaded) != 1 || !strings.HasPrefix(up.uploaded[0], "logos/AAAA11/ta/") {
		t.Fatalf("uploaded keys = %v", up.uploaded)
	}
	if url != "https://cdn.test/"+up.uploaded[0] {
		t.Fatalf("url = %q", url)
	}

	var team models.Team
	if err := st.Read(ctx, store.TeamPath("AAAA11", "ta"), &team); err != nil {
		t.Fatalf("read team: %v", err)
	}
	if team.LogoKey != up.uploaded[0] {
		t.Fatalf("logoKey = %q", team.LogoKey)
	}
	// The replaced blob gets cleaned up.
	if len(up.deleted) != 1 || up.deleted[0] != "logos/AAAA11/ta/old" {
		t.Fatalf("deleted keys = %v", up.deleted)
	}
}

func TestUploadLogoWithoutUploader(t *testing.T) {
	svc := NewTeamService(store.NewMemoryStore(), nil, testLogger())
	if _, err := svc.UploadLogo(context.Background(), "AAAA11", "u1", "ta", "image/png", strings.NewReader("x")); !errors.Is(err, ErrUploadsDisabled) {
		t.Fatalf("err = %v", err)
	}
}
