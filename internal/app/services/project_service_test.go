package services

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/Team-BISHOP/Next-Step---V1-sub001/internal/app/models"
	"github.com/Team-BISHOP/Next-Step---V1-sub001/internal/app/models/dto"
	"github.com/Team-BISHOP/Next-Step---V1-sub001/internal/pkg/apperrors"
)

func TestCreateProject(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	userID := f.db.seedUser(models.RoleStudent, models.Profile{})

	project, err := f.project.Create(ctx, userID, &dto.CreateProjectRequest{
		Title:        "  Campus Map ",
		Description:  "Indoor navigation",
		Technologies: []string{"Go", " go ", "Flutter"},
		ImageURLs:    []string{"https://img.example.com/1.png"},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if project.Title != "Campus Map" || project.UserID != userID {
		t.Errorf("project = %+v", project)
	}
	if !reflect.DeepEqual(project.Technologies, []string{"Go", "Flutter"}) {
		t.Errorf("technologies = %v", project.Technologies)
	}
	if !f.indexer.indexed[project.ID] {
		t.Error("new project must be indexed")
	}
	if got := f.db.profile(userID).Points; got != 30 {
		t.Errorf("points = %d, want 30 from the Builder badge", got)
	}
}

func TestCreateProject_Validation(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	userID := f.db.seedUser(models.RoleStudent, models.Profile{})

	if _, err := f.project.Create(ctx, userID, &dto.CreateProjectRequest{Title: "  "}); !errors.Is(err, apperrors.ErrValidationFailed) {
		t.Errorf("blank title: err = %v", err)
	}
	_, err := f.project.Create(ctx, userID, &dto.CreateProjectRequest{Title: "X", ImageURLs: []string{"not a url"}})
	if !errors.Is(err, apperrors.ErrValidationFailed) {
		t.Errorf("bad image url: err = %v", err)
	}
	if len(f.db.projects) != 0 {
		t.Error("invalid projects must not be stored")
	}
}

func TestProjectOwnership(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	owner := f.db.seedUser(models.RoleStudent, models.Profile{})
	other := f.db.seedUser(models.RoleStudent, models.Profile{})

	project, err := f.project.Create(ctx, owner, &dto.CreateProjectRequest{Title: "Chat bot"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	title := "Hijacked"
	if _, err := f.project.Update(ctx, other, project.ID, &dto.UpdateProjectRequest{Title: &title}); !errors.Is(err, apperrors.ErrPermissionDenied) {
		t.Errorf("foreign update: err = %v", err)
	}
	if err := f.project.Delete(ctx, other, project.ID); !errors.Is(err, apperrors.ErrPermissionDenied) {
		t.Errorf("foreign delete: err = %v", err)
	}

	title = "Chat bot v2"
	updated, err := f.project.Update(ctx, owner, project.ID, &dto.UpdateProjectRequest{Title: &title})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Title != "Chat bot v2" {
		t.Errorf("title = %q", updated.Title)
	}

	if err := f.project.Delete(ctx, owner, project.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if len(f.indexer.deleted) != 1 || f.indexer.deleted[0] != project.ID {
		t.Errorf("index deletions = %v", f.indexer.deleted)
	}
	if _, err := f.project.Get(ctx, project.ID); !errors.Is(err, apperrors.ErrProjectNotFound) {
		t.Errorf("deleted project: err = %v", err)
	}
}

func TestSearchProjects(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	userID := f.db.seedUser(models.RoleStudent, models.Profile{})
	mapProject, _ := f.project.Create(ctx, userID, &dto.CreateProjectRequest{Title: "Campus Map"})
	botProject, _ := f.project.Create(ctx, userID, &dto.CreateProjectRequest{Title: "Study Bot"})

	t.Run("database fallback when the engine is disabled", func(t *testing.T) {
		f.projects.searched = false
		projects, pagination, err := f.project.Search(ctx, "map", 1, 10)
		if err != nil {
			t.Fatalf("Search: %v", err)
		}
		if !f.projects.searched || len(projects) != 1 || projects[0].ID != mapProject.ID {
			t.Errorf("projects = %+v", projects)
		}
		if pagination.TotalItems != 1 {
			t.Errorf("pagination = %+v", pagination)
		}
	})

	t.Run("engine hits are loaded from the database", func(t *testing.T) {
		f.projects.searched = false
		f.indexer.enabled = true
		f.indexer.hits = []int64{botProject.ID}
		defer func() { f.indexer.enabled = false }()

		projects, _, err := f.project.Search(ctx, "anything", 1, 10)
		if err != nil {
			t.Fatalf("Search: %v", err)
		}
		if f.projects.searched || len(projects) != 1 || projects[0].ID != botProject.ID {
			t.Errorf("projects = %+v", projects)
		}
	})

	t.Run("database fallback when the engine fails", func(t *testing.T) {
		f.projects.searched = false
		f.indexer.enabled, f.indexer.failing = true, true
		defer func() { f.indexer.enabled, f.indexer.failing = false, false }()

		projects, _, err := f.project.Search(ctx, "bot", 1, 10)
		if err != nil {
			t.Fatalf("Search: %v", err)
		}
		if !f.projects.searched || len(projects) != 1 || projects[0].ID != botProject.ID {
			t.Errorf("projects = %+v", projects)
		}
	})

	t.Run("blank query", func(t *testing.T) {
		if _, _, err := f.project.Search(ctx, " ", 1, 10); !errors.Is(err, apperrors.ErrValidationFailed) {
			t.Errorf("err = %v", err)
		}
	})
}

func TestReindexProjects(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	userID := f.db.seedUser(models.RoleStudent, models.Profile{})
	f.project.Create(ctx, userID, &dto.CreateProjectRequest{Title: "One"})
	f.project.Create(ctx, userID, &dto.CreateProjectRequest{Title: "Two"})

	if n, err := f.project.Reindex(ctx); err != nil || n != 0 {
		t.Errorf("disabled engine: n = %d, err = %v", n, err)
	}

	f.indexer.enabled = true
	n, err := f.project.Reindex(ctx)
	if err != nil {
		t.Fatalf("Reindex: %v", err)
	}
	if n != 2 || f.indexer.reindexed != 2 {
		t.Errorf("reindexed %d projects, want 2", n)
	}
}

func TestAddProjectImage(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	owner := f.db.seedUser(models.RoleStudent, models.Profile{})
	other := f.db.seedUser(models.RoleStudent, models.Profile{})

	project, err := f.project.Create(ctx, owner, &dto.CreateProjectRequest{Title: "Gallery"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := f.project.CheckImageUpload(ctx, other, project.ID); !errors.Is(err, apperrors.ErrPermissionDenied) {
		t.Errorf("foreign check: err = %v", err)
	}
	if err := f.project.CheckImageUpload(ctx, owner, project.ID); err != nil {
		t.Errorf("owner check: %v", err)
	}
	if _, err := f.project.AddImage(ctx, other, project.ID, "http://localhost/uploads/x.png"); !errors.Is(err, apperrors.ErrPermissionDenied) {
		t.Errorf("foreign upload: err = %v", err)
	}

	for i := 0; i < MaxProjectImages; i++ {
		if _, err := f.project.AddImage(ctx, owner, project.ID, "http://localhost/uploads/x.png"); err != nil {
			t.Fatalf("AddImage %d: %v", i, err)
		}
	}
	if got := len(f.db.projects[project.ID].ImageURLs); got != MaxProjectImages {
		t.Errorf("images = %d, want %d", got, MaxProjectImages)
	}

	if err := f.project.CheckImageUpload(ctx, owner, project.ID); !errors.Is(err, apperrors.ErrValidationFailed) {
		t.Errorf("full project check: err = %v", err)
	}
	if _, err := f.project.AddImage(ctx, owner, project.ID, "http://localhost/uploads/y.png"); !errors.Is(err, apperrors.ErrValidationFailed) {
		t.Errorf("over the cap: err = %v", err)
	}
}
