// ABOUTME: Tests for project CRUD and the chat reference multi-entry index
// ABOUTME: Verifies dangling references are tolerated and deletes never cascade to chats
package sqlite

import (
	"errors"
	"testing"

	"github.com/harper/chatstash/internal/models"
)

func testProject(id, name string, updatedAt int64, chatIDs ...string) *models.Project {
	return &models.Project{
		ID:           id,
		Name:         name,
		OwningUserID: "user_1",
		CreationTime: updatedAt,
		UpdatedAt:    updatedAt,
		ChatIDs:      chatIDs,
	}
}

func TestAddAndGetProject(t *testing.T) {
	store := newTestStorage(t)

	project := testProject("p1", "Travel", 100, "c1", "c2")
	project.Description = "trip research"
	if err := store.AddProject(project); err != nil {
		t.Fatalf("AddProject() error = %v", err)
	}

	got := store.GetProject("p1")
	if got == nil {
		t.Fatal("GetProject() returned nil")
	}
	if got.Name != "Travel" || got.Description != "trip research" {
		t.Errorf("got %+v", got)
	}
	if len(got.ChatIDs) != 2 {
		t.Errorf("ChatIDs len = %d, want 2", len(got.ChatIDs))
	}
}

func TestAddProjectRequiresOwner(t *testing.T) {
	store := newTestStorage(t)
	err := store.AddProject(&models.Project{ID: "p1", Name: "no owner"})
	if err == nil {
		t.Error("AddProject() without owning user should fail")
	}
}

func TestAddProjectDuplicate(t *testing.T) {
	store := newTestStorage(t)

	if err := store.AddProject(testProject("p1", "first", 1)); err != nil {
		t.Fatalf("AddProject() error = %v", err)
	}
	err := store.AddProject(testProject("p1", "second", 2))
	if !errors.Is(err, ErrDuplicateID) {
		t.Errorf("second AddProject() error = %v, want ErrDuplicateID", err)
	}
}

func TestUpdateProjectReplacesChatIDs(t *testing.T) {
	store := newTestStorage(t)

	if err := store.AddProject(testProject("p1", "Travel", 100, "c1", "c2")); err != nil {
		t.Fatalf("AddProject() error = %v", err)
	}

	name := "Travel 2026"
	err := store.UpdateProject("p1", &models.ProjectPatch{
		Name:    &name,
		ChatIDs: []string{"c3"},
	})
	if err != nil {
		t.Fatalf("UpdateProject() error = %v", err)
	}

	got := store.GetProject("p1")
	if got.Name != "Travel 2026" {
		t.Errorf("Name = %q, want Travel 2026", got.Name)
	}
	if len(got.ChatIDs) != 1 || got.ChatIDs[0] != "c3" {
		t.Errorf("ChatIDs = %v, want [c3]", got.ChatIDs)
	}

	// Old index entries must be gone
	if n := len(store.ProjectsForChat("c1")); n != 0 {
		t.Errorf("ProjectsForChat(c1) after replace = %d, want 0", n)
	}
}

func TestUpdateProjectNotFound(t *testing.T) {
	store := newTestStorage(t)
	name := "x"
	err := store.UpdateProject("missing", &models.ProjectPatch{Name: &name})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("UpdateProject(missing) error = %v, want ErrNotFound", err)
	}
}

func TestDeleteProjectLeavesChats(t *testing.T) {
	store := newTestStorage(t)

	if err := store.AddChat(testChat("c1", "referenced", 1)); err != nil {
		t.Fatalf("AddChat() error = %v", err)
	}
	if err := store.AddProject(testProject("p1", "doomed", 1, "c1")); err != nil {
		t.Fatalf("AddProject() error = %v", err)
	}

	if err := store.DeleteProject("p1"); err != nil {
		t.Fatalf("DeleteProject() error = %v", err)
	}

	if store.GetProject("p1") != nil {
		t.Error("deleted project still present")
	}
	if store.GetChat("c1") == nil {
		t.Error("referenced chat must survive project deletion")
	}
	if n := len(store.ProjectsForChat("c1")); n != 0 {
		t.Errorf("ProjectsForChat(c1) = %d, want 0", n)
	}

	err := store.DeleteProject("p1")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("DeleteProject(deleted) error = %v, want ErrNotFound", err)
	}
}

func TestProjectChatRefsMayDangle(t *testing.T) {
	store := newTestStorage(t)

	if err := store.AddChat(testChat("c1", "fleeting", 1)); err != nil {
		t.Fatalf("AddChat() error = %v", err)
	}
	if err := store.AddProject(testProject("p1", "holder", 1, "c1")); err != nil {
		t.Fatalf("AddProject() error = %v", err)
	}

	// Deleting the chat performs no cleanup of project references
	if err := store.DeleteChat("c1"); err != nil {
		t.Fatalf("DeleteChat() error = %v", err)
	}

	got := store.GetProject("p1")
	if len(got.ChatIDs) != 1 || got.ChatIDs[0] != "c1" {
		t.Errorf("ChatIDs = %v, want dangling [c1]", got.ChatIDs)
	}
}

func TestListProjectsOrder(t *testing.T) {
	store := newTestStorage(t)

	for _, p := range []*models.Project{
		testProject("p1", "old", 100),
		testProject("p2", "new", 300),
		testProject("p3", "mid", 200),
	} {
		if err := store.AddProject(p); err != nil {
			t.Fatalf("AddProject(%s) error = %v", p.ID, err)
		}
	}

	projects := store.ListProjects()
	if len(projects) != 3 {
		t.Fatalf("ListProjects() len = %d, want 3", len(projects))
	}
	for i, want := range []string{"p2", "p3", "p1"} {
		if projects[i].ID != want {
			t.Errorf("projects[%d].ID = %s, want %s", i, projects[i].ID, want)
		}
	}
}

func TestSearchProjects(t *testing.T) {
	store := newTestStorage(t)

	withDesc := testProject("p1", "Work", 100)
	withDesc.Description = "customer research notes"
	for _, p := range []*models.Project{
		withDesc,
		testProject("p2", "Research Ideas", 200),
		testProject("p3", "Cooking", 300),
	} {
		if err := store.AddProject(p); err != nil {
			t.Fatalf("AddProject(%s) error = %v", p.ID, err)
		}
	}

	got := store.SearchProjects("research")
	if len(got) != 2 {
		t.Fatalf("SearchProjects(research) len = %d, want 2 (name OR description)", len(got))
	}
	if n := len(store.SearchProjects("COOK")); n != 1 {
		t.Errorf("SearchProjects(COOK) len = %d, want 1 (case-insensitive)", n)
	}
}

func TestProjectsForChatMultiEntry(t *testing.T) {
	store := newTestStorage(t)

	if err := store.AddProject(testProject("p1", "a", 100, "c1", "c2")); err != nil {
		t.Fatalf("AddProject() error = %v", err)
	}
	if err := store.AddProject(testProject("p2", "b", 200, "c2")); err != nil {
		t.Fatalf("AddProject() error = %v", err)
	}

	got := store.ProjectsForChat("c2")
	if len(got) != 2 {
		t.Fatalf("ProjectsForChat(c2) len = %d, want 2", len(got))
	}
	if got := store.ProjectsForChat("c1"); len(got) != 1 || got[0].ID != "p1" {
		t.Errorf("ProjectsForChat(c1) = %+v, want just p1", got)
	}
}
